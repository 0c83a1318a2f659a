// Package schema generates JSON Schema from the hookrouter config types.
package schema

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/invopop/jsonschema"

	"github.com/smykla-skalski/hookrouter/pkg/config"
)

const (
	schemaURI = "https://json-schema.org/draft/2020-12/schema"
	title     = "hookrouter configuration"

	filename = "config.schema.json"

	// SchemaURL is where released schemas are published.
	SchemaURL = "https://raw.githubusercontent.com/smykla-skalski/hookrouter/main/schema/" + filename
)

// Filename returns the file name the schema is published under.
func Filename() string {
	return filename
}

// SchemaDirective returns the Taplo comment that binds a TOML file to the schema.
func SchemaDirective() string {
	return "#:schema " + SchemaURL
}

// Generate produces a JSON Schema from the config.Config struct.
func Generate() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		ExpandedStruct: true,
	}

	s := r.Reflect(&config.Config{})
	s.Version = schemaURI
	s.Title = title

	return s
}

// GenerateJSON produces a JSON Schema as bytes.
// When indent is true, the output is pretty-printed.
func GenerateJSON(indent bool) ([]byte, error) {
	s := Generate()

	var (
		data []byte
		err  error
	)

	if indent {
		data, err = json.MarshalIndent(s, "", "  ")
	} else {
		data, err = json.Marshal(s)
	}

	if err != nil {
		return nil, errors.Wrap(err, "marshaling schema to JSON")
	}

	// Append trailing newline for file output.
	return append(data, '\n'), nil
}
