package config

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/invopop/jsonschema"
)

// ErrNegativeDuration is returned when a negative duration is provided.
var ErrNegativeDuration = errors.New("duration must be non-negative")

// durationPattern matches strings accepted by time.ParseDuration.
const durationPattern = `^([0-9]+(\.[0-9]+)?(ns|us|µs|ms|s|m|h))+$`

// Duration wraps time.Duration for TOML parsing.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML parsing.
func (d *Duration) UnmarshalText(text []byte) error {
	dur, err := time.ParseDuration(string(text))
	if err != nil {
		return errors.Wrap(err, "invalid duration")
	}

	if dur < 0 {
		return errors.Wrapf(ErrNegativeDuration, "got %s", dur)
	}

	*d = Duration(dur)

	return nil
}

// MarshalText implements encoding.TextMarshaler for TOML serialization.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// String returns the string representation of the duration.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// ToDuration converts Duration to time.Duration.
func (d Duration) ToDuration() time.Duration {
	return time.Duration(d)
}

// JSONSchema returns the JSON Schema for the Duration type.
func (Duration) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "string",
		Pattern:     durationPattern,
		Description: "Go duration string",
		Examples:    []any{"500ms", "3s", "1m"},
	}
}

// ByteSize is a size in bytes. Config files may use a plain integer or a
// string with a binary unit suffix such as "16KB" or "1MiB".
type ByteSize int64

// Common byte size constants.
const (
	KB ByteSize = 1024
	MB ByteSize = 1024 * KB
	GB ByteSize = 1024 * MB
)

// ErrInvalidByteSize is returned for sizes that cannot be parsed.
var ErrInvalidByteSize = errors.New("invalid byte size")

var byteUnits = map[string]ByteSize{
	"":    1,
	"b":   1,
	"k":   KB,
	"kb":  KB,
	"kib": KB,
	"m":   MB,
	"mb":  MB,
	"mib": MB,
	"g":   GB,
	"gb":  GB,
	"gib": GB,
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *ByteSize) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))

	split := strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' })
	if split < 0 {
		split = len(s)
	}

	if split == 0 {
		return errors.Wrapf(ErrInvalidByteSize, "%q", s)
	}

	n, err := strconv.ParseInt(s[:split], 10, 64)
	if err != nil {
		return errors.Wrapf(ErrInvalidByteSize, "%q", s)
	}

	unit, ok := byteUnits[strings.ToLower(strings.TrimSpace(s[split:]))]
	if !ok {
		return errors.Wrapf(ErrInvalidByteSize, "unknown unit in %q", s)
	}

	*b = ByteSize(n) * unit

	return nil
}

// JSONSchema returns the JSON Schema for the ByteSize type.
func (ByteSize) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		OneOf: []*jsonschema.Schema{
			{Type: "integer", Minimum: json.Number("0")},
			{Type: "string", Pattern: `^[0-9]+\s*([KkMmGg]([Ii]?[Bb])?|[Bb])?$`},
		},
		Description: "Size in bytes, or a number with a KB/MB/GB suffix",
		Examples:    []any{16384, "16KB"},
	}
}
