package crashdump

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/smykla-skalski/hookrouter/pkg/config"
)

// minSecretLength is the shortest value inspected for secret prefixes.
const minSecretLength = 16

const redactedValue = "[REDACTED]"

// Gate options are free-form, so command env blocks and webhook headers can
// carry credentials.
var sensitiveKeys = regexp.MustCompile(`(?i)token|secret|password|passwd|credential|auth|api[-_]?key|private[-_]?key`)

var secretPrefixes = []string{
	"sk-",
	"ghp_",
	"gho_",
	"ghs_",
	"ghr_",
	"github_pat_",
	"AKIA",
	"xoxb-",
	"xoxp-",
	"Bearer ",
}

// Sanitizer strips credentials from a config before it is dumped.
type Sanitizer struct{}

// NewSanitizer creates a sanitizer.
func NewSanitizer() *Sanitizer {
	return &Sanitizer{}
}

// SanitizeConfig converts cfg to a generic map with sensitive values redacted.
func (s *Sanitizer) SanitizeConfig(cfg *config.Config) map[string]any {
	if cfg == nil {
		return nil
	}

	data, err := json.Marshal(cfg)
	if err != nil {
		return map[string]any{"error": "failed to serialize config"}
	}

	var result map[string]any
	if err := json.Unmarshal(data, &result); err != nil {
		return map[string]any{"error": "failed to deserialize config"}
	}

	s.sanitizeMap(result)

	return result
}

func (s *Sanitizer) sanitizeMap(m map[string]any) {
	for key, value := range m {
		if sensitiveKeys.MatchString(key) {
			m[key] = redactedValue

			continue
		}

		switch v := value.(type) {
		case map[string]any:
			s.sanitizeMap(v)
		case []any:
			s.sanitizeSlice(v)
		case string:
			if isSensitiveValue(v) {
				m[key] = redactedValue
			}
		}
	}
}

func (s *Sanitizer) sanitizeSlice(slice []any) {
	for i, value := range slice {
		switch v := value.(type) {
		case map[string]any:
			s.sanitizeMap(v)
		case []any:
			s.sanitizeSlice(v)
		case string:
			if isSensitiveValue(v) {
				slice[i] = redactedValue
			}
		}
	}
}

// isSensitiveValue reports whether v looks like a token. Env entries in
// KEY=value form are checked by both key and value.
func isSensitiveValue(v string) bool {
	if key, val, ok := strings.Cut(v, "="); ok && !strings.ContainsAny(key, " /") {
		if sensitiveKeys.MatchString(key) {
			return true
		}

		v = val
	}

	if len(v) < minSecretLength {
		return false
	}

	for _, prefix := range secretPrefixes {
		if strings.HasPrefix(v, prefix) {
			return true
		}
	}

	return false
}
