package crashdump

import (
	"testing"

	internalconfig "github.com/smykla-skalski/hookrouter/internal/config"
	"github.com/smykla-skalski/hookrouter/pkg/config"
)

func TestSanitizeConfig(t *testing.T) {
	cfg := internalconfig.DefaultConfig()
	cfg.Gates = append(cfg.Gates, config.GateConfig{
		Name: "audit",
		Type: "command",
		Options: map[string]any{
			"command":   "/usr/local/bin/audit",
			"api_token": "short",
			"env": []any{
				"GITHUB_TOKEN=abc",
				"MODE=strict",
				"SERVICE=sk-abcdefghijklmnopqrstuvwxyz",
			},
		},
	})

	got := NewSanitizer().SanitizeConfig(cfg)

	gates, ok := got["gates"].([]any)
	if !ok {
		t.Fatalf("gates = %T, want []any", got["gates"])
	}

	audit, ok := gates[len(gates)-1].(map[string]any)
	if !ok {
		t.Fatalf("gate = %T", gates[len(gates)-1])
	}

	opts := audit["options"].(map[string]any)

	if opts["command"] != "/usr/local/bin/audit" {
		t.Errorf("command = %v, want untouched", opts["command"])
	}

	if opts["api_token"] != redactedValue {
		t.Errorf("api_token = %v, want redacted", opts["api_token"])
	}

	env := opts["env"].([]any)
	want := []any{redactedValue, "MODE=strict", redactedValue}

	for i := range want {
		if env[i] != want[i] {
			t.Errorf("env[%d] = %v, want %v", i, env[i], want[i])
		}
	}
}

func TestSanitizeConfigNil(t *testing.T) {
	if got := NewSanitizer().SanitizeConfig(nil); got != nil {
		t.Errorf("SanitizeConfig(nil) = %v, want nil", got)
	}
}

func TestIsSensitiveValue(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"", false},
		{"sk-short", false},
		{"sk-1234567890abcdefghij", true},
		{"ghp_1234567890abcdefghij", true},
		{"Bearer abcdefghijklmnop", true},
		{"PASSWORD=x", true},
		{"event.kind == 'before-tool'", false},
		{"/etc/**", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			if got := isSensitiveValue(tt.value); got != tt.want {
				t.Errorf("isSensitiveValue(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}
