package config

import (
	"maps"

	"github.com/smykla-skalski/hookrouter/pkg/config"
)

// mergeGates merges gate layers by name, lowest precedence first. A later
// gate replaces every field it sets; unset fields, including an empty type,
// are inherited from the earlier gate of the same name. Order follows first
// appearance.
func mergeGates(layers ...[]config.GateConfig) []config.GateConfig {
	var (
		merged []config.GateConfig
		index  = make(map[string]int)
	)

	for _, layer := range layers {
		for _, g := range layer {
			i, ok := index[g.Name]
			if !ok || g.Name == "" {
				index[g.Name] = len(merged)
				merged = append(merged, g)

				continue
			}

			merged[i] = overlayGate(merged[i], g)
		}
	}

	return merged
}

func overlayGate(base, override config.GateConfig) config.GateConfig {
	out := base

	if override.Type != "" && override.Type != base.Type {
		// A different implementation shares nothing with the old one.
		out = config.GateConfig{Name: base.Name, Type: override.Type}
	}

	if override.Description != "" {
		out.Description = override.Description
	}

	if override.Mode != "" {
		out.Mode = override.Mode
	}

	if override.Timeout != 0 {
		out.Timeout = override.Timeout
	}

	if override.Enabled != nil {
		out.Enabled = override.Enabled
	}

	if override.Tools != nil {
		out.Tools = override.Tools
	}

	if override.ToolPattern != "" {
		out.ToolPattern = override.ToolPattern
	}

	if override.Paths != nil {
		out.Paths = override.Paths
	}

	if override.Options != nil {
		opts := maps.Clone(out.Options)
		if opts == nil {
			opts = make(map[string]any, len(override.Options))
		}

		maps.Copy(opts, override.Options)
		out.Options = opts
	}

	return out
}
