package config

import (
	"github.com/go-viper/mapstructure/v2"

	"github.com/smykla-skalski/hookrouter/pkg/config"
)

// CustomDecoderConfig returns a mapstructure decoder config that understands
// config.Duration and config.ByteSize strings.
func CustomDecoderConfig(result any) *mapstructure.DecoderConfig {
	return &mapstructure.DecoderConfig{
		DecodeHook:       config.DecodeHook(),
		Metadata:         nil,
		Result:           result,
		TagName:          "koanf",
		WeaklyTypedInput: true,
	}
}
