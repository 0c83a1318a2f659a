package config

import (
	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/hookrouter/internal/host"
	"github.com/smykla-skalski/hookrouter/pkg/config"
	"github.com/smykla-skalski/hookrouter/pkg/event"
)

// ContractOverrides converts the [hosts.<name>.exit_codes.<kind>] tables to
// host contract overrides.
func ContractOverrides(cfg *config.Config) (map[string]map[event.Kind]host.ContractOverride, error) {
	if cfg == nil || len(cfg.Hosts) == 0 {
		return nil, nil
	}

	out := make(map[string]map[event.Kind]host.ContractOverride, len(cfg.Hosts))

	var errs []error

	for name, hc := range cfg.Hosts {
		if hc == nil {
			continue
		}

		perKind := make(map[event.Kind]host.ContractOverride, len(hc.ExitCodes))

		for kindName, codes := range hc.ExitCodes {
			kind, err := event.ParseKind(kindName)
			if err != nil {
				errs = append(errs, errors.Wrapf(err, "hosts.%s.exit_codes", name))

				continue
			}

			if codes == nil {
				continue
			}

			perKind[kind] = host.ContractOverride{
				Allow: codes.Allow,
				Warn:  codes.Warn,
				Ask:   codes.Ask,
				Block: codes.Block,
				Deny:  codes.Deny,
			}
		}

		out[name] = perKind
	}

	if len(errs) > 0 {
		return nil, combineErrors(errs)
	}

	return out, nil
}

// HostSet builds the host adapters with configured exit code overrides.
func HostSet(cfg *config.Config) (*host.Set, error) {
	overrides, err := ContractOverrides(cfg)
	if err != nil {
		return nil, err
	}

	return host.Defaults(overrides)
}
