package crashdump

import (
	"time"

	"github.com/smykla-skalski/hookrouter/internal/xdg"
	"github.com/smykla-skalski/hookrouter/pkg/config"
	"github.com/smykla-skalski/hookrouter/pkg/event"
)

// Recorder writes a dump for a recovered panic and enforces retention.
type Recorder struct {
	collector *Collector
	store     *Store
	maxDumps  int
	maxAge    time.Duration
}

// NewRecorder builds a recorder from cfg. It returns nil when dumps are
// disabled. A nil cfg means defaults.
func NewRecorder(version string, cfg *config.Config) (*Recorder, error) {
	var dc *config.CrashDumpConfig
	if cfg != nil {
		dc = cfg.CrashDump
	}

	if !dc.IsEnabled() {
		return nil, nil //nolint:nilnil // disabled is not an error
	}

	dir := xdg.CrashDumpDir()
	if dc != nil && dc.Dir != "" {
		dir = dc.Dir
	}

	store, err := NewStore(dir)
	if err != nil {
		return nil, err
	}

	return &Recorder{
		collector: NewCollector(version),
		store:     store,
		maxDumps:  dc.GetMaxDumps(),
		maxAge:    dc.GetMaxAge(),
	}, nil
}

// Store returns the underlying store.
func (r *Recorder) Store() *Store {
	return r.store
}

// Record writes the dump and prunes. The new dump is always kept and
// pruning failures are ignored.
func (r *Recorder) Record(recovered any, ev *event.Event, cfg *config.Config) (string, error) {
	info := r.collector.Collect(recovered, ev, cfg)

	path, err := r.store.Write(info)
	if err != nil {
		return "", err
	}

	_, _ = r.store.Prune(max(r.maxDumps, 1), r.maxAge, info.Timestamp)

	return path, nil
}
