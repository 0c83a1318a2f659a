package crashdump

import (
	"crypto/rand"
	"fmt"
	"os"
	"os/user"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/smykla-skalski/hookrouter/pkg/config"
	"github.com/smykla-skalski/hookrouter/pkg/event"
)

const panicNilStr = "panic(nil)"

// formatPanicValue renders a recovered value. panic(nil) surfaces as
// *runtime.PanicNilError since Go 1.21.
func formatPanicValue(v any) string {
	if v == nil {
		return panicNilStr
	}

	type panicNilError interface {
		error
		RuntimeError()
	}

	if _, ok := v.(panicNilError); ok {
		return panicNilStr
	}

	if err, ok := v.(error); ok {
		return err.Error()
	}

	return fmt.Sprintf("%v", v)
}

// Collector gathers crash information from a recovered panic.
type Collector struct {
	version   string
	sanitizer *Sanitizer
	now       func() time.Time
}

// NewCollector creates a collector stamping dumps with version.
func NewCollector(version string) *Collector {
	return &Collector{
		version:   version,
		sanitizer: NewSanitizer(),
		now:       time.Now,
	}
}

// Collect builds a dump. ev and cfg may be nil when the panic happened
// before the event was decoded or the config was loaded.
func (c *Collector) Collect(recovered any, ev *event.Event, cfg *config.Config) *CrashInfo {
	now := c.now().UTC()

	info := &CrashInfo{
		ID:         NewID(now),
		Timestamp:  now,
		PanicValue: formatPanicValue(recovered),
		StackTrace: string(debug.Stack()),
		Runtime:    collectRuntime(),
		Metadata:   c.collectMetadata(),
	}

	if ev != nil {
		info.Event = collectEvent(ev)
	}

	if cfg != nil {
		info.Config = c.sanitizer.SanitizeConfig(cfg)
	}

	return info
}

// NewID returns a sortable dump ID: crash-<ulid>.
func NewID(t time.Time) string {
	return "crash-" + ulid.MustNew(ulid.Timestamp(t), rand.Reader).String()
}

func collectRuntime() RuntimeInfo {
	return RuntimeInfo{
		GOOS:         runtime.GOOS,
		GOARCH:       runtime.GOARCH,
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
	}
}

func collectEvent(ev *event.Event) *EventInfo {
	return &EventInfo{
		Host:          ev.Host,
		Kind:          ev.Kind.String(),
		HostEventName: ev.HostEventName,
		SessionID:     ev.SessionID,
		ToolName:      ev.ToolName,
		Path:          ev.Path(),
		Command:       ev.Command(),
	}
}

func (c *Collector) collectMetadata() DumpMetadata {
	meta := DumpMetadata{Version: c.version}

	if u, err := user.Current(); err == nil {
		meta.User = u.Username
	}

	if hostname, err := os.Hostname(); err == nil {
		meta.Hostname = hostname
	}

	if wd, err := os.Getwd(); err == nil {
		meta.WorkingDir = wd
	}

	return meta
}
