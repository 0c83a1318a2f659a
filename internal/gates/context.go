package gates

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/hookrouter/internal/gate"
	"github.com/smykla-skalski/hookrouter/internal/session"
	"github.com/smykla-skalski/hookrouter/internal/xdg"
	"github.com/smykla-skalski/hookrouter/pkg/config"
	"github.com/smykla-skalski/hookrouter/pkg/event"
	"github.com/smykla-skalski/hookrouter/pkg/logger"
)

const truncatedMarker = "\n[truncated]"

// ErrNoContextSource is returned when a context gate has neither text nor file.
var ErrNoContextSource = errors.New("text or file is required")

// Context injects static text and/or a file's content as agent context.
type Context struct {
	text     string
	file     string
	maxBytes int64
	log      logger.Logger
}

// NewContext creates a context gate.
func NewContext(opts config.ContextOptions, log logger.Logger) (*Context, error) {
	if strings.TrimSpace(opts.Text) == "" && opts.File == "" {
		return nil, ErrNoContextSource
	}

	maxBytes := opts.MaxBytes
	if maxBytes <= 0 {
		maxBytes = config.DefaultContextMaxBytes
	}

	return &Context{
		text:     strings.TrimSpace(opts.Text),
		file:     opts.File,
		maxBytes: int64(maxBytes),
		log:      log,
	}, nil
}

// Evaluate reads the file on every event; a missing file contributes nothing.
func (g *Context) Evaluate(_ context.Context, ev *event.Event, _ session.State) (*gate.Verdict, error) {
	parts := make([]string, 0, 2) //nolint:mnd // text + file
	if g.text != "" {
		parts = append(parts, g.text)
	}

	if g.file != "" {
		content, err := g.readFile(xdg.Resolve(g.file, ev.Cwd))
		if err != nil {
			return nil, err
		}

		if content != "" {
			parts = append(parts, content)
		}
	}

	if len(parts) == 0 {
		return gate.Allow(), nil
	}

	return gate.Allow().WithContext(strings.Join(parts, "\n\n")), nil
}

func (g *Context) readFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			g.log.Debug("context file missing", "path", path)

			return "", nil
		}

		return "", errors.Wrapf(err, "opening context file %s", path)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, g.maxBytes+1))
	if err != nil {
		return "", errors.Wrapf(err, "reading context file %s", path)
	}

	if int64(len(data)) > g.maxBytes {
		return strings.TrimSpace(string(data[:g.maxBytes])) + truncatedMarker, nil
	}

	return strings.TrimSpace(string(data)), nil
}
