package crashdump

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/hookrouter/internal/xdg"
)

const (
	// FilePerm is the file permission for dump files.
	FilePerm fs.FileMode = 0o600

	// DirPerm is the permission for the dump directory.
	DirPerm fs.FileMode = 0o700

	// FileExtension is the dump file extension.
	FileExtension = ".json"

	tempSuffix  = ".tmp"
	maxPanicLen = 80
)

var (
	// ErrWriteFailed is returned when writing a dump fails.
	ErrWriteFailed = errors.New("failed to write crash dump")

	// ErrInvalidDumpDir is returned when the dump directory is unusable.
	ErrInvalidDumpDir = errors.New("invalid dump directory")

	// ErrDumpNotFound is returned when no dump has the requested ID.
	ErrDumpNotFound = errors.New("crash dump not found")
)

// Store keeps crash dumps as one JSON file per dump.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir. "~" is expanded.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.Wrap(ErrInvalidDumpDir, "dump directory cannot be empty")
	}

	expanded, err := xdg.ExpandPath(dir)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidDumpDir, err.Error())
	}

	return &Store{dir: expanded}, nil
}

// Dir returns the dump directory.
func (s *Store) Dir() string {
	return s.dir
}

// Write stores info atomically and returns the file path.
func (s *Store) Write(info *CrashInfo) (string, error) {
	if info == nil {
		return "", errors.Wrap(ErrWriteFailed, "crash info is nil")
	}

	if err := os.MkdirAll(s.dir, DirPerm); err != nil {
		return "", errors.Wrap(ErrInvalidDumpDir, err.Error())
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return "", errors.Wrap(ErrWriteFailed, "failed to marshal crash info")
	}

	path := s.path(info.ID)
	tmp := path + tempSuffix

	if err := os.WriteFile(tmp, data, FilePerm); err != nil {
		return "", errors.Wrap(ErrWriteFailed, err.Error())
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)

		return "", errors.Wrap(ErrWriteFailed, err.Error())
	}

	return path, nil
}

// List returns summaries of all readable dumps, newest first. Corrupt files
// are skipped.
func (s *Store) List() ([]DumpSummary, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []DumpSummary{}, nil
		}

		return nil, errors.Wrap(err, "failed to read dump directory")
	}

	summaries := make([]DumpSummary, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), FileExtension) {
			continue
		}

		summary, err := s.summary(entry)
		if err != nil {
			continue
		}

		summaries = append(summaries, summary)
	}

	slices.SortFunc(summaries, func(a, b DumpSummary) int {
		if c := b.Timestamp.Compare(a.Timestamp); c != 0 {
			return c
		}

		return strings.Compare(b.ID, a.ID)
	})

	return summaries, nil
}

func (s *Store) summary(entry fs.DirEntry) (DumpSummary, error) {
	path := filepath.Join(s.dir, entry.Name())

	info, err := load(path)
	if err != nil {
		return DumpSummary{}, err
	}

	stat, err := entry.Info()
	if err != nil {
		return DumpSummary{}, errors.Wrap(err, "failed to stat dump file")
	}

	panicValue := info.PanicValue
	if len(panicValue) > maxPanicLen {
		panicValue = panicValue[:maxPanicLen] + "..."
	}

	summary := DumpSummary{
		ID:         info.ID,
		Timestamp:  info.Timestamp,
		PanicValue: panicValue,
		FilePath:   path,
		Size:       stat.Size(),
	}

	if info.Event != nil {
		summary.Kind = info.Event.Kind
	}

	return summary, nil
}

// Get loads the dump with the given ID.
func (s *Store) Get(id string) (*CrashInfo, error) {
	if !validID(id) {
		return nil, errors.Wrapf(ErrDumpNotFound, "ID: %s", id)
	}

	return load(s.path(id))
}

// Delete removes the dump with the given ID.
func (s *Store) Delete(id string) error {
	if !validID(id) {
		return errors.Wrapf(ErrDumpNotFound, "ID: %s", id)
	}

	if err := os.Remove(s.path(id)); err != nil {
		if os.IsNotExist(err) {
			return errors.Wrapf(ErrDumpNotFound, "ID: %s", id)
		}

		return errors.Wrap(err, "failed to delete dump file")
	}

	return nil
}

// Expired returns the dumps Prune would remove: those older than maxAge,
// then the oldest beyond maxDumps. A zero maxAge disables the age check.
func (s *Store) Expired(maxDumps int, maxAge time.Duration, now time.Time) ([]DumpSummary, error) {
	summaries, err := s.List()
	if err != nil {
		return nil, err
	}

	var expired []DumpSummary

	kept := 0

	for _, summary := range summaries {
		tooOld := maxAge > 0 && now.Sub(summary.Timestamp) > maxAge
		if !tooOld && kept < maxDumps {
			kept++

			continue
		}

		expired = append(expired, summary)
	}

	return expired, nil
}

// Prune deletes the dumps selected by Expired and returns how many were
// removed.
func (s *Store) Prune(maxDumps int, maxAge time.Duration, now time.Time) (int, error) {
	expired, err := s.Expired(maxDumps, maxAge, now)
	if err != nil {
		return 0, err
	}

	removed := 0

	for _, summary := range expired {
		if err := s.Delete(summary.ID); err != nil {
			continue
		}

		removed++
	}

	return removed, nil
}

func (s *Store) path(id string) string {
	return filepath.Join(s.dir, id+FileExtension)
}

// validID rejects IDs that would escape the dump directory.
func validID(id string) bool {
	return id != "" && !strings.ContainsAny(id, `/\`) && id != "." && id != ".."
}

func load(path string) (*CrashInfo, error) {
	// #nosec G304 - path is built from the dump directory and a validated ID
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrDumpNotFound, "file: %s", path)
		}

		return nil, errors.Wrap(err, "failed to read dump file")
	}

	var info CrashInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal dump file")
	}

	return &info, nil
}
