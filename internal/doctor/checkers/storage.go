package checkers

import (
	"context"
	"fmt"
	"os"

	"github.com/smykla-skalski/hookrouter/internal/crashdump"
	"github.com/smykla-skalski/hookrouter/internal/doctor"
	"github.com/smykla-skalski/hookrouter/internal/taskstore"
	"github.com/smykla-skalski/hookrouter/internal/xdg"
)

// TaskStoreChecker verifies the task store is readable when enabled. A
// broken store only degrades task gates to warnings, so failures are warnings.
type TaskStoreChecker struct{ in Input }

func (*TaskStoreChecker) Name() string              { return "task-store" }
func (*TaskStoreChecker) Category() doctor.Category { return doctor.CategoryStorage }

func (c *TaskStoreChecker) Check(ctx context.Context) doctor.CheckResult {
	if c.in.Config == nil {
		return doctor.Skip(c.Name(), skipNoConfig)
	}

	sc := c.in.Config.GetTaskStore()
	if !sc.IsEnabled() {
		return doctor.Skip(c.Name(), "task store disabled")
	}

	path := xdg.ExpandPathSilent(sc.Path)
	if path == "" {
		path = xdg.TaskStoreFile()
	}

	store := taskstore.New(path, taskstore.WithTimeout(sc.Timeout.ToDuration()))
	defer store.Close()

	n, err := store.Count(ctx)
	if err != nil {
		return doctor.FailWarning(c.Name(), "task store unavailable").WithDetails(err.Error())
	}

	return doctor.Pass(c.Name(), fmt.Sprintf("%d task(s) in %s", n, path))
}

// StateDirChecker verifies the state directory is writable.
type StateDirChecker struct{ in Input }

func (*StateDirChecker) Name() string              { return "state-dir" }
func (*StateDirChecker) Category() doctor.Category { return doctor.CategoryState }

func (c *StateDirChecker) Check(context.Context) doctor.CheckResult {
	if c.in.StateDir == "" {
		return doctor.Skip(c.Name(), "no state directory")
	}

	if err := xdg.EnsureDir(c.in.StateDir); err != nil {
		return doctor.FailWarning(c.Name(), "state directory cannot be created").WithDetails(err.Error())
	}

	f, err := os.CreateTemp(c.in.StateDir, ".doctor-*")
	if err != nil {
		return doctor.FailWarning(c.Name(), "state directory is not writable").WithDetails(err.Error())
	}

	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)

	return doctor.Pass(c.Name(), c.in.StateDir+" is writable")
}

// CrashDumpChecker reports crash dumps left by earlier panics.
type CrashDumpChecker struct{ in Input }

func (*CrashDumpChecker) Name() string              { return "crash-dumps" }
func (*CrashDumpChecker) Category() doctor.Category { return doctor.CategoryState }

func (c *CrashDumpChecker) Check(context.Context) doctor.CheckResult {
	if c.in.CrashDir == "" {
		return doctor.Skip(c.Name(), "crash dumps disabled")
	}

	store, err := crashdump.NewStore(c.in.CrashDir)
	if err != nil {
		return doctor.FailWarning(c.Name(), err.Error())
	}

	summaries, err := store.List()
	if err != nil {
		return doctor.FailWarning(c.Name(), err.Error())
	}

	if len(summaries) == 0 {
		return doctor.Pass(c.Name(), "no crash dumps")
	}

	return doctor.FailWarning(
		c.Name(),
		fmt.Sprintf("%d crash dump(s), newest %s", len(summaries), summaries[0].ID),
	).WithDetails("inspect with: hookrouter crash list")
}
