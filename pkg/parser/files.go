package parser

import "fmt"

// TouchOp is the kind of filesystem mutation a command performs on a path.
type TouchOp int

const (
	// TouchOpNone indicates no mutation.
	TouchOpNone TouchOp = iota
	// TouchOpRedirect indicates output redirection (>).
	TouchOpRedirect
	// TouchOpAppend indicates append redirection (>>).
	TouchOpAppend
	// TouchOpWrite indicates a command writing the path (tee, dd of=, touch, truncate).
	TouchOpWrite
	// TouchOpCopy indicates a cp destination.
	TouchOpCopy
	// TouchOpMove indicates both sides of an mv.
	TouchOpMove
	// TouchOpRemove indicates rm, rmdir or unlink.
	TouchOpRemove
	// TouchOpChmod indicates a permission or ownership change.
	TouchOpChmod
	// TouchOpLink indicates a link target.
	TouchOpLink
	// TouchOpMkdir indicates directory creation.
	TouchOpMkdir
)

var touchOpNames = [...]string{
	TouchOpNone:     "none",
	TouchOpRedirect: "redirect",
	TouchOpAppend:   "append",
	TouchOpWrite:    "write",
	TouchOpCopy:     "copy",
	TouchOpMove:     "move",
	TouchOpRemove:   "remove",
	TouchOpChmod:    "chmod",
	TouchOpLink:     "link",
	TouchOpMkdir:    "mkdir",
}

// String returns string representation of TouchOp.
func (t TouchOp) String() string {
	if t < 0 || int(t) >= len(touchOpNames) {
		return "unknown"
	}

	return touchOpNames[t]
}

// FileTouch is a path a command would mutate.
type FileTouch struct {
	Path      string   // Target path
	Operation TouchOp  // Kind of mutation
	Source    string   // Command name, empty for redirections
	Location  Location // Position in source
}

// String returns a string representation of the mutation.
func (f *FileTouch) String() string {
	if f.Source == "" {
		return fmt.Sprintf("%s -> %s", f.Operation, f.Path)
	}

	return fmt.Sprintf("%s %s -> %s", f.Operation, f.Source, f.Path)
}
