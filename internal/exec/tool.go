package exec

//go:generate mockgen -source=tool.go -destination=tool_mock.go -package=exec

import "os/exec"

// ToolChecker checks whether decision programs can be spawned.
type ToolChecker interface {
	// IsAvailable checks if a program resolves, either as a path or through PATH.
	IsAvailable(tool string) bool

	// RequireTool returns a *ToolNotFoundError if the program does not resolve.
	RequireTool(tool string) error

	// FindTool returns the first available program from the list of
	// alternatives, or an empty string.
	FindTool(alternatives ...string) string
}

// toolChecker implements ToolChecker using exec.LookPath.
type toolChecker struct{}

// NewToolChecker creates a new ToolChecker.
func NewToolChecker() ToolChecker {
	return toolChecker{}
}

func (toolChecker) IsAvailable(tool string) bool {
	_, err := exec.LookPath(tool)

	return err == nil
}

func (t toolChecker) RequireTool(tool string) error {
	if _, err := exec.LookPath(tool); err != nil {
		return &ToolNotFoundError{Tool: tool, Cause: err}
	}

	return nil
}

func (t toolChecker) FindTool(alternatives ...string) string {
	for _, tool := range alternatives {
		if t.IsAvailable(tool) {
			return tool
		}
	}

	return ""
}

// ToolNotFoundError is returned when a program cannot be resolved.
type ToolNotFoundError struct {
	Tool  string
	Cause error
}

// Error returns the error message.
func (e *ToolNotFoundError) Error() string {
	return "program not found: " + e.Tool
}

// Unwrap returns the lookup error.
func (e *ToolNotFoundError) Unwrap() error {
	return e.Cause
}
