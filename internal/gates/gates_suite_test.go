package gates_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/hookrouter/pkg/event"
)

func TestGates(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Gates Suite")
}

func toolEvent(tool string, input map[string]any) *event.Event {
	return &event.Event{
		Kind:      event.KindBeforeTool,
		Host:      "claude",
		SessionID: "sess-1",
		Cwd:       "/repo",
		ToolName:  tool,
		ToolInput: input,
	}
}

func bashEvent(command string) *event.Event {
	return toolEvent("Bash", map[string]any{"command": command})
}
