package table_test

import (
	"strings"
	"testing"

	"github.com/smykla-skalski/hookrouter/internal/table"
)

func TestRender(t *testing.T) {
	out := table.Render([]string{"Gate", "Type"}, [][]string{
		{"protect-system", "protected-paths"},
		{"short"},
	})

	for _, want := range []string{"protect-system", "protected-paths", "short", "╭", "╯"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	if !strings.HasSuffix(out, "\n") || strings.HasSuffix(out, "\n\n") {
		t.Errorf("output should end with exactly one newline: %q", out)
	}
}
