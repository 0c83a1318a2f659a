// Package reporters renders doctor results.
package reporters

import (
	"fmt"
	"io"

	"github.com/smykla-skalski/hookrouter/internal/color"
	"github.com/smykla-skalski/hookrouter/internal/doctor"
	"github.com/smykla-skalski/hookrouter/internal/table"
)

var statusIcons = map[doctor.Status]string{
	doctor.StatusPass:    "✓",
	doctor.StatusFail:    "✗",
	doctor.StatusSkipped: "-",
}

// TableReporter writes one table row per check followed by a summary line.
type TableReporter struct {
	out   io.Writer
	theme color.Theme
}

// NewTableReporter creates a reporter writing to out.
func NewTableReporter(out io.Writer, theme color.Theme) *TableReporter {
	return &TableReporter{out: out, theme: theme}
}

// Report writes results. Details are included only when verbose is set,
// except for failures, which always show them.
func (r *TableReporter) Report(results []doctor.CheckResult, verbose bool) {
	rows := make([][]string, 0, len(results))

	for _, res := range results {
		message := res.Message
		if len(res.Details) > 0 && (verbose || res.Status == doctor.StatusFail) {
			for _, d := range res.Details {
				message += "\n" + r.theme.Muted.Render(d)
			}
		}

		rows = append(rows, []string{
			string(res.Category),
			res.Name,
			r.status(res),
			message,
		})
	}

	fmt.Fprint(r.out, table.Render([]string{"Category", "Check", "Status", "Message"}, rows))
	fmt.Fprintln(r.out, summary(results))
}

func (r *TableReporter) status(res doctor.CheckResult) string {
	label := statusIcons[res.Status] + " " + string(res.Status)

	switch {
	case res.IsError():
		return r.theme.Error.Render(statusIcons[res.Status] + " " + string(res.Severity))
	case res.IsWarning():
		return r.theme.Warning.Render(statusIcons[res.Status] + " " + string(res.Severity))
	case res.Status == doctor.StatusSkipped:
		return r.theme.Skip.Render(label)
	default:
		return r.theme.Pass.Render(label)
	}
}

func summary(results []doctor.CheckResult) string {
	var passed, errs, warnings, skipped int

	for _, res := range results {
		switch {
		case res.IsError():
			errs++
		case res.IsWarning():
			warnings++
		case res.Status == doctor.StatusSkipped:
			skipped++
		case res.Status == doctor.StatusPass:
			passed++
		}
	}

	return fmt.Sprintf("%d passed, %d error(s), %d warning(s), %d skipped", passed, errs, warnings, skipped)
}
