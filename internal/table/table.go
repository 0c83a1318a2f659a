// Package table renders plain-text tables for CLI listings.
package table

import (
	"bytes"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

// Render builds a rounded table. Rows shorter than headers are padded.
func Render(headers []string, rows [][]string) string {
	var buf bytes.Buffer

	t := tablewriter.NewTable(&buf,
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleRounded),
		})),
		tablewriter.WithPadding(tw.Padding{Left: " ", Right: " "}),
		tablewriter.WithConfig(tablewriter.NewConfigBuilder().
			WithTrimSpace(tw.Off).
			Row().Formatting().WithAutoWrap(tw.WrapNormal).Build().
			Build().Build()),
	)

	t.Header(headers)

	for _, row := range rows {
		cells := make([]string, len(headers))
		copy(cells, row)

		_ = t.Append(cells)
	}

	_ = t.Render()

	return strings.TrimRight(buf.String(), "\n") + "\n"
}
