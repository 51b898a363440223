package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// renderTable renders a rounded table with left-aligned headers. The first
// column is right-aligned when numeric is set (used for record IDs).
func renderTable(headers []string, rows [][]string, numericFirst bool) string {
	if len(headers) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, len(headers))
		for i := range headers {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	if numericFirst {
		tw.SetColumnConfigs([]table.ColumnConfig{{
			Number:      1,
			Align:       text.AlignRight,
			AlignHeader: text.AlignLeft,
		}})
	}

	return tw.Render()
}
