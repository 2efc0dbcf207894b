package tui

import (
	"github.com/charmbracelet/bubbles/table"

	"github.com/emacsmirror/starling/pkg/browser"
	"github.com/emacsmirror/starling/pkg/spaces"
)

func newTable(cols []browser.Column) table.Model {
	columns := make([]table.Column, len(cols))
	for i, c := range cols {
		columns[i] = table.Column{Title: c.Title, Width: c.Width}
	}
	t := table.New(table.WithColumns(columns), table.WithFocused(true), table.WithHeight(12))
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true)
	styles.Selected = styles.Selected.Bold(true)
	t.SetStyles(styles)
	return t
}

// spaceRows converts the aggregated space list into table rows plus the
// parallel identity slice used when a row is chosen.
func spaceRows(list []spaces.Row) ([]table.Row, []spaces.RowID) {
	rows := make([]table.Row, len(list))
	ids := make([]spaces.RowID, len(list))
	for i, r := range list {
		rows[i] = table.Row{r.Name, r.Balance}
		ids[i] = r.ID
	}
	return rows, ids
}

// feedRows converts the session's view table, keeping the row ids the
// session uses for relocation.
func feedRows(t browser.Table) ([]table.Row, []string) {
	rows := make([]table.Row, len(t.Rows))
	ids := make([]string, len(t.Rows))
	for i, r := range t.Rows {
		rows[i] = table.Row(r.Cells)
		ids[i] = r.ID
	}
	return rows, ids
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return 0
}
