package browser

import (
	"github.com/emacsmirror/starling/pkg/category"
	"github.com/emacsmirror/starling/pkg/money"
	"github.com/emacsmirror/starling/pkg/starling"
)

// Column describes one column of a rendered view.
type Column struct {
	Title string
	Width int
}

// TableRow is one renderable row, keyed by the identity a renderer
// reports back on selection.
type TableRow struct {
	ID    string
	Cells []string
}

// Table is the ordered view handed to a rendering collaborator.
type Table struct {
	Columns []Column
	Rows    []TableRow
}

const timeLayout = "2006-01-02 15:04"

// FeedColumns is the transaction-list schema.
func FeedColumns() []Column {
	return []Column{
		{Title: "Counterparty", Width: 24},
		{Title: "Reference", Width: 28},
		{Title: "Category", Width: 18},
		{Title: "Amount", Width: 10},
		{Title: "Time", Width: 16},
	}
}

// Table projects the session's current window into the feed view, one
// row per feed item keyed by feedItemUid, in fetch order.
func (s *Session) Table() Table {
	rows := make([]TableRow, 0, len(s.items))
	for _, item := range s.items {
		rows = append(rows, TableRow{
			ID: item.FeedItemUID,
			Cells: []string{
				item.CounterPartyName,
				item.Reference,
				category.Format(item.SpendingCategory),
				money.FormatSigned(item.Amount.MinorUnits, item.Direction),
				item.TransactionTime.Local().Format(timeLayout),
			},
		})
	}
	return Table{Columns: FeedColumns(), Rows: rows}
}

// SpaceColumns is the space-list schema.
func SpaceColumns() []Column {
	return []Column{
		{Title: "Name", Width: 32},
		{Title: "Amount", Width: 12},
	}
}

// FeedItem returns the item with the given uid from the current
// window, scanning from the top.
func (s *Session) FeedItem(uid string) (starling.FeedItem, bool) {
	for _, item := range s.items {
		if item.FeedItemUID == uid {
			return item, true
		}
	}
	return starling.FeedItem{}, false
}
