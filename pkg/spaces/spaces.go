// Package spaces merges the three balance-bearing collections an
// account exposes (savings goals, spending spaces and, optionally, the
// accounts themselves) into one ordered display list.
//
// Each row carries the identity needed to browse its transaction feed
// later. Goals and spending spaces live under the primary account, so a
// category id alone is enough; an account row needs both the account id
// and its default category, hence the two-variant RowID.
package spaces

import (
	"github.com/emacsmirror/starling/pkg/money"
	"github.com/emacsmirror/starling/pkg/starling"
)

// RowID identifies a space row for navigation. Exactly two
// implementations exist: CategoryID and AccountCategoryID.
type RowID interface {
	isRowID()
}

// CategoryID addresses a feed by category alone; the account is the
// session's current (or primary) one.
type CategoryID struct {
	Category string
}

// AccountCategoryID addresses a feed by an explicit account and
// category pair.
type AccountCategoryID struct {
	Account  string
	Category string
}

func (CategoryID) isRowID()        {}
func (AccountCategoryID) isRowID() {}

// Row is one entry of the aggregated space list.
type Row struct {
	Name    string
	Balance string
	ID      RowID
}

// AccountBalance is an account dressed up as a pseudo-space: its
// display name, resolved effective balance, and the composite identity
// needed to browse its default-category feed.
type AccountBalance struct {
	AccountUID      string
	DefaultCategory string
	Name            string
	Effective       starling.Amount
}

// Aggregate builds the display list: savings goals first, then
// spending spaces, then account pseudo-spaces. Order within each group
// is the server's. Empty inputs contribute no rows.
func Aggregate(goals []starling.SavingsGoal, spendingSpaces []starling.SpendingSpace, accountBalances []AccountBalance) []Row {
	rows := make([]Row, 0, len(goals)+len(spendingSpaces)+len(accountBalances))
	for _, g := range goals {
		rows = append(rows, Row{
			Name:    g.Name,
			Balance: money.Format(g.TotalSaved.MinorUnits),
			ID:      CategoryID{Category: g.SavingsGoalUID},
		})
	}
	for _, s := range spendingSpaces {
		rows = append(rows, Row{
			Name:    s.Name,
			Balance: money.Format(s.Balance.MinorUnits),
			ID:      CategoryID{Category: s.SpaceUID},
		})
	}
	for _, a := range accountBalances {
		rows = append(rows, Row{
			Name:    a.Name,
			Balance: money.Format(a.Effective.MinorUnits),
			ID:      AccountCategoryID{Account: a.AccountUID, Category: a.DefaultCategory},
		})
	}
	return rows
}
