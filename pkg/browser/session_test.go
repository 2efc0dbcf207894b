package browser

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/emacsmirror/starling/pkg/category"
	"github.com/emacsmirror/starling/pkg/spaces"
	"github.com/emacsmirror/starling/pkg/starling"
)

// stubAPI counts every call so tests can assert which round trips
// happened.
type stubAPI struct {
	accounts []starling.Account
	feed     map[string][]starling.FeedItem // keyed by account|category
	feedErr  error
	putErr   error

	accountsCalls int
	feedCalls     int
	putCalls      int

	lastFeedAccount  string
	lastFeedCategory string
	lastFeedSince    time.Time
	lastPutItem      string
	lastPutCategory  string
}

func (a *stubAPI) Accounts(context.Context) ([]starling.Account, error) {
	a.accountsCalls++
	return a.accounts, nil
}

func (a *stubAPI) Feed(_ context.Context, accountUID, categoryUID string, changesSince time.Time) ([]starling.FeedItem, error) {
	a.feedCalls++
	a.lastFeedAccount = accountUID
	a.lastFeedCategory = categoryUID
	a.lastFeedSince = changesSince
	if a.feedErr != nil {
		return nil, a.feedErr
	}
	return a.feed[accountUID+"|"+categoryUID], nil
}

func (a *stubAPI) SetSpendingCategory(_ context.Context, _, _, feedItemUID, spendingCategory string) error {
	a.putCalls++
	a.lastPutItem = feedItemUID
	a.lastPutCategory = spendingCategory
	return a.putErr
}

func item(uid string) starling.FeedItem {
	return starling.FeedItem{
		FeedItemUID:      uid,
		CounterPartyName: "Shop " + uid,
		Amount:           starling.Amount{Currency: "GBP", MinorUnits: 450},
		Direction:        "OUT",
		SpendingCategory: "EATING_OUT",
		TransactionTime:  time.Date(2026, 8, 20, 9, 30, 0, 0, time.UTC),
	}
}

func newTestSession(api *stubAPI) *Session {
	s := NewSession(api)
	s.now = func() time.Time { return time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestSelectRowCompositeBypassesPrimaryLookup(t *testing.T) {
	api := &stubAPI{feed: map[string][]starling.FeedItem{
		"acc-A|cat-C": {item("txn-1")},
	}}
	s := newTestSession(api)

	err := s.SelectRow(context.Background(), spaces.AccountCategoryID{Account: "acc-A", Category: "cat-C"})
	if err != nil {
		t.Fatalf("SelectRow failed: %v", err)
	}
	if api.accountsCalls != 0 {
		t.Errorf("composite identity consulted the accounts listing %d times", api.accountsCalls)
	}
	account, cat, ok := s.Selected()
	if !ok || account != "acc-A" || cat != "cat-C" {
		t.Errorf("Selected() = (%q, %q, %v), want (acc-A, cat-C, true)", account, cat, ok)
	}
	if len(s.Items()) != 1 || s.Items()[0].FeedItemUID != "txn-1" {
		t.Errorf("Items() = %+v", s.Items())
	}
}

func TestSelectRowPlainDefaultsToPrimary(t *testing.T) {
	api := &stubAPI{
		accounts: []starling.Account{
			{AccountUID: "acc-primary", DefaultCategory: "cat-default"},
			{AccountUID: "acc-other"},
		},
		feed: map[string][]starling.FeedItem{
			"acc-primary|cat-C": {item("txn-1")},
		},
	}
	s := newTestSession(api)

	if err := s.SelectRow(context.Background(), spaces.CategoryID{Category: "cat-C"}); err != nil {
		t.Fatalf("SelectRow failed: %v", err)
	}
	account, cat, _ := s.Selected()
	if account != "acc-primary" || cat != "cat-C" {
		t.Errorf("Selected() = (%q, %q)", account, cat)
	}

	// a second plain selection reuses both the memoized primary account
	// and the already current account
	if err := s.SelectRow(context.Background(), spaces.CategoryID{Category: "cat-D"}); err != nil {
		t.Fatalf("second SelectRow failed: %v", err)
	}
	if api.accountsCalls != 1 {
		t.Errorf("accounts listing fetched %d times, want 1", api.accountsCalls)
	}
	if api.lastFeedAccount != "acc-primary" || api.lastFeedCategory != "cat-D" {
		t.Errorf("last fetch = (%q, %q)", api.lastFeedAccount, api.lastFeedCategory)
	}
}

func TestSelectRowPlainKeepsCurrentAccount(t *testing.T) {
	api := &stubAPI{feed: map[string][]starling.FeedItem{}}
	s := newTestSession(api)

	if err := s.SelectRow(context.Background(), spaces.AccountCategoryID{Account: "acc-B", Category: "cat-1"}); err != nil {
		t.Fatalf("SelectRow failed: %v", err)
	}
	if err := s.SelectRow(context.Background(), spaces.CategoryID{Category: "cat-2"}); err != nil {
		t.Fatalf("SelectRow failed: %v", err)
	}
	if api.lastFeedAccount != "acc-B" {
		t.Errorf("plain id re-resolved the account to %q, want current acc-B", api.lastFeedAccount)
	}
	if api.accountsCalls != 0 {
		t.Errorf("accounts listing fetched %d times, want 0", api.accountsCalls)
	}
}

func TestFetchWindowCutoff(t *testing.T) {
	api := &stubAPI{feed: map[string][]starling.FeedItem{}}
	s := newTestSession(api)

	if err := s.SelectRow(context.Background(), spaces.AccountCategoryID{Account: "a", Category: "c"}); err != nil {
		t.Fatalf("SelectRow failed: %v", err)
	}
	want := time.Date(2026, 7, 30, 12, 0, 0, 0, time.UTC)
	if !api.lastFeedSince.Equal(want) {
		t.Errorf("changesSince = %v, want %v", api.lastFeedSince, want)
	}
}

func TestFetchFailureKeepsStaleItems(t *testing.T) {
	api := &stubAPI{feed: map[string][]starling.FeedItem{
		"a|c1": {item("txn-old")},
	}}
	s := newTestSession(api)
	if err := s.SelectRow(context.Background(), spaces.AccountCategoryID{Account: "a", Category: "c1"}); err != nil {
		t.Fatalf("SelectRow failed: %v", err)
	}

	api.feedErr = errors.New("gateway timeout")
	err := s.SelectRow(context.Background(), spaces.AccountCategoryID{Account: "a", Category: "c2"})
	if err == nil {
		t.Fatal("want fetch error")
	}
	// selection moved, items stayed stale
	_, cat, _ := s.Selected()
	if cat != "c2" {
		t.Errorf("category = %q, want c2", cat)
	}
	if len(s.Items()) != 1 || s.Items()[0].FeedItemUID != "txn-old" {
		t.Errorf("stale items lost: %+v", s.Items())
	}
}

func TestRefreshRelocation(t *testing.T) {
	api := &stubAPI{feed: map[string][]starling.FeedItem{
		"a|c": {item("txn-1"), item("txn-2"), item("txn-3")},
	}}
	s := newTestSession(api)
	if err := s.SelectRow(context.Background(), spaces.AccountCategoryID{Account: "a", Category: "c"}); err != nil {
		t.Fatalf("SelectRow failed: %v", err)
	}

	selected, err := s.Refresh(context.Background(), "txn-2")
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if selected != "txn-2" {
		t.Errorf("selected = %q, want txn-2", selected)
	}

	// the preserved item drops out of the window
	api.feed["a|c"] = []starling.FeedItem{item("txn-1"), item("txn-3")}
	selected, err = s.Refresh(context.Background(), "txn-2")
	if err != nil {
		t.Fatalf("Refresh after drop failed: %v", err)
	}
	if selected != "" {
		t.Errorf("selected = %q, want empty fallback", selected)
	}
}

func TestRefreshUnselectedIsNoop(t *testing.T) {
	api := &stubAPI{}
	s := newTestSession(api)
	selected, err := s.Refresh(context.Background(), "txn-1")
	if err != nil || selected != "" {
		t.Errorf("Refresh on unselected session = (%q, %v)", selected, err)
	}
	if api.feedCalls != 0 {
		t.Errorf("unselected refresh hit the network %d times", api.feedCalls)
	}
}

func TestRecategorizeValidationGate(t *testing.T) {
	api := &stubAPI{feed: map[string][]starling.FeedItem{}}
	s := newTestSession(api)
	if err := s.SelectRow(context.Background(), spaces.AccountCategoryID{Account: "a", Category: "c"}); err != nil {
		t.Fatalf("SelectRow failed: %v", err)
	}
	before := api.feedCalls

	_, err := s.Recategorize(context.Background(), "txn-1", "NOT_A_REAL_CODE")
	var unknown *category.UnknownCategoryError
	if !errors.As(err, &unknown) || unknown.Code != "NOT_A_REAL_CODE" {
		t.Fatalf("want UnknownCategoryError, got %v", err)
	}
	if api.putCalls != 0 || api.feedCalls != before || api.accountsCalls != 0 {
		t.Errorf("rejected edit still touched the network: puts=%d feeds=%d accounts=%d",
			api.putCalls, api.feedCalls-before, api.accountsCalls)
	}
}

func TestRecategorizeWriteThenRefetch(t *testing.T) {
	api := &stubAPI{feed: map[string][]starling.FeedItem{
		"a|c": {item("txn-1"), item("txn-2")},
	}}
	s := newTestSession(api)
	if err := s.SelectRow(context.Background(), spaces.AccountCategoryID{Account: "a", Category: "c"}); err != nil {
		t.Fatalf("SelectRow failed: %v", err)
	}
	fetchesBefore := api.feedCalls

	selected, err := s.Recategorize(context.Background(), "txn-2", "GROCERIES")
	if err != nil {
		t.Fatalf("Recategorize failed: %v", err)
	}
	if api.putCalls != 1 || api.lastPutItem != "txn-2" || api.lastPutCategory != "GROCERIES" {
		t.Errorf("put = %d calls, item %q, category %q", api.putCalls, api.lastPutItem, api.lastPutCategory)
	}
	if api.feedCalls != fetchesBefore+1 {
		t.Errorf("expected exactly one refetch after the write, got %d", api.feedCalls-fetchesBefore)
	}
	if selected != "txn-2" {
		t.Errorf("selected = %q, want txn-2", selected)
	}
}

func TestRecategorizeWriteFailureSkipsRefresh(t *testing.T) {
	api := &stubAPI{feed: map[string][]starling.FeedItem{
		"a|c": {item("txn-1")},
	}}
	s := newTestSession(api)
	if err := s.SelectRow(context.Background(), spaces.AccountCategoryID{Account: "a", Category: "c"}); err != nil {
		t.Fatalf("SelectRow failed: %v", err)
	}
	fetchesBefore := api.feedCalls

	api.putErr = errors.New("409 conflict")
	_, err := s.Recategorize(context.Background(), "txn-1", "GROCERIES")
	if err == nil {
		t.Fatal("want write error")
	}
	if api.feedCalls != fetchesBefore {
		t.Error("failed write must not trigger a refresh")
	}
	if len(s.Items()) != 1 {
		t.Errorf("prior list lost: %+v", s.Items())
	}
}

func TestRecategorizeUnselectedIsNoop(t *testing.T) {
	api := &stubAPI{}
	s := newTestSession(api)
	selected, err := s.Recategorize(context.Background(), "txn-1", "GROCERIES")
	if err != nil || selected != "" {
		t.Errorf("Recategorize on unselected session = (%q, %v)", selected, err)
	}
	if api.putCalls != 0 || api.feedCalls != 0 {
		t.Errorf("no-op still made requests: puts=%d feeds=%d", api.putCalls, api.feedCalls)
	}
}

func TestTableProjection(t *testing.T) {
	api := &stubAPI{feed: map[string][]starling.FeedItem{
		"a|c": {
			{
				FeedItemUID:      "txn-1",
				CounterPartyName: "Coffee Shop",
				Reference:        "card 1234",
				SpendingCategory: "EATING_OUT",
				Amount:           starling.Amount{MinorUnits: 450},
				Direction:        "OUT",
				TransactionTime:  time.Date(2026, 8, 20, 9, 30, 0, 0, time.UTC),
			},
		},
	}}
	s := newTestSession(api)
	if err := s.SelectRow(context.Background(), spaces.AccountCategoryID{Account: "a", Category: "c"}); err != nil {
		t.Fatalf("SelectRow failed: %v", err)
	}

	table := s.Table()
	if len(table.Columns) != 5 {
		t.Fatalf("got %d columns, want 5", len(table.Columns))
	}
	if len(table.Rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(table.Rows))
	}
	row := table.Rows[0]
	if row.ID != "txn-1" {
		t.Errorf("row ID = %q", row.ID)
	}
	if row.Cells[0] != "Coffee Shop" || row.Cells[1] != "card 1234" {
		t.Errorf("cells = %v", row.Cells)
	}
	if row.Cells[2] != "Eating Out" {
		t.Errorf("category cell = %q, want Eating Out", row.Cells[2])
	}
	if row.Cells[3] != "-4.50" {
		t.Errorf("amount cell = %q, want -4.50", row.Cells[3])
	}
}
