// Package browser holds the state of one feed-browsing session: which
// (account, category) pair is selected, the last fetched transaction
// window, and the recategorization flow.
//
// It is isolated from any UI or CLI so that both the cobra commands and
// the interactive table view drive the same state machine. The package
// never logs and never retries; every error bubbles to the caller.
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/emacsmirror/starling/pkg/category"
	"github.com/emacsmirror/starling/pkg/spaces"
	"github.com/emacsmirror/starling/pkg/starling"
)

// Window is the rolling changes-since cutoff applied to every feed
// fetch. Fixed: older items need a different tool, not this one.
const Window = 30 * 24 * time.Hour

// API is the slice of the Starling client a session needs.
type API interface {
	Accounts(ctx context.Context) ([]starling.Account, error)
	Feed(ctx context.Context, accountUID, categoryUID string, changesSince time.Time) ([]starling.FeedItem, error)
	SetSpendingCategory(ctx context.Context, accountUID, categoryUID, feedItemUID, spendingCategory string) error
}

// Session owns the selection state of one open browsing view. Create
// one per view and discard it when the view closes; nothing is
// persisted. A Session is not safe for concurrent use.
type Session struct {
	api API
	now func() time.Time

	primary     *starling.Account
	accountUID  string
	categoryUID string
	items       []starling.FeedItem
}

// NewSession creates an unselected session over the given API client.
func NewSession(api API) *Session {
	return &Session{api: api, now: time.Now}
}

// Selected returns the current (account, category) pair. ok is false
// while no row has been selected yet.
func (s *Session) Selected() (accountUID, categoryUID string, ok bool) {
	return s.accountUID, s.categoryUID, s.accountUID != ""
}

// Items returns the last fetched transaction window, in server order.
func (s *Session) Items() []starling.FeedItem {
	return s.items
}

// primaryAccount resolves and memoizes the token holder's primary
// account (the first entry of the accounts listing). It is never
// re-resolved within a session.
func (s *Session) primaryAccount(ctx context.Context) (starling.Account, error) {
	if s.primary != nil {
		return *s.primary, nil
	}
	accounts, err := s.api.Accounts(ctx)
	if err != nil {
		return starling.Account{}, err
	}
	if len(accounts) == 0 {
		return starling.Account{}, fmt.Errorf("browser: token has no accounts")
	}
	s.primary = &accounts[0]
	return accounts[0], nil
}

// SelectRow moves the session to the feed behind a space-list row. A
// plain category id is scoped to the current account, defaulting to the
// primary account; a composite id carries both parts itself. The new
// pair is committed as a unit, then the window is fetched; a failed
// fetch leaves the new selection in place over the previous (stale)
// items and returns the error.
func (s *Session) SelectRow(ctx context.Context, id spaces.RowID) error {
	var accountUID, categoryUID string
	switch v := id.(type) {
	case spaces.CategoryID:
		accountUID = s.accountUID
		if accountUID == "" {
			primary, err := s.primaryAccount(ctx)
			if err != nil {
				return err
			}
			accountUID = primary.AccountUID
		}
		categoryUID = v.Category
	case spaces.AccountCategoryID:
		accountUID = v.Account
		categoryUID = v.Category
	default:
		return fmt.Errorf("browser: unsupported row identity %T", id)
	}

	s.accountUID = accountUID
	s.categoryUID = categoryUID
	return s.fetchWindow(ctx)
}

func (s *Session) fetchWindow(ctx context.Context) error {
	since := s.now().Add(-Window)
	items, err := s.api.Feed(ctx, s.accountUID, s.categoryUID, since)
	if err != nil {
		return err
	}
	s.items = items
	return nil
}

// Refresh re-fetches the window for the current pair. When preserve is
// non-empty it is looked up in the new result set by a top-down scan;
// the found id is returned so the renderer can keep the cursor on it.
// An absent id is not an error: the item may have dropped out of the
// window or been recategorized away, and "" lets the renderer fall back
// to its default row.
func (s *Session) Refresh(ctx context.Context, preserve string) (selected string, err error) {
	if s.accountUID == "" {
		return "", nil
	}
	if err := s.fetchWindow(ctx); err != nil {
		return "", err
	}
	if preserve != "" {
		for _, item := range s.items {
			if item.FeedItemUID == preserve {
				return preserve, nil
			}
		}
	}
	return "", nil
}

// Recategorize assigns a new spending category to one feed item of the
// current selection, then refreshes the window so the view only ever
// shows server state; the list is never patched locally. One extra
// round trip for a rare, manually triggered action is the right trade.
//
// The code is validated against the static allow-list before any
// request goes out. With no current selection the call is a no-op.
func (s *Session) Recategorize(ctx context.Context, feedItemUID, newCategory string) (selected string, err error) {
	if !category.IsKnown(newCategory) {
		return "", &category.UnknownCategoryError{Code: newCategory}
	}
	if s.accountUID == "" {
		return "", nil
	}
	if err := s.api.SetSpendingCategory(ctx, s.accountUID, s.categoryUID, feedItemUID, newCategory); err != nil {
		return "", err
	}
	return s.Refresh(ctx, feedItemUID)
}
