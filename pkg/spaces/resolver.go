package spaces

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/emacsmirror/starling/pkg/starling"
)

// balanceFanOut bounds the concurrent balance lookups. The upstream API
// has no batch endpoint, so one request per account is unavoidable.
const balanceFanOut = 4

// BalanceFetcher is the single lookup the resolver needs from the API
// client.
type BalanceFetcher interface {
	AccountBalance(ctx context.Context, accountUID string) (starling.Balance, error)
}

// ResolveAccountBalances fetches the effective balance of every account
// and pairs it with the account's name and composite feed identity.
// Results keep the accounts-listing order. Resolution is all-or-nothing:
// any failed lookup aborts the whole call and no partial list is
// returned, since a space list with a silently missing entry is worse
// than a failed view.
func ResolveAccountBalances(ctx context.Context, fetcher BalanceFetcher, accounts []starling.Account) ([]AccountBalance, error) {
	out := make([]AccountBalance, len(accounts))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(balanceFanOut)
	for i, acct := range accounts {
		g.Go(func() error {
			b, err := fetcher.AccountBalance(ctx, acct.AccountUID)
			if err != nil {
				return fmt.Errorf("balance for account %s: %w", acct.AccountUID, err)
			}
			out[i] = AccountBalance{
				AccountUID:      acct.AccountUID,
				DefaultCategory: acct.DefaultCategory,
				Name:            acct.Name,
				Effective:       b.EffectiveBalance,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
