package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/subosito/gotenv"

	"github.com/emacsmirror/starling/pkg/browser"
	"github.com/emacsmirror/starling/pkg/category"
	"github.com/emacsmirror/starling/pkg/config"
	"github.com/emacsmirror/starling/pkg/spaces"
	"github.com/emacsmirror/starling/pkg/starling"
	"github.com/emacsmirror/starling/pkg/tui"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "starling",
	Short: "Browse and edit your Starling spaces and transaction feed",
	RunE: func(cmd *cobra.Command, _ []string) error {
		// Show help when no subcommand is provided
		return cmd.Help()
	},
}

func newLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "starling",
	})
}

func buildClient(cmd *cobra.Command) (*starling.Client, *config.Config, error) {
	cfg, err := config.Build(cfgFile, cmd.Flags())
	if err != nil {
		return nil, nil, err
	}
	token, err := cfg.ResolveToken()
	if err != nil {
		return nil, nil, err
	}
	return starling.New(cfg.BaseURL, token), cfg, nil
}

// loadSpaceRows fetches everything the space list needs: the primary
// account's spaces, plus (when enabled) every account as a pseudo-space
// with its resolved effective balance.
func loadSpaceRows(cmd *cobra.Command, client *starling.Client, cfg *config.Config) ([]spaces.Row, error) {
	ctx := cmd.Context()
	accounts, err := client.Accounts(ctx)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, fmt.Errorf("token has no accounts")
	}

	sp, err := client.Spaces(ctx, accounts[0].AccountUID)
	if err != nil {
		return nil, err
	}

	var balances []spaces.AccountBalance
	if cfg.AccountBalances {
		balances, err = spaces.ResolveAccountBalances(ctx, client, accounts)
		if err != nil {
			return nil, err
		}
	}
	return spaces.Aggregate(sp.SavingsGoals, sp.SpendingSpaces, balances), nil
}

var spacesCmd = &cobra.Command{
	Use:   "spaces",
	Short: "List savings goals, spending spaces and account balances",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, cfg, err := buildClient(cmd)
		if err != nil {
			return err
		}
		rows, err := loadSpaceRows(cmd, client, cfg)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tAMOUNT\tID")
		for _, r := range rows {
			var id string
			switch v := r.ID.(type) {
			case spaces.CategoryID:
				id = v.Category
			case spaces.AccountCategoryID:
				id = v.Account + "/" + v.Category
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", r.Name, r.Balance, id)
		}
		return w.Flush()
	},
}

var feedAccount string

var feedCmd = &cobra.Command{
	Use:   "feed [categoryUid]",
	Short: "Show the last 30 days of a category's transaction feed",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := buildClient(cmd)
		if err != nil {
			return err
		}

		session := browser.NewSession(client)
		var id spaces.RowID
		switch {
		case len(args) == 1 && feedAccount != "":
			id = spaces.AccountCategoryID{Account: feedAccount, Category: args[0]}
		case len(args) == 1:
			id = spaces.CategoryID{Category: args[0]}
		default:
			// no category given: browse the primary account's default
			accounts, err := client.Accounts(cmd.Context())
			if err != nil {
				return err
			}
			if len(accounts) == 0 {
				return fmt.Errorf("token has no accounts")
			}
			id = spaces.AccountCategoryID{
				Account:  accounts[0].AccountUID,
				Category: accounts[0].DefaultCategory,
			}
		}

		if err := session.SelectRow(cmd.Context(), id); err != nil {
			return err
		}
		return printFeed(session)
	},
}

func printFeed(session *browser.Session) error {
	view := session.Table()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "COUNTERPARTY\tREFERENCE\tCATEGORY\tAMOUNT\tTIME\tID")
	for _, r := range view.Rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Cells[0], r.Cells[1], r.Cells[2], r.Cells[3], r.Cells[4], r.ID)
	}
	return w.Flush()
}

var (
	editAccount  string
	editCategory string
)

var recategorizeCmd = &cobra.Command{
	Use:   "recategorize <feedItemUid> <newCategory>",
	Short: "Assign a new spending category to a feed item",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()
		client, _, err := buildClient(cmd)
		if err != nil {
			return err
		}

		session := browser.NewSession(client)
		if editCategory != "" {
			var id spaces.RowID
			if editAccount != "" {
				id = spaces.AccountCategoryID{Account: editAccount, Category: editCategory}
			} else {
				id = spaces.CategoryID{Category: editCategory}
			}
			if err := session.SelectRow(cmd.Context(), id); err != nil {
				return err
			}
		}

		selected, err := session.Recategorize(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		if _, _, ok := session.Selected(); !ok {
			logger.Warn("no category selected, nothing to do", "item", args[0])
			return nil
		}
		if selected == "" {
			logger.Info("recategorized; item no longer in the 30-day window", "item", args[0])
			return nil
		}
		logger.Info("recategorized", "item", selected, "category", args[1])
		return printFeed(session)
	},
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the spending categories accepted by recategorize",
	Args:  cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CODE\tLABEL")
		for _, code := range category.Known() {
			fmt.Fprintf(w, "%s\t%s\n", code, category.Format(code))
		}
		return w.Flush()
	},
}

var (
	insightsYear  int
	insightsMonth int
)

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Show one month's spending breakdown by category",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, _, err := buildClient(cmd)
		if err != nil {
			return err
		}
		accounts, err := client.Accounts(cmd.Context())
		if err != nil {
			return err
		}
		if len(accounts) == 0 {
			return fmt.Errorf("token has no accounts")
		}

		year, month := insightsYear, time.Month(insightsMonth)
		if year == 0 {
			now := time.Now()
			year, month = now.Year(), now.Month()
		}
		if month < time.January || month > time.December {
			return fmt.Errorf("invalid month %d", insightsMonth)
		}

		in, err := client.SpendingInsights(cmd.Context(), accounts[0].AccountUID, year, month)
		if err != nil {
			return err
		}

		fmt.Printf("Spending for %s (net %.2f)\n", in.Period, in.NetSpend)
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CATEGORY\tSPENT\tRECEIVED\tNET\tCOUNT")
		for _, b := range in.Breakdown {
			fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%.2f\t%d\n",
				category.Format(b.SpendingCategory), b.TotalSpent, b.TotalReceived, b.NetSpend, b.TransactionCount)
		}
		return w.Flush()
	},
}

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Open the interactive space and feed browser",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, cfg, err := buildClient(cmd)
		if err != nil {
			return err
		}
		_, err = tea.NewProgram(tui.New(client, cfg), tea.WithAltScreen()).Run()
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default ~/.config/starling/config.yaml)")
	rootCmd.PersistentFlags().String("base-url", "", "API base URL override")
	rootCmd.PersistentFlags().Bool("account-balances", true, "Include accounts as pseudo-spaces in the space list")

	feedCmd.Flags().StringVar(&feedAccount, "account", "", "Account uid (default: primary account)")

	recategorizeCmd.Flags().StringVar(&editAccount, "account", "", "Account uid owning the feed item (default: primary account)")
	recategorizeCmd.Flags().StringVar(&editCategory, "category", "", "Category uid the feed item currently lives in")

	insightsCmd.Flags().IntVar(&insightsYear, "year", 0, "Year (default: current)")
	insightsCmd.Flags().IntVar(&insightsMonth, "month", 0, "Month number 1-12 (default: current)")

	rootCmd.AddCommand(spacesCmd)
	rootCmd.AddCommand(feedCmd)
	rootCmd.AddCommand(recategorizeCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(insightsCmd)
	rootCmd.AddCommand(browseCmd)
}

func main() {
	_ = gotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
