package starling

import "time"

// Amount is money as the API reports it: a currency code plus an
// integer count of minor units.
type Amount struct {
	Currency   string `json:"currency"`
	MinorUnits int64  `json:"minorUnits"`
}

// Account is one entry from the accounts listing. The live effective
// balance is not included here; it comes from a separate balance call.
type Account struct {
	AccountUID      string    `json:"accountUid"`
	AccountType     string    `json:"accountType"`
	DefaultCategory string    `json:"defaultCategory"`
	Currency        string    `json:"currency"`
	CreatedAt       time.Time `json:"createdAt"`
	Name            string    `json:"name"`
}

// Balance holds the balance figures for one account.
type Balance struct {
	ClearedBalance   Amount `json:"clearedBalance"`
	EffectiveBalance Amount `json:"effectiveBalance"`
	PendingAmount    Amount `json:"pendingTransactions"`
	TotalSaved       Amount `json:"totalSavedAmount"`
}

// SavingsGoal is a named savings pot within an account.
type SavingsGoal struct {
	SavingsGoalUID  string  `json:"savingsGoalUid"`
	Name            string  `json:"name"`
	TotalSaved      Amount  `json:"totalSaved"`
	Target          *Amount `json:"target,omitempty"`
	SavedPercentage int     `json:"savedPercentage"`
	State           string  `json:"state"`
}

// SpendingSpace is a named spending pocket within an account.
type SpendingSpace struct {
	SpaceUID string `json:"spaceUid"`
	Name     string `json:"name"`
	Balance  Amount `json:"balance"`
	State    string `json:"state"`
}

// Spaces is the combined spaces listing for one account.
type Spaces struct {
	SavingsGoals   []SavingsGoal   `json:"savingsGoals"`
	SpendingSpaces []SpendingSpace `json:"spendingSpaces"`
}

// FeedItem is one transaction record from the category-scoped feed.
type FeedItem struct {
	FeedItemUID      string    `json:"feedItemUid"`
	CategoryUID      string    `json:"categoryUid"`
	Amount           Amount    `json:"amount"`
	SourceAmount     Amount    `json:"sourceAmount"`
	Direction        string    `json:"direction"`
	TransactionTime  time.Time `json:"transactionTime"`
	CounterPartyName string    `json:"counterPartyName"`
	Reference        string    `json:"reference"`
	SpendingCategory string    `json:"spendingCategory"`
	Status           string    `json:"status"`
	Source           string    `json:"source"`
}

// InsightBreakdown is the per-category slice of a monthly spending
// insight. Insight figures arrive in major units, unlike the feed.
type InsightBreakdown struct {
	SpendingCategory string  `json:"spendingCategory"`
	TotalSpent       float64 `json:"totalSpent"`
	TotalReceived    float64 `json:"totalReceived"`
	NetSpend         float64 `json:"netSpend"`
	NetDirection     string  `json:"netDirection"`
	Currency         string  `json:"currency"`
	Percentage       float64 `json:"percentage"`
	TransactionCount int     `json:"transactionCount"`
}

// Insights is one month's spending breakdown by category.
type Insights struct {
	Period        string             `json:"period"`
	TotalSpent    float64            `json:"totalSpent"`
	TotalReceived float64            `json:"totalReceived"`
	NetSpend      float64            `json:"netSpend"`
	Breakdown     []InsightBreakdown `json:"breakdown"`
}
