package core

// Derived analytics records. These are computed on demand from the ledger
// and never persisted; freshness is exact-on-read.

// MoneyTotals is the income/expense/net sum over a date range.
// Net is always income minus expense, never rounded independently.
type MoneyTotals struct {
	Income  Money `json:"income"`
	Expense Money `json:"expense"`
	Net     Money `json:"net"`
}

// BucketTotal is the summed expense for one bucket group. Bucket is nil for
// the unassigned group.
type BucketTotal struct {
	Bucket  *Bucket `json:"bucket"`
	Expense Money   `json:"expense"`
}

// CategoryTotal is the summed expense for one category group. Category is
// nil when expenses without a category form a group of their own.
type CategoryTotal struct {
	Category *string `json:"category"`
	Expense  Money   `json:"expense"`
}

// MonthlyTotal is the income/expense/net for one calendar month (YYYY-MM).
type MonthlyTotal struct {
	Month   string `json:"month"`
	Income  Money  `json:"income"`
	Expense Money  `json:"expense"`
	Net     Money  `json:"net"`
}

// DailyPoint is the income/expense/net for one calendar day (YYYY-MM-DD).
// Days with no transactions are never synthesized.
type DailyPoint struct {
	Date    string `json:"date"`
	Income  Money  `json:"income"`
	Expense Money  `json:"expense"`
	Net     Money  `json:"net"`
}

// AnalyticsSummary bundles the four independent aggregate views.
type AnalyticsSummary struct {
	Totals     MoneyTotals     `json:"totals"`
	ByBucket   []BucketTotal   `json:"by_bucket"`
	ByCategory []CategoryTotal `json:"by_category"`
	Monthly    []MonthlyTotal  `json:"monthly"`
}

// AlertRow is one over-budget finding: a budgeted category whose spend for
// the month exceeds its limit.
type AlertRow struct {
	Category     string `json:"category"`
	MonthlyLimit Money  `json:"monthly_limit"`
	Spent        Money  `json:"spent"`
	OverBy       Money  `json:"over_by"`
}

// GoalPlan is the feasibility verdict for a savings goal.
//
// ProjectedMonths and ProjectedMonth are nil when the average monthly net
// saving is zero or negative; no projection is possible then.
type GoalPlan struct {
	MonthsRemaining     int             `json:"months_remaining"`
	RequiredMonthlySave Money           `json:"required_monthly_saving"`
	AvgMonthlyNetSaving Money           `json:"avg_monthly_net_saving"`
	Feasible            bool            `json:"feasible"`
	MonthlyShortfall    Money           `json:"monthly_shortfall"`
	ProjectedMonths     *int            `json:"projected_months_if_unchanged"`
	ProjectedMonth      *string         `json:"projected_goal_month_if_unchanged"`
	SuggestedCutTargets []CategoryTotal `json:"suggested_cut_targets"`
	HistoryMonthsUsed   int             `json:"history_months_used"`
}
