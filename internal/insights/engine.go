// Package insights derives the dashboard view model from raw transaction
// and goal lists. Every function here is pure: same inputs, same outputs,
// no clock reads, no I/O. Callers recompute wholesale whenever the
// underlying data changes.
package insights

import (
	"fmt"
	"sort"

	"finsight/internal/core"
)

type (
	// Metrics summarizes one month of activity against a fixed budget.
	Metrics struct {
		Month          core.Month
		IncomeCents    int64
		ExpenseCents   int64
		BudgetCents    int64
		RemainingCents int64
		UsedPercent    float64
		SavingsRate    float64
	}

	// PieSlice is one segment of the income/expenses/savings chart. Token
	// is a presentation hint ("income", "expense", "savings"); the client
	// maps it to an actual color.
	PieSlice struct {
		Name  string
		Cents int64
		Token string
	}

	// CategoryAmount is an expense total aggregated by category name.
	CategoryAmount struct {
		Name  string
		Cents int64
	}

	// Insight is a short templated narrative about one derived metric.
	Insight struct {
		Type    string
		Title   string
		Message string
	}

	// Dashboard bundles everything the client renders for one month.
	Dashboard struct {
		Metrics    Metrics
		Pie        []PieSlice
		Recent     []core.Transaction
		Categories []CategoryAmount
		Insights   []Insight
	}
)

// RecentLimit is how many transactions the recent list carries.
const RecentLimit = 5

// ComputeMetrics sums the month's income and expenses and derives the
// budget and savings figures. Amounts are absolute values; the sign of a
// movement comes from the transaction type, never from the stored cents.
// All divisions guard their denominator and degrade to 0.
func ComputeMetrics(txs []core.Transaction, month core.Month, budgetCents int64) Metrics {
	m := Metrics{Month: month, BudgetCents: budgetCents}

	for _, tx := range txs {
		if !month.Contains(tx.Date) {
			continue
		}
		cents := tx.Amount.Cents
		if cents < 0 {
			cents = -cents
		}
		switch tx.Type {
		case core.TxIncome:
			m.IncomeCents += cents
		case core.TxExpense:
			m.ExpenseCents += cents
		}
	}

	m.RemainingCents = m.BudgetCents - m.ExpenseCents
	if m.BudgetCents > 0 {
		m.UsedPercent = float64(m.ExpenseCents) / float64(m.BudgetCents) * 100
	}
	if m.IncomeCents > 0 {
		m.SavingsRate = float64(m.IncomeCents-m.ExpenseCents) / float64(m.IncomeCents) * 100
	}
	return m
}

// BuildPieData returns up to three slices in fixed order: income,
// expenses, savings. A slice is emitted only when its value is strictly
// positive, so an empty month yields an empty (non-nil) list.
func BuildPieData(m Metrics) []PieSlice {
	slices := make([]PieSlice, 0, 3)
	if m.IncomeCents > 0 {
		slices = append(slices, PieSlice{Name: "Income", Cents: m.IncomeCents, Token: "income"})
	}
	if m.ExpenseCents > 0 {
		slices = append(slices, PieSlice{Name: "Expenses", Cents: m.ExpenseCents, Token: "expense"})
	}
	if savings := m.IncomeCents - m.ExpenseCents; savings > 0 {
		slices = append(slices, PieSlice{Name: "Savings", Cents: savings, Token: "savings"})
	}
	return slices
}

// SelectRecent returns the month's transactions sorted by date descending,
// capped at limit. The sort is stable, so same-day transactions keep
// their input order.
func SelectRecent(txs []core.Transaction, month core.Month, limit int) []core.Transaction {
	recent := make([]core.Transaction, 0, limit)
	for _, tx := range txs {
		if month.Contains(tx.Date) {
			recent = append(recent, tx)
		}
	}
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Date.After(recent[j].Date.Time)
	})
	if limit > 0 && len(recent) > limit {
		recent = recent[:limit]
	}
	return recent
}

// BuildCategoryBreakdown groups the month's expenses by category and
// returns the totals sorted by amount descending. Categories with equal
// totals keep first-seen input order; that tie-break is deliberate and
// tested, not incidental sort behavior.
func BuildCategoryBreakdown(txs []core.Transaction, month core.Month) []CategoryAmount {
	totals := make(map[string]int64)
	order := make([]string, 0)
	for _, tx := range txs {
		if tx.Type != core.TxExpense || !month.Contains(tx.Date) {
			continue
		}
		cents := tx.Amount.Cents
		if cents < 0 {
			cents = -cents
		}
		if _, seen := totals[tx.Category]; !seen {
			order = append(order, tx.Category)
		}
		totals[tx.Category] += cents
	}

	breakdown := make([]CategoryAmount, 0, len(order))
	for _, name := range order {
		breakdown = append(breakdown, CategoryAmount{Name: name, Cents: totals[name]})
	}
	sort.SliceStable(breakdown, func(i, j int) bool {
		return breakdown[i].Cents > breakdown[j].Cents
	})
	return breakdown
}

// BuildDashboard assembles the full view model for one month.
func BuildDashboard(txs []core.Transaction, goals []core.Goal, month core.Month, budgetCents int64) Dashboard {
	metrics := ComputeMetrics(txs, month, budgetCents)
	return Dashboard{
		Metrics:    metrics,
		Pie:        BuildPieData(metrics),
		Recent:     SelectRecent(txs, month, RecentLimit),
		Categories: BuildCategoryBreakdown(txs, month),
		Insights:   ComputeInsights(txs, goals, month, metrics),
	}
}

// ComputeInsights returns exactly five insights in fixed order: savings
// analysis, spending pattern, goal progress, spending habits, budget
// status. Empty inputs produce fallback messages, never a shorter list.
func ComputeInsights(txs []core.Transaction, goals []core.Goal, month core.Month, m Metrics) []Insight {
	return []Insight{
		savingsInsight(m),
		spendingInsight(txs, month, m),
		goalInsight(goals),
		habitsInsight(m),
		budgetInsight(m),
	}
}

func savingsInsight(m Metrics) Insight {
	msg := "You spent more than you earned this month. Review your biggest expenses to get back on track."
	if m.SavingsRate > 0 {
		msg = fmt.Sprintf("You are saving %.1f%% of your income this month. Keep it up.", m.SavingsRate)
	}
	return Insight{Type: "savings", Title: "Savings Analysis", Message: msg}
}

func spendingInsight(txs []core.Transaction, month core.Month, m Metrics) Insight {
	breakdown := BuildCategoryBreakdown(txs, month)
	if len(breakdown) == 0 {
		return Insight{
			Type:    "spending",
			Title:   "Spending Pattern",
			Message: "No spending recorded for this month yet.",
		}
	}
	top := breakdown[0]
	share := 0.0
	if m.ExpenseCents > 0 {
		share = float64(top.Cents) / float64(m.ExpenseCents) * 100
	}
	return Insight{
		Type:    "spending",
		Title:   "Spending Pattern",
		Message: fmt.Sprintf("Your largest spending category is %s, %.1f%% of this month's expenses.", top.Name, share),
	}
}

// goalInsight picks the goal with the highest completion ratio. Ties keep
// the first goal in input order. Goals with a non-positive target report
// zero progress and so never beat a goal with real progress.
func goalInsight(goals []core.Goal) Insight {
	if len(goals) == 0 {
		return Insight{
			Type:    "goals",
			Title:   "Goal Progress",
			Message: "No savings goals yet. Create a goal to start tracking your progress.",
		}
	}
	top := goals[0]
	for _, g := range goals[1:] {
		if g.Progress() > top.Progress() {
			top = g
		}
	}
	return Insight{
		Type:    "goals",
		Title:   "Goal Progress",
		Message: fmt.Sprintf("You are %.1f%% of the way to %q.", top.Progress(), top.Name),
	}
}

func habitsInsight(m Metrics) Insight {
	msg := fmt.Sprintf("You have used %.1f%% of the monthly budget. Consider slowing down for the rest of the month.", m.UsedPercent)
	if m.UsedPercent < 80 {
		msg = fmt.Sprintf("Your spending is under control at %.1f%% of the monthly budget.", m.UsedPercent)
	}
	return Insight{Type: "habits", Title: "Spending Habits", Message: msg}
}

func budgetInsight(m Metrics) Insight {
	return Insight{
		Type:    "budget",
		Title:   "Budget Status",
		Message: fmt.Sprintf("%.1f%% of the monthly budget is used.", m.UsedPercent),
	}
}
