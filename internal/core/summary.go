package core

import "time"

// MonthlyDigest is the persisted snapshot of one month's derived
// metrics, rebuilt by the digest worker whenever the month's data
// changes.
type MonthlyDigest struct {
	Month        Month
	IncomeCents  int64
	ExpenseCents int64
	SavingsRate  float64
	UsedPercent  float64
	TopCategory  string
	GeneratedAt  time.Time
}
