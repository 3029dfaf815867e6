package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	TxIncome  TransactionType = "income"
	TxExpense TransactionType = "expense"
)

type (
	TransactionType string

	Date struct {
		time.Time
	}

	// Transaction is a single income or expense record. Amount is always
	// stored as positive cents; the sign of the movement comes from Type.
	Transaction struct {
		ID          string
		Date        Date
		Type        TransactionType
		Amount      Money
		Category    string
		Description string
	}

	// Goal is a savings goal with a current balance and a target amount.
	Goal struct {
		ID      string
		Name    string
		Current Money
		Target  Money
	}

	// Month identifies a calendar month as "YYYY-MM". It is always passed
	// in explicitly; domain code never reads the wall clock.
	Month string
)

var (
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidMonth    = errors.New("invalid month")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidType     = errors.New("invalid transaction type")
	ErrEmptyCategory   = errors.New("empty category")
	ErrEmptyGoalName   = errors.New("empty goal name")
	ErrInvalidTarget   = errors.New("goal target must be positive")
	ErrNegativeCurrent = errors.New("goal current cannot be negative")
)

func (t TransactionType) Valid() bool {
	return t == TxIncome || t == TxExpense
}

// NewDate creates a Date from year, month, day in UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a date in ISO "YYYY-MM-DD" form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// ISO returns the date in "YYYY-MM-DD" form.
func (d Date) ISO() string {
	return d.Format("2006-01-02")
}

// MonthOf returns the Month containing t.
func MonthOf(t time.Time) Month {
	return Month(t.Format("2006-01"))
}

// ParseMonth validates and returns a Month from a "YYYY-MM" string.
func ParseMonth(s string) (Month, error) {
	m := Month(strings.TrimSpace(s))
	if err := m.Validate(); err != nil {
		return "", err
	}
	return m, nil
}

func (m Month) Validate() error {
	if _, err := time.Parse("2006-01", string(m)); err != nil {
		return ErrInvalidMonth
	}
	return nil
}

// Contains reports whether d falls inside the month. It is the typed
// equivalent of prefix-matching an ISO date against "YYYY-MM".
func (m Month) Contains(d Date) bool {
	return strings.HasPrefix(d.ISO(), string(m))
}

func (m Month) String() string {
	return string(m)
}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}

func (g Goal) Validate() error {
	if len(strings.TrimSpace(g.Name)) == 0 {
		return ErrEmptyGoalName
	}
	if len(g.Name) > 100 {
		return errors.New("goal name too long (max 100 characters)")
	}
	if g.Target.Cents <= 0 {
		return ErrInvalidTarget
	}
	if g.Current.Cents < 0 {
		return ErrNegativeCurrent
	}
	return nil
}

// Progress returns completion of the goal as a percentage. A goal with a
// non-positive target reports 0 rather than dividing by zero.
func (g Goal) Progress() float64 {
	if g.Target.Cents <= 0 {
		return 0
	}
	return float64(g.Current.Cents) / float64(g.Target.Cents) * 100
}

func (g Goal) String() string {
	return fmt.Sprintf("%s (%d/%d)", g.Name, g.Current.Cents, g.Target.Cents)
}
