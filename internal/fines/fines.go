// Package fines computes overdue fines. Nothing here touches the store.
package fines

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultDailyRate is charged per overdue day when no rate is configured.
var DefaultDailyRate = decimal.RequireFromString("0.5")

// ErrNegativeDays is returned for a negative number of overdue days.
var ErrNegativeDays = errors.New("days overdue must not be negative")

// CalculateFine returns daysOverdue * dailyRate.
func CalculateFine(daysOverdue int, dailyRate decimal.Decimal) (decimal.Decimal, error) {
	if daysOverdue < 0 {
		return decimal.Zero, ErrNegativeDays
	}
	return dailyRate.Mul(decimal.NewFromInt(int64(daysOverdue))), nil
}

// DaysOverdue counts the whole days between due and asOf, zero when asOf is
// not past due.
func DaysOverdue(due, asOf time.Time) int {
	if !asOf.After(due) {
		return 0
	}
	return int(asOf.Sub(due) / (24 * time.Hour))
}

type Calculator struct {
	DailyRate decimal.Decimal
}

// NewCalculator creates a calculator charging dailyRate, or DefaultDailyRate
// when dailyRate is zero.
func NewCalculator(dailyRate decimal.Decimal) *Calculator {
	if dailyRate.IsZero() {
		dailyRate = DefaultDailyRate
	}
	return &Calculator{DailyRate: dailyRate}
}

func (c *Calculator) Fine(daysOverdue int) (decimal.Decimal, error) {
	return CalculateFine(daysOverdue, c.DailyRate)
}

// FineFor returns the fine accrued on a due date as of asOf.
func (c *Calculator) FineFor(due, asOf time.Time) decimal.Decimal {
	fine, _ := c.Fine(DaysOverdue(due, asOf))
	return fine
}
