// Package ledger derives payment status and remaining balance for a payment
// expectation from its append-only credit ledger. Status is never persisted;
// every caller recomputes it against an explicit as-of date.
package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/devbyharshit/collab-khata/internal/domain"
)

// InvalidAmountError reports a non-positive expected or credited amount.
// Amounts are validated by the collaborator at creation time; the calculator
// rejects rather than silently normalizing when one slips through.
type InvalidAmountError struct {
	Field  string
	Amount decimal.Decimal
}

func (e InvalidAmountError) Error() string {
	return fmt.Sprintf("%s must be positive, got %s", e.Field, e.Amount)
}

// CreditedTotal sums the credited amounts of all credits.
func CreditedTotal(credits []domain.PaymentCredit) decimal.Decimal {
	total := decimal.Zero
	for _, c := range credits {
		total = total.Add(c.CreditedAmount)
	}
	return total
}

// Balance is the remaining amount owed, clamped at zero on overpayment.
func Balance(exp domain.PaymentExpectation, credits []domain.PaymentCredit) decimal.Decimal {
	remaining := exp.ExpectedAmount.Sub(CreditedTotal(credits))
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// DeriveStatus computes the payment status of an expectation as of a date.
// Ordering matters: a fully credited expectation is Completed even when the
// promised date has passed.
func DeriveStatus(exp domain.PaymentExpectation, credits []domain.PaymentCredit, asOf time.Time) (domain.PaymentStatus, error) {
	if !exp.ExpectedAmount.IsPositive() {
		return "", InvalidAmountError{Field: "expected_amount", Amount: exp.ExpectedAmount}
	}
	for _, c := range credits {
		if !c.CreditedAmount.IsPositive() {
			return "", InvalidAmountError{Field: "credited_amount", Amount: c.CreditedAmount}
		}
	}
	credited := CreditedTotal(credits)
	if credited.GreaterThanOrEqual(exp.ExpectedAmount) {
		return domain.PaymentCompleted, nil
	}
	if promised, ok := domain.ParseDate(exp.PromisedDate); ok && promised.Before(asOf) {
		return domain.PaymentOverdue, nil
	}
	if credited.IsPositive() {
		return domain.PaymentPartial, nil
	}
	return domain.PaymentPending, nil
}

// IsOverdue reports whether the expectation derives to Overdue as of a date.
func IsOverdue(exp domain.PaymentExpectation, credits []domain.PaymentCredit, asOf time.Time) (bool, error) {
	status, err := DeriveStatus(exp, credits, asOf)
	if err != nil {
		return false, err
	}
	return status == domain.PaymentOverdue, nil
}

// FilterOverdue returns the subset of expectations that derive to Overdue,
// preserving input order. Each expectation must carry its credits.
func FilterOverdue(exps []domain.PaymentExpectation, asOf time.Time) ([]domain.PaymentExpectation, error) {
	var overdue []domain.PaymentExpectation
	for _, exp := range exps {
		due, err := IsOverdue(exp, exp.Credits, asOf)
		if err != nil {
			return nil, err
		}
		if due {
			overdue = append(overdue, exp)
		}
	}
	return overdue, nil
}
