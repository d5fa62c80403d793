// Package dashboard rolls per-collaboration payment state up into the
// financial summary. It holds no state and performs no I/O; every read
// recomputes from the full input set.
package dashboard

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/devbyharshit/collab-khata/internal/domain"
	"github.com/devbyharshit/collab-khata/internal/ledger"
)

// Summary is the dashboard rollup for one user's collaborations.
type Summary struct {
	TotalExpected decimal.Decimal                    `json:"total_expected"`
	TotalCredited decimal.Decimal                    `json:"total_credited"`
	TotalPending  decimal.Decimal                    `json:"total_pending"`
	OverdueCount  int                                `json:"overdue_count"`
	OverdueAmount decimal.Decimal                    `json:"overdue_amount"`
	StatusCounts  map[domain.CollaborationStatus]int `json:"status_counts"`
}

// Summarize computes totals over all collaborations and their payment
// expectations. Expectations are keyed by collaboration ID and must carry
// their credits. TotalPending clamps each expectation's balance at zero
// before summing, so overpayment on one deal never offsets another.
func Summarize(collabs []domain.Collaboration, expectations map[string][]domain.PaymentExpectation, asOf time.Time) (Summary, error) {
	s := Summary{
		TotalExpected: decimal.Zero,
		TotalCredited: decimal.Zero,
		TotalPending:  decimal.Zero,
		OverdueAmount: decimal.Zero,
		StatusCounts:  make(map[domain.CollaborationStatus]int, len(domain.CollaborationStatuses)),
	}
	for _, status := range domain.CollaborationStatuses {
		s.StatusCounts[status] = 0
	}
	for _, c := range collabs {
		s.StatusCounts[c.Status]++
		for _, exp := range expectations[c.ID] {
			status, err := ledger.DeriveStatus(exp, exp.Credits, asOf)
			if err != nil {
				return Summary{}, err
			}
			balance := ledger.Balance(exp, exp.Credits)
			s.TotalExpected = s.TotalExpected.Add(exp.ExpectedAmount)
			s.TotalCredited = s.TotalCredited.Add(ledger.CreditedTotal(exp.Credits))
			s.TotalPending = s.TotalPending.Add(balance)
			if status == domain.PaymentOverdue {
				s.OverdueCount++
				s.OverdueAmount = s.OverdueAmount.Add(balance)
			}
		}
	}
	return s, nil
}
