// Package workflow validates and applies collaboration status transitions.
// The edge set is closed: the linear lifecycle chain plus two shortcuts into
// Paid, one from PaymentPending (paid before the promised date) and one from
// Overdue.
package workflow

import (
	"fmt"
	"time"

	"github.com/devbyharshit/collab-khata/internal/domain"
	"github.com/devbyharshit/collab-khata/internal/ledger"
)

// InvalidTransitionError reports a status change outside the allowed edge
// set, or a transition to Posted without a posting date.
type InvalidTransitionError struct {
	From   domain.CollaborationStatus
	To     domain.CollaborationStatus
	Reason string
}

func (e InvalidTransitionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid transition %s -> %s: %s", e.From, e.To, e.Reason)
	}
	return fmt.Sprintf("invalid transition %s -> %s", e.From, e.To)
}

// PaymentIncompleteError reports a transition to Paid while at least one
// payment expectation has not derived to Completed.
type PaymentIncompleteError struct {
	ExpectationID string
	Status        domain.PaymentStatus
}

func (e PaymentIncompleteError) Error() string {
	return fmt.Sprintf("payment expectation %s is %s, not Completed", e.ExpectationID, e.Status)
}

// TerminalStateError reports any transition requested from Closed.
type TerminalStateError struct {
	Requested domain.CollaborationStatus
}

func (e TerminalStateError) Error() string {
	return fmt.Sprintf("collaboration is Closed; cannot transition to %s", e.Requested)
}

// Context carries everything a payment-gated transition needs: the reference
// date and the collaboration's expectations with their credits loaded.
type Context struct {
	AsOf         time.Time
	Expectations []domain.PaymentExpectation
}

var allowedEdges = map[domain.CollaborationStatus][]domain.CollaborationStatus{
	domain.StatusLead:           {domain.StatusNegotiating},
	domain.StatusNegotiating:    {domain.StatusConfirmed},
	domain.StatusConfirmed:      {domain.StatusInProduction},
	domain.StatusInProduction:   {domain.StatusPosted},
	domain.StatusPosted:         {domain.StatusPaymentPending},
	domain.StatusPaymentPending: {domain.StatusOverdue, domain.StatusPaid},
	domain.StatusOverdue:        {domain.StatusPaid},
	domain.StatusPaid:           {domain.StatusClosed},
	domain.StatusClosed:         {},
}

func edgeAllowed(from, to domain.CollaborationStatus) bool {
	for _, next := range allowedEdges[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Apply validates the requested transition and returns the updated
// collaboration. On failure the input is returned unchanged alongside a typed
// error; the caller must not persist anything in that case.
func Apply(c domain.Collaboration, target domain.CollaborationStatus, ctx Context) (domain.Collaboration, error) {
	if c.Status == domain.StatusClosed {
		return c, TerminalStateError{Requested: target}
	}
	if !target.Valid() {
		return c, InvalidTransitionError{From: c.Status, To: target, Reason: "unknown status"}
	}
	if !edgeAllowed(c.Status, target) {
		return c, InvalidTransitionError{From: c.Status, To: target}
	}
	if target == domain.StatusPosted {
		if _, ok := domain.ParseDate(c.PostingDate); !ok {
			return c, InvalidTransitionError{From: c.Status, To: target, Reason: "posting date required"}
		}
	}
	if target == domain.StatusPaid {
		for _, exp := range ctx.Expectations {
			status, err := ledger.DeriveStatus(exp, exp.Credits, ctx.AsOf)
			if err != nil {
				return c, err
			}
			if status != domain.PaymentCompleted {
				return c, PaymentIncompleteError{ExpectationID: exp.ID, Status: status}
			}
		}
	}
	c.Status = target
	return c, nil
}
