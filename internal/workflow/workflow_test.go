package workflow_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/devbyharshit/collab-khata/internal/domain"
	"github.com/devbyharshit/collab-khata/internal/workflow"
)

var asOf = time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

func collab(status domain.CollaborationStatus) domain.Collaboration {
	return domain.Collaboration{ID: "c-1", Title: "Summer reel", Status: status}
}

func datePtr(s string) *string { return &s }

func TestApplyLinearChain(t *testing.T) {
	chain := []domain.CollaborationStatus{
		domain.StatusLead,
		domain.StatusNegotiating,
		domain.StatusConfirmed,
		domain.StatusInProduction,
		domain.StatusPosted,
		domain.StatusPaymentPending,
		domain.StatusOverdue,
		domain.StatusPaid,
		domain.StatusClosed,
	}
	c := collab(chain[0])
	c.PostingDate = datePtr("2024-06-10")
	for _, next := range chain[1:] {
		var err error
		c, err = workflow.Apply(c, next, workflow.Context{AsOf: asOf})
		if err != nil {
			t.Fatalf("%s: %v", next, err)
		}
		if c.Status != next {
			t.Fatalf("status = %s, want %s", c.Status, next)
		}
	}
}

func TestApplyRejectsSkipsAndBackwardEdges(t *testing.T) {
	cases := []struct {
		from, to domain.CollaborationStatus
	}{
		{domain.StatusLead, domain.StatusConfirmed},
		{domain.StatusLead, domain.StatusPaid},
		{domain.StatusNegotiating, domain.StatusLead},
		{domain.StatusConfirmed, domain.StatusNegotiating},
		{domain.StatusPosted, domain.StatusInProduction},
		{domain.StatusPaid, domain.StatusOverdue},
		{domain.StatusLead, domain.StatusLead},
	}
	for _, tc := range cases {
		got, err := workflow.Apply(collab(tc.from), tc.to, workflow.Context{AsOf: asOf})
		var invalid workflow.InvalidTransitionError
		if !errors.As(err, &invalid) {
			t.Fatalf("%s -> %s: expected InvalidTransitionError, got %v", tc.from, tc.to, err)
		}
		if got.Status != tc.from {
			t.Fatalf("%s -> %s: status mutated to %s on failure", tc.from, tc.to, got.Status)
		}
	}
}

func TestApplyRejectsUnknownStatus(t *testing.T) {
	_, err := workflow.Apply(collab(domain.StatusLead), "Cancelled", workflow.Context{AsOf: asOf})
	var invalid workflow.InvalidTransitionError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidTransitionError, got %v", err)
	}
	if invalid.Reason == "" {
		t.Fatal("expected a reason for the unknown status")
	}
}

func TestApplyClosedIsTerminal(t *testing.T) {
	for _, target := range domain.CollaborationStatuses {
		_, err := workflow.Apply(collab(domain.StatusClosed), target, workflow.Context{AsOf: asOf})
		var terminal workflow.TerminalStateError
		if !errors.As(err, &terminal) {
			t.Fatalf("Closed -> %s: expected TerminalStateError, got %v", target, err)
		}
	}
}

func TestApplyPostedRequiresPostingDate(t *testing.T) {
	c := collab(domain.StatusInProduction)
	_, err := workflow.Apply(c, domain.StatusPosted, workflow.Context{AsOf: asOf})
	var invalid workflow.InvalidTransitionError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidTransitionError, got %v", err)
	}

	empty := ""
	c.PostingDate = &empty
	if _, err := workflow.Apply(c, domain.StatusPosted, workflow.Context{AsOf: asOf}); !errors.As(err, &invalid) {
		t.Fatalf("empty posting date: expected InvalidTransitionError, got %v", err)
	}

	c.PostingDate = datePtr("2024-06-10")
	got, err := workflow.Apply(c, domain.StatusPosted, workflow.Context{AsOf: asOf})
	if err != nil {
		t.Fatalf("with posting date: %v", err)
	}
	if got.Status != domain.StatusPosted {
		t.Fatalf("status = %s, want Posted", got.Status)
	}
}

func TestApplyPaidGatedOnExpectations(t *testing.T) {
	exp := domain.PaymentExpectation{
		ID:             "exp-1",
		ExpectedAmount: decimal.RequireFromString("1000"),
	}

	ctx := workflow.Context{AsOf: asOf, Expectations: []domain.PaymentExpectation{exp}}
	_, err := workflow.Apply(collab(domain.StatusPaymentPending), domain.StatusPaid, ctx)
	var incomplete workflow.PaymentIncompleteError
	if !errors.As(err, &incomplete) {
		t.Fatalf("expected PaymentIncompleteError, got %v", err)
	}
	if incomplete.ExpectationID != "exp-1" || incomplete.Status != domain.PaymentPending {
		t.Fatalf("unexpected error detail: %+v", incomplete)
	}

	exp.Credits = []domain.PaymentCredit{{ID: "cr-1", CreditedAmount: decimal.RequireFromString("1000"), CreditedDate: "2024-06-12"}}
	ctx.Expectations = []domain.PaymentExpectation{exp}
	got, err := workflow.Apply(collab(domain.StatusPaymentPending), domain.StatusPaid, ctx)
	if err != nil {
		t.Fatalf("fully credited: %v", err)
	}
	if got.Status != domain.StatusPaid {
		t.Fatalf("status = %s, want Paid", got.Status)
	}
}

func TestApplyPaidWithNoExpectations(t *testing.T) {
	got, err := workflow.Apply(collab(domain.StatusOverdue), domain.StatusPaid, workflow.Context{AsOf: asOf})
	if err != nil {
		t.Fatalf("no expectations: %v", err)
	}
	if got.Status != domain.StatusPaid {
		t.Fatalf("status = %s, want Paid", got.Status)
	}
}
