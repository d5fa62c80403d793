package ledger_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/devbyharshit/collab-khata/internal/domain"
	"github.com/devbyharshit/collab-khata/internal/ledger"
)

var today = time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

func datePtr(s string) *string { return &s }

func expectation(amount string, promised *string) domain.PaymentExpectation {
	return domain.PaymentExpectation{
		ID:             "exp-1",
		ExpectedAmount: decimal.RequireFromString(amount),
		PromisedDate:   promised,
	}
}

func credit(amount, date string) domain.PaymentCredit {
	return domain.PaymentCredit{
		ID:             "cr",
		CreditedAmount: decimal.RequireFromString(amount),
		CreditedDate:   date,
	}
}

func TestDeriveStatus(t *testing.T) {
	cases := []struct {
		name    string
		exp     domain.PaymentExpectation
		credits []domain.PaymentCredit
		want    domain.PaymentStatus
	}{
		{"no credits no promise", expectation("1000", nil), nil, domain.PaymentPending},
		{"no credits promise in future", expectation("1000", datePtr("2024-06-20")), nil, domain.PaymentPending},
		{"no credits promise today", expectation("1000", datePtr("2024-06-15")), nil, domain.PaymentPending},
		{"no credits promise yesterday", expectation("1000", datePtr("2024-06-14")), nil, domain.PaymentOverdue},
		{"partial before promise", expectation("1000", datePtr("2024-06-20")), []domain.PaymentCredit{credit("400", "2024-06-10")}, domain.PaymentPartial},
		{"partial after promise is overdue", expectation("1000", datePtr("2024-06-14")), []domain.PaymentCredit{credit("400", "2024-06-10")}, domain.PaymentOverdue},
		{"partial without promise", expectation("1000", nil), []domain.PaymentCredit{credit("400", "2024-06-10")}, domain.PaymentPartial},
		{"exactly paid", expectation("1000", nil), []domain.PaymentCredit{credit("600", "2024-06-01"), credit("400", "2024-06-10")}, domain.PaymentCompleted},
		{"paid overrides overdue", expectation("1000", datePtr("2024-01-01")), []domain.PaymentCredit{credit("1000", "2024-06-10")}, domain.PaymentCompleted},
		{"overpaid", expectation("1000", datePtr("2024-01-01")), []domain.PaymentCredit{credit("1500", "2024-06-10")}, domain.PaymentCompleted},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ledger.DeriveStatus(tc.exp, tc.credits, today)
			if err != nil {
				t.Fatalf("derive: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %s, want %s", got, tc.want)
			}
		})
	}
}

func TestDeriveStatusIsPure(t *testing.T) {
	exp := expectation("1000", datePtr("2024-06-01"))
	credits := []domain.PaymentCredit{credit("250", "2024-06-05")}
	first, err := ledger.DeriveStatus(exp, credits, today)
	if err != nil {
		t.Fatal(err)
	}
	second, err := ledger.DeriveStatus(exp, credits, today)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Fatalf("repeated derivation diverged: %s then %s", first, second)
	}
}

func TestDeriveStatusRejectsInvalidAmounts(t *testing.T) {
	_, err := ledger.DeriveStatus(expectation("0", nil), nil, today)
	var invalid ledger.InvalidAmountError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidAmountError, got %v", err)
	}
	if invalid.Field != "expected_amount" {
		t.Fatalf("unexpected field %s", invalid.Field)
	}

	_, err = ledger.DeriveStatus(expectation("100", nil), []domain.PaymentCredit{credit("-5", "2024-06-10")}, today)
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidAmountError for credit, got %v", err)
	}
	if invalid.Field != "credited_amount" {
		t.Fatalf("unexpected field %s", invalid.Field)
	}
}

func TestBalanceClampsOverpayment(t *testing.T) {
	exp := expectation("1000", nil)
	if got := ledger.Balance(exp, nil); !got.Equal(decimal.RequireFromString("1000")) {
		t.Fatalf("empty ledger balance = %s", got)
	}
	credits := []domain.PaymentCredit{credit("1200", "2024-06-10")}
	if got := ledger.Balance(exp, credits); !got.IsZero() {
		t.Fatalf("overpaid balance = %s, want 0", got)
	}
}

func TestOverdueScenario(t *testing.T) {
	// 1000 expected, promised yesterday, nothing credited.
	exp := expectation("1000", datePtr("2024-06-14"))
	status, err := ledger.DeriveStatus(exp, nil, today)
	if err != nil {
		t.Fatal(err)
	}
	if status != domain.PaymentOverdue {
		t.Fatalf("status = %s, want Overdue", status)
	}
	if got := ledger.Balance(exp, nil); !got.Equal(decimal.RequireFromString("1000")) {
		t.Fatalf("balance = %s, want 1000", got)
	}
	// A full credit flips it to Completed regardless of the missed date.
	credits := []domain.PaymentCredit{credit("1000", "2024-06-15")}
	status, err = ledger.DeriveStatus(exp, credits, today)
	if err != nil {
		t.Fatal(err)
	}
	if status != domain.PaymentCompleted {
		t.Fatalf("status = %s, want Completed", status)
	}
	if got := ledger.Balance(exp, credits); !got.IsZero() {
		t.Fatalf("balance = %s, want 0", got)
	}
}

func TestFilterOverduePreservesOrder(t *testing.T) {
	a := expectation("100", datePtr("2024-06-01"))
	a.ID = "a"
	b := expectation("200", nil)
	b.ID = "b"
	c := expectation("300", datePtr("2024-06-10"))
	c.ID = "c"
	d := expectation("400", datePtr("2024-06-01"))
	d.ID = "d"
	d.Credits = []domain.PaymentCredit{credit("400", "2024-06-12")}

	overdue, err := ledger.FilterOverdue([]domain.PaymentExpectation{a, b, c, d}, today)
	if err != nil {
		t.Fatal(err)
	}
	if len(overdue) != 2 || overdue[0].ID != "a" || overdue[1].ID != "c" {
		ids := make([]string, len(overdue))
		for i, e := range overdue {
			ids[i] = e.ID
		}
		t.Fatalf("overdue ids = %v, want [a c]", ids)
	}
}
