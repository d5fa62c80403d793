package engine

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/devbyharshit/collab-khata/internal/dashboard"
	"github.com/devbyharshit/collab-khata/internal/domain"
	"github.com/devbyharshit/collab-khata/internal/events"
	"github.com/devbyharshit/collab-khata/internal/ledger"
	"github.com/devbyharshit/collab-khata/internal/repo"
)

// PaymentView is an expectation with its derived state at read time.
type PaymentView struct {
	Expectation   domain.PaymentExpectation `json:"expectation"`
	Status        domain.PaymentStatus      `json:"status"`
	CreditedTotal decimal.Decimal           `json:"credited_total"`
	Balance       decimal.Decimal           `json:"balance"`
	Credits       []domain.PaymentCredit    `json:"credits"`
}

func (e Engine) paymentView(exp domain.PaymentExpectation) (PaymentView, error) {
	status, err := ledger.DeriveStatus(exp, exp.Credits, e.today())
	if err != nil {
		return PaymentView{}, err
	}
	return PaymentView{
		Expectation:   exp,
		Status:        status,
		CreditedTotal: ledger.CreditedTotal(exp.Credits),
		Balance:       ledger.Balance(exp, exp.Credits),
		Credits:       exp.Credits,
	}, nil
}

// PaymentExpectationCreateOptions are parameters for creating an expectation.
type PaymentExpectationCreateOptions struct {
	UserID          string
	CollaborationID string
	ExpectedAmount  string
	PromisedDate    *string
	PaymentMethod   *string
	Notes           *string
}

func (e Engine) CreatePaymentExpectation(ctx context.Context, opts PaymentExpectationCreateOptions) (PaymentView, error) {
	if _, err := e.Repo.GetCollaboration(ctx, opts.UserID, opts.CollaborationID); err != nil {
		return PaymentView{}, err
	}
	amount, err := decimal.NewFromString(opts.ExpectedAmount)
	if err != nil {
		return PaymentView{}, ValidationError{Field: "expected_amount", Reason: "not a decimal amount"}
	}
	if !amount.IsPositive() {
		return PaymentView{}, ledger.InvalidAmountError{Field: "expected_amount", Amount: amount}
	}
	if err := validDateField("promised_date", opts.PromisedDate); err != nil {
		return PaymentView{}, err
	}
	exp := domain.PaymentExpectation{
		ID:              newID(),
		CollaborationID: opts.CollaborationID,
		ExpectedAmount:  amount,
		PromisedDate:    opts.PromisedDate,
		PaymentMethod:   opts.PaymentMethod,
		Notes:           opts.Notes,
		CreatedAt:       e.timestamp(),
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return PaymentView{}, err
	}
	defer tx.Rollback()
	if err := e.Repo.InsertPaymentExpectation(ctx, tx, exp); err != nil {
		return PaymentView{}, fmt.Errorf("insert payment expectation: %w", err)
	}
	if err := e.Events.Append(ctx, tx, "payment.expectation.created", opts.UserID, "payment_expectation", exp.ID, events.EventPayload{"collaboration_id": exp.CollaborationID, "expected_amount": amount.String()}); err != nil {
		return PaymentView{}, err
	}
	if err := tx.Commit(); err != nil {
		return PaymentView{}, err
	}
	return e.paymentView(exp)
}

func (e Engine) ListPaymentExpectations(ctx context.Context, userID, collaborationID string) ([]PaymentView, error) {
	if _, err := e.Repo.GetCollaboration(ctx, userID, collaborationID); err != nil {
		return nil, err
	}
	exps, err := e.Repo.ListExpectationsByCollaboration(ctx, nil, collaborationID)
	if err != nil {
		return nil, err
	}
	views := make([]PaymentView, 0, len(exps))
	for _, exp := range exps {
		v, err := e.paymentView(exp)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

// PaymentCreditOptions are parameters for recording a credit.
type PaymentCreditOptions struct {
	UserID        string
	ExpectationID string
	Amount        string
	CreditedDate  string
	ReferenceNote *string
}

// AddPaymentCredit appends a credit. Overpayment is accepted; the derived
// balance clamps at zero on read.
func (e Engine) AddPaymentCredit(ctx context.Context, opts PaymentCreditOptions) (PaymentView, error) {
	exp, err := e.Repo.GetPaymentExpectation(ctx, opts.UserID, opts.ExpectationID)
	if err != nil {
		return PaymentView{}, err
	}
	amount, err := decimal.NewFromString(opts.Amount)
	if err != nil {
		return PaymentView{}, ValidationError{Field: "credited_amount", Reason: "not a decimal amount"}
	}
	if !amount.IsPositive() {
		return PaymentView{}, ledger.InvalidAmountError{Field: "credited_amount", Amount: amount}
	}
	if _, ok := domain.ParseDate(&opts.CreditedDate); !ok {
		return PaymentView{}, ValidationError{Field: "credited_date", Reason: "expected YYYY-MM-DD"}
	}
	cr := domain.PaymentCredit{
		ID:                   newID(),
		PaymentExpectationID: exp.ID,
		CreditedAmount:       amount,
		CreditedDate:         opts.CreditedDate,
		ReferenceNote:        opts.ReferenceNote,
		CreatedAt:            e.timestamp(),
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return PaymentView{}, err
	}
	defer tx.Rollback()
	if err := e.Repo.InsertPaymentCredit(ctx, tx, cr); err != nil {
		return PaymentView{}, fmt.Errorf("insert payment credit: %w", err)
	}
	if err := e.Events.Append(ctx, tx, "payment.credit.added", opts.UserID, "payment_credit", cr.ID, events.EventPayload{"payment_expectation_id": exp.ID, "credited_amount": amount.String()}); err != nil {
		return PaymentView{}, err
	}
	if err := tx.Commit(); err != nil {
		return PaymentView{}, err
	}
	credits, err := e.Repo.ListCreditsByExpectation(ctx, nil, exp.ID)
	if err != nil {
		return PaymentView{}, err
	}
	exp.Credits = credits
	return e.paymentView(exp)
}

// OverduePayment is one overdue expectation joined with its collaboration
// and brand for display.
type OverduePayment struct {
	ExpectationID      string          `json:"expectation_id"`
	CollaborationID    string          `json:"collaboration_id"`
	CollaborationTitle string          `json:"collaboration_title"`
	BrandName          string          `json:"brand_name"`
	ExpectedAmount     decimal.Decimal `json:"expected_amount"`
	CreditedTotal      decimal.Decimal `json:"credited_total"`
	Balance            decimal.Decimal `json:"balance"`
	PromisedDate       string          `json:"promised_date"`
	DaysOverdue        int             `json:"days_overdue"`
}

// ListOverduePayments returns every overdue expectation for the user,
// ordered by promised date (most overdue first).
func (e Engine) ListOverduePayments(ctx context.Context, userID string) ([]OverduePayment, error) {
	details, err := e.Repo.ListExpectationDetailsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	asOf := e.today()
	var res []OverduePayment
	for _, d := range details {
		overdue, err := ledger.IsOverdue(d.Expectation, d.Expectation.Credits, asOf)
		if err != nil {
			return nil, err
		}
		if !overdue {
			continue
		}
		promised, _ := domain.ParseDate(d.Expectation.PromisedDate)
		days := int(asOf.Sub(promised).Hours() / 24)
		res = append(res, OverduePayment{
			ExpectationID:      d.Expectation.ID,
			CollaborationID:    d.CollaborationID,
			CollaborationTitle: d.CollaborationTitle,
			BrandName:          d.BrandName,
			ExpectedAmount:     d.Expectation.ExpectedAmount,
			CreditedTotal:      ledger.CreditedTotal(d.Expectation.Credits),
			Balance:            ledger.Balance(d.Expectation, d.Expectation.Credits),
			PromisedDate:       *d.Expectation.PromisedDate,
			DaysOverdue:        days,
		})
	}
	return res, nil
}

// DashboardSummary loads the user's collaborations and payment state and
// rolls them up as of now.
func (e Engine) DashboardSummary(ctx context.Context, userID string) (dashboard.Summary, error) {
	collabs, err := e.Repo.ListCollaborations(ctx, repo.CollaborationFilters{UserID: userID})
	if err != nil {
		return dashboard.Summary{}, err
	}
	details, err := e.Repo.ListExpectationDetailsForUser(ctx, userID)
	if err != nil {
		return dashboard.Summary{}, err
	}
	byCollab := make(map[string][]domain.PaymentExpectation, len(collabs))
	for _, d := range details {
		byCollab[d.CollaborationID] = append(byCollab[d.CollaborationID], d.Expectation)
	}
	return dashboard.Summarize(collabs, byCollab, e.today())
}
