package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/devbyharshit/collab-khata/internal/domain"
	"github.com/devbyharshit/collab-khata/internal/events"
	"github.com/devbyharshit/collab-khata/internal/repo"
	"github.com/devbyharshit/collab-khata/internal/workflow"
)

// CollaborationCreateOptions are parameters for creating a collaboration.
// The status is always Lead; it cannot be chosen at creation.
type CollaborationCreateOptions struct {
	UserID           string
	BrandID          string
	Title            string
	Platform         string
	DeliverablesText *string
	AgreedAmount     *string
	Currency         string
	DeadlineDate     *string
	PostingDate      *string
}

func parseAmount(field string, raw *string) (*decimal.Decimal, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(*raw)
	if err != nil {
		return nil, ValidationError{Field: field, Reason: "not a decimal amount"}
	}
	return &d, nil
}

func validDateField(field string, raw *string) error {
	if raw == nil || *raw == "" {
		return nil
	}
	if _, ok := domain.ParseDate(raw); !ok {
		return ValidationError{Field: field, Reason: "expected YYYY-MM-DD"}
	}
	return nil
}

func (e Engine) CreateCollaboration(ctx context.Context, opts CollaborationCreateOptions) (domain.Collaboration, error) {
	if strings.TrimSpace(opts.Title) == "" {
		return domain.Collaboration{}, ValidationError{Field: "title", Reason: "required"}
	}
	if strings.TrimSpace(opts.Platform) == "" {
		return domain.Collaboration{}, ValidationError{Field: "platform", Reason: "required"}
	}
	if _, err := e.Repo.GetBrand(ctx, opts.UserID, opts.BrandID); err != nil {
		return domain.Collaboration{}, err
	}
	amount, err := parseAmount("agreed_amount", opts.AgreedAmount)
	if err != nil {
		return domain.Collaboration{}, err
	}
	if err := validDateField("deadline_date", opts.DeadlineDate); err != nil {
		return domain.Collaboration{}, err
	}
	if err := validDateField("posting_date", opts.PostingDate); err != nil {
		return domain.Collaboration{}, err
	}
	currency := strings.ToUpper(strings.TrimSpace(opts.Currency))
	if currency == "" {
		currency = e.Config.Defaults.Currency
	}
	now := e.timestamp()
	c := domain.Collaboration{
		ID:               newID(),
		UserID:           opts.UserID,
		BrandID:          opts.BrandID,
		Title:            strings.TrimSpace(opts.Title),
		Platform:         strings.TrimSpace(opts.Platform),
		DeliverablesText: opts.DeliverablesText,
		AgreedAmount:     amount,
		Currency:         currency,
		DeadlineDate:     opts.DeadlineDate,
		PostingDate:      opts.PostingDate,
		Status:           domain.StatusLead,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Collaboration{}, err
	}
	defer tx.Rollback()
	if err := e.Repo.InsertCollaboration(ctx, tx, c); err != nil {
		return domain.Collaboration{}, fmt.Errorf("insert collaboration: %w", err)
	}
	if err := e.Events.Append(ctx, tx, "collab.created", c.UserID, "collaboration", c.ID, events.EventPayload{"title": c.Title, "brand_id": c.BrandID}); err != nil {
		return domain.Collaboration{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Collaboration{}, err
	}
	return c, nil
}

func (e Engine) GetCollaboration(ctx context.Context, userID, id string) (domain.Collaboration, error) {
	return e.Repo.GetCollaboration(ctx, userID, id)
}

func (e Engine) ListCollaborations(ctx context.Context, f repo.CollaborationFilters) ([]domain.Collaboration, error) {
	if f.Status != "" && !domain.CollaborationStatus(f.Status).Valid() {
		return nil, ValidationError{Field: "status", Reason: "unknown status"}
	}
	return e.Repo.ListCollaborations(ctx, f)
}

// UpdateCollaboration edits descriptive fields. Status never changes here;
// that goes through ChangeCollaborationStatus.
func (e Engine) UpdateCollaboration(ctx context.Context, userID, id string, p repo.CollaborationPatch) (domain.Collaboration, error) {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return domain.Collaboration{}, ValidationError{Field: "title", Reason: "cannot be empty"}
	}
	if p.Platform != nil && strings.TrimSpace(*p.Platform) == "" {
		return domain.Collaboration{}, ValidationError{Field: "platform", Reason: "cannot be empty"}
	}
	if p.AgreedAmount != nil && *p.AgreedAmount != "" {
		if _, err := decimal.NewFromString(*p.AgreedAmount); err != nil {
			return domain.Collaboration{}, ValidationError{Field: "agreed_amount", Reason: "not a decimal amount"}
		}
	}
	if p.DeadlineDate != nil && *p.DeadlineDate != "" {
		if err := validDateField("deadline_date", p.DeadlineDate); err != nil {
			return domain.Collaboration{}, err
		}
	}
	if p.PostingDate != nil && *p.PostingDate != "" {
		if err := validDateField("posting_date", p.PostingDate); err != nil {
			return domain.Collaboration{}, err
		}
	}
	if p.Currency != nil {
		upper := strings.ToUpper(strings.TrimSpace(*p.Currency))
		if len(upper) != 3 {
			return domain.Collaboration{}, ValidationError{Field: "currency", Reason: "3-letter code required"}
		}
		p.Currency = &upper
	}
	if _, err := e.Repo.GetCollaboration(ctx, userID, id); err != nil {
		return domain.Collaboration{}, err
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Collaboration{}, err
	}
	defer tx.Rollback()
	if err := e.Repo.UpdateCollaboration(ctx, tx, userID, id, e.timestamp(), p); err != nil {
		return domain.Collaboration{}, err
	}
	if err := e.Events.Append(ctx, tx, "collab.updated", userID, "collaboration", id, nil); err != nil {
		return domain.Collaboration{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Collaboration{}, err
	}
	return e.Repo.GetCollaboration(ctx, userID, id)
}

// StatusChangeOptions are parameters for a lifecycle transition. PostingDate,
// when set, is stored atomically with the transition so InProduction to
// Posted can carry its own posting date.
type StatusChangeOptions struct {
	UserID      string
	ID          string
	Target      domain.CollaborationStatus
	PostingDate *string
}

func (e Engine) ChangeCollaborationStatus(ctx context.Context, opts StatusChangeOptions) (domain.Collaboration, error) {
	if err := validDateField("posting_date", opts.PostingDate); err != nil {
		return domain.Collaboration{}, err
	}
	// Validation and write share one transaction so the transition is
	// checked against the row it updates, not a stale read.
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Collaboration{}, err
	}
	defer tx.Rollback()
	c, err := e.Repo.GetCollaborationForUpdate(ctx, tx, opts.UserID, opts.ID)
	if err != nil {
		return domain.Collaboration{}, err
	}
	if opts.PostingDate != nil && *opts.PostingDate != "" {
		c.PostingDate = opts.PostingDate
	}
	exps, err := e.Repo.ListExpectationsByCollaboration(ctx, tx, c.ID)
	if err != nil {
		return domain.Collaboration{}, err
	}
	updated, err := workflow.Apply(c, opts.Target, workflow.Context{AsOf: e.today(), Expectations: exps})
	if err != nil {
		return domain.Collaboration{}, err
	}
	updated.UpdatedAt = e.timestamp()
	var postingDate *string
	if opts.PostingDate != nil && *opts.PostingDate != "" {
		postingDate = opts.PostingDate
	}
	if err := e.Repo.UpdateCollaborationStatus(ctx, tx, opts.UserID, opts.ID, updated.Status, postingDate, updated.UpdatedAt); err != nil {
		return domain.Collaboration{}, err
	}
	if err := e.Events.Append(ctx, tx, "collab.status.changed", opts.UserID, "collaboration", opts.ID, events.EventPayload{"from": string(c.Status), "to": string(updated.Status)}); err != nil {
		return domain.Collaboration{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Collaboration{}, err
	}
	return updated, nil
}
