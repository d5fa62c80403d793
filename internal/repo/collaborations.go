package repo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/devbyharshit/collab-khata/internal/domain"
)

const collabColumns = `id,user_id,brand_id,title,platform,deliverables_text,agreed_amount,currency,deadline_date,posting_date,status,created_at,updated_at`

func (r Repo) InsertCollaboration(ctx context.Context, tx *sql.Tx, c domain.Collaboration) error {
	exec := r.DB.ExecContext
	if tx != nil {
		exec = tx.ExecContext
	}
	_, err := exec(ctx, `INSERT INTO collaborations(`+collabColumns+`) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		c.ID, c.UserID, c.BrandID, c.Title, c.Platform, nullableStringPtr(c.DeliverablesText), nullableDecimalPtr(c.AgreedAmount),
		c.Currency, nullableStringPtr(c.DeadlineDate), nullableStringPtr(c.PostingDate), c.Status, c.CreatedAt, c.UpdatedAt)
	return err
}

func scanCollabRow(scan func(dest ...any) error) (domain.Collaboration, error) {
	var c domain.Collaboration
	var deliverables, amount, deadline, posting sql.NullString
	if err := scan(&c.ID, &c.UserID, &c.BrandID, &c.Title, &c.Platform, &deliverables, &amount, &c.Currency, &deadline, &posting, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return c, err
	}
	if deliverables.Valid {
		c.DeliverablesText = &deliverables.String
	}
	if amount.Valid && amount.String != "" {
		d, err := decimalFromColumn(amount, "agreed_amount")
		if err != nil {
			return c, err
		}
		c.AgreedAmount = &d
	}
	if deadline.Valid {
		c.DeadlineDate = &deadline.String
	}
	if posting.Valid {
		c.PostingDate = &posting.String
	}
	return c, nil
}

func (r Repo) GetCollaboration(ctx context.Context, userID, id string) (domain.Collaboration, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+collabColumns+` FROM collaborations WHERE id=? AND user_id=?`, id, userID)
	c, err := scanCollabRow(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Collaboration{}, ErrNotFound
	}
	return c, err
}

// GetCollaborationForUpdate reads inside the caller's transaction so a
// status change validates against the same row it is about to write.
func (r Repo) GetCollaborationForUpdate(ctx context.Context, tx *sql.Tx, userID, id string) (domain.Collaboration, error) {
	queryRow := r.DB.QueryRowContext
	if tx != nil {
		queryRow = tx.QueryRowContext
	}
	row := queryRow(ctx, `SELECT `+collabColumns+` FROM collaborations WHERE id=? AND user_id=?`, id, userID)
	c, err := scanCollabRow(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Collaboration{}, ErrNotFound
	}
	return c, err
}

type CollaborationFilters struct {
	UserID          string
	BrandID         string
	Status          string
	Platform        string
	Limit           int
	CursorCreatedAt string
	CursorID        string
}

func (r Repo) ListCollaborations(ctx context.Context, f CollaborationFilters) ([]domain.Collaboration, error) {
	clauses := []string{"user_id=?"}
	args := []any{f.UserID}
	if f.BrandID != "" {
		clauses = append(clauses, "brand_id=?")
		args = append(args, f.BrandID)
	}
	if f.Status != "" {
		clauses = append(clauses, "status=?")
		args = append(args, f.Status)
	}
	if f.Platform != "" {
		clauses = append(clauses, "platform=?")
		args = append(args, f.Platform)
	}
	if f.CursorCreatedAt != "" && f.CursorID != "" {
		clauses = append(clauses, "(created_at < ? OR (created_at = ? AND id < ?))")
		args = append(args, f.CursorCreatedAt, f.CursorCreatedAt, f.CursorID)
	}
	query := `SELECT ` + collabColumns + ` FROM collaborations WHERE ` + strings.Join(clauses, " AND ") + ` ORDER BY created_at DESC, id DESC`
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Collaboration
	for rows.Next() {
		c, err := scanCollabRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, rows.Err()
}

// CollaborationPatch updates only the fields that are non-nil. An empty
// string clears a nullable column; Status is not patchable here, status
// changes go through UpdateCollaborationStatus.
type CollaborationPatch struct {
	Title            *string
	Platform         *string
	DeliverablesText *string
	AgreedAmount     *string
	Currency         *string
	DeadlineDate     *string
	PostingDate      *string
}

func (r Repo) UpdateCollaboration(ctx context.Context, tx *sql.Tx, userID, id, updatedAt string, p CollaborationPatch) error {
	var (
		fields []string
		args   []any
	)
	if p.Title != nil {
		fields = append(fields, "title=?")
		args = append(args, *p.Title)
	}
	if p.Platform != nil {
		fields = append(fields, "platform=?")
		args = append(args, *p.Platform)
	}
	if p.DeliverablesText != nil {
		fields = append(fields, "deliverables_text=?")
		args = append(args, nullable(*p.DeliverablesText))
	}
	if p.AgreedAmount != nil {
		fields = append(fields, "agreed_amount=?")
		args = append(args, nullable(*p.AgreedAmount))
	}
	if p.Currency != nil {
		fields = append(fields, "currency=?")
		args = append(args, *p.Currency)
	}
	if p.DeadlineDate != nil {
		fields = append(fields, "deadline_date=?")
		args = append(args, nullable(*p.DeadlineDate))
	}
	if p.PostingDate != nil {
		fields = append(fields, "posting_date=?")
		args = append(args, nullable(*p.PostingDate))
	}
	if len(fields) == 0 {
		return nil
	}
	fields = append(fields, "updated_at=?")
	args = append(args, updatedAt, id, userID)
	exec := r.DB.ExecContext
	if tx != nil {
		exec = tx.ExecContext
	}
	res, err := exec(ctx, fmt.Sprintf(`UPDATE collaborations SET %s WHERE id=? AND user_id=?`, strings.Join(fields, ",")), args...)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateCollaborationStatus persists a validated status change, optionally
// setting the posting date in the same statement.
func (r Repo) UpdateCollaborationStatus(ctx context.Context, tx *sql.Tx, userID, id string, status domain.CollaborationStatus, postingDate *string, updatedAt string) error {
	query := `UPDATE collaborations SET status=?, updated_at=? WHERE id=? AND user_id=?`
	args := []any{status, updatedAt, id, userID}
	if postingDate != nil {
		query = `UPDATE collaborations SET status=?, posting_date=?, updated_at=? WHERE id=? AND user_id=?`
		args = []any{status, *postingDate, updatedAt, id, userID}
	}
	exec := r.DB.ExecContext
	if tx != nil {
		exec = tx.ExecContext
	}
	res, err := exec(ctx, query, args...)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
