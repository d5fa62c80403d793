package repo

import (
	"context"
	"database/sql"

	"github.com/devbyharshit/collab-khata/internal/domain"
)

const expectationColumns = `id,collaboration_id,expected_amount,promised_date,payment_method,notes,created_at`

func (r Repo) InsertPaymentExpectation(ctx context.Context, tx *sql.Tx, exp domain.PaymentExpectation) error {
	exec := r.DB.ExecContext
	if tx != nil {
		exec = tx.ExecContext
	}
	_, err := exec(ctx, `INSERT INTO payment_expectations(`+expectationColumns+`) VALUES (?,?,?,?,?,?,?)`,
		exp.ID, exp.CollaborationID, exp.ExpectedAmount.String(), nullableStringPtr(exp.PromisedDate),
		nullableStringPtr(exp.PaymentMethod), nullableStringPtr(exp.Notes), exp.CreatedAt)
	return err
}

func scanExpectationRow(scan func(dest ...any) error) (domain.PaymentExpectation, error) {
	var exp domain.PaymentExpectation
	var amount, promised, method, notes sql.NullString
	if err := scan(&exp.ID, &exp.CollaborationID, &amount, &promised, &method, &notes, &exp.CreatedAt); err != nil {
		return exp, err
	}
	d, err := decimalFromColumn(amount, "expected_amount")
	if err != nil {
		return exp, err
	}
	exp.ExpectedAmount = d
	if promised.Valid {
		exp.PromisedDate = &promised.String
	}
	if method.Valid {
		exp.PaymentMethod = &method.String
	}
	if notes.Valid {
		exp.Notes = &notes.String
	}
	return exp, nil
}

// GetPaymentExpectation scopes by owner through the collaboration join.
func (r Repo) GetPaymentExpectation(ctx context.Context, userID, id string) (domain.PaymentExpectation, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT e.id,e.collaboration_id,e.expected_amount,e.promised_date,e.payment_method,e.notes,e.created_at
		FROM payment_expectations e JOIN collaborations c ON c.id=e.collaboration_id
		WHERE e.id=? AND c.user_id=?`, id, userID)
	exp, err := scanExpectationRow(row.Scan)
	if err == sql.ErrNoRows {
		return domain.PaymentExpectation{}, ErrNotFound
	}
	return exp, err
}

// ListExpectationsByCollaboration returns the collaboration's expectations
// with their credits loaded, oldest first. A non-nil tx scopes the read to
// the caller's transaction.
func (r Repo) ListExpectationsByCollaboration(ctx context.Context, tx *sql.Tx, collaborationID string) ([]domain.PaymentExpectation, error) {
	query := r.DB.QueryContext
	if tx != nil {
		query = tx.QueryContext
	}
	rows, err := query(ctx, `SELECT `+expectationColumns+` FROM payment_expectations WHERE collaboration_id=? ORDER BY created_at ASC, id ASC`, collaborationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.PaymentExpectation
	for rows.Next() {
		exp, err := scanExpectationRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		res = append(res, exp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range res {
		credits, err := r.ListCreditsByExpectation(ctx, tx, res[i].ID)
		if err != nil {
			return nil, err
		}
		res[i].Credits = credits
	}
	return res, nil
}

// ExpectationDetail pairs an expectation with the collaboration and brand it
// belongs to, for overdue listings.
type ExpectationDetail struct {
	Expectation        domain.PaymentExpectation
	CollaborationID    string
	CollaborationTitle string
	BrandName          string
}

// ListExpectationDetailsForUser returns every expectation across the user's
// collaborations with credits loaded, oldest promise first.
func (r Repo) ListExpectationDetailsForUser(ctx context.Context, userID string) ([]ExpectationDetail, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT e.id,e.collaboration_id,e.expected_amount,e.promised_date,e.payment_method,e.notes,e.created_at,c.title,b.name
		FROM payment_expectations e
		JOIN collaborations c ON c.id=e.collaboration_id
		JOIN brands b ON b.id=c.brand_id
		WHERE c.user_id=?
		ORDER BY COALESCE(e.promised_date,'9999-12-31') ASC, e.created_at ASC, e.id ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []ExpectationDetail
	for rows.Next() {
		var d ExpectationDetail
		var amount, promised, method, notes sql.NullString
		if err := rows.Scan(&d.Expectation.ID, &d.Expectation.CollaborationID, &amount, &promised, &method, &notes, &d.Expectation.CreatedAt, &d.CollaborationTitle, &d.BrandName); err != nil {
			return nil, err
		}
		dec, err := decimalFromColumn(amount, "expected_amount")
		if err != nil {
			return nil, err
		}
		d.Expectation.ExpectedAmount = dec
		if promised.Valid {
			d.Expectation.PromisedDate = &promised.String
		}
		if method.Valid {
			d.Expectation.PaymentMethod = &method.String
		}
		if notes.Valid {
			d.Expectation.Notes = &notes.String
		}
		d.CollaborationID = d.Expectation.CollaborationID
		res = append(res, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range res {
		credits, err := r.ListCreditsByExpectation(ctx, nil, res[i].Expectation.ID)
		if err != nil {
			return nil, err
		}
		res[i].Expectation.Credits = credits
	}
	return res, nil
}

func (r Repo) InsertPaymentCredit(ctx context.Context, tx *sql.Tx, cr domain.PaymentCredit) error {
	exec := r.DB.ExecContext
	if tx != nil {
		exec = tx.ExecContext
	}
	_, err := exec(ctx, `INSERT INTO payment_credits(id,payment_expectation_id,credited_amount,credited_date,reference_note,created_at) VALUES (?,?,?,?,?,?)`,
		cr.ID, cr.PaymentExpectationID, cr.CreditedAmount.String(), cr.CreditedDate, nullableStringPtr(cr.ReferenceNote), cr.CreatedAt)
	return err
}

func (r Repo) ListCreditsByExpectation(ctx context.Context, tx *sql.Tx, expectationID string) ([]domain.PaymentCredit, error) {
	query := r.DB.QueryContext
	if tx != nil {
		query = tx.QueryContext
	}
	rows, err := query(ctx, `SELECT id,payment_expectation_id,credited_amount,credited_date,reference_note,created_at FROM payment_credits WHERE payment_expectation_id=? ORDER BY credited_date ASC, created_at ASC, id ASC`, expectationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.PaymentCredit
	for rows.Next() {
		var cr domain.PaymentCredit
		var amount, ref sql.NullString
		if err := rows.Scan(&cr.ID, &cr.PaymentExpectationID, &amount, &cr.CreditedDate, &ref, &cr.CreatedAt); err != nil {
			return nil, err
		}
		d, err := decimalFromColumn(amount, "credited_amount")
		if err != nil {
			return nil, err
		}
		cr.CreditedAmount = d
		if ref.Valid {
			cr.ReferenceNote = &ref.String
		}
		res = append(res, cr)
	}
	return res, rows.Err()
}
