package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/devbyharshit/collab-khata/internal/domain"
)

type Repo struct {
	DB *sql.DB
}

var ErrNotFound = errors.New("not found")

func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func nullableStringPtr(v *string) any {
	if v == nil {
		return nil
	}
	if *v == "" {
		return nil
	}
	return *v
}

func nullableDecimalPtr(v *decimal.Decimal) any {
	if v == nil {
		return nil
	}
	return v.String()
}

func decimalFromColumn(v sql.NullString, column string) (decimal.Decimal, error) {
	if !v.Valid || v.String == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(v.String)
	if err != nil {
		return decimal.Zero, fmt.Errorf("column %s holds non-decimal value %q", column, v.String)
	}
	return d, nil
}

func (r Repo) InsertUser(ctx context.Context, tx *sql.Tx, u domain.User) error {
	exec := r.DB.ExecContext
	if tx != nil {
		exec = tx.ExecContext
	}
	_, err := exec(ctx, `INSERT INTO users(id,email,password_hash,created_at) VALUES (?,?,?,?)`,
		u.ID, u.Email, u.PasswordHash, u.CreatedAt)
	return err
}

func scanUser(row *sql.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return u, ErrNotFound
	}
	return u, err
}

func (r Repo) GetUser(ctx context.Context, id string) (domain.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx, `SELECT id,email,password_hash,created_at FROM users WHERE id=?`, id))
}

func (r Repo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx, `SELECT id,email,password_hash,created_at FROM users WHERE email=?`, strings.ToLower(strings.TrimSpace(email))))
}

func (r Repo) InsertBrand(ctx context.Context, tx *sql.Tx, b domain.Brand) error {
	exec := r.DB.ExecContext
	if tx != nil {
		exec = tx.ExecContext
	}
	_, err := exec(ctx, `INSERT INTO brands(id,user_id,name,contact_name,contact_email,contact_channel,notes,created_at) VALUES (?,?,?,?,?,?,?,?)`,
		b.ID, b.UserID, b.Name, nullableStringPtr(b.ContactName), nullableStringPtr(b.ContactEmail), nullableStringPtr(b.ContactChannel), nullableStringPtr(b.Notes), b.CreatedAt)
	return err
}

func scanBrandRow(scan func(dest ...any) error) (domain.Brand, error) {
	var b domain.Brand
	var contactName, contactEmail, contactChannel, notes sql.NullString
	if err := scan(&b.ID, &b.UserID, &b.Name, &contactName, &contactEmail, &contactChannel, &notes, &b.CreatedAt); err != nil {
		return b, err
	}
	if contactName.Valid {
		b.ContactName = &contactName.String
	}
	if contactEmail.Valid {
		b.ContactEmail = &contactEmail.String
	}
	if contactChannel.Valid {
		b.ContactChannel = &contactChannel.String
	}
	if notes.Valid {
		b.Notes = &notes.String
	}
	return b, nil
}

const brandColumns = `id,user_id,name,contact_name,contact_email,contact_channel,notes,created_at`

func (r Repo) GetBrand(ctx context.Context, userID, id string) (domain.Brand, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+brandColumns+` FROM brands WHERE id=? AND user_id=?`, id, userID)
	b, err := scanBrandRow(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Brand{}, ErrNotFound
	}
	return b, err
}

func (r Repo) ListBrands(ctx context.Context, userID string, limit int, cursorCreatedAt, cursorID string) ([]domain.Brand, error) {
	clauses := []string{"user_id=?"}
	args := []any{userID}
	if cursorCreatedAt != "" && cursorID != "" {
		clauses = append(clauses, "(created_at < ? OR (created_at = ? AND id < ?))")
		args = append(args, cursorCreatedAt, cursorCreatedAt, cursorID)
	}
	query := `SELECT ` + brandColumns + ` FROM brands WHERE ` + strings.Join(clauses, " AND ") + ` ORDER BY created_at DESC, id DESC`
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Brand
	for rows.Next() {
		b, err := scanBrandRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		res = append(res, b)
	}
	return res, rows.Err()
}

// BrandPatch updates only the fields that are non-nil. An empty string
// clears a nullable column.
type BrandPatch struct {
	Name           *string
	ContactName    *string
	ContactEmail   *string
	ContactChannel *string
	Notes          *string
}

func (r Repo) UpdateBrand(ctx context.Context, userID, id string, p BrandPatch) error {
	var (
		fields []string
		args   []any
	)
	if p.Name != nil {
		fields = append(fields, "name=?")
		args = append(args, *p.Name)
	}
	if p.ContactName != nil {
		fields = append(fields, "contact_name=?")
		args = append(args, nullable(*p.ContactName))
	}
	if p.ContactEmail != nil {
		fields = append(fields, "contact_email=?")
		args = append(args, nullable(*p.ContactEmail))
	}
	if p.ContactChannel != nil {
		fields = append(fields, "contact_channel=?")
		args = append(args, nullable(*p.ContactChannel))
	}
	if p.Notes != nil {
		fields = append(fields, "notes=?")
		args = append(args, nullable(*p.Notes))
	}
	if len(fields) == 0 {
		return nil
	}
	args = append(args, id, userID)
	res, err := r.DB.ExecContext(ctx, fmt.Sprintf(`UPDATE brands SET %s WHERE id=? AND user_id=?`, strings.Join(fields, ",")), args...)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// BrandHasCollaborations reports whether any collaboration references the brand.
func (r Repo) BrandHasCollaborations(ctx context.Context, brandID string) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(1) FROM collaborations WHERE brand_id=?`, brandID).Scan(&n)
	return n > 0, err
}

func (r Repo) DeleteBrand(ctx context.Context, userID, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM brands WHERE id=? AND user_id=?`, id, userID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListEvents returns events newest-first, optionally filtered by user.
func (r Repo) ListEvents(ctx context.Context, userID string, limit int, cursor int64) ([]domain.Event, error) {
	var clauses []string
	var args []any
	if userID != "" {
		clauses = append(clauses, "user_id=?")
		args = append(args, userID)
	}
	if cursor > 0 {
		clauses = append(clauses, "id < ?")
		args = append(args, cursor)
	}
	where := ""
	if len(clauses) > 0 {
		where = "WHERE " + strings.Join(clauses, " AND ")
	}
	query := `SELECT id,ts,type,user_id,entity_kind,entity_id,payload_json FROM events ` + where + ` ORDER BY id DESC`
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Event
	for rows.Next() {
		var e domain.Event
		var uid, entityID sql.NullString
		if err := rows.Scan(&e.ID, &e.TS, &e.Type, &uid, &e.EntityKind, &entityID, &e.Payload); err != nil {
			return nil, err
		}
		if uid.Valid {
			e.UserID = uid.String
		}
		if entityID.Valid {
			e.EntityID = entityID.String
		}
		res = append(res, e)
	}
	return res, rows.Err()
}
