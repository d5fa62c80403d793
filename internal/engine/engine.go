package engine

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/devbyharshit/collab-khata/internal/config"
	"github.com/devbyharshit/collab-khata/internal/domain"
	"github.com/devbyharshit/collab-khata/internal/events"
	"github.com/devbyharshit/collab-khata/internal/repo"
)

type Engine struct {
	DB     *sql.DB
	Repo   repo.Repo
	Events events.Writer
	Config *config.Config
	Now    func() time.Time
}

func New(db *sql.DB, cfg *config.Config) Engine {
	return Engine{
		DB:     db,
		Repo:   repo.Repo{DB: db},
		Events: events.Writer{DB: db},
		Config: cfg,
		Now:    time.Now,
	}
}

func (e Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e Engine) timestamp() string {
	return e.now().UTC().Format(time.RFC3339)
}

// today returns the current date at midnight UTC. Overdue classification
// compares dates, never wall-clock instants: a payment promised for today
// is still Pending however late in the day it is.
func (e Engine) today() time.Time {
	now := e.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func newID() string {
	return uuid.NewString()
}

// ConflictError indicates a uniqueness violation surfaced to the caller.
type ConflictError struct {
	Field string
	Value string
}

func (e ConflictError) Error() string {
	return fmt.Sprintf("%s %s already in use", e.Field, e.Value)
}

// ValidationError indicates a request that fails domain validation before
// touching storage.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ErrBadCredentials is returned for unknown emails and wrong passwords alike.
var ErrBadCredentials = errors.New("invalid email or password")

// Register creates a user with a bcrypt password hash.
func (e Engine) Register(ctx context.Context, email, password string) (domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return domain.User{}, ValidationError{Field: "email", Reason: "valid address required"}
	}
	if len(password) < 8 {
		return domain.User{}, ValidationError{Field: "password", Reason: "at least 8 characters"}
	}
	if _, err := e.Repo.GetUserByEmail(ctx, email); err == nil {
		return domain.User{}, ConflictError{Field: "email", Value: email}
	} else if !errors.Is(err, repo.ErrNotFound) {
		return domain.User{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}
	u := domain.User{
		ID:           newID(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    e.timestamp(),
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.User{}, err
	}
	defer tx.Rollback()
	if err := e.Repo.InsertUser(ctx, tx, u); err != nil {
		return domain.User{}, fmt.Errorf("insert user: %w", err)
	}
	if err := e.Events.Append(ctx, tx, "user.registered", u.ID, "user", u.ID, events.EventPayload{"email": u.Email}); err != nil {
		return domain.User{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

// Authenticate checks credentials and returns the user.
func (e Engine) Authenticate(ctx context.Context, email, password string) (domain.User, error) {
	u, err := e.Repo.GetUserByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return domain.User{}, ErrBadCredentials
	}
	if err != nil {
		return domain.User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return domain.User{}, ErrBadCredentials
	}
	return u, nil
}

// IssueAPIKey mints a new key, stores only its hash and returns the
// plaintext once.
func (e Engine) IssueAPIKey(ctx context.Context, userID, name string) (domain.APIKey, string, error) {
	if _, err := e.Repo.GetUser(ctx, userID); err != nil {
		return domain.APIKey{}, "", err
	}
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return domain.APIKey{}, "", err
	}
	plaintext := "ck_" + hex.EncodeToString(raw)
	key := domain.APIKey{
		ID:        newID(),
		UserID:    userID,
		Name:      name,
		KeyHash:   repo.HashAPIKey(plaintext),
		CreatedAt: e.timestamp(),
	}
	if err := e.Repo.InsertAPIKey(ctx, nil, key); err != nil {
		return domain.APIKey{}, "", err
	}
	return key, plaintext, nil
}

// BrandCreateOptions are parameters for creating a brand.
type BrandCreateOptions struct {
	UserID         string
	Name           string
	ContactName    *string
	ContactEmail   *string
	ContactChannel *string
	Notes          *string
}

func (e Engine) CreateBrand(ctx context.Context, opts BrandCreateOptions) (domain.Brand, error) {
	if strings.TrimSpace(opts.Name) == "" {
		return domain.Brand{}, ValidationError{Field: "name", Reason: "required"}
	}
	b := domain.Brand{
		ID:             newID(),
		UserID:         opts.UserID,
		Name:           strings.TrimSpace(opts.Name),
		ContactName:    opts.ContactName,
		ContactEmail:   opts.ContactEmail,
		ContactChannel: opts.ContactChannel,
		Notes:          opts.Notes,
		CreatedAt:      e.timestamp(),
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Brand{}, err
	}
	defer tx.Rollback()
	if err := e.Repo.InsertBrand(ctx, tx, b); err != nil {
		return domain.Brand{}, fmt.Errorf("insert brand: %w", err)
	}
	if err := e.Events.Append(ctx, tx, "brand.created", b.UserID, "brand", b.ID, events.EventPayload{"name": b.Name}); err != nil {
		return domain.Brand{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Brand{}, err
	}
	return b, nil
}

func (e Engine) GetBrand(ctx context.Context, userID, id string) (domain.Brand, error) {
	return e.Repo.GetBrand(ctx, userID, id)
}

func (e Engine) ListBrands(ctx context.Context, userID string, limit int, cursorCreatedAt, cursorID string) ([]domain.Brand, error) {
	return e.Repo.ListBrands(ctx, userID, limit, cursorCreatedAt, cursorID)
}

func (e Engine) UpdateBrand(ctx context.Context, userID, id string, p repo.BrandPatch) (domain.Brand, error) {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return domain.Brand{}, ValidationError{Field: "name", Reason: "cannot be empty"}
	}
	if err := e.Repo.UpdateBrand(ctx, userID, id, p); err != nil {
		return domain.Brand{}, err
	}
	return e.Repo.GetBrand(ctx, userID, id)
}

// DeleteBrand refuses while collaborations still reference the brand.
func (e Engine) DeleteBrand(ctx context.Context, userID, id string) error {
	if _, err := e.Repo.GetBrand(ctx, userID, id); err != nil {
		return err
	}
	inUse, err := e.Repo.BrandHasCollaborations(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return ConflictError{Field: "brand", Value: id}
	}
	return e.Repo.DeleteBrand(ctx, userID, id)
}
