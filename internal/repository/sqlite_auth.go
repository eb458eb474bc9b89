package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/millennium/internal/config"
	"github.com/alexanderramin/millennium/internal/db"
	"github.com/alexanderramin/millennium/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
)

const (
	// SessionTTL is how long a local session stays valid.
	SessionTTL = 7 * 24 * time.Hour

	minPasswordLen = 6
	localTokenType = "local"
)

// SQLiteAuthRepo implements AuthRepo against the local users and sessions
// tables. The active session ID is kept in the shared token file.
type SQLiteAuthRepo struct {
	db     *sql.DB
	uow    db.UnitOfWork
	tokens *config.TokenStore

	// bcrypt cost; tests lower it.
	cost int
}

// NewSQLiteAuthRepo creates a SQLiteAuthRepo.
func NewSQLiteAuthRepo(database *sql.DB, uow db.UnitOfWork, tokens *config.TokenStore) *SQLiteAuthRepo {
	return &SQLiteAuthRepo{db: database, uow: uow, tokens: tokens, cost: bcrypt.DefaultCost}
}

// WithHashCost overrides the bcrypt cost.
func (r *SQLiteAuthRepo) WithHashCost(cost int) *SQLiteAuthRepo {
	r.cost = cost
	return r
}

func (r *SQLiteAuthRepo) CurrentUser(ctx context.Context) (*domain.User, error) {
	tok, err := r.tokens.Load()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNoSession, err)
	}
	if tok == nil {
		return nil, domain.ErrNoSession
	}

	query := `SELECT u.id, u.email FROM sessions s JOIN users u ON u.id = s.user_id
		WHERE s.token = ? AND s.expires_at > ?`
	var u domain.User
	err = r.db.QueryRowContext(ctx, query, tok.AccessToken, nowUTC()).Scan(&u.ID, &u.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	return &u, nil
}

func (r *SQLiteAuthRepo) SignIn(ctx context.Context, email, password string) (*domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	var u domain.User
	var hash string
	err := r.db.QueryRowContext(ctx, `SELECT id, email, password_hash FROM users WHERE email = ?`, email).
		Scan(&u.ID, &u.Email, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("loading user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	var token string
	err = r.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var err error
		token, err = createSession(ctx, tx, u.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := r.saveToken(token); err != nil {
		return nil, err
	}
	return &u, nil
}

// SignUp creates the user and signs them in; local accounts need no
// confirmation step.
func (r *SQLiteAuthRepo) SignUp(ctx context.Context, email, password string) (*domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("unable to validate email address: invalid format")
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("password should be at least %d characters", minPasswordLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), r.cost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	u := domain.User{ID: uuid.New().String(), Email: email}
	var token string
	err = r.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var exists int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE email = ?`, email).Scan(&exists); err != nil {
			return fmt.Errorf("checking email: %w", err)
		}
		if exists > 0 {
			return domain.ErrUserExists
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO users (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)`,
			u.ID, u.Email, string(hash), nowUTC(),
		); err != nil {
			return fmt.Errorf("inserting user: %w", err)
		}
		var err error
		token, err = createSession(ctx, tx, u.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := r.saveToken(token); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *SQLiteAuthRepo) SignOut(ctx context.Context) error {
	tok, err := r.tokens.Load()
	if err != nil {
		return r.tokens.Clear()
	}
	if tok != nil {
		if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, tok.AccessToken); err != nil {
			return fmt.Errorf("deleting session: %w", err)
		}
	}
	return r.tokens.Clear()
}

func (r *SQLiteAuthRepo) saveToken(token string) error {
	return r.tokens.Save(&oauth2.Token{
		AccessToken: token,
		TokenType:   localTokenType,
		Expiry:      time.Now().Add(SessionTTL),
	})
}

func createSession(ctx context.Context, tx db.DBTX, userID string) (string, error) {
	token := uuid.New().String()
	now := time.Now().UTC()
	_, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (token, user_id, created_at, expires_at) VALUES (?, ?, ?, ?)`,
		token, userID, now.Format(time.RFC3339), now.Add(SessionTTL).Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("creating session: %w", err)
	}
	return token, nil
}
