package repository

import (
	"context"

	"github.com/alexanderramin/millennium/internal/domain"
)

// AuthRepo is the auth side of a backing store.
type AuthRepo interface {
	// CurrentUser returns the signed-in user, or an error wrapping
	// domain.ErrNoSession when there is no valid session.
	CurrentUser(ctx context.Context) (*domain.User, error)
	SignIn(ctx context.Context, email, password string) (*domain.User, error)
	// SignUp registers a user. A nil user with a nil error means the account
	// exists but must be confirmed before signing in.
	SignUp(ctx context.Context, email, password string) (*domain.User, error)
	SignOut(ctx context.Context) error
}

// RecordRepo is the table side of a backing store for one resource.
type RecordRepo interface {
	// SelectAll returns rows in id order. A non-empty owner filters on user_id.
	SelectAll(ctx context.Context, owner string) ([]domain.Record, error)
	// Insert stores rec and returns the row as the store saw it, with its ID.
	Insert(ctx context.Context, rec domain.Record) (domain.Record, error)
	// Update sets the display column and returns the updated row, or
	// domain.ErrNotFound when no visible row has that ID.
	Update(ctx context.Context, id int64, display string) (domain.Record, error)
	Delete(ctx context.Context, id int64) error
}

// Backend bundles the auth and table sides of one store.
type Backend interface {
	Auth() AuthRepo
	Records(res domain.Resource) RecordRepo
}
