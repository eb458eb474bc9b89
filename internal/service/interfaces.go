package service

import (
	"context"

	"github.com/alexanderramin/millennium/internal/domain"
)

type AuthService interface {
	CurrentUser(ctx context.Context) (*domain.User, error)
	SignIn(ctx context.Context, email, password string) (*domain.User, error)
	// SignUp returns a nil user with a nil error when the account awaits
	// email confirmation.
	SignUp(ctx context.Context, email, password string) (*domain.User, error)
	SignOut(ctx context.Context) error
}

// RecordService manages the rows of one resource.
type RecordService interface {
	Resource() domain.Resource
	List(ctx context.Context, owner string) ([]domain.Record, error)
	Create(ctx context.Context, display, owner string) (domain.Record, error)
	Rename(ctx context.Context, id int64, display string) (domain.Record, error)
	Delete(ctx context.Context, id int64) error
}
