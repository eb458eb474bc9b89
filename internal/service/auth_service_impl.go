package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/alexanderramin/millennium/internal/domain"
	"github.com/alexanderramin/millennium/internal/repository"
)

type authService struct {
	auth     repository.AuthRepo
	observer UseCaseObserver
}

func NewAuthService(auth repository.AuthRepo, observers ...UseCaseObserver) AuthService {
	return &authService{auth: auth, observer: useCaseObserverOrNoop(observers)}
}

func (s *authService) CurrentUser(ctx context.Context) (*domain.User, error) {
	u, err := s.auth.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	if u == nil || u.ID == "" {
		return nil, domain.ErrNoSession
	}
	return u, nil
}

func (s *authService) SignIn(ctx context.Context, email, password string) (u *domain.User, err error) {
	email = strings.TrimSpace(email)
	defer observe(ctx, s.observer, "sign-in", time.Now(), map[string]any{"email": email}, &err)

	if email == "" || password == "" {
		return nil, errors.New("email and password are required")
	}
	return s.auth.SignIn(ctx, email, password)
}

func (s *authService) SignUp(ctx context.Context, email, password string) (u *domain.User, err error) {
	email = strings.TrimSpace(email)
	fields := map[string]any{"email": email}
	defer observe(ctx, s.observer, "sign-up", time.Now(), fields, &err)

	if email == "" || password == "" {
		return nil, errors.New("email and password are required")
	}
	u, err = s.auth.SignUp(ctx, email, password)
	fields["confirmation_pending"] = err == nil && u == nil
	return u, err
}

func (s *authService) SignOut(ctx context.Context) (err error) {
	defer observe(ctx, s.observer, "sign-out", time.Now(), nil, &err)
	return s.auth.SignOut(ctx)
}
