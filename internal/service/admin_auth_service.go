package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"carrental/internal/auth"
	"carrental/internal/db"
	"carrental/internal/store"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// AdminAuthService exchanges admin credentials for a signed JWT.
type AdminAuthService struct {
	store     store.Store
	jwtSecret string
	log       *logrus.Logger
}

func NewAdminAuthService(st store.Store, jwtSecret string, log *logrus.Logger) *AdminAuthService {
	return &AdminAuthService{store: st, jwtSecret: jwtSecret, log: log}
}

func (s *AdminAuthService) Login(ctx context.Context, email, password string) (string, error) {
	admin, err := s.store.GetAdminByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrAdminNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("error looking up admin: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return auth.GenerateToken(s.jwtSecret, admin.Email)
}

// EnsureAdmin seeds the admin account from configuration on startup. It is a
// no-op when the account already exists or no credentials are configured.
func (s *AdminAuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	_, err := s.store.GetAdminByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrAdminNotFound) {
		return fmt.Errorf("error checking for admin account: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("error hashing admin password: %w", err)
	}
	admin := &db.Admin{Email: email, PasswordHash: string(hash)}
	if err := s.store.CreateAdmin(ctx, admin); err != nil {
		return fmt.Errorf("error creating admin account: %w", err)
	}
	s.log.WithField("email", email).Info("admin account created")
	return nil
}
