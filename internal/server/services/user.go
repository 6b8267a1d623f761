// Package services contains the server-side business logic: UserService
// (signup, login, token issuance) and CarService (car record lifecycle
// including image reconciliation).
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vkuzmenko/carvault/internal/common"
	"github.com/vkuzmenko/carvault/internal/cryptox"
	"github.com/vkuzmenko/carvault/internal/server/auth"
	"github.com/vkuzmenko/carvault/internal/server/config"
	"github.com/vkuzmenko/carvault/internal/server/models"
	"github.com/vkuzmenko/carvault/internal/server/repositories/repomanager"
)

// UserService provides authentication-related operations:
// - SignUp: create users with bcrypt-hashed passwords
// - Login: verify credentials and mint a session token
type UserService struct {
	db                    *sql.DB
	repomanager           repomanager.RepositoryManager
	jwtSecret             []byte
	tokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                    db,
		repomanager:           m,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
	}
}

// SignUp creates a new user. Email uniqueness is checked here, not by a
// database constraint. The stored password is a bcrypt digest, never the
// plaintext.
func (s *UserService) SignUp(ctx context.Context, firstName, lastName, email, password string) (*models.User, error) {
	if firstName == "" || lastName == "" || email == "" || password == "" {
		return nil, common.ErrorValidation
	}

	repo := s.repomanager.Users(s.db)

	_, err := repo.GetByEmail(ctx, email)
	if err == nil {
		return nil, common.ErrorConflict
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error checking email: %w", err)
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Password:  hash,
	}

	user, err = repo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// Login verifies credentials and, on success, issues a session token
// valid for the configured duration. The token is also stored on the
// user record as the advisory last-issued token; earlier tokens remain
// valid until their natural expiry.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	if email == "" || password == "" {
		return nil, "", common.ErrorValidation
	}

	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, "", common.ErrorNotFound
		}
		return nil, "", common.ErrorInternal
	}

	if !cryptox.CheckPassword(user.Password, password) {
		return nil, "", common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(user.ID, user.Email, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return nil, "", common.ErrorInternal
	}

	if err := repo.UpdateToken(ctx, user.ID, token); err != nil {
		return nil, "", fmt.Errorf("error storing token: %w", err)
	}
	user.Token = token

	return user, token, nil
}
