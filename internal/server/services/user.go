// Package services contains server-side business logic. This file implements
// UserService, which handles registration and login and issues identity
// tokens.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/dmitrijs2005/portfoliorisk/internal/common"
	"github.com/dmitrijs2005/portfoliorisk/internal/server/auth"
	"github.com/dmitrijs2005/portfoliorisk/internal/server/models"
	"github.com/dmitrijs2005/portfoliorisk/internal/server/repositories/repomanager"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 8
	// bcrypt ignores input past 72 bytes.
	maxPasswordLength = 72
)

// AuthResult is returned by a successful register or login.
type AuthResult struct {
	Token string
	Email string
}

type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      *auth.TokenService
	bcryptCost  int
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, tokens *auth.TokenService) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		tokens:      tokens,
		bcryptCost:  bcrypt.DefaultCost,
	}
}

// Register creates a USER account and returns a token for it. A taken email
// is a validation failure.
func (s *UserService) Register(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)

	exists, err := repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("error checking email: %w", err)
	}
	if exists {
		return nil, common.NewValidationError("email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user, err := repo.Create(ctx, &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.NewValidationError("email already exists")
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return s.issue(user)
}

// Login checks the password and returns a token. Unknown email and wrong
// password both yield common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, common.ErrorUnauthorized
	}

	return s.issue(user)
}

func (s *UserService) issue(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user.Email, map[string]any{"role": string(user.Role)})
	if err != nil {
		return nil, fmt.Errorf("error issuing token: %w", err)
	}
	return &AuthResult{Token: token, Email: user.Email}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateCredentials(email, password string) error {
	if email == "" {
		return common.NewValidationError("email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return common.NewValidationError("email is not valid")
	}
	if len(password) < minPasswordLength {
		return common.Validationf("password must be at least %d characters", minPasswordLength)
	}
	if len(password) > maxPasswordLength {
		return common.Validationf("password must be at most %d bytes", maxPasswordLength)
	}
	return nil
}
