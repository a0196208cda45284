package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	domainErrors "github.com/shopline/storefront/internal/domain/errors"
	"github.com/shopline/storefront/internal/domain/model"
	"github.com/shopline/storefront/internal/domain/repository"
	pkgAuth "github.com/shopline/storefront/internal/pkg/auth"
)

// AuthUseCase handles account lifecycle and token management.
type AuthUseCase struct {
	users  repository.UserRepository
	hasher pkgAuth.PasswordHasher
	tokens pkgAuth.Strategy
}

// NewAuthUseCase constructs AuthUseCase.
func NewAuthUseCase(users repository.UserRepository, hasher pkgAuth.PasswordHasher, strategy pkgAuth.Strategy) *AuthUseCase {
	return &AuthUseCase{users: users, hasher: hasher, tokens: strategy}
}

// RegisterParams carries the registration payload.
type RegisterParams struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Address  model.Address
}

// Register creates a new customer account and returns an auth token.
func (u *AuthUseCase) Register(ctx context.Context, params RegisterParams) (*model.User, string, error) {
	name := strings.TrimSpace(params.Name)
	email := strings.ToLower(strings.TrimSpace(params.Email))
	if name == "" || email == "" {
		return nil, "", domainErrors.NewValidation("name and email are required")
	}
	if !strings.Contains(email, "@") {
		return nil, "", domainErrors.NewValidation("invalid email address")
	}
	if len(params.Password) < 4 {
		return nil, "", domainErrors.NewValidation("password must be at least 4 characters")
	}

	hash, err := u.hasher.Hash(params.Password)
	if err != nil {
		return nil, "", err
	}

	usr := &model.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Phone:        strings.TrimSpace(params.Phone),
		Address:      params.Address,
		Role:         model.RoleCustomer,
	}
	if err := u.users.Create(ctx, usr); err != nil {
		return nil, "", err
	}

	token, err := u.tokens.IssueToken(usr.ID)
	if err != nil {
		return nil, "", err
	}
	return usr, token, nil
}

// Authenticate validates credentials and returns an auth token.
func (u *AuthUseCase) Authenticate(ctx context.Context, email, password string) (*model.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	usr, err := u.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, "", domainErrors.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := u.hasher.Compare(usr.PasswordHash, password); err != nil {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	token, err := u.tokens.IssueToken(usr.ID)
	if err != nil {
		return nil, "", err
	}
	return usr, token, nil
}

// ParseToken extracts user ID from provided token.
func (u *AuthUseCase) ParseToken(token string) (string, error) {
	if token == "" {
		return "", pkgAuth.ErrInvalidToken
	}
	return u.tokens.ParseToken(token)
}

// GetByID fetches user by identifier.
func (u *AuthUseCase) GetByID(ctx context.Context, id string) (*model.User, error) {
	return u.users.GetByID(ctx, id)
}

// UpdateProfileParams carries optional profile changes. Nil fields are left
// untouched.
type UpdateProfileParams struct {
	Name         *string
	Phone        *string
	Address      *model.Address
	ProfileImage *string
}

// UpdateProfile applies profile edits. Placed orders keep their denormalized
// owner snapshot regardless of later edits.
func (u *AuthUseCase) UpdateProfile(ctx context.Context, userID string, params UpdateProfileParams) (*model.User, error) {
	usr, err := u.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		name := strings.TrimSpace(*params.Name)
		if name == "" {
			return nil, domainErrors.NewValidation("name must not be empty")
		}
		usr.Name = name
	}
	if params.Phone != nil {
		usr.Phone = strings.TrimSpace(*params.Phone)
	}
	if params.Address != nil {
		usr.Address = *params.Address
	}
	if params.ProfileImage != nil {
		usr.ProfileImage = *params.ProfileImage
	}

	if err := u.users.UpdateProfile(ctx, usr); err != nil {
		return nil, err
	}
	return usr, nil
}

// ChangePassword verifies the current password before storing a new hash.
func (u *AuthUseCase) ChangePassword(ctx context.Context, userID, current, next string) error {
	usr, err := u.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := u.hasher.Compare(usr.PasswordHash, current); err != nil {
		return domainErrors.ErrInvalidCredentials
	}
	if len(next) < 4 {
		return domainErrors.NewValidation("password must be at least 4 characters")
	}

	hash, err := u.hasher.Hash(next)
	if err != nil {
		return err
	}
	return u.users.UpdatePassword(ctx, userID, hash)
}
