package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/acme_store/internal/apperr"
	"github.com/Skotchmaster/acme_store/internal/hash"
	"github.com/Skotchmaster/acme_store/internal/models"
	"github.com/Skotchmaster/acme_store/internal/repo"
	"github.com/Skotchmaster/acme_store/internal/tokens"
)

const maxUsernameLen = 20

type IdentityService struct {
	Repo     *repo.GormRepo
	Secret   []byte
	TokenTTL time.Duration
}

type LoginResult struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expires_at"`
	User      models.Principal `json:"user"`
	Cart      *models.Cart     `json:"cart"`
}

type UserSummary struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

// Signup creates a user together with its cart.
func (s *IdentityService) Signup(ctx context.Context, username, password string, isAdmin bool) (*models.User, *models.Cart, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, nil, fmt.Errorf("%w: username and password are required", apperr.ErrValidation)
	}
	if utf8.RuneCountInString(username) > maxUsernameLen {
		return nil, nil, fmt.Errorf("%w: username must be at most %d characters", apperr.ErrValidation, maxUsernameLen)
	}

	hashed, err := hash.HashPassword(password)
	if errors.Is(err, hash.ErrPasswordTooLong) {
		return nil, nil, fmt.Errorf("%w: password must be at most %d bytes", apperr.ErrValidation, hash.MaxPasswordBytes)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: hash password: %w", apperr.ErrInternal, err)
	}

	user := &models.User{Username: username, PasswordHash: hashed, IsAdmin: isAdmin}
	cart, err := s.Repo.CreateUserWithCart(ctx, user)
	if err != nil {
		return nil, nil, classify(err, "username "+username)
	}
	return user, cart, nil
}

// Authenticate checks credentials and issues a bearer token. Unknown users
// and wrong passwords are indistinguishable to the caller.
func (s *IdentityService) Authenticate(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.Repo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", apperr.ErrUnauthorized)
		}
		return nil, classify(err, "user")
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		return nil, fmt.Errorf("%w: invalid credentials", apperr.ErrUnauthorized)
	}

	token, exp, err := tokens.Sign(user.ID.String(), user.Username, s.TokenTTL, s.Secret)
	if err != nil {
		return nil, fmt.Errorf("%w: sign token: %w", apperr.ErrInternal, err)
	}

	cart, err := s.GetCart(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Token:     token,
		ExpiresAt: exp,
		User:      principalOf(user),
		Cart:      cart,
	}, nil
}

// ResolveToken verifies token and loads the user it names.
func (s *IdentityService) ResolveToken(ctx context.Context, token string) (*models.Principal, error) {
	claims, err := tokens.AccessClaimsFromToken(token, s.Secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperr.ErrUnauthorized, err)
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: bad subject", apperr.ErrUnauthorized)
	}

	user, err := s.Repo.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: unknown user", apperr.ErrUnauthorized)
		}
		return nil, classify(err, "user")
	}

	p := principalOf(user)
	return &p, nil
}

func (s *IdentityService) ListUsers(ctx context.Context) ([]UserSummary, error) {
	users, err := s.Repo.ListUsers(ctx)
	if err != nil {
		return nil, classify(err, "users")
	}
	out := make([]UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, UserSummary{ID: u.ID, Username: u.Username})
	}
	return out, nil
}

func (s *IdentityService) GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart, err := s.Repo.GetCartByUser(ctx, userID)
	if err != nil {
		return nil, classify(err, "cart")
	}
	return cart, nil
}

func principalOf(u *models.User) models.Principal {
	return models.Principal{ID: u.ID, Username: u.Username, IsAdmin: u.IsAdmin}
}
