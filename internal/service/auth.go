package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/templui/hoaxify/internal/model"
	"github.com/templui/hoaxify/internal/repository"
)

// Session is returned by a successful login.
type Session struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	Image    *string `json:"image"`
	Token    string  `json:"token"`
}

// AuthService verifies credentials and manages bearer session tokens.
type AuthService struct {
	userRepository  repository.UserRepository
	tokenRepository repository.TokenRepository
	hasher          PasswordHasher
	tokenExpiry     time.Duration
	now             func() time.Time

	// dummyHash keeps login timing uniform when the email is unknown.
	dummyHash string
}

func NewAuthService(
	userRepository repository.UserRepository,
	tokenRepository repository.TokenRepository,
	hasher PasswordHasher,
	tokenExpiry time.Duration,
) *AuthService {
	dummyHash, err := hasher.Hash("timing-equalizer")
	if err != nil {
		slog.Warn("failed to prepare dummy password hash", "error", err)
	}
	return &AuthService{
		userRepository:  userRepository,
		tokenRepository: tokenRepository,
		hasher:          hasher,
		tokenExpiry:     tokenExpiry,
		now:             time.Now,
		dummyHash:       dummyHash,
	}
}

// Login checks credentials and issues a new session token. Unknown email,
// wrong password and inactive account all fail with the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)

	user, err := s.userRepository.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.hasher.Compare(s.dummyHash, password)
			return nil, AuthenticationError(MsgAuthenticationFailure)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !s.hasher.Compare(user.PasswordHash, password) {
		return nil, AuthenticationError(MsgAuthenticationFailure)
	}

	if !user.IsActive() {
		return nil, AuthenticationError(MsgAuthenticationFailure)
	}

	tokenValue, err := GenerateToken(sessionTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	token := &model.Token{
		Token:    tokenValue,
		UserID:   user.ID,
		IssuedAt: s.now().UnixMilli(),
	}
	err = s.tokenRepository.Create(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to create token: %w", err)
	}

	slog.Info("user logged in", "user_id", user.ID)
	return &Session{
		ID:       user.ID,
		Username: user.Username,
		Image:    user.Image,
		Token:    tokenValue,
	}, nil
}

// Resolve maps a bearer token to its user. Missing, expired or orphaned tokens
// resolve to nil without error; expired ones are deleted on the way.
func (s *AuthService) Resolve(ctx context.Context, tokenValue string) (*model.User, error) {
	if tokenValue == "" {
		return nil, nil
	}

	token, err := s.tokenRepository.ByToken(ctx, tokenValue)
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if token.IsExpired(s.now(), s.tokenExpiry) {
		err = s.tokenRepository.Delete(ctx, tokenValue)
		if err != nil {
			slog.Warn("failed to delete expired token", "error", err, "user_id", token.UserID)
		}
		return nil, nil
	}

	user, err := s.userRepository.ByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return user, nil
}

// Logout deletes a single session token. Unknown tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, tokenValue string) error {
	if tokenValue == "" {
		return nil
	}
	return s.tokenRepository.Delete(ctx, tokenValue)
}

// RevokeAll deletes every session token of a user.
func (s *AuthService) RevokeAll(ctx context.Context, userID int64) error {
	count, err := s.tokenRepository.DeleteByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to revoke tokens: %w", err)
	}
	slog.Debug("revoked session tokens", "user_id", userID, "count", count)
	return nil
}

// SweepExpired deletes all tokens older than the expiry window.
func (s *AuthService) SweepExpired(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.tokenExpiry).UnixMilli()
	count, err := s.tokenRepository.DeleteIssuedBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep tokens: %w", err)
	}
	return count, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
