package service

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/a2tp3/library-api/internal/core/domain"
	"github.com/a2tp3/library-api/internal/core/ports"
)

var (
	dummyHash     []byte
	dummyHashOnce sync.Once
)

// AuthService implements login.
type AuthService struct {
	users  ports.UserRepository
	tokens *TokenIssuer
	log    zerolog.Logger
}

func NewAuthService(users ports.UserRepository, tokens *TokenIssuer, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, log: log}
}

// Login verifies the credentials and returns a signed token. Unknown logins
// and wrong passwords both yield domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, login, password string) (string, error) {
	if login == "" || password == "" {
		return "", domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Burn the same bcrypt work as a real comparison.
			_ = bcrypt.CompareHashAndPassword(unknownUserHash(), []byte(password))
			return "", domain.ErrInvalidCredentials
		}
		return "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", err
	}

	s.log.Info().Int64("user_id", user.ID).Msg("token issued")
	return token, nil
}

func unknownUserHash() []byte {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("library-api/unknown-user"), bcrypt.DefaultCost)
	})
	return dummyHash
}
