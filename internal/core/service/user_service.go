package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/a2tp3/library-api/internal/core/domain"
	"github.com/a2tp3/library-api/internal/core/ports"
)

// UserService implements registration and member administration.
type UserService struct {
	repo     ports.UserRepository
	log      zerolog.Logger
	hashCost int
}

func NewUserService(repo ports.UserRepository, log zerolog.Logger) *UserService {
	return &UserService{repo: repo, log: log, hashCost: bcrypt.DefaultCost}
}

// Register creates a user. The password is stored as a bcrypt hash only.
func (s *UserService) Register(ctx context.Context, input ports.UserInput) (*domain.User, error) {
	if input.Login == "" || input.Password == "" {
		return nil, domain.ErrMissingCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.hashCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, &domain.User{
		Name:         input.Name,
		Login:        input.Login,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("user_id", created.ID).Str("login", created.Login).Msg("user registered")
	return created, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.repo.List(ctx)
}

// Replace overwrites the user's name and login. A non-empty password is
// re-hashed; an empty one keeps the current hash.
func (s *UserService) Replace(ctx context.Context, id int64, input ports.UserInput) error {
	if input.ID != id {
		return domain.ErrIDMismatch
	}
	if input.Login == "" {
		return domain.ErrMissingCredentials
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	current.Name = input.Name
	current.Login = input.Login
	current.UpdatedAt = time.Now().UTC()
	if input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.hashCost)
		if err != nil {
			return err
		}
		current.PasswordHash = string(hash)
	}

	return s.repo.Update(ctx, current)
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("user_id", id).Msg("user deleted")
	return nil
}
