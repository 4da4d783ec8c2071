package ports

import (
	"context"
)

// AuthService exchanges credentials for a bearer token.
type AuthService interface {
	Login(ctx context.Context, login, password string) (string, error)
}
