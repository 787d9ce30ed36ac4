package auth

import (
	"context"
	"errors"

	"github.com/dgrijalva/jwt-go"
	"github.com/plantheaven/nursery-backend/internal/modules/user"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// Claims is the decoded, validated JWT payload attached to each
// authenticated request. Handlers read it from the request context
// instead of re-inspecting the raw token.
type Claims struct {
	Role user.Role `json:"role"`
	jwt.StandardClaims
}

// Service defines the interface for authentication-related business logic.
type Service interface {
	Login(ctx context.Context, email, password string) (string, *user.User, error)
}
