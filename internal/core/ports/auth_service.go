package ports

import (
	"context"

	"github.com/harshpalas/GlamBook/internal/core/domain"
)

// AuthService issues and backs the bearer credentials for all privileged routes.
type AuthService interface {
	// Register creates an account and returns a signed token alongside it.
	// Only user and salonOwner roles may self-register.
	Register(ctx context.Context, name, email, password string, role domain.Role) (string, *domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}
