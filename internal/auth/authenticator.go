package auth

import (
	"context"

	"github.com/mmynk/billsplit/internal/models"
)

// Authenticator defines the interface for authentication implementations.
// Services depend on it rather than on a concrete credential scheme.
type Authenticator interface {
	// Register creates a new user account identified by phone.
	Register(ctx context.Context, phone, displayName, credential string) (*models.User, error)

	// Authenticate verifies the credential and returns the user on success.
	Authenticate(ctx context.Context, phone, credential string) (*models.User, error)

	// ValidateCredential checks the credential before any account work happens.
	ValidateCredential(credential string) error
}
