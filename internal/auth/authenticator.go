// Package auth owns identity: account registration, credential
// verification, and the JWT session tokens the middleware checks.
package auth

import (
	"context"

	"github.com/settleroom/settleroom/internal/models"
)

// Authenticator verifies who a caller is. The credential format is up
// to the implementation; handlers only pass it through.
type Authenticator interface {
	// Register creates an account for email with the given credential.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate returns the user when the credential matches.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential rejects credentials the implementation won't
	// accept at registration.
	ValidateCredential(credential string) error
}
