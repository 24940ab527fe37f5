// Package identity wraps the third-party identity provider behind a narrow
// token-verification capability. The rest of the application never touches
// the provider client directly.
package identity

import "context"

// Identity is the subject extracted from a verified provider token. Phone is
// present for phone-OTP sign-in, Email for email/password sign-in.
type Identity struct {
	UID   string
	Phone *string
	Email *string
}

// TokenVerifier verifies a provider-issued ID token and returns the subject.
type TokenVerifier interface {
	Verify(ctx context.Context, idToken string) (*Identity, error)
}
