package identity

import (
	"context"
	"errors"
	"fmt"
	"sync"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/veloclub/veloclub/internal/pkg/apperrors"
)

// FirebaseConfig configures the Firebase Admin client. Exactly one of
// CredentialsJSON or CredentialsFile must be set.
type FirebaseConfig struct {
	CredentialsJSON string
	CredentialsFile string
}

// FirebaseVerifier verifies Firebase ID tokens. The underlying Admin client
// is initialized lazily exactly once on first use, so constructing the
// verifier never touches the network.
type FirebaseVerifier struct {
	config FirebaseConfig

	once    sync.Once
	client  *fbauth.Client
	initErr error
}

// NewFirebaseVerifier creates a FirebaseVerifier with the given configuration.
func NewFirebaseVerifier(config FirebaseConfig) *FirebaseVerifier {
	return &FirebaseVerifier{config: config}
}

func (v *FirebaseVerifier) init(ctx context.Context) {
	var opts []option.ClientOption
	switch {
	case v.config.CredentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(v.config.CredentialsJSON)))
	case v.config.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(v.config.CredentialsFile))
	default:
		v.initErr = errors.New("firebase credentials not configured")
		return
	}

	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		v.initErr = fmt.Errorf("failed to initialize firebase app: %w", err)
		return
	}

	client, err := app.Auth(ctx)
	if err != nil {
		v.initErr = fmt.Errorf("failed to initialize firebase auth client: %w", err)
		return
	}

	v.client = client
}

// Verify implements TokenVerifier. An invalid or expired provider token is
// reported as apperrors.ErrIdentityRejected so the boundary maps it to 401.
func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (*Identity, error) {
	v.once.Do(func() { v.init(ctx) })
	if v.initErr != nil {
		return nil, v.initErr
	}

	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, apperrors.NewCustomError(apperrors.ErrIdentityRejected, "invalid or expired identity token")
	}

	ident := &Identity{UID: token.UID}
	if phone, ok := token.Claims["phone_number"].(string); ok && phone != "" {
		ident.Phone = &phone
	}
	if email, ok := token.Claims["email"].(string); ok && email != "" {
		ident.Email = &email
	}

	return ident, nil
}
