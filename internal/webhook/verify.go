package webhook

import (
	"fmt"
	"net/http"

	svix "github.com/svix/svix-webhooks/go"
)

// Verifier checks that a payload was signed by the identity provider.
type Verifier interface {
	Verify(payload []byte, headers http.Header) error
}

// NewSvixVerifier returns a Verifier for a "whsec_..." signing secret.
// It rejects bad signatures and timestamps outside the provider's
// tolerance window.
func NewSvixVerifier(secret string) (Verifier, error) {
	wh, err := svix.NewWebhook(secret)
	if err != nil {
		return nil, fmt.Errorf("webhook: parsing signing secret: %w", err)
	}
	return wh, nil
}
