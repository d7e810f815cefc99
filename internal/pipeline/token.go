package pipeline

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// accessTokenBytes is the entropy of an assignment access token.
// The token is a pure capability string: possession grants access to one
// assignment instance, so it must be unguessable, not merely unique.
const accessTokenBytes = 32

// NewAccessToken returns a cryptographically random, URL-safe token.
func NewAccessToken() (string, error) {
	buf := make([]byte, accessTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
