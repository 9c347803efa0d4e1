package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/google/uuid"
)

// GenerateID returns a new random identifier for documents and sessions.
func GenerateID() string {
	return uuid.New().String()
}

// ShareTokenBytes is the entropy of a share token before encoding.
const ShareTokenBytes = 24

// NewShareToken returns a URL-safe random token for share links.
func NewShareToken() (string, error) {
	buf := make([]byte, ShareTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate share token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
