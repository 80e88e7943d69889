package ghost

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenLifetime is the JWT validity window Ghost requires; the Admin API
// rejects tokens valid for longer than five minutes.
const tokenLifetime = 5 * time.Minute

// mintToken builds the short-lived HS256 token the Admin API expects from an
// admin key of the form "id:secret". The key id travels in the kid header
// and the secret is hex-encoded.
func mintToken(adminKey string, now time.Time) (string, error) {
	keyID, secretHex, found := strings.Cut(adminKey, ":")
	if !found || keyID == "" || secretHex == "" {
		return "", ErrBadAdminKey
	}

	secret, err := hex.DecodeString(secretHex)
	if err != nil {
		return "", fmt.Errorf("%w: secret is not hex encoded", ErrBadAdminKey)
	}

	claims := jwt.MapClaims{
		"iat": now.Unix(),
		"exp": now.Add(tokenLifetime).Unix(),
		"aud": "/admin/",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token.Header["kid"] = keyID

	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("ghost: signing admin token: %w", err)
	}
	return signed, nil
}
