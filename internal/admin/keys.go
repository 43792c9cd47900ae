package admin

import (
	"encoding/base64"
	"fmt"
)

// EncodeKey obfuscates a passkey with base64. Old clients store the passkey
// this way in browser storage and present the encoded form.
func EncodeKey(passkey string) string {
	return base64.StdEncoding.EncodeToString([]byte(passkey))
}

// DecodeKey reverses EncodeKey.
func DecodeKey(encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("admin: malformed encoded key: %w", err)
	}
	return string(raw), nil
}
