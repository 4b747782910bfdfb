// Package hash provides request-signing helpers.
package hash

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// SignHMACSHA256 returns the hex-encoded HMAC-SHA256 of data under key.
func SignHMACSHA256(key, data []byte) string {
	mac := hmac.New(sha256.New, key)
	mac.Write(data)

	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyHMACSHA256 reports whether signature matches the HMAC-SHA256 of data
// under key, compared in constant time.
func VerifyHMACSHA256(key, data []byte, signature string) bool {
	expected, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, key)
	mac.Write(data)

	return hmac.Equal(mac.Sum(nil), expected)
}
