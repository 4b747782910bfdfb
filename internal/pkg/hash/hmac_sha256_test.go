package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignAndVerifyHMACSHA256(t *testing.T) {
	key := []byte("gateway-secret")
	body := []byte(`{"to":"79024327692","message":"Your verification code: 914023"}`)

	sig := SignHMACSHA256(key, body)
	assert.Len(t, sig, 64)
	assert.True(t, VerifyHMACSHA256(key, body, sig))

	assert.False(t, VerifyHMACSHA256([]byte("other-key"), body, sig))
	assert.False(t, VerifyHMACSHA256(key, []byte("tampered"), sig))
	assert.False(t, VerifyHMACSHA256(key, body, "not-hex"))
}
