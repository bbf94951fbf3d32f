package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoginRateKeyCombinesEmailAndIP(t *testing.T) {
	key := loginRateKey("  Operator@Example.com ", "10.0.0.7")
	assert.Equal(t, "ratelimit:login:operator@example.com:10.0.0.7", key)
}

func TestLoginRateKeyEmptyEmail(t *testing.T) {
	// Malformed login bodies still get throttled, just per address.
	key := loginRateKey("", "10.0.0.7")
	assert.Equal(t, "ratelimit:login::10.0.0.7", key)
}
