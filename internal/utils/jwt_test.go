package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT("user_abc", "secret", time.Hour)
	require.NoError(t, err)

	subject, err := ParseJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "user_abc", subject)
}

func TestParseJWT_Rejects(t *testing.T) {
	valid, err := GenerateJWT("user_abc", "secret", time.Hour)
	require.NoError(t, err)
	expired, err := GenerateJWT("user_abc", "secret", -time.Minute)
	require.NoError(t, err)
	anonymous, err := GenerateJWT("", "secret", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		secret string
	}{
		{"wrong secret", valid, "other"},
		{"expired", expired, "secret"},
		{"no subject", anonymous, "secret"},
		{"garbage", "not-a-token", "secret"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseJWT(tt.token, tt.secret)
			assert.Error(t, err)
		})
	}
}
