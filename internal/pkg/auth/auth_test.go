package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newService() *JWTService {
	return NewJWTService(JWTConfig{SecretKey: "test-secret", AccessTokenExp: time.Hour, TokenIssuer: "universe"})
}

func TestGenerateAndValidateToken(t *testing.T) {
	s := newService()

	token, expiresIn, err := s.GenerateToken("ada@example.com", "Ada")
	require.NoError(t, err)
	assert.Equal(t, 3600, expiresIn)

	claims, err := s.ValidateAndExtractClaims(token)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, "Ada", claims.Name)
	assert.Equal(t, "ada@example.com", claims.Subject)
	assert.NotEmpty(t, claims.ID)
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	s := newService()
	token, _, err := s.GenerateToken("ada@example.com", "Ada")
	require.NoError(t, err)

	other := NewJWTService(JWTConfig{SecretKey: "other", AccessTokenExp: time.Hour})
	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = s.ValidateAndExtractClaims("")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = s.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenExpired(t *testing.T) {
	s := newService()
	s.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := s.GenerateToken("ada@example.com", "Ada")
	require.NoError(t, err)

	s.now = time.Now
	_, err = s.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{header: "Bearer abc", want: "abc"},
		{header: "bearer  abc ", want: "abc"},
		{header: "abc", want: "abc"},
		{header: "  ", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ExtractBearerToken(tt.header)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidFormat)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestPasswordHashing(t *testing.T) {
	BcryptCost = bcrypt.MinCost

	hash, err := HashPassword("s3cretpass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cretpass", hash)
	assert.True(t, CheckPassword(hash, "s3cretpass"))
	assert.False(t, CheckPassword(hash, "wrong"))
	assert.False(t, CheckPassword("not-a-hash", "s3cretpass"))
}
