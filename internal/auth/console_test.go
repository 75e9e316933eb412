package auth_test

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopkit/commerce-gateway/internal/auth"
)

func newTestKeyPair(t *testing.T) (*rsa.PrivateKey, string) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	return key, string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))
}

func signConsoleToken(t *testing.T, key *rsa.PrivateKey, claims auth.ConsoleClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestConsoleVerifier(t *testing.T) {
	key, publicPEM := newTestKeyPair(t)
	verifier, err := auth.NewConsoleVerifier(publicPEM)
	require.NoError(t, err)

	t.Run("valid token", func(t *testing.T) {
		token := signConsoleToken(t, key, auth.ConsoleClaims{
			OrganizationID: "org-1",
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "user-1",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})

		claims, err := verifier.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, "org-1", claims.OrganizationID)
		assert.Equal(t, "user-1", claims.Subject)
	})

	t.Run("expired token", func(t *testing.T) {
		token := signConsoleToken(t, key, auth.ConsoleClaims{
			OrganizationID: "org-1",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			},
		})
		_, err := verifier.Verify(token)
		assert.Error(t, err)
	})

	t.Run("missing org claim", func(t *testing.T) {
		token := signConsoleToken(t, key, auth.ConsoleClaims{})
		_, err := verifier.Verify(token)
		assert.Error(t, err)
	})

	t.Run("signed by another key", func(t *testing.T) {
		otherKey, _ := newTestKeyPair(t)
		token := signConsoleToken(t, otherKey, auth.ConsoleClaims{OrganizationID: "org-1"})
		_, err := verifier.Verify(token)
		assert.Error(t, err)
	})

	t.Run("HMAC token rejected", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.ConsoleClaims{OrganizationID: "org-1"}).
			SignedString([]byte("secret"))
		require.NoError(t, err)
		_, err = verifier.Verify(token)
		assert.Error(t, err)
	})
}

func TestNewConsoleVerifier_InvalidKey(t *testing.T) {
	_, err := auth.NewConsoleVerifier("")
	assert.Error(t, err)

	_, err = auth.NewConsoleVerifier("not a pem")
	assert.Error(t, err)
}
