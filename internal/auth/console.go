package auth

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ConsoleClaims are the claims of an admin console token
type ConsoleClaims struct {
	OrganizationID string `json:"org_id"`
	jwt.RegisteredClaims
}

// ConsoleVerifier validates RS256 admin console tokens
type ConsoleVerifier struct {
	publicKey *rsa.PublicKey
}

// NewConsoleVerifier parses a PEM encoded RSA public key (PKIX or PKCS1)
func NewConsoleVerifier(publicKeyPEM string) (*ConsoleVerifier, error) {
	if publicKeyPEM == "" {
		return nil, errors.New("JWT public key not configured")
	}
	key, err := parseRSAPublicKey(publicKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse RSA public key: %w", err)
	}
	return &ConsoleVerifier{publicKey: key}, nil
}

// Verify checks the token signature and time claims and requires an org_id claim
func (v *ConsoleVerifier) Verify(tokenString string) (*ConsoleClaims, error) {
	claims := &ConsoleClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.publicKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.OrganizationID == "" {
		return nil, errors.New("token has no org_id claim")
	}
	return claims, nil
}

func parseRSAPublicKey(publicKeyPEM string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(publicKeyPEM))
	if block == nil {
		return nil, errors.New("failed to parse PEM block containing public key")
	}

	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return x509.ParsePKCS1PublicKey(block.Bytes)
	}

	rsaKey, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("public key is not an RSA key")
	}
	return rsaKey, nil
}
