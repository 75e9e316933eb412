// Package auth resolves API credentials and admin console tokens to tenants.
package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	apierrors "github.com/shopkit/commerce-gateway/internal/api/shared/errors"
	"github.com/shopkit/commerce-gateway/internal/store"
)

// ErrorKind identifies why a credential could not be resolved
type ErrorKind string

const (
	KindMissingHeader   ErrorKind = "missing_header"
	KindMalformedHeader ErrorKind = "malformed_header"
	KindInvalidKey      ErrorKind = "invalid_key"
)

// Error is returned for every client-side credential failure. All kinds map to 401.
type Error struct {
	Kind ErrorKind
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindMissingHeader:
		return "Missing Authorization header"
	case KindMalformedHeader:
		return "Invalid Authorization header format. Expected: Bearer <api_key>"
	default:
		return "Invalid API key"
	}
}

// Is lets errors.Is match on kind
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrMissingHeader   = &Error{Kind: KindMissingHeader}
	ErrMalformedHeader = &Error{Kind: KindMalformedHeader}
	ErrInvalidKey      = &Error{Kind: KindInvalidKey}
)

// Credential is the tenant identity behind an API key
type Credential struct {
	TenantID   string
	TenantName string
	Plan       string
	Active     bool
}

// Resolver maps an Authorization header to a credential
//
//go:generate mockgen -source=credential.go -destination=../mocks/auth.go -package=mocks -mock_names=Resolver=MockResolver
type Resolver interface {
	Resolve(ctx context.Context, authHeader string) (*Credential, error)
}

type resolver struct {
	store store.Store
}

// NewResolver creates a resolver that looks keys up in st on every call
func NewResolver(st store.Store) Resolver {
	return &resolver{store: st}
}

// Resolve parses a "Bearer <key>" header and loads the tenant of the key.
// Lookup failures other than an unknown or revoked key are returned wrapped.
func (r *resolver) Resolve(ctx context.Context, authHeader string) (*Credential, error) {
	key, err := ParseBearer(authHeader)
	if err != nil {
		return nil, err
	}

	if r.store == nil {
		return nil, &apierrors.ConfigurationError{Missing: []string{"database"}}
	}

	record, err := r.store.GetCredentialByKeyHash(ctx, HashKey(key))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve credential: %w", err)
	}
	if record == nil || !record.Active {
		return nil, ErrInvalidKey
	}

	return &Credential{
		TenantID:   record.OrganizationID,
		TenantName: record.OrganizationName,
		Plan:       record.Plan,
		Active:     record.Active,
	}, nil
}

// ParseBearer extracts the token from an Authorization header.
// The scheme is matched case-insensitively.
func ParseBearer(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrMissingHeader
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", ErrMalformedHeader
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", ErrMalformedHeader
	}
	return token, nil
}

// HashKey returns the hex SHA-256 digest under which a raw key is stored
func HashKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

const (
	apiKeyPrefix    = "sk_live_"
	apiKeyBytes     = 24
	displayPrefixes = 12
)

// GenerateAPIKey returns a new raw key, its storage hash and its display prefix
func GenerateAPIKey() (raw string, hash string, prefix string, err error) {
	buf := make([]byte, apiKeyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", "", fmt.Errorf("failed to generate api key: %w", err)
	}
	raw = apiKeyPrefix + hex.EncodeToString(buf)
	return raw, HashKey(raw), raw[:displayPrefixes], nil
}
