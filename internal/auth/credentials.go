package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"sync"
	"time"
)

// Static errors for err113 compliance.
var (
	ErrNoToken         = errors.New("no access token available")
	ErrTokenExpired    = errors.New("access token has expired")
	ErrMissingUsername = errors.New("username is required for basic credentials")
)

// Provider supplies the Authorization header value for a request.
type Provider interface {
	AuthorizationHeader(ctx context.Context) (string, error)
}

// BasicCredentials authenticates with a username and password.
type BasicCredentials struct {
	header string
}

// NewBasicCredentials creates basic credentials.
func NewBasicCredentials(username, password string) (*BasicCredentials, error) {
	if username == "" {
		return nil, ErrMissingUsername
	}

	encoded := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))

	return &BasicCredentials{header: "Basic " + encoded}, nil
}

// AuthorizationHeader returns the Basic authorization header.
func (c *BasicCredentials) AuthorizationHeader(ctx context.Context) (string, error) {
	return c.header, nil
}

// Token represents an access token obtained out of band.
type Token struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
}

// Valid checks if the token is present and not expired.
func (t *Token) Valid() bool {
	if t == nil || t.AccessToken == "" {
		return false
	}

	if t.ExpiresAt.IsZero() {
		return true
	}

	return time.Now().Before(t.ExpiresAt)
}

// TokenStore provides thread-safe token storage.
type TokenStore struct {
	mu    sync.RWMutex
	token *Token
}

// NewTokenStore creates a new token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

// Get returns the current token.
func (s *TokenStore) Get() *Token {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.token
}

// Set stores a token.
func (s *TokenStore) Set(token *Token) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
}

// Clear removes the stored token.
func (s *TokenStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = nil
}

// BearerToken authenticates with an access token. The token can be replaced
// at any time with SetToken; acquiring it is up to the caller.
type BearerToken struct {
	store *TokenStore
}

// NewBearerToken creates a bearer provider holding token. An empty token
// leaves the provider without a token until SetToken is called.
func NewBearerToken(token string) *BearerToken {
	provider := &BearerToken{store: NewTokenStore()}

	if token != "" {
		provider.SetToken(token, time.Time{})
	}

	return provider
}

// SetToken replaces the token. A zero expiresAt never expires.
func (b *BearerToken) SetToken(token string, expiresAt time.Time) {
	b.store.Set(&Token{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
	})
}

// AuthorizationHeader returns the Bearer authorization header.
func (b *BearerToken) AuthorizationHeader(ctx context.Context) (string, error) {
	token := b.store.Get()

	switch {
	case token == nil || token.AccessToken == "":
		return "", ErrNoToken
	case !token.Valid():
		return "", ErrTokenExpired
	default:
		return "Bearer " + token.AccessToken, nil
	}
}
