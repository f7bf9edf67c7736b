package auth

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
)

// TokenSourceCredentials adapts an oauth2.TokenSource supplied by the
// caller. Tokens are reused until they expire.
type TokenSourceCredentials struct {
	source oauth2.TokenSource
}

// NewTokenSourceCredentials wraps source in an oauth2.ReuseTokenSource.
func NewTokenSourceCredentials(source oauth2.TokenSource) *TokenSourceCredentials {
	return &TokenSourceCredentials{
		source: oauth2.ReuseTokenSource(nil, source),
	}
}

// AuthorizationHeader returns "<type> <token>" for the current token.
func (c *TokenSourceCredentials) AuthorizationHeader(ctx context.Context) (string, error) {
	token, err := c.source.Token()
	if err != nil {
		return "", fmt.Errorf("obtaining token: %w", err)
	}

	if !token.Valid() {
		return "", ErrTokenExpired
	}

	return token.Type() + " " + token.AccessToken, nil
}
