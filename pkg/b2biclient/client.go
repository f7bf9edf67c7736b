// Package b2biclient provides the main entry point for creating B2Bi API clients
package b2biclient

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/oauth2"

	"github.com/fivetwenty-io/b2bi-client/internal/auth"
	"github.com/fivetwenty-io/b2bi-client/internal/client"
	"github.com/fivetwenty-io/b2bi-client/pkg/b2bi"
)

// New creates a new B2Bi API client. Endpoints without a scheme default to
// https; trailing slashes are removed. config is not modified.
func New(ctx context.Context, config *b2bi.Config) (b2bi.Client, error) {
	if config == nil {
		return nil, b2bi.ErrConfigRequired
	}

	if config.RESTEndpoint == "" && config.WSEndpoint == "" {
		return nil, b2bi.ErrRESTEndpointRequired
	}

	normalized := *config
	normalized.RESTEndpoint = normalizeEndpoint(config.RESTEndpoint)
	normalized.WSEndpoint = normalizeEndpoint(config.WSEndpoint)

	// Use the internal client implementation
	c, err := client.New(ctx, &normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return c, nil
}

func normalizeEndpoint(endpoint string) string {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return ""
	}

	endpoint = strings.TrimRight(endpoint, "/")
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	return endpoint
}

// NewWithEndpoints creates a new client for both backends (no auth).
func NewWithEndpoints(ctx context.Context, restEndpoint, wsEndpoint string) (b2bi.Client, error) {
	return New(ctx, &b2bi.Config{
		RESTEndpoint: restEndpoint,
		WSEndpoint:   wsEndpoint,
	})
}

// NewWithToken creates a new REST client sending a Bearer access token.
func NewWithToken(ctx context.Context, endpoint, token string) (b2bi.Client, error) {
	if endpoint == "" {
		return nil, b2bi.ErrRESTEndpointRequired
	}

	return New(ctx, &b2bi.Config{
		RESTEndpoint: endpoint,
		AccessToken:  token,
	})
}

// NewWithTokenSource creates a new REST client taking Bearer tokens from
// source. Obtaining and refreshing tokens is up to source.
func NewWithTokenSource(ctx context.Context, endpoint string, source oauth2.TokenSource) (b2bi.Client, error) {
	if endpoint == "" {
		return nil, b2bi.ErrRESTEndpointRequired
	}

	return New(ctx, &b2bi.Config{
		RESTEndpoint: endpoint,
		Credentials:  auth.NewTokenSourceCredentials(source),
	})
}

// NewWithPassword creates a new REST client using Basic authentication.
func NewWithPassword(ctx context.Context, endpoint, username, password string) (b2bi.Client, error) {
	if endpoint == "" {
		return nil, b2bi.ErrRESTEndpointRequired
	}

	return New(ctx, &b2bi.Config{
		RESTEndpoint: endpoint,
		Username:     username,
		Password:     password,
	})
}

// NewWS creates a client for the WS gateway only, using Basic
// authentication.
func NewWS(ctx context.Context, endpoint, username, password string) (b2bi.Client, error) {
	if endpoint == "" {
		return nil, b2bi.ErrWSEndpointRequired
	}

	return New(ctx, &b2bi.Config{
		WSEndpoint: endpoint,
		Username:   username,
		Password:   password,
	})
}
