package client

import (
	"context"
	"encoding/json"
	"fmt"
	nethttp "net/http"
	"net/url"

	"github.com/fivetwenty-io/b2bi-client/pkg/b2bi"
)

// Get implements b2bi.ServiceClient.Get.
func (c *Client) Get(ctx context.Context, service, key string) (json.RawMessage, error) {
	req, err := newRequest(nethttp.MethodGet, service, nil, b2bi.WithSubPath(key))
	if err != nil {
		return nil, err
	}

	resp, err := c.Execute(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("getting %s %q: %w", service, key, err)
	}

	return resp.Payload, nil
}

// Find implements b2bi.ServiceClient.Find.
func (c *Client) Find(ctx context.Context, service, key string) (json.RawMessage, bool, error) {
	payload, err := c.Get(ctx, service, key)
	if b2bi.IsNotFound(err) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, err
	}

	return payload, true, nil
}

// Create implements b2bi.ServiceClient.Create.
func (c *Client) Create(ctx context.Context, service string, body []byte) (*b2bi.ServiceResponse, error) {
	req, err := newRequest(nethttp.MethodPost, service, body)
	if err != nil {
		return nil, err
	}

	resp, err := c.Execute(ctx, req)
	if err != nil {
		return resp, fmt.Errorf("creating %s: %w", service, err)
	}

	return resp, nil
}

// Update implements b2bi.ServiceClient.Update.
func (c *Client) Update(ctx context.Context, service, key string, body []byte) (*b2bi.ServiceResponse, error) {
	req, err := newRequest(nethttp.MethodPut, service, body, b2bi.WithSubPath(key))
	if err != nil {
		return nil, err
	}

	resp, err := c.Execute(ctx, req)
	if err != nil {
		return resp, fmt.Errorf("updating %s %q: %w", service, key, err)
	}

	return resp, nil
}

// Delete implements b2bi.ServiceClient.Delete.
func (c *Client) Delete(ctx context.Context, service, key string) (*b2bi.ServiceResponse, error) {
	req, err := newRequest(nethttp.MethodDelete, service, nil, b2bi.WithSubPath(key))
	if err != nil {
		return nil, err
	}

	resp, err := c.Execute(ctx, req)
	if err != nil {
		return resp, fmt.Errorf("deleting %s %q: %w", service, key, err)
	}

	return resp, nil
}

// CallWS implements b2bi.ServiceClient.CallWS.
func (c *Client) CallWS(ctx context.Context, api string, params map[string]string, shape b2bi.Shape) (json.RawMessage, error) {
	query := url.Values{}
	for key, value := range params {
		query.Set(key, value)
	}

	req, err := newRequest(nethttp.MethodGet, api, nil,
		b2bi.WithBackend(b2bi.BackendWS),
		b2bi.WithQuery(query),
		b2bi.WithShape(shape))
	if err != nil {
		return nil, err
	}

	resp, err := c.Execute(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("calling WS API %s: %w", api, err)
	}

	return resp.Payload, nil
}
