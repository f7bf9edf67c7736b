package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	nethttp "net/http"
	"net/url"

	"github.com/fivetwenty-io/b2bi-client/internal/constants"
	"github.com/fivetwenty-io/b2bi-client/internal/http"
	"github.com/fivetwenty-io/b2bi-client/pkg/b2bi"
)

var emptyObject = []byte("{}")

// Execute implements b2bi.ServiceClient.Execute. The pipeline is: dry-run
// short-circuit, request interceptors, cache lookup (GET), transport,
// normalization, classification, response interceptors, then cache
// maintenance. The response is returned alongside a classified error when
// the server answered.
func (c *Client) Execute(ctx context.Context, req *b2bi.ServiceRequest) (*b2bi.ServiceResponse, error) {
	if req.IsMutating() && c.dryRun {
		return c.dryRunResponse(req), nil
	}

	target, query, err := c.target(req)
	if err != nil {
		return nil, err
	}

	view := &b2bi.Request{
		Method:  req.Method(),
		Backend: req.Backend(),
		Service: req.Service(),
		Path:    target,
		Headers: make(nethttp.Header),
		Body:    req.Body(),
	}

	err = c.interceptors.ExecuteRequestInterceptors(ctx, view)
	if err != nil {
		return nil, err
	}

	cacheQuery := req.CacheQuery()

	if !req.IsMutating() {
		resp, hit, err := c.fromCache(ctx, req, view, cacheQuery)
		if hit {
			return resp, err
		}
	}

	httpResp, err := c.httpClient.Do(ctx, &http.Request{
		Method:  req.Method(),
		Path:    target,
		Query:   query,
		Body:    view.Body,
		Headers: flattenHeaders(view.Headers),
	})
	if err != nil {
		c.runResponseInterceptors(ctx, view, &b2bi.Response{Error: err})

		return nil, err
	}

	resp, err := c.complete(ctx, req, view, httpResp.StatusCode, httpResp.Body)
	if err != nil {
		return resp, err
	}

	switch {
	case req.IsMutating():
		invalidateErr := c.cache.Invalidate(ctx, req.Service())
		if invalidateErr != nil {
			c.logWarn("Failed to invalidate cache", map[string]interface{}{
				"service": req.Service(),
				"error":   invalidateErr.Error(),
			})
		}
	case len(httpResp.Body) <= constants.MaxCacheValueSize:
		putErr := c.cache.Put(ctx, req.Service(), cacheQuery, httpResp.Body)
		if putErr != nil {
			c.logWarn("Failed to write cache entry", map[string]interface{}{
				"service": req.Service(),
				"error":   putErr.Error(),
			})
		}
	}

	return resp, nil
}

// fromCache serves a GET from the cache. Entries that no longer normalize
// (torn or corrupt bodies) count as misses: the service is invalidated and
// hit is false so the request goes to the network.
func (c *Client) fromCache(ctx context.Context, req *b2bi.ServiceRequest, view *b2bi.Request, cacheQuery string) (*b2bi.ServiceResponse, bool, error) {
	body, err := c.cache.Get(ctx, req.Service(), cacheQuery)
	if err != nil {
		return nil, false, nil
	}

	resp := &b2bi.ServiceResponse{
		StatusCode: nethttp.StatusOK,
		Body:       body,
		Cached:     true,
	}

	err = c.normalize(req, resp)
	if b2bi.IsNormalization(err) {
		c.logWarn("Discarding corrupt cache entry", map[string]interface{}{
			"service": req.Service(),
			"query":   cacheQuery,
			"error":   err.Error(),
		})

		invalidateErr := c.cache.Invalidate(ctx, req.Service())
		if invalidateErr != nil {
			c.logWarn("Failed to invalidate cache", map[string]interface{}{
				"service": req.Service(),
				"error":   invalidateErr.Error(),
			})
		}

		return nil, false, nil
	}

	c.logDebug("Cache hit", map[string]interface{}{"service": req.Service(), "query": cacheQuery})

	return c.finish(ctx, view, resp, err), true, err
}

// complete normalizes and classifies a response body from the network, then
// runs the response interceptors.
func (c *Client) complete(ctx context.Context, req *b2bi.ServiceRequest, view *b2bi.Request, status int, body []byte) (*b2bi.ServiceResponse, error) {
	resp := &b2bi.ServiceResponse{
		StatusCode: status,
		Body:       body,
	}

	err := c.normalize(req, resp)

	return c.finish(ctx, view, resp, err), err
}

// finish runs the response interceptors over a normalized response.
func (c *Client) finish(ctx context.Context, view *b2bi.Request, resp *b2bi.ServiceResponse, err error) *b2bi.ServiceResponse {
	c.runResponseInterceptors(ctx, view, &b2bi.Response{
		StatusCode: resp.StatusCode,
		Body:       resp.Body,
		Cached:     resp.Cached,
		Error:      err,
	})

	return resp
}

func (c *Client) normalize(req *b2bi.ServiceRequest, resp *b2bi.ServiceResponse) error {
	if req.Backend() == b2bi.BackendREST || resp.IsError() {
		resp.Body = b2bi.NormalizeREST(resp.StatusCode, resp.Body)

		err := b2bi.Classify(resp)
		if err != nil {
			return err
		}

		trimmed := bytes.TrimSpace(resp.Body)
		if len(trimmed) > 0 {
			resp.Payload = json.RawMessage(trimmed)
		}

		return nil
	}

	payload, err := b2bi.NormalizeWS(resp.Body, req.Shape())
	if errors.Is(err, b2bi.ErrNoRows) {
		return b2bi.NewError(b2bi.KindNotFound, resp.StatusCode, "no rows returned", err)
	}

	if err != nil {
		return err
	}

	resp.Payload = payload

	return nil
}

func (c *Client) runResponseInterceptors(ctx context.Context, view *b2bi.Request, resp *b2bi.Response) {
	err := c.interceptors.ExecuteResponseInterceptors(ctx, view, resp)
	if err != nil {
		c.logWarn("Response interceptor failed", map[string]interface{}{
			"service": view.Service,
			"error":   err.Error(),
		})
	}
}

// target resolves the URL (or path) and query of a request.
func (c *Client) target(req *b2bi.ServiceRequest) (string, url.Values, error) {
	query := req.Query()

	if req.Backend() == b2bi.BackendWS {
		if c.wsEndpoint == "" {
			return "", nil, b2bi.NewError(b2bi.KindFatal, 0, "", constants.ErrNoWSEndpoint)
		}

		query.Set(constants.WSAPIParam, req.Service())
		query.Set(constants.WSJSONParam, "1")

		return c.wsEndpoint, query, nil
	}

	base := req.Service()
	if !req.IsAbsolute() {
		if c.restEndpoint == "" {
			return "", nil, b2bi.NewError(b2bi.KindFatal, 0, "", constants.ErrNoRESTEndpoint)
		}

		base = c.restEndpoint + "/" + url.PathEscape(req.Service())
	}

	if req.SubPath() != "" {
		base = base + "/" + url.PathEscape(req.SubPath())
	}

	return base, query, nil
}

func (c *Client) dryRunResponse(req *b2bi.ServiceRequest) *b2bi.ServiceResponse {
	body := req.Body()
	if len(bytes.TrimSpace(body)) == 0 {
		body = append([]byte(nil), emptyObject...)
	}

	if c.logger != nil {
		c.logger.Info("Dry run: request not sent", map[string]interface{}{
			"method":   req.Method(),
			"service":  req.Service(),
			"sub_path": req.SubPath(),
		})
	}

	return &b2bi.ServiceResponse{
		StatusCode: nethttp.StatusOK,
		Body:       body,
		Payload:    json.RawMessage(body),
		DryRun:     true,
	}
}

func flattenHeaders(headers nethttp.Header) map[string]string {
	if len(headers) == 0 {
		return nil
	}

	flat := make(map[string]string, len(headers))
	for key := range headers {
		flat[key] = headers.Get(key)
	}

	return flat
}

// newRequest builds a ServiceRequest, wrapping construction failures.
func newRequest(method, service string, body []byte, opts ...b2bi.RequestOption) (*b2bi.ServiceRequest, error) {
	req, err := b2bi.NewServiceRequest(method, service, body, opts...)
	if err != nil {
		return nil, fmt.Errorf("building %s %s request: %w", method, service, err)
	}

	return req, nil
}
