package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/b2bi-client/pkg/b2bi"
)

// RecordedRequest is one request seen by a TestServer.
type RecordedRequest struct {
	Method   string
	Path     string
	RawPath  string
	Query    map[string]string
	Body     []byte
	Header   http.Header
	Received time.Time
}

// TestServer wraps httptest.Server and records every request.
type TestServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []RecordedRequest
}

// NewTestServer starts a recording server delegating to handler.
func NewTestServer(t *testing.T, handler http.HandlerFunc) *TestServer {
	t.Helper()

	server := &TestServer{}
	server.Server = httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		body := make([]byte, 0)
		if request.Body != nil {
			decoded := json.RawMessage{}
			if json.NewDecoder(request.Body).Decode(&decoded) == nil {
				body = decoded
			}
		}

		query := make(map[string]string)
		for key := range request.URL.Query() {
			query[key] = request.URL.Query().Get(key)
		}

		server.mu.Lock()
		server.requests = append(server.requests, RecordedRequest{
			Method:   request.Method,
			Path:     request.URL.Path,
			RawPath:  request.URL.EscapedPath(),
			Query:    query,
			Body:     body,
			Header:   request.Header.Clone(),
			Received: time.Now(),
		})
		server.mu.Unlock()

		handler(writer, request)
	}))

	t.Cleanup(server.Close)

	return server
}

// Requests returns a copy of the recorded requests.
func (s *TestServer) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]RecordedRequest(nil), s.requests...)
}

// RequestCount returns the number of requests seen.
func (s *TestServer) RequestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.requests)
}

// NewTestClient creates a client against baseURL with a fast retry policy.
// configure may adjust the configuration before the client is built.
func NewTestClient(t *testing.T, baseURL string, configure func(*b2bi.Config)) *Client {
	t.Helper()

	config := &b2bi.Config{
		RESTEndpoint: baseURL,
		WSEndpoint:   baseURL + "/ws",
		RetryMax:     2,
		RetryWaitMin: time.Millisecond,
		RetryWaitMax: 5 * time.Millisecond,
	}

	if configure != nil {
		configure(config)
	}

	client, err := New(context.Background(), config)
	require.NoError(t, err)

	return client
}

// CollectionHandler serves a collection of total items using offset and
// limit query parameters.
func CollectionHandler(t *testing.T, total int) http.HandlerFunc {
	t.Helper()

	return func(writer http.ResponseWriter, request *http.Request) {
		offset, _ := strconv.Atoi(request.URL.Query().Get("offset"))
		limit, _ := strconv.Atoi(request.URL.Query().Get("limit"))

		items := make([]map[string]string, 0, limit)
		for i := offset; i < total && i < offset+limit; i++ {
			items = append(items, map[string]string{
				"mailboxId": strconv.Itoa(i),
				"path":      fmt.Sprintf("/mailbox-%d", i),
			})
		}

		writer.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(writer).Encode(items)
	}
}

// WriteJSON writes a status and raw JSON body.
func WriteJSON(writer http.ResponseWriter, status int, body string) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	_, _ = writer.Write([]byte(body))
}
