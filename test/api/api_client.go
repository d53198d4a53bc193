/*
Copyright 2024-2025 the Unikorn Authors.
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

//go:generate mockgen -source=api_client.go -destination=mock/interfaces.go -package=mock

//nolint:err113,revive // dynamic errors and naming conventions acceptable in test code
package api

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-logr/logr"
)

// Doer sends a single HTTP request, *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type APIClient struct {
	baseURL   string
	client    Doer
	config    *TestConfig
	endpoints *Endpoints
	logger    logr.Logger
	validator *SchemaValidator
}

// Option customizes an APIClient.
type Option func(*APIClient)

// WithBaseURL overrides the configured base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *APIClient) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithDoer replaces the HTTP client used to send requests.
func WithDoer(doer Doer) Option {
	return func(c *APIClient) {
		c.client = doer
	}
}

// WithLogger sets the logger, by default nothing is logged.
func WithLogger(logger logr.Logger) Option {
	return func(c *APIClient) {
		c.logger = logger
	}
}

// NewAPIClientWithConfig creates a client for the configured service.
func NewAPIClientWithConfig(config *TestConfig, options ...Option) (*APIClient, error) {
	c := &APIClient{
		baseURL: strings.TrimSuffix(config.BaseURL, "/"),
		client: &http.Client{
			Timeout: config.RequestTimeout,
		},
		config:    config,
		endpoints: NewEndpoints(),
		logger:    logr.Discard(),
	}

	for _, option := range options {
		option(c)
	}

	if config.ValidateSchema {
		validator, err := NewSchemaValidator()
		if err != nil {
			return nil, err
		}

		c.validator = validator
	}

	return c, nil
}

// BaseURL returns the service root requests are sent to.
func (c *APIClient) BaseURL() string {
	return c.baseURL
}

// generateTraceID creates a new W3C trace ID.
// we are using this to create a new trace ID for each request so if an error occurs we can find the request in the logs.
func generateTraceID() string {
	bytes := make([]byte, 16)
	_, _ = rand.Read(bytes)

	return hex.EncodeToString(bytes)
}

// generateSpanID creates a new W3C span ID.
func generateSpanID() string {
	bytes := make([]byte, 8)
	_, _ = rand.Read(bytes)

	return hex.EncodeToString(bytes)
}

// createTraceParent creates a W3C traceparent header value.
func createTraceParent() string {
	return fmt.Sprintf("00-%s-%s-01", generateTraceID(), generateSpanID())
}

// extractTraceID extracts the trace ID from a traceparent header value.
func extractTraceID(traceParent string) string {
	parts := strings.Split(traceParent, "-")
	if len(parts) >= 2 {
		return parts[1]
	}

	return traceParent
}

// request describes a single call.  When authorize is set the Authorization
// header is always sent, even if the token is empty, as that is how the
// service distinguishes a missing session from a malformed one.
type request struct {
	method    string
	path      string
	body      interface{}
	authorize bool
	token     string
}

//nolint:cyclop // test code complexity is acceptable
func (c *APIClient) doRequest(ctx context.Context, r request) (*Response, error) {
	var body io.Reader

	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("marshaling %s %s request body: %w", r.method, r.path, err)
		}

		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	// Add W3C Trace Context headers
	traceParent := createTraceParent()
	traceID := extractTraceID(traceParent)

	req.Header.Set("Traceparent", traceParent)
	req.Header.Set("Tracestate", "test-automation=ginkgo")
	req.Header.Set("Accept", "application/json")

	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if r.authorize {
		req.Header.Set("Authorization", r.token)
	}

	log := c.logger.WithValues("method", r.method, "path", r.path, "traceID", traceID)

	if c.config.DebugLogging {
		log.Info("sending request", "authorization", r.authorize, "emptyToken", r.authorize && r.token == "")
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	duration := time.Since(start)

	if err != nil {
		log.Error(err, "http request failed", "duration", duration)
		return nil, fmt.Errorf("http request %s %s failed (trace ID: %s): %w", r.method, r.path, traceID, err)
	}

	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error(err, "reading response body", "duration", duration, "status", resp.StatusCode)
		return nil, fmt.Errorf("reading %s %s response body (trace ID: %s): %w", r.method, r.path, traceID, err)
	}

	if c.config.LogRequests {
		log.Info("request complete", "status", resp.StatusCode, "duration", duration)
	}

	if c.config.LogResponses && len(respBody) > 0 {
		log.Info("response body", "status", resp.StatusCode, "body", string(respBody))
	}

	response := &Response{
		Method:     r.method,
		Path:       r.path,
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respBody,
		TraceID:    traceID,
	}

	if c.validator != nil {
		if err := c.validator.Validate(ctx, response); err != nil {
			log.Error(err, "schema validation failed", "status", resp.StatusCode, "body", string(respBody))
			return response, err
		}
	}

	return response, nil
}

// credentials is the login request body, the service ignores anything else.
type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an account for the identity.
func (c *APIClient) Register(ctx context.Context, identity Identity) (*Response, error) {
	return c.doRequest(ctx, request{
		method: http.MethodPost,
		path:   c.endpoints.Register(),
		body:   identity,
	})
}

// Login exchanges the identity's credentials for a session.
func (c *APIClient) Login(ctx context.Context, identity Identity) (*Response, error) {
	return c.doRequest(ctx, request{
		method: http.MethodPost,
		path:   c.endpoints.Login(),
		body: credentials{
			Email:    identity.Email,
			Password: identity.Password,
		},
	})
}

// GetProfile reads the profile the token belongs to.
func (c *APIClient) GetProfile(ctx context.Context, token string) (*Response, error) {
	return c.doRequest(ctx, request{
		method:    http.MethodGet,
		path:      c.endpoints.User(),
		authorize: true,
		token:     token,
	})
}

// UpdateProfile replaces the profile the token belongs to with the identity.
func (c *APIClient) UpdateProfile(ctx context.Context, token string, identity Identity) (*Response, error) {
	return c.doRequest(ctx, request{
		method:    http.MethodPatch,
		path:      c.endpoints.User(),
		body:      identity,
		authorize: true,
		token:     token,
	})
}

// DeleteUser removes the account the token belongs to.  It is only used for
// cleanup, so callers decide whether the outcome matters.
func (c *APIClient) DeleteUser(ctx context.Context, token string) (*Response, error) {
	return c.doRequest(ctx, request{
		method:    http.MethodDelete,
		path:      c.endpoints.User(),
		authorize: true,
		token:     token,
	})
}

// CreateOrder places an order, the token is optional.
func (c *APIClient) CreateOrder(ctx context.Context, order OrderRequest, token string) (*Response, error) {
	return c.doRequest(ctx, request{
		method:    http.MethodPost,
		path:      c.endpoints.Orders(),
		body:      order.normalize(),
		authorize: true,
		token:     token,
	})
}

// ListOrders returns the order history for the token's user.
func (c *APIClient) ListOrders(ctx context.Context, token string) (*Response, error) {
	return c.doRequest(ctx, request{
		method:    http.MethodGet,
		path:      c.endpoints.Orders(),
		authorize: true,
		token:     token,
	})
}

// ListIngredients returns the ingredient catalog.
func (c *APIClient) ListIngredients(ctx context.Context) (*Response, error) {
	return c.doRequest(ctx, request{
		method: http.MethodGet,
		path:   c.endpoints.Ingredients(),
	})
}

// Decode unmarshals a response body into one of the typed bodies.
func Decode[T any](resp *Response) (*T, error) {
	var body T
	if err := resp.JSON(&body); err != nil {
		return nil, err
	}

	return &body, nil
}
