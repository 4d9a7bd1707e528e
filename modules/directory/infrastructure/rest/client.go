// Package rest implements the directory's UserGateway over the JSON REST
// contract of the users backend (GET/POST/PUT/DELETE /users[/{id}]).
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/rai/userdirectory/modules/directory/domain"
	"github.com/rai/userdirectory/modules/shared/types"
)

const (
	tracerName   = "github.com/rai/userdirectory/modules/directory/infrastructure/rest"
	maxBodyBytes = 10 << 20
)

// StatusError is a non-2xx answer from the backend.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Path, e.StatusCode)
}

// Config holds client configuration.
type Config struct {
	// BaseURL is the backend root, e.g. http://localhost:2311.
	BaseURL string
	// Timeout bounds every request. Zero means no client-side timeout;
	// callers can still cancel through the context.
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client implements domain.UserGateway.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
	tracer  trace.Tracer
}

// Compile-time interface check.
var _ domain.UserGateway = (*Client)(nil)

// NewClient creates a new REST gateway.
func NewClient(cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", cfg.BaseURL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL: base.String(),
		http:    httpClient,
		logger:  logger,
		tracer:  otel.Tracer(tracerName),
	}, nil
}

// userPayload is the body of POST and PUT requests. The company is always
// sent as an object, with its name omitted when unknown.
type userPayload struct {
	ID      *types.UserID  `json:"id,omitempty"`
	Name    string         `json:"name"`
	Email   string         `json:"email"`
	Phone   string         `json:"phone"`
	Company companyPayload `json:"company"`
}

type companyPayload struct {
	Name *string `json:"name,omitempty"`
}

func newUserPayload(u types.UserRecord) userPayload {
	p := userPayload{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Phone: u.Phone,
	}
	if name, ok := u.CompanyName(); ok {
		p.Company.Name = &name
	}
	return p
}

// List fetches the whole collection.
func (c *Client) List(ctx context.Context) ([]types.UserRecord, error) {
	body, err := c.do(ctx, http.MethodGet, "/users", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)
	}

	var users []types.UserRecord
	if err := json.Unmarshal(body, &users); err != nil {
		return nil, fmt.Errorf("%w: decoding users: %w", domain.ErrInvalidData, err)
	}
	if users == nil {
		// "null" is not a list of users.
		return nil, fmt.Errorf("%w: expected a JSON array", domain.ErrInvalidData)
	}
	for i, u := range users {
		if !u.HasID() {
			return nil, fmt.Errorf("%w: user at index %d has no id", domain.ErrInvalidData, i)
		}
	}

	c.logger.Debug("fetched users", slog.Int("count", len(users)))
	return users, nil
}

// Create posts a new record and returns it with the server-assigned ID.
func (c *Client) Create(ctx context.Context, user types.UserRecord) (types.UserRecord, error) {
	payload := newUserPayload(user.WithoutID())

	body, err := c.do(ctx, http.MethodPost, "/users", payload)
	if err != nil {
		return types.UserRecord{}, fmt.Errorf("%w: creating user: %w", domain.ErrWriteFailed, err)
	}

	var created types.UserRecord
	if err := json.Unmarshal(body, &created); err != nil {
		return types.UserRecord{}, fmt.Errorf("%w: decoding created user: %w", domain.ErrInvalidData, err)
	}
	if !created.HasID() {
		return types.UserRecord{}, fmt.Errorf("%w: created user has no id", domain.ErrInvalidData)
	}

	c.logger.Debug("created user", slog.String("user_id", created.ID.String()))
	return created, nil
}

// Update replaces the record identified by user.ID.
func (c *Client) Update(ctx context.Context, user types.UserRecord) error {
	if !user.HasID() {
		return domain.ErrIDRequired
	}

	if _, err := c.do(ctx, http.MethodPut, userPath(*user.ID), newUserPayload(user)); err != nil {
		return fmt.Errorf("%w: updating user %s: %w", domain.ErrWriteFailed, user.ID, err)
	}

	c.logger.Debug("updated user", slog.String("user_id", user.ID.String()))
	return nil
}

// Delete removes the record; any response body is ignored.
func (c *Client) Delete(ctx context.Context, id types.UserID) error {
	if id.IsZero() {
		return domain.ErrIDRequired
	}

	if _, err := c.do(ctx, http.MethodDelete, userPath(id), nil); err != nil {
		return fmt.Errorf("%w: deleting user %s: %w", domain.ErrWriteFailed, id, err)
	}

	c.logger.Debug("deleted user", slog.String("user_id", id.String()))
	return nil
}

func userPath(id types.UserID) string {
	return "/users/" + url.PathEscape(id.String())
}

// do sends one request and returns the body of a 2xx response.
func (c *Client) do(ctx context.Context, method, path string, payload any) (_ []byte, err error) {
	ctx, span := c.tracer.Start(ctx, method+" "+path,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", path),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encoding request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("request failed", slog.String("method", method), slog.String("path", path), slog.Any("error", err))
		return nil, err
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	c.logger.Debug("request completed",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Method: method, Path: path, StatusCode: resp.StatusCode}
	}
	return body, nil
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}
