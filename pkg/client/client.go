// Package client is a Go SDK for the sitecms admin and public APIs. It carries
// the list-page behaviour the admin UI relies on: filter state, pagination
// resets, bulk selection and stale-response protection.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitecms/internal/logging"
	"github.com/goliatone/go-sitecms/pkg/interfaces"
	"github.com/goliatone/go-sitecms/pkg/shared"
)

// Default mount points of the sitecms HTTP adapters.
const (
	DefaultAdminPrefix  = "/admin/api"
	DefaultPublicPrefix = "/api"
)

// Actor headers understood by the sitecms request middleware.
const (
	headerActorID   = "X-Actor-ID"
	headerActorName = "X-Actor-Name"
)

var ErrBaseURLRequired = errors.New("client: base url is required")

// Error is returned when the server answers with a failed envelope or a
// non-2xx status.
type Error struct {
	StatusCode int
	shared.APIError
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("client: %d %s", e.StatusCode, e.Code)
	}
	return fmt.Sprintf("client: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// StatusCode extracts the HTTP status of a client error, or 0.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsNotFound reports whether err is a 404 answer.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsValidation reports whether err is a 400 validation answer.
func IsValidation(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusBadRequest
}

// Response is the decoded envelope of a call. Data is unmarshalled into the
// out argument of the call that produced it.
type Response struct {
	StatusCode int
	Success    bool
	Message    string
	Error      *shared.APIError
	Pagination *shared.PageMeta
}

type envelope struct {
	Success    bool             `json:"success"`
	Data       json.RawMessage  `json:"data"`
	Message    string           `json:"message"`
	Error      *shared.APIError `json:"error"`
	Pagination *shared.PageMeta `json:"pagination"`
}

// Client performs envelope-aware JSON calls against one sitecms server.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	header    http.Header
	admin     string
	public    string
	logger    interfaces.Logger
	userAgent string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithActor attributes admin calls to the given user.
func WithActor(id uuid.UUID, name string) Option {
	return func(c *Client) {
		if id != uuid.Nil {
			c.header.Set(headerActorID, id.String())
		}
		if name = strings.TrimSpace(name); name != "" {
			c.header.Set(headerActorName, name)
		}
	}
}

// WithHeader adds a header sent with every request.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.header.Set(key, value)
	}
}

// WithPrefixes overrides the admin and public mount points.
func WithPrefixes(admin, public string) Option {
	return func(c *Client) {
		if admin != "" {
			c.admin = admin
		}
		if public != "" {
			c.public = public
		}
	}
}

func WithLogger(logger interfaces.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New builds a client for the server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, ErrBaseURLRequired
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("client: parse base url: %w", err)
	}
	c := &Client{
		baseURL:   parsed,
		http:      http.DefaultClient,
		header:    http.Header{},
		admin:     DefaultAdminPrefix,
		public:    DefaultPublicPrefix,
		logger:    logging.NoOp(),
		userAgent: "go-sitecms-client",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// Get issues a GET with params encoded as query values. Blank params are
// dropped so absent filters never reach the server.
func (c *Client) Get(ctx context.Context, path string, params shared.Record, out any) (*Response, error) {
	return c.do(ctx, http.MethodGet, path, params.Values(), nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) (*Response, error) {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) (*Response, error) {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any) (*Response, error) {
	return c.do(ctx, http.MethodPatch, path, nil, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, body, out any) (*Response, error) {
	return c.do(ctx, http.MethodDelete, path, nil, body, out)
}

// Download copies a non-envelope body, such as an export, into w and
// returns the number of bytes written.
func (c *Client) Download(ctx context.Context, path string, params shared.Record, w io.Writer) (int64, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, params.Values(), nil)
	if err != nil {
		return 0, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("client: GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		_, err := decodeEnvelope(resp, nil)
		return 0, err
	}
	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("client: read %s: %w", path, err)
	}
	return n, nil
}

// AdminPath joins segments under the admin prefix.
func (c *Client) AdminPath(segments ...string) string {
	return joinPath(c.admin, segments...)
}

// PublicPath joins segments under the public prefix.
func (c *Client) PublicPath(segments ...string) string {
	return joinPath(c.public, segments...)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) (*Response, error) {
	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	result, err := decodeEnvelope(resp, out)
	if err != nil {
		c.logger.Debug("client.request.failed", "method", method, "path", path, "status", resp.StatusCode, "error", err)
		return result, err
	}
	return result, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	target, err := c.resolve(path)
	if err != nil {
		return nil, err
	}
	if len(query) > 0 {
		target.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("client: encode %s body: %w", path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("client: build request: %w", err)
	}
	for key, values := range c.header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func decodeEnvelope(resp *http.Response, out any) (*Response, error) {
	result := &Response{StatusCode: resp.StatusCode}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return result, fmt.Errorf("client: read response: %w", err)
	}

	var env envelope
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			if resp.StatusCode >= http.StatusBadRequest {
				return result, &Error{StatusCode: resp.StatusCode, APIError: shared.APIError{
					Code:    fmt.Sprintf("HTTP_%d", resp.StatusCode),
					Message: strings.TrimSpace(string(raw)),
				}}
			}
			return result, fmt.Errorf("client: decode response: %w", err)
		}
	}
	result.Success = env.Success
	result.Message = env.Message
	result.Error = env.Error
	result.Pagination = env.Pagination

	if resp.StatusCode >= http.StatusBadRequest || !env.Success {
		apiErr := &Error{StatusCode: resp.StatusCode}
		if env.Error != nil {
			apiErr.APIError = *env.Error
		} else {
			apiErr.Code = fmt.Sprintf("HTTP_%d", resp.StatusCode)
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return result, apiErr
	}

	if out != nil && len(env.Data) > 0 && !bytes.Equal(env.Data, []byte("null")) {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return result, fmt.Errorf("client: decode data: %w", err)
		}
	}
	return result, nil
}

// resolve appends an already escaped path to the base URL. Path holds the
// decoded form and RawPath keeps escapes such as %2F intact.
func (c *Client) resolve(path string) (*url.URL, error) {
	target := *c.baseURL
	raw := strings.TrimRight(c.baseURL.EscapedPath(), "/") + "/" + strings.TrimLeft(path, "/")
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return nil, fmt.Errorf("client: invalid path %q: %w", path, err)
	}
	target.Path = decoded
	target.RawPath = raw
	return &target, nil
}

func joinPath(prefix string, segments ...string) string {
	parts := []string{strings.TrimRight(prefix, "/")}
	for _, segment := range segments {
		segment = strings.Trim(segment, "/")
		if segment != "" {
			parts = append(parts, url.PathEscape(segment))
		}
	}
	path := strings.Join(parts, "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}
