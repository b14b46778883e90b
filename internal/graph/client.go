package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/teemow/outlook-mcp/internal/instrumentation"
	"github.com/teemow/outlook-mcp/internal/logging"
)

// DefaultBaseURL is the Graph v1.0 endpoint.
const DefaultBaseURL = "https://graph.microsoft.com/v1.0"

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

// Correlation headers. Graph echoes client-request-id and adds its own request-id.
const (
	HeaderClientRequestID = "client-request-id"
	HeaderRequestID       = "request-id"
)

// Client issues requests against Microsoft Graph.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     logging.Logger
	metrics    *instrumentation.Metrics
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the Graph endpoint (used by tests).
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithLogger sets the logger used for request debug output.
func WithLogger(logger logging.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMetrics records a graph_requests_total sample per request.
func WithMetrics(metrics *instrumentation.Metrics) Option {
	return func(c *Client) {
		c.metrics = metrics
	}
}

// NewClient creates a Graph client on top of an authenticated HTTP client.
// Outgoing requests are traced through otelhttp.
func NewClient(httpClient *http.Client, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	traced := *httpClient
	traced.Transport = otelhttp.NewTransport(httpClient.Transport)

	c := &Client{
		httpClient: &traced,
		baseURL:    DefaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.OrDefault(c.logger)
	return c
}

// BaseURL returns the Graph endpoint this client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// API starts a request for the resource at path, e.g. "/me/events".
func (c *Client) API(path string) *Request {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return &Request{
		client: c,
		path:   path,
		header: make(http.Header),
	}
}

// Request is a single Graph call under construction.
// Query options are kept in insertion order.
type Request struct {
	client *Client
	path   string
	params []param
	header http.Header
}

type param struct {
	key   string
	value string
}

func (r *Request) set(key, value string) *Request {
	for i := range r.params {
		if r.params[i].key == key {
			r.params[i].value = value
			return r
		}
	}
	r.params = append(r.params, param{key: key, value: value})
	return r
}

// Select sets the $select projection.
func (r *Request) Select(fields ...string) *Request {
	return r.set("$select", strings.Join(fields, ","))
}

// Filter sets the $filter expression.
func (r *Request) Filter(expr string) *Request {
	return r.set("$filter", expr)
}

// Search sets $search. Graph requires the term in double quotes; an already
// quoted term is passed through.
func (r *Request) Search(term string) *Request {
	if !(len(term) >= 2 && strings.HasPrefix(term, `"`) && strings.HasSuffix(term, `"`)) {
		term = `"` + strings.ReplaceAll(term, `"`, `\"`) + `"`
	}
	r.header.Set("ConsistencyLevel", "eventual")
	return r.set("$search", term)
}

// OrderBy sets the $orderby expression.
func (r *Request) OrderBy(expr string) *Request {
	return r.set("$orderby", expr)
}

// Top limits the number of returned items. Non-positive values are ignored.
func (r *Request) Top(n int) *Request {
	if n <= 0 {
		return r
	}
	return r.set("$top", strconv.Itoa(n))
}

// Header sets an extra request header.
func (r *Request) Header(key, value string) *Request {
	r.header.Set(key, value)
	return r
}

// URL returns the fully encoded request URL.
// OData option names keep their literal "$" prefix.
func (r *Request) URL() string {
	var sb strings.Builder
	sb.WriteString(r.client.baseURL)
	sb.WriteString(r.path)
	for i, p := range r.params {
		if i == 0 {
			sb.WriteByte('?')
		} else {
			sb.WriteByte('&')
		}
		sb.WriteString(p.key)
		sb.WriteByte('=')
		sb.WriteString(escapeQueryValue(p.value))
	}
	return sb.String()
}

// Get performs a GET and decodes the JSON response into out.
func (r *Request) Get(ctx context.Context, out any) error {
	return r.do(ctx, http.MethodGet, nil, out)
}

// Post sends body as JSON and decodes the response into out.
// out may be nil for endpoints that answer 202/204 without a body.
func (r *Request) Post(ctx context.Context, body any, out any) error {
	return r.do(ctx, http.MethodPost, body, out)
}

func (r *Request) do(ctx context.Context, method string, body any, out any) (err error) {
	start := time.Now()
	ctx, span := instrumentation.StartGraphSpan(ctx, method, r.path)
	defer func() {
		status := instrumentation.StatusSuccess
		if err != nil {
			status = instrumentation.StatusError
			instrumentation.SetSpanError(span, err)
		} else {
			instrumentation.SetSpanSuccess(span)
		}
		span.End()
		r.client.metrics.RecordGraphRequest(ctx, instrumentation.GraphResource(r.path), method, status, time.Since(start))
	}()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.URL(), reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	for k, v := range r.header {
		req.Header[k] = v
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	clientRequestID := req.Header.Get(HeaderClientRequestID)
	if clientRequestID == "" {
		clientRequestID = uuid.NewString()
		req.Header.Set(HeaderClientRequestID, clientRequestID)
	}

	r.client.logger.Debug("graph request", logging.Operation(method), logging.Path(r.path), "client_request_id", clientRequestID)

	resp, err := r.client.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("graph %s %s: %w", method, r.path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := decodeError(resp, clientRequestID)
		r.client.logger.Debug("graph request failed",
			logging.Operation(method),
			logging.Path(r.path),
			"status_code", apiErr.StatusCode,
			"code", apiErr.Code,
			"request_id", apiErr.RequestID,
			"client_request_id", apiErr.ClientRequestID,
			"trace_id", instrumentation.GetTraceID(ctx))
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// escapeQueryValue percent-encodes a query value, using %20 for spaces.
func escapeQueryValue(v string) string {
	return strings.ReplaceAll(url.QueryEscape(v), "+", "%20")
}
