package stream

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/knotted/kgx/internal/graph"
	"golang.org/x/time/rate"
)

const (
	// StreamEndpoint streams NDJSON entity records.
	StreamEndpoint = "/api/stream-generate-graph"

	// GenerateEndpoint returns one complete graph document.
	GenerateEndpoint = "/api/generate-graph"

	// RequestsPerSecond bounds how fast repeated generations hit the
	// service.
	RequestsPerSecond = 2.0

	// DefaultTimeout is the HTTP timeout for streaming requests. Large
	// graphs on slow models stream for minutes.
	DefaultTimeout = 5 * time.Minute
)

// Request is the outbound generation request body.
type Request struct {
	Subject         string `json:"subject"`
	Model           string `json:"model"`
	TurnstileToken  string `json:"turnstile_token,omitempty"`
	ParentGraphID   string `json:"parent_graph_id,omitempty"`
	ParentNodeID    int    `json:"parent_node_id,omitempty"`
	SourceNodeLabel string `json:"source_node_label,omitempty"`
	Title           string `json:"title,omitempty"`
}

// Client is a rate-limited HTTP client for the generation service.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	token      string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithToken sets the verification token attached to requests.
func WithToken(token string) ClientOption {
	return func(c *Client) {
		c.token = token
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a generation-service client for the given base URL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RequestsPerSecond), 1),
		baseURL:    strings.TrimRight(baseURL, "/"),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Stream runs one streaming generation session. Events are merged into the
// session as they arrive; onProgress (optional) is invoked after each
// applied event. The context cancels the in-flight transport read and is
// checked before each parsed event is applied, so a late-arriving chunk
// from an aborted session never reaches the session. On success the
// finalized stored graph is returned.
func (c *Client) Stream(ctx context.Context, req Request, session *Session, onProgress func(Progress)) (*graph.Graph, error) {
	if c.baseURL == "" {
		return nil, ErrNoEndpoint
	}

	session.Start()

	resp, err := c.post(ctx, StreamEndpoint, req)
	if err != nil {
		if ctx.Err() != nil {
			session.Cancel()
			return nil, ErrCancelled
		}
		session.Fail(err)
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp, req); err != nil {
		session.Fail(err)
		return nil, err
	}

	scanner := bufio.NewScanner(resp.Body)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	for scanner.Scan() {
		if ctx.Err() != nil {
			session.Cancel()
			return nil, ErrCancelled
		}

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		ev, err := DecodeLine(line)
		if err != nil {
			// A malformed line degrades to a skip, never to a dead session.
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
			continue
		}

		session.Apply(ev)
		if onProgress != nil {
			onProgress(session.Snapshot())
		}

		switch session.State() {
		case StateComplete:
			return session.Finalize()
		case StateError:
			return nil, session.Err()
		}
	}

	if err := scanner.Err(); err != nil {
		if ctx.Err() != nil {
			session.Cancel()
			return nil, ErrCancelled
		}
		session.Fail(fmt.Errorf("reading stream: %w", err))
		return nil, session.Err()
	}

	// Stream ended without a completion record.
	err = fmt.Errorf("%w: stream ended before completion", ErrServiceError)
	session.Fail(err)
	return nil, err
}

// singleShotResponse is the non-streaming generation document.
type singleShotResponse struct {
	Graph     graph.Data `json:"graph"`
	Model     string     `json:"model"`
	ID        string     `json:"id"`
	CreatedAt int64      `json:"createdAt"`
	Subject   string     `json:"subject"`
}

// Generate runs one single-shot (non-streaming) generation.
func (c *Client) Generate(ctx context.Context, req Request) (*graph.Graph, error) {
	if c.baseURL == "" {
		return nil, ErrNoEndpoint
	}

	resp, err := c.post(ctx, GenerateEndpoint, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp, req); err != nil {
		return nil, err
	}

	var doc singleShotResponse
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing generation response: %w", err)
	}

	id := doc.ID
	if id == "" {
		id = graph.NewID()
	}
	createdAt := doc.CreatedAt
	if createdAt == 0 {
		createdAt = graph.Now()
	}

	return &graph.Graph{
		ID:              id,
		Title:           req.Title,
		Subject:         doc.Subject,
		CreatedAt:       createdAt,
		Model:           doc.Model,
		ParentGraphID:   req.ParentGraphID,
		ParentNodeID:    req.ParentNodeID,
		SourceNodeLabel: req.SourceNodeLabel,
		Data:            doc.Graph,
	}, nil
}

// post sends a rate-limited JSON POST and returns the raw response.
func (c *Client) post(ctx context.Context, endpoint string, req Request) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	if req.TurnstileToken == "" {
		req.TurnstileToken = c.token
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("calling generation service: %w", err)
	}
	return resp, nil
}

// checkStatus maps HTTP error statuses to the client error taxonomy. A 401
// or 403 is a rejected verification token: the request is preserved so it
// can be retried with a fresh token.
func (c *Client) checkStatus(resp *http.Response, req Request) error {
	if resp.StatusCode == http.StatusOK {
		return nil
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return &TokenExpiredError{Request: req}
	}

	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    strings.TrimSpace(string(msg)),
	}
}
