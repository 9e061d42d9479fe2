package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const HeaderRequestID = "X-Request-ID"

type FetchErrorKind string

const (
	FetchStatus  FetchErrorKind = "status"
	FetchNetwork FetchErrorKind = "network"
	FetchParse   FetchErrorKind = "parse"
)

// FetchError is returned for every failed exchange with the REST API.
// Status is set only for FetchStatus.
type FetchError struct {
	Kind      FetchErrorKind
	Endpoint  string
	Status    int
	RequestID string
	Err       error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case FetchStatus:
		return fmt.Sprintf("fetch %s: unexpected status %d", e.Endpoint, e.Status)
	default:
		return fmt.Sprintf("fetch %s: %s: %v", e.Endpoint, e.Kind, e.Err)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// Timeout reports whether the request failed because its deadline expired.
func (e *FetchError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var te interface{ Timeout() bool }
	return errors.As(e.Err, &te) && te.Timeout()
}

// DataFetcher talks JSON to the delivery REST API rooted at a fixed base URL.
// It never retries; callers decide what a failure means.
type DataFetcher struct {
	baseURL string
	client  *http.Client
	log     *slog.Logger
}

func NewDataFetcher(baseURL string, timeout time.Duration, log *slog.Logger) *DataFetcher {
	return &DataFetcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

// Fetch issues a GET for endpoint and decodes the JSON body into out.
func (f *DataFetcher) Fetch(ctx context.Context, endpoint string, out any) error {
	return f.do(ctx, http.MethodGet, endpoint, nil, out)
}

// Send POSTs body as JSON to endpoint. out may be nil when the response
// body is not needed.
func (f *DataFetcher) Send(ctx context.Context, endpoint string, body, out any) error {
	return f.do(ctx, http.MethodPost, endpoint, body, out)
}

func (f *DataFetcher) do(ctx context.Context, method, endpoint string, body, out any) error {
	requestID := uuid.NewString()
	fail := func(kind FetchErrorKind, status int, err error) error {
		f.log.Debug("api request failed",
			"method", method, "endpoint", endpoint, "request_id", requestID, "kind", kind, "status", status, "error", err)
		return &FetchError{Kind: kind, Endpoint: endpoint, Status: status, RequestID: requestID, Err: err}
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, f.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderRequestID, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return fail(FetchNetwork, 0, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fail(FetchNetwork, 0, fmt.Errorf("read body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fail(FetchStatus, resp.StatusCode, fmt.Errorf("body: %s", truncate(data, 256)))
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fail(FetchParse, resp.StatusCode, err)
		}
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
