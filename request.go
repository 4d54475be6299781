package xchain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tokenly/xchain-go/auth"
	"github.com/tokenly/xchain-go/logger"
	"github.com/tokenly/xchain-go/metrics"
	"github.com/tokenly/xchain-go/types"
)

// apiPrefix is prepended to every request path.
const apiPrefix = "/api/v1"

// Requester issues one API call and returns the decoded JSON body.
// Implementations: the HTTP transport below, and mock.Builder.
type Requester interface {
	Request(ctx context.Context, method, path string, params map[string]any) (json.RawMessage, error)
}

// httpRequester is the production transport: it signs and sends requests
// over HTTP and maps error bodies to XChainError.
type httpRequester struct {
	baseURL string
	signer  *auth.Signer
	client  *http.Client
	log     logger.Logger
	metrics metrics.Recorder
}

func newHTTPRequester(cfg Config, client *http.Client, log logger.Logger, recorder metrics.Recorder) *httpRequester {
	return &httpRequester{
		baseURL: cfg.BaseURL,
		signer:  auth.NewSigner(cfg.APIToken, cfg.APISecret),
		client:  client,
		log:     log,
		metrics: recorder,
	}
}

func (r *httpRequester) Request(ctx context.Context, method, path string, params map[string]any) (json.RawMessage, error) {
	started := time.Now()

	req, body, err := r.buildRequest(ctx, method, path, params)
	if err != nil {
		return nil, err
	}
	r.signer.Sign(req, body)

	r.log.Debug("xchain request", map[string]any{"method": method, "path": path})
	resp, err := r.client.Do(req)
	if err != nil {
		r.metrics.IncCounter("request_error", map[string]string{"method": method})
		return nil, fmt.Errorf("xchain request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	r.metrics.IncCounter("request", map[string]string{"method": method})
	r.metrics.ObserveLatency("request", time.Since(started), map[string]string{"method": method})

	return r.decodeResponse(method, path, resp)
}

func (r *httpRequester) buildRequest(ctx context.Context, method, path string, params map[string]any) (*http.Request, []byte, error) {
	target := r.baseURL + apiPrefix + path

	var body []byte
	var reader io.Reader
	switch {
	case len(params) > 0 && (method == http.MethodPost || method == http.MethodPatch):
		encoded, err := json.Marshal(params)
		if err != nil {
			return nil, nil, fmt.Errorf("encoding request parameters: %w", err)
		}
		body = encoded
		reader = bytes.NewReader(encoded)
	case len(params) > 0 && method == http.MethodGet:
		query := url.Values{}
		for key, value := range params {
			query.Set(key, fmt.Sprint(value))
		}
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, nil, fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, body, nil
}

func (r *httpRequester) decodeResponse(method, path string, resp *http.Response) (json.RawMessage, error) {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, r.errorFromBody(resp.StatusCode, raw)
	}
	if resp.StatusCode == http.StatusNoContent {
		return json.RawMessage("{}"), nil
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || (trimmed[0] != '{' && trimmed[0] != '[') {
		return nil, fmt.Errorf("%w from %s %s", types.ErrUnexpectedResponse, method, path)
	}
	return json.RawMessage(trimmed), nil
}

// errorFromBody maps an error response to an XChainError, preserving the
// service's errorName code when present.
func (r *httpRequester) errorFromBody(status int, raw []byte) error {
	var parsed struct {
		Message   string `json:"message"`
		ErrorName string `json:"errorName"`
	}
	if err := json.Unmarshal(raw, &parsed); err == nil && parsed.Message != "" {
		return &types.XChainError{
			Code:      status,
			Message:   parsed.Message,
			ErrorName: parsed.ErrorName,
		}
	}
	return &types.XChainError{
		Code:    status,
		Message: fmt.Sprintf("unexpected error response (status %d)", status),
	}
}
