package xchain

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tokenly/xchain-go/auth"
	"github.com/tokenly/xchain-go/logger"
	"github.com/tokenly/xchain-go/metrics"
	"github.com/tokenly/xchain-go/types"
)

func testRequester(serverURL string) *httpRequester {
	cfg := Config{
		BaseURL:   serverURL,
		APIToken:  "test-token",
		APISecret: "test-secret",
	}
	return newHTTPRequester(cfg, http.DefaultClient, logger.NoopLogger{}, metrics.NoopRecorder{})
}

func TestRequestSignsAndPostsJSON(t *testing.T) {
	var seen *http.Request
	var seenBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Clone(context.Background())
		_ = json.NewDecoder(r.Body).Decode(&seenBody)
		w.Write([]byte(`{"id":"abc"}`))
	}))
	defer server.Close()

	raw, err := testRequester(server.URL).Request(context.Background(), http.MethodPost, "/addresses", map[string]any{"label": "hot"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"abc"}`, string(raw))

	require.NotNil(t, seen)
	assert.Equal(t, "/api/v1/addresses", seen.URL.Path)
	assert.Equal(t, "application/json", seen.Header.Get("Content-Type"))
	assert.Equal(t, "test-token", seen.Header.Get(auth.HeaderAPIToken))
	assert.NotEmpty(t, seen.Header.Get(auth.HeaderNonce))
	assert.NotEmpty(t, seen.Header.Get(auth.HeaderSignature))
	assert.Equal(t, "hot", seenBody["label"])
}

func TestRequestEncodesGetQuery(t *testing.T) {
	var seen *http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Clone(context.Background())
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	_, err := testRequester(server.URL).Request(context.Background(), http.MethodGet, "/accounts/addr1", map[string]any{"active": "1"})
	require.NoError(t, err)

	require.NotNil(t, seen)
	assert.Equal(t, "/api/v1/accounts/addr1", seen.URL.Path)
	assert.Equal(t, "1", seen.URL.Query().Get("active"))
	assert.NotEmpty(t, seen.Header.Get(auth.HeaderSignature))
}

func TestRequestMapsErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"tried to debit too much","errorName":"ERR_INSUFFICIENT_FUNDS"}`))
	}))
	defer server.Close()

	_, err := testRequester(server.URL).Request(context.Background(), http.MethodPost, "/sends/addr1", map[string]any{"asset": "BTC"})
	require.Error(t, err)

	var apiErr *types.XChainError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Code)
	assert.Equal(t, "tried to debit too much", apiErr.Message)
	assert.Equal(t, types.ErrNameInsufficientFunds, types.ErrorName(apiErr))
}

func TestRequestUnparseableErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`<html>gateway error</html>`))
	}))
	defer server.Close()

	_, err := testRequester(server.URL).Request(context.Background(), http.MethodGet, "/balances/addr1", nil)
	require.Error(t, err)

	var apiErr *types.XChainError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Code)
}

func TestRequestNoContentBecomesEmptyObject(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	raw, err := testRequester(server.URL).Request(context.Background(), http.MethodDelete, "/monitors/xxxx", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(raw))
}

func TestRequestRejectsNonJSONSuccessBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	_, err := testRequester(server.URL).Request(context.Background(), http.MethodGet, "/balances/addr1", nil)
	require.ErrorIs(t, err, types.ErrUnexpectedResponse)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	_, err := New(Config{BaseURL: "", APIToken: "t", APISecret: "s"})
	assert.Error(t, err)

	_, err = New(Config{BaseURL: "https://xchain.tokenly.com", APIToken: "", APISecret: "s"})
	assert.Error(t, err)
}
