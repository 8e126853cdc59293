package helius

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClient_GetRawTransactions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v0/addresses/WalletAddr/transactions", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("api-key"))
		assert.Equal(t, "100", r.URL.Query().Get("limit"), "limit is capped")
		assert.Equal(t, "sigBefore", r.URL.Query().Get("before"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"signature":"sig1","timestamp":1700000000},{"signature":"sig2","timestamp":1699999990}]`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL+"/v0/", "test-key")
	records, err := client.GetRawTransactions(context.Background(), "WalletAddr", &FetchOptions{Limit: 500, Before: "sigBefore"})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.JSONEq(t, `{"signature":"sig1","timestamp":1700000000}`, string(records[0]))
}

func TestHTTPClient_WrappedResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":[{"signature":"sig1"}]}`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "")
	records, err := client.GetRawTransactions(context.Background(), "W", nil)
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestHTTPClient_UnexpectedObject(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"bad things"}`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "")
	_, err := client.GetRawTransactions(context.Background(), "W", nil)
	require.Error(t, err)
	assert.True(t, IsFetchError(err))
}

func TestHTTPClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch calls.Add(1) {
		case 1:
			w.WriteHeader(http.StatusTooManyRequests)
		case 2:
			w.WriteHeader(http.StatusBadGateway)
		default:
			w.Write([]byte(`[]`))
		}
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "", WithRetryDelay(time.Millisecond), WithMaxDelay(2*time.Millisecond))
	records, err := client.GetRawTransactions(context.Background(), "W", nil)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, int32(3), calls.Load())
}

func TestHTTPClient_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid api key"}`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "bad", WithRetryDelay(time.Millisecond))
	_, err := client.GetRawTransactions(context.Background(), "W", nil)
	require.Error(t, err)

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, http.StatusUnauthorized, fe.StatusCode)
	assert.Equal(t, "W", fe.Address)
	assert.Contains(t, fe.Error(), "invalid api key")
	assert.Equal(t, int32(1), calls.Load())
}

func TestHTTPClient_MaxRetriesExceeded(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "", WithMaxRetries(2), WithRetryDelay(time.Millisecond))
	_, err := client.GetRawTransactions(context.Background(), "W", nil)

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, http.StatusServiceUnavailable, fe.StatusCode)
	assert.Contains(t, err.Error(), "max retries exceeded")
	assert.Equal(t, int32(3), calls.Load())
}

func TestHTTPClient_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewHTTPClient(server.URL, "", WithRetryDelay(time.Second))
	_, err := client.GetRawTransactions(ctx, "W", nil)
	require.Error(t, err)
	assert.True(t, IsFetchError(err))
	assert.ErrorIs(t, err, context.Canceled)
}
