package transport

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/eshaffer321/fintrack-go/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v4/latest/USD", r.URL.Path)
		assert.Equal(t, types.UserAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"base":"USD","date":"2024-03-01","rates":{"USD":1,"EUR":0.92,"GBP":0.79}}`))
	}))
	defer server.Close()

	tr := NewRatesTransport(&Options{BaseURL: server.URL})

	resp, err := tr.Fetch(context.Background(), "USD")
	require.NoError(t, err)
	assert.Equal(t, "USD", resp.Base)
	assert.Equal(t, 0.92, resp.Rates["EUR"])
	assert.Len(t, resp.Rates, 3)
}

func TestFetch_MissingRatesField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"base":"USD","date":"2024-03-01"}`))
	}))
	defer server.Close()

	tr := NewRatesTransport(&Options{BaseURL: server.URL})

	resp, err := tr.Fetch(context.Background(), "USD")
	assert.Nil(t, resp)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrInvalidResponse))
}

func TestFetch_EmptyRatesObjectIsAccepted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"base":"USD","rates":{}}`))
	}))
	defer server.Close()

	tr := NewRatesTransport(&Options{BaseURL: server.URL})

	resp, err := tr.Fetch(context.Background(), "USD")
	require.NoError(t, err)
	assert.Empty(t, resp.Rates)
}

func TestFetch_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	tr := NewRatesTransport(&Options{BaseURL: server.URL})

	_, err := tr.Fetch(context.Background(), "USD")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse response")
}

func TestFetch_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	tr := NewRatesTransport(&Options{BaseURL: server.URL})

	_, err := tr.Fetch(context.Background(), "USD")
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrServerError))
}

func TestFetch_HooksAreCalled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"rates":{"USD":1}}`))
	}))
	defer server.Close()

	var requests, responses int
	tr := NewRatesTransport(&Options{
		BaseURL: server.URL,
		Hooks: &types.Hooks{
			OnRequest:  func(ctx context.Context, req *http.Request) { requests++ },
			OnResponse: func(ctx context.Context, resp *http.Response, d time.Duration) { responses++ },
		},
	})

	_, err := tr.Fetch(context.Background(), "USD")
	require.NoError(t, err)
	assert.Equal(t, 1, requests)
	assert.Equal(t, 1, responses)
}

func TestFetch_RetriesWhenConfigured(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"rates":{"USD":1,"EUR":0.9}}`))
	}))
	defer server.Close()

	tr := NewRatesTransport(&Options{
		BaseURL: server.URL,
		RetryConfig: &types.RetryConfig{
			MaxRetries: 2,
			RetryWait:  time.Millisecond,
			MaxWait:    5 * time.Millisecond,
		},
	})

	resp, err := tr.Fetch(context.Background(), "USD")
	require.NoError(t, err)
	assert.Equal(t, 0.9, resp.Rates["EUR"])
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestFetch_RetriesExhaustedKeepStatus(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"result":"error","message":"maintenance"}`))
	}))
	defer server.Close()

	tr := NewRatesTransport(&Options{
		BaseURL: server.URL,
		RetryConfig: &types.RetryConfig{
			MaxRetries: 2,
			RetryWait:  time.Millisecond,
			MaxWait:    5 * time.Millisecond,
		},
	})

	_, err := tr.Fetch(context.Background(), "USD")
	require.Error(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.ErrorIs(t, err, types.ErrServerError)

	var apiErr *types.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	assert.True(t, apiErr.Retryable())
	assert.Contains(t, err.Error(), "maintenance")
}

func TestFetch_NoRetryByDefault(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	tr := NewRatesTransport(&Options{BaseURL: server.URL})

	_, err := tr.Fetch(context.Background(), "USD")
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestHandleHTTPError_ServerError_IncludesResponseBody(t *testing.T) {
	transport := &RatesTransport{}

	tests := []struct {
		name          string
		statusCode    int
		responseBody  []byte
		expectedInMsg string
	}{
		{
			name:          "500 with JSON error message",
			statusCode:    500,
			responseBody:  []byte(`{"result":"error","message":"upstream feed unavailable"}`),
			expectedInMsg: "upstream feed unavailable",
		},
		{
			name:          "502 Bad Gateway with empty body",
			statusCode:    502,
			responseBody:  []byte{},
			expectedInMsg: "502",
		},
		{
			name:          "503 with plain text body",
			statusCode:    503,
			responseBody:  []byte(`Service temporarily unavailable`),
			expectedInMsg: "Service Unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := transport.handleHTTPError(tt.statusCode, tt.responseBody)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedInMsg)

			var apiErr *types.Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, "SERVER_ERROR", apiErr.Code)
			assert.Equal(t, tt.statusCode, apiErr.StatusCode)
		})
	}
}

func TestHandleHTTPError_ClientErrors(t *testing.T) {
	transport := &RatesTransport{}

	tests := []struct {
		name       string
		statusCode int
		body       []byte
		sentinel   error
		code       string
	}{
		{"404 unknown base", 404, []byte(`{"result":"error","error-type":"unsupported-code"}`), types.ErrNotFound, "NOT_FOUND"},
		{"429 rate limited", 429, nil, types.ErrRateLimited, "RATE_LIMITED"},
		{"408 timeout", 408, nil, types.ErrTimeout, "TIMEOUT"},
		{"504 timeout", 504, nil, types.ErrTimeout, "TIMEOUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := transport.handleHTTPError(tt.statusCode, tt.body)

			assert.True(t, errors.Is(err, tt.sentinel))

			var apiErr *types.Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.code, apiErr.Code)
		})
	}
}

func TestHandleHTTPError_OtherClientError_UsesErrorType(t *testing.T) {
	transport := &RatesTransport{}

	err := transport.handleHTTPError(403, []byte(`{"result":"error","error-type":"invalid-key"}`))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, err.Error(), "invalid-key")

	var apiErr *types.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "invalid-key", apiErr.Details["errorType"])
}

func TestErrorRetryable(t *testing.T) {
	tests := []struct {
		status    int
		retryable bool
	}{
		{http.StatusTooManyRequests, true},
		{http.StatusRequestTimeout, true},
		{http.StatusBadGateway, true},
		{http.StatusNotFound, false},
		{http.StatusForbidden, false},
		{http.StatusOK, false},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			err := (&RatesTransport{}).handleHTTPError(tt.status, nil)
			if tt.status == http.StatusOK {
				err = &types.Error{Code: "INVALID_RESPONSE", StatusCode: tt.status}
			}

			var apiErr *types.Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.retryable, apiErr.Retryable())
		})
	}
}
