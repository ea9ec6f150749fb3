package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/eshaffer321/fintrack-go/internal/types"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
)

const (
	latestEndpoint = "/v4/latest/"

	contentType = "application/json"
)

// RatesTransport fetches exchange rates over HTTP
type RatesTransport struct {
	baseURL     string
	httpClient  *http.Client
	retryClient *retryablehttp.Client
	headers     map[string]string
	logger      types.Logger
	hooks       *types.Hooks
}

// RatesResponse is the body returned by the rates endpoint
type RatesResponse struct {
	Base  string             `json:"base"`
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}

// NewRatesTransport creates a new rates transport
func NewRatesTransport(opts *Options) *RatesTransport {
	if opts == nil {
		opts = &Options{}
	}

	// Set defaults
	if opts.BaseURL == "" {
		opts.BaseURL = types.DefaultRatesURL
	}

	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{
			Timeout: types.DefaultTimeout,
		}
	}

	// Retries are opt-in; a single attempt is the default
	var retryClient *retryablehttp.Client
	if opts.RetryConfig != nil {
		retryClient = retryablehttp.NewClient()
		retryClient.HTTPClient = opts.HTTPClient
		retryClient.RetryMax = opts.RetryConfig.MaxRetries
		retryClient.RetryWaitMin = opts.RetryConfig.RetryWait
		retryClient.RetryWaitMax = opts.RetryConfig.MaxWait
		retryClient.Logger = nil
		retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

		if opts.Logger != nil {
			retryClient.Logger = &retryLogger{logger: opts.Logger}
		}
	}

	headers := map[string]string{
		"Accept":     contentType,
		"User-Agent": types.UserAgent,
	}

	return &RatesTransport{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		httpClient:  opts.HTTPClient,
		retryClient: retryClient,
		headers:     headers,
		logger:      opts.Logger,
		hooks:       opts.Hooks,
	}
}

// Fetch retrieves the latest rates relative to base
func (t *RatesTransport) Fetch(ctx context.Context, base string) (*RatesResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+latestEndpoint+base, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}

	for k, v := range t.headers {
		httpReq.Header.Set(k, v)
	}

	if t.hooks != nil && t.hooks.OnRequest != nil {
		t.hooks.OnRequest(ctx, httpReq)
	}

	if t.logger != nil {
		t.logger.Debug("Rates request", "url", httpReq.URL.String())
	}

	start := time.Now()
	resp, err := t.doRequest(httpReq)
	duration := time.Since(start)

	if err != nil {
		if t.hooks != nil && t.hooks.OnError != nil {
			t.hooks.OnError(ctx, err)
		}
		return nil, errors.Wrap(err, "failed to fetch rates")
	}
	defer resp.Body.Close()

	if t.hooks != nil && t.hooks.OnResponse != nil {
		t.hooks.OnResponse(ctx, resp, duration)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response")
	}

	if t.logger != nil {
		t.logger.Debug("Rates response", "status", resp.StatusCode, "duration", duration, "size", len(respBody))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, t.handleHTTPError(resp.StatusCode, respBody)
	}

	var ratesResp RatesResponse
	if err := json.Unmarshal(respBody, &ratesResp); err != nil {
		return nil, errors.Wrap(err, "failed to parse response")
	}

	if ratesResp.Rates == nil {
		return nil, &types.Error{
			Code:       "INVALID_RESPONSE",
			Message:    "rates response has no rates field",
			StatusCode: resp.StatusCode,
			Err:        types.ErrInvalidResponse,
		}
	}

	return &ratesResp, nil
}

// doRequest executes the HTTP request with retry if configured
func (t *RatesTransport) doRequest(req *http.Request) (*http.Response, error) {
	if t.retryClient != nil {
		retryReq, err := retryablehttp.FromRequest(req)
		if err != nil {
			return nil, err
		}
		resp, err := t.retryClient.Do(retryReq)
		if resp != nil {
			// Exhausted retries hand back the last response for status mapping
			return resp, nil
		}
		return nil, err
	}
	return t.httpClient.Do(req)
}

// handleHTTPError handles HTTP errors
func (t *RatesTransport) handleHTTPError(statusCode int, body []byte) error {
	var errResp struct {
		Result    string `json:"result"`
		ErrorType string `json:"error-type"`
		Message   string `json:"message"`
	}

	_ = json.Unmarshal(body, &errResp)

	msg := errResp.Message
	if msg == "" {
		msg = errResp.ErrorType
	}

	switch statusCode {
	case http.StatusNotFound:
		return &types.Error{
			Code:       "NOT_FOUND",
			Message:    "rates not found for base currency",
			StatusCode: statusCode,
			Err:        types.ErrNotFound,
		}
	case http.StatusTooManyRequests:
		return &types.Error{
			Code:       "RATE_LIMITED",
			Message:    "rates endpoint rate limited the request",
			StatusCode: statusCode,
			Err:        types.ErrRateLimited,
		}
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return &types.Error{
			Code:       "TIMEOUT",
			Message:    fmt.Sprintf("rates request timed out: %d", statusCode),
			StatusCode: statusCode,
			Err:        types.ErrTimeout,
		}
	default:
		if statusCode >= 500 {
			baseMsg := fmt.Sprintf("server error: %d", statusCode)
			if desc := http.StatusText(statusCode); desc != "" {
				baseMsg = fmt.Sprintf("server error: %d (%s)", statusCode, desc)
			}
			if msg != "" {
				baseMsg = fmt.Sprintf("%s: %s", baseMsg, msg)
			}

			return &types.Error{
				Code:       "SERVER_ERROR",
				Message:    baseMsg,
				StatusCode: statusCode,
				Err:        types.ErrServerError,
			}
		}

		baseMsg := fmt.Sprintf("HTTP error: %d", statusCode)
		if msg != "" {
			baseMsg = fmt.Sprintf("%s: %s", baseMsg, msg)
		}
		apiErr := &types.Error{
			Code:       "HTTP_ERROR",
			Message:    baseMsg,
			StatusCode: statusCode,
		}
		if errResp.ErrorType != "" {
			apiErr.Details = map[string]interface{}{"errorType": errResp.ErrorType}
		}
		return apiErr
	}
}

// Options for the rates transport
type Options struct {
	BaseURL     string
	HTTPClient  *http.Client
	RetryConfig *types.RetryConfig
	Logger      types.Logger
	Hooks       *types.Hooks
}

// retryLogger adapts our logger to retryablehttp
type retryLogger struct {
	logger types.Logger
}

func (l *retryLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, keysAndValues...)
}

func (l *retryLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, keysAndValues...)
}

func (l *retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l *retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn(msg, keysAndValues...)
}
