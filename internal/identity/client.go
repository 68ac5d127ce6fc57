package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"

	"github.com/cryptodeck/cryptodeck-api/app/observability/metrics"
	"github.com/cryptodeck/cryptodeck-api/config"
)

const defaultTimeout = 15 * time.Second

// Client talks to the hosted identity/storage backend. It covers the two
// surfaces this service needs: account/session operations under /auth/v1 and
// row storage under /rest/v1.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
	logger  *slog.Logger
}

func NewClient(cfg config.IdentityConfig, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		httpc:   &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// call performs one request against the backend. bearer overrides the
// Authorization header; when empty the service API key is used. extra headers
// (e.g. Prefer for row storage) are applied last. dst, when non-nil, receives
// the decoded 2xx response body.
func (c *Client) call(ctx context.Context, method, path string, query url.Values, bearer string, header http.Header, body, dst any) error {
	ctx, span := otel.Tracer("IdentityClient").Start(ctx, fmt.Sprintf("%s %s", method, path))
	defer span.End()
	span.SetAttributes(
		attribute.String("http.request.method", method),
		attribute.String("url.path", path),
	)

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if bearer == "" {
		bearer = c.apiKey
	}
	req.Header.Set("Authorization", "Bearer "+bearer)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, values := range header {
		for _, value := range values {
			req.Header.Set(key, value)
		}
	}

	start := time.Now()
	resp, err := c.httpc.Do(req)
	metrics.Get().IdentityRequestDurationSeconds.Record(ctx, time.Since(start).Seconds(),
		attributeOption(method, path))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		metrics.Get().IdentityRequestErrorsTotal.Add(ctx, 1, attributeOption(method, path))
		return fmt.Errorf("identity backend request failed: %w", err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read identity backend response: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := decodeAPIError(resp.StatusCode, raw)
		span.SetStatus(codes.Error, apiErr.Message)
		c.logger.WarnContext(ctx, "Identity backend returned an error",
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status", resp.StatusCode),
			slog.String("code", apiErr.Code),
		)
		return apiErr
	}

	if dst != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, dst); err != nil {
			return fmt.Errorf("failed to decode identity backend response: %w", err)
		}
	}
	return nil
}

func attributeOption(method, path string) metric.MeasurementOption {
	return metric.WithAttributes(
		attribute.String("http.request.method", method),
		attribute.String("url.path", path),
	)
}
