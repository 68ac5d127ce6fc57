package coins

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/cryptodeck/cryptodeck-api/app/observability/metrics"
	"github.com/cryptodeck/cryptodeck-api/config"
	"github.com/cryptodeck/cryptodeck-api/internal/types"
)

const (
	defaultTimeout = 10 * time.Second
	marketsPath    = "/coins/markets"
)

// Provider fetches the market listing. The payload stays opaque: it is
// relayed to clients byte-for-byte.
type Provider interface {
	FetchMarkets(ctx context.Context) (json.RawMessage, error)
}

var _ Provider = (*ProviderClient)(nil)

// ProviderClient talks to the market-data provider's REST API.
type ProviderClient struct {
	baseURL    string
	apiKey     string
	vsCurrency string
	perPage    int
	httpc      *http.Client
	logger     *slog.Logger
}

func NewProviderClient(cfg config.ProviderConfig, logger *slog.Logger) *ProviderClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	vsCurrency := cfg.VsCurrency
	if vsCurrency == "" {
		vsCurrency = "usd"
	}
	perPage := cfg.PerPage
	if perPage == 0 {
		perPage = 10
	}
	return &ProviderClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		vsCurrency: vsCurrency,
		perPage:    perPage,
		httpc:      &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// FetchMarkets requests one page of market records. Any transport failure or
// non-2xx response collapses into types.ErrUpstream; there is no retry.
func (c *ProviderClient) FetchMarkets(ctx context.Context) (json.RawMessage, error) {
	ctx, span := otel.Tracer("MarketDataProvider").Start(ctx, "FetchMarkets")
	defer span.End()

	query := url.Values{
		"vs_currency": []string{c.vsCurrency},
		"per_page":    []string{strconv.Itoa(c.perPage)},
	}
	reqURL := c.baseURL + marketsPath + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build provider request: %w", err)
	}
	req.Header.Set("x-cg-demo-api-key", c.apiKey)

	start := time.Now()
	resp, err := c.httpc.Do(req)
	metrics.Get().ProviderRequestDurationSeconds.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		metrics.Get().ProviderRequestErrorsTotal.Add(ctx, 1)
		c.logger.WarnContext(ctx, "Provider request failed", slog.Any("error", err))
		return nil, fmt.Errorf("%w: %v", types.ErrUpstream, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.Get().ProviderRequestErrorsTotal.Add(ctx, 1)
		c.logger.WarnContext(ctx, "Provider returned an error status", slog.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: provider responded with status %d", types.ErrUpstream, resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		metrics.Get().ProviderRequestErrorsTotal.Add(ctx, 1)
		return nil, fmt.Errorf("%w: failed to read provider response: %v", types.ErrUpstream, err)
	}
	return raw, nil
}
