package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
// Make fields public so they can be accessed from other packages.
type AppMetrics struct {
	AuthRequestsTotal              metric.Int64Counter
	IdentityRequestDurationSeconds metric.Float64Histogram
	IdentityRequestErrorsTotal     metric.Int64Counter
	ProviderRequestDurationSeconds metric.Float64Histogram
	ProviderRequestErrorsTotal     metric.Int64Counter
}

var (
	// Global instance of AppMetrics (initialized once)
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metrics instruments ONLY ONCE.
// It gets the Meter from the globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("CryptoDeckAPI")
		var err error
		m := &AppMetrics{}

		m.AuthRequestsTotal, err = meter.Int64Counter(
			"auth_requests_total",
			metric.WithDescription("Total number of authentication requests completed"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create auth_requests_total: %v", err)
		}

		m.IdentityRequestDurationSeconds, err = meter.Float64Histogram(
			"identity_request_duration_seconds",
			metric.WithDescription("Duration of identity backend requests in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create identity_request_duration_seconds: %v", err)
		}

		m.IdentityRequestErrorsTotal, err = meter.Int64Counter(
			"identity_request_errors_total",
			metric.WithDescription("Total number of failed identity backend requests"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create identity_request_errors_total: %v", err)
		}

		m.ProviderRequestDurationSeconds, err = meter.Float64Histogram(
			"provider_request_duration_seconds",
			metric.WithDescription("Duration of market-data provider requests in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create provider_request_duration_seconds: %v", err)
		}

		m.ProviderRequestErrorsTotal, err = meter.Int64Counter(
			"provider_request_errors_total",
			metric.WithDescription("Total number of failed market-data provider requests"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create provider_request_errors_total: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the globally initialized AppMetrics instance.
// Panics if InitAppMetrics was not called first.
func Get() *AppMetrics {
	if appMetrics == nil {
		// This indicates a programming error - InitAppMetrics must be called at startup.
		panic("metrics instruments not initialized. Call metrics.InitAppMetrics() first.")
	}
	return appMetrics
}
