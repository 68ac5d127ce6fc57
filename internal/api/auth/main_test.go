package auth

import (
	"os"
	"testing"

	"github.com/cryptodeck/cryptodeck-api/app/observability/metrics"
)

func TestMain(m *testing.M) {
	// Instruments register against the global (noop) meter provider.
	metrics.InitAppMetrics()
	os.Exit(m.Run())
}
