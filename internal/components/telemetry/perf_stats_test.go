package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestInstrumentPerfStats(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer provider.Shutdown(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	InstrumentPerfStats(ctx, provider, 10*time.Millisecond, NewTestAPI())

	require.Eventually(t, func() bool {
		var data metricdata.ResourceMetrics
		err := reader.Collect(context.Background(), &data)
		if err != nil || len(data.ScopeMetrics) == 0 {
			return false
		}
		names := map[string]bool{}
		for _, m := range data.ScopeMetrics[0].Metrics {
			names[m.Name] = true
		}
		return names["allocated_mb"] && names["goroutine_count"]
	}, 5*time.Second, 20*time.Millisecond)
}
