package telemetry

import (
	"cmwizard/internal/components/assert"
	"context"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"go.opentelemetry.io/otel/metric"
)

const report_perf_stats = "perf_stats"

// InstrumentPerfStats records the cpu usage and memory of the process every
// `interval` until ctx is done. A wizard run spends most of its time waiting
// on the rate limiter, so this is mostly useful to spot parser blowups.
func InstrumentPerfStats(ctx context.Context, provider metric.MeterProvider, interval time.Duration, tel API) {
	assert.Positive(interval, "perf stats interval")
	meter := provider.Meter("go.perf_stats")
	cpuGauge, err := meter.Float64Gauge("cpu_usage")
	if err != nil {
		tel.ReportBroken(report_perf_stats, err)
		return
	}
	memoryGauge, err := meter.Int64Gauge("allocated_mb")
	if err != nil {
		tel.ReportBroken(report_perf_stats, err)
		return
	}
	goroutineGauge, err := meter.Int64Gauge("goroutine_count")
	if err != nil {
		tel.ReportBroken(report_perf_stats, err)
		return
	}

	record := func() {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		// zero interval compares against the previous call
		cpuUsage, err := cpu.PercentWithContext(ctx, 0, false)
		if err == nil && len(cpuUsage) > 0 {
			cpuGauge.Record(ctx, cpuUsage[0])
		} else if err != nil {
			tel.ReportWarning(report_perf_stats, "read cpu usage", err)
		}
		memoryGauge.Record(ctx, int64(memStats.Alloc/1_000_000))
		goroutineGauge.Record(ctx, int64(runtime.NumGoroutine()))
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		record()
		for {
			select {
			case <-ticker.C:
				record()
			case <-ctx.Done():
				return
			}
		}
	}()
}
