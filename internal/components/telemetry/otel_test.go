package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExporterProtocol(t *testing.T) {
	protocol, err := Exporter{GrpcEndpoint: "http://localhost:4317", HttpEndpoint: "http://localhost:4318"}.protocol()
	require.NoError(t, err)
	require.Equal(t, "grpc", protocol)

	protocol, err = Exporter{HttpEndpoint: "http://localhost:4318"}.protocol()
	require.NoError(t, err)
	require.Equal(t, "http", protocol)

	_, err = Exporter{}.protocol()
	require.Error(t, err)
}

func TestSetupErrors(t *testing.T) {
	_, err := Setup(context.Background(), "cmwizard", Config{})
	require.ErrorContains(t, err, "traces")

	config := Config{MetricInterval: "soon"}
	config.Otlp.Traces.HttpEndpoint = "http://localhost:4318"
	_, err = Setup(context.Background(), "cmwizard", config)
	require.ErrorContains(t, err, "metric_interval")
}

func TestShutdownWithoutProviders(t *testing.T) {
	require.NoError(t, Providers{}.Shutdown(context.Background()))
}
