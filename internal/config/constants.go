package config

import "time"

const (
	envPort          = "PORT"
	envTelemetryHost = "TELEMETRY_HOST"
	envTelemetryPort = "TELEMETRY_PORT"
	envReadSize      = "TELEMETRY_READ_SIZE"
	envTickInterval  = "TICK_INTERVAL"
	envDumpInterval  = "DUMP_INTERVAL"
	envNameCharset   = "NAME_CHARSET"
	envVMixEnabled   = "VMIX_ENABLED"
	envVMixHost      = "VMIX_HOST"
	envVMixPort      = "VMIX_PORT"
	envVMixInput     = "VMIX_INPUT"
	envVMixTimeout   = "VMIX_TIMEOUT"
	envFoulsBasePath = "FOULS_BASE_PATH"
	envOverridesFile = "OVERRIDES_FILE"
	envGatewayFile   = "GATEWAY_CONFIG_FILE"
	envMetricsPort   = "METRICS_PORT"
	envMetricsOn     = "METRICS_ENABLED"
	envOtelEndpoint  = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService   = "OTEL_SERVICE_NAME"
	envOtelInsecure  = "OTEL_EXPORTER_OTLP_INSECURE"
	envLogLevel      = "LOG_LEVEL"
	envLogFormat     = "LOG_FORMAT"

	defaultPort          = "8080"
	defaultTelemetryHost = "0.0.0.0"
	defaultTelemetryPort = "4001"
	defaultReadSize      = 1024
	defaultTickInterval  = 100 * Duration(time.Millisecond)
	defaultDumpInterval  = 5 * Duration(time.Second)
	defaultNameCharset   = "utf-8"
	defaultVMixEnabled   = true
	defaultVMixHost      = "127.0.0.1"
	defaultVMixPort      = "8088"
	defaultVMixInput     = "17"
	defaultVMixTimeout   = 300 * Duration(time.Millisecond)
	defaultMetricsPort   = "9090"
	defaultServiceName   = "scoreboard-gateway"
	defaultLogLevel      = "info"
	defaultLogFormat     = "json"

	defaultHomeFoulSelectedName = "A_FAULS.Source"
	defaultAwayFoulSelectedName = "B_FAULS.Source"
)
