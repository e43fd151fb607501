package config

import (
	"net"

	"github.com/preston-bernstein/scoreboard-gateway/internal/domain/match"
)

// Config holds runtime configuration for the gateway.
type Config struct {
	Port          string
	Telemetry     TelemetryConfig
	TickInterval  Duration
	DumpInterval  Duration
	NameCharset   string
	VMix          VMixConfig
	OverridesFile string
	GatewayFile   string
	Metrics       MetricsConfig
	Log           LogConfig
}

// TelemetryConfig controls the scoreboard listener.
type TelemetryConfig struct {
	Host     string
	Port     string
	ReadSize int
}

// Addr returns the listen address.
func (t TelemetryConfig) Addr() string {
	return net.JoinHostPort(t.Host, t.Port)
}

// LogConfig selects the log level and handler format.
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Port: envOrDefault(envPort, defaultPort),
		Telemetry: TelemetryConfig{
			Host:     envOrDefault(envTelemetryHost, defaultTelemetryHost),
			Port:     envOrDefault(envTelemetryPort, defaultTelemetryPort),
			ReadSize: intEnvOrDefault(envReadSize, defaultReadSize),
		},
		TickInterval:  durationEnvOrDefault(envTickInterval, defaultTickInterval),
		DumpInterval:  durationEnvOrDefault(envDumpInterval, defaultDumpInterval),
		NameCharset:   envOrDefault(envNameCharset, defaultNameCharset),
		VMix:          loadVMix(),
		OverridesFile: envOrDefault(envOverridesFile, ""),
		GatewayFile:   envOrDefault(envGatewayFile, ""),
		Metrics:       loadMetrics(),
		Log: LogConfig{
			Level:  envOrDefault(envLogLevel, defaultLogLevel),
			Format: envOrDefault(envLogFormat, defaultLogFormat),
		},
	}
}

// DefaultFields maps consumer fields to the title template's selected names.
func DefaultFields() map[match.Field]string {
	return map[match.Field]string{
		match.FieldHomeName:  "A_TEAM_NAME.Text",
		match.FieldAwayName:  "B_TEAM_NAME.Text",
		match.FieldHomeScore: "A_SCORE.Text",
		match.FieldAwayScore: "B_SCORE.Text",
		match.FieldPeriod:    "QUARTER1.Text",
		match.FieldGameClock: "TIME.Text",
		match.FieldShotClock: "SHOTCLOCK.Text",
	}
}
