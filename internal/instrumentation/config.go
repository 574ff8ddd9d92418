package instrumentation

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Metric label values. Keep this vocabulary closed: every new value is a new
// time series on every label combination it appears in.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusUnknown = "unknown"

	OAuthResultSuccess = "success"
	OAuthResultFailure = "failure"

	// Backing services jarvis talks to.
	ServiceGmail    = "gmail"
	ServiceCalendar = "calendar"
	ServiceDocs     = "docs"
	ServiceTasks    = "tasks"
	ServicePeople   = "people"
	ServiceOpenAI   = "openai"

	// Exporter types accepted by the config.
	ExporterPrometheus = "prometheus"
	ExporterOTLP       = "otlp"
	ExporterStdout     = "stdout"
	ExporterNone       = "none"

	DefaultMetricInterval = 10 * time.Second
)

// Config holds the OpenTelemetry instrumentation settings. DefaultConfig
// fills it from the environment; all fields can also be set directly.
type Config struct {
	// ServiceName identifies this service in metrics and traces (default: jarvis).
	ServiceName string

	// ServiceVersion is stamped onto the telemetry resource.
	ServiceVersion string

	// ServiceInstanceID distinguishes replicas; falls back to the hostname.
	// Under Kubernetes this is typically the pod name.
	ServiceInstanceID string

	// K8sNamespace and K8sPodName annotate the resource when running in a cluster.
	K8sNamespace string
	K8sPodName   string

	// Enabled turns the whole subsystem on or off (INSTRUMENTATION_ENABLED).
	Enabled bool

	// MetricsExporter selects prometheus, otlp, or stdout (default: prometheus).
	MetricsExporter string

	// TracingExporter selects otlp, stdout, or none (default: none).
	TracingExporter string

	// OTLPEndpoint is the collector endpoint without a protocol prefix,
	// for example "localhost:4318". Required for the otlp exporters.
	OTLPEndpoint string

	// OTLPInsecure exports over plaintext HTTP. Local development only:
	// traces carry meeting titles, email subjects, and account names.
	OTLPInsecure bool

	// TraceSamplingRate is the head sampling ratio, 0.0 to 1.0 (default: 0.1).
	TraceSamplingRate float64

	// PrometheusEndpoint is the scrape path (default: /metrics).
	PrometheusEndpoint string

	// DetailedLabels enables the high-cardinality label set. Keep it off in
	// production; see cardinality.go for what it adds.
	DetailedLabels bool

	// AuditLogging configures the tool invocation audit trail.
	AuditLogging AuditLoggingConfig
}

// AuditLoggingConfig controls the audit trail for tool invocations.
type AuditLoggingConfig struct {
	// Enabled turns audit records on (default: true).
	Enabled bool

	// IncludePII switches records from domain-only to full email addresses.
	// Only enable when the audit stream lands in access-controlled storage.
	IncludePII bool

	// LogLevel is the slog level audit records are emitted at (default: info).
	LogLevel string
}

// DefaultConfig reads the instrumentation settings from the environment,
// filling in defaults for anything unset.
func DefaultConfig() Config {
	return Config{
		ServiceName:        getEnvOrDefault("OTEL_SERVICE_NAME", "jarvis"),
		ServiceVersion:     "unknown",
		ServiceInstanceID:  getEnvOrDefault("OTEL_SERVICE_INSTANCE_ID", ""),
		K8sNamespace:       getEnvOrDefault("K8S_NAMESPACE", getEnvOrDefault("POD_NAMESPACE", "")),
		K8sPodName:         getEnvOrDefault("K8S_POD_NAME", getEnvOrDefault("HOSTNAME", "")),
		Enabled:            getEnvBoolOrDefault("INSTRUMENTATION_ENABLED", true),
		MetricsExporter:    getEnvOrDefault("METRICS_EXPORTER", ExporterPrometheus),
		TracingExporter:    getEnvOrDefault("TRACING_EXPORTER", ExporterNone),
		OTLPEndpoint:       getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OTLPInsecure:       getEnvBoolOrDefault("OTEL_EXPORTER_OTLP_INSECURE", false),
		TraceSamplingRate:  getEnvFloatOrDefault("OTEL_TRACES_SAMPLER_ARG", 0.1),
		PrometheusEndpoint: getEnvOrDefault("PROMETHEUS_ENDPOINT", "/metrics"),
		DetailedLabels:     getEnvBoolOrDefault("METRICS_DETAILED_LABELS", false),
		AuditLogging: AuditLoggingConfig{
			Enabled:    getEnvBoolOrDefault("AUDIT_LOGGING_ENABLED", true),
			IncludePII: getEnvBoolOrDefault("AUDIT_LOGGING_INCLUDE_PII", false),
			LogLevel:   getEnvOrDefault("AUDIT_LOGGING_LEVEL", "info"),
		},
	}
}

// Validate rejects configurations the provider could not build. Empty
// exporter fields are allowed and resolve to their defaults.
func (c *Config) Validate() error {
	if c.TraceSamplingRate < 0 || c.TraceSamplingRate > 1 {
		return fmt.Errorf("trace sampling rate must be between 0.0 and 1.0, got %f", c.TraceSamplingRate)
	}

	switch c.MetricsExporter {
	case "", ExporterPrometheus, ExporterOTLP, ExporterStdout:
	default:
		return fmt.Errorf("invalid metrics exporter %q, must be one of: prometheus, otlp, stdout", c.MetricsExporter)
	}

	switch c.TracingExporter {
	case "", ExporterOTLP, ExporterStdout, ExporterNone:
	default:
		return fmt.Errorf("invalid tracing exporter %q, must be one of: otlp, stdout, none", c.TracingExporter)
	}

	if c.TracingExporter == ExporterOTLP && c.OTLPEndpoint == "" {
		return fmt.Errorf("OTLP endpoint is required when using OTLP tracing exporter")
	}
	if c.MetricsExporter == ExporterOTLP && c.OTLPEndpoint == "" {
		return fmt.Errorf("OTLP endpoint is required when using OTLP metrics exporter")
	}

	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}
