package obs

import "os"

// ExporterType enumerates supported tracing exporter backends.
type ExporterType string

const (
	ExporterOTLP   ExporterType = "otlp"
	ExporterStdout ExporterType = "stdout"
	ExporterNone   ExporterType = "none"
)

// Options control observability initialization.
type Options struct {
	ServiceName string
	Environment string
	Version     string

	Exporter    ExporterType
	Endpoint    string
	Insecure    bool
	Headers     map[string]string
	SampleRatio float64

	DisableMetrics bool
}

// DefaultOptions returns sane defaults when env configuration is partial.
func DefaultOptions() Options {
	return Options{
		Exporter:    ExporterOTLP,
		SampleRatio: 1.0,
	}
}

// OptionsFromEnv derives options from LEADSCOUT_OTLP_* variables. With no
// endpoint configured the exporter is disabled.
func OptionsFromEnv() Options {
	opts := DefaultOptions()
	opts.Endpoint = os.Getenv("LEADSCOUT_OTLP_ENDPOINT")
	if opts.Endpoint == "" {
		opts.Exporter = ExporterNone
	}
	if os.Getenv("LEADSCOUT_OTLP_INSECURE") == "1" {
		opts.Insecure = true
	}
	if os.Getenv("LEADSCOUT_TRACE_STDOUT") == "1" {
		opts.Exporter = ExporterStdout
	}
	if env := os.Getenv("LEADSCOUT_ENV"); env != "" {
		opts.Environment = env
	}
	return opts
}
