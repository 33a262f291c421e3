// Package config loads ffversion settings from flags and the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/nainya/ffversion/pkg/firefox"
)

// EnvPrefix is prepended to every environment variable, e.g. FFVERSION_HTTP_ADDR.
const EnvPrefix = "FFVERSION"

// Keys
const (
	KeyHTTPAddr        = "http-addr"
	KeyGRPCAddr        = "grpc-addr"
	KeyMetricsPort     = "metrics-port"
	KeyUpstreamURL     = "upstream-url"
	KeyUpstreamTimeout = "upstream-timeout"
	KeyLogLevel        = "log-level"
	KeyLogPretty       = "log-pretty"
	KeyShutdownTimeout = "shutdown-timeout"
)

// Config holds the service configuration
type Config struct {
	HTTPAddr        string        // public HTTP listener
	GRPCAddr        string        // Releases gRPC listener; empty disables it
	MetricsPort     int           // observability listener; 0 disables it
	UpstreamURL     string        // firefox_versions.json location
	UpstreamTimeout time.Duration // 0 leaves the fetch bounded only by the request
	LogLevel        string
	LogPretty       bool
	ShutdownTimeout time.Duration
}

// RegisterFlags defines every setting on fs with its default value
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String(KeyHTTPAddr, ":8080", "address for the public HTTP server")
	fs.String(KeyGRPCAddr, ":50051", "address for the gRPC Releases service (empty disables)")
	fs.Int(KeyMetricsPort, 9090, "port for metrics, health and pprof (0 disables)")
	fs.String(KeyUpstreamURL, firefox.DefaultVersionsURL, "URL of the Firefox version document")
	fs.Duration(KeyUpstreamTimeout, 10*time.Second, "timeout for one upstream fetch (0 for none)")
	fs.String(KeyLogLevel, "info", "log level: debug, info, warn, error")
	fs.Bool(KeyLogPretty, false, "human-readable console logs")
	fs.Duration(KeyShutdownTimeout, 15*time.Second, "grace period for in-flight requests on shutdown")
}

// NewViper returns a viper instance bound to fs and the FFVERSION_ environment
func NewViper(fs *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("binding flags: %w", err)
	}
	return v, nil
}

// Load reads and validates the configuration from v
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		HTTPAddr:        v.GetString(KeyHTTPAddr),
		GRPCAddr:        v.GetString(KeyGRPCAddr),
		MetricsPort:     v.GetInt(KeyMetricsPort),
		UpstreamURL:     v.GetString(KeyUpstreamURL),
		UpstreamTimeout: v.GetDuration(KeyUpstreamTimeout),
		LogLevel:        v.GetString(KeyLogLevel),
		LogPretty:       v.GetBool(KeyLogPretty),
		ShutdownTimeout: v.GetDuration(KeyShutdownTimeout),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting
func (c *Config) Validate() error {
	switch {
	case c.HTTPAddr == "":
		return errors.New("config: http-addr is required")
	case c.UpstreamURL == "":
		return errors.New("config: upstream-url is required")
	case c.MetricsPort < 0 || c.MetricsPort > 65535:
		return fmt.Errorf("config: metrics-port %d out of range", c.MetricsPort)
	case c.UpstreamTimeout < 0:
		return fmt.Errorf("config: upstream-timeout must not be negative, got %s", c.UpstreamTimeout)
	case c.ShutdownTimeout < 0:
		return fmt.Errorf("config: shutdown-timeout must not be negative, got %s", c.ShutdownTimeout)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log-level %q", c.LogLevel)
	}
	return nil
}
