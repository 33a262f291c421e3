// Package logger provides structured logging for ffversion
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger wraps zerolog with ffversion-specific helpers
type Logger struct {
	zlog zerolog.Logger
}

// Config holds logger configuration
type Config struct {
	Level      string // debug, info, warn, error
	Pretty     bool   // pretty-print for development
	Output     io.Writer
	WithCaller bool
}

// ParseLevel maps a configured level name to a zerolog level. Unknown names
// fall back to info.
func ParseLevel(name string) zerolog.Level {
	switch name {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// NewLogger creates a new structured logger
func NewLogger(cfg Config) *Logger {
	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}

	if cfg.Pretty {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
		}
	}

	zlog := zerolog.New(output).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Str("service", "ffversion").
		Logger()

	if cfg.WithCaller {
		zlog = zlog.With().Caller().Logger()
	}

	return &Logger{zlog: zlog}
}

// Nop returns a logger that discards everything. Useful in tests.
func Nop() *Logger {
	return &Logger{zlog: zerolog.Nop()}
}

// GetZerolog returns the underlying zerolog logger
func (l *Logger) GetZerolog() *zerolog.Logger {
	return &l.zlog
}

// Info logs an info message
func (l *Logger) Info(msg string) *zerolog.Event {
	return l.zlog.Info().Str("msg", msg)
}

// Debug logs a debug message
func (l *Logger) Debug(msg string) *zerolog.Event {
	return l.zlog.Debug().Str("msg", msg)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string) *zerolog.Event {
	return l.zlog.Warn().Str("msg", msg)
}

// Error logs an error message
func (l *Logger) Error(msg string) *zerolog.Event {
	return l.zlog.Error().Str("msg", msg)
}

// WithFields returns a logger with additional fields
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	ctx := l.zlog.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return &Logger{zlog: ctx.Logger()}
}

// HTTPLogger returns a logger for one HTTP route
func (l *Logger) HTTPLogger(route string) *Logger {
	return &Logger{
		zlog: l.zlog.With().
			Str("component", "http").
			Str("route", route).
			Logger(),
	}
}

// GrpcLogger returns a logger for gRPC operations
func (l *Logger) GrpcLogger(method string) *Logger {
	return &Logger{
		zlog: l.zlog.With().
			Str("component", "grpc").
			Str("method", method).
			Logger(),
	}
}

// UpstreamLogger returns a logger for product-details fetches
func (l *Logger) UpstreamLogger() *Logger {
	return &Logger{
		zlog: l.zlog.With().
			Str("component", "upstream").
			Logger(),
	}
}

// LogHTTPRequest logs a served HTTP request
func (l *Logger) LogHTTPRequest(method, path string, status int, duration time.Duration) {
	event := l.zlog.Info()
	if status >= 500 {
		event = l.zlog.Warn()
	}

	event.
		Str("component", "http").
		Str("http_method", method).
		Str("path", path).
		Int("status", status).
		Dur("duration_ms", duration).
		Msg("HTTP request completed")
}

// LogGrpcRequest logs gRPC request with structured fields
func (l *Logger) LogGrpcRequest(method string, duration time.Duration, err error) {
	event := l.zlog.Info().
		Str("component", "grpc").
		Str("method", method).
		Dur("duration_ms", duration)

	if err != nil {
		event = l.zlog.Error().
			Str("component", "grpc").
			Str("method", method).
			Dur("duration_ms", duration).
			Err(err)
	}

	event.Msg("gRPC request completed")
}

// LogUpstreamFetch logs one fetch of the version document
func (l *Logger) LogUpstreamFetch(url string, status int, duration time.Duration, err error) {
	event := l.zlog.Debug().
		Str("component", "upstream").
		Str("url", url).
		Int("status", status).
		Dur("duration_ms", duration)

	if err != nil {
		event = l.zlog.Error().
			Str("component", "upstream").
			Str("url", url).
			Int("status", status).
			Dur("duration_ms", duration).
			Err(err)
	}

	event.Msg("Upstream fetch completed")
}

// LogServerStart logs server startup
func (l *Logger) LogServerStart(httpAddr, grpcAddr, upstreamURL string) {
	l.zlog.Info().
		Str("event", "server_start").
		Str("http_addr", httpAddr).
		Str("grpc_addr", grpcAddr).
		Str("upstream", upstreamURL).
		Msg("ffversion server starting")
}

// LogServerReady logs when a listener is ready
func (l *Logger) LogServerReady(kind, addr string) {
	l.zlog.Info().
		Str("event", "server_ready").
		Str("listener", kind).
		Str("addr", addr).
		Msg("ffversion server ready to accept connections")
}

// LogServerShutdown logs server shutdown
func (l *Logger) LogServerShutdown() {
	l.zlog.Info().
		Str("event", "server_shutdown").
		Msg("ffversion server shutting down")
}

// Global logger instance
var globalLogger *Logger

// InitGlobalLogger initializes the global logger
func InitGlobalLogger(cfg Config) {
	globalLogger = NewLogger(cfg)
	log.Logger = *globalLogger.GetZerolog()
}

// GetGlobalLogger returns the global logger instance
func GetGlobalLogger() *Logger {
	if globalLogger == nil {
		InitGlobalLogger(Config{
			Level:  "info",
			Pretty: true,
		})
	}
	return globalLogger
}
