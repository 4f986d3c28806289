package osconnect

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	defaultPort    = 443
	defaultTimeout = 30 * time.Second
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	port        int
	useSSL      bool
	verifyCerts bool
	caCerts     string
	timeout     time.Duration
	readiness   time.Duration

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

func defaultConfig() *clientConfig {
	return &clientConfig{
		port:        defaultPort,
		useSSL:      true,
		verifyCerts: true,
		timeout:     defaultTimeout,
	}
}

// WithPort sets the cluster port. Default: 443.
func WithPort(port int) Option {
	return optionFunc(func(c *clientConfig) {
		c.port = port
	})
}

// WithSSL toggles HTTPS. Default: true.
func WithSSL(enabled bool) Option {
	return optionFunc(func(c *clientConfig) {
		c.useSSL = enabled
	})
}

// WithVerifyCerts toggles server certificate verification. Default: true.
func WithVerifyCerts(verify bool) Option {
	return optionFunc(func(c *clientConfig) {
		c.verifyCerts = verify
	})
}

// WithCACerts verifies the server against the PEM bundle at path
// instead of the system roots.
func WithCACerts(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.caCerts = path
	})
}

// WithTimeout sets the per-call timeout applied when the caller's context
// has no deadline. Default: 30s.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.timeout = d
	})
}

// WithReadinessCheck makes New wait up to d for the cluster to answer a ping.
// Disabled by default: New does not contact the cluster.
func WithReadinessCheck(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.readiness = d
	})
}

// WithLogger enables structured logging for client operations.
// Pass nil to disable (default).
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers client metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
