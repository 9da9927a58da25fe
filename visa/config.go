package visa

import (
	"errors"
	"strings"
	"time"

	"github.com/spauka/go-b1500/logger"
)

// DefaultPort is the TCP port of the instrument's raw socket interface.
const DefaultPort = 5025

// Config holds the connection parameters shared by the transport
// implementations. Create it with NewConfig and adjust it with the
// With... options; a Config is immutable once a device is created from it.
type Config struct {
	// host is the host name or IP address of the instrument.
	host string
	// port is the TCP port of the instrument's socket interface.
	port int
	// timeout is the initial response timeout. Defaults to 5 seconds.
	timeout time.Duration
	// dialTimeout bounds connection establishment. Defaults to 3 seconds.
	dialTimeout time.Duration
	// terminator is appended to every outgoing message. Defaults to "\n".
	terminator string
	// logger records transport level events.
	logger logger.Logger
}

// NewConfig creates a connection configuration for the given host and port
// with the options applied over the defaults.
func NewConfig(host string, port int, opts ...Option) (*Config, error) {
	cfg := &Config{
		timeout:     5 * time.Second,
		dialTimeout: 3 * time.Second,
		terminator:  "\n",
		logger:      logger.GetLogger(),
	}

	if err := withHost(host).apply(cfg); err != nil {
		return cfg, err
	}
	if err := withPort(port).apply(cfg); err != nil {
		return cfg, err
	}
	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return cfg, err
		}
	}

	return cfg, nil
}

// Option is a configuration option for a device connection.
type Option interface {
	apply(cfg *Config) error
}

type optionFunc func(cfg *Config) error

func (f optionFunc) apply(cfg *Config) error { return f(cfg) }

func withHost(host string) Option {
	return optionFunc(func(cfg *Config) error {
		if cfg == nil {
			return ErrConfigNil
		}
		if host == "" {
			return errors.New("host is empty")
		}
		cfg.host = host
		return nil
	})
}

func withPort(port int) Option {
	return optionFunc(func(cfg *Config) error {
		if cfg == nil {
			return ErrConfigNil
		}
		if port < 1 || port > 65535 {
			return errors.New("port is out of range [1, 65535]")
		}
		cfg.port = port
		return nil
	})
}

// WithTimeout sets the initial response timeout. The default value is
// 5 seconds.
func WithTimeout(timeout time.Duration) Option {
	return optionFunc(func(cfg *Config) error {
		if cfg == nil {
			return ErrConfigNil
		}
		if timeout <= 0 {
			return errors.New("timeout must be positive")
		}
		cfg.timeout = timeout
		return nil
	})
}

// WithDialTimeout sets the timeout for establishing the connection. The
// default value is 3 seconds.
func WithDialTimeout(timeout time.Duration) Option {
	return optionFunc(func(cfg *Config) error {
		if cfg == nil {
			return ErrConfigNil
		}
		if timeout <= 0 {
			return errors.New("dial timeout must be positive")
		}
		cfg.dialTimeout = timeout
		return nil
	})
}

// WithTerminator sets the message terminator appended to every outgoing
// command. It must consist of carriage return and line feed characters.
// The default value is "\n".
func WithTerminator(terminator string) Option {
	return optionFunc(func(cfg *Config) error {
		if cfg == nil {
			return ErrConfigNil
		}
		if terminator == "" || strings.Trim(terminator, "\r\n") != "" {
			return errors.New("terminator must be CR and LF characters")
		}
		cfg.terminator = terminator
		return nil
	})
}

// WithLogger sets the logger used for transport level events. The default
// is the package level logger.
func WithLogger(l logger.Logger) Option {
	return optionFunc(func(cfg *Config) error {
		if cfg == nil {
			return ErrConfigNil
		}
		if l == nil {
			return errors.New("logger is nil")
		}
		cfg.logger = l
		return nil
	})
}
