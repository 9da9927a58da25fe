package visa

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"
)

// TCPDevice is a Device over the instrument's raw TCP socket interface.
//
// One command/response exchange is in flight at a time; Query holds the
// connection for both directions of the exchange.
type TCPDevice struct {
	cfg    *Config
	conn   net.Conn
	reader *bufio.Reader

	mu      sync.Mutex
	timeout time.Duration
	closed  bool
}

// NewTCPDevice connects to the instrument described by cfg.
func NewTCPDevice(cfg *Config) (*TCPDevice, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}

	addr := net.JoinHostPort(cfg.host, strconv.Itoa(cfg.port))
	conn, err := net.DialTimeout("tcp", addr, cfg.dialTimeout)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	cfg.logger.Debug("connected to device", "address", addr)

	return &TCPDevice{
		cfg:     cfg,
		conn:    conn,
		reader:  bufio.NewReader(conn),
		timeout: cfg.timeout,
	}, nil
}

// Write sends a command message to the device.
func (d *TCPDevice) Write(cmd string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.write(cmd)
}

// Query sends a command message and returns the device's response with the
// line terminator removed.
func (d *TCPDevice) Query(cmd string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.write(cmd); err != nil {
		return "", err
	}

	return d.read()
}

// Timeout returns the current response timeout.
func (d *TCPDevice) Timeout() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.timeout
}

// SetTimeout sets the response timeout for subsequent operations.
func (d *TCPDevice) SetTimeout(timeout time.Duration) error {
	if timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", timeout)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrClosed
	}
	d.timeout = timeout

	return nil
}

// Close closes the connection to the device.
func (d *TCPDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true
	d.cfg.logger.Debug("closing device connection", "address", d.conn.RemoteAddr())

	return d.conn.Close()
}

func (d *TCPDevice) write(cmd string) error {
	if d.closed {
		return ErrClosed
	}

	msg := strings.TrimSpace(cmd)
	if err := d.conn.SetWriteDeadline(time.Now().Add(d.timeout)); err != nil {
		return err
	}
	if _, err := d.conn.Write([]byte(msg + d.cfg.terminator)); err != nil {
		return wrapTimeout(err)
	}
	d.cfg.logger.Debug("sent command", "command", msg)

	return nil
}

func (d *TCPDevice) read() (string, error) {
	if err := d.conn.SetReadDeadline(time.Now().Add(d.timeout)); err != nil {
		return "", err
	}

	line, err := d.reader.ReadString('\n')
	if err != nil {
		return "", wrapTimeout(err)
	}

	resp := strings.TrimRight(line, "\r\n")
	d.cfg.logger.Debug("received response", "response", resp)

	return resp, nil
}

// wrapTimeout marks network timeout errors with ErrTimeout so that callers
// can match them with errors.Is.
func wrapTimeout(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}

	return err
}
