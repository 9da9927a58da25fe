package visa

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.bug.st/serial"

	"github.com/spauka/go-b1500/logger"
)

// SerialDevice is a Device over a local serial port with 8N1 framing, for
// instruments reached through a GPIB to serial adapter.
type SerialDevice struct {
	port       serial.Port
	path       string
	terminator string
	logger     logger.Logger

	mu      sync.Mutex
	timeout time.Duration
	closed  bool
}

// NewSerialDevice opens the serial port at path with the given baud rate.
// The host and port related options have no effect on a serial device.
func NewSerialDevice(path string, baudRate int, opts ...Option) (*SerialDevice, error) {
	if path == "" {
		return nil, errors.New("serial port path is empty")
	}
	if baudRate <= 0 {
		return nil, fmt.Errorf("baud rate must be positive, got %d", baudRate)
	}

	cfg := &Config{
		timeout:    5 * time.Second,
		terminator: "\n",
		logger:     logger.GetLogger(),
	}
	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}

	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(path, mode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	cfg.logger.Debug("opened serial port", "path", path, "baudRate", baudRate)

	return &SerialDevice{
		port:       port,
		path:       path,
		terminator: cfg.terminator,
		logger:     cfg.logger,
		timeout:    cfg.timeout,
	}, nil
}

// Write sends a command message to the device.
func (d *SerialDevice) Write(cmd string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.write(cmd)
}

// Query sends a command message and returns the device's response with the
// line terminator removed.
func (d *SerialDevice) Query(cmd string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.write(cmd); err != nil {
		return "", err
	}

	return d.read()
}

// Timeout returns the current response timeout.
func (d *SerialDevice) Timeout() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.timeout
}

// SetTimeout sets the response timeout for subsequent operations.
func (d *SerialDevice) SetTimeout(timeout time.Duration) error {
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

// Close closes the serial port.
func (d *SerialDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true
	d.logger.Debug("closing serial port", "path", d.path)

	return d.port.Close()
}

func (d *SerialDevice) write(cmd string) error {
	if d.closed {
		return ErrClosed
	}

	msg := strings.TrimSpace(cmd)
	if _, err := d.port.Write([]byte(msg + d.terminator)); err != nil {
		return err
	}
	d.logger.Debug("sent command", "command", msg)

	return nil
}

// read collects bytes until a line feed arrives. The read timeout bounds
// each gap in the byte stream, not the whole response.
func (d *SerialDevice) read() (string, error) {
	if err := d.port.SetReadTimeout(d.timeout); err != nil {
		return "", err
	}

	var line []byte
	chunk := make([]byte, 256)
	for {
		n, err := d.port.Read(chunk)
		if err != nil {
			return "", err
		}
		if n == 0 {
			return "", fmt.Errorf("%w: no response within %v", ErrTimeout, d.timeout)
		}

		line = append(line, chunk[:n]...)
		if i := bytes.IndexByte(line, '\n'); i >= 0 {
			resp := strings.TrimRight(string(line[:i]), "\r")
			d.logger.Debug("received response", "response", resp)
			return resp, nil
		}
	}
}
