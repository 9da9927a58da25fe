package b1500

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spauka/go-b1500/visa"
)

// simDevice scripts an instrument for unit tests. It implements
// visa.Device, answers from a canned response table, and records the
// traffic together with the response timeout in effect at each exchange.
type simDevice struct {
	mu        sync.Mutex
	responses map[string]string
	errs      map[string]error
	log       []string
	timeouts  []time.Duration
	timeout   time.Duration
	closed    bool
}

var _ visa.Device = (*simDevice)(nil)

func newSimDevice() *simDevice {
	return &simDevice{
		responses: map[string]string{
			"ERRX?": `+0,"No Error."`,
		},
		errs:    make(map[string]error),
		timeout: 5 * time.Second,
	}
}

// respond scripts the response for a command.
func (d *simDevice) respond(cmd, resp string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.responses[cmd] = resp
}

// failWith makes the next exchanges of a command fail at the transport.
func (d *simDevice) failWith(cmd string, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.errs[cmd] = err
}

func (d *simDevice) Write(cmd string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.errs[cmd]; err != nil {
		return err
	}
	d.log = append(d.log, cmd)
	d.timeouts = append(d.timeouts, d.timeout)

	return nil
}

func (d *simDevice) Query(cmd string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.errs[cmd]; err != nil {
		return "", err
	}
	d.log = append(d.log, cmd)
	d.timeouts = append(d.timeouts, d.timeout)

	resp, ok := d.responses[cmd]
	if !ok {
		return "", fmt.Errorf("%w: no scripted response for %q", visa.ErrTimeout, cmd)
	}

	return resp, nil
}

func (d *simDevice) Timeout() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.timeout
}

func (d *simDevice) SetTimeout(timeout time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.timeout = timeout

	return nil
}

func (d *simDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true

	return nil
}

// commands returns the commands exchanged so far, in order.
func (d *simDevice) commands() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	return append([]string(nil), d.log...)
}

// timeoutAt returns the response timeout that was in effect when the
// given command was exchanged.
func (d *simDevice) timeoutAt(cmd string) (time.Duration, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i, logged := range d.log {
		if logged == cmd {
			return d.timeouts[i], true
		}
	}

	return 0, false
}

func newTestMainframe(t *testing.T, opts ...Option) (*Mainframe, *simDevice) {
	t.Helper()

	dev := newSimDevice()
	mf, err := New(dev, opts...)
	require.NoError(t, err)

	return mf, dev
}

func newTestCMU(t *testing.T, opts ...Option) (*CMU, *simDevice) {
	t.Helper()

	mf, dev := newTestMainframe(t, opts...)
	cmu, err := mf.CMU(3)
	require.NoError(t, err)

	return cmu, dev
}
