package b1500integration

import (
	"bufio"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// defaultFrequencies stands in for the instrument's default correction
// frequency list, installed by CLCORR mode 2.
var defaultFrequencies = []float64{1e3, 1e4, 1e5, 1e6, 5e6}

// flexSim is a minimal FLEX instrument behind a loopback TCP listener. It
// keeps just enough state to serve the workflows under test: the error
// queue, the channel switches, the CMU frequency list, reference values
// and correction data.
type flexSim struct {
	ln net.Listener

	mu       sync.Mutex
	log      []string
	errQueue []string
	enabled  map[string]bool
	freqs    []float64
	refs     map[string]string
	measured map[string]bool
	applied  map[string]bool
	adjMode  string
}

func startFlexSim(t *testing.T) *flexSim {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	sim := &flexSim{ln: ln}
	sim.reset()
	go sim.serve()

	return sim
}

func (s *flexSim) port() int {
	return s.ln.Addr().(*net.TCPAddr).Port
}

// pushError queues a fault for the next error queue read.
func (s *flexSim) pushError(code int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errQueue = append(s.errQueue, fmt.Sprintf("+%d,%q", code, message))
}

// commands returns every command received so far, in order.
func (s *flexSim) commands() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string(nil), s.log...)
}

// reset restores the power-on state. Callers must hold s.mu unless the
// simulator is not serving yet.
func (s *flexSim) reset() {
	s.errQueue = nil
	s.enabled = make(map[string]bool)
	s.freqs = nil
	s.refs = make(map[string]string)
	s.measured = make(map[string]bool)
	s.applied = make(map[string]bool)
	s.adjMode = "0"
}

func (s *flexSim) serve() {
	conn, err := s.ln.Accept()
	if err != nil {
		return
	}
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		msg := strings.TrimRight(scanner.Text(), "\r")
		for _, cmd := range strings.Split(msg, ";") {
			if resp, ok := s.handle(cmd); ok {
				fmt.Fprintf(conn, "%s\r\n", resp)
			}
		}
	}
}

// handle processes one command and returns its response, if it has one.
func (s *flexSim) handle(cmd string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.log = append(s.log, cmd)

	mnemonic, rest, _ := strings.Cut(cmd, " ")
	args := strings.Split(rest, ",")

	switch mnemonic {
	case "*IDN?":
		return "Agilent Technologies,B1500A,0,A.06.01", true
	case "*RST":
		s.reset()
	case "*CAL?":
		return "0", true
	case "AB":
	case "ERRX?":
		if len(s.errQueue) > 0 {
			resp := s.errQueue[0]
			s.errQueue = s.errQueue[1:]
			return resp, true
		}
		return `+0,"No Error."`, true
	case "EMG?":
		if args[0] == "305" {
			return `"Excess current in HPSMU."`, true
		}
		return `"Undefined GPIB command."`, true
	case "UNT?":
		return "B1517A,0;B1517A,0;B1520A,0;0,0;0,0;0,0;0,0;0,0;0,0;0,0", true
	case "FMT":
	case "CN":
		if rest == "" {
			s.enabled["all"] = true
			break
		}
		for _, ch := range args {
			s.enabled[ch] = true
		}
	case "CL":
		if rest == "" {
			s.enabled = make(map[string]bool)
			break
		}
		for _, ch := range args {
			delete(s.enabled, ch)
		}
	case "DCV", "ACV", "FC":
	case "ADJ":
		s.adjMode = args[1]
	case "ADJ?":
		return "0", true
	case "TC":
		return "NCC+001.234000E-09NCY+005.678000E-06", true
	case "DCORR":
		s.refs[args[1]] = strings.Join(args[2:], ",")
	case "DCORR?":
		if ref, ok := s.refs[args[1]]; ok {
			return ref, true
		}
		return "100,0.000000E+00,0.000000E+00", true
	case "CORR?":
		s.measured[args[1]] = true
		return "0", true
	case "CORRST":
		s.applied[args[1]] = args[2] == "1"
	case "CORRST?":
		if s.applied[args[1]] {
			return "1", true
		}
		return "0", true
	case "CLCORR":
		if args[1] == "2" {
			s.freqs = append([]float64(nil), defaultFrequencies...)
		} else {
			s.freqs = nil
		}
	case "CORRL":
		if f, err := strconv.ParseFloat(args[1], 64); err == nil {
			s.freqs = append(s.freqs, f)
		}
	case "CORRL?":
		if len(args) == 1 {
			return strconv.Itoa(len(s.freqs)), true
		}
		i, err := strconv.Atoi(args[1])
		if err != nil || i < 0 || i >= len(s.freqs) {
			s.errQueue = append(s.errQueue, `+120,"Incorrect parameter value."`)
			return "0.000000E+00", true
		}
		return fmt.Sprintf("%.6E", s.freqs[i]), true
	default:
		s.errQueue = append(s.errQueue, `+100,"Undefined GPIB command."`)
	}

	return "", false
}
