package b1500

import (
	"fmt"
	"sync"

	"github.com/gotmc/query"
	"go.uber.org/multierr"

	"github.com/spauka/go-b1500/flex"
	"github.com/spauka/go-b1500/fmt1"
	"github.com/spauka/go-b1500/visa"
)

// CMU is the multi frequency capacitance measurement unit in one mainframe
// slot.
//
// Submodules follow the instrument's structure: Correction drives the
// open/short/load correction procedures and FrequencyList manages the
// frequency list those procedures sweep.
type CMU struct {
	mf   *Mainframe
	slot int
	ch   flex.ChNr

	correction *Correction
	freqList   *FrequencyList

	mu         sync.Mutex
	adjustMode flex.AdjustMode
	adjustSet  bool
}

var _ Module = (*CMU)(nil)

func newCMU(mf *Mainframe, slot int, ch flex.ChNr) *CMU {
	cmu := &CMU{mf: mf, slot: slot, ch: ch}
	cmu.correction = newCorrection(cmu)
	cmu.freqList = newFrequencyList(cmu)

	return cmu
}

// Kind returns KindCMU.
func (c *CMU) Kind() ModuleKind {
	return KindCMU
}

// Slot returns the mainframe slot the module occupies.
func (c *CMU) Slot() int {
	return c.slot
}

// Channel returns the module's measurement channel.
func (c *CMU) Channel() flex.ChNr {
	return c.ch
}

// Correction returns the open/short/load correction submodule.
func (c *CMU) Correction() *Correction {
	return c.correction
}

// FrequencyList returns the correction frequency list submodule.
func (c *CMU) FrequencyList() *FrequencyList {
	return c.freqList
}

// SetVoltageDC sets the DC bias of the measurement signal in volts.
func (c *CMU) SetVoltageDC(voltage float64) error {
	msg, err := flex.NewMessageBuilder().DCV(c.ch, voltage).Message()
	if err != nil {
		return err
	}

	return c.mf.Write(msg)
}

// SetVoltageAC sets the oscillator level of the measurement signal in
// volts.
func (c *CMU) SetVoltageAC(voltage float64) error {
	msg, err := flex.NewMessageBuilder().ACV(c.ch, voltage).Message()
	if err != nil {
		return err
	}

	return c.mf.Write(msg)
}

// SetFrequency sets the measurement signal frequency in hertz.
func (c *CMU) SetFrequency(freq float64) error {
	msg, err := flex.NewMessageBuilder().FC(c.ch, freq).Message()
	if err != nil {
		return err
	}

	return c.mf.Write(msg)
}

// MeasureCapacitance triggers one spot measurement and returns the
// capacitance in farads and the conductance in siemens.
func (c *CMU) MeasureCapacitance() (capacitance, conductance float64, err error) {
	msg, err := flex.NewMessageBuilder().TC(c.ch, flex.RangingAuto).Message()
	if err != nil {
		return 0, 0, err
	}

	resp, err := c.mf.Query(msg)
	if err != nil {
		return 0, 0, err
	}

	cmd, _ := flex.Lookup("TC")
	result, err := fmt1.Parse(resp, cmd.Response...)
	if err != nil {
		return 0, 0, err
	}
	values := result.Values()

	return values[0], values[1], nil
}

// SetPhaseCompensationMode selects how the unit maintains its phase
// compensation data. A manual PhaseCompensation run requires manual or
// load adaptive mode.
func (c *CMU) SetPhaseCompensationMode(mode flex.AdjustMode) error {
	msg, err := flex.NewMessageBuilder().ADJ(c.ch, mode).Message()
	if err != nil {
		return err
	}
	if err := c.mf.Write(msg); err != nil {
		return err
	}

	c.mu.Lock()
	c.adjustMode = mode
	c.adjustSet = true
	c.mu.Unlock()

	return nil
}

// PhaseCompensation runs the phase compensation procedure and returns the
// instrument's verdict. The compensation mode must have been set to manual
// or load adaptive first; the response timeout is widened for the run and
// restored before returning.
func (c *CMU) PhaseCompensation(mode flex.AdjustRequestMode) (result flex.AdjustResult, err error) {
	c.mu.Lock()
	allowed := c.adjustSet && c.adjustMode != flex.AdjustAuto
	c.mu.Unlock()
	if !allowed {
		return 0, ErrCompensationMode
	}

	msg, err := flex.NewMessageBuilder().ADJQuery(c.ch, mode).Message()
	if err != nil {
		return 0, err
	}

	scope, err := visa.NewTimeoutScope(c.mf.dev, procedureTimeout)
	if err != nil {
		return 0, err
	}
	defer func() { err = multierr.Append(err, scope.Restore()) }()

	code, err := query.Int(c.mf, msg)
	if err != nil {
		return 0, err
	}
	result = flex.AdjustResult(code)
	if !result.IsValid() {
		return 0, fmt.Errorf("%w: unexpected phase compensation result %d", fmt1.ErrMalformedResponse, code)
	}

	return result, nil
}

// Abort stops the running operation on the mainframe.
func (c *CMU) Abort() error {
	return c.mf.Abort()
}
