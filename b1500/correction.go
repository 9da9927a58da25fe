package b1500

import (
	"fmt"
	"sync"

	"github.com/gotmc/query"
	"go.uber.org/multierr"

	"github.com/spauka/go-b1500/flex"
	"github.com/spauka/go-b1500/fmt1"
	"github.com/spauka/go-b1500/logger"
	"github.com/spauka/go-b1500/visa"
)

// CorrectionState represents the lifecycle stage of one correction data
// set.
type CorrectionState uint32

// IsUndefined returns if no reference standard values are set.
func (s CorrectionState) IsUndefined() bool { return s == UndefinedState }

// IsReferenceSet returns if reference values are set but no correction
// data has been measured against them.
func (s CorrectionState) IsReferenceSet() bool { return s == ReferenceSetState }

// IsMeasured returns if correction data exists but is not applied.
func (s CorrectionState) IsMeasured() bool { return s == MeasuredState }

// IsEnabled returns if correction data is applied to measurements.
func (s CorrectionState) IsEnabled() bool { return s == EnabledState }

// String returns string representation of the current state.
func (s CorrectionState) String() string {
	switch s {
	case UndefinedState:
		return "undefined"
	case ReferenceSetState:
		return "reference-set"
	case MeasuredState:
		return "measured"
	case EnabledState:
		return "enabled"
	default:
		return "unknown"
	}
}

// Correction data lifecycle stages for one correction type.
const (
	// UndefinedState indicates that no reference standard values are set.
	UndefinedState CorrectionState = iota
	// ReferenceSetState indicates that reference standard values are set but
	// no correction data has been measured against them.
	ReferenceSetState
	// MeasuredState indicates that correction data exists but is not applied
	// to measurements.
	MeasuredState
	// EnabledState indicates that correction data is applied to measurements.
	EnabledState
)

// Correction drives the open/short/load correction procedures of one CMU
// and tracks the lifecycle of each correction data set.
//
// A transition commits only after the instrument acknowledged the
// exchange; an operation that is illegal in the current stage is rejected
// with ErrInvalidTransition before anything is sent.
type Correction struct {
	cmu    *CMU
	logger logger.Logger

	mu     sync.Mutex
	states map[flex.CalibrationType]CorrectionState
}

func newCorrection(cmu *CMU) *Correction {
	return &Correction{
		cmu:    cmu,
		logger: cmu.mf.logger,
		states: make(map[flex.CalibrationType]CorrectionState),
	}
}

// State returns the lifecycle stage of the given correction type.
func (c *Correction) State(corr flex.CalibrationType) CorrectionState {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.states[corr]
}

// SetReferenceValues sets the reference standard values used by the given
// correction type and moves its lifecycle to ReferenceSetState, dropping
// any previously measured correction data from the tracked state.
func (c *Correction) SetReferenceValues(corr flex.CalibrationType, mode flex.DCorrMode, primary, secondary float64) error {
	msg, err := flex.NewMessageBuilder().DCORR(c.cmu.ch, corr, mode, primary, secondary).Message()
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.cmu.mf.Write(msg); err != nil {
		return err
	}
	c.setState(corr, ReferenceSetState)

	return nil
}

// ReferenceValues reads back the reference standard values of the given
// correction type.
func (c *Correction) ReferenceValues(corr flex.CalibrationType) (fmt1.DCorr, error) {
	msg, err := flex.NewMessageBuilder().DCORRQuery(c.cmu.ch, corr).Message()
	if err != nil {
		return fmt1.DCorr{}, err
	}

	resp, err := c.cmu.mf.Query(msg)
	if err != nil {
		return fmt1.DCorr{}, err
	}

	return fmt1.ParseDCorr(resp)
}

// Perform measures the correction data of the given correction type over
// the configured frequency list and returns the instrument's verdict. It
// requires reference values; on CorrectionSuccessful the lifecycle moves
// to MeasuredState. The response timeout is widened for the run and
// restored before returning.
func (c *Correction) Perform(corr flex.CalibrationType) (result flex.CorrectionResult, err error) {
	msg, err := flex.NewMessageBuilder().CORRQuery(c.cmu.ch, corr).Message()
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.states[corr].IsUndefined() {
		return 0, ErrInvalidTransition
	}

	scope, err := visa.NewTimeoutScope(c.cmu.mf.dev, procedureTimeout)
	if err != nil {
		return 0, err
	}
	defer func() { err = multierr.Append(err, scope.Restore()) }()

	code, err := query.Int(c.cmu.mf, msg)
	if err != nil {
		return 0, err
	}
	result = flex.CorrectionResult(code)
	if !result.IsValid() {
		return 0, fmt.Errorf("%w: unexpected correction result %d", fmt1.ErrMalformedResponse, code)
	}
	if result == flex.CorrectionSuccessful {
		c.setState(corr, MeasuredState)
	}

	return result, nil
}

// PerformAndEnable measures the correction data of the given correction
// type and, when the instrument reports success, applies it immediately.
func (c *Correction) PerformAndEnable(corr flex.CalibrationType) (flex.CorrectionResult, error) {
	result, err := c.Perform(corr)
	if err != nil {
		return result, err
	}
	if result == flex.CorrectionSuccessful {
		if err := c.Enable(corr); err != nil {
			return result, err
		}
	}

	return result, nil
}

// Enable applies the measured correction data of the given correction type
// to subsequent measurements.
//
// This transition is only allowed from MeasuredState. If the correction is
// already enabled, the function is a no-op.
func (c *Correction) Enable(corr flex.CalibrationType) error {
	msg, err := flex.NewMessageBuilder().CORRST(c.cmu.ch, corr, flex.CorrectionOn).Message()
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	state := c.states[corr]
	if state.IsEnabled() {
		return nil // Already enabled, no-op
	}
	if !state.IsMeasured() {
		return ErrInvalidTransition
	}

	if err := c.cmu.mf.Write(msg); err != nil {
		return err
	}
	c.setState(corr, EnabledState)

	return nil
}

// Disable stops applying the correction data of the given correction type,
// moving it back to MeasuredState. If the correction is not enabled, the
// function is a no-op.
func (c *Correction) Disable(corr flex.CalibrationType) error {
	msg, err := flex.NewMessageBuilder().CORRST(c.cmu.ch, corr, flex.CorrectionOff).Message()
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.states[corr].IsEnabled() {
		return nil // Nothing applied, no-op
	}

	if err := c.cmu.mf.Write(msg); err != nil {
		return err
	}
	c.setState(corr, MeasuredState)

	return nil
}

// IsEnabled asks the instrument whether the given correction type is
// applied. It does not touch the tracked lifecycle.
func (c *Correction) IsEnabled(corr flex.CalibrationType) (bool, error) {
	msg, err := flex.NewMessageBuilder().CORRSTQuery(c.cmu.ch, corr).Message()
	if err != nil {
		return false, err
	}

	return query.Bool(c.cmu.mf, msg)
}

// setState records a transition. Callers must hold c.mu.
func (c *Correction) setState(corr flex.CalibrationType, state CorrectionState) {
	prev := c.states[corr]
	c.states[corr] = state
	c.logger.Debug("correction state changed",
		"channel", c.cmu.ch, "correction", corr, "from", prev, "to", state)
}
