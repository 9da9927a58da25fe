// Package b1500integration exercises the full client stack, from the
// high level mainframe API down through the FLEX message builder and the
// TCP transport, against an in-process instrument simulator.
package b1500integration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spauka/go-b1500/b1500"
	"github.com/spauka/go-b1500/flex"
	"github.com/spauka/go-b1500/visa"
)

func dialMainframe(t *testing.T, sim *flexSim, opts ...b1500.Option) *b1500.Mainframe {
	t.Helper()

	cfg, err := visa.NewConfig("127.0.0.1", sim.port(), visa.WithTimeout(2*time.Second))
	require.NoError(t, err)

	dev, err := visa.NewTCPDevice(cfg)
	require.NoError(t, err)

	mf, err := b1500.New(dev, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = mf.Close() })

	return mf
}

// TestCorrectionWorkflow walks a complete CMU session the way an operator
// would: discover the installed modules, configure the oscillator, load a
// correction frequency list, run open correction against a zero reference,
// compensate the cable phase and take a capacitance reading.
func TestCorrectionWorkflow(t *testing.T) {
	require := require.New(t)

	sim := startFlexSim(t)
	mf := dialMainframe(t, sim, b1500.WithErrorCheck())

	id, err := mf.Identity()
	require.NoError(err)
	require.Equal("B1500A", id.Model)

	modules, err := mf.DiscoverModules()
	require.NoError(err)
	require.Len(modules, 3)
	require.Equal(b1500.KindCMU, modules[2].Kind)

	cmu, err := mf.CMU(modules[2].Slot)
	require.NoError(err)

	require.NoError(mf.SetOutputFormat(flex.FormatASCIIHeaderCRLF))
	require.NoError(mf.EnableChannels(cmu.Channel()))
	require.NoError(cmu.SetFrequency(1e6))
	require.NoError(cmu.SetVoltageAC(0.03))
	require.NoError(cmu.SetVoltageDC(0))

	// Correction frequency list: the defaults plus one extra point.
	list := cmu.FrequencyList()
	require.NoError(list.ClearAndSetDefault())
	require.NoError(list.Add(2.5e6))

	count, err := list.Count()
	require.NoError(err)
	require.Equal(len(defaultFrequencies)+1, count)

	last, err := list.At(count - 1)
	require.NoError(err)
	require.Equal(2.5e6, last)

	// Open correction against a zero reference.
	corr := cmu.Correction()
	require.NoError(corr.SetReferenceValues(flex.CalibrationOpen, flex.DCorrModeCpG, 0, 0))

	ref, err := corr.ReferenceValues(flex.CalibrationOpen)
	require.NoError(err)
	require.Equal(flex.DCorrModeCpG, ref.Mode)

	result, err := corr.PerformAndEnable(flex.CalibrationOpen)
	require.NoError(err)
	require.Equal(flex.CorrectionSuccessful, result)
	require.Equal(b1500.EnabledState, corr.State(flex.CalibrationOpen))

	enabled, err := corr.IsEnabled(flex.CalibrationOpen)
	require.NoError(err)
	require.True(enabled)

	// Phase compensation widens the timeout for the run and puts the
	// session value back afterwards.
	before := mf.Device().Timeout()
	require.NoError(cmu.SetPhaseCompensationMode(flex.AdjustManual))

	adj, err := cmu.PhaseCompensation(flex.AdjustMeasure)
	require.NoError(err)
	require.Equal(flex.AdjustPassed, adj)
	require.Equal(before, mf.Device().Timeout())

	capacitance, conductance, err := cmu.MeasureCapacitance()
	require.NoError(err)
	require.Equal(1.234e-9, capacitance)
	require.Equal(5.678e-6, conductance)

	require.NoError(mf.DisableChannels(cmu.Channel()))

	commands := sim.commands()
	require.Contains(commands, "CORRST 3,1,1")
	require.Contains(commands, "ADJ? 3,1")
	require.Contains(commands, "CL 3")
}

// TestDeviceFaultSurfacing queues a fault on the simulator and checks that
// the error check path turns it into a DeviceError carrying the code.
func TestDeviceFaultSurfacing(t *testing.T) {
	require := require.New(t)

	sim := startFlexSim(t)
	mf := dialMainframe(t, sim, b1500.WithErrorCheck())

	sim.pushError(305, "Excess current in HPSMU.")

	err := mf.EnableChannels(flex.ChNr(1))
	require.ErrorIs(err, b1500.ErrDeviceFault)

	var devErr *b1500.DeviceError
	require.ErrorAs(err, &devErr)
	require.Equal(305, devErr.Code)

	// The queue drains back to clear.
	require.NoError(mf.CheckError())

	msg, err := mf.ErrorMessage(305)
	require.NoError(err)
	require.Equal("Excess current in HPSMU.", msg)
}

// TestResetRestoresDefaults fills the frequency list, resets the
// instrument and checks the list came back empty.
func TestResetRestoresDefaults(t *testing.T) {
	require := require.New(t)

	sim := startFlexSim(t)
	mf := dialMainframe(t, sim)

	cmu, err := mf.CMU(3)
	require.NoError(err)

	list := cmu.FrequencyList()
	require.NoError(list.ClearAndSetDefault())
	require.NoError(list.Add(2e6))

	require.NoError(mf.Reset())

	count, err := list.Count()
	require.NoError(err)
	require.Equal(0, count)
}
