package b1500

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gotmc/query"
	"github.com/puzpuzpuz/xsync/v3"
	"go.uber.org/multierr"

	"github.com/spauka/go-b1500/flex"
	"github.com/spauka/go-b1500/fmt1"
	"github.com/spauka/go-b1500/logger"
	"github.com/spauka/go-b1500/visa"
)

// procedureTimeout bounds self calibration, correction and phase
// compensation runs, which the manual puts at around 30 seconds each.
const procedureTimeout = time.Minute

// Mainframe drives a B1500 semiconductor device analyzer over a Device.
//
// It owns the command/response exchange, the instrument's error queue and
// a registry of the plug-in modules addressed so far. A Mainframe
// satisfies query.Querier, so the gotmc/query helpers work on it directly.
type Mainframe struct {
	dev        visa.Device
	logger     logger.Logger
	errorCheck bool

	modules *xsync.MapOf[int, Module]
}

var _ query.Querier = (*Mainframe)(nil)

// Option configures a Mainframe.
type Option func(*Mainframe)

// WithLogger sets the logger used for command tracing. The default is the
// package level logger.
func WithLogger(l logger.Logger) Option {
	return func(mf *Mainframe) { mf.logger = l }
}

// WithErrorCheck makes every exchange read back the error queue and turn a
// reported fault into a *DeviceError.
func WithErrorCheck() Option {
	return func(mf *Mainframe) { mf.errorCheck = true }
}

// New creates a Mainframe on the given device.
func New(dev visa.Device, opts ...Option) (*Mainframe, error) {
	if dev == nil {
		return nil, errors.New("device is nil")
	}

	mf := &Mainframe{
		dev:     dev,
		logger:  logger.GetLogger(),
		modules: xsync.NewMapOf[int, Module](),
	}
	for _, opt := range opts {
		opt(mf)
	}

	return mf, nil
}

// Device returns the underlying transport.
func (mf *Mainframe) Device() visa.Device {
	return mf.dev
}

// Write sends a command message to the instrument.
func (mf *Mainframe) Write(cmd string) error {
	mf.logger.Debug("write", "command", cmd)
	if err := mf.dev.Write(cmd); err != nil {
		return err
	}
	if mf.errorCheck {
		return mf.CheckError()
	}

	return nil
}

// Query sends a command message and returns the instrument's response.
func (mf *Mainframe) Query(cmd string) (string, error) {
	mf.logger.Debug("query", "command", cmd)
	resp, err := mf.dev.Query(cmd)
	if err != nil {
		return "", err
	}
	mf.logger.Debug("query response", "command", cmd, "response", resp)

	if mf.errorCheck {
		if err := mf.CheckError(); err != nil {
			return "", err
		}
	}

	return resp, nil
}

// Identity reads the instrument identification.
func (mf *Mainframe) Identity() (fmt1.Identity, error) {
	msg, err := flex.NewMessageBuilder().IDNQuery().Message()
	if err != nil {
		return fmt1.Identity{}, err
	}

	resp, err := mf.Query(msg)
	if err != nil {
		return fmt1.Identity{}, err
	}

	return fmt1.ParseIdentity(resp)
}

// Reset restores the instrument's initial settings.
func (mf *Mainframe) Reset() error {
	msg, err := flex.NewMessageBuilder().RST().Message()
	if err != nil {
		return err
	}

	return mf.Write(msg)
}

// Abort stops the running operation and discards queued commands.
func (mf *Mainframe) Abort() error {
	msg, err := flex.NewMessageBuilder().AB().Message()
	if err != nil {
		return err
	}

	return mf.Write(msg)
}

// ReadError pops the oldest entry from the instrument's error queue.
func (mf *Mainframe) ReadError() (fmt1.ErrorStatus, error) {
	msg, err := flex.NewMessageBuilder().ERRXQuery().Message()
	if err != nil {
		return fmt1.ErrorStatus{}, err
	}

	// Talk to the device directly so that the error check path cannot
	// recurse into itself.
	resp, err := mf.dev.Query(msg)
	if err != nil {
		return fmt1.ErrorStatus{}, err
	}

	return fmt1.ParseErrorStatus(resp)
}

// CheckError reads the error queue and reports a non clear entry as a
// *DeviceError.
func (mf *Mainframe) CheckError() error {
	status, err := mf.ReadError()
	if err != nil {
		return err
	}
	if status.Clear() {
		return nil
	}
	mf.logger.Warn("device fault", "code", status.Code, "message", status.Message)

	return &DeviceError{Code: status.Code, Message: status.Message}
}

// ErrorMessage returns the instrument's message text for an error code.
func (mf *Mainframe) ErrorMessage(code int) (string, error) {
	msg, err := flex.NewMessageBuilder().EMGQuery(code).Message()
	if err != nil {
		return "", err
	}

	resp, err := mf.Query(msg)
	if err != nil {
		return "", err
	}

	return strings.Trim(resp, `"`), nil
}

// SetOutputFormat selects the data output format of measurement responses.
func (mf *Mainframe) SetOutputFormat(format flex.OutputFormat) error {
	msg, err := flex.NewMessageBuilder().FMT(format).Message()
	if err != nil {
		return err
	}

	return mf.Write(msg)
}

// EnableChannels turns on the output switches of the given channels, or of
// every channel when none is given.
func (mf *Mainframe) EnableChannels(channels ...flex.ChNr) error {
	msg, err := flex.NewMessageBuilder().CN(channels...).Message()
	if err != nil {
		return err
	}

	return mf.Write(msg)
}

// DisableChannels turns off the output switches of the given channels, or
// of every channel when none is given.
func (mf *Mainframe) DisableChannels(channels ...flex.ChNr) error {
	msg, err := flex.NewMessageBuilder().CL(channels...).Message()
	if err != nil {
		return err
	}

	return mf.Write(msg)
}

// SelfCalibration runs the full self calibration and returns the failure
// bitmap, zero meaning every slot passed. The response timeout is widened
// for the run and restored before returning.
func (mf *Mainframe) SelfCalibration() (result int, err error) {
	msg, err := flex.NewMessageBuilder().CALQuery().Message()
	if err != nil {
		return 0, err
	}

	scope, err := visa.NewTimeoutScope(mf.dev, procedureTimeout)
	if err != nil {
		return 0, err
	}
	defer func() { err = multierr.Append(err, scope.Restore()) }()

	return query.Int(mf, msg)
}

// DiscoverModules reads the slot configuration and returns a description
// of every occupied slot. Slots holding a CMU are registered so that CMU
// returns a ready handle for them.
func (mf *Mainframe) DiscoverModules() ([]ModuleInfo, error) {
	msg, err := flex.NewMessageBuilder().UNTQuery(flex.UntModelAndRevision).Message()
	if err != nil {
		return nil, err
	}

	resp, err := mf.Query(msg)
	if err != nil {
		return nil, err
	}
	units, err := fmt1.ParseUnitList(resp)
	if err != nil {
		return nil, err
	}

	infos := make([]ModuleInfo, 0, len(units))
	for i, unit := range units {
		if !unit.Installed() {
			continue
		}
		info := ModuleInfo{
			Slot:     i + 1,
			Kind:     KindForModel(unit.Model),
			Model:    unit.Model,
			Revision: unit.Revision,
		}
		infos = append(infos, info)

		if info.Kind == KindCMU {
			if _, err := mf.CMU(info.Slot); err != nil {
				return nil, err
			}
		}
	}
	mf.logger.Info("discovered modules", "count", len(infos))

	return infos, nil
}

// CMU returns the capacitance measurement unit in the given slot, creating
// the handle on first use. Repeated calls for the same slot return the
// same instance, so correction state is retained across call sites.
func (mf *Mainframe) CMU(slot int) (*CMU, error) {
	ch, err := flex.NewChNr(slot)
	if err != nil {
		return nil, err
	}

	mod, _ := mf.modules.LoadOrCompute(slot, func() Module {
		return newCMU(mf, slot, ch)
	})
	cmu, ok := mod.(*CMU)
	if !ok {
		return nil, fmt.Errorf("slot %d holds a %s module", slot, mod.Kind())
	}

	return cmu, nil
}

// Modules returns the module handles created so far, keyed by slot.
func (mf *Mainframe) Modules() map[int]Module {
	mods := make(map[int]Module, mf.modules.Size())
	mf.modules.Range(func(slot int, mod Module) bool {
		mods[slot] = mod
		return true
	})

	return mods
}

// Close aborts any running operation and closes the transport.
func (mf *Mainframe) Close() error {
	err := mf.Abort()

	return multierr.Append(err, mf.dev.Close())
}
