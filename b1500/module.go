package b1500

import "github.com/spauka/go-b1500/flex"

// ModuleKind classifies a plug-in module by its model number.
type ModuleKind int

const (
	// KindUnknown marks a module whose model number is not recognized.
	KindUnknown ModuleKind = iota
	// KindSMU is a source/monitor unit.
	KindSMU
	// KindCMU is the multi frequency capacitance measurement unit.
	KindCMU
	// KindWGFMU is the waveform generator/fast measurement unit.
	KindWGFMU
)

// String returns string representation of the module kind.
func (k ModuleKind) String() string {
	switch k {
	case KindSMU:
		return "SMU"
	case KindCMU:
		return "CMU"
	case KindWGFMU:
		return "WGFMU"
	default:
		return "unknown"
	}
}

// kindByModel maps the model numbers reported by the unit list query to
// module kinds.
var kindByModel = map[string]ModuleKind{
	"B1510A": KindSMU, // high power SMU
	"B1511A": KindSMU, // medium power SMU
	"B1511B": KindSMU,
	"B1514A": KindSMU, // medium current SMU
	"B1517A": KindSMU, // high resolution SMU
	"B1520A": KindCMU, // multi frequency CMU
	"B1530A": KindWGFMU,
}

// KindForModel returns the module kind for a model number from the unit
// list query.
func KindForModel(model string) ModuleKind {
	if kind, ok := kindByModel[model]; ok {
		return kind
	}
	return KindUnknown
}

// Module is a handle for a plug-in module installed in a mainframe slot.
type Module interface {
	// Kind returns the module's classification.
	Kind() ModuleKind
	// Slot returns the mainframe slot the module occupies.
	Slot() int
	// Channel returns the module's measurement channel.
	Channel() flex.ChNr
}

// ModuleInfo describes one occupied mainframe slot.
type ModuleInfo struct {
	Slot     int
	Kind     ModuleKind
	Model    string
	Revision string
}
