package fmt1

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spauka/go-b1500/flex"
)

// DCorr holds the decoded reference values of one correction standard.
type DCorr struct {
	Mode      flex.DCorrMode
	Primary   float64
	Secondary float64
}

// String renders the reference values with their units, e.g.
// "Mode: Cp-G, Primary Cp: 1.5 F, Secondary G: 2e-05 S".
func (d DCorr) String() string {
	if d.Mode == flex.DCorrModeLsRs {
		return fmt.Sprintf("Mode: %s, Primary Ls: %g H, Secondary Rs: %g Ω", d.Mode, d.Primary, d.Secondary)
	}
	return fmt.Sprintf("Mode: %s, Primary Cp: %g F, Secondary G: %g S", d.Mode, d.Primary, d.Secondary)
}

// ParseDCorr decodes a reference value query response of the form
// "mode,primary,secondary", e.g. "100,1.5,2.5".
func ParseDCorr(raw string) (DCorr, error) {
	input := strings.TrimSpace(raw)
	parts := strings.Split(input, ",")
	if len(parts) != 3 {
		return DCorr{}, &ParseError{Input: input, Reason: fmt.Sprintf("expected 3 comma separated values, got %d", len(parts))}
	}

	mode, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || !flex.DCorrMode(mode).IsValid() {
		return DCorr{}, &ParseError{Input: input, Reason: fmt.Sprintf("invalid measurement mode %q", parts[0])}
	}
	primary, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return DCorr{}, &ParseError{Input: input, Reason: fmt.Sprintf("invalid primary value %q", parts[1])}
	}
	secondary, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
	if err != nil {
		return DCorr{}, &ParseError{Input: input, Reason: fmt.Sprintf("invalid secondary value %q", parts[2])}
	}

	return DCorr{Mode: flex.DCorrMode(mode), Primary: primary, Secondary: secondary}, nil
}

// ErrorStatus is a decoded error queue entry.
type ErrorStatus struct {
	// Code is the device error code, 0 when the queue is clear.
	Code int
	// Message is the device supplied description, empty when the response
	// carries none.
	Message string
}

// Clear reports whether the entry indicates no error.
func (s ErrorStatus) Clear() bool {
	return s.Code == 0
}

// ParseErrorStatus decodes an error queue query response of the form
// `code,"message"`; the message part is optional.
func ParseErrorStatus(raw string) (ErrorStatus, error) {
	input := strings.TrimSpace(raw)
	codePart, msgPart, _ := strings.Cut(input, ",")

	code, err := strconv.Atoi(strings.TrimSpace(codePart))
	if err != nil {
		return ErrorStatus{}, &ParseError{Input: input, Reason: fmt.Sprintf("invalid error code %q", codePart)}
	}

	message := strings.TrimSpace(msgPart)
	message = strings.TrimPrefix(message, `"`)
	message = strings.TrimSuffix(message, `"`)
	return ErrorStatus{Code: code, Message: message}, nil
}

// UnitInfo describes one mainframe slot reported by a unit query: the model
// name of the installed module and its revision. An empty slot reports
// model "0".
type UnitInfo struct {
	Model    string
	Revision string
}

// Installed reports whether the slot holds a module.
func (u UnitInfo) Installed() bool {
	return u.Model != "" && u.Model != "0"
}

// ParseUnitList decodes a unit query response of the form
// "model,revision;model,revision;...", one entry per mainframe slot.
func ParseUnitList(raw string) ([]UnitInfo, error) {
	input := strings.TrimSpace(raw)
	if input == "" {
		return nil, &ParseError{Input: input, Reason: "empty unit list"}
	}

	entries := strings.Split(input, ";")
	units := make([]UnitInfo, 0, len(entries))
	for i, entry := range entries {
		model, revision, found := strings.Cut(entry, ",")
		if !found {
			return nil, &ParseError{Input: input, Reason: fmt.Sprintf("slot %d: expected model and revision, got %q", i+1, entry)}
		}
		units = append(units, UnitInfo{
			Model:    strings.TrimSpace(model),
			Revision: strings.TrimSpace(revision),
		})
	}
	return units, nil
}

// Identity is a decoded identification response.
type Identity struct {
	Manufacturer string
	Model        string
	Serial       string
	Revision     string
}

// String renders the identity in a single line, e.g.
// "Keysight Technologies B1500A (serial 0, firmware A.06.01)".
func (id Identity) String() string {
	return fmt.Sprintf("%s %s (serial %s, firmware %s)", id.Manufacturer, id.Model, id.Serial, id.Revision)
}

// ParseIdentity decodes an identification response of the form
// "manufacturer,model,serial,revision".
func ParseIdentity(raw string) (Identity, error) {
	input := strings.TrimSpace(raw)
	parts := strings.Split(input, ",")
	if len(parts) != 4 {
		return Identity{}, &ParseError{Input: input, Reason: fmt.Sprintf("expected 4 comma separated values, got %d", len(parts))}
	}

	return Identity{
		Manufacturer: strings.TrimSpace(parts[0]),
		Model:        strings.TrimSpace(parts[1]),
		Serial:       strings.TrimSpace(parts[2]),
		Revision:     strings.TrimSpace(parts[3]),
	}, nil
}
