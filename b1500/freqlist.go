package b1500

import (
	"github.com/gotmc/query"

	"github.com/spauka/go-b1500/flex"
)

// FrequencyList manages the frequency list swept by the correction
// procedures of one CMU. The list itself lives on the instrument; the
// default list covers 1 kHz to 5 MHz.
type FrequencyList struct {
	cmu *CMU
}

func newFrequencyList(cmu *CMU) *FrequencyList {
	return &FrequencyList{cmu: cmu}
}

// Clear empties the frequency list.
func (f *FrequencyList) Clear() error {
	return f.clear(flex.ClearOnly)
}

// ClearAndSetDefault resets the frequency list to the instrument's default
// frequencies.
func (f *FrequencyList) ClearAndSetDefault() error {
	return f.clear(flex.ClearAndSetDefault)
}

func (f *FrequencyList) clear(mode flex.ClearMode) error {
	msg, err := flex.NewMessageBuilder().CLCORR(f.cmu.ch, mode).Message()
	if err != nil {
		return err
	}

	return f.cmu.mf.Write(msg)
}

// Add appends a correction frequency in hertz to the list.
func (f *FrequencyList) Add(freq float64) error {
	msg, err := flex.NewMessageBuilder().CORRL(f.cmu.ch, freq).Message()
	if err != nil {
		return err
	}

	return f.cmu.mf.Write(msg)
}

// Count returns the number of frequencies in the list.
func (f *FrequencyList) Count() (int, error) {
	msg, err := flex.NewMessageBuilder().CORRLCountQuery(f.cmu.ch).Message()
	if err != nil {
		return 0, err
	}

	return query.Int(f.cmu.mf, msg)
}

// At returns the frequency at the given index, counted as the instrument
// counts list entries.
func (f *FrequencyList) At(index int) (float64, error) {
	msg, err := flex.NewMessageBuilder().CORRLQuery(f.cmu.ch, index).Message()
	if err != nil {
		return 0, err
	}

	return query.Float64(f.cmu.mf, msg)
}
