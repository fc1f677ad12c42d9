package widget

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// ErrMalformedState is returned when a persisted snapshot cannot be decoded.
var ErrMalformedState = errors.New("malformed widget state")

// SavedState is the snapshot a host persists across widget teardown. Super
// is the host's own parent state; the widget carries it without looking.
type SavedState struct {
	Super []byte

	SelectedIndex int
	Expanded      bool
	NodeCount     int
	ScaleFactor   float32
	RotationAngle float32
}

// NewSavedState returns a default-constructed snapshot wrapping super.
func NewSavedState(super []byte) *SavedState {
	return &SavedState{
		Super:         super,
		SelectedIndex: NotSelected,
		Expanded:      DefaultExpanded,
		NodeCount:     DefaultNodes,
		ScaleFactor:   MaxScaleFactor,
	}
}

// fixed part: int32, byte, int32, float32, float32
const stateFieldsLen = 4 + 1 + 4 + 4 + 4

// MarshalBinary writes the parent block first, then the widget fields in
// order: selectedIndex, expanded, nodeCount, scaleFactor, rotationAngle.
func (s *SavedState) MarshalBinary() ([]byte, error) {
	if uint64(len(s.Super)) > math.MaxUint32 {
		return nil, fmt.Errorf("parent state too large: %d bytes", len(s.Super))
	}
	out := make([]byte, 0, 4+len(s.Super)+stateFieldsLen)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(s.Super)))
	out = append(out, s.Super...)

	out = binary.LittleEndian.AppendUint32(out, uint32(int32(s.SelectedIndex)))
	var expanded byte
	if s.Expanded {
		expanded = 1
	}
	out = append(out, expanded)
	out = binary.LittleEndian.AppendUint32(out, uint32(int32(s.NodeCount)))
	out = binary.LittleEndian.AppendUint32(out, math.Float32bits(s.ScaleFactor))
	out = binary.LittleEndian.AppendUint32(out, math.Float32bits(s.RotationAngle))
	return out, nil
}

// DecodeState parses a snapshot written by MarshalBinary. On failure it
// returns a default-constructed state along with an ErrMalformedState error,
// so callers that only want a usable value can ignore the error.
func DecodeState(data []byte) (*SavedState, error) {
	if len(data) < 4 {
		return NewSavedState(nil), fmt.Errorf("%w: %d bytes", ErrMalformedState, len(data))
	}
	superLen := int(binary.LittleEndian.Uint32(data))
	data = data[4:]
	if superLen > len(data) || len(data)-superLen != stateFieldsLen {
		return NewSavedState(nil), fmt.Errorf("%w: parent block of %d bytes, %d remaining", ErrMalformedState, superLen, len(data))
	}

	s := &SavedState{}
	if superLen > 0 {
		s.Super = append([]byte(nil), data[:superLen]...)
	}
	data = data[superLen:]

	s.SelectedIndex = int(int32(binary.LittleEndian.Uint32(data[0:])))
	s.Expanded = data[4] == 1
	s.NodeCount = int(int32(binary.LittleEndian.Uint32(data[5:])))
	s.ScaleFactor = math.Float32frombits(binary.LittleEndian.Uint32(data[9:]))
	s.RotationAngle = math.Float32frombits(binary.LittleEndian.Uint32(data[13:]))
	return s, nil
}

// SaveState snapshots the widget around the host's parent state.
func (w *Widget) SaveState(super []byte) *SavedState {
	return &SavedState{
		Super:         super,
		SelectedIndex: w.selectedIndex,
		Expanded:      w.expanded,
		NodeCount:     w.nodeCount,
		ScaleFactor:   w.scaleFactor,
		RotationAngle: w.rotationAngle,
	}
}

// RestoreState applies a snapshot taken by SaveState and returns the parent
// state it wrapped. Any other value is not ours: it is returned untouched so
// the host can restore it through its own path.
func (w *Widget) RestoreState(state any) any {
	s, ok := state.(*SavedState)
	if !ok || s == nil {
		return state
	}
	// in-flight animations would overwrite the restored values on the next tick
	w.Stop()

	w.selectedIndex = s.SelectedIndex
	w.expanded = s.Expanded
	w.nodeCount = s.NodeCount
	w.scaleFactor = s.ScaleFactor
	w.rotationAngle = s.RotationAngle
	w.invalidate()
	return s.Super
}
