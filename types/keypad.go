package types

// ------------------------
// Keypad
// ------------------------

type KeypadInfo struct {
	Rows       uint8  `json:"rows"`
	Cols       uint8  `json:"cols"`
	Descriptor uint8  `json:"descriptor"`
	Keys       uint8  `json:"keys"` // rows*cols, also the "no key" index
	DebounceUs uint32 `json:"debounce_us"`
	Stable     uint8  `json:"stable"`
	Attempts   uint8  `json:"attempts"`
}

// KeypadValue is the retained current state.
type KeypadValue struct {
	Pressed bool  `json:"pressed"`
	Key     uint8 `json:"key"`
	TS      int64 `json:"ts_ms"`
}

// KeyEvent is emitted on every press and release.
type KeyEvent struct {
	Key     uint8 `json:"key"`
	Row     uint8 `json:"row"`
	Col     uint8 `json:"col"`
	Pressed bool  `json:"pressed"`
	TS      int64 `json:"ts_ms"`
}
