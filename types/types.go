package types

// Link is the state reported for a keypad.
type Link string

const (
	LinkUp       Link = "up"
	LinkDown     Link = "down"
	LinkDegraded Link = "degraded"
)

type Kind string

const (
	KindKeypad Kind = "keypad"
)

// Info envelope each keypad exposes (retained).
type Info struct {
	SchemaVersion int         `json:"schema_version"`
	Driver        string      `json:"driver"`
	Detail        interface{} `json:"detail,omitempty"`
}

// Status is published retained whenever the link changes.
type Status struct {
	Link  Link   `json:"link"`
	TS    int64  `json:"ts_ms"`
	Error string `json:"error,omitempty"`
}
