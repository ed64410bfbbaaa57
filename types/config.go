package types

// KeypadConfig describes one keypad and the port it is wired to.
type KeypadConfig struct {
	Name string `json:"name" yaml:"name"`
	Rows uint8  `json:"rows" yaml:"rows"`
	Cols uint8  `json:"cols" yaml:"cols"`

	DebounceUs uint32 `json:"debounce_us,omitempty" yaml:"debounce_us"`
	Stable     uint8  `json:"stable,omitempty" yaml:"stable"`
	Attempts   uint8  `json:"attempts,omitempty" yaml:"attempts"`
	PollMs     uint32 `json:"poll_ms,omitempty" yaml:"poll_ms"`

	Port PortConfig `json:"port" yaml:"port"`
}

// PortConfig selects a register port implementation.
//
//	kind "mmio":     Base is the port base address, Layout "linear" or "avr"
//	kind "pins":     Pins are MCU pin numbers in bit order
//	kind "periph":   PinNames are host GPIO names in bit order
//	kind "pca9554", "mcp23008": I2C expander at Address on Bus
//	kind "modbus":   Endpoint/UnitID, Base is the first holding register
//	kind "sim":      in-memory keypad
type PortConfig struct {
	Kind      string   `json:"kind" yaml:"kind"`
	Base      uint32   `json:"base,omitempty" yaml:"base"`
	Layout    string   `json:"layout,omitempty" yaml:"layout"`
	Pins      []int    `json:"pins,omitempty" yaml:"pins"`
	PinNames  []string `json:"pin_names,omitempty" yaml:"pin_names"`
	Bus       string   `json:"bus,omitempty" yaml:"bus"`
	Address   uint16   `json:"address,omitempty" yaml:"address"`
	Endpoint  string   `json:"endpoint,omitempty" yaml:"endpoint"`
	UnitID    uint8    `json:"unit_id,omitempty" yaml:"unit_id"`
	TimeoutMs uint32   `json:"timeout_ms,omitempty" yaml:"timeout_ms"`
}
