// Package hwreg models byte-wide GPIO port registers.
//
// A port is three registers: Direction (bit set = output), Output (drive
// level, or pull-up enable on inputs) and Input (observed level). Drivers only
// read and modify bits through the Register interface, so the same scan code
// runs on raw memory-mapped registers, on pins grouped into a virtual port, on
// I2C expanders and on an in-memory simulation.
package hwreg

import "errors"

// Register is a single 8-bit register. The method set matches TinyGo's
// runtime/volatile.Register8.
type Register interface {
	Get() uint8
	Set(v uint8)
	SetBits(mask uint8)
	ClearBits(mask uint8)
}

// Faulter is implemented by registers behind a transport that can fail.
// Err returns the first fault since the last ClearErr.
type Faulter interface {
	Err() error
	ClearErr()
}

// Group bundles the three registers of one port.
type Group struct {
	Dir Register
	Out Register
	In  Register
}

// Err returns the first transport fault recorded by any register in g.
func (g Group) Err() error {
	for _, r := range [...]Register{g.Dir, g.Out, g.In} {
		if f, ok := r.(Faulter); ok {
			if err := f.Err(); err != nil {
				return err
			}
		}
	}
	return nil
}

// ClearErr resets sticky faults on every register in g.
func (g Group) ClearErr() {
	for _, r := range [...]Register{g.Dir, g.Out, g.In} {
		if f, ok := r.(Faulter); ok {
			f.ClearErr()
		}
	}
}

// Layout gives each register's offset from a port's base address.
type Layout struct {
	Dir, Out, In uintptr
}

var (
	// LinearLayout is Direction, Output, Input at +0, +1, +2.
	LinearLayout = Layout{Dir: 0, Out: 1, In: 2}
	// AVRLayout is PINx, DDRx, PORTx: the base is the input register.
	AVRLayout = Layout{Dir: 1, Out: 2, In: 0}
)

// ParseLayout maps a config name to a Layout. Empty selects LinearLayout.
func ParseLayout(s string) (Layout, error) {
	switch s {
	case "", "linear":
		return LinearLayout, nil
	case "avr":
		return AVRLayout, nil
	default:
		return Layout{}, ErrUnknownLayout
	}
}

var ErrUnknownLayout = errors.New("hwreg: unknown layout")

// Func adapts a getter/setter pair into a Register with read-modify-write
// bit helpers.
type Func struct {
	GetFn func() uint8
	SetFn func(uint8)
}

func (f Func) Get() uint8           { return f.GetFn() }
func (f Func) Set(v uint8)          { f.SetFn(v) }
func (f Func) SetBits(mask uint8)   { f.SetFn(f.GetFn() | mask) }
func (f Func) ClearBits(mask uint8) { f.SetFn(f.GetFn() &^ mask) }

// fault records the first error seen by a transport-backed register.
type fault struct{ err error }

func (f *fault) record(err error) {
	if err != nil && f.err == nil {
		f.err = err
	}
}
func (f *fault) Err() error { return f.err }
func (f *fault) ClearErr()  { f.err = nil }
