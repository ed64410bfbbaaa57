package hwreg

import (
	"sync"

	"tinygo.org/x/drivers"
)

// Register sub-addresses of supported I2C GPIO expanders.
const (
	pca9554Input    = 0x00
	pca9554Output   = 0x01
	pca9554Config   = 0x03 // 1 = input
	mcp23008IODIR   = 0x00 // 1 = input
	mcp23008GPIO    = 0x09
	mcp23008OLAT    = 0x0A
	AddressPCA9554  = 0x20
	AddressMCP23008 = 0x20
)

// Expander exposes the 8-bit registers of an I2C GPIO expander. Bus errors
// are sticky and reported through Err; a failed read returns the register's
// last good value.
type Expander struct {
	mu   sync.Mutex
	bus  drivers.I2C
	addr uint16

	// Fixed buffers to avoid per-call heap allocations.
	w [2]byte
	r [1]byte
	fault
}

func NewExpander(bus drivers.I2C, addr uint16) *Expander {
	return &Expander{bus: bus, addr: addr}
}

// Register returns the register at sub. Inverted registers store the
// complement of what is written, for parts whose direction bit means input.
func (e *Expander) Register(sub byte, inverted bool) Register {
	last := uint8(0xFF)
	if inverted {
		last = 0
	}
	return &expReg{e: e, sub: sub, inv: inverted, last: last}
}

func (e *Expander) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fault.Err()
}

func (e *Expander) ClearErr() {
	e.mu.Lock()
	e.fault.ClearErr()
	e.mu.Unlock()
}

// readByte and writeByte run with e.mu held.
func (e *Expander) readByte(sub byte) (uint8, error) {
	e.w[0] = sub
	if err := e.bus.Tx(e.addr, e.w[:1], e.r[:1]); err != nil {
		e.record(err)
		return 0, err
	}
	return e.r[0], nil
}

func (e *Expander) writeByte(sub, v byte) {
	e.w[0] = sub
	e.w[1] = v
	e.record(e.bus.Tx(e.addr, e.w[:2], nil))
}

// expReg caches its last value under the expander's mutex; read-modify-write
// holds the mutex across both transfers.
type expReg struct {
	e    *Expander
	sub  byte
	inv  bool
	last uint8
}

func (r *expReg) get() uint8 {
	v, err := r.e.readByte(r.sub)
	if err != nil {
		return r.last
	}
	if r.inv {
		v = ^v
	}
	r.last = v
	return v
}

func (r *expReg) set(v uint8) {
	r.last = v
	if r.inv {
		v = ^v
	}
	r.e.writeByte(r.sub, v)
}

func (r *expReg) Get() uint8 {
	r.e.mu.Lock()
	defer r.e.mu.Unlock()
	return r.get()
}

func (r *expReg) Set(v uint8) {
	r.e.mu.Lock()
	r.set(v)
	r.e.mu.Unlock()
}

func (r *expReg) SetBits(mask uint8) {
	r.e.mu.Lock()
	r.set(r.get() | mask)
	r.e.mu.Unlock()
}

func (r *expReg) ClearBits(mask uint8) {
	r.e.mu.Lock()
	r.set(r.get() &^ mask)
	r.e.mu.Unlock()
}

func (r *expReg) Err() error { return r.e.Err() }
func (r *expReg) ClearErr()  { r.e.ClearErr() }

// PCA9554 returns the port of a PCA9554/TCA9554 at addr.
func PCA9554(bus drivers.I2C, addr uint16) Group {
	e := NewExpander(bus, addr)
	return Group{
		Dir: e.Register(pca9554Config, true),
		Out: e.Register(pca9554Output, false),
		In:  e.Register(pca9554Input, false),
	}
}

// MCP23008 returns the port of an MCP23008 at addr. Output writes go to OLAT;
// the part's pull-ups live in GPPU and are left at their reset value (off).
func MCP23008(bus drivers.I2C, addr uint16) Group {
	e := NewExpander(bus, addr)
	return Group{
		Dir: e.Register(mcp23008IODIR, true),
		Out: e.Register(mcp23008OLAT, false),
		In:  e.Register(mcp23008GPIO, false),
	}
}

// ExpanderGroup selects a preset by part name.
func ExpanderGroup(part string, bus drivers.I2C, addr uint16) (Group, bool) {
	switch part {
	case "pca9554", "tca9554":
		if addr == 0 {
			addr = AddressPCA9554
		}
		return PCA9554(bus, addr), true
	case "mcp23008":
		if addr == 0 {
			addr = AddressMCP23008
		}
		return MCP23008(bus, addr), true
	}
	return Group{}, false
}
