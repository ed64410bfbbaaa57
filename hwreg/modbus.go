//go:build !tinygo

package hwreg

import (
	"errors"
	"io"
	"sync"
	"time"

	"github.com/goburrow/modbus"
)

// HoldingRegisters is the subset of modbus.Client used by Modbus ports.
type HoldingRegisters interface {
	ReadHoldingRegisters(address, quantity uint16) ([]byte, error)
	WriteSingleRegister(address, value uint16) ([]byte, error)
}

var errShortRead = errors.New("hwreg: short modbus read")

// ModbusPort maps a port onto three holding registers of a remote I/O
// module. Only the low byte of each register is used.
type ModbusPort struct {
	mu   sync.Mutex
	c    HoldingRegisters
	base uint16
	l    Layout
	fault
}

func NewModbusPort(c HoldingRegisters, base uint16, l Layout) *ModbusPort {
	return &ModbusPort{c: c, base: base, l: l}
}

// Group returns the port's registers.
func (m *ModbusPort) Group() Group {
	return Group{
		Dir: &modbusReg{m: m, addr: m.base + uint16(m.l.Dir)},
		Out: &modbusReg{m: m, addr: m.base + uint16(m.l.Out)},
		In:  &modbusReg{m: m, addr: m.base + uint16(m.l.In), last: 0xFF},
	}
}

func (m *ModbusPort) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fault.Err()
}

func (m *ModbusPort) ClearErr() {
	m.mu.Lock()
	m.fault.ClearErr()
	m.mu.Unlock()
}

// read and write run with m.mu held.
func (m *ModbusPort) read(addr uint16) (uint8, error) {
	b, err := m.c.ReadHoldingRegisters(addr, 1)
	if err == nil && len(b) < 2 {
		err = errShortRead
	}
	if err != nil {
		m.record(err)
		return 0, err
	}
	return b[1], nil // big-endian: low byte second
}

func (m *ModbusPort) write(addr uint16, v uint8) {
	_, err := m.c.WriteSingleRegister(addr, uint16(v))
	m.record(err)
}

type modbusReg struct {
	m    *ModbusPort
	addr uint16
	last uint8 // guarded by m.mu
}

func (r *modbusReg) get() uint8 {
	v, err := r.m.read(r.addr)
	if err != nil {
		return r.last
	}
	r.last = v
	return v
}

func (r *modbusReg) set(v uint8) {
	r.last = v
	r.m.write(r.addr, v)
}

func (r *modbusReg) Get() uint8 {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return r.get()
}

func (r *modbusReg) Set(v uint8) {
	r.m.mu.Lock()
	r.set(v)
	r.m.mu.Unlock()
}

func (r *modbusReg) SetBits(mask uint8) {
	r.m.mu.Lock()
	r.set(r.get() | mask)
	r.m.mu.Unlock()
}

func (r *modbusReg) ClearBits(mask uint8) {
	r.m.mu.Lock()
	r.set(r.get() &^ mask)
	r.m.mu.Unlock()
}

func (r *modbusReg) Err() error { return r.m.Err() }
func (r *modbusReg) ClearErr()  { r.m.ClearErr() }

// DialModbusTCP connects to a Modbus TCP endpoint and returns a client for
// unit together with the handler to close.
func DialModbusTCP(endpoint string, unit uint8, timeout time.Duration) (modbus.Client, io.Closer, error) {
	h := modbus.NewTCPClientHandler(endpoint)
	h.Timeout = timeout
	h.SlaveId = unit
	if err := h.Connect(); err != nil {
		return nil, nil, err
	}
	return modbus.NewClient(h), h, nil
}
