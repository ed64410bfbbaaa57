package hwreg

import "sync"

// Pull selects an input bias.
type Pull uint8

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

// Pin is the subset of a GPIO pin a PinPort drives.
type Pin interface {
	ConfigureInput(p Pull) error
	ConfigureOutput(initial bool) error
	Set(level bool)
	Get() bool
}

// PinPort presents up to eight independent pins as one 8-bit port. Bit i maps
// to pins[i]; a nil entry is unconnected and reads high.
//
// Direction bit set configures the pin as an output driven at its Output bit.
// On inputs, an Output bit set enables the pull-up, mirroring AVR PORTx.
// The first write to either register configures every pin it covers, even
// where the bit keeps its zero value, so no pin keeps its reset pad state.
type PinPort struct {
	mu         sync.Mutex
	pins       [8]Pin
	dir        uint8
	out        uint8
	configured uint8
	fault
}

// NewPinPort does not touch the pins; they are configured as the direction
// and output registers are written.
func NewPinPort(pins ...Pin) *PinPort {
	p := &PinPort{}
	copy(p.pins[:], pins)
	return p
}

// Group returns the port's registers.
func (p *PinPort) Group() Group {
	return Group{
		Dir: Func{GetFn: p.getDir, SetFn: p.setDir},
		Out: Func{GetFn: p.getOut, SetFn: p.setOut},
		In:  pinIn{p},
	}
}

func (p *PinPort) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fault.Err()
}

func (p *PinPort) ClearErr() {
	p.mu.Lock()
	p.fault.ClearErr()
	p.mu.Unlock()
}

func (p *PinPort) getDir() uint8 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dir
}

func (p *PinPort) getOut() uint8 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.out
}

func (p *PinPort) setDir(v uint8) {
	p.mu.Lock()
	defer p.mu.Unlock()
	dirty := (p.dir ^ v) | ^p.configured
	p.dir = v
	for i := uint8(0); i < 8; i++ {
		if dirty&(1<<i) != 0 {
			p.configure(i)
		}
	}
}

func (p *PinPort) setOut(v uint8) {
	p.mu.Lock()
	defer p.mu.Unlock()
	changed := p.out ^ v
	p.out = v
	for i := uint8(0); i < 8; i++ {
		bit := uint8(1) << i
		pin := p.pins[i]
		if (changed|^p.configured)&bit == 0 || pin == nil {
			continue
		}
		if p.dir&bit != 0 && p.configured&bit != 0 {
			pin.Set(v&bit != 0)
		} else {
			p.configure(i)
		}
	}
}

// configure applies the current dir/out bits to pin i. Caller holds mu.
func (p *PinPort) configure(i uint8) {
	pin := p.pins[i]
	if pin == nil {
		return
	}
	bit := uint8(1) << i
	p.configured |= bit
	if p.dir&bit != 0 {
		p.record(pin.ConfigureOutput(p.out&bit != 0))
		return
	}
	pull := PullNone
	if p.out&bit != 0 {
		pull = PullUp
	}
	p.record(pin.ConfigureInput(pull))
}

// pinIn samples every pin; writes are ignored.
type pinIn struct{ p *PinPort }

func (r pinIn) Get() uint8 {
	r.p.mu.Lock()
	defer r.p.mu.Unlock()
	var v uint8
	for i, pin := range r.p.pins {
		if pin == nil || pin.Get() {
			v |= 1 << uint(i)
		}
	}
	return v
}

func (r pinIn) Err() error { return r.p.Err() }
func (r pinIn) ClearErr()  { r.p.ClearErr() }

func (pinIn) Set(uint8)       {}
func (pinIn) SetBits(uint8)   {}
func (pinIn) ClearBits(uint8) {}
