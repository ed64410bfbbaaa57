package hwreg

import "sync"

// Bank is an in-memory port. Direction and Output hold what was written;
// Input is computed by the Input hook when set, otherwise it holds the last
// value written to it.
type Bank struct {
	mu    sync.Mutex
	regs  [3]uint8
	reads int

	// Input returns the observed input byte for the current direction and
	// output values. Called with the bank unlocked.
	Input func(dir, out uint8) uint8
}

const (
	bankDir = iota
	bankOut
	bankIn
)

// NewBank returns a bank whose registers start at the given values.
func NewBank(dir, out, in uint8) *Bank {
	return &Bank{regs: [3]uint8{dir, out, in}}
}

// Group returns the bank's registers.
func (b *Bank) Group() Group {
	return Group{
		Dir: &bankReg{b: b, idx: bankDir},
		Out: &bankReg{b: b, idx: bankOut},
		In:  &bankReg{b: b, idx: bankIn},
	}
}

// Snapshot returns the raw direction, output and stored input bytes.
func (b *Bank) Snapshot() (dir, out, in uint8) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.regs[bankDir], b.regs[bankOut], b.regs[bankIn]
}

// Reads reports how many times the input register has been read.
func (b *Bank) Reads() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.reads
}

type bankReg struct {
	b   *Bank
	idx int
}

func (r *bankReg) Get() uint8 {
	b := r.b
	b.mu.Lock()
	if r.idx != bankIn {
		v := b.regs[r.idx]
		b.mu.Unlock()
		return v
	}
	b.reads++
	fn := b.Input
	dir, out, in := b.regs[bankDir], b.regs[bankOut], b.regs[bankIn]
	b.mu.Unlock()
	if fn != nil {
		return fn(dir, out)
	}
	return in
}

func (r *bankReg) Set(v uint8) {
	r.b.mu.Lock()
	r.b.regs[r.idx] = v
	r.b.mu.Unlock()
}

func (r *bankReg) SetBits(mask uint8) {
	r.b.mu.Lock()
	r.b.regs[r.idx] |= mask
	r.b.mu.Unlock()
}

func (r *bankReg) ClearBits(mask uint8) {
	r.b.mu.Lock()
	r.b.regs[r.idx] &^= mask
	r.b.mu.Unlock()
}

// Keypad simulates a switch matrix wired with rows on bits [0,rows) and
// columns on bits [rows,rows+cols). Column inputs idle high; a held key pulls
// its column low while its row is an output driven low.
type Keypad struct {
	mu   sync.Mutex
	rows uint8
	cols uint8
	down [8]uint8 // per row, bit c set when (row, c) is held
}

func NewKeypad(rows, cols uint8) *Keypad {
	return &Keypad{rows: rows, cols: cols}
}

func (k *Keypad) Press(row, col uint8) {
	k.mu.Lock()
	k.down[row&7] |= 1 << (col & 7)
	k.mu.Unlock()
}

func (k *Keypad) Release(row, col uint8) {
	k.mu.Lock()
	k.down[row&7] &^= 1 << (col & 7)
	k.mu.Unlock()
}

func (k *Keypad) ReleaseAll() {
	k.mu.Lock()
	k.down = [8]uint8{}
	k.mu.Unlock()
}

// Input is suitable as a Bank.Input hook.
func (k *Keypad) Input(dir, out uint8) uint8 {
	k.mu.Lock()
	defer k.mu.Unlock()
	v := (out & dir) | ^dir
	for r := uint8(0); r < k.rows; r++ {
		rb := uint8(1) << r
		if dir&rb == 0 || out&rb != 0 {
			continue
		}
		for c := uint8(0); c < k.cols; c++ {
			cb := uint8(1) << (k.rows + c)
			if k.down[r]&(1<<c) != 0 && dir&cb == 0 {
				v &^= cb
			}
		}
	}
	return v
}

// Attach wires k into b and returns b.
func (k *Keypad) Attach(b *Bank) *Bank {
	b.mu.Lock()
	b.Input = k.Input
	b.mu.Unlock()
	return b
}
