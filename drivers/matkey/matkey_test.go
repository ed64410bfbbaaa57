package matkey

import (
	"testing"
	"time"

	"matkey-go/hwreg"
)

// fakeClock replaces the busy-wait and records every delay.
type fakeClock struct {
	calls []time.Duration
}

func (c *fakeClock) sleep(d time.Duration) { c.calls = append(c.calls, d) }

func newScanner(c *fakeClock) *Scanner { return &Scanner{Sleep: c.sleep} }

// colByte returns the input byte of a 4x3 keypad where column col reads low.
// col >= 3 means no column is active.
func colByte(col uint8) uint8 {
	if col >= 3 {
		return 0xFF
	}
	return 0xFF &^ (1 << (4 + col))
}

// sequence feeds successive column readings; the last one repeats.
func sequence(cols ...uint8) func(dir, out uint8) uint8 {
	i := 0
	return func(dir, out uint8) uint8 {
		c := cols[len(cols)-1]
		if i < len(cols) {
			c = cols[i]
		}
		i++
		return colByte(c)
	}
}

func TestConfigurePreservesUnrelatedBits(t *testing.T) {
	b := hwreg.NewBank(0x80, 0xFF, 0)
	d := Configure(b.Group(), 4, 3)
	if d != 0x34 {
		t.Fatalf("descriptor=%#02x", uint8(d))
	}
	dir, out, _ := b.Snapshot()
	if dir != 0x8F {
		t.Fatalf("dir=%#02x, want rows out, cols in, bit 7 kept", dir)
	}
	if out != 0x8F {
		t.Fatalf("out=%#02x, want column pull-ups off, others kept", out)
	}

	// Second call is redundant but harmless.
	Configure(b.Group(), 4, 3)
	if d2, o2, _ := b.Snapshot(); d2 != dir || o2 != out {
		t.Fatalf("reconfigure changed port: dir=%#02x out=%#02x", d2, o2)
	}
}

func TestConfigureClearsColumnDirection(t *testing.T) {
	b := hwreg.NewBank(0xFF, 0xFF, 0)
	Configure(b.Group(), 3, 5)
	dir, out, _ := b.Snapshot()
	if dir != 0x07 || out != 0x07 {
		t.Fatalf("dir=%#02x out=%#02x", dir, out)
	}
}

func TestResetRowsIdempotent(t *testing.T) {
	b := hwreg.NewBank(0, 0x40, 0)
	g := b.Group()
	d := Encode(4, 3)
	ResetRows(g.Out, d)
	_, once, _ := b.Snapshot()
	ResetRows(g.Out, d)
	_, twice, _ := b.Snapshot()
	if once != 0x4F || twice != once {
		t.Fatalf("once=%#02x twice=%#02x", once, twice)
	}
}

func TestAssertRowLow(t *testing.T) {
	b := hwreg.NewBank(0, 0xFF, 0)
	AssertRowLow(b.Group().Out, 2)
	if _, out, _ := b.Snapshot(); out != 0xFB {
		t.Fatalf("out=%#02x", out)
	}
}

func TestReadColumns(t *testing.T) {
	d := Encode(4, 3)
	b := hwreg.NewBank(0, 0, 0)
	in := b.Group().In

	in.Set(0xFF)
	if c := ReadColumns(in, d); c != d.NoColumn() {
		t.Fatalf("idle: got %d", c)
	}
	in.Set(colByte(2))
	if c := ReadColumns(in, d); c != 2 {
		t.Fatalf("col 2: got %d", c)
	}
	// Columns 1 and 2 both low: lowest wins.
	in.Set(0xFF &^ (1 << 5) &^ (1 << 6))
	if c := ReadColumns(in, d); c != 1 {
		t.Fatalf("tie: got %d", c)
	}
	// Row bits and bit 7 are ignored.
	in.Set(0x70)
	if c := ReadColumns(in, d); c != d.NoColumn() {
		t.Fatalf("non-column bits: got %d", c)
	}
	if b.Reads() != 4 {
		t.Fatalf("ReadColumns should sample once per call, reads=%d", b.Reads())
	}
}

func TestDebounceConfirmsAfterFourReads(t *testing.T) {
	d := Encode(4, 3)
	b := hwreg.NewBank(0, 0, 0)
	b.Input = sequence(1, 1, 1, 1)
	clk := &fakeClock{}

	if c := newScanner(clk).ReadColumnsDebounced(b.Group().In, d); c != 1 {
		t.Fatalf("got %d, want 1", c)
	}
	if b.Reads() != 4 || len(clk.calls) != 3 {
		t.Fatalf("reads=%d sleeps=%d", b.Reads(), len(clk.calls))
	}
	for _, dl := range clk.calls {
		if dl != time.Millisecond {
			t.Fatalf("sample interval %v", dl)
		}
	}
}

func TestDebounceRestartsOnBounce(t *testing.T) {
	d := Encode(4, 3)
	b := hwreg.NewBank(0, 0, 0)
	b.Input = sequence(0, 2, 1, 1, 1, 1)
	clk := &fakeClock{}

	if c := newScanner(clk).ReadColumnsDebounced(b.Group().In, d); c != 1 {
		t.Fatalf("got %d, want 1", c)
	}
	if b.Reads() != 6 {
		t.Fatalf("reads=%d", b.Reads())
	}
}

func TestDebounceThreeMatchesIsNotEnough(t *testing.T) {
	d := Encode(4, 3)
	b := hwreg.NewBank(0, 0, 0)
	// Runs of three identical reads, never four.
	b.Input = sequence(0, 0, 0, 1, 1, 1, 0, 0, 0, 1, 1, 2)
	clk := &fakeClock{}

	if c := newScanner(clk).ReadColumnsDebounced(b.Group().In, d); c != d.NoColumn() {
		t.Fatalf("got %d, want NoColumn", c)
	}
	if len(clk.calls) != DefaultAttempts {
		t.Fatalf("sleeps=%d", len(clk.calls))
	}
}

func TestDebounceUnsettledReturnsNoColumn(t *testing.T) {
	d := Encode(4, 3)
	b := hwreg.NewBank(0, 0, 0)
	b.Input = sequence(0, 1, 0, 1, 0, 1, 0, 1, 0, 1, 0)
	clk := &fakeClock{}

	if c := newScanner(clk).ReadColumnsDebounced(b.Group().In, d); c != d.NoColumn() {
		t.Fatalf("got %d, want NoColumn", c)
	}
	if b.Reads() != 1+DefaultAttempts {
		t.Fatalf("reads=%d", b.Reads())
	}
}

func TestDebounceStableIdle(t *testing.T) {
	d := Encode(4, 3)
	b := hwreg.NewBank(0, 0, 0xFF)
	clk := &fakeClock{}
	if c := newScanner(clk).ReadColumnsDebounced(b.Group().In, d); c != d.NoColumn() {
		t.Fatalf("got %d", c)
	}
	if b.Reads() != 4 {
		t.Fatalf("idle should settle after 4 reads, got %d", b.Reads())
	}
}

func TestScannerCustomPolicy(t *testing.T) {
	d := Encode(4, 3)
	b := hwreg.NewBank(0, 0, 0)
	b.Input = sequence(2, 2)
	clk := &fakeClock{}
	s := &Scanner{Interval: 250 * time.Microsecond, Stable: 2, Attempts: 3, Sleep: clk.sleep}
	if c := s.ReadColumnsDebounced(b.Group().In, d); c != 2 {
		t.Fatalf("got %d", c)
	}
	if len(clk.calls) != 1 || clk.calls[0] != 250*time.Microsecond {
		t.Fatalf("sleeps=%v", clk.calls)
	}
}

func keypadBank(rows, cols uint8) (*hwreg.Keypad, hwreg.Group, Descriptor) {
	k := hwreg.NewKeypad(rows, cols)
	b := k.Attach(hwreg.NewBank(0, 0, 0))
	g := b.Group()
	return k, g, Configure(g, rows, cols)
}

func TestScanNoPress(t *testing.T) {
	_, g, d := keypadBank(4, 3)
	if key := newScanner(&fakeClock{}).Scan(g, d); key != 12 {
		t.Fatalf("got %d, want 12", key)
	}
}

func TestScanRowPriority(t *testing.T) {
	k, g, d := keypadBank(4, 3)
	k.Press(0, 1)
	k.Press(2, 0)
	if key := newScanner(&fakeClock{}).Scan(g, d); key != 1 {
		t.Fatalf("got %d, want 1 (row 0 col 1)", key)
	}
	k.Release(0, 1)
	if key := newScanner(&fakeClock{}).Scan(g, d); key != 6 {
		t.Fatalf("got %d, want 6 (row 2 col 0)", key)
	}
}

func TestScanEveryKey(t *testing.T) {
	for _, shape := range [][2]uint8{{4, 3}, {4, 4}, {5, 3}, {3, 5}} {
		k, g, d := keypadBank(shape[0], shape[1])
		s := newScanner(&fakeClock{})
		for r := uint8(0); r < shape[0]; r++ {
			for c := uint8(0); c < shape[1]; c++ {
				k.ReleaseAll()
				k.Press(r, c)
				if key := s.Scan(g, d); key != d.Key(r, c) {
					t.Fatalf("%s: press (%d,%d) got %d", d, r, c, key)
				}
			}
		}
		k.ReleaseAll()
		if key := s.Scan(g, d); key != d.NoKey() {
			t.Fatalf("%s: idle got %d", d, key)
		}
	}
}

func TestScanLeavesOnlyOneRowAsserted(t *testing.T) {
	k := hwreg.NewKeypad(4, 3)
	b := k.Attach(hwreg.NewBank(0, 0, 0))
	g := b.Group()
	d := Configure(g, 4, 3)

	var seen []uint8
	b.Input = func(dir, out uint8) uint8 {
		seen = append(seen, out&0x0F)
		return k.Input(dir, out)
	}
	newScanner(&fakeClock{}).Scan(g, d)
	for _, o := range seen {
		switch o {
		case 0x0E, 0x0D, 0x0B, 0x07:
		default:
			t.Fatalf("row bits %#02x while sampling", o)
		}
	}
	if _, out, _ := b.Snapshot(); out&0x0F != 0x0F {
		t.Fatalf("rows not released after idle scan: %#02x", out)
	}
}

func TestScanSkipsUnsettledRow(t *testing.T) {
	b := hwreg.NewBank(0, 0, 0)
	g := b.Group()
	d := Configure(g, 4, 3)
	flip := false
	b.Input = func(dir, out uint8) uint8 {
		switch {
		case out&0x01 == 0: // row 0: chatter between col 0 and nothing
			flip = !flip
			if flip {
				return colByte(0)
			}
			return colByte(3)
		case out&0x02 == 0: // row 1: col 2 held
			return colByte(2)
		}
		return 0xFF
	}
	if key := newScanner(&fakeClock{}).Scan(g, d); key != d.Key(1, 2) {
		t.Fatalf("got %d, want %d", key, d.Key(1, 2))
	}
}

func TestAVRLayoutBank(t *testing.T) {
	// Three consecutive bytes addressed PIN, DDR, PORT.
	var mem [3]uint8
	reg := func(i uintptr) hwreg.Register {
		return hwreg.Func{
			GetFn: func() uint8 { return mem[i] },
			SetFn: func(v uint8) { mem[i] = v },
		}
	}
	l := hwreg.AVRLayout
	g := hwreg.Group{Dir: reg(l.Dir), Out: reg(l.Out), In: reg(l.In)}
	mem[0] = 0xFF
	d := Configure(g, 4, 3)
	if mem[1] != 0x0F {
		t.Fatalf("DDR=%#02x", mem[1])
	}
	if key := newScanner(&fakeClock{}).Scan(g, d); key != d.NoKey() {
		t.Fatalf("got %d", key)
	}
	if mem[2]&0x0F != 0x0F {
		t.Fatalf("PORT=%#02x", mem[2])
	}
}
