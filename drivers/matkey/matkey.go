// Package matkey scans a row/column matrix keypad wired to one 8-bit GPIO
// port. Rows occupy bits [0,rows) and are driven outputs; columns occupy bits
// [rows,rows+cols) and are inputs that read low when a held key connects them
// to the asserted row.
//
// Typical use:
//
//	d := matkey.Configure(port, 4, 3) // once, returns the descriptor
//	key := matkey.Scan(port, d)       // blocking, up to rows*10 ms
//	if key < d.NoKey() { ... }
//
// Scanning is synchronous; callers must not scan one port from two
// goroutines.
package matkey

import (
	"time"

	"matkey-go/hwreg"
	"matkey-go/x/timex"
)

// Debounce defaults: four identical reads one millisecond apart, giving up
// after ten reads past the first.
const (
	DefaultInterval = 1000 * time.Microsecond
	DefaultStable   = 4
	DefaultAttempts = 10
)

// Configure makes rows outputs and columns pull-up-free inputs, leaving other
// bits of the port untouched, and returns the descriptor for the shape.
// rows and cols are not validated.
func Configure(g hwreg.Group, rows, cols uint8) Descriptor {
	var rowBits, colBits uint8
	for i := uint8(0); i < rows; i++ {
		rowBits |= 1 << i
	}
	for j := uint8(0); j < cols; j++ {
		colBits |= 1 << (rows + j)
	}
	g.Dir.SetBits(rowBits)
	g.Dir.ClearBits(colBits)
	g.Out.ClearBits(colBits)
	return Encode(rows, cols)
}

// ResetRows drives every row high (idle).
func ResetRows(out hwreg.Register, d Descriptor) {
	out.SetBits(rowBits(d))
}

// AssertRowLow drives one row low. row must be below d.Rows(); it is not
// checked and an out-of-range value clears an unrelated bit.
func AssertRowLow(out hwreg.Register, row uint8) {
	out.ClearBits(1 << row)
}

// ReadColumns samples the input register once and returns the lowest column
// reading low, or d.NoColumn() if none does.
func ReadColumns(in hwreg.Register, d Descriptor) uint8 {
	rows, cols := d.Rows(), d.Cols()
	v := in.Get()
	for c := uint8(0); c < cols; c++ {
		if v&(1<<(rows+c)) == 0 {
			return c
		}
	}
	return d.NoColumn()
}

func rowBits(d Descriptor) uint8 {
	var m uint8
	for i := uint8(0); i < d.Rows(); i++ {
		m |= 1 << i
	}
	return m
}

// Scanner holds the debounce policy. The zero value is usable and takes the
// defaults.
type Scanner struct {
	// Interval between column samples.
	Interval time.Duration
	// Stable is the number of identical consecutive reads, including the
	// first, that confirms a column value. Values below 2 select
	// DefaultStable, and Device.Info reports the value in use.
	Stable int
	// Attempts bounds the reads taken after the first.
	Attempts int
	// Sleep waits between samples. Defaults to timex.Spin.
	Sleep func(time.Duration)
}

// DefaultScanner is used by the package-level ReadColumnsDebounced and Scan.
var DefaultScanner = &Scanner{}

func (s *Scanner) params() (time.Duration, int, int, func(time.Duration)) {
	iv, st, at, sl := s.Interval, s.Stable, s.Attempts, s.Sleep
	if iv <= 0 {
		iv = DefaultInterval
	}
	if st <= 1 {
		st = DefaultStable
	}
	if at <= 0 {
		at = DefaultAttempts
	}
	if sl == nil {
		sl = timex.Spin
	}
	return iv, st, at, sl
}

// ReadColumnsDebounced returns a column value once it has been read Stable
// times in a row, or d.NoColumn() if the input does not settle within
// Attempts further reads.
func (s *Scanner) ReadColumnsDebounced(in hwreg.Register, d Descriptor) uint8 {
	iv, stable, attempts, sleep := s.params()

	last := ReadColumns(in, d)
	matches := 0
	for i := 0; i < attempts; i++ {
		sleep(iv)
		v := ReadColumns(in, d)
		if v == last {
			matches++
			if matches >= stable-1 {
				return v
			}
		} else {
			matches = 0
		}
		last = v
	}
	return d.NoColumn()
}

// Scan asserts each row in turn and returns the key index of the first row
// with a settled active column, or d.NoKey() when nothing is held. Lower rows
// win; only one key is reported.
func (s *Scanner) Scan(g hwreg.Group, d Descriptor) uint8 {
	rows, cols := d.Rows(), d.Cols()
	ResetRows(g.Out, d)
	for r := uint8(0); r < rows; r++ {
		AssertRowLow(g.Out, r)
		if c := s.ReadColumnsDebounced(g.In, d); c < cols {
			return d.Key(r, c)
		}
		ResetRows(g.Out, d)
	}
	return d.NoKey()
}

// ReadColumnsDebounced uses DefaultScanner.
func ReadColumnsDebounced(in hwreg.Register, d Descriptor) uint8 {
	return DefaultScanner.ReadColumnsDebounced(in, d)
}

// Scan uses DefaultScanner.
func Scan(g hwreg.Group, d Descriptor) uint8 {
	return DefaultScanner.Scan(g, d)
}
