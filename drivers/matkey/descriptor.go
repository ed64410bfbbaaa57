package matkey

// Descriptor packs a keypad's shape into one byte: rows in bits [0:2],
// columns in bits [4:6]. Bits 3 and 7 are reserved and zero.
type Descriptor uint8

const (
	rowMask = 0x07
	colMask = 0x70

	MinRows = 3
	MaxRows = 5
	MinCols = 3
	// PortWidth bounds rows+cols: rows and columns share one 8-bit port.
	PortWidth = 8
)

// Encode packs rows and cols. Inputs are not validated; out-of-range values
// yield a malformed descriptor.
func Encode(rows, cols uint8) Descriptor {
	return Descriptor(rows | cols<<4)
}

// ValidShape reports whether rows in [3,5] and cols in [3, 8-rows].
func ValidShape(rows, cols uint8) bool {
	return rows >= MinRows && rows <= MaxRows &&
		cols >= MinCols && cols <= PortWidth-rows
}

// DecodeRows returns the row count held in d.
func DecodeRows(d Descriptor) uint8 { return uint8(d) & rowMask }

// DecodeCols returns the column count held in d.
func DecodeCols(d Descriptor) uint8 { return (uint8(d) & colMask) >> 4 }

func (d Descriptor) Rows() uint8 { return DecodeRows(d) }
func (d Descriptor) Cols() uint8 { return DecodeCols(d) }

// Valid reports whether d describes a supported shape with reserved bits clear.
func (d Descriptor) Valid() bool {
	return uint8(d)&^(rowMask|colMask) == 0 && ValidShape(d.Rows(), d.Cols())
}

// NoColumn is the column-read sentinel: the first invalid column index.
func (d Descriptor) NoColumn() uint8 { return d.Cols() }

// NoKey is the scan sentinel: the first invalid key index.
func (d Descriptor) NoKey() uint8 { return d.Rows() * d.Cols() }

// Key returns the row-major index of (row, col).
func (d Descriptor) Key(row, col uint8) uint8 { return row*d.Cols() + col }

// Split inverts Key. It is meaningless for key >= NoKey.
func (d Descriptor) Split(key uint8) (row, col uint8) {
	c := d.Cols()
	if c == 0 {
		return 0, 0
	}
	return key / c, key % c
}

// String renders the shape as "RxC(0xNN)" without fmt.
func (d Descriptor) String() string {
	const hex = "0123456789abcdef"
	b := [...]byte{
		'0' + d.Rows(), 'x', '0' + d.Cols(),
		'(', '0', 'x', hex[uint8(d)>>4], hex[uint8(d)&0x0F], ')',
	}
	return string(b[:])
}
