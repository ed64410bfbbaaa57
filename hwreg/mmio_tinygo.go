//go:build tinygo

package hwreg

import (
	"runtime/volatile"
	"unsafe"
)

// At returns the memory-mapped 8-bit register at addr.
func At(addr uintptr) *volatile.Register8 {
	return (*volatile.Register8)(unsafe.Pointer(addr))
}

// MMIO returns the port whose registers sit at base plus the layout offsets.
func MMIO(base uintptr, l Layout) Group {
	return Group{
		Dir: At(base + l.Dir),
		Out: At(base + l.Out),
		In:  At(base + l.In),
	}
}
