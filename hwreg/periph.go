//go:build !tinygo

package hwreg

import (
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"

	"matkey-go/errcode"
)

type periphPin struct{ p gpio.PinIO }

// PeriphPin adapts a periph.io pin for use in a PinPort on Linux hosts.
func PeriphPin(p gpio.PinIO) Pin { return periphPin{p: p} }

// PeriphPins resolves pins by name (e.g. "GPIO17") in bit order. The periph
// host drivers must already be initialised.
func PeriphPins(names ...string) ([]Pin, error) {
	out := make([]Pin, len(names))
	for i, n := range names {
		p := gpioreg.ByName(n)
		if p == nil {
			return nil, &errcode.E{C: errcode.UnknownPin, Op: "periph", Msg: n}
		}
		out[i] = periphPin{p: p}
	}
	return out, nil
}

func (pp periphPin) ConfigureInput(p Pull) error {
	pull := gpio.Float
	switch p {
	case PullUp:
		pull = gpio.PullUp
	case PullDown:
		pull = gpio.PullDown
	}
	return pp.p.In(pull, gpio.NoEdge)
}

func (pp periphPin) ConfigureOutput(initial bool) error { return pp.p.Out(gpio.Level(initial)) }
func (pp periphPin) Set(b bool)                         { _ = pp.p.Out(gpio.Level(b)) }
func (pp periphPin) Get() bool                          { return pp.p.Read() == gpio.High }
