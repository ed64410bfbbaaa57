//go:build tinygo

package hwreg

import "machine"

type machinePin struct{ p machine.Pin }

// MachinePin adapts a TinyGo machine.Pin for use in a PinPort.
func MachinePin(p machine.Pin) Pin { return machinePin{p: p} }

// MachinePins adapts pins by number in bit order.
func MachinePins(nums ...int) []Pin {
	out := make([]Pin, len(nums))
	for i, n := range nums {
		out[i] = machinePin{p: machine.Pin(n)}
	}
	return out
}

func (m machinePin) ConfigureInput(p Pull) error {
	var mode machine.PinMode
	switch p {
	case PullUp:
		mode = machine.PinInputPullup
	default:
		mode = machine.PinInput
	}
	m.p.Configure(machine.PinConfig{Mode: mode})
	return nil
}

func (m machinePin) ConfigureOutput(initial bool) error {
	m.p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	m.p.Set(initial)
	return nil
}

func (m machinePin) Set(b bool) { m.p.Set(b) }
func (m machinePin) Get() bool  { return m.p.Get() }
