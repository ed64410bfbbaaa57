//go:build tinygo

package platform

import (
	"matkey-go/errcode"
	"matkey-go/hwreg"
	"matkey-go/types"
)

func open(cfg types.KeypadConfig) (*Port, error) {
	pc := cfg.Port
	switch pc.Kind {
	case "mmio":
		l, err := layout(pc)
		if err != nil {
			return nil, err
		}
		return &Port{Regs: hwreg.MMIO(uintptr(pc.Base), l)}, nil

	case "pins":
		return &Port{Regs: hwreg.NewPinPort(hwreg.MachinePins(pc.Pins...)...).Group()}, nil

	case "pca9554", "tca9554", "mcp23008":
		b, ok := i2cBus(pc.Bus)
		if !ok {
			return nil, &errcode.E{C: errcode.UnknownPort, Op: "platform", Msg: "i2c bus " + pc.Bus}
		}
		g, _ := hwreg.ExpanderGroup(pc.Kind, b, pc.Address)
		return &Port{Regs: g}, nil
	}
	return nil, unsupported(pc.Kind)
}
