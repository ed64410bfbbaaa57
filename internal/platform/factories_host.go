//go:build !tinygo

package platform

import (
	"time"

	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"matkey-go/errcode"
	"matkey-go/hwreg"
	"matkey-go/types"
)

const defaultModbusTimeout = time.Second

func open(cfg types.KeypadConfig) (*Port, error) {
	pc := cfg.Port
	switch pc.Kind {
	case "modbus":
		l, err := layout(pc)
		if err != nil {
			return nil, err
		}
		timeout := time.Duration(pc.TimeoutMs) * time.Millisecond
		if timeout == 0 {
			timeout = defaultModbusTimeout
		}
		c, closer, err := hwreg.DialModbusTCP(pc.Endpoint, pc.UnitID, timeout)
		if err != nil {
			return nil, errcode.Wrap(errcode.BusFault, "platform", err)
		}
		return &Port{Regs: hwreg.NewModbusPort(c, uint16(pc.Base), l).Group(), closer: closer}, nil

	case "periph":
		if _, err := host.Init(); err != nil {
			return nil, errcode.Wrap(errcode.Error, "platform", err)
		}
		pins, err := hwreg.PeriphPins(pc.PinNames...)
		if err != nil {
			return nil, err
		}
		return &Port{Regs: hwreg.NewPinPort(pins...).Group()}, nil

	case "pca9554", "tca9554", "mcp23008":
		if _, err := host.Init(); err != nil {
			return nil, errcode.Wrap(errcode.Error, "platform", err)
		}
		// periph buses satisfy drivers.I2C directly.
		b, err := i2creg.Open(pc.Bus)
		if err != nil {
			return nil, errcode.Wrap(errcode.BusFault, "platform", err)
		}
		g, _ := hwreg.ExpanderGroup(pc.Kind, b, pc.Address)
		return &Port{Regs: g, closer: b}, nil
	}
	return nil, unsupported(pc.Kind)
}
