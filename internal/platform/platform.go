// Package platform opens the register port a keypad config names. Which port
// kinds exist depends on the build: MCU builds reach memory-mapped ports,
// machine pins and I2C expanders; host builds reach Modbus, periph GPIO and
// Linux I2C. Every build has "sim".
package platform

import (
	"io"

	"matkey-go/errcode"
	"matkey-go/hwreg"
	"matkey-go/types"
)

// Port is an opened register port.
type Port struct {
	Regs hwreg.Group
	// Sim is the simulated key matrix for "sim" ports, nil otherwise.
	Sim *hwreg.Keypad

	closer io.Closer
}

// Close releases the transport behind the port, if any.
func (p *Port) Close() error {
	if p == nil || p.closer == nil {
		return nil
	}
	err := p.closer.Close()
	p.closer = nil
	return err
}

// Open builds the port described by cfg.Port.
func Open(cfg types.KeypadConfig) (*Port, error) {
	if cfg.Port.Kind == "sim" {
		k := hwreg.NewKeypad(cfg.Rows, cfg.Cols)
		return &Port{Regs: k.Attach(hwreg.NewBank(0, 0, 0)).Group(), Sim: k}, nil
	}
	return open(cfg)
}

func layout(pc types.PortConfig) (hwreg.Layout, error) {
	if pc.Layout == "" {
		return hwreg.LinearLayout, nil
	}
	l, err := hwreg.ParseLayout(pc.Layout)
	if err != nil {
		return l, errcode.Wrap(errcode.InvalidParams, "platform", err)
	}
	return l, nil
}

func unsupported(kind string) error {
	return &errcode.E{C: errcode.Unsupported, Op: "platform", Msg: "port kind " + kind + " not available in this build"}
}
