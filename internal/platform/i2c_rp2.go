//go:build rp2040 || rp2350

package platform

import (
	"machine"

	"tinygo.org/x/drivers"
)

// i2cBus configures i2c0 or i2c1 on the board-default pins at 400 kHz.
func i2cBus(id string) (drivers.I2C, bool) {
	var (
		b        *machine.I2C
		sda, scl machine.Pin
	)
	switch id {
	case "", "i2c0":
		b, sda, scl = machine.I2C0, machine.I2C0_SDA_PIN, machine.I2C0_SCL_PIN
	case "i2c1":
		b, sda, scl = machine.I2C1, machine.I2C1_SDA_PIN, machine.I2C1_SCL_PIN
	default:
		return nil, false
	}
	_ = b.Configure(machine.I2CConfig{Frequency: 400 * machine.KHz, SDA: sda, SCL: scl})
	return b, true
}
