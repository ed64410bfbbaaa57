//go:build tinygo && !rp2040 && !rp2350

package platform

import "tinygo.org/x/drivers"

func i2cBus(string) (drivers.I2C, bool) { return nil, false }
