package matkey

import (
	"errors"
	"time"

	"matkey-go/errcode"
	"matkey-go/hwreg"
	"matkey-go/types"
)

// Errors returned by Device.
var (
	ErrNotConfigured = errors.New("matkey: not configured")
)

// Config controls the keypad shape and debounce policy. Zero debounce fields
// take the package defaults.
type Config struct {
	Rows uint8
	Cols uint8

	Interval time.Duration
	Stable   int
	Attempts int
	// Sleep overrides the busy-wait between samples (tests, cooperative
	// schedulers).
	Sleep func(time.Duration)
}

// Device is a keypad on one port. It checks the shape on Configure and
// reports transport faults, which the bare functions cannot.
type Device struct {
	regs hwreg.Group
	desc Descriptor
	scn  Scanner
}

// New creates a Device on regs. It does not touch the hardware.
func New(regs hwreg.Group) *Device {
	return &Device{regs: regs}
}

// Configure validates the shape, sets up the pins and idles all rows high.
func (d *Device) Configure(cfg Config) error {
	if !ValidShape(cfg.Rows, cfg.Cols) {
		return &errcode.E{C: errcode.InvalidShape, Op: "configure", Msg: Encode(cfg.Rows, cfg.Cols).String()}
	}
	d.scn = Scanner{
		Interval: cfg.Interval,
		Stable:   cfg.Stable,
		Attempts: cfg.Attempts,
		Sleep:    cfg.Sleep,
	}
	d.regs.ClearErr()
	desc := Configure(d.regs, cfg.Rows, cfg.Cols)
	ResetRows(d.regs.Out, desc)
	if err := d.regs.Err(); err != nil {
		return errcode.Wrap(errcode.BusFault, "configure", err)
	}
	d.desc = desc
	return nil
}

// Descriptor returns the configured shape, or 0 before Configure.
func (d *Device) Descriptor() Descriptor { return d.desc }

// Scan performs one full scan and returns the key index or NoKey.
func (d *Device) Scan() (uint8, error) {
	if d.desc == 0 {
		return 0, ErrNotConfigured
	}
	d.regs.ClearErr()
	key := d.scn.Scan(d.regs, d.desc)
	if err := d.regs.Err(); err != nil {
		return d.desc.NoKey(), errcode.Wrap(errcode.BusFault, "scan", err)
	}
	return key, nil
}

// Pressed reports the held key, if any.
func (d *Device) Pressed() (key uint8, ok bool, err error) {
	key, err = d.Scan()
	if err != nil {
		return 0, false, err
	}
	if key >= d.desc.NoKey() {
		return 0, false, nil
	}
	return key, true, nil
}

// Info describes the configured keypad.
func (d *Device) Info() types.KeypadInfo {
	iv, st, at, _ := d.scn.params()
	return types.KeypadInfo{
		Rows:       d.desc.Rows(),
		Cols:       d.desc.Cols(),
		Descriptor: uint8(d.desc),
		Keys:       d.desc.NoKey(),
		DebounceUs: uint32(iv / time.Microsecond),
		Stable:     uint8(st),
		Attempts:   uint8(at),
	}
}
