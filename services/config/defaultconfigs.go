package config

// -----------------------------------------------------------------------------
// Embedded configuration
//
// Key: board name. Val: raw JSON for that board's keypad.
// -----------------------------------------------------------------------------

// ATmega328P, keypad on PORTB. Base is PINB (0x23); DDRB and PORTB follow.
const cfgUno = `{
  "name": "keypad",
  "rows": 4,
  "cols": 3,
  "poll_ms": 20,
  "port": { "kind": "mmio", "base": 35, "layout": "avr" }
}`

// Raspberry Pi Pico, rows on GP2..GP5, columns on GP6..GP8.
const cfgPico = `{
  "name": "keypad",
  "rows": 4,
  "cols": 3,
  "poll_ms": 20,
  "port": { "kind": "pins", "pins": [2, 3, 4, 5, 6, 7, 8] }
}`

// Pico with a 4x4 pad behind a PCA9554 on i2c0.
const cfgPicoExpander = `{
  "name": "keypad",
  "rows": 4,
  "cols": 4,
  "poll_ms": 25,
  "port": { "kind": "pca9554", "bus": "i2c0", "address": 32 }
}`

const cfgSim = `{
  "name": "sim",
  "rows": 4,
  "cols": 3,
  "port": { "kind": "sim" }
}`

var embeddedConfigs = map[string][]byte{
	"uno":           []byte(cfgUno),
	"pico":          []byte(cfgPico),
	"pico_expander": []byte(cfgPicoExpander),
	"sim":           []byte(cfgSim),
}
