//go:build !tinygo

package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"matkey-go/drivers/matkey"
	"matkey-go/hwreg"
)

var (
	simRows     uint8
	simCols     uint8
	simPress    []string
	simBounce   int
	simRealTime bool
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Scan a simulated keypad",
	Long: `Run one debounced scan against an in-memory keypad. Keys given with --press
are held during the scan; the lowest row wins when several rows have a key
down. --bounce makes the column lines chatter for that many input reads before
they settle.

Examples:
  matkeyctl sim --press 1,2                     # key 5 on a 4x3 pad
  matkeyctl sim --rows 4 --cols 4 --press 3,3   # key 15 on a 4x4 pad
  matkeyctl sim --press 0,1 --bounce 3          # contact bounce on row 0`,
	RunE: runSim,
}

func init() {
	rootCmd.AddCommand(simCmd)

	simCmd.Flags().Uint8Var(&simRows, "rows", 4, "number of rows (3-5)")
	simCmd.Flags().Uint8Var(&simCols, "cols", 3, "number of columns (3 to 8-rows)")
	simCmd.Flags().StringSliceVarP(&simPress, "press", "p", nil, "held key as ROW,COL (repeatable)")
	simCmd.Flags().IntVar(&simBounce, "bounce", 0, "chattering input reads before the lines settle")
	simCmd.Flags().BoolVar(&simRealTime, "real-time", false, "wait the real debounce interval between samples")
}

func runSim(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	k := hwreg.NewKeypad(simRows, simCols)
	if err := pressAll(k, simPress, simRows, simCols); err != nil {
		return err
	}
	bank := hwreg.NewBank(0, 0, 0)
	bank.Input = chatter(k.Input, simRows, simCols, simBounce)

	cfg := matkey.Config{Rows: simRows, Cols: simCols}
	if !simRealTime {
		cfg.Sleep = func(time.Duration) {}
	}
	dev := matkey.New(bank.Group())
	if err := dev.Configure(cfg); err != nil {
		return err
	}

	d := dev.Descriptor()
	fmt.Fprintf(out, "keypad %s\n", d)
	key, ok, err := dev.Pressed()
	if err != nil {
		return err
	}
	if ok {
		row, col := d.Split(key)
		fmt.Fprintf(out, "key %d (row %d, col %d)\n", key, row, col)
	} else {
		fmt.Fprintf(out, "no key (%d)\n", d.NoKey())
	}
	if verbose {
		fmt.Fprintf(out, "input reads: %d\n", bank.Reads())
	}
	return nil
}

// chatter flips every column line on odd reads until n reads have passed.
func chatter(settled func(dir, out uint8) uint8, rows, cols uint8, n int) func(dir, out uint8) uint8 {
	if n <= 0 {
		return settled
	}
	mask := uint8((1<<cols)-1) << rows
	reads := 0
	return func(dir, out uint8) uint8 {
		v := settled(dir, out)
		if reads < n {
			reads++
			if reads%2 == 1 {
				v ^= mask
			}
		}
		return v
	}
}

func pressAll(k *hwreg.Keypad, keys []string, rows, cols uint8) error {
	for _, s := range keys {
		r, c, err := parseRowCol(s)
		if err != nil {
			return err
		}
		if r >= rows || c >= cols {
			return fmt.Errorf("key %s outside %dx%d pad", s, rows, cols)
		}
		k.Press(r, c)
	}
	return nil
}

func parseRowCol(s string) (row, col uint8, err error) {
	rs, cs, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("key %q: want ROW,COL", s)
	}
	r, err := strconv.ParseUint(strings.TrimSpace(rs), 10, 8)
	if err != nil {
		return 0, 0, fmt.Errorf("key %q: %w", s, err)
	}
	c, err := strconv.ParseUint(strings.TrimSpace(cs), 10, 8)
	if err != nil {
		return 0, 0, fmt.Errorf("key %q: %w", s, err)
	}
	return uint8(r), uint8(c), nil
}
