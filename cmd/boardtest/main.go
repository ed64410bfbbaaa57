//go:build tinygo

// cmd/boardtest/main.go
//
// Keypad wiring test. Walks the rows one at a time and prints the raw input
// byte, the first low column and the debounced column, then a full scan. Hold
// keys while it runs to check each row and column line.
package main

import (
	"fmt"
	"time"

	"matkey-go/drivers/matkey"
	"matkey-go/hwreg"
	"matkey-go/internal/platform"
	"matkey-go/services/config"
)

// ---------- Configuration ----------

const (
	// Pause between passes
	dwell = 2 * time.Second

	// Cycles: 0 = loop forever
	cyclesToRun = 0
)

var board = "pico"

// ---------- Helpers ----------

func walkRows(g hwreg.Group, d matkey.Descriptor, s *matkey.Scanner) {
	for r := uint8(0); r < d.Rows(); r++ {
		matkey.ResetRows(g.Out, d)
		matkey.AssertRowLow(g.Out, r)
		raw := g.In.Get()
		first := matkey.ReadColumns(g.In, d)
		settled := s.ReadColumnsDebounced(g.In, d)
		fmt.Printf("  row %d  in=0b%08b  col=%s  settled=%s\n", r, raw, colName(d, first), colName(d, settled))
	}
	matkey.ResetRows(g.Out, d)
}

func colName(d matkey.Descriptor, c uint8) string {
	if c >= d.NoColumn() {
		return "-"
	}
	return fmt.Sprint(c)
}

// ---------- Main ----------

func main() {
	time.Sleep(2 * time.Second)
	fmt.Println("[boardtest] start, board", board)

	cfg, err := config.Lookup(board)
	if err != nil {
		fmt.Println("[boardtest] FAIL: config:", err)
		return
	}
	port, err := platform.Open(cfg)
	if err != nil {
		fmt.Println("[boardtest] FAIL: port:", err)
		return
	}
	g := port.Regs
	d := matkey.Configure(g, cfg.Rows, cfg.Cols)
	matkey.ResetRows(g.Out, d)
	dc := config.DeviceConfig(cfg)
	s := &matkey.Scanner{Interval: dc.Interval, Stable: dc.Stable, Attempts: dc.Attempts}

	fmt.Printf("[boardtest] %s: %d keys, dir=0b%08b out=0b%08b\n", d, d.NoKey(), g.Dir.Get(), g.Out.Get())

	for cycle := 1; cyclesToRun == 0 || cycle <= cyclesToRun; cycle++ {
		fmt.Printf("[boardtest] pass %d\n", cycle)
		walkRows(g, d, s)
		key := s.Scan(g, d)
		if key < d.NoKey() {
			row, col := d.Split(key)
			fmt.Printf("  scan: key %d (row %d, col %d)\n", key, row, col)
		} else {
			fmt.Println("  scan: no key")
		}
		if err := g.Err(); err != nil {
			fmt.Println("  port fault:", err)
			g.ClearErr()
		}
		time.Sleep(dwell)
	}
	fmt.Println("[boardtest] done")
}
