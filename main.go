//go:build tinygo && avr

package main

import (
	"context"
	"time"

	"matkey-go/bus"
	"matkey-go/drivers/matkey"
	"matkey-go/internal/platform"
	"matkey-go/services/config"
	"matkey-go/services/heartbeat"
	"matkey-go/services/keypad"
	"matkey-go/types"
)

// board selects the embedded config; set with -ldflags "-X main.board=pico".
var board = "uno"

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("boot", board)

	cfg, err := config.Lookup(board)
	if err != nil {
		halt("config:", err)
	}
	port, err := platform.Open(cfg)
	if err != nil {
		halt("port:", err)
	}
	dev := matkey.New(port.Regs)
	if err := dev.Configure(config.DeviceConfig(cfg)); err != nil {
		halt("keypad:", err)
	}
	println("Info: keypad", dev.Descriptor().String(), "on", cfg.Port.Kind)

	ctx := context.Background()
	b := bus.NewBus(8)
	svc := keypad.New(cfg.Name, dev, config.PollInterval(cfg))
	svc.Start(ctx, b.NewConnection("keypad"))
	_ = (&heartbeat.Service{Interval: 5 * time.Second}).Start(ctx, b.NewConnection("heartbeat"))

	ui := b.NewConnection("ui")
	events := ui.Subscribe(svc.Topic("event"))
	for m := range events.Channel() {
		if ev, ok := m.Payload.(types.KeyEvent); ok {
			if ev.Pressed {
				println("key", ev.Key, "down", "row", ev.Row, "col", ev.Col)
			} else {
				println("key", ev.Key, "up")
			}
		}
	}
}

func halt(what string, err error) {
	for {
		println("Error:", what, err.Error())
		time.Sleep(time.Second)
	}
}
