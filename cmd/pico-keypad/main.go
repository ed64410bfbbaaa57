//go:build rp2040

// Pico keypad firmware: scans the pad named by the embedded board config and
// writes one line per key event to UART0. Sending 'r' forces a scan and
// reports the current key.
package main

import (
	"context"
	"machine"
	"strconv"
	"time"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"

	"matkey-go/bus"
	"matkey-go/drivers/matkey"
	"matkey-go/internal/platform"
	"matkey-go/services/config"
	"matkey-go/services/heartbeat"
	"matkey-go/services/keypad"
	"matkey-go/types"
)

// board selects the embedded config; "pico" or "pico_expander".
var board = "pico"

const baud = 115200

func main() {
	println("[keypad] boot …")
	time.Sleep(1500 * time.Millisecond)

	u := uartx.UART0
	_ = u.Configure(uartx.UARTConfig{
		BaudRate: baud,
		TX:       machine.UART0_TX_PIN,
		RX:       machine.UART0_RX_PIN,
	})

	cfg, err := config.Lookup(board)
	if err != nil {
		fail(u, "config", err)
	}
	port, err := platform.Open(cfg)
	if err != nil {
		fail(u, "port", err)
	}
	dev := matkey.New(port.Regs)
	if err := dev.Configure(config.DeviceConfig(cfg)); err != nil {
		fail(u, "keypad", err)
	}
	println("[keypad]", dev.Descriptor().String(), "on", cfg.Port.Kind)

	ctx := context.Background()
	b := bus.NewBus(8)
	svc := keypad.New(cfg.Name, dev, config.PollInterval(cfg))
	svc.Start(ctx, b.NewConnection("keypad"))
	_ = (&heartbeat.Service{Interval: 10 * time.Second}).Start(ctx, b.NewConnection("heartbeat"))

	ui := b.NewConnection("ui")
	go readCommands(ctx, u, ui, svc.Topic("ctl", "read"))

	sub := ui.Subscribe(svc.Topic("#"))
	var line []byte
	for m := range sub.Channel() {
		line = line[:0]
		switch p := m.Payload.(type) {
		case types.KeyEvent:
			line = append(line, "key "...)
			line = strconv.AppendUint(line, uint64(p.Key), 10)
			if p.Pressed {
				line = append(line, " down"...)
			} else {
				line = append(line, " up"...)
			}
		case types.KeypadValue:
			line = append(line, "value "...)
			if p.Pressed {
				line = strconv.AppendUint(line, uint64(p.Key), 10)
			} else {
				line = append(line, '-')
			}
		case types.Status:
			line = append(line, "link "...)
			line = append(line, string(p.Link)...)
		case string:
			line = append(line, "error "...)
			line = append(line, p...)
		default:
			continue
		}
		line = append(line, '\r', '\n')
		_, _ = u.Write(line)
	}
}

// readCommands publishes a read request for every 'r' received.
func readCommands(ctx context.Context, u *uartx.UART, conn *bus.Connection, read bus.Topic) {
	var buf [16]byte
	for {
		n, err := u.RecvSomeContext(ctx, buf[:])
		if err != nil {
			return
		}
		for _, c := range buf[:n] {
			if c == 'r' || c == 'R' {
				conn.Publish(conn.NewMessage(read, true, false))
			}
		}
	}
}

func fail(u *uartx.UART, what string, err error) {
	msg := []byte("fatal " + what + ": " + err.Error() + "\r\n")
	for {
		println("[keypad] FAIL:", what, err.Error())
		_, _ = u.Write(msg)
		time.Sleep(2 * time.Second)
	}
}
