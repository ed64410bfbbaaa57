//go:build !tinygo

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"matkey-go/bus"
	"matkey-go/drivers/matkey"
	"matkey-go/internal/platform"
	"matkey-go/services/config"
	"matkey-go/services/keypad"
	"matkey-go/types"
)

var (
	watchConfig   string
	watchBoard    string
	watchPress    []string
	watchDuration time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll a keypad and print key events",
	Long: `Run the keypad service against the port named in a YAML config (or an
embedded board config) and print every press and release until interrupted.

Examples:
  matkeyctl watch --config keypad.yaml          # Modbus, periph GPIO or I2C expander
  matkeyctl watch --board sim --press 2,0       # simulated pad with one key held
  matkeyctl watch --config keypad.yaml --duration 30s`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVarP(&watchConfig, "config", "c", "", "YAML keypad config file")
	watchCmd.Flags().StringVarP(&watchBoard, "board", "b", "sim", "embedded board config, used without --config")
	watchCmd.Flags().StringSliceVarP(&watchPress, "press", "p", nil, "sim only: held key as ROW,COL (repeatable)")
	watchCmd.Flags().DurationVarP(&watchDuration, "duration", "d", 0, "stop after this long (0 = until interrupted)")
}

func loadConfig() (types.KeypadConfig, error) {
	if watchConfig != "" {
		return config.LoadFile(watchConfig)
	}
	return config.Lookup(watchBoard)
}

func runWatch(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	port, err := platform.Open(cfg)
	if err != nil {
		return fmt.Errorf("open %s port: %w", cfg.Port.Kind, err)
	}
	defer port.Close()

	dcfg := config.DeviceConfig(cfg)
	if port.Sim != nil {
		dcfg.Sleep = func(time.Duration) {}
		if err := pressAll(port.Sim, watchPress, cfg.Rows, cfg.Cols); err != nil {
			return err
		}
	} else if len(watchPress) > 0 {
		return errors.New("--press needs a sim port")
	}

	dev := matkey.New(port.Regs)
	if err := dev.Configure(dcfg); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	if watchDuration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, watchDuration)
		defer cancel()
	}

	b := bus.NewBus(32)
	conn := b.NewConnection("matkeyctl")
	defer conn.Disconnect()
	svc := keypad.New(cfg.Name, dev, config.PollInterval(cfg))
	sub := conn.Subscribe(svc.Topic(bus.WildRest))

	fmt.Fprintf(out, "watching %s: %s on %s port\n", cfg.Name, dev.Descriptor(), cfg.Port.Kind)
	svc.Start(ctx, conn)

	for {
		select {
		case <-ctx.Done():
			return nil
		case m := <-sub.Channel():
			printMessage(out, dev.Descriptor(), m)
		}
	}
}

func printMessage(w io.Writer, d matkey.Descriptor, m *bus.Message) {
	switch p := m.Payload.(type) {
	case types.KeyEvent:
		verb := "release"
		if p.Pressed {
			verb = "press"
		}
		fmt.Fprintf(w, "%s key %d (row %d, col %d)\n", verb, p.Key, p.Row, p.Col)
	case types.Status:
		fmt.Fprintf(w, "link %s\n", p.Link)
	case string:
		fmt.Fprintf(w, "error %s\n", p)
	default:
		if verbose {
			fmt.Fprintf(w, "%s: %+v\n", m.Topic, p)
		}
	}
}
