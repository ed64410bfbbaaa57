//go:build !tinygo

// Package cmd implements the matkeyctl host tool.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "matkeyctl",
	Short: "Matrix keypad descriptor and scan tool",
	Long: `Encode and decode keypad descriptors, run the scanner against a simulated
keypad, and watch a real keypad behind a Modbus bridge, Linux GPIO or an I2C
expander.

Examples:
  matkeyctl encode 4 3                          # descriptor for a 4x3 pad
  matkeyctl decode 0x34                         # rows and columns of a descriptor
  matkeyctl sim --press 1,2                     # scan a simulated pad with one key held
  matkeyctl watch --config keypad.yaml          # stream key events`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
