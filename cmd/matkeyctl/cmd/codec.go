//go:build !tinygo

package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"matkey-go/drivers/matkey"
)

var encodeCmd = &cobra.Command{
	Use:   "encode ROWS COLS",
	Short: "Pack a keypad shape into a descriptor byte",
	Long: `Pack ROWS into bits 0-2 and COLS into bits 4-6 of a descriptor byte.
Shapes outside 3..5 rows or 3..(8-ROWS) columns are encoded anyway and flagged
as invalid.`,
	Args: cobra.ExactArgs(2),
	RunE: runEncode,
}

var decodeCmd = &cobra.Command{
	Use:   "decode DESC",
	Short: "Show the shape packed in a descriptor byte",
	Long: `Decode a descriptor given in decimal, hex (0x34) or binary (0b00110100)
and print its rows, columns, key count and sentinels.`,
	Args: cobra.ExactArgs(1),
	RunE: runDecode,
}

func init() {
	rootCmd.AddCommand(encodeCmd)
	rootCmd.AddCommand(decodeCmd)
}

func runEncode(cmd *cobra.Command, args []string) error {
	rows, err := parseByte(args[0])
	if err != nil {
		return fmt.Errorf("rows: %w", err)
	}
	cols, err := parseByte(args[1])
	if err != nil {
		return fmt.Errorf("cols: %w", err)
	}
	printDescriptor(cmd.OutOrStdout(), matkey.Encode(rows, cols))
	return nil
}

func runDecode(cmd *cobra.Command, args []string) error {
	v, err := parseByte(args[0])
	if err != nil {
		return fmt.Errorf("descriptor: %w", err)
	}
	printDescriptor(cmd.OutOrStdout(), matkey.Descriptor(v))
	return nil
}

func printDescriptor(w io.Writer, d matkey.Descriptor) {
	fmt.Fprintf(w, "descriptor 0x%02X (0b%08b)\n", uint8(d), uint8(d))
	fmt.Fprintf(w, "  rows:      %d\n", d.Rows())
	fmt.Fprintf(w, "  cols:      %d\n", d.Cols())
	if !d.Valid() {
		fmt.Fprintln(w, "  shape:     invalid")
		return
	}
	fmt.Fprintf(w, "  keys:      %d\n", d.NoKey())
	fmt.Fprintf(w, "  no column: %d\n", d.NoColumn())
	fmt.Fprintf(w, "  no key:    %d\n", d.NoKey())
}

// parseByte accepts any base strconv understands with a 0 base.
func parseByte(s string) (uint8, error) {
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, err
	}
	return uint8(v), nil
}
