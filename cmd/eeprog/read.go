package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"omibyte.io/eeprog/builder"
	"omibyte.io/eeprog/image"
)

var (
	dumpOpts = struct {
		start  string
		length int
		format string
	}{}

	readCmd = &cobra.Command{
		Use:   "read ADDR",
		Short: "Read one byte",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := parseAddress(args[0])
			if err != nil {
				return err
			}
			return withProgrammer(func(p *builder.Programmer) error {
				fmt.Fprintf(cmd.OutOrStdout(), "0x%04X: 0x%02X\n", addr, p.Controller.ReadByte(addr))
				return nil
			})
		},
	}

	dumpCmd = &cobra.Command{
		Use:   "dump",
		Short: "Print a range of the part",
		Long: `Print a range of the part as a hex listing or as ASCII-hex records.
Addresses the rig cannot reach read as 0xFF.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseAddress(dumpOpts.start)
			if err != nil {
				return err
			}
			return withProgrammer(func(p *builder.Programmer) error {
				length := dumpOpts.length
				if length <= 0 {
					length = p.Controller.Limit() - int(start)
				}
				if length <= 0 {
					return nil
				}
				data := p.Controller.Dump(start, length)

				switch dumpOpts.format {
				case "asciihex":
					return image.WriteASCIIHex(cmd.OutOrStdout(), image.Image{Start: start, Data: data})
				case "hex":
					return image.WriteHexDump(cmd.OutOrStdout(), start, data, dumpWidth())
				}
				return fmt.Errorf("unknown dump format %q", dumpOpts.format)
			})
		},
	}
)

func dumpWidth() int {
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if cols, _, err := term.GetSize(fd); err == nil {
			return image.DumpWidth(cols)
		}
	}
	return image.BytesPerRecord
}

func init() {
	dumpCmd.Flags().StringVar(&dumpOpts.start, "start", "0", "first address")
	dumpCmd.Flags().IntVarP(&dumpOpts.length, "length", "n", 0, "number of bytes. Default: up to the end of the window")
	dumpCmd.Flags().StringVarP(&dumpOpts.format, "format", "f", "hex", "output format (=hex, =asciihex)")
}
