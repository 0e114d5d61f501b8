package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"omibyte.io/eeprog/builder"
	"omibyte.io/eeprog/image"
)

var (
	imageOpts = struct {
		start  string
		format string
	}{}

	writeCmd = &cobra.Command{
		Use:   "write ADDR BYTE",
		Short: "Write one byte",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := parseAddress(args[0])
			if err != nil {
				return err
			}
			data, err := parseByte(args[1])
			if err != nil {
				return err
			}
			return withProgrammer(func(p *builder.Programmer) error {
				return p.Controller.WriteByte(addr, data)
			})
		},
	}

	eraseCmd = &cobra.Command{
		Use:   "erase",
		Short: "Fill the reachable window with 0xFF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProgrammer(func(p *builder.Programmer) error {
				if err := p.Controller.Erase(); err != nil {
					return err
				}
				printStats(cmd, p.Controller.Stats())
				return nil
			})
		},
	}

	programCmd = &cobra.Command{
		Use:   "program FILE",
		Short: "Write an image and verify it",
		Long: `Write an image to the part, then read it back and compare. The status LED
blinks five times on success and once on failure.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := loadImage(args[0])
			if err != nil {
				return err
			}
			return withProgrammer(func(p *builder.Programmer) error {
				log.Infof("programming %s", img)
				if err := p.Controller.WriteBlock(img.Start, img.Data); err != nil {
					p.Blink(1)
					return err
				}
				log.Info("programming completed")
				printStats(cmd, p.Controller.Stats())
				p.Blink(5)
				return nil
			})
		},
	}

	verifyCmd = &cobra.Command{
		Use:   "verify FILE",
		Short: "Compare the part against an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := loadImage(args[0])
			if err != nil {
				return err
			}
			return withProgrammer(func(p *builder.Programmer) error {
				if err := p.Controller.Verify(img.Start, img.Data); err != nil {
					p.Blink(1)
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "verified %s\n", img)
				return nil
			})
		},
	}
)

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return image.Image{}, err
	}
	defer f.Close()

	switch imageOpts.format {
	case "bin":
		start, err := parseAddress(imageOpts.start)
		if err != nil {
			return image.Image{}, err
		}
		return image.ReadBinary(f, start)
	case "asciihex":
		return image.ParseASCIIHex(f)
	}
	return image.Image{}, fmt.Errorf("unknown image format %q", imageOpts.format)
}

func init() {
	for _, cmd := range []*cobra.Command{programCmd, verifyCmd} {
		cmd.Flags().StringVar(&imageOpts.start, "start", "0", "load address of a binary image")
		cmd.Flags().StringVarP(&imageOpts.format, "format", "f", "bin", "image format (=bin, =asciihex)")
	}
}
