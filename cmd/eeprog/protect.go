package main

import (
	"github.com/spf13/cobra"

	"omibyte.io/eeprog/builder"
)

var (
	unlockCmd = &cobra.Command{
		Use:   "unlock",
		Short: "Disable software data protection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProgrammer(func(p *builder.Programmer) error {
				p.Controller.DisableSoftwareDataProtection()
				return nil
			})
		},
	}

	lockCmd = &cobra.Command{
		Use:   "lock",
		Short: "Enable software data protection",
		Long: `Send the software data protection enable sequence. The part locks once the
next byte write completes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProgrammer(func(p *builder.Programmer) error {
				p.Controller.EnableSoftwareDataProtection()
				return nil
			})
		},
	}
)
