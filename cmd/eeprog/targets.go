package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"omibyte.io/eeprog/targets"
)

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "List the known rigs",
	RunE: func(cmd *cobra.Command, args []string) error {
		all := targets.All()
		if rootOpts.targetsFile != "" {
			f, err := os.Open(rootOpts.targetsFile)
			if err != nil {
				return err
			}
			defer f.Close()
			if all, err = targets.Load(f); err != nil {
				return err
			}
		}

		for _, name := range all.Names() {
			t, _ := all.FindByName(name)
			fmt.Fprintf(cmd.OutOrStdout(), "%-12s %-8s %2d bits  %s\n", t.Name, t.Bus, t.AddressBits, t.Description)
		}
		return nil
	},
}
