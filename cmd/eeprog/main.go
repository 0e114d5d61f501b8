package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"omibyte.io/eeprog/builder"
	"omibyte.io/eeprog/eeprom"
	"omibyte.io/eeprog/sim"
)

var (
	rootOpts = struct {
		target       string
		targetsFile  string
		simulate     bool
		simImage     string
		simWriteTime time.Duration
		verbose      bool
	}{}

	rootCmd = &cobra.Command{
		Use:   "eeprog",
		Short: "Program 28C256 parallel EEPROMs",
		Long: `Read, write, erase, program and verify 28C256-class parallel EEPROMs
through a GPIO rig, or through a simulated part with --sim.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if rootOpts.verbose {
				log.SetLevel(log.DebugLevel)
			}
		},
	}
)

func init() {
	env := builder.Environment()
	rootCmd.PersistentFlags().StringVarP(&rootOpts.target, "target", "t", env["EEPROG_TARGET"], "target rig. Default: $EEPROG_TARGET")
	rootCmd.PersistentFlags().StringVar(&rootOpts.targetsFile, "targets", env["EEPROG_TARGETS"], "target table overriding the built-in one. Default: $EEPROG_TARGETS")
	rootCmd.PersistentFlags().BoolVar(&rootOpts.simulate, "sim", env.Bool("EEPROG_SIM"), "use a simulated part instead of GPIO. Default: $EEPROG_SIM")
	rootCmd.PersistentFlags().StringVar(&rootOpts.simImage, "sim-image", env["EEPROG_SIM_IMAGE"], "file holding the simulated part's contents between runs")
	rootCmd.PersistentFlags().DurationVar(&rootOpts.simWriteTime, "sim-write-time", sim.DefaultWriteTime, "write cycle of the simulated part")
	rootCmd.PersistentFlags().BoolVarP(&rootOpts.verbose, "verbose", "v", false, "increase logging verbosity")

	rootCmd.AddCommand(targetsCmd, readCmd, writeCmd, eraseCmd, dumpCmd, programCmd, verifyCmd, unlockCmd, lockCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func openProgrammer() (*builder.Programmer, error) {
	return builder.Build(builder.Options{
		Target:       rootOpts.target,
		TargetsFile:  rootOpts.targetsFile,
		Simulate:     rootOpts.simulate,
		SimImage:     rootOpts.simImage,
		SimWriteTime: rootOpts.simWriteTime,
		Environment:  builder.Environment(),
	})
}

// withProgrammer runs fn against a freshly built programmer and closes it
// afterwards, reporting the first error of the two.
func withProgrammer(fn func(p *builder.Programmer) error) error {
	p, err := openProgrammer()
	if err != nil {
		return err
	}
	err = fn(p)
	if closeErr := p.Close(); err == nil {
		err = closeErr
	}
	return err
}

func parseAddress(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q", s)
	}
	return uint16(v), nil
}

func parseByte(s string) (uint8, error) {
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid byte %q", s)
	}
	return uint8(v), nil
}

func printStats(cmd *cobra.Command, s eeprom.WriteStats) {
	if s.Count == 0 {
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d writes, cycle mean %v, stddev %v, max %v\n", s.Count, s.Mean, s.StdDev, s.Max)
}
