package builder

import (
	"time"

	log "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
)

type Options struct {
	Target      string
	TargetsFile string

	Simulate     bool
	SimImage     string
	SimWriteTime time.Duration

	// Lookup resolves hardware pin names. It defaults to gpioreg.ByName after
	// the periph host drivers are loaded.
	Lookup func(name string) gpio.PinIO

	Environment Env
	Logger      log.FieldLogger
}

// OptionsFromEnvironment fills an Options from env.
func OptionsFromEnvironment(env Env) Options {
	return Options{
		Target:      env.Value("EEPROG_TARGET"),
		TargetsFile: env.Value("EEPROG_TARGETS"),
		Simulate:    env.Bool("EEPROG_SIM"),
		SimImage:    env.Value("EEPROG_SIM_IMAGE"),
		Environment: env,
	}
}
