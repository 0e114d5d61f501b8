package builder

import (
	"fmt"
	"os"
	"strconv"
)

// DefaultTarget is used when neither a flag nor EEPROG_TARGET names a rig.
const DefaultTarget = "nano-shift"

type Env map[string]string

func Environment() Env {
	return map[string]string{
		"EEPROG_TARGET":    getenv("EEPROG_TARGET", DefaultTarget),
		"EEPROG_TARGETS":   getenv("EEPROG_TARGETS", ""),
		"EEPROG_SIM":       getenv("EEPROG_SIM", "false"),
		"EEPROG_SIM_IMAGE": getenv("EEPROG_SIM_IMAGE", ""),
	}
}

func (e Env) Print() {
	for k, v := range e {
		fmt.Printf("set %s=%s\n", k, v)
	}
}

func (e Env) Value(key string) string {
	if v, ok := e[key]; ok {
		return v
	}
	return ""
}

// Bool reports whether key holds a true value as understood by
// strconv.ParseBool. Anything unparsable is false.
func (e Env) Bool(key string) bool {
	v, err := strconv.ParseBool(e.Value(key))
	return err == nil && v
}

func (e Env) List() []string {
	var result []string
	for key, value := range e {
		result = append(result, fmt.Sprintf("%s=%s", key, value))
	}
	return result
}

func getenv(key, _default string) (value string) {
	value = os.Getenv(key)
	if len(value) == 0 {
		value = _default
	}
	return value
}
