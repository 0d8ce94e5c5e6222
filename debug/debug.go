// Package debug holds environment controlled diagnostics for dirconf.
//
// Each channel is switched on by a boolean environment variable read once at
// start up:
//
//	DIRCONF_DEBUG_RESOLVE  schema declaration dispatch
//	DIRCONF_DEBUG_READ     per file reads
//	DIRCONF_DEBUG_WRITE    write plans and per file writes
//	DIRCONF_DEBUG_PATCH    patch application
//
// DIRCONF_LOG_LEVEL sets the level of the shared logger (default "warning").
package debug

import (
	"os"
	"strconv"
)

type debug struct {
	Resolve bool
	Read    bool
	Write   bool
	Patch   bool
}

var d *debug

func init() {
	d = &debug{}
	d.Resolve = boolEnv("DIRCONF_DEBUG_RESOLVE")
	d.Read = boolEnv("DIRCONF_DEBUG_READ")
	d.Write = boolEnv("DIRCONF_DEBUG_WRITE")
	d.Patch = boolEnv("DIRCONF_DEBUG_PATCH")
	if lvl := os.Getenv("DIRCONF_LOG_LEVEL"); lvl != "" {
		_ = SetLevel(lvl)
	}
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Resolve() bool {
	return d.Resolve
}
func Read() bool {
	return d.Read
}
func Write() bool {
	return d.Write
}
func Patch() bool {
	return d.Patch
}
