package debug

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var logger = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.WarnLevel)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return l
}

// Log returns the logger shared by all dirconf packages.
func Log() *logrus.Logger {
	return logger
}

// SetLevel parses a logrus level name and applies it to the shared logger.
func SetLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	logger.SetLevel(lvl)
	return nil
}

// SetOutput redirects the shared logger.
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

type Fields = logrus.Fields

// Logf writes a debug line for an enabled channel. Map and slice arguments
// are rendered as indented JSON.
func Logf(msg string, args ...any) {
	for i := range args {
		a := args[i]
		switch a.(type) {
		case map[string]any, []any, json.Marshaler:
			d, err := json.MarshalIndent(a, "   |", "  ")
			if err != nil {
				args[i] = fmt.Sprintf("%v", a)
				continue
			}
			args[i] = string(d)
		case bool, string, float64, int, int64:
		default:
		}
	}
	logger.Debugf(msg, args...)
}

// Enabled reports whether a channel flag is on and the logger would emit
// debug output, forcing the level down when the flag is set.
func Enabled(flag bool) bool {
	if !flag {
		return false
	}
	if !logger.IsLevelEnabled(logrus.DebugLevel) {
		logger.SetLevel(logrus.DebugLevel)
	}
	return true
}
