// Package logging builds the diagnostic logger shared by all commands.
//
// Diagnostics go to stderr through hclog; command results are printed to
// the command's output stream and are not log messages.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// EnvLog names the environment variable that sets the log level when no
// level is given on the command line.
const EnvLog = "WORKMAN_LOG"

// DefaultLevel is used when neither the flag nor the environment set a
// level.
const DefaultLevel = hclog.Warn

// New returns the root "workman" logger writing to w. level is a name such
// as "debug" or "error"; an empty level falls back to $WORKMAN_LOG and then
// to DefaultLevel.
func New(level string, w io.Writer) hclog.Logger {
	if w == nil {
		w = os.Stderr
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "workman",
		Level:  Level(level),
		Output: w,
	})
}

// Level resolves a level name, consulting $WORKMAN_LOG when name is empty.
func Level(name string) hclog.Level {
	if name == "" {
		name = os.Getenv(EnvLog)
	}
	if name == "" {
		return DefaultLevel
	}
	lvl := hclog.LevelFromString(strings.TrimSpace(name))
	if lvl == hclog.NoLevel {
		return DefaultLevel
	}
	return lvl
}
