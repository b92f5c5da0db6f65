// Package logger configures leveled logging for the demo commands.
package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/op/go-logging"
	"github.com/urfave/cli/v2"
)

// LevelFlag selects the logging level of a command.
var LevelFlag = cli.StringFlag{
	Name:    "log",
	Aliases: []string{"l"},
	Usage:   "logging level: critical, error, warning, notice, info or debug",
	Value:   "info",
}

const format = "%{time:2006/01/02 15:04:05} %{color}%{level:-8s} %{shortpkg}/%{shortfunc}%{color:reset}: %{message}"

// Logger is the subset of logging.Logger used by the commands.
//
// Warning marks a chain that stopped early or a degraded result. Notice marks
// a milestone such as an output file being written. Info reports progress
// that repeats, and Debug reports per-iteration detail.
type Logger interface {
	Errorf(format string, args ...interface{})
	Warningf(format string, args ...interface{})
	Noticef(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

// New returns a logger for module writing to stdout at the named level.
// Unknown levels fall back to info.
func New(level, module string) *logging.Logger {
	return NewTo(os.Stdout, level, module)
}

// NewTo is New with an explicit destination.
func NewTo(w io.Writer, level, module string) *logging.Logger {
	backend := logging.NewBackendFormatter(
		logging.NewLogBackend(w, "", 0),
		logging.MustStringFormatter(format),
	)
	lvl, err := logging.LogLevel(level)
	if err != nil {
		lvl = logging.INFO
	}
	leveled := logging.AddModuleLevel(backend)
	leveled.SetLevel(lvl, "")
	logging.SetBackend(leveled)
	return logging.MustGetLogger(module)
}

// Elapsed formats a duration as hours, minutes and whole seconds.
func Elapsed(d time.Duration) string {
	h, m, s := ParseTime(d)
	return fmt.Sprintf("%dh %dm %ds", h, m, s)
}

// ParseTime splits a duration, rounded to the second, into hours, minutes
// and seconds.
func ParseTime(elapsed time.Duration) (hours, minutes, seconds uint32) {
	total := uint32(elapsed.Round(time.Second).Seconds())
	hours = total / 3600
	minutes = total % 3600 / 60
	seconds = total % 60
	return hours, minutes, seconds
}
