// Package logging configures the process-wide slog logger from the
// --logformat, --loglevel and --logoutput flags.
package logging

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Log format constants
const (
	FormatFlagName = "logformat"

	FormatJSON = "json"
	FormatText = "text"
)

// Log level constants
const (
	LevelFlagName = "loglevel"

	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Log output constants
const (
	OutputFlagName = "logoutput"

	OutputStdout = "stdout"
	OutputStderr = "stderr"
)

// RegisterFlags adds the logging flags to flagset. Logs default to warn
// level text on stderr so stdout only carries command output.
//
//	--logformat json|text
//	--loglevel  debug|info|warn|error
//	--logoutput stdout|stderr
func RegisterFlags(flagset *pflag.FlagSet) {
	flagset.String(FormatFlagName, FormatText, "log format: text or json")
	flagset.String(LevelFlagName, LevelWarn, "log level: debug, info, warn or error")
	flagset.String(OutputFlagName, OutputStderr, "log destination: stdout or stderr")
}

// New builds a logger from the command's logging flags.
func New(cmd *cobra.Command) (*slog.Logger, error) {
	flags := cmd.Flags()

	levelName, err := flags.GetString(LevelFlagName)
	if err != nil {
		return nil, fmt.Errorf("failed to get log level: %w", err)
	}
	level, err := ParseLevel(levelName)
	if err != nil {
		return nil, err
	}

	format, err := flags.GetString(FormatFlagName)
	if err != nil {
		return nil, fmt.Errorf("failed to get the log format from the command flag: %w", err)
	}

	output, err := flags.GetString(OutputFlagName)
	if err != nil {
		return nil, fmt.Errorf("failed to get the log output from the command flag: %w", err)
	}

	var w io.Writer
	switch output {
	case OutputStdout:
		w = cmd.OutOrStdout()
	case OutputStderr:
		w = cmd.ErrOrStderr()
	default:
		return nil, fmt.Errorf("invalid log output: %s", output)
	}

	return NewLogger(w, format, level)
}

// NewLogger returns a logger writing format to w at level.
func NewLogger(w io.Writer, format string, level slog.Level) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{Level: level}
	switch format {
	case FormatJSON:
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case FormatText:
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}
}

// ParseLevel converts a level name to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch name {
	case LevelDebug:
		return slog.LevelDebug, nil
	case LevelInfo:
		return slog.LevelInfo, nil
	case LevelWarn:
		return slog.LevelWarn, nil
	case LevelError:
		return slog.LevelError, nil
	default:
		return slog.LevelWarn, fmt.Errorf("invalid log level: %s", name)
	}
}
