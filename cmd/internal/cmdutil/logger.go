package cmdutil

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type loggerConfig struct {
	level  string
	format string
}

var loggerCfg = loggerConfig{
	level:  zerolog.InfoLevel.String(),
	format: "console",
}

// RegisterLoggerFlags wires the logging flags shared by all commands.
func RegisterLoggerFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(
		&loggerCfg.level,
		"level",
		loggerCfg.level,
		"minimum level to log at (trace, debug, info, warn, error)",
	)
	cmd.PersistentFlags().StringVar(
		&loggerCfg.format,
		"log-format",
		loggerCfg.format,
		"log output format: console for humans, json for machine consumers",
	)
}

// Logger builds the process logger from the registered flags. The json
// format keeps logged findings parseable when compare output is piped.
func Logger() (zerolog.Logger, error) {
	logger, err := newLogger(loggerCfg.format)
	if err != nil {
		return logger, err
	}
	lvl, err := zerolog.ParseLevel(loggerCfg.level)
	if err != nil {
		return logger, err
	}
	return logger.Level(lvl), nil
}

func newLogger(format string) (zerolog.Logger, error) {
	switch format {
	case "console":
		return zerolog.New(zerolog.NewConsoleWriter()), nil
	case "json":
		return zerolog.New(os.Stderr), nil
	}
	return zerolog.Logger{}, errors.Newf("unknown log format %q", format)
}
