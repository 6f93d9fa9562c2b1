// Package logging builds the zap logger shared by the commands.
package logging

import (
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a console logger at level writing to file, or to stderr when
// file is empty. verbose forces the debug level.
func New(level, file string, verbose bool) (*zap.Logger, error) {
	if verbose {
		level = "debug"
	}
	lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return nil, eris.Wrapf(err, "invalid log level %q", level)
	}

	output := "stderr"
	if file != "" {
		output = file
	}

	encoder := zap.NewDevelopmentEncoderConfig()
	encoder.EncodeLevel = zapcore.CapitalLevelEncoder
	encoder.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")

	cfg := zap.Config{
		Level:             zap.NewAtomicLevelAt(lvl),
		Encoding:          "console",
		EncoderConfig:     encoder,
		OutputPaths:       []string{output},
		ErrorOutputPaths:  []string{"stderr"},
		DisableStacktrace: lvl > zapcore.DebugLevel,
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, eris.Wrap(err, "failed to build logger")
	}
	return logger, nil
}

// Nop is the logger used before configuration is loaded and in tests.
func Nop() *zap.Logger {
	return zap.NewNop()
}
