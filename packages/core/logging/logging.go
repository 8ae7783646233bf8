// Package logging builds the diagnostic logger used by the CLI. Diagnostic
// output goes to stderr so stdout stays reserved for check results and
// machine-readable reports.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a SugaredLogger writing to stderr. With debug enabled the
// level drops to debug and request/response dumps become visible.
func New(debug bool) *zap.SugaredLogger {
	level := zapcore.WarnLevel
	if debug {
		level = zapcore.DebugLevel
	}

	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.AddSync(zapcore.Lock(os.Stderr)),
		level,
	)

	return zap.New(core).Sugar()
}

// Nop returns a logger that discards everything
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
