package logger

import (
	"log"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	Info    *log.Logger
	Warning *log.Logger
	Error   *log.Logger
	Debug   *log.Logger
	HTTP    *log.Logger

	base *zap.Logger
)

func init() {
	// Packages log before Setup runs (tests, early config errors).
	attach(zap.NewNop())
}

// Setup builds the zap backend from APP_ENV and re-points the std loggers at it.
func Setup() {
	var (
		zl  *zap.Logger
		err error
	)

	switch os.Getenv("APP_ENV") {
	case "", "local", "development":
		zl, err = zap.NewDevelopment()
	default:
		zl, err = zap.NewProduction()
	}
	if err != nil {
		log.Printf("failed to build zap logger, falling back to example logger: %v", err)
		zl = zap.NewExample()
	}

	attach(zl)
}

// Sync flushes buffered entries. Call it before the process exits.
func Sync() {
	if base != nil {
		_ = base.Sync()
	}
}

// Zap exposes the underlying logger for callers that want structured fields.
func Zap() *zap.Logger {
	return base
}

func attach(zl *zap.Logger) {
	base = zl

	Info = stdLogger(zl.Named("app"), zapcore.InfoLevel)
	Warning = stdLogger(zl.Named("app"), zapcore.WarnLevel)
	Error = stdLogger(zl.Named("app"), zapcore.ErrorLevel)
	Debug = stdLogger(zl.Named("app"), zapcore.DebugLevel)
	HTTP = stdLogger(zl.Named("http"), zapcore.InfoLevel)
}

func stdLogger(zl *zap.Logger, level zapcore.Level) *log.Logger {
	l, err := zap.NewStdLogAt(zl, level)
	if err != nil {
		return log.New(os.Stderr, "["+level.CapitalString()+"] ", log.LstdFlags)
	}
	return l
}
