package config

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

// Log formats accepted by --log-format.
const (
	LogFormatAuto    = "auto"
	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

func validateLogging(cfg *Config) error {
	if _, err := zapcore.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	switch strings.ToLower(cfg.LogFormat) {
	case LogFormatAuto, LogFormatConsole, LogFormatJSON:
		return nil
	}
	return fmt.Errorf("invalid log format %q (want auto, console or json)", cfg.LogFormat)
}

// NewLogger builds the process logger writing to w. Verbose forces debug
// level. The auto format picks the console encoder when w is a terminal.
func NewLogger(cfg *Config, w *os.File) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if cfg.Verbose {
		level = zapcore.DebugLevel
	}

	format := strings.ToLower(cfg.LogFormat)
	if format == "" || format == LogFormatAuto {
		format = LogFormatJSON
		if term.IsTerminal(int(w.Fd())) {
			format = LogFormatConsole
		}
	}

	var enc zapcore.Encoder
	if format == LogFormatConsole {
		ec := zap.NewDevelopmentEncoderConfig()
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		ec.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		enc = zapcore.NewConsoleEncoder(ec)
	} else {
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	}

	core := zapcore.NewCore(enc, zapcore.Lock(w), level)
	return zap.New(core), nil
}
