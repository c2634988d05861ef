package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options selects and tunes the logger backend.
type Options struct {
	// Backend is "slog" (default) or "zap".
	Backend string
	// Level is one of debug, info, warn, error.
	Level string
	// FilePath, when set, additionally writes rotated logs to this file.
	FilePath string
}

// New builds a Logger for opts. The returned closer flushes and releases
// any file handles and is always non-nil.
func New(opts Options) (Logger, func() error, error) {
	var out io.Writer = os.Stdout
	closer := func() error { return nil }

	if opts.FilePath != "" {
		rotator := &lumberjack.Logger{
			Filename:   opts.FilePath,
			MaxSize:    20,
			MaxBackups: 5,
			MaxAge:     15,
			Compress:   true,
		}
		out = io.MultiWriter(os.Stdout, rotator)
		closer = rotator.Close
	}

	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", "slog":
		var level slog.Level
		if err := level.UnmarshalText([]byte(levelOrDefault(opts.Level))); err != nil {
			return nil, closer, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		h := slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})
		return NewSlogLogger(slog.New(h)), closer, nil
	case "zap":
		level, err := zapcore.ParseLevel(levelOrDefault(opts.Level))
		if err != nil {
			return nil, closer, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		encCfg := zap.NewProductionEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(out), level)
		zl := NewZapLogger(zap.New(core, zap.AddCaller()))
		fileCloser := closer
		return zl, func() error {
			_ = zl.Sync()
			return fileCloser()
		}, nil
	default:
		return nil, closer, fmt.Errorf("unknown log backend %q", opts.Backend)
	}
}

func levelOrDefault(level string) string {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		return "info"
	}
	return level
}
