package logg

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Field keys shared by every component.
const (
	Layer     = "layer"
	Operation = "operation"
	Selector  = "selector"
	URL       = "url"
	Frame     = "frame"
	Attempt   = "attempt"
	Expected  = "expected"
	Actual    = "actual"
	RunID     = "run_id"
	Scenario  = "scenario"
)

type Config struct {
	Level       string
	Format      string
	File        string
	MaxSizeMB   int
	MaxBackups  int
	ServiceName string
}

var (
	global atomic.Pointer[zap.Logger]
	once   sync.Once
)

// Init builds the process-wide logger. Only the first call has any effect.
func Init(cfg Config, console zapcore.WriteSyncer) *zap.Logger {
	once.Do(func() {
		global.Store(build(cfg, console))
	})

	return global.Load()
}

// L returns the process-wide logger, initialising it with defaults on first use.
func L() *zap.Logger {
	if logger := global.Load(); logger != nil {
		return logger
	}

	return Init(Config{Level: "info", Format: "console"}, zapcore.Lock(os.Stdout))
}

// Sync flushes buffered entries. Errors from syncing terminals are ignored.
func Sync() {
	logger := global.Load()
	if logger == nil {
		return
	}

	if err := logger.Sync(); err != nil {
		msg := err.Error()
		if !strings.Contains(msg, "sync /dev/stdout") &&
			!strings.Contains(msg, "invalid argument") &&
			!strings.Contains(msg, "inappropriate ioctl") {
			fmt.Fprintln(os.Stderr, "failed to sync logger:", err)
		}
	}
}

// ResetForTest clears the process-wide logger. Tests only.
func ResetForTest() {
	global.Store(nil)
	once = sync.Once{}
}

func build(cfg Config, console zapcore.WriteSyncer) *zap.Logger {
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level.SetLevel(zap.InfoLevel)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(encoder(cfg.Format), console, level),
	}

	if cfg.File != "" {
		maxSize := cfg.MaxSizeMB
		if maxSize <= 0 {
			maxSize = 50
		}

		file := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    maxSize,
			MaxBackups: cfg.MaxBackups,
		})
		cores = append(cores, zapcore.NewCore(encoder("json"), file, level))
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddStacktrace(zap.ErrorLevel))
	if cfg.ServiceName != "" {
		logger = logger.Named(cfg.ServiceName)
	}

	return logger
}

func encoder(format string) zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02T15:04:05.000Z07:00")

	if format == "console" {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

		return zapcore.NewConsoleEncoder(encoderConfig)
	}

	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	return zapcore.NewJSONEncoder(encoderConfig)
}
