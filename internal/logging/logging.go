// Package logging builds the zap logger shared by every command.
package logging

import (
	"os"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu     sync.RWMutex
	global = zap.NewNop().Sugar()
)

type Options struct {
	Level string
	// File, when set, routes output through a rotating file instead of stderr.
	File string
}

func New(o Options) (*zap.SugaredLogger, error) {
	lvl := zapcore.InfoLevel
	if o.Level != "" {
		if err := lvl.UnmarshalText([]byte(o.Level)); err != nil {
			return nil, errors.Wrapf(err, "invalid log level %q", o.Level)
		}
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var (
		enc zapcore.Encoder
		ws  zapcore.WriteSyncer
	)

	if o.File != "" {
		enc = zapcore.NewJSONEncoder(encCfg)
		ws = zapcore.AddSync(&lumberjack.Logger{
			Filename:   o.File,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		})
	} else {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
		ws = zapcore.Lock(os.Stderr)
	}

	return zap.New(zapcore.NewCore(enc, ws, lvl)).Sugar(), nil
}

// Init builds a logger from o and installs it as the global logger.
func Init(o Options) error {
	l, err := New(o)
	if err != nil {
		return err
	}

	Set(l)
	return nil
}

func Set(l *zap.SugaredLogger) {
	mu.Lock()
	defer mu.Unlock()

	global = l
}

func L() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()

	return global
}

func Sync() {
	_ = L().Sync()
}
