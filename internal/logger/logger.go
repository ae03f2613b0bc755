package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Options struct {
	Service string
	Env     string
	Level   string
}

// New はzapロガーを作る。prodはJSON、それ以外は開発用フォーマット。
func New(opts Options) (*zap.Logger, error) {
	var cfg zap.Config
	if opts.Env == "prod" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(opts.Level))

	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	return l.With(
		zap.String("service", opts.Service),
		zap.String("env", opts.Env),
	), nil
}

func parseLevel(lvl string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
