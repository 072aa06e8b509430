package logging

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Spok95/school-portal/internal/ctxutil"
)

type Log struct {
	Base   *zap.Logger
	Sugar  *zap.SugaredLogger
	Level  zap.AtomicLevel
	Closer func()
}

// Service — имя сервиса в логах и в Sentry.
const Service = "school-portal"

func Init(level, env string) (*Log, error) {
	lvl := zap.NewAtomicLevel()
	if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		lvl = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	var cfg zap.Config
	if strings.ToLower(env) == "prod" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = lvl
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	cfg.InitialFields = map[string]any{"service": Service}

	base, err := cfg.Build(zap.AddStacktrace(zap.ErrorLevel))
	if err != nil {
		return nil, err
	}
	return &Log{
		Base:   base,
		Sugar:  base.Sugar(),
		Level:  lvl,
		Closer: func() { _ = base.Sync() },
	}, nil
}

// Nop — логгер-заглушка для тестов.
func Nop() *Log {
	base := zap.NewNop()
	return &Log{Base: base, Sugar: base.Sugar(), Level: zap.NewAtomicLevel(), Closer: func() {}}
}

// For добавляет к логгеру операцию и исполнителя из контекста.
func For(ctx context.Context, l *zap.Logger) *zap.Logger {
	if op, ok := ctxutil.Op(ctx); ok {
		l = l.With(zap.String("op", op))
	}
	if id, role, ok := ctxutil.Actor(ctx); ok {
		l = l.With(zap.String("actor", id), zap.String("role", role))
	}
	return l
}
