package ctxutil

import (
	"context"
	"time"
)

// приватные ключи, чтобы исключить коллизии
type key int

const (
	keyActorID key = iota
	keyActorRole
	keyOpName
	keyExpectedVersion
)

// WithActor /Actor — кто выполняет операцию (id пользователя и роль)
func WithActor(ctx context.Context, userID, role string) context.Context {
	ctx = context.WithValue(ctx, keyActorID, userID)
	return context.WithValue(ctx, keyActorRole, role)
}

func Actor(ctx context.Context) (userID, role string, ok bool) {
	id, ok1 := ctx.Value(keyActorID).(string)
	r, ok2 := ctx.Value(keyActorRole).(string)
	return id, r, ok1 && ok2
}

// WithOp /Op — имя операции (для логов и метрик)
func WithOp(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, keyOpName, name)
}

func Op(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(keyOpName).(string)
	return s, ok
}

// WithExpectedVersion — изменение пройдёт, только если снимок хранилища всё ещё этой версии.
func WithExpectedVersion(ctx context.Context, v uint64) context.Context {
	return context.WithValue(ctx, keyExpectedVersion, v)
}

func ExpectedVersion(ctx context.Context) (uint64, bool) {
	v, ok := ctx.Value(keyExpectedVersion).(uint64)
	return v, ok
}

// Таймаут на формирование одного файла выгрузки.
var DefaultExportTimeout = 30 * time.Second

// WithTimeout — удобная обёртка над context.WithTimeout.
func WithTimeout(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, d)
}

// WithExportTimeout — стандартный таймаут для выгрузок, не длиннее родительского.
func WithExportTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	if dl, ok := parent.Deadline(); ok {
		if remain := time.Until(dl); remain < DefaultExportTimeout {
			return context.WithTimeout(parent, remain)
		}
	}
	return context.WithTimeout(parent, DefaultExportTimeout)
}
