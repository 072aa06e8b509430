package observability

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/Spok95/school-portal/internal/ctxutil"
	"github.com/Spok95/school-portal/internal/logging"
)

func InitSentry(dsn, env, release string) (func(), error) {
	if dsn == "" {
		return func() {}, nil
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      env,
		Release:          release,
		AttachStacktrace: true,
		ServerName:       logging.Service,
	}); err != nil {
		return func() {}, err
	}
	return func() { sentry.Flush(2 * time.Second) }, nil
}

func CaptureErr(err error) {
	if err != nil {
		sentry.CaptureException(err)
	}
}

// CaptureCtx — то же, но с тегами операции и исполнителя.
func CaptureCtx(ctx context.Context, err error) {
	if err == nil {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		if op, ok := ctxutil.Op(ctx); ok {
			scope.SetTag("op", op)
		}
		if id, role, ok := ctxutil.Actor(ctx); ok {
			scope.SetUser(sentry.User{ID: id})
			scope.SetTag("role", role)
		}
		sentry.CaptureException(err)
	})
}
