package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Spok95/school-portal/internal/store"
)

// SweepOverdue переводит просроченные записи об оплате в Overdue.
func SweepOverdue(st *store.Store, now func() time.Time, log *zap.Logger) Job {
	return func(ctx context.Context) error {
		fees, err := st.SweepOverdue(ctx, now())
		if err != nil {
			return err
		}
		if len(fees) > 0 {
			log.Info("fees marked overdue", zap.Int("count", len(fees)))
		}
		return nil
	}
}

// Reconcile создаёт недостающие записи об оплате для текущего года.
func Reconcile(st *store.Store, log *zap.Logger) Job {
	return func(ctx context.Context) error {
		n, err := st.ReconcileFees(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			log.Info("fee records created", zap.Int("count", n))
		}
		return nil
	}
}

// StartFeeJobs регистрирует фоновые задачи бухгалтерии.
// now должен совпадать с часами хранилища, иначе sweep и сверка разойдутся в дате.
func StartFeeJobs(r *Runner, st *store.Store, now func() time.Time, sweepEvery, reconcileEvery time.Duration, log *zap.Logger) {
	r.Every(sweepEvery, "fees_overdue_sweep", SweepOverdue(st, now, log))
	r.Every(reconcileEvery, "fees_reconcile", Reconcile(st, log))
}
