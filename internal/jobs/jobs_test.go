package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/Spok95/school-portal/internal/logging"
	"github.com/Spok95/school-portal/internal/models"
	"github.com/Spok95/school-portal/internal/store"
)

func TestRunner_EveryStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := New(ctx, logging.Nop().Base)

	var runs atomic.Int32
	r.Every(5*time.Millisecond, "test_tick", func(context.Context) error {
		runs.Add(1)
		return nil
	})

	deadline := time.After(2 * time.Second)
	for runs.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("задача не запускалась: %d запусков", runs.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	r.Wait()

	after := runs.Load()
	time.Sleep(20 * time.Millisecond)
	if runs.Load() != after {
		t.Fatalf("после отмены задача продолжила работу")
	}
}

func TestRunner_ErrorsAndPanics(t *testing.T) {
	r := New(context.Background(), logging.Nop().Base)

	before := testutil.ToFloat64(jobErrors.WithLabelValues("test_fail"))
	r.runOnce("test_fail", func(context.Context) error { return errors.New("boom") })
	r.runOnce("test_fail", func(context.Context) error { panic("oops") })

	if got := testutil.ToFloat64(jobErrors.WithLabelValues("test_fail")) - before; got != 2 {
		t.Fatalf("ожидалось 2 ошибки, получено %v", got)
	}
	if got := testutil.ToFloat64(jobRuns.WithLabelValues("test_fail")); got < 2 {
		t.Fatalf("запуски после паники тоже считаются, получено %v", got)
	}
}

func TestSweepOverdueJob(t *testing.T) {
	st := store.New(store.Options{Now: func() time.Time { return time.Date(2025, time.July, 1, 10, 0, 0, 0, time.UTC) }})
	ctx := context.Background()
	if err := st.Seed(ctx); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	later := func() time.Time { return time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC) }

	if err := SweepOverdue(st, later, logging.Nop().Base)(ctx); err != nil {
		t.Fatalf("sweep: %v", err)
	}
	bob, ok := st.Snapshot().FeeFor("SCHL2025002", store.SeedYearID)
	if !ok || bob.Status != models.FeeOverdue {
		t.Fatalf("запись Боба должна стать Overdue: %+v", bob)
	}
	alice, _ := st.Snapshot().FeeFor("SCHL2025001", store.SeedYearID)
	if alice.Status != models.FeePaid {
		t.Fatalf("оплаченная запись не должна меняться: %s", alice.Status)
	}

	v := st.Snapshot().Version
	if err := SweepOverdue(st, later, logging.Nop().Base)(ctx); err != nil {
		t.Fatalf("повторный sweep: %v", err)
	}
	if st.Snapshot().Version != v {
		t.Fatalf("повторный проход без изменений не должен менять версию")
	}
}

func TestReconcileJob(t *testing.T) {
	st := store.New(store.Options{})
	ctx := context.Background()
	if err := st.Seed(ctx); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	v := st.Snapshot().Version
	if err := Reconcile(st, logging.Nop().Base)(ctx); err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if st.Snapshot().Version != v {
		t.Fatalf("сверка без изменений не должна менять версию")
	}
}

func TestStartFeeJobs_UsesGivenClock(t *testing.T) {
	st := store.New(store.Options{Now: func() time.Time { return time.Date(2025, time.July, 1, 10, 0, 0, 0, time.UTC) }})
	if err := st.Seed(context.Background()); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := New(ctx, logging.Nop().Base)
	later := func() time.Time { return time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC) }
	StartFeeJobs(r, st, later, 5*time.Millisecond, time.Hour, logging.Nop().Base)

	deadline := time.After(2 * time.Second)
	for {
		if f, _ := st.Snapshot().FeeFor("SCHL2025002", store.SeedYearID); f.Status == models.FeeOverdue {
			break
		}
		select {
		case <-deadline:
			cancel()
			r.Wait()
			t.Fatalf("sweep не использовал переданные часы")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	r.Wait()
}
