package store

import (
	"context"
	"time"

	"github.com/Spok95/school-portal/internal/models"
	"github.com/Spok95/school-portal/internal/school"
)

// reconcile создаёт недостающие записи об оплате (ученик, учебный год) и
// пересчитывает статусы. Идемпотентна, вызывается на каждом изменении.
func (s *Store) reconcile(snap *Snapshot) bool {
	now := s.now()
	changed := false
	for _, st := range snap.Students {
		if st.IsAlumni() || st.AcademicYearID == "" {
			continue
		}
		if _, ok := snap.FeeFor(st.RegisterNumber, st.AcademicYearID); ok {
			continue
		}
		var setup *models.ClassSetup
		if cs, ok := snap.ClassSetup(st.Grade); ok {
			setup = &cs
		}
		due := school.FeeBreakdownFor(st, setup, s.opts.FallbackTuition)
		dueDate := models.DateOf(now).AddDate(0, 0, s.opts.FeeDueDays)
		snap.Fees = append(snap.Fees, school.NewFee(s.opts.NewID(), st, st.AcademicYearID, due, dueDate, now))
		changed = true
	}
	for i := range snap.Fees {
		f := &snap.Fees[i]
		st := school.DeriveFeeStatus(f.TotalDue, f.AmountPaid, f.DueDate, now)
		// просрочка снимается только оплатой
		if st == models.FeePending && f.Status == models.FeeOverdue {
			continue
		}
		if st != f.Status {
			f.Status = st
			changed = true
		}
	}
	return changed
}

// ReconcileFees — явный проход сверки. Без изменений версия снимка не растёт.
func (s *Store) ReconcileFees(ctx context.Context) (int, error) {
	created := 0
	_, err := s.apply(ctx, "fees.reconcile", func(next *Snapshot) error {
		before := len(next.Fees)
		if !s.reconcile(next) {
			return errNoop
		}
		created = len(next.Fees) - before
		return nil
	})
	return created, err
}

type PaymentInput struct {
	FeeID    string             `validate:"required"`
	Category models.FeeCategory `validate:"required"`
	Amount   int64              `validate:"gt=0"`
}

// RecordPayment зачисляет платёж в категорию, не больше остатка по ней.
func (s *Store) RecordPayment(ctx context.Context, in PaymentInput) (models.Fee, error) {
	if err := check(in); err != nil {
		return models.Fee{}, err
	}
	if _, err := models.ParseFeeCategory(string(in.Category)); err != nil {
		return models.Fee{}, &ValidationError{Msg: err.Error(), Fields: []FieldError{{Field: "Category", Rule: "oneof"}}}
	}
	var out models.Fee
	_, err := s.apply(ctx, "fees.pay", func(next *Snapshot) error {
		i := next.feeIdx(in.FeeID)
		if i < 0 {
			return notFound("fee", in.FeeID)
		}
		f := next.Fees[i]
		left := f.Due.Get(in.Category) - f.Paid.Get(in.Category)
		if in.Amount > left {
			return invalid("payment %d exceeds outstanding %s amount %d", in.Amount, in.Category, left)
		}
		next.Fees[i] = school.ApplyPayment(f, in.Category, in.Amount, s.now())
		out = next.Fees[i]
		return nil
	})
	return out, err
}

// PayInFull закрывает все категории с остатком.
func (s *Store) PayInFull(ctx context.Context, feeID string) (models.Fee, error) {
	var out models.Fee
	_, err := s.apply(ctx, "fees.pay_full", func(next *Snapshot) error {
		i := next.feeIdx(feeID)
		if i < 0 {
			return notFound("fee", feeID)
		}
		f := next.Fees[i]
		if f.Outstanding() <= 0 {
			return precondition("fee %s is already paid", feeID)
		}
		now := s.now()
		for _, c := range models.FeeCategories {
			if left := f.Due.Get(c) - f.Paid.Get(c); left > 0 {
				f = school.ApplyPayment(f, c, left, now)
			}
		}
		next.Fees[i] = f
		out = f
		return nil
	})
	return out, err
}

// SweepOverdue переводит неоплаченные записи с прошедшим сроком в Overdue на момент now.
// Возвращает записи, ставшие просроченными.
func (s *Store) SweepOverdue(ctx context.Context, now time.Time) ([]models.Fee, error) {
	var flipped []models.Fee
	_, err := s.apply(ctx, "fees.sweep_overdue", func(next *Snapshot) error {
		for i := range next.Fees {
			f := &next.Fees[i]
			st := school.DeriveFeeStatus(f.TotalDue, f.AmountPaid, f.DueDate, now)
			if st == models.FeeOverdue && f.Status != models.FeeOverdue {
				f.Status = st
				flipped = append(flipped, *f)
			}
		}
		if len(flipped) == 0 {
			return errNoop
		}
		return nil
	})
	return flipped, err
}
