package school

import (
	"time"

	"github.com/Spok95/school-portal/internal/models"
)

func ClassTotalFee(cs models.ClassSetup) int64 { return cs.Fees.Total() }

// DeriveFeeStatus — статус записи всегда выводится из сумм и срока оплаты.
func DeriveFeeStatus(totalDue, amountPaid int64, dueDate, now time.Time) models.FeeStatus {
	switch {
	case amountPaid >= totalDue:
		return models.FeePaid
	case amountPaid > 0:
		return models.FeePartiallyPaid
	case !dueDate.IsZero() && models.DateOf(now).After(models.DateOf(dueDate)):
		return models.FeeOverdue
	default:
		return models.FeePending
	}
}

// FeeBreakdownFor берёт суммы из настройки класса, а без неё — всю сумму ученика
// (или fallbackTuition) как плату за обучение.
func FeeBreakdownFor(st models.Student, setup *models.ClassSetup, fallbackTuition int64) models.FeeBreakdown {
	if setup != nil {
		return setup.Fees
	}
	tuition := st.TotalFee
	if tuition <= 0 {
		tuition = fallbackTuition
	}
	return models.FeeBreakdown{Tuition: tuition}
}

// NewFee — свежая запись об оплате: ничего не оплачено.
func NewFee(id string, st models.Student, yearID string, due models.FeeBreakdown, dueDate, now time.Time) models.Fee {
	f := models.Fee{
		ID:             id,
		StudentRegNo:   st.RegisterNumber,
		AcademicYearID: yearID,
		Due:            due,
		TotalDue:       due.Total(),
		DueDate:        dueDate,
	}
	f.Status = DeriveFeeStatus(f.TotalDue, 0, dueDate, now)
	return f
}

// ApplyPayment зачисляет сумму в категорию и пересчитывает итоги и статус.
// Проверка суммы — на стороне вызывающего.
func ApplyPayment(f models.Fee, category models.FeeCategory, amount int64, now time.Time) models.Fee {
	f.Paid.Add(category, amount)
	f.AmountPaid = f.Paid.Total()
	paidAt := now
	f.LastPaymentDate = &paidAt
	f.Payments = append(f.Payments, models.Payment{Date: now, Category: category, Amount: amount})
	f.Status = DeriveFeeStatus(f.TotalDue, f.AmountPaid, f.DueDate, now)
	return f
}

// OutstandingByCategory — сколько осталось внести по каждой категории.
func OutstandingByCategory(f models.Fee) map[models.FeeCategory]int64 {
	out := make(map[models.FeeCategory]int64, len(models.FeeCategories))
	for _, c := range models.FeeCategories {
		if left := f.Due.Get(c) - f.Paid.Get(c); left > 0 {
			out[c] = left
		}
	}
	return out
}

type FeeSummary struct {
	Records     int
	TotalDue    int64
	Collected   int64
	Outstanding int64
	ByStatus    map[models.FeeStatus]int
}

// FeeTotals — сводка для бухгалтерии.
func FeeTotals(fees []models.Fee) FeeSummary {
	s := FeeSummary{ByStatus: make(map[models.FeeStatus]int, len(models.AllFeeStatuses))}
	for _, f := range fees {
		s.Records++
		s.TotalDue += f.TotalDue
		s.Collected += f.AmountPaid
		s.Outstanding += f.Outstanding()
		s.ByStatus[f.Status]++
	}
	return s
}
