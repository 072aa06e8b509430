package school

import (
	"testing"
	"time"

	"github.com/Spok95/school-portal/internal/models"
)

func att(day string, s models.Session, typ models.AttendanceType) models.AttendanceRecord {
	d, _ := models.ParseDate(day)
	return models.AttendanceRecord{Date: d, Session: s, Type: typ}
}

func TestAttendanceStats(t *testing.T) {
	records := []models.AttendanceRecord{
		att("2025-01-15", models.Morning, models.Present),
		att("2025-01-15", models.Afternoon, models.Present),
		att("2025-01-16", models.Morning, models.HalfDay),
		att("2025-01-16", models.Afternoon, models.Absent),
	}
	got := AttendanceStats(records)
	want := AttendanceSummary{Present: 2, HalfDay: 1, Absent: 1, Total: 4, Rate: 63}
	if got != want {
		t.Fatalf("ожидали %+v, получили %+v", want, got)
	}

	if z := AttendanceStats(nil); z.Rate != 0 || z.Total != 0 {
		t.Fatalf("пустой список: ожидали нули, получили %+v", z)
	}

	onLeave := AttendanceStats([]models.AttendanceRecord{att("2025-01-17", models.Morning, models.OnLeave)})
	if onLeave.OnLeave != 1 || onLeave.Rate != 0 {
		t.Fatalf("отпуск не засчитывается как присутствие: %+v", onLeave)
	}
}

func TestHasSession(t *testing.T) {
	records := []models.AttendanceRecord{att("2025-01-15", models.Morning, models.Present)}
	day := time.Date(2025, 1, 15, 14, 30, 0, 0, time.UTC)
	if !HasSession(records, day, models.Morning) {
		t.Fatal("утро 15.01 уже отмечено")
	}
	if HasSession(records, day, models.Afternoon) {
		t.Fatal("день 15.01 ещё не отмечен")
	}
}

func TestMonthlyAttendance(t *testing.T) {
	records := []models.AttendanceRecord{
		att("2025-02-01", models.Morning, models.Absent),
		att("2025-01-15", models.Morning, models.Present),
		att("2025-01-16", models.Morning, models.Present),
	}
	got := MonthlyAttendance(records)
	if len(got) != 2 || got[0].Month != "2025-01" || got[1].Month != "2025-02" {
		t.Fatalf("неожиданная разбивка: %+v", got)
	}
	if got[0].Rate != 100 || got[1].Rate != 0 {
		t.Fatalf("неожиданные проценты: %d, %d", got[0].Rate, got[1].Rate)
	}
}
