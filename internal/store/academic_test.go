package store

import (
	"context"
	"testing"
	"time"

	"github.com/Spok95/school-portal/internal/models"
	"github.com/Spok95/school-portal/internal/school"
)

func TestActivateAcademicYear(t *testing.T) {
	s, _ := seeded(t)
	ctx := context.Background()

	if err := s.ActivateAcademicYear(ctx, SeedNextYearID); err != nil {
		t.Fatalf("ActivateAcademicYear: %v", err)
	}
	active := 0
	for _, y := range s.Snapshot().AcademicYears {
		if y.Status == models.YearActive {
			active++
			if y.ID != SeedNextYearID {
				t.Fatalf("активен не тот год: %s", y.ID)
			}
		}
		if y.ID == SeedYearID && y.Status != models.YearCompleted {
			t.Fatalf("прежний год должен завершиться, статус %s", y.Status)
		}
	}
	if active != 1 {
		t.Fatalf("активных лет: %d", active)
	}
	if err := s.ActivateAcademicYear(ctx, "ay-1999"); !IsNotFound(err) {
		t.Fatalf("неизвестный год: %v", err)
	}
}

func TestAddAcademicYear_LinksPredecessor(t *testing.T) {
	s, _ := seeded(t)
	from, to := school.YearBounds(2027)
	y, err := s.AddAcademicYear(context.Background(), YearInput{Name: school.YearLabel(2027), StartDate: from, EndDate: to})
	if err != nil {
		t.Fatalf("AddAcademicYear: %v", err)
	}
	if y.Status != models.YearUpcoming {
		t.Fatalf("по умолчанию Upcoming, получили %s", y.Status)
	}
	prev, _ := school.FindYear(s.Snapshot().AcademicYears, SeedNextYearID)
	if prev.NextYearID == nil || *prev.NextYearID != y.ID {
		t.Fatalf("2026–27 должен ссылаться на 2027–28")
	}
	if _, err := s.AddAcademicYear(context.Background(), YearInput{Name: school.YearLabel(2027), StartDate: from, EndDate: to}); !IsPrecondition(err) {
		t.Fatalf("дубликат года: %v", err)
	}
}

func TestPromoteAll(t *testing.T) {
	s, _ := seeded(t)
	ctx := context.Background()

	st, err := s.AddStudent(ctx, NewStudent{Name: "Nina", Grade: 9, Section: "A"})
	if err != nil {
		t.Fatalf("AddStudent: %v", err)
	}
	if err := s.MarkAttendance(ctx, st.RegisterNumber, AttendanceInput{Date: time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC), Session: models.Morning, Type: models.Present}); err != nil {
		t.Fatalf("MarkAttendance: %v", err)
	}
	if err := s.AssignClasses(ctx, SeedFacultyID, []string{"10A"}); err != nil {
		t.Fatalf("AssignClasses: %v", err)
	}

	res, err := s.PromoteAll(ctx)
	if err != nil {
		t.Fatalf("PromoteAll: %v", err)
	}
	if res.Promoted != 1 || res.Graduated != 2 || res.ToYearID != SeedNextYearID {
		t.Fatalf("результат: %+v", res)
	}

	snap := s.Snapshot()
	nina, _ := snap.Student(st.RegisterNumber)
	if nina.Grade != 10 || nina.AcademicYearID != SeedNextYearID || len(nina.Attendance) != 0 || len(nina.Marks) != 0 {
		t.Fatalf("переведённая ученица: %+v", nina)
	}
	if nina.TotalFee != 30500 {
		t.Fatalf("сумма оплаты по новому классу: %d", nina.TotalFee)
	}
	alice, _ := snap.Student("SCHL2025001")
	if !alice.IsAlumni() || !alice.IsPortalBlocked || len(alice.Marks) != 0 {
		t.Fatalf("выпускница: %+v", alice)
	}
	if _, ok := snap.FeeFor(st.RegisterNumber, SeedNextYearID); !ok {
		t.Fatalf("для нового года должна появиться запись об оплате")
	}
	if _, ok := snap.FeeFor("SCHL2025001", models.AlumniYearID); ok {
		t.Fatalf("выпускникам запись об оплате не нужна")
	}
	fac, _ := snap.User(SeedFacultyID)
	if len(fac.AssignedStudents) != 1 || fac.AssignedStudents[0] != st.RegisterNumber {
		t.Fatalf("ученики преподавателя 10A после перевода: %v", fac.AssignedStudents)
	}
	// год не активируется сам
	if y, _ := snap.ActiveYear(); y.ID != SeedYearID {
		t.Fatalf("активный год сменился: %s", y.ID)
	}
}

func TestPromoteAll_AbortsWithoutNextYear(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	from, to := school.YearBounds(2025)
	if _, err := s.AddAcademicYear(ctx, YearInput{Name: school.YearLabel(2025), StartDate: from, EndDate: to, Status: models.YearActive}); err != nil {
		t.Fatalf("AddAcademicYear: %v", err)
	}
	if _, err := s.AddStudent(ctx, NewStudent{Name: "Solo", Grade: 6, Section: "A"}); err != nil {
		t.Fatalf("AddStudent: %v", err)
	}
	before := s.Snapshot()

	if _, err := s.PromoteAll(ctx); !IsPrecondition(err) {
		t.Fatalf("без следующего года: %v", err)
	}
	if s.Snapshot() != before {
		t.Fatalf("неудачный перевод не должен менять хранилище")
	}
}

func TestPromoteAll_NoActiveYear(t *testing.T) {
	s, _ := newTestStore(t)
	if _, err := s.PromoteAll(context.Background()); !IsPrecondition(err) {
		t.Fatalf("без активного года: %v", err)
	}
}

func TestUpsertClassSetup(t *testing.T) {
	s, _ := seeded(t)
	ctx := context.Background()

	cs, err := s.UpsertClassSetup(ctx, ClassSetupInput{Grade: 8, Sections: []string{"A", "B", "C"}})
	if err != nil {
		t.Fatalf("UpsertClassSetup: %v", err)
	}
	if len(cs.Subjects) != 7 {
		t.Fatalf("стандартные предметы 8 класса: %v", cs.Subjects)
	}
	got, _ := s.Snapshot().ClassSetup(8)
	if len(got.Sections) != 3 {
		t.Fatalf("настройка не заменена: %+v", got)
	}
	if _, err := s.UpsertClassSetup(ctx, ClassSetupInput{Grade: 4, Sections: []string{"A"}}); !IsValidation(err) {
		t.Fatalf("класс вне диапазона: %v", err)
	}
	if _, err := s.UpsertClassSetup(ctx, ClassSetupInput{Grade: 6, Sections: []string{"A"}, Fees: models.FeeBreakdown{Lab: -5}}); !IsValidation(err) {
		t.Fatalf("отрицательная сумма: %v", err)
	}
}

func TestAddExam(t *testing.T) {
	s, _ := seeded(t)
	ctx := context.Background()
	start := time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)

	e, err := s.AddExam(ctx, ExamInput{Type: models.FA2, Name: "FA2", StartDate: start, EndDate: start.AddDate(0, 0, 4)})
	if err != nil {
		t.Fatalf("AddExam: %v", err)
	}
	exams := s.Snapshot().ExamsFor("10A")
	if len(exams) != 3 || exams[1].ID != e.ID {
		t.Fatalf("FA2 должен стоять между FA1 и SA1: %+v", exams)
	}
	if _, err := s.AddExam(ctx, ExamInput{Type: "FA9", Name: "x", StartDate: start, EndDate: start}); !IsValidation(err) {
		t.Fatalf("неизвестный тип: %v", err)
	}
	if _, err := s.AddExam(ctx, ExamInput{Type: models.FA3, Name: "x", StartDate: start, EndDate: start.AddDate(0, 0, -1)}); !IsValidation(err) {
		t.Fatalf("конец раньше начала: %v", err)
	}
}

func TestStudentSummaryAndRanking(t *testing.T) {
	s, _ := seeded(t)
	snap := s.Snapshot()

	sum, err := snap.StudentSummary("SCHL2025001")
	if err != nil {
		t.Fatalf("StudentSummary: %v", err)
	}
	// 592 из 700
	if sum.Overall != 85 || sum.OverallGrade != "A" || sum.Rank != 1 || sum.ClassSize != 1 {
		t.Fatalf("сводка: %+v", sum)
	}
	if sum.Attendance.Total != 5 || sum.Attendance.Rate != 60 {
		t.Fatalf("посещаемость: %+v", sum.Attendance)
	}
	if sum.FeeStatus != models.FeePaid {
		t.Fatalf("статус оплаты: %s", sum.FeeStatus)
	}
	if _, err := snap.StudentSummary("SCHL1999001"); !IsNotFound(err) {
		t.Fatalf("неизвестный ученик: %v", err)
	}

	ranking := snap.ClassRanking("10B")
	if len(ranking) != 1 || ranking[0].RegisterNumber != "SCHL2025002" || ranking[0].Percentage != 77 {
		t.Fatalf("рейтинг 10B: %+v", ranking)
	}
}
