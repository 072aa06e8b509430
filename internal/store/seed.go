package store

import (
	"context"
	"time"

	"github.com/Spok95/school-portal/internal/models"
	"github.com/Spok95/school-portal/internal/school"
)

// Идентификаторы демо-данных.
const (
	SeedAdminID     = "admin1"
	SeedFacultyID   = "faculty1"
	SeedAccountsID  = "accounts1"
	SeedLibrarianID = "librarian1"
	SeedYearID      = "ay-2025-26"
	SeedNextYearID  = "ay-2026-27"
	SeedFA1ID       = "exam-fa1"
	SeedSA1ID       = "exam-sa1"
)

func day(s string) time.Time {
	t, _ := time.Parse(models.DateLayout, s)
	return t
}

func strp(s string) *string { return &s }

// Seed загружает демонстрационный набор: пользователей всех ролей, двух учеников 10 класса,
// настройки классов 5–10, два учебных года и экзамены FA1/SA1. Пустое хранилище обязательно.
func (s *Store) Seed(ctx context.Context) error {
	_, err := s.apply(ctx, "seed", func(next *Snapshot) error {
		if len(next.Users) > 0 || len(next.Students) > 0 {
			return precondition("store is not empty")
		}
		pw := s.opts.DefaultPassword

		for g := school.MinGrade; g <= school.MaxGrade; g++ {
			next.ClassSetups = append(next.ClassSetups, models.ClassSetup{
				Grade:    g,
				Sections: []string{"A", "B"},
				Subjects: school.SubjectsForGrade(g),
				Fees:     seedFees(g),
			})
		}

		from, to := school.YearBounds(2025)
		nextID := SeedNextYearID
		next.AcademicYears = []models.AcademicYear{
			{ID: SeedYearID, Name: school.YearLabel(2025), StartDate: from, EndDate: to.AddDate(0, 0, -1), Status: models.YearActive, NextYearID: &nextID},
		}
		from, to = school.YearBounds(2026)
		next.AcademicYears = append(next.AcademicYears, models.AcademicYear{
			ID: SeedNextYearID, Name: school.YearLabel(2026), StartDate: from, EndDate: to.AddDate(0, 0, -1), Status: models.YearUpcoming,
		})

		next.Exams = []models.Exam{
			{ID: SeedFA1ID, Type: models.FA1, Name: "Formative Assessment 1", StartDate: day("2025-07-14"), EndDate: day("2025-07-18")},
			{ID: SeedSA1ID, Type: models.SA1, Name: "Summative Assessment 1", StartDate: day("2025-09-22"), EndDate: day("2025-10-01")},
		}

		alice, bob := "SCHL2025001", "SCHL2025002"
		next.Students = []models.Student{
			{
				RegisterNumber: alice, Name: "Alice Johnson", Grade: 10, Section: "A",
				FatherName: strp("John Johnson"), MotherName: strp("Jane Johnson"),
				FatherPhone: strp("9876543210"), MotherPhone: strp("9876543211"),
				Address: strp("123 Main St, City"),
				Attendance: []models.AttendanceRecord{
					{Date: day("2025-07-15"), Session: models.Morning, Type: models.Present},
					{Date: day("2025-07-15"), Session: models.Afternoon, Type: models.Present},
					{Date: day("2025-07-16"), Session: models.Morning, Type: models.Present},
					{Date: day("2025-07-16"), Session: models.Afternoon, Type: models.Absent},
					{Date: day("2025-07-17"), Session: models.Morning, Type: models.Absent},
				},
				Marks: seedMarks(SeedFA1ID, map[string]float64{
					"Telugu": 80, "Hindi": 75, "English": 88, "Mathematics": 85, "Science": 92, "Social": 82, "Biology": 90,
				}),
				AcademicYearID: SeedYearID,
			},
			{
				RegisterNumber: bob, Name: "Bob Smith", Grade: 10, Section: "B",
				FatherName: strp("Robert Smith"), MotherName: strp("Emily Smith"),
				FatherPhone: strp("8765432109"), MotherPhone: strp("8765432108"),
				Address: strp("456 Oak Ave, Town"),
				Attendance: []models.AttendanceRecord{
					{Date: day("2025-07-15"), Session: models.Morning, Type: models.Present},
					{Date: day("2025-07-15"), Session: models.Afternoon, Type: models.Present},
					{Date: day("2025-07-16"), Session: models.Morning, Type: models.Absent},
					{Date: day("2025-07-16"), Session: models.Afternoon, Type: models.Present},
					{Date: day("2025-07-17"), Session: models.Morning, Type: models.Absent},
				},
				Marks: seedMarks(SeedFA1ID, map[string]float64{
					"Telugu": 70, "Hindi": 65, "English": 75, "Mathematics": 78, "Science": 82, "Social": 88, "Biology": 79,
				}),
				DisciplinaryActions: []string{"Late submission of homework - Jul 10, 2025"},
				AcademicYearID:      SeedYearID,
			},
		}
		for i := range next.Students {
			if cs, ok := next.ClassSetup(next.Students[i].Grade); ok {
				next.Students[i].TotalFee = school.ClassTotalFee(cs)
			}
		}

		next.Users = []models.User{
			{ID: SeedAdminID, Username: "admin", Password: pw, Role: models.Admin, IsFirstLogin: true},
			{
				ID: SeedFacultyID, Username: "faculty1", Password: pw, Role: models.Faculty,
				AssignedClasses: []string{"10A", "10B"}, AssignedStudents: []string{alice, bob}, IsFirstLogin: true,
			},
			{ID: "parent1", Username: alice, Password: pw, Role: models.Parent, StudentRegNo: strp(alice), Phone: strp("9876543210"), IsFirstLogin: true},
			{ID: "parent2", Username: bob, Password: pw, Role: models.Parent, StudentRegNo: strp(bob), Phone: strp("8765432109"), IsFirstLogin: true},
			{ID: SeedAccountsID, Username: "accounts", Password: pw, Role: models.Accounts, IsFirstLogin: true},
			{ID: SeedLibrarianID, Username: "librarian", Password: pw, Role: models.Librarian, IsFirstLogin: true},
		}

		next.Leaves = []models.Leave{{
			ID: "leave1", FacultyID: SeedFacultyID, DateStart: day("2025-08-01"), DateEnd: day("2025-08-03"),
			Reason: "Medical appointment", Status: models.LeavePending,
		}}
		next.Announcements = []models.Announcement{{
			ID: "ann1", AuthorID: SeedAdminID, Date: day("2025-07-20"), Audience: models.AudienceAll,
			Content: "Winter break starts from February 15th. Classes will resume on March 1st.",
		}}
		next.Books = []models.Book{
			{ID: "book1", Title: "Wings of Fire", Author: "A. P. J. Abdul Kalam", ISBN: "9788173711466", TotalCopies: 3, AvailableCopies: 3},
			{ID: "book2", Title: "The Discovery of India", Author: "Jawaharlal Nehru", ISBN: "9780143031031", TotalCopies: 1, AvailableCopies: 1},
		}

		// у Алисы оплата за год уже внесена
		s.reconcile(next)
		for i := range next.Fees {
			if next.Fees[i].StudentRegNo != alice {
				continue
			}
			paidAt := day("2025-06-10")
			for _, c := range models.FeeCategories {
				if amt := next.Fees[i].Due.Get(c); amt > 0 {
					next.Fees[i] = school.ApplyPayment(next.Fees[i], c, amt, paidAt)
				}
			}
		}
		return nil
	})
	return err
}

// Стандартная сетка оплаты: 10 класс 30 500 ₹, младшие классы дешевле.
func seedFees(grade int) models.FeeBreakdown {
	if grade == school.MaxGrade {
		return models.FeeBreakdown{Tuition: 18000, Exam: 1000, Lab: 1500, Library: 500, Transport: 7500, Misc: 2000}
	}
	step := int64(school.MaxGrade-grade) * 1000
	return models.FeeBreakdown{Tuition: 18000 - step, Exam: 1000, Lab: 1000, Library: 500, Transport: 7500, Misc: 2000}
}

func seedMarks(examID string, bySubject map[string]float64) []models.MarkEntry {
	out := make([]models.MarkEntry, 0, len(bySubject))
	for _, subj := range school.SubjectsForGrade(10) {
		obt, ok := bySubject[subj]
		if !ok {
			continue
		}
		g := school.GradeLetter(school.Percentage(obt, 100))
		out = append(out, models.MarkEntry{ExamID: examID, Subject: subj, MarksObtained: obt, MaxMarks: 100, Grade: &g})
	}
	return out
}
