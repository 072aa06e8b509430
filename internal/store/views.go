package store

import (
	"github.com/Spok95/school-portal/internal/models"
	"github.com/Spok95/school-portal/internal/school"
)

// StudentSummary — сводка для родителя и ученика: посещаемость, общий процент, место в классе.
type StudentSummary struct {
	RegisterNumber string                   `json:"registerNumber"`
	Name           string                   `json:"name"`
	ClassID        string                   `json:"classId"`
	GradeLabel     string                   `json:"gradeLabel"`
	Blocked        bool                     `json:"portalBlocked"`
	Attendance     school.AttendanceSummary `json:"attendance"`
	Overall        int                      `json:"overallPercentage"`
	OverallGrade   string                   `json:"overallGrade"`
	Rank           int                      `json:"rank"`
	ClassSize      int                      `json:"classSize"`
	FeeStatus      models.FeeStatus         `json:"feeStatus,omitempty"`
	FeeOutstanding int64                    `json:"feeOutstanding"`
}

func (s *Snapshot) StudentSummary(regNo string) (StudentSummary, error) {
	st, ok := s.Student(regNo)
	if !ok {
		return StudentSummary{}, notFound("student", regNo)
	}
	ids := school.ExamIDs(s.ExamsFor(st.ClassID()))
	pct := school.OverallPercentage(st, ids)
	sum := StudentSummary{
		RegisterNumber: st.RegisterNumber,
		Name:           st.Name,
		ClassID:        st.ClassID(),
		GradeLabel:     models.GradeLabel(st.Grade),
		Blocked:        st.IsPortalBlocked,
		Attendance:     school.AttendanceStats(st.Attendance),
		Overall:        pct,
		OverallGrade:   school.GradeLetter(pct),
		Rank:           school.Rank(st, s.Students, ids),
		ClassSize:      len(s.ClassStudents(st.ClassID())),
	}
	if f, ok := s.FeeFor(st.RegisterNumber, st.AcademicYearID); ok {
		sum.FeeStatus = f.Status
		sum.FeeOutstanding = f.Outstanding()
	}
	return sum, nil
}

// ClassRanking — места в классе по всем экзаменам, назначенным классу.
func (s *Snapshot) ClassRanking(classID string) []school.Standing {
	ids := school.ExamIDs(s.ExamsFor(classID))
	return school.ClassStandings(s.Students, classID, ids)
}

func (s *Snapshot) ReportCard(regNo string) (school.ReportCard, error) {
	st, ok := s.Student(regNo)
	if !ok {
		return school.ReportCard{}, notFound("student", regNo)
	}
	return school.BuildReportCard(st, s.Students, s.ExamsFor(st.ClassID())), nil
}

// FeeRow — строка реестра оплаты с данными ученика.
type FeeRow struct {
	Fee     models.Fee
	Name    string
	ClassID string
	Year    string
}

// FeeRegister — реестр оплаты в порядке создания записей.
func (s *Snapshot) FeeRegister() []FeeRow {
	rows := make([]FeeRow, 0, len(s.Fees))
	for _, f := range s.Fees {
		r := FeeRow{Fee: f}
		if st, ok := s.Student(f.StudentRegNo); ok {
			r.Name = st.Name
			r.ClassID = st.ClassID()
		}
		if y, ok := school.FindYear(s.AcademicYears, f.AcademicYearID); ok {
			r.Year = y.Name
		}
		rows = append(rows, r)
	}
	return rows
}
