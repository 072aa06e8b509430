package school

import "github.com/Spok95/school-portal/internal/models"

type SubjectResult struct {
	Subject    string
	Obtained   float64
	Max        float64
	Percentage int
	Grade      string
}

type ExamResult struct {
	Exam       models.Exam
	Subjects   []SubjectResult
	Obtained   float64
	Max        float64
	Percentage int
	Grade      string
}

// ReportCard — готовые данные табеля; экспорт их только отрисовывает.
type ReportCard struct {
	RegisterNumber string
	Name           string
	ClassID        string
	GradeLabel     string
	Exams          []ExamResult
	Overall        int
	OverallGrade   string
	Rank           int
	ClassSize      int
	Attendance     AttendanceSummary
	Monthly        []MonthAttendance
}

func BuildReportCard(st models.Student, all []models.Student, exams []models.Exam) ReportCard {
	ids := ExamIDs(exams)
	card := ReportCard{
		RegisterNumber: st.RegisterNumber,
		Name:           st.Name,
		ClassID:        st.ClassID(),
		GradeLabel:     models.GradeLabel(st.Grade),
		Overall:        OverallPercentage(st, ids),
		Rank:           Rank(st, all, ids),
		ClassSize:      len(ClassStandings(all, st.ClassID(), ids)),
		Attendance:     AttendanceStats(st.Attendance),
		Monthly:        MonthlyAttendance(st.Attendance),
	}
	card.OverallGrade = GradeLetter(card.Overall)

	for _, e := range SortExams(exams) {
		er := ExamResult{Exam: e}
		for _, m := range st.Marks {
			if m.ExamID != e.ID {
				continue
			}
			pct := Percentage(m.MarksObtained, m.MaxMarks)
			er.Subjects = append(er.Subjects, SubjectResult{
				Subject:    m.Subject,
				Obtained:   m.MarksObtained,
				Max:        m.MaxMarks,
				Percentage: pct,
				Grade:      GradeLetter(pct),
			})
			er.Obtained += m.MarksObtained
			er.Max += m.MaxMarks
		}
		if len(er.Subjects) == 0 {
			continue
		}
		er.Percentage = Percentage(er.Obtained, er.Max)
		er.Grade = GradeLetter(er.Percentage)
		card.Exams = append(card.Exams, er)
	}
	return card
}
