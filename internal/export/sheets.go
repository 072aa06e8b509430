package export

import (
	"math"
	"time"

	"github.com/Spok95/school-portal/internal/metrics"
	"github.com/Spok95/school-portal/internal/models"
	"github.com/Spok95/school-portal/internal/school"
)

// FeeRow — строка реестра оплаты.
type FeeRow struct {
	FeeID       string
	RegNo       string
	Name        string
	ClassID     string
	Year        string
	TotalDue    int64
	Paid        int64
	Status      models.FeeStatus
	DueDate     time.Time
	LastPayment *time.Time
}

var feeHeader = []string{"Reg. No", "Name", "Class", "Year", "Total Due", "Paid", "Outstanding", "Status", "Due Date", "Last Payment", "Fee ID"}

// FeeRegisterWorkbook — лист «All» и по листу на каждый статус.
func FeeRegisterWorkbook(rows []FeeRow) (*Workbook, error) {
	byStatus := map[models.FeeStatus][][]any{}
	all := make([][]any, 0, len(rows))
	for _, r := range rows {
		last := ""
		if r.LastPayment != nil {
			last = r.LastPayment.Format(models.DateLayout)
		}
		line := []any{
			r.RegNo, r.Name, r.ClassID, r.Year,
			r.TotalDue, r.Paid, r.TotalDue - r.Paid,
			string(r.Status), r.DueDate.Format(models.DateLayout), last, r.FeeID,
		}
		all = append(all, line)
		byStatus[r.Status] = append(byStatus[r.Status], line)
	}
	sheets := []SheetSpec{{Title: "All", Header: feeHeader, Rows: all}}
	for _, st := range models.AllFeeStatuses {
		sheets = append(sheets, SheetSpec{Title: string(st), Header: feeHeader, Rows: byStatus[st]})
	}
	wb, err := NewWorkbook(sheets)
	if err != nil {
		return nil, err
	}
	metrics.Exports.WithLabelValues("fee_register").Inc()
	return wb, nil
}

// ClassReportRow — место ученика и его итоги; всё уже посчитано.
type ClassReportRow struct {
	Rank       int
	RegNo      string
	Name       string
	Overall    int
	Grade      string
	Attendance int
}

// ClassReportWorkbook — рейтинг класса и средние по предметам.
func ClassReportWorkbook(classID string, rows []ClassReportRow, averages []school.ExamAverages) (*Workbook, error) {
	ranking := SheetSpec{
		Title:  "Ranking " + classID,
		Header: []string{"Rank", "Reg. No", "Name", "Overall %", "Grade", "Attendance %"},
	}
	for _, r := range rows {
		ranking.Rows = append(ranking.Rows, []any{r.Rank, r.RegNo, r.Name, r.Overall, r.Grade, r.Attendance})
	}
	avg := SheetSpec{Title: "Subject averages", Header: []string{"Exam", "Subject", "Average"}}
	for _, ea := range averages {
		for _, sa := range ea.Subjects {
			avg.Rows = append(avg.Rows, []any{ea.Exam.Name, sa.Subject, round2(sa.Average)})
		}
	}
	wb, err := NewWorkbook([]SheetSpec{ranking, avg})
	if err != nil {
		return nil, err
	}
	metrics.Exports.WithLabelValues("class_report").Inc()
	return wb, nil
}

type AttendanceRow struct {
	RegNo   string
	Name    string
	Summary school.AttendanceSummary
}

func AttendanceWorkbook(classID string, rows []AttendanceRow) (*Workbook, error) {
	sh := SheetSpec{
		Title:  "Attendance " + classID,
		Header: []string{"Reg. No", "Name", "Present", "Absent", "Half Day", "On Leave", "Sessions", "Rate %"},
	}
	for _, r := range rows {
		s := r.Summary
		sh.Rows = append(sh.Rows, []any{r.RegNo, r.Name, s.Present, s.Absent, s.HalfDay, s.OnLeave, s.Total, s.Rate})
	}
	wb, err := NewWorkbook([]SheetSpec{sh})
	if err != nil {
		return nil, err
	}
	metrics.Exports.WithLabelValues("attendance").Inc()
	return wb, nil
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
