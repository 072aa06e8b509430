package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Spok95/school-portal/internal/models"
	"github.com/Spok95/school-portal/internal/school"
)

func reopen(t *testing.T, wb *Workbook) *excelize.File {
	t.Helper()
	b, err := wb.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("книга не открывается: %v", err)
	}
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestFeeRegisterWorkbook(t *testing.T) {
	due := time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC)
	rows := []FeeRow{
		{FeeID: "f1", RegNo: "SCHL2025001", Name: "Alice Johnson", ClassID: "10A", Year: "2025–26", TotalDue: 30500, Paid: 30500, Status: models.FeePaid, DueDate: due},
		{FeeID: "f2", RegNo: "SCHL2025002", Name: "Bob Smith", ClassID: "10B", Year: "2025–26", TotalDue: 30500, Paid: 0, Status: models.FeeOverdue, DueDate: due},
		{FeeID: "f3", RegNo: "SCHL2025003", Name: "Chitra", ClassID: "9B", Year: "2025–26", TotalDue: 29500, Paid: 1000, Status: models.FeePartiallyPaid, DueDate: due},
	}
	wb, err := FeeRegisterWorkbook(rows)
	if err != nil {
		t.Fatalf("FeeRegisterWorkbook: %v", err)
	}
	f := reopen(t, wb)

	want := []string{"All", "Paid", "Pending", "Partially Paid", "Overdue"}
	if got := f.GetSheetList(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("листы %v, ожидали %v", got, want)
	}
	all, _ := f.GetRows("All")
	if len(all) != 4 || all[0][0] != "Reg. No" {
		t.Fatalf("лист All: %v", all)
	}
	if all[3][6] != "28500" {
		t.Fatalf("остаток Chitra: %q", all[3][6])
	}
	overdue, _ := f.GetRows("Overdue")
	if len(overdue) != 2 || overdue[1][1] != "Bob Smith" {
		t.Fatalf("лист Overdue: %v", overdue)
	}
	pending, _ := f.GetRows("Pending")
	if len(pending) != 1 {
		t.Fatalf("на листе Pending только заголовок: %v", pending)
	}
}

func TestClassReportWorkbook(t *testing.T) {
	rows := []ClassReportRow{
		{Rank: 1, RegNo: "SCHL2025001", Name: "Alice", Overall: 90, Grade: "A+", Attendance: 95},
		{Rank: 2, RegNo: "SCHL2025003", Name: "Chitra", Overall: 80, Grade: "A", Attendance: 88},
	}
	avgs := []school.ExamAverages{{
		Exam:     models.Exam{ID: "e1", Type: models.FA1, Name: "FA1"},
		Subjects: []school.SubjectAverage{{Subject: "Hindi", Average: 41.666666}},
	}}
	wb, err := ClassReportWorkbook("10A", rows, avgs)
	if err != nil {
		t.Fatalf("ClassReportWorkbook: %v", err)
	}
	f := reopen(t, wb)
	r, _ := f.GetRows("Ranking 10A")
	if len(r) != 3 || r[2][2] != "Chitra" || r[2][0] != "2" {
		t.Fatalf("рейтинг: %v", r)
	}
	a, _ := f.GetRows("Subject averages")
	if len(a) != 2 || a[1][2] != "41.67" {
		t.Fatalf("средние: %v", a)
	}
}

func TestAttendanceWorkbook(t *testing.T) {
	rows := []AttendanceRow{{RegNo: "SCHL2025001", Name: "Alice", Summary: school.AttendanceSummary{Present: 2, HalfDay: 1, Absent: 1, Total: 4, Rate: 63}}}
	wb, err := AttendanceWorkbook("10A", rows)
	if err != nil {
		t.Fatalf("AttendanceWorkbook: %v", err)
	}
	f := reopen(t, wb)
	r, _ := f.GetRows("Attendance 10A")
	if len(r) != 2 || r[1][7] != "63" {
		t.Fatalf("посещаемость: %v", r)
	}
}

func TestNewWorkbook_Errors(t *testing.T) {
	if _, err := NewWorkbook(nil); err == nil {
		t.Fatalf("книга без листов должна давать ошибку")
	}
	wb, err := NewWorkbook([]SheetSpec{{Title: "a/b:c*d?[e]", Header: []string{"x"}}})
	if err != nil {
		t.Fatalf("NewWorkbook: %v", err)
	}
	if name := wb.File.GetSheetName(0); strings.ContainsAny(name, "/:*?[]") {
		t.Fatalf("недопустимые символы в имени листа: %q", name)
	}
}

func TestFeeReceiptPDF(t *testing.T) {
	paidAt := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	f := models.Fee{
		ID: "fee-1", StudentRegNo: "SCHL2025001",
		Due:      models.FeeBreakdown{Tuition: 18000, Exam: 1000, Lab: 1500, Library: 500, Transport: 7500, Misc: 2000},
		TotalDue: 30500, DueDate: paidAt,
	}
	f = school.ApplyPayment(f, models.Tuition, 18000, paidAt)

	var buf bytes.Buffer
	err := FeeReceiptPDF(Receipt{Fee: f, Name: "Alice Johnson", ClassID: "10A", Year: "2025–26", IssuedAt: paidAt, ReceiptNo: "R-1"}, &buf)
	if err != nil {
		t.Fatalf("FeeReceiptPDF: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("ожидали PDF, получили %q", buf.Bytes()[:min(8, buf.Len())])
	}
}

func TestReportCardPDF(t *testing.T) {
	g := "A"
	st := models.Student{
		RegisterNumber: "SCHL2025001", Name: "Alice Johnson", Grade: 10, Section: "A",
		Marks:      []models.MarkEntry{{ExamID: "e1", Subject: "English", MarksObtained: 88, MaxMarks: 100, Grade: &g}},
		Attendance: []models.AttendanceRecord{{Date: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), Session: models.Morning, Type: models.Present}},
	}
	card := school.BuildReportCard(st, []models.Student{st}, []models.Exam{{ID: "e1", Type: models.FA1, Name: "FA1"}})

	var buf bytes.Buffer
	if err := ReportCardPDF(card, &buf); err != nil {
		t.Fatalf("ReportCardPDF: %v", err)
	}
	if buf.Len() < 500 || !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("табель не похож на PDF (%d байт)", buf.Len())
	}
}

func TestFilenamesAndMoney(t *testing.T) {
	if got := ClassReportFilename("10A", "2025/26"); got != "class_report_10A_2025_26.xlsx" {
		t.Fatalf("имя файла: %q", got)
	}
	if got := ReportCardFilename("SCHL2025001", "Alice  Johnson"); got != "report_card_SCHL2025001_Alice_Johnson.pdf" {
		t.Fatalf("имя файла: %q", got)
	}
	if got := Rupees(30500); got != "Rs. 30,500" {
		t.Fatalf("сумма: %q", got)
	}
}
