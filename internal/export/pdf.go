package export

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/Spok95/school-portal/internal/metrics"
	"github.com/Spok95/school-portal/internal/models"
	"github.com/Spok95/school-portal/internal/school"
)

// SchoolName печатается в шапке документов.
var SchoolName = "Greenfield High School"

// Receipt — данные квитанции об оплате.
type Receipt struct {
	Fee       models.Fee
	Name      string
	ClassID   string
	Year      string
	IssuedAt  time.Time
	ReceiptNo string
}

type pdfDoc struct {
	*gofpdf.Fpdf
	tr func(string) string
}

func newPDF(title string) *pdfDoc {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetAuthor(SchoolName, true)
	pdf.SetMargins(20, 15, 20)
	pdf.AddPage()
	return &pdfDoc{Fpdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

func (p *pdfDoc) header(title string) {
	p.SetFont("Arial", "B", 18)
	p.CellFormat(0, 9, p.tr(SchoolName), "", 1, "C", false, 0, "")
	p.SetFont("Arial", "B", 13)
	p.CellFormat(0, 8, p.tr(title), "", 1, "C", false, 0, "")
	p.SetDrawColor(40, 145, 108)
	p.SetLineWidth(0.5)
	p.Line(20, p.GetY()+1, 190, p.GetY()+1)
	p.Ln(6)
}

func (p *pdfDoc) field(label, value string) {
	p.SetFont("Arial", "", 10)
	p.Cell(45, 6, p.tr(label))
	p.SetFont("Arial", "B", 10)
	p.Cell(0, 6, p.tr(value))
	p.Ln(6)
}

func (p *pdfDoc) tableHead(widths []float64, cols ...string) {
	p.SetFont("Arial", "B", 9)
	p.SetFillColor(40, 145, 108)
	p.SetTextColor(255, 255, 255)
	for i, c := range cols {
		p.CellFormat(widths[i], 8, p.tr(c), "1", 0, "C", true, 0, "")
	}
	p.Ln(-1)
	p.SetTextColor(0, 0, 0)
	p.SetFont("Arial", "", 9)
}

func (p *pdfDoc) tableRow(widths []float64, cells ...string) {
	for i, c := range cells {
		align := "C"
		if i == 0 {
			align = "L"
		}
		p.CellFormat(widths[i], 7, p.tr(c), "1", 0, align, false, 0, "")
	}
	p.Ln(-1)
}

// FeeReceiptPDF печатает квитанцию: разбивка по категориям и история платежей.
func FeeReceiptPDF(r Receipt, w io.Writer) error {
	p := newPDF("Fee receipt " + r.ReceiptNo)
	p.header("FEE RECEIPT")

	f := r.Fee
	p.field("Receipt No:", r.ReceiptNo)
	p.field("Date:", r.IssuedAt.Format("02 Jan 2006"))
	p.field("Register Number:", f.StudentRegNo)
	p.field("Student:", r.Name)
	p.field("Class:", r.ClassID)
	p.field("Academic Year:", r.Year)
	p.Ln(4)

	widths := []float64{60, 35, 35, 40}
	p.tableHead(widths, "Category", "Due", "Paid", "Balance")
	for _, c := range models.FeeCategories {
		due, paid := f.Due.Get(c), f.Paid.Get(c)
		if due == 0 && paid == 0 {
			continue
		}
		p.tableRow(widths, categoryLabel(c), Rupees(due), Rupees(paid), Rupees(due-paid))
	}
	p.SetFont("Arial", "B", 9)
	p.tableRow(widths, "Total", Rupees(f.TotalDue), Rupees(f.AmountPaid), Rupees(f.Outstanding()))
	p.Ln(4)
	p.field("Status:", string(f.Status))
	p.field("Due Date:", f.DueDate.Format("02 Jan 2006"))

	if len(f.Payments) > 0 {
		p.Ln(4)
		pw := []float64{50, 60, 60}
		p.tableHead(pw, "Date", "Category", "Amount")
		for _, pay := range f.Payments {
			p.tableRow(pw, pay.Date.Format(models.DateLayout), categoryLabel(pay.Category), Rupees(pay.Amount))
		}
	}

	p.Ln(10)
	p.SetFont("Arial", "I", 8)
	p.MultiCell(0, 4, p.tr("This is a computer generated receipt and does not require a signature."), "", "L", false)
	if err := p.Output(w); err != nil {
		return fmt.Errorf("receipt pdf: %w", err)
	}
	metrics.Exports.WithLabelValues("fee_receipt").Inc()
	return nil
}

// ReportCardPDF печатает табель: экзамены по предметам, итог, место в классе, посещаемость.
func ReportCardPDF(card school.ReportCard, w io.Writer) error {
	p := newPDF("Report card " + card.RegisterNumber)
	p.header("PROGRESS REPORT")

	p.field("Register Number:", card.RegisterNumber)
	p.field("Name:", card.Name)
	p.field("Class:", fmt.Sprintf("%s (%s)", card.GradeLabel, card.ClassID))
	p.Ln(3)

	widths := []float64{60, 35, 35, 20, 20}
	for _, ex := range card.Exams {
		p.SetFont("Arial", "B", 11)
		p.Cell(0, 7, p.tr(ex.Exam.Name))
		p.Ln(8)
		p.tableHead(widths, "Subject", "Obtained", "Max", "%", "Grade")
		for _, s := range ex.Subjects {
			p.tableRow(widths, s.Subject, num(s.Obtained), num(s.Max), fmt.Sprint(s.Percentage), s.Grade)
		}
		p.SetFont("Arial", "B", 9)
		p.tableRow(widths, "Total", num(ex.Obtained), num(ex.Max), fmt.Sprint(ex.Percentage), ex.Grade)
		p.Ln(4)
	}
	if len(card.Exams) == 0 {
		p.SetFont("Arial", "I", 10)
		p.Cell(0, 6, "No marks recorded yet.")
		p.Ln(8)
	}

	p.field("Overall:", fmt.Sprintf("%d%% (%s)", card.Overall, card.OverallGrade))
	rank := "-"
	if card.Rank > 0 {
		rank = fmt.Sprintf("%d of %d", card.Rank, card.ClassSize)
	}
	p.field("Class Rank:", rank)
	a := card.Attendance
	p.field("Attendance:", fmt.Sprintf("%d%% (%d present, %d half day, %d absent, %d on leave of %d sessions)",
		a.Rate, a.Present, a.HalfDay, a.Absent, a.OnLeave, a.Total))

	if len(card.Monthly) > 0 {
		p.Ln(3)
		mw := []float64{40, 30, 30, 30, 30}
		p.tableHead(mw, "Month", "Present", "Half Day", "Absent", "Rate %")
		for _, m := range card.Monthly {
			p.tableRow(mw, m.Month, fmt.Sprint(m.Present), fmt.Sprint(m.HalfDay), fmt.Sprint(m.Absent), fmt.Sprint(m.Rate))
		}
	}
	if err := p.Output(w); err != nil {
		return fmt.Errorf("report card pdf: %w", err)
	}
	metrics.Exports.WithLabelValues("report_card").Inc()
	return nil
}

func categoryLabel(c models.FeeCategory) string {
	switch c {
	case models.ExamFee:
		return "Examination"
	case models.Misc:
		return "Miscellaneous"
	}
	s := string(c)
	return string(s[0]-'a'+'A') + s[1:]
}

func num(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}
