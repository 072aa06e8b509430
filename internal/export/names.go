package export

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	invalidFileRe  = regexp.MustCompile(`[\\/:*?"<>|]+`)
	invalidSheetRe = regexp.MustCompile(`[\[\]:*?/\\]+`)
)

// суммы в рупиях с индийской группировкой разрядов
var inr = message.NewPrinter(language.MustParse("en-IN"))

// Rupees: 30500 → "Rs. 30,500". Знак ₹ не входит в кодировку стандартных PDF-шрифтов.
func Rupees(amount int64) string {
	return inr.Sprintf("Rs. %d", amount)
}

func FeeRegisterFilename(at time.Time) string {
	return sanitizeFileName(fmt.Sprintf("fee_register_%s.xlsx", at.Format("2006-01-02")))
}

func ClassReportFilename(classID, yearName string) string {
	return sanitizeFileName(fmt.Sprintf("class_report_%s_%s.xlsx", cleanName(classID), cleanName(yearName)))
}

func AttendanceFilename(classID string, at time.Time) string {
	return sanitizeFileName(fmt.Sprintf("attendance_%s_%s.xlsx", cleanName(classID), at.Format("2006-01")))
}

func ReceiptFilename(regNo, feeID string) string {
	return sanitizeFileName(fmt.Sprintf("receipt_%s_%s.pdf", cleanName(regNo), cleanName(feeID)))
}

func ReportCardFilename(regNo, studentName string) string {
	return sanitizeFileName(fmt.Sprintf("report_card_%s_%s.pdf", cleanName(regNo), cleanName(studentName)))
}

func sanitizeFileName(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Join(strings.Fields(s), "_")
	return invalidFileRe.ReplaceAllString(s, "_")
}

func cleanName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "unknown"
	}
	return s
}
