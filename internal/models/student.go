package models

import (
	"fmt"
	"time"
)

type Session string

const (
	Morning   Session = "morning"
	Afternoon Session = "afternoon"
)

func (s Session) Valid() bool { return s == Morning || s == Afternoon }

type AttendanceType string

const (
	Present AttendanceType = "Present"
	Absent  AttendanceType = "Absent"
	HalfDay AttendanceType = "HalfDay"
	OnLeave AttendanceType = "OnLeave"
)

func (t AttendanceType) Valid() bool {
	switch t {
	case Present, Absent, HalfDay, OnLeave:
		return true
	}
	return false
}

type AttendanceRecord struct {
	Date    time.Time
	Session Session
	Type    AttendanceType
	Reason  *string
}

type MarkEntry struct {
	ExamID        string
	Subject       string
	MarksObtained float64
	MaxMarks      float64
	Grade         *string
}

type Student struct {
	RegisterNumber string
	Name           string
	Grade          int
	Section        string

	FatherName  *string
	MotherName  *string
	FatherPhone *string
	MotherPhone *string
	Address     *string

	Attendance          []AttendanceRecord
	Marks               []MarkEntry
	DisciplinaryActions []string
	IsPortalBlocked     bool
	TotalFee            int64
	AcademicYearID      string
}

// ClassID — номер класса + секция, например "10A".
func (s Student) ClassID() string { return ClassID(s.Grade, s.Section) }

func (s Student) IsAlumni() bool { return s.AcademicYearID == AlumniYearID }

func ClassID(grade int, section string) string {
	return fmt.Sprintf("%d%s", grade, section)
}

// GradeLabel: 1 → "1st Grade", 10 → "10th Grade".
func GradeLabel(grade int) string {
	suffix := "th"
	switch grade % 100 {
	case 11, 12, 13:
	default:
		switch grade % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s Grade", grade, suffix)
}

// DateOf отбрасывает время и зону: посещаемость и сроки считаются по календарным дням.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

const DateLayout = "2006-01-02"

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad date %q (want YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}
