package models

import (
	"fmt"
	"strings"
	"time"
)

type ExamType string

const (
	FA1   ExamType = "FA1"
	FA2   ExamType = "FA2"
	SA1   ExamType = "SA1"
	FA3   ExamType = "FA3"
	FA4   ExamType = "FA4"
	SA2   ExamType = "SA2"
	Final ExamType = "Final"
)

// ExamTypes задаёт порядок экзаменов в учебном году.
var ExamTypes = []ExamType{FA1, FA2, SA1, FA3, FA4, SA2, Final}

// Order — позиция в ExamTypes, -1 для неизвестного типа.
func (t ExamType) Order() int {
	for i, x := range ExamTypes {
		if x == t {
			return i
		}
	}
	return -1
}

func ParseExamType(s string) (ExamType, error) {
	for _, x := range ExamTypes {
		if strings.EqualFold(string(x), strings.TrimSpace(s)) {
			return x, nil
		}
	}
	return "", fmt.Errorf("unknown exam type %q", s)
}

type Exam struct {
	ID        string
	Type      ExamType
	Name      string
	StartDate time.Time
	EndDate   time.Time
	Classes   []string
}

type ClassSetup struct {
	Grade    int
	Sections []string
	Subjects []string
	Fees     FeeBreakdown
}

type YearStatus string

const (
	YearActive    YearStatus = "Active"
	YearUpcoming  YearStatus = "Upcoming"
	YearCompleted YearStatus = "Completed"
)

// AlumniYearID — служебный «год» выпускников.
const AlumniYearID = "alumni"

type AcademicYear struct {
	ID         string
	Name       string // "2025–26"
	StartDate  time.Time
	EndDate    time.Time
	Status     YearStatus
	NextYearID *string
}
