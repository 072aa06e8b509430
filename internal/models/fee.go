package models

import (
	"fmt"
	"strings"
	"time"
)

type FeeStatus string

const (
	FeePaid          FeeStatus = "Paid"
	FeePending       FeeStatus = "Pending"
	FeePartiallyPaid FeeStatus = "Partially Paid"
	FeeOverdue       FeeStatus = "Overdue"
)

var AllFeeStatuses = []FeeStatus{FeePaid, FeePending, FeePartiallyPaid, FeeOverdue}

type FeeCategory string

const (
	Tuition   FeeCategory = "tuition"
	ExamFee   FeeCategory = "exam"
	Lab       FeeCategory = "lab"
	Library   FeeCategory = "library"
	Transport FeeCategory = "transport"
	Misc      FeeCategory = "misc"
)

var FeeCategories = []FeeCategory{Tuition, ExamFee, Lab, Library, Transport, Misc}

func ParseFeeCategory(s string) (FeeCategory, error) {
	c := FeeCategory(strings.ToLower(strings.TrimSpace(s)))
	for _, x := range FeeCategories {
		if c == x {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown fee category %q", s)
}

// FeeBreakdown — суммы по шести категориям, в рупиях.
type FeeBreakdown struct {
	Tuition   int64
	Exam      int64
	Lab       int64
	Library   int64
	Transport int64
	Misc      int64
}

func (b FeeBreakdown) Total() int64 {
	return b.Tuition + b.Exam + b.Lab + b.Library + b.Transport + b.Misc
}

func (b FeeBreakdown) Get(c FeeCategory) int64 {
	switch c {
	case Tuition:
		return b.Tuition
	case ExamFee:
		return b.Exam
	case Lab:
		return b.Lab
	case Library:
		return b.Library
	case Transport:
		return b.Transport
	case Misc:
		return b.Misc
	}
	return 0
}

func (b *FeeBreakdown) Add(c FeeCategory, amount int64) {
	switch c {
	case Tuition:
		b.Tuition += amount
	case ExamFee:
		b.Exam += amount
	case Lab:
		b.Lab += amount
	case Library:
		b.Library += amount
	case Transport:
		b.Transport += amount
	case Misc:
		b.Misc += amount
	}
}

type Payment struct {
	Date     time.Time
	Category FeeCategory
	Amount   int64
}

// Fee — одна запись на пару (ученик, учебный год).
type Fee struct {
	ID              string
	StudentRegNo    string
	AcademicYearID  string
	Due             FeeBreakdown
	Paid            FeeBreakdown
	TotalDue        int64
	AmountPaid      int64
	Status          FeeStatus
	DueDate         time.Time
	LastPaymentDate *time.Time
	Payments        []Payment
}

func (f Fee) Outstanding() int64 { return f.TotalDue - f.AmountPaid }
