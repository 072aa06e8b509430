package models

import "time"

type LeaveStatus string

const (
	LeavePending  LeaveStatus = "Pending"
	LeaveApproved LeaveStatus = "Approved"
	LeaveRejected LeaveStatus = "Rejected"
)

type Leave struct {
	ID        string
	FacultyID string
	DateStart time.Time
	DateEnd   time.Time
	Reason    string
	Status    LeaveStatus
}

type Audience string

const (
	AudienceAll      Audience = "All"
	AudienceFaculty  Audience = "Faculty"
	AudienceParents  Audience = "Parents"
	AudienceStudents Audience = "Students"
)

// Reaches — попадает ли роль в аудиторию объявления.
func (a Audience) Reaches(r Role) bool {
	switch a {
	case AudienceAll:
		return true
	case AudienceFaculty:
		return r == Faculty
	case AudienceParents:
		return r == Parent
	case AudienceStudents:
		return r == StudentRole
	}
	return false
}

type Announcement struct {
	ID       string
	AuthorID string
	Date     time.Time
	Content  string
	Audience Audience
}

type ReportStatus string

const (
	ReportPending  ReportStatus = "Pending"
	ReportReviewed ReportStatus = "Reviewed"
	ReportIgnored  ReportStatus = "Ignored"
)

type DisciplinaryReport struct {
	ID           string
	StudentRegNo string
	FacultyID    string
	Date         time.Time
	Description  string
	Status       ReportStatus
}

type Assignment struct {
	ID          string
	FacultyID   string
	ClassID     string
	Subject     string
	Title       string
	Description string
	DueDate     time.Time
}

type TimetableSlot struct {
	Day       time.Weekday
	Period    int
	Subject   string
	FacultyID string
}

type Timetable struct {
	ClassID string
	Slots   []TimetableSlot
}

type Book struct {
	ID              string
	Title           string
	Author          string
	ISBN            string
	TotalCopies     int
	AvailableCopies int
}

type IssueStatus string

const (
	IssueIssued   IssueStatus = "Issued"
	IssueReturned IssueStatus = "Returned"
)

type BookIssue struct {
	ID         string
	BookID     string
	BorrowerID string
	IssuedAt   time.Time
	DueAt      time.Time
	ReturnedAt *time.Time
	Status     IssueStatus
}

type Message struct {
	ID      string
	FromID  string
	ToID    string
	Subject string
	Body    string
	SentAt  time.Time
	Read    bool
}
