package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Spok95/school-portal/internal/models"
)

type LeaveInput struct {
	FacultyID string    `validate:"required"`
	DateStart time.Time `validate:"required"`
	DateEnd   time.Time `validate:"required"`
	Reason    string    `validate:"required"`
}

func (s *Store) RequestLeave(ctx context.Context, in LeaveInput) (models.Leave, error) {
	if err := check(in); err != nil {
		return models.Leave{}, err
	}
	if in.DateEnd.Before(in.DateStart) {
		return models.Leave{}, &ValidationError{Msg: "leave ends before it starts", Fields: []FieldError{{Field: "DateEnd", Rule: "gtefield"}}}
	}
	var out models.Leave
	_, err := s.apply(ctx, "leaves.request", func(next *Snapshot) error {
		i := next.userIdx(in.FacultyID)
		if i < 0 {
			return notFound("user", in.FacultyID)
		}
		if next.Users[i].Role != models.Faculty {
			return precondition("only faculty can request leave")
		}
		out = models.Leave{
			ID:        s.opts.NewID(),
			FacultyID: in.FacultyID,
			DateStart: models.DateOf(in.DateStart),
			DateEnd:   models.DateOf(in.DateEnd),
			Reason:    strings.TrimSpace(in.Reason),
			Status:    models.LeavePending,
		}
		next.Leaves = append(next.Leaves, out)
		return nil
	})
	return out, err
}

// SetLeaveStatus — решение по заявке; решённую заявку повторно не меняют.
func (s *Store) SetLeaveStatus(ctx context.Context, id string, status models.LeaveStatus) error {
	if status != models.LeaveApproved && status != models.LeaveRejected {
		return &ValidationError{Msg: fmt.Sprintf("bad leave status %q", status), Fields: []FieldError{{Field: "Status", Rule: "oneof"}}}
	}
	_, err := s.apply(ctx, "leaves.set_status", func(next *Snapshot) error {
		for i := range next.Leaves {
			if next.Leaves[i].ID != id {
				continue
			}
			if next.Leaves[i].Status != models.LeavePending {
				return precondition("leave %s already %s", id, next.Leaves[i].Status)
			}
			next.Leaves[i].Status = status
			return nil
		}
		return notFound("leave", id)
	})
	return err
}

type AnnouncementInput struct {
	AuthorID string          `validate:"required"`
	Content  string          `validate:"required"`
	Audience models.Audience `validate:"omitempty,oneof=All Faculty Parents Students"`
}

// PostAnnouncement публикует объявление первым в ленте.
func (s *Store) PostAnnouncement(ctx context.Context, in AnnouncementInput) (models.Announcement, error) {
	in.Content = strings.TrimSpace(in.Content)
	if err := check(in); err != nil {
		return models.Announcement{}, err
	}
	if in.Audience == "" {
		in.Audience = models.AudienceAll
	}
	var out models.Announcement
	_, err := s.apply(ctx, "announcements.post", func(next *Snapshot) error {
		if next.userIdx(in.AuthorID) < 0 {
			return notFound("user", in.AuthorID)
		}
		out = models.Announcement{
			ID:       s.opts.NewID(),
			AuthorID: in.AuthorID,
			Date:     s.now(),
			Content:  in.Content,
			Audience: in.Audience,
		}
		next.Announcements = append([]models.Announcement{out}, next.Announcements...)
		return nil
	})
	return out, err
}

type ReportInput struct {
	StudentRegNo string `validate:"required"`
	FacultyID    string `validate:"required"`
	Description  string `validate:"required"`
}

// FileDisciplinaryReport — жалоба преподавателя на ученика, новые первыми.
func (s *Store) FileDisciplinaryReport(ctx context.Context, in ReportInput) (models.DisciplinaryReport, error) {
	in.Description = strings.TrimSpace(in.Description)
	if err := check(in); err != nil {
		return models.DisciplinaryReport{}, err
	}
	var out models.DisciplinaryReport
	_, err := s.apply(ctx, "reports.file", func(next *Snapshot) error {
		if next.studentIdx(in.StudentRegNo) < 0 {
			return notFound("student", in.StudentRegNo)
		}
		if next.userIdx(in.FacultyID) < 0 {
			return notFound("user", in.FacultyID)
		}
		out = models.DisciplinaryReport{
			ID:           s.opts.NewID(),
			StudentRegNo: in.StudentRegNo,
			FacultyID:    in.FacultyID,
			Date:         s.now(),
			Description:  in.Description,
			Status:       models.ReportPending,
		}
		next.DisciplinaryReports = append([]models.DisciplinaryReport{out}, next.DisciplinaryReports...)
		return nil
	})
	return out, err
}

type ReportAction string

const (
	ReportIgnore ReportAction = "ignore"
	ReportBlock  ReportAction = "block"
)

// ResolveReport: ignore закрывает жалобу, block блокирует портал ученика
// и записывает действие в его журнал.
func (s *Store) ResolveReport(ctx context.Context, id string, action ReportAction) error {
	if action != ReportIgnore && action != ReportBlock {
		return &ValidationError{Msg: fmt.Sprintf("bad action %q", action), Fields: []FieldError{{Field: "Action", Rule: "oneof"}}}
	}
	_, err := s.apply(ctx, "reports.resolve", func(next *Snapshot) error {
		for i := range next.DisciplinaryReports {
			r := &next.DisciplinaryReports[i]
			if r.ID != id {
				continue
			}
			if r.Status != models.ReportPending {
				return precondition("report %s already %s", id, r.Status)
			}
			if action == ReportIgnore {
				r.Status = models.ReportIgnored
				return nil
			}
			j := next.studentIdx(r.StudentRegNo)
			if j < 0 {
				return notFound("student", r.StudentRegNo)
			}
			st := &next.Students[j]
			st.IsPortalBlocked = true
			st.DisciplinaryActions = append(st.DisciplinaryActions,
				fmt.Sprintf("%s: portal blocked (%s)", s.now().Format(models.DateLayout), r.Description))
			r.Status = models.ReportReviewed
			return nil
		}
		return notFound("report", id)
	})
	return err
}

type AssignmentInput struct {
	FacultyID   string `validate:"required"`
	ClassID     string `validate:"required"`
	Subject     string `validate:"required"`
	Title       string `validate:"required"`
	Description string
	DueDate     time.Time `validate:"required"`
}

func (s *Store) AddAssignment(ctx context.Context, in AssignmentInput) (models.Assignment, error) {
	if err := check(in); err != nil {
		return models.Assignment{}, err
	}
	var out models.Assignment
	_, err := s.apply(ctx, "assignments.add", func(next *Snapshot) error {
		if next.userIdx(in.FacultyID) < 0 {
			return notFound("user", in.FacultyID)
		}
		out = models.Assignment{
			ID:          s.opts.NewID(),
			FacultyID:   in.FacultyID,
			ClassID:     in.ClassID,
			Subject:     in.Subject,
			Title:       in.Title,
			Description: in.Description,
			DueDate:     models.DateOf(in.DueDate),
		}
		next.Assignments = append(next.Assignments, out)
		return nil
	})
	return out, err
}

// SetTimetable заменяет расписание класса целиком.
func (s *Store) SetTimetable(ctx context.Context, classID string, slots []models.TimetableSlot) error {
	if strings.TrimSpace(classID) == "" {
		return &ValidationError{Msg: "class id is required", Fields: []FieldError{{Field: "ClassID", Rule: "required"}}}
	}
	seen := make(map[[2]int]bool, len(slots))
	for _, sl := range slots {
		if sl.Period <= 0 || sl.Subject == "" {
			return invalid("bad slot %v period %d", sl.Day, sl.Period)
		}
		k := [2]int{int(sl.Day), sl.Period}
		if seen[k] {
			return invalid("duplicate slot %v period %d", sl.Day, sl.Period)
		}
		seen[k] = true
	}
	_, err := s.apply(ctx, "timetable.set", func(next *Snapshot) error {
		tt := models.Timetable{ClassID: classID, Slots: append([]models.TimetableSlot(nil), slots...)}
		for i := range next.Timetables {
			if next.Timetables[i].ClassID == classID {
				next.Timetables[i] = tt
				return nil
			}
		}
		next.Timetables = append(next.Timetables, tt)
		return nil
	})
	return err
}

type MessageInput struct {
	FromID  string `validate:"required"`
	ToID    string `validate:"required,nefield=FromID"`
	Subject string
	Body    string `validate:"required"`
}

func (s *Store) SendMessage(ctx context.Context, in MessageInput) (models.Message, error) {
	if err := check(in); err != nil {
		return models.Message{}, err
	}
	var out models.Message
	_, err := s.apply(ctx, "messages.send", func(next *Snapshot) error {
		if next.userIdx(in.FromID) < 0 {
			return notFound("user", in.FromID)
		}
		if next.userIdx(in.ToID) < 0 {
			return notFound("user", in.ToID)
		}
		out = models.Message{
			ID: s.opts.NewID(), FromID: in.FromID, ToID: in.ToID,
			Subject: in.Subject, Body: in.Body, SentAt: s.now(),
		}
		next.Messages = append(next.Messages, out)
		return nil
	})
	return out, err
}

func (s *Store) MarkMessageRead(ctx context.Context, id string) error {
	_, err := s.apply(ctx, "messages.read", func(next *Snapshot) error {
		for i := range next.Messages {
			if next.Messages[i].ID == id {
				if next.Messages[i].Read {
					return errNoop
				}
				next.Messages[i].Read = true
				return nil
			}
		}
		return notFound("message", id)
	})
	return err
}
