package store

import (
	"context"
	"strings"
	"time"

	"github.com/Spok95/school-portal/internal/ctxutil"
	"github.com/Spok95/school-portal/internal/models"
	"github.com/Spok95/school-portal/internal/school"
)

type NewStudent struct {
	Name        string `validate:"required"`
	Grade       int    `validate:"min=5,max=10"`
	Section     string `validate:"required,alpha,max=2"`
	FatherName  *string
	MotherName  *string
	FatherPhone *string `validate:"omitempty,numeric,min=10,max=13"`
	MotherPhone *string `validate:"omitempty,numeric,min=10,max=13"`
	Address     *string
}

// AddStudent регистрирует ученика в активном учебном году. Номер выдаётся
// под блокировкой записи, вместе с ним заводится учётная запись родителя.
// Если операцию выполняет преподаватель, ученик закрепляется за ним.
func (s *Store) AddStudent(ctx context.Context, in NewStudent) (models.Student, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Section = strings.ToUpper(strings.TrimSpace(in.Section))
	if err := check(in); err != nil {
		return models.Student{}, err
	}
	actorID, actorRole, hasActor := ctxutil.Actor(ctx)

	var out models.Student
	_, err := s.apply(ctx, "students.add", func(next *Snapshot) error {
		year, ok := next.ActiveYear()
		if !ok {
			return precondition("no active academic year")
		}
		now := s.now()
		st := models.Student{
			RegisterNumber: school.NextRegisterNumber(next.Students, s.opts.RegNoPrefix, now.Year()),
			Name:           in.Name,
			Grade:          in.Grade,
			Section:        in.Section,
			FatherName:     in.FatherName,
			MotherName:     in.MotherName,
			FatherPhone:    in.FatherPhone,
			MotherPhone:    in.MotherPhone,
			Address:        in.Address,
			AcademicYearID: year.ID,
		}
		if cs, ok := next.ClassSetup(in.Grade); ok {
			st.TotalFee = school.ClassTotalFee(cs)
		} else {
			st.TotalFee = s.opts.FallbackTuition
		}
		next.Students = append(next.Students, st)

		regNo := st.RegisterNumber
		phone := in.FatherPhone
		if phone == nil {
			phone = in.MotherPhone
		}
		next.Users = append(next.Users, models.User{
			ID:           s.opts.NewID(),
			Username:     regNo,
			Password:     s.opts.DefaultPassword,
			Role:         models.Parent,
			StudentRegNo: &regNo,
			Phone:        phone,
			IsFirstLogin: true,
		})

		if hasActor && actorRole == string(models.Faculty) {
			if i := next.userIdx(actorID); i >= 0 && !next.Users[i].IsAssigned(regNo) {
				next.Users[i].AssignedStudents = append(next.Users[i].AssignedStudents, regNo)
			}
		}
		out = st
		return nil
	})
	return out, err
}

type StudentPatch struct {
	Name        *string `validate:"omitempty,min=1"`
	Section     *string `validate:"omitempty,alpha,max=2"`
	FatherName  *string
	MotherName  *string
	FatherPhone *string `validate:"omitempty,numeric,min=10,max=13"`
	MotherPhone *string `validate:"omitempty,numeric,min=10,max=13"`
	Address     *string
}

// UpdateStudent меняет анкетные поля. Номер, класс и год не меняются.
func (s *Store) UpdateStudent(ctx context.Context, regNo string, p StudentPatch) (models.Student, error) {
	if err := check(p); err != nil {
		return models.Student{}, err
	}
	var out models.Student
	_, err := s.apply(ctx, "students.update", func(next *Snapshot) error {
		i := next.studentIdx(regNo)
		if i < 0 {
			return notFound("student", regNo)
		}
		st := &next.Students[i]
		if p.Name != nil {
			st.Name = strings.TrimSpace(*p.Name)
		}
		if p.Section != nil {
			st.Section = strings.ToUpper(*p.Section)
		}
		if p.FatherName != nil {
			st.FatherName = p.FatherName
		}
		if p.MotherName != nil {
			st.MotherName = p.MotherName
		}
		if p.FatherPhone != nil {
			st.FatherPhone = p.FatherPhone
		}
		if p.MotherPhone != nil {
			st.MotherPhone = p.MotherPhone
		}
		if p.Address != nil {
			st.Address = p.Address
		}
		out = *st
		return nil
	})
	return out, err
}

func (s *Store) SetPortalBlocked(ctx context.Context, regNo string, blocked bool) error {
	_, err := s.apply(ctx, "students.set_blocked", func(next *Snapshot) error {
		i := next.studentIdx(regNo)
		if i < 0 {
			return notFound("student", regNo)
		}
		if next.Students[i].IsPortalBlocked == blocked {
			return errNoop
		}
		next.Students[i].IsPortalBlocked = blocked
		return nil
	})
	return err
}

type AttendanceInput struct {
	Date    time.Time             `validate:"required"`
	Session models.Session        `validate:"session"`
	Type    models.AttendanceType `validate:"attendance"`
	Reason  *string
}

// MarkAttendance добавляет отметку. Повторная отметка за тот же день и сессию отклоняется.
func (s *Store) MarkAttendance(ctx context.Context, regNo string, in AttendanceInput) error {
	if err := check(in); err != nil {
		return err
	}
	day := models.DateOf(in.Date)
	_, err := s.apply(ctx, "attendance.mark", func(next *Snapshot) error {
		i := next.studentIdx(regNo)
		if i < 0 {
			return notFound("student", regNo)
		}
		st := &next.Students[i]
		if st.IsPortalBlocked {
			return precondition("student %s is blocked", regNo)
		}
		if school.HasSession(st.Attendance, day, in.Session) {
			return precondition("attendance for %s %s already marked", day.Format(models.DateLayout), in.Session)
		}
		st.Attendance = append(st.Attendance, models.AttendanceRecord{
			Date: day, Session: in.Session, Type: in.Type, Reason: in.Reason,
		})
		return nil
	})
	return err
}

type MarkInput struct {
	ExamID        string  `validate:"required"`
	Subject       string  `validate:"required"`
	MarksObtained float64 `validate:"gte=0,ltefield=MaxMarks"`
	MaxMarks      float64 `validate:"gt=0"`
}

// RecordMark записывает оценку; запись с той же парой (экзамен, предмет) заменяется.
func (s *Store) RecordMark(ctx context.Context, regNo string, in MarkInput) (models.MarkEntry, error) {
	in.Subject = strings.TrimSpace(in.Subject)
	if err := check(in); err != nil {
		return models.MarkEntry{}, err
	}
	grade := school.GradeLetter(school.Percentage(in.MarksObtained, in.MaxMarks))
	entry := models.MarkEntry{
		ExamID:        in.ExamID,
		Subject:       in.Subject,
		MarksObtained: in.MarksObtained,
		MaxMarks:      in.MaxMarks,
		Grade:         &grade,
	}
	_, err := s.apply(ctx, "marks.record", func(next *Snapshot) error {
		if _, ok := next.Exam(in.ExamID); !ok {
			return notFound("exam", in.ExamID)
		}
		i := next.studentIdx(regNo)
		if i < 0 {
			return notFound("student", regNo)
		}
		st := &next.Students[i]
		if st.IsPortalBlocked {
			return precondition("student %s is blocked", regNo)
		}
		for j := range st.Marks {
			if st.Marks[j].ExamID == in.ExamID && st.Marks[j].Subject == in.Subject {
				st.Marks[j] = entry
				return nil
			}
		}
		st.Marks = append(st.Marks, entry)
		return nil
	})
	return entry, err
}
