package store

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Spok95/school-portal/internal/logging"
	"github.com/Spok95/school-portal/internal/metrics"
	"github.com/Spok95/school-portal/internal/models"
	"github.com/Spok95/school-portal/internal/school"
)

type ClassSetupInput struct {
	Grade    int      `validate:"min=5,max=10"`
	Sections []string `validate:"required,min=1,dive,required"`
	Subjects []string `validate:"dive,required"`
	Fees     models.FeeBreakdown
}

// UpsertClassSetup заменяет настройку класса. Без списка предметов берутся стандартные для класса.
// Уже созданные записи об оплате не пересчитываются.
func (s *Store) UpsertClassSetup(ctx context.Context, in ClassSetupInput) (models.ClassSetup, error) {
	if err := check(in); err != nil {
		return models.ClassSetup{}, err
	}
	for _, c := range models.FeeCategories {
		if in.Fees.Get(c) < 0 {
			return models.ClassSetup{}, &ValidationError{Msg: "negative fee", Fields: []FieldError{{Field: "Fees." + string(c), Rule: "gte"}}}
		}
	}
	cs := models.ClassSetup{Grade: in.Grade, Sections: in.Sections, Subjects: in.Subjects, Fees: in.Fees}
	if len(cs.Subjects) == 0 {
		cs.Subjects = school.SubjectsForGrade(in.Grade)
	}
	_, err := s.apply(ctx, "setup.class", func(next *Snapshot) error {
		for i := range next.ClassSetups {
			if next.ClassSetups[i].Grade == in.Grade {
				next.ClassSetups[i] = cs
				return nil
			}
		}
		next.ClassSetups = append(next.ClassSetups, cs)
		return nil
	})
	return cs, err
}

type ExamInput struct {
	Type      models.ExamType `validate:"examtype"`
	Name      string          `validate:"required"`
	StartDate time.Time       `validate:"required"`
	EndDate   time.Time       `validate:"required"`
	Classes   []string
}

func (s *Store) AddExam(ctx context.Context, in ExamInput) (models.Exam, error) {
	if err := check(in); err != nil {
		return models.Exam{}, err
	}
	if in.EndDate.Before(in.StartDate) {
		return models.Exam{}, &ValidationError{Msg: "exam ends before it starts", Fields: []FieldError{{Field: "EndDate", Rule: "gtefield"}}}
	}
	var out models.Exam
	_, err := s.apply(ctx, "setup.exam", func(next *Snapshot) error {
		out = models.Exam{
			ID:        s.opts.NewID(),
			Type:      in.Type,
			Name:      in.Name,
			StartDate: models.DateOf(in.StartDate),
			EndDate:   models.DateOf(in.EndDate),
			Classes:   in.Classes,
		}
		next.Exams = append(next.Exams, out)
		return nil
	})
	return out, err
}

type YearInput struct {
	Name      string    `validate:"required"`
	StartDate time.Time `validate:"required"`
	EndDate   time.Time `validate:"required"`
	Status    models.YearStatus
}

// AddAcademicYear добавляет год (по умолчанию Upcoming) и связывает его с предыдущим
// по названию. Добавить сразу активный год можно только если активного ещё нет.
func (s *Store) AddAcademicYear(ctx context.Context, in YearInput) (models.AcademicYear, error) {
	if err := check(in); err != nil {
		return models.AcademicYear{}, err
	}
	if !in.EndDate.After(in.StartDate) {
		return models.AcademicYear{}, &ValidationError{Msg: "year ends before it starts", Fields: []FieldError{{Field: "EndDate", Rule: "gtfield"}}}
	}
	if in.Status == "" {
		in.Status = models.YearUpcoming
	}
	var out models.AcademicYear
	_, err := s.apply(ctx, "setup.year", func(next *Snapshot) error {
		for _, y := range next.AcademicYears {
			if y.Name == in.Name {
				return precondition("academic year %q already exists", in.Name)
			}
		}
		if in.Status == models.YearActive {
			if _, ok := next.ActiveYear(); ok {
				return precondition("another academic year is active")
			}
		}
		y := models.AcademicYear{
			ID:        s.opts.NewID(),
			Name:      in.Name,
			StartDate: in.StartDate,
			EndDate:   in.EndDate,
			Status:    in.Status,
		}
		if start, ok := school.StartYear(y.Name); ok {
			for i := range next.AcademicYears {
				prev := &next.AcademicYears[i]
				if n, ok := school.StartYear(prev.Name); ok && n == start-1 && prev.NextYearID == nil {
					id := y.ID
					prev.NextYearID = &id
				}
				if n, ok := school.StartYear(prev.Name); ok && n == start+1 && y.NextYearID == nil {
					id := prev.ID
					y.NextYearID = &id
				}
			}
		}
		next.AcademicYears = append(next.AcademicYears, y)
		out = y
		return nil
	})
	return out, err
}

// ActivateAcademicYear делает год активным, прежний активный завершается.
func (s *Store) ActivateAcademicYear(ctx context.Context, id string) error {
	_, err := s.apply(ctx, "setup.activate_year", func(next *Snapshot) error {
		y, ok := school.FindYear(next.AcademicYears, id)
		if !ok {
			return notFound("academic year", id)
		}
		if y.Status == models.YearActive {
			return errNoop
		}
		years, _ := school.ActivateYear(next.AcademicYears, id)
		next.AcademicYears = years
		return nil
	})
	return err
}

type PromotionResult struct {
	FromYearID string
	ToYearID   string
	Promoted   int
	Graduated  int
}

// PromoteAll переводит учеников активного года в следующий: 5–9 классы на ступень выше,
// 10 класс в выпускники с блокировкой портала. Посещаемость и оценки очищаются,
// списки учеников преподавателей пересобираются по их классам. Всё или ничего.
func (s *Store) PromoteAll(ctx context.Context) (PromotionResult, error) {
	started := time.Now()
	var res PromotionResult
	_, err := s.apply(ctx, "setup.promote", func(next *Snapshot) error {
		cur, ok := next.ActiveYear()
		if !ok {
			return precondition("no active academic year")
		}
		target, ok := school.NextYear(next.AcademicYears, cur)
		if !ok {
			return precondition("no academic year follows %q", cur.Name)
		}
		res = PromotionResult{FromYearID: cur.ID, ToYearID: target.ID}
		for i := range next.Students {
			st := &next.Students[i]
			if st.AcademicYearID != cur.ID {
				continue
			}
			grade, graduates := school.NextGrade(st.Grade)
			if graduates {
				st.AcademicYearID = models.AlumniYearID
				st.IsPortalBlocked = true
				res.Graduated++
			} else {
				st.Grade = grade
				st.AcademicYearID = target.ID
				if cs, ok := next.ClassSetup(grade); ok {
					st.TotalFee = school.ClassTotalFee(cs)
				}
				res.Promoted++
			}
			st.Attendance = nil
			st.Marks = nil
		}
		for i := range next.Users {
			u := &next.Users[i]
			if u.Role == models.Faculty {
				u.AssignedStudents = rosterFor(next, u.AssignedClasses, target.ID)
			}
		}
		return nil
	})
	if err != nil {
		return PromotionResult{}, err
	}
	metrics.ObservePromotion(time.Since(started))
	logging.For(ctx, s.log).Info("students promoted",
		zap.String("from", res.FromYearID), zap.String("to", res.ToYearID),
		zap.Int("promoted", res.Promoted), zap.Int("graduated", res.Graduated))
	return res, nil
}

func rosterFor(snap *Snapshot, classes []string, yearID string) []string {
	var out []string
	for _, c := range classes {
		for _, st := range snap.Students {
			if st.AcademicYearID == yearID && st.ClassID() == c {
				out = append(out, st.RegisterNumber)
			}
		}
	}
	return out
}
