package store

import (
	"context"
	"strings"

	"github.com/Spok95/school-portal/internal/models"
)

const minPasswordLen = 6

// Login ищет первого пользователя с совпадающими логином и паролем.
func (s *Store) Login(username, password string) (models.User, error) {
	snap := s.Snapshot()
	username = strings.TrimSpace(username)
	for _, u := range snap.Users {
		if u.Username == username && u.Password == password {
			return u, nil
		}
	}
	return models.User{}, &ValidationError{Msg: "invalid username or password", Fields: []FieldError{{Field: "Password", Rule: "credentials"}}}
}

// ChangePassword — смена пароля; снимает флаг первого входа.
func (s *Store) ChangePassword(ctx context.Context, userID, newPassword, confirm string) error {
	if newPassword != confirm {
		return &ValidationError{Msg: "passwords do not match", Fields: []FieldError{{Field: "Confirm", Rule: "eqfield"}}}
	}
	if len(newPassword) < minPasswordLen {
		return &ValidationError{Msg: "password too short", Fields: []FieldError{{Field: "Password", Rule: "min"}}}
	}
	_, err := s.apply(ctx, "users.change_password", func(next *Snapshot) error {
		i := next.userIdx(userID)
		if i < 0 {
			return notFound("user", userID)
		}
		next.Users[i].Password = newPassword
		next.Users[i].IsFirstLogin = false
		return nil
	})
	return err
}

type NewUser struct {
	Username        string      `validate:"required"`
	Password        string      `validate:"omitempty,min=6"`
	Role            models.Role `validate:"role"`
	StudentRegNo    *string
	AssignedClasses []string
	Phone           *string
}

// CreateUser заводит учётную запись. Без пароля выдаётся пароль по умолчанию
// и требуется смена при первом входе.
func (s *Store) CreateUser(ctx context.Context, in NewUser) (models.User, error) {
	if err := check(in); err != nil {
		return models.User{}, err
	}
	if (in.Role == models.Parent || in.Role == models.StudentRole) && in.StudentRegNo == nil {
		return models.User{}, &ValidationError{Msg: "student account needs a register number", Fields: []FieldError{{Field: "StudentRegNo", Rule: "required"}}}
	}
	var out models.User
	_, err := s.apply(ctx, "users.create", func(next *Snapshot) error {
		for _, u := range next.Users {
			if u.Username == in.Username && u.Role == in.Role {
				return precondition("user %q with role %s already exists", in.Username, in.Role)
			}
		}
		if in.StudentRegNo != nil && next.studentIdx(*in.StudentRegNo) < 0 {
			return notFound("student", *in.StudentRegNo)
		}
		u := models.User{
			ID:              s.opts.NewID(),
			Username:        in.Username,
			Password:        in.Password,
			Role:            in.Role,
			StudentRegNo:    in.StudentRegNo,
			AssignedClasses: in.AssignedClasses,
			Phone:           in.Phone,
		}
		if u.Password == "" {
			u.Password = s.opts.DefaultPassword
			u.IsFirstLogin = true
		}
		if u.Role == models.Faculty {
			u.AssignedStudents = studentsInClasses(next, u.AssignedClasses)
		}
		next.Users = append(next.Users, u)
		out = u
		return nil
	})
	return out, err
}

// AssignStudent закрепляет ученика за преподавателем.
func (s *Store) AssignStudent(ctx context.Context, facultyID, regNo string) error {
	_, err := s.apply(ctx, "users.assign_student", func(next *Snapshot) error {
		i := next.userIdx(facultyID)
		if i < 0 {
			return notFound("user", facultyID)
		}
		if next.Users[i].Role != models.Faculty {
			return precondition("user %s is not faculty", facultyID)
		}
		if next.studentIdx(regNo) < 0 {
			return notFound("student", regNo)
		}
		if next.Users[i].IsAssigned(regNo) {
			return errNoop
		}
		next.Users[i].AssignedStudents = append(next.Users[i].AssignedStudents, regNo)
		return nil
	})
	return err
}

// AssignClasses задаёт классы преподавателя и пересобирает список его учеников.
func (s *Store) AssignClasses(ctx context.Context, facultyID string, classes []string) error {
	_, err := s.apply(ctx, "users.assign_classes", func(next *Snapshot) error {
		i := next.userIdx(facultyID)
		if i < 0 {
			return notFound("user", facultyID)
		}
		if next.Users[i].Role != models.Faculty {
			return precondition("user %s is not faculty", facultyID)
		}
		next.Users[i].AssignedClasses = append([]string(nil), classes...)
		next.Users[i].AssignedStudents = studentsInClasses(next, classes)
		return nil
	})
	return err
}

func studentsInClasses(snap *Snapshot, classes []string) []string {
	var out []string
	for _, c := range classes {
		for _, st := range snap.ClassStudents(c) {
			out = append(out, st.RegisterNumber)
		}
	}
	return out
}
