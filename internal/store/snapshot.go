package store

import (
	"github.com/Spok95/school-portal/internal/models"
	"github.com/Spok95/school-portal/internal/school"
)

// Поиск по снимку. Коллекции маленькие (десятки записей), линейный проход достаточен.

func (s *Snapshot) studentIdx(regNo string) int {
	for i := range s.Students {
		if s.Students[i].RegisterNumber == regNo {
			return i
		}
	}
	return -1
}

func (s *Snapshot) userIdx(id string) int {
	for i := range s.Users {
		if s.Users[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Snapshot) feeIdx(id string) int {
	for i := range s.Fees {
		if s.Fees[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Snapshot) Student(regNo string) (models.Student, bool) {
	if i := s.studentIdx(regNo); i >= 0 {
		return s.Students[i], true
	}
	return models.Student{}, false
}

func (s *Snapshot) User(id string) (models.User, bool) {
	if i := s.userIdx(id); i >= 0 {
		return s.Users[i], true
	}
	return models.User{}, false
}

func (s *Snapshot) Fee(id string) (models.Fee, bool) {
	if i := s.feeIdx(id); i >= 0 {
		return s.Fees[i], true
	}
	return models.Fee{}, false
}

// FeeFor — запись об оплате за пару (ученик, учебный год).
func (s *Snapshot) FeeFor(regNo, yearID string) (models.Fee, bool) {
	for _, f := range s.Fees {
		if f.StudentRegNo == regNo && f.AcademicYearID == yearID {
			return f, true
		}
	}
	return models.Fee{}, false
}

// FeesOf — все записи ученика, от старых к новым.
func (s *Snapshot) FeesOf(regNo string) []models.Fee {
	var out []models.Fee
	for _, f := range s.Fees {
		if f.StudentRegNo == regNo {
			out = append(out, f)
		}
	}
	return out
}

func (s *Snapshot) ClassSetup(grade int) (models.ClassSetup, bool) {
	for _, cs := range s.ClassSetups {
		if cs.Grade == grade {
			return cs, true
		}
	}
	return models.ClassSetup{}, false
}

func (s *Snapshot) ActiveYear() (models.AcademicYear, bool) {
	return school.ActiveYear(s.AcademicYears)
}

func (s *Snapshot) Exam(id string) (models.Exam, bool) {
	for _, e := range s.Exams {
		if e.ID == id {
			return e, true
		}
	}
	return models.Exam{}, false
}

// ExamsFor — экзамены класса (пустой список классов означает «для всех») в порядке типов.
func (s *Snapshot) ExamsFor(classID string) []models.Exam {
	var out []models.Exam
	for _, e := range s.Exams {
		if examCovers(e, classID) {
			out = append(out, e)
		}
	}
	return school.SortExams(out)
}

func examCovers(e models.Exam, classID string) bool {
	if len(e.Classes) == 0 {
		return true
	}
	for _, c := range e.Classes {
		if c == classID {
			return true
		}
	}
	return false
}

// ClassStudents — текущий состав класса в порядке добавления.
func (s *Snapshot) ClassStudents(classID string) []models.Student {
	var out []models.Student
	for _, st := range s.Students {
		if !st.IsAlumni() && st.ClassID() == classID {
			out = append(out, st)
		}
	}
	return out
}

// UsersFor — учётные записи, привязанные к ученику (родитель, ученик).
func (s *Snapshot) UsersFor(regNo string) []models.User {
	var out []models.User
	for _, u := range s.Users {
		if u.StudentRegNo != nil && *u.StudentRegNo == regNo {
			out = append(out, u)
		}
	}
	return out
}

// AnnouncementsFor — объявления, адресованные роли, новые первыми.
func (s *Snapshot) AnnouncementsFor(role models.Role) []models.Announcement {
	var out []models.Announcement
	for _, a := range s.Announcements {
		if a.Audience.Reaches(role) || role == models.Admin {
			out = append(out, a)
		}
	}
	return out
}

func (s *Snapshot) Timetable(classID string) (models.Timetable, bool) {
	for _, t := range s.Timetables {
		if t.ClassID == classID {
			return t, true
		}
	}
	return models.Timetable{}, false
}

// Inbox — сообщения пользователю, новые первыми.
func (s *Snapshot) Inbox(userID string) []models.Message {
	var out []models.Message
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].ToID == userID {
			out = append(out, s.Messages[i])
		}
	}
	return out
}
