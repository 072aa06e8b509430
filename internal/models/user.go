package models

type Role string

const (
	Admin       Role = "Admin"
	Faculty     Role = "Faculty"
	Parent      Role = "Parent"
	Accounts    Role = "Accounts"
	StudentRole Role = "Student"
	Librarian   Role = "Librarian"
)

// AllRoles в порядке отображения в меню.
var AllRoles = []Role{Admin, Faculty, Parent, Accounts, StudentRole, Librarian}

func (r Role) Valid() bool {
	for _, x := range AllRoles {
		if r == x {
			return true
		}
	}
	return false
}

type User struct {
	ID       string
	Username string
	Password string // хранится как есть, сравнивается напрямую
	Role     Role

	// Parent/Student: регистрационный номер ребёнка (он же логин)
	StudentRegNo *string
	// Faculty
	AssignedClasses  []string
	AssignedStudents []string

	Phone        *string
	IsFirstLogin bool
}

// IsAssigned — закреплён ли ученик за преподавателем.
func (u User) IsAssigned(regNo string) bool {
	for _, rn := range u.AssignedStudents {
		if rn == regNo {
			return true
		}
	}
	return false
}
