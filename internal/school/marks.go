package school

import (
	"math"
	"sort"

	"github.com/Spok95/school-portal/internal/models"
)

// DefaultWeakThreshold — ниже этого процента ученик попадает в список отстающих.
const DefaultWeakThreshold = 40

var gradeBands = []struct {
	min    int
	letter string
}{
	{90, "A+"},
	{80, "A"},
	{70, "B+"},
	{60, "B"},
	{50, "C"},
	{40, "D"},
}

// Percentage округляет до целого; при max = 0 возвращает 0.
func Percentage(obtained, max float64) int {
	if max == 0 {
		return 0
	}
	return int(math.Round(obtained / max * 100))
}

// GradeLetter: нижняя граница каждой полосы включительна.
func GradeLetter(pct int) string {
	for _, b := range gradeBands {
		if pct >= b.min {
			return b.letter
		}
	}
	return "F"
}

func examSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// ExamIDs — идентификаторы всех переданных экзаменов.
func ExamIDs(exams []models.Exam) []string {
	out := make([]string, 0, len(exams))
	for _, e := range exams {
		out = append(out, e.ID)
	}
	return out
}

// OverallPercentage суммирует баллы и максимумы по всем оценкам из набора экзаменов.
func OverallPercentage(st models.Student, examIDs []string) int {
	set := examSet(examIDs)
	var obtained, max float64
	for _, m := range st.Marks {
		if _, ok := set[m.ExamID]; !ok {
			continue
		}
		obtained += m.MarksObtained
		max += m.MaxMarks
	}
	return Percentage(obtained, max)
}

type Standing struct {
	RegisterNumber string
	Name           string
	ClassID        string
	Percentage     int
}

// ClassStandings — ученики класса по убыванию общего процента.
// Сортировка стабильная: при равенстве сохраняется порядок в списке учеников.
// Выпускники в классы не входят.
func ClassStandings(all []models.Student, classID string, examIDs []string) []Standing {
	var out []Standing
	for _, s := range all {
		if s.IsAlumni() || s.ClassID() != classID {
			continue
		}
		out = append(out, Standing{
			RegisterNumber: s.RegisterNumber,
			Name:           s.Name,
			ClassID:        classID,
			Percentage:     OverallPercentage(s, examIDs),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Percentage > out[j].Percentage })
	return out
}

// Rank — место ученика в классе начиная с 1, или -1 если его нет в списке класса.
// Каждый вызов пересчитывает весь класс.
func Rank(st models.Student, all []models.Student, examIDs []string) int {
	for i, s := range ClassStandings(all, st.ClassID(), examIDs) {
		if s.RegisterNumber == st.RegisterNumber {
			return i + 1
		}
	}
	return -1
}

func TopStudents(all []models.Student, classID string, examIDs []string, n int) []Standing {
	ss := ClassStandings(all, classID, examIDs)
	if n < 0 {
		n = 0
	}
	if n < len(ss) {
		ss = ss[:n]
	}
	return ss
}

// WeakStudents — ученики с процентом строго ниже порога, в порядке рейтинга.
func WeakStudents(all []models.Student, classID string, examIDs []string, threshold int) []Standing {
	var out []Standing
	for _, s := range ClassStandings(all, classID, examIDs) {
		if s.Percentage < threshold {
			out = append(out, s)
		}
	}
	return out
}

type SubjectAverage struct {
	Subject string
	Average float64
}

type ExamAverages struct {
	Exam     models.Exam
	Subjects []SubjectAverage
}

// ClassAverages считает среднее по каждому предмету каждого экзамена.
// Делитель — все ученики класса: у кого оценки по предмету нет, тот даёт 0.
// На этом построены сравнения классов в отчётах.
func ClassAverages(all []models.Student, classID string, exams []models.Exam) []ExamAverages {
	var class []models.Student
	for _, s := range all {
		if !s.IsAlumni() && s.ClassID() == classID {
			class = append(class, s)
		}
	}
	out := make([]ExamAverages, 0, len(exams))
	if len(class) == 0 {
		return out
	}
	for _, e := range SortExams(exams) {
		var subjects []string
		sums := map[string]float64{}
		for _, s := range class {
			for _, m := range s.Marks {
				if m.ExamID != e.ID {
					continue
				}
				if _, seen := sums[m.Subject]; !seen {
					subjects = append(subjects, m.Subject)
				}
				sums[m.Subject] += m.MarksObtained
			}
		}
		ea := ExamAverages{Exam: e}
		for _, sub := range subjects {
			ea.Subjects = append(ea.Subjects, SubjectAverage{
				Subject: sub,
				Average: sums[sub] / float64(len(class)),
			})
		}
		out = append(out, ea)
	}
	return out
}

// SortExams упорядочивает по типу (FA1 … Final), затем по дате начала.
func SortExams(exams []models.Exam) []models.Exam {
	out := append([]models.Exam(nil), exams...)
	sort.SliceStable(out, func(i, j int) bool {
		oi, oj := out[i].Type.Order(), out[j].Type.Order()
		if oi != oj {
			return oi < oj
		}
		return out[i].StartDate.Before(out[j].StartDate)
	})
	return out
}

var baseSubjects = []string{"Telugu", "Hindi", "English", "Mathematics", "Science", "Social"}

// SubjectsForGrade — стандартный набор предметов; с 8 по 10 класс добавляется биология.
func SubjectsForGrade(grade int) []string {
	out := append([]string(nil), baseSubjects...)
	if grade >= 8 && grade <= 10 {
		out = append(out, "Biology")
	}
	return out
}
