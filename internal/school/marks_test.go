package school

import (
	"math"
	"testing"

	"github.com/Spok95/school-portal/internal/models"
)

func TestPercentageBounds(t *testing.T) {
	for max := 1.0; max <= 120; max += 7 {
		for obt := 0.0; obt <= max; obt += 0.5 {
			p := Percentage(obt, max)
			if p < 0 || p > 100 {
				t.Fatalf("Percentage(%v, %v) = %d вне [0, 100]", obt, max, p)
			}
		}
	}
	if Percentage(10, 0) != 0 {
		t.Fatal("при max = 0 ожидали 0")
	}
}

func TestGradeLetter(t *testing.T) {
	cases := []struct {
		pct  int
		want string
	}{
		{100, "A+"}, {90, "A+"}, {89, "A"}, {80, "A"}, {79, "B+"}, {70, "B+"},
		{69, "B"}, {60, "B"}, {59, "C"}, {50, "C"}, {49, "D"}, {40, "D"}, {39, "F"}, {0, "F"},
	}
	for _, c := range cases {
		if got := GradeLetter(c.pct); got != c.want {
			t.Fatalf("GradeLetter(%d) = %q, ожидали %q", c.pct, got, c.want)
		}
	}

	order := map[string]int{"A+": 6, "A": 5, "B+": 4, "B": 3, "C": 2, "D": 1, "F": 0}
	prev := math.MaxInt
	for p := 100; p >= 0; p-- {
		q := order[GradeLetter(p)]
		if q > prev {
			t.Fatalf("оценка улучшилась при снижении процента до %d", p)
		}
		prev = q
	}
}

func student(regNo string, grade int, section string, marks ...models.MarkEntry) models.Student {
	return models.Student{RegisterNumber: regNo, Name: regNo, Grade: grade, Section: section, Marks: marks, AcademicYearID: "y1"}
}

func mark(exam, subject string, obt, max float64) models.MarkEntry {
	return models.MarkEntry{ExamID: exam, Subject: subject, MarksObtained: obt, MaxMarks: max}
}

func TestOverallPercentage(t *testing.T) {
	s := student("A", 10, "A",
		mark("fa1", "Maths", 40, 50),
		mark("fa1", "English", 45, 50),
		mark("sa1", "Maths", 10, 100),
	)
	if got := OverallPercentage(s, []string{"fa1"}); got != 85 {
		t.Fatalf("ожидали 85, получили %d", got)
	}
	if got := OverallPercentage(s, []string{"fa1", "sa1"}); got != 48 {
		t.Fatalf("ожидали 48 (95/200), получили %d", got)
	}
	if got := OverallPercentage(s, []string{"final"}); got != 0 {
		t.Fatalf("без оценок ожидали 0, получили %d", got)
	}
}

func TestRank(t *testing.T) {
	exams := []string{"fa1"}
	a := student("A", 10, "A", mark("fa1", "Maths", 90, 100))
	b := student("B", 10, "A", mark("fa1", "Maths", 70, 100))
	c := student("C", 10, "A", mark("fa1", "Maths", 80, 100))
	other := student("D", 10, "B", mark("fa1", "Maths", 99, 100))
	all := []models.Student{a, b, other, c}

	for _, tc := range []struct {
		st   models.Student
		want int
	}{{a, 1}, {b, 3}, {c, 2}, {other, 1}} {
		if got := Rank(tc.st, all, exams); got != tc.want {
			t.Fatalf("Rank(%s) = %d, ожидали %d", tc.st.RegisterNumber, got, tc.want)
		}
	}

	stranger := student("X", 9, "A")
	if got := Rank(stranger, all, exams); got != -1 {
		t.Fatalf("ученика нет в классе: ожидали -1, получили %d", got)
	}
}

func TestRank_TiesKeepOrder(t *testing.T) {
	exams := []string{"fa1"}
	first := student("first", 7, "C", mark("fa1", "Maths", 50, 100))
	second := student("second", 7, "C", mark("fa1", "Maths", 50, 100))
	all := []models.Student{first, second}
	if Rank(first, all, exams) != 1 || Rank(second, all, exams) != 2 {
		t.Fatal("при равенстве должен сохраняться порядок списка")
	}
}

func TestTopAndWeakStudents(t *testing.T) {
	exams := []string{"fa1"}
	all := []models.Student{
		student("A", 6, "A", mark("fa1", "Maths", 30, 100)),
		student("B", 6, "A", mark("fa1", "Maths", 95, 100)),
		student("C", 6, "A", mark("fa1", "Maths", 40, 100)),
		student("D", 6, "A"),
	}
	top := TopStudents(all, "6A", exams, 2)
	if len(top) != 2 || top[0].RegisterNumber != "B" || top[1].RegisterNumber != "C" {
		t.Fatalf("неожиданный топ: %+v", top)
	}
	if got := TopStudents(all, "6A", exams, 10); len(got) != 4 {
		t.Fatalf("n больше класса: ожидали 4, получили %d", len(got))
	}
	weak := WeakStudents(all, "6A", exams, DefaultWeakThreshold)
	if len(weak) != 2 || weak[0].RegisterNumber != "A" || weak[1].RegisterNumber != "D" {
		t.Fatalf("неожиданные отстающие: %+v", weak)
	}
}

func TestClassAverages_MissingSubjectCountsAsZero(t *testing.T) {
	exams := []models.Exam{
		{ID: "sa1", Type: models.SA1},
		{ID: "fa1", Type: models.FA1},
	}
	all := []models.Student{
		student("A", 8, "A", mark("fa1", "Maths", 80, 100), mark("fa1", "Biology", 60, 100)),
		student("B", 8, "A", mark("fa1", "Maths", 60, 100)),
		student("C", 8, "B", mark("fa1", "Maths", 10, 100)),
	}
	got := ClassAverages(all, "8A", exams)
	if len(got) != 2 || got[0].Exam.ID != "fa1" {
		t.Fatalf("экзамены должны идти по типу: %+v", got)
	}
	subj := got[0].Subjects
	if len(subj) != 2 || subj[0].Subject != "Maths" || subj[0].Average != 70 {
		t.Fatalf("неожиданное среднее по математике: %+v", subj)
	}
	if subj[1].Subject != "Biology" || subj[1].Average != 30 {
		t.Fatalf("биология: у B нет оценки, ожидали 60/2 = 30, получили %+v", subj[1])
	}
	if len(got[1].Subjects) != 0 {
		t.Fatalf("за SA1 оценок нет: %+v", got[1].Subjects)
	}
}

func TestSubjectsForGrade(t *testing.T) {
	if n := len(SubjectsForGrade(7)); n != 6 {
		t.Fatalf("7 класс: ожидали 6 предметов, получили %d", n)
	}
	s := SubjectsForGrade(9)
	if len(s) != 7 || s[6] != "Biology" {
		t.Fatalf("9 класс: ожидали биологию, получили %v", s)
	}
}
