package school

import (
	"fmt"
	"strconv"
	"time"

	"github.com/Spok95/school-portal/internal/models"
)

const (
	MinGrade = 5
	MaxGrade = 10
)

// Учебный год: с 1 июня по 31 мая следующего года.
const yearStartMonth = time.June

// YearBounds — границы [from, to) учебного года, начинающегося в startYear.
func YearBounds(startYear int) (time.Time, time.Time) {
	from := time.Date(startYear, yearStartMonth, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(startYear+1, yearStartMonth, 1, 0, 0, 0, 0, time.UTC)
	return from, to
}

// YearLabel форматирует подпись учебного года: "2025–26".
func YearLabel(startYear int) string {
	return fmt.Sprintf("%d–%02d", startYear, (startYear+1)%100)
}

// StartYear берёт первые четыре цифры названия года ("2025–26" → 2025).
func StartYear(name string) (int, bool) {
	if len(name) < 4 {
		return 0, false
	}
	n, err := strconv.Atoi(name[:4])
	if err != nil {
		return 0, false
	}
	return n, true
}

func ActiveYear(years []models.AcademicYear) (models.AcademicYear, bool) {
	for _, y := range years {
		if y.Status == models.YearActive {
			return y, true
		}
	}
	return models.AcademicYear{}, false
}

func FindYear(years []models.AcademicYear, id string) (models.AcademicYear, bool) {
	for _, y := range years {
		if y.ID == id {
			return y, true
		}
	}
	return models.AcademicYear{}, false
}

// NextYear ищет следующий учебный год. Явная ссылка NextYearID важнее;
// без неё год ищется по названию: начальный год на единицу больше текущего.
func NextYear(years []models.AcademicYear, current models.AcademicYear) (models.AcademicYear, bool) {
	if current.NextYearID != nil {
		if y, ok := FindYear(years, *current.NextYearID); ok {
			return y, true
		}
	}
	start, ok := StartYear(current.Name)
	if !ok {
		return models.AcademicYear{}, false
	}
	for _, y := range years {
		if n, ok := StartYear(y.Name); ok && n == start+1 && y.ID != current.ID {
			return y, true
		}
	}
	return models.AcademicYear{}, false
}

// ActivateYear возвращает новый список, где id активен, прежний активный — завершён,
// остальные без изменений.
func ActivateYear(years []models.AcademicYear, id string) ([]models.AcademicYear, bool) {
	out := make([]models.AcademicYear, len(years))
	copy(out, years)
	found := false
	for i := range out {
		switch {
		case out[i].ID == id:
			out[i].Status = models.YearActive
			found = true
		case out[i].Status == models.YearActive:
			out[i].Status = models.YearCompleted
		}
	}
	if !found {
		return years, false
	}
	return out, true
}

// NextGrade: 5–9 переходят в следующий класс, 10 — в выпускники.
func NextGrade(grade int) (next int, graduates bool) {
	if grade >= MaxGrade {
		return grade, true
	}
	return grade + 1, false
}
