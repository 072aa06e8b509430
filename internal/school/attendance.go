package school

import (
	"math"
	"sort"
	"time"

	"github.com/Spok95/school-portal/internal/models"
)

type AttendanceSummary struct {
	Present int
	Absent  int
	HalfDay int
	OnLeave int
	Total   int
	Rate    int // проценты, полдня считается за 0.5
}

// AttendanceStats не убирает дубликаты: уникальность (дата, сессия) обеспечивает Store.
func AttendanceStats(records []models.AttendanceRecord) AttendanceSummary {
	var s AttendanceSummary
	for _, r := range records {
		switch r.Type {
		case models.Present:
			s.Present++
		case models.Absent:
			s.Absent++
		case models.HalfDay:
			s.HalfDay++
		case models.OnLeave:
			s.OnLeave++
		}
	}
	s.Total = len(records)
	if s.Total > 0 {
		s.Rate = int(math.Round((float64(s.Present) + float64(s.HalfDay)*0.5) / float64(s.Total) * 100))
	}
	return s
}

// HasSession — отмечена ли уже эта сессия за этот день.
func HasSession(records []models.AttendanceRecord, day time.Time, session models.Session) bool {
	d := models.DateOf(day)
	for _, r := range records {
		if r.Session == session && models.DateOf(r.Date).Equal(d) {
			return true
		}
	}
	return false
}

type MonthAttendance struct {
	Month string // YYYY-MM
	AttendanceSummary
}

// MonthlyAttendance — разбивка по месяцам для табеля, по возрастанию месяца.
func MonthlyAttendance(records []models.AttendanceRecord) []MonthAttendance {
	byMonth := map[string][]models.AttendanceRecord{}
	for _, r := range records {
		k := r.Date.Format("2006-01")
		byMonth[k] = append(byMonth[k], r)
	}
	out := make([]MonthAttendance, 0, len(byMonth))
	for k, rs := range byMonth {
		out = append(out, MonthAttendance{Month: k, AttendanceSummary: AttendanceStats(rs)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}
