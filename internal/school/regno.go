package school

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Spok95/school-portal/internal/models"
)

// NextRegisterNumber вычисляет следующий номер вида PREFIX<год><3 цифры>.
// Счётчик нигде не хранится: номер каждый раз пересчитывается по текущему списку,
// поэтому два вызова на одном и том же снимке дают одинаковый результат.
// После 999 номер просто становится длиннее.
func NextRegisterNumber(students []models.Student, prefix string, year int) string {
	base := fmt.Sprintf("%s%04d", prefix, year)
	maxSeq := 0
	for _, s := range students {
		if !strings.HasPrefix(s.RegisterNumber, base) {
			continue
		}
		// нечисловой хвост считаем нулём
		n, err := strconv.Atoi(s.RegisterNumber[len(base):])
		if err != nil {
			continue
		}
		if n > maxSeq {
			maxSeq = n
		}
	}
	return fmt.Sprintf("%s%03d", base, maxSeq+1)
}

// ParseRegisterNumber разбирает номер на год и порядковый номер.
func ParseRegisterNumber(prefix, regNo string) (year, seq int, err error) {
	if !strings.HasPrefix(regNo, prefix) {
		return 0, 0, fmt.Errorf("register number %q: missing prefix %q", regNo, prefix)
	}
	rest := regNo[len(prefix):]
	if len(rest) < 7 {
		return 0, 0, fmt.Errorf("register number %q: too short", regNo)
	}
	if year, err = strconv.Atoi(rest[:4]); err != nil {
		return 0, 0, fmt.Errorf("register number %q: bad year: %w", regNo, err)
	}
	if seq, err = strconv.Atoi(rest[4:]); err != nil {
		return 0, 0, fmt.Errorf("register number %q: bad sequence: %w", regNo, err)
	}
	return year, seq, nil
}
