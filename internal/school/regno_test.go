package school

import (
	"testing"

	"github.com/Spok95/school-portal/internal/models"
)

func TestNextRegisterNumber(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		if got := NextRegisterNumber(nil, "SCHL", 2025); got != "SCHL2025001" {
			t.Fatalf("ожидали SCHL2025001, получили %q", got)
		}
	})

	t.Run("idempotent_then_advances", func(t *testing.T) {
		students := []models.Student{
			{RegisterNumber: "SCHL2025001"},
			{RegisterNumber: "SCHL2025002"},
		}
		first := NextRegisterNumber(students, "SCHL", 2025)
		second := NextRegisterNumber(students, "SCHL", 2025)
		if first != second || first != "SCHL2025003" {
			t.Fatalf("ожидали дважды SCHL2025003, получили %q и %q", first, second)
		}
		students = append(students, models.Student{RegisterNumber: first})
		if got := NextRegisterNumber(students, "SCHL", 2025); got != "SCHL2025004" {
			t.Fatalf("ожидали SCHL2025004, получили %q", got)
		}
	})

	t.Run("other_year_and_garbage_ignored", func(t *testing.T) {
		students := []models.Student{
			{RegisterNumber: "SCHL2024017"},
			{RegisterNumber: "SCHL2025abc"},
			{RegisterNumber: "SCHL2025007"},
		}
		if got := NextRegisterNumber(students, "SCHL", 2025); got != "SCHL2025008" {
			t.Fatalf("ожидали SCHL2025008, получили %q", got)
		}
	})

	t.Run("overflow_widens", func(t *testing.T) {
		students := []models.Student{{RegisterNumber: "SCHL2025999"}}
		if got := NextRegisterNumber(students, "SCHL", 2025); got != "SCHL20251000" {
			t.Fatalf("ожидали SCHL20251000, получили %q", got)
		}
	})
}

func TestParseRegisterNumber(t *testing.T) {
	year, seq, err := ParseRegisterNumber("SCHL", "SCHL2025042")
	if err != nil {
		t.Fatal(err)
	}
	if year != 2025 || seq != 42 {
		t.Fatalf("ожидали 2025/42, получили %d/%d", year, seq)
	}
	for _, bad := range []string{"XX2025001", "SCHL20", "SCHLabcd001", "SCHL2025x01"} {
		if _, _, err := ParseRegisterNumber("SCHL", bad); err == nil {
			t.Fatalf("ожидали ошибку для %q", bad)
		}
	}
}
