package validator

import (
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidUUID(t *testing.T) {
	valid := []string{
		"0190cafe-1234-7abc-8def-0123456789ab",
		"9b2e68a6-5f3a-4c2d-9f1e-2b3c4d5e6f70",
	}
	invalid := []string{"", "not-a-uuid", "0190cafe12347abc8def0123456789ab"}
	for _, id := range valid {
		if !IsValidUUID(id) {
			t.Errorf("IsValidUUID(%q) = false, want true", id)
		}
	}
	for _, id := range invalid {
		if IsValidUUID(id) {
			t.Errorf("IsValidUUID(%q) = true, want false", id)
		}
	}
}

func TestIsValidConceptCode(t *testing.T) {
	valid := []string{"SALARIO_BASICO", "HED", "AUX_TRANSPORTE", "SALUD_4"}
	invalid := []string{"", "x", "salario", "WITH SPACE", "TOOLONGCODE_WAY_PAST_LIMIT"}
	for _, code := range valid {
		if !IsValidConceptCode(code) {
			t.Errorf("IsValidConceptCode(%q) = false, want true", code)
		}
	}
	for _, code := range invalid {
		if IsValidConceptCode(code) {
			t.Errorf("IsValidConceptCode(%q) = true, want false", code)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	if _, ok := IsValidDate("2024-02-29"); !ok {
		t.Error("expected 2024-02-29 to be valid")
	}
	if _, ok := IsValidDate("2024-13-01"); ok {
		t.Error("expected 2024-13-01 to be invalid")
	}
	if _, ok := IsValidDate("01/02/2024"); ok {
		t.Error("expected 01/02/2024 to be invalid")
	}
}
