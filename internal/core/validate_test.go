package core

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateDate(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"2025-10-20", "2025-10-20", true},
		{" 2025-01-01 ", "2025-01-01", true},
		{"2024-02-29", "2024-02-29", true}, // leap day
		{"2025-02-30", "", false},          // well-formed but nonexistent
		{"2025-02-29", "", false},          // not a leap year
		{"2025-13-01", "", false},
		{"2025-00-10", "", false},
		{"20-10-2025", "", false},
		{"2025/10/20", "", false},
		{"not-a-date", "", false},
		{"", "", false},
		{"   ", "", false},
	}
	for _, tc := range cases {
		got, err := ValidateDate(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %q, got %q (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out float64
		ok  bool
	}{
		{"10.50", 10.50, true},
		{" 25 ", 25, true},
		{"0.01", 0.01, true},
		{"0", 0, false},
		{"-10", 0, false},
		{"abc", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %v, got %v (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestParseAmountErrorKinds(t *testing.T) {
	if _, err := ParseAmount("-10"); !errors.Is(err, ErrNotPositive) {
		t.Fatalf("expected ErrNotPositive, got %v", err)
	}
	if _, err := ParseAmount("ten"); !errors.Is(err, ErrNotNumeric) {
		t.Fatalf("expected ErrNotNumeric, got %v", err)
	}
}

func TestValidateNonEmpty(t *testing.T) {
	got, err := ValidateNonEmpty("  Coffee  ", "Title")
	if err != nil || got != "Coffee" {
		t.Fatalf("expected trimmed value, got %q (err=%v)", got, err)
	}

	_, err = ValidateNonEmpty("   ", "Title")
	if err == nil {
		t.Fatal("expected error for blank value")
	}
	if !errors.Is(err, ErrEmptyField) {
		t.Fatalf("expected ErrEmptyField, got %v", err)
	}
	if !strings.Contains(err.Error(), "Title cannot be empty") {
		t.Fatalf("error should name the field: %v", err)
	}
}

func TestFilterEmpty(t *testing.T) {
	if !(Filter{}).Empty() {
		t.Fatal("zero filter should be empty")
	}
	min := 5.0
	cases := []Filter{
		{MinDate: "2025-01-01"},
		{MaxDate: "2025-01-31"},
		{MinAmount: &min},
		{CategoryIDs: []int64{1}},
		{UserID: 2},
	}
	for i, f := range cases {
		if f.Empty() {
			t.Fatalf("case %d should not be empty", i)
		}
	}
}
