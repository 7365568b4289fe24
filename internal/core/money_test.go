package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"12.34", 1234, false},
		{"12,34", 1234, false},
		{"12", 1200, false},
		{"0.01", 1, false},
		{"12.345", 1234, false}, // rounds down
		{"12.346", 1235, false}, // rounds up
		{".5", 50, false},
		{"", 0, true},
		{"abc", 0, true},
		{"-5", 0, true},
		{"+5", 0, true},
		{"0", 0, true},
		{"0.00", 0, true},
		{"1.2.3", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseDecimalToCents(%q) expected error, got %d", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseDecimalToCents(%q) unexpected error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseDecimalToCents(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestMoneyDecimal(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{1234, "12.34"},
		{100, "1.00"},
		{5, "0.05"},
		{0, "0.00"},
		{-1234, "-12.34"},
		{-5, "-0.05"},
	}
	for _, tc := range cases {
		if got := (Money{Cents: tc.cents}).Decimal(); got != tc.want {
			t.Fatalf("Money{%d}.Decimal() = %q, want %q", tc.cents, got, tc.want)
		}
	}
}

func TestMoneyArithmetic(t *testing.T) {
	a := Money{Cents: 500}
	b := Money{Cents: 200}
	if got := a.Add(b).Cents; got != 700 {
		t.Fatalf("Add = %d, want 700", got)
	}
	if got := a.Sub(b).Cents; got != 300 {
		t.Fatalf("Sub = %d, want 300", got)
	}
	if got := a.Neg().Cents; got != -500 {
		t.Fatalf("Neg = %d, want -500", got)
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 1}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Money{Cents: 0}).Validate(); err == nil {
		t.Fatalf("expected error for zero")
	}
	if err := (Money{Cents: -100}).Validate(); err == nil {
		t.Fatalf("expected error for negative")
	}
}
