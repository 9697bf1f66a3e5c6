package age

import (
	"encoding/json"
	"testing"
	"time"
)

func fixedClock(year int) func() time.Time {
	return func() time.Time {
		return time.Date(year, time.June, 1, 12, 0, 0, 0, time.UTC)
	}
}

func TestCalculatorAge(t *testing.T) {
	t.Parallel()

	calc := New(WithClock(fixedClock(2024)))

	tests := []struct {
		name      string
		birthYear any
		want      int
		wantOK    bool
	}{
		{name: "integer", birthYear: 1980, want: 44, wantOK: true},
		{name: "json number", birthYear: json.Number("1970"), want: 54, wantOK: true},
		{name: "numeric string", birthYear: " 1999 ", want: 25, wantOK: true},
		{name: "whole float", birthYear: 1980.0, want: 44, wantOK: true},
		{name: "nil", birthYear: nil, wantOK: false},
		{name: "non-numeric string", birthYear: "abc", wantOK: false},
		{name: "empty string", birthYear: "", wantOK: false},
		{name: "fractional float", birthYear: 1980.5, wantOK: false},
		{name: "decimal json number", birthYear: json.Number("1980.5"), wantOK: false},
		{name: "zero", birthYear: 0, wantOK: false},
		{name: "bool", birthYear: true, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := calc.Age(tt.birthYear)
			if ok != tt.wantOK {
				t.Fatalf("Age(%v) ok = %v, want %v", tt.birthYear, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("Age(%v) = %d, want %d", tt.birthYear, got, tt.want)
			}
		})
	}
}

func TestNewUsesWallClock(t *testing.T) {
	t.Parallel()

	calc := New()
	got, ok := calc.Age(2000)
	if !ok {
		t.Fatal("expected age to resolve")
	}
	if want := time.Now().Year() - 2000; got != want {
		t.Errorf("Age(2000) = %d, want %d", got, want)
	}
}

func TestWithClockIgnoresNil(t *testing.T) {
	t.Parallel()

	calc := New(WithClock(nil))
	if calc.now == nil {
		t.Fatal("expected default clock to be kept")
	}
}
