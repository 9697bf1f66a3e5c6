// Package age derives a shareholder's age from the birth year reported by
// the registry.
package age

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Calculator converts birth years into ages relative to the current calendar
// year. The clock is injectable so results can be pinned in tests.
type Calculator struct {
	now func() time.Time
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithClock sets the function used to read the current time.
func WithClock(now func() time.Time) Option {
	return func(c *Calculator) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates a Calculator that uses the wall clock unless WithClock is given.
func New(opts ...Option) *Calculator {
	c := &Calculator{now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Age returns the current year minus birthYear.
// It reports false when birthYear is absent or cannot be read as an integer.
func (c *Calculator) Age(birthYear any) (int, bool) {
	year, ok := ParseYear(birthYear)
	if !ok {
		return 0, false
	}
	return c.now().Year() - year, true
}

// ParseYear interprets a registry value as an integer year.
// Accepted inputs are integer kinds, floats without a fractional part,
// json.Number and numeric strings. Zero is treated as absent.
func ParseYear(v any) (int, bool) {
	var year int
	switch y := v.(type) {
	case int:
		year = y
	case int64:
		year = int(y)
	case int32:
		year = int(y)
	case float64:
		if y != math.Trunc(y) || math.IsInf(y, 0) || math.IsNaN(y) {
			return 0, false
		}
		year = int(y)
	case json.Number:
		return ParseYear(y.String())
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(y))
		if err != nil {
			return 0, false
		}
		year = n
	default:
		return 0, false
	}
	if year == 0 {
		return 0, false
	}
	return year, true
}
