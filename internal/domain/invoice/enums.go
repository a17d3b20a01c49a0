package invoice

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Casers are stateful, so one is built per call.
func titleCase(s string) string {
	return cases.Title(language.English).String(strings.ToLower(strings.TrimSpace(s)))
}

// Level represents a course proficiency tier
type Level string

const (
	LevelA1       Level = "A1"
	LevelA1Hybrid Level = "A1-Hybrid"
	LevelA2       Level = "A2"
	LevelB1       Level = "B1"
	LevelB2       Level = "B2"
)

// IsValid checks if the Level is a valid value
func (l Level) IsValid() bool {
	switch l {
	case LevelA1, LevelA1Hybrid, LevelA2, LevelB1, LevelB2:
		return true
	}
	return false
}

// String returns the string representation of Level
func (l Level) String() string {
	return string(l)
}

// AllLevels returns all levels in display order
func AllLevels() []Level {
	return []Level{LevelA1, LevelA1Hybrid, LevelA2, LevelB1, LevelB2}
}

// ParseLevel accepts "a1", "A1 hybrid", "a1_hybrid" and similar spellings
func ParseLevel(s string) (Level, error) {
	norm := strings.ToUpper(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "-", "_", "-").Replace(norm)
	for _, l := range AllLevels() {
		if strings.ToUpper(string(l)) == norm {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown level %q", s)
}

// Month is the course start month shown on an invoice row
type Month string

const (
	January   Month = "January"
	February  Month = "February"
	March     Month = "March"
	April     Month = "April"
	May       Month = "May"
	June      Month = "June"
	July      Month = "July"
	August    Month = "August"
	September Month = "September"
	October   Month = "October"
	November  Month = "November"
	December  Month = "December"
)

// AllMonths returns the twelve months in calendar order
func AllMonths() []Month {
	return []Month{January, February, March, April, May, June,
		July, August, September, October, November, December}
}

// IsValid checks if the Month is a valid value
func (m Month) IsValid() bool {
	for _, v := range AllMonths() {
		if m == v {
			return true
		}
	}
	return false
}

// ParseMonth parses a month name case-insensitively
func ParseMonth(s string) (Month, error) {
	m := Month(titleCase(s))
	if !m.IsValid() {
		return "", fmt.Errorf("unknown month %q", s)
	}
	return m, nil
}

// Batch is the time-of-day group a student is enrolled in
type Batch string

const (
	BatchMorning Batch = "Morning"
	BatchEvening Batch = "Evening"
)

// IsValid checks if the Batch is a valid value
func (b Batch) IsValid() bool {
	return b == BatchMorning || b == BatchEvening
}

// ParseBatch parses a batch name case-insensitively
func ParseBatch(s string) (Batch, error) {
	b := Batch(titleCase(s))
	if !b.IsValid() {
		return "", fmt.Errorf("unknown batch %q", s)
	}
	return b, nil
}
