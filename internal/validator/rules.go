package validator

import (
	"time"
	"unicode"
)

// AdultAge is the minimum age of a registered user.
const AdultAge = 18

const dateLayout = "2006-01-02"

// IsLetters reports whether s is non-empty and consists of letters only.
func IsLetters(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// IsPassport reports whether s has the "XXXX XXXXXX" form with digits only.
func IsPassport(s string) bool {
	if len(s) != 11 || s[4] != ' ' {
		return false
	}
	for i := 0; i < len(s); i++ {
		if i == 4 {
			continue
		}
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// IsAdult reports whether someone born on dob is at least AdultAge years old on now.
// Dates in the future are rejected.
func IsAdult(dob, now time.Time) bool {
	today := day(now)
	born := day(dob)
	if born.After(today) {
		return false
	}
	return !born.AddDate(AdultAge, 0, 0).After(today)
}

// IsFutureDate reports whether d falls on a day after now.
func IsFutureDate(d, now time.Time) bool {
	return day(d).After(day(now))
}

func day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
