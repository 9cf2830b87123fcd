// Package validation holds the pure field-format predicates shared by the
// registration and grading workflows.
package validation

import (
	"regexp"
	"strings"
)

var (
	nationalIDPattern = regexp.MustCompile(`^\d{8}$`)
	emailPattern      = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@gmail\.com$`)
	teacherIDPattern  = regexp.MustCompile(`^PROF\d{3,}$`)
	studentIDPattern  = regexp.MustCompile(`^EST\d{3,}$`)
	digitPattern      = regexp.MustCompile(`[0-9]`)
)

// IsValidNationalID reports whether s is exactly eight decimal digits.
func IsValidNationalID(s string) bool {
	return nationalIDPattern.MatchString(s)
}

// IsValidEmail reports whether s is a well-formed address on the single
// accepted provider. The domain restriction is institutional policy.
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// CheckPassword validates the password policy: at least six characters and
// at least one digit. The returned message is safe to display.
func CheckPassword(s string) (bool, string) {
	if len(s) < 6 {
		return false, "password must be at least 6 characters"
	}
	if !digitPattern.MatchString(s) {
		return false, "password must contain at least one number"
	}
	return true, ""
}

// IsValidTeacherID reports whether s matches the PROF### identifier format.
func IsValidTeacherID(s string) bool {
	return teacherIDPattern.MatchString(s)
}

// IsValidStudentID reports whether s matches the EST### identifier format.
func IsValidStudentID(s string) bool {
	return studentIDPattern.MatchString(s)
}

// IsValidScore reports whether n lies within the configured inclusive bounds.
func IsValidScore(n, min, max float64) bool {
	return n >= min && n <= max
}

// FirstMissingField returns the name of the first listed field that is absent
// or blank in data, or "" when all are present.
func FirstMissingField(data map[string]string, fields []string) string {
	for _, field := range fields {
		if strings.TrimSpace(data[field]) == "" {
			return field
		}
	}
	return ""
}
