package models

import (
	"strings"
	"time"
)

// ChildProfile represents an enrolled student.
type ChildProfile struct {
	ID          int64      `db:"id" json:"id"`
	FirstName   string     `db:"first_name" json:"first_name"`
	LastName    string     `db:"last_name" json:"last_name"`
	DateOfBirth *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Gender      string     `db:"gender" json:"gender"`
}

// FullName joins first and last name.
func (c ChildProfile) FullName() string {
	return joinName(&c.FirstName, &c.LastName)
}

// Age returns completed years at now, or -1 when the birth date is unknown.
func (c ChildProfile) Age(now time.Time) int {
	if c.DateOfBirth == nil {
		return -1
	}
	dob := c.DateOfBirth.In(now.Location())
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}

// StudentRecord is a child profile with its full enrollment history.
type StudentRecord struct {
	ChildProfile
	Enrollments Enrollments `db:"-" json:"enrollments"`
}

func joinName(first, last *string) string {
	parts := make([]string, 0, 2)
	if first != nil && strings.TrimSpace(*first) != "" {
		parts = append(parts, strings.TrimSpace(*first))
	}
	if last != nil && strings.TrimSpace(*last) != "" {
		parts = append(parts, strings.TrimSpace(*last))
	}
	return strings.Join(parts, " ")
}
