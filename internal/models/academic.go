package models

import "time"

// AcademicYear bounds one school year. At most one row is expected to be current.
type AcademicYear struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	StartDate time.Time `db:"start_date" json:"start_date"`
	EndDate   time.Time `db:"end_date" json:"end_date"`
	IsCurrent bool      `db:"is_current" json:"is_current"`
}

// Curriculum groups subjects into a programme.
type Curriculum struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
	Code string `db:"code" json:"code"`
}

// Subject belongs to one curriculum.
type Subject struct {
	ID           int64  `db:"id" json:"id"`
	Name         string `db:"name" json:"name"`
	Code         string `db:"code" json:"code"`
	CurriculumID *int64 `db:"curriculum_id" json:"curriculum_id,omitempty"`
	Level        string `db:"level" json:"level"`
}

// User is the login account backing a teacher profile.
type User struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Password  string    `db:"password" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// TeacherProfile describes a tutor; subjects are linked through subject_teacher.
type TeacherProfile struct {
	ID              int64  `db:"id" json:"id"`
	UserID          *int64 `db:"user_id" json:"user_id,omitempty"`
	Specialization  string `db:"specialization" json:"specialization"`
	Phone           string `db:"phone" json:"phone"`
	Bio             string `db:"bio" json:"bio"`
	Department      string `db:"department" json:"department"`
	Qualification   string `db:"qualification" json:"qualification"`
	ExperienceYears int    `db:"experience_years" json:"experience_years"`
}

// TeacherOption is a teacher profile joined with its user's display name.
type TeacherOption struct {
	ID             int64   `db:"id" json:"id"`
	Name           *string `db:"name" json:"name,omitempty"`
	Specialization string  `db:"specialization" json:"specialization"`
}
