package models

import "time"

// EnrollmentStatus is the lifecycle state of a program enrollment.
type EnrollmentStatus string

const (
	EnrollmentStatusActive    EnrollmentStatus = "active"
	EnrollmentStatusInactive  EnrollmentStatus = "inactive"
	EnrollmentStatusCompleted EnrollmentStatus = "completed"
	EnrollmentStatusWithdrawn EnrollmentStatus = "withdrawn"
)

// EnrollmentStatuses lists every status in display order.
var EnrollmentStatuses = []EnrollmentStatus{
	EnrollmentStatusActive,
	EnrollmentStatusInactive,
	EnrollmentStatusCompleted,
	EnrollmentStatusWithdrawn,
}

// Valid returns true when the status is a supported value.
func (s EnrollmentStatus) Valid() bool {
	for _, known := range EnrollmentStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// ProgramEnrollment links a student to a curriculum for one academic year.
type ProgramEnrollment struct {
	ID             int64            `db:"id" json:"id"`
	ChildProfileID int64            `db:"child_profile_id" json:"child_profile_id"`
	CurriculumID   *int64           `db:"curriculum_id" json:"curriculum_id,omitempty"`
	AcademicYearID *int64           `db:"academic_year_id" json:"academic_year_id,omitempty"`
	Status         EnrollmentStatus `db:"status" json:"status"`
	PaymentPlanID  *int64           `db:"payment_plan_id" json:"payment_plan_id,omitempty"`
	CreatedAt      time.Time        `db:"created_at" json:"created_at"`
}

// SubjectEnrollment fans a program enrollment out into one subject.
type SubjectEnrollment struct {
	ID                  int64  `db:"id" json:"id"`
	ProgramEnrollmentID int64  `db:"program_enrollment_id" json:"program_enrollment_id"`
	SubjectID           *int64 `db:"subject_id" json:"subject_id,omitempty"`
}

// SubjectEnrollmentDetail carries the subject name when the subject still exists.
type SubjectEnrollmentDetail struct {
	SubjectEnrollment
	SubjectName *string `db:"subject_name" json:"subject_name,omitempty"`
}

// EnrollmentDetail is a program enrollment with display names and its subject fan-out.
type EnrollmentDetail struct {
	ProgramEnrollment
	CurriculumName   *string                   `db:"curriculum_name" json:"curriculum_name,omitempty"`
	AcademicYearName *string                   `db:"academic_year_name" json:"academic_year_name,omitempty"`
	Subjects         []SubjectEnrollmentDetail `db:"-" json:"subjects,omitempty"`
}

// Enrollments is a student's enrollment history.
type Enrollments []EnrollmentDetail

// InAcademicYear reports whether any enrollment targets the academic year.
func (e Enrollments) InAcademicYear(id int64) bool {
	for _, enrollment := range e {
		if enrollment.AcademicYearID != nil && *enrollment.AcademicYearID == id {
			return true
		}
	}
	return false
}

// InCurriculum reports whether any enrollment targets the curriculum.
func (e Enrollments) InCurriculum(id int64) bool {
	for _, enrollment := range e {
		if enrollment.CurriculumID != nil && *enrollment.CurriculumID == id {
			return true
		}
	}
	return false
}

// TakesSubject reports whether any enrollment fans out to the subject.
func (e Enrollments) TakesSubject(id int64) bool {
	for _, enrollment := range e {
		for _, subject := range enrollment.Subjects {
			if subject.SubjectID != nil && *subject.SubjectID == id {
				return true
			}
		}
	}
	return false
}
