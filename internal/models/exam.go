package models

import "time"

// ExamType classifies assessments.
type ExamType string

const (
	ExamTypeQuiz       ExamType = "quiz"
	ExamTypeMidterm    ExamType = "midterm"
	ExamTypeFinal      ExamType = "final"
	ExamTypeAssignment ExamType = "assignment"
)

// ExamTypes lists every exam type in display order.
var ExamTypes = []ExamType{ExamTypeQuiz, ExamTypeMidterm, ExamTypeFinal, ExamTypeAssignment}

// Valid returns true when the type is a supported value.
func (t ExamType) Valid() bool {
	for _, known := range ExamTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Exam is one assessment for a subject in an academic year.
type Exam struct {
	ID               int64     `db:"id" json:"id"`
	SubjectID        *int64    `db:"subject_id" json:"subject_id,omitempty"`
	TeacherProfileID *int64    `db:"teacher_profile_id" json:"teacher_profile_id,omitempty"`
	AcademicYearID   *int64    `db:"academic_year_id" json:"academic_year_id,omitempty"`
	Title            string    `db:"title" json:"title"`
	ExamDate         time.Time `db:"exam_date" json:"exam_date"`
	Type             ExamType  `db:"type" json:"type"`
}

// ExamResult holds a score in [0, 100]; unique per (exam, student).
type ExamResult struct {
	ID             int64   `db:"id" json:"id"`
	ExamID         *int64  `db:"exam_id" json:"exam_id,omitempty"`
	ChildProfileID *int64  `db:"child_profile_id" json:"child_profile_id,omitempty"`
	Score          float64 `db:"score" json:"score"`
	Remarks        string  `db:"remarks" json:"remarks"`
}

// ExamResultRecord is a result with exam, subject, teacher and student resolved.
type ExamResultRecord struct {
	ExamResult
	ExamTitle        *string     `db:"exam_title" json:"exam_title,omitempty"`
	ExamDate         *time.Time  `db:"exam_date" json:"exam_date,omitempty"`
	ExamType         *ExamType   `db:"exam_type" json:"exam_type,omitempty"`
	AcademicYearID   *int64      `db:"academic_year_id" json:"academic_year_id,omitempty"`
	SubjectID        *int64      `db:"subject_id" json:"subject_id,omitempty"`
	SubjectName      *string     `db:"subject_name" json:"subject_name,omitempty"`
	CurriculumID     *int64      `db:"curriculum_id" json:"curriculum_id,omitempty"`
	TeacherID        *int64      `db:"teacher_profile_id" json:"teacher_id,omitempty"`
	TeacherName      *string     `db:"teacher_name" json:"teacher_name,omitempty"`
	StudentFirstName *string     `db:"student_first_name" json:"-"`
	StudentLastName  *string     `db:"student_last_name" json:"-"`
	Enrollments      Enrollments `db:"-" json:"-"`
}

// StudentName returns the student's full name or "" when the student is missing.
func (r ExamResultRecord) StudentName() string {
	return joinName(r.StudentFirstName, r.StudentLastName)
}

// GradeBand is the letter grade derived from a score.
type GradeBand string

const (
	GradeA GradeBand = "A"
	GradeB GradeBand = "B"
	GradeC GradeBand = "C"
	GradeD GradeBand = "D"
	GradeF GradeBand = "F"
)

// GradeBands lists every band from best to worst.
var GradeBands = []GradeBand{GradeA, GradeB, GradeC, GradeD, GradeF}

// PassMark is the lowest passing score.
const PassMark = 60.0

// Valid returns true when the band is a supported value.
func (g GradeBand) Valid() bool {
	for _, known := range GradeBands {
		if g == known {
			return true
		}
	}
	return false
}

// BandForScore maps a score onto half-open bands: A >= 90, B [80,90), C [70,80), D [60,70), F < 60.
func BandForScore(score float64) GradeBand {
	switch {
	case score >= 90:
		return GradeA
	case score >= 80:
		return GradeB
	case score >= 70:
		return GradeC
	case score >= PassMark:
		return GradeD
	default:
		return GradeF
	}
}

// Passed reports whether the score reaches the pass mark.
func Passed(score float64) bool {
	return score >= PassMark
}
