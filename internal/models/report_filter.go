package models

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the wire format for start_date/end_date.
const DateLayout = "2006-01-02"

// ReportKind names a report; the value doubles as its URL segment.
type ReportKind string

const (
	ReportAttendance ReportKind = "attendance"
	ReportExams      ReportKind = "exams"
	ReportFinances   ReportKind = "finances"
	ReportStudents   ReportKind = "students"
)

// ParseReportKind returns false for unknown kinds.
func ParseReportKind(raw string) (ReportKind, bool) {
	switch kind := ReportKind(strings.ToLower(strings.TrimSpace(raw))); kind {
	case ReportAttendance, ReportExams, ReportFinances, ReportStudents:
		return kind, true
	default:
		return "", false
	}
}

// DateRange is a symbolic period resolved against the clock and the academic calendar.
type DateRange string

const (
	DateRangeCurrentTerm   DateRange = "current_term"
	DateRangePreviousTerm  DateRange = "previous_term"
	DateRangeCurrentMonth  DateRange = "current_month"
	DateRangePreviousMonth DateRange = "previous_month"
	DateRangeCurrentYear   DateRange = "current_year"
	DateRangePreviousYear  DateRange = "previous_year"
	DateRangeLast30Days    DateRange = "last_30_days"
	DateRangeLast90Days    DateRange = "last_90_days"
	DateRangeCustom        DateRange = "custom"
)

// DateRanges lists every supported symbolic range.
var DateRanges = []DateRange{
	DateRangeCurrentTerm,
	DateRangePreviousTerm,
	DateRangeCurrentMonth,
	DateRangePreviousMonth,
	DateRangeCurrentYear,
	DateRangePreviousYear,
	DateRangeLast30Days,
	DateRangeLast90Days,
	DateRangeCustom,
}

// ParseDateRange maps unknown names to "" (no range).
func ParseDateRange(raw string) DateRange {
	candidate := DateRange(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range DateRanges {
		if candidate == known {
			return candidate
		}
	}
	return ""
}

// DateRangeFilter is the shared date constraint of every report.
type DateRangeFilter struct {
	Range     DateRange  `json:"date_range,omitempty"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}

// IsCustom reports whether explicit dates drive the window.
func (f DateRangeFilter) IsCustom() bool {
	return f.Range == DateRangeCustom || (f.Range == "" && (f.StartDate != nil || f.EndDate != nil))
}

func (f DateRangeFilter) encode(q url.Values) {
	if f.Range != "" {
		q.Set("date_range", string(f.Range))
	}
	setDate(q, "start_date", f.StartDate)
	setDate(q, "end_date", f.EndDate)
}

// AttendanceReportFilter scopes the attendance report.
type AttendanceReportFilter struct {
	AcademicYearID *int64
	CurriculumID   *int64
	SubjectID      *int64
	TeacherID      *int64
	StudentID      *int64
	Status         *AttendanceStatus
	Dates          DateRangeFilter
	Limit          int
}

// Query encodes the filter with its stable URL parameter names.
func (f AttendanceReportFilter) Query() url.Values {
	q := url.Values{}
	setID(q, "academic_year_id", f.AcademicYearID)
	setID(q, "curriculum_id", f.CurriculumID)
	setID(q, "subject_id", f.SubjectID)
	setID(q, "teacher_id", f.TeacherID)
	setID(q, "student_id", f.StudentID)
	if f.Status != nil {
		q.Set("status", string(*f.Status))
	}
	f.Dates.encode(q)
	setLimit(q, f.Limit)
	return q
}

// ExamReportFilter scopes the exam report.
type ExamReportFilter struct {
	AcademicYearID *int64
	CurriculumID   *int64
	SubjectID      *int64
	TeacherID      *int64
	StudentID      *int64
	Grade          *GradeBand
	ExamType       *ExamType
	Dates          DateRangeFilter
	Limit          int
}

// Query encodes the filter with its stable URL parameter names.
func (f ExamReportFilter) Query() url.Values {
	q := url.Values{}
	setID(q, "academic_year_id", f.AcademicYearID)
	setID(q, "curriculum_id", f.CurriculumID)
	setID(q, "subject_id", f.SubjectID)
	setID(q, "teacher_id", f.TeacherID)
	setID(q, "student_id", f.StudentID)
	if f.Grade != nil {
		q.Set("grade", string(*f.Grade))
	}
	if f.ExamType != nil {
		q.Set("exam_type", string(*f.ExamType))
	}
	f.Dates.encode(q)
	setLimit(q, f.Limit)
	return q
}

// FinanceReportFilter scopes the finance report.
type FinanceReportFilter struct {
	AcademicYearID *int64
	CurriculumID   *int64
	StudentID      *int64
	Status         *InvoiceStatus
	PaymentMethod  *string
	Dates          DateRangeFilter
	Limit          int
}

// Query encodes the filter with its stable URL parameter names.
func (f FinanceReportFilter) Query() url.Values {
	q := url.Values{}
	setID(q, "academic_year_id", f.AcademicYearID)
	setID(q, "curriculum_id", f.CurriculumID)
	setID(q, "student_id", f.StudentID)
	if f.Status != nil {
		q.Set("status", string(*f.Status))
	}
	if f.PaymentMethod != nil {
		q.Set("payment_method", *f.PaymentMethod)
	}
	f.Dates.encode(q)
	setLimit(q, f.Limit)
	return q
}

// StudentReportFilter scopes the student report.
type StudentReportFilter struct {
	AcademicYearID *int64
	CurriculumID   *int64
	SubjectID      *int64
	Status         *EnrollmentStatus
	Gender         *string
	Dates          DateRangeFilter
	Limit          int
}

// Query encodes the filter with its stable URL parameter names.
func (f StudentReportFilter) Query() url.Values {
	q := url.Values{}
	setID(q, "academic_year_id", f.AcademicYearID)
	setID(q, "curriculum_id", f.CurriculumID)
	setID(q, "subject_id", f.SubjectID)
	if f.Status != nil {
		q.Set("status", string(*f.Status))
	}
	if f.Gender != nil {
		q.Set("gender", *f.Gender)
	}
	f.Dates.encode(q)
	setLimit(q, f.Limit)
	return q
}

func setID(q url.Values, key string, id *int64) {
	if id != nil {
		q.Set(key, strconv.FormatInt(*id, 10))
	}
}

func setDate(q url.Values, key string, t *time.Time) {
	if t != nil {
		q.Set(key, t.Format(DateLayout))
	}
}

func setLimit(q url.Values, limit int) {
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
}

// Period bounds a repository query on its date column. From is inclusive, Until exclusive;
// nil bounds are open.
type Period struct {
	From  *time.Time
	Until *time.Time
}
