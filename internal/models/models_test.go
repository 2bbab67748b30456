package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBandForScoreBoundaries(t *testing.T) {
	cases := map[float64]GradeBand{
		100:   GradeA,
		90:    GradeA,
		89.99: GradeB,
		80:    GradeB,
		79.5:  GradeC,
		70:    GradeC,
		69.99: GradeD,
		60:    GradeD,
		59.99: GradeF,
		0:     GradeF,
	}
	for score, band := range cases {
		assert.Equal(t, band, BandForScore(score), "score %v", score)
	}
	assert.True(t, Passed(60))
	assert.False(t, Passed(59.9))
}

func TestChildProfileAge(t *testing.T) {
	now := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	dob := time.Date(2014, 10, 17, 0, 0, 0, 0, time.UTC)
	child := ChildProfile{FirstName: " Ana ", LastName: "Lee", DateOfBirth: &dob}

	assert.Equal(t, 11, child.Age(now))
	assert.Equal(t, 12, child.Age(now.AddDate(0, 0, 1)))
	assert.Equal(t, "Ana Lee", child.FullName())
	assert.Equal(t, -1, ChildProfile{}.Age(now))
}

func TestEnrollmentsTraversal(t *testing.T) {
	year, curriculum, subject := int64(3), int64(7), int64(11)
	enrollments := Enrollments{{
		ProgramEnrollment: ProgramEnrollment{AcademicYearID: &year, CurriculumID: &curriculum, Status: EnrollmentStatusActive},
		Subjects:          []SubjectEnrollmentDetail{{SubjectEnrollment: SubjectEnrollment{SubjectID: &subject}}},
	}}

	assert.True(t, enrollments.InAcademicYear(3))
	assert.False(t, enrollments.InAcademicYear(4))
	assert.True(t, enrollments.InCurriculum(7))
	assert.True(t, enrollments.TakesSubject(11))
	assert.False(t, Enrollments(nil).InCurriculum(7))
}

func TestFilterQueryIsStable(t *testing.T) {
	year := int64(2)
	status := AttendanceStatusLate
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	filter := AttendanceReportFilter{
		AcademicYearID: &year,
		Status:         &status,
		Dates:          DateRangeFilter{Range: DateRangeCustom, StartDate: &start},
		Limit:          10,
	}

	assert.Equal(t, "academic_year_id=2&date_range=custom&limit=10&start_date=2026-01-05&status=late", filter.Query().Encode())
}

func TestParseHelpers(t *testing.T) {
	assert.Equal(t, DateRangeLast30Days, ParseDateRange(" LAST_30_DAYS "))
	assert.Equal(t, DateRange(""), ParseDateRange("next_decade"))

	kind, ok := ParseReportKind("Finances")
	assert.True(t, ok)
	assert.Equal(t, ReportFinances, kind)
	_, ok = ParseReportKind("payroll")
	assert.False(t, ok)

	assert.True(t, DateRangeFilter{StartDate: &time.Time{}}.IsCustom())
	assert.False(t, DateRangeFilter{Range: DateRangeCurrentMonth}.IsCustom())
}

func TestInvoiceOutstanding(t *testing.T) {
	partial := InvoiceRecord{Invoice: Invoice{Amount: 300, Status: InvoiceStatusPartiallyPaid}, PaidAmount: 120}
	assert.Equal(t, 180.0, partial.Outstanding())

	paid := InvoiceRecord{Invoice: Invoice{Amount: 300, Status: InvoiceStatusPaid}, PaidAmount: 300}
	assert.Equal(t, 0.0, paid.Outstanding())

	overpaid := InvoiceRecord{Invoice: Invoice{Amount: 100, Status: InvoiceStatusOverdue}, PaidAmount: 150}
	assert.Equal(t, 0.0, overpaid.Outstanding())
}
