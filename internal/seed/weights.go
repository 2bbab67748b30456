package seed

import (
	"math/rand"

	"github.com/noah-isme/tutoring-reports-api/internal/models"
)

// Weighted is one choice of a weighted draw.
type Weighted[T any] struct {
	Value  T
	Weight int
}

// WeightedPick draws a value with probability proportional to its weight using a cumulative scan.
// Non-positive weights are never chosen. With no positive weight the zero value is returned.
func WeightedPick[T any](r *rand.Rand, choices []Weighted[T]) T {
	total := 0
	for _, choice := range choices {
		if choice.Weight > 0 {
			total += choice.Weight
		}
	}
	var zero T
	if total == 0 {
		return zero
	}
	target := r.Intn(total)
	cumulative := 0
	for _, choice := range choices {
		if choice.Weight <= 0 {
			continue
		}
		cumulative += choice.Weight
		if target < cumulative {
			return choice.Value
		}
	}
	return zero
}

var attendanceDistribution = []Weighted[models.AttendanceStatus]{
	{Value: models.AttendanceStatusPresent, Weight: 78},
	{Value: models.AttendanceStatusLate, Weight: 8},
	{Value: models.AttendanceStatusAbsent, Weight: 9},
	{Value: models.AttendanceStatusExcused, Weight: 5},
}

var invoiceDistribution = []Weighted[models.InvoiceStatus]{
	{Value: models.InvoiceStatusPaid, Weight: 60},
	{Value: models.InvoiceStatusPartiallyPaid, Weight: 12},
	{Value: models.InvoiceStatusSent, Weight: 13},
	{Value: models.InvoiceStatusOverdue, Weight: 10},
	{Value: models.InvoiceStatusDraft, Weight: 5},
}

var currentEnrollmentDistribution = []Weighted[models.EnrollmentStatus]{
	{Value: models.EnrollmentStatusActive, Weight: 85},
	{Value: models.EnrollmentStatusInactive, Weight: 8},
	{Value: models.EnrollmentStatusWithdrawn, Weight: 7},
}

var pastEnrollmentDistribution = []Weighted[models.EnrollmentStatus]{
	{Value: models.EnrollmentStatusCompleted, Weight: 85},
	{Value: models.EnrollmentStatusWithdrawn, Weight: 15},
}

var examTypeDistribution = []Weighted[models.ExamType]{
	{Value: models.ExamTypeQuiz, Weight: 4},
	{Value: models.ExamTypeAssignment, Weight: 3},
	{Value: models.ExamTypeMidterm, Weight: 2},
	{Value: models.ExamTypeFinal, Weight: 1},
}
