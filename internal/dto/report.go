package dto

import (
	"time"

	"github.com/noah-isme/tutoring-reports-api/internal/models"
	"github.com/noah-isme/tutoring-reports-api/internal/reporting"
)

// Ranked is one entry of a leaderboard.
type Ranked struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Count int     `json:"count"`
}

// AttendanceBreakdown is a group's per-status counts with its attendance rate.
type AttendanceBreakdown struct {
	reporting.Breakdown
	AttendanceRate float64 `json:"attendance_rate"`
}

// AttendanceReport is the payload of GET /reports/attendance.
type AttendanceReport struct {
	Window         *reporting.Window     `json:"window,omitempty"`
	Total          int                   `json:"total"`
	StatusCounts   []reporting.Category  `json:"status_counts"`
	AttendanceRate float64               `json:"attendance_rate"`
	AbsenceRate    float64               `json:"absence_rate"`
	BySubject      []AttendanceBreakdown `json:"by_subject"`
	ByTeacher      []AttendanceBreakdown `json:"by_teacher"`
	ByStudent      []AttendanceBreakdown `json:"by_student"`
	ByWeekday      []AttendanceBreakdown `json:"by_weekday"`
	TopStudents    []AttendanceBreakdown `json:"top_students"`
	BottomStudents []AttendanceBreakdown `json:"bottom_students"`
	Daily          []reporting.Point     `json:"daily"`
	Trend          reporting.Trend       `json:"trend"`
}

// ExamBreakdown is a group's grade distribution with its score statistics.
type ExamBreakdown struct {
	reporting.Breakdown
	Average  float64 `json:"average"`
	PassRate float64 `json:"pass_rate"`
}

// ExamDifficulty summarises one exam.
type ExamDifficulty struct {
	Key        string               `json:"key"`
	Title      string               `json:"title"`
	Subject    string               `json:"subject"`
	Date       *time.Time           `json:"date,omitempty"`
	Results    int                  `json:"results"`
	Average    float64              `json:"average"`
	PassRate   float64              `json:"pass_rate"`
	Difficulty reporting.Difficulty `json:"difficulty"`
}

// ExamReport is the payload of GET /reports/exams.
type ExamReport struct {
	Window            *reporting.Window    `json:"window,omitempty"`
	TotalResults      int                  `json:"total_results"`
	Scores            reporting.Summary    `json:"scores"`
	PassRate          float64              `json:"pass_rate"`
	GradeDistribution []reporting.Category `json:"grade_distribution"`
	BySubject         []ExamBreakdown      `json:"by_subject"`
	ByTeacher         []ExamBreakdown      `json:"by_teacher"`
	ByExamType        []ExamBreakdown      `json:"by_exam_type"`
	TopStudents       []Ranked             `json:"top_students"`
	HardestExams      []ExamDifficulty     `json:"hardest_exams"`
	Series            []reporting.Point    `json:"series"`
	Trend             reporting.Trend      `json:"trend"`
}

// InvoiceStatusTotal counts invoices of one status and their billed amount.
type InvoiceStatusTotal struct {
	Status string  `json:"status"`
	Count  int     `json:"count"`
	Amount float64 `json:"amount"`
}

// FinanceReport is the payload of GET /reports/finances.
type FinanceReport struct {
	Window               *reporting.Window           `json:"window,omitempty"`
	PreviousWindow       *reporting.Window           `json:"previous_window,omitempty"`
	Revenue              float64                     `json:"revenue"`
	PreviousRevenue      float64                     `json:"previous_revenue"`
	GrowthRate           float64                     `json:"growth_rate"`
	PaymentCount         int                         `json:"payment_count"`
	Payments             reporting.Summary           `json:"payments"`
	InvoiceCount         int                         `json:"invoice_count"`
	PaidInvoiceCount     int                         `json:"paid_invoice_count"`
	CollectionRate       float64                     `json:"collection_rate"`
	Outstanding          float64                     `json:"outstanding"`
	OverdueCount         int                         `json:"overdue_count"`
	Monthly              []reporting.MonthlyBucket   `json:"monthly"`
	ByCurriculum         []reporting.AmountBreakdown `json:"by_curriculum"`
	ByPaymentMethod      []reporting.AmountBreakdown `json:"by_payment_method"`
	InvoicesByStatus     []InvoiceStatusTotal        `json:"invoices_by_status"`
	// InvoicesByCurriculum carries per-status invoice counts and amounts in every row.
	InvoicesByCurriculum []reporting.AmountBreakdown `json:"invoices_by_curriculum"`
	TopStudents          []Ranked                    `json:"top_students"`
}

// StudentReport is the payload of GET /reports/students.
type StudentReport struct {
	Window              *reporting.Window     `json:"window,omitempty"`
	TotalStudents       int                   `json:"total_students"`
	ByGender            []reporting.Category  `json:"by_gender"`
	ByAgeBand           []reporting.Category  `json:"by_age_band"`
	EnrollmentsByStatus []reporting.Category  `json:"enrollments_by_status"`
	ByCurriculum        []reporting.Breakdown `json:"by_curriculum"`
	SubjectEnrollments  []Ranked              `json:"subject_enrollments"`
	AverageSubjects     float64               `json:"average_subjects"`
	TopSubjects         []Ranked              `json:"top_subjects"`
}

// FilterOptions lists the values the view layer offers as filters.
type FilterOptions struct {
	AcademicYears      []models.AcademicYear     `json:"academic_years"`
	Curricula          []models.Curriculum       `json:"curricula"`
	Subjects           []models.Subject          `json:"subjects"`
	Teachers           []models.TeacherOption    `json:"teachers"`
	PaymentMethods     []string                  `json:"payment_methods"`
	Genders            []string                  `json:"genders"`
	DateRanges         []models.DateRange        `json:"date_ranges"`
	AttendanceStatuses []models.AttendanceStatus `json:"attendance_statuses"`
	ExamTypes          []models.ExamType         `json:"exam_types"`
	GradeBands         []models.GradeBand        `json:"grade_bands"`
	InvoiceStatuses    []models.InvoiceStatus    `json:"invoice_statuses"`
	EnrollmentStatuses []models.EnrollmentStatus `json:"enrollment_statuses"`
}

// ExportRequest selects a report and an output format.
type ExportRequest struct {
	Type   models.ReportKind `validate:"required,oneof=attendance exams finances students"`
	Format string            `validate:"required,oneof=csv pdf"`
}

// ExportFile is a rendered report ready to stream.
type ExportFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}
