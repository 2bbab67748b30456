package models

import "time"

// InvoiceStatus tracks billing progress.
type InvoiceStatus string

const (
	InvoiceStatusDraft         InvoiceStatus = "draft"
	InvoiceStatusSent          InvoiceStatus = "sent"
	InvoiceStatusPartiallyPaid InvoiceStatus = "partially_paid"
	InvoiceStatusPaid          InvoiceStatus = "paid"
	InvoiceStatusOverdue       InvoiceStatus = "overdue"
)

// InvoiceStatuses lists every status in display order.
var InvoiceStatuses = []InvoiceStatus{
	InvoiceStatusDraft,
	InvoiceStatusSent,
	InvoiceStatusPartiallyPaid,
	InvoiceStatusPaid,
	InvoiceStatusOverdue,
}

// Valid returns true when the status is a supported value.
func (s InvoiceStatus) Valid() bool {
	for _, known := range InvoiceStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Invoice bills a student for an enrollment.
type Invoice struct {
	ID                  int64         `db:"id" json:"id"`
	InvoiceNumber       string        `db:"invoice_number" json:"invoice_number"`
	Amount              float64       `db:"amount" json:"amount"`
	InvoiceDate         time.Time     `db:"invoice_date" json:"invoice_date"`
	DueDate             time.Time     `db:"due_date" json:"due_date"`
	PaidDate            *time.Time    `db:"paid_date" json:"paid_date,omitempty"`
	Status              InvoiceStatus `db:"status" json:"status"`
	ChildProfileID      *int64        `db:"child_profile_id" json:"child_profile_id,omitempty"`
	AcademicYearID      *int64        `db:"academic_year_id" json:"academic_year_id,omitempty"`
	CurriculumID        *int64        `db:"curriculum_id" json:"curriculum_id,omitempty"`
	ProgramEnrollmentID *int64        `db:"program_enrollment_id" json:"program_enrollment_id,omitempty"`
}

// Payment settles all or part of an invoice.
type Payment struct {
	ID             int64      `db:"id" json:"id"`
	Amount         float64    `db:"amount" json:"amount"`
	PaymentDate    time.Time  `db:"payment_date" json:"payment_date"`
	DueDate        *time.Time `db:"due_date" json:"due_date,omitempty"`
	Status         string     `db:"status" json:"status"`
	PaymentMethod  string     `db:"payment_method" json:"payment_method"`
	InvoiceID      *int64     `db:"invoice_id" json:"invoice_id,omitempty"`
	ChildProfileID *int64     `db:"child_profile_id" json:"child_profile_id,omitempty"`
	AcademicYearID *int64     `db:"academic_year_id" json:"academic_year_id,omitempty"`
	CurriculumID   *int64     `db:"curriculum_id" json:"curriculum_id,omitempty"`
}

// PaymentRecord is a payment with curriculum, invoice status and student resolved.
type PaymentRecord struct {
	Payment
	CurriculumName   *string        `db:"curriculum_name" json:"curriculum_name,omitempty"`
	InvoiceStatus    *InvoiceStatus `db:"invoice_status" json:"invoice_status,omitempty"`
	StudentFirstName *string        `db:"student_first_name" json:"-"`
	StudentLastName  *string        `db:"student_last_name" json:"-"`
}

// StudentName returns the student's full name or "" when the student is missing.
func (r PaymentRecord) StudentName() string {
	return joinName(r.StudentFirstName, r.StudentLastName)
}

// InvoiceRecord is an invoice with the amount settled so far.
type InvoiceRecord struct {
	Invoice
	PaidAmount       float64 `db:"paid_amount" json:"paid_amount"`
	CurriculumName   *string `db:"curriculum_name" json:"curriculum_name,omitempty"`
	StudentFirstName *string `db:"student_first_name" json:"-"`
	StudentLastName  *string `db:"student_last_name" json:"-"`
}

// Outstanding returns the unpaid remainder, never negative.
func (r InvoiceRecord) Outstanding() float64 {
	if r.Status == InvoiceStatusPaid || r.Status == InvoiceStatusDraft {
		return 0
	}
	remaining := r.Amount - r.PaidAmount
	if remaining < 0 {
		return 0
	}
	return remaining
}
