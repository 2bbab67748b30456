package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/tutoring-reports-api/internal/models"
)

// FinanceRepository loads payments and invoices.
type FinanceRepository struct {
	db *sqlx.DB
}

// NewFinanceRepository instantiates the repository.
func NewFinanceRepository(db *sqlx.DB) *FinanceRepository {
	return &FinanceRepository{db: db}
}

// ListPayments returns payments dated inside the period with curriculum, invoice status and student.
func (r *FinanceRepository) ListPayments(ctx context.Context, period models.Period) ([]models.PaymentRecord, error) {
	var builder strings.Builder
	builder.WriteString(`SELECT p.id, p.amount, p.payment_date, p.due_date, p.status, p.payment_method,
		p.invoice_id, p.child_profile_id, p.academic_year_id, p.curriculum_id,
		cu.name AS curriculum_name, i.status AS invoice_status,
		c.first_name AS student_first_name, c.last_name AS student_last_name
		FROM payments p
		LEFT JOIN curricula cu ON cu.id = p.curriculum_id
		LEFT JOIN invoices i ON i.id = p.invoice_id
		LEFT JOIN child_profiles c ON c.id = p.child_profile_id
		WHERE 1=1`)
	args := appendPeriod(&builder, nil, "p.payment_date", period)
	builder.WriteString(" ORDER BY p.payment_date, p.id")

	var records []models.PaymentRecord
	if err := r.db.SelectContext(ctx, &records, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return records, nil
}

// ListInvoices returns invoices dated inside the period with the amount paid against each.
func (r *FinanceRepository) ListInvoices(ctx context.Context, period models.Period) ([]models.InvoiceRecord, error) {
	var builder strings.Builder
	builder.WriteString(`SELECT i.id, i.invoice_number, i.amount, i.invoice_date, i.due_date, i.paid_date, i.status,
		i.child_profile_id, i.academic_year_id, i.curriculum_id, i.program_enrollment_id,
		COALESCE((SELECT SUM(p.amount) FROM payments p WHERE p.invoice_id = i.id), 0) AS paid_amount,
		cu.name AS curriculum_name,
		c.first_name AS student_first_name, c.last_name AS student_last_name
		FROM invoices i
		LEFT JOIN curricula cu ON cu.id = i.curriculum_id
		LEFT JOIN child_profiles c ON c.id = i.child_profile_id
		WHERE 1=1`)
	args := appendPeriod(&builder, nil, "i.invoice_date", period)
	builder.WriteString(" ORDER BY i.invoice_date, i.id")

	var records []models.InvoiceRecord
	if err := r.db.SelectContext(ctx, &records, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	return records, nil
}
