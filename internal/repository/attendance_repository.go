package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/tutoring-reports-api/internal/models"
)

// AttendanceRepository loads attendance facts with their session context.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository instantiates the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// ListRecords returns attendance rows whose session starts inside the period. Relations are left
// joined so that rows with a deleted session, subject, teacher or student are still returned.
func (r *AttendanceRepository) ListRecords(ctx context.Context, period models.Period) ([]models.AttendanceRecord, error) {
	var builder strings.Builder
	builder.WriteString(`SELECT a.id, a.session_id, a.child_profile_id, a.status, a.remarks,
		s.start_time AS session_start, s.type AS session_type,
		s.subject_id, sub.name AS subject_name,
		s.teacher_profile_id, u.name AS teacher_name,
		c.first_name AS student_first_name, c.last_name AS student_last_name
		FROM attendances a
		LEFT JOIN sessions s ON s.id = a.session_id
		LEFT JOIN subjects sub ON sub.id = s.subject_id
		LEFT JOIN teacher_profiles tp ON tp.id = s.teacher_profile_id
		LEFT JOIN users u ON u.id = tp.user_id
		LEFT JOIN child_profiles c ON c.id = a.child_profile_id
		WHERE 1=1`)
	args := appendPeriod(&builder, nil, "s.start_time", period)
	builder.WriteString(" ORDER BY s.start_time, a.id")

	var records []models.AttendanceRecord
	if err := r.db.SelectContext(ctx, &records, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list attendance records: %w", err)
	}
	return records, nil
}
