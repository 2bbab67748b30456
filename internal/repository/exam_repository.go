package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/tutoring-reports-api/internal/models"
)

// ExamRepository loads exam results with their exam context.
type ExamRepository struct {
	db *sqlx.DB
}

// NewExamRepository instantiates the repository.
func NewExamRepository(db *sqlx.DB) *ExamRepository {
	return &ExamRepository{db: db}
}

// ListResults returns results whose exam date falls inside the period, oldest exam first.
func (r *ExamRepository) ListResults(ctx context.Context, period models.Period) ([]models.ExamResultRecord, error) {
	var builder strings.Builder
	builder.WriteString(`SELECT er.id, er.exam_id, er.child_profile_id, er.score, er.remarks,
		e.title AS exam_title, e.exam_date, e.type AS exam_type, e.academic_year_id,
		e.subject_id, sub.name AS subject_name, sub.curriculum_id,
		e.teacher_profile_id, u.name AS teacher_name,
		c.first_name AS student_first_name, c.last_name AS student_last_name
		FROM exam_results er
		LEFT JOIN exams e ON e.id = er.exam_id
		LEFT JOIN subjects sub ON sub.id = e.subject_id
		LEFT JOIN teacher_profiles tp ON tp.id = e.teacher_profile_id
		LEFT JOIN users u ON u.id = tp.user_id
		LEFT JOIN child_profiles c ON c.id = er.child_profile_id
		WHERE 1=1`)
	args := appendPeriod(&builder, nil, "e.exam_date", period)
	builder.WriteString(" ORDER BY e.exam_date, er.exam_id, er.id")

	var records []models.ExamResultRecord
	if err := r.db.SelectContext(ctx, &records, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list exam results: %w", err)
	}
	return records, nil
}
