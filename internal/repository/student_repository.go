package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/tutoring-reports-api/internal/models"
)

// StudentRepository loads child profiles.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository instantiates the repository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// ListStudents returns children with at least one program enrollment created inside the period.
// An open period returns every child.
func (r *StudentRepository) ListStudents(ctx context.Context, period models.Period) ([]models.ChildProfile, error) {
	var builder strings.Builder
	builder.WriteString(`SELECT c.id, c.first_name, c.last_name, c.date_of_birth, c.gender FROM child_profiles c`)
	var args []interface{}
	if period.From != nil || period.Until != nil {
		builder.WriteString(` WHERE EXISTS (SELECT 1 FROM program_enrollments pe WHERE pe.child_profile_id = c.id`)
		args = appendPeriod(&builder, args, "pe.created_at", period)
		builder.WriteString(")")
	}
	builder.WriteString(" ORDER BY c.last_name, c.first_name, c.id")

	var students []models.ChildProfile
	if err := r.db.SelectContext(ctx, &students, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}
