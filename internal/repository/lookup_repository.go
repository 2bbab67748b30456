package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/tutoring-reports-api/internal/models"
)

// LookupRepository reads the reference data reports are filtered by.
type LookupRepository struct {
	db *sqlx.DB
}

// NewLookupRepository instantiates the repository.
func NewLookupRepository(db *sqlx.DB) *LookupRepository {
	return &LookupRepository{db: db}
}

// ListAcademicYears returns every academic year, newest first.
func (r *LookupRepository) ListAcademicYears(ctx context.Context) ([]models.AcademicYear, error) {
	const query = `SELECT id, name, start_date, end_date, is_current FROM academic_years ORDER BY start_date DESC, id`
	var years []models.AcademicYear
	if err := r.db.SelectContext(ctx, &years, query); err != nil {
		return nil, fmt.Errorf("list academic years: %w", err)
	}
	return years, nil
}

// ListCurricula returns every curriculum by name.
func (r *LookupRepository) ListCurricula(ctx context.Context) ([]models.Curriculum, error) {
	const query = `SELECT id, name, code FROM curricula ORDER BY name, id`
	var curricula []models.Curriculum
	if err := r.db.SelectContext(ctx, &curricula, query); err != nil {
		return nil, fmt.Errorf("list curricula: %w", err)
	}
	return curricula, nil
}

// ListSubjects returns every subject by name.
func (r *LookupRepository) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	const query = `SELECT id, name, code, curriculum_id, level FROM subjects ORDER BY name, id`
	var subjects []models.Subject
	if err := r.db.SelectContext(ctx, &subjects, query); err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	return subjects, nil
}

// ListTeachers returns teacher profiles with their user's display name.
func (r *LookupRepository) ListTeachers(ctx context.Context) ([]models.TeacherOption, error) {
	const query = `SELECT tp.id, u.name AS name, tp.specialization
		FROM teacher_profiles tp
		LEFT JOIN users u ON u.id = tp.user_id
		ORDER BY u.name, tp.id`
	var teachers []models.TeacherOption
	if err := r.db.SelectContext(ctx, &teachers, query); err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	return teachers, nil
}

// ListPaymentMethods returns the distinct non-empty payment methods on record.
func (r *LookupRepository) ListPaymentMethods(ctx context.Context) ([]string, error) {
	const query = `SELECT DISTINCT payment_method FROM payments WHERE payment_method <> '' ORDER BY payment_method`
	var methods []string
	if err := r.db.SelectContext(ctx, &methods, query); err != nil {
		return nil, fmt.Errorf("list payment methods: %w", err)
	}
	return methods, nil
}

// ListGenders returns the distinct non-empty genders on record.
func (r *LookupRepository) ListGenders(ctx context.Context) ([]string, error) {
	const query = `SELECT DISTINCT gender FROM child_profiles WHERE gender <> '' ORDER BY gender`
	var genders []string
	if err := r.db.SelectContext(ctx, &genders, query); err != nil {
		return nil, fmt.Errorf("list genders: %w", err)
	}
	return genders, nil
}
