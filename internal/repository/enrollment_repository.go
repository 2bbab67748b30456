package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/tutoring-reports-api/internal/models"
)

// EnrollmentRepository loads program enrollments with their subject fan-out.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository instantiates the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// ListByStudents returns the enrollment history of each requested child keyed by child id.
// Children without enrollments are absent from the map.
func (r *EnrollmentRepository) ListByStudents(ctx context.Context, studentIDs []int64) (map[int64]models.Enrollments, error) {
	result := make(map[int64]models.Enrollments)
	if len(studentIDs) == 0 {
		return result, nil
	}

	const enrollmentQuery = `SELECT pe.id, pe.child_profile_id, pe.curriculum_id, pe.academic_year_id, pe.status,
		pe.payment_plan_id, pe.created_at, cu.name AS curriculum_name, ay.name AS academic_year_name
		FROM program_enrollments pe
		LEFT JOIN curricula cu ON cu.id = pe.curriculum_id
		LEFT JOIN academic_years ay ON ay.id = pe.academic_year_id
		WHERE pe.child_profile_id = ANY($1)
		ORDER BY pe.child_profile_id, pe.created_at, pe.id`
	var enrollments []models.EnrollmentDetail
	if err := r.db.SelectContext(ctx, &enrollments, enrollmentQuery, pq.Array(studentIDs)); err != nil {
		return nil, fmt.Errorf("list program enrollments: %w", err)
	}
	if len(enrollments) == 0 {
		return result, nil
	}

	enrollmentIDs := make([]int64, len(enrollments))
	for i, enrollment := range enrollments {
		enrollmentIDs[i] = enrollment.ID
	}

	const subjectQuery = `SELECT se.id, se.program_enrollment_id, se.subject_id, sub.name AS subject_name
		FROM subject_enrollments se
		LEFT JOIN subjects sub ON sub.id = se.subject_id
		WHERE se.program_enrollment_id = ANY($1)
		ORDER BY se.program_enrollment_id, se.id`
	var subjects []models.SubjectEnrollmentDetail
	if err := r.db.SelectContext(ctx, &subjects, subjectQuery, pq.Array(enrollmentIDs)); err != nil {
		return nil, fmt.Errorf("list subject enrollments: %w", err)
	}

	byEnrollment := make(map[int64][]models.SubjectEnrollmentDetail, len(enrollments))
	for _, subject := range subjects {
		byEnrollment[subject.ProgramEnrollmentID] = append(byEnrollment[subject.ProgramEnrollmentID], subject)
	}
	for _, enrollment := range enrollments {
		enrollment.Subjects = byEnrollment[enrollment.ID]
		result[enrollment.ChildProfileID] = append(result[enrollment.ChildProfileID], enrollment)
	}
	return result, nil
}
