package seed

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// batchSize keeps each multi-row insert well under PostgreSQL's bind parameter limit.
const batchSize = 500

// seedTables lists every table the seed replaces, parents first.
var seedTables = []string{
	"users", "academic_years", "curricula", "subjects", "teacher_profiles", "subject_teacher",
	"child_profiles", "program_enrollments", "subject_enrollments", "sessions", "attendances",
	"exams", "exam_results", "invoices", "payments",
}

type insertStep struct {
	table  string
	insert func(ctx context.Context, tx *sqlx.Tx) (int, error)
	// serial is false for tables without a BIGSERIAL id.
	serial bool
}

// Writer persists a dataset.
type Writer struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewWriter constructs a writer.
func NewWriter(db *sqlx.DB, logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{db: db, logger: logger}
}

// Write replaces every seeded table with the dataset inside one transaction and advances the id
// sequences past the inserted ids.
func (w *Writer) Write(ctx context.Context, data *Dataset) error {
	tx, err := w.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	if err := w.write(ctx, tx, data); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	return nil
}

func (w *Writer) write(ctx context.Context, tx *sqlx.Tx, data *Dataset) error {
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("TRUNCATE %s RESTART IDENTITY CASCADE", strings.Join(seedTables, ", "))); err != nil {
		return fmt.Errorf("truncate seed tables: %w", err)
	}

	for _, step := range insertSteps(data) {
		count, err := step.insert(ctx, tx)
		if err != nil {
			return fmt.Errorf("insert %s: %w", step.table, err)
		}
		if count == 0 {
			continue
		}
		if step.serial {
			resync := fmt.Sprintf("SELECT setval(pg_get_serial_sequence('%s', 'id'), (SELECT MAX(id) FROM %s))", step.table, step.table)
			if _, err := tx.ExecContext(ctx, resync); err != nil {
				return fmt.Errorf("reset %s sequence: %w", step.table, err)
			}
		}
		w.logger.Info("seeded table", zap.String("table", step.table), zap.Int("rows", count))
	}
	return nil
}

func insertSteps(data *Dataset) []insertStep {
	return []insertStep{
		{table: "users", serial: true, insert: batches(data.Users,
			`INSERT INTO users (id, name, email, password, created_at) VALUES (:id, :name, :email, :password, :created_at)`)},
		{table: "academic_years", serial: true, insert: batches(data.AcademicYears,
			`INSERT INTO academic_years (id, name, start_date, end_date, is_current) VALUES (:id, :name, :start_date, :end_date, :is_current)`)},
		{table: "curricula", serial: true, insert: batches(data.Curricula,
			`INSERT INTO curricula (id, name, code) VALUES (:id, :name, :code)`)},
		{table: "subjects", serial: true, insert: batches(data.Subjects,
			`INSERT INTO subjects (id, name, code, curriculum_id, level) VALUES (:id, :name, :code, :curriculum_id, :level)`)},
		{table: "teacher_profiles", serial: true, insert: batches(data.TeacherProfiles,
			`INSERT INTO teacher_profiles (id, user_id, specialization, phone, bio, department, qualification, experience_years)
				VALUES (:id, :user_id, :specialization, :phone, :bio, :department, :qualification, :experience_years)`)},
		{table: "subject_teacher", insert: batches(data.SubjectTeachers,
			`INSERT INTO subject_teacher (subject_id, teacher_profile_id) VALUES (:subject_id, :teacher_profile_id)`)},
		{table: "child_profiles", serial: true, insert: batches(data.Children,
			`INSERT INTO child_profiles (id, first_name, last_name, date_of_birth, gender) VALUES (:id, :first_name, :last_name, :date_of_birth, :gender)`)},
		{table: "program_enrollments", serial: true, insert: batches(data.ProgramEnrollments,
			`INSERT INTO program_enrollments (id, child_profile_id, curriculum_id, academic_year_id, status, payment_plan_id, created_at)
				VALUES (:id, :child_profile_id, :curriculum_id, :academic_year_id, :status, :payment_plan_id, :created_at)`)},
		{table: "subject_enrollments", serial: true, insert: batches(data.SubjectEnrollments,
			`INSERT INTO subject_enrollments (id, program_enrollment_id, subject_id) VALUES (:id, :program_enrollment_id, :subject_id)`)},
		{table: "sessions", serial: true, insert: batches(data.Sessions,
			`INSERT INTO sessions (id, subject_id, teacher_profile_id, room_id, start_time, end_time, type, link)
				VALUES (:id, :subject_id, :teacher_profile_id, :room_id, :start_time, :end_time, :type, :link)`)},
		{table: "attendances", serial: true, insert: batches(data.Attendances,
			`INSERT INTO attendances (id, session_id, child_profile_id, status, remarks) VALUES (:id, :session_id, :child_profile_id, :status, :remarks)`)},
		{table: "exams", serial: true, insert: batches(data.Exams,
			`INSERT INTO exams (id, subject_id, teacher_profile_id, academic_year_id, title, exam_date, type)
				VALUES (:id, :subject_id, :teacher_profile_id, :academic_year_id, :title, :exam_date, :type)`)},
		{table: "exam_results", serial: true, insert: batches(data.ExamResults,
			`INSERT INTO exam_results (id, exam_id, child_profile_id, score, remarks) VALUES (:id, :exam_id, :child_profile_id, :score, :remarks)`)},
		{table: "invoices", serial: true, insert: batches(data.Invoices,
			`INSERT INTO invoices (id, invoice_number, amount, invoice_date, due_date, paid_date, status, child_profile_id, academic_year_id, curriculum_id, program_enrollment_id)
				VALUES (:id, :invoice_number, :amount, :invoice_date, :due_date, :paid_date, :status, :child_profile_id, :academic_year_id, :curriculum_id, :program_enrollment_id)`)},
		{table: "payments", serial: true, insert: batches(data.Payments,
			`INSERT INTO payments (id, amount, payment_date, due_date, status, payment_method, invoice_id, child_profile_id, academic_year_id, curriculum_id)
				VALUES (:id, :amount, :payment_date, :due_date, :status, :payment_method, :invoice_id, :child_profile_id, :academic_year_id, :curriculum_id)`)},
	}
}

// batches returns an insert that runs the named multi-row query once per batch of rows.
func batches[T any](rows []T, query string) func(ctx context.Context, tx *sqlx.Tx) (int, error) {
	return func(ctx context.Context, tx *sqlx.Tx) (int, error) {
		for start := 0; start < len(rows); start += batchSize {
			end := start + batchSize
			if end > len(rows) {
				end = len(rows)
			}
			if _, err := tx.NamedExecContext(ctx, query, rows[start:end]); err != nil {
				return 0, err
			}
		}
		return len(rows), nil
	}
}
