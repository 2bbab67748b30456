package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schemaStatements creates the tables the reporting layer reads. Every statement is idempotent.
var schemaStatements = []struct {
	name string
	sql  string
}{
	{"users", `CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL UNIQUE,
		password VARCHAR(255) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`},
	{"academic_years", `CREATE TABLE IF NOT EXISTS academic_years (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		start_date DATE NOT NULL,
		end_date DATE NOT NULL,
		is_current BOOLEAN NOT NULL DEFAULT FALSE
	)`},
	{"curricula", `CREATE TABLE IF NOT EXISTS curricula (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		code VARCHAR(50) NOT NULL UNIQUE
	)`},
	{"subjects", `CREATE TABLE IF NOT EXISTS subjects (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		code VARCHAR(50) NOT NULL UNIQUE,
		curriculum_id BIGINT REFERENCES curricula(id) ON DELETE SET NULL,
		level VARCHAR(50) NOT NULL DEFAULT ''
	)`},
	{"teacher_profiles", `CREATE TABLE IF NOT EXISTS teacher_profiles (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT REFERENCES users(id) ON DELETE SET NULL,
		specialization VARCHAR(255) NOT NULL DEFAULT '',
		phone VARCHAR(50) NOT NULL DEFAULT '',
		bio TEXT NOT NULL DEFAULT '',
		department VARCHAR(255) NOT NULL DEFAULT '',
		qualification VARCHAR(255) NOT NULL DEFAULT '',
		experience_years INT NOT NULL DEFAULT 0
	)`},
	{"subject_teacher", `CREATE TABLE IF NOT EXISTS subject_teacher (
		subject_id BIGINT NOT NULL REFERENCES subjects(id) ON DELETE CASCADE,
		teacher_profile_id BIGINT NOT NULL REFERENCES teacher_profiles(id) ON DELETE CASCADE,
		PRIMARY KEY (subject_id, teacher_profile_id)
	)`},
	{"child_profiles", `CREATE TABLE IF NOT EXISTS child_profiles (
		id BIGSERIAL PRIMARY KEY,
		first_name VARCHAR(100) NOT NULL,
		last_name VARCHAR(100) NOT NULL,
		date_of_birth DATE,
		gender VARCHAR(20) NOT NULL DEFAULT ''
	)`},
	{"program_enrollments", `CREATE TABLE IF NOT EXISTS program_enrollments (
		id BIGSERIAL PRIMARY KEY,
		child_profile_id BIGINT NOT NULL REFERENCES child_profiles(id) ON DELETE CASCADE,
		curriculum_id BIGINT REFERENCES curricula(id) ON DELETE SET NULL,
		academic_year_id BIGINT REFERENCES academic_years(id) ON DELETE SET NULL,
		status VARCHAR(20) NOT NULL,
		payment_plan_id BIGINT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`},
	{"subject_enrollments", `CREATE TABLE IF NOT EXISTS subject_enrollments (
		id BIGSERIAL PRIMARY KEY,
		program_enrollment_id BIGINT NOT NULL REFERENCES program_enrollments(id) ON DELETE CASCADE,
		subject_id BIGINT REFERENCES subjects(id) ON DELETE SET NULL
	)`},
	{"sessions", `CREATE TABLE IF NOT EXISTS sessions (
		id BIGSERIAL PRIMARY KEY,
		subject_id BIGINT REFERENCES subjects(id) ON DELETE SET NULL,
		teacher_profile_id BIGINT REFERENCES teacher_profiles(id) ON DELETE SET NULL,
		room_id BIGINT,
		start_time TIMESTAMPTZ NOT NULL,
		end_time TIMESTAMPTZ NOT NULL,
		type VARCHAR(20) NOT NULL,
		link TEXT NOT NULL DEFAULT ''
	)`},
	{"attendances", `CREATE TABLE IF NOT EXISTS attendances (
		id BIGSERIAL PRIMARY KEY,
		session_id BIGINT,
		child_profile_id BIGINT,
		status VARCHAR(20) NOT NULL,
		remarks TEXT NOT NULL DEFAULT '',
		UNIQUE (session_id, child_profile_id)
	)`},
	{"exams", `CREATE TABLE IF NOT EXISTS exams (
		id BIGSERIAL PRIMARY KEY,
		subject_id BIGINT REFERENCES subjects(id) ON DELETE SET NULL,
		teacher_profile_id BIGINT REFERENCES teacher_profiles(id) ON DELETE SET NULL,
		academic_year_id BIGINT REFERENCES academic_years(id) ON DELETE SET NULL,
		title VARCHAR(255) NOT NULL,
		exam_date DATE NOT NULL,
		type VARCHAR(20) NOT NULL
	)`},
	{"exam_results", `CREATE TABLE IF NOT EXISTS exam_results (
		id BIGSERIAL PRIMARY KEY,
		exam_id BIGINT,
		child_profile_id BIGINT,
		score NUMERIC(5,2) NOT NULL,
		remarks TEXT NOT NULL DEFAULT '',
		UNIQUE (exam_id, child_profile_id)
	)`},
	{"invoices", `CREATE TABLE IF NOT EXISTS invoices (
		id BIGSERIAL PRIMARY KEY,
		invoice_number VARCHAR(50) NOT NULL UNIQUE,
		amount NUMERIC(12,2) NOT NULL,
		invoice_date DATE NOT NULL,
		due_date DATE NOT NULL,
		paid_date DATE,
		status VARCHAR(20) NOT NULL,
		child_profile_id BIGINT,
		academic_year_id BIGINT,
		curriculum_id BIGINT,
		program_enrollment_id BIGINT
	)`},
	{"payments", `CREATE TABLE IF NOT EXISTS payments (
		id BIGSERIAL PRIMARY KEY,
		amount NUMERIC(12,2) NOT NULL,
		payment_date DATE NOT NULL,
		due_date DATE,
		status VARCHAR(20) NOT NULL,
		payment_method VARCHAR(50) NOT NULL DEFAULT '',
		invoice_id BIGINT,
		child_profile_id BIGINT,
		academic_year_id BIGINT,
		curriculum_id BIGINT
	)`},
	{"idx_sessions_start_time", `CREATE INDEX IF NOT EXISTS idx_sessions_start_time ON sessions (start_time)`},
	{"idx_payments_payment_date", `CREATE INDEX IF NOT EXISTS idx_payments_payment_date ON payments (payment_date)`},
	{"idx_program_enrollments_child", `CREATE INDEX IF NOT EXISTS idx_program_enrollments_child ON program_enrollments (child_profile_id)`},
}

// Migrate applies the schema inside a single transaction.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	for _, stmt := range schemaStatements {
		if _, err := tx.ExecContext(ctx, stmt.sql); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migrate %s: %w", stmt.name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration: %w", err)
	}
	return nil
}
