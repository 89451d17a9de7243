package database

import (
	"database/sql"
	"fmt"
	"log"
)

// RunMigrations checks and applies necessary schema updates
func RunMigrations(db *sql.DB) error {
	log.Println("Running database migrations...")

	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			email TEXT UNIQUE NOT NULL,
			password TEXT NOT NULL,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			role VARCHAR(30) NOT NULL DEFAULT 'admin',
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS session_years (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name TEXT UNIQUE NOT NULL,
			start_date DATE NOT NULL,
			end_date DATE NOT NULL,
			is_current BOOLEAN NOT NULL DEFAULT false,
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS students (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			admission_number TEXT UNIQUE NOT NULL,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			gender VARCHAR(10),
			date_of_birth DATE NOT NULL,
			class_id UUID NOT NULL,
			session_year_id UUID NOT NULL REFERENCES session_years(id),
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS sibling_links (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			student_id UUID NOT NULL REFERENCES students(id),
			sibling_student_id UUID NOT NULL REFERENCES students(id),
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ,
			UNIQUE (student_id, sibling_student_id)
		)`,
		`CREATE TABLE IF NOT EXISTS fee_structures (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			class_id UUID NOT NULL,
			session_year_id UUID NOT NULL REFERENCES session_years(id),
			annual_tuition NUMERIC(12,2) NOT NULL,
			admission_fee NUMERIC(12,2) NOT NULL DEFAULT 0,
			exam_fee NUMERIC(12,2) NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ,
			UNIQUE (class_id, session_year_id)
		)`,
		`CREATE TABLE IF NOT EXISTS fee_records (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			student_id UUID NOT NULL REFERENCES students(id),
			session_year_id UUID NOT NULL REFERENCES session_years(id),
			total_amount NUMERIC(12,2) NOT NULL DEFAULT 0,
			paid_amount NUMERIC(12,2) NOT NULL DEFAULT 0,
			balance_amount NUMERIC(12,2) NOT NULL DEFAULT 0,
			original_total_amount NUMERIC(12,2),
			has_sibling_waiver BOOLEAN NOT NULL DEFAULT false,
			sibling_waiver_percentage NUMERIC(5,2) NOT NULL DEFAULT 0,
			is_monthly_tracked BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ,
			UNIQUE (student_id, session_year_id)
		)`,
		`CREATE TABLE IF NOT EXISTS monthly_fee_tracking (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			student_id UUID NOT NULL REFERENCES students(id),
			session_year_id UUID NOT NULL REFERENCES session_years(id),
			academic_month INT NOT NULL,
			academic_year INT NOT NULL,
			month_name TEXT NOT NULL,
			monthly_amount NUMERIC(12,2) NOT NULL,
			original_monthly_amount NUMERIC(12,2),
			fee_waiver_percentage NUMERIC(5,2) NOT NULL DEFAULT 0,
			waiver_reason TEXT,
			paid_amount NUMERIC(12,2) NOT NULL DEFAULT 0,
			due_date DATE NOT NULL,
			payment_status VARCHAR(20) NOT NULL DEFAULT 'pending',
			late_fee NUMERIC(12,2) NOT NULL DEFAULT 0,
			discount_amount NUMERIC(12,2) NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (student_id, session_year_id, academic_month, academic_year)
		)`,
		`CREATE TABLE IF NOT EXISTS transport_enrollments (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			student_id UUID NOT NULL REFERENCES students(id),
			session_year_id UUID NOT NULL REFERENCES session_years(id),
			route_name TEXT NOT NULL,
			transport_type VARCHAR(30),
			monthly_fee NUMERIC(12,2) NOT NULL,
			enrollment_date DATE NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS transport_monthly_tracking (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			enrollment_id UUID NOT NULL REFERENCES transport_enrollments(id),
			student_id UUID NOT NULL REFERENCES students(id),
			session_year_id UUID NOT NULL REFERENCES session_years(id),
			academic_month INT NOT NULL,
			academic_year INT NOT NULL,
			month_name TEXT NOT NULL,
			monthly_amount NUMERIC(12,2) NOT NULL,
			is_service_enabled BOOLEAN NOT NULL DEFAULT true,
			paid_amount NUMERIC(12,2) NOT NULL DEFAULT 0,
			due_date DATE NOT NULL,
			payment_status VARCHAR(20) NOT NULL DEFAULT 'pending',
			late_fee NUMERIC(12,2) NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (student_id, session_year_id, academic_month, academic_year)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_monthly_fee_tracking_status
			ON monthly_fee_tracking (student_id, session_year_id, payment_status)`,
		`CREATE INDEX IF NOT EXISTS idx_transport_tracking_enrollment
			ON transport_monthly_tracking (enrollment_id)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %v", err)
		}
	}

	log.Println("Database migrations completed successfully")
	return nil
}
