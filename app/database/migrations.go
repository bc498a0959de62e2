package database

import (
	"database/sql"
	"log"
)

// RunMigrations creates the schema and applies incremental updates.
func RunMigrations(db *sql.DB) error {
	log.Println("Running database migrations...")

	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto`,

		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			email VARCHAR(255) NOT NULL UNIQUE,
			password VARCHAR(255) NOT NULL,
			first_name VARCHAR(100) NOT NULL,
			last_name VARCHAR(100) NOT NULL,
			role VARCHAR(20) NOT NULL DEFAULT 'teacher',
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS sessions (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			expires_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS academic_years (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			year VARCHAR(20) NOT NULL UNIQUE,
			start_date DATE NOT NULL,
			end_date DATE NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT false,
			promotion_done BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS teachers (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			employee_id VARCHAR(50) NOT NULL UNIQUE,
			first_name VARCHAR(100) NOT NULL,
			last_name VARCHAR(100) NOT NULL,
			email VARCHAR(255) UNIQUE,
			phone VARCHAR(50),
			gender VARCHAR(10),
			qualification VARCHAR(255),
			subjects JSONB NOT NULL DEFAULT '[]',
			address JSONB NOT NULL DEFAULT '{}',
			joining_date DATE,
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS classes (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name VARCHAR(100) NOT NULL,
			section VARCHAR(10) NOT NULL,
			grade INT,
			academic_year_id UUID NOT NULL REFERENCES academic_years(id),
			class_teacher_id UUID REFERENCES teachers(id),
			subjects JSONB NOT NULL DEFAULT '[]',
			capacity INT NOT NULL DEFAULT 40,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (name, section, academic_year_id)
		)`,

		`CREATE TABLE IF NOT EXISTS students (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			admission_number VARCHAR(50) NOT NULL UNIQUE,
			first_name VARCHAR(100) NOT NULL,
			last_name VARCHAR(100) NOT NULL,
			date_of_birth DATE NOT NULL,
			gender VARCHAR(10) NOT NULL,
			email VARCHAR(255) UNIQUE,
			phone VARCHAR(50),
			blood_group VARCHAR(5),
			address JSONB NOT NULL DEFAULT '{}',
			father JSONB NOT NULL DEFAULT '{}',
			mother JSONB NOT NULL DEFAULT '{}',
			guardian JSONB NOT NULL DEFAULT '{}',
			current_class_id UUID REFERENCES classes(id),
			current_academic_year_id UUID REFERENCES academic_years(id),
			roll_number INT,
			admission_date DATE NOT NULL,
			status VARCHAR(10) NOT NULL DEFAULT 'active',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS fee_configurations (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			academic_year_id UUID NOT NULL REFERENCES academic_years(id),
			class_id UUID NOT NULL REFERENCES classes(id),
			fee_structure JSONB NOT NULL DEFAULT '{}',
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (academic_year_id, class_id)
		)`,

		`CREATE TABLE IF NOT EXISTS fee_installments (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			student_id UUID NOT NULL REFERENCES students(id),
			academic_year_id UUID NOT NULL REFERENCES academic_years(id),
			class_id UUID NOT NULL REFERENCES classes(id),
			fee_type VARCHAR(20) NOT NULL,
			fee_name VARCHAR(255) NOT NULL,
			month VARCHAR(10),
			term VARCHAR(100),
			amount NUMERIC(12,2) NOT NULL,
			discount NUMERIC(12,2) NOT NULL DEFAULT 0,
			discount_reason TEXT,
			paid_amount NUMERIC(12,2) NOT NULL DEFAULT 0,
			balance NUMERIC(12,2) NOT NULL DEFAULT 0,
			due_date DATE NOT NULL,
			status VARCHAR(10) NOT NULL DEFAULT 'pending',
			is_skipped BOOLEAN NOT NULL DEFAULT false,
			skipped_reason TEXT,
			skipped_date TIMESTAMPTZ,
			payment_method VARCHAR(20),
			payment_date TIMESTAMPTZ,
			transaction_id VARCHAR(100),
			receipt_number VARCHAR(100),
			receipt_image TEXT,
			remarks TEXT,
			processed_by UUID REFERENCES users(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_fee_installments_student_year
			ON fee_installments (student_id, academic_year_id)`,
		`CREATE INDEX IF NOT EXISTS idx_fee_installments_status
			ON fee_installments (status)`,

		`CREATE TABLE IF NOT EXISTS fee_payments (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			installment_id UUID NOT NULL REFERENCES fee_installments(id) ON DELETE CASCADE,
			amount NUMERIC(12,2) NOT NULL,
			method VARCHAR(20) NOT NULL,
			payment_date TIMESTAMPTZ NOT NULL,
			transaction_id VARCHAR(100),
			receipt_number VARCHAR(100) NOT NULL,
			remarks TEXT,
			processed_by UUID REFERENCES users(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS attendance (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			student_id UUID NOT NULL REFERENCES students(id),
			class_id UUID NOT NULL REFERENCES classes(id),
			academic_year_id UUID NOT NULL REFERENCES academic_years(id),
			date DATE NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'present',
			marked_by UUID NOT NULL REFERENCES users(id),
			remarks TEXT,
			month INT NOT NULL,
			year INT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (student_id, date)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_attendance_class_date
			ON attendance (class_id, date)`,
		`CREATE INDEX IF NOT EXISTS idx_attendance_monthly
			ON attendance (student_id, month, year, academic_year_id)`,

		`CREATE TABLE IF NOT EXISTS report_cards (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			student_id UUID NOT NULL REFERENCES students(id),
			academic_year_id UUID NOT NULL REFERENCES academic_years(id),
			class_id UUID NOT NULL REFERENCES classes(id),
			exam_type VARCHAR(20) NOT NULL,
			term VARCHAR(100),
			subjects JSONB NOT NULL DEFAULT '[]',
			total_marks NUMERIC(10,2) NOT NULL DEFAULT 0,
			max_total NUMERIC(10,2) NOT NULL DEFAULT 0,
			percentage NUMERIC(5,2) NOT NULL DEFAULT 0,
			grade VARCHAR(5),
			rank INT,
			remarks TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (student_id, academic_year_id, exam_type)
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			log.Printf("Migration failed: %v", err)
			return err
		}
	}

	log.Println("Database migrations completed successfully")
	return nil
}
