package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'contract_status') THEN
			CREATE TYPE contract_status AS ENUM (
				'NEGOTIATING', 'ACTIVE',
				'EMPLOYER_REQUESTS_REVISION', 'FREELANCER_REQUESTS_REVISION',
				'EMPLOYER_REQUESTS_TERMINATION', 'FREELANCER_REQUESTS_TERMINATION',
				'FREELANCER_REQUESTS_ACCEPTANCE', 'COMPLETED', 'TERMINATED'
			);
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'project_status') THEN
			CREATE TYPE project_status AS ENUM ('RECRUITING', 'CLOSED', 'STAFFED');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'user_role') THEN
			CREATE TYPE user_role AS ENUM ('EMPLOYER', 'FREELANCER', 'ADMIN');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		email VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		role user_role NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE
	);`,
	`CREATE TABLE IF NOT EXISTS projects (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		employer_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		title VARCHAR(255) NOT NULL,
		description TEXT NOT NULL,
		status project_status NOT NULL DEFAULT 'RECRUITING',
		work_type VARCHAR(32),
		location VARCHAR(255),
		budget_min NUMERIC(10,2),
		budget_max NUMERIC(10,2),
		proposals_deadline TIMESTAMPTZ,
		completion_deadline TIMESTAMPTZ,
		required_people INT NOT NULL DEFAULT 1,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_projects_employer_id ON projects (employer_id);`,
	`CREATE TABLE IF NOT EXISTS proposals (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		project_id UUID NOT NULL REFERENCES projects(id),
		freelancer_id UUID NOT NULL REFERENCES users(id),
		brief_description TEXT,
		attachment_url VARCHAR(500),
		status VARCHAR(32) NOT NULL DEFAULT 'SUBMITTED',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_proposals_project_id ON proposals (project_id);`,
	`CREATE INDEX IF NOT EXISTS idx_proposals_freelancer_id ON proposals (freelancer_id);`,
	`CREATE TABLE IF NOT EXISTS contracts (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		project_id UUID NOT NULL REFERENCES projects(id) ON DELETE RESTRICT,
		proposal_id UUID NOT NULL REFERENCES proposals(id) ON DELETE RESTRICT,
		employer_id UUID NOT NULL REFERENCES users(id) ON DELETE RESTRICT,
		freelancer_id UUID NOT NULL REFERENCES users(id) ON DELETE RESTRICT,
		title VARCHAR(255) NOT NULL,
		content TEXT NOT NULL,
		amount NUMERIC(10,2) NOT NULL,
		start_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		end_date TIMESTAMPTZ NOT NULL,
		status contract_status NOT NULL DEFAULT 'NEGOTIATING',
		version INT NOT NULL DEFAULT 1,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_contracts_proposal_id ON contracts (proposal_id);`,
	`CREATE INDEX IF NOT EXISTS idx_contracts_project_id ON contracts (project_id);`,
	`CREATE INDEX IF NOT EXISTS idx_contracts_employer_id ON contracts (employer_id);`,
	`CREATE INDEX IF NOT EXISTS idx_contracts_freelancer_id ON contracts (freelancer_id);`,
	`CREATE INDEX IF NOT EXISTS idx_contracts_status ON contracts (status);`,
	`CREATE TABLE IF NOT EXISTS notifications (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		title VARCHAR(255) NOT NULL,
		message TEXT,
		link_url VARCHAR(500),
		is_read BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_user_id ON notifications (user_id);`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_user_unread ON notifications (user_id) WHERE NOT is_read;`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
