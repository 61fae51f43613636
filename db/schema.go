// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
// The DDL sticks to types both SQLite and Postgres accept, and timestamps
// are always supplied by the application rather than column defaults.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Surveys
CREATE TABLE IF NOT EXISTS surveys (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    welcome_message TEXT NOT NULL DEFAULT '',
    thank_you_message TEXT NOT NULL DEFAULT '',
    survey_type TEXT NOT NULL CHECK (survey_type IN ('internal', 'external')),
    client_name TEXT NOT NULL DEFAULT '',
    duration_type TEXT NOT NULL DEFAULT 'unlimited' CHECK (duration_type IN ('limited', 'unlimited')),
    start_date TIMESTAMP,
    end_date TIMESTAMP,
    status TEXT NOT NULL DEFAULT 'draft'
        CHECK (status IN ('draft', 'active', 'paused', 'closed', 'expired', 'deleted')),
    unique_slug TEXT NOT NULL UNIQUE,
    has_password BOOLEAN NOT NULL DEFAULT FALSE,
    password_hash TEXT,
    max_responses INTEGER,
    is_anonymous BOOLEAN NOT NULL DEFAULT FALSE,
    allow_multiple BOOLEAN NOT NULL DEFAULT FALSE,
    allow_editing BOOLEAN NOT NULL DEFAULT FALSE,
    show_progress_bar BOOLEAN NOT NULL DEFAULT TRUE,
    track_ip BOOLEAN NOT NULL DEFAULT FALSE,
    track_location BOOLEAN NOT NULL DEFAULT FALSE,
    redirect_url TEXT NOT NULL DEFAULT '',
    total_responses INTEGER NOT NULL DEFAULT 0,
    completed_responses INTEGER NOT NULL DEFAULT 0,
    total_views INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL,
    published_at TIMESTAMP,
    closed_at TIMESTAMP,
    CHECK (completed_responses <= total_responses)
);

CREATE INDEX IF NOT EXISTS idx_surveys_status ON surveys(status);
CREATE INDEX IF NOT EXISTS idx_surveys_type ON surveys(survey_type);

-- Questions
CREATE TABLE IF NOT EXISTS survey_questions (
    id TEXT PRIMARY KEY,
    survey_id TEXT NOT NULL REFERENCES surveys(id) ON DELETE CASCADE,
    question_type TEXT NOT NULL,
    question_text TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    is_required BOOLEAN NOT NULL DEFAULT FALSE,
    order_index INTEGER NOT NULL,
    validation_rules TEXT NOT NULL DEFAULT '{}',
    options TEXT NOT NULL DEFAULT '{}',
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_survey_questions_survey ON survey_questions(survey_id, order_index);

-- Target employees (internal surveys)
CREATE TABLE IF NOT EXISTS survey_target_employees (
    survey_id TEXT NOT NULL REFERENCES surveys(id) ON DELETE CASCADE,
    employee_id TEXT NOT NULL,
    employee_name TEXT NOT NULL DEFAULT '',
    employee_email TEXT NOT NULL DEFAULT '',
    has_responded BOOLEAN NOT NULL DEFAULT FALSE,
    responded_at TIMESTAMP,
    created_at TIMESTAMP NOT NULL,
    PRIMARY KEY (survey_id, employee_id)
);

CREATE INDEX IF NOT EXISTS idx_target_employees_employee ON survey_target_employees(employee_id);

-- Responses
CREATE TABLE IF NOT EXISTS survey_responses (
    id TEXT PRIMARY KEY,
    survey_id TEXT NOT NULL REFERENCES surveys(id) ON DELETE CASCADE,
    employee_id TEXT,
    respondent_name TEXT,
    respondent_email TEXT,
    respondent_phone TEXT,
    status TEXT NOT NULL DEFAULT 'in_progress' CHECK (status IN ('in_progress', 'completed')),
    started_at TIMESTAMP NOT NULL,
    completed_at TIMESTAMP,
    duration_seconds INTEGER,
    ip_hash TEXT,
    user_agent TEXT,
    device_type TEXT,
    browser TEXT,
    os TEXT,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_survey_responses_survey ON survey_responses(survey_id, status);
CREATE INDEX IF NOT EXISTS idx_survey_responses_employee ON survey_responses(survey_id, employee_id);
CREATE INDEX IF NOT EXISTS idx_survey_responses_email ON survey_responses(survey_id, respondent_email);

-- Answers
CREATE TABLE IF NOT EXISTS survey_answers (
    id TEXT PRIMARY KEY,
    response_id TEXT NOT NULL REFERENCES survey_responses(id) ON DELETE CASCADE,
    question_id TEXT NOT NULL REFERENCES survey_questions(id) ON DELETE CASCADE,
    value_kind TEXT NOT NULL CHECK (value_kind IN ('text', 'number', 'boolean', 'date', 'time', 'json')),
    answer_text TEXT,
    answer_number DOUBLE PRECISION,
    answer_boolean BOOLEAN,
    answer_date TEXT,
    answer_time TEXT,
    answer_json TEXT,
    created_at TIMESTAMP NOT NULL,
    UNIQUE (response_id, question_id)
);

CREATE INDEX IF NOT EXISTS idx_survey_answers_question ON survey_answers(question_id);
`
