// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens connections and creates the database schema.

# Drivers

Two engines are supported, selected by DATABASE_TYPE:

	dialect, _ := db.ParseDialect("sqlite")       // modernc.org/sqlite (default)
	conn, err := db.Open(dialect, "survey.db")

	dialect, _ := db.ParseDialect("postgres")     // github.com/lib/pq
	conn, err := db.Open(dialect, "postgres://...")

SQLite connections get foreign keys and a busy timeout via DSN pragmas and
are limited to one open connection.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - surveys: metadata, flags, lifecycle state, derived counters
  - survey_questions: ordered questions; rules and options stored as JSON text
  - survey_target_employees: employees an internal survey is sent to
  - survey_responses: one row per submission
  - survey_answers: one tagged value per (response, question)

# Relationships

	surveys 1──* survey_questions
	surveys 1──* survey_target_employees
	surveys 1──* survey_responses
	survey_responses 1──* survey_answers
	survey_questions 1──* survey_answers

All foreign keys use ON DELETE CASCADE. Surveys themselves are soft
deleted, so cascades only fire for responses and questions.

# Answer Storage

survey_answers.value_kind records which answer_* column holds the value.
Readers switch on it and never guess from which column is non-null.

# Errors

IsUniqueViolation recognizes unique-constraint failures from both drivers.
*/
package db
