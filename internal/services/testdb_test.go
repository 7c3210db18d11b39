package services

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/calculoss/career-pathway-explorer-sub000/internal/logger"
)

// Table DDL is written out by hand because the production models carry
// postgres-only defaults that sqlite cannot parse.
var testSchema = []string{
	`CREATE TABLE household (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		family_name TEXT NOT NULL,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	)`,
	`CREATE TABLE student (
		id TEXT PRIMARY KEY,
		household_id TEXT NOT NULL,
		name TEXT NOT NULL,
		year_level INTEGER NOT NULL DEFAULT 0,
		interests TEXT,
		goals TEXT,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	)`,
	`CREATE TABLE lms_account (
		id TEXT PRIMARY KEY,
		student_id TEXT NOT NULL UNIQUE,
		base_url TEXT NOT NULL,
		api_token TEXT NOT NULL,
		last_synced_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE course (
		id TEXT PRIMARY KEY,
		student_id TEXT NOT NULL,
		lms_course_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		code TEXT,
		created_at DATETIME,
		updated_at DATETIME,
		UNIQUE (student_id, lms_course_id)
	)`,
	`CREATE TABLE assignment (
		id TEXT PRIMARY KEY,
		student_id TEXT NOT NULL,
		course_id TEXT NOT NULL,
		lms_assignment_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		course_name TEXT,
		due_at DATETIME,
		points REAL NOT NULL DEFAULT 0,
		description TEXT,
		is_quiz BOOLEAN NOT NULL DEFAULT 0,
		created_at DATETIME,
		updated_at DATETIME,
		UNIQUE (student_id, lms_assignment_id)
	)`,
	`CREATE TABLE milestone (
		id TEXT PRIMARY KEY,
		student_id TEXT NOT NULL,
		assignment_id TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT,
		phase TEXT,
		target_date DATETIME NOT NULL,
		estimated_hours REAL NOT NULL DEFAULT 0,
		completed BOOLEAN NOT NULL DEFAULT 0,
		completed_at DATETIME,
		position INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE generation_log (
		id TEXT PRIMARY KEY,
		student_id TEXT NOT NULL,
		assignment_id TEXT NOT NULL,
		success BOOLEAN NOT NULL,
		error TEXT,
		milestone_count INTEGER NOT NULL DEFAULT 0,
		model TEXT,
		created_at DATETIME
	)`,
	`CREATE TABLE career_message (
		id TEXT PRIMARY KEY,
		student_id TEXT NOT NULL,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at DATETIME
	)`,
	`CREATE TABLE career_field (
		id TEXT PRIMARY KEY,
		slug TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL,
		median_pay REAL NOT NULL DEFAULT 0,
		outlook_growth REAL NOT NULL DEFAULT 0,
		openings_per_year INTEGER NOT NULL DEFAULT 0,
		education_level TEXT,
		summary TEXT,
		fetched_at DATETIME NOT NULL,
		created_at DATETIME,
		updated_at DATETIME
	)`,
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	for _, ddl := range testSchema {
		if err := db.Exec(ddl).Error; err != nil {
			t.Fatalf("create table: %v", err)
		}
	}
	return db
}

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}
