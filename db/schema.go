package db

import (
	"database/sql"
	"fmt"
)

func EnsureSchema(conn *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			username TEXT PRIMARY KEY,
			password TEXT NOT NULL,
			email TEXT DEFAULT '',
			fullname TEXT DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS posts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL,
			content TEXT NOT NULL,
			timestamp TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS requests (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL,
			anliegen TEXT NOT NULL,
			adresse TEXT NOT NULL,
			telefon TEXT NOT NULL,
			name TEXT NOT NULL,
			datumzeit TEXT NOT NULL,
			beschreibung TEXT NOT NULL,
			timestamp TEXT NOT NULL,
			answers TEXT NOT NULL DEFAULT '[]'
		)`,
		`CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL,
			title TEXT NOT NULL,
			start_time TEXT NOT NULL,
			end_time TEXT NOT NULL,
			recurring INTEGER NOT NULL DEFAULT 0,
			recurring_type TEXT NOT NULL DEFAULT 'none',
			created TEXT NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := conn.Exec(stmt); err != nil {
			return fmt.Errorf("schema exec failed: %w", err)
		}
	}

	return nil
}
