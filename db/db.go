package db

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

func InitSQLite(databaseName string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite3", databaseName+"?_foreign_keys=1")
	if err != nil {
		return nil, err
	}

	var enabled int
	err = conn.QueryRow("PRAGMA foreign_keys").Scan(&enabled)
	if err != nil {
		return nil, fmt.Errorf("error checking foreign keys: %v", err)
	}
	if enabled != 1 {
		return nil, fmt.Errorf("foreign keys are not enabled")
	}

	// The answer append relies on the JSON1 functions
	var probe string
	err = conn.QueryRow(`SELECT json_insert('[]', '$[#]', 1)`).Scan(&probe)
	if err != nil {
		return nil, fmt.Errorf("sqlite build is missing JSON1 support: %v", err)
	}

	return conn, nil
}

func CloseDB(databaseInstance *sql.DB) {
	if databaseInstance != nil {
		databaseInstance.Close()
		fmt.Println("Database connection closed")
	}
}
