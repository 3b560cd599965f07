package database

import (
	"fmt"
	"log"

	"github.com/killallgit/transcribe-relay/internal/models"
)

// TableStatus reports whether a model's table exists
type TableStatus struct {
	Table   string
	Applied bool
}

// Models returns every model managed by the relay's schema
func Models() []any {
	return []any{
		&models.TranscriptionJob{},
	}
}

// Migrate creates or updates the schema for every managed model
func (db *DB) Migrate() error {
	return db.AutoMigrate(Models()...)
}

// Rollback drops the tables of the managed models
func (db *DB) Rollback() error {
	for _, m := range Models() {
		if !db.Migrator().HasTable(m) {
			continue
		}
		if err := db.Migrator().DropTable(m); err != nil {
			return fmt.Errorf("failed to drop table: %w", err)
		}
	}
	log.Printf("[INFO] Dropped %d model table(s)", len(Models()))
	return nil
}

// Status lists each managed table and whether it has been created
func (db *DB) Status() ([]TableStatus, error) {
	statuses := make([]TableStatus, 0, len(Models()))
	for _, m := range Models() {
		stmt := db.Model(m).Statement
		if err := stmt.Parse(m); err != nil {
			return nil, fmt.Errorf("failed to parse model: %w", err)
		}
		statuses = append(statuses, TableStatus{
			Table:   stmt.Schema.Table,
			Applied: db.Migrator().HasTable(m),
		})
	}
	return statuses, nil
}
