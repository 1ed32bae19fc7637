package database

import (
	"errors"
	"log"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// InitDB opens the database connection and migrates the schema. A non-empty
// dsn selects Postgres; otherwise a local sqlite file is used so the app can
// run without any infrastructure.
func InitDB(dsn, sqlitePath string) *gorm.DB {
	var db *gorm.DB
	var err error

	if dsn != "" {
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	} else {
		if sqlitePath == "" {
			sqlitePath = "volunteer.db"
		}
		db, err = gorm.Open(sqlite.Open(sqlitePath), &gorm.Config{})
	}

	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	if err := Migrate(db); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}

	return db
}

// IsDuplicateKey sniffs unique-constraint violations across the postgres and
// sqlite drivers.
func IsDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}

// Migrate runs the gorm auto-migration for every table the app owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Volunteer{},
		&Program{},
		&Workshop{},
		&Opportunity{},
		&VolunteerSignup{},
		&ParticipantWorkshop{},
		&MasterUser{},
		&SyncRun{},
	)
}
