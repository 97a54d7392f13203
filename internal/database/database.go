package database

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/manuscript/internal/entities"
	"github.com/mrlokans/manuscript/internal/logging"
)

// Connection parameters for mattn/go-sqlite3. Immediate transactions take the
// write lock up front, so multi-row reads inside a transaction see one state.
const sqliteParams = "_journal_mode=WAL&_busy_timeout=5000&_txlock=immediate&_foreign_keys=on"

// Models lists every table managed by the application, in migration order.
var Models = []interface{}{
	&entities.Chapter{},
	&entities.Source{},
	&entities.Version{},
	&entities.Quote{},
	&entities.Setting{},
	&entities.WritingSession{},
}

type Database struct {
	DB *gorm.DB
}

// NewDatabase opens the store, migrates the schema and seeds default settings.
// It runs once at startup, before any request is served.
func NewDatabase(dbPath string, log *logging.Logger) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(DSN(dbPath)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		// Timestamps are compared as text by SQLite, so they are always written in UTC.
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(Models...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	database := &Database{DB: db}

	if err := database.seedSettings(); err != nil {
		return nil, fmt.Errorf("failed to seed settings: %w", err)
	}

	log.Info("Database initialized", "path", dbPath)

	return database, nil
}

// DSN appends the connection parameters to a file path.
func DSN(dbPath string) string {
	sep := "?"
	if strings.Contains(dbPath, "?") {
		sep = "&"
	}
	return dbPath + sep + sqliteParams
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks that the underlying connection is usable.
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func (d *Database) seedSettings() error {
	defaults := make([]entities.Setting, 0, len(entities.DefaultSettings))
	for key, value := range entities.DefaultSettings {
		defaults = append(defaults, entities.Setting{Key: key, Value: value})
	}
	return d.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoNothing: true,
	}).Create(&defaults).Error
}
