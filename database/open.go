package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

const (
	TypePostgres = "postgres"
	TypeSQLite   = "sqlite"
)

// Options describes how to reach the relational store.
type Options struct {
	Type        string
	URL         string
	ReplicaURLs []string
	// LogLevel defaults to logger.Warn
	LogLevel logger.LogLevel
}

// Open connects to PostgreSQL or SQLite and probes the connection.
// Replica URLs, PostgreSQL only, are registered with dbresolver for read traffic.
func Open(opts Options) (*gorm.DB, error) {
	level := opts.LogLevel
	if level == 0 {
		level = logger.Warn
	}
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)
	gormConfig := &gorm.Config{
		PrepareStmt:    false,
		Logger:         newLogger,
		TranslateError: true,
	}

	var (
		db  *gorm.DB
		err error
	)
	switch opts.Type {
	case TypePostgres:
		db, err = gorm.Open(postgresDialector(opts.URL), gormConfig)
	case TypeSQLite:
		db, err = gorm.Open(sqlite.Open(opts.URL), gormConfig)
	default:
		return nil, fmt.Errorf("unsupported DB_TYPE %q", opts.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	if opts.Type == TypeSQLite {
		// one connection, so the pragma below and in-memory databases stay consistent
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("error enabling foreign keys: %w", err)
		}
	}

	if len(opts.ReplicaURLs) > 0 {
		if opts.Type != TypePostgres {
			return nil, fmt.Errorf("read replicas require DB_TYPE=%s", TypePostgres)
		}
		replicas := make([]gorm.Dialector, 0, len(opts.ReplicaURLs))
		for _, url := range opts.ReplicaURLs {
			replicas = append(replicas, postgresDialector(url))
		}
		if err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: replicas,
			Policy:   dbresolver.RandomPolicy{},
		})); err != nil {
			return nil, fmt.Errorf("error registering read replicas: %w", err)
		}
	}

	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		return nil, fmt.Errorf("error testing database connection: %w", err)
	}

	return db, nil
}

func postgresDialector(dsn string) gorm.Dialector {
	return postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	})
}
