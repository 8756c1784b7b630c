package models

import (
	"fmt"
	"io"
	"log"
	"os"
	"sort"

	zlog "github.com/rs/zerolog/log"
	"gorm.io/gen"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

/*
Column Mismatch Report:

Lists columns that exist in the database but have no field in the corresponding Go model,
typically left behind after a field was renamed or removed. Run with:

	portfolio-api migrate --report

Example output:

	=== COLUMN MISMATCH REPORT ===
	--- Table: projects ---
	Found 1 column(s) not accounted for in model:
	  - github_link
	--- Table: categories ---
	All columns are accounted for in the model.

	=== SUMMARY ===
	Total mismatched columns across all tables: 1
*/

// All lists every persisted model in dependency order.
func All() []interface{} {
	return []interface{}{
		&Category{},
		&Blog{},
		&Project{},
		&Experience{},
		&User{},
	}
}

// Migrate creates or alters tables for every model.
func Migrate(db *gorm.DB) error {
	migrateDB := db.Session(&gorm.Session{
		SkipDefaultTransaction: true,
		PrepareStmt:            false,
	})
	if err := migrateDB.AutoMigrate(All()...); err != nil {
		return fmt.Errorf("error during models migration: %w", err)
	}
	return nil
}

// GenerateModels migrates with verbose SQL logging and then emits gorm/gen query helpers into outPath.
func GenerateModels(db *gorm.DB, outPath string) error {
	verbose := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             0,
			LogLevel:                  logger.Info,
			IgnoreRecordNotFoundError: false,
			Colorful:                  true,
		},
	)
	db = db.Session(&gorm.Session{Logger: verbose})

	zlog.Info().Msg("starting database migration")
	if err := Migrate(db); err != nil {
		return err
	}

	g := gen.NewGenerator(gen.Config{
		OutPath:           outPath,
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable:     true,
		FieldCoverable:    true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})
	g.UseDB(db)
	g.ApplyBasic(All()...)
	g.Execute()

	zlog.Info().Str("outPath", outPath).Msg("query generation complete")
	return nil
}

// GenerateColumnMismatchReport writes the report to w and returns the number of mismatched columns.
func GenerateColumnMismatchReport(db *gorm.DB, w io.Writer) (int, error) {
	fmt.Fprintln(w, "=== COLUMN MISMATCH REPORT ===")

	total := 0
	for _, model := range All() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return total, fmt.Errorf("error parsing model %T: %w", model, err)
		}
		table := stmt.Schema.Table
		fmt.Fprintf(w, "--- Table: %s ---\n", table)

		if !db.Migrator().HasTable(model) {
			fmt.Fprintln(w, "Table does not exist yet (will be created during migration)")
			continue
		}

		columns, err := db.Migrator().ColumnTypes(model)
		if err != nil {
			return total, fmt.Errorf("error getting columns for table %s: %w", table, err)
		}
		dbColumns := make([]string, 0, len(columns))
		for _, c := range columns {
			dbColumns = append(dbColumns, c.Name())
		}

		mismatches := findColumnMismatches(dbColumns, stmt.Schema.DBNames)
		if len(mismatches) == 0 {
			fmt.Fprintln(w, "All columns are accounted for in the model.")
			continue
		}
		fmt.Fprintf(w, "Found %d column(s) not accounted for in model:\n", len(mismatches))
		for _, col := range mismatches {
			fmt.Fprintf(w, "  - %s\n", col)
		}
		total += len(mismatches)
	}

	fmt.Fprintf(w, "\n=== SUMMARY ===\nTotal mismatched columns across all tables: %d\n", total)
	if total > 0 {
		zlog.Warn().Int("columns", total).Msg("database has columns without model fields")
	}
	return total, nil
}

// findColumnMismatches finds columns that exist in the database but not in the model
func findColumnMismatches(dbColumns, modelFields []string) []string {
	known := make(map[string]bool, len(modelFields))
	for _, field := range modelFields {
		known[field] = true
	}

	var mismatches []string
	for _, col := range dbColumns {
		if !known[col] {
			mismatches = append(mismatches, col)
		}
	}
	sort.Strings(mismatches)
	return mismatches
}
