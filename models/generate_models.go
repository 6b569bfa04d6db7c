package models

import (
	"fmt"
	"log"
	"os"
	"sort"

	"gorm.io/gen"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

/*
Model generation usage:

Set GENERATE_MODELS=true and start the binary. The schema is migrated,
a column mismatch report is printed and typed query helpers are written
to ./generated.

Example report output:
=== COLUMN MISMATCH REPORT ===
--- Table: shootings ---
Found 1 columns not accounted for in model:
  - legacy_notes
*/

// All returns every persisted model, parents before children.
func All() []interface{} {
	return []interface{}{
		&Incident{},
		&Bodycam{},
		&Tag{},
		&Source{},
		&Post{},
		&Tip{},
		&Feedback{},
	}
}

// Migrate creates or updates the tables for every model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(All()...)
}

func GenerateModels(db *gorm.DB) error {
	if err := db.Exec("SELECT 1").Error; err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}

	verbose := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             0,
			LogLevel:                  logger.Info,
			IgnoreRecordNotFoundError: false,
			Colorful:                  true,
		},
	)
	db = db.Session(&gorm.Session{
		Logger:                 verbose,
		SkipDefaultTransaction: true,
		PrepareStmt:            false,
	})

	g := gen.NewGenerator(gen.Config{
		OutPath:           "./generated",
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable:     true,
		FieldCoverable:    true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})
	g.UseDB(db)
	g.ApplyBasic(Incident{}, Bodycam{}, Tag{}, Source{}, Post{}, Tip{}, Feedback{})

	fmt.Println("Migrating models...")
	if err := Migrate(db); err != nil {
		return fmt.Errorf("error during models migration: %w", err)
	}

	GenerateColumnMismatchReport(db)

	g.Execute()
	fmt.Println("Model generation complete!")
	return nil
}

// GenerateColumnMismatchReport prints the database columns that no model field maps to
func GenerateColumnMismatchReport(db *gorm.DB) {
	fmt.Println("=== COLUMN MISMATCH REPORT ===")

	total := 0
	for _, model := range All() {
		mismatches, table, err := ColumnMismatches(db, model)
		fmt.Printf("\n--- Table: %s ---\n", table)
		if err != nil {
			fmt.Printf("Error getting columns for table %s: %v\n", table, err)
			continue
		}
		if len(mismatches) == 0 {
			fmt.Println("All columns are accounted for in the model.")
			continue
		}
		fmt.Printf("Found %d columns not accounted for in model:\n", len(mismatches))
		for _, col := range mismatches {
			fmt.Printf("  - %s\n", col)
		}
		total += len(mismatches)
	}

	fmt.Printf("\n=== SUMMARY ===\n")
	fmt.Printf("Total mismatched columns across all tables: %d\n", total)
}

// ColumnMismatches returns the columns of model's table that have no matching field.
func ColumnMismatches(db *gorm.DB, model interface{}) ([]string, string, error) {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(model); err != nil {
		return nil, "", fmt.Errorf("parse model: %w", err)
	}
	table := stmt.Schema.Table

	if !db.Migrator().HasTable(model) {
		return nil, table, fmt.Errorf("table %s does not exist", table)
	}

	columnTypes, err := db.Migrator().ColumnTypes(model)
	if err != nil {
		return nil, table, fmt.Errorf("error querying columns for table %s: %w", table, err)
	}

	known := make(map[string]bool, len(stmt.Schema.DBNames))
	for _, name := range stmt.Schema.DBNames {
		known[name] = true
	}

	var mismatches []string
	for _, col := range columnTypes {
		if !known[col.Name()] {
			mismatches = append(mismatches, col.Name())
		}
	}
	sort.Strings(mismatches)
	return mismatches, table, nil
}
