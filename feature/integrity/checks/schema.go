package checks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"video-catalog/core/database"

	"gorm.io/gorm"
)

// SchemaReport is the result of comparing models against the live database.
type SchemaReport struct {
	Driver  string                 `json:"driver"`
	Matched bool                   `json:"matched"`
	Tables  map[string]TableReport `json:"tables"`
	Errors  []string               `json:"errors"`
}

// TableReport describes one table.
type TableReport struct {
	Missing        bool     `json:"missing,omitempty"`
	MissingColumns []string `json:"missing_columns"`
	TypeMismatches []string `json:"type_mismatches"`
	Status         string   `json:"status"` // "ok", "error"
}

// CheckSchema verifies that every column of every model exists in the database.
// Types are compared only for fields with an explicit gorm type tag.
func CheckSchema(ctx context.Context, db *gorm.DB, models ...any) (*SchemaReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	report := &SchemaReport{
		Driver:  db.Dialector.Name(),
		Matched: true,
		Tables:  make(map[string]TableReport),
		Errors:  []string{},
	}

	for _, model := range models {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return nil, fmt.Errorf("failed to parse model %T: %w", model, err)
		}
		table := stmt.Schema.Table

		tbl := TableReport{
			MissingColumns: []string{},
			TypeMismatches: []string{},
			Status:         "ok",
		}

		actual, err := database.GetTableColumns(db.WithContext(ctx), table)
		if err != nil {
			report.Matched = false
			if errors.Is(err, database.ErrTableMissing) {
				tbl.Missing = true
				tbl.Status = "error"
				report.Tables[table] = tbl
				continue
			}
			report.Errors = append(report.Errors, fmt.Sprintf("Failed to inspect table %s: %v", table, err))
			continue
		}

		columns := make(map[string]database.ColumnInfo, len(actual))
		for _, col := range actual {
			columns[col.Field] = col
		}

		for _, field := range stmt.Schema.Fields {
			if field.DBName == "" {
				continue
			}
			col, ok := columns[strings.ToLower(field.DBName)]
			if !ok {
				tbl.MissingColumns = append(tbl.MissingColumns, field.DBName)
				continue
			}
			if want := strings.ToLower(field.TagSettings["TYPE"]); want != "" && !strings.Contains(col.Type, want) {
				tbl.TypeMismatches = append(tbl.TypeMismatches,
					fmt.Sprintf("%s: expected %s, got %s", field.DBName, want, col.Type))
			}
		}

		if len(tbl.MissingColumns) > 0 || len(tbl.TypeMismatches) > 0 {
			tbl.Status = "error"
			report.Matched = false
		}
		report.Tables[table] = tbl
	}

	return report, nil
}
