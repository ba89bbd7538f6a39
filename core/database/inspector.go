package database

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ErrTableMissing is returned when an inspected table does not exist.
var ErrTableMissing = errors.New("table does not exist")

// ColumnInfo describes one live column, normalized to lowercase.
type ColumnInfo struct {
	Field    string
	Type     string
	Nullable bool
}

// GetTableColumns retrieves the column definitions for a given table.
func GetTableColumns(db *gorm.DB, tableName string) ([]ColumnInfo, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	if db.Dialector.Name() == DriverSQLite {
		return sqliteColumns(db, tableName)
	}
	return mysqlColumns(db, tableName)
}

func sqliteColumns(db *gorm.DB, tableName string) ([]ColumnInfo, error) {
	type pragmaColumn struct {
		Cid        int
		Name       string
		Type       string
		Notnull    int
		DefaultVal *string `gorm:"column:dflt_value"`
		Pk         int
	}

	var rows []pragmaColumn
	if err := db.Raw(fmt.Sprintf("PRAGMA table_info('%s')", tableName)).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get columns for table %s: %w", tableName, err)
	}
	// PRAGMA returns no rows for unknown tables.
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: %w", tableName, ErrTableMissing)
	}

	columns := make([]ColumnInfo, 0, len(rows))
	for _, col := range rows {
		columns = append(columns, ColumnInfo{
			Field:    strings.ToLower(col.Name),
			Type:     strings.ToLower(col.Type),
			Nullable: col.Notnull == 0 && col.Pk == 0,
		})
	}
	return columns, nil
}

func mysqlColumns(db *gorm.DB, tableName string) ([]ColumnInfo, error) {
	type showColumn struct {
		Field string
		Type  string
		Null  string
	}

	var rows []showColumn
	if err := db.Raw(fmt.Sprintf("SHOW COLUMNS FROM `%s`", tableName)).Scan(&rows).Error; err != nil {
		if strings.Contains(err.Error(), "1146") {
			return nil, fmt.Errorf("%s: %w", tableName, ErrTableMissing)
		}
		return nil, fmt.Errorf("failed to get columns for table %s: %w", tableName, err)
	}

	columns := make([]ColumnInfo, 0, len(rows))
	for _, col := range rows {
		columns = append(columns, ColumnInfo{
			Field:    strings.ToLower(col.Field),
			Type:     strings.ToLower(col.Type),
			Nullable: strings.EqualFold(col.Null, "YES"),
		})
	}
	return columns, nil
}
