package database

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ColumnInfo describes one column of an existing table.
type ColumnInfo struct {
	// Field is the lowercased column name.
	Field string `json:"field"`
	// Type is the lowercased column type, including its length when the
	// driver reports one (e.g. varchar(36)).
	Type string `json:"type"`
	// Nullable is false when the column is NOT NULL.
	Nullable bool `json:"nullable"`
}

// ErrTableNotFound is returned by TableColumns for a missing table.
var ErrTableNotFound = errors.New("table not found")

// TableColumns returns the column definitions of a table through the gorm
// migrator, so the same code serves MySQL and SQLite.
func TableColumns(db *gorm.DB, table string) ([]ColumnInfo, error) {
	m := db.Migrator()
	if !m.HasTable(table) {
		return nil, fmt.Errorf("%s: %w", table, ErrTableNotFound)
	}

	types, err := m.ColumnTypes(table)
	if err != nil {
		return nil, fmt.Errorf("failed to get columns for table %s: %w", table, err)
	}

	columns := make([]ColumnInfo, 0, len(types))
	for _, ct := range types {
		typ, ok := ct.ColumnType()
		if !ok || typ == "" {
			typ = ct.DatabaseTypeName()
		}
		nullable, _ := ct.Nullable()
		columns = append(columns, ColumnInfo{
			Field:    strings.ToLower(ct.Name()),
			Type:     strings.ToLower(typ),
			Nullable: nullable,
		})
	}
	return columns, nil
}
