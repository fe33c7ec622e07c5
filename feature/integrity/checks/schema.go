package checks

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"dog-inventory/core/audit"
	"dog-inventory/core/database"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// SchemaReport compares the run-history table with the RunRecord model.
type SchemaReport struct {
	Table          string   `json:"table"`
	Matched        bool     `json:"matched"`
	MissingColumns []string `json:"missing_columns"`
	TypeMismatches []string `json:"type_mismatches"`
	Status         string   `json:"status"`
}

// CheckSchema verifies the database schema using the gorm model as the
// source of truth. Only columns whose model tag pins a type are type-checked.
func CheckSchema(db *gorm.DB) (*SchemaReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	s, err := schema.Parse(&audit.RunRecord{}, &sync.Map{}, db.NamingStrategy)
	if err != nil {
		return nil, fmt.Errorf("failed to parse run record model: %w", err)
	}

	report := &SchemaReport{
		Table:          s.Table,
		Matched:        true,
		MissingColumns: []string{},
		TypeMismatches: []string{},
		Status:         StatusOK,
	}

	actual, err := database.TableColumns(db, s.Table)
	if errors.Is(err, database.ErrTableNotFound) {
		report.Matched = false
		report.Status = StatusMissing
		return report, nil
	}
	if err != nil {
		return nil, err
	}

	actualMap := make(map[string]database.ColumnInfo, len(actual))
	for _, col := range actual {
		actualMap[col.Field] = col
	}

	for _, field := range s.Fields {
		if field.DBName == "" {
			continue
		}
		col, ok := actualMap[strings.ToLower(field.DBName)]
		if !ok {
			report.MissingColumns = append(report.MissingColumns, field.DBName)
			continue
		}

		expType := strings.ToLower(field.TagSettings["TYPE"])
		if expType != "" && !strings.Contains(col.Type, expType) {
			report.TypeMismatches = append(report.TypeMismatches,
				fmt.Sprintf("%s: expected %s, got %s", field.DBName, expType, col.Type))
		}
	}

	if len(report.MissingColumns) > 0 || len(report.TypeMismatches) > 0 {
		report.Matched = false
		report.Status = StatusError
	}
	return report, nil
}
