package checks

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"inventory-tracker/core/database"
	"inventory-tracker/feature/inventory/models"

	"gorm.io/gorm"
)

// SchemaReport is the result of a schema integrity check.
type SchemaReport struct {
	Dialect string                 `json:"dialect"`
	Matched bool                   `json:"matched"`
	Tables  map[string]TableReport `json:"tables"`
	Views   map[string]bool        `json:"views"`
	Errors  []string               `json:"errors"`
}

// TableReport lists the columns a table is missing.
type TableReport struct {
	MissingColumns []string `json:"missing_columns"`
	Status         string   `json:"status"` // "ok", "missing", "error"
}

// CheckSchema verifies that every inventory table has the columns declared
// by its model and that the availability view exists.
func CheckSchema(db *gorm.DB) (*SchemaReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	report := &SchemaReport{
		Dialect: db.Dialector.Name(),
		Matched: true,
		Tables:  make(map[string]TableReport),
		Views:   make(map[string]bool),
		Errors:  []string{},
	}

	for _, model := range models.All() {
		table, expected, err := modelColumns(model)
		if err != nil {
			return nil, err
		}

		actual, err := database.GetTableColumns(db, table)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("Failed to inspect table %s: %v", table, err))
			report.Tables[table] = TableReport{MissingColumns: []string{}, Status: "error"}
			report.Matched = false
			continue
		}

		present := make(map[string]struct{}, len(actual))
		for _, col := range actual {
			present[col.Field] = struct{}{}
		}

		tbl := TableReport{MissingColumns: []string{}, Status: "ok"}
		switch {
		case len(actual) == 0:
			tbl.Status = "missing"
			tbl.MissingColumns = expected
		default:
			for _, col := range expected {
				if _, ok := present[col]; !ok {
					tbl.MissingColumns = append(tbl.MissingColumns, col)
					tbl.Status = "error"
				}
			}
		}
		if tbl.Status != "ok" {
			report.Matched = false
		}
		report.Tables[table] = tbl
	}

	exists, err := database.HasView(db, models.AvailabilityView)
	if err != nil {
		report.Errors = append(report.Errors, err.Error())
	}
	report.Views[models.AvailabilityView] = exists
	if !exists {
		report.Matched = false
	}

	return report, nil
}

// modelColumns returns the table name and the sorted column names declared
// in the model's gorm tags.
func modelColumns(model any) (string, []string, error) {
	tabler, ok := model.(interface{ TableName() string })
	if !ok {
		return "", nil, fmt.Errorf("model %T does not implement TableName", model)
	}

	t := reflect.TypeOf(model)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	var columns []string
	for i := 0; i < t.NumField(); i++ {
		if col := parseGormColumn(t.Field(i).Tag.Get("gorm")); col != "" {
			columns = append(columns, col)
		}
	}
	sort.Strings(columns)
	return tabler.TableName(), columns, nil
}

func parseGormColumn(tag string) string {
	for _, p := range strings.Split(tag, ";") {
		if strings.HasPrefix(p, "column:") {
			return strings.TrimPrefix(p, "column:")
		}
	}
	return ""
}
