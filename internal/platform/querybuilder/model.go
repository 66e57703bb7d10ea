package querybuilder

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"
)

// modelField maps one exported struct field to its db column.
type modelField struct {
	index  int
	column string
}

var modelFieldCache sync.Map // reflect.Type -> []modelField

// InsertModel builds an INSERT from the db-tagged fields of model.
func InsertModel(table string, model any, suffix string) (string, []any, error) {
	cols, vals, err := columnsAndValuesFromModel(model)
	if err != nil {
		return "", nil, err
	}
	return InsertInto(table).
		Columns(cols...).
		Values(vals...).
		Suffix(suffix).
		ToSQL()
}

// UpsertModel inserts model and, on a conflict over conflictColumns,
// overwrites every other column with the excluded row. returning is appended
// verbatim when set.
func UpsertModel(table string, model any, conflictColumns []string, returning string) (string, []any, error) {
	if len(conflictColumns) == 0 {
		return "", nil, fmt.Errorf("upsert requires conflict columns")
	}
	cols, vals, err := columnsAndValuesFromModel(model)
	if err != nil {
		return "", nil, err
	}

	var suffix strings.Builder
	suffix.WriteString("ON CONFLICT (")
	suffix.WriteString(strings.Join(conflictColumns, ", "))
	suffix.WriteString(")")

	updates := make([]string, 0, len(cols))
	for _, col := range cols {
		if slices.Contains(conflictColumns, col) {
			continue
		}
		updates = append(updates, col+" = EXCLUDED."+col)
	}
	if len(updates) == 0 {
		suffix.WriteString(" DO NOTHING")
	} else {
		suffix.WriteString(" DO UPDATE SET ")
		suffix.WriteString(strings.Join(updates, ", "))
	}
	if returning = strings.TrimSpace(returning); returning != "" {
		suffix.WriteString(" ")
		suffix.WriteString(returning)
	}

	return InsertInto(table).
		Columns(cols...).
		Values(vals...).
		Suffix(suffix.String()).
		ToSQL()
}

// UpdateModel starts an UPDATE that sets every db-tagged column of model
// except the skipped ones. Callers add Where and any SetExpr.
func UpdateModel(table string, model any, skip ...string) (*UpdateBuilder, error) {
	cols, vals, err := columnsAndValuesFromModel(model)
	if err != nil {
		return nil, err
	}
	builder := Update(table)
	for i, col := range cols {
		if slices.Contains(skip, col) {
			continue
		}
		builder.Set(col, vals[i])
	}
	if len(builder.sets) == 0 {
		return nil, fmt.Errorf("model has no updatable columns")
	}
	return builder, nil
}

func columnsAndValuesFromModel(model any) ([]string, []any, error) {
	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return nil, nil, fmt.Errorf("model cannot be nil")
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil, nil, fmt.Errorf("model must be struct, got %s", value.Kind())
	}

	fields := fieldsForType(value.Type())
	if len(fields) == 0 {
		return nil, nil, fmt.Errorf("model %s has no db columns", value.Type())
	}

	cols := make([]string, len(fields))
	vals := make([]any, len(fields))
	for i, field := range fields {
		cols[i] = field.column
		vals[i] = value.Field(field.index).Interface()
	}
	return cols, vals, nil
}

func fieldsForType(typ reflect.Type) []modelField {
	if cached, ok := modelFieldCache.Load(typ); ok {
		return cached.([]modelField)
	}

	fields := make([]modelField, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(field.Tag.Get("db"), ",")
		name = strings.TrimSpace(name)
		if name == "" || name == "-" {
			continue
		}
		fields = append(fields, modelField{index: i, column: name})
	}

	actual, _ := modelFieldCache.LoadOrStore(typ, fields)
	return actual.([]modelField)
}
