package sdk

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/alexisbeaulieu97/timetracker-plugin-template/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	semverPattern     = regexp.MustCompile(`^\d+\.\d+\.\d+(?:-[0-9A-Za-z-.]+)?(?:\+[0-9A-Za-z-.]+)?$`)
	pluginIDPattern   = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// validatorInstance configures and returns the shared validator used for
// every record in this package.
func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("semver", func(fl validator.FieldLevel) bool {
			return semverPattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("plugin_id", func(fl validator.FieldLevel) bool {
			return pluginIDPattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("identifier", func(fl validator.FieldLevel) bool {
			return identifierPattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("column_type", func(fl validator.FieldLevel) bool {
			return ColumnType(fl.Field().String()).Known()
		})

		_ = v.RegisterValidation("entity_type", func(fl validator.FieldLevel) bool {
			return EntityType(fl.Field().String()).Known()
		})

		v.RegisterStructValidation(schemaChangeRules, SchemaChange{})

		validateInst = v
	})

	return validateInst
}

// Validator returns the configured validator so tooling can validate its own
// structs with the same custom tags (semver, plugin_id, identifier).
func Validator() *validator.Validate {
	return validatorInstance()
}

// schemaChangeRules enforces the fields each change kind needs.
func schemaChangeRules(sl validator.StructLevel) {
	change := sl.Current().Interface().(SchemaChange)

	switch change.Kind {
	case ChangeCreateTable:
		if len(change.Columns) == 0 {
			sl.ReportError(change.Columns, "Columns", "Columns", "columns_required", "")
		}
	case ChangeAddColumn:
		if change.Column == nil {
			sl.ReportError(change.Column, "Column", "Column", "column_required", "")
		}
	case ChangeAddIndex:
		if change.Index == "" {
			sl.ReportError(change.Index, "Index", "Index", "index_required", "")
		}
		if len(change.IndexColumns) == 0 {
			sl.ReportError(change.IndexColumns, "IndexColumns", "IndexColumns", "columns_required", "")
		}
	}
}

// ConvertValidationError normalizes validator errors into ValidationErrors
// naming the first offending field.
func ConvertValidationError(err error) error {
	if err == nil {
		return nil
	}

	if ves, ok := err.(validator.ValidationErrors); ok {
		ve := ves[0]
		field := fieldName(ve)
		msg := fmt.Sprintf("%s failed validation for tag '%s'", field, ve.Tag())
		return apperrors.NewValidationError(field, msg, err)
	}

	return apperrors.NewValidationError("", err.Error(), err)
}

func fieldName(fe validator.FieldError) string {
	ns := fe.StructNamespace()
	parts := strings.Split(ns, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	lowered := make([]string, 0, len(parts))
	for _, part := range parts {
		lowered = append(lowered, strings.ToLower(part))
	}
	return strings.Join(lowered, ".")
}
