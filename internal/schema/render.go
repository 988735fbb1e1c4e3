// Package schema renders declarative sdk schema changes as SQLite DDL.
package schema

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/alexisbeaulieu97/timetracker-plugin-template/pkg/errors"
	"github.com/alexisbeaulieu97/timetracker-plugin-template/pkg/sdk"
)

const currentTimestamp = "CURRENT_TIMESTAMP"

// RenderSQL returns the DDL statement for one change. The change is
// validated first.
func RenderSQL(change sdk.SchemaChange) (string, error) {
	if err := change.Validate(); err != nil {
		return "", err
	}

	switch change.Kind {
	case sdk.ChangeCreateTable:
		return renderCreateTable(change)
	case sdk.ChangeAddColumn:
		return renderAddColumn(change)
	case sdk.ChangeAddIndex:
		return fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (%s);",
			quoteIdent(change.Index), quoteIdent(change.Table), quoteIdents(change.IndexColumns)), nil
	default:
		return "", apperrors.NewValidationError("kind", fmt.Sprintf("unsupported change kind %q", change.Kind), nil)
	}
}

// RenderAll renders every change of every extension in declaration order.
func RenderAll(exts []sdk.SchemaExtension) ([]string, error) {
	var statements []string
	for i, ext := range exts {
		if err := ext.Validate(); err != nil {
			return nil, apperrors.NewValidationError(fmt.Sprintf("extensions[%d]", i), err.Error(), err)
		}
		for _, change := range ext.Changes {
			stmt, err := RenderSQL(change)
			if err != nil {
				return nil, err
			}
			statements = append(statements, stmt)
		}
	}
	return statements, nil
}

func renderCreateTable(change sdk.SchemaChange) (string, error) {
	lines := make([]string, 0, len(change.Columns))
	var foreignKeys []string

	for _, col := range change.Columns {
		def, err := columnDefinition(col)
		if err != nil {
			return "", err
		}
		lines = append(lines, def)
		if col.ForeignKey != nil {
			foreignKeys = append(foreignKeys, fmt.Sprintf("FOREIGN KEY (%s) REFERENCES %s(%s)",
				quoteIdent(col.Name), quoteIdent(col.ForeignKey.Table), quoteIdent(col.ForeignKey.Column)))
		}
	}
	lines = append(lines, foreignKeys...)

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n    %s\n);", quoteIdent(change.Table), strings.Join(lines, ",\n    ")), nil
}

func renderAddColumn(change sdk.SchemaChange) (string, error) {
	col := *change.Column
	if col.PrimaryKey || col.Unique {
		return "", apperrors.NewValidationError(change.Table+"."+col.Name, "added columns cannot be PRIMARY KEY or UNIQUE", nil)
	}
	if col.NotNull && col.Default == nil {
		return "", apperrors.NewValidationError(change.Table+"."+col.Name, "added NOT NULL columns require a default", nil)
	}
	// SQLite refuses ALTER TABLE ADD COLUMN with a non-constant default once
	// the table holds rows.
	if col.Type == sdk.ColumnTimestamp && col.Default != nil && strings.EqualFold(*col.Default, currentTimestamp) {
		return "", apperrors.NewValidationError(change.Table+"."+col.Name, "added columns require a constant default, not CURRENT_TIMESTAMP", nil)
	}

	def, err := columnDefinition(col)
	if err != nil {
		return "", err
	}
	if col.ForeignKey != nil {
		def += fmt.Sprintf(" REFERENCES %s(%s)", quoteIdent(col.ForeignKey.Table), quoteIdent(col.ForeignKey.Column))
	}
	return fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s;", quoteIdent(change.Table), def), nil
}

func columnDefinition(col sdk.Column) (string, error) {
	parts := []string{quoteIdent(col.Name), string(col.Type)}
	if col.PrimaryKey {
		parts = append(parts, "PRIMARY KEY")
		if col.AutoIncrement {
			parts = append(parts, "AUTOINCREMENT")
		}
	}
	if col.NotNull {
		parts = append(parts, "NOT NULL")
	}
	if col.Unique {
		parts = append(parts, "UNIQUE")
	}
	if col.Default != nil {
		literal, err := defaultLiteral(col.Type, *col.Default)
		if err != nil {
			return "", apperrors.NewValidationError(col.Name+".default", err.Error(), err)
		}
		parts = append(parts, "DEFAULT "+literal)
	}
	return strings.Join(parts, " "), nil
}

// defaultLiteral renders a default value as a SQL literal for the column type.
func defaultLiteral(typ sdk.ColumnType, value string) (string, error) {
	switch typ {
	case sdk.ColumnInteger:
		if _, err := strconv.ParseInt(value, 10, 64); err != nil {
			return "", fmt.Errorf("default %q is not an integer", value)
		}
		return value, nil
	case sdk.ColumnReal:
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return "", fmt.Errorf("default %q is not a number", value)
		}
		return value, nil
	case sdk.ColumnBoolean:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return "", fmt.Errorf("default %q is not a boolean", value)
		}
		if b {
			return "1", nil
		}
		return "0", nil
	case sdk.ColumnTimestamp:
		if strings.EqualFold(value, currentTimestamp) {
			return currentTimestamp, nil
		}
		return quote(value), nil
	case sdk.ColumnBlob:
		return "", fmt.Errorf("BLOB columns cannot declare a default")
	default:
		return quote(value), nil
	}
}

// quoteIdent renders an identifier so SQL keywords such as "order" stay
// usable as names. Validated identifiers never contain double quotes.
func quoteIdent(name string) string {
	return `"` + name + `"`
}

func quoteIdents(names []string) string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = quoteIdent(name)
	}
	return strings.Join(quoted, ", ")
}

func quote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}
