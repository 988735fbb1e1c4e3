package sdk

import (
	"fmt"

	apperrors "github.com/alexisbeaulieu97/timetracker-plugin-template/pkg/errors"
)

// EntityType names the host entity a schema extension is attached to.
type EntityType string

const (
	EntityActivities    EntityType = "activities"
	EntityCategories    EntityType = "categories"
	EntityManualEntries EntityType = "manual_entries"
	// EntityPlugin marks tables owned entirely by the plugin.
	EntityPlugin EntityType = "plugin"
)

var knownEntities = map[EntityType]struct{}{
	EntityActivities:    {},
	EntityCategories:    {},
	EntityManualEntries: {},
	EntityPlugin:        {},
}

// Known reports whether the host recognises the entity.
func (e EntityType) Known() bool {
	_, ok := knownEntities[e]
	return ok
}

// ColumnType is one of the primitive storage types the host supports.
type ColumnType string

const (
	ColumnInteger   ColumnType = "INTEGER"
	ColumnReal      ColumnType = "REAL"
	ColumnText      ColumnType = "TEXT"
	ColumnBlob      ColumnType = "BLOB"
	ColumnBoolean   ColumnType = "BOOLEAN"
	ColumnTimestamp ColumnType = "TIMESTAMP"
)

var knownColumnTypes = map[ColumnType]struct{}{
	ColumnInteger:   {},
	ColumnReal:      {},
	ColumnText:      {},
	ColumnBlob:      {},
	ColumnBoolean:   {},
	ColumnTimestamp: {},
}

// Known reports whether the type is a recognised primitive.
func (c ColumnType) Known() bool {
	_, ok := knownColumnTypes[c]
	return ok
}

// ChangeKind discriminates SchemaChange variants.
type ChangeKind string

const (
	ChangeCreateTable ChangeKind = "create_table"
	ChangeAddColumn   ChangeKind = "add_column"
	ChangeAddIndex    ChangeKind = "add_index"
)

// ForeignKey references a column in another table.
type ForeignKey struct {
	Table  string `json:"table" yaml:"table" validate:"required,identifier"`
	Column string `json:"column" yaml:"column" validate:"required,identifier"`
}

// Column describes one column of a created table or an added column.
type Column struct {
	Name          string      `json:"name" yaml:"name" validate:"required,identifier"`
	Type          ColumnType  `json:"type" yaml:"type" validate:"required,column_type"`
	PrimaryKey    bool        `json:"primary_key,omitempty" yaml:"primary_key,omitempty"`
	AutoIncrement bool        `json:"auto_increment,omitempty" yaml:"auto_increment,omitempty"`
	NotNull       bool        `json:"not_null,omitempty" yaml:"not_null,omitempty"`
	Unique        bool        `json:"unique,omitempty" yaml:"unique,omitempty"`
	Default       *string     `json:"default,omitempty" yaml:"default,omitempty"`
	ForeignKey    *ForeignKey `json:"foreign_key,omitempty" yaml:"foreign_key,omitempty"`
}

// Validate checks the column in isolation.
func (c Column) Validate() error {
	if err := ConvertValidationError(validatorInstance().Struct(c)); err != nil {
		return err
	}
	if c.AutoIncrement && (!c.PrimaryKey || c.Type != ColumnInteger) {
		return apperrors.NewValidationError("auto_increment", fmt.Sprintf("column %q must be an INTEGER primary key to auto increment", c.Name), nil)
	}
	return nil
}

// SchemaChange is a declarative request to alter the host schema. Only the
// fields relevant to Kind are read: Columns for create_table, Column for
// add_column, Index and IndexColumns for add_index.
type SchemaChange struct {
	Kind         ChangeKind `json:"kind" yaml:"kind" validate:"required,oneof=create_table add_column add_index"`
	Table        string     `json:"table" yaml:"table" validate:"required,identifier"`
	Columns      []Column   `json:"columns,omitempty" yaml:"columns,omitempty" validate:"dive"`
	Column       *Column    `json:"column,omitempty" yaml:"column,omitempty"`
	Index        string     `json:"index,omitempty" yaml:"index,omitempty" validate:"omitempty,identifier"`
	IndexColumns []string   `json:"index_columns,omitempty" yaml:"index_columns,omitempty" validate:"dive,identifier"`
}

// CreateTable declares a new table.
func CreateTable(table string, columns ...Column) SchemaChange {
	return SchemaChange{Kind: ChangeCreateTable, Table: table, Columns: columns}
}

// AddColumn declares a column added to an existing table.
func AddColumn(table string, column Column) SchemaChange {
	return SchemaChange{Kind: ChangeAddColumn, Table: table, Column: &column}
}

// AddIndex declares an index over one or more columns.
func AddIndex(table, index string, columns ...string) SchemaChange {
	return SchemaChange{Kind: ChangeAddIndex, Table: table, Index: index, IndexColumns: columns}
}

// Validate ensures the change carries well-formed names and recognised types.
func (c SchemaChange) Validate() error {
	if err := ConvertValidationError(validatorInstance().Struct(c)); err != nil {
		return err
	}

	for _, col := range c.columns() {
		if err := col.Validate(); err != nil {
			return apperrors.NewValidationError(fmt.Sprintf("%s.%s", c.Table, col.Name), err.Error(), err)
		}
	}

	if c.Kind == ChangeCreateTable {
		seen := make(map[string]struct{}, len(c.Columns))
		for _, col := range c.Columns {
			if _, dup := seen[col.Name]; dup {
				return apperrors.NewValidationError("columns", fmt.Sprintf("table %q declares column %q more than once", c.Table, col.Name), nil)
			}
			seen[col.Name] = struct{}{}
		}
	}
	return nil
}

func (c SchemaChange) columns() []Column {
	switch c.Kind {
	case ChangeCreateTable:
		return c.Columns
	case ChangeAddColumn:
		if c.Column != nil {
			return []Column{*c.Column}
		}
	}
	return nil
}

// SchemaExtension groups the changes a plugin requests for one entity.
type SchemaExtension struct {
	EntityType EntityType     `json:"entity_type" yaml:"entity_type" validate:"required,entity_type"`
	Changes    []SchemaChange `json:"changes" yaml:"changes" validate:"required,min=1,dive"`
}

// Validate checks the extension and every change it carries.
func (e SchemaExtension) Validate() error {
	if err := ConvertValidationError(validatorInstance().Struct(e)); err != nil {
		return err
	}
	for i, change := range e.Changes {
		if err := change.Validate(); err != nil {
			return apperrors.NewValidationError(fmt.Sprintf("changes[%d]", i), err.Error(), err)
		}
	}
	return nil
}
