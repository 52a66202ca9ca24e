package db

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"
)

// Column describes one reflected column.
type Column struct {
	Name         string `json:"name"`
	DatabaseType string `json:"type"`
	Nullable     bool   `json:"nullable"`
	PrimaryKey   bool   `json:"primary_key"`
}

// Table describes one reflected table.
type Table struct {
	Name    string   `json:"name"`
	Columns []Column `json:"columns"`
}

// Column looks up a column by name.
func (t *Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// ColumnNames returns the column names in database order.
func (t *Table) ColumnNames() []string {
	names := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		names = append(names, c.Name)
	}
	return names
}

// Metadata is the reflected schema of a database.
type Metadata struct {
	tables map[string]*Table
}

// Reflect loads every table and its columns from db.
func Reflect(ctx context.Context, db *gorm.DB) (*Metadata, error) {
	migrator := db.WithContext(ctx).Migrator()

	names, err := migrator.GetTables()
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}

	meta := &Metadata{tables: make(map[string]*Table, len(names))}
	for _, name := range names {
		if strings.HasPrefix(name, "sqlite_") {
			continue
		}
		columnTypes, err := migrator.ColumnTypes(name)
		if err != nil {
			return nil, fmt.Errorf("failed to reflect table %s: %w", name, err)
		}

		table := &Table{Name: name, Columns: make([]Column, 0, len(columnTypes))}
		for _, ct := range columnTypes {
			nullable, _ := ct.Nullable()
			primary, _ := ct.PrimaryKey()
			table.Columns = append(table.Columns, Column{
				Name:         ct.Name(),
				DatabaseType: ct.DatabaseTypeName(),
				Nullable:     nullable,
				PrimaryKey:   primary,
			})
		}
		meta.tables[name] = table
	}
	return meta, nil
}

// TableNames returns the reflected table names, sorted.
func (m *Metadata) TableNames() []string {
	names := make([]string, 0, len(m.tables))
	for name := range m.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Table looks up a reflected table.
func (m *Metadata) Table(name string) (*Table, bool) {
	t, ok := m.tables[name]
	return t, ok
}

// HasTable reports whether name was reflected.
func (m *Metadata) HasTable(name string) bool {
	_, ok := m.tables[name]
	return ok
}
