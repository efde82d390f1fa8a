// Package ddl compiles ontology object types into CREATE TABLE statements.
package ddl

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leapstack-labs/tollgen/pkg/dialect"
	"github.com/leapstack-labs/tollgen/pkg/ontology"
)

// KeyColumns are the canonical identifier names that make up a primary key
// when they are required.
var KeyColumns = []string{"id", "pass_id", "transaction_id", "interval_id", "trade_id"}

// ErrNoColumns is returned for object types without properties.
var ErrNoColumns = errors.New("object type has no properties")

// Table is the compiled form of one object type.
type Table struct {
	Name       string
	PrimaryKey []string
	// Create is the CREATE TABLE IF NOT EXISTS statement.
	Create string
	// Comments holds COMMENT ON statements for dialects that do not accept
	// inline comments. Each is safe to re-run.
	Comments []string
}

// Statements returns Create followed by Comments.
func (t *Table) Statements() []string {
	return append([]string{t.Create}, t.Comments...)
}

// String returns all statements terminated by semicolons.
func (t *Table) String() string {
	var sb strings.Builder
	for _, stmt := range t.Statements() {
		sb.WriteString(stmt)
		sb.WriteString(";\n")
	}
	return sb.String()
}

// Build compiles one object type for d.
func Build(ot *ontology.ObjectType, d *dialect.Dialect) (*Table, error) {
	if d == nil {
		return nil, dialect.ErrDialectRequired
	}
	if len(ot.Properties) == 0 {
		return nil, fmt.Errorf("%s: %w", ot.Name, ErrNoColumns)
	}

	seen := make(map[string]struct{}, len(ot.Properties))
	for _, p := range ot.Properties {
		key := strings.ToLower(p.Name)
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("%s: duplicate property %q", ot.Name, p.Name)
		}
		seen[key] = struct{}{}
	}

	t := &Table{Name: ot.Name, PrimaryKey: InferPrimaryKey(ot.Properties)}
	table := d.QuoteIdentifier(ot.Name)

	var sb strings.Builder
	sb.WriteString("CREATE TABLE IF NOT EXISTS ")
	sb.WriteString(table)
	sb.WriteString(" (\n")

	lines := make([]string, 0, len(ot.Properties)+1)
	for i := range ot.Properties {
		lines = append(lines, "  "+columnDef(&ot.Properties[i], d))
	}
	if len(t.PrimaryKey) > 0 {
		cols := make([]string, len(t.PrimaryKey))
		for i, c := range t.PrimaryKey {
			cols[i] = d.QuoteIdentifier(c)
		}
		lines = append(lines, "  PRIMARY KEY ("+strings.Join(cols, ", ")+")")
	}
	sb.WriteString(strings.Join(lines, ",\n"))
	sb.WriteString("\n)")

	if opts := d.TableOptions(ot.Label()); opts != "" {
		sb.WriteString(" ")
		sb.WriteString(opts)
	}
	t.Create = sb.String()

	if d.Comments == dialect.CommentStatement {
		t.Comments = append(t.Comments, "COMMENT ON TABLE "+table+" IS "+d.QuoteString(ot.Label()))
		for _, p := range ot.Properties {
			t.Comments = append(t.Comments,
				"COMMENT ON COLUMN "+table+"."+d.QuoteIdentifier(p.Name)+" IS "+d.QuoteString(p.Label()))
		}
	}

	return t, nil
}

// Compile returns the DDL text for one object type.
func Compile(ot *ontology.ObjectType, d *dialect.Dialect) (string, error) {
	t, err := Build(ot, d)
	if err != nil {
		return "", err
	}
	return t.String(), nil
}

// CompileAll compiles every object type of s in declaration order. It stops
// at the first object type that cannot be compiled.
func CompileAll(s *ontology.Schema, d *dialect.Dialect) ([]*Table, error) {
	tables := make([]*Table, 0, len(s.ObjectTypes))
	for i := range s.ObjectTypes {
		t, err := Build(&s.ObjectTypes[i], d)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, nil
}

func columnDef(p *ontology.Property, d *dialect.Dialect) string {
	var sb strings.Builder
	sb.WriteString(d.QuoteIdentifier(p.Name))
	sb.WriteString(" ")
	sb.WriteString(d.ColumnType(p.DataType))
	if p.Required {
		sb.WriteString(" NOT NULL")
	} else {
		sb.WriteString(" DEFAULT NULL")
	}
	if d.Comments == dialect.CommentInline {
		sb.WriteString(" COMMENT ")
		sb.WriteString(d.QuoteString(p.Label()))
	}
	return sb.String()
}

// InferPrimaryKey picks the primary key columns for props.
//
// Required properties with a canonical identifier name form the key, in
// declaration order. Without any, the first required property is the key.
// Without required properties there is no key.
func InferPrimaryKey(props []ontology.Property) []string {
	var key []string
	first := ""
	for _, p := range props {
		if !p.Required {
			continue
		}
		if first == "" {
			first = p.Name
		}
		if isKeyColumn(p.Name) {
			key = append(key, p.Name)
		}
	}
	if len(key) > 0 {
		return key
	}
	if first != "" {
		return []string{first}
	}
	return nil
}

func isKeyColumn(name string) bool {
	for _, k := range KeyColumns {
		if strings.EqualFold(k, name) {
			return true
		}
	}
	return false
}
