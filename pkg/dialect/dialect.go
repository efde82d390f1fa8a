// Package dialect describes how each supported database spells DDL: column
// types, identifier quoting, placeholders, table options and comments.
//
// Dialects are built with NewDialect and registered by name; the DDL
// compiler and the persistence runner look them up through Get.
package dialect

import (
	"strconv"
	"strings"

	"github.com/leapstack-labs/tollgen/pkg/ontology"
)

// PlaceholderStyle defines how query parameters are formatted.
type PlaceholderStyle int

const (
	// PlaceholderQuestion uses ? for all parameters (MySQL, SQLite, DuckDB).
	PlaceholderQuestion PlaceholderStyle = iota
	// PlaceholderDollar uses $1, $2, etc. for parameters (PostgreSQL).
	PlaceholderDollar
)

// CommentStyle defines where column and table comments go.
type CommentStyle int

const (
	// CommentNone drops comments.
	CommentNone CommentStyle = iota
	// CommentInline emits COMMENT '...' after each column definition.
	CommentInline
	// CommentStatement emits separate COMMENT ON statements after CREATE TABLE.
	CommentStatement
)

// Dialect is an immutable DDL description of one database.
type Dialect struct {
	Name        string
	Placeholder PlaceholderStyle
	Comments    CommentStyle

	quote    string
	quoteEnd string
	escape   string

	types        map[string]string
	fallbackType string
	tableOptions func(comment string) string
	savepoints   bool
}

// ColumnType maps an ontology data type to a storage type. Unknown types
// fall back to the dialect's text type.
func (d *Dialect) ColumnType(dataType string) string {
	if t, ok := d.types[strings.ToLower(strings.TrimSpace(dataType))]; ok {
		return t
	}
	return d.fallbackType
}

// FallbackType is the column type used for unmapped data types.
func (d *Dialect) FallbackType() string { return d.fallbackType }

// QuoteIdentifier quotes an identifier, escaping embedded quote characters.
func (d *Dialect) QuoteIdentifier(name string) string {
	escaped := strings.ReplaceAll(name, d.quoteEnd, d.escape)
	return d.quote + escaped + d.quoteEnd
}

// QuoteString renders s as a single-quoted SQL string literal.
func (d *Dialect) QuoteString(s string) string {
	return quoteLiteral(s)
}

// FormatPlaceholder returns the placeholder for the 1-based parameter index.
func (d *Dialect) FormatPlaceholder(index int) string {
	if d.Placeholder == PlaceholderDollar {
		return "$" + strconv.Itoa(index)
	}
	return "?"
}

// TableOptions returns the clause appended after the closing parenthesis of
// CREATE TABLE, or "" when the dialect has none.
func (d *Dialect) TableOptions(comment string) string {
	if d.tableOptions == nil {
		return ""
	}
	return d.tableOptions(comment)
}

// SupportsSavepoints reports whether per-row savepoints can be used inside
// the run transaction.
func (d *Dialect) SupportsSavepoints() bool { return d.savepoints }

// Builder assembles a Dialect.
type Builder struct {
	d Dialect
}

// NewDialect starts a dialect with ANSI quoting, ? placeholders and the
// generic type table.
func NewDialect(name string) *Builder {
	return &Builder{d: Dialect{
		Name:         name,
		quote:        `"`,
		quoteEnd:     `"`,
		escape:       `""`,
		types:        map[string]string{},
		fallbackType: "TEXT",
	}}
}

// Identifiers sets the identifier quote characters and the escape sequence
// for an embedded closing quote.
func (b *Builder) Identifiers(quote, quoteEnd, escape string) *Builder {
	b.d.quote = quote
	b.d.quoteEnd = quoteEnd
	b.d.escape = escape
	return b
}

// PlaceholderStyle sets the parameter placeholder style.
func (b *Builder) PlaceholderStyle(style PlaceholderStyle) *Builder {
	b.d.Placeholder = style
	return b
}

// Types sets the storage type for each ontology data type.
func (b *Builder) Types(types map[string]string) *Builder {
	for k, v := range types {
		b.d.types[strings.ToLower(k)] = v
	}
	return b
}

// Fallback sets the type used when a data type is not in the type table.
func (b *Builder) Fallback(t string) *Builder {
	b.d.fallbackType = t
	return b
}

// Comments sets the comment style.
func (b *Builder) Comments(style CommentStyle) *Builder {
	b.d.Comments = style
	return b
}

// TableOptions sets the CREATE TABLE suffix renderer.
func (b *Builder) TableOptions(fn func(comment string) string) *Builder {
	b.d.tableOptions = fn
	return b
}

// Savepoints marks the dialect as supporting SAVEPOINT inside transactions.
func (b *Builder) Savepoints() *Builder {
	b.d.savepoints = true
	return b
}

// Build returns the finished dialect. The builder must not be reused.
func (b *Builder) Build() *Dialect {
	d := b.d
	if _, ok := d.types[ontology.DataTypeString]; !ok {
		d.types[ontology.DataTypeString] = d.fallbackType
	}
	return &d
}
