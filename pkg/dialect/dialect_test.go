package dialect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnType(t *testing.T) {
	tests := []struct {
		dialect  *Dialect
		dataType string
		want     string
	}{
		{MySQL, "string", "VARCHAR(255)"},
		{MySQL, "integer", "INT"},
		{MySQL, "long", "BIGINT"},
		{MySQL, "date", "DATE"},
		{MySQL, "datetime", "DATETIME"},
		{MySQL, "double", "DOUBLE"},
		{MySQL, "bigdecimal", "DECIMAL(18, 2)"},
		{MySQL, "BigDecimal", "DECIMAL(18, 2)"}, // case insensitive
		{MySQL, "geometry", "VARCHAR(255)"},
		{MySQL, "", "VARCHAR(255)"},
		{SQLite, "long", "INTEGER"},
		{SQLite, "uuid", "TEXT"},
		{Postgres, "datetime", "TIMESTAMP"},
		{DuckDB, "string", "VARCHAR"},
	}

	for _, tt := range tests {
		t.Run(tt.dialect.Name+"/"+tt.dataType, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.dialect.ColumnType(tt.dataType))
		})
	}
}

func TestQuoteIdentifier(t *testing.T) {
	assert.Equal(t, "`pass_id`", MySQL.QuoteIdentifier("pass_id"))
	assert.Equal(t, "`we``ird`", MySQL.QuoteIdentifier("we`ird"))
	assert.Equal(t, `"pass_id"`, Postgres.QuoteIdentifier("pass_id"))
	assert.Equal(t, `"a""b"`, SQLite.QuoteIdentifier(`a"b`))
}

func TestQuoteString(t *testing.T) {
	assert.Equal(t, "'Entry lane'", MySQL.QuoteString("Entry lane"))
	assert.Equal(t, "'driver''s lane'", MySQL.QuoteString("driver's lane"))
}

func TestFormatPlaceholder(t *testing.T) {
	assert.Equal(t, "?", MySQL.FormatPlaceholder(1))
	assert.Equal(t, "?", SQLite.FormatPlaceholder(3))
	assert.Equal(t, "$1", Postgres.FormatPlaceholder(1))
	assert.Equal(t, "$12", Postgres.FormatPlaceholder(12))
}

func TestTableOptions(t *testing.T) {
	assert.Equal(t, "ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COMMENT='Exit lane'", MySQL.TableOptions("Exit lane"))
	assert.Equal(t, "ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COMMENT='it''s'", MySQL.TableOptions("it's"))
	assert.Empty(t, SQLite.TableOptions("Exit lane"))
}

func TestSavepoints(t *testing.T) {
	assert.True(t, MySQL.SupportsSavepoints())
	assert.True(t, SQLite.SupportsSavepoints())
	assert.True(t, Postgres.SupportsSavepoints())
	assert.False(t, DuckDB.SupportsSavepoints())
}

func TestBuilderDefaults(t *testing.T) {
	d := NewDialect("test").Fallback("CLOB").Build()

	assert.Equal(t, "CLOB", d.ColumnType("string"), "string follows the fallback when unset")
	assert.Equal(t, `"x"`, d.QuoteIdentifier("x"))
	assert.Equal(t, CommentNone, d.Comments)
	assert.False(t, d.SupportsSavepoints())
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"duckdb", "mysql", "postgres", "sqlite"}, List())

	d, ok := Get("MySQL")
	require.True(t, ok)
	assert.Same(t, MySQL, d)

	_, err := Lookup("")
	assert.ErrorIs(t, err, ErrDialectRequired)

	_, err = Lookup("oracle")
	var ude *UnknownDialectError
	require.ErrorAs(t, err, &ude)
	assert.Equal(t, "oracle", ude.Name)
	assert.Contains(t, err.Error(), "mysql")
}
