package dialect

import (
	"strings"

	o "github.com/leapstack-labs/tollgen/pkg/ontology"
)

// MySQL is the primary target. Its table options and type table match the
// production toll database.
var MySQL = NewDialect("mysql").
	Identifiers("`", "`", "``").
	Types(map[string]string{
		o.DataTypeString:     "VARCHAR(255)",
		o.DataTypeInteger:    "INT",
		o.DataTypeLong:       "BIGINT",
		o.DataTypeDate:       "DATE",
		o.DataTypeDateTime:   "DATETIME",
		o.DataTypeDouble:     "DOUBLE",
		o.DataTypeBigDecimal: "DECIMAL(18, 2)",
	}).
	Fallback("VARCHAR(255)").
	Comments(CommentInline).
	TableOptions(func(comment string) string {
		return "ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COMMENT=" + quoteLiteral(comment)
	}).
	Savepoints().
	Build()

// SQLite keeps declared types for readability; affinity does the rest.
var SQLite = NewDialect("sqlite").
	Types(map[string]string{
		o.DataTypeString:     "TEXT",
		o.DataTypeInteger:    "INTEGER",
		o.DataTypeLong:       "INTEGER",
		o.DataTypeDate:       "DATE",
		o.DataTypeDateTime:   "DATETIME",
		o.DataTypeDouble:     "REAL",
		o.DataTypeBigDecimal: "NUMERIC(18, 2)",
	}).
	Fallback("TEXT").
	Savepoints().
	Build()

// Postgres aborts the whole transaction on any failed statement, so
// savepoints are required for row isolation.
var Postgres = NewDialect("postgres").
	PlaceholderStyle(PlaceholderDollar).
	Types(map[string]string{
		o.DataTypeString:     "VARCHAR(255)",
		o.DataTypeInteger:    "INTEGER",
		o.DataTypeLong:       "BIGINT",
		o.DataTypeDate:       "DATE",
		o.DataTypeDateTime:   "TIMESTAMP",
		o.DataTypeDouble:     "DOUBLE PRECISION",
		o.DataTypeBigDecimal: "NUMERIC(18, 2)",
	}).
	Fallback("VARCHAR(255)").
	Comments(CommentStatement).
	Savepoints().
	Build()

// DuckDB has no SAVEPOINT; a failed insert invalidates the transaction.
var DuckDB = NewDialect("duckdb").
	Types(map[string]string{
		o.DataTypeString:     "VARCHAR",
		o.DataTypeInteger:    "INTEGER",
		o.DataTypeLong:       "BIGINT",
		o.DataTypeDate:       "DATE",
		o.DataTypeDateTime:   "TIMESTAMP",
		o.DataTypeDouble:     "DOUBLE",
		o.DataTypeBigDecimal: "DECIMAL(18, 2)",
	}).
	Fallback("VARCHAR").
	Comments(CommentStatement).
	Build()

func init() {
	Register(MySQL)
	Register(SQLite)
	Register(Postgres)
	Register(DuckDB)
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
