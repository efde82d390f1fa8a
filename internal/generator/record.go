package generator

// Field is one column of a Record.
type Field struct {
	Column string
	Value  any
}

// Record is an ordered row destined for one table. A nil Value means the
// column is omitted from the insert.
type Record struct {
	Table  string
	Fields []Field
}

// NewRecord returns an empty record for table.
func NewRecord(table string, capacity int) *Record {
	return &Record{Table: table, Fields: make([]Field, 0, capacity)}
}

// Set appends column, or replaces its value if already present.
func (r *Record) Set(column string, value any) *Record {
	for i := range r.Fields {
		if r.Fields[i].Column == column {
			r.Fields[i].Value = value
			return r
		}
	}
	r.Fields = append(r.Fields, Field{Column: column, Value: value})
	return r
}

// Get returns the value of column.
func (r *Record) Get(column string) (any, bool) {
	for _, f := range r.Fields {
		if f.Column == column {
			return f.Value, true
		}
	}
	return nil, false
}

// String returns the value of column when it is a string, "" otherwise.
func (r *Record) String(column string) string {
	v, _ := r.Get(column)
	s, _ := v.(string)
	return s
}

// Compact returns a copy of r without nil-valued fields.
func (r *Record) Compact() *Record {
	out := NewRecord(r.Table, len(r.Fields))
	for _, f := range r.Fields {
		if f.Value != nil {
			out.Fields = append(out.Fields, f)
		}
	}
	return out
}

// Columns returns the column names in order.
func (r *Record) Columns() []string {
	cols := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		cols[i] = f.Column
	}
	return cols
}

// Values returns the values in column order.
func (r *Record) Values() []any {
	vals := make([]any, len(r.Fields))
	for i, f := range r.Fields {
		vals[i] = f.Value
	}
	return vals
}

// Map returns the record as a column-to-value map, for diagnostics.
func (r *Record) Map() map[string]any {
	m := make(map[string]any, len(r.Fields))
	for _, f := range r.Fields {
		m[f.Column] = f.Value
	}
	return m
}
