package persist

// TableResult is the outcome of creating one table.
type TableResult struct {
	Table      string
	PrimaryKey []string
	Err        *TableCreationError
}

// OK reports whether every statement for the table succeeded.
func (r TableResult) OK() bool { return r.Err == nil }

// RowResult is the outcome of one InsertRow call.
type RowResult struct {
	Table    string
	Inserted bool
	// Err is set when the row was rolled back and skipped.
	Err *RowInsertError
}

// Skipped reports whether the row was rejected.
func (r RowResult) Skipped() bool { return r.Err != nil }

// TableStats counts insert outcomes for one table.
type TableStats struct {
	Table    string
	Inserted int
	Skipped  int
}

// Report collects per-table insert outcomes for a run, in first-seen table
// order.
type Report struct {
	Tables   []TableResult
	Failures []*RowInsertError

	order []string
	stats map[string]*TableStats
}

func newReport() *Report {
	return &Report{stats: make(map[string]*TableStats)}
}

func (r *Report) entry(table string) *TableStats {
	s, ok := r.stats[table]
	if !ok {
		s = &TableStats{Table: table}
		r.stats[table] = s
		r.order = append(r.order, table)
	}
	return s
}

func (r *Report) record(res RowResult) {
	s := r.entry(res.Table)
	if res.Err != nil {
		s.Skipped++
		r.Failures = append(r.Failures, res.Err)
		return
	}
	s.Inserted++
}

// Stats returns the counts for every table that saw an insert attempt.
func (r *Report) Stats() []TableStats {
	out := make([]TableStats, len(r.order))
	for i, t := range r.order {
		out[i] = *r.stats[t]
	}
	return out
}

// Inserted returns the number of rows inserted into table.
func (r *Report) Inserted(table string) int {
	if s, ok := r.stats[table]; ok {
		return s.Inserted
	}
	return 0
}

// Skipped returns the number of rows skipped for table.
func (r *Report) Skipped(table string) int {
	if s, ok := r.stats[table]; ok {
		return s.Skipped
	}
	return 0
}

// TotalInserted sums Inserted over all tables.
func (r *Report) TotalInserted() int {
	n := 0
	for _, s := range r.stats {
		n += s.Inserted
	}
	return n
}

// TotalSkipped sums Skipped over all tables.
func (r *Report) TotalSkipped() int {
	return len(r.Failures)
}

// FailedTables returns the tables whose creation failed.
func (r *Report) FailedTables() []string {
	var out []string
	for _, t := range r.Tables {
		if !t.OK() {
			out = append(out, t.Table)
		}
	}
	return out
}

// TableCount is a post-commit row count.
type TableCount struct {
	Table string
	Rows  int64
	// Err is set when the count query failed, e.g. for a table that could
	// not be created.
	Err error
}

// Summary is the result of Finalize.
type Summary struct {
	Counts []TableCount
	Report *Report
}
