package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/leapstack-labs/tollgen/internal/persist"
	"github.com/leapstack-labs/tollgen/internal/state"
	"github.com/leapstack-labs/tollgen/pkg/ddl"
	"github.com/leapstack-labs/tollgen/pkg/ontology"
)

func newTable(w io.Writer, header ...any) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row(header))
	return t
}

// label returns the display name of table, or the table name when the
// schema does not know it.
func label(s *ontology.Schema, name string) string {
	if ot, ok := s.ObjectType(name); ok {
		return ot.Label()
	}
	return name
}

func renderObjectTypes(w io.Writer, s *ontology.Schema) {
	t := newTable(w, "Object type", "Display name", "Properties", "Primary key")
	for i := range s.ObjectTypes {
		ot := &s.ObjectTypes[i]
		t.AppendRow(table.Row{ot.Name, ot.Label(), len(ot.Properties), strings.Join(ddl.InferPrimaryKey(ot.Properties), ", ")})
	}
	t.Render()

	if len(s.LinkTypes) == 0 {
		return
	}
	_, _ = fmt.Fprintln(w)
	lt := newTable(w, "Link type", "Source", "Target", "Cardinality")
	for _, l := range s.LinkTypes {
		lt.AppendRow(table.Row{l.Name, l.SourceType, l.TargetType, l.Cardinality})
	}
	lt.Render()
}

func renderProperties(w io.Writer, ot *ontology.ObjectType) {
	key := make(map[string]bool)
	for _, k := range ddl.InferPrimaryKey(ot.Properties) {
		key[k] = true
	}
	t := newTable(w, "Property", "Display name", "Type", "Required", "Key")
	for i := range ot.Properties {
		p := &ot.Properties[i]
		t.AppendRow(table.Row{p.Name, p.Label(), p.DataType, yesNo(p.Required), yesNo(key[p.Name])})
	}
	t.Render()
}

func renderTableResults(w io.Writer, results []persist.TableResult) {
	t := newTable(w, "Table", "Primary key", "Status")
	for _, r := range results {
		status := "ok"
		if !r.OK() {
			status = "failed: " + r.Err.Err.Error()
		}
		t.AppendRow(table.Row{r.Table, strings.Join(r.PrimaryKey, ", "), status})
	}
	t.Render()
}

// renderCounts prints one "<display name>: <count>" line per table.
func renderCounts(w io.Writer, s *ontology.Schema, counts []persist.TableCount) {
	for _, c := range counts {
		if c.Err != nil {
			_, _ = fmt.Fprintf(w, "%s: error (%v)\n", label(s, c.Table), c.Err)
			continue
		}
		_, _ = fmt.Fprintf(w, "%s: %d\n", label(s, c.Table), c.Rows)
	}
}

func renderStats(w io.Writer, s *ontology.Schema, counts []persist.TableCount) {
	t := newTable(w, "Table", "Display name", "Rows")
	var total int64
	for _, c := range counts {
		rows := any(c.Rows)
		if c.Err != nil {
			rows = "n/a"
		} else {
			total += c.Rows
		}
		t.AppendRow(table.Row{c.Table, label(s, c.Table), rows})
	}
	t.AppendFooter(table.Row{"", "Total", total})
	t.Render()
}

func renderSummary(w io.Writer, s *ontology.Schema, sum *persist.Summary) {
	t := newTable(w, "Table", "Display name", "Inserted", "Skipped", "Rows")
	for _, c := range sum.Counts {
		rows := any(c.Rows)
		if c.Err != nil {
			rows = "n/a"
		}
		t.AppendRow(table.Row{
			c.Table, label(s, c.Table),
			sum.Report.Inserted(c.Table), sum.Report.Skipped(c.Table), rows,
		})
	}
	t.AppendFooter(table.Row{"", "Total", sum.Report.TotalInserted(), sum.Report.TotalSkipped(), ""})
	t.Render()
}

func renderRuns(w io.Writer, runs []*state.Run) {
	if len(runs) == 0 {
		_, _ = fmt.Fprintln(w, "(no runs)")
		return
	}
	t := newTable(w, "Run", "Status", "Started", "Trips", "Start", "Seed", "Inserted", "Skipped", "Duration")
	for _, r := range runs {
		t.AppendRow(table.Row{
			shortID(r.ID), r.Status, r.StartedAt.Local().Format(time.DateTime),
			r.Trips, r.StartIndex, r.Seed, r.Inserted, r.Skipped, r.Duration().Round(time.Millisecond),
		})
	}
	t.Render()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return ""
}
