package report

import (
	"fmt"
	"time"

	"github.com/plantmetric/plantmetric-backend/internal/kpi"
	"github.com/plantmetric/plantmetric-backend/internal/logger"
)

const dateLayout = "2006-01-02"

// Assembler turns scored metrics into a Report with a fixed column order.
type Assembler struct {
	log    *logger.Logger
	agg    *kpi.Aggregator
	fields []kpi.AggField
	now    func() time.Time
}

func NewAssembler(baseLog *logger.Logger) *Assembler {
	fields := kpi.DefaultAggFields()
	return &Assembler{
		log:    baseLog.With("component", "ReportAssembler"),
		agg:    kpi.NewAggregator(fields),
		fields: fields,
		now:    time.Now,
	}
}

// WithClock overrides the assembler's clock. Test hook.
func (a *Assembler) WithClock(now func() time.Time) *Assembler {
	a.now = now
	return a
}

// Columns is the exported header order: identity columns first, then the
// aggregation fields, then the categorical rating.
func (a *Assembler) Columns() []string {
	cols := []string{"line_shift", "date", "shift"}
	for _, f := range a.fields {
		cols = append(cols, f.Name)
	}
	return append(cols, "rating")
}

// Assemble bundles rows, a summary aggregate and recommendations into a
// report. Row order is preserved from the input; the caller decides any
// ranking or sorting beforehand.
func (a *Assembler) Assemble(title string, from, to time.Time, rows []*kpi.ComputedMetrics) *Report {
	columns := a.Columns()
	out := &Report{
		Title:       title,
		Subtitle:    subtitle(from, to),
		GeneratedAt: a.now(),
		Columns:     columns,
		Rows:        make([]Row, 0, len(rows)),
	}
	for _, m := range rows {
		if m == nil {
			continue
		}
		out.Rows = append(out.Rows, a.row(columns, m))
	}

	live := make([]*kpi.ComputedMetrics, 0, len(rows))
	for _, m := range rows {
		if m != nil {
			live = append(live, m)
		}
	}
	out.Summary = a.agg.Summarize(live)
	out.Recommendations = Recommend(out.Summary)
	return out
}

func (a *Assembler) row(columns []string, m *kpi.ComputedMetrics) Row {
	values := make([]any, 0, len(columns))
	values = append(values, m.LineShift, m.Date.Format(dateLayout), m.Shift)
	for _, f := range a.fields {
		values = append(values, f.Value(m))
	}
	values = append(values, m.Rating)
	return Row{Columns: columns, Values: values}
}

func subtitle(from, to time.Time) string {
	return fmt.Sprintf("%s to %s", from.Format(dateLayout), to.Format(dateLayout))
}
