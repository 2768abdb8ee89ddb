package session

import (
	"tally/internal/core"
	"tally/internal/report"
)

// ChartMode selects which chart the charts screen shows.
type ChartMode string

const (
	ModeCashFlowTrend     ChartMode = "cashflow"
	ModeExpenseByCategory ChartMode = "expense-categories"
	ModeIncomeByCategory  ChartMode = "income-categories"
	ModeExpenseComparison ChartMode = "expense-comparison"
	ModeIncomeComparison  ChartMode = "income-comparison"
)

// CategorySeries is one comparison line: a category and its per-month
// amounts aligned to the shared month axis.
type CategorySeries struct {
	Category string
	Values   []core.Money
}

// ChartState holds everything the charts screen derives from the active
// sheet: the shared month axis, aligned per-kind monthly totals, category
// breakdowns, the per-kind comparison selections, and the drill-down.
// Recompute rebuilds all of it from raw records; nothing is patched
// incrementally.
type ChartState struct {
	mode ChartMode

	months          []string
	expensesByMonth []core.Money
	incomeByMonth   []core.Money

	expenseCategories []report.CategoryTotal
	incomeCategories  []report.CategoryTotal

	expenseSelection *report.Selection
	incomeSelection  *report.Selection

	drillCategory *string
	drillMonth    *string
}

func NewChartState() *ChartState {
	return &ChartState{
		mode:             ModeCashFlowTrend,
		expenseSelection: report.NewSelection(),
		incomeSelection:  report.NewSelection(),
	}
}

// Recompute rebuilds the axis, the aligned monthly totals and the category
// breakdowns, then lets the untouched selections re-seed from the fresh
// breakdowns.
func (c *ChartState) Recompute(expenses, income []core.Record) {
	c.months = report.MonthAxis(expenses, income)
	c.expensesByMonth = report.AlignedTotals(c.months, report.ByMonth(expenses))
	c.incomeByMonth = report.AlignedTotals(c.months, report.ByMonth(income))

	c.expenseCategories = report.CategoryBreakdown(expenses)
	c.incomeCategories = report.CategoryBreakdown(income)

	c.expenseSelection.Seed(c.expenseCategories)
	c.incomeSelection.Seed(c.incomeCategories)
}

func (c *ChartState) Mode() ChartMode {
	return c.mode
}

// SetMode switches charts and clears the drill-down as a side effect.
func (c *ChartState) SetMode(mode ChartMode) {
	c.mode = mode
	c.ClearDrilldown()
}

// Months returns the shared ascending month axis.
func (c *ChartState) Months() []string {
	return c.months
}

// MonthlyTotals returns the kind's totals aligned to Months.
func (c *ChartState) MonthlyTotals(kind core.Kind) []core.Money {
	if kind == core.Income {
		return c.incomeByMonth
	}
	return c.expensesByMonth
}

// Breakdown returns the kind's category totals, largest first.
func (c *ChartState) Breakdown(kind core.Kind) []report.CategoryTotal {
	if kind == core.Income {
		return c.incomeCategories
	}
	return c.expenseCategories
}

// Selection returns the kind's comparison-chart category selection.
func (c *ChartState) Selection(kind core.Kind) *report.Selection {
	if kind == core.Income {
		return c.incomeSelection
	}
	return c.expenseSelection
}

// ComparisonSeries returns one aligned series per selected category, in
// breakdown (largest-first) order.
func (c *ChartState) ComparisonSeries(kind core.Kind, records []core.Record) []CategorySeries {
	sel := c.Selection(kind)
	var out []CategorySeries
	for _, ct := range c.Breakdown(kind) {
		if !sel.Contains(ct.Category) {
			continue
		}
		out = append(out, CategorySeries{
			Category: ct.Category,
			Values:   report.CategorySeries(ct.Category, records, c.months),
		})
	}
	return out
}

// SelectCategory sets the drill-down category.
func (c *ChartState) SelectCategory(category string) {
	c.drillCategory = &category
}

// SelectMonth sets the drill-down month ("YYYY-MM").
func (c *ChartState) SelectMonth(month string) {
	c.drillMonth = &month
}

// ClearDrilldown resets both drill-down selections.
func (c *ChartState) ClearDrilldown() {
	c.drillCategory = nil
	c.drillMonth = nil
}

// Drilldown returns the current selections; empty strings mean unset.
func (c *ChartState) Drilldown() (category, month string) {
	if c.drillCategory != nil {
		category = *c.drillCategory
	}
	if c.drillMonth != nil {
		month = *c.drillMonth
	}
	return category, month
}

// DrilledRecords narrows records to the drill-down selection: only the
// category when no month is set, category and month otherwise. Without a
// selected category there is nothing to show.
func (c *ChartState) DrilledRecords(records []core.Record) []core.Record {
	if c.drillCategory == nil {
		return nil
	}
	month := ""
	if c.drillMonth != nil {
		month = *c.drillMonth
	}
	return report.FilterByCategoryAndMonth(records, *c.drillCategory, month)
}
