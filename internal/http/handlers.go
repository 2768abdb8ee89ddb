package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"tally/internal/charts"
	"tally/internal/core"
	"tally/internal/log"
	"tally/internal/session"
	"tally/internal/store"
)

func (s *Server) handleListSheets(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"sheets":  s.session.SheetNames(),
		"current": s.session.CurrentSheet(),
	})
}

func (s *Server) handleCreateSheet(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.session.CreateSheet(r.Context(), req.Name); err != nil {
		s.session.ClearError()
		if errors.Is(err, store.ErrSheetExists) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"sheets":  s.session.SheetNames(),
		"current": s.session.CurrentSheet(),
	})
}

func (s *Server) handleSelectSheet(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	known := false
	for _, name := range s.session.SheetNames() {
		if name == req.Name {
			known = true
			break
		}
	}
	if !known {
		writeError(w, http.StatusNotFound, "unknown sheet")
		return
	}

	if err := s.session.SwitchSheet(r.Context(), req.Name); err != nil {
		s.session.ClearError()
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"current": s.session.CurrentSheet()})
}

func (s *Server) handleDeleteSheet(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.session.DeleteSheet(r.Context(), name); err != nil {
		s.session.ClearError()
		if errors.Is(err, store.ErrCannotDeleteDefault) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"sheets":  s.session.SheetNames(),
		"current": s.session.CurrentSheet(),
	})
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	kind, err := core.ParseKind(r.URL.Query().Get("kind"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ledger := s.session.Ledger(kind)
	if v := strings.TrimSpace(r.URL.Query().Get("page")); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid page")
			return
		}
		ledger.SetPage(page)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"records":    toRecordsJSON(ledger.PageRecords()),
		"page":       ledger.Page(),
		"totalPages": ledger.TotalPages(),
		"label":      ledger.PageLabel(),
		"total":      ledger.Total().String(),
		"categories": ledger.Categories(),
	})
}

func (s *Server) handleSaveRecord(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Kind     string `json:"kind"`
		ID       string `json:"id"`
		Date     string `json:"date"`
		Name     string `json:"name"`
		Category string `json:"category"`
		Amount   string `json:"amount"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	kind, err := core.ParseKind(req.Kind)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	date, err := core.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid date")
		return
	}
	if _, err := core.ParseMoney(req.Amount); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid amount")
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Category) == "" {
		writeError(w, http.StatusUnprocessableEntity, "name and category are required")
		return
	}
	// The add-new marker is picker UI state, not a category.
	if req.Category == session.AddNewSentinel {
		writeError(w, http.StatusUnprocessableEntity, "invalid category")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ledger := s.session.Ledger(kind)
	status := http.StatusCreated
	if req.ID != "" {
		var existing *core.Record
		for _, rec := range ledger.Records() {
			if rec.ID == req.ID {
				existing = &rec
				break
			}
		}
		if existing == nil {
			writeError(w, http.StatusNotFound, store.ErrRecordNotFound.Error())
			return
		}
		ledger.StartEditing(*existing)
		status = http.StatusOK
	}

	ledger.FormDate = date
	ledger.FormName = req.Name
	ledger.FormAmount = req.Amount
	ledger.Picker.Select(req.Category)

	if err := s.session.Save(r.Context(), kind); err != nil {
		s.session.ClearError()
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, status, map[string]any{
		"total": ledger.Total().String(),
		"label": ledger.PageLabel(),
	})
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	kind, err := core.ParseKind(r.URL.Query().Get("kind"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.session.DeleteRecord(r.Context(), kind, r.PathValue("id")); err != nil {
		s.session.ClearError()
		if errors.Is(err, store.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total": s.session.Ledger(kind).Total().String(),
	})
}

type categoryTotalJSON struct {
	Category string `json:"category"`
	Amount   string `json:"amount"`
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.session.Charts
	expenseBreakdown := make([]categoryTotalJSON, 0)
	for _, ct := range c.Breakdown(core.Expense) {
		expenseBreakdown = append(expenseBreakdown, categoryTotalJSON{ct.Category, ct.Amount.String()})
	}
	incomeBreakdown := make([]categoryTotalJSON, 0)
	for _, ct := range c.Breakdown(core.Income) {
		incomeBreakdown = append(incomeBreakdown, categoryTotalJSON{ct.Category, ct.Amount.String()})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"sheet":             s.session.CurrentSheet(),
		"totalExpenses":     s.session.Expenses.Total().String(),
		"totalIncome":       s.session.Income.Total().String(),
		"cashFlow":          s.session.CashFlow().String(),
		"months":            c.Months(),
		"expensesByMonth":   amountStrings(c.MonthlyTotals(core.Expense)),
		"incomeByMonth":     amountStrings(c.MonthlyTotals(core.Income)),
		"expenseCategories": expenseBreakdown,
		"incomeCategories":  incomeBreakdown,
	})
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	body, err := s.session.ExportCSV(r.Context())
	if err != nil {
		s.session.ClearError()
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+s.session.CurrentSheet()+`.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

func (s *Server) handleImportCSV(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 10<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read request body: "+err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rep, err := s.session.ImportCSV(r.Context(), string(body))
	if err != nil {
		s.session.ClearError()
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"imported": rep.Parsed,
		"skipped":  rep.Skipped,
	})
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	mode := session.ChartMode(r.PathValue("mode"))

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.session.Charts
	var (
		img []byte
		err error
	)
	switch mode {
	case session.ModeCashFlowTrend:
		img, err = s.renderer.CashFlowTrend(c.Months(),
			c.MonthlyTotals(core.Expense), c.MonthlyTotals(core.Income))
	case session.ModeExpenseByCategory:
		img, err = s.renderer.CategoryPie("Expenses by category", c.Breakdown(core.Expense))
	case session.ModeIncomeByCategory:
		img, err = s.renderer.CategoryPie("Income by category", c.Breakdown(core.Income))
	case session.ModeExpenseComparison:
		img, err = s.renderComparison(core.Expense)
	case session.ModeIncomeComparison:
		img, err = s.renderComparison(core.Income)
	default:
		writeError(w, http.StatusNotFound, "unknown chart mode")
		return
	}
	// Keep the session's notion of the visible chart in sync; switching
	// modes also clears any drill-down.
	if c.Mode() != mode {
		c.SetMode(mode)
	}

	if err != nil {
		log.FromContext(r.Context()).Error("Chart rendering failed", "mode", string(mode), "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if img == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img)
}

func (s *Server) renderComparison(kind core.Kind) ([]byte, error) {
	c := s.session.Charts
	series := c.ComparisonSeries(kind, s.session.Ledger(kind).Records())
	lines := make([]charts.Line, len(series))
	for i, cs := range series {
		lines[i] = charts.Line{Name: cs.Category, Values: cs.Values}
	}
	return s.renderer.Comparison(c.Months(), lines)
}

func (s *Server) handleToggleSelection(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Kind     string `json:"kind"`
		Category string `json:"category"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	kind, err := core.ParseKind(req.Kind)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Category) == "" {
		writeError(w, http.StatusUnprocessableEntity, "category is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sel := s.session.Charts.Selection(kind)
	sel.Toggle(req.Category)

	var order []string
	for _, ct := range s.session.Charts.Breakdown(kind) {
		order = append(order, ct.Category)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"selected": sel.Ordered(order),
	})
}

func (s *Server) handleDrilldown(w http.ResponseWriter, r *http.Request) {
	kind, err := core.ParseKind(r.URL.Query().Get("kind"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	category := strings.TrimSpace(r.URL.Query().Get("category"))
	if category == "" {
		writeError(w, http.StatusUnprocessableEntity, "category is required")
		return
	}
	month := strings.TrimSpace(r.URL.Query().Get("month"))

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.session.Charts
	c.SelectCategory(category)
	if month != "" {
		c.SelectMonth(month)
	}
	records := c.DrilledRecords(s.session.Ledger(kind).Records())
	writeJSON(w, http.StatusOK, map[string]any{
		"category": category,
		"month":    month,
		"records":  toRecordsJSON(records),
	})
}
