package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tally/internal/charts"
	"tally/internal/log"
	"tally/internal/session"
	"tally/internal/store/memory"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mem := memory.New()
	sess := session.New(mem, mem)
	if err := sess.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	srv := NewServer(":0", sess, charts.NewRenderer(400, 300), log.New(log.DefaultConfig()))
	ts := httptest.NewServer(srv.Server.Handler)
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatal(err)
	}
}

func saveRecord(t *testing.T, ts *httptest.Server, kind, date, name, category, amount string) {
	t.Helper()
	resp := doJSON(t, http.MethodPost, ts.URL+"/records", map[string]string{
		"kind": kind, "date": date, "name": name, "category": category, "amount": amount,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("save record: unexpected status %d", resp.StatusCode)
	}
}

func TestHealthEndpoints(t *testing.T) {
	ts := newTestServer(t)
	for _, path := range []string{"/healthz", "/readyz"} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: unexpected status %d", path, resp.StatusCode)
		}
	}
}

func TestRecordLifecycle(t *testing.T) {
	ts := newTestServer(t)
	saveRecord(t, ts, "expense", "2024-01-05", "groceries", "food", "100")
	saveRecord(t, ts, "expense", "2024-02-01", "rent", "rent", "900")

	var list struct {
		Records []struct {
			ID     string `json:"id"`
			Name   string `json:"name"`
			Amount string `json:"amount"`
		} `json:"records"`
		Label string `json:"label"`
		Total string `json:"total"`
	}
	resp := doJSON(t, http.MethodGet, ts.URL+"/records?kind=expense", nil)
	decodeBody(t, resp, &list)
	if len(list.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(list.Records))
	}
	if list.Total != "1000" {
		t.Fatalf("unexpected total %q", list.Total)
	}
	if list.Label != "Showing 1–2 of 2" {
		t.Fatalf("unexpected label %q", list.Label)
	}
	// Newest date first.
	if list.Records[0].Name != "rent" {
		t.Fatalf("expected newest record first, got %q", list.Records[0].Name)
	}

	// Edit in place.
	resp = doJSON(t, http.MethodPost, ts.URL+"/records", map[string]string{
		"kind": "expense", "id": list.Records[1].ID,
		"date": "2024-01-05", "name": "groceries", "category": "food", "amount": "120",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update: unexpected status %d", resp.StatusCode)
	}

	// Delete the other record.
	resp = doJSON(t, http.MethodDelete, ts.URL+"/records/"+list.Records[0].ID+"?kind=expense", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete: unexpected status %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodGet, ts.URL+"/records?kind=expense", nil)
	decodeBody(t, resp, &list)
	if len(list.Records) != 1 || list.Records[0].Amount != "120" {
		t.Fatalf("unexpected records after edit and delete: %+v", list.Records)
	}
}

func TestSaveRecordValidation(t *testing.T) {
	ts := newTestServer(t)

	cases := []struct {
		name   string
		body   map[string]string
		status int
	}{
		{"bad kind", map[string]string{"kind": "loan", "date": "2024-01-05", "name": "x", "category": "y", "amount": "1"}, http.StatusBadRequest},
		{"bad date", map[string]string{"kind": "expense", "date": "05/01/2024", "name": "x", "category": "y", "amount": "1"}, http.StatusUnprocessableEntity},
		{"bad amount", map[string]string{"kind": "expense", "date": "2024-01-05", "name": "x", "category": "y", "amount": "0"}, http.StatusUnprocessableEntity},
		{"blank name", map[string]string{"kind": "expense", "date": "2024-01-05", "name": " ", "category": "y", "amount": "1"}, http.StatusUnprocessableEntity},
		{"sentinel category", map[string]string{"kind": "expense", "date": "2024-01-05", "name": "x", "category": session.AddNewSentinel, "amount": "1"}, http.StatusUnprocessableEntity},
		{"unknown id", map[string]string{"kind": "expense", "id": "nope", "date": "2024-01-05", "name": "x", "category": "y", "amount": "1"}, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doJSON(t, http.MethodPost, ts.URL+"/records", tc.body)
			if resp.StatusCode != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, resp.StatusCode)
			}
		})
	}
}

func TestSheetEndpoints(t *testing.T) {
	ts := newTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/sheets", map[string]string{"name": "trip"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create sheet: unexpected status %d", resp.StatusCode)
	}
	var state struct {
		Sheets  []string `json:"sheets"`
		Current string   `json:"current"`
	}
	decodeBody(t, resp, &state)
	if state.Current != "trip" || len(state.Sheets) != 2 {
		t.Fatalf("unexpected state after create: %+v", state)
	}

	resp = doJSON(t, http.MethodPost, ts.URL+"/sheets", map[string]string{"name": "trip"})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate sheet: expected 409, got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPost, ts.URL+"/sheets/select", map[string]string{"name": "default"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("select sheet: unexpected status %d", resp.StatusCode)
	}
	resp = doJSON(t, http.MethodPost, ts.URL+"/sheets/select", map[string]string{"name": "ghost"})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("select unknown sheet: expected 404, got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodDelete, ts.URL+"/sheets/trip", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete sheet: unexpected status %d", resp.StatusCode)
	}
	resp = doJSON(t, http.MethodDelete, ts.URL+"/sheets/default", nil)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("delete default: expected 422, got %d", resp.StatusCode)
	}
}

func TestReportEndpoint(t *testing.T) {
	ts := newTestServer(t)
	saveRecord(t, ts, "expense", "2024-01-05", "groceries", "food", "100")
	saveRecord(t, ts, "income", "2024-01-10", "pay", "salary", "300")

	var rep struct {
		TotalExpenses   string   `json:"totalExpenses"`
		TotalIncome     string   `json:"totalIncome"`
		CashFlow        string   `json:"cashFlow"`
		Months          []string `json:"months"`
		ExpensesByMonth []string `json:"expensesByMonth"`
	}
	resp := doJSON(t, http.MethodGet, ts.URL+"/report", nil)
	decodeBody(t, resp, &rep)
	if rep.TotalExpenses != "100" || rep.TotalIncome != "300" || rep.CashFlow != "200" {
		t.Fatalf("unexpected totals: %+v", rep)
	}
	if len(rep.Months) != 1 || rep.Months[0] != "2024-01" {
		t.Fatalf("unexpected months: %v", rep.Months)
	}
	if len(rep.ExpensesByMonth) != 1 || rep.ExpensesByMonth[0] != "100" {
		t.Fatalf("unexpected monthly expenses: %v", rep.ExpensesByMonth)
	}
}

func TestCSVEndpoints(t *testing.T) {
	ts := newTestServer(t)
	saveRecord(t, ts, "expense", "2024-01-05", "Coffee, Tea", "food", "3.50")

	resp, err := http.Get(ts.URL + "/export")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("unexpected content type %q", ct)
	}
	var body bytes.Buffer
	if _, err := body.ReadFrom(resp.Body); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(body.String(), `"Coffee, Tea"`) {
		t.Fatalf("export must quote the comma: %q", body.String())
	}

	// Import the export into a fresh sheet.
	if resp := doJSON(t, http.MethodPost, ts.URL+"/sheets", map[string]string{"name": "copy"}); resp.StatusCode != http.StatusCreated {
		t.Fatalf("create sheet: unexpected status %d", resp.StatusCode)
	}
	impResp, err := http.Post(ts.URL+"/import", "text/csv", &body)
	if err != nil {
		t.Fatal(err)
	}
	defer impResp.Body.Close()
	var rep struct {
		Imported int `json:"imported"`
		Skipped  int `json:"skipped"`
	}
	decodeBody(t, impResp, &rep)
	if rep.Imported != 1 || rep.Skipped != 0 {
		t.Fatalf("unexpected import report: %+v", rep)
	}
}

func TestChartEndpoints(t *testing.T) {
	ts := newTestServer(t)

	// Nothing to draw yet.
	resp := doJSON(t, http.MethodGet, ts.URL+"/charts/cashflow", nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("empty chart: expected 204, got %d", resp.StatusCode)
	}

	saveRecord(t, ts, "expense", "2024-01-05", "groceries", "food", "100")
	saveRecord(t, ts, "income", "2024-01-10", "pay", "salary", "300")

	for _, mode := range []string{"cashflow", "expense-categories", "income-categories", "expense-comparison"} {
		resp := doJSON(t, http.MethodGet, ts.URL+"/charts/"+mode, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: unexpected status %d", mode, resp.StatusCode)
		}
		if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
			t.Fatalf("%s: unexpected content type %q", mode, ct)
		}
	}

	resp = doJSON(t, http.MethodGet, ts.URL+"/charts/sparkline", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown mode: expected 404, got %d", resp.StatusCode)
	}
}

func TestSelectionAndDrilldownEndpoints(t *testing.T) {
	ts := newTestServer(t)
	saveRecord(t, ts, "expense", "2024-01-05", "groceries", "food", "100")
	saveRecord(t, ts, "expense", "2024-02-01", "groceries", "food", "50")
	saveRecord(t, ts, "expense", "2024-01-07", "rent", "rent", "900")

	var sel struct {
		Selected []string `json:"selected"`
	}
	resp := doJSON(t, http.MethodPost, ts.URL+"/charts/selection", map[string]string{"kind": "expense", "category": "rent"})
	decodeBody(t, resp, &sel)
	// rent and food were seeded; the toggle removes rent.
	if len(sel.Selected) != 1 || sel.Selected[0] != "food" {
		t.Fatalf("unexpected selection: %v", sel.Selected)
	}

	var drill struct {
		Records []struct {
			Name string `json:"name"`
		} `json:"records"`
	}
	resp = doJSON(t, http.MethodGet, ts.URL+"/charts/drilldown?kind=expense&category=food&month=2024-01", nil)
	decodeBody(t, resp, &drill)
	if len(drill.Records) != 1 || drill.Records[0].Name != "groceries" {
		t.Fatalf("unexpected drill-down records: %+v", drill.Records)
	}
}
