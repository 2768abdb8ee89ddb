package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"tally/internal/core"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// recordJSON is the wire shape of a record.
type recordJSON struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Amount      string `json:"amount"`
	AmountCents int64  `json:"amountCents"`
}

func toRecordJSON(r core.Record) recordJSON {
	return recordJSON{
		ID:          r.ID,
		Date:        r.Date.Format("2006-01-02"),
		Name:        r.Name,
		Category:    r.Category,
		Amount:      r.Amount.String(),
		AmountCents: r.Amount.Cents,
	}
}

func toRecordsJSON(records []core.Record) []recordJSON {
	out := make([]recordJSON, len(records))
	for i, r := range records {
		out[i] = toRecordJSON(r)
	}
	return out
}

func amountStrings(values []core.Money) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = v.String()
	}
	return out
}
