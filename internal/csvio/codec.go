// Package csvio serializes records to the tally CSV dialect and parses that
// dialect back.
//
// The dialect is deliberately small and lenient: a fixed five-column header,
// rows joined by "\n", minimal quoting on export, and silent per-row skipping
// on import. Import never fails for malformed content: a body where every
// row is bad simply yields zero records. Parse reports skip counts for
// observability; the counts change nothing about the behavior.
package csvio

import (
	"strings"

	"tally/internal/core"
)

// Header is the fixed first line of every export.
const Header = "type,date,name,category,amount"

const numFields = 5

// Row is one successfully parsed data line.
type Row struct {
	Kind   core.Kind
	Record core.Record // ID and Sheet are unset; the importer assigns them
}

// Report counts what happened during a Parse.
type Report struct {
	Parsed  int
	Skipped int
}

// Export renders expenses then income under the header. No trailing newline.
func Export(expenses, income []core.Record) string {
	lines := make([]string, 0, 1+len(expenses)+len(income))
	lines = append(lines, Header)
	for _, r := range expenses {
		lines = append(lines, formatRow(core.Expense, r))
	}
	for _, r := range income {
		lines = append(lines, formatRow(core.Income, r))
	}
	return strings.Join(lines, "\n")
}

func formatRow(kind core.Kind, r core.Record) string {
	return string(kind) + "," +
		r.Date.String() + "," +
		escape(r.Name) + "," +
		escape(r.Category) + "," +
		r.Amount.String()
}

// escape wraps a field in double quotes, doubling internal quotes, only when
// the raw value would break the row grammar.
func escape(value string) string {
	if strings.ContainsAny(value, ",\"\n") {
		return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
	}
	return value
}

// Parse scans a CSV body exported by Export. The header line is dropped; a
// body with fewer than two non-empty lines yields nothing. Data lines are
// skipped silently when the field count is wrong, the type tag is
// unrecognized, or the date or amount does not parse.
func Parse(data string) ([]Row, Report) {
	var lines []string
	for _, line := range strings.Split(data, "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) < 2 {
		return nil, Report{}
	}

	var rows []Row
	var rep Report
	for _, line := range lines[1:] {
		fields := splitLine(line)
		if len(fields) != numFields {
			rep.Skipped++
			continue
		}
		kind, err := core.ParseKind(fields[0])
		if err != nil {
			rep.Skipped++
			continue
		}
		date, err := core.ParseDate(fields[1])
		if err != nil {
			rep.Skipped++
			continue
		}
		amount, err := core.ParseMoney(fields[4])
		if err != nil {
			rep.Skipped++
			continue
		}
		rows = append(rows, Row{
			Kind: kind,
			Record: core.Record{
				Date:     date,
				Name:     fields[2],
				Category: fields[3],
				Amount:   amount,
			},
		})
		rep.Parsed++
	}
	return rows, rep
}

// splitLine separates one line into fields with a running in-quotes flag.
// A doubled "" inside a quoted field emits one literal quote and stays
// quoted; a comma splits only outside quotes. Quote and comma are ASCII, so
// byte-wise scanning passes multi-byte runes through untouched.
func splitLine(line string) []string {
	var fields []string
	var cur strings.Builder
	inQuotes := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				cur.WriteByte('"')
				i++
				continue
			}
			inQuotes = !inQuotes
		case c == ',' && !inQuotes:
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	fields = append(fields, cur.String())
	return fields
}
