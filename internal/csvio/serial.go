package csvio

import "time"

// excelEpoch is 1899-12-30 UTC. Spreadsheets using the 1900 date system
// count 1900 as a leap year (the Lotus 1-2-3 bug), so the epoch sits two
// days before 1900-01-01 to make serial arithmetic come out right: serial 1
// is 1899-12-31 and serial 25569 is 1970-01-01.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// ExcelSerialToDate converts a 1900-date-system serial day count to a UTC
// time. Fractional serials carry into the time of day. There is no bounds
// checking; zero and negative serials resolve to dates before the epoch.
//
// A future spreadsheet importer will feed cell values through this; nothing
// in the CSV path uses it.
func ExcelSerialToDate(serial float64) time.Time {
	seconds := serial * 86400
	return excelEpoch.Add(time.Duration(seconds * float64(time.Second)))
}
