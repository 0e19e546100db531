// Package dimdate generates the calendar dimension. The dimension is fully
// regenerated each run for a fixed inclusive range and is independent of any
// fact data; facts are not required to fall within it.
package dimdate

import (
	"fmt"
	"time"
)

const layout = "2006-01-02"

// Row is one calendar day. DateID is the date as an 8-digit YYYYMMDD
// integer; Week is the ISO-8601 week number.
type Row struct {
	DateID    int64
	FullDate  string
	Year      int
	Month     int
	MonthName string
	Day       int
	Week      int
}

// RangeError reports an unusable date range: unparseable bounds or
// end before start.
type RangeError struct {
	Start string
	End   string
	Msg   string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("date range %q..%q: %s", e.Start, e.End, e.Msg)
}

// Generate produces one row per day in [start, end], both inclusive, both
// formatted YYYY-MM-DD. The result has exactly (end-start).days + 1 rows.
func Generate(start, end string) ([]Row, error) {
	s, err := time.ParseInLocation(layout, start, time.UTC)
	if err != nil {
		return nil, &RangeError{Start: start, End: end, Msg: "start is not a YYYY-MM-DD date"}
	}
	e, err := time.ParseInLocation(layout, end, time.UTC)
	if err != nil {
		return nil, &RangeError{Start: start, End: end, Msg: "end is not a YYYY-MM-DD date"}
	}
	if e.Before(s) {
		return nil, &RangeError{Start: start, End: end, Msg: "end precedes start"}
	}

	days := int(e.Sub(s).Hours()/24) + 1
	out := make([]Row, 0, days)
	for d := s; !d.After(e); d = d.AddDate(0, 0, 1) {
		y, m, day := d.Date()
		_, week := d.ISOWeek()
		out = append(out, Row{
			DateID:    int64(y)*10000 + int64(m)*100 + int64(day),
			FullDate:  d.Format("01/02/2006"),
			Year:      y,
			Month:     int(m),
			MonthName: m.String(),
			Day:       day,
			Week:      week,
		})
	}
	return out, nil
}

// Columns returns the dim_date column order used by Values.
func Columns() []string {
	return []string{"date_id", "full_date", "year", "month", "month_name", "day", "week"}
}

// Values converts generated rows into the positional form the storage layer
// inserts, aligned to Columns.
func Values(rows []Row) [][]any {
	out := make([][]any, 0, len(rows))
	for _, r := range rows {
		out = append(out, []any{r.DateID, r.FullDate, r.Year, r.Month, r.MonthName, r.Day, r.Week})
	}
	return out
}
