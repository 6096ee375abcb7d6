package csvimport

import (
	"encoding/csv"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cycletrack/reconciler/internal/dateutil"
	"github.com/cycletrack/reconciler/internal/fertility"
)

// RowIssue is the shared shape for both row-scoped errors and advisory
// warnings: a row number, the offending field, a message, and the raw
// value that triggered it.
type RowIssue struct {
	Row     int
	Field   string
	Message string
	Value   string
}

// Result is the CSV normalizer's output.
type Result struct {
	Success      bool
	Observations []fertility.Observation
	Errors       []RowIssue
	Warnings     []RowIssue
}

// rawRow is one CSV data row's fields after per-cell normalization, before
// the secondary lift into canonical Observations.
type rawRow struct {
	row          int
	date         time.Time
	temperature  *float64
	cervicalMucus *fertility.CervicalMucusValue
	opk          *fertility.OPKValue
	intercourse  *bool
	notes        string
}

// Normalize parses raw CSV text into a canonical observation stream, with
// row-scoped errors and warnings that never abort the overall pass. The
// only input-shape failure here is a missing date column, which fails the
// whole operation immediately. Success is false whenever any error was
// recorded; warnings alone do not affect it.
func Normalize(text string) Result {
	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil || len(records) == 0 {
		return Result{
			Success: false,
			Errors:  []RowIssue{{Row: 0, Field: "file", Message: "could not read CSV content", Value: ""}},
		}
	}

	header := records[0]
	cm := discoverColumns(header)
	if cm.dateIndex == -1 {
		return Result{
			Success: false,
			Errors:  []RowIssue{{Row: 0, Field: "date", Message: "no column header contains \"date\"", Value: strings.Join(header, ",")}},
		}
	}

	var rows []rawRow
	var errs, warns []RowIssue
	seenDates := make(map[string]bool)

	for i, record := range records[1:] {
		rowNum := i + 2 // 1-indexed, accounting for the header row
		rr, rowErrs, rowWarns := normalizeRow(rowNum, record, cm)
		errs = append(errs, rowErrs...)
		warns = append(warns, rowWarns...)
		if rr == nil {
			continue
		}
		key := dateutil.Format(rr.date)
		if seenDates[key] {
			warns = append(warns, RowIssue{Row: rowNum, Field: "date", Message: "duplicate date", Value: key})
		}
		seenDates[key] = true
		rows = append(rows, *rr)
	}

	sort.SliceStable(rows, func(a, b int) bool {
		return dateutil.Before(rows[a].date, rows[b].date)
	})

	observations := toObservations(rows)

	return Result{
		Success:      len(errs) == 0,
		Observations: observations,
		Errors:       errs,
		Warnings:     warns,
	}
}

// normalizeRow converts one CSV data row into a rawRow, collecting
// per-cell errors and warnings. Returns a nil row (with at least one
// error) when the date cell is missing or unparseable.
func normalizeRow(rowNum int, record []string, cm columnMap) (*rawRow, []RowIssue, []RowIssue) {
	var errs, warns []RowIssue

	if cm.dateIndex >= len(record) {
		errs = append(errs, RowIssue{Row: rowNum, Field: "date", Message: "missing date cell", Value: ""})
		return nil, errs, warns
	}
	rawDate := record[cm.dateIndex]
	date, ok := parseDate(rawDate)
	if !ok {
		errs = append(errs, RowIssue{Row: rowNum, Field: "date", Message: "unparseable date", Value: rawDate})
		return nil, errs, warns
	}

	rr := &rawRow{row: rowNum, date: date}

	if idx, ok := cm.fields[fieldTemperature]; ok && idx < len(record) {
		raw := record[idx]
		if strings.TrimSpace(raw) != "" {
			v, parsed, outOfRange := normalizeTemperature(raw)
			switch {
			case !parsed:
				warns = append(warns, RowIssue{Row: rowNum, Field: "temperature", Message: "non-numeric temperature, dropped", Value: raw})
			case outOfRange:
				warns = append(warns, RowIssue{Row: rowNum, Field: "temperature", Message: "temperature outside plausible range", Value: raw})
				rr.temperature = &v
			default:
				rr.temperature = &v
			}
		}
	}

	if idx, ok := cm.fields[fieldCervicalFluid]; ok && idx < len(record) {
		raw := record[idx]
		if strings.TrimSpace(raw) != "" {
			if v, ok := normalizeCM(raw); ok {
				rr.cervicalMucus = &v
			} else {
				warns = append(warns, RowIssue{Row: rowNum, Field: "cervical_fluid", Message: "unrecognized cervical mucus value", Value: raw})
			}
		}
	}

	if idx, ok := cm.fields[fieldOPK]; ok && idx < len(record) {
		raw := record[idx]
		if strings.TrimSpace(raw) != "" {
			if v, ok := normalizeOPK(raw); ok {
				rr.opk = &v
			} else {
				warns = append(warns, RowIssue{Row: rowNum, Field: "opk", Message: "unrecognized OPK value", Value: raw})
			}
		}
	}

	if idx, ok := cm.fields[fieldIntercourse]; ok && idx < len(record) {
		raw := record[idx]
		if v, ok := normalizeBool(raw); ok {
			rr.intercourse = &v
		} else if strings.TrimSpace(raw) != "" {
			warns = append(warns, RowIssue{Row: rowNum, Field: "intercourse", Message: "unrecognized boolean value", Value: raw})
		}
	}

	if idx, ok := cm.fields[fieldNotes]; ok && idx < len(record) {
		rr.notes = strings.TrimSpace(record[idx])
	}

	return rr, errs, warns
}

// toObservations lifts each raw row into zero, one, or more canonical
// Observations, one per
// present kind, with fresh identifiers and timestamps. A row with
// intercourse=true also yields a symptom observation tagged "intercourse",
// whatever other kinds it carries. Notes are copied onto the row's
// observations; a row with only notes yields no observation.
func toObservations(rows []rawRow) []fertility.Observation {
	var out []fertility.Observation
	for _, rr := range rows {
		if rr.temperature != nil {
			out = append(out, fertility.Observation{
				ID:    fertility.NewID(),
				Date:  rr.date,
				Kind:  fertility.KindBBT,
				BBT:   *rr.temperature,
				Notes: rr.notes,
			})
		}
		if rr.cervicalMucus != nil {
			out = append(out, fertility.Observation{
				ID:            fertility.NewID(),
				Date:          rr.date,
				Kind:          fertility.KindCervicalMucus,
				CervicalMucus: *rr.cervicalMucus,
				Notes:         rr.notes,
			})
		}
		if rr.opk != nil {
			out = append(out, fertility.Observation{
				ID:    fertility.NewID(),
				Date:  rr.date,
				Kind:  fertility.KindOPK,
				OPK:   *rr.opk,
				Notes: rr.notes,
			})
		}
		if rr.intercourse != nil && *rr.intercourse {
			out = append(out, fertility.Observation{
				ID:         fertility.NewID(),
				Date:       rr.date,
				Kind:       fertility.KindSymptom,
				SymptomTag: "intercourse",
				Notes:      rr.notes,
			})
		}
	}
	return out
}

// PreviewRow is one bounded-preview row, with its fields rendered as
// display-ready strings for the CLI's table renderer.
type PreviewRow struct {
	Row             int
	Date            string
	Temperature     string
	CervicalMucus   string
	OPK             string
	IntercourseFlag string
}

// PreviewRows bounds the number of parsed data rows returned for an
// at-a-glance preview render.
func PreviewRows(text string, limit int) ([]PreviewRow, error) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csvimport: reading preview: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	cm := discoverColumns(records[0])
	var out []PreviewRow
	for i, record := range records[1:] {
		if len(out) >= limit {
			break
		}
		rr, _, _ := normalizeRow(i+2, record, cm)
		if rr == nil {
			continue
		}
		out = append(out, rr.preview())
	}
	return out, nil
}

func (rr rawRow) preview() PreviewRow {
	p := PreviewRow{Row: rr.row, Date: dateutil.Format(rr.date)}
	if rr.temperature != nil {
		p.Temperature = fmt.Sprintf("%.1f", *rr.temperature)
	}
	if rr.cervicalMucus != nil {
		p.CervicalMucus = string(*rr.cervicalMucus)
	}
	if rr.opk != nil {
		p.OPK = string(*rr.opk)
	}
	if rr.intercourse != nil {
		p.IntercourseFlag = fmt.Sprintf("%v", *rr.intercourse)
	}
	return p
}
