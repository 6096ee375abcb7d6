// Package csvimport turns a raw, one-row-per-day export into a canonical
// observation stream, tolerant of header spelling and date format,
// reporting row-scoped errors and warnings rather than failing the whole
// import.
//
// Built on the tolerant-header style used elsewhere in this module's
// config layer (alias/env lookup) and a row-scoped diagnostics pattern for
// reporting issues without aborting a whole pass; the column/date/synonym
// tables themselves are new.
package csvimport

import "strings"

// field is a canonical column this normalizer understands, beyond the
// mandatory date column.
type field string

const (
	fieldTemperature   field = "temperature"
	fieldCervicalFluid field = "cervical_fluid"
	fieldOPK           field = "opk"
	fieldIntercourse   field = "intercourse"
	fieldNotes         field = "notes"
)

// headerAliases maps a lower-cased header fragment to the canonical field
// it represents. A header matches a field if it equals (case-insensitively)
// any alias exactly, after trimming whitespace.
var headerAliases = map[string]field{
	"temp":          fieldTemperature,
	"temperature":   fieldTemperature,
	"bbt":           fieldTemperature,
	"cervical fluid": fieldCervicalFluid,
	"cf":            fieldCervicalFluid,
	"cm":            fieldCervicalFluid,
	"cervical mucus": fieldCervicalFluid,
	"fluid":         fieldCervicalFluid,
	"opk":           fieldOPK,
	"lh test":       fieldOPK,
	"ovulation test": fieldOPK,
	"intercourse":   fieldIntercourse,
	"bd":            fieldIntercourse,
	"sex":           fieldIntercourse,
	"notes":         fieldNotes,
	"note":          fieldNotes,
	"comments":      fieldNotes,
	"memo":          fieldNotes,
}

// columnMap records, for a parsed header row, which column index holds the
// date and which indices hold each recognized field.
type columnMap struct {
	dateIndex int
	fields    map[field]int
}

// discoverColumns matches columns tolerantly: the date column is any
// header whose lower-cased form contains "date"; other
// columns are matched by exact (case-insensitive, trimmed) alias lookup.
// Unknown columns are ignored. dateIndex is -1 if no date column is found.
func discoverColumns(header []string) columnMap {
	cm := columnMap{dateIndex: -1, fields: make(map[field]int)}
	for i, raw := range header {
		h := strings.ToLower(strings.TrimSpace(raw))
		if cm.dateIndex == -1 && strings.Contains(h, "date") {
			cm.dateIndex = i
			continue
		}
		if f, ok := headerAliases[h]; ok {
			cm.fields[f] = i
		}
	}
	return cm
}

// StructuralValidation reports whether a CSV's header row is usable.
type StructuralValidation struct {
	Valid          bool
	MissingColumns []string
	FoundColumns   []string
}

// ValidateStructure reports whether a CSV header row is usable: valid iff
// a date column was found. FoundColumns lists the canonical fields
// discovered (date always first when present).
func ValidateStructure(header []string) StructuralValidation {
	cm := discoverColumns(header)
	v := StructuralValidation{Valid: cm.dateIndex != -1}
	if cm.dateIndex != -1 {
		v.FoundColumns = append(v.FoundColumns, "date")
	} else {
		v.MissingColumns = append(v.MissingColumns, "date")
	}
	for _, f := range []field{fieldTemperature, fieldCervicalFluid, fieldOPK, fieldIntercourse, fieldNotes} {
		if _, ok := cm.fields[f]; ok {
			v.FoundColumns = append(v.FoundColumns, string(f))
		}
	}
	return v
}
