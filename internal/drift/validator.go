// Package drift compares the columns declared for a stream source with the
// row schema its format carries.
package drift

import (
	"github.com/alexanderjulianmartinez/sourcedesc/pkg/types"
)

// Column is one side of the comparison. PK marks declared key columns.
type Column struct {
	Name string
	Kind types.Kind
	PK   bool
}

type Issue struct {
	Column   string
	Kind     string
	Severity string
	Message  string
	FromType string
	ToType   string
}

type Report struct {
	Issues []Issue
}

// Blocking reports whether any issue has BLOCK severity.
func (r *Report) Blocking() bool {
	for _, iss := range r.Issues {
		if iss.Severity == SeverityBlock {
			return true
		}
	}
	return false
}

// Validate lists the differences between the declared columns and the row
// schema. Issues follow declared order, then row schema order for additions.
func Validate(declared, schema []Column) *Report {
	report := &Report{}
	fields := make(map[string]Column, len(schema))
	for _, f := range schema {
		fields[f.Name] = f
	}
	seen := make(map[string]bool, len(declared))

	for _, col := range declared {
		seen[col.Name] = true
		f, ok := fields[col.Name]
		if !ok {
			kind := "column_removed"
			if col.PK {
				kind = "pk_column_removed"
			}
			report.add(kind, col.Name, "", "")
			continue
		}
		if !compatible(col.Kind, f.Kind) {
			report.add("type_changed", col.Name, col.Kind.String(), f.Kind.String())
		}
	}

	for _, f := range schema {
		if !seen[f.Name] {
			report.add("column_added", f.Name, "", f.Kind.String())
		}
	}
	return report
}

func (r *Report) add(kind, column, from, to string) {
	r.Issues = append(r.Issues, Issue{
		Column:   column,
		Kind:     kind,
		Severity: SeverityForChange(kind),
		Message:  MessageForChange(kind, column, from, to),
		FromType: from,
		ToType:   to,
	})
}

type family int

const (
	familyOther family = iota
	familyBool
	familyInteger
	familyFloat
	familyTemporal
	familyString
	familyBytes
	familyList
	familyStruct
)

func familyOf(k types.Kind) family {
	switch k {
	case types.KindBoolean:
		return familyBool
	case types.KindInt16, types.KindInt32, types.KindInt64:
		return familyInteger
	case types.KindFloat32, types.KindFloat64, types.KindDecimal:
		return familyFloat
	case types.KindDate, types.KindTime, types.KindTimestamp, types.KindTimestamptz, types.KindInterval:
		return familyTemporal
	case types.KindVarchar:
		return familyString
	case types.KindBytea:
		return familyBytes
	case types.KindList:
		return familyList
	case types.KindStruct:
		return familyStruct
	default:
		return familyOther
	}
}

// compatible reports whether values of the row schema kind can be cast to
// the declared kind without changing meaning.
func compatible(declared, actual types.Kind) bool {
	d, a := familyOf(declared), familyOf(actual)
	if d == a || a == familyOther {
		return true
	}
	switch d {
	case familyFloat:
		// integers widen, decimals are often carried as strings
		return a == familyInteger || (declared == types.KindDecimal && a == familyString)
	case familyTemporal:
		// epoch numbers or formatted strings
		return a == familyInteger || a == familyString
	case familyString:
		return true
	}
	return false
}
