package drift

import (
	"testing"

	"github.com/alexanderjulianmartinez/sourcedesc/pkg/types"
)

func findIssue(rep *Report, kind, column string) *Issue {
	for i, iss := range rep.Issues {
		if iss.Kind == kind && iss.Column == column {
			return &rep.Issues[i]
		}
	}
	return nil
}

func TestColumnAdded(t *testing.T) {
	declared := []Column{{Name: "a", Kind: types.KindInt64}}
	schema := []Column{{Name: "a", Kind: types.KindInt64}, {Name: "b", Kind: types.KindVarchar}}
	rep := Validate(declared, schema)
	iss := findIssue(rep, "column_added", "b")
	if iss == nil {
		t.Fatalf("expected to find column_added issue for b, got %v", rep.Issues)
	}
	if iss.Severity != SeverityInfo {
		t.Fatalf("expected INFO severity, got %s", iss.Severity)
	}
}

func TestColumnRemoved(t *testing.T) {
	declared := []Column{{Name: "a", Kind: types.KindInt64, PK: true}, {Name: "b", Kind: types.KindVarchar}}
	schema := []Column{{Name: "a", Kind: types.KindInt64}}
	rep := Validate(declared, schema)
	iss := findIssue(rep, "column_removed", "b")
	if iss == nil || iss.Severity != SeverityWarn {
		t.Fatalf("expected WARN column_removed issue for b, got %v", rep.Issues)
	}
	if rep.Blocking() {
		t.Fatalf("did not expect a blocking report")
	}
}

func TestPKColumnRemoved(t *testing.T) {
	declared := []Column{{Name: "id", Kind: types.KindInt64, PK: true}, {Name: "b", Kind: types.KindVarchar}}
	schema := []Column{{Name: "b", Kind: types.KindVarchar}}
	rep := Validate(declared, schema)
	if findIssue(rep, "pk_column_removed", "id") == nil {
		t.Fatalf("expected pk_column_removed issue for id, got %v", rep.Issues)
	}
	if !rep.Blocking() {
		t.Fatalf("expected a blocking report")
	}
}

func TestTypeChanged(t *testing.T) {
	declared := []Column{{Name: "a", Kind: types.KindInt32}}
	schema := []Column{{Name: "a", Kind: types.KindVarchar}}
	rep := Validate(declared, schema)
	iss := findIssue(rep, "type_changed", "a")
	if iss == nil || iss.FromType != "int32" || iss.ToType != "varchar" {
		t.Fatalf("expected to find type_changed issue from int32 to varchar, got %v", rep.Issues)
	}
	if iss.Severity != SeverityForChange("type_changed") {
		t.Fatalf("unexpected severity %s", iss.Severity)
	}
}

func TestCompatibleKinds(t *testing.T) {
	tests := []struct {
		declared, actual types.Kind
		want             bool
	}{
		{types.KindInt64, types.KindInt32, true},
		{types.KindFloat64, types.KindInt64, true},
		{types.KindDecimal, types.KindVarchar, true},
		{types.KindFloat64, types.KindVarchar, false},
		{types.KindTimestamptz, types.KindInt64, true},
		{types.KindVarchar, types.KindStruct, true},
		{types.KindStruct, types.KindList, false},
		{types.KindBoolean, types.KindInt16, false},
		{types.KindBytea, types.KindInvalid, true},
	}
	for _, tt := range tests {
		if got := compatible(tt.declared, tt.actual); got != tt.want {
			t.Errorf("compatible(%s, %s) = %v, want %v", tt.declared, tt.actual, got, tt.want)
		}
	}
}

func TestNoDrift(t *testing.T) {
	cols := []Column{{Name: "a", Kind: types.KindInt64}, {Name: "b", Kind: types.KindVarchar}}
	rep := Validate(cols, cols)
	if len(rep.Issues) != 0 {
		t.Fatalf("expected no issues, got %v", rep.Issues)
	}
}
