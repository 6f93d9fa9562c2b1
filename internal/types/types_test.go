package types

import (
	"reflect"
	"testing"
)

func TestKeyColumns(t *testing.T) {
	got := KeyColumns([]string{"Ref", " Pays ", "", "Pays", "", "Ref", "Pays"})
	want := []string{"Ref", "Pays", "__EMPTY", "Pays_1", "__EMPTY_1", "Ref_1", "Pays_2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("KeyColumns = %v, want %v", got, want)
	}
}

func TestNewRawRowFillsMissingCells(t *testing.T) {
	row := NewRawRow(3, []string{"a", "b", "c"}, []string{"1"})
	if row.Number != 3 {
		t.Errorf("Number = %d", row.Number)
	}
	for _, col := range []string{"b", "c"} {
		v, present := row.Values[col]
		if !present || v != "" {
			t.Errorf("column %q = (%q, %v), want explicit empty", col, v, present)
		}
	}
	if row.Get("a") != "1" {
		t.Errorf("Get(a) = %q", row.Get("a"))
	}
}

func TestFamilyKey(t *testing.T) {
	if (ParsedFamily{}).Key() != NoReferenceKey {
		t.Error("empty reference should use the sentinel key")
	}
	if (ParsedFamily{ReferenceFamille: "FAM1"}).Key() != "FAM1" {
		t.Error("unexpected key")
	}
}
