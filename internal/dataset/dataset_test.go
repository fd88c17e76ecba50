package dataset

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestFilterPresentTriple(t *testing.T) {
	tbl := SampleTable()
	tests := []struct {
		name string
		sel  Selection
		want []string
	}{
		{"us", Selection{"North America", "North America", "NATO"}, []string{"United States"}},
		{"asia unaligned", Selection{"Asia", "Asia", "None"}, []string{"China", "India"}},
		{"europe", Selection{"Europe", "Europe", "None"}, []string{"Russia"}},
		{"korea", Selection{"Asia", "Asia", "US Ally"}, []string{"South Korea"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Names(tbl.Filter(tt.sel))
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Filter(%+v) = %v, want %v", tt.sel, got, tt.want)
			}
		})
	}
}

func TestFilterAbsentCombination(t *testing.T) {
	rows := SampleTable().Filter(Selection{Region: "Asia", Continent: "Europe", Alliance: "NATO"})
	if rows == nil || len(rows) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", rows)
	}
	for _, f := range []string{FieldPowerIndex, FieldMilitaryBudget, FieldGDP, FieldPersonnel} {
		mean, err := Mean(rows, f)
		if err != nil || mean != 0 {
			t.Errorf("Mean(%s) = %v, %v; want 0", f, mean, err)
		}
		sum, err := Sum(rows, f)
		if err != nil || sum != 0 {
			t.Errorf("Sum(%s) = %v, %v; want 0", f, sum, err)
		}
	}
	if SumPersonnel(rows) != 0 {
		t.Errorf("SumPersonnel on empty = %d", SumPersonnel(rows))
	}
}

func TestFilterIsCaseSensitive(t *testing.T) {
	rows := SampleTable().Filter(Selection{"asia", "asia", "none"})
	if len(rows) != 0 {
		t.Fatalf("expected no rows for lower-case selection, got %v", Names(rows))
	}
}

func TestUniqueFirstAppearanceOrder(t *testing.T) {
	tbl := SampleTable()
	tests := []struct {
		field string
		want  []string
	}{
		{FieldRegion, []string{"North America", "Europe", "Asia"}},
		{FieldContinent, []string{"North America", "Europe", "Asia"}},
		{FieldAlliance, []string{"NATO", "None", "US Ally"}},
	}
	for _, tt := range tests {
		got, err := tbl.Unique(tt.field)
		if err != nil {
			t.Fatalf("Unique(%s): %v", tt.field, err)
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Unique(%s) = %v, want %v", tt.field, got, tt.want)
		}
	}
	if _, err := tbl.Unique("Budget"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if _, err := tbl.Unique(FieldCountry); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField for Country, got %v", err)
	}
}

func TestNSmallestPowerIndex(t *testing.T) {
	got, err := SampleTable().NSmallest(5, FieldPowerIndex)
	if err != nil {
		t.Fatalf("NSmallest: %v", err)
	}
	want := []string{"United States", "Russia", "China", "India", "South Korea"}
	if !reflect.DeepEqual(Names(got), want) {
		t.Fatalf("NSmallest = %v, want %v", Names(got), want)
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].PowerIndex > got[i].PowerIndex {
			t.Fatalf("not ascending at %d: %v > %v", i, got[i-1].PowerIndex, got[i].PowerIndex)
		}
	}
}

func TestNSmallestTiesKeepTableOrder(t *testing.T) {
	rows := []Country{
		{Name: "A", PowerIndex: 0.2, Region: "r", Continent: "c", Alliance: "a"},
		{Name: "B", PowerIndex: 0.1, Region: "r", Continent: "c", Alliance: "a"},
		{Name: "C", PowerIndex: 0.2, Region: "r", Continent: "c", Alliance: "a"},
		{Name: "D", PowerIndex: 0.1, Region: "r", Continent: "c", Alliance: "a"},
	}
	tbl, err := NewTable(rows)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	got, err := tbl.NSmallest(3, FieldPowerIndex)
	if err != nil {
		t.Fatalf("NSmallest: %v", err)
	}
	if want := []string{"B", "D", "A"}; !reflect.DeepEqual(Names(got), want) {
		t.Fatalf("NSmallest = %v, want %v", Names(got), want)
	}
	all, _ := tbl.NSmallest(10, FieldPowerIndex)
	if len(all) != 4 {
		t.Fatalf("n > len should return every row, got %d", len(all))
	}
	none, _ := tbl.NSmallest(0, FieldPowerIndex)
	if len(none) != 0 {
		t.Fatalf("n = 0 should return no rows, got %d", len(none))
	}
	if _, err := tbl.NSmallest(3, FieldRegion); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestAggregatesOverSubset(t *testing.T) {
	rows := SampleTable().Filter(Selection{"Asia", "Asia", "None"})
	mean, _ := Mean(rows, FieldPowerIndex)
	if math.Abs(mean-0.0875) > 1e-9 {
		t.Errorf("mean power index = %v, want 0.0875", mean)
	}
	budget, _ := Sum(rows, FieldMilitaryBudget)
	if budget != 373 {
		t.Errorf("budget = %v, want 373", budget)
	}
	gdp, _ := Mean(rows, FieldGDP)
	if math.Abs(gdp-10.8) > 1e-9 {
		t.Errorf("mean gdp = %v, want 10.8", gdp)
	}
	if got := SumPersonnel(rows); got != 3450000 {
		t.Errorf("personnel = %d, want 3450000", got)
	}
	if _, err := Mean(rows, "Nope"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("expected ErrUnknownField, got %v", err)
	}
}

func TestNewTableRejectsBadRows(t *testing.T) {
	good := Country{Name: "X", PowerIndex: 0.1, Region: "r", Continent: "c", Alliance: "a"}
	bad := []struct {
		name string
		rows []Country
	}{
		{"empty name", []Country{{PowerIndex: 0.1, Region: "r", Continent: "c", Alliance: "a"}}},
		{"nan", []Country{{Name: "X", PowerIndex: math.NaN(), Region: "r", Continent: "c", Alliance: "a"}}},
		{"negative budget", []Country{{Name: "X", MilitaryBudget: -1, Region: "r", Continent: "c", Alliance: "a"}}},
		{"negative personnel", []Country{{Name: "X", Personnel: -5, Region: "r", Continent: "c", Alliance: "a"}}},
		{"missing alliance", []Country{{Name: "X", Region: "r", Continent: "c"}}},
		{"duplicate", []Country{good, good}},
	}
	for _, tt := range bad {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewTable(tt.rows); !errors.Is(err, ErrInvalidRecord) {
				t.Fatalf("expected ErrInvalidRecord, got %v", err)
			}
		})
	}
}

func TestRowsReturnsCopy(t *testing.T) {
	tbl := SampleTable()
	rows := tbl.Rows()
	rows[0].Name = "Changed"
	if tbl.Rows()[0].Name != "United States" {
		t.Fatal("table mutated through Rows()")
	}
	if tbl.Len() != 5 {
		t.Fatalf("Len = %d, want 5", tbl.Len())
	}
}
