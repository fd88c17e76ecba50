// Package dataset holds the country record set behind the dashboard and the few table
// operations the pages need: equality filtering, distinct values, smallest-N and aggregates.
package dataset

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	ErrUnknownField  = errors.New("unknown field")
	ErrInvalidRecord = errors.New("invalid record")
)

// Field names as exposed to the page and the API; they match the column names of the sample.
const (
	FieldCountry        = "Country"
	FieldPowerIndex     = "PowerIndex"
	FieldMilitaryBudget = "MilitaryBudget"
	FieldGDP            = "GDP"
	FieldPersonnel      = "Personnel"
	FieldRegion         = "Region"
	FieldContinent      = "Continent"
	FieldAlliance       = "Alliance"
)

// Country: one row of the record set.
// PowerIndex is "lower is stronger"; MilitaryBudget is in USD billions and GDP in USD trillions.
type Country struct {
	Name           string  `json:"Country"`
	PowerIndex     float64 `json:"PowerIndex"`
	MilitaryBudget float64 `json:"MilitaryBudget"`
	GDP            float64 `json:"GDP"`
	Personnel      int64   `json:"Personnel"`
	Region         string  `json:"Region"`
	Continent      string  `json:"Continent"`
	Alliance       string  `json:"Alliance"`
}

// Text returns the value of a categorical field.
func (c Country) Text(field string) (string, error) {
	switch field {
	case FieldCountry:
		return c.Name, nil
	case FieldRegion:
		return c.Region, nil
	case FieldContinent:
		return c.Continent, nil
	case FieldAlliance:
		return c.Alliance, nil
	}
	return "", fmt.Errorf("%w: %q is not a text field", ErrUnknownField, field)
}

// Number returns the value of a numeric field.
func (c Country) Number(field string) (float64, error) {
	switch field {
	case FieldPowerIndex:
		return c.PowerIndex, nil
	case FieldMilitaryBudget:
		return c.MilitaryBudget, nil
	case FieldGDP:
		return c.GDP, nil
	case FieldPersonnel:
		return float64(c.Personnel), nil
	}
	return 0, fmt.Errorf("%w: %q is not a numeric field", ErrUnknownField, field)
}

func (c Country) validate() error {
	if c.Name == "" {
		return fmt.Errorf("%w: empty country name", ErrInvalidRecord)
	}
	for _, v := range []float64{c.PowerIndex, c.MilitaryBudget, c.GDP} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("%w: %s has a non-finite or negative value", ErrInvalidRecord, c.Name)
		}
	}
	if c.Personnel < 0 {
		return fmt.Errorf("%w: %s has negative personnel", ErrInvalidRecord, c.Name)
	}
	if c.Region == "" || c.Continent == "" || c.Alliance == "" {
		return fmt.Errorf("%w: %s is missing region, continent or alliance", ErrInvalidRecord, c.Name)
	}
	return nil
}

// Selection: the three dropdown values of the Quick Stats page.
type Selection struct {
	Region    string `json:"region"`
	Continent string `json:"continent"`
	Alliance  string `json:"alliance"`
}

func (s Selection) matches(c Country) bool {
	return c.Region == s.Region && c.Continent == s.Continent && c.Alliance == s.Alliance
}

// Table: ordered, read-only sequence of rows.
// Rows are copied in and out so callers never share the backing slice.
type Table struct {
	rows []Country
}

// NewTable validates rows and keeps them in the given order. Country names must be unique.
// Constraint: numeric fields must be finite and non-negative; categorical fields must be set.
func NewTable(rows []Country) (*Table, error) {
	seen := make(map[string]struct{}, len(rows))
	out := make([]Country, 0, len(rows))
	for i, r := range rows {
		if err := r.validate(); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		if _, dup := seen[r.Name]; dup {
			return nil, fmt.Errorf("row %d: %w: duplicate country %q", i, ErrInvalidRecord, r.Name)
		}
		seen[r.Name] = struct{}{}
		out = append(out, r)
	}
	return &Table{rows: out}, nil
}

func (t *Table) Len() int { return len(t.rows) }

// Rows returns a copy of every row in table order.
func (t *Table) Rows() []Country {
	out := make([]Country, len(t.rows))
	copy(out, t.rows)
	return out
}

// Unique returns the distinct values of a text field in order of first appearance.
func (t *Table) Unique(field string) ([]string, error) {
	if field == FieldCountry {
		return nil, fmt.Errorf("%w: %q has no dropdown", ErrUnknownField, field)
	}
	var out []string
	seen := make(map[string]struct{})
	for _, r := range t.rows {
		v, err := r.Text(field)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out, nil
}

// Filter returns the rows whose Region, Continent and Alliance all equal the selection.
// Comparison is exact. An absent combination yields an empty, non-nil slice.
func (t *Table) Filter(sel Selection) []Country {
	out := make([]Country, 0, len(t.rows))
	for _, r := range t.rows {
		if sel.matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// NSmallest returns the n rows with the smallest value of a numeric field, ascending.
// Ties keep table order.
func (t *Table) NSmallest(n int, field string) ([]Country, error) {
	if _, err := (Country{}).Number(field); err != nil {
		return nil, err
	}
	if n <= 0 {
		return []Country{}, nil
	}
	out := t.Rows()
	sort.SliceStable(out, func(i, j int) bool {
		a, _ := out[i].Number(field)
		b, _ := out[j].Number(field)
		return a < b
	})
	if n < len(out) {
		out = out[:n]
	}
	return out, nil
}
