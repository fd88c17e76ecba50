package dashboard

import (
	"fmt"
	"slices"

	"milpower/internal/dataset"
)

// Options: the values offered by the three Quick Stats dropdowns.
type Options struct {
	Region    []string `json:"region"`
	Continent []string `json:"continent"`
	Alliance  []string `json:"alliance"`
}

// OptionsFor collects each dropdown's values in first-appearance order.
func OptionsFor(t *dataset.Table) (Options, error) {
	var o Options
	var err error
	if o.Region, err = t.Unique(dataset.FieldRegion); err != nil {
		return Options{}, err
	}
	if o.Continent, err = t.Unique(dataset.FieldContinent); err != nil {
		return Options{}, err
	}
	if o.Alliance, err = t.Unique(dataset.FieldAlliance); err != nil {
		return Options{}, err
	}
	return o, nil
}

// Default picks the first value of every dropdown, as a fresh page does.
func (o Options) Default() dataset.Selection {
	return dataset.Selection{
		Region:    first(o.Region),
		Continent: first(o.Continent),
		Alliance:  first(o.Alliance),
	}
}

// ParseSelection builds a selection from request values. A missing value takes the default;
// a value the dropdown does not offer is rejected with ErrUnknownOption.
func (o Options) ParseSelection(get func(key string) string) (dataset.Selection, error) {
	sel := o.Default()
	fields := []struct {
		key     string
		allowed []string
		dst     *string
	}{
		{"region", o.Region, &sel.Region},
		{"continent", o.Continent, &sel.Continent},
		{"alliance", o.Alliance, &sel.Alliance},
	}
	for _, f := range fields {
		v := get(f.key)
		if v == "" {
			continue
		}
		if !slices.Contains(f.allowed, v) {
			return dataset.Selection{}, fmt.Errorf("%w: %s=%q", ErrUnknownOption, f.key, v)
		}
		*f.dst = v
	}
	return sel, nil
}

func first(vs []string) string {
	if len(vs) == 0 {
		return ""
	}
	return vs[0]
}
