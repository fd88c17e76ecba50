package dataset

// Sample returns the built-in record set. Each literal is a whole row.
func Sample() []Country {
	return []Country{
		{Name: "United States", PowerIndex: 0.071, MilitaryBudget: 877, GDP: 25.4, Personnel: 1400000, Region: "North America", Continent: "North America", Alliance: "NATO"},
		{Name: "Russia", PowerIndex: 0.072, MilitaryBudget: 86, GDP: 2.2, Personnel: 850000, Region: "Europe", Continent: "Europe", Alliance: "None"},
		{Name: "China", PowerIndex: 0.073, MilitaryBudget: 292, GDP: 17.9, Personnel: 2000000, Region: "Asia", Continent: "Asia", Alliance: "None"},
		{Name: "India", PowerIndex: 0.102, MilitaryBudget: 81, GDP: 3.7, Personnel: 1450000, Region: "Asia", Continent: "Asia", Alliance: "None"},
		{Name: "South Korea", PowerIndex: 0.150, MilitaryBudget: 46, GDP: 1.8, Personnel: 555000, Region: "Asia", Continent: "Asia", Alliance: "US Ally"},
	}
}

// SampleTable wraps Sample in a Table. The sample is known-valid.
func SampleTable() *Table {
	t, err := NewTable(Sample())
	if err != nil {
		panic(err)
	}
	return t
}
