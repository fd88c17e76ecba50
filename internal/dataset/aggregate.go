package dataset

// Sum adds up a numeric field; an empty slice sums to 0.
func Sum(rows []Country, field string) (float64, error) {
	if _, err := (Country{}).Number(field); err != nil {
		return 0, err
	}
	var total float64
	for _, r := range rows {
		v, _ := r.Number(field)
		total += v
	}
	return total, nil
}

// Mean averages a numeric field. An empty slice yields 0 instead of NaN.
func Mean(rows []Country, field string) (float64, error) {
	total, err := Sum(rows, field)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return total / float64(len(rows)), nil
}

// SumPersonnel keeps the integer column integral.
func SumPersonnel(rows []Country) int64 {
	var total int64
	for _, r := range rows {
		total += r.Personnel
	}
	return total
}

// Numbers extracts one numeric field in row order.
func Numbers(rows []Country, field string) ([]float64, error) {
	out := make([]float64, 0, len(rows))
	for _, r := range rows {
		v, err := r.Number(field)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Names lists the country names in row order.
func Names(rows []Country) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Name)
	}
	return out
}
