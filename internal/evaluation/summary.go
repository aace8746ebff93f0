package evaluation

import (
	"fmt"
	"sort"
	"strconv"
)

// Summary describes a list of values.
type Summary struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
}

// Summarize computes the summary of values. An empty list gives a zero
// Summary.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}

	n := len(sorted)
	median := sorted[n/2]
	if n%2 == 0 {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	}

	return Summary{
		Count:  n,
		Min:    sorted[0],
		Max:    sorted[n-1],
		Mean:   sum / float64(n),
		Median: median,
	}
}

// String renders "Min x; Max x; Mean x; Median x", or "n/a" when empty.
func (s Summary) String() string {
	if s.Count == 0 {
		return "n/a"
	}
	return fmt.Sprintf("Min %s; Max %s; Mean %s; Median %s",
		formatFloat(s.Min), formatFloat(s.Max), formatFloat(s.Mean), formatFloat(s.Median))
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
