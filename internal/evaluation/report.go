package evaluation

import (
	"fmt"
	"io"
	"strings"
)

// WriteText writes r in the plain-text report layout.
func (r Report) WriteText(w io.Writer) error {
	var b strings.Builder
	for _, m := range []struct {
		name   string
		pick   func(Pair) float64
		tp, fp Summary
	}{
		{"strict", func(p Pair) float64 { return p.Strict }, r.StrictTP, r.StrictFP},
		{"lenient", func(p Pair) float64 { return p.Lenient }, r.LenientTP, r.LenientFP},
	} {
		title := strings.ToUpper(m.name[:1]) + m.name[1:]
		fmt.Fprintf(&b, "%s recall: %s\n", title, formatFloat(m.pick(r.Recall)))
		fmt.Fprintf(&b, "%s precision: %s\n", title, formatFloat(m.pick(r.Precision)))
		fmt.Fprintf(&b, "%s F1 score: %s\n", title, formatFloat(m.pick(r.F1)))
		fmt.Fprintf(&b, "Percentage of patients for whom 1st date returned is %s match: %s\n",
			m.name, formatFloat(m.pick(r.Rank[0])))
		for k := 2; k <= MaxRank; k++ {
			fmt.Fprintf(&b, "Percentage of patients for whom a %s match appears in the top %d dates returned: %s\n",
				m.name, k, formatFloat(m.pick(r.Rank[k-1])))
		}
		fmt.Fprintf(&b, "Scores of dates that are %s matches: %s\n", m.name, m.tp)
		fmt.Fprintf(&b, "Scores of dates that are not %s matches: %s\n", m.name, m.fp)
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "No date: %s\n", formatFloat(r.NoDate))
	fmt.Fprintf(&b, "Dates returned per patient: %s\n", r.DatesPerPatient)

	_, err := io.WriteString(w, b.String())
	return err
}
