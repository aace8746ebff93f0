package evaluation

import (
	"fmt"
	"sort"

	"github.com/fyrsmithlabs/eventdates/internal/candidate"
	"github.com/fyrsmithlabs/eventdates/internal/dates"
	"github.com/fyrsmithlabs/eventdates/internal/notes"
)

// MaxRank is the deepest rank reported by Evaluate.
const MaxRank = 5

// Measure selects strict or lenient matching.
type Measure string

const (
	Strict  Measure = "strict"
	Lenient Measure = "lenient"
)

// ParseMeasure converts s to a Measure.
func ParseMeasure(s string) (Measure, error) {
	switch m := Measure(s); m {
	case Strict, Lenient:
		return m, nil
	default:
		return Strict, fmt.Errorf("measure must be %q or %q, got %q", Strict, Lenient, s)
	}
}

// Pair holds the strict and lenient value of a metric.
type Pair struct {
	Strict  float64 `json:"strict"`
	Lenient float64 `json:"lenient"`
}

// Report is the result of Evaluate.
type Report struct {
	Recall    Pair `json:"recall"`
	Precision Pair `json:"precision"`
	F1        Pair `json:"f1"`

	// Rank[k-1] is the share of gold patients with a matching date among
	// the top k returned.
	Rank [MaxRank]Pair `json:"rank"`

	StrictTP  Summary `json:"strict_tp_scores"`
	StrictFP  Summary `json:"strict_fp_scores"`
	LenientTP Summary `json:"lenient_tp_scores"`
	LenientFP Summary `json:"lenient_fp_scores"`

	// NoDate is the share of gold patients for whom nothing was returned.
	NoDate          float64 `json:"no_date"`
	DatesPerPatient Summary `json:"dates_per_patient"`
}

// Evaluate compares output with gold.
func Evaluate(gold notes.Gold, output []notes.PatientDates) Report {
	byMRN := make(map[string][]*candidate.DateCandidate, len(output))
	for _, p := range output {
		byMRN[p.MRN] = append(byMRN[p.MRN], p.Candidates...)
	}

	var r Report
	r.Recall = recall(gold, byMRN)
	r.Precision = precision(gold, byMRN)
	r.F1 = Pair{
		Strict:  f1(r.Recall.Strict, r.Precision.Strict),
		Lenient: f1(r.Recall.Lenient, r.Precision.Lenient),
	}
	for k := 1; k <= MaxRank; k++ {
		r.Rank[k-1] = rankAt(gold, byMRN, k)
	}

	var strictTP, strictFP, lenientTP, lenientFP []float64
	for mrn, cs := range byMRN {
		want := gold[mrn]
		if len(want) == 0 {
			continue
		}
		for _, c := range cs {
			switch match(c.Date, want) {
			case exact:
				strictTP = append(strictTP, c.Score)
				lenientTP = append(lenientTP, c.Score)
			case fuzzy:
				strictFP = append(strictFP, c.Score)
				lenientTP = append(lenientTP, c.Score)
			default:
				strictFP = append(strictFP, c.Score)
				lenientFP = append(lenientFP, c.Score)
			}
		}
	}
	r.StrictTP = Summarize(strictTP)
	r.StrictFP = Summarize(strictFP)
	r.LenientTP = Summarize(lenientTP)
	r.LenientFP = Summarize(lenientFP)

	if len(gold) > 0 {
		r.NoDate = float64(len(DatelessPatients(gold, output))) / float64(len(gold))
	}

	counts := make([]float64, 0, len(byMRN))
	for _, cs := range byMRN {
		counts = append(counts, float64(len(cs)))
	}
	r.DatesPerPatient = Summarize(counts)
	return r
}

type matchKind int

const (
	none matchKind = iota
	fuzzy
	exact
)

// match classifies d against the best of want.
func match(d dates.Date, want []dates.Date) matchKind {
	best := none
	for _, w := range want {
		if dates.Equal(d, w) {
			return exact
		}
		if dates.FuzzyMatch(d, w) {
			best = fuzzy
		}
	}
	return best
}

func datesOf(cs []*candidate.DateCandidate) []dates.Date {
	out := make([]dates.Date, len(cs))
	for i, c := range cs {
		out[i] = c.Date
	}
	return out
}

// recall is the share of gold dates found in the output.
func recall(gold notes.Gold, output map[string][]*candidate.DateCandidate) Pair {
	var total, strict, lenient int
	for mrn, want := range gold {
		got := datesOf(output[mrn])
		total += len(want)
		for _, e := range want {
			switch match(e, got) {
			case exact:
				strict++
				lenient++
			case fuzzy:
				lenient++
			}
		}
	}
	if total == 0 {
		return Pair{}
	}
	return Pair{Strict: float64(strict) / float64(total), Lenient: float64(lenient) / float64(total)}
}

// precision is the share of returned dates found in gold.
func precision(gold notes.Gold, output map[string][]*candidate.DateCandidate) Pair {
	var total, strict, lenient int
	for mrn, cs := range output {
		total += len(cs)
		want := gold[mrn]
		for _, c := range cs {
			switch match(c.Date, want) {
			case exact:
				strict++
				lenient++
			case fuzzy:
				lenient++
			}
		}
	}
	if total == 0 {
		return Pair{}
	}
	return Pair{Strict: float64(strict) / float64(total), Lenient: float64(lenient) / float64(total)}
}

func f1(recall, precision float64) float64 {
	if recall+precision == 0 {
		return 0
	}
	return 2 * recall * precision / (recall + precision)
}

// topN returns the n best candidates without modifying cs.
func topN(cs []*candidate.DateCandidate, n int) []*candidate.DateCandidate {
	sorted := make([]*candidate.DateCandidate, len(cs))
	copy(sorted, cs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// rankAt is the share of gold patients with a strict (lenient) match for
// any gold date among the top n returned. With no gold patients it is 1.
func rankAt(gold notes.Gold, output map[string][]*candidate.DateCandidate, n int) Pair {
	if len(gold) == 0 {
		return Pair{Strict: 1, Lenient: 1}
	}
	var strict, lenient int
	for mrn, want := range gold {
		s, l := hit(want, topN(output[mrn], n))
		if s {
			strict++
		}
		if l {
			lenient++
		}
	}
	return Pair{Strict: float64(strict) / float64(len(gold)), Lenient: float64(lenient) / float64(len(gold))}
}

// hit reports whether any gold date has a strict or lenient match in top.
func hit(want []dates.Date, top []*candidate.DateCandidate) (strict, lenient bool) {
	got := datesOf(top)
	for _, e := range want {
		switch match(e, got) {
		case exact:
			return true, true
		case fuzzy:
			lenient = true
		}
	}
	return false, lenient
}

// DatelessPatients returns, in output order, the patients with gold dates
// for whom no date was returned.
func DatelessPatients(gold notes.Gold, output []notes.PatientDates) []string {
	var out []string
	for _, p := range output {
		if len(gold[p.MRN]) > 0 && len(p.Candidates) == 0 {
			out = append(out, p.MRN)
		}
	}
	return out
}
