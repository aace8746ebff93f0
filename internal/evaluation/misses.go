package evaluation

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/fyrsmithlabs/eventdates/internal/candidate"
	"github.com/fyrsmithlabs/eventdates/internal/dates"
	"github.com/fyrsmithlabs/eventdates/internal/notes"
)

// Miss is a patient for whom no correct date was among the top n returned.
type Miss struct {
	MRN      string
	Gold     []dates.Date
	Returned []*candidate.DateCandidate

	// ScoresOff is set when the returned scores sum to more than 1.
	ScoresOff bool
}

// NotInTopN lists, sorted by MRN, the gold patients without a match under
// measure among their top n returned dates.
func NotInTopN(gold notes.Gold, output []notes.PatientDates, n int, measure Measure) []Miss {
	byMRN := make(map[string][]*candidate.DateCandidate, len(output))
	for _, p := range output {
		byMRN[p.MRN] = append(byMRN[p.MRN], p.Candidates...)
	}

	var misses []Miss
	for mrn, want := range gold {
		returned := byMRN[mrn]
		strict, lenient := hit(want, topN(returned, n))
		if lenient && (measure == Lenient || strict) {
			continue
		}
		misses = append(misses, Miss{
			MRN:       mrn,
			Gold:      want,
			Returned:  returned,
			ScoresOff: candidate.TotalScore(returned)-1 > 0.0001,
		})
	}
	sort.Slice(misses, func(i, j int) bool {
		return misses[i].MRN < misses[j].MRN
	})
	return misses
}

// WriteMisses writes one line per miss: MRN, gold dates and every returned
// candidate in ascending score order.
func WriteMisses(w io.Writer, misses []Miss) error {
	var b strings.Builder
	for _, m := range misses {
		gold := make([]string, len(m.Gold))
		for i, d := range m.Gold {
			gold[i] = d.String()
		}

		returned := make([]*candidate.DateCandidate, len(m.Returned))
		copy(returned, m.Returned)
		sort.SliceStable(returned, func(i, j int) bool {
			return returned[i].Score < returned[j].Score
		})
		got := make([]string, len(returned))
		for i, c := range returned {
			got[i] = fmt.Sprintf("%v %s %q", c.Date, strconv.FormatFloat(c.Score, 'g', -1, 64), c.Snippets)
		}

		fmt.Fprintf(&b, "%s\t[%s]\t[%s]\n", m.MRN, strings.Join(gold, ", "), strings.Join(got, ", "))
		if m.ScoresOff {
			fmt.Fprintf(&b, "Scores do not add up to 1.0 for MRN %s\n", m.MRN)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// ScoreDrift is the largest distance from 1 of any patient's score sum.
func ScoreDrift(output []notes.PatientDates) float64 {
	var drift float64
	for _, p := range output {
		if len(p.Candidates) == 0 {
			continue
		}
		drift = math.Max(drift, math.Abs(candidate.TotalScore(p.Candidates)-1))
	}
	return drift
}
