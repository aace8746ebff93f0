package evaluation

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/eventdates/internal/candidate"
	"github.com/fyrsmithlabs/eventdates/internal/dates"
	"github.com/fyrsmithlabs/eventdates/internal/notes"
)

func fixture() (notes.Gold, []notes.PatientDates) {
	gold := notes.Gold{
		"A": {dates.FullDate{Y: 2008, M: time.May, D: 5}},
		"B": {dates.Year{Y: 2009}},
		"C": {dates.FullDate{Y: 2010, M: time.January, D: 1}},
	}
	output := []notes.PatientDates{
		{MRN: "A", Candidates: []*candidate.DateCandidate{
			{Date: dates.Year{Y: 2008}, Score: 0.4},
			{Date: dates.FullDate{Y: 2008, M: time.May, D: 5}, Score: 0.6},
		}},
		{MRN: "B", Candidates: []*candidate.DateCandidate{
			{Date: dates.YearMonth{Y: 2009, M: time.March}, Score: 0.7},
			{Date: dates.Year{Y: 2011}, Score: 0.3},
		}},
		{MRN: "C", Candidates: []*candidate.DateCandidate{}},
	}
	return gold, output
}

func TestEvaluate(t *testing.T) {
	gold, output := fixture()

	r := Evaluate(gold, output)

	assert.InDelta(t, 1.0/3, r.Recall.Strict, 1e-9)
	assert.InDelta(t, 2.0/3, r.Recall.Lenient, 1e-9)
	assert.InDelta(t, 0.25, r.Precision.Strict, 1e-9)
	assert.InDelta(t, 0.75, r.Precision.Lenient, 1e-9)
	assert.InDelta(t, 2.0/7, r.F1.Strict, 1e-9)
	assert.InDelta(t, 12.0/17, r.F1.Lenient, 1e-9)

	for k := 0; k < MaxRank; k++ {
		assert.InDelta(t, 1.0/3, r.Rank[k].Strict, 1e-9, "rank %d", k+1)
		assert.InDelta(t, 2.0/3, r.Rank[k].Lenient, 1e-9, "rank %d", k+1)
	}

	assert.Equal(t, 1, r.StrictTP.Count)
	assert.Equal(t, 3, r.StrictFP.Count)
	assert.Equal(t, 3, r.LenientTP.Count)
	assert.Equal(t, 1, r.LenientFP.Count)
	assert.InDelta(t, 0.3, r.LenientFP.Max, 1e-9)

	assert.InDelta(t, 1.0/3, r.NoDate, 1e-9)
	assert.Equal(t, Summary{Count: 3, Min: 0, Max: 2, Mean: 4.0 / 3, Median: 2}, r.DatesPerPatient)
}

func TestEvaluate_RankDependsOnOrder(t *testing.T) {
	gold := notes.Gold{"A": {dates.Year{Y: 2008}}}
	output := []notes.PatientDates{{MRN: "A", Candidates: []*candidate.DateCandidate{
		{Date: dates.Year{Y: 2001}, Score: 0.6},
		{Date: dates.Year{Y: 2008}, Score: 0.4},
	}}}

	r := Evaluate(gold, output)

	assert.Equal(t, Pair{}, r.Rank[0])
	assert.Equal(t, Pair{Strict: 1, Lenient: 1}, r.Rank[1])
}

func TestEvaluate_Empty(t *testing.T) {
	r := Evaluate(notes.Gold{}, nil)

	assert.Equal(t, Pair{}, r.Recall)
	assert.Equal(t, Pair{}, r.Precision)
	assert.Equal(t, Pair{}, r.F1)
	assert.Equal(t, Pair{Strict: 1, Lenient: 1}, r.Rank[0])
	assert.Zero(t, r.NoDate)
	assert.Equal(t, "n/a", r.DatesPerPatient.String())
}

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{4, 1, 3, 2})
	assert.Equal(t, Summary{Count: 4, Min: 1, Max: 4, Mean: 2.5, Median: 2.5}, s)
	assert.Equal(t, "Min 1; Max 4; Mean 2.5; Median 2.5", s.String())

	assert.Equal(t, 3.0, Summarize([]float64{5, 1, 3}).Median)
}

func TestParseMeasure(t *testing.T) {
	m, err := ParseMeasure("lenient")
	require.NoError(t, err)
	assert.Equal(t, Lenient, m)

	m, err = ParseMeasure("loose")
	assert.Error(t, err)
	assert.Equal(t, Strict, m)
}

func TestNotInTopN(t *testing.T) {
	gold, output := fixture()

	strict := NotInTopN(gold, output, 1, Strict)
	require.Len(t, strict, 2)
	assert.Equal(t, "B", strict[0].MRN)
	assert.Equal(t, "C", strict[1].MRN)

	lenient := NotInTopN(gold, output, 1, Lenient)
	require.Len(t, lenient, 1)
	assert.Equal(t, "C", lenient[0].MRN)
}

func TestWriteMisses(t *testing.T) {
	misses := []Miss{{
		MRN:  "B",
		Gold: []dates.Date{dates.Year{Y: 2009}},
		Returned: []*candidate.DateCandidate{
			{Date: dates.YearMonth{Y: 2009, M: time.March}, Score: 0.7, Snippets: []string{"s1"}},
			{Date: dates.Year{Y: 2011}, Score: 0.5},
		},
		ScoresOff: true,
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteMisses(&buf, misses))

	assert.Equal(t,
		"B\t[2009]\t[2011 0.5 [], 2009-03 0.7 [\"s1\"]]\nScores do not add up to 1.0 for MRN B\n",
		buf.String())
}

func TestReport_WriteText(t *testing.T) {
	gold, output := fixture()

	var buf bytes.Buffer
	require.NoError(t, Evaluate(gold, output).WriteText(&buf))

	out := buf.String()
	assert.Contains(t, out, "Strict precision: 0.25\n")
	assert.Contains(t, out, "Lenient precision: 0.75\n")
	assert.Contains(t, out, "Percentage of patients for whom a lenient match appears in the top 5 dates returned:")
	assert.Contains(t, out, "Scores of dates that are strict matches: Min 0.6; Max 0.6; Mean 0.6; Median 0.6\n")
	assert.Contains(t, out, "Dates returned per patient: Min 0; Max 2;")
}

func TestScoreDrift(t *testing.T) {
	_, output := fixture()
	assert.InDelta(t, 0, ScoreDrift(output), 1e-9)

	output[0].Candidates[0].Score = 0.9
	assert.InDelta(t, 0.5, ScoreDrift(output), 1e-9)
}
