package reranker

import (
	"github.com/fyrsmithlabs/eventdates/internal/candidate"
	"github.com/fyrsmithlabs/eventdates/internal/dates"
)

// RemoveFuzzyDates merges exact duplicates, then folds month-year dates
// into full dates, then year-only dates into anything with a known month.
//
// Month-year runs first so that [2008-05-05, 2008-05, 2008] collapses onto
// 2008-05-05 instead of leaving 2008 split between the other two.
func RemoveFuzzyDates(cs []*candidate.DateCandidate) []*candidate.DateCandidate {
	cs = RemoveDuplicates(cs)
	cs = AbsorbMonthYear(cs)
	return AbsorbYearOnly(cs)
}

// RemoveDuplicates merges candidates with equal dates into the first one
// seen. Snippets are concatenated in list order and scores are summed.
func RemoveDuplicates(cs []*candidate.DateCandidate) []*candidate.DateCandidate {
	first := make(map[dates.Date]*candidate.DateCandidate, len(cs))
	out := make([]*candidate.DateCandidate, 0, len(cs))
	for _, c := range cs {
		if kept, ok := first[c.Date]; ok {
			kept.Merge(c)
			continue
		}
		first[c.Date] = c
		out = append(out, c)
	}
	return out
}

// AbsorbMonthYear folds every month-year candidate into the full-date
// candidates within that month. Candidates with no such match stay.
func AbsorbMonthYear(cs []*candidate.DateCandidate) []*candidate.DateCandidate {
	return absorb(cs, isMonthYear, dates.DayKnown)
}

// AbsorbYearOnly folds every year-only candidate into the candidates with
// a known month within that year. Candidates with no such match stay.
func AbsorbYearOnly(cs []*candidate.DateCandidate) []*candidate.DateCandidate {
	return absorb(cs, isYearOnly, dates.MonthKnown)
}

func isMonthYear(d dates.Date) bool {
	return dates.MonthKnown(d) && !dates.DayKnown(d)
}

func isYearOnly(d dates.Date) bool {
	return d != nil && !dates.MonthKnown(d)
}

// absorption is the decision for one target: merge into a single match or
// split across several.
type absorption struct {
	target  *candidate.DateCandidate
	matches []*candidate.DateCandidate
}

// absorb runs one absorption pass. Decisions are made against the list as
// given, then applied from the end of the list backwards. Targets and
// matches come from disjoint precision tiers, so no decision can invalidate
// another.
func absorb(cs []*candidate.DateCandidate, isTarget, isMatch func(dates.Date) bool) []*candidate.DateCandidate {
	var plan []absorption
	absorbed := make(map[*candidate.DateCandidate]bool)

	for i, c := range cs {
		if !isTarget(c.Date) {
			continue
		}
		var matches []*candidate.DateCandidate
		for j, m := range cs {
			if j != i && isMatch(m.Date) && dates.FuzzyMatch(c.Date, m.Date) {
				matches = append(matches, m)
			}
		}
		if len(matches) == 0 {
			continue
		}
		plan = append(plan, absorption{target: c, matches: matches})
		absorbed[c] = true
	}
	if len(plan) == 0 {
		return cs
	}

	for i := len(plan) - 1; i >= 0; i-- {
		a := plan[i]
		if len(a.matches) == 1 {
			a.matches[0].Merge(a.target)
			continue
		}
		candidate.Split(a.target, a.matches)
	}

	out := make([]*candidate.DateCandidate, 0, len(cs)-len(plan))
	for _, c := range cs {
		if !absorbed[c] {
			out = append(out, c)
		}
	}
	return out
}
