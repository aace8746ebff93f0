package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRegexParser_Parse(t *testing.T) {
	p := NewRegexParser()

	tests := []struct {
		expr string
		want []Date
	}{
		{"2008-05-05", []Date{FullDate{2008, time.May, 5}}},
		{"2008-05", []Date{YearMonth{2008, time.May}}},
		{"2008", []Date{Year{2008}}},
		{"5/7/2008", []Date{FullDate{2008, time.May, 7}}},
		{"5/7/08", []Date{FullDate{2008, time.May, 7}}},
		{"11/3/98", []Date{FullDate{1998, time.November, 3}}},
		{"05/2008", []Date{YearMonth{2008, time.May}}},
		{"5.3.2008", []Date{FullDate{2008, time.May, 3}}},
		{"12.25.2007", []Date{FullDate{2007, time.December, 25}}},
		{"13.2.2008", nil},
		{"May 5, 2008", []Date{FullDate{2008, time.May, 5}}},
		{"may 5 2008", []Date{FullDate{2008, time.May, 5}}},
		{"Sept. 21st, 2010", []Date{FullDate{2010, time.September, 21}}},
		{"5 May 2008", []Date{FullDate{2008, time.May, 5}}},
		{"5th of May, 2008", []Date{FullDate{2008, time.May, 5}}},
		{"May 2008", []Date{YearMonth{2008, time.May}}},
		{"December of 2007", []Date{YearMonth{2007, time.December}}},
		{"Jan. 2009", []Date{YearMonth{2009, time.January}}},
		{"May 3 and 5, 2008", []Date{FullDate{2008, time.May, 3}, FullDate{2008, time.May, 5}}},
		{"May 3, 5, and 7, 2008", []Date{
			FullDate{2008, time.May, 3}, FullDate{2008, time.May, 5}, FullDate{2008, time.May, 7},
		}},
		{"  2008  ", []Date{Year{2008}}},
		{"2/30/2008", nil},
		{"May 2008 and more", nil},
		{"yesterday", nil},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Parse(tt.expr))
		})
	}
}

func TestRegexParser_Search(t *testing.T) {
	p := NewRegexParser()
	text := "Seen in 2006. Biopsy on May 5, 2008 confirmed; follow-up 6/1/2009 stable"

	got, ok := p.Search(text, First)
	assert.True(t, ok)
	assert.Equal(t, "2006", got)

	got, ok = p.Search(text, Last)
	assert.True(t, ok)
	assert.Equal(t, "6/1/2009", got)

	_, ok = p.Search("no dates in here", First)
	assert.False(t, ok)
	_, ok = p.Search("", Last)
	assert.False(t, ok)
}

func TestRegexParser_SearchPrefersLongestForm(t *testing.T) {
	p := NewRegexParser()

	got, ok := p.Search("diagnosed May 3 and 5, 2008 with", First)
	assert.True(t, ok)
	assert.Equal(t, "May 3 and 5, 2008", got)

	got, ok = p.Search("resected in March 2010", Last)
	assert.True(t, ok)
	assert.Equal(t, "March 2010", got)
}

func TestRegexParser_SearchDotted(t *testing.T) {
	p := NewRegexParser()

	got, ok := p.Search("On 5.3.2008 had surgery", First)
	assert.True(t, ok)
	assert.Equal(t, "5.3.2008", got)

	assert.Equal(t, []string{"2008"}, p.FindAll("dose 2.5 mg since 2008"))
}

func TestRegexParser_FindAll(t *testing.T) {
	p := NewRegexParser()
	got := p.FindAll("2001-02-03, then Feb 2004 and finally 2005")
	assert.Equal(t, []string{"2001-02-03", "Feb 2004", "2005"}, got)
	assert.Empty(t, p.FindAll("nothing"))
}

func TestLookupMonth(t *testing.T) {
	assert.Equal(t, time.September, lookupMonth("Sept."))
	assert.Equal(t, time.June, lookupMonth("june"))
	assert.Equal(t, time.March, lookupMonth("MAR"))
	assert.Equal(t, time.Month(0), lookupMonth("xyz"))
}
