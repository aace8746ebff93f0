package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCaseInsensitive(t *testing.T) {
	assert.Equal(t, "[dD][xX]", caseInsensitive("Dx"))
	assert.Equal(t, `[sS]/[pP] [rR]\.`, caseInsensitive("s/p R."))
	assert.Equal(t, "[éÉ]3", caseInsensitive("é3"))
}

func TestMatcher_Find(t *testing.T) {
	m := newMatcher(PreDate, []Keyword{
		{Text: "Dx", Position: PreDate, Window: 10},
		{Text: "diagnosis", Position: PreDate, Window: 40},
	})

	got := m.find("DX then Diagnosis then dx")
	assert.Equal(t, []match{
		{start: 0, end: 2, window: 10},
		{start: 8, end: 17, window: 40},
		{start: 23, end: 25, window: 10},
	}, got)

	assert.Nil(t, newMatcher(PostDate, nil))
}

func TestFindCutoffs(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []cutoff
	}{
		{"sentence end", "seen 2008. next", []cutoff{{9, 11}}},
		{"text end", "seen 2008.", []cutoff{{9, 10}}},
		{"decimal point", "mass 3.5 cm", nil},
		{"month abbreviation", "Jan. 2008", nil},
		{"title", "Dr. Smith", nil},
		{"lowercase comma", "seen twice, then", []cutoff{{10, 11}}},
		{"month comma", "May, 2008", nil},
		{"ordinal comma", "5th, 2008", nil},
		{"stop marker", "Readmitted 2009", []cutoff{{3, 10}}},
		{"colon field", "Plan: 2009", []cutoff{{0, 5}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, findCutoffs(tt.text))
		})
	}
}

func TestRegions(t *testing.T) {
	text := "Seen 2001. Diagnosis: biopsy on 2008-05-05, then chemo. Surgery"

	// keyword "biopsy" at [22, 28)
	assert.Equal(t, "biopsy on 2008-05-05, then chemo", preDateRegion(text, 22, 28, 100))
	assert.Equal(t, "biopsy on ", preDateRegion(text, 22, 28, 4))
	assert.Equal(t, " biopsy", postDateRegion(text, 22, 28, 100))

	// keyword "Surgery" at [56, 63)
	assert.Equal(t, "Surgery", preDateRegion(text, 56, 63, 100))
	assert.Equal(t, "Surgery", postDateRegion(text, 56, 63, 100))
	assert.Equal(t, "Surgery", postDateRegion(text, 56, 63, 0))
}

func TestClamp(t *testing.T) {
	text := "aé2008"
	// é occupies bytes 1 and 2
	assert.Equal(t, 1, clampEnd(text, 2))
	assert.Equal(t, 3, clampStart(text, 2))
	assert.Equal(t, 0, clampStart(text, -5))
	assert.Equal(t, len(text), clampEnd(text, 99))
}
