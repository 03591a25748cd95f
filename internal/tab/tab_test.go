package tab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eMajorTab = `e|--0--|
B|--0--|
G|--1--|
D|--2--|
A|--2--|
E|--0--|`

func TestDetectTab(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected bool
	}{
		{"labelled lines", "e|--3--2--0--|\nB|--0--0--0--|", true},
		{"colon separator", "A:-0-2-3-", true},
		{"unlabelled dense run", "riff: --3--5--7--", true},
		{"technique marker", "try -5h7- on the G string", true},
		{"slide", "then -3/5- up", true},
		{"prose", "Let's jam in C major tonight", false},
		{"chord progression", "C G Am F", false},
		{"hyphenated words", "an A-B test", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectTab(tt.text))
		})
	}
}

func TestParseTabTwoLines(t *testing.T) {
	parsed := ParseTab("e|--3--2--0--|\nB|--0--0--0--|")
	require.NotNil(t, parsed)

	require.Len(t, parsed.Lines, 2)
	assert.Equal(t, HighE, parsed.Lines[0].String)
	assert.Equal(t, ResolutionHeuristic, parsed.Lines[0].Resolution)
	assert.Equal(t, BString, parsed.Lines[1].String)
	assert.Equal(t, ResolutionDeclared, parsed.Lines[1].Resolution)

	perString := map[int][]Note{}
	for _, n := range parsed.Notes {
		perString[n.String] = append(perString[n.String], n)
	}
	require.Len(t, perString[HighE], 3)
	require.Len(t, perString[BString], 3)

	for _, notes := range perString {
		for i := 1; i < len(notes); i++ {
			assert.Greater(t, notes[i].Timing, notes[i-1].Timing)
		}
	}

	assert.Equal(t, []int{3, 2, 0}, []int{perString[HighE][0].Fret, perString[HighE][1].Fret, perString[HighE][2].Fret})
	assert.Len(t, parsed.Measures, 3)
	assert.True(t, parsed.IsChord)
}

func TestParseTabTimingAdvancesOnSeparators(t *testing.T) {
	parsed := ParseTab("e|--3--2--0--|\nB|--0--0--0--|")
	require.NotNil(t, parsed)

	timings := []int{}
	for _, m := range parsed.Measures {
		timings = append(timings, m.Timing)
	}
	assert.Equal(t, []int{2, 4, 6}, timings)
}

func TestParseTabTechniques(t *testing.T) {
	parsed := ParseTab("G|--5h7--7p5--|")
	require.NotNil(t, parsed)
	require.Len(t, parsed.Notes, 4)

	assert.Equal(t, 5, parsed.Notes[0].Fret)
	assert.Equal(t, "h", parsed.Notes[0].Technique)
	assert.Equal(t, 7, parsed.Notes[1].Fret)
	assert.Empty(t, parsed.Notes[1].Technique)
	assert.Equal(t, "p", parsed.Notes[2].Technique)
	assert.False(t, parsed.IsChord, "a hammer-on on one string is not a chord")
}

func TestParseTabTwoDigitFrets(t *testing.T) {
	parsed := ParseTab("e|--12--15--|\nB|--10--13--|\nG|----------|")
	require.NotNil(t, parsed)

	frets := []int{}
	for _, n := range parsed.Notes {
		frets = append(frets, n.Fret)
	}
	assert.ElementsMatch(t, []int{12, 15, 10, 13}, frets)
}

func TestParseTabStringResolution(t *testing.T) {
	parsed := ParseTab(eMajorTab)
	require.NotNil(t, parsed)
	require.Len(t, parsed.Lines, 6)

	expected := []int{HighE, BString, GString, DString, AString, LowE}
	for i, line := range parsed.Lines {
		assert.Equal(t, expected[i], line.String, "line %d", i)
	}
	assert.Equal(t, ResolutionHeuristic, parsed.Lines[0].Resolution)
	assert.Equal(t, ResolutionHeuristic, parsed.Lines[5].Resolution)
}

func TestParseTabLowFirstOrderIsHeuristic(t *testing.T) {
	// Written low string first, the E label still lands on high e
	parsed := ParseTab("E|--0--|\nA|--2--|\nD|--2--|")
	require.NotNil(t, parsed)

	assert.Equal(t, HighE, parsed.Lines[0].String)
	assert.Equal(t, ResolutionHeuristic, parsed.Lines[0].Resolution)
}

func TestParseTabWithOrder(t *testing.T) {
	parsed := ParseTabWithOrder("E|--0--|\nA|--2--|\nD|--2--|", []int{LowE, AString, DString})
	require.NotNil(t, parsed)

	for i, expected := range []int{LowE, AString, DString} {
		assert.Equal(t, expected, parsed.Lines[i].String)
		assert.Equal(t, ResolutionExplicit, parsed.Lines[i].Resolution)
	}
}

func TestParseTabFallbackLabels(t *testing.T) {
	parsed := ParseTab("C|--0--|\nF|--2--|")
	require.NotNil(t, parsed)

	assert.Equal(t, HighE, parsed.Lines[0].String)
	assert.Equal(t, ResolutionFallback, parsed.Lines[0].Resolution)
	assert.Equal(t, BString, parsed.Lines[1].String)
	assert.Equal(t, ResolutionFallback, parsed.Lines[1].Resolution)
}

func TestParseTabNothingToParse(t *testing.T) {
	assert.Nil(t, ParseTab(""))
	assert.Nil(t, ParseTab("C G Am F"))
	assert.Nil(t, ParseTab("e|-------|\nB|-------|"))
}

func TestIdentifyChord(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{"exact open E", eMajorTab, "E Major"},
		{
			name:     "exact open A minor",
			text:     "e|--0--|\nB|--1--|\nG|--2--|\nD|--2--|\nA|--0--|",
			expected: "A Minor",
		},
		{
			name:     "interval fallback for a barre chord",
			text:     "e|--8--|\nB|--8--|\nG|--9--|\nD|--10-|\nA|--10-|\nE|--8--|",
			expected: "C Major",
		},
		{
			name:     "most specific template wins",
			text:     "e|--0--|\nB|--1--|\nG|--0--|\nD|--2--|\nA|--0--|\nE|--x--|",
			expected: "A Minor 7th",
		},
		{
			name:     "sus4",
			text:     "e|--3--|\nB|--3--|\nG|--2--|\nD|--0--|",
			expected: "D Sus4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed := ParseTab(tt.text)
			require.NotNil(t, parsed)

			name, ok := IdentifyChord(parsed)
			require.True(t, ok)
			assert.Equal(t, tt.expected, name)
		})
	}
}

func TestIdentifyChordNoMatch(t *testing.T) {
	_, ok := IdentifyChord(nil)
	assert.False(t, ok)

	single := ParseTab("e|--3--5--|")
	require.NotNil(t, single)
	_, ok = IdentifyChord(single)
	assert.False(t, ok, "single notes never form a chord")

	// C and C# together fit no template
	cluster := ParseTab("e|--8--|\nB|--2--|\nG|--x--|")
	require.NotNil(t, cluster)
	_, ok = IdentifyChord(cluster)
	assert.False(t, ok)
}

func TestIdentifierStrategies(t *testing.T) {
	eMajor := [StringCount]int{0, 2, 2, 1, 0, 0}

	name, ok := ExactShapes{}.Identify(eMajor)
	require.True(t, ok)
	assert.Equal(t, "E Major", name)

	name, ok = IntervalTemplates{}.Identify(eMajor)
	require.True(t, ok)
	assert.Equal(t, "E Major", name)

	_, ok = ExactShapes{}.Identify([StringCount]int{muted, 3, 5, 5, 5, 3})
	assert.False(t, ok)
}

func TestStripTab(t *testing.T) {
	text := "Try this voicing:\ne|--0--|\nB|--1--|\nG|--0--|\nthen go to Am"
	assert.Equal(t, "Try this voicing:\nthen go to Am", StripTab(text))
	assert.Equal(t, "C G Am F", StripTab("C G Am F"))
}

func TestParseTabKeepsSource(t *testing.T) {
	text := "e|--3--|\nB|--0--|"
	parsed := ParseTab(text)
	require.NotNil(t, parsed)
	assert.Equal(t, text, parsed.Source)
}
