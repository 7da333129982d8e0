package filing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectSections_BasicHeadings(t *testing.T) {
	text := strings.Join([]string{
		"Chairman's Message",
		"Dear shareholders, a strong year.",
		"Growth across all segments.",
		"Director's Report",
		"The board presents its report.",
		"Balance Sheet",
		"Assets and liabilities as at year end.",
	}, "\n")

	sections := DetectSections(text)
	require.Len(t, sections, 3)

	assert.Equal(t, "Chairman's Message", sections[0].Name)
	assert.Equal(t, "Director's Report", sections[1].Name)
	assert.Equal(t, "Balance Sheet", sections[2].Name)

	assert.Contains(t, sections[0].Content, "Dear shareholders")
	assert.Contains(t, sections[1].Content, "board presents")
	assert.Contains(t, sections[2].Content, "Assets and liabilities")
}

func TestDetectSections_OrderedAndNonOverlapping(t *testing.T) {
	text := strings.Join([]string{
		"Corporate Overview",
		"Who we are.",
		"Risk Management",
		"How we manage risk.",
		"Cash Flow Statement",
		"Cash movements.",
	}, "\n")

	sections := DetectSections(text)
	require.Len(t, sections, 3)

	for i := 1; i < len(sections); i++ {
		assert.Greater(t, sections[i].StartIndex, sections[i-1].StartIndex,
			"sections must be ordered by start index")
		prevEnd := sections[i-1].StartIndex + len(sections[i-1].Content)
		assert.GreaterOrEqual(t, sections[i].StartIndex, prevEnd,
			"sections must not overlap")
	}
}

func TestDetectSections_StartIndexMatchesSource(t *testing.T) {
	preamble := "Some cover page text\n"
	text := preamble + "Balance Sheet\nNumbers here."

	sections := DetectSections(text)
	require.Len(t, sections, 1)

	// The heading opens at the cumulative offset of its line.
	assert.Equal(t, len(preamble), sections[0].StartIndex)
	assert.True(t, strings.HasPrefix(text[sections[0].StartIndex:], "Balance Sheet"))
}

// Text before the first recognized heading is dropped entirely. This is
// observed legacy behavior; the assertion documents it rather than
// endorsing it.
func TestDetectSections_PreambleBeforeFirstHeadingIsDropped(t *testing.T) {
	text := strings.Join([]string{
		"Cover page",
		"Registered office details",
		"Director's Report",
		"Report body.",
	}, "\n")

	sections := DetectSections(text)
	require.Len(t, sections, 1)
	assert.Equal(t, "Director's Report", sections[0].Name)
	assert.NotContains(t, sections[0].Content, "Cover page")
	assert.NotContains(t, sections[0].Content, "Registered office")
}

func TestDetectSections_LongLineMentionIsNotAHeading(t *testing.T) {
	// Mentions "Balance Sheet" but is far longer than the title plus
	// slack, so it is prose, not a heading.
	prose := "The auditors reviewed the Balance Sheet alongside all other statements prepared by management during the year."
	text := "Corporate Overview\n" + prose

	sections := DetectSections(text)
	require.Len(t, sections, 1)
	assert.Equal(t, "Corporate Overview", sections[0].Name)
	assert.Contains(t, sections[0].Content, prose)
}

func TestDetectSections_FirstVocabularyMatchWins(t *testing.T) {
	// "Independent Auditor's Report" contains "Auditor's Report", which
	// appears earlier in the vocabulary, so the earlier title wins.
	text := "Independent Auditor's Report\nOpinion paragraph."

	sections := DetectSections(text)
	require.Len(t, sections, 1)
	assert.Equal(t, "Auditor's Report", sections[0].Name)
}

func TestDetectSections_CaseInsensitiveHeadings(t *testing.T) {
	text := "BALANCE SHEET\nvalues"

	sections := DetectSections(text)
	require.Len(t, sections, 1)
	assert.Equal(t, "Balance Sheet", sections[0].Name)
}

func TestDetectSections_NoHeadingsFallsBackToFiveChunks(t *testing.T) {
	text := strings.Repeat("plain prose with no recognizable titles. ", 100)

	sections := DetectSections(text)
	require.Len(t, sections, 5)

	assert.Equal(t, "Beginning of Report", sections[0].Name)
	assert.Equal(t, "End of Report", sections[4].Name)

	// Chunks cover the full text contiguously from offset 0.
	assert.Equal(t, 0, sections[0].StartIndex)
	covered := 0
	for _, s := range sections {
		assert.Equal(t, covered, s.StartIndex)
		covered += len(s.Content)
	}
	assert.Equal(t, len(text), covered)
}

func TestDetectSections_ShortTextProducesFewerChunks(t *testing.T) {
	// len 4 gives ceil(4/5)=1 char per chunk and only 4 chunks fit.
	sections := DetectSections("tiny")
	require.Len(t, sections, 4)
	assert.Equal(t, "Beginning of Report", sections[0].Name)
	assert.Equal(t, "t", sections[0].Content)
	assert.Equal(t, "y", sections[3].Content)
}

func TestDetectSections_EmptyText(t *testing.T) {
	sections := DetectSections("")
	assert.Empty(t, sections)
}
