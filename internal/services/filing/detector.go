// Package filing provides annual-report PDF ingestion and section detection
package filing

import (
	"strings"

	"github.com/bobmcallan/filinglens/internal/models"
)

// sectionVocabulary lists known Indian annual-report chapter titles in
// priority order. The scan stops at the first title that matches a line, so
// a heading containing several titles takes the earliest one in this list.
var sectionVocabulary = []string{
	"Chairman's Message",
	"Director's Report",
	"Management Discussion and Analysis",
	"Corporate Governance Report",
	"Auditor's Report",
	"Independent Auditor's Report",
	"Balance Sheet",
	"Statement of Profit and Loss",
	"Cash Flow Statement",
	"Notes to Financial Statements",
	"CSR Report",
	"Secretarial Audit Report",
	"Risk Management",
	"Business Responsibility Report",
	"Standalone Financial Statements",
	"Consolidated Financial Statements",
	"Shareholders' Information",
	"Related Party Transactions",
	"Board of Directors",
	"Corporate Overview",
}

// genericSectionNames label the positional fallback chunks when no heading
// matches anywhere in the document.
var genericSectionNames = []string{
	"Beginning of Report",
	"Early Sections",
	"Middle Sections",
	"Later Sections",
	"End of Report",
}

// headingSlack is the extra length a line may carry beyond the matched title
// and still count as a heading. Longer lines merely mention the title in
// passing prose.
const headingSlack = 30

// DetectSections partitions extracted report text into named sections.
//
// Lines are scanned in order; a line whose trimmed lower-cased form contains
// a vocabulary title and is shorter than the title length plus headingSlack
// opens a new section at the current character offset. Lines before the
// first detected heading are dropped. If no heading matches at all, the
// text is instead split into up to 5 equal positional chunks.
func DetectSections(text string) []models.Section {
	var sections []models.Section

	lines := strings.Split(text, "\n")
	var current *openSection
	charIndex := 0

	for _, line := range lines {
		trimmed := strings.ToLower(strings.TrimSpace(line))

		matched := ""
		for _, title := range sectionVocabulary {
			if strings.Contains(trimmed, strings.ToLower(title)) && len(trimmed) < len(title)+headingSlack {
				matched = title
				break
			}
		}

		if matched != "" {
			if current != nil {
				sections = append(sections, current.close())
			}
			current = &openSection{name: matched, startIndex: charIndex}
		} else if current != nil {
			current.lines = append(current.lines, line)
		}

		charIndex += len(line) + 1
	}

	if current != nil {
		sections = append(sections, current.close())
	}

	if len(sections) == 0 {
		return chunkSections(text)
	}

	return sections
}

type openSection struct {
	name       string
	startIndex int
	lines      []string
}

func (o *openSection) close() models.Section {
	return models.Section{
		Name:       o.name,
		StartIndex: o.startIndex,
		Content:    strings.Join(o.lines, "\n"),
	}
}

// chunkSections splits text into up to 5 equal contiguous slices with
// generic positional names. Chunks that would start past the end of the
// text are omitted, so short texts produce fewer than 5 sections.
func chunkSections(text string) []models.Section {
	var sections []models.Section

	chunkSize := (len(text) + len(genericSectionNames) - 1) / len(genericSectionNames)
	for i, name := range genericSectionNames {
		start := i * chunkSize
		if start >= len(text) {
			break
		}
		end := start + chunkSize
		if end > len(text) {
			end = len(text)
		}
		sections = append(sections, models.Section{
			Name:       name,
			StartIndex: start,
			Content:    text[start:end],
		})
	}

	return sections
}
