// Package models defines the data structures for FilingLens
package models

// Section is a contiguous named span of a filing's extracted text. Sections
// are ordered by StartIndex and do not overlap. The name is either drawn from
// the known annual-report chapter vocabulary or is a generic positional label
// when no headings were detected.
type Section struct {
	Name       string `json:"name"`
	StartIndex int    `json:"startIndex"`
	Content    string `json:"content"`
}

// SectionSummary is the listing shape for a section: the full content is
// replaced by its length and a short preview so the initial payload stays
// small. Full content travels separately in Filing.FullSections.
type SectionSummary struct {
	Name          string `json:"name"`
	StartIndex    int    `json:"startIndex"`
	ContentLength int    `json:"contentLength"`
	Preview       string `json:"preview"`
}

// Filing is one ingested annual-report PDF: extracted text, page count,
// source metadata, and the derived sections. Filings live only for the
// duration of a request; nothing is persisted server-side.
type Filing struct {
	Text         string           `json:"text"`
	Pages        int              `json:"pages"`
	FileName     string           `json:"fileName"`
	FileSize     int64            `json:"fileSize"`
	Sections     []SectionSummary `json:"sections"`
	FullSections []Section        `json:"fullSections"`
}

const previewLength = 200

// Summarize converts full sections into their listing shape.
func Summarize(sections []Section) []SectionSummary {
	summaries := make([]SectionSummary, 0, len(sections))
	for _, s := range sections {
		preview := s.Content
		if len(preview) > previewLength {
			preview = preview[:previewLength]
		}
		summaries = append(summaries, SectionSummary{
			Name:          s.Name,
			StartIndex:    s.StartIndex,
			ContentLength: len(s.Content),
			Preview:       preview,
		})
	}
	return summaries
}
