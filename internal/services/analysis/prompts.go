package analysis

import (
	"fmt"
	"strings"

	"github.com/bobmcallan/filinglens/internal/models"
)

const summarizePrompt = `You are an expert financial analyst specializing in Indian listed companies (BSE/NSE). You analyze annual reports filed under SEBI LODR regulations and the Companies Act, 2013.

When summarizing a section of an Indian annual report, provide:
1. **Key Points** — The 3-5 most important takeaways from this section
2. **Financial Highlights** — Any notable numbers, metrics, or financial data mentioned
3. **Red Flags** — Any concerns, qualifications, material weaknesses, or items that warrant investor attention
4. **Outlook** — Any forward-looking statements or guidance from management

Be concise but thorough. Use bullet points. Highlight specific numbers and percentages when available. If the section contains financial tables, extract the key metrics.`

const diffPrompt = `You are an expert financial analyst specializing in Indian listed companies (BSE/NSE). You compare annual reports year-over-year to identify material changes.

When comparing two annual reports, identify:
1. **New Additions** — Risks, disclosures, business segments, or policies that appear in the current year but not the previous year
2. **Removals** — Items that were in the previous year but removed from the current year
3. **Material Changes** — Significant changes in language, tone, or emphasis between the two years
4. **Financial Changes** — Changes in key financial metrics (revenue, profit, margins, debt, etc.)
5. **Tone Shift** — Any shift in management tone from optimistic to cautious or vice versa

For each change, explain WHY it matters for investors. Use specific quotes when relevant. Format changes as a structured list with clear categories.`

const chatPrompt = `You are an expert financial analyst specializing in Indian listed companies (BSE/NSE). You have been given the full text of an annual report. Answer the user's questions accurately based solely on the information in the report.

Rules:
- Base your answers ONLY on the content of the annual report provided
- Quote specific text from the report when possible
- If the answer is not in the report, say so clearly
- Provide page/section references when possible
- Be concise but thorough
- For financial questions, cite specific numbers from the report
- Understand Indian financial reporting standards (Ind AS, Companies Act 2013, SEBI LODR)`

// systemPrompt returns the fixed instruction for an analysis kind.
func systemPrompt(kind models.AnalysisType) string {
	switch kind {
	case models.AnalysisDiff:
		return diffPrompt
	case models.AnalysisChat:
		return chatPrompt
	default:
		return summarizePrompt
	}
}

// buildSummarizeMessage scopes the prompt to a named section when one was
// supplied; otherwise the whole document is summarized within the budget.
func buildSummarizeMessage(text, sectionName string, budget int) string {
	if sectionName != "" {
		return fmt.Sprintf("Summarize the following section %q from the annual report:\n\n%s", sectionName, text)
	}
	return fmt.Sprintf("Summarize the key points of this annual report:\n\n%s", truncate(text, budget))
}

// buildDiffMessage labels and concatenates both years' texts, each clipped
// to the per-document budget.
func buildDiffMessage(text, previousText string, budget int) string {
	var sb strings.Builder
	sb.WriteString("Compare these two annual reports and identify all material changes:\n\n")
	sb.WriteString("**PREVIOUS YEAR REPORT:**\n")
	sb.WriteString(truncate(previousText, budget))
	sb.WriteString("\n\n**CURRENT YEAR REPORT:**\n")
	sb.WriteString(truncate(text, budget))
	return sb.String()
}

// buildChatMessage pairs the (clipped) document with the user's question.
func buildChatMessage(text, question string, budget int) string {
	return fmt.Sprintf("Based on this annual report:\n\n%s\n\nAnswer this question: %s", truncate(text, budget), question)
}

func truncate(s string, limit int) string {
	if limit > 0 && len(s) > limit {
		return s[:limit]
	}
	return s
}
