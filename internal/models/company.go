package models

// CompanyResult is one company candidate resolved from an exchange search
// or the static fallback table.
type CompanyResult struct {
	Name         string `json:"name"`
	Symbol       string `json:"symbol"`
	Exchange     string `json:"exchange"`
	BSEScripCode string `json:"bseScripCode,omitempty"`
}

// AnnualReportListing is one candidate annual-report PDF for a company.
// Listings are advisory: the URL is not validated until fetched.
type AnnualReportListing struct {
	Year   string `json:"year"`
	Title  string `json:"title"`
	PDFURL string `json:"pdfUrl"`
	Source string `json:"source"`
}
