package lookup

import (
	"strings"

	"github.com/bobmcallan/filinglens/internal/models"
)

// knownCompanies is the static fallback table used when the live NSE search
// is unavailable or returns nothing. Large-cap NSE/BSE names with their BSE
// scrip codes; enough for demos and offline use.
var knownCompanies = []models.CompanyResult{
	{Name: "Reliance Industries Limited", Symbol: "RELIANCE", Exchange: "NSE/BSE", BSEScripCode: "500325"},
	{Name: "Tata Consultancy Services", Symbol: "TCS", Exchange: "NSE/BSE", BSEScripCode: "532540"},
	{Name: "HDFC Bank Limited", Symbol: "HDFCBANK", Exchange: "NSE/BSE", BSEScripCode: "500180"},
	{Name: "Infosys Limited", Symbol: "INFY", Exchange: "NSE/BSE", BSEScripCode: "500209"},
	{Name: "ICICI Bank Limited", Symbol: "ICICIBANK", Exchange: "NSE/BSE", BSEScripCode: "532174"},
	{Name: "Hindustan Unilever", Symbol: "HINDUNILVR", Exchange: "NSE/BSE", BSEScripCode: "500696"},
	{Name: "Bharti Airtel Limited", Symbol: "BHARTIARTL", Exchange: "NSE/BSE", BSEScripCode: "532454"},
	{Name: "State Bank of India", Symbol: "SBIN", Exchange: "NSE/BSE", BSEScripCode: "500112"},
	{Name: "ITC Limited", Symbol: "ITC", Exchange: "NSE/BSE", BSEScripCode: "500875"},
	{Name: "Kotak Mahindra Bank", Symbol: "KOTAKBANK", Exchange: "NSE/BSE", BSEScripCode: "500247"},
	{Name: "Larsen & Toubro", Symbol: "LT", Exchange: "NSE/BSE", BSEScripCode: "500510"},
	{Name: "Wipro Limited", Symbol: "WIPRO", Exchange: "NSE/BSE", BSEScripCode: "507685"},
	{Name: "Asian Paints Limited", Symbol: "ASIANPAINT", Exchange: "NSE/BSE", BSEScripCode: "500820"},
	{Name: "HCL Technologies", Symbol: "HCLTECH", Exchange: "NSE/BSE", BSEScripCode: "532281"},
	{Name: "Bajaj Finance Limited", Symbol: "BAJFINANCE", Exchange: "NSE/BSE", BSEScripCode: "500034"},
	{Name: "Maruti Suzuki India", Symbol: "MARUTI", Exchange: "NSE/BSE", BSEScripCode: "532500"},
	{Name: "Sun Pharmaceutical Industries", Symbol: "SUNPHARMA", Exchange: "NSE/BSE", BSEScripCode: "524715"},
	{Name: "Titan Company Limited", Symbol: "TITAN", Exchange: "NSE/BSE", BSEScripCode: "500114"},
	{Name: "Adani Enterprises", Symbol: "ADANIENT", Exchange: "NSE/BSE", BSEScripCode: "512599"},
	{Name: "Tata Motors Limited", Symbol: "TATAMOTORS", Exchange: "NSE/BSE", BSEScripCode: "500570"},
}

// filterKnownCompanies matches query case-insensitively against company
// name, symbol, or raw scrip code.
func filterKnownCompanies(query string) []models.CompanyResult {
	q := strings.ToLower(query)

	var results []models.CompanyResult
	for _, c := range knownCompanies {
		if strings.Contains(strings.ToLower(c.Name), q) ||
			strings.Contains(strings.ToLower(c.Symbol), q) ||
			strings.Contains(c.BSEScripCode, query) {
			results = append(results, c)
		}
	}
	return results
}
