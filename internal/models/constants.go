package models

const (
	// Epsilon replaces a zero denominator so ratios stay finite.
	Epsilon = 1e-9

	MarkerTotalAssets        = "TOTAL ASSETS"
	MarkerCurrentAssets      = "CURRENT ASSETS"
	MarkerCurrentLiabilities = "CURRENT LIABILITIES"

	NotAvailable = "N/A"
)

var (
	// DefaultMarkers lists the label fragments used to find the special rows.
	// The Vietnamese aliases match the statements the tool was first built for.
	DefaultMarkers = Markers{
		TotalAssets:        []string{MarkerTotalAssets, "TỔNG CỘNG TÀI SẢN"},
		CurrentAssets:      []string{MarkerCurrentAssets, "TÀI SẢN NGẮN HẠN"},
		CurrentLiabilities: []string{MarkerCurrentLiabilities, "NỢ NGẮN HẠN"},
	}

	AnalysisSystemPrompt = `You are a professional financial analyst. Based on the figures below, write an objective and concise commentary (about 3-4 paragraphs) on the company's financial position. Focus on growth rates, changes in the asset structure and the current ratio (short-term solvency).`

	AnalysisPromptTemplate = `Raw data and indicators:

| Indicator | Value |
|---|---|
| Current assets growth (%%) | %s |
| Current ratio (prior period) | %s |
| Current ratio (current period) | %s |

Full analysis table:

%s
`
)
