package models

// SearchResult represents a single row of a release search listing.
// It carries just enough to identify the subtitle and fetch its detail page.
type SearchResult struct {
	ID        string `json:"id"`        // Numeric identifier taken from the detail link path
	Name      string `json:"name"`      // Release name as listed
	Language  string `json:"language"`  // Language badge of the row
	DetailURL string `json:"detailUrl"` // Relative URL of the subtitle detail page
}

// ResultSet represents one search call's listing in page order.
type ResultSet struct {
	Query   string         `json:"query"`
	Results []SearchResult `json:"results"`
	Total   int            `json:"total"`
}
