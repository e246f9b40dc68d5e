// Package properties implements the lookup side of the appraisal roll: free
// text search over accounts, streets, owners and postal codes, paginated for
// the UI that feeds accounts into the comparables engine.
package properties

// Summary is one search hit. Numeric fields are nil when the roll has no
// usable value.
type Summary struct {
	Account      string   `json:"acct"`
	Address      string   `json:"site_addr_1"`
	PostalCode   string   `json:"site_addr_3"`
	OwnerName    string   `json:"owner_name,omitempty"`
	MarketValue  *float64 `json:"market_value"`
	BuildingArea *float64 `json:"building_area"`
	BuildYear    *int     `json:"build_year"`
	PricePerSqft *float64 `json:"ppsf,omitempty"`
}

// Query is one property search. At least one of the text filters must be
// non-blank. ExactMatch switches the text filters from contains to equality.
type Query struct {
	Account    string
	Street     string
	PostalCode string
	Owner      string
	ExactMatch bool
	Page       int
	PageSize   int
}

// HasCriteria reports whether any text filter is set.
func (q Query) HasCriteria() bool {
	return q.Account != "" || q.Street != "" || q.PostalCode != "" || q.Owner != ""
}

// Result is one page of search hits plus the pagination frame.
type Result struct {
	Properties []*Summary `json:"properties"`
	Total      int        `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalPages int        `json:"total_pages"`
}
