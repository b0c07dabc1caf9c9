package models

// RunSummary is the structured result of one pipeline run.
type RunSummary struct {
	Scraped    int      `json:"scraped"`
	New        int      `json:"new"`
	Candidates int      `json:"candidates"`
	Approved   int      `json:"approved"`
	Rejected   int      `json:"rejected"`
	Success    bool     `json:"success"`
	Errors     []string `json:"errors,omitempty"`
}

// ReviewedListing pairs a candidate with the verdict it received.
type ReviewedListing struct {
	Listing *Listing
	Verdict ReviewVerdict
}

// RunReport holds the computed analytics over one run's reviewed candidates.
type RunReport struct {
	Date             string
	Summary          RunSummary
	ListingsBySource map[string]int
	ApprovedBySource map[string]int
	AverageScore     float64
	TopApproved      []ReviewedListing
}
