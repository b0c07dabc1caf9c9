package storage

import (
	"strconv"

	"shop-seeker/models"
)

const (
	approvedTab = "Approved"
	rejectedTab = "Rejected"

	// linkColumn is the zero-based index of the Link column (column E).
	linkColumn = 4
)

var (
	approvedHeader = []string{
		"Title", "Price", "Sqft", "Address", "Link", "Date Found",
		"Est. Monthly Cost", "Suitability Score", "AI Notes",
		"Followed Up?", "Who", "Notes",
	}
	rejectedHeader = []string{
		"Title", "Price", "Sqft", "Address", "Link", "Date Found",
		"Est. Monthly Cost", "Suitability Score", "Rejection Reason",
		"Reviewed By", "Notes",
	}
)

// Record is one outcome row: the listing, the date it was found and the verdict.
type Record struct {
	Title            string
	Price            string
	Sqft             string
	Address          string
	Link             string
	DateFound        string
	EstMonthlyCost   string
	SuitabilityScore string
	Notes            string
}

// NewRecord builds a Record from a listing and the verdict it received.
func NewRecord(l *models.Listing, v models.ReviewVerdict, dateFound string) Record {
	return Record{
		Title:            l.Title,
		Price:            l.Price,
		Sqft:             l.Sqft,
		Address:          l.Address,
		Link:             l.Link,
		DateFound:        dateFound,
		EstMonthlyCost:   v.EstMonthlyCost,
		SuitabilityScore: strconv.Itoa(v.SuitabilityScore),
		Notes:            v.Reasoning,
	}
}

func (r Record) fields() []string {
	return []string{
		r.Title, r.Price, r.Sqft, r.Address, r.Link, r.DateFound,
		r.EstMonthlyCost, r.SuitabilityScore, r.Notes,
	}
}

// ApprovedRow is the row layout of the Approved table, with the three
// human-edited columns (Followed Up?, Who, Notes) left blank.
func (r Record) ApprovedRow() []string {
	return append(r.fields(), "", "", "")
}

// RejectedRow is the row layout of the Rejected table, with the two
// human-edited columns (Reviewed By, Notes) left blank.
func (r Record) RejectedRow() []string {
	return append(r.fields(), "", "")
}

// collectLinks adds the link column of rows to seen, skipping the header row
// and blank cells.
func collectLinks(seen *models.SeenSet, rows [][]string) {
	for i, row := range rows {
		if i == 0 || len(row) <= linkColumn {
			continue
		}
		seen.Add(row[linkColumn])
	}
}
