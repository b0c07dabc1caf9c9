package services

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"shop-seeker/models"
	"shop-seeker/utils"
)

const topApprovedLimit = 5

// ReportService computes and prints end-of-run analytics.
type ReportService struct {
	logger *utils.Logger
}

func NewReportService(logger *utils.Logger) *ReportService {
	return &ReportService{logger: logger}
}

func (s *ReportService) Generate(date string, scraped []*models.Listing,
	reviewed []models.ReviewedListing, summary models.RunSummary) *models.RunReport {
	report := &models.RunReport{
		Date:             date,
		Summary:          summary,
		ListingsBySource: make(map[string]int),
		ApprovedBySource: make(map[string]int),
	}

	for _, l := range scraped {
		report.ListingsBySource[l.Source]++
	}

	if len(reviewed) == 0 {
		return report
	}

	var total int
	var approved []models.ReviewedListing
	for _, r := range reviewed {
		total += r.Verdict.SuitabilityScore
		if r.Verdict.Approved {
			approved = append(approved, r)
			report.ApprovedBySource[r.Listing.Source]++
		}
	}
	report.AverageScore = round2(float64(total) / float64(len(reviewed)))

	// Top approved by score; ties keep discovery order
	sort.SliceStable(approved, func(i, j int) bool {
		return approved[i].Verdict.SuitabilityScore > approved[j].Verdict.SuitabilityScore
	})
	if len(approved) > topApprovedLimit {
		approved = approved[:topApprovedLimit]
	}
	report.TopApproved = approved

	return report
}

func (s *ReportService) Print(w io.Writer, r *models.RunReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  🪚 SHOP SEEKER RUN — %s\033[0m\n", r.Date)
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	// Overview
	fmt.Fprintf(w, "\033[1;33m  Overview\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Listings scraped : \033[1m%d\033[0m\n", r.Summary.Scraped)
	fmt.Fprintf(w, "  New listings     : \033[1m%d\033[0m\n", r.Summary.New)
	fmt.Fprintf(w, "  Candidates       : \033[1m%d\033[0m\n", r.Summary.Candidates)
	fmt.Fprintf(w, "  Approved         : \033[1;32m%d\033[0m\n", r.Summary.Approved)
	fmt.Fprintf(w, "  Rejected         : \033[1;31m%d\033[0m\n", r.Summary.Rejected)
	if r.Summary.Candidates > 0 {
		fmt.Fprintf(w, "  Average score    : \033[1m%.2f\033[0m\n", r.AverageScore)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Top Approved Spaces\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.TopApproved) == 0 {
		fmt.Fprintf(w, "  No approved listings this run\n")
	} else {
		for i, a := range r.TopApproved {
			fmt.Fprintf(w, "  \033[1m%d.\033[0m %-38s \033[1;32m%2d/10\033[0m  %s\n",
				i+1, truncate(a.Listing.Title, 36), a.Verdict.SuitabilityScore, a.Verdict.EstMonthlyCost)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Listings by Source\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.ListingsBySource) == 0 {
		fmt.Fprintf(w, "  No listings scraped\n")
	} else {
		type srcCount struct {
			src   string
			count int
		}
		var srcs []srcCount
		for src, cnt := range r.ListingsBySource {
			srcs = append(srcs, srcCount{src, cnt})
		}
		sort.Slice(srcs, func(i, j int) bool {
			if srcs[i].count != srcs[j].count {
				return srcs[i].count > srcs[j].count
			}
			return srcs[i].src < srcs[j].src
		})
		for _, sc := range srcs {
			fmt.Fprintf(w, "  %-16s %4d scraped, %3d approved\n", sc.src, sc.count, r.ApprovedBySource[sc.src])
		}
	}

	if len(r.Summary.Errors) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "\033[1;31m  Errors (%d)\033[0m\n", len(r.Summary.Errors))
		fmt.Fprintf(w, "  %s\n", thin)
		for _, e := range r.Summary.Errors {
			fmt.Fprintf(w, "  - %s\n", truncate(e, 70))
		}
	}

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

// truncate shortens s to at most max runes.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
