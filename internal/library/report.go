package library

import (
	"sort"
	"time"

	"perpus-admin-api/internal/domain"
)

type StatusCounts struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Returned int `json:"returned"`
	Overdue  int `json:"overdue"`
}

// CountByStatus tallies an enriched collection. Overdue is a subset of
// active, so Active+Returned == Total while Overdue counts separately.
func CountByStatus(loans []LoanWithDetails) StatusCounts {
	var c StatusCounts
	c.Total = len(loans)
	for _, l := range loans {
		switch l.Status {
		case domain.LoanBorrowed:
			c.Active++
			if l.IsOverdue {
				c.Overdue++
			}
		case domain.LoanReturned:
			c.Returned++
		}
	}
	return c
}

type MonthlyReport struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	StatusCounts
}

// MonthlyStats narrows to loans borrowed in the given month. An empty
// subset yields zero counts, not an error.
func MonthlyStats(loans []LoanWithDetails, year int, month time.Month) MonthlyReport {
	var subset []LoanWithDetails
	for _, l := range loans {
		if l.BorrowDate.Year() == year && l.BorrowDate.Month() == month {
			subset = append(subset, l)
		}
	}
	return MonthlyReport{
		Year:         year,
		Month:        int(month),
		StatusCounts: CountByStatus(subset),
	}
}

type BookCount struct {
	Book  domain.Book `json:"book"`
	Count int         `json:"count"`
}

// PopularBooks counts loan occurrences per book id (a multi-book loan
// increments every referenced book), sorted descending with ties kept
// in the original book order. Only books with at least one loan appear.
func PopularBooks(loans []domain.Loan, books []domain.Book, topN int) []BookCount {
	counts := make(map[string]int)
	for _, l := range loans {
		for _, id := range l.BookIDs {
			counts[id]++
		}
	}

	out := make([]BookCount, 0, len(books))
	for _, b := range books {
		if n := counts[b.ID]; n > 0 {
			out = append(out, BookCount{Book: b, Count: n})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if topN >= 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}
