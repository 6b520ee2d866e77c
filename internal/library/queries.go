package library

import (
	"context"
	"sort"
	"time"

	"perpus-admin-api/internal/domain"
)

// LoanView selects the slice of loans a list or report works on.
type LoanView string

const (
	ViewAll     LoanView = "all"
	ViewActive  LoanView = "active"
	ViewOverdue LoanView = "overdue"
)

// ListLoans returns the enriched projection for the requested view.
// The overdue view pushes the due-date range filter down to the store.
func (s *Service) ListLoans(ctx context.Context, view LoanView) ([]LoanWithDetails, error) {
	now := s.now()
	f := domain.LoanFilter{}
	switch view {
	case ViewActive:
		f.Status = domain.LoanBorrowed
	case ViewOverdue:
		f.Status = domain.LoanBorrowed
		f.DueBefore = &now
	}
	loans, err := s.loans.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return s.enrichLoans(ctx, loans, now)
}

func (s *Service) enrichLoans(ctx context.Context, loans []domain.Loan, now time.Time) ([]LoanWithDetails, error) {
	books, _, err := s.books.List(ctx, domain.ListParams{})
	if err != nil {
		return nil, err
	}
	members, _, err := s.members.List(ctx, domain.ListParams{})
	if err != nil {
		return nil, err
	}
	return EnrichAll(loans, books, members, now, s.set.dueSoonWindow()), nil
}

// Monthly reports on loans whose borrow date falls in the given month.
func (s *Service) Monthly(ctx context.Context, year int, month time.Month) (MonthlyReport, error) {
	all, err := s.ListLoans(ctx, ViewAll)
	if err != nil {
		return MonthlyReport{}, err
	}
	return MonthlyStats(all, year, month), nil
}

// Popular returns the topN most-borrowed books.
func (s *Service) Popular(ctx context.Context, topN int) ([]BookCount, error) {
	loans, err := s.loans.List(ctx, domain.LoanFilter{})
	if err != nil {
		return nil, err
	}
	books, _, err := s.books.List(ctx, domain.ListParams{})
	if err != nil {
		return nil, err
	}
	return PopularBooks(loans, books, topN), nil
}

type DashboardStats struct {
	TotalBooks    int               `json:"totalBooks"`
	ActiveBooks   int               `json:"activeBooks"`
	TotalMembers  int               `json:"totalMembers"`
	ActiveMembers int               `json:"activeMembers"`
	Loans         StatusCounts      `json:"loans"`
	RecentLoans   []LoanWithDetails `json:"recentLoans"`
	PopularBooks  []BookCount       `json:"popularBooks"`
}

const recentLoanCount = 5

// Dashboard aggregates the landing-page counters in one pass over the
// collections.
func (s *Service) Dashboard(ctx context.Context) (*DashboardStats, error) {
	books, _, err := s.books.List(ctx, domain.ListParams{})
	if err != nil {
		return nil, err
	}
	members, _, err := s.members.List(ctx, domain.ListParams{})
	if err != nil {
		return nil, err
	}
	loans, err := s.loans.List(ctx, domain.LoanFilter{})
	if err != nil {
		return nil, err
	}

	now := s.now()
	enriched := EnrichAll(loans, books, members, now, s.set.dueSoonWindow())

	out := &DashboardStats{
		TotalBooks:   len(books),
		TotalMembers: len(members),
		Loans:        CountByStatus(enriched),
		PopularBooks: PopularBooks(loans, books, 3),
	}
	for _, b := range books {
		if b.IsActive {
			out.ActiveBooks++
		}
	}
	for _, m := range members {
		if m.IsActive {
			out.ActiveMembers++
		}
	}

	recent := make([]LoanWithDetails, len(enriched))
	copy(recent, enriched)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].BorrowDate.After(recent[j].BorrowDate)
	})
	if len(recent) > recentLoanCount {
		recent = recent[:recentLoanCount]
	}
	out.RecentLoans = recent
	return out, nil
}
