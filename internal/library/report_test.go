package library_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"perpus-admin-api/internal/domain"
	"perpus-admin-api/internal/library"
)

func enriched(status domain.LoanStatus, overdue bool, borrow time.Time, bookIDs ...string) library.LoanWithDetails {
	return library.LoanWithDetails{
		Loan: domain.Loan{
			BookIDs:    bookIDs,
			BorrowDate: borrow,
			Status:     status,
		},
		IsOverdue: overdue,
	}
}

func TestCountByStatus(t *testing.T) {
	loans := []library.LoanWithDetails{
		enriched(domain.LoanBorrowed, false, testNow, "B1"),
		enriched(domain.LoanBorrowed, true, testNow, "B1"),
		enriched(domain.LoanReturned, false, testNow, "B2"),
	}

	c := library.CountByStatus(loans)

	assert.Equal(t, 3, c.Total)
	assert.Equal(t, 2, c.Active)
	assert.Equal(t, 1, c.Returned)
	assert.Equal(t, 1, c.Overdue)
}

func TestCountByStatus_Empty(t *testing.T) {
	assert.Equal(t, library.StatusCounts{}, library.CountByStatus(nil))
}

func TestMonthlyStats(t *testing.T) {
	jan := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
	loans := []library.LoanWithDetails{
		enriched(domain.LoanBorrowed, false, jan, "B1"),
		enriched(domain.LoanReturned, false, jan, "B2"),
		enriched(domain.LoanBorrowed, false, feb, "B1"),
	}

	r := library.MonthlyStats(loans, 2024, time.January)

	assert.Equal(t, 2024, r.Year)
	assert.Equal(t, 1, r.Month)
	assert.Equal(t, 2, r.Total)
	assert.Equal(t, 1, r.Active)
	assert.Equal(t, 1, r.Returned)
}

func TestMonthlyStats_EmptyMonth(t *testing.T) {
	r := library.MonthlyStats(nil, 2024, time.June)

	assert.Equal(t, 2024, r.Year)
	assert.Equal(t, 6, r.Month)
	assert.Equal(t, library.StatusCounts{}, r.StatusCounts)
}

func TestPopularBooks(t *testing.T) {
	books := []domain.Book{
		{ID: "B1", Title: "A"},
		{ID: "B2", Title: "B"},
		{ID: "B3", Title: "C"},
	}
	loans := []domain.Loan{
		{BookIDs: []string{"B1", "B2"}},
		{BookIDs: []string{"B1"}},
	}

	out := library.PopularBooks(loans, books, 10)

	assert.Len(t, out, 2, "books with zero loans are excluded")
	assert.Equal(t, "B1", out[0].Book.ID)
	assert.Equal(t, 2, out[0].Count)
	assert.Equal(t, "B2", out[1].Book.ID)
	assert.Equal(t, 1, out[1].Count)
}

func TestPopularBooks_TiesKeepOriginalOrder(t *testing.T) {
	books := []domain.Book{
		{ID: "B2", Title: "B"},
		{ID: "B1", Title: "A"},
	}
	loans := []domain.Loan{
		{BookIDs: []string{"B1"}},
		{BookIDs: []string{"B2"}},
	}

	out := library.PopularBooks(loans, books, 10)

	assert.Equal(t, "B2", out[0].Book.ID)
	assert.Equal(t, "B1", out[1].Book.ID)
}

func TestPopularBooks_TopN(t *testing.T) {
	books := []domain.Book{{ID: "B1"}, {ID: "B2"}, {ID: "B3"}}
	loans := []domain.Loan{
		{BookIDs: []string{"B1", "B2", "B3"}},
		{BookIDs: []string{"B1", "B2"}},
		{BookIDs: []string{"B1"}},
	}

	out := library.PopularBooks(loans, books, 2)

	assert.Len(t, out, 2)
	assert.Equal(t, "B1", out[0].Book.ID)
	assert.Equal(t, "B2", out[1].Book.ID)
}
