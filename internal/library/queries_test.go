package library_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perpus-admin-api/internal/domain"
	"perpus-admin-api/internal/library"
)

// seeds three loans: one returned, one active, one active and overdue.
func seedLoanMix(t *testing.T, f *fixture) {
	t.Helper()
	ctx := context.Background()
	f.addBook(t, "B1", "Laskar Pelangi", 10, true)
	f.addBook(t, "B2", "Bumi Manusia", 10, true)
	f.addMember(t, "M1", "Ani", true)

	early := validInput("B1")
	early.BorrowDate = time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)
	early.DueDate = early.BorrowDate.AddDate(0, 0, 7)
	l, err := f.svc.CreateLoan(ctx, early)
	require.NoError(t, err)
	_, err = f.svc.ReturnLoan(ctx, l.ID)
	require.NoError(t, err)

	overdue := validInput("B1", "B2")
	overdue.BorrowDate = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	overdue.DueDate = time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC) // before testNow
	_, err = f.svc.CreateLoan(ctx, overdue)
	require.NoError(t, err)

	current := validInput("B1")
	current.BorrowDate = time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC)
	current.DueDate = testNow.AddDate(0, 0, 10)
	_, err = f.svc.CreateLoan(ctx, current)
	require.NoError(t, err)
}

func TestListLoans_Views(t *testing.T) {
	f := newFixture(t, library.DefaultSettings())
	seedLoanMix(t, f)
	ctx := context.Background()

	all, err := f.svc.ListLoans(ctx, library.ViewAll)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	active, err := f.svc.ListLoans(ctx, library.ViewActive)
	require.NoError(t, err)
	assert.Len(t, active, 2)
	for _, l := range active {
		assert.Equal(t, domain.LoanBorrowed, l.Status)
	}

	overdue, err := f.svc.ListLoans(ctx, library.ViewOverdue)
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.True(t, overdue[0].IsOverdue)
	assert.Equal(t, []string{"Laskar Pelangi", "Bumi Manusia"}, overdue[0].BookTitles)
}

func TestMonthly(t *testing.T) {
	f := newFixture(t, library.DefaultSettings())
	seedLoanMix(t, f)

	r, err := f.svc.Monthly(context.Background(), 2024, time.January)
	require.NoError(t, err)

	assert.Equal(t, 2, r.Total)
	assert.Equal(t, 2, r.Active)
	assert.Equal(t, 1, r.Overdue)
	assert.Equal(t, 0, r.Returned)
}

func TestPopular(t *testing.T) {
	f := newFixture(t, library.DefaultSettings())
	seedLoanMix(t, f)

	out, err := f.svc.Popular(context.Background(), 3)
	require.NoError(t, err)

	require.Len(t, out, 2)
	assert.Equal(t, "Laskar Pelangi", out[0].Book.Title)
	assert.Equal(t, 3, out[0].Count)
	assert.Equal(t, "Bumi Manusia", out[1].Book.Title)
	assert.Equal(t, 1, out[1].Count)
}

func TestDashboard(t *testing.T) {
	f := newFixture(t, library.DefaultSettings())
	seedLoanMix(t, f)
	f.addBook(t, "B3", "Tertutup", 1, false)
	f.addMember(t, "M2", "Nonaktif", false)

	stats, err := f.svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalBooks)
	assert.Equal(t, 2, stats.ActiveBooks)
	assert.Equal(t, 2, stats.TotalMembers)
	assert.Equal(t, 1, stats.ActiveMembers)
	assert.Equal(t, 3, stats.Loans.Total)
	assert.Equal(t, 2, stats.Loans.Active)
	assert.Equal(t, 1, stats.Loans.Overdue)

	require.Len(t, stats.RecentLoans, 3)
	assert.Equal(t, time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC), stats.RecentLoans[0].BorrowDate)
	assert.Equal(t, time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), stats.RecentLoans[2].BorrowDate)

	require.NotEmpty(t, stats.PopularBooks)
	assert.Equal(t, "Laskar Pelangi", stats.PopularBooks[0].Book.Title)
}
