package library_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"perpus-admin-api/internal/domain"
	"perpus-admin-api/internal/library"
)

func exportLoan() library.LoanWithDetails {
	return library.LoanWithDetails{
		Loan: domain.Loan{
			ID:         "L1",
			BorrowDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			DueDate:    time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
			Status:     domain.LoanBorrowed,
			Notes:      "catatan",
		},
		BookTitles:   []string{"Laskar Pelangi", "Bumi Manusia"},
		BorrowerName: "Ani",
		ClassName:    "XI-A",
	}
}

func TestLoanExportRows_ActiveLoan(t *testing.T) {
	rows := library.LoanExportRows([]library.LoanWithDetails{exportLoan()}, testNow)

	require.Len(t, rows, 1)
	row := rows[0]
	assert.Equal(t, "L1", row[0])
	assert.Equal(t, "Laskar Pelangi, Bumi Manusia", row[1])
	assert.Equal(t, "Ani", row[2])
	assert.Equal(t, "XI-A", row[3])
	assert.Equal(t, "01/01/2024", row[4])
	assert.Equal(t, "08/01/2024", row[5])
	assert.Equal(t, "Belum Dikembalikan", row[6])
	assert.Equal(t, "Dipinjam", row[7])
	assert.Equal(t, "8 hari", row[8])
	assert.Equal(t, "catatan", row[9])
}

func TestLoanExportRows_ReturnedLoan(t *testing.T) {
	l := exportLoan()
	l.Status = domain.LoanReturned
	ret := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	l.ReturnDate = &ret

	rows := library.LoanExportRows([]library.LoanWithDetails{l}, testNow)

	row := rows[0]
	assert.Equal(t, "05/01/2024", row[6])
	assert.Equal(t, "Dikembalikan", row[7])
	assert.Equal(t, "Tidak", row[8], "returned loans carry no lateness even past due")
}

func TestLoanExportRows_NotYetLate(t *testing.T) {
	l := exportLoan()
	l.DueDate = testNow.AddDate(0, 0, 2)

	rows := library.LoanExportRows([]library.LoanWithDetails{l}, testNow)

	assert.Equal(t, "Tidak", rows[0][8])
}

func TestLoanExportRows_PartialDayRoundsUp(t *testing.T) {
	l := exportLoan()
	l.DueDate = testNow.Add(-6 * time.Hour)

	rows := library.LoanExportRows([]library.LoanWithDetails{l}, testNow)

	assert.Equal(t, "1 hari", rows[0][8])
}

func TestWriteLoanWorkbook(t *testing.T) {
	var buf bytes.Buffer
	err := library.WriteLoanWorkbook(&buf, []library.LoanWithDetails{exportLoan()}, testNow)
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Data"}, f.GetSheetList())

	rows, err := f.GetRows("Data")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "ID Peminjaman", rows[0][0])
	assert.Equal(t, "Catatan", rows[0][9])
	assert.Equal(t, "L1", rows[1][0])
	assert.Equal(t, "Dipinjam", rows[1][7])
}

func TestWriteLoanWorkbook_Empty(t *testing.T) {
	var buf bytes.Buffer
	err := library.WriteLoanWorkbook(&buf, nil, testNow)
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Data")
	require.NoError(t, err)
	require.Len(t, rows, 1, "header only")
}
