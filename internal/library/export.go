package library

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/xuri/excelize/v2"

	"perpus-admin-api/internal/domain"
)

// Export keeps the original report's Indonesian column headers so the
// downloaded file matches what the librarians already archive.
var loanExportHeaders = []string{
	"ID Peminjaman",
	"Judul Buku",
	"Peminjam",
	"Kelas",
	"Tanggal Pinjam",
	"Tanggal Jatuh Tempo",
	"Tanggal Kembali",
	"Status",
	"Keterlambatan",
	"Catatan",
}

const exportDateLayout = "02/01/2006"

// LoanExportRows flattens enriched loans into pre-formatted spreadsheet
// rows: dates localized, status and lateness already translated.
func LoanExportRows(loans []LoanWithDetails, now time.Time) [][]string {
	rows := make([][]string, 0, len(loans))
	for _, l := range loans {
		titles := ""
		for i, t := range l.BookTitles {
			if i > 0 {
				titles += ", "
			}
			titles += t
		}

		returned := "Belum Dikembalikan"
		if l.ReturnDate != nil {
			returned = l.ReturnDate.Format(exportDateLayout)
		}

		status := "Dikembalikan"
		if l.Status == domain.LoanBorrowed {
			status = "Dipinjam"
		}

		late := "Tidak"
		if l.Status == domain.LoanBorrowed && now.After(l.DueDate) {
			days := int(math.Ceil(now.Sub(l.DueDate).Hours() / 24))
			late = fmt.Sprintf("%d hari", days)
		}

		rows = append(rows, []string{
			l.ID,
			titles,
			l.BorrowerName,
			l.ClassName,
			l.BorrowDate.Format(exportDateLayout),
			l.DueDate.Format(exportDateLayout),
			returned,
			status,
			late,
			l.Notes,
		})
	}
	return rows
}

const exportSheet = "Data"

// WriteLoanWorkbook renders the rows into a single-sheet xlsx workbook.
func WriteLoanWorkbook(w io.Writer, loans []LoanWithDetails, now time.Time) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		return err
	}
	if err := setRow(f, 1, loanExportHeaders); err != nil {
		return err
	}
	for i, row := range LoanExportRows(loans, now) {
		if err := setRow(f, i+2, row); err != nil {
			return err
		}
	}
	return f.Write(w)
}

func setRow(f *excelize.File, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	return f.SetSheetRow(exportSheet, cell, &values)
}
