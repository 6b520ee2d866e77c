package library

import (
	"time"

	"perpus-admin-api/internal/domain"
)

// Placeholders used when a loan references a record that has since
// disappeared. Enrichment degrades, it never fails.
const (
	BookNotFound   = "book not found"
	MemberNotFound = "member not found"
	GuestClass     = "non-member"
)

// LoanWithDetails is the display-ready projection of a loan. It is
// recomputed on every read; the overdue/due-soon flags are a function
// of the clock and carry no staleness guarantee.
type LoanWithDetails struct {
	domain.Loan
	BookTitles    []string `json:"bookTitles"`
	BorrowerName  string   `json:"borrowerName"`
	ClassName     string   `json:"className"`
	BorrowerPhone string   `json:"borrowerPhone,omitempty"`
	MemberID      string   `json:"memberId,omitempty"`
	IsMember      bool     `json:"isMember"`
	IsOverdue     bool     `json:"isOverdue"`
	IsDueSoon     bool     `json:"isDueSoon"`
}

// Enrich joins a loan with the current book and member collections at
// read time.
func Enrich(l domain.Loan, books map[string]domain.Book, members map[string]domain.Member, now time.Time, dueSoon time.Duration) LoanWithDetails {
	out := LoanWithDetails{Loan: l}

	out.BookTitles = make([]string, 0, len(l.BookIDs))
	for _, id := range l.BookIDs {
		if b, ok := books[id]; ok {
			out.BookTitles = append(out.BookTitles, b.Title)
		} else {
			out.BookTitles = append(out.BookTitles, BookNotFound)
		}
	}

	switch v := l.Borrower.(type) {
	case domain.MemberRef:
		out.IsMember = true
		out.MemberID = v.MemberID
		if m, ok := members[v.MemberID]; ok {
			out.BorrowerName = m.Name
			out.ClassName = m.ClassName
			out.BorrowerPhone = m.Phone
		} else {
			out.BorrowerName = MemberNotFound
			out.ClassName = MemberNotFound
		}
	case domain.Guest:
		out.BorrowerName = v.Name
		out.BorrowerPhone = v.Phone
		out.ClassName = v.Class
		if out.ClassName == "" {
			out.ClassName = GuestClass
		}
	}

	if l.Status == domain.LoanBorrowed {
		switch {
		case now.After(l.DueDate):
			out.IsOverdue = true
		case l.DueDate.Sub(now) <= dueSoon:
			out.IsDueSoon = true
		}
	}
	return out
}

// EnrichAll projects a whole collection against the same reference time.
func EnrichAll(loans []domain.Loan, books []domain.Book, members []domain.Member, now time.Time, dueSoon time.Duration) []LoanWithDetails {
	bm := make(map[string]domain.Book, len(books))
	for _, b := range books {
		bm[b.ID] = b
	}
	mm := make(map[string]domain.Member, len(members))
	for _, m := range members {
		mm[m.ID] = m
	}
	out := make([]LoanWithDetails, 0, len(loans))
	for _, l := range loans {
		out = append(out, Enrich(l, bm, mm, now, dueSoon))
	}
	return out
}
