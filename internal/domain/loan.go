package domain

import (
	"context"
	"time"
)

type LoanStatus string

const (
	LoanBorrowed LoanStatus = "BORROWED"
	LoanReturned LoanStatus = "RETURNED"
)

// Borrower is the variant type behind a loan: either a registered
// member or a walk-in guest. Exactly one shape exists per loan.
type Borrower interface{ borrower() }

type MemberRef struct {
	MemberID string `json:"memberId"`
}

type Guest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Class string `json:"class,omitempty"`
}

func (MemberRef) borrower() {}
func (Guest) borrower()     {}

type Loan struct {
	ID         string     `json:"id"`
	BookIDs    []string   `json:"bookIds"` // never empty
	Borrower   Borrower   `json:"-"`
	BorrowDate time.Time  `json:"borrowDate"`
	DueDate    time.Time  `json:"dueDate"` // strictly after BorrowDate
	ReturnDate *time.Time `json:"returnDate,omitempty"`
	Status     LoanStatus `json:"status"`
	TotalBooks int        `json:"totalBooks"`
	Notes      string     `json:"notes,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// IsMemberLoan reports whether the borrower is a registered member.
func (l *Loan) IsMemberLoan() bool {
	_, ok := l.Borrower.(MemberRef)
	return ok
}

// LoanFilter narrows loan list queries. Zero value means "all loans".
type LoanFilter struct {
	Status    LoanStatus // "" = any
	DueBefore *time.Time // only loans with DueDate < DueBefore
	MemberID  string     // "" = any borrower
}

type LoanRepository interface {
	Create(ctx context.Context, l *Loan) error
	FindByID(ctx context.Context, id string) (*Loan, error)
	List(ctx context.Context, f LoanFilter) ([]Loan, error)
	Update(ctx context.Context, l *Loan) error
	Delete(ctx context.Context, id string) error
	// CountActiveByMember counts BORROWED loans held by a member.
	CountActiveByMember(ctx context.Context, memberID string) (int64, error)
	// HasActiveByBook reports whether any BORROWED loan references the book.
	HasActiveByBook(ctx context.Context, bookID string) (bool, error)
}
