package library

import (
	"context"
	"time"

	"go.uber.org/zap"

	"perpus-admin-api/internal/domain"
	"perpus-admin-api/pkg/utils"
)

// Service drives the loan lifecycle and the entity rules that hang off
// it. All operations are synchronous; there is no transactional
// guarantee across the loan record and the N book records it touches
// (see CreateLoan for the compensation path).
type Service struct {
	books   domain.BookRepository
	members domain.MemberRepository
	loans   domain.LoanRepository
	inv     *Inventory
	set     Settings
	log     *zap.Logger
	now     func() time.Time
}

type Deps struct {
	Books   domain.BookRepository
	Members domain.MemberRepository
	Loans   domain.LoanRepository
	Set     Settings
	Log     *zap.Logger
	Now     func() time.Time // nil = time.Now
}

func NewService(d Deps) *Service {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	return &Service{
		books:   d.Books,
		members: d.Members,
		loans:   d.Loans,
		inv:     NewInventory(d.Books),
		set:     d.Set,
		log:     d.Log,
		now:     d.Now,
	}
}

type CreateLoanInput struct {
	BookIDs    []string
	Borrower   domain.Borrower
	BorrowDate time.Time
	DueDate    time.Time // zero = BorrowDate + DefaultLoanDays
	Notes      string
}

// CreateLoan validates in order (books, borrower, dates), then reserves
// every book and writes the loan. A reserve failure after the first
// book releases the already-reserved copies before returning.
func (s *Service) CreateLoan(ctx context.Context, in CreateLoanInput) (*domain.Loan, error) {
	if len(in.BookIDs) == 0 {
		return nil, domain.Validation("select at least one book")
	}

	for _, id := range in.BookIDs {
		b, err := s.books.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if b == nil {
			return nil, &domain.OutOfStockError{BookID: id, Title: id}
		}
		if !b.IsActive || b.Stock <= 0 {
			return nil, &domain.OutOfStockError{BookID: b.ID, Title: b.Title}
		}
	}

	if err := s.checkBorrower(ctx, in.Borrower); err != nil {
		return nil, err
	}

	if in.BorrowDate.IsZero() {
		in.BorrowDate = s.now()
	}
	if in.DueDate.IsZero() {
		days := s.set.DefaultLoanDays
		if days <= 0 {
			days = 7
		}
		in.DueDate = in.BorrowDate.AddDate(0, 0, days)
	}
	if !in.DueDate.After(in.BorrowDate) {
		return nil, domain.Validation("due date must be after borrow date")
	}

	reserved := make([]string, 0, len(in.BookIDs))
	for _, id := range in.BookIDs {
		if err := s.inv.Reserve(ctx, id); err != nil {
			s.releaseAll(ctx, reserved)
			return nil, err
		}
		reserved = append(reserved, id)
	}

	now := s.now()
	loan := &domain.Loan{
		ID:         utils.NewID(),
		BookIDs:    in.BookIDs,
		Borrower:   in.Borrower,
		BorrowDate: in.BorrowDate,
		DueDate:    in.DueDate,
		Status:     domain.LoanBorrowed,
		TotalBooks: len(in.BookIDs),
		Notes:      in.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.loans.Create(ctx, loan); err != nil {
		s.releaseAll(ctx, reserved)
		return nil, err
	}
	s.log.Info("loan created",
		zap.String("loan_id", loan.ID),
		zap.Int("books", loan.TotalBooks),
		zap.Bool("member_loan", loan.IsMemberLoan()),
	)
	return loan, nil
}

func (s *Service) checkBorrower(ctx context.Context, b domain.Borrower) error {
	switch v := b.(type) {
	case domain.MemberRef:
		if v.MemberID == "" {
			return domain.Validation("member is required")
		}
		m, err := s.members.FindByID(ctx, v.MemberID)
		if err != nil {
			return err
		}
		if m == nil || !m.IsActive {
			return domain.Validation("member is not active")
		}
		if max := s.set.MaxLoansPerMember; max > 0 {
			n, err := s.loans.CountActiveByMember(ctx, v.MemberID)
			if err != nil {
				return err
			}
			if n >= int64(max) {
				return domain.Validation("member already has %d active loans", max)
			}
		}
		return nil
	case domain.Guest:
		if v.Name == "" || v.Phone == "" {
			return domain.Validation("non-member name and phone are required")
		}
		return nil
	default:
		return domain.Validation("borrower is required")
	}
}

func (s *Service) releaseAll(ctx context.Context, bookIDs []string) {
	for _, id := range bookIDs {
		if err := s.inv.Release(ctx, id); err != nil {
			s.log.Error("compensating release failed",
				zap.String("book_id", id), zap.Error(err))
		}
	}
}

// ReturnLoan moves a loan to RETURNED, stamps the return date and puts
// every book back on the shelf. Rejects a second call on the same loan.
func (s *Service) ReturnLoan(ctx context.Context, loanID string) (*domain.Loan, error) {
	loan, err := s.loans.FindByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if loan == nil {
		return nil, &domain.NotFoundError{Entity: "loan", ID: loanID}
	}
	if loan.Status == domain.LoanReturned {
		return nil, &domain.InvalidStateError{Msg: "loan already returned"}
	}

	now := s.now()
	loan.Status = domain.LoanReturned
	loan.ReturnDate = &now
	loan.UpdatedAt = now
	if err := s.loans.Update(ctx, loan); err != nil {
		return nil, err
	}
	for _, id := range loan.BookIDs {
		if err := s.inv.Release(ctx, id); err != nil {
			return nil, err
		}
	}
	s.log.Info("loan returned", zap.String("loan_id", loan.ID))
	return loan, nil
}

type UpdateLoanInput struct {
	DueDate *time.Time
	Notes   *string
}

// UpdateLoan edits due date or notes on a still-open loan.
func (s *Service) UpdateLoan(ctx context.Context, loanID string, in UpdateLoanInput) (*domain.Loan, error) {
	loan, err := s.loans.FindByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if loan == nil {
		return nil, &domain.NotFoundError{Entity: "loan", ID: loanID}
	}
	if loan.Status != domain.LoanBorrowed {
		return nil, &domain.InvalidStateError{Msg: "only open loans can be edited"}
	}
	if in.DueDate != nil {
		if !in.DueDate.After(loan.BorrowDate) {
			return nil, domain.Validation("due date must be after borrow date")
		}
		loan.DueDate = *in.DueDate
	}
	if in.Notes != nil {
		loan.Notes = *in.Notes
	}
	loan.UpdatedAt = s.now()
	if err := s.loans.Update(ctx, loan); err != nil {
		return nil, err
	}
	return loan, nil
}

// DeleteLoan removes the record outright, bypassing the state machine.
// Stock is restored only when RestockOnDelete is set; the default
// mirrors the legacy behavior where deletion never restocked.
func (s *Service) DeleteLoan(ctx context.Context, loanID string) error {
	loan, err := s.loans.FindByID(ctx, loanID)
	if err != nil {
		return err
	}
	if loan == nil {
		return &domain.NotFoundError{Entity: "loan", ID: loanID}
	}
	if err := s.loans.Delete(ctx, loanID); err != nil {
		return err
	}
	if s.set.RestockOnDelete && loan.Status == domain.LoanBorrowed {
		s.releaseAll(ctx, loan.BookIDs)
	}
	s.log.Info("loan deleted", zap.String("loan_id", loanID))
	return nil
}

// DeleteBook refuses while an unreturned loan still references the book.
func (s *Service) DeleteBook(ctx context.Context, bookID string) error {
	b, err := s.books.FindByID(ctx, bookID)
	if err != nil {
		return err
	}
	if b == nil {
		return &domain.NotFoundError{Entity: "book", ID: bookID}
	}
	active, err := s.loans.HasActiveByBook(ctx, bookID)
	if err != nil {
		return err
	}
	if active {
		return &domain.InvalidStateError{Msg: "book has unreturned loans"}
	}
	return s.books.Delete(ctx, bookID)
}
