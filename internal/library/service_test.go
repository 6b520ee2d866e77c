package library_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perpus-admin-api/internal/domain"
	"perpus-admin-api/internal/library"
	"perpus-admin-api/internal/repo/memstore"
)

var testNow = time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

type fixture struct {
	store *memstore.Store
	svc   *library.Service
	now   time.Time
}

func newFixture(t *testing.T, set library.Settings) *fixture {
	t.Helper()
	store := memstore.New()
	svc := library.NewService(library.Deps{
		Books:   store.Books(),
		Members: store.Members(),
		Loans:   store.Loans(),
		Set:     set,
		Now:     func() time.Time { return testNow },
	})
	return &fixture{store: store, svc: svc, now: testNow}
}

func (f *fixture) addBook(t *testing.T, id, title string, stock int, active bool) {
	t.Helper()
	err := f.store.Books().Create(context.Background(), &domain.Book{
		ID: id, Code: "C-" + id, Title: title, Author: "anon",
		Stock: stock, IsActive: active,
	})
	require.NoError(t, err)
}

func (f *fixture) addMember(t *testing.T, id, name string, active bool) {
	t.Helper()
	err := f.store.Members().Create(context.Background(), &domain.Member{
		ID: id, Name: name, ClassName: "XI-A", IsActive: active,
	})
	require.NoError(t, err)
}

func (f *fixture) stock(t *testing.T, bookID string) int {
	t.Helper()
	b, err := f.store.Books().FindByID(context.Background(), bookID)
	require.NoError(t, err)
	require.NotNil(t, b)
	return b.Stock
}

func validInput(bookIDs ...string) library.CreateLoanInput {
	return library.CreateLoanInput{
		BookIDs:    bookIDs,
		Borrower:   domain.MemberRef{MemberID: "M1"},
		BorrowDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		DueDate:    time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateLoan_RequiresBooks(t *testing.T) {
	f := newFixture(t, library.DefaultSettings())
	f.addMember(t, "M1", "Ani", true)

	_, err := f.svc.CreateLoan(context.Background(), validInput())

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Error(), "at least one book")
}

func TestCreateLoan_OutOfStock(t *testing.T) {
	f := newFixture(t, library.DefaultSettings())
	f.addBook(t, "B1", "Laskar Pelangi", 2, true)
	f.addBook(t, "B2", "Bumi Manusia", 0, true)
	f.addMember(t, "M1", "Ani", true)

	_, err := f.svc.CreateLoan(context.Background(), validInput("B1", "B2"))

	var oos *domain.OutOfStockError
	require.ErrorAs(t, err, &oos)
	assert.Equal(t, "Bumi Manusia", oos.Title)
	// the other referenced book must be untouched
	assert.Equal(t, 2, f.stock(t, "B1"))
}

func TestCreateLoan_InactiveBook(t *testing.T) {
	f := newFixture(t, library.DefaultSettings())
	f.addBook(t, "B1", "Laskar Pelangi", 5, false)
	f.addMember(t, "M1", "Ani", true)

	_, err := f.svc.CreateLoan(context.Background(), validInput("B1"))

	var oos *domain.OutOfStockError
	require.ErrorAs(t, err, &oos)
}

func TestCreateLoan_UnknownBook(t *testing.T) {
	f := newFixture(t, library.DefaultSettings())
	f.addMember(t, "M1", "Ani", true)

	_, err := f.svc.CreateLoan(context.Background(), validInput("nope"))

	var oos *domain.OutOfStockError
	require.ErrorAs(t, err, &oos)
}

func TestCreateLoan_BorrowerValidation(t *testing.T) {
	tests := []struct {
		name     string
		borrower domain.Borrower
	}{
		{"nil_borrower", nil},
		{"empty_member_id", domain.MemberRef{}},
		{"unknown_member", domain.MemberRef{MemberID: "ghost"}},
		{"inactive_member", domain.MemberRef{MemberID: "M2"}},
		{"guest_without_phone", domain.Guest{Name: "Budi"}},
		{"guest_without_name", domain.Guest{Phone: "0812"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, library.DefaultSettings())
			f.addBook(t, "B1", "Laskar Pelangi", 1, true)
			f.addMember(t, "M2", "Nonaktif", false)

			in := validInput("B1")
			in.Borrower = tc.borrower
			_, err := f.svc.CreateLoan(context.Background(), in)

			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, 1, f.stock(t, "B1"), "stock must not change on validation failure")
		})
	}
}

func TestCreateLoan_DueDateMustFollowBorrowDate(t *testing.T) {
	f := newFixture(t, library.DefaultSettings())
	f.addBook(t, "B1", "Laskar Pelangi", 1, true)
	f.addMember(t, "M1", "Ani", true)

	in := validInput("B1")
	in.DueDate = in.BorrowDate
	_, err := f.svc.CreateLoan(context.Background(), in)

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Error(), "after borrow date")
	assert.Equal(t, 1, f.stock(t, "B1"))
}

func TestCreateLoan_DefaultDueDate(t *testing.T) {
	f := newFixture(t, library.DefaultSettings())
	f.addBook(t, "B1", "Laskar Pelangi", 1, true)
	f.addMember(t, "M1", "Ani", true)

	in := validInput("B1")
	in.DueDate = time.Time{}
	loan, err := f.svc.CreateLoan(context.Background(), in)

	require.NoError(t, err)
	assert.Equal(t, in.BorrowDate.AddDate(0, 0, 7), loan.DueDate)
}

func TestCreateLoan_GuestLoan(t *testing.T) {
	f := newFixture(t, library.DefaultSettings())
	f.addBook(t, "B1", "Laskar Pelangi", 1, true)

	in := validInput("B1")
	in.Borrower = domain.Guest{Name: "Budi", Phone: "0812333444", Class: "alumni"}
	loan, err := f.svc.CreateLoan(context.Background(), in)

	require.NoError(t, err)
	assert.False(t, loan.IsMemberLoan())
	assert.Equal(t, 0, f.stock(t, "B1"))
}

func TestCreateLoan_MaxLoansPerMember(t *testing.T) {
	set := library.DefaultSettings()
	set.MaxLoansPerMember = 1
	f := newFixture(t, set)
	f.addBook(t, "B1", "Laskar Pelangi", 5, true)
	f.addMember(t, "M1", "Ani", true)

	_, err := f.svc.CreateLoan(context.Background(), validInput("B1"))
	require.NoError(t, err)

	_, err = f.svc.CreateLoan(context.Background(), validInput("B1"))
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestLoanRoundTrip(t *testing.T) {
	f := newFixture(t, library.DefaultSettings())
	f.addBook(t, "B1", "Laskar Pelangi", 1, true)
	f.addMember(t, "M1", "Ani", true)

	loan, err := f.svc.CreateLoan(context.Background(), validInput("B1"))
	require.NoError(t, err)
	assert.Equal(t, domain.LoanBorrowed, loan.Status)
	assert.Equal(t, 1, loan.TotalBooks)
	assert.Nil(t, loan.ReturnDate)
	assert.Equal(t, 0, f.stock(t, "B1"))

	// the single copy is out, a second loan must fail
	_, err = f.svc.CreateLoan(context.Background(), validInput("B1"))
	var oos *domain.OutOfStockError
	require.ErrorAs(t, err, &oos)

	returned, err := f.svc.ReturnLoan(context.Background(), loan.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LoanReturned, returned.Status)
	require.NotNil(t, returned.ReturnDate)
	assert.Equal(t, testNow, *returned.ReturnDate)
	assert.Equal(t, 1, f.stock(t, "B1"))
}

func TestReturnLoan_MultiBookRestoresAll(t *testing.T) {
	f := newFixture(t, library.DefaultSettings())
	f.addBook(t, "B1", "Laskar Pelangi", 3, true)
	f.addBook(t, "B2", "Bumi Manusia", 1, true)
	f.addMember(t, "M1", "Ani", true)

	loan, err := f.svc.CreateLoan(context.Background(), validInput("B1", "B2"))
	require.NoError(t, err)
	assert.Equal(t, 2, f.stock(t, "B1"))
	assert.Equal(t, 0, f.stock(t, "B2"))

	_, err = f.svc.ReturnLoan(context.Background(), loan.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, f.stock(t, "B1"))
	assert.Equal(t, 1, f.stock(t, "B2"))
}

func TestReturnLoan_RejectsSecondCall(t *testing.T) {
	f := newFixture(t, library.DefaultSettings())
	f.addBook(t, "B1", "Laskar Pelangi", 1, true)
	f.addMember(t, "M1", "Ani", true)

	loan, err := f.svc.CreateLoan(context.Background(), validInput("B1"))
	require.NoError(t, err)

	_, err = f.svc.ReturnLoan(context.Background(), loan.ID)
	require.NoError(t, err)

	_, err = f.svc.ReturnLoan(context.Background(), loan.ID)
	var is *domain.InvalidStateError
	require.ErrorAs(t, err, &is)
	assert.Equal(t, 1, f.stock(t, "B1"), "double return must not double restock")
}

func TestReturnLoan_NotFound(t *testing.T) {
	f := newFixture(t, library.DefaultSettings())

	_, err := f.svc.ReturnLoan(context.Background(), "ghost")

	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
}

// flakyBooks fails the stock write for one book id, simulating the
// store going away mid-sequence.
type flakyBooks struct {
	domain.BookRepository
	failID string
}

func (f *flakyBooks) Update(ctx context.Context, b *domain.Book) error {
	if b.ID == f.failID {
		return errors.New("store unavailable")
	}
	return f.BookRepository.Update(ctx, b)
}

func TestCreateLoan_ReserveFailureRollsBack(t *testing.T) {
	store := memstore.New()
	books := &flakyBooks{BookRepository: store.Books(), failID: "B2"}
	svc := library.NewService(library.Deps{
		Books:   books,
		Members: store.Members(),
		Loans:   store.Loans(),
		Set:     library.DefaultSettings(),
		Now:     func() time.Time { return testNow },
	})
	ctx := context.Background()
	require.NoError(t, store.Books().Create(ctx, &domain.Book{ID: "B1", Code: "C-B1", Title: "A", Stock: 2, IsActive: true}))
	require.NoError(t, store.Books().Create(ctx, &domain.Book{ID: "B2", Code: "C-B2", Title: "B", Stock: 2, IsActive: true}))
	require.NoError(t, store.Members().Create(ctx, &domain.Member{ID: "M1", Name: "Ani", IsActive: true}))

	_, err := svc.CreateLoan(ctx, validInput("B1", "B2"))
	require.Error(t, err)

	b1, err := store.Books().FindByID(ctx, "B1")
	require.NoError(t, err)
	assert.Equal(t, 2, b1.Stock, "reserved copy must be released after mid-sequence failure")

	loans, err := store.Loans().List(ctx, domain.LoanFilter{})
	require.NoError(t, err)
	assert.Empty(t, loans, "no loan record may survive the failure")
}

func TestDeleteLoan_KeepsStockByDefault(t *testing.T) {
	f := newFixture(t, library.DefaultSettings())
	f.addBook(t, "B1", "Laskar Pelangi", 1, true)
	f.addMember(t, "M1", "Ani", true)

	loan, err := f.svc.CreateLoan(context.Background(), validInput("B1"))
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteLoan(context.Background(), loan.ID))
	assert.Equal(t, 0, f.stock(t, "B1"))

	err = f.svc.DeleteLoan(context.Background(), loan.ID)
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestDeleteLoan_RestockWhenConfigured(t *testing.T) {
	set := library.DefaultSettings()
	set.RestockOnDelete = true
	f := newFixture(t, set)
	f.addBook(t, "B1", "Laskar Pelangi", 1, true)
	f.addMember(t, "M1", "Ani", true)

	loan, err := f.svc.CreateLoan(context.Background(), validInput("B1"))
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteLoan(context.Background(), loan.ID))
	assert.Equal(t, 1, f.stock(t, "B1"))
}

func TestUpdateLoan(t *testing.T) {
	f := newFixture(t, library.DefaultSettings())
	f.addBook(t, "B1", "Laskar Pelangi", 1, true)
	f.addMember(t, "M1", "Ani", true)

	loan, err := f.svc.CreateLoan(context.Background(), validInput("B1"))
	require.NoError(t, err)

	due := loan.DueDate.AddDate(0, 0, 7)
	notes := "diperpanjang"
	updated, err := f.svc.UpdateLoan(context.Background(), loan.ID, library.UpdateLoanInput{
		DueDate: &due,
		Notes:   &notes,
	})
	require.NoError(t, err)
	assert.Equal(t, due, updated.DueDate)
	assert.Equal(t, notes, updated.Notes)

	bad := loan.BorrowDate
	_, err = f.svc.UpdateLoan(context.Background(), loan.ID, library.UpdateLoanInput{DueDate: &bad})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)

	_, err = f.svc.ReturnLoan(context.Background(), loan.ID)
	require.NoError(t, err)
	_, err = f.svc.UpdateLoan(context.Background(), loan.ID, library.UpdateLoanInput{Notes: &notes})
	var is *domain.InvalidStateError
	require.ErrorAs(t, err, &is)
}

func TestDeleteBook_GuardedByOpenLoans(t *testing.T) {
	f := newFixture(t, library.DefaultSettings())
	f.addBook(t, "B1", "Laskar Pelangi", 1, true)
	f.addMember(t, "M1", "Ani", true)

	loan, err := f.svc.CreateLoan(context.Background(), validInput("B1"))
	require.NoError(t, err)

	err = f.svc.DeleteBook(context.Background(), "B1")
	var is *domain.InvalidStateError
	require.ErrorAs(t, err, &is)

	_, err = f.svc.ReturnLoan(context.Background(), loan.ID)
	require.NoError(t, err)
	require.NoError(t, f.svc.DeleteBook(context.Background(), "B1"))

	b, err := f.store.Books().FindByID(context.Background(), "B1")
	require.NoError(t, err)
	assert.Nil(t, b)
}
