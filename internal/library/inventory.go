package library

import (
	"context"

	"perpus-admin-api/internal/domain"
)

// Inventory owns the stock counters on Book records. Reserve/Release
// are the only paths that mutate stock; last write wins.
type Inventory struct {
	books domain.BookRepository
}

func NewInventory(books domain.BookRepository) *Inventory {
	return &Inventory{books: books}
}

// Reserve takes one copy of the book off the shelf. Fails with
// OutOfStockError unless the book exists, is active and has stock > 0.
func (i *Inventory) Reserve(ctx context.Context, bookID string) error {
	b, err := i.books.FindByID(ctx, bookID)
	if err != nil {
		return err
	}
	if b == nil {
		return &domain.OutOfStockError{BookID: bookID, Title: bookID}
	}
	if !b.IsActive || b.Stock <= 0 {
		return &domain.OutOfStockError{BookID: b.ID, Title: b.Title}
	}
	b.Stock--
	return i.books.Update(ctx, b)
}

// Release puts one copy back. Returning a book always restores a copy,
// even if the record was edited meanwhile.
func (i *Inventory) Release(ctx context.Context, bookID string) error {
	b, err := i.books.FindByID(ctx, bookID)
	if err != nil {
		return err
	}
	if b == nil {
		return &domain.NotFoundError{Entity: "book", ID: bookID}
	}
	b.Stock++
	return i.books.Update(ctx, b)
}
