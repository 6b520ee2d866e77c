package domain

import (
	"context"
	"time"
)

type Book struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"` // user-assigned, unique
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Genre     string    `json:"genre"`
	Publisher string    `json:"publisher,omitempty"`
	Year      int       `json:"year,omitempty"`
	Stock     int       `json:"stock"` // available copies, never negative
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type BookRepository interface {
	Create(ctx context.Context, b *Book) error
	FindByID(ctx context.Context, id string) (*Book, error)
	FindByIDs(ctx context.Context, ids []string) ([]Book, error)
	List(ctx context.Context, p ListParams) ([]Book, int64, error)
	Update(ctx context.Context, b *Book) error
	Delete(ctx context.Context, id string) error
}
