package domain

import (
	"context"
	"time"
)

type Member struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ClassName string    `json:"className"` // class/affiliation label
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Address   string    `json:"address,omitempty"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type MemberRepository interface {
	Create(ctx context.Context, m *Member) error
	FindByID(ctx context.Context, id string) (*Member, error)
	FindByIDs(ctx context.Context, ids []string) ([]Member, error)
	List(ctx context.Context, p ListParams) ([]Member, int64, error)
	Update(ctx context.Context, m *Member) error
	Delete(ctx context.Context, id string) error
}

// ListParams is the common offset/limit/search shape for list queries.
type ListParams struct {
	Offset int
	Limit  int
	Q      string
}
