package domain

import (
	"context"
	"time"
)

type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RolePetugas Role = "PETUGAS" // librarian staff
	RoleSiswa   Role = "SISWA"   // student, read-only
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, p ListParams) ([]User, int64, error)
	Update(ctx context.Context, u *User) error
	Count(ctx context.Context) (int64, error)
}
