package repo

import (
	"time"

	"perpus-admin-api/internal/domain"
)

type BookModel struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	Code      string `gorm:"uniqueIndex;size:32;not null"`
	Title     string `gorm:"size:255;not null"`
	Author    string `gorm:"size:128;not null"`
	Genre     string `gorm:"size:64"`
	Publisher string `gorm:"size:128"`
	Year      int
	Stock     int  `gorm:"not null;default:0"`
	IsActive  bool `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (BookModel) TableName() string { return "books" }

type MemberModel struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	Name      string `gorm:"size:100;not null;index"`
	ClassName string `gorm:"size:64"`
	Phone     string `gorm:"size:32"`
	Email     string `gorm:"size:255"`
	Address   string `gorm:"size:255"`
	IsActive  bool   `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (MemberModel) TableName() string { return "members" }

type LoanModel struct {
	ID           string  `gorm:"primaryKey;type:varchar(36)"`
	MemberID     *string `gorm:"type:varchar(36);index"`
	GuestName    string  `gorm:"size:100"`
	GuestPhone   string  `gorm:"size:32"`
	GuestClass   string  `gorm:"size:64"`
	IsMemberLoan bool    `gorm:"not null"`

	BorrowDate time.Time `gorm:"not null;index"`
	DueDate    time.Time `gorm:"not null;index"`
	ReturnDate *time.Time
	Status     string `gorm:"size:16;not null;index"`
	TotalBooks int    `gorm:"not null"`
	Notes      string `gorm:"size:500"`

	Books []LoanBookModel `gorm:"foreignKey:LoanID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (LoanModel) TableName() string { return "loans" }

// LoanBookModel preserves the order the books were selected in.
type LoanBookModel struct {
	LoanID   string `gorm:"primaryKey;type:varchar(36)"`
	Position int    `gorm:"primaryKey"`
	BookID   string `gorm:"type:varchar(36);not null;index"`
}

func (LoanBookModel) TableName() string { return "loan_books" }

type UserModel struct {
	ID           string `gorm:"primaryKey;type:varchar(36)"`
	Email        string `gorm:"uniqueIndex;size:255;not null"`
	Name         string `gorm:"size:64;not null"`
	PasswordHash string `gorm:"size:100;not null"`
	Role         string `gorm:"size:16;not null;default:SISWA"`
	IsActive     bool   `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (UserModel) TableName() string { return "users" }

// AllModels is the automigrate set.
func AllModels() []any {
	return []any{&BookModel{}, &MemberModel{}, &LoanModel{}, &LoanBookModel{}, &UserModel{}}
}

// ---- model <-> domain conversion ----

func bookToDomain(m BookModel) domain.Book {
	return domain.Book(m)
}

func bookToModel(b *domain.Book) BookModel {
	return BookModel(*b)
}

func memberToDomain(m MemberModel) domain.Member {
	return domain.Member(m)
}

func memberToModel(mm *domain.Member) MemberModel {
	return MemberModel(*mm)
}

func loanToDomain(m LoanModel) domain.Loan {
	l := domain.Loan{
		ID:         m.ID,
		BorrowDate: m.BorrowDate,
		DueDate:    m.DueDate,
		ReturnDate: m.ReturnDate,
		Status:     domain.LoanStatus(m.Status),
		TotalBooks: m.TotalBooks,
		Notes:      m.Notes,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
	if m.IsMemberLoan && m.MemberID != nil {
		l.Borrower = domain.MemberRef{MemberID: *m.MemberID}
	} else {
		l.Borrower = domain.Guest{Name: m.GuestName, Phone: m.GuestPhone, Class: m.GuestClass}
	}
	l.BookIDs = make([]string, len(m.Books))
	for _, lb := range m.Books {
		if lb.Position >= 0 && lb.Position < len(l.BookIDs) {
			l.BookIDs[lb.Position] = lb.BookID
		}
	}
	return l
}

func loanToModel(l *domain.Loan) LoanModel {
	m := LoanModel{
		ID:         l.ID,
		BorrowDate: l.BorrowDate,
		DueDate:    l.DueDate,
		ReturnDate: l.ReturnDate,
		Status:     string(l.Status),
		TotalBooks: l.TotalBooks,
		Notes:      l.Notes,
		CreatedAt:  l.CreatedAt,
		UpdatedAt:  l.UpdatedAt,
	}
	switch v := l.Borrower.(type) {
	case domain.MemberRef:
		id := v.MemberID
		m.MemberID = &id
		m.IsMemberLoan = true
	case domain.Guest:
		m.GuestName = v.Name
		m.GuestPhone = v.Phone
		m.GuestClass = v.Class
	}
	m.Books = make([]LoanBookModel, 0, len(l.BookIDs))
	for i, id := range l.BookIDs {
		m.Books = append(m.Books, LoanBookModel{LoanID: l.ID, Position: i, BookID: id})
	}
	return m
}

func userToDomain(m UserModel) domain.User {
	return domain.User{
		ID:           m.ID,
		Email:        m.Email,
		Name:         m.Name,
		PasswordHash: m.PasswordHash,
		Role:         domain.Role(m.Role),
		IsActive:     m.IsActive,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func userToModel(u *domain.User) UserModel {
	return UserModel{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}
