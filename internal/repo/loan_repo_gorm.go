package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"perpus-admin-api/internal/domain"
)

type LoanRepo struct{ db *gorm.DB }

func NewLoanRepo(db *gorm.DB) *LoanRepo { return &LoanRepo{db: db} }

func withBooks(db *gorm.DB) *gorm.DB {
	return db.Preload("Books", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("position asc")
	})
}

func (r *LoanRepo) Create(ctx context.Context, l *domain.Loan) error {
	m := loanToModel(l)
	return r.db.WithContext(ctx).Create(&m).Error
}

func (r *LoanRepo) FindByID(ctx context.Context, id string) (*domain.Loan, error) {
	var m LoanModel
	err := withBooks(r.db.WithContext(ctx)).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	l := loanToDomain(m)
	return &l, nil
}

func (r *LoanRepo) List(ctx context.Context, f domain.LoanFilter) ([]domain.Loan, error) {
	q := withBooks(r.db.WithContext(ctx))
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}
	if f.DueBefore != nil {
		q = q.Where("due_date < ?", *f.DueBefore)
	}
	if f.MemberID != "" {
		q = q.Where("member_id = ?", f.MemberID)
	}
	var ms []LoanModel
	if err := q.Order("borrow_date desc").Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Loan, 0, len(ms))
	for _, m := range ms {
		out = append(out, loanToDomain(m))
	}
	return out, nil
}

// Update writes the loan row only; the book set is fixed at creation.
func (r *LoanRepo) Update(ctx context.Context, l *domain.Loan) error {
	m := loanToModel(l)
	return r.db.WithContext(ctx).Omit("Books").Save(&m).Error
}

func (r *LoanRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("loan_id = ?", id).Delete(&LoanBookModel{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&LoanModel{}).Error
	})
}

func (r *LoanRepo) CountActiveByMember(ctx context.Context, memberID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&LoanModel{}).
		Where("member_id = ? AND status = ?", memberID, string(domain.LoanBorrowed)).
		Count(&n).Error
	return n, err
}

func (r *LoanRepo) HasActiveByBook(ctx context.Context, bookID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&LoanBookModel{}).
		Joins("JOIN loans ON loans.id = loan_books.loan_id").
		Where("loan_books.book_id = ? AND loans.status = ?", bookID, string(domain.LoanBorrowed)).
		Count(&n).Error
	return n > 0, err
}
