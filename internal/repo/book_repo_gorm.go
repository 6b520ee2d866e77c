package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"perpus-admin-api/internal/domain"
)

type BookRepo struct{ db *gorm.DB }

func NewBookRepo(db *gorm.DB) *BookRepo { return &BookRepo{db: db} }

func (r *BookRepo) Create(ctx context.Context, b *domain.Book) error {
	m := bookToModel(b)
	return r.db.WithContext(ctx).Create(&m).Error
}

func (r *BookRepo) FindByID(ctx context.Context, id string) (*domain.Book, error) {
	var m BookModel
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	b := bookToDomain(m)
	return &b, nil
}

func (r *BookRepo) FindByIDs(ctx context.Context, ids []string) ([]domain.Book, error) {
	var ms []BookModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Book, 0, len(ms))
	for _, m := range ms {
		out = append(out, bookToDomain(m))
	}
	return out, nil
}

func (r *BookRepo) List(ctx context.Context, p domain.ListParams) ([]domain.Book, int64, error) {
	q := r.db.WithContext(ctx).Model(&BookModel{})
	if p.Q != "" {
		like := "%" + p.Q + "%"
		q = q.Where("title LIKE ? OR author LIKE ? OR code LIKE ?", like, like, like)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	q = q.Order("created_at asc")
	if p.Offset > 0 {
		q = q.Offset(p.Offset)
	}
	if p.Limit > 0 {
		q = q.Limit(p.Limit)
	}
	var ms []BookModel
	if err := q.Find(&ms).Error; err != nil {
		return nil, 0, err
	}
	out := make([]domain.Book, 0, len(ms))
	for _, m := range ms {
		out = append(out, bookToDomain(m))
	}
	return out, total, nil
}

func (r *BookRepo) Update(ctx context.Context, b *domain.Book) error {
	m := bookToModel(b)
	return r.db.WithContext(ctx).Save(&m).Error
}

func (r *BookRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&BookModel{}).Error
}
