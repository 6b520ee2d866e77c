package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"perpus-admin-api/internal/domain"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	m := userToModel(u)
	return r.db.WithContext(ctx).Create(&m).Error
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var m UserModel
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u := userToDomain(m)
	return &u, nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var m UserModel
	err := r.db.WithContext(ctx).First(&m, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u := userToDomain(m)
	return &u, nil
}

func (r *UserRepo) List(ctx context.Context, p domain.ListParams) ([]domain.User, int64, error) {
	q := r.db.WithContext(ctx).Model(&UserModel{})
	if p.Q != "" {
		like := "%" + p.Q + "%"
		q = q.Where("email LIKE ? OR name LIKE ?", like, like)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	q = q.Order("created_at desc")
	if p.Offset > 0 {
		q = q.Offset(p.Offset)
	}
	if p.Limit > 0 {
		q = q.Limit(p.Limit)
	}
	var ms []UserModel
	if err := q.Find(&ms).Error; err != nil {
		return nil, 0, err
	}
	out := make([]domain.User, 0, len(ms))
	for _, m := range ms {
		out = append(out, userToDomain(m))
	}
	return out, total, nil
}

func (r *UserRepo) Update(ctx context.Context, u *domain.User) error {
	m := userToModel(u)
	return r.db.WithContext(ctx).Save(&m).Error
}

func (r *UserRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&UserModel{}).Count(&n).Error
	return n, err
}
