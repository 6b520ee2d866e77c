package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"perpus-admin-api/internal/domain"
)

type MemberRepo struct{ db *gorm.DB }

func NewMemberRepo(db *gorm.DB) *MemberRepo { return &MemberRepo{db: db} }

func (r *MemberRepo) Create(ctx context.Context, m *domain.Member) error {
	mm := memberToModel(m)
	return r.db.WithContext(ctx).Create(&mm).Error
}

func (r *MemberRepo) FindByID(ctx context.Context, id string) (*domain.Member, error) {
	var mm MemberModel
	err := r.db.WithContext(ctx).First(&mm, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	m := memberToDomain(mm)
	return &m, nil
}

func (r *MemberRepo) FindByIDs(ctx context.Context, ids []string) ([]domain.Member, error) {
	var ms []MemberModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Member, 0, len(ms))
	for _, m := range ms {
		out = append(out, memberToDomain(m))
	}
	return out, nil
}

func (r *MemberRepo) List(ctx context.Context, p domain.ListParams) ([]domain.Member, int64, error) {
	q := r.db.WithContext(ctx).Model(&MemberModel{})
	if p.Q != "" {
		like := "%" + p.Q + "%"
		q = q.Where("name LIKE ? OR class_name LIKE ? OR email LIKE ?", like, like, like)
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
	var ms []MemberModel
	if err := q.Find(&ms).Error; err != nil {
		return nil, 0, err
	}
	out := make([]domain.Member, 0, len(ms))
	for _, m := range ms {
		out = append(out, memberToDomain(m))
	}
	return out, total, nil
}

func (r *MemberRepo) Update(ctx context.Context, m *domain.Member) error {
	mm := memberToModel(m)
	return r.db.WithContext(ctx).Save(&mm).Error
}

func (r *MemberRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&MemberModel{}).Error
}
