package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/stamelosxp/upThesis-sub000/internal/model"
)

// AnnouncementRepository 公告数据访问接口
type AnnouncementRepository interface {
	Create(ctx context.Context, ann *model.Announcement) error
	GetByID(ctx context.Context, id string) (*model.Announcement, error)
	Update(ctx context.Context, ann *model.Announcement) error
	Delete(ctx context.Context, id string, deletedBy string) error
	List(ctx context.Context, offset, limit int) ([]model.Announcement, int64, error)
}

// announcementRepo AnnouncementRepository 的 GORM 实现
type announcementRepo struct {
	db *gorm.DB
}

// NewAnnouncementRepo 创建 AnnouncementRepository 实例
func NewAnnouncementRepo(db *gorm.DB) AnnouncementRepository {
	return &announcementRepo{db: db}
}

func (r *announcementRepo) Create(ctx context.Context, ann *model.Announcement) error {
	return r.db.WithContext(ctx).Create(ann).Error
}

func (r *announcementRepo) GetByID(ctx context.Context, id string) (*model.Announcement, error) {
	var ann model.Announcement
	err := r.db.WithContext(ctx).
		Preload("Thesis").
		Where("announcement_id = ?", id).
		First(&ann).Error
	if err != nil {
		return nil, err
	}
	return &ann, nil
}

func (r *announcementRepo) Update(ctx context.Context, ann *model.Announcement) error {
	return r.db.WithContext(ctx).Save(ann).Error
}

func (r *announcementRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Announcement{}).
		Where("announcement_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_at": gorm.Expr("CURRENT_TIMESTAMP"),
			"deleted_by": deletedBy,
		}).Error
}

func (r *announcementRepo) List(ctx context.Context, offset, limit int) ([]model.Announcement, int64, error) {
	var anns []model.Announcement
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Announcement{})

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Thesis").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&anns).Error; err != nil {
		return nil, 0, err
	}

	return anns, total, nil
}
