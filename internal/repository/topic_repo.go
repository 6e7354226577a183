package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/stamelosxp/upThesis-sub000/internal/model"
)

// TopicListFilters 题目列表过滤条件
type TopicListFilters struct {
	ProfessorID string
	Keyword     string
}

// TopicRepository 题目数据访问接口
type TopicRepository interface {
	Create(ctx context.Context, topic *model.Topic) error
	GetByID(ctx context.Context, id string) (*model.Topic, error)
	Update(ctx context.Context, topic *model.Topic) error
	Delete(ctx context.Context, id string) error
	ListWithFilters(ctx context.Context, filters *TopicListFilters, offset, limit int) ([]model.Topic, int64, error)
}

// topicRepo TopicRepository 的 GORM 实现
type topicRepo struct {
	db *gorm.DB
}

// NewTopicRepo 创建 TopicRepository 实例
func NewTopicRepo(db *gorm.DB) TopicRepository {
	return &topicRepo{db: db}
}

func (r *topicRepo) Create(ctx context.Context, topic *model.Topic) error {
	return r.db.WithContext(ctx).Create(topic).Error
}

func (r *topicRepo) GetByID(ctx context.Context, id string) (*model.Topic, error) {
	var topic model.Topic
	err := r.db.WithContext(ctx).
		Preload("Professor").
		Where("topic_id = ?", id).
		First(&topic).Error
	if err != nil {
		return nil, err
	}
	return &topic, nil
}

func (r *topicRepo) Update(ctx context.Context, topic *model.Topic) error {
	return r.db.WithContext(ctx).Save(topic).Error
}

func (r *topicRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("topic_id = ?", id).
		Delete(&model.Topic{}).Error
}

func (r *topicRepo) ListWithFilters(ctx context.Context, filters *TopicListFilters, offset, limit int) ([]model.Topic, int64, error) {
	var topics []model.Topic
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Topic{})
	if filters != nil {
		if filters.ProfessorID != "" {
			db = db.Where("professor_id = ?", filters.ProfessorID)
		}
		if filters.Keyword != "" {
			kw := "%" + filters.Keyword + "%"
			db = db.Where("title ILIKE ? OR description ILIKE ?", kw, kw)
		}
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Professor").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&topics).Error; err != nil {
		return nil, 0, err
	}

	return topics, total, nil
}
