package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/stamelosxp/upThesis-sub000/internal/model"
)

// NoteRepository 备注数据访问接口
type NoteRepository interface {
	Create(ctx context.Context, note *model.Note) error
	GetByID(ctx context.Context, id string) (*model.Note, error)
	Update(ctx context.Context, note *model.Note) error
	Delete(ctx context.Context, id string) error
	ListByThesis(ctx context.Context, thesisID string) ([]model.Note, error)
	DeleteByThesis(ctx context.Context, thesisID string) error
}

// noteRepo NoteRepository 的 GORM 实现
type noteRepo struct {
	db *gorm.DB
}

// NewNoteRepo 创建 NoteRepository 实例
func NewNoteRepo(db *gorm.DB) NoteRepository {
	return &noteRepo{db: db}
}

func (r *noteRepo) Create(ctx context.Context, note *model.Note) error {
	return r.db.WithContext(ctx).Create(note).Error
}

func (r *noteRepo) GetByID(ctx context.Context, id string) (*model.Note, error) {
	var note model.Note
	err := r.db.WithContext(ctx).
		Where("note_id = ?", id).
		First(&note).Error
	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *noteRepo) Update(ctx context.Context, note *model.Note) error {
	return r.db.WithContext(ctx).Save(note).Error
}

func (r *noteRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("note_id = ?", id).
		Delete(&model.Note{}).Error
}

func (r *noteRepo) ListByThesis(ctx context.Context, thesisID string) ([]model.Note, error) {
	var notes []model.Note
	err := r.db.WithContext(ctx).
		Where("thesis_id = ?", thesisID).
		Order("created_at DESC").
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *noteRepo) DeleteByThesis(ctx context.Context, thesisID string) error {
	return r.db.WithContext(ctx).
		Where("thesis_id = ?", thesisID).
		Delete(&model.Note{}).Error
}
