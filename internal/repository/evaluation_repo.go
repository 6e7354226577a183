package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/stamelosxp/upThesis-sub000/internal/model"
)

// EvaluationRepository 评审记录数据访问接口
type EvaluationRepository interface {
	Create(ctx context.Context, eval *model.Evaluation) error
	GetByThesis(ctx context.Context, thesisID string) (*model.Evaluation, error)
	Update(ctx context.Context, eval *model.Evaluation) error
}

// evaluationRepo EvaluationRepository 的 GORM 实现
type evaluationRepo struct {
	db *gorm.DB
}

// NewEvaluationRepo 创建 EvaluationRepository 实例
func NewEvaluationRepo(db *gorm.DB) EvaluationRepository {
	return &evaluationRepo{db: db}
}

func (r *evaluationRepo) Create(ctx context.Context, eval *model.Evaluation) error {
	return r.db.WithContext(ctx).Create(eval).Error
}

func (r *evaluationRepo) GetByThesis(ctx context.Context, thesisID string) (*model.Evaluation, error) {
	var eval model.Evaluation
	err := r.db.WithContext(ctx).
		Where("thesis_id = ?", thesisID).
		First(&eval).Error
	if err != nil {
		return nil, err
	}
	return &eval, nil
}

func (r *evaluationRepo) Update(ctx context.Context, eval *model.Evaluation) error {
	return r.db.WithContext(ctx).Save(eval).Error
}
