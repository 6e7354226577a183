package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stamelosxp/upThesis-sub000/internal/model"
)

// StatsRepository 教授统计数据访问接口
type StatsRepository interface {
	Upsert(ctx context.Context, stats *model.ProfessorStats) error
	GetByProfessor(ctx context.Context, professorID string) (*model.ProfessorStats, error)
}

// statsRepo StatsRepository 的 GORM 实现
type statsRepo struct {
	db *gorm.DB
}

// NewStatsRepo 创建 StatsRepository 实例
func NewStatsRepo(db *gorm.DB) StatsRepository {
	return &statsRepo{db: db}
}

func (r *statsRepo) Upsert(ctx context.Context, stats *model.ProfessorStats) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "professor_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"supervised_count", "member_count", "completed_count",
				"avg_final_grade", "updated_at",
			}),
		}).
		Create(stats).Error
}

func (r *statsRepo) GetByProfessor(ctx context.Context, professorID string) (*model.ProfessorStats, error) {
	var stats model.ProfessorStats
	err := r.db.WithContext(ctx).
		Where("professor_id = ?", professorID).
		First(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
