package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/stamelosxp/upThesis-sub000/internal/dto"
	"github.com/stamelosxp/upThesis-sub000/internal/model"
	"github.com/stamelosxp/upThesis-sub000/internal/repository"
)

// ── 统计模块业务错误 ──

var ErrStatsNotFound = errors.New("该教授暂无统计数据")

// StatsService 教授统计业务接口
// 论文完成时针对委员会全体教授重算，失败仅记录日志
type StatsService interface {
	// RecomputeForProfessors 重算一批教授的统计汇总行
	RecomputeForProfessors(ctx context.Context, professorIDs []string)
	GetByProfessor(ctx context.Context, professorID string) (*dto.ProfessorStatsResponse, error)
}

type statsService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewStatsService 创建 StatsService 实例
func NewStatsService(repo *repository.Repository, logger *zap.Logger) StatsService {
	return &statsService{repo: repo, logger: logger}
}

func (s *statsService) RecomputeForProfessors(ctx context.Context, professorIDs []string) {
	for _, professorID := range professorIDs {
		if err := s.recomputeOne(ctx, professorID); err != nil {
			s.logger.Error("教授统计重算失败",
				zap.String("professor_id", professorID), zap.Error(err))
		}
	}
}

func (s *statsService) recomputeOne(ctx context.Context, professorID string) error {
	theses, err := s.repo.Thesis.ListByProfessor(ctx, professorID)
	if err != nil {
		return err
	}

	stats := &model.ProfessorStats{
		ProfessorID: professorID,
		UpdatedAt:   time.Now(),
	}

	var gradeSum float64
	var gradeCount int64
	for i := range theses {
		t := &theses[i]
		if t.Status == model.StatusCancelled {
			continue
		}
		if t.SupervisorID == professorID {
			stats.SupervisedCount++
		} else {
			stats.MemberCount++
		}
		if t.Status == model.StatusCompleted {
			stats.CompletedCount++
			if t.FinalGrade != nil {
				gradeSum += *t.FinalGrade
				gradeCount++
			}
		}
	}
	if gradeCount > 0 {
		avg := gradeSum / float64(gradeCount)
		stats.AvgFinalGrade = &avg
	}

	return s.repo.Stats.Upsert(ctx, stats)
}

func (s *statsService) GetByProfessor(ctx context.Context, professorID string) (*dto.ProfessorStatsResponse, error) {
	stats, err := s.repo.Stats.GetByProfessor(ctx, professorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStatsNotFound
		}
		s.logger.Error("查询教授统计失败", zap.String("professor_id", professorID), zap.Error(err))
		return nil, err
	}

	return &dto.ProfessorStatsResponse{
		ProfessorID:     stats.ProfessorID,
		SupervisedCount: stats.SupervisedCount,
		MemberCount:     stats.MemberCount,
		CompletedCount:  stats.CompletedCount,
		AvgFinalGrade:   stats.AvgFinalGrade,
		UpdatedAt:       stats.UpdatedAt.Format("2006-01-02 15:04:05"),
	}, nil
}
