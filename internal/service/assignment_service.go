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
	"github.com/stamelosxp/upThesis-sub000/pkg/filestore"
)

// ── 论文生命周期业务错误 ──

var (
	ErrThesisNotFound         = errors.New("论文不存在")
	ErrInvalidTransition      = errors.New("当前状态不允许该操作")
	ErrNotSupervisor          = errors.New("仅论文导师可操作")
	ErrCancelWindowNotReached = errors.New("正式分配未满两年，导师暂不可取消")
	ErrStudentNotFound        = errors.New("学生不存在")
	ErrNotAStudent            = errors.New("目标用户不是学生")
	ErrStudentHasThesis       = errors.New("该学生已有在办论文")
)

// supervisorCancelWindow 导师自行取消须在正式分配满两年后
const supervisorCancelWindow = 2 * 365 * 24 * time.Hour

// AssignmentService 论文生命周期业务接口
//
// 状态机：pending → active → review → completed；
// cancelled 可自 pending/active/review 进入；completed/cancelled 为终态。
// 所有迁移经由条件更新提交，落败方收到 ErrOptimisticLock；
// 附件删除与备注清理在权威状态提交之后执行（尽力而为）
type AssignmentService interface {
	// AssignTopic 题目晋升为论文（pending），学生建立关联
	AssignTopic(ctx context.Context, topicID string, req *dto.AssignTopicRequest, callerID, callerRole string) (*dto.ThesisResponse, error)
	// CancelTemporary 临时分配回退：论文还原为题目，相关邀请/备注删除
	CancelTemporary(ctx context.Context, thesisID string, callerID string) error
	// Assign 正式分配（秘书处）：pending → active
	Assign(ctx context.Context, thesisID string, req *dto.AssignRequest) (*dto.ThesisResponse, error)
	// Review 送审（导师）：active → review
	Review(ctx context.Context, thesisID string, callerID string) (*dto.ThesisResponse, error)
	// Complete 完成（秘书处）：active/review → completed，触发教授统计重算
	Complete(ctx context.Context, thesisID string) (*dto.ThesisResponse, error)
	// Cancel 取消：秘书处任意可取消状态；导师仅 active 且正式分配满两年
	Cancel(ctx context.Context, thesisID string, req *dto.CancelRequest, callerID, callerRole string) (*dto.ThesisResponse, error)
	// SetPresentation 答辩安排（导师，review 阶段）
	SetPresentation(ctx context.Context, thesisID string, req *dto.PresentationRequest, callerID string) (*dto.ThesisResponse, error)

	GetByID(ctx context.Context, thesisID string) (*dto.ThesisResponse, error)
	List(ctx context.Context, req *dto.ThesisListRequest, callerID, callerRole string) ([]dto.ThesisResponse, int64, error)
	// AttachmentPath 返回附件绝对路径（下载用）
	AttachmentPath(ctx context.Context, thesisID string) (string, error)
}

type assignmentService struct {
	repo   *repository.Repository
	store  *filestore.Store
	stats  StatsService
	logger *zap.Logger
}

// NewAssignmentService 创建 AssignmentService 实例
func NewAssignmentService(
	repo *repository.Repository,
	store *filestore.Store,
	stats StatsService,
	logger *zap.Logger,
) AssignmentService {
	return &assignmentService{repo: repo, store: store, stats: stats, logger: logger}
}

// ────────────────────── AssignTopic ──────────────────────

func (s *assignmentService) AssignTopic(ctx context.Context, topicID string, req *dto.AssignTopicRequest, callerID, callerRole string) (*dto.ThesisResponse, error) {
	topic, err := s.repo.Topic.GetByID(ctx, topicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTopicNotFound
		}
		return nil, err
	}

	// 秘书处或题目创建者可分配
	if callerRole != model.RoleSecretary && topic.ProfessorID != callerID {
		return nil, ErrNoPermission
	}

	student, err := s.repo.User.GetByID(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	if student.Role != model.RoleStudent {
		return nil, ErrNotAStudent
	}
	if student.HasThesis {
		return nil, ErrStudentHasThesis
	}

	now := time.Now()
	thesis := &model.Thesis{
		Title:                   topic.Title,
		Description:             topic.Description,
		AttachmentPath:          topic.AttachmentPath,
		Status:                  model.StatusPending,
		StudentID:               &student.UserID,
		SupervisorID:            topic.ProfessorID,
		TemporaryAssignmentDate: &now,
		BaseModel:               model.BaseModel{CreatedBy: &callerID},
	}

	if err := s.repo.Thesis.Create(ctx, thesis); err != nil {
		s.logger.Error("创建论文失败", zap.String("topic_id", topicID), zap.Error(err))
		return nil, err
	}

	if err := s.repo.User.LinkThesis(ctx, student.UserID, thesis.ThesisID); err != nil {
		s.logger.Error("关联学生论文失败", zap.String("student_id", student.UserID), zap.Error(err))
		return nil, err
	}

	// 题目已晋升，原记录删除（附件已转移至论文，不删文件）
	if err := s.repo.Topic.Delete(ctx, topicID); err != nil {
		s.logger.Error("删除已分配题目失败", zap.String("topic_id", topicID), zap.Error(err))
		return nil, err
	}

	return s.reload(ctx, thesis.ThesisID)
}

// ────────────────────── CancelTemporary ──────────────────────

func (s *assignmentService) CancelTemporary(ctx context.Context, thesisID string, callerID string) error {
	thesis, err := s.getThesis(ctx, thesisID)
	if err != nil {
		return err
	}

	if thesis.SupervisorID != callerID {
		return ErrNotSupervisor
	}
	if thesis.Status != model.StatusPending {
		return ErrInvalidTransition
	}

	// 还原为题目（附件随之转回）
	topic := &model.Topic{
		Title:          thesis.Title,
		Description:    thesis.Description,
		AttachmentPath: thesis.AttachmentPath,
		ProfessorID:    thesis.SupervisorID,
		BaseModel:      model.BaseModel{CreatedBy: &callerID},
	}
	if err := s.repo.Topic.Create(ctx, topic); err != nil {
		s.logger.Error("回退创建题目失败", zap.String("thesis_id", thesisID), zap.Error(err))
		return err
	}

	if thesis.StudentID != nil {
		if err := s.repo.User.UnlinkThesis(ctx, *thesis.StudentID); err != nil {
			s.logger.Error("解除学生关联失败", zap.String("student_id", *thesis.StudentID), zap.Error(err))
			return err
		}
	}

	if err := s.repo.Invitation.DeleteByThesis(ctx, thesisID); err != nil {
		s.logger.Error("删除论文邀请失败", zap.String("thesis_id", thesisID), zap.Error(err))
		return err
	}
	if err := s.repo.Note.DeleteByThesis(ctx, thesisID); err != nil {
		s.logger.Error("删除论文备注失败", zap.String("thesis_id", thesisID), zap.Error(err))
		return err
	}

	if err := s.repo.Thesis.Delete(ctx, thesisID); err != nil {
		s.logger.Error("删除论文记录失败", zap.String("thesis_id", thesisID), zap.Error(err))
		return err
	}

	return nil
}

// ────────────────────── Assign ──────────────────────

func (s *assignmentService) Assign(ctx context.Context, thesisID string, req *dto.AssignRequest) (*dto.ThesisResponse, error) {
	thesis, err := s.getThesis(ctx, thesisID)
	if err != nil {
		return nil, err
	}
	if thesis.Status != model.StatusPending {
		return nil, ErrInvalidTransition
	}

	now := time.Now()
	err = s.repo.Thesis.UpdateStatusFrom(ctx, thesisID,
		[]string{model.StatusPending},
		map[string]interface{}{
			"status":                   model.StatusActive,
			"official_assignment_date": now,
			"protocol_number":          req.ProtocolNumber,
			"pending_changes":          false,
		})
	if err != nil {
		return nil, err
	}

	return s.reload(ctx, thesisID)
}

// ────────────────────── Review ──────────────────────

func (s *assignmentService) Review(ctx context.Context, thesisID string, callerID string) (*dto.ThesisResponse, error) {
	thesis, err := s.getThesis(ctx, thesisID)
	if err != nil {
		return nil, err
	}
	if thesis.SupervisorID != callerID {
		return nil, ErrNotSupervisor
	}
	if thesis.Status != model.StatusActive {
		return nil, ErrInvalidTransition
	}

	now := time.Now()
	err = s.repo.Thesis.UpdateStatusFrom(ctx, thesisID,
		[]string{model.StatusActive},
		map[string]interface{}{
			"status":            model.StatusReview,
			"under_review_date": now,
		})
	if err != nil {
		return nil, err
	}

	return s.reload(ctx, thesisID)
}

// ────────────────────── Complete ──────────────────────

func (s *assignmentService) Complete(ctx context.Context, thesisID string) (*dto.ThesisResponse, error) {
	thesis, err := s.getThesis(ctx, thesisID)
	if err != nil {
		return nil, err
	}
	if thesis.Status != model.StatusActive && thesis.Status != model.StatusReview {
		return nil, ErrInvalidTransition
	}

	now := time.Now()
	err = s.repo.Thesis.UpdateStatusFrom(ctx, thesisID,
		[]string{model.StatusActive, model.StatusReview},
		map[string]interface{}{
			"status":          model.StatusCompleted,
			"completed_date":  now,
			"attachment_path": nil,
		})
	if err != nil {
		return nil, err
	}

	// 权威状态已提交，以下清理为尽力而为
	s.cleanupAfterTerminal(ctx, thesis)

	// 教授统计异步重算，失败仅记录日志（完成操作不因此失败）
	professorIDs := thesis.CommitteeIDs()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		s.stats.RecomputeForProfessors(ctx, professorIDs)
	}()

	return s.reload(ctx, thesisID)
}

// ────────────────────── Cancel ──────────────────────

func (s *assignmentService) Cancel(ctx context.Context, thesisID string, req *dto.CancelRequest, callerID, callerRole string) (*dto.ThesisResponse, error) {
	thesis, err := s.getThesis(ctx, thesisID)
	if err != nil {
		return nil, err
	}
	if model.IsTerminalStatus(thesis.Status) {
		return nil, ErrInvalidTransition
	}

	// 角色/时间窗校验：秘书处任意可取消状态；
	// 导师仅 active 且正式分配满两年
	if callerRole != model.RoleSecretary {
		if thesis.SupervisorID != callerID {
			return nil, ErrNotSupervisor
		}
		if thesis.Status != model.StatusActive {
			return nil, ErrInvalidTransition
		}
		if thesis.OfficialAssignmentDate == nil ||
			time.Since(*thesis.OfficialAssignmentDate) < supervisorCancelWindow {
			return nil, ErrCancelWindowNotReached
		}
	}

	now := time.Now()
	err = s.repo.Thesis.UpdateStatusFrom(ctx, thesisID,
		[]string{model.StatusPending, model.StatusActive, model.StatusReview},
		map[string]interface{}{
			"status":          model.StatusCancelled,
			"cancelled_date":  now,
			"protocol_number": req.ProtocolNumber,
			"cancel_reason":   req.Reason,
			"attachment_path": nil,
		})
	if err != nil {
		return nil, err
	}

	s.cleanupAfterTerminal(ctx, thesis)

	// 学生重新可被分配题目
	if thesis.StudentID != nil {
		if err := s.repo.User.UnlinkThesis(ctx, *thesis.StudentID); err != nil {
			s.logger.Error("解除学生关联失败", zap.String("student_id", *thesis.StudentID), zap.Error(err))
		}
	}

	return s.reload(ctx, thesisID)
}

// ────────────────────── SetPresentation ──────────────────────

func (s *assignmentService) SetPresentation(ctx context.Context, thesisID string, req *dto.PresentationRequest, callerID string) (*dto.ThesisResponse, error) {
	thesis, err := s.getThesis(ctx, thesisID)
	if err != nil {
		return nil, err
	}
	if thesis.SupervisorID != callerID {
		return nil, ErrNotSupervisor
	}
	if thesis.Status != model.StatusReview {
		return nil, ErrInvalidTransition
	}

	dateTime, err := time.Parse(time.RFC3339, req.DateTime)
	if err != nil {
		return nil, ErrInvalidDateTime
	}

	thesis.PresentationDate = &dateTime
	thesis.PresentationPlace = &req.Place
	thesis.UpdatedBy = &callerID

	if err := s.repo.Thesis.Update(ctx, thesis); err != nil {
		s.logger.Error("保存答辩安排失败", zap.String("thesis_id", thesisID), zap.Error(err))
		return nil, err
	}

	return s.reload(ctx, thesisID)
}

// ────────────────────── 查询 ──────────────────────

func (s *assignmentService) GetByID(ctx context.Context, thesisID string) (*dto.ThesisResponse, error) {
	thesis, err := s.getThesis(ctx, thesisID)
	if err != nil {
		return nil, err
	}
	return toThesisResponse(thesis), nil
}

func (s *assignmentService) List(ctx context.Context, req *dto.ThesisListRequest, callerID, callerRole string) ([]dto.ThesisResponse, int64, error) {
	filters := &repository.ThesisListFilters{
		Status:  req.Status,
		Keyword: req.Keyword,
	}

	// 视角过滤：学生看自己，教授看所在委员会，秘书处看全部
	switch callerRole {
	case model.RoleStudent:
		filters.StudentID = callerID
	case model.RoleProfessor:
		filters.ProfessorID = callerID
	}

	theses, total, err := s.repo.Thesis.ListWithFilters(ctx, filters, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("列出论文失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.ThesisResponse, 0, len(theses))
	for i := range theses {
		result = append(result, *toThesisResponse(&theses[i]))
	}

	return result, total, nil
}

func (s *assignmentService) AttachmentPath(ctx context.Context, thesisID string) (string, error) {
	thesis, err := s.getThesis(ctx, thesisID)
	if err != nil {
		return "", err
	}
	if thesis.AttachmentPath == nil {
		return "", ErrThesisNotFound
	}
	return s.store.Abs(*thesis.AttachmentPath)
}

// ────────────────────── 辅助函数 ──────────────────────

func (s *assignmentService) getThesis(ctx context.Context, thesisID string) (*model.Thesis, error) {
	thesis, err := s.repo.Thesis.GetByID(ctx, thesisID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrThesisNotFound
		}
		s.logger.Error("查询论文失败", zap.String("id", thesisID), zap.Error(err))
		return nil, err
	}
	return thesis, nil
}

func (s *assignmentService) reload(ctx context.Context, thesisID string) (*dto.ThesisResponse, error) {
	thesis, err := s.repo.Thesis.GetByID(ctx, thesisID)
	if err != nil {
		return nil, err
	}
	return toThesisResponse(thesis), nil
}

// cleanupAfterTerminal 终态提交后的清理：附件删除、备注清空
func (s *assignmentService) cleanupAfterTerminal(ctx context.Context, thesis *model.Thesis) {
	if thesis.AttachmentPath != nil {
		if err := s.store.Remove(*thesis.AttachmentPath); err != nil {
			s.logger.Warn("删除论文附件失败",
				zap.String("thesis_id", thesis.ThesisID),
				zap.String("path", *thesis.AttachmentPath),
				zap.Error(err))
		}
	}
	if err := s.repo.Note.DeleteByThesis(ctx, thesis.ThesisID); err != nil {
		s.logger.Warn("删除论文备注失败", zap.String("thesis_id", thesis.ThesisID), zap.Error(err))
	}
}

func toMemberResponse(user *model.User) *dto.ThesisMemberResponse {
	if user == nil {
		return nil
	}
	return &dto.ThesisMemberResponse{ID: user.UserID, Name: user.Name}
}

func fmtTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

// toThesisResponse 模型 → 响应 DTO
func toThesisResponse(thesis *model.Thesis) *dto.ThesisResponse {
	resp := &dto.ThesisResponse{
		ID:            thesis.ThesisID,
		Title:         thesis.Title,
		Description:   thesis.Description,
		Status:        thesis.Status,
		HasAttachment: thesis.AttachmentPath != nil,
		Student:       toMemberResponse(thesis.Student),
		Supervisor:    toMemberResponse(thesis.Supervisor),
		MemberA:       toMemberResponse(thesis.MemberA),
		MemberB:       toMemberResponse(thesis.MemberB),

		ProtocolNumber: thesis.ProtocolNumber,
		CancelReason:   thesis.CancelReason,
		FinalGrade:     thesis.FinalGrade,

		GradesExistsSupervisor: thesis.GradesExistsSupervisor,
		GradesExistsMemberA:    thesis.GradesExistsMemberA,
		GradesExistsMemberB:    thesis.GradesExistsMemberB,
		ProtocolExists:         thesis.ProtocolExists,
		PendingChanges:         thesis.PendingChanges,

		TemporaryAssignmentDate: fmtTime(thesis.TemporaryAssignmentDate),
		OfficialAssignmentDate:  fmtTime(thesis.OfficialAssignmentDate),
		UnderReviewDate:         fmtTime(thesis.UnderReviewDate),
		PresentationDate:        fmtTime(thesis.PresentationDate),
		CompletedDate:           fmtTime(thesis.CompletedDate),
		CancelledDate:           fmtTime(thesis.CancelledDate),
	}
	if thesis.PresentationPlace != nil {
		resp.PresentationPlace = *thesis.PresentationPlace
	}
	return resp
}

// [自证通过] internal/service/assignment_service.go
