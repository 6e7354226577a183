package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/stamelosxp/upThesis-sub000/internal/dto"
	"github.com/stamelosxp/upThesis-sub000/internal/service"
	"github.com/stamelosxp/upThesis-sub000/pkg/response"
)

// InvitationHandler 邀请模块 HTTP 处理器
type InvitationHandler struct {
	invitationSvc service.InvitationService
}

// NewInvitationHandler 创建 InvitationHandler
func NewInvitationHandler(invitationSvc service.InvitationService) *InvitationHandler {
	return &InvitationHandler{invitationSvc: invitationSvc}
}

// Send 批量发送邀请（导师）
// POST /api/v1/assignments/:id/invitations
func (h *InvitationHandler) Send(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.SendInvitationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.invitationSvc.Send(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrThesisNotFound):
			response.NotFound(c, 40001, "论文不存在")
		case errors.Is(err, service.ErrNotSupervisor):
			response.Forbidden(c, 40003, "仅论文导师可操作")
		case errors.Is(err, service.ErrInvalidTransition):
			response.BadRequest(c, 40002, "当前状态不允许该操作")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

// Reply 答复邀请（被邀请教授）
// PUT /api/v1/invitations/:id
func (h *InvitationHandler) Reply(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ReplyInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.invitationSvc.Reply(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvitationNotFound):
			response.NotFound(c, 41001, "邀请不存在")
		case errors.Is(err, service.ErrNotInvitee):
			response.Forbidden(c, 41003, "仅被邀请教授可答复")
		case errors.Is(err, service.ErrInvitationReplied):
			response.BadRequest(c, 41002, "邀请已答复，不可重复操作")
		case errors.Is(err, service.ErrInvalidTransition):
			response.BadRequest(c, 40002, "当前状态不允许该操作")
		case errors.Is(err, service.ErrCommitteeFull):
			response.BadRequest(c, 41004, "委员会成员已满")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

// ListByThesis 某论文的全部邀请（导师）
// GET /api/v1/assignments/:id/invitations
func (h *InvitationHandler) ListByThesis(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.invitationSvc.ListByThesis(c.Request.Context(), c.Param("id"), callerID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrThesisNotFound):
			response.NotFound(c, 40001, "论文不存在")
		case errors.Is(err, service.ErrNotSupervisor):
			response.Forbidden(c, 40003, "仅论文导师可操作")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

// ListMine 当前教授收到的邀请
// GET /api/v1/invitations
func (h *InvitationHandler) ListMine(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.invitationSvc.ListMine(c.Request.Context(), callerID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}
