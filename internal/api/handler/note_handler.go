package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/stamelosxp/upThesis-sub000/internal/dto"
	"github.com/stamelosxp/upThesis-sub000/internal/service"
	"github.com/stamelosxp/upThesis-sub000/pkg/response"
)

// NoteHandler 备注模块 HTTP 处理器
type NoteHandler struct {
	noteSvc service.NoteService
}

// NewNoteHandler 创建 NoteHandler
func NewNoteHandler(noteSvc service.NoteService) *NoteHandler {
	return &NoteHandler{noteSvc: noteSvc}
}

func writeNoteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrThesisNotFound):
		response.NotFound(c, 40001, "论文不存在")
	case errors.Is(err, service.ErrNoteNotFound):
		response.NotFound(c, 43001, "备注不存在")
	case errors.Is(err, service.ErrNotCommitteeMember):
		response.Forbidden(c, 42002, "仅委员会成员可操作")
	case errors.Is(err, service.ErrNotNoteOwner):
		response.Forbidden(c, 43002, "仅备注作者可操作")
	case errors.Is(err, service.ErrInvalidTransition):
		response.BadRequest(c, 40002, "当前状态不允许该操作")
	default:
		response.InternalError(c)
	}
}

// Create 创建备注（委员会成员）
// POST /api/v1/assignments/:id/notes
func (h *NoteHandler) Create(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.noteSvc.Create(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		writeNoteError(c, err)
		return
	}

	response.Created(c, result)
}

// ListByThesis 当前教授在某论文下的备注
// GET /api/v1/assignments/:id/notes
func (h *NoteHandler) ListByThesis(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.noteSvc.ListByThesis(c.Request.Context(), c.Param("id"), callerID)
	if err != nil {
		writeNoteError(c, err)
		return
	}

	response.OK(c, result)
}

// Update 更新备注（仅作者）
// PUT /api/v1/notes/:id
func (h *NoteHandler) Update(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.noteSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		writeNoteError(c, err)
		return
	}

	response.OK(c, result)
}

// Delete 删除备注（仅作者）
// DELETE /api/v1/notes/:id
func (h *NoteHandler) Delete(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.noteSvc.Delete(c.Request.Context(), c.Param("id"), callerID); err != nil {
		writeNoteError(c, err)
		return
	}

	response.OK(c, nil)
}
