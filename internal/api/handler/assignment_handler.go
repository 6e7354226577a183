package handler

import (
	"errors"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/stamelosxp/upThesis-sub000/internal/dto"
	"github.com/stamelosxp/upThesis-sub000/internal/service"
	apperrors "github.com/stamelosxp/upThesis-sub000/pkg/errors"
	"github.com/stamelosxp/upThesis-sub000/pkg/response"
)

// AssignmentHandler 论文生命周期 HTTP 处理器
type AssignmentHandler struct {
	assignmentSvc service.AssignmentService
}

// NewAssignmentHandler 创建 AssignmentHandler
func NewAssignmentHandler(assignmentSvc service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignmentSvc: assignmentSvc}
}

// writeLifecycleError 生命周期操作的统一错误映射
// 并发落败（条件更新 0 行生效）映射为 409
func writeLifecycleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrThesisNotFound):
		response.NotFound(c, 40001, "论文不存在")
	case errors.Is(err, service.ErrInvalidTransition):
		response.BadRequest(c, 40002, "当前状态不允许该操作")
	case errors.Is(err, service.ErrNotSupervisor):
		response.Forbidden(c, 40003, "仅论文导师可操作")
	case errors.Is(err, service.ErrCancelWindowNotReached):
		response.Forbidden(c, 40004, "正式分配未满两年，导师暂不可取消")
	case errors.Is(err, service.ErrInvalidDateTime):
		response.BadRequest(c, 10001, "日期时间格式无效")
	case errors.Is(err, apperrors.ErrOptimisticLock):
		response.Conflict(c, 40009, "论文状态已被并发修改，请刷新后重试")
	default:
		response.InternalError(c)
	}
}

// AssignTopic 题目晋升为论文（临时分配）
// POST /api/v1/topics/:id/assign
func (h *AssignmentHandler) AssignTopic(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	callerRole, ok := MustGetRole(c)
	if !ok {
		return
	}

	var req dto.AssignTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.assignmentSvc.AssignTopic(c.Request.Context(), c.Param("id"), &req, callerID, callerRole)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTopicNotFound):
			response.NotFound(c, 30001, "题目不存在")
		case errors.Is(err, service.ErrNoPermission):
			response.Forbidden(c, 10003, "无权限访问")
		case errors.Is(err, service.ErrStudentNotFound):
			response.BadRequest(c, 40005, "学生不存在")
		case errors.Is(err, service.ErrNotAStudent):
			response.BadRequest(c, 40006, "目标用户不是学生")
		case errors.Is(err, service.ErrStudentHasThesis):
			response.BadRequest(c, 40007, "该学生已有在办论文")
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, result)
}

// CancelTemporary 临时分配回退（导师，pending）
// DELETE /api/v1/assignments/:id/temporary
func (h *AssignmentHandler) CancelTemporary(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.assignmentSvc.CancelTemporary(c.Request.Context(), c.Param("id"), callerID); err != nil {
		writeLifecycleError(c, err)
		return
	}

	response.OK(c, nil)
}

// Assign 正式分配（秘书处，pending → active）
// PUT /api/v1/assignments/:id/assign
func (h *AssignmentHandler) Assign(c *gin.Context) {
	var req dto.AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.assignmentSvc.Assign(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		writeLifecycleError(c, err)
		return
	}

	response.OK(c, result)
}

// Review 送审（导师，active → review）
// PUT /api/v1/assignments/:id/review
func (h *AssignmentHandler) Review(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.assignmentSvc.Review(c.Request.Context(), c.Param("id"), callerID)
	if err != nil {
		writeLifecycleError(c, err)
		return
	}

	response.OK(c, result)
}

// Complete 完成（秘书处，active/review → completed）
// PUT /api/v1/assignments/:id/complete
func (h *AssignmentHandler) Complete(c *gin.Context) {
	result, err := h.assignmentSvc.Complete(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeLifecycleError(c, err)
		return
	}

	response.OK(c, result)
}

// Cancel 取消
// PUT /api/v1/assignments/:id/cancel
func (h *AssignmentHandler) Cancel(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	callerRole, ok := MustGetRole(c)
	if !ok {
		return
	}

	var req dto.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.assignmentSvc.Cancel(c.Request.Context(), c.Param("id"), &req, callerID, callerRole)
	if err != nil {
		writeLifecycleError(c, err)
		return
	}

	response.OK(c, result)
}

// SetPresentation 答辩安排（导师，review 阶段）
// PUT /api/v1/assignments/:id/presentation
func (h *AssignmentHandler) SetPresentation(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.PresentationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.assignmentSvc.SetPresentation(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		writeLifecycleError(c, err)
		return
	}

	response.OK(c, result)
}

// Get 论文详情
// GET /api/v1/assignments/:id
func (h *AssignmentHandler) Get(c *gin.Context) {
	result, err := h.assignmentSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeLifecycleError(c, err)
		return
	}
	response.OK(c, result)
}

// List 论文列表（按调用者视角过滤）
// GET /api/v1/assignments
func (h *AssignmentHandler) List(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	callerRole, ok := MustGetRole(c)
	if !ok {
		return
	}

	var req dto.ThesisListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.assignmentSvc.List(c.Request.Context(), &req, callerID, callerRole)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// DownloadAttachment 下载论文附件
// GET /api/v1/assignments/:id/attachment
func (h *AssignmentHandler) DownloadAttachment(c *gin.Context) {
	path, err := h.assignmentSvc.AttachmentPath(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrThesisNotFound) {
			response.NotFound(c, 40001, "附件不存在")
			return
		}
		response.InternalError(c)
		return
	}

	c.FileAttachment(path, filepath.Base(path))
}

// [自证通过] internal/api/handler/assignment_handler.go
