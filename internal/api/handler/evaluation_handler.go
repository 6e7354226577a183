package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/stamelosxp/upThesis-sub000/internal/dto"
	"github.com/stamelosxp/upThesis-sub000/internal/service"
	"github.com/stamelosxp/upThesis-sub000/pkg/response"
)

// EvaluationHandler 评审模块 HTTP 处理器
type EvaluationHandler struct {
	evaluationSvc service.EvaluationService
}

// NewEvaluationHandler 创建 EvaluationHandler
func NewEvaluationHandler(evaluationSvc service.EvaluationService) *EvaluationHandler {
	return &EvaluationHandler{evaluationSvc: evaluationSvc}
}

// SubmitGrades 提交评分（委员会成员，按角色写入）
// POST/PUT /api/v1/assignments/:id/grades
func (h *EvaluationHandler) SubmitGrades(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.SubmitGradesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.evaluationSvc.SubmitGrades(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrThesisNotFound):
			response.NotFound(c, 40001, "论文不存在")
		case errors.Is(err, service.ErrNotCommitteeMember):
			response.Forbidden(c, 42002, "仅委员会成员可评分")
		case errors.Is(err, service.ErrInvalidTransition):
			response.BadRequest(c, 40002, "当前状态不允许该操作")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

// SubmitProtocol 提交答辩纪要（导师）
// PUT /api/v1/assignments/:id/protocol
func (h *EvaluationHandler) SubmitProtocol(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.SubmitProtocolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.evaluationSvc.SubmitProtocol(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrThesisNotFound):
			response.NotFound(c, 40001, "论文不存在")
		case errors.Is(err, service.ErrEvaluationNotFound):
			response.NotFound(c, 42001, "评审记录不存在")
		case errors.Is(err, service.ErrNotSupervisor):
			response.Forbidden(c, 40003, "仅论文导师可操作")
		case errors.Is(err, service.ErrInvalidTransition):
			response.BadRequest(c, 40002, "当前状态不允许该操作")
		case errors.Is(err, service.ErrInvalidDateTime):
			response.BadRequest(c, 10001, "日期时间格式无效")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

// Get 评审记录详情
// GET /api/v1/assignments/:id/evaluation
func (h *EvaluationHandler) Get(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	callerRole, ok := MustGetRole(c)
	if !ok {
		return
	}

	result, err := h.evaluationSvc.GetByThesis(c.Request.Context(), c.Param("id"), callerID, callerRole)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrThesisNotFound):
			response.NotFound(c, 40001, "论文不存在")
		case errors.Is(err, service.ErrEvaluationNotFound):
			response.NotFound(c, 42001, "评审记录不存在")
		case errors.Is(err, service.ErrNoPermission):
			response.Forbidden(c, 10003, "无权限访问")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}
