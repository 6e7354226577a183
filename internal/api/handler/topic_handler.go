package handler

import (
	"errors"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/stamelosxp/upThesis-sub000/internal/dto"
	"github.com/stamelosxp/upThesis-sub000/internal/service"
	"github.com/stamelosxp/upThesis-sub000/pkg/filestore"
	"github.com/stamelosxp/upThesis-sub000/pkg/response"
)

// TopicHandler 题目模块 HTTP 处理器
type TopicHandler struct {
	topicSvc service.TopicService
}

// NewTopicHandler 创建 TopicHandler
func NewTopicHandler(topicSvc service.TopicService) *TopicHandler {
	return &TopicHandler{topicSvc: topicSvc}
}

// Create 创建题目（教授，multipart 表单，附件可选）
// POST /api/v1/topics
func (h *TopicHandler) Create(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateTopicRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	attachment, _ := c.FormFile("attachment") // 可选

	result, err := h.topicSvc.Create(c.Request.Context(), &req, attachment, callerID)
	if err != nil {
		if errors.Is(err, filestore.ErrFileTooLarge) {
			response.Error(c, 413, 10005, "附件过大")
			return
		}
		response.InternalError(c)
		return
	}

	response.Created(c, result)
}

// Get 题目详情
// GET /api/v1/topics/:id
func (h *TopicHandler) Get(c *gin.Context) {
	result, err := h.topicSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrTopicNotFound) {
			response.NotFound(c, 30001, "题目不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// List 题目列表
// GET /api/v1/topics
func (h *TopicHandler) List(c *gin.Context) {
	var req dto.TopicListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.topicSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// Update 更新题目（仅创建者）
// PUT /api/v1/topics/:id
func (h *TopicHandler) Update(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateTopicRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	attachment, _ := c.FormFile("attachment")

	result, err := h.topicSvc.Update(c.Request.Context(), c.Param("id"), &req, attachment, callerID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTopicNotFound):
			response.NotFound(c, 30001, "题目不存在")
		case errors.Is(err, service.ErrNotTopicOwner):
			response.Forbidden(c, 30002, "仅题目创建者可操作")
		case errors.Is(err, filestore.ErrFileTooLarge):
			response.Error(c, 413, 10005, "附件过大")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

// Delete 删除题目（仅创建者）
// DELETE /api/v1/topics/:id
func (h *TopicHandler) Delete(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.topicSvc.Delete(c.Request.Context(), c.Param("id"), callerID); err != nil {
		switch {
		case errors.Is(err, service.ErrTopicNotFound):
			response.NotFound(c, 30001, "题目不存在")
		case errors.Is(err, service.ErrNotTopicOwner):
			response.Forbidden(c, 30002, "仅题目创建者可操作")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, nil)
}

// DownloadAttachment 下载题目附件
// GET /api/v1/topics/:id/attachment
func (h *TopicHandler) DownloadAttachment(c *gin.Context) {
	path, err := h.topicSvc.AttachmentPath(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrTopicNotFound) {
			response.NotFound(c, 30001, "附件不存在")
			return
		}
		response.InternalError(c)
		return
	}

	c.FileAttachment(path, filepath.Base(path))
}
