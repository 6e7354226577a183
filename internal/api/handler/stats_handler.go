package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/stamelosxp/upThesis-sub000/internal/service"
	"github.com/stamelosxp/upThesis-sub000/pkg/response"
)

// StatsHandler 统计模块 HTTP 处理器
type StatsHandler struct {
	statsSvc service.StatsService
}

// NewStatsHandler 创建 StatsHandler
func NewStatsHandler(statsSvc service.StatsService) *StatsHandler {
	return &StatsHandler{statsSvc: statsSvc}
}

// GetByProfessor 指定教授的统计汇总
// GET /api/v1/stats/professors/:id
func (h *StatsHandler) GetByProfessor(c *gin.Context) {
	h.writeStats(c, c.Param("id"))
}

// GetMine 当前教授的统计汇总
// GET /api/v1/stats/me
func (h *StatsHandler) GetMine(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	h.writeStats(c, callerID)
}

func (h *StatsHandler) writeStats(c *gin.Context, professorID string) {
	result, err := h.statsSvc.GetByProfessor(c.Request.Context(), professorID)
	if err != nil {
		if errors.Is(err, service.ErrStatsNotFound) {
			response.NotFound(c, 45001, "该教授暂无统计数据")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}
