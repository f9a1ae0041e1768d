package handler

import (
	"github.com/gin-gonic/gin"

	"skillpath/backend/internal/dto"
	"skillpath/backend/internal/service"
	"skillpath/backend/pkg/response"
)

// AdvisorHandler 顾问分析模块 HTTP 处理器
type AdvisorHandler struct {
	advisorSvc service.AdvisorService
}

// NewAdvisorHandler 创建 AdvisorHandler
func NewAdvisorHandler(advisorSvc service.AdvisorService) *AdvisorHandler {
	return &AdvisorHandler{advisorSvc: advisorSvc}
}

// Analyze 并发多智能体画像分析
// POST /api/v1/advisor/analyze
func (h *AdvisorHandler) Analyze(c *gin.Context) {
	var req dto.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "user_profile 不能为空")
		return
	}

	result, err := h.advisorSvc.Analyze(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// SkillGap 技能差距学习序列推荐
// POST /api/v1/advisor/skill-gap
func (h *AdvisorHandler) SkillGap(c *gin.Context) {
	var req dto.SkillGapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "user_profile 和 skill_gaps 不能为空")
		return
	}

	result, err := h.advisorSvc.AnalyzeSkillGap(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}
