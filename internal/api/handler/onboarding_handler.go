package handler

import (
	"github.com/gin-gonic/gin"

	"skillpath/backend/internal/dto"
	"skillpath/backend/internal/service"
	"skillpath/backend/pkg/response"
)

// OnboardingHandler 入职问答模式 HTTP 处理器
type OnboardingHandler struct {
	onboardingSvc service.OnboardingService
}

// NewOnboardingHandler 创建 OnboardingHandler
func NewOnboardingHandler(onboardingSvc service.OnboardingService) *OnboardingHandler {
	return &OnboardingHandler{onboardingSvc: onboardingSvc}
}

// Chat 入职问答对话
// POST /api/v1/onboarding/chat
func (h *OnboardingHandler) Chat(c *gin.Context) {
	var req dto.OnboardingChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "message 不能为空")
		return
	}

	if req.UserID == "" {
		if userID, ok := MustGetUserID(c); ok {
			req.UserID = userID
		} else {
			return
		}
	}

	result, err := h.onboardingSvc.Chat(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Reset 重置入职问答对话历史
// POST /api/v1/onboarding/reset
func (h *OnboardingHandler) Reset(c *gin.Context) {
	var req dto.ResetRequest
	_ = c.ShouldBindJSON(&req)

	if req.UserID == "" {
		if userID, ok := MustGetUserID(c); ok {
			req.UserID = userID
		} else {
			return
		}
	}

	if err := h.onboardingSvc.Reset(c.Request.Context(), req.UserID); err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"message": "Conversation reset successfully"})
}

// Search 入职文档检索
// POST /api/v1/onboarding/search
func (h *OnboardingHandler) Search(c *gin.Context) {
	var req dto.SearchDocsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "query 不能为空")
		return
	}

	result, err := h.onboardingSvc.SearchDocs(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}
