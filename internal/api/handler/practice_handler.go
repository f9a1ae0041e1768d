package handler

import (
	"github.com/gin-gonic/gin"

	"skillpath/backend/internal/dto"
	"skillpath/backend/internal/service"
	"skillpath/backend/pkg/response"
)

// PracticeHandler 沟通演练模式 HTTP 处理器
type PracticeHandler struct {
	practiceSvc service.PracticeService
}

// NewPracticeHandler 创建 PracticeHandler
func NewPracticeHandler(practiceSvc service.PracticeService) *PracticeHandler {
	return &PracticeHandler{practiceSvc: practiceSvc}
}

// Start 开始沟通演练，提议场景
// POST /api/v1/practice/start
func (h *PracticeHandler) Start(c *gin.Context) {
	var req dto.PracticeStartRequest
	_ = c.ShouldBindJSON(&req)

	if req.UserID == "" {
		if userID, ok := MustGetUserID(c); ok {
			req.UserID = userID
		} else {
			return
		}
	}

	result, err := h.practiceSvc.Start(c.Request.Context(), req.UserID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Respond 演练对话推进
// POST /api/v1/practice/respond
func (h *PracticeHandler) Respond(c *gin.Context) {
	var req dto.PracticeRespondRequest
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

	result, err := h.practiceSvc.Respond(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Reset 重置演练会话
// POST /api/v1/practice/reset
func (h *PracticeHandler) Reset(c *gin.Context) {
	var req dto.ResetRequest
	_ = c.ShouldBindJSON(&req)

	if req.UserID == "" {
		if userID, ok := MustGetUserID(c); ok {
			req.UserID = userID
		} else {
			return
		}
	}

	if err := h.practiceSvc.Reset(c.Request.Context(), req.UserID); err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"status": "reset_complete"})
}
