package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"skillpath/backend/internal/dto"
	"skillpath/backend/internal/service"
	"skillpath/backend/pkg/response"
)

// MentorHandler 导师模式 HTTP 处理器
type MentorHandler struct {
	mentorSvc service.MentorService
}

// NewMentorHandler 创建 MentorHandler
func NewMentorHandler(mentorSvc service.MentorService) *MentorHandler {
	return &MentorHandler{mentorSvc: mentorSvc}
}

// Suggest 导师建议对话
// POST /api/v1/mentor/suggest
func (h *MentorHandler) Suggest(c *gin.Context) {
	var req dto.MentorSuggestRequest
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

	suggestions, err := h.mentorSvc.Suggest(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, dto.MentorSuggestResponse{Suggestions: suggestions})
}

// Reset 重置导师对话历史
// POST /api/v1/mentor/reset
func (h *MentorHandler) Reset(c *gin.Context) {
	var req dto.ResetRequest
	_ = c.ShouldBindJSON(&req)

	if req.UserID == "" {
		if userID, ok := MustGetUserID(c); ok {
			req.UserID = userID
		} else {
			return
		}
	}

	if err := h.mentorSvc.Reset(c.Request.Context(), req.UserID); err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, dto.ResetResponse{Status: "reset_complete", UserID: req.UserID})
}

// SummarizeFeedback 绩效反馈总结
// POST /api/v1/mentor/summarize-feedback
func (h *MentorHandler) SummarizeFeedback(c *gin.Context) {
	var req dto.SummarizeFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "feedback 不能为空")
		return
	}

	summary, err := h.mentorSvc.SummarizeFeedback(c.Request.Context(), req.Feedback)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Unable to generate summary at this time")
		return
	}

	response.OK(c, dto.SummarizeFeedbackResponse{Summary: summary})
}
