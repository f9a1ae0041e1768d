package handler

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"skillpath/backend/internal/dto"
	"skillpath/backend/internal/service"
	"skillpath/backend/pkg/response"
)

// TimelineHandler 时间线与凭证模块 HTTP 处理器
type TimelineHandler struct {
	timelineSvc service.TimelineService
}

// NewTimelineHandler 创建 TimelineHandler
func NewTimelineHandler(timelineSvc service.TimelineService) *TimelineHandler {
	return &TimelineHandler{timelineSvc: timelineSvc}
}

// Generate 生成学习时间线（草稿）
// POST /api/v1/timelines
func (h *TimelineHandler) Generate(c *gin.Context) {
	var req dto.GenerateTimelineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "course_name 不能为空")
		return
	}

	// 未显式指定时归属当前登录用户
	if req.UserID == "" {
		if userID, ok := MustGetUserID(c); ok {
			req.UserID = userID
		} else {
			return
		}
	}

	timeline, err := h.timelineSvc.Generate(c.Request.Context(), &req)
	if err != nil {
		h.handleTimelineError(c, err)
		return
	}

	response.OK(c, dto.TimelineResponse{Success: true, Timeline: timeline})
}

// Revise 修订时间线，生成新版草稿
// POST /api/v1/timelines/revise
func (h *TimelineHandler) Revise(c *gin.Context) {
	var req dto.ReviseTimelineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "timeline_id 不能为空")
		return
	}

	timeline, err := h.timelineSvc.Revise(c.Request.Context(), &req)
	if err != nil {
		h.handleTimelineError(c, err)
		return
	}

	response.OK(c, dto.TimelineResponse{Success: true, Timeline: timeline})
}

// Approve 批准时间线
// POST /api/v1/timelines/approve
func (h *TimelineHandler) Approve(c *gin.Context) {
	var req dto.ApproveTimelineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "timeline_id 不能为空")
		return
	}

	timeline, err := h.timelineSvc.Approve(c.Request.Context(), req.TimelineID)
	if err != nil {
		h.handleTimelineError(c, err)
		return
	}

	response.OK(c, dto.ApproveTimelineResponse{
		Success:    true,
		TimelineID: timeline.TimelineID,
		Events:     timeline.Events,
		Message:    "Timeline approved and events ready for calendar",
	})
}

// Get 按标识符查询时间线
// GET /api/v1/timelines/:id
func (h *TimelineHandler) Get(c *gin.Context) {
	timeline, err := h.timelineSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleTimelineError(c, err)
		return
	}

	response.OK(c, timeline)
}

// ListByUser 查询用户的全部时间线
// GET /api/v1/timelines/user/:user_id
func (h *TimelineHandler) ListByUser(c *gin.Context) {
	timelines, err := h.timelineSvc.ListByUser(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, timelines)
}

// SubmitProof 提交事件完成凭证
// POST /api/v1/proofs
func (h *TimelineHandler) SubmitProof(c *gin.Context) {
	var req dto.SubmitProofRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "event_id 和 user_id 不能为空")
		return
	}

	proof, err := h.timelineSvc.SubmitProof(c.Request.Context(), &req)
	if err != nil {
		h.handleTimelineError(c, err)
		return
	}

	response.OK(c, dto.ProofResponse{
		Success: true,
		Proof:   proof,
		Message: "Proof submitted successfully",
	})
}

// ReviewProof 审核凭证（manager / admin）
// POST /api/v1/proofs/review
func (h *TimelineHandler) ReviewProof(c *gin.Context) {
	var req dto.ReviewProofRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "proof_id、reviewer_id 和 status 不能为空")
		return
	}

	proof, err := h.timelineSvc.ReviewProof(c.Request.Context(), &req)
	if err != nil {
		h.handleTimelineError(c, err)
		return
	}

	response.OK(c, dto.ProofResponse{
		Success: true,
		Proof:   proof,
		Message: fmt.Sprintf("Proof %s successfully", proof.Status),
	})
}

// ListProofsByEvent 查询某事件下的凭证
// GET /api/v1/proofs/event/:event_id
func (h *TimelineHandler) ListProofsByEvent(c *gin.Context) {
	proofs, err := h.timelineSvc.ListProofsByEvent(c.Request.Context(), c.Param("event_id"))
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, proofs)
}

// ListProofsByUser 查询用户提交的凭证
// GET /api/v1/proofs/user/:user_id
func (h *TimelineHandler) ListProofsByUser(c *gin.Context) {
	proofs, err := h.timelineSvc.ListProofsByUser(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, proofs)
}

func (h *TimelineHandler) handleTimelineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTimelineNotFound):
		response.NotFound(c, "时间线不存在")
	case errors.Is(err, service.ErrProofNotFound):
		response.NotFound(c, "凭证记录不存在")
	case errors.Is(err, service.ErrTimelineNotDraft):
		response.BadRequest(c, "时间线不是草稿状态，无法审批")
	case errors.Is(err, service.ErrNoModules):
		response.BadRequest(c, "课程没有可排期的模块")
	case errors.Is(err, service.ErrInvalidPreferences):
		response.BadRequest(c, "每周学习时长必须为正数")
	case errors.Is(err, service.ErrInvalidProofStatus):
		response.BadRequest(c, "审核状态只能是 approved 或 rejected")
	default:
		response.InternalError(c)
	}
}
