package dto

import "skillpath/backend/internal/model"

// ── 时间线生成 ──

// PreferencesOverride 用户自定义学习偏好（任意子集，缺省字段沿用默认值）
type PreferencesOverride struct {
	StudyHoursPerWeek *float64 `json:"study_hours_per_week,omitempty"`
	PreferredDays     []string `json:"preferred_days,omitempty"`
	PreferredTimes    []string `json:"preferred_times,omitempty"`
	MaxSessionLength  *float64 `json:"max_session_length,omitempty"`
	BreakDays         []string `json:"break_days,omitempty"`
}

// GenerateTimelineRequest 生成时间线请求
type GenerateTimelineRequest struct {
	CourseName         string               `json:"course_name" binding:"required"`
	UserPreferences    *PreferencesOverride `json:"user_preferences"`
	CustomRequirements string               `json:"custom_requirements"`
	UserID             string               `json:"user_id"`
}

// ReviseTimelineRequest 修订时间线请求
type ReviseTimelineRequest struct {
	TimelineID      string `json:"timeline_id" binding:"required"`
	RevisionRequest string `json:"revision_request"`
}

// ApproveTimelineRequest 批准时间线请求
type ApproveTimelineRequest struct {
	TimelineID string `json:"timeline_id" binding:"required"`
}

// TimelineResponse 时间线响应
type TimelineResponse struct {
	Success  bool            `json:"success"`
	Timeline *model.Timeline `json:"timeline"`
}

// ApproveTimelineResponse 批准时间线响应
type ApproveTimelineResponse struct {
	Success    bool            `json:"success"`
	TimelineID string          `json:"timeline_id"`
	Events     model.EventList `json:"events"`
	Message    string          `json:"message"`
}

// ── 完成凭证 ──

// SubmitProofRequest 提交凭证请求
type SubmitProofRequest struct {
	EventID      string `json:"event_id" binding:"required"`
	UserID       string `json:"user_id" binding:"required"`
	ProofType    string `json:"proof_type" binding:"omitempty,oneof=text file url"`
	ProofContent string `json:"proof_content"`
	ProofURL     string `json:"proof_url"`
}

// ReviewProofRequest 审核凭证请求
type ReviewProofRequest struct {
	ProofID        string `json:"proof_id" binding:"required"`
	ReviewerID     string `json:"reviewer_id" binding:"required"`
	Status         string `json:"status" binding:"required,oneof=approved rejected"`
	ReviewComments string `json:"review_comments"`
}

// ProofResponse 凭证提交/审核响应
type ProofResponse struct {
	Success bool               `json:"success"`
	Proof   *model.ProofRecord `json:"proof"`
	Message string             `json:"message,omitempty"`
}
