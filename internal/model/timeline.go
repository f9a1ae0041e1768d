package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// 时间线状态
const (
	TimelineStatusDraft    = "draft"
	TimelineStatusApproved = "approved"
)

// 日历事件类型（沿用前端既有的类型标签）
const (
	EventTypeStudy     = "course"
	EventTypeDeadline  = "deadline"
	EventTypeMilestone = "goal_milestone"
)

// 事件颜色标签（前端日历渲染用）
const (
	EventColorStudy     = "bg-purple-500"
	EventColorDeadline  = "bg-red-500"
	EventColorMilestone = "bg-green-500"
)

// 完成凭证类型
const (
	ProofTypeStudySession = "study_session"
	ProofTypeAssignment   = "assignment_submission"
	ProofTypeReflection   = "reflection"
)

// Event 时间线中的一个日历事件
// 事件归属且仅归属于一条时间线，不跨时间线共享
type Event struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Type          string    `json:"type"` // course | deadline | goal_milestone
	StartTime     time.Time `json:"startTime"`
	EndTime       time.Time `json:"endTime"`
	Description   string    `json:"description"`
	Color         string    `json:"color"`
	ModuleName    string    `json:"module_name,omitempty"` // 周回顾事件为空
	RequiresProof bool      `json:"requires_proof"`
	ProofType     string    `json:"proof_type"`
}

// Preferences 学习偏好
// BreakDays 仅作展示信息，不参与排期约束
type Preferences struct {
	StudyHoursPerWeek float64  `json:"study_hours_per_week"`
	PreferredDays     []string `json:"preferred_days"`
	PreferredTimes    []string `json:"preferred_times"`
	MaxSessionLength  float64  `json:"max_session_length"`
	BreakDays         []string `json:"break_days"`
}

// EventList 事件序列，整体作为 JSONB 文档列持久化
type EventList []Event

// Scan 实现 sql.Scanner，从 JSONB 反序列化
func (e *EventList) Scan(value any) error {
	if value == nil {
		*e = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("EventList.Scan: 不支持的类型 %T", value)
	}
	return json.Unmarshal(data, e)
}

// Value 实现 driver.Valuer，序列化为 JSONB
func (e EventList) Value() (driver.Value, error) {
	if e == nil {
		return "[]", nil
	}
	data, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// PreferencesDoc 偏好文档，作为 JSONB 列持久化
type PreferencesDoc Preferences

func (p *PreferencesDoc) Scan(value any) error {
	if value == nil {
		*p = PreferencesDoc{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("PreferencesDoc.Scan: 不支持的类型 %T", value)
	}
	return json.Unmarshal(data, p)
}

func (p PreferencesDoc) Value() (driver.Value, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Timeline 学习时间线表 — 对应 timelines
// 每行即一份完整的时间线 JSON 文档，以 timeline_id 为键
type Timeline struct {
	TimelineID         string         `gorm:"type:varchar(64);primaryKey"               json:"timeline_id"`
	UserID             string         `gorm:"type:varchar(64);not null;index:idx_timelines_user" json:"user_id"`
	CourseName         string         `gorm:"type:varchar(200);not null"                json:"course_name"`
	Status             string         `gorm:"type:varchar(20);not null;default:'draft'" json:"status"` // draft | approved
	TotalWeeks         float64        `gorm:"not null"                                  json:"total_duration_weeks"`
	TotalHours         float64        `gorm:"not null"                                  json:"total_hours"`
	Events             EventList      `gorm:"type:jsonb;not null"                       json:"events"`
	Preferences        PreferencesDoc `gorm:"type:jsonb;not null"                       json:"user_preferences"`
	CustomRequirements string         `gorm:"type:text"                                 json:"custom_requirements"`
	RevisionRequest    string         `gorm:"type:text"                                 json:"revision_request,omitempty"`
	PreviousVersion    string         `gorm:"type:varchar(64)"                          json:"previous_version,omitempty"`
	GeneratedAt        time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"        json:"generated_at"`
	ApprovedAt         *time.Time     `json:"approved_at,omitempty"`
}

func (Timeline) TableName() string { return "timelines" }

// ProofRecord 完成凭证表 — 对应 proof_records
// 仅以标识符弱引用事件和时间线，删除时间线不级联删除凭证
type ProofRecord struct {
	ProofID        string     `gorm:"type:varchar(64);primaryKey"                       json:"proof_id"`
	EventID        string     `gorm:"type:varchar(128);not null;index:idx_proofs_event" json:"event_id"`
	UserID         string     `gorm:"type:varchar(64);not null;index:idx_proofs_user"   json:"user_id"`
	ProofType      string     `gorm:"type:varchar(30);not null;default:'text'"          json:"proof_type"` // text | file | url
	ProofContent   string     `gorm:"type:text"                                         json:"proof_content"`
	ProofURL       string     `gorm:"type:varchar(500)"                                 json:"proof_url,omitempty"`
	Status         string     `gorm:"type:varchar(20);not null;default:'pending_review'" json:"status"` // pending_review | approved | rejected
	ReviewerID     string     `gorm:"type:varchar(64)"                                  json:"reviewer_id,omitempty"`
	ReviewComments string     `gorm:"type:text"                                         json:"review_comments,omitempty"`
	SubmittedAt    time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"                json:"submitted_at"`
	ReviewedAt     *time.Time `json:"reviewed_at,omitempty"`
}

func (ProofRecord) TableName() string { return "proof_records" }

// 凭证审核状态
const (
	ProofStatusPending  = "pending_review"
	ProofStatusApproved = "approved"
	ProofStatusRejected = "rejected"
)
