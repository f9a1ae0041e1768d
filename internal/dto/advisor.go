package dto

import "skillpath/backend/internal/catalog"

// ── AI 学习顾问 ──

// SkillRating 用户当前技能及自评等级
type SkillRating struct {
	Name   string `json:"name" binding:"required"`
	Rating int    `json:"rating"`
}

// SkillGap 目标技能及需要达到的等级
type SkillGap struct {
	Name  string `json:"name" binding:"required"`
	Level int    `json:"level"`
}

// UserProfile 学习者画像
type UserProfile struct {
	UserID string        `json:"userId"`
	Name   string        `json:"name" binding:"required"`
	Role   string        `json:"role" binding:"required"`
	Skills []SkillRating `json:"skills"`
}

// FeedbackEntry 一条绩效反馈记录
type FeedbackEntry struct {
	Date                string `json:"date"`
	TechnicalSkills     int    `json:"technicalSkills"`
	Communication       int    `json:"communication"`
	Teamwork            int    `json:"teamwork"`
	ProblemSolving      int    `json:"problemSolving"`
	Initiative          int    `json:"initiative"`
	QualitativeFeedback string `json:"qualitativeFeedback"`
	AreasForImprovement string `json:"areasForImprovement"`
	Goals               string `json:"goals"`
}

// AnalyzeRequest 多智能体综合分析请求
type AnalyzeRequest struct {
	UserProfile      UserProfile      `json:"user_profile" binding:"required"`
	SkillGaps        []SkillGap       `json:"skill_gaps"`
	AvailableCourses []catalog.Course `json:"available_courses"`
	Feedback         []FeedbackEntry  `json:"feedback"`
}

// AgentResult 单个分析智能体的输出
type AgentResult struct {
	Agent      string         `json:"agent"`
	Analysis   map[string]any `json:"analysis"`
	Confidence string         `json:"confidence"` // high | low
	Error      string         `json:"error,omitempty"`
}

// CoordinationMetadata 多智能体协调元数据
type CoordinationMetadata struct {
	TotalAgents       int    `json:"total_agents"`
	SuccessfulAgents  int    `json:"successful_agents"`
	AnalysisTimestamp string `json:"analysis_timestamp"`
}

// AnalyzeResponse 多智能体综合分析响应
type AnalyzeResponse struct {
	AgentOutputs struct {
		SkillsAnalysis   AgentResult `json:"skills_analysis"`
		GoalsAnalysis    AgentResult `json:"goals_analysis"`
		FeedbackAnalysis AgentResult `json:"feedback_analysis"`
	} `json:"agent_outputs"`
	CoordinationMetadata CoordinationMetadata `json:"coordination_metadata"`
	CoursePriorities     CoursePriorities     `json:"course_priorities"`
}

// ScoredCourse 综合打分后的课程
type ScoredCourse struct {
	CourseID   string   `json:"course_id"`
	TotalScore float64  `json:"total_score"`
	Factors    []string `json:"factors"`
}

// CoursePriorities 课程优先级汇总
type CoursePriorities struct {
	PrioritizedCourses []ScoredCourse `json:"prioritized_courses"`
	ScoringFactors     []string       `json:"scoring_factors"`
}

// ── 技能差距分析 ──

// SkillGapRequest 技能差距分析请求
type SkillGapRequest struct {
	UserProfile      UserProfile      `json:"user_profile" binding:"required"`
	SkillGaps        []SkillGap       `json:"skill_gaps" binding:"required"`
	AvailableCourses []catalog.Course `json:"available_courses"`
}

// CourseStep 学习路径中的一步
type CourseStep struct {
	CourseID      string `json:"course_id"`
	CourseTitle   string `json:"course_title"`
	SequenceOrder int    `json:"sequence_order"`
	Reasoning     string `json:"reasoning"`
	TimingAdvice  string `json:"timing_advice"`
}

// SkillGapRecommendation 技能差距分析建议
type SkillGapRecommendation struct {
	RecommendedSequence []CourseStep `json:"recommended_sequence"`
	StrategicAdvice     string       `json:"strategic_advice"`
	EstimatedTimeline   string       `json:"estimated_timeline"`
}

// SkillGapResponse 技能差距分析响应
type SkillGapResponse struct {
	Success           bool                   `json:"success"`
	AIRecommendations SkillGapRecommendation `json:"ai_recommendations"`
	UserProfile       UserProfile            `json:"user_profile"`
	SkillGapsCount    int                    `json:"skill_gaps_count"`
}
