package dto

// ── 导师建议 ──

// MentorSuggestRequest 导师建议请求
type MentorSuggestRequest struct {
	Message string `json:"message" binding:"required"`
	UserID  string `json:"user_id"`
}

// MentorSuggestResponse 导师建议响应
type MentorSuggestResponse struct {
	Suggestions string `json:"suggestions"`
}

// ResetRequest 会话重置请求（导师 / 入职 / 演练模式共用）
type ResetRequest struct {
	UserID string `json:"user_id"`
}

// ResetResponse 会话重置响应
type ResetResponse struct {
	Status string `json:"status"`
	UserID string `json:"user_id"`
}

// SummarizeFeedbackRequest 绩效反馈总结请求
type SummarizeFeedbackRequest struct {
	Feedback string `json:"feedback" binding:"required"`
}

// SummarizeFeedbackResponse 绩效反馈总结响应
type SummarizeFeedbackResponse struct {
	Summary string `json:"summary"`
}

// ── 入职问答 ──

// OnboardingChatRequest 入职问答请求
type OnboardingChatRequest struct {
	Message string `json:"message" binding:"required"`
	UserID  string `json:"user_id"`
}

// OnboardingChatResponse 入职问答响应
type OnboardingChatResponse struct {
	Response    string   `json:"response"`
	Suggestions []string `json:"suggestions"`
	Sources     []string `json:"sources"`
	Timestamp   string   `json:"timestamp"`
}

// SearchDocsRequest 入职文档检索请求
type SearchDocsRequest struct {
	Query string `json:"query" binding:"required"`
	TopK  int    `json:"top_k"`
}

// DocSearchResult 单条文档检索结果
type DocSearchResult struct {
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata"`
	Source   string         `json:"source"`
}

// SearchDocsResponse 入职文档检索响应
type SearchDocsResponse struct {
	Query   string            `json:"query"`
	Results []DocSearchResult `json:"results"`
	Count   int               `json:"count"`
}
