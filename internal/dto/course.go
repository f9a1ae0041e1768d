package dto

import "skillpath/backend/internal/catalog"

// ── 课程搜索 ──

// CourseSearchRequest 自然语言课程搜索请求
type CourseSearchRequest struct {
	Query string `json:"query" binding:"required"`
}

// CourseSearchResponse 课程搜索响应
type CourseSearchResponse struct {
	Query            string           `json:"query"`
	AIRecommendation string           `json:"ai_recommendation"`
	RelevantCourses  []catalog.Course `json:"relevant_courses"`
	TotalFound       int              `json:"total_found"`
}

// CourseSearchHealthResponse 课程搜索健康状态响应
type CourseSearchHealthResponse struct {
	Status       string `json:"status"`
	IndexedDocs  int    `json:"indexed_docs"`
}
