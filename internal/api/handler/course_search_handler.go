package handler

import (
	"github.com/gin-gonic/gin"

	"skillpath/backend/internal/dto"
	"skillpath/backend/internal/service"
	"skillpath/backend/pkg/response"
)

// CourseSearchHandler 课程搜索模块 HTTP 处理器
type CourseSearchHandler struct {
	searchSvc service.CourseSearchService
}

// NewCourseSearchHandler 创建 CourseSearchHandler
func NewCourseSearchHandler(searchSvc service.CourseSearchService) *CourseSearchHandler {
	return &CourseSearchHandler{searchSvc: searchSvc}
}

// Search 自然语言课程搜索
// POST /api/v1/courses/search
func (h *CourseSearchHandler) Search(c *gin.Context) {
	var req dto.CourseSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "query 不能为空")
		return
	}

	result, err := h.searchSvc.Search(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Health 课程索引健康检查
// GET /api/v1/courses/search/health
func (h *CourseSearchHandler) Health(c *gin.Context) {
	result, err := h.searchSvc.Health(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}
