package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"skillpath/backend/internal/service"
	"skillpath/backend/pkg/response"
)

// 导出文件 MIME 类型
const (
	contentTypeICS  = "text/calendar; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportICS 导出时间线为 iCalendar 文件
// GET /api/v1/timelines/:id/export/ics
func (h *ExportHandler) ExportICS(c *gin.Context) {
	buf, filename, err := h.exportSvc.ExportICS(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	h.sendFile(c, contentTypeICS, filename, buf.Bytes())
}

// ExportExcel 导出时间线为 Excel 事件总览
// GET /api/v1/timelines/:id/export/xlsx
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	buf, filename, err := h.exportSvc.ExportExcel(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	h.sendFile(c, contentTypeXLSX, filename, buf.Bytes())
}

// sendFile 设置下载响应头并写出文件内容
func (h *ExportHandler) sendFile(c *gin.Context, contentType, filename string, data []byte) {
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Header("Content-Type", contentType)
	c.Data(http.StatusOK, contentType, data)
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTimelineNotFound):
		response.NotFound(c, "时间线不存在")
	case errors.Is(err, service.ErrExportNoEvents):
		response.BadRequest(c, "时间线中无可导出的事件")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}
