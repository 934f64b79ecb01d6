package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"teaching-plan/backend/internal/service"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	icsContentType  = "text/calendar; charset=utf-8"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// serveDownload 设置下载响应头并写出文件内容
func serveDownload(c *gin.Context, contentType, filename string, payload []byte) {
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, contentType, payload)
}

// ExportWorkloads 导出教师工作量汇总表
// GET /api/v1/export/workloads?semester_id=1&staff_ids=2,3
func (h *ExportHandler) ExportWorkloads(c *gin.Context) {
	query, ok := bindWorkloadQuery(c)
	if !ok {
		return
	}
	buf, filename, err := h.exportSvc.ExportWorkloads(c.Request.Context(), query)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	serveDownload(c, xlsxContentType, filename, buf.Bytes())
}

// ExportCancelledCourses 导出扣课课时表
// GET /api/v1/export/cancelled-courses?semester_id=1&weeks=3,9
func (h *ExportHandler) ExportCancelledCourses(c *gin.Context) {
	query, ok := bindWorkloadQuery(c)
	if !ok {
		return
	}
	buf, filename, err := h.exportSvc.ExportCancelledCourses(c.Request.Context(), query)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	serveDownload(c, xlsxContentType, filename, buf.Bytes())
}

// ExportTeachingDates 导出某教师上课日期的 iCalendar 订阅源
// GET /api/v1/export/staff/:staffId/teaching-dates.ics?semester_id=1
func (h *ExportHandler) ExportTeachingDates(c *gin.Context) {
	staffID, ok := parseIntParam(c, "staffId")
	if !ok {
		return
	}
	query, ok := bindScheduleQuery(c)
	if !ok {
		return
	}
	query.StaffID = staffID

	buf, filename, err := h.exportSvc.TeachingDatesCalendar(c.Request.Context(), query)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	serveDownload(c, icsContentType, filename, buf.Bytes())
}
