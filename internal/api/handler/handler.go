package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"teaching-plan/backend/internal/service"
	apperrors "teaching-plan/backend/pkg/errors"
	"teaching-plan/backend/pkg/response"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Semester      *SemesterHandler
	CalendarEvent *CalendarEventHandler
	Schedule      *ScheduleHandler
	TeachingStats *TeachingStatsHandler
	Workload      *WorkloadHandler
	Export        *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Semester:      NewSemesterHandler(svc.Semester),
		CalendarEvent: NewCalendarEventHandler(svc.CalendarEvent),
		Schedule:      NewScheduleHandler(svc.Schedule, svc.Calendar),
		TeachingStats: NewTeachingStatsHandler(svc.TeachingStats),
		Workload:      NewWorkloadHandler(svc.Workload),
		Export:        NewExportHandler(svc.Export),
	}
}

// ── 公共参数解析 ──

// parseIntParam 解析路径中的整型 ID
func parseIntParam(c *gin.Context, name string) (int, bool) {
	raw := c.Param(name)
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		response.BadRequest(c, 10001, name+" 必须是正整数")
		return 0, false
	}
	return id, true
}

// parseIntQuery 解析可选整型查询参数，缺省返回 0
func parseIntQuery(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		response.BadRequest(c, 10001, name+" 必须是非负整数")
		return 0, false
	}
	return v, true
}

// parseWeeksQuery 解析 weeks 查询参数（"3,9" 形式的周次二元组），缺省返回 nil
func parseWeeksQuery(c *gin.Context) ([]int, bool) {
	raw := c.Query("weeks")
	if raw == "" {
		return nil, true
	}
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		response.BadRequest(c, 10001, "weeks 必须是 '起始周,结束周' 形式")
		return nil, false
	}
	weeks := make([]int, 0, 2)
	for _, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			response.BadRequest(c, 10001, "weeks 必须是 '起始周,结束周' 形式")
			return nil, false
		}
		weeks = append(weeks, v)
	}
	return weeks, true
}

// parseIntListQuery 解析逗号分隔的整型列表查询参数
func parseIntListQuery(c *gin.Context, name string) ([]int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	parts := strings.Split(raw, ",")
	values := make([]int, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || v <= 0 {
			response.BadRequest(c, 10001, name+" 必须是逗号分隔的正整数列表")
			return nil, false
		}
		values = append(values, v)
	}
	return values, true
}

// parseStringListQuery 解析逗号分隔的字符串列表查询参数
func parseStringListQuery(c *gin.Context, name string) []string {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}

// ── 公共错误映射 ──

// handleServiceError 业务错误 → HTTP 状态码
//
// 约定：
//   - 资源不存在           → 404
//   - 当前学期无法确定      → 409（需要管理端修正标记后重试）
//   - 乐观锁冲突           → 409
//   - 参数/日期区间无效     → 400
//   - 课表数据不完整        → 500（数据缺陷，带详情便于排查）
func handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSemesterNotFound):
		response.NotFound(c, 20404, service.ErrSemesterNotFound.Error())
	case errors.Is(err, service.ErrCalendarEventNotFound):
		response.NotFound(c, 21404, service.ErrCalendarEventNotFound.Error())
	case errors.Is(err, service.ErrScheduleNotFound):
		response.NotFound(c, 22404, service.ErrScheduleNotFound.Error())
	case errors.Is(err, service.ErrExportNoData):
		response.NotFound(c, 23404, service.ErrExportNoData.Error())
	case errors.Is(err, service.ErrAmbiguousSemester):
		response.Error(c, http.StatusConflict, 20409, service.ErrAmbiguousSemester.Error())
	case errors.Is(err, apperrors.ErrOptimisticLock):
		response.Error(c, http.StatusConflict, 21409, apperrors.ErrOptimisticLock.Error())
	case errors.Is(err, service.ErrInvalidWeekRange),
		errors.Is(err, service.ErrInvalidDateRange),
		errors.Is(err, service.ErrSemesterDateOrder),
		errors.Is(err, service.ErrEventDateInvalid),
		errors.Is(err, service.ErrEventOriginalDateRequired):
		response.BadRequest(c, 10001, err.Error())
	case errors.Is(err, service.ErrScheduleNoSlots),
		errors.Is(err, service.ErrSemesterDateInvalid):
		response.ErrorWithDetails(c, http.StatusInternalServerError, 50001, "基础数据不完整，无法完成计算", err.Error())
	default:
		response.InternalError(c)
	}
}
