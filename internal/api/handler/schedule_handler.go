package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"teaching-plan/backend/internal/dto"
	"teaching-plan/backend/internal/service"
	"teaching-plan/backend/pkg/response"
)

const dateLayout = "2006-01-02"

// ScheduleHandler 课表查询模块 HTTP 处理器
type ScheduleHandler struct {
	scheduleSvc service.ScheduleService
	calendarSvc service.CalendarService
}

// NewScheduleHandler 创建 ScheduleHandler
func NewScheduleHandler(scheduleSvc service.ScheduleService, calendarSvc service.CalendarService) *ScheduleHandler {
	return &ScheduleHandler{scheduleSvc: scheduleSvc, calendarSvc: calendarSvc}
}

// ResolveDay 解析某个自然日的上课状态
// GET /api/v1/calendar/resolve-day?date=2025-05-02
func (h *ScheduleHandler) ResolveDay(c *gin.Context) {
	date, ok := parseDateQuery(c, "date")
	if !ok {
		return
	}
	resolution, err := h.calendarSvc.ResolveDay(c.Request.Context(), date)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, resolution)
}

// GetTeachingWeekRange 教学周范围换算为日期区间
// GET /api/v1/calendar/teaching-week-range?semester_id=1&weeks=3,9
func (h *ScheduleHandler) GetTeachingWeekRange(c *gin.Context) {
	semesterID, ok := parseIntQuery(c, "semester_id")
	if !ok {
		return
	}
	weeks, ok := parseWeeksQuery(c)
	if !ok {
		return
	}
	if weeks == nil {
		response.BadRequest(c, 10001, "weeks 不能为空")
		return
	}
	weekRange, err := h.calendarSvc.TeachingWeekRange(c.Request.Context(), semesterID, weeks)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, weekRange)
}

// GetFullSchedule 获取某教师某学期的全部排课
// GET /api/v1/staff/:staffId/schedule?semester_id=1
func (h *ScheduleHandler) GetFullSchedule(c *gin.Context) {
	staffID, ok := parseIntParam(c, "staffId")
	if !ok {
		return
	}
	semesterID, ok := parseIntQuery(c, "semester_id")
	if !ok {
		return
	}
	instances, err := h.scheduleSvc.FullScheduleByStaff(c.Request.Context(), semesterID, staffID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, gin.H{"list": instances})
}

// GetDailySchedule 获取某教师某日的实际课表
// GET /api/v1/staff/:staffId/daily-schedule?date=2025-05-02
func (h *ScheduleHandler) GetDailySchedule(c *gin.Context) {
	staffID, ok := parseIntParam(c, "staffId")
	if !ok {
		return
	}
	date, ok := parseDateQuery(c, "date")
	if !ok {
		return
	}
	instances, err := h.scheduleSvc.DailySchedule(c.Request.Context(), staffID, date)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, gin.H{"list": instances})
}

// GetTeachingDates 枚举某教师的实际上课日期
// GET /api/v1/staff/:staffId/teaching-dates?semester_id=1&weeks=3,9
func (h *ScheduleHandler) GetTeachingDates(c *gin.Context) {
	staffID, ok := parseIntParam(c, "staffId")
	if !ok {
		return
	}
	query, ok := bindScheduleQuery(c)
	if !ok {
		return
	}
	query.StaffID = staffID

	days, err := h.scheduleSvc.ActualTeachingDates(c.Request.Context(), query)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, gin.H{"list": days})
}

// ── 辅助函数 ──

// parseDateQuery 解析必填日期查询参数
func parseDateQuery(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		response.BadRequest(c, 10001, name+" 不能为空")
		return time.Time{}, false
	}
	date, err := time.Parse(dateLayout, raw)
	if err != nil {
		response.BadRequest(c, 10001, name+" 必须是 YYYY-MM-DD 格式")
		return time.Time{}, false
	}
	return date, true
}

// bindScheduleQuery 解析课表查询的公共查询参数（不含路径中的教师 ID）
func bindScheduleQuery(c *gin.Context) (*dto.ScheduleQuery, bool) {
	semesterID, ok := parseIntQuery(c, "semester_id")
	if !ok {
		return nil, false
	}
	weeks, ok := parseWeeksQuery(c)
	if !ok {
		return nil, false
	}
	return &dto.ScheduleQuery{
		SemesterID:    semesterID,
		SstsTeacherID: c.Query("ssts_teacher_id"),
		Weeks:         weeks,
	}, true
}
