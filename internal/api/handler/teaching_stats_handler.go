package handler

import (
	"github.com/gin-gonic/gin"

	"teaching-plan/backend/internal/dto"
	"teaching-plan/backend/internal/service"
	"teaching-plan/backend/pkg/response"
)

// TeachingStatsHandler 课时统计模块 HTTP 处理器
type TeachingStatsHandler struct {
	statsSvc service.TeachingStatsService
}

// NewTeachingStatsHandler 创建 TeachingStatsHandler
func NewTeachingStatsHandler(statsSvc service.TeachingStatsService) *TeachingStatsHandler {
	return &TeachingStatsHandler{statsSvc: statsSvc}
}

// GetCancelledCourses 获取某教师的停课明细
// GET /api/v1/staff/:staffId/cancelled-courses?semester_id=1&weeks=3,9
func (h *TeachingStatsHandler) GetCancelledCourses(c *gin.Context) {
	staffID, ok := parseIntParam(c, "staffId")
	if !ok {
		return
	}
	query, ok := bindScheduleQuery(c)
	if !ok {
		return
	}
	query.StaffID = staffID

	days, err := h.statsSvc.CancelledCourses(c.Request.Context(), query)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, gin.H{"list": days})
}

// GetTeachingHours 获取某教师的加权课时合计
// GET /api/v1/staff/:staffId/teaching-hours?semester_id=1&weeks=3,9
func (h *TeachingStatsHandler) GetTeachingHours(c *gin.Context) {
	staffID, ok := parseIntParam(c, "staffId")
	if !ok {
		return
	}
	query, ok := bindScheduleQuery(c)
	if !ok {
		return
	}
	query.StaffID = staffID

	hours, err := h.statsSvc.TeachingHours(c.Request.Context(), query)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, gin.H{"total_hours": hours})
}

// BatchTeachingHours 批量统计教师加权课时
// POST /api/v1/teaching-hours/batch
func (h *TeachingStatsHandler) BatchTeachingHours(c *gin.Context) {
	var req dto.BatchHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	results, err := h.statsSvc.BatchTeachingHours(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, gin.H{"list": results})
}

// GetHoursInRange 统计某教师任意日期区间内的原始节次数
// GET /api/v1/staff/:staffId/hours-in-range?start=2025-03-01&end=2025-03-31
func (h *TeachingStatsHandler) GetHoursInRange(c *gin.Context) {
	staffID, ok := parseIntParam(c, "staffId")
	if !ok {
		return
	}
	start, ok := parseDateQuery(c, "start")
	if !ok {
		return
	}
	end, ok := parseDateQuery(c, "end")
	if !ok {
		return
	}
	hours, err := h.statsSvc.StaffHoursInRange(c.Request.Context(), staffID, start, end)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, gin.H{"total_hours": hours})
}
