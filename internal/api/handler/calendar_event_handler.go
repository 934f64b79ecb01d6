package handler

import (
	"github.com/gin-gonic/gin"

	"teaching-plan/backend/internal/dto"
	"teaching-plan/backend/internal/service"
	"teaching-plan/backend/pkg/response"
)

// CalendarEventHandler 校历事件模块 HTTP 处理器
type CalendarEventHandler struct {
	eventSvc service.CalendarEventService
}

// NewCalendarEventHandler 创建 CalendarEventHandler
func NewCalendarEventHandler(eventSvc service.CalendarEventService) *CalendarEventHandler {
	return &CalendarEventHandler{eventSvc: eventSvc}
}

// ListCalendarEvents 获取某学期校历事件列表
// GET /api/v1/semesters/:id/calendar-events
func (h *CalendarEventHandler) ListCalendarEvents(c *gin.Context) {
	semesterID, ok := parseIntParam(c, "id")
	if !ok {
		return
	}
	events, err := h.eventSvc.ListBySemester(c.Request.Context(), semesterID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, gin.H{"list": events})
}

// GetCalendarEvent 获取校历事件详情
// GET /api/v1/calendar-events/:id
func (h *CalendarEventHandler) GetCalendarEvent(c *gin.Context) {
	id, ok := parseIntParam(c, "id")
	if !ok {
		return
	}
	event, err := h.eventSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, event)
}

// CreateCalendarEvent 创建校历事件
// POST /api/v1/calendar-events
func (h *CalendarEventHandler) CreateCalendarEvent(c *gin.Context) {
	var req dto.CreateCalendarEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	event, err := h.eventSvc.Create(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Created(c, event)
}

// UpdateCalendarEvent 更新校历事件（乐观锁，需携带当前 version）
// PUT /api/v1/calendar-events/:id
func (h *CalendarEventHandler) UpdateCalendarEvent(c *gin.Context) {
	id, ok := parseIntParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateCalendarEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	event, err := h.eventSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, event)
}

// DeleteCalendarEvent 删除校历事件
// DELETE /api/v1/calendar-events/:id
func (h *CalendarEventHandler) DeleteCalendarEvent(c *gin.Context) {
	id, ok := parseIntParam(c, "id")
	if !ok {
		return
	}
	if err := h.eventSvc.Delete(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, nil)
}
