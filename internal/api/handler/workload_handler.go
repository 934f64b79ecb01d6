package handler

import (
	"github.com/gin-gonic/gin"

	"teaching-plan/backend/internal/dto"
	"teaching-plan/backend/internal/service"
	"teaching-plan/backend/pkg/response"
)

// WorkloadHandler 教师工作量视图 HTTP 处理器
type WorkloadHandler struct {
	workloadSvc service.WorkloadService
}

// NewWorkloadHandler 创建 WorkloadHandler
func NewWorkloadHandler(workloadSvc service.WorkloadService) *WorkloadHandler {
	return &WorkloadHandler{workloadSvc: workloadSvc}
}

// bindWorkloadQuery 解析工作量视图的公共查询参数
func bindWorkloadQuery(c *gin.Context) (*dto.WorkloadQuery, bool) {
	semesterID, ok := parseIntQuery(c, "semester_id")
	if !ok {
		return nil, false
	}
	staffIDs, ok := parseIntListQuery(c, "staff_ids")
	if !ok {
		return nil, false
	}
	weeks, ok := parseWeeksQuery(c)
	if !ok {
		return nil, false
	}
	return &dto.WorkloadQuery{
		SemesterID:     semesterID,
		StaffIDs:       staffIDs,
		SstsTeacherIDs: parseStringListQuery(c, "ssts_teacher_ids"),
		Weeks:          weeks,
	}, true
}

// ListStaffWorkloads 多教师工作量汇总
// GET /api/v1/workloads?semester_id=1&staff_ids=2,3
func (h *WorkloadHandler) ListStaffWorkloads(c *gin.Context) {
	query, ok := bindWorkloadQuery(c)
	if !ok {
		return
	}
	workloads, err := h.workloadSvc.StaffWorkloads(c.Request.Context(), query)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, gin.H{"list": workloads})
}

// GetStaffWorkload 单教师工作量汇总
// GET /api/v1/staff/:staffId/workload?semester_id=1
func (h *WorkloadHandler) GetStaffWorkload(c *gin.Context) {
	staffID, ok := parseIntParam(c, "staffId")
	if !ok {
		return
	}
	semesterID, ok := parseIntQuery(c, "semester_id")
	if !ok {
		return
	}
	workload, err := h.workloadSvc.StaffWorkload(c.Request.Context(), semesterID, staffID, "")
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, workload)
}

// ListCancelledTables 多教师扣课课时表
// GET /api/v1/workloads/cancelled?semester_id=1&weeks=3,9
func (h *WorkloadHandler) ListCancelledTables(c *gin.Context) {
	query, ok := bindWorkloadQuery(c)
	if !ok {
		return
	}
	tables, err := h.workloadSvc.StaffsCancelledCourses(c.Request.Context(), query)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, gin.H{"list": tables})
}
