package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"teaching-plan/backend/internal/dto"
	"teaching-plan/backend/internal/service"
	apperrors "teaching-plan/backend/pkg/errors"
	"teaching-plan/backend/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock SemesterService ──

type mockSemesterService struct {
	semester *dto.SemesterResponse
	list     []dto.SemesterResponse
	err      error
}

func (m *mockSemesterService) Create(_ context.Context, _ *dto.CreateSemesterRequest) (*dto.SemesterResponse, error) {
	return m.semester, m.err
}
func (m *mockSemesterService) GetByID(_ context.Context, _ int) (*dto.SemesterResponse, error) {
	return m.semester, m.err
}
func (m *mockSemesterService) GetCurrent(_ context.Context) (*dto.SemesterResponse, error) {
	return m.semester, m.err
}
func (m *mockSemesterService) List(_ context.Context) ([]dto.SemesterResponse, error) {
	return m.list, m.err
}
func (m *mockSemesterService) Update(_ context.Context, _ int, _ *dto.UpdateSemesterRequest) (*dto.SemesterResponse, error) {
	return m.semester, m.err
}
func (m *mockSemesterService) SetCurrent(_ context.Context, _ int) error { return m.err }
func (m *mockSemesterService) Delete(_ context.Context, _ int) error     { return m.err }

// ── Mock CalendarEventService ──

type mockCalendarEventService struct {
	event *dto.CalendarEventResponse
	list  []dto.CalendarEventResponse
	err   error
}

func (m *mockCalendarEventService) Create(_ context.Context, _ *dto.CreateCalendarEventRequest) (*dto.CalendarEventResponse, error) {
	return m.event, m.err
}
func (m *mockCalendarEventService) GetByID(_ context.Context, _ int) (*dto.CalendarEventResponse, error) {
	return m.event, m.err
}
func (m *mockCalendarEventService) ListBySemester(_ context.Context, _ int) ([]dto.CalendarEventResponse, error) {
	return m.list, m.err
}
func (m *mockCalendarEventService) Update(_ context.Context, _ int, _ *dto.UpdateCalendarEventRequest) (*dto.CalendarEventResponse, error) {
	return m.event, m.err
}
func (m *mockCalendarEventService) Delete(_ context.Context, _ int) error { return m.err }

// ── Mock CalendarService ──

type mockCalendarService struct {
	resolution *service.ClassDayResolution
	weekRange  *dto.TeachingWeekRange
	err        error
}

func (m *mockCalendarService) ResolveDay(_ context.Context, _ time.Time) (*service.ClassDayResolution, error) {
	return m.resolution, m.err
}
func (m *mockCalendarService) TeachingWeekRange(_ context.Context, _ int, _ []int) (*dto.TeachingWeekRange, error) {
	return m.weekRange, m.err
}

// ── Mock ScheduleService ──

type mockScheduleService struct {
	instances []dto.CourseInstance
	days      []dto.TeachingDay
	lastQuery *dto.ScheduleQuery
	err       error
}

func (m *mockScheduleService) FullScheduleByStaff(_ context.Context, _, _ int) ([]dto.CourseInstance, error) {
	return m.instances, m.err
}
func (m *mockScheduleService) DailySchedule(_ context.Context, _ int, _ time.Time) ([]dto.CourseInstance, error) {
	return m.instances, m.err
}
func (m *mockScheduleService) ActualTeachingDates(_ context.Context, q *dto.ScheduleQuery) ([]dto.TeachingDay, error) {
	m.lastQuery = q
	return m.days, m.err
}

// ── Mock TeachingStatsService ──

type mockTeachingStatsService struct {
	cancelled []dto.CancelledDay
	hours     float64
	batch     []dto.TeacherHours
	err       error
}

func (m *mockTeachingStatsService) CancelledCourses(_ context.Context, _ *dto.ScheduleQuery) ([]dto.CancelledDay, error) {
	return m.cancelled, m.err
}
func (m *mockTeachingStatsService) TeachingHours(_ context.Context, _ *dto.ScheduleQuery) (float64, error) {
	return m.hours, m.err
}
func (m *mockTeachingStatsService) BatchTeachingHours(_ context.Context, _ *dto.BatchHoursRequest) ([]dto.TeacherHours, error) {
	return m.batch, m.err
}
func (m *mockTeachingStatsService) StaffHoursInRange(_ context.Context, _ int, _, _ time.Time) (float64, error) {
	return m.hours, m.err
}

// ── Mock WorkloadService ──

type mockWorkloadService struct {
	workloads []dto.StaffWorkload
	workload  *dto.StaffWorkload
	tables    []dto.StaffCancelledTable
	err       error
}

func (m *mockWorkloadService) StaffWorkloads(_ context.Context, _ *dto.WorkloadQuery) ([]dto.StaffWorkload, error) {
	return m.workloads, m.err
}
func (m *mockWorkloadService) StaffWorkload(_ context.Context, _, _ int, _ string) (*dto.StaffWorkload, error) {
	return m.workload, m.err
}
func (m *mockWorkloadService) StaffsCancelledCourses(_ context.Context, _ *dto.WorkloadQuery) ([]dto.StaffCancelledTable, error) {
	return m.tables, m.err
}

// ── Mock ExportService ──

type mockExportService struct {
	payload  *bytes.Buffer
	filename string
	err      error
}

func (m *mockExportService) ExportWorkloads(_ context.Context, _ *dto.WorkloadQuery) (*bytes.Buffer, string, error) {
	return m.payload, m.filename, m.err
}
func (m *mockExportService) ExportCancelledCourses(_ context.Context, _ *dto.WorkloadQuery) (*bytes.Buffer, string, error) {
	return m.payload, m.filename, m.err
}
func (m *mockExportService) TeachingDatesCalendar(_ context.Context, _ *dto.ScheduleQuery) (*bytes.Buffer, string, error) {
	return m.payload, m.filename, m.err
}

// ═══════════════════════════════════════════════════════════
// 测试辅助
// ═══════════════════════════════════════════════════════════

type testServices struct {
	semester *mockSemesterService
	event    *mockCalendarEventService
	calendar *mockCalendarService
	schedule *mockScheduleService
	stats    *mockTeachingStatsService
	workload *mockWorkloadService
	export   *mockExportService
}

func newTestRouter() (*gin.Engine, *testServices) {
	mocks := &testServices{
		semester: &mockSemesterService{},
		event:    &mockCalendarEventService{},
		calendar: &mockCalendarService{},
		schedule: &mockScheduleService{},
		stats:    &mockTeachingStatsService{},
		workload: &mockWorkloadService{},
		export:   &mockExportService{},
	}
	svc := &service.Service{
		Semester:      mocks.semester,
		CalendarEvent: mocks.event,
		Calendar:      mocks.calendar,
		Schedule:      mocks.schedule,
		TeachingStats: mocks.stats,
		Workload:      mocks.workload,
		Export:        mocks.export,
	}
	h := NewHandler(svc)

	r := gin.New()
	r.GET("/staff/:staffId/teaching-dates", h.Schedule.GetTeachingDates)
	r.GET("/staff/:staffId/teaching-hours", h.TeachingStats.GetTeachingHours)
	r.GET("/staff/:staffId/workload", h.Workload.GetStaffWorkload)
	r.POST("/teaching-hours/batch", h.TeachingStats.BatchTeachingHours)
	r.GET("/semesters/current", h.Semester.GetCurrentSemester)
	r.GET("/semesters/:id", h.Semester.GetSemester)
	r.PUT("/calendar-events/:id", h.CalendarEvent.UpdateCalendarEvent)
	r.GET("/export/workloads", h.Export.ExportWorkloads)
	return r, mocks
}

func doRequest(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewBuffer(raw)
	} else {
		reader = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("响应解析失败: %v", err)
	}
	return resp
}

// ═══════════════════════════════════════════════════════════
// 路由测试
// ═══════════════════════════════════════════════════════════

func TestGetTeachingDates_ParsesWeeks(t *testing.T) {
	r, mocks := newTestRouter()
	mocks.schedule.days = []dto.TeachingDay{{Date: "2025-04-29", WeekOfDay: 2, WeekNumber: 11}}

	w := doRequest(r, http.MethodGet, "/staff/2/teaching-dates?semester_id=1&weeks=3,9", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("期望200，实际=%d", w.Code)
	}
	if mocks.schedule.lastQuery == nil {
		t.Fatal("未调用 ActualTeachingDates")
	}
	if mocks.schedule.lastQuery.StaffID != 2 {
		t.Errorf("路径教师 ID 应注入查询，实际=%d", mocks.schedule.lastQuery.StaffID)
	}
	if len(mocks.schedule.lastQuery.Weeks) != 2 || mocks.schedule.lastQuery.Weeks[0] != 3 {
		t.Errorf("weeks 解析异常: %v", mocks.schedule.lastQuery.Weeks)
	}
}

func TestGetTeachingDates_BadWeeks(t *testing.T) {
	r, _ := newTestRouter()
	w := doRequest(r, http.MethodGet, "/staff/2/teaching-dates?weeks=3", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("单值 weeks 应返回400，实际=%d", w.Code)
	}
}

func TestGetTeachingDates_BadStaffID(t *testing.T) {
	r, _ := newTestRouter()
	w := doRequest(r, http.MethodGet, "/staff/abc/teaching-dates", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("非数字教师 ID 应返回400，实际=%d", w.Code)
	}
}

func TestGetTeachingHours_OK(t *testing.T) {
	r, mocks := newTestRouter()
	mocks.stats.hours = 82.4

	w := doRequest(r, http.MethodGet, "/staff/2/teaching-hours?semester_id=1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("期望200，实际=%d", w.Code)
	}
	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]interface{})
	if data["total_hours"].(float64) != 82.4 {
		t.Errorf("期望82.4，实际=%v", data["total_hours"])
	}
}

func TestGetCurrentSemester_Ambiguous(t *testing.T) {
	r, mocks := newTestRouter()
	mocks.semester.err = service.ErrAmbiguousSemester

	w := doRequest(r, http.MethodGet, "/semesters/current", nil)
	if w.Code != http.StatusConflict {
		t.Errorf("当前学期不明确应返回409，实际=%d", w.Code)
	}
}

func TestGetSemester_NotFound(t *testing.T) {
	r, mocks := newTestRouter()
	mocks.semester.err = service.ErrSemesterNotFound

	w := doRequest(r, http.MethodGet, "/semesters/42", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("学期不存在应返回404，实际=%d", w.Code)
	}
}

func TestGetStaffWorkload_NoSlotsIs500(t *testing.T) {
	r, mocks := newTestRouter()
	mocks.workload.err = service.ErrScheduleNoSlots

	w := doRequest(r, http.MethodGet, "/staff/2/workload?semester_id=1", nil)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("数据不完整应返回500，实际=%d", w.Code)
	}
	resp := decodeResponse(t, w)
	if resp.Details == "" {
		t.Error("数据缺陷响应应附带详情")
	}
}

func TestUpdateCalendarEvent_VersionConflict(t *testing.T) {
	r, mocks := newTestRouter()
	mocks.event.err = apperrors.ErrOptimisticLock

	body := map[string]interface{}{"topic": "改期", "version": 2}
	w := doRequest(r, http.MethodPut, "/calendar-events/1", body)
	if w.Code != http.StatusConflict {
		t.Errorf("乐观锁冲突应返回409，实际=%d", w.Code)
	}
}

func TestUpdateCalendarEvent_MissingVersion(t *testing.T) {
	r, _ := newTestRouter()
	body := map[string]interface{}{"topic": "改期"}
	w := doRequest(r, http.MethodPut, "/calendar-events/1", body)
	if w.Code != http.StatusBadRequest {
		t.Errorf("缺少 version 应返回400，实际=%d", w.Code)
	}
}

func TestBatchTeachingHours_BadBody(t *testing.T) {
	r, _ := newTestRouter()
	w := doRequest(r, http.MethodPost, "/teaching-hours/batch", map[string]interface{}{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("缺少 semester_id 应返回400，实际=%d", w.Code)
	}
}

func TestExportWorkloads_SetsDownloadHeaders(t *testing.T) {
	r, mocks := newTestRouter()
	mocks.export.payload = bytes.NewBufferString("fake-xlsx")
	mocks.export.filename = "教师工作量.xlsx"

	w := doRequest(r, http.MethodGet, "/export/workloads?semester_id=1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("期望200，实际=%d", w.Code)
	}
	cd := w.Header().Get("Content-Disposition")
	if cd == "" {
		t.Error("expected Content-Disposition header")
	}
}
