package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"teaching-plan/backend/config"
	"teaching-plan/backend/internal/api/handler"
	"teaching-plan/backend/internal/api/middleware"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 学期模块
		semesters := v1.Group("/semesters")
		{
			semesters.GET("", h.Semester.ListSemesters)
			semesters.GET("/current", h.Semester.GetCurrentSemester)
			semesters.GET("/:id", h.Semester.GetSemester)
			semesters.POST("", h.Semester.CreateSemester)
			semesters.PUT("/:id", h.Semester.UpdateSemester)
			semesters.POST("/:id/current", h.Semester.SetCurrentSemester)
			semesters.DELETE("/:id", h.Semester.DeleteSemester)
			semesters.GET("/:id/calendar-events", h.CalendarEvent.ListCalendarEvents)
		}

		// 校历事件模块
		events := v1.Group("/calendar-events")
		{
			events.GET("/:id", h.CalendarEvent.GetCalendarEvent)
			events.POST("", h.CalendarEvent.CreateCalendarEvent)
			events.PUT("/:id", h.CalendarEvent.UpdateCalendarEvent)
			events.DELETE("/:id", h.CalendarEvent.DeleteCalendarEvent)
		}

		// 校历解析模块
		calendar := v1.Group("/calendar")
		{
			calendar.GET("/resolve-day", h.Schedule.ResolveDay)
			calendar.GET("/teaching-week-range", h.Schedule.GetTeachingWeekRange)
		}

		// 教师课表与课时统计模块
		staff := v1.Group("/staff/:staffId")
		{
			staff.GET("/schedule", h.Schedule.GetFullSchedule)
			staff.GET("/daily-schedule", h.Schedule.GetDailySchedule)
			staff.GET("/teaching-dates", h.Schedule.GetTeachingDates)
			staff.GET("/cancelled-courses", h.TeachingStats.GetCancelledCourses)
			staff.GET("/teaching-hours", h.TeachingStats.GetTeachingHours)
			staff.GET("/hours-in-range", h.TeachingStats.GetHoursInRange)
			staff.GET("/workload", h.Workload.GetStaffWorkload)
		}

		// 批量课时统计
		v1.POST("/teaching-hours/batch", h.TeachingStats.BatchTeachingHours)

		// 工作量视图模块
		workloads := v1.Group("/workloads")
		{
			workloads.GET("", h.Workload.ListStaffWorkloads)
			workloads.GET("/cancelled", h.Workload.ListCancelledTables)
		}

		// 导出模块
		export := v1.Group("/export")
		{
			export.GET("/workloads", h.Export.ExportWorkloads)
			export.GET("/cancelled-courses", h.Export.ExportCancelledCourses)
			export.GET("/staff/:staffId/teaching-dates.ics", h.Export.ExportTeachingDates)
		}
	}

	return r
}
