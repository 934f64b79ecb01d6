package service

import (
	"time"

	"go.uber.org/zap"

	"teaching-plan/backend/config"
	"teaching-plan/backend/internal/repository"
	pkgredis "teaching-plan/backend/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Semester      SemesterService
	CalendarEvent CalendarEventService
	Calendar      CalendarService
	Schedule      ScheduleService
	TeachingStats TeachingStatsService
	Workload      WorkloadService
	Export        ExportService
}

// NewService 创建 Service 聚合
//
// cache 可为 nil（未配置 Redis 时统计不走缓存）。
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	cache *pkgredis.Client,
	logger *zap.Logger,
) *Service {
	cacheTTL := time.Duration(cfg.Redis.ReportCacheTTL) * time.Second

	schedule := NewScheduleService(repo, logger)
	stats := NewTeachingStatsService(repo, schedule, cache, cacheTTL, logger)
	workload := NewWorkloadService(repo, stats, logger)

	return &Service{
		Semester:      NewSemesterService(repo, logger),
		CalendarEvent: NewCalendarEventService(repo, cache, logger),
		Calendar:      NewCalendarService(repo, logger),
		Schedule:      schedule,
		TeachingStats: stats,
		Workload:      workload,
		Export:        NewExportService(workload, schedule, logger),
	}
}
