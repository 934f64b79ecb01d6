package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"teaching-plan/backend/internal/dto"
)

func setupExportService() (ExportService, *mockCalendarEventRepo) {
	repo, semesterRepo, eventRepo, scheduleRepo := newTestRepos()
	semesterRepo.semesters[1] = newTestSemester()
	newTestSchedules(scheduleRepo)
	logger := zap.NewNop()
	schedule := NewScheduleService(repo, logger)
	stats := NewTeachingStatsService(repo, schedule, nil, 0, logger)
	workload := NewWorkloadService(repo, stats, logger)
	return NewExportService(workload, schedule, logger), eventRepo
}

func TestExportWorkloads_GeneratesExcel(t *testing.T) {
	svc, _ := setupExportService()

	buf, filename, err := svc.ExportWorkloads(context.Background(), &dto.WorkloadQuery{SemesterID: 1})
	if err != nil {
		t.Fatalf("导出失败: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("导出内容不应为空")
	}
	if !strings.HasSuffix(filename, ".xlsx") {
		t.Errorf("文件名应为 xlsx，实际=%s", filename)
	}
}

func TestExportWorkloads_NoData(t *testing.T) {
	svc, _ := setupExportService()

	_, _, err := svc.ExportWorkloads(context.Background(), &dto.WorkloadQuery{SemesterID: 1, StaffIDs: []int{999}})
	if !errors.Is(err, ErrExportNoData) {
		t.Errorf("期望 ErrExportNoData，实际: %v", err)
	}
}

func TestExportCancelledCourses_NoDataWithoutEvents(t *testing.T) {
	svc, _ := setupExportService()

	// 无停课事件时所有教师的扣课表均为空，没有可生成的 Sheet
	_, _, err := svc.ExportCancelledCourses(context.Background(), &dto.WorkloadQuery{SemesterID: 1})
	if !errors.Is(err, ErrExportNoData) {
		t.Errorf("期望 ErrExportNoData，实际: %v", err)
	}
}

func TestTeachingDatesCalendar_ContainsEvents(t *testing.T) {
	svc, _ := setupExportService()

	buf, filename, err := svc.TeachingDatesCalendar(context.Background(), &dto.ScheduleQuery{
		SemesterID: 1,
		StaffID:    2,
		Weeks:      []int{3, 3},
	})
	if err != nil {
		t.Fatalf("导出失败: %v", err)
	}
	if !strings.HasSuffix(filename, ".ics") {
		t.Errorf("文件名应为 ics，实际=%s", filename)
	}

	content := buf.String()
	if !strings.Contains(content, "BEGIN:VCALENDAR") {
		t.Error("缺少 VCALENDAR 头")
	}
	// 第3周：周二2节课 + 单周周五1节课
	if got := strings.Count(content, "BEGIN:VEVENT"); got != 3 {
		t.Errorf("期望3个 VEVENT，实际=%d", got)
	}
	if !strings.Contains(content, "微积分提高") {
		t.Error("事件摘要应包含课程名")
	}
}
