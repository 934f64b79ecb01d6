package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"teaching-plan/backend/internal/dto"
	"teaching-plan/backend/internal/model"
)

func setupWorkloadService() (WorkloadService, *mockCalendarEventRepo, *mockCourseScheduleRepo) {
	repo, semesterRepo, eventRepo, scheduleRepo := newTestRepos()
	semesterRepo.semesters[1] = newTestSemester()
	newTestSchedules(scheduleRepo)
	schedule := NewScheduleService(repo, zap.NewNop())
	stats := NewTeachingStatsService(repo, schedule, nil, 0, zap.NewNop())
	return NewWorkloadService(repo, stats, zap.NewNop()), eventRepo, scheduleRepo
}

// ── StaffWorkloads 测试 ──

func TestStaffWorkloads_MergesSameClassAndCourse(t *testing.T) {
	svc, _, scheduleRepo := setupWorkloadService()
	// 同一教学班同一课程拆成的第二条记录（周三 1-2 节）
	scheduleRepo.add(&model.CourseSchedule{
		ID:                12,
		StaffID:           2,
		SstsTeacherID:     "3226",
		StaffName:         "张小明",
		TeachingClassName: "2023级数学1班",
		CourseName:        "0324057A微积分提高",
		SemesterID:        1,
		WeekCount:         17,
		Coefficient:       1.0,
		Slots: []model.CourseSlot{
			{ID: 121, CourseScheduleID: 12, DayOfWeek: 3, PeriodStart: 1, PeriodEnd: 2, WeekType: model.WeekTypeAll},
		},
	})

	workloads, err := svc.StaffWorkloads(context.Background(), &dto.WorkloadQuery{SemesterID: 1, StaffIDs: []int{2}})
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if len(workloads) != 1 {
		t.Fatalf("期望1位教师，实际=%d", len(workloads))
	}
	workload := workloads[0]
	if len(workload.Items) != 2 {
		t.Fatalf("同班同课应合并，期望2个明细行，实际=%d", len(workload.Items))
	}

	var merged *dto.WorkloadItem
	for i := range workload.Items {
		if workload.Items[i].CourseName == "微积分提高" {
			merged = &workload.Items[i]
		}
	}
	if merged == nil {
		t.Fatal("未找到合并后的微积分明细行")
	}
	if merged.WeeklyHours != 6.0 {
		t.Errorf("合并后周课时期望6.0，实际=%v", merged.WeeklyHours)
	}
	// 4节×17周 + 2节×17周 = 102
	if merged.WorkloadHours != 102.0 {
		t.Errorf("合并后工作量期望102.0，实际=%v", merged.WorkloadHours)
	}
}

func TestStaffWorkloads_TotalAndPrefixStrip(t *testing.T) {
	svc, _, _ := setupWorkloadService()

	workloads, err := svc.StaffWorkloads(context.Background(), &dto.WorkloadQuery{SemesterID: 1})
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	workload := workloads[0]

	// 微积分 4×17×1.0 + 形体 2×9×0.8 = 68 + 14.4
	if workload.TotalHours != 82.4 {
		t.Errorf("期望合计82.4，实际=%v", workload.TotalHours)
	}
	for _, item := range workload.Items {
		if item.CourseName == "0324057A微积分提高" {
			t.Error("超长课程名应剔除行政前缀")
		}
		if item.CourseName == "形体与健康" && item.WorkloadHours != 14.4 {
			t.Errorf("形体课工作量期望14.4，实际=%v", item.WorkloadHours)
		}
	}
}

func TestStaffWorkloads_NoSlotsFatal(t *testing.T) {
	svc, _, scheduleRepo := setupWorkloadService()
	scheduleRepo.add(&model.CourseSchedule{
		ID: 30, StaffID: 2, SemesterID: 1, CourseName: "残缺课程",
	})

	_, err := svc.StaffWorkloads(context.Background(), &dto.WorkloadQuery{SemesterID: 1})
	if !errors.Is(err, ErrScheduleNoSlots) {
		t.Errorf("期望 ErrScheduleNoSlots，实际: %v", err)
	}
}

func TestStaffWorkload_SingleNotFound(t *testing.T) {
	svc, _, _ := setupWorkloadService()
	_, err := svc.StaffWorkload(context.Background(), 1, 999, "")
	if !errors.Is(err, ErrScheduleNotFound) {
		t.Errorf("期望 ErrScheduleNotFound，实际: %v", err)
	}
}

// ── StaffsCancelledCourses 测试 ──

func TestStaffsCancelledCourses_Pivot(t *testing.T) {
	svc, eventRepo, _ := setupWorkloadService()
	eventRepo.Create(context.Background(), &model.CalendarEvent{
		SemesterID:         1,
		Topic:              "运动会",
		Date:               mustDate("2025-04-01"), // 周二
		EventType:          model.EventTypeSportsMeet,
		TeachingCalcEffect: model.EffectCancel,
		RecordStatus:       model.RecordStatusActive,
	})

	tables, err := svc.StaffsCancelledCourses(context.Background(), &dto.WorkloadQuery{SemesterID: 1, StaffIDs: []int{2}})
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if len(tables) != 1 {
		t.Fatalf("期望1位教师，实际=%d", len(tables))
	}
	table := tables[0]
	if len(table.Dates) != 1 || table.Dates[0] != "2025-04-01" {
		t.Errorf("日期列异常: %v", table.Dates)
	}
	if len(table.Rows) != 1 {
		t.Fatalf("同班同课应合并为1行，实际=%d", len(table.Rows))
	}
	row := table.Rows[0]
	if row.CourseName != "微积分提高" {
		t.Errorf("行课程名异常: %s", row.CourseName)
	}
	if len(row.Cells) != 1 || row.Cells[0].Hours != -4.0 {
		t.Errorf("单元格应为 -4.0，实际: %+v", row.Cells)
	}
	if table.TotalCancelledHours != -4.0 {
		t.Errorf("扣课合计应为 -4.0，实际=%v", table.TotalCancelledHours)
	}
}

func TestStaffsCancelledCourses_EmptyWhenNoEvents(t *testing.T) {
	svc, _, _ := setupWorkloadService()

	tables, err := svc.StaffsCancelledCourses(context.Background(), &dto.WorkloadQuery{SemesterID: 1, StaffIDs: []int{2}})
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if len(tables) != 1 {
		t.Fatalf("期望1位教师，实际=%d", len(tables))
	}
	if len(tables[0].Rows) != 0 || tables[0].TotalCancelledHours != 0 {
		t.Errorf("无停课事件时扣课表应为空: %+v", tables[0])
	}
}
