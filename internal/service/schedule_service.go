package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"teaching-plan/backend/internal/dto"
	"teaching-plan/backend/internal/model"
	"teaching-plan/backend/internal/repository"
)

// ── 课表模块业务错误 ──

var (
	ErrScheduleNotFound = errors.New("课程表不存在")
	// ErrScheduleNoSlots 课程表主记录没有任何节次明细。
	// 这是数据完整性缺陷：带病计算会低报课时，必须中止而非静默跳过。
	ErrScheduleNoSlots = errors.New("课程表缺少节次明细，数据不完整")
)

// dailyScheduleOffsetDays 按日期定位学期时的偏移量：
// 要求 examStartDate > date + 2 天，避免把考试周前夕误判为教学日。
const dailyScheduleOffsetDays = 2

// ScheduleService 课表查询业务接口
type ScheduleService interface {
	// FullScheduleByStaff 查询某教师在某学期的全部排课（扁平展开，不按日期过滤）
	FullScheduleByStaff(ctx context.Context, semesterID, staffID int) ([]dto.CourseInstance, error)
	// DailySchedule 查询某教师在某个自然日的实际课表（已考虑调休、停课）
	DailySchedule(ctx context.Context, staffID int, date time.Time) ([]dto.CourseInstance, error)
	// ActualTeachingDates 枚举某教师的全部实际上课日期及每日课程
	ActualTeachingDates(ctx context.Context, q *dto.ScheduleQuery) ([]dto.TeachingDay, error)
}

type scheduleService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewScheduleService 创建 ScheduleService 实例
func NewScheduleService(repo *repository.Repository, logger *zap.Logger) ScheduleService {
	return &scheduleService{repo: repo, logger: logger}
}

// ────────────────────── 扁平展开 ──────────────────────

// flattenSchedules 将课程表主记录 × 节次明细展开为扁平视图。
// 任何一条主记录缺少节次明细即返回 ErrScheduleNoSlots。
func flattenSchedules(schedules []model.CourseSchedule) ([]dto.CourseInstance, error) {
	var instances []dto.CourseInstance
	for i := range schedules {
		sch := &schedules[i]
		if len(sch.Slots) == 0 {
			return nil, fmt.Errorf("%w: schedule_id=%d", ErrScheduleNoSlots, sch.ID)
		}
		for j := range sch.Slots {
			slot := &sch.Slots[j]
			instances = append(instances, dto.CourseInstance{
				ScheduleID:        sch.ID,
				CourseName:        sch.CourseName,
				StaffID:           sch.StaffID,
				SstsTeacherID:     sch.SstsTeacherID,
				StaffName:         sch.StaffName,
				TeachingClassName: sch.TeachingClassName,
				ClassroomName:     sch.ClassroomName,
				SemesterID:        sch.SemesterID,
				CourseCategory:    sch.CourseCategory,
				Credits:           sch.Credits,
				WeekCount:         sch.WeekCount,
				WeeklyHours:       sch.WeeklyHours,
				Coefficient:       sch.Coefficient,
				WeekNumberString:  sch.WeekNumberString,
				SlotID:            slot.ID,
				DayOfWeek:         slot.DayOfWeek,
				PeriodStart:       slot.PeriodStart,
				PeriodEnd:         slot.PeriodEnd,
				WeekType:          slot.WeekType,
			})
		}
	}
	return instances, nil
}

// eventsByDate 将事件列表按日期（YYYY-MM-DD）索引
func eventsByDate(events []model.CalendarEvent) map[string][]model.CalendarEvent {
	index := make(map[string][]model.CalendarEvent, len(events))
	for _, e := range events {
		key := e.Date.Format(dateLayout)
		index[key] = append(index[key], e)
	}
	return index
}

// ────────────────────── FullScheduleByStaff ──────────────────────

func (s *scheduleService) FullScheduleByStaff(ctx context.Context, semesterID, staffID int) ([]dto.CourseInstance, error) {
	semester, err := resolveSemester(ctx, s.repo, s.logger, semesterID)
	if err != nil {
		return nil, err
	}

	schedules, err := s.repo.CourseSchedule.ListByStaff(ctx, semester.ID, staffID, "", true)
	if err != nil {
		s.logger.Error("查询课程表失败",
			zap.Int("semester_id", semester.ID), zap.Int("staff_id", staffID), zap.Error(err))
		return nil, err
	}
	return flattenSchedules(schedules)
}

// ────────────────────── DailySchedule ──────────────────────
//
// 流程：
//  1. 按当日校历事件解析上课状态，停课日直接返回空
//  2. 按日期定位学期（firstTeachingDate ≤ date 且 examStartDate > date + 偏移），
//     不在任何学期教学区间内返回空
//  3. 展开该教师课表，按实际生效星期 + 单双周过滤

func (s *scheduleService) DailySchedule(ctx context.Context, staffID int, date time.Time) ([]dto.CourseInstance, error) {
	day := dateOnly(date)

	events, err := s.repo.CalendarEvent.ListActiveByDate(ctx, day)
	if err != nil {
		s.logger.Error("查询校历事件失败", zap.String("date", day.Format(dateLayout)), zap.Error(err))
		return nil, err
	}
	resolution := ResolveClassDay(day, events)
	if !resolution.IsClassDay {
		return []dto.CourseInstance{}, nil
	}

	teachingEnd := day.AddDate(0, 0, dailyScheduleOffsetDays)
	semester, err := s.repo.Semester.FindByTeachingDate(ctx, day, teachingEnd)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []dto.CourseInstance{}, nil
		}
		s.logger.Error("按日期定位学期失败", zap.String("date", day.Format(dateLayout)), zap.Error(err))
		return nil, err
	}

	schedules, err := s.repo.CourseSchedule.ListByStaff(ctx, semester.ID, staffID, "", true)
	if err != nil {
		s.logger.Error("查询课程表失败",
			zap.Int("semester_id", semester.ID), zap.Int("staff_id", staffID), zap.Error(err))
		return nil, err
	}
	instances, err := flattenSchedules(schedules)
	if err != nil {
		return nil, err
	}

	weekNumber := teachingWeekNumber(semester.FirstTeachingDate, day)
	result := make([]dto.CourseInstance, 0, len(instances))
	for _, inst := range instances {
		if inst.DayOfWeek != resolution.DayOfWeek {
			continue
		}
		if !slotActiveInWeek(inst.WeekType, weekNumber) {
			continue
		}
		result = append(result, inst)
	}
	return result, nil
}

// ────────────────────── ActualTeachingDates ──────────────────────

func (s *scheduleService) ActualTeachingDates(ctx context.Context, q *dto.ScheduleQuery) ([]dto.TeachingDay, error) {
	semester, err := resolveSemester(ctx, s.repo, s.logger, q.SemesterID)
	if err != nil {
		return nil, err
	}

	events, err := s.repo.CalendarEvent.ListActiveBySemester(ctx, semester.ID)
	if err != nil {
		s.logger.Error("查询校历事件失败", zap.Int("semester_id", semester.ID), zap.Error(err))
		return nil, err
	}

	schedules, err := s.repo.CourseSchedule.ListByStaff(ctx, semester.ID, q.StaffID, q.SstsTeacherID, true)
	if err != nil {
		s.logger.Error("查询课程表失败",
			zap.Int("semester_id", semester.ID), zap.Int("staff_id", q.StaffID), zap.Error(err))
		return nil, err
	}

	return listTeachingDays(s.logger, semester, events, schedules, q.Weeks)
}

// listTeachingDays 枚举区间内全部实际上课日
//
// 课表查询与课时统计共用的核心循环：逐日解析上课状态，
// 按实际生效星期 + 单双周（按该日自身所在教学周判定）过滤排课。
func listTeachingDays(logger *zap.Logger, semester *model.Semester, events []model.CalendarEvent, schedules []model.CourseSchedule, weeks []int) ([]dto.TeachingDay, error) {
	instances, err := flattenSchedules(schedules)
	if err != nil {
		return nil, err
	}

	var start, end time.Time
	if len(weeks) > 0 {
		var totalWeeks int
		start, end, totalWeeks, err = teachingWeekDateRange(semester, weeks)
		if err != nil {
			return nil, err
		}
		if weeks[1] > totalWeeks {
			logger.Warn("请求的结束周超出学期总教学周，已收缩",
				zap.Int("semester_id", semester.ID),
				zap.Int("requested_end_week", weeks[1]),
				zap.Int("total_teaching_weeks", totalWeeks))
		}
	} else {
		start = dateOnly(semester.FirstTeachingDate)
		end = dateOnly(semester.ExamStartDate).AddDate(0, 0, -1)
		if end.Before(start) {
			return nil, ErrSemesterDateInvalid
		}
	}

	index := eventsByDate(events)
	first := dateOnly(semester.FirstTeachingDate)

	var days []dto.TeachingDay
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		resolution := ResolveClassDay(d, index[d.Format(dateLayout)])
		if !resolution.IsClassDay {
			continue
		}
		weekNumber := teachingWeekNumber(first, d)

		var courses []dto.TeachingSlot
		for _, inst := range instances {
			if inst.DayOfWeek != resolution.DayOfWeek {
				continue
			}
			if !slotActiveInWeek(inst.WeekType, weekNumber) {
				continue
			}
			courses = append(courses, dto.TeachingSlot{
				ScheduleID:        inst.ScheduleID,
				CourseName:        inst.CourseName,
				TeachingClassName: inst.TeachingClassName,

				SlotID:      inst.SlotID,
				PeriodStart: inst.PeriodStart,
				PeriodEnd:   inst.PeriodEnd,
				WeekType:    inst.WeekType,
				Coefficient: inst.Coefficient,
			})
		}
		if len(courses) == 0 {
			continue
		}
		days = append(days, dto.TeachingDay{
			Date:       d.Format(dateLayout),
			WeekOfDay:  resolution.DayOfWeek,
			WeekNumber: weekNumber,
			Courses:    courses,
		})
	}
	return days, nil
}
