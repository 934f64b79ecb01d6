package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"go.uber.org/zap"

	"teaching-plan/backend/internal/dto"
	"teaching-plan/backend/internal/model"
	"teaching-plan/backend/internal/repository"
	pkgredis "teaching-plan/backend/pkg/redis"
)

// ── 课时统计模块业务错误 ──

var ErrInvalidDateRange = errors.New("日期区间无效：结束日期早于起始日期")

// TeachingStatsService 课时统计业务接口
type TeachingStatsService interface {
	// CancelledCourses 枚举某教师被停课的日期及损失课时
	CancelledCourses(ctx context.Context, q *dto.ScheduleQuery) ([]dto.CancelledDay, error)
	// TeachingHours 统计某教师的加权课时合计
	TeachingHours(ctx context.Context, q *dto.ScheduleQuery) (float64, error)
	// BatchTeachingHours 批量统计多个教师的加权课时（教师集合为空时统计全体）
	BatchTeachingHours(ctx context.Context, req *dto.BatchHoursRequest) ([]dto.TeacherHours, error)
	// StaffHoursInRange 统计某教师在任意日期区间内的原始节次数（不加权）
	StaffHoursInRange(ctx context.Context, staffID int, start, end time.Time) (float64, error)
}

type teachingStatsService struct {
	repo     *repository.Repository
	schedule ScheduleService
	cache    *pkgredis.Client
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewTeachingStatsService 创建 TeachingStatsService 实例
//
// cache 可为 nil（未配置 Redis 时统计直接落库计算）。
func NewTeachingStatsService(repo *repository.Repository, schedule ScheduleService, cache *pkgredis.Client, cacheTTL time.Duration, logger *zap.Logger) TeachingStatsService {
	return &teachingStatsService{
		repo:     repo,
		schedule: schedule,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// ═══════════════════════════════════════════════════════════
// CancelledCourses — 停课明细
// ═══════════════════════════════════════════════════════════
//
// 以影响为 CANCEL 的生效事件为驱动，逐个停课日按自然星期展开该教师
// 当天本应上的课，损失课时 = 节数 × 系数。
//
// 补课说明规则：停课日若被影响为 MAKEUP 的事件指向（originalDate），
// 说明课程已调至他日补回：
//   - 全学期视图：整日剔除（课时已在实际上课日期中计入，再列损失即重复）
//   - 按周过滤的局部视图：保留该日并附说明，课程列表置空——配对的补课日
//     可能落在视图之外，剔除会让局部报表看起来凭空少了一天
//
// 配对关系必须基于全学期事件建立：补课日往往落在请求的周次窗口之外，
// 窗口只收窄停课日的选取范围。

func (s *teachingStatsService) CancelledCourses(ctx context.Context, q *dto.ScheduleQuery) ([]dto.CancelledDay, error) {
	semester, err := resolveSemester(ctx, s.repo, s.logger, q.SemesterID)
	if err != nil {
		return nil, err
	}

	var window *dateWindow
	if len(q.Weeks) > 0 {
		start, end, totalWeeks, rangeErr := teachingWeekDateRange(semester, q.Weeks)
		if rangeErr != nil {
			return nil, rangeErr
		}
		if q.Weeks[1] > totalWeeks {
			s.logger.Warn("请求的结束周超出学期总教学周，已收缩",
				zap.Int("semester_id", semester.ID),
				zap.Int("requested_end_week", q.Weeks[1]),
				zap.Int("total_teaching_weeks", totalWeeks))
		}
		window = &dateWindow{start: start, end: end}
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

	return listCancelledDays(semester, events, schedules, window)
}

// dateWindow 按周过滤换算出的日期窗口（含边界）
type dateWindow struct {
	start, end time.Time
}

func (w *dateWindow) contains(d time.Time) bool {
	day := dateOnly(d)
	return !day.Before(w.start) && !day.After(w.end)
}

// listCancelledDays 停课明细核心逻辑（纯函数，便于测试与批量复用）
//
// events 必须是全学期的生效事件；window 非 nil 时只选取窗口内的停课日，
// 并按局部视图规则输出补课说明。
func listCancelledDays(semester *model.Semester, events []model.CalendarEvent, schedules []model.CourseSchedule, window *dateWindow) ([]dto.CancelledDay, error) {
	instances, err := flattenSchedules(schedules)
	if err != nil {
		return nil, err
	}

	// 被补课事件指向的停课日 → 补课日期
	madeUp := make(map[string]string)
	for _, e := range events {
		if e.TeachingCalcEffect == model.EffectMakeup && e.OriginalDate != nil {
			madeUp[e.OriginalDate.Format(dateLayout)] = e.Date.Format(dateLayout)
		}
	}

	first := dateOnly(semester.FirstTeachingDate)
	seen := make(map[string]bool)

	var days []dto.CancelledDay
	for _, e := range events {
		if e.TeachingCalcEffect != model.EffectCancel {
			continue
		}
		if window != nil && !window.contains(e.Date) {
			continue
		}
		key := e.Date.Format(dateLayout)
		if seen[key] {
			continue
		}
		seen[key] = true

		// 同日存在调休/补课事件时当天照常上课，不算停课
		resolution := ResolveClassDay(e.Date, events)
		if resolution.IsClassDay {
			continue
		}

		weekday := isoWeekday(e.Date)
		weekNumber := teachingWeekNumber(first, e.Date)

		if makeupDate, ok := madeUp[key]; ok {
			if window == nil {
				continue
			}
			days = append(days, dto.CancelledDay{
				Date:       key,
				WeekOfDay:  weekday,
				WeekNumber: weekNumber,
				Courses:    []dto.CancelledSlot{},
				Note:       fmt.Sprintf("该日课程已调至 %s 补课，相关课时计入实际上课日期", makeupDate),
			})
			continue
		}

		var courses []dto.CancelledSlot
		for _, inst := range instances {
			if inst.DayOfWeek != weekday {
				continue
			}
			if !slotActiveInWeek(inst.WeekType, weekNumber) {
				continue
			}
			span := inst.PeriodEnd - inst.PeriodStart + 1
			courses = append(courses, dto.CancelledSlot{
				TeachingSlot: dto.TeachingSlot{
					ScheduleID:        inst.ScheduleID,
					CourseName:        inst.CourseName,
					TeachingClassName: inst.TeachingClassName,

					SlotID:      inst.SlotID,
					PeriodStart: inst.PeriodStart,
					PeriodEnd:   inst.PeriodEnd,
					WeekType:    inst.WeekType,
					Coefficient: inst.Coefficient,
				},
				CancelledHours: round1(float64(span) * inst.Coefficient),
			})
		}
		if len(courses) == 0 {
			continue
		}
		days = append(days, dto.CancelledDay{
			Date:       key,
			WeekOfDay:  weekday,
			WeekNumber: weekNumber,
			Courses:    courses,
		})
	}
	return days, nil
}

// ═══════════════════════════════════════════════════════════
// TeachingHours — 单教师加权课时
// ═══════════════════════════════════════════════════════════

func (s *teachingStatsService) TeachingHours(ctx context.Context, q *dto.ScheduleQuery) (float64, error) {
	days, err := s.schedule.ActualTeachingDates(ctx, q)
	if err != nil {
		return 0, err
	}
	return sumWeightedHours(days), nil
}

// sumWeightedHours 合计实际上课日的加权课时：Σ 节数 × 系数
func sumWeightedHours(days []dto.TeachingDay) float64 {
	var total float64
	for _, day := range days {
		for _, course := range day.Courses {
			span := course.PeriodEnd - course.PeriodStart + 1
			total += float64(span) * course.Coefficient
		}
	}
	return round1(total)
}

// ═══════════════════════════════════════════════════════════
// BatchTeachingHours — 批量加权课时
// ═══════════════════════════════════════════════════════════
//
// 校历事件与教师名单各查一次，逐教师只查课表；
// 结果按 (学期, 过滤条件) 签名缓存，TTL 由配置控制。

func (s *teachingStatsService) BatchTeachingHours(ctx context.Context, req *dto.BatchHoursRequest) ([]dto.TeacherHours, error) {
	semester, err := resolveSemester(ctx, s.repo, s.logger, req.SemesterID)
	if err != nil {
		return nil, err
	}

	signature := batchSignature(req)
	if cached, ok := s.cachedBatch(ctx, semester.ID, signature); ok {
		return cached, nil
	}

	events, err := s.repo.CalendarEvent.ListActiveBySemester(ctx, semester.ID)
	if err != nil {
		s.logger.Error("查询校历事件失败", zap.Int("semester_id", semester.ID), zap.Error(err))
		return nil, err
	}

	teachers, err := s.repo.CourseSchedule.ListTeachers(ctx, semester.ID, req.StaffIDs, req.SstsTeacherIDs)
	if err != nil {
		s.logger.Error("查询教师名单失败", zap.Int("semester_id", semester.ID), zap.Error(err))
		return nil, err
	}

	results := make([]dto.TeacherHours, 0, len(teachers))
	for _, teacher := range teachers {
		schedules, listErr := s.repo.CourseSchedule.ListByStaff(ctx, semester.ID, teacher.StaffID, teacher.SstsTeacherID, true)
		if listErr != nil {
			s.logger.Error("查询课程表失败",
				zap.Int("semester_id", semester.ID), zap.Int("staff_id", teacher.StaffID), zap.Error(listErr))
			return nil, listErr
		}
		days, daysErr := listTeachingDays(s.logger, semester, events, schedules, req.Weeks)
		if daysErr != nil {
			return nil, daysErr
		}
		results = append(results, dto.TeacherHours{
			StaffID:       teacher.StaffID,
			SstsTeacherID: teacher.SstsTeacherID,
			StaffName:     teacher.StaffName,
			TotalHours:    sumWeightedHours(days),
		})
	}

	s.storeBatch(ctx, semester.ID, signature, results)
	return results, nil
}

// batchSignature 批量统计请求的缓存签名
func batchSignature(req *dto.BatchHoursRequest) string {
	raw, _ := json.Marshal(req)
	h := fnv.New64a()
	h.Write(raw)
	return fmt.Sprintf("%x", h.Sum64())
}

func (s *teachingStatsService) cachedBatch(ctx context.Context, semesterID int, signature string) ([]dto.TeacherHours, bool) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return nil, false
	}
	payload, hit, err := s.cache.GetReport(ctx, "hours", semesterID, signature)
	if err != nil {
		// 缓存故障不阻断统计
		s.logger.Warn("读取课时统计缓存失败", zap.Error(err))
		return nil, false
	}
	if !hit {
		return nil, false
	}
	var results []dto.TeacherHours
	if err := json.Unmarshal(payload, &results); err != nil {
		s.logger.Warn("课时统计缓存内容损坏，已忽略", zap.Error(err))
		return nil, false
	}
	return results, true
}

func (s *teachingStatsService) storeBatch(ctx context.Context, semesterID int, signature string, results []dto.TeacherHours) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	payload, err := json.Marshal(results)
	if err != nil {
		return
	}
	if err := s.cache.SetReport(ctx, "hours", semesterID, signature, payload, s.cacheTTL); err != nil {
		s.logger.Warn("写入课时统计缓存失败", zap.Error(err))
	}
}

// ═══════════════════════════════════════════════════════════
// StaffHoursInRange — 任意日期区间的原始节次数
// ═══════════════════════════════════════════════════════════
//
// 区间可跨学期，逐日走 DailySchedule（每日自行定位学期），
// 只数节次不乘系数。

func (s *teachingStatsService) StaffHoursInRange(ctx context.Context, staffID int, start, end time.Time) (float64, error) {
	startDay := dateOnly(start)
	endDay := dateOnly(end)
	if endDay.Before(startDay) {
		return 0, ErrInvalidDateRange
	}

	var total float64
	for d := startDay; !d.After(endDay); d = d.AddDate(0, 0, 1) {
		instances, err := s.schedule.DailySchedule(ctx, staffID, d)
		if err != nil {
			return 0, err
		}
		for _, inst := range instances {
			total += float64(inst.PeriodEnd - inst.PeriodStart + 1)
		}
	}
	return round1(total), nil
}
