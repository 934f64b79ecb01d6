package service

import (
	"context"
	"errors"
	"math"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"teaching-plan/backend/internal/dto"
	"teaching-plan/backend/internal/model"
	"teaching-plan/backend/internal/repository"
)

// ── 校历解析模块业务错误 ──

var (
	ErrSemesterNotFound    = errors.New("学期不存在")
	ErrAmbiguousSemester   = errors.New("无法确定当前学期：不存在或存在多个标记为当前的学期")
	ErrInvalidWeekRange    = errors.New("周次范围必须是升序二元组 [起始周, 结束周]")
	ErrSemesterDateInvalid = errors.New("学期日期配置无效：考试周起始日期必须晚于第一教学日")
)

const dateLayout = "2006-01-02"

// ── 日期工具（包内共享） ──

// dateOnly 截断到日，统一用 UTC 零点比较
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// isoWeekday 返回 ISO 星期：周一=1 … 周日=7
func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// daysBetween 两个日期相差的整天数（b - a）
func daysBetween(a, b time.Time) int {
	return int(dateOnly(b).Sub(dateOnly(a)).Hours() / 24)
}

// teachingWeekNumber 计算 date 位于第几教学周（第一教学日所在周为第 1 周）。
// date 早于 firstTeachingDate 时返回 0。
func teachingWeekNumber(firstTeachingDate, date time.Time) int {
	diff := daysBetween(firstTeachingDate, date)
	if diff < 0 {
		return 0
	}
	return diff/7 + 1
}

// slotActiveInWeek 判断单双周模式在指定教学周是否生效（第 1 周为单周）
func slotActiveInWeek(weekType string, weekNumber int) bool {
	switch weekType {
	case model.WeekTypeOdd:
		return weekNumber%2 == 1
	case model.WeekTypeEven:
		return weekNumber%2 == 0
	default:
		return true
	}
}

// round1 四舍五入保留 1 位小数
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// ── 上课日解析 ──

// ClassDayResolution 某个自然日的解析结果
//
// DayOfWeek 为当日实际生效的星期模板（1-7）：
// 正常日为自然星期，调休/补课日为被重放日期的星期；停课日为 0。
type ClassDayResolution struct {
	IsClassDay bool `json:"is_class_day"`
	DayOfWeek  int  `json:"day_of_week"`
}

// ResolveClassDay 按当日校历事件解析上课状态
//
// 规则（按事件对课时计算的影响分类，与事件类型无关）：
//  1. SWAP / MAKEUP：当日按 originalDate 的星期模板上课，优先级最高，
//     即使同日还有 CANCEL 事件也照常上课
//  2. CANCEL：当日不上课
//  3. 其余情况按自然星期上课
//
// 同日多个重放事件取第一个；originalDate 缺失的重放事件视为数据缺陷，跳过。
func ResolveClassDay(date time.Time, events []model.CalendarEvent) ClassDayResolution {
	var replay *model.CalendarEvent
	cancelled := false

	for i := range events {
		e := &events[i]
		if !sameDate(e.Date, date) {
			continue
		}
		switch e.TeachingCalcEffect {
		case model.EffectSwap, model.EffectMakeup:
			if replay == nil && e.OriginalDate != nil {
				replay = e
			}
		case model.EffectCancel:
			cancelled = true
		}
	}

	if replay != nil {
		return ClassDayResolution{IsClassDay: true, DayOfWeek: isoWeekday(*replay.OriginalDate)}
	}
	if cancelled {
		return ClassDayResolution{IsClassDay: false, DayOfWeek: 0}
	}
	return ClassDayResolution{IsClassDay: true, DayOfWeek: isoWeekday(date)}
}

// ── 教学周范围换算 ──

// teachingWeekDateRange 将教学周二元组换算为日期区间
//
// 学期有效教学区间为 [firstTeachingDate, examStartDate - 1 天]，
// 总教学周 = floor(天数差 / 7) + 1。请求的结束周超出总教学周时收缩，
// 区间末端同样收缩到最后一个教学日。
func teachingWeekDateRange(semester *model.Semester, weeks []int) (start, end time.Time, totalWeeks int, err error) {
	if len(weeks) != 2 || weeks[0] < 1 || weeks[1] < weeks[0] {
		return time.Time{}, time.Time{}, 0, ErrInvalidWeekRange
	}

	first := dateOnly(semester.FirstTeachingDate)
	lastTeachingDay := dateOnly(semester.ExamStartDate).AddDate(0, 0, -1)
	if lastTeachingDay.Before(first) {
		return time.Time{}, time.Time{}, 0, ErrSemesterDateInvalid
	}

	totalWeeks = daysBetween(first, lastTeachingDay)/7 + 1

	endWeek := weeks[1]
	if endWeek > totalWeeks {
		endWeek = totalWeeks
	}
	if weeks[0] > totalWeeks {
		return time.Time{}, time.Time{}, 0, ErrInvalidWeekRange
	}

	start = first.AddDate(0, 0, (weeks[0]-1)*7)
	end = first.AddDate(0, 0, endWeek*7-1)
	if end.After(lastTeachingDay) {
		end = lastTeachingDay
	}
	return start, end, totalWeeks, nil
}

// ── CalendarService ──

// CalendarService 校历解析业务接口
type CalendarService interface {
	// ResolveDay 解析某个自然日是否上课、按哪个星期模板上课
	ResolveDay(ctx context.Context, date time.Time) (*ClassDayResolution, error)
	// TeachingWeekRange 将教学周范围换算为日期区间
	TeachingWeekRange(ctx context.Context, semesterID int, weeks []int) (*dto.TeachingWeekRange, error)
}

type calendarService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCalendarService 创建 CalendarService 实例
func NewCalendarService(repo *repository.Repository, logger *zap.Logger) CalendarService {
	return &calendarService{repo: repo, logger: logger}
}

func (s *calendarService) ResolveDay(ctx context.Context, date time.Time) (*ClassDayResolution, error) {
	events, err := s.repo.CalendarEvent.ListActiveByDate(ctx, dateOnly(date))
	if err != nil {
		s.logger.Error("查询校历事件失败", zap.String("date", date.Format(dateLayout)), zap.Error(err))
		return nil, err
	}
	res := ResolveClassDay(date, events)
	return &res, nil
}

func (s *calendarService) TeachingWeekRange(ctx context.Context, semesterID int, weeks []int) (*dto.TeachingWeekRange, error) {
	semester, err := resolveSemester(ctx, s.repo, s.logger, semesterID)
	if err != nil {
		return nil, err
	}
	start, end, totalWeeks, err := teachingWeekDateRange(semester, weeks)
	if err != nil {
		return nil, err
	}
	if weeks[1] > totalWeeks {
		s.logger.Warn("请求的结束周超出学期总教学周，已收缩",
			zap.Int("semester_id", semester.ID),
			zap.Int("requested_end_week", weeks[1]),
			zap.Int("total_teaching_weeks", totalWeeks))
	}
	return &dto.TeachingWeekRange{
		StartDate:          start.Format(dateLayout),
		EndDate:            end.Format(dateLayout),
		TotalTeachingWeeks: totalWeeks,
	}, nil
}

// resolveSemester 定位学期：semesterID 非零时精确查找，
// 否则取标记为当前的学期；不存在或存在多个时返回 ErrAmbiguousSemester
func resolveSemester(ctx context.Context, repo *repository.Repository, logger *zap.Logger, semesterID int) (*model.Semester, error) {
	if semesterID != 0 {
		semester, err := repo.Semester.GetByID(ctx, semesterID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrSemesterNotFound
			}
			logger.Error("查询学期失败", zap.Int("semester_id", semesterID), zap.Error(err))
			return nil, err
		}
		return semester, nil
	}

	semesters, err := repo.Semester.ListCurrent(ctx)
	if err != nil {
		logger.Error("查询当前学期失败", zap.Error(err))
		return nil, err
	}
	if len(semesters) != 1 {
		logger.Warn("当前学期标记异常", zap.Int("count", len(semesters)))
		return nil, ErrAmbiguousSemester
	}
	return &semesters[0], nil
}
