package service

import (
	"context"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"teaching-plan/backend/internal/dto"
	"teaching-plan/backend/internal/repository"
)

// courseNamePrefixLen 课程全名的行政前缀长度（如 "0324057A[数学]" 前的编号段）。
// 超过该长度的课程名剔除前缀后展示，过短的视为已是简名。
const courseNamePrefixLen = 8

// WorkloadService 教师工作量视图业务接口
type WorkloadService interface {
	// StaffWorkloads 多教师工作量汇总（按教学班+课程合并明细行）
	StaffWorkloads(ctx context.Context, q *dto.WorkloadQuery) ([]dto.StaffWorkload, error)
	// StaffWorkload 单教师工作量汇总
	StaffWorkload(ctx context.Context, semesterID, staffID int, sstsTeacherID string) (*dto.StaffWorkload, error)
	// StaffsCancelledCourses 多教师扣课课时表（日期为列的透视视图，课时为负数）
	StaffsCancelledCourses(ctx context.Context, q *dto.WorkloadQuery) ([]dto.StaffCancelledTable, error)
}

type workloadService struct {
	repo   *repository.Repository
	stats  TeachingStatsService
	logger *zap.Logger
}

// NewWorkloadService 创建 WorkloadService 实例
func NewWorkloadService(repo *repository.Repository, stats TeachingStatsService, logger *zap.Logger) WorkloadService {
	return &workloadService{repo: repo, stats: stats, logger: logger}
}

// displayCourseName 课程展示名：超长时剔除行政前缀
func displayCourseName(name string) string {
	runes := []rune(name)
	if len(runes) > courseNamePrefixLen {
		return string(runes[courseNamePrefixLen:])
	}
	return name
}

// ═══════════════════════════════════════════════════════════
// StaffWorkloads — 工作量汇总
// ═══════════════════════════════════════════════════════════
//
// 明细行合并规则：同一教师下，教学班 + 课程全名相同的多个课程表记录
// 合并为一行，周课时相加；工作量 = 周课时 × 周数 × 系数 的累计。
// 明细行按课程全名以中文拼音序排列。

func (s *workloadService) StaffWorkloads(ctx context.Context, q *dto.WorkloadQuery) ([]dto.StaffWorkload, error) {
	semester, err := resolveSemester(ctx, s.repo, s.logger, q.SemesterID)
	if err != nil {
		return nil, err
	}

	schedules, err := s.repo.CourseSchedule.ListBySemester(ctx, semester.ID, q.StaffIDs, q.SstsTeacherIDs, true)
	if err != nil {
		s.logger.Error("查询课程表失败", zap.Int("semester_id", semester.ID), zap.Error(err))
		return nil, err
	}

	type itemAccum struct {
		fullName          string
		teachingClassName string
		weeklyHours       float64
		weekCount         int
		coefficient       float64
		workloadHours     float64
	}
	type staffAccum struct {
		staffID       int
		sstsTeacherID string
		staffName     string
		itemOrder     []string
		items         map[string]*itemAccum
	}

	var staffOrder []int
	staffMap := make(map[int]*staffAccum)

	for i := range schedules {
		sch := &schedules[i]
		if len(sch.Slots) == 0 {
			s.logger.Error("课程表缺少节次明细", zap.Int("schedule_id", sch.ID))
			return nil, ErrScheduleNoSlots
		}

		acc, ok := staffMap[sch.StaffID]
		if !ok {
			acc = &staffAccum{
				staffID:       sch.StaffID,
				sstsTeacherID: sch.SstsTeacherID,
				staffName:     sch.StaffName,
				items:         make(map[string]*itemAccum),
			}
			staffMap[sch.StaffID] = acc
			staffOrder = append(staffOrder, sch.StaffID)
		}

		var weeklySpan int
		for j := range sch.Slots {
			weeklySpan += sch.Slots[j].PeriodSpan()
		}

		key := sch.TeachingClassName + "\x00" + sch.CourseName
		item, ok := acc.items[key]
		if !ok {
			item = &itemAccum{
				fullName:          sch.CourseName,
				teachingClassName: sch.TeachingClassName,
				weekCount:         sch.WeekCount,
				coefficient:       sch.Coefficient,
			}
			acc.items[key] = item
			acc.itemOrder = append(acc.itemOrder, key)
		}
		item.weeklyHours += float64(weeklySpan)
		item.workloadHours += float64(weeklySpan) * float64(sch.WeekCount) * sch.Coefficient
	}

	collator := collate.New(language.Chinese)

	results := make([]dto.StaffWorkload, 0, len(staffOrder))
	for _, staffID := range staffOrder {
		acc := staffMap[staffID]

		sort.Slice(acc.itemOrder, func(i, j int) bool {
			return collator.CompareString(acc.items[acc.itemOrder[i]].fullName, acc.items[acc.itemOrder[j]].fullName) < 0
		})

		var total float64
		items := make([]dto.WorkloadItem, 0, len(acc.itemOrder))
		for _, key := range acc.itemOrder {
			item := acc.items[key]
			total += item.workloadHours
			items = append(items, dto.WorkloadItem{
				CourseName:        displayCourseName(item.fullName),
				TeachingClassName: item.teachingClassName,
				WeeklyHours:       round1(item.weeklyHours),
				WeekCount:         item.weekCount,
				Coefficient:       item.coefficient,
				WorkloadHours:     round1(item.workloadHours),
			})
		}

		results = append(results, dto.StaffWorkload{
			StaffID:       acc.staffID,
			SstsTeacherID: acc.sstsTeacherID,
			StaffName:     acc.staffName,
			Items:         items,
			TotalHours:    round1(total),
		})
	}
	return results, nil
}

func (s *workloadService) StaffWorkload(ctx context.Context, semesterID, staffID int, sstsTeacherID string) (*dto.StaffWorkload, error) {
	q := &dto.WorkloadQuery{SemesterID: semesterID}
	if staffID != 0 {
		q.StaffIDs = []int{staffID}
	} else {
		q.SstsTeacherIDs = []string{sstsTeacherID}
	}

	workloads, err := s.StaffWorkloads(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(workloads) == 0 {
		return nil, ErrScheduleNotFound
	}
	return &workloads[0], nil
}

// ═══════════════════════════════════════════════════════════
// StaffsCancelledCourses — 扣课课时表
// ═══════════════════════════════════════════════════════════
//
// 停课明细的透视视图：行 = 教学班 + 课程，列 = 停课日期，
// 单元格与合计均取负数，便于与工作量表直接相加。

func (s *workloadService) StaffsCancelledCourses(ctx context.Context, q *dto.WorkloadQuery) ([]dto.StaffCancelledTable, error) {
	semester, err := resolveSemester(ctx, s.repo, s.logger, q.SemesterID)
	if err != nil {
		return nil, err
	}

	teachers, err := s.repo.CourseSchedule.ListTeachers(ctx, semester.ID, q.StaffIDs, q.SstsTeacherIDs)
	if err != nil {
		s.logger.Error("查询教师名单失败", zap.Int("semester_id", semester.ID), zap.Error(err))
		return nil, err
	}

	results := make([]dto.StaffCancelledTable, 0, len(teachers))
	for _, teacher := range teachers {
		cancelledDays, daysErr := s.stats.CancelledCourses(ctx, &dto.ScheduleQuery{
			SemesterID:    semester.ID,
			StaffID:       teacher.StaffID,
			SstsTeacherID: teacher.SstsTeacherID,
			Weeks:         q.Weeks,
		})
		if daysErr != nil {
			return nil, daysErr
		}
		results = append(results, pivotCancelledDays(teacher, cancelledDays))
	}
	return results, nil
}

// pivotCancelledDays 将停课明细按 (教学班+课程) × 日期 透视
func pivotCancelledDays(teacher repository.TeacherRef, days []dto.CancelledDay) dto.StaffCancelledTable {
	type rowAccum struct {
		fullName          string
		teachingClassName string
		byDate            map[string]float64
		total             float64
	}

	var dates []string
	dateSeen := make(map[string]bool)
	var rowOrder []string
	rows := make(map[string]*rowAccum)
	var grandTotal float64

	for _, day := range days {
		if len(day.Courses) == 0 {
			continue
		}
		if !dateSeen[day.Date] {
			dateSeen[day.Date] = true
			dates = append(dates, day.Date)
		}
		for _, course := range day.Courses {
			key := course.TeachingClassName + "\x00" + course.CourseName
			row, ok := rows[key]
			if !ok {
				row = &rowAccum{
					fullName:          course.CourseName,
					teachingClassName: course.TeachingClassName,
					byDate:            make(map[string]float64),
				}
				rows[key] = row
				rowOrder = append(rowOrder, key)
			}
			row.byDate[day.Date] -= course.CancelledHours
			row.total -= course.CancelledHours
			grandTotal -= course.CancelledHours
		}
	}
	sort.Strings(dates)

	tableRows := make([]dto.CancelledRow, 0, len(rowOrder))
	for _, key := range rowOrder {
		row := rows[key]
		cells := make([]dto.CancelledCell, 0, len(dates))
		for _, date := range dates {
			if hours, ok := row.byDate[date]; ok {
				cells = append(cells, dto.CancelledCell{Date: date, Hours: round1(hours)})
			}
		}
		tableRows = append(tableRows, dto.CancelledRow{
			CourseName:        displayCourseName(row.fullName),
			TeachingClassName: row.teachingClassName,
			Cells:             cells,
			TotalHours:        round1(row.total),
		})
	}

	return dto.StaffCancelledTable{
		StaffID:             teacher.StaffID,
		SstsTeacherID:       teacher.SstsTeacherID,
		StaffName:           teacher.StaffName,
		Dates:               dates,
		Rows:                tableRows,
		CancelledDates:      days,
		TotalCancelledHours: round1(grandTotal),
	}
}
