package service

import (
	"context"
	"sort"
	"time"

	"gorm.io/gorm"

	"teaching-plan/backend/internal/model"
	"teaching-plan/backend/internal/repository"
	apperrors "teaching-plan/backend/pkg/errors"
)

// ── Mock SemesterRepository ──

type mockSemesterRepo struct {
	semesters map[int]*model.Semester
	nextID    int
}

func newMockSemesterRepo() *mockSemesterRepo {
	return &mockSemesterRepo{semesters: make(map[int]*model.Semester), nextID: 1}
}

func (m *mockSemesterRepo) Create(_ context.Context, semester *model.Semester) error {
	if semester.ID == 0 {
		semester.ID = m.nextID
		m.nextID++
	}
	m.semesters[semester.ID] = semester
	return nil
}

func (m *mockSemesterRepo) GetByID(_ context.Context, id int) (*model.Semester, error) {
	if s, ok := m.semesters[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSemesterRepo) ListCurrent(_ context.Context) ([]model.Semester, error) {
	var result []model.Semester
	for _, s := range m.semesters {
		if s.IsCurrent {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockSemesterRepo) FindByTeachingDate(_ context.Context, date, teachingEnd time.Time) (*model.Semester, error) {
	for _, s := range m.semesters {
		if !s.FirstTeachingDate.After(date) && s.ExamStartDate.After(teachingEnd) {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSemesterRepo) List(_ context.Context) ([]model.Semester, error) {
	var result []model.Semester
	for _, s := range m.semesters {
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartDate.After(result[j].StartDate) })
	return result, nil
}

func (m *mockSemesterRepo) Update(_ context.Context, semester *model.Semester) error {
	m.semesters[semester.ID] = semester
	return nil
}

func (m *mockSemesterRepo) Delete(_ context.Context, id int) error {
	delete(m.semesters, id)
	return nil
}

func (m *mockSemesterRepo) ClearCurrent(_ context.Context) error {
	for _, s := range m.semesters {
		s.IsCurrent = false
	}
	return nil
}

// ── Mock CalendarEventRepository ──

type mockCalendarEventRepo struct {
	events map[int]*model.CalendarEvent
	nextID int
}

func newMockCalendarEventRepo() *mockCalendarEventRepo {
	return &mockCalendarEventRepo{events: make(map[int]*model.CalendarEvent), nextID: 1}
}

func (m *mockCalendarEventRepo) Create(_ context.Context, event *model.CalendarEvent) error {
	if event.ID == 0 {
		event.ID = m.nextID
		m.nextID++
	}
	m.events[event.ID] = event
	return nil
}

func (m *mockCalendarEventRepo) GetByID(_ context.Context, id int) (*model.CalendarEvent, error) {
	if e, ok := m.events[id]; ok {
		copied := *e
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func isActiveStatus(status string) bool {
	return status == model.RecordStatusActive || status == model.RecordStatusActiveTentative
}

func (m *mockCalendarEventRepo) ListActiveBySemester(_ context.Context, semesterID int) ([]model.CalendarEvent, error) {
	var result []model.CalendarEvent
	for _, e := range m.events {
		if e.SemesterID == semesterID && isActiveStatus(e.RecordStatus) {
			result = append(result, *e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

func (m *mockCalendarEventRepo) ListActiveByDate(_ context.Context, date time.Time) ([]model.CalendarEvent, error) {
	var result []model.CalendarEvent
	for _, e := range m.events {
		if sameDate(e.Date, date) && isActiveStatus(e.RecordStatus) {
			result = append(result, *e)
		}
	}
	return result, nil
}

func (m *mockCalendarEventRepo) ListBySemester(_ context.Context, semesterID int) ([]model.CalendarEvent, error) {
	var result []model.CalendarEvent
	for _, e := range m.events {
		if e.SemesterID == semesterID {
			result = append(result, *e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

func (m *mockCalendarEventRepo) UpdateWithVersion(_ context.Context, event *model.CalendarEvent, expectedVersion int) error {
	stored, ok := m.events[event.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if stored.Version != expectedVersion {
		return apperrors.ErrOptimisticLock
	}
	copied := *event
	copied.Version = expectedVersion + 1
	m.events[event.ID] = &copied
	event.Version = copied.Version
	return nil
}

func (m *mockCalendarEventRepo) Delete(_ context.Context, id int) error {
	delete(m.events, id)
	return nil
}

// ── Mock CourseScheduleRepository ──

type mockCourseScheduleRepo struct {
	schedules map[int]*model.CourseSchedule
	nextID    int
}

func newMockCourseScheduleRepo() *mockCourseScheduleRepo {
	return &mockCourseScheduleRepo{schedules: make(map[int]*model.CourseSchedule), nextID: 1}
}

func (m *mockCourseScheduleRepo) add(schedule *model.CourseSchedule) {
	if schedule.ID == 0 {
		schedule.ID = m.nextID
		m.nextID++
	}
	m.schedules[schedule.ID] = schedule
}

func (m *mockCourseScheduleRepo) GetByID(_ context.Context, id int, _ bool) (*model.CourseSchedule, error) {
	if s, ok := m.schedules[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseScheduleRepo) ListByStaff(_ context.Context, semesterID, staffID int, sstsTeacherID string, _ bool) ([]model.CourseSchedule, error) {
	var result []model.CourseSchedule
	for _, s := range m.schedules {
		if s.SemesterID != semesterID {
			continue
		}
		if staffID != 0 {
			if s.StaffID != staffID {
				continue
			}
		} else if s.SstsTeacherID != sstsTeacherID {
			continue
		}
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockCourseScheduleRepo) ListBySemester(_ context.Context, semesterID int, staffIDs []int, sstsTeacherIDs []string, _ bool) ([]model.CourseSchedule, error) {
	staffSet := make(map[int]bool, len(staffIDs))
	for _, id := range staffIDs {
		staffSet[id] = true
	}
	sstsSet := make(map[string]bool, len(sstsTeacherIDs))
	for _, id := range sstsTeacherIDs {
		sstsSet[id] = true
	}

	var result []model.CourseSchedule
	for _, s := range m.schedules {
		if s.SemesterID != semesterID {
			continue
		}
		if len(staffSet) > 0 {
			if !staffSet[s.StaffID] {
				continue
			}
		} else if len(sstsSet) > 0 && !sstsSet[s.SstsTeacherID] {
			continue
		}
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].StaffID != result[j].StaffID {
			return result[i].StaffID < result[j].StaffID
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (m *mockCourseScheduleRepo) ListTeachers(ctx context.Context, semesterID int, staffIDs []int, sstsTeacherIDs []string) ([]repository.TeacherRef, error) {
	schedules, err := m.ListBySemester(ctx, semesterID, staffIDs, sstsTeacherIDs, false)
	if err != nil {
		return nil, err
	}
	seen := make(map[int]bool)
	var result []repository.TeacherRef
	for _, s := range schedules {
		if seen[s.StaffID] {
			continue
		}
		seen[s.StaffID] = true
		result = append(result, repository.TeacherRef{
			StaffID:       s.StaffID,
			SstsTeacherID: s.SstsTeacherID,
			StaffName:     s.StaffName,
		})
	}
	return result, nil
}

// ── 测试数据工厂 ──

// mustDate 测试用日期解析
func mustDate(s string) time.Time {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

// newTestSemester 2024-2025 学年第二学期：
// 第一教学日 2025-02-17（周一），考试周始于 2025-06-16，共 17 个教学周
func newTestSemester() *model.Semester {
	return &model.Semester{
		ID:                1,
		SchoolYear:        2024,
		TermNumber:        2,
		Name:              "2024-2025学年第二学期",
		StartDate:         mustDate("2025-02-10"),
		FirstTeachingDate: mustDate("2025-02-17"),
		ExamStartDate:     mustDate("2025-06-16"),
		EndDate:           mustDate("2025-07-06"),
		IsCurrent:         true,
	}
}

func newTestRepos() (*repository.Repository, *mockSemesterRepo, *mockCalendarEventRepo, *mockCourseScheduleRepo) {
	semesterRepo := newMockSemesterRepo()
	eventRepo := newMockCalendarEventRepo()
	scheduleRepo := newMockCourseScheduleRepo()
	repo := &repository.Repository{
		Semester:       semesterRepo,
		CalendarEvent:  eventRepo,
		CourseSchedule: scheduleRepo,
	}
	return repo, semesterRepo, eventRepo, scheduleRepo
}
