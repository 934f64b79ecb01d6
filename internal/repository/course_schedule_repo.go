package repository

import (
	"context"

	"gorm.io/gorm"

	"teaching-plan/backend/internal/model"
)

// TeacherRef 课程表中出现的教师标识投影（按三元组去重）
type TeacherRef struct {
	StaffID       int    `json:"staff_id"`
	SstsTeacherID string `json:"ssts_teacher_id"`
	StaffName     string `json:"staff_name"`
}

// CourseScheduleRepository 课程表数据访问接口
//
// staffID 与 sstsTeacherID 为同一教师的两套标识，staffID 非零时优先。
type CourseScheduleRepository interface {
	GetByID(ctx context.Context, id int, includeSlots bool) (*model.CourseSchedule, error)
	// ListByStaff 查询某教师在某学期的全部课程表
	ListByStaff(ctx context.Context, semesterID, staffID int, sstsTeacherID string, includeSlots bool) ([]model.CourseSchedule, error)
	// ListBySemester 查询某学期课程表，可按教师集合过滤（两个集合均空则不过滤）
	ListBySemester(ctx context.Context, semesterID int, staffIDs []int, sstsTeacherIDs []string, includeSlots bool) ([]model.CourseSchedule, error)
	// ListTeachers 列出某学期课程表中的教师（去重），可按教师集合过滤
	ListTeachers(ctx context.Context, semesterID int, staffIDs []int, sstsTeacherIDs []string) ([]TeacherRef, error)
}

type courseScheduleRepo struct {
	db *gorm.DB
}

// NewCourseScheduleRepo 创建 CourseScheduleRepository 实例
func NewCourseScheduleRepo(db *gorm.DB) CourseScheduleRepository {
	return &courseScheduleRepo{db: db}
}

func (r *courseScheduleRepo) GetByID(ctx context.Context, id int, includeSlots bool) (*model.CourseSchedule, error) {
	var schedule model.CourseSchedule
	query := r.db.WithContext(ctx)
	if includeSlots {
		query = query.Preload("Slots")
	}
	if err := query.Where("id = ?", id).First(&schedule).Error; err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (r *courseScheduleRepo) ListByStaff(ctx context.Context, semesterID, staffID int, sstsTeacherID string, includeSlots bool) ([]model.CourseSchedule, error) {
	var schedules []model.CourseSchedule
	query := r.db.WithContext(ctx).Where("semester_id = ?", semesterID)
	if staffID != 0 {
		query = query.Where("staff_id = ?", staffID)
	} else {
		query = query.Where("ssts_teacher_id = ?", sstsTeacherID)
	}
	if includeSlots {
		query = query.Preload("Slots")
	}
	err := query.Order("id ASC").Find(&schedules).Error
	return schedules, err
}

func (r *courseScheduleRepo) ListBySemester(ctx context.Context, semesterID int, staffIDs []int, sstsTeacherIDs []string, includeSlots bool) ([]model.CourseSchedule, error) {
	var schedules []model.CourseSchedule
	query := r.db.WithContext(ctx).Where("semester_id = ?", semesterID)
	if len(staffIDs) > 0 {
		query = query.Where("staff_id IN ?", staffIDs)
	} else if len(sstsTeacherIDs) > 0 {
		query = query.Where("ssts_teacher_id IN ?", sstsTeacherIDs)
	}
	if includeSlots {
		query = query.Preload("Slots")
	}
	err := query.Order("staff_id ASC, id ASC").Find(&schedules).Error
	return schedules, err
}

func (r *courseScheduleRepo) ListTeachers(ctx context.Context, semesterID int, staffIDs []int, sstsTeacherIDs []string) ([]TeacherRef, error) {
	var teachers []TeacherRef
	query := r.db.WithContext(ctx).
		Model(&model.CourseSchedule{}).
		Select("staff_id", "ssts_teacher_id", "staff_name").
		Where("semester_id = ?", semesterID)
	if len(staffIDs) > 0 {
		query = query.Where("staff_id IN ?", staffIDs)
	} else if len(sstsTeacherIDs) > 0 {
		query = query.Where("ssts_teacher_id IN ?", sstsTeacherIDs)
	}
	err := query.
		Group("staff_id, ssts_teacher_id, staff_name").
		Order("staff_id ASC").
		Find(&teachers).Error
	return teachers, err
}
