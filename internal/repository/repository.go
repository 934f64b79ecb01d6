package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	Semester       SemesterRepository
	CalendarEvent  CalendarEventRepository
	CourseSchedule CourseScheduleRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:             db,
		Semester:       NewSemesterRepo(db),
		CalendarEvent:  NewCalendarEventRepo(db),
		CourseSchedule: NewCourseScheduleRepo(db),
	}
}

// BeginTx 开启事务
func (r *Repository) BeginTx() *gorm.DB {
	if r.db == nil {
		return nil
	}
	return r.db.Begin()
}

// WithTx 返回绑定到指定事务的 Repository 副本
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}
