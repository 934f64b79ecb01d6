package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"teaching-plan/backend/internal/model"
)

// SemesterRepository 学期数据访问接口
type SemesterRepository interface {
	Create(ctx context.Context, semester *model.Semester) error
	GetByID(ctx context.Context, id int) (*model.Semester, error)
	// ListCurrent 返回所有标记为当前学期的记录（正常情况下最多一条，
	// 调用方据此识别"无当前学期"与"多个当前学期"两种异常）
	ListCurrent(ctx context.Context) ([]model.Semester, error)
	// FindByTeachingDate 查找教学期覆盖指定日期的学期：
	// firstTeachingDate ≤ date 且 examStartDate > teachingEnd
	FindByTeachingDate(ctx context.Context, date, teachingEnd time.Time) (*model.Semester, error)
	List(ctx context.Context) ([]model.Semester, error)
	Update(ctx context.Context, semester *model.Semester) error
	Delete(ctx context.Context, id int) error
	ClearCurrent(ctx context.Context) error
}

type semesterRepo struct {
	db *gorm.DB
}

// NewSemesterRepo 创建 SemesterRepository 实例
func NewSemesterRepo(db *gorm.DB) SemesterRepository {
	return &semesterRepo{db: db}
}

func (r *semesterRepo) Create(ctx context.Context, semester *model.Semester) error {
	return r.db.WithContext(ctx).Create(semester).Error
}

func (r *semesterRepo) GetByID(ctx context.Context, id int) (*model.Semester, error) {
	var semester model.Semester
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&semester).Error
	if err != nil {
		return nil, err
	}
	return &semester, nil
}

func (r *semesterRepo) ListCurrent(ctx context.Context) ([]model.Semester, error) {
	var semesters []model.Semester
	err := r.db.WithContext(ctx).
		Where("is_current = ?", true).
		Find(&semesters).Error
	return semesters, err
}

func (r *semesterRepo) FindByTeachingDate(ctx context.Context, date, teachingEnd time.Time) (*model.Semester, error) {
	var semester model.Semester
	err := r.db.WithContext(ctx).
		Where("first_teaching_date <= ? AND exam_start_date > ?", date, teachingEnd).
		First(&semester).Error
	if err != nil {
		return nil, err
	}
	return &semester, nil
}

func (r *semesterRepo) List(ctx context.Context) ([]model.Semester, error) {
	var semesters []model.Semester
	err := r.db.WithContext(ctx).
		Order("start_date DESC").
		Find(&semesters).Error
	return semesters, err
}

func (r *semesterRepo) Update(ctx context.Context, semester *model.Semester) error {
	return r.db.WithContext(ctx).Save(semester).Error
}

func (r *semesterRepo) Delete(ctx context.Context, id int) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Semester{}).Error
}

// ClearCurrent 将所有学期的 is_current 置为 false
func (r *semesterRepo) ClearCurrent(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Model(&model.Semester{}).
		Where("is_current = ?", true).
		Update("is_current", false).Error
}
