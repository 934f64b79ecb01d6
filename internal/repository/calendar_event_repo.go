package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"teaching-plan/backend/internal/model"
	apperrors "teaching-plan/backend/pkg/errors"
)

// activeStatuses 参与课时解析的记录状态；EXPIRY 为历史数据，一律忽略
var activeStatuses = []string{model.RecordStatusActive, model.RecordStatusActiveTentative}

// CalendarEventRepository 校历事件数据访问接口
type CalendarEventRepository interface {
	Create(ctx context.Context, event *model.CalendarEvent) error
	GetByID(ctx context.Context, id int) (*model.CalendarEvent, error)
	// ListActiveBySemester 查询某学期全部生效事件（ACTIVE / ACTIVE_TENTATIVE）
	ListActiveBySemester(ctx context.Context, semesterID int) ([]model.CalendarEvent, error)
	// ListActiveByDate 查询某日期的全部生效事件
	ListActiveByDate(ctx context.Context, date time.Time) ([]model.CalendarEvent, error)
	ListBySemester(ctx context.Context, semesterID int) ([]model.CalendarEvent, error)
	// UpdateWithVersion 带乐观锁更新：仅当库中 version 与 expectedVersion
	// 一致时写入并将 version 加 1，否则返回 ErrOptimisticLock
	UpdateWithVersion(ctx context.Context, event *model.CalendarEvent, expectedVersion int) error
	Delete(ctx context.Context, id int) error
}

type calendarEventRepo struct {
	db *gorm.DB
}

// NewCalendarEventRepo 创建 CalendarEventRepository 实例
func NewCalendarEventRepo(db *gorm.DB) CalendarEventRepository {
	return &calendarEventRepo{db: db}
}

func (r *calendarEventRepo) Create(ctx context.Context, event *model.CalendarEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *calendarEventRepo) GetByID(ctx context.Context, id int) (*model.CalendarEvent, error) {
	var event model.CalendarEvent
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *calendarEventRepo) ListActiveBySemester(ctx context.Context, semesterID int) ([]model.CalendarEvent, error) {
	var events []model.CalendarEvent
	err := r.db.WithContext(ctx).
		Where("semester_id = ? AND record_status IN ?", semesterID, activeStatuses).
		Order("date ASC").
		Find(&events).Error
	return events, err
}

func (r *calendarEventRepo) ListActiveByDate(ctx context.Context, date time.Time) ([]model.CalendarEvent, error) {
	var events []model.CalendarEvent
	err := r.db.WithContext(ctx).
		Where("date = ? AND record_status IN ?", date, activeStatuses).
		Find(&events).Error
	return events, err
}

func (r *calendarEventRepo) ListBySemester(ctx context.Context, semesterID int) ([]model.CalendarEvent, error) {
	var events []model.CalendarEvent
	err := r.db.WithContext(ctx).
		Where("semester_id = ?", semesterID).
		Order("date ASC").
		Find(&events).Error
	return events, err
}

func (r *calendarEventRepo) UpdateWithVersion(ctx context.Context, event *model.CalendarEvent, expectedVersion int) error {
	result := r.db.WithContext(ctx).
		Model(&model.CalendarEvent{}).
		Where("id = ? AND version = ?", event.ID, expectedVersion).
		Updates(map[string]interface{}{
			"topic":                 event.Topic,
			"date":                  event.Date,
			"time_slot":             event.TimeSlot,
			"event_type":            event.EventType,
			"teaching_calc_effect":  event.TeachingCalcEffect,
			"original_date":         event.OriginalDate,
			"record_status":         event.RecordStatus,
			"updated_by_account_id": event.UpdatedByAccountID,
			"version":               gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrOptimisticLock
	}
	event.Version = expectedVersion + 1
	return nil
}

func (r *calendarEventRepo) Delete(ctx context.Context, id int) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.CalendarEvent{}).Error
}
