package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"teaching-plan/backend/internal/dto"
	"teaching-plan/backend/internal/model"
	"teaching-plan/backend/internal/repository"
	apperrors "teaching-plan/backend/pkg/errors"
	pkgredis "teaching-plan/backend/pkg/redis"
)

// ── 校历事件维护模块业务错误 ──

var (
	ErrCalendarEventNotFound = errors.New("校历事件不存在")
	ErrEventDateInvalid      = errors.New("事件日期无效")
	// ErrEventOriginalDateRequired 影响为 SWAP/MAKEUP 的事件必须提供
	// originalDate 且不能与事件日期相同
	ErrEventOriginalDateRequired = errors.New("调休/补课事件必须提供不同于事件日期的原始日期")
)

// CalendarEventService 校历事件维护业务接口
type CalendarEventService interface {
	Create(ctx context.Context, req *dto.CreateCalendarEventRequest) (*dto.CalendarEventResponse, error)
	GetByID(ctx context.Context, id int) (*dto.CalendarEventResponse, error)
	// ListBySemester 列出某学期全部事件（含 EXPIRY 的历史记录）
	ListBySemester(ctx context.Context, semesterID int) ([]dto.CalendarEventResponse, error)
	// Update 带乐观锁更新：req.Version 与库中不一致时返回 ErrOptimisticLock
	Update(ctx context.Context, id int, req *dto.UpdateCalendarEventRequest) (*dto.CalendarEventResponse, error)
	Delete(ctx context.Context, id int) error
}

type calendarEventService struct {
	repo   *repository.Repository
	cache  *pkgredis.Client
	logger *zap.Logger
}

// NewCalendarEventService 创建 CalendarEventService 实例
//
// cache 可为 nil；非 nil 时事件增删改会使该学期的统计缓存失效。
func NewCalendarEventService(repo *repository.Repository, cache *pkgredis.Client, logger *zap.Logger) CalendarEventService {
	return &calendarEventService{repo: repo, cache: cache, logger: logger}
}

// validateReplayEvent 校验重放类事件（SWAP/MAKEUP）的 originalDate
func validateReplayEvent(effect string, date time.Time, originalDate *time.Time) error {
	if effect != model.EffectSwap && effect != model.EffectMakeup {
		return nil
	}
	if originalDate == nil || sameDate(*originalDate, date) {
		return ErrEventOriginalDateRequired
	}
	return nil
}

// invalidateReports 事件变更后使该学期统计缓存失效
func (s *calendarEventService) invalidateReports(ctx context.Context, semesterID int) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateSemester(ctx, semesterID); err != nil {
		s.logger.Warn("清除统计缓存失败", zap.Int("semester_id", semesterID), zap.Error(err))
	}
}

// ────────────────────── Create ──────────────────────

func (s *calendarEventService) Create(ctx context.Context, req *dto.CreateCalendarEventRequest) (*dto.CalendarEventResponse, error) {
	if _, err := s.repo.Semester.GetByID(ctx, req.SemesterID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSemesterNotFound
		}
		s.logger.Error("查询学期失败", zap.Int("semester_id", req.SemesterID), zap.Error(err))
		return nil, err
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, ErrEventDateInvalid
	}
	var originalDate *time.Time
	if req.OriginalDate != "" {
		parsed, parseErr := time.Parse(dateLayout, req.OriginalDate)
		if parseErr != nil {
			return nil, ErrEventDateInvalid
		}
		originalDate = &parsed
	}

	event := &model.CalendarEvent{
		SemesterID:         req.SemesterID,
		Topic:              req.Topic,
		Date:               date,
		TimeSlot:           req.TimeSlot,
		EventType:          req.EventType,
		TeachingCalcEffect: req.TeachingCalcEffect,
		OriginalDate:       originalDate,
		RecordStatus:       req.RecordStatus,
		Version:            1,
	}
	if event.TimeSlot == "" {
		event.TimeSlot = model.TimeSlotAllDay
	}
	if event.TeachingCalcEffect == "" {
		event.TeachingCalcEffect = model.EffectNoChange
	}
	if event.RecordStatus == "" {
		event.RecordStatus = model.RecordStatusActive
	}
	if err := validateReplayEvent(event.TeachingCalcEffect, event.Date, event.OriginalDate); err != nil {
		return nil, err
	}

	if err := s.repo.CalendarEvent.Create(ctx, event); err != nil {
		s.logger.Error("创建校历事件失败", zap.Error(err))
		return nil, err
	}
	s.invalidateReports(ctx, event.SemesterID)
	return toCalendarEventResponse(event), nil
}

// ────────────────────── 查询 ──────────────────────

func (s *calendarEventService) GetByID(ctx context.Context, id int) (*dto.CalendarEventResponse, error) {
	event, err := s.repo.CalendarEvent.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCalendarEventNotFound
		}
		s.logger.Error("查询校历事件失败", zap.Int("id", id), zap.Error(err))
		return nil, err
	}
	return toCalendarEventResponse(event), nil
}

func (s *calendarEventService) ListBySemester(ctx context.Context, semesterID int) ([]dto.CalendarEventResponse, error) {
	events, err := s.repo.CalendarEvent.ListBySemester(ctx, semesterID)
	if err != nil {
		s.logger.Error("查询校历事件失败", zap.Int("semester_id", semesterID), zap.Error(err))
		return nil, err
	}
	result := make([]dto.CalendarEventResponse, 0, len(events))
	for i := range events {
		result = append(result, *toCalendarEventResponse(&events[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *calendarEventService) Update(ctx context.Context, id int, req *dto.UpdateCalendarEventRequest) (*dto.CalendarEventResponse, error) {
	event, err := s.repo.CalendarEvent.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCalendarEventNotFound
		}
		s.logger.Error("查询校历事件失败", zap.Int("id", id), zap.Error(err))
		return nil, err
	}

	if req.Topic != nil {
		event.Topic = *req.Topic
	}
	if req.Date != nil {
		parsed, parseErr := time.Parse(dateLayout, *req.Date)
		if parseErr != nil {
			return nil, ErrEventDateInvalid
		}
		event.Date = parsed
	}
	if req.TimeSlot != nil {
		event.TimeSlot = *req.TimeSlot
	}
	if req.EventType != nil {
		event.EventType = *req.EventType
	}
	if req.TeachingCalcEffect != nil {
		event.TeachingCalcEffect = *req.TeachingCalcEffect
	}
	if req.OriginalDate != nil {
		if *req.OriginalDate == "" {
			event.OriginalDate = nil
		} else {
			parsed, parseErr := time.Parse(dateLayout, *req.OriginalDate)
			if parseErr != nil {
				return nil, ErrEventDateInvalid
			}
			event.OriginalDate = &parsed
		}
	}
	if req.RecordStatus != nil {
		event.RecordStatus = *req.RecordStatus
	}
	if err := validateReplayEvent(event.TeachingCalcEffect, event.Date, event.OriginalDate); err != nil {
		return nil, err
	}

	if err := s.repo.CalendarEvent.UpdateWithVersion(ctx, event, req.Version); err != nil {
		if !errors.Is(err, apperrors.ErrOptimisticLock) {
			s.logger.Error("更新校历事件失败", zap.Int("id", id), zap.Error(err))
		}
		return nil, err
	}
	s.invalidateReports(ctx, event.SemesterID)
	return toCalendarEventResponse(event), nil
}

// ────────────────────── Delete ──────────────────────

func (s *calendarEventService) Delete(ctx context.Context, id int) error {
	event, err := s.repo.CalendarEvent.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCalendarEventNotFound
		}
		s.logger.Error("查询校历事件失败", zap.Int("id", id), zap.Error(err))
		return err
	}
	if err := s.repo.CalendarEvent.Delete(ctx, id); err != nil {
		s.logger.Error("删除校历事件失败", zap.Int("id", id), zap.Error(err))
		return err
	}
	s.invalidateReports(ctx, event.SemesterID)
	return nil
}

// toCalendarEventResponse model → DTO
func toCalendarEventResponse(event *model.CalendarEvent) *dto.CalendarEventResponse {
	resp := &dto.CalendarEventResponse{
		ID:                 event.ID,
		SemesterID:         event.SemesterID,
		Topic:              event.Topic,
		Date:               event.Date.Format(dateLayout),
		TimeSlot:           event.TimeSlot,
		EventType:          event.EventType,
		TeachingCalcEffect: event.TeachingCalcEffect,
		RecordStatus:       event.RecordStatus,
		Version:            event.Version,
	}
	if event.OriginalDate != nil {
		resp.OriginalDate = event.OriginalDate.Format(dateLayout)
	}
	return resp
}
