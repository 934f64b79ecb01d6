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
)

// ── 学期维护模块业务错误 ──

var ErrSemesterDateOrder = errors.New("学期日期顺序无效：需满足 开始 ≤ 第一教学日 ≤ 考试周起始 ≤ 结束")

// SemesterService 学期维护业务接口
type SemesterService interface {
	Create(ctx context.Context, req *dto.CreateSemesterRequest) (*dto.SemesterResponse, error)
	GetByID(ctx context.Context, id int) (*dto.SemesterResponse, error)
	// GetCurrent 返回标记为当前的学期；不存在或存在多个时返回 ErrAmbiguousSemester
	GetCurrent(ctx context.Context) (*dto.SemesterResponse, error)
	List(ctx context.Context) ([]dto.SemesterResponse, error)
	Update(ctx context.Context, id int, req *dto.UpdateSemesterRequest) (*dto.SemesterResponse, error)
	// SetCurrent 将指定学期设为当前学期（先清除旧标记，事务内完成）
	SetCurrent(ctx context.Context, id int) error
	Delete(ctx context.Context, id int) error
}

type semesterService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSemesterService 创建 SemesterService 实例
func NewSemesterService(repo *repository.Repository, logger *zap.Logger) SemesterService {
	return &semesterService{repo: repo, logger: logger}
}

// validateSemesterDates 校验四个关键日期的先后顺序
func validateSemesterDates(start, firstTeaching, examStart, end time.Time) error {
	if firstTeaching.Before(start) || examStart.Before(firstTeaching) || end.Before(examStart) {
		return ErrSemesterDateOrder
	}
	return nil
}

// ────────────────────── Create ──────────────────────

func (s *semesterService) Create(ctx context.Context, req *dto.CreateSemesterRequest) (*dto.SemesterResponse, error) {
	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, ErrSemesterDateOrder
	}
	firstTeachingDate, err := time.Parse(dateLayout, req.FirstTeachingDate)
	if err != nil {
		return nil, ErrSemesterDateOrder
	}
	examStartDate, err := time.Parse(dateLayout, req.ExamStartDate)
	if err != nil {
		return nil, ErrSemesterDateOrder
	}
	endDate, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return nil, ErrSemesterDateOrder
	}
	if err := validateSemesterDates(startDate, firstTeachingDate, examStartDate, endDate); err != nil {
		return nil, err
	}

	semester := &model.Semester{
		SchoolYear:        req.SchoolYear,
		TermNumber:        req.TermNumber,
		Name:              req.Name,
		StartDate:         startDate,
		FirstTeachingDate: firstTeachingDate,
		ExamStartDate:     examStartDate,
		EndDate:           endDate,
		IsCurrent:         false,
	}
	if err := s.repo.Semester.Create(ctx, semester); err != nil {
		s.logger.Error("创建学期失败", zap.Error(err))
		return nil, err
	}
	return toSemesterResponse(semester), nil
}

// ────────────────────── 查询 ──────────────────────

func (s *semesterService) GetByID(ctx context.Context, id int) (*dto.SemesterResponse, error) {
	semester, err := s.repo.Semester.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSemesterNotFound
		}
		s.logger.Error("查询学期失败", zap.Int("id", id), zap.Error(err))
		return nil, err
	}
	return toSemesterResponse(semester), nil
}

func (s *semesterService) GetCurrent(ctx context.Context) (*dto.SemesterResponse, error) {
	semester, err := resolveSemester(ctx, s.repo, s.logger, 0)
	if err != nil {
		return nil, err
	}
	return toSemesterResponse(semester), nil
}

func (s *semesterService) List(ctx context.Context) ([]dto.SemesterResponse, error) {
	semesters, err := s.repo.Semester.List(ctx)
	if err != nil {
		s.logger.Error("查询学期列表失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.SemesterResponse, 0, len(semesters))
	for i := range semesters {
		result = append(result, *toSemesterResponse(&semesters[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *semesterService) Update(ctx context.Context, id int, req *dto.UpdateSemesterRequest) (*dto.SemesterResponse, error) {
	semester, err := s.repo.Semester.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSemesterNotFound
		}
		s.logger.Error("查询学期失败", zap.Int("id", id), zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		semester.Name = *req.Name
	}
	if err := applyDate(req.StartDate, &semester.StartDate); err != nil {
		return nil, err
	}
	if err := applyDate(req.FirstTeachingDate, &semester.FirstTeachingDate); err != nil {
		return nil, err
	}
	if err := applyDate(req.ExamStartDate, &semester.ExamStartDate); err != nil {
		return nil, err
	}
	if err := applyDate(req.EndDate, &semester.EndDate); err != nil {
		return nil, err
	}
	if err := validateSemesterDates(semester.StartDate, semester.FirstTeachingDate, semester.ExamStartDate, semester.EndDate); err != nil {
		return nil, err
	}

	if err := s.repo.Semester.Update(ctx, semester); err != nil {
		s.logger.Error("更新学期失败", zap.Int("id", id), zap.Error(err))
		return nil, err
	}
	return toSemesterResponse(semester), nil
}

// applyDate 解析可选日期字段并写入目标
func applyDate(raw *string, target *time.Time) error {
	if raw == nil {
		return nil
	}
	parsed, err := time.Parse(dateLayout, *raw)
	if err != nil {
		return ErrSemesterDateOrder
	}
	*target = parsed
	return nil
}

// ────────────────────── SetCurrent ──────────────────────

func (s *semesterService) SetCurrent(ctx context.Context, id int) error {
	tx := s.repo.BeginTx()
	if tx == nil {
		return errors.New("无法开启事务")
	}
	txRepo := s.repo.WithTx(tx)

	semester, err := txRepo.Semester.GetByID(ctx, id)
	if err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSemesterNotFound
		}
		s.logger.Error("查询学期失败", zap.Int("id", id), zap.Error(err))
		return err
	}

	if err := txRepo.Semester.ClearCurrent(ctx); err != nil {
		tx.Rollback()
		s.logger.Error("清除当前学期标记失败", zap.Error(err))
		return err
	}

	semester.IsCurrent = true
	if err := txRepo.Semester.Update(ctx, semester); err != nil {
		tx.Rollback()
		s.logger.Error("设置当前学期失败", zap.Int("id", id), zap.Error(err))
		return err
	}

	if err := tx.Commit().Error; err != nil {
		s.logger.Error("提交事务失败", zap.Error(err))
		return err
	}
	s.logger.Info("当前学期已切换", zap.Int("semester_id", id), zap.String("name", semester.Name))
	return nil
}

// ────────────────────── Delete ──────────────────────

func (s *semesterService) Delete(ctx context.Context, id int) error {
	if _, err := s.repo.Semester.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSemesterNotFound
		}
		s.logger.Error("查询学期失败", zap.Int("id", id), zap.Error(err))
		return err
	}
	if err := s.repo.Semester.Delete(ctx, id); err != nil {
		s.logger.Error("删除学期失败", zap.Int("id", id), zap.Error(err))
		return err
	}
	return nil
}

// toSemesterResponse model → DTO
func toSemesterResponse(semester *model.Semester) *dto.SemesterResponse {
	return &dto.SemesterResponse{
		ID:                semester.ID,
		SchoolYear:        semester.SchoolYear,
		TermNumber:        semester.TermNumber,
		Name:              semester.Name,
		StartDate:         semester.StartDate.Format(dateLayout),
		FirstTeachingDate: semester.FirstTeachingDate.Format(dateLayout),
		ExamStartDate:     semester.ExamStartDate.Format(dateLayout),
		EndDate:           semester.EndDate.Format(dateLayout),
		IsCurrent:         semester.IsCurrent,
	}
}
