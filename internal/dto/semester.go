package dto

// ── 学期模块 DTO ──

// CreateSemesterRequest 创建学期请求
type CreateSemesterRequest struct {
	SchoolYear        int    `json:"school_year"         binding:"required,min=1900,max=2100"`
	TermNumber        int    `json:"term_number"         binding:"required,oneof=1 2"`
	Name              string `json:"name"                binding:"required,min=2,max=50"`
	StartDate         string `json:"start_date"          binding:"required"` // "2025-02-10"
	FirstTeachingDate string `json:"first_teaching_date" binding:"required"` // 教学周起始周一
	ExamStartDate     string `json:"exam_start_date"     binding:"required"`
	EndDate           string `json:"end_date"            binding:"required"`
}

// UpdateSemesterRequest 更新学期请求
type UpdateSemesterRequest struct {
	Name              *string `json:"name" binding:"omitempty,min=2,max=50"`
	StartDate         *string `json:"start_date"`
	FirstTeachingDate *string `json:"first_teaching_date"`
	ExamStartDate     *string `json:"exam_start_date"`
	EndDate           *string `json:"end_date"`
}

// SemesterResponse 学期信息响应
type SemesterResponse struct {
	ID                int    `json:"id"`
	SchoolYear        int    `json:"school_year"`
	TermNumber        int    `json:"term_number"`
	Name              string `json:"name"`
	StartDate         string `json:"start_date"`
	FirstTeachingDate string `json:"first_teaching_date"`
	ExamStartDate     string `json:"exam_start_date"`
	EndDate           string `json:"end_date"`
	IsCurrent         bool   `json:"is_current"`
}
