package model

import "time"

// Semester 学期表 — 对应 plan_semesters
//
// 日期约束：firstTeachingDate ≤ examStartDate ≤ endDate；
// isCurrent 同一时间仅允许一条记录为 true（由管理端维护，本服务只读取）。
type Semester struct {
	ID                int       `gorm:"primaryKey;autoIncrement"            json:"id"`
	SchoolYear        int       `gorm:"not null"                            json:"school_year"`  // 学年，如 2024
	TermNumber        int       `gorm:"type:smallint;not null"              json:"term_number"`  // 第一学期/第二学期
	Name              string    `gorm:"type:varchar(50);not null"           json:"name"`         // 如: 2024春季学期
	StartDate         time.Time `gorm:"type:date;not null"                  json:"start_date"`
	FirstTeachingDate time.Time `gorm:"type:date;not null"                  json:"first_teaching_date"` // 教学周起始的周一
	ExamStartDate     time.Time `gorm:"type:date;not null"                  json:"exam_start_date"`     // 考试周开始日期（通常为周一）
	EndDate           time.Time `gorm:"type:date;not null"                  json:"end_date"`
	IsCurrent         bool      `gorm:"not null;default:false"              json:"is_current"`
}

// TableName 指定表名
func (Semester) TableName() string { return "plan_semesters" }
