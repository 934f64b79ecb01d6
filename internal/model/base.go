package model

import "time"

// BaseModel 通用审计字段（业务模型按需嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// 星期与周类型取值约定：
//   - dayOfWeek: 1=星期一 … 7=星期日（ISO，周日不为 0）
//   - weekType:  all=每周, odd=单周, even=双周
const (
	WeekTypeAll  = "all"
	WeekTypeOdd  = "odd"
	WeekTypeEven = "even"
)
