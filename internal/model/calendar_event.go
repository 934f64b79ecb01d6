package model

import "time"

// ── 校历事件枚举 ──

// 事件类型
const (
	EventTypeHoliday       = "HOLIDAY"        // 假期
	EventTypeExam          = "EXAM"           // 考试
	EventTypeActivity      = "ACTIVITY"       // 活动
	EventTypeHolidayMakeup = "HOLIDAY_MAKEUP" // 补课
	EventTypeWeekdaySwap   = "WEEKDAY_SWAP"   // 调休
	EventTypeSportsMeet    = "SPORTS_MEET"    // 运动会
)

// 对课时计算的影响
const (
	EffectNoChange = "NO_CHANGE" // 无影响
	EffectCancel   = "CANCEL"    // 停课
	EffectMakeup   = "MAKEUP"    // 补课
	EffectSwap     = "SWAP"      // 调休
)

// 记录状态
const (
	RecordStatusActive          = "ACTIVE"           // 有效
	RecordStatusActiveTentative = "ACTIVE_TENTATIVE" // 临时生效
	RecordStatusExpiry          = "EXPIRY"           // 失效，仅作历史保留
)

// 时间段
const (
	TimeSlotAllDay    = "ALL_DAY"
	TimeSlotMorning   = "MORNING"
	TimeSlotAfternoon = "AFTERNOON"
)

// CalendarEvent 校历事件表 — 对应 plan_calendar_events
//
// MAKEUP/SWAP 事件的 originalDate 指向被重放的日期：date 当天按
// originalDate 的星期模板上课，二者必须不同。
// version 在每次更新时加 1，是编辑路径的乐观锁标记；解析与统计只读它。
type CalendarEvent struct {
	ID                 int        `gorm:"primaryKey;autoIncrement"                       json:"id"`
	SemesterID         int        `gorm:"not null;index:idx_semester_date"               json:"semester_id"`
	Topic              string     `gorm:"type:varchar(100);not null"                     json:"topic"`
	Date               time.Time  `gorm:"type:date;not null;index:idx_semester_date"     json:"date"`
	TimeSlot           string     `gorm:"type:varchar(20);not null;default:'ALL_DAY'"    json:"time_slot"`
	EventType          string     `gorm:"type:varchar(20);not null;index:idx_event_type" json:"event_type"`
	TeachingCalcEffect string     `gorm:"type:varchar(20);not null;default:'NO_CHANGE'"  json:"teaching_calc_effect"`
	OriginalDate       *time.Time `gorm:"type:date"                                      json:"original_date,omitempty"`
	RecordStatus       string     `gorm:"type:varchar(20);not null;default:'ACTIVE'"     json:"record_status"`
	Version            int        `gorm:"not null;default:1"                             json:"version"`
	UpdatedByAccountID *int       `json:"updated_by_account_id,omitempty"`
	BaseModel
}

// TableName 指定表名
func (CalendarEvent) TableName() string { return "plan_calendar_events" }
