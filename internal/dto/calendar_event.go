package dto

// ── 校历事件模块 DTO ──

// CreateCalendarEventRequest 创建校历事件请求
type CreateCalendarEventRequest struct {
	SemesterID         int    `json:"semester_id"          binding:"required"`
	Topic              string `json:"topic"                binding:"required,max=100"`
	Date               string `json:"date"                 binding:"required"`
	TimeSlot           string `json:"time_slot"            binding:"omitempty,oneof=ALL_DAY MORNING AFTERNOON"`
	EventType          string `json:"event_type"           binding:"required,oneof=HOLIDAY EXAM ACTIVITY HOLIDAY_MAKEUP WEEKDAY_SWAP SPORTS_MEET"`
	TeachingCalcEffect string `json:"teaching_calc_effect" binding:"omitempty,oneof=NO_CHANGE CANCEL MAKEUP SWAP"`
	OriginalDate       string `json:"original_date"`
	RecordStatus       string `json:"record_status"        binding:"omitempty,oneof=ACTIVE ACTIVE_TENTATIVE EXPIRY"`
}

// UpdateCalendarEventRequest 更新校历事件请求
//
// version 必传：与库中版本不一致时拒绝写入（乐观锁）。
type UpdateCalendarEventRequest struct {
	Topic              *string `json:"topic" binding:"omitempty,max=100"`
	Date               *string `json:"date"`
	TimeSlot           *string `json:"time_slot" binding:"omitempty,oneof=ALL_DAY MORNING AFTERNOON"`
	EventType          *string `json:"event_type" binding:"omitempty,oneof=HOLIDAY EXAM ACTIVITY HOLIDAY_MAKEUP WEEKDAY_SWAP SPORTS_MEET"`
	TeachingCalcEffect *string `json:"teaching_calc_effect" binding:"omitempty,oneof=NO_CHANGE CANCEL MAKEUP SWAP"`
	OriginalDate       *string `json:"original_date"`
	RecordStatus       *string `json:"record_status" binding:"omitempty,oneof=ACTIVE ACTIVE_TENTATIVE EXPIRY"`
	Version            int     `json:"version" binding:"required,min=1"`
}

// CalendarEventResponse 校历事件响应
type CalendarEventResponse struct {
	ID                 int    `json:"id"`
	SemesterID         int    `json:"semester_id"`
	Topic              string `json:"topic"`
	Date               string `json:"date"`
	TimeSlot           string `json:"time_slot"`
	EventType          string `json:"event_type"`
	TeachingCalcEffect string `json:"teaching_calc_effect"`
	OriginalDate       string `json:"original_date,omitempty"`
	RecordStatus       string `json:"record_status"`
	Version            int    `json:"version"`
}
