package dto

// ── 课表查询模块 DTO ──

// ScheduleQuery 课表/课时统计查询条件
//
// staffID 与 sstsTeacherID 互斥，同时提供时 staffID 优先；
// weeks 若提供必须是升序二元组 [起始周, 结束周]。
type ScheduleQuery struct {
	SemesterID    int    `form:"semester_id" json:"semester_id"`
	StaffID       int    `form:"staff_id" json:"staff_id"`
	SstsTeacherID string `form:"ssts_teacher_id" json:"ssts_teacher_id"`
	Weeks         []int  `form:"-" json:"weeks,omitempty"`
}

// BatchHoursRequest 批量课时统计请求
type BatchHoursRequest struct {
	SemesterID     int      `json:"semester_id" binding:"required"`
	StaffIDs       []int    `json:"staff_ids"`
	SstsTeacherIDs []string `json:"ssts_teacher_ids"`
	Weeks          []int    `json:"weeks"`
}

// CourseInstance 展开后的一条具体排课（主表字段 + slot 字段的扁平视图）
type CourseInstance struct {
	ScheduleID        int     `json:"schedule_id"`
	CourseName        string  `json:"course_name"`
	StaffID           int     `json:"staff_id"`
	SstsTeacherID     string  `json:"ssts_teacher_id"`
	StaffName         string  `json:"staff_name"`
	TeachingClassName string  `json:"teaching_class_name"`
	ClassroomName     string  `json:"classroom_name,omitempty"`
	SemesterID        int     `json:"semester_id"`
	CourseCategory    string  `json:"course_category"`
	Credits           int     `json:"credits"`
	WeekCount         int     `json:"week_count"`
	WeeklyHours       int     `json:"weekly_hours"`
	Coefficient       float64 `json:"coefficient"`
	WeekNumberString  string  `json:"week_number_string,omitempty"`
	SlotID            int     `json:"slot_id"`
	DayOfWeek         int     `json:"day_of_week"`
	PeriodStart       int     `json:"period_start"`
	PeriodEnd         int     `json:"period_end"`
	WeekType          string  `json:"week_type"`
}

// TeachingSlot 某个具体日期上的一节排课
type TeachingSlot struct {
	ScheduleID        int    `json:"schedule_id"`
	CourseName        string `json:"course_name"`
	TeachingClassName string `json:"teaching_class_name"`

	SlotID      int     `json:"slot_id"`
	PeriodStart int     `json:"period_start"`
	PeriodEnd   int     `json:"period_end"`
	WeekType    string  `json:"week_type"`
	Coefficient float64 `json:"coefficient"`
}

// TeachingDay 某个实际上课日及当天全部课程
type TeachingDay struct {
	Date       string         `json:"date"`        // YYYY-MM-DD
	WeekOfDay  int            `json:"week_of_day"` // 实际生效的星期（1-7，已考虑调休）
	WeekNumber int            `json:"week_number"` // 第几教学周（1 起）
	Courses    []TeachingSlot `json:"courses"`
}

// CancelledSlot 被停课的一节排课及其损失课时
type CancelledSlot struct {
	TeachingSlot
	CancelledHours float64 `json:"cancelled_hours"`
}

// CancelledDay 某个停课日及当天被取消的课程
//
// note 仅在按周过滤的局部视图中出现：该日课程已被调至其他日期补回，
// 但配对日期可能不在当前视图内，需加以说明。
type CancelledDay struct {
	Date       string          `json:"date"`
	WeekOfDay  int             `json:"week_of_day"`
	WeekNumber int             `json:"week_number"`
	Courses    []CancelledSlot `json:"courses"`
	Note       string          `json:"note,omitempty"`
}

// TeacherHours 单个教师的课时统计结果
type TeacherHours struct {
	StaffID       int     `json:"staff_id"`
	SstsTeacherID string  `json:"ssts_teacher_id"`
	StaffName     string  `json:"staff_name"`
	TotalHours    float64 `json:"total_hours"`
}

// TeachingWeekRange 教学周范围换算出的日期区间
type TeachingWeekRange struct {
	StartDate          string `json:"start_date"`
	EndDate            string `json:"end_date"`
	TotalTeachingWeeks int    `json:"total_teaching_weeks"`
}
