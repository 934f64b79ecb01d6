package dto

// ── 教师工作量视图 DTO ──

// WorkloadQuery 工作量/扣课视图查询条件
type WorkloadQuery struct {
	SemesterID     int      `form:"semester_id" json:"semester_id"`
	StaffIDs       []int    `form:"staff_ids" json:"staff_ids"`
	SstsTeacherIDs []string `form:"ssts_teacher_ids" json:"ssts_teacher_ids"`
	Weeks          []int    `form:"-" json:"weeks,omitempty"`
}

// WorkloadItem 工作量明细行：同一教学班同一课程的全部 slot 汇总
type WorkloadItem struct {
	CourseName        string  `json:"course_name"` // 展示名（超过 8 字剔除行政前缀）
	TeachingClassName string  `json:"teaching_class_name"`
	WeeklyHours       float64 `json:"weekly_hours"`
	WeekCount         int     `json:"week_count"`
	Coefficient       float64 `json:"coefficient"`
	WorkloadHours     float64 `json:"workload_hours"`
}

// StaffWorkload 单个教师的工作量汇总
type StaffWorkload struct {
	StaffID       int            `json:"staff_id"`
	SstsTeacherID string         `json:"ssts_teacher_id"`
	StaffName     string         `json:"staff_name"`
	Items         []WorkloadItem `json:"items"`
	TotalHours    float64        `json:"total_hours"`
}

// CancelledCell 扣课表中某个日期列的取值（负数，表示损失课时）
type CancelledCell struct {
	Date  string  `json:"date"`
	Hours float64 `json:"hours"`
}

// CancelledRow 扣课表行：同一教学班同一课程跨多个停课日合并
type CancelledRow struct {
	CourseName        string          `json:"course_name"`
	TeachingClassName string          `json:"teaching_class_name"`
	Cells             []CancelledCell `json:"cells"`
	TotalHours        float64         `json:"total_hours"` // 负数
}

// StaffCancelledTable 单个教师的扣课课时表
type StaffCancelledTable struct {
	StaffID             int            `json:"staff_id"`
	SstsTeacherID       string         `json:"ssts_teacher_id"`
	StaffName           string         `json:"staff_name"`
	Dates               []string       `json:"dates"` // 全部停课日期列（升序）
	Rows                []CancelledRow `json:"rows"`
	CancelledDates      []CancelledDay `json:"cancelled_dates"`
	TotalCancelledHours float64        `json:"total_cancelled_hours"` // 负数
}
