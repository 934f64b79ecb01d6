package model

// CourseSchedule 课程表主表 — 对应 plan_course_schedule
//
// staffId 与 sstsTeacherId 是同一教师的两套标识：staffId 为本系统主键，
// sstsTeacherId 为教务系统工号（爬取导入时的冗余），查询时 staffId 优先。
type CourseSchedule struct {
	ID                int     `gorm:"primaryKey;autoIncrement"            json:"id"`
	StaffID           int     `gorm:"not null;index"                      json:"staff_id"`
	SstsTeacherID     string  `gorm:"type:varchar(32);not null"           json:"ssts_teacher_id"`
	StaffName         string  `gorm:"type:varchar(64);not null"           json:"staff_name"`
	TeachingClassName string  `gorm:"type:varchar(64);not null"           json:"teaching_class_name"`
	ClassroomID       *int    `json:"classroom_id,omitempty"`
	ClassroomName     string  `gorm:"type:varchar(64)"                    json:"classroom_name,omitempty"`
	CourseID          *int    `json:"course_id,omitempty"`
	CourseName        string  `gorm:"type:varchar(128)"                   json:"course_name"`
	SemesterID        int     `gorm:"not null;index"                      json:"semester_id"`
	WeekCount         int     `gorm:"type:smallint"                       json:"week_count"`   // 课程跨越的教学周数
	WeeklyHours       int     `gorm:"type:smallint"                       json:"weekly_hours"` // 每周课时数
	Credits           int     `gorm:"type:smallint"                       json:"credits"`
	Coefficient       float64 `gorm:"type:decimal(3,2);not null;default:1.0" json:"coefficient"` // 课时权重系数
	CourseCategory    string  `gorm:"type:varchar(20);not null;default:'其他课程'" json:"course_category"`
	// WeekNumberString 逐周开课位图（如 "1,1,0,1,…"）。仅随爬取数据保留，
	// 课时解析只使用 slot 的 all/odd/even 周型，不读取该字段。
	WeekNumberString string `gorm:"type:varchar(64)" json:"week_number_string,omitempty"`
	BaseModel

	// 关联：删除课程表时级联删除其时段安排
	Slots []CourseSlot `gorm:"foreignKey:CourseScheduleID;constraint:OnDelete:CASCADE" json:"slots,omitempty"`
}

// TableName 指定表名
func (CourseSchedule) TableName() string { return "plan_course_schedule" }

// CourseSlot 课程时段安排表 — 对应 plan_course_slots
//
// 一条记录表示「该课程每[单/双]周的星期 dayOfWeek 第 periodStart~periodEnd 节上课」。
type CourseSlot struct {
	ID               int    `gorm:"primaryKey;autoIncrement"                json:"id"`
	CourseScheduleID int    `gorm:"not null;index"                          json:"course_schedule_id"`
	DayOfWeek        int    `gorm:"type:smallint;not null"                  json:"day_of_week"`  // 1=星期一 … 7=星期日
	PeriodStart      int    `gorm:"type:smallint;not null"                  json:"period_start"` // 起始节次（含）
	PeriodEnd        int    `gorm:"type:smallint;not null"                  json:"period_end"`   // 结束节次（含）
	WeekType         string `gorm:"type:varchar(10);not null;default:'all'" json:"week_type"`    // all | odd | even
	BaseModel
}

// TableName 指定表名
func (CourseSlot) TableName() string { return "plan_course_slots" }

// PeriodSpan 该时段覆盖的节数
func (s CourseSlot) PeriodSpan() int { return s.PeriodEnd - s.PeriodStart + 1 }
