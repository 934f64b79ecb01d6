package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"teaching-plan/backend/internal/dto"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoData       = errors.New("没有可导出的数据")
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 工作量表 / 扣课表导出为 Excel (.xlsx)，供教务按学期归档
//   - 实际上课日期导出为 iCalendar 订阅源，供教师日历客户端使用
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportWorkloads 导出教师工作量汇总表
	ExportWorkloads(ctx context.Context, q *dto.WorkloadQuery) (*bytes.Buffer, string, error)
	// ExportCancelledCourses 导出扣课课时表（日期为列，课时为负数）
	ExportCancelledCourses(ctx context.Context, q *dto.WorkloadQuery) (*bytes.Buffer, string, error)
	// TeachingDatesCalendar 导出某教师实际上课日期的 iCalendar 订阅源
	TeachingDatesCalendar(ctx context.Context, q *dto.ScheduleQuery) (*bytes.Buffer, string, error)
}

type exportService struct {
	workload WorkloadService
	schedule ScheduleService
	logger   *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(workload WorkloadService, schedule ScheduleService, logger *zap.Logger) ExportService {
	return &exportService{workload: workload, schedule: schedule, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportWorkloads — 工作量汇总表导出
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 单 Sheet "教师工作量"
//   - 列头：教师 | 课程 | 教学班 | 周课时 | 周数 | 系数 | 工作量
//   - 每位教师的明细行之后紧跟一行合计

func (s *exportService) ExportWorkloads(ctx context.Context, q *dto.WorkloadQuery) (*bytes.Buffer, string, error) {
	workloads, err := s.workload.StaffWorkloads(ctx, q)
	if err != nil {
		return nil, "", err
	}
	if len(workloads) == 0 {
		return nil, "", ErrExportNoData
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "教师工作量"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 12)
	f.SetColWidth(sheetName, "B", "B", 28)
	f.SetColWidth(sheetName, "C", "C", 20)
	f.SetColWidth(sheetName, "D", "G", 10)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	totalStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})

	headers := []string{"教师", "课程", "教学班", "周课时", "周数", "系数", "工作量"}
	for i, h := range headers {
		f.SetCellValue(sheetName, cell(colName(i), 1), h)
	}
	f.SetCellStyle(sheetName, "A1", cell(colName(len(headers)-1), 1), headerStyle)

	row := 2
	for _, workload := range workloads {
		for _, item := range workload.Items {
			f.SetCellValue(sheetName, cell("A", row), workload.StaffName)
			f.SetCellValue(sheetName, cell("B", row), item.CourseName)
			f.SetCellValue(sheetName, cell("C", row), item.TeachingClassName)
			f.SetCellValue(sheetName, cell("D", row), item.WeeklyHours)
			f.SetCellValue(sheetName, cell("E", row), item.WeekCount)
			f.SetCellValue(sheetName, cell("F", row), item.Coefficient)
			f.SetCellValue(sheetName, cell("G", row), item.WorkloadHours)
			row++
		}
		f.SetCellValue(sheetName, cell("A", row), workload.StaffName)
		f.SetCellValue(sheetName, cell("B", row), "合计")
		f.SetCellValue(sheetName, cell("G", row), workload.TotalHours)
		f.SetCellStyle(sheetName, cell("A", row), cell("G", row), totalStyle)
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	return buf, "教师工作量.xlsx", nil
}

// ═══════════════════════════════════════════════════════════
// ExportCancelledCourses — 扣课课时表导出
// ═══════════════════════════════════════════════════════════
//
// 每位教师一个 Sheet；列头为该教师的全部停课日期，
// 行为教学班 + 课程，单元格为负数课时，末列为行合计。

func (s *exportService) ExportCancelledCourses(ctx context.Context, q *dto.WorkloadQuery) (*bytes.Buffer, string, error) {
	tables, err := s.workload.StaffsCancelledCourses(ctx, q)
	if err != nil {
		return nil, "", err
	}
	if len(tables) == 0 {
		return nil, "", ErrExportNoData
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#C00000"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	created := 0
	for _, table := range tables {
		if len(table.Rows) == 0 {
			continue
		}
		sheetName := table.StaffName
		if sheetName == "" {
			sheetName = fmt.Sprintf("教师%d", table.StaffID)
		}
		idx, sheetErr := f.NewSheet(sheetName)
		if sheetErr != nil {
			s.logger.Error("创建 Sheet 失败", zap.String("sheet", sheetName), zap.Error(sheetErr))
			return nil, "", ErrExportGenerateFail
		}
		if created == 0 {
			f.SetActiveSheet(idx)
		}
		created++

		f.SetColWidth(sheetName, "A", "A", 28)
		f.SetColWidth(sheetName, "B", "B", 20)

		f.SetCellValue(sheetName, "A1", "课程")
		f.SetCellValue(sheetName, "B1", "教学班")
		for i, date := range table.Dates {
			col := colName(2 + i)
			f.SetColWidth(sheetName, col, col, 12)
			f.SetCellValue(sheetName, cell(col, 1), date)
		}
		totalCol := colName(2 + len(table.Dates))
		f.SetCellValue(sheetName, cell(totalCol, 1), "合计")
		f.SetCellStyle(sheetName, "A1", cell(totalCol, 1), headerStyle)

		row := 2
		for _, tableRow := range table.Rows {
			f.SetCellValue(sheetName, cell("A", row), tableRow.CourseName)
			f.SetCellValue(sheetName, cell("B", row), tableRow.TeachingClassName)
			cellByDate := make(map[string]float64, len(tableRow.Cells))
			for _, c := range tableRow.Cells {
				cellByDate[c.Date] = c.Hours
			}
			for i, date := range table.Dates {
				if hours, ok := cellByDate[date]; ok {
					f.SetCellValue(sheetName, cell(colName(2+i), row), hours)
				}
			}
			f.SetCellValue(sheetName, cell(totalCol, row), tableRow.TotalHours)
			row++
		}
		f.SetCellValue(sheetName, cell("A", row), "合计")
		f.SetCellValue(sheetName, cell(totalCol, row), table.TotalCancelledHours)
	}
	if created == 0 {
		return nil, "", ErrExportNoData
	}
	f.DeleteSheet("Sheet1")

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	return buf, "扣课课时表.xlsx", nil
}

// ═══════════════════════════════════════════════════════════
// TeachingDatesCalendar — 上课日期 iCalendar 订阅源
// ═══════════════════════════════════════════════════════════
//
// 每个实际上课日 × 每门课一个全天 VEVENT，
// UID 由日期与 slot 标识拼出，重复导出保持稳定。

func (s *exportService) TeachingDatesCalendar(ctx context.Context, q *dto.ScheduleQuery) (*bytes.Buffer, string, error) {
	days, err := s.schedule.ActualTeachingDates(ctx, q)
	if err != nil {
		return nil, "", err
	}
	if len(days) == 0 {
		return nil, "", ErrExportNoData
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)

	for _, day := range days {
		date, parseErr := time.Parse(dateLayout, day.Date)
		if parseErr != nil {
			s.logger.Error("上课日期格式异常", zap.String("date", day.Date), zap.Error(parseErr))
			return nil, "", ErrExportGenerateFail
		}
		for _, course := range day.Courses {
			uid := fmt.Sprintf("%s-slot%d@teaching-plan", day.Date, course.SlotID)
			event := cal.AddEvent(uid)
			event.SetAllDayStartAt(date)
			event.SetAllDayEndAt(date.AddDate(0, 0, 1))
			event.SetSummary(fmt.Sprintf("%s（第%d-%d节）", course.CourseName, course.PeriodStart, course.PeriodEnd))
			event.SetDescription(fmt.Sprintf("教学班：%s，第%d教学周", course.TeachingClassName, day.WeekNumber))
		}
	}

	buf := bytes.NewBufferString(cal.Serialize())
	return buf, "上课日期.ics", nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
