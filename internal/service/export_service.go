package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"skillpath/backend/internal/model"
	"skillpath/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoEvents     = errors.New("时间线中无可导出的事件")
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

// ExportService 时间线导出业务接口
//
// 设计说明：
//   - .ics 导出完整事件列表，供用户订阅到个人日历
//   - .xlsx 导出事件总览表，供管理者查看学习安排
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportICS 导出时间线为 iCalendar 文件
	ExportICS(ctx context.Context, timelineID string) (*bytes.Buffer, string, error)

	// ExportExcel 导出时间线为 Excel 事件总览
	ExportExcel(ctx context.Context, timelineID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportICS — 导出时间线为 iCalendar
// ═══════════════════════════════════════════════════════════
//
// 每个事件映射为一个 VEVENT：
//   - UID: "{事件ID}@skillpath"
//   - SUMMARY: 事件标题；DESCRIPTION: 事件描述
//   - 需要提交凭证的事件在描述中追加提示行

func (s *exportService) ExportICS(ctx context.Context, timelineID string) (*bytes.Buffer, string, error) {
	timeline, err := s.loadTimeline(ctx, timelineID)
	if err != nil {
		return nil, "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//SkillPath//Learning Timeline//EN")
	cal.SetName(timeline.CourseName)

	now := time.Now()
	for _, evt := range timeline.Events {
		vevent := cal.AddEvent(fmt.Sprintf("%s@skillpath", evt.ID))
		vevent.SetCreatedTime(now)
		vevent.SetDtStampTime(now)
		vevent.SetStartAt(evt.StartTime)
		vevent.SetEndAt(evt.EndTime)
		vevent.SetSummary(evt.Title)

		desc := evt.Description
		if evt.RequiresProof {
			desc += "\nProof of completion required."
		}
		vevent.SetDescription(desc)
	}

	buf := bytes.NewBufferString(cal.Serialize())
	filename := fmt.Sprintf("%s_timeline.ics", sanitizeFilename(timeline.CourseName))
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// ExportExcel — 导出时间线为 Excel 事件总览
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 单 Sheet "Timeline"
//   - 标题行：课程名 + 总周数/总课时
//   - 表头: | 日期 | 时间 | 类型 | 标题 | 模块 | 需要凭证 |
//   - 按事件开始时间排列（事件生成时已有序）

func (s *exportService) ExportExcel(ctx context.Context, timelineID string) (*bytes.Buffer, string, error) {
	timeline, err := s.loadTimeline(ctx, timelineID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Timeline"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	// 设置列宽
	f.SetColWidth(sheetName, "A", "A", 12)
	f.SetColWidth(sheetName, "B", "B", 14)
	f.SetColWidth(sheetName, "C", "C", 14)
	f.SetColWidth(sheetName, "D", "D", 40)
	f.SetColWidth(sheetName, "E", "E", 30)
	f.SetColWidth(sheetName, "F", "F", 10)

	// 样式
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s — %.1f weeks, %.1f hours",
		timeline.CourseName, timeline.TotalWeeks, timeline.TotalHours))
	f.MergeCell(sheetName, "A1", "F1")
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	headers := []string{"Date", "Time", "Type", "Title", "Module", "Proof"}
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetCellValue(sheetName, cell(col, 2), h)
	}

	// 数据行
	row := 3
	for _, evt := range timeline.Events {
		f.SetCellValue(sheetName, cell("A", row), evt.StartTime.Format("2006-01-02"))
		f.SetCellValue(sheetName, cell("B", row), fmt.Sprintf("%s-%s",
			evt.StartTime.Format("15:04"), evt.EndTime.Format("15:04")))
		f.SetCellValue(sheetName, cell("C", row), eventTypeLabel(evt.Type))
		f.SetCellValue(sheetName, cell("D", row), evt.Title)
		f.SetCellValue(sheetName, cell("E", row), evt.ModuleName)
		if evt.RequiresProof {
			f.SetCellValue(sheetName, cell("F", row), "Yes")
		} else {
			f.SetCellValue(sheetName, cell("F", row), "-")
		}
		row++
	}

	// 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("%s_timeline.xlsx", sanitizeFilename(timeline.CourseName))
	return buf, filename, nil
}

// ── 辅助函数 ──

func (s *exportService) loadTimeline(ctx context.Context, timelineID string) (*model.Timeline, error) {
	timeline, err := s.repo.Timeline.GetByID(ctx, timelineID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTimelineNotFound
		}
		s.logger.Error("查询时间线失败", zap.Error(err))
		return nil, err
	}
	if len(timeline.Events) == 0 {
		return nil, ErrExportNoEvents
	}
	return timeline, nil
}

func eventTypeLabel(eventType string) string {
	switch eventType {
	case model.EventTypeStudy:
		return "Study"
	case model.EventTypeDeadline:
		return "Deadline"
	case model.EventTypeMilestone:
		return "Review"
	default:
		return eventType
	}
}

// sanitizeFilename 课程名中不适合做文件名的字符替换为下划线
func sanitizeFilename(name string) string {
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_")
	return replacer.Replace(name)
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
