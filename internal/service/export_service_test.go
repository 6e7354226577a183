package service

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/stamelosxp/upThesis-sub000/internal/model"
)

func setupTestExportService() (ExportService, *mockRepos) {
	repo, m := newMockRepos()
	svc := NewExportService(repo, zap.NewNop())
	return svc, m
}

func TestExportService_CompletedThesesXLSX(t *testing.T) {
	svc, m := setupTestExportService()
	grade := 8.5
	protocol := "PR-2026-001"
	assigned := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
	completed := time.Date(2026, 6, 20, 0, 0, 0, 0, time.UTC)
	m.theses.theses["th-001"] = &model.Thesis{
		ThesisID:               "th-001",
		Title:                  "论文A",
		Status:                 model.StatusCompleted,
		SupervisorID:           "prof-001",
		Supervisor:             &model.User{UserID: "prof-001", Name: "王教授"},
		Student:                &model.User{UserID: "stu-001", Name: "张三"},
		FinalGrade:             &grade,
		ProtocolNumber:         &protocol,
		OfficialAssignmentDate: &assigned,
		CompletedDate:          &completed,
	}
	m.theses.theses["th-002"] = &model.Thesis{ThesisID: "th-002", Title: "进行中论文", Status: model.StatusActive}

	data, err := svc.CompletedThesesXLSX(context.Background())
	if err != nil {
		t.Fatalf("CompletedThesesXLSX 应成功: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("生成的报表应可解析: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("已完成论文")
	if err != nil {
		t.Fatalf("读取工作表失败: %v", err)
	}
	// 表头 + 仅已完成的一行
	if len(rows) != 2 {
		t.Fatalf("期望 2 行（表头+1条数据），实际=%d", len(rows))
	}
	if rows[1][0] != "论文A" || rows[1][1] != "张三" || rows[1][2] != "王教授" {
		t.Errorf("数据行不符: %v", rows[1])
	}
	if rows[1][8] != "PR-2026-001" {
		t.Errorf("期望记录编号 PR-2026-001，实际=%s", rows[1][8])
	}
}

func TestExportService_DefenseCalendarICS(t *testing.T) {
	svc, m := setupTestExportService()
	when := time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)
	place := "会议室 B201"
	m.theses.theses["th-001"] = &model.Thesis{
		ThesisID:          "th-001",
		Title:             "论文A",
		Status:            model.StatusReview,
		PresentationDate:  &when,
		PresentationPlace: &place,
		Student:           &model.User{UserID: "stu-001", Name: "张三"},
	}
	// 未安排答辩的送审论文不出现在日历中
	m.theses.theses["th-002"] = &model.Thesis{ThesisID: "th-002", Title: "论文B", Status: model.StatusReview}

	data, err := svc.DefenseCalendarICS(context.Background())
	if err != nil {
		t.Fatalf("DefenseCalendarICS 应成功: %v", err)
	}

	out := string(data)
	if !strings.Contains(out, "BEGIN:VCALENDAR") {
		t.Error("输出应为 iCalendar 格式")
	}
	if strings.Count(out, "BEGIN:VEVENT") != 1 {
		t.Errorf("期望仅 1 个事件，实际=%d", strings.Count(out, "BEGIN:VEVENT"))
	}
	if !strings.Contains(out, "defense-th-001@upthesis") {
		t.Error("事件 UID 应包含论文标识")
	}
	if !strings.Contains(out, "会议室 B201") {
		t.Error("事件应带答辩地点")
	}
}

func TestExportService_DefenseCalendarICS_Empty(t *testing.T) {
	svc, _ := setupTestExportService()

	data, err := svc.DefenseCalendarICS(context.Background())
	if err != nil {
		t.Fatalf("空日历导出应成功: %v", err)
	}
	if strings.Contains(string(data), "BEGIN:VEVENT") {
		t.Error("无答辩安排时不应有事件")
	}
}
