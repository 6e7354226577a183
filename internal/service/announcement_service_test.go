package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/stamelosxp/upThesis-sub000/internal/dto"
	"github.com/stamelosxp/upThesis-sub000/internal/model"
)

func setupTestAnnouncementService() (AnnouncementService, *mockRepos) {
	repo, m := newMockRepos()
	svc := NewAnnouncementService(repo, zap.NewNop())
	return svc, m
}

func TestAnnouncementService_Create_Success(t *testing.T) {
	svc, m := setupTestAnnouncementService()

	result, err := svc.Create(context.Background(), &dto.CreateAnnouncementRequest{
		Title: "答辩安排通知",
		Body:  "六月答辩场次已排定",
	}, "sec-001")
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if result.Title != "答辩安排通知" {
		t.Errorf("期望标题一致，实际=%s", result.Title)
	}
	if len(m.announcements.announcements) != 1 {
		t.Errorf("期望 1 条公告记录，实际=%d", len(m.announcements.announcements))
	}
}

func TestAnnouncementService_Create_UnknownThesis(t *testing.T) {
	svc, _ := setupTestAnnouncementService()
	ghost := "th-ghost"

	_, err := svc.Create(context.Background(), &dto.CreateAnnouncementRequest{
		Title:    "关联不存在的论文",
		ThesisID: &ghost,
	}, "sec-001")
	if !errors.Is(err, ErrThesisNotFound) {
		t.Errorf("期望 ErrThesisNotFound，实际: %v", err)
	}
}

func TestAnnouncementService_Create_LinkedThesis(t *testing.T) {
	svc, m := setupTestAnnouncementService()
	m.theses.theses["th-001"] = &model.Thesis{ThesisID: "th-001", Title: "论文A", Status: model.StatusReview}
	thesisID := "th-001"

	result, err := svc.Create(context.Background(), &dto.CreateAnnouncementRequest{
		Title:    "论文A 答辩通知",
		ThesisID: &thesisID,
	}, "sec-001")
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if result.ThesisID == nil || *result.ThesisID != "th-001" {
		t.Error("应保留论文关联")
	}
}

func TestAnnouncementService_Update_NotFound(t *testing.T) {
	svc, _ := setupTestAnnouncementService()
	title := "新标题"

	_, err := svc.Update(context.Background(), "ghost", &dto.UpdateAnnouncementRequest{Title: &title}, "sec-001")
	if !errors.Is(err, ErrAnnouncementNotFound) {
		t.Errorf("期望 ErrAnnouncementNotFound，实际: %v", err)
	}
}

func TestAnnouncementService_Delete_Success(t *testing.T) {
	svc, m := setupTestAnnouncementService()
	m.announcements.announcements["an-001"] = &model.Announcement{AnnouncementID: "an-001", Title: "旧公告"}

	if err := svc.Delete(context.Background(), "an-001", "sec-001"); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), "an-001"); !errors.Is(err, ErrAnnouncementNotFound) {
		t.Errorf("删除后期望 ErrAnnouncementNotFound，实际: %v", err)
	}
}
