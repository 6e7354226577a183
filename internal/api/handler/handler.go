package handler

import "github.com/stamelosxp/upThesis-sub000/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth         *AuthHandler
	User         *UserHandler
	Topic        *TopicHandler
	Assignment   *AssignmentHandler
	Invitation   *InvitationHandler
	Evaluation   *EvaluationHandler
	Note         *NoteHandler
	Announcement *AnnouncementHandler
	Stats        *StatsHandler
	Export       *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(svc.Auth),
		User:         NewUserHandler(svc.User),
		Topic:        NewTopicHandler(svc.Topic),
		Assignment:   NewAssignmentHandler(svc.Assignment),
		Invitation:   NewInvitationHandler(svc.Invitation),
		Evaluation:   NewEvaluationHandler(svc.Evaluation),
		Note:         NewNoteHandler(svc.Note),
		Announcement: NewAnnouncementHandler(svc.Announcement),
		Stats:        NewStatsHandler(svc.Stats),
		Export:       NewExportHandler(svc.Export),
	}
}
