package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User         UserRepository
	Topic        TopicRepository
	Thesis       ThesisRepository
	Invitation   InvitationRepository
	Evaluation   EvaluationRepository
	Note         NoteRepository
	Announcement AnnouncementRepository
	Stats        StatsRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:         NewUserRepo(db),
		Topic:        NewTopicRepo(db),
		Thesis:       NewThesisRepo(db),
		Invitation:   NewInvitationRepo(db),
		Evaluation:   NewEvaluationRepo(db),
		Note:         NewNoteRepo(db),
		Announcement: NewAnnouncementRepo(db),
		Stats:        NewStatsRepo(db),
	}
}
