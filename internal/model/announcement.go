package model

// Announcement 公告 — 对应 announcements
// 答辩公告可关联论文（答辩时间地点来自论文记录）
type Announcement struct {
	AnnouncementID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"announcement_id"`
	Title          string  `gorm:"type:varchar(255);not null"                     json:"title"`
	Body           string  `gorm:"type:text;not null;default:''"                  json:"body"`
	ThesisID       *string `gorm:"type:uuid"                                      json:"thesis_id,omitempty"`
	AuthorID       string  `gorm:"type:uuid;not null"                             json:"author_id"`
	SoftDeleteModel

	// 关联
	Thesis *Thesis `gorm:"foreignKey:ThesisID;references:ThesisID" json:"thesis,omitempty"`
}

// TableName 指定表名
func (Announcement) TableName() string { return "announcements" }
