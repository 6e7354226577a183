package model

// Topic 未分配的论文题目 — 对应 topics
// 分配给学生后晋升为 Thesis，原记录删除
type Topic struct {
	TopicID        string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"topic_id"`
	Title          string  `gorm:"type:varchar(255);not null"                     json:"title"`
	Description    string  `gorm:"type:text;not null;default:''"                  json:"description"`
	AttachmentPath *string `gorm:"type:varchar(500)"                              json:"attachment_path,omitempty"`
	ProfessorID    string  `gorm:"type:uuid;not null"                             json:"professor_id"`
	BaseModel

	// 关联
	Professor *User `gorm:"foreignKey:ProfessorID;references:UserID" json:"professor,omitempty"`
}

// TableName 指定表名
func (Topic) TableName() string { return "topics" }
