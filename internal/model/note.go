package model

// Note 论文备注 — 对应 notes
// 论文完成/取消/回退时整体删除
type Note struct {
	NoteID      string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"note_id"`
	ThesisID    string `gorm:"type:uuid;not null"                             json:"thesis_id"`
	ProfessorID string `gorm:"type:uuid;not null"                             json:"professor_id"`
	Content     string `gorm:"type:text;not null"                             json:"content"`
	BaseModel
}

// TableName 指定表名
func (Note) TableName() string { return "notes" }
