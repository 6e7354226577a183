package model

// ── 邀请状态 ──
// pending 为唯一可答复状态；accepted/rejected 为终态，不可重开

const (
	InvitationPending  = "pending"
	InvitationAccepted = "accepted"
	InvitationRejected = "rejected"
)

// Invitation 共同指导邀请 — 对应 invitations
// (thesis_id, professor_id) 唯一约束保证同一教授对同一论文至多一条邀请
type Invitation struct {
	InvitationID  string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"invitation_id"`
	ThesisID      string `gorm:"type:uuid;not null"                             json:"thesis_id"`
	ProfessorID   string `gorm:"type:uuid;not null"                             json:"professor_id"`
	ProfessorName string `gorm:"type:varchar(100);not null"                     json:"professor_name"`
	Status        string `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"`
	BaseModel

	// 关联
	Thesis *Thesis `gorm:"foreignKey:ThesisID;references:ThesisID" json:"thesis,omitempty"`
}

// TableName 指定表名
func (Invitation) TableName() string { return "invitations" }
