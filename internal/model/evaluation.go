package model

import "time"

// GradeSet 单个评审角色的四项子评分（0-10，schema 层 CHECK 校验）
type GradeSet struct {
	Quality      *float64 `gorm:"type:numeric(4,2)" json:"quality,omitempty"`
	Duration     *float64 `gorm:"type:numeric(4,2)" json:"duration,omitempty"`
	Report       *float64 `gorm:"type:numeric(4,2)" json:"report,omitempty"`
	Presentation *float64 `gorm:"type:numeric(4,2)" json:"presentation,omitempty"`
}

// Submitted 判断该角色是否已提交过评分
func (g *GradeSet) Submitted() bool {
	return g.Quality != nil || g.Duration != nil || g.Report != nil || g.Presentation != nil
}

// Evaluation 论文评审记录 — 对应 evaluations
// 每篇论文至多一份（thesis_id 唯一约束），首次提交评分时惰性创建，
// 创建时快照学生与委员会姓名；各角色子评分独立写入，后写覆盖
type Evaluation struct {
	EvaluationID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"evaluation_id"`
	ThesisID     string `gorm:"type:uuid;not null;uniqueIndex"                 json:"thesis_id"`

	// 创建时的姓名快照
	StudentName    string  `gorm:"type:varchar(100);not null;default:''" json:"student_name"`
	SupervisorName string  `gorm:"type:varchar(100);not null;default:''" json:"supervisor_name"`
	MemberAName    *string `gorm:"type:varchar(100)"                     json:"member_a_name,omitempty"`
	MemberBName    *string `gorm:"type:varchar(100)"                     json:"member_b_name,omitempty"`

	Supervisor GradeSet `gorm:"embedded;embeddedPrefix:supervisor_" json:"supervisor"`
	MemberA    GradeSet `gorm:"embedded;embeddedPrefix:member_a_"   json:"member_a"`
	MemberB    GradeSet `gorm:"embedded;embeddedPrefix:member_b_"   json:"member_b"`

	// 答辩纪要（protocol）
	ProtocolDateTime *time.Time `json:"protocol_date_time,omitempty"`
	ProtocolPlace    *string    `gorm:"type:varchar(255)" json:"protocol_place,omitempty"`
	SuggestedGrade   *float64   `gorm:"type:numeric(4,2)" json:"suggested_grade,omitempty"`
	FinalGrade       *float64   `gorm:"type:numeric(4,2)" json:"final_grade,omitempty"`

	BaseModel
}

// TableName 指定表名
func (Evaluation) TableName() string { return "evaluations" }

// GradesOf 返回指定角色的子评分组指针，未知角色返回 nil
func (e *Evaluation) GradesOf(role string) *GradeSet {
	switch role {
	case ThesisRoleSupervisor:
		return &e.Supervisor
	case ThesisRoleMemberA:
		return &e.MemberA
	case ThesisRoleMemberB:
		return &e.MemberB
	}
	return nil
}

// [自证通过] internal/model/evaluation.go
