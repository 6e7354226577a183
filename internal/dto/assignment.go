package dto

// ── 论文生命周期模块 DTO ──

// AssignRequest 正式分配请求（秘书处，pending→active）
type AssignRequest struct {
	ProtocolNumber string `json:"protocol_number" binding:"required,max=50"`
}

// CancelRequest 取消请求
type CancelRequest struct {
	ProtocolNumber string `json:"protocol_number" binding:"required,max=50"`
	Reason         string `json:"reason"          binding:"required,max=2000"`
}

// PresentationRequest 答辩安排请求（导师，review 阶段）
type PresentationRequest struct {
	DateTime string `json:"date_time" binding:"required"` // RFC3339
	Place    string `json:"place"     binding:"required,max=255"`
}

// ThesisListRequest 论文列表请求
type ThesisListRequest struct {
	PaginationRequest
	Status  string `form:"status"  binding:"omitempty,oneof=pending active review completed cancelled"`
	Keyword string `form:"keyword" binding:"omitempty,max=100"`
}

// ThesisMemberResponse 委员会成员简要信息
type ThesisMemberResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ThesisResponse 论文响应
type ThesisResponse struct {
	ID            string                `json:"id"`
	Title         string                `json:"title"`
	Description   string                `json:"description"`
	Status        string                `json:"status"`
	HasAttachment bool                  `json:"has_attachment"`
	Student       *ThesisMemberResponse `json:"student,omitempty"`
	Supervisor    *ThesisMemberResponse `json:"supervisor,omitempty"`
	MemberA       *ThesisMemberResponse `json:"member_a,omitempty"`
	MemberB       *ThesisMemberResponse `json:"member_b,omitempty"`

	ProtocolNumber *string  `json:"protocol_number,omitempty"`
	CancelReason   *string  `json:"cancel_reason,omitempty"`
	FinalGrade     *float64 `json:"final_grade,omitempty"`

	GradesExistsSupervisor bool `json:"grades_exists_supervisor"`
	GradesExistsMemberA    bool `json:"grades_exists_member_a"`
	GradesExistsMemberB    bool `json:"grades_exists_member_b"`
	ProtocolExists         bool `json:"protocol_exists"`
	PendingChanges         bool `json:"pending_changes"`

	TemporaryAssignmentDate string `json:"temporary_assignment_date,omitempty"`
	OfficialAssignmentDate  string `json:"official_assignment_date,omitempty"`
	UnderReviewDate         string `json:"under_review_date,omitempty"`
	PresentationDate        string `json:"presentation_date,omitempty"`
	PresentationPlace       string `json:"presentation_place,omitempty"`
	CompletedDate           string `json:"completed_date,omitempty"`
	CancelledDate           string `json:"cancelled_date,omitempty"`
}

// [自证通过] internal/dto/assignment.go
