package dto

// ── 邀请模块 DTO ──

// SendInvitationsRequest 批量发送邀请请求（导师）
type SendInvitationsRequest struct {
	ProfessorIDs []string `json:"professor_ids" binding:"required,min=1,dive,uuid"`
}

// SendInvitationsResponse 发送结果（跳过已邀请/不存在的候选人）
type SendInvitationsResponse struct {
	Sent    int `json:"sent"`
	Skipped int `json:"skipped"`
}

// ReplyInvitationRequest 答复邀请请求（被邀请教授）
type ReplyInvitationRequest struct {
	Status string `json:"status" binding:"required,oneof=accepted rejected"`
}

// ReplyInvitationResponse 答复结果
type ReplyInvitationResponse struct {
	Status       string `json:"status"`
	AssignedSlot string `json:"assigned_slot,omitempty"` // member_a | member_b（仅接受时）
}

// InvitationResponse 邀请响应
type InvitationResponse struct {
	ID            string `json:"id"`
	ThesisID      string `json:"thesis_id"`
	ThesisTitle   string `json:"thesis_title,omitempty"`
	ProfessorID   string `json:"professor_id"`
	ProfessorName string `json:"professor_name"`
	Status        string `json:"status"`
	CreatedAt     string `json:"created_at"`
}
