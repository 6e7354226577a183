package dto

// ── 备注模块 DTO ──

// CreateNoteRequest 创建备注请求
type CreateNoteRequest struct {
	Content string `json:"content" binding:"required,max=5000"`
}

// UpdateNoteRequest 更新备注请求
type UpdateNoteRequest struct {
	Content string `json:"content" binding:"required,max=5000"`
}

// NoteResponse 备注响应
type NoteResponse struct {
	ID          string `json:"id"`
	ThesisID    string `json:"thesis_id"`
	ProfessorID string `json:"professor_id"`
	Content     string `json:"content"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}
