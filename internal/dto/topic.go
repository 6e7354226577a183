package dto

// ── 题目模块 DTO ──

// CreateTopicRequest 创建题目请求（multipart 表单，附件另行处理）
type CreateTopicRequest struct {
	Title       string `form:"title"       binding:"required,min=3,max=255"`
	Description string `form:"description" binding:"omitempty,max=5000"`
}

// UpdateTopicRequest 更新题目请求
type UpdateTopicRequest struct {
	Title       *string `form:"title"       binding:"omitempty,min=3,max=255"`
	Description *string `form:"description" binding:"omitempty,max=5000"`
}

// TopicListRequest 题目列表请求
type TopicListRequest struct {
	PaginationRequest
	ProfessorID string `form:"professor_id" binding:"omitempty,uuid"`
	Keyword     string `form:"keyword"      binding:"omitempty,max=100"`
}

// AssignTopicRequest 题目分配请求（晋升为论文）
type AssignTopicRequest struct {
	StudentID string `json:"student_id" binding:"required,uuid"`
}

// TopicResponse 题目响应
type TopicResponse struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	HasAttachment bool   `json:"has_attachment"`
	ProfessorID   string `json:"professor_id"`
	ProfessorName string `json:"professor_name,omitempty"`
	CreatedAt     string `json:"created_at"`
}
