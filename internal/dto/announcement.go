package dto

// ── 公告模块 DTO ──

// CreateAnnouncementRequest 创建公告请求（秘书处）
type CreateAnnouncementRequest struct {
	Title    string  `json:"title"     binding:"required,min=3,max=255"`
	Body     string  `json:"body"      binding:"omitempty,max=10000"`
	ThesisID *string `json:"thesis_id" binding:"omitempty,uuid"`
}

// UpdateAnnouncementRequest 更新公告请求
type UpdateAnnouncementRequest struct {
	Title *string `json:"title" binding:"omitempty,min=3,max=255"`
	Body  *string `json:"body"  binding:"omitempty,max=10000"`
}

// AnnouncementResponse 公告响应
type AnnouncementResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Body        string  `json:"body"`
	ThesisID    *string `json:"thesis_id,omitempty"`
	ThesisTitle string  `json:"thesis_title,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

// ── 统计模块 DTO ──

// ProfessorStatsResponse 教授统计响应
type ProfessorStatsResponse struct {
	ProfessorID     string   `json:"professor_id"`
	SupervisedCount int64    `json:"supervised_count"`
	MemberCount     int64    `json:"member_count"`
	CompletedCount  int64    `json:"completed_count"`
	AvgFinalGrade   *float64 `json:"avg_final_grade,omitempty"`
	UpdatedAt       string   `json:"updated_at"`
}
