package dto

// ── 用户模块 DTO ──

// CreateUserRequest 创建用户请求（秘书处）
type CreateUserRequest struct {
	Name     string `json:"name"     binding:"required,min=2,max=100"`
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email"    binding:"required,email"`
	Role     string `json:"role"     binding:"required,oneof=student professor secretary"`
}

// CreateUserResponse 创建用户响应（含一次性初始密码）
type CreateUserResponse struct {
	User         *UserResponse `json:"user"`
	TempPassword string        `json:"temp_password"`
}

// UpdateUserRequest 更新用户请求（仅更新非 nil 字段）
type UpdateUserRequest struct {
	Name  *string `json:"name"  binding:"omitempty,min=2,max=100"`
	Email *string `json:"email" binding:"omitempty,email"`
}

// UserListRequest 用户列表请求
type UserListRequest struct {
	PaginationRequest
	Role    string `form:"role"    binding:"omitempty,oneof=student professor secretary"`
	Keyword string `form:"keyword" binding:"omitempty,max=100"`
}

// ResetPasswordResponse 重置密码响应
type ResetPasswordResponse struct {
	TempPassword string `json:"temp_password"`
}

// ImportUserError 批量导入的单行错误
type ImportUserError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportUserResponse 批量导入结果
type ImportUserResponse struct {
	Imported int               `json:"imported"`
	Skipped  int               `json:"skipped"`
	Errors   []ImportUserError `json:"errors,omitempty"`
}
