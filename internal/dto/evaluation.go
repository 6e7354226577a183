package dto

// ── 评审模块 DTO ──

// SubmitGradesRequest 提交评分请求（委员会成员，按角色写入）
// 四项子评分均为 0-10
type SubmitGradesRequest struct {
	Quality      float64 `json:"quality"      binding:"min=0,max=10"`
	Duration     float64 `json:"duration"     binding:"min=0,max=10"`
	Report       float64 `json:"report"       binding:"min=0,max=10"`
	Presentation float64 `json:"presentation" binding:"min=0,max=10"`
}

// SubmitProtocolRequest 答辩纪要请求（导师）
type SubmitProtocolRequest struct {
	DateTime   string  `json:"date_time"   binding:"required"` // RFC3339
	Place      string  `json:"place"       binding:"required,max=255"`
	TmpGrade   float64 `json:"tmp_grade"   binding:"min=0,max=10"`
	FinalGrade float64 `json:"final_grade" binding:"min=0,max=10"`
}

// GradeSetResponse 单角色子评分
type GradeSetResponse struct {
	Quality      *float64 `json:"quality,omitempty"`
	Duration     *float64 `json:"duration,omitempty"`
	Report       *float64 `json:"report,omitempty"`
	Presentation *float64 `json:"presentation,omitempty"`
}

// EvaluationResponse 评审记录响应
type EvaluationResponse struct {
	ID             string  `json:"id"`
	ThesisID       string  `json:"thesis_id"`
	StudentName    string  `json:"student_name"`
	SupervisorName string  `json:"supervisor_name"`
	MemberAName    *string `json:"member_a_name,omitempty"`
	MemberBName    *string `json:"member_b_name,omitempty"`

	Supervisor GradeSetResponse `json:"supervisor"`
	MemberA    GradeSetResponse `json:"member_a"`
	MemberB    GradeSetResponse `json:"member_b"`

	ProtocolDateTime string   `json:"protocol_date_time,omitempty"`
	ProtocolPlace    *string  `json:"protocol_place,omitempty"`
	SuggestedGrade   *float64 `json:"suggested_grade,omitempty"`
	FinalGrade       *float64 `json:"final_grade,omitempty"`
}
