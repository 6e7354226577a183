package model

import "time"

// ProfessorStats 教授论文统计汇总 — 对应 professor_stats
// 论文完成时异步重算（见 StatsService）
type ProfessorStats struct {
	ProfessorID     string    `gorm:"type:uuid;primaryKey"   json:"professor_id"`
	SupervisedCount int64     `gorm:"not null;default:0"     json:"supervised_count"`
	MemberCount     int64     `gorm:"not null;default:0"     json:"member_count"`
	CompletedCount  int64     `gorm:"not null;default:0"     json:"completed_count"`
	AvgFinalGrade   *float64  `gorm:"type:numeric(4,2)"      json:"avg_final_grade,omitempty"`
	UpdatedAt       time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName 指定表名
func (ProfessorStats) TableName() string { return "professor_stats" }
