package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/stamelosxp/upThesis-sub000/config"
	"github.com/stamelosxp/upThesis-sub000/internal/dto"
	"github.com/stamelosxp/upThesis-sub000/internal/model"
	"github.com/stamelosxp/upThesis-sub000/internal/repository"
	apperrors "github.com/stamelosxp/upThesis-sub000/pkg/errors"
	"github.com/stamelosxp/upThesis-sub000/pkg/filestore"
)

// ── 测试辅助 ──

func newTestStore(t *testing.T) *filestore.Store {
	t.Helper()
	store, err := filestore.NewStore(&config.StorageConfig{
		UploadDir:      t.TempDir(),
		MaxUploadBytes: 1 << 20,
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("创建测试存储失败: %v", err)
	}
	return store
}

func setupTestAssignmentService(t *testing.T) (AssignmentService, *repository.Repository, *mockRepos) {
	t.Helper()
	repo, m := newMockRepos()
	logger := zap.NewNop()
	stats := NewStatsService(repo, logger)
	svc := NewAssignmentService(repo, newTestStore(t), stats, logger)
	return svc, repo, m
}

func seedProfessor(m *mockRepos, id, name string) {
	m.users.users[id] = &model.User{UserID: id, Name: name, Role: model.RoleProfessor}
}

func seedStudent(m *mockRepos, id, name string) {
	m.users.users[id] = &model.User{UserID: id, Name: name, Role: model.RoleStudent}
}

func seedThesis(m *mockRepos, id, status, supervisorID string, studentID *string) *model.Thesis {
	thesis := &model.Thesis{
		ThesisID:     id,
		Title:        "分布式缓存一致性研究",
		Status:       status,
		SupervisorID: supervisorID,
		StudentID:    studentID,
	}
	m.theses.theses[id] = thesis
	return thesis
}

// ── AssignTopic 测试 ──

func TestAssignmentService_AssignTopic_Success(t *testing.T) {
	svc, _, m := setupTestAssignmentService(t)
	seedProfessor(m, "prof-001", "王教授")
	seedStudent(m, "stu-001", "张三")
	m.topics.topics["topic-001"] = &model.Topic{
		TopicID:     "topic-001",
		Title:       "分布式缓存一致性研究",
		ProfessorID: "prof-001",
	}

	result, err := svc.AssignTopic(context.Background(), "topic-001",
		&dto.AssignTopicRequest{StudentID: "stu-001"}, "prof-001", model.RoleProfessor)
	if err != nil {
		t.Fatalf("AssignTopic 应成功: %v", err)
	}
	if result.Status != model.StatusPending {
		t.Errorf("期望Status=pending，实际=%s", result.Status)
	}
	if result.TemporaryAssignmentDate == "" {
		t.Error("临时分配日期应已记录")
	}

	// 题目应删除，学生应关联论文
	if _, ok := m.topics.topics["topic-001"]; ok {
		t.Error("已晋升题目应被删除")
	}
	if !m.users.users["stu-001"].HasThesis {
		t.Error("学生应标记 HasThesis")
	}
}

func TestAssignmentService_AssignTopic_StudentAlreadyAssigned(t *testing.T) {
	svc, _, m := setupTestAssignmentService(t)
	seedProfessor(m, "prof-001", "王教授")
	seedStudent(m, "stu-001", "张三")
	m.users.users["stu-001"].HasThesis = true
	m.topics.topics["topic-001"] = &model.Topic{TopicID: "topic-001", Title: "题目A", ProfessorID: "prof-001"}

	_, err := svc.AssignTopic(context.Background(), "topic-001",
		&dto.AssignTopicRequest{StudentID: "stu-001"}, "prof-001", model.RoleProfessor)
	if !errors.Is(err, ErrStudentHasThesis) {
		t.Errorf("期望 ErrStudentHasThesis，实际: %v", err)
	}
}

func TestAssignmentService_AssignTopic_NotOwner(t *testing.T) {
	svc, _, m := setupTestAssignmentService(t)
	seedProfessor(m, "prof-001", "王教授")
	seedProfessor(m, "prof-002", "李教授")
	seedStudent(m, "stu-001", "张三")
	m.topics.topics["topic-001"] = &model.Topic{TopicID: "topic-001", Title: "题目A", ProfessorID: "prof-001"}

	_, err := svc.AssignTopic(context.Background(), "topic-001",
		&dto.AssignTopicRequest{StudentID: "stu-001"}, "prof-002", model.RoleProfessor)
	if !errors.Is(err, ErrNoPermission) {
		t.Errorf("期望 ErrNoPermission，实际: %v", err)
	}
}

// ── Assign 测试 ──

func TestAssignmentService_Assign_Success(t *testing.T) {
	svc, _, m := setupTestAssignmentService(t)
	studentID := "stu-001"
	seedThesis(m, "th-001", model.StatusPending, "prof-001", &studentID)

	result, err := svc.Assign(context.Background(), "th-001", &dto.AssignRequest{ProtocolNumber: "ΓΣ 12/2026"})
	if err != nil {
		t.Fatalf("Assign 应成功: %v", err)
	}
	if result.Status != model.StatusActive {
		t.Errorf("期望Status=active，实际=%s", result.Status)
	}
	if result.ProtocolNumber == nil || *result.ProtocolNumber != "ΓΣ 12/2026" {
		t.Error("记录编号应已保存")
	}
	if result.OfficialAssignmentDate == "" {
		t.Error("正式分配日期应已记录")
	}
	if result.PendingChanges {
		t.Error("正式分配后 pending_changes 应复位")
	}
}

func TestAssignmentService_Assign_WrongStatus(t *testing.T) {
	svc, _, m := setupTestAssignmentService(t)
	seedThesis(m, "th-001", model.StatusActive, "prof-001", nil)

	_, err := svc.Assign(context.Background(), "th-001", &dto.AssignRequest{ProtocolNumber: "1/2026"})
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("期望 ErrInvalidTransition，实际: %v", err)
	}
}

func TestAssignmentService_Assign_ConcurrentLoser(t *testing.T) {
	svc, repo, m := setupTestAssignmentService(t)
	seedThesis(m, "th-001", model.StatusPending, "prof-001", nil)

	// 模拟并发：预检通过后、条件更新前状态被他人修改
	if err := repo.Thesis.UpdateStatusFrom(context.Background(), "th-001",
		[]string{model.StatusPending},
		map[string]interface{}{"status": model.StatusCancelled}); err != nil {
		t.Fatalf("预置状态失败: %v", err)
	}

	err := repo.Thesis.UpdateStatusFrom(context.Background(), "th-001",
		[]string{model.StatusPending},
		map[string]interface{}{"status": model.StatusActive})
	if !errors.Is(err, apperrors.ErrOptimisticLock) {
		t.Errorf("并发落败方期望 ErrOptimisticLock，实际: %v", err)
	}

	// 终态后业务层也应拒绝
	if _, err := svc.Assign(context.Background(), "th-001", &dto.AssignRequest{ProtocolNumber: "1/2026"}); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("终态论文期望 ErrInvalidTransition，实际: %v", err)
	}
}

// ── Review 测试 ──

func TestAssignmentService_Review_Success(t *testing.T) {
	svc, _, m := setupTestAssignmentService(t)
	seedThesis(m, "th-001", model.StatusActive, "prof-001", nil)

	result, err := svc.Review(context.Background(), "th-001", "prof-001")
	if err != nil {
		t.Fatalf("Review 应成功: %v", err)
	}
	if result.Status != model.StatusReview {
		t.Errorf("期望Status=review，实际=%s", result.Status)
	}
}

func TestAssignmentService_Review_NotSupervisor(t *testing.T) {
	svc, _, m := setupTestAssignmentService(t)
	thesis := seedThesis(m, "th-001", model.StatusActive, "prof-001", nil)
	memberID := "prof-002"
	thesis.MemberAID = &memberID

	// 委员会成员但非导师：拒绝
	_, err := svc.Review(context.Background(), "th-001", "prof-002")
	if !errors.Is(err, ErrNotSupervisor) {
		t.Errorf("期望 ErrNotSupervisor，实际: %v", err)
	}
}

// ── Complete 测试 ──

func TestAssignmentService_Complete_FromReview(t *testing.T) {
	svc, _, m := setupTestAssignmentService(t)
	studentID := "stu-001"
	seedStudent(m, studentID, "张三")
	thesis := seedThesis(m, "th-001", model.StatusReview, "prof-001", &studentID)
	attachment := "th-001.pdf"
	thesis.AttachmentPath = &attachment
	m.notes.notes["note-001"] = &model.Note{NoteID: "note-001", ThesisID: "th-001", ProfessorID: "prof-001", Content: "初稿意见"}

	result, err := svc.Complete(context.Background(), "th-001")
	if err != nil {
		t.Fatalf("Complete 应成功: %v", err)
	}
	if result.Status != model.StatusCompleted {
		t.Errorf("期望Status=completed，实际=%s", result.Status)
	}
	if result.CompletedDate == "" {
		t.Error("完成日期应已记录")
	}

	// 权威状态提交后的清理：附件与备注删除
	if m.theses.theses["th-001"].AttachmentPath != nil {
		t.Error("完成后附件路径应清空")
	}
	if len(m.notes.notes) != 0 {
		t.Error("完成后论文备注应整体删除")
	}
}

func TestAssignmentService_Complete_TerminalImmutable(t *testing.T) {
	svc, _, m := setupTestAssignmentService(t)
	seedThesis(m, "th-001", model.StatusCompleted, "prof-001", nil)
	seedThesis(m, "th-002", model.StatusCancelled, "prof-001", nil)

	if _, err := svc.Complete(context.Background(), "th-001"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("completed 为终态，期望 ErrInvalidTransition，实际: %v", err)
	}
	if _, err := svc.Complete(context.Background(), "th-002"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("cancelled 为终态，期望 ErrInvalidTransition，实际: %v", err)
	}
}

// ── Cancel 测试 ──

func TestAssignmentService_Cancel_BySecretary(t *testing.T) {
	svc, _, m := setupTestAssignmentService(t)
	studentID := "stu-001"
	seedStudent(m, studentID, "张三")
	m.users.users[studentID].HasThesis = true
	seedThesis(m, "th-001", model.StatusPending, "prof-001", &studentID)

	result, err := svc.Cancel(context.Background(), "th-001",
		&dto.CancelRequest{ProtocolNumber: "ΓΣ 3/2026", Reason: "学生退学"},
		"sec-001", model.RoleSecretary)
	if err != nil {
		t.Fatalf("秘书处取消应成功: %v", err)
	}
	if result.Status != model.StatusCancelled {
		t.Errorf("期望Status=cancelled，实际=%s", result.Status)
	}
	if result.CancelReason == nil || *result.CancelReason != "学生退学" {
		t.Error("取消原因应已保存")
	}

	// 学生重新可被分配
	if m.users.users[studentID].HasThesis {
		t.Error("取消后学生应解除论文关联")
	}
}

func TestAssignmentService_Cancel_SupervisorWindowNotReached(t *testing.T) {
	svc, _, m := setupTestAssignmentService(t)
	thesis := seedThesis(m, "th-001", model.StatusActive, "prof-001", nil)
	recent := time.Now().AddDate(-1, 0, 0) // 仅一年前
	thesis.OfficialAssignmentDate = &recent

	_, err := svc.Cancel(context.Background(), "th-001",
		&dto.CancelRequest{ProtocolNumber: "1/2026", Reason: "进展停滞"},
		"prof-001", model.RoleProfessor)
	if !errors.Is(err, ErrCancelWindowNotReached) {
		t.Errorf("期望 ErrCancelWindowNotReached，实际: %v", err)
	}
}

func TestAssignmentService_Cancel_SupervisorAfterWindow(t *testing.T) {
	svc, _, m := setupTestAssignmentService(t)
	thesis := seedThesis(m, "th-001", model.StatusActive, "prof-001", nil)
	old := time.Now().AddDate(-2, -1, 0) // 两年零一个月前
	thesis.OfficialAssignmentDate = &old

	result, err := svc.Cancel(context.Background(), "th-001",
		&dto.CancelRequest{ProtocolNumber: "1/2026", Reason: "进展停滞"},
		"prof-001", model.RoleProfessor)
	if err != nil {
		t.Fatalf("满两年后导师取消应成功: %v", err)
	}
	if result.Status != model.StatusCancelled {
		t.Errorf("期望Status=cancelled，实际=%s", result.Status)
	}
}

func TestAssignmentService_Cancel_SupervisorWrongStatus(t *testing.T) {
	svc, _, m := setupTestAssignmentService(t)
	seedThesis(m, "th-001", model.StatusPending, "prof-001", nil)

	// 导师仅可取消 active 论文
	_, err := svc.Cancel(context.Background(), "th-001",
		&dto.CancelRequest{ProtocolNumber: "1/2026", Reason: "放弃"},
		"prof-001", model.RoleProfessor)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("期望 ErrInvalidTransition，实际: %v", err)
	}
}

// ── CancelTemporary 测试 ──

func TestAssignmentService_CancelTemporary_Revert(t *testing.T) {
	svc, _, m := setupTestAssignmentService(t)
	studentID := "stu-001"
	seedStudent(m, studentID, "张三")
	m.users.users[studentID].HasThesis = true
	thesis := seedThesis(m, "th-001", model.StatusPending, "prof-001", &studentID)
	attachment := "spec.pdf"
	thesis.AttachmentPath = &attachment
	m.invitations.invitations["inv-001"] = &model.Invitation{
		InvitationID: "inv-001", ThesisID: "th-001", ProfessorID: "prof-002", Status: model.InvitationPending,
	}
	m.notes.notes["note-001"] = &model.Note{NoteID: "note-001", ThesisID: "th-001", ProfessorID: "prof-001", Content: "备忘"}

	if err := svc.CancelTemporary(context.Background(), "th-001", "prof-001"); err != nil {
		t.Fatalf("CancelTemporary 应成功: %v", err)
	}

	// 论文删除、题目还原（附件随之转回）、学生解绑、邀请与备注清空
	if _, ok := m.theses.theses["th-001"]; ok {
		t.Error("回退后论文记录应删除")
	}
	if len(m.topics.topics) != 1 {
		t.Fatalf("回退后应重建题目，实际数量=%d", len(m.topics.topics))
	}
	for _, topic := range m.topics.topics {
		if topic.Title != "分布式缓存一致性研究" {
			t.Errorf("还原题目标题不符，实际=%s", topic.Title)
		}
		if topic.AttachmentPath == nil || *topic.AttachmentPath != "spec.pdf" {
			t.Error("附件应随回退转回题目")
		}
	}
	if m.users.users[studentID].HasThesis {
		t.Error("回退后学生应解除论文关联")
	}
	if len(m.invitations.invitations) != 0 {
		t.Error("回退后邀请应删除")
	}
	if len(m.notes.notes) != 0 {
		t.Error("回退后备注应删除")
	}
}

func TestAssignmentService_CancelTemporary_WrongStatus(t *testing.T) {
	svc, _, m := setupTestAssignmentService(t)
	seedThesis(m, "th-001", model.StatusActive, "prof-001", nil)

	err := svc.CancelTemporary(context.Background(), "th-001", "prof-001")
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("期望 ErrInvalidTransition，实际: %v", err)
	}
}

// ── SetPresentation 测试 ──

func TestAssignmentService_SetPresentation_Success(t *testing.T) {
	svc, _, m := setupTestAssignmentService(t)
	seedThesis(m, "th-001", model.StatusReview, "prof-001", nil)

	result, err := svc.SetPresentation(context.Background(), "th-001",
		&dto.PresentationRequest{DateTime: "2026-06-15T10:00:00Z", Place: "会议室 B201"}, "prof-001")
	if err != nil {
		t.Fatalf("SetPresentation 应成功: %v", err)
	}
	if result.PresentationDate == "" {
		t.Error("答辩日期应已记录")
	}
	if result.PresentationPlace != "会议室 B201" {
		t.Errorf("答辩地点不符，实际=%s", result.PresentationPlace)
	}
}

func TestAssignmentService_SetPresentation_BadDateTime(t *testing.T) {
	svc, _, m := setupTestAssignmentService(t)
	seedThesis(m, "th-001", model.StatusReview, "prof-001", nil)

	_, err := svc.SetPresentation(context.Background(), "th-001",
		&dto.PresentationRequest{DateTime: "2026/06/15 10:00", Place: "会议室"}, "prof-001")
	if !errors.Is(err, ErrInvalidDateTime) {
		t.Errorf("期望 ErrInvalidDateTime，实际: %v", err)
	}
}

// ── List 视角过滤测试 ──

func TestAssignmentService_List_PerspectiveFilter(t *testing.T) {
	svc, _, m := setupTestAssignmentService(t)
	stuA := "stu-001"
	stuB := "stu-002"
	seedThesis(m, "th-001", model.StatusActive, "prof-001", &stuA)
	seedThesis(m, "th-002", model.StatusActive, "prof-002", &stuB)

	// 学生只看到自己的论文
	list, total, err := svc.List(context.Background(), &dto.ThesisListRequest{}, stuA, model.RoleStudent)
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if total != 1 || len(list) != 1 {
		t.Fatalf("学生视角期望 1 条，实际 total=%d len=%d", total, len(list))
	}
	if list[0].ID != "th-001" {
		t.Errorf("学生应只看到自己的论文，实际=%s", list[0].ID)
	}

	// 秘书处看到全部
	_, total, err = svc.List(context.Background(), &dto.ThesisListRequest{}, "sec-001", model.RoleSecretary)
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if total != 2 {
		t.Errorf("秘书处视角期望 2 条，实际=%d", total)
	}
}
