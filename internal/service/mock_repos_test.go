package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stamelosxp/upThesis-sub000/internal/model"
	"github.com/stamelosxp/upThesis-sub000/internal/repository"
	apperrors "github.com/stamelosxp/upThesis-sub000/pkg/errors"
)

// ── 基于 map 的 Repository 替身（单元测试用，无数据库依赖） ──

// ────────────────────── UserRepository ──────────────────────

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = uuid.New().String()
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, user := range m.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	if _, ok := m.users[user.UserID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) ListWithFilters(_ context.Context, filters *repository.UserListFilters, offset, limit int) ([]model.User, int64, error) {
	var all []model.User
	for _, user := range m.users {
		if filters != nil {
			if filters.Role != "" && user.Role != filters.Role {
				continue
			}
			if filters.Keyword != "" && !strings.Contains(user.Name, filters.Keyword) {
				continue
			}
		}
		all = append(all, *user)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].UserID < all[j].UserID })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockUserRepo) LinkThesis(_ context.Context, studentID, thesisID string) error {
	user, ok := m.users[studentID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.HasThesis = true
	user.ThesisID = &thesisID
	return nil
}

func (m *mockUserRepo) UnlinkThesis(_ context.Context, studentID string) error {
	user, ok := m.users[studentID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.HasThesis = false
	user.ThesisID = nil
	return nil
}

// ────────────────────── TopicRepository ──────────────────────

type mockTopicRepo struct {
	topics map[string]*model.Topic
}

func newMockTopicRepo() *mockTopicRepo {
	return &mockTopicRepo{topics: make(map[string]*model.Topic)}
}

func (m *mockTopicRepo) Create(_ context.Context, topic *model.Topic) error {
	if topic.TopicID == "" {
		topic.TopicID = uuid.New().String()
	}
	m.topics[topic.TopicID] = topic
	return nil
}

func (m *mockTopicRepo) GetByID(_ context.Context, id string) (*model.Topic, error) {
	topic, ok := m.topics[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return topic, nil
}

func (m *mockTopicRepo) Update(_ context.Context, topic *model.Topic) error {
	if _, ok := m.topics[topic.TopicID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.topics[topic.TopicID] = topic
	return nil
}

func (m *mockTopicRepo) Delete(_ context.Context, id string) error {
	delete(m.topics, id)
	return nil
}

func (m *mockTopicRepo) ListWithFilters(_ context.Context, filters *repository.TopicListFilters, offset, limit int) ([]model.Topic, int64, error) {
	var all []model.Topic
	for _, topic := range m.topics {
		if filters != nil {
			if filters.ProfessorID != "" && topic.ProfessorID != filters.ProfessorID {
				continue
			}
			if filters.Keyword != "" && !strings.Contains(topic.Title, filters.Keyword) {
				continue
			}
		}
		all = append(all, *topic)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].TopicID < all[j].TopicID })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

// ────────────────────── ThesisRepository ──────────────────────

type mockThesisRepo struct {
	theses map[string]*model.Thesis
}

func newMockThesisRepo() *mockThesisRepo {
	return &mockThesisRepo{theses: make(map[string]*model.Thesis)}
}

func (m *mockThesisRepo) Create(_ context.Context, thesis *model.Thesis) error {
	if thesis.ThesisID == "" {
		thesis.ThesisID = uuid.New().String()
	}
	if thesis.Status == "" {
		thesis.Status = model.StatusPending
	}
	m.theses[thesis.ThesisID] = thesis
	return nil
}

func (m *mockThesisRepo) GetByID(_ context.Context, id string) (*model.Thesis, error) {
	thesis, ok := m.theses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return thesis, nil
}

func (m *mockThesisRepo) Update(_ context.Context, thesis *model.Thesis) error {
	if _, ok := m.theses[thesis.ThesisID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.theses[thesis.ThesisID] = thesis
	return nil
}

func (m *mockThesisRepo) Delete(_ context.Context, id string) error {
	delete(m.theses, id)
	return nil
}

func (m *mockThesisRepo) ListWithFilters(_ context.Context, filters *repository.ThesisListFilters, offset, limit int) ([]model.Thesis, int64, error) {
	var all []model.Thesis
	for _, thesis := range m.theses {
		if filters != nil {
			if filters.Status != "" && thesis.Status != filters.Status {
				continue
			}
			if filters.StudentID != "" && (thesis.StudentID == nil || *thesis.StudentID != filters.StudentID) {
				continue
			}
			if filters.ProfessorID != "" && thesis.RoleOf(filters.ProfessorID) == "" {
				continue
			}
			if filters.Keyword != "" && !strings.Contains(thesis.Title, filters.Keyword) {
				continue
			}
		}
		all = append(all, *thesis)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ThesisID < all[j].ThesisID })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockThesisRepo) ListByProfessor(_ context.Context, professorID string) ([]model.Thesis, error) {
	var result []model.Thesis
	for _, thesis := range m.theses {
		if thesis.RoleOf(professorID) != "" {
			result = append(result, *thesis)
		}
	}
	return result, nil
}

func (m *mockThesisRepo) ListByStatus(_ context.Context, status string) ([]model.Thesis, error) {
	var result []model.Thesis
	for _, thesis := range m.theses {
		if thesis.Status == status {
			result = append(result, *thesis)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ThesisID < result[j].ThesisID })
	return result, nil
}

func (m *mockThesisRepo) UpdateStatusFrom(_ context.Context, thesisID string, from []string, updates map[string]interface{}) error {
	thesis, ok := m.theses[thesisID]
	if !ok {
		return apperrors.ErrOptimisticLock
	}
	matched := false
	for _, s := range from {
		if thesis.Status == s {
			matched = true
			break
		}
	}
	if !matched {
		return apperrors.ErrOptimisticLock
	}
	applyThesisUpdates(thesis, updates)
	return nil
}

// applyThesisUpdates 模拟 GORM map 更新的列名映射
func applyThesisUpdates(thesis *model.Thesis, updates map[string]interface{}) {
	for column, value := range updates {
		switch column {
		case "status":
			thesis.Status = value.(string)
		case "official_assignment_date":
			t := value.(time.Time)
			thesis.OfficialAssignmentDate = &t
		case "under_review_date":
			t := value.(time.Time)
			thesis.UnderReviewDate = &t
		case "completed_date":
			t := value.(time.Time)
			thesis.CompletedDate = &t
		case "cancelled_date":
			t := value.(time.Time)
			thesis.CancelledDate = &t
		case "protocol_number":
			s := value.(string)
			thesis.ProtocolNumber = &s
		case "cancel_reason":
			s := value.(string)
			thesis.CancelReason = &s
		case "pending_changes":
			thesis.PendingChanges = value.(bool)
		case "attachment_path":
			if value == nil {
				thesis.AttachmentPath = nil
			}
		}
	}
}

func (m *mockThesisRepo) ClaimMemberSlot(_ context.Context, thesisID, professorID string) (string, bool, error) {
	thesis, ok := m.theses[thesisID]
	if !ok {
		return "", false, gorm.ErrRecordNotFound
	}
	if thesis.MemberAID == nil {
		thesis.MemberAID = &professorID
		return model.ThesisRoleMemberA, true, nil
	}
	if thesis.MemberBID == nil && *thesis.MemberAID != professorID {
		thesis.MemberBID = &professorID
		return model.ThesisRoleMemberB, true, nil
	}
	return "", false, nil
}

func (m *mockThesisRepo) SetGradesFlag(_ context.Context, thesisID, role string) error {
	thesis, ok := m.theses[thesisID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	switch role {
	case model.ThesisRoleSupervisor:
		thesis.GradesExistsSupervisor = true
	case model.ThesisRoleMemberA:
		thesis.GradesExistsMemberA = true
	case model.ThesisRoleMemberB:
		thesis.GradesExistsMemberB = true
	}
	return nil
}

func (m *mockThesisRepo) SetFinalGrade(_ context.Context, thesisID string, finalGrade float64) error {
	thesis, ok := m.theses[thesisID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	thesis.FinalGrade = &finalGrade
	thesis.ProtocolExists = true
	return nil
}

// ────────────────────── InvitationRepository ──────────────────────

type mockInvitationRepo struct {
	invitations map[string]*model.Invitation
	theses      *mockThesisRepo // Preload("Thesis") 模拟
}

func newMockInvitationRepo(theses *mockThesisRepo) *mockInvitationRepo {
	return &mockInvitationRepo{
		invitations: make(map[string]*model.Invitation),
		theses:      theses,
	}
}

func (m *mockInvitationRepo) Create(_ context.Context, inv *model.Invitation) error {
	if inv.InvitationID == "" {
		inv.InvitationID = uuid.New().String()
	}
	m.invitations[inv.InvitationID] = inv
	return nil
}

func (m *mockInvitationRepo) GetByID(_ context.Context, id string) (*model.Invitation, error) {
	inv, ok := m.invitations[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if m.theses != nil {
		inv.Thesis = m.theses.theses[inv.ThesisID]
	}
	return inv, nil
}

func (m *mockInvitationRepo) Update(_ context.Context, inv *model.Invitation) error {
	if _, ok := m.invitations[inv.InvitationID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.invitations[inv.InvitationID] = inv
	return nil
}

func (m *mockInvitationRepo) Exists(_ context.Context, thesisID, professorID string) (bool, error) {
	for _, inv := range m.invitations {
		if inv.ThesisID == thesisID && inv.ProfessorID == professorID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockInvitationRepo) ListByThesis(_ context.Context, thesisID string) ([]model.Invitation, error) {
	var result []model.Invitation
	for _, inv := range m.invitations {
		if inv.ThesisID == thesisID {
			result = append(result, *inv)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].InvitationID < result[j].InvitationID })
	return result, nil
}

func (m *mockInvitationRepo) ListByProfessor(_ context.Context, professorID string) ([]model.Invitation, error) {
	var result []model.Invitation
	for _, inv := range m.invitations {
		if inv.ProfessorID == professorID {
			result = append(result, *inv)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].InvitationID < result[j].InvitationID })
	return result, nil
}

func (m *mockInvitationRepo) DeletePendingByThesis(_ context.Context, thesisID, exceptID string) error {
	for id, inv := range m.invitations {
		if inv.ThesisID == thesisID && inv.Status == model.InvitationPending && id != exceptID {
			delete(m.invitations, id)
		}
	}
	return nil
}

func (m *mockInvitationRepo) DeleteByThesis(_ context.Context, thesisID string) error {
	for id, inv := range m.invitations {
		if inv.ThesisID == thesisID {
			delete(m.invitations, id)
		}
	}
	return nil
}

// ────────────────────── EvaluationRepository ──────────────────────

type mockEvaluationRepo struct {
	evaluations map[string]*model.Evaluation // thesisID → evaluation
}

func newMockEvaluationRepo() *mockEvaluationRepo {
	return &mockEvaluationRepo{evaluations: make(map[string]*model.Evaluation)}
}

func (m *mockEvaluationRepo) Create(_ context.Context, eval *model.Evaluation) error {
	if eval.EvaluationID == "" {
		eval.EvaluationID = uuid.New().String()
	}
	m.evaluations[eval.ThesisID] = eval
	return nil
}

func (m *mockEvaluationRepo) GetByThesis(_ context.Context, thesisID string) (*model.Evaluation, error) {
	eval, ok := m.evaluations[thesisID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return eval, nil
}

func (m *mockEvaluationRepo) Update(_ context.Context, eval *model.Evaluation) error {
	if _, ok := m.evaluations[eval.ThesisID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.evaluations[eval.ThesisID] = eval
	return nil
}

// ────────────────────── NoteRepository ──────────────────────

type mockNoteRepo struct {
	notes map[string]*model.Note
}

func newMockNoteRepo() *mockNoteRepo {
	return &mockNoteRepo{notes: make(map[string]*model.Note)}
}

func (m *mockNoteRepo) Create(_ context.Context, note *model.Note) error {
	if note.NoteID == "" {
		note.NoteID = uuid.New().String()
	}
	m.notes[note.NoteID] = note
	return nil
}

func (m *mockNoteRepo) GetByID(_ context.Context, id string) (*model.Note, error) {
	note, ok := m.notes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return note, nil
}

func (m *mockNoteRepo) Update(_ context.Context, note *model.Note) error {
	if _, ok := m.notes[note.NoteID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.notes[note.NoteID] = note
	return nil
}

func (m *mockNoteRepo) Delete(_ context.Context, id string) error {
	delete(m.notes, id)
	return nil
}

func (m *mockNoteRepo) ListByThesis(_ context.Context, thesisID string) ([]model.Note, error) {
	var result []model.Note
	for _, note := range m.notes {
		if note.ThesisID == thesisID {
			result = append(result, *note)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].NoteID < result[j].NoteID })
	return result, nil
}

func (m *mockNoteRepo) DeleteByThesis(_ context.Context, thesisID string) error {
	for id, note := range m.notes {
		if note.ThesisID == thesisID {
			delete(m.notes, id)
		}
	}
	return nil
}

// ────────────────────── AnnouncementRepository ──────────────────────

type mockAnnouncementRepo struct {
	announcements map[string]*model.Announcement
}

func newMockAnnouncementRepo() *mockAnnouncementRepo {
	return &mockAnnouncementRepo{announcements: make(map[string]*model.Announcement)}
}

func (m *mockAnnouncementRepo) Create(_ context.Context, ann *model.Announcement) error {
	if ann.AnnouncementID == "" {
		ann.AnnouncementID = uuid.New().String()
	}
	m.announcements[ann.AnnouncementID] = ann
	return nil
}

func (m *mockAnnouncementRepo) GetByID(_ context.Context, id string) (*model.Announcement, error) {
	ann, ok := m.announcements[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return ann, nil
}

func (m *mockAnnouncementRepo) Update(_ context.Context, ann *model.Announcement) error {
	if _, ok := m.announcements[ann.AnnouncementID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.announcements[ann.AnnouncementID] = ann
	return nil
}

func (m *mockAnnouncementRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.announcements, id)
	return nil
}

func (m *mockAnnouncementRepo) List(_ context.Context, offset, limit int) ([]model.Announcement, int64, error) {
	var all []model.Announcement
	for _, ann := range m.announcements {
		all = append(all, *ann)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].AnnouncementID < all[j].AnnouncementID })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

// ────────────────────── StatsRepository ──────────────────────

type mockStatsRepo struct {
	stats map[string]*model.ProfessorStats
}

func newMockStatsRepo() *mockStatsRepo {
	return &mockStatsRepo{stats: make(map[string]*model.ProfessorStats)}
}

func (m *mockStatsRepo) Upsert(_ context.Context, stats *model.ProfessorStats) error {
	m.stats[stats.ProfessorID] = stats
	return nil
}

func (m *mockStatsRepo) GetByProfessor(_ context.Context, professorID string) (*model.ProfessorStats, error) {
	stats, ok := m.stats[professorID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return stats, nil
}

// ────────────────────── 聚合构造 ──────────────────────

// mockRepos 聚合全部替身，便于测试逐个取用
type mockRepos struct {
	users         *mockUserRepo
	topics        *mockTopicRepo
	theses        *mockThesisRepo
	invitations   *mockInvitationRepo
	evaluations   *mockEvaluationRepo
	notes         *mockNoteRepo
	announcements *mockAnnouncementRepo
	stats         *mockStatsRepo
}

func newMockRepos() (*repository.Repository, *mockRepos) {
	m := &mockRepos{
		users:         newMockUserRepo(),
		topics:        newMockTopicRepo(),
		theses:        newMockThesisRepo(),
		evaluations:   newMockEvaluationRepo(),
		notes:         newMockNoteRepo(),
		announcements: newMockAnnouncementRepo(),
		stats:         newMockStatsRepo(),
	}
	m.invitations = newMockInvitationRepo(m.theses)

	repo := &repository.Repository{
		User:         m.users,
		Topic:        m.topics,
		Thesis:       m.theses,
		Invitation:   m.invitations,
		Evaluation:   m.evaluations,
		Note:         m.notes,
		Announcement: m.announcements,
		Stats:        m.stats,
	}
	return repo, m
}
