package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/stamelosxp/upThesis-sub000/internal/dto"
	"github.com/stamelosxp/upThesis-sub000/internal/model"
	"github.com/stamelosxp/upThesis-sub000/internal/repository"
)

// ── 备注模块业务错误 ──

var (
	ErrNoteNotFound = errors.New("备注不存在")
	ErrNotNoteOwner = errors.New("仅备注作者可操作")
)

// NoteService 论文备注业务接口（委员会教授私有工作区）
type NoteService interface {
	Create(ctx context.Context, thesisID string, req *dto.CreateNoteRequest, callerID string) (*dto.NoteResponse, error)
	ListByThesis(ctx context.Context, thesisID string, callerID string) ([]dto.NoteResponse, error)
	Update(ctx context.Context, noteID string, req *dto.UpdateNoteRequest, callerID string) (*dto.NoteResponse, error)
	Delete(ctx context.Context, noteID string, callerID string) error
}

type noteService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewNoteService 创建 NoteService 实例
func NewNoteService(repo *repository.Repository, logger *zap.Logger) NoteService {
	return &noteService{repo: repo, logger: logger}
}

func (s *noteService) Create(ctx context.Context, thesisID string, req *dto.CreateNoteRequest, callerID string) (*dto.NoteResponse, error) {
	thesis, err := s.repo.Thesis.GetByID(ctx, thesisID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrThesisNotFound
		}
		return nil, err
	}

	if thesis.RoleOf(callerID) == "" {
		return nil, ErrNotCommitteeMember
	}
	if model.IsTerminalStatus(thesis.Status) {
		return nil, ErrInvalidTransition
	}

	note := &model.Note{
		ThesisID:    thesisID,
		ProfessorID: callerID,
		Content:     req.Content,
		BaseModel:   model.BaseModel{CreatedBy: &callerID},
	}
	if err := s.repo.Note.Create(ctx, note); err != nil {
		s.logger.Error("创建备注失败", zap.String("thesis_id", thesisID), zap.Error(err))
		return nil, err
	}

	return toNoteResponse(note), nil
}

func (s *noteService) ListByThesis(ctx context.Context, thesisID string, callerID string) ([]dto.NoteResponse, error) {
	thesis, err := s.repo.Thesis.GetByID(ctx, thesisID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrThesisNotFound
		}
		return nil, err
	}
	if thesis.RoleOf(callerID) == "" {
		return nil, ErrNotCommitteeMember
	}

	notes, err := s.repo.Note.ListByThesis(ctx, thesisID)
	if err != nil {
		s.logger.Error("列出备注失败", zap.String("thesis_id", thesisID), zap.Error(err))
		return nil, err
	}

	// 备注仅作者本人可见
	result := make([]dto.NoteResponse, 0, len(notes))
	for i := range notes {
		if notes[i].ProfessorID != callerID {
			continue
		}
		result = append(result, *toNoteResponse(&notes[i]))
	}
	return result, nil
}

func (s *noteService) Update(ctx context.Context, noteID string, req *dto.UpdateNoteRequest, callerID string) (*dto.NoteResponse, error) {
	note, err := s.repo.Note.GetByID(ctx, noteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}

	if note.ProfessorID != callerID {
		return nil, ErrNotNoteOwner
	}

	note.Content = req.Content
	note.UpdatedBy = &callerID

	if err := s.repo.Note.Update(ctx, note); err != nil {
		s.logger.Error("更新备注失败", zap.String("id", noteID), zap.Error(err))
		return nil, err
	}
	return toNoteResponse(note), nil
}

func (s *noteService) Delete(ctx context.Context, noteID string, callerID string) error {
	note, err := s.repo.Note.GetByID(ctx, noteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoteNotFound
		}
		return err
	}

	if note.ProfessorID != callerID {
		return ErrNotNoteOwner
	}

	if err := s.repo.Note.Delete(ctx, noteID); err != nil {
		s.logger.Error("删除备注失败", zap.String("id", noteID), zap.Error(err))
		return err
	}
	return nil
}

func toNoteResponse(note *model.Note) *dto.NoteResponse {
	return &dto.NoteResponse{
		ID:          note.NoteID,
		ThesisID:    note.ThesisID,
		ProfessorID: note.ProfessorID,
		Content:     note.Content,
		CreatedAt:   note.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:   note.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}
