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

// ── 公告模块业务错误 ──

var ErrAnnouncementNotFound = errors.New("公告不存在")

// AnnouncementService 公告业务接口
// 创建/更新/删除由秘书处执行，列表公开（含未登录访问）
type AnnouncementService interface {
	Create(ctx context.Context, req *dto.CreateAnnouncementRequest, callerID string) (*dto.AnnouncementResponse, error)
	GetByID(ctx context.Context, id string) (*dto.AnnouncementResponse, error)
	List(ctx context.Context, req *dto.PaginationRequest) ([]dto.AnnouncementResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateAnnouncementRequest, callerID string) (*dto.AnnouncementResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
}

type announcementService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAnnouncementService 创建 AnnouncementService 实例
func NewAnnouncementService(repo *repository.Repository, logger *zap.Logger) AnnouncementService {
	return &announcementService{repo: repo, logger: logger}
}

func (s *announcementService) Create(ctx context.Context, req *dto.CreateAnnouncementRequest, callerID string) (*dto.AnnouncementResponse, error) {
	// 关联论文须存在
	if req.ThesisID != nil {
		if _, err := s.repo.Thesis.GetByID(ctx, *req.ThesisID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrThesisNotFound
			}
			return nil, err
		}
	}

	ann := &model.Announcement{
		Title:           req.Title,
		Body:            req.Body,
		ThesisID:        req.ThesisID,
		AuthorID:        callerID,
		SoftDeleteModel: model.SoftDeleteModel{BaseModel: model.BaseModel{CreatedBy: &callerID}},
	}
	if err := s.repo.Announcement.Create(ctx, ann); err != nil {
		s.logger.Error("创建公告失败", zap.Error(err))
		return nil, err
	}

	created, err := s.repo.Announcement.GetByID(ctx, ann.AnnouncementID)
	if err != nil {
		return nil, err
	}
	return toAnnouncementResponse(created), nil
}

func (s *announcementService) GetByID(ctx context.Context, id string) (*dto.AnnouncementResponse, error) {
	ann, err := s.repo.Announcement.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAnnouncementNotFound
		}
		s.logger.Error("查询公告失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toAnnouncementResponse(ann), nil
}

func (s *announcementService) List(ctx context.Context, req *dto.PaginationRequest) ([]dto.AnnouncementResponse, int64, error) {
	anns, total, err := s.repo.Announcement.List(ctx, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("列出公告失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.AnnouncementResponse, 0, len(anns))
	for i := range anns {
		result = append(result, *toAnnouncementResponse(&anns[i]))
	}
	return result, total, nil
}

func (s *announcementService) Update(ctx context.Context, id string, req *dto.UpdateAnnouncementRequest, callerID string) (*dto.AnnouncementResponse, error) {
	ann, err := s.repo.Announcement.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAnnouncementNotFound
		}
		return nil, err
	}

	if req.Title != nil {
		ann.Title = *req.Title
	}
	if req.Body != nil {
		ann.Body = *req.Body
	}
	ann.UpdatedBy = &callerID

	if err := s.repo.Announcement.Update(ctx, ann); err != nil {
		s.logger.Error("更新公告失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toAnnouncementResponse(ann), nil
}

func (s *announcementService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.repo.Announcement.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAnnouncementNotFound
		}
		return err
	}

	if err := s.repo.Announcement.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除公告失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func toAnnouncementResponse(ann *model.Announcement) *dto.AnnouncementResponse {
	resp := &dto.AnnouncementResponse{
		ID:        ann.AnnouncementID,
		Title:     ann.Title,
		Body:      ann.Body,
		ThesisID:  ann.ThesisID,
		CreatedAt: ann.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if ann.Thesis != nil {
		resp.ThesisTitle = ann.Thesis.Title
	}
	return resp
}
