package service

import (
	"context"
	"errors"
	"mime/multipart"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/stamelosxp/upThesis-sub000/internal/dto"
	"github.com/stamelosxp/upThesis-sub000/internal/model"
	"github.com/stamelosxp/upThesis-sub000/internal/repository"
	"github.com/stamelosxp/upThesis-sub000/pkg/filestore"
)

// ── 题目模块业务错误 ──

var (
	ErrTopicNotFound = errors.New("题目不存在")
	ErrNotTopicOwner = errors.New("仅题目创建者可操作")
)

// TopicService 题目业务接口
type TopicService interface {
	Create(ctx context.Context, req *dto.CreateTopicRequest, attachment *multipart.FileHeader, callerID string) (*dto.TopicResponse, error)
	GetByID(ctx context.Context, id string) (*dto.TopicResponse, error)
	List(ctx context.Context, req *dto.TopicListRequest) ([]dto.TopicResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateTopicRequest, attachment *multipart.FileHeader, callerID string) (*dto.TopicResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
	// AttachmentPath 返回附件绝对路径（下载用）
	AttachmentPath(ctx context.Context, id string) (string, error)
}

type topicService struct {
	repo   *repository.Repository
	store  *filestore.Store
	logger *zap.Logger
}

// NewTopicService 创建 TopicService 实例
func NewTopicService(repo *repository.Repository, store *filestore.Store, logger *zap.Logger) TopicService {
	return &topicService{repo: repo, store: store, logger: logger}
}

func (s *topicService) Create(ctx context.Context, req *dto.CreateTopicRequest, attachment *multipart.FileHeader, callerID string) (*dto.TopicResponse, error) {
	topic := &model.Topic{
		Title:       req.Title,
		Description: req.Description,
		ProfessorID: callerID,
		BaseModel:   model.BaseModel{CreatedBy: &callerID},
	}

	if attachment != nil {
		path, err := s.store.Save(attachment)
		if err != nil {
			return nil, err
		}
		topic.AttachmentPath = &path
	}

	if err := s.repo.Topic.Create(ctx, topic); err != nil {
		s.logger.Error("创建题目失败", zap.Error(err))
		return nil, err
	}

	created, err := s.repo.Topic.GetByID(ctx, topic.TopicID)
	if err != nil {
		return nil, err
	}

	return toTopicResponse(created), nil
}

func (s *topicService) GetByID(ctx context.Context, id string) (*dto.TopicResponse, error) {
	topic, err := s.repo.Topic.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTopicNotFound
		}
		s.logger.Error("查询题目失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toTopicResponse(topic), nil
}

func (s *topicService) List(ctx context.Context, req *dto.TopicListRequest) ([]dto.TopicResponse, int64, error) {
	filters := &repository.TopicListFilters{
		ProfessorID: req.ProfessorID,
		Keyword:     req.Keyword,
	}

	topics, total, err := s.repo.Topic.ListWithFilters(ctx, filters, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("列出题目失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.TopicResponse, 0, len(topics))
	for i := range topics {
		result = append(result, *toTopicResponse(&topics[i]))
	}

	return result, total, nil
}

func (s *topicService) Update(ctx context.Context, id string, req *dto.UpdateTopicRequest, attachment *multipart.FileHeader, callerID string) (*dto.TopicResponse, error) {
	topic, err := s.repo.Topic.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTopicNotFound
		}
		return nil, err
	}

	if topic.ProfessorID != callerID {
		return nil, ErrNotTopicOwner
	}

	if req.Title != nil {
		topic.Title = *req.Title
	}
	if req.Description != nil {
		topic.Description = *req.Description
	}

	// 新附件替换旧附件（旧文件删除为尽力而为）
	if attachment != nil {
		path, err := s.store.Save(attachment)
		if err != nil {
			return nil, err
		}
		if topic.AttachmentPath != nil {
			if err := s.store.Remove(*topic.AttachmentPath); err != nil {
				s.logger.Warn("删除旧附件失败", zap.String("path", *topic.AttachmentPath), zap.Error(err))
			}
		}
		topic.AttachmentPath = &path
	}

	topic.UpdatedBy = &callerID

	if err := s.repo.Topic.Update(ctx, topic); err != nil {
		s.logger.Error("更新题目失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toTopicResponse(topic), nil
}

func (s *topicService) Delete(ctx context.Context, id string, callerID string) error {
	topic, err := s.repo.Topic.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTopicNotFound
		}
		return err
	}

	if topic.ProfessorID != callerID {
		return ErrNotTopicOwner
	}

	if err := s.repo.Topic.Delete(ctx, id); err != nil {
		s.logger.Error("删除题目失败", zap.String("id", id), zap.Error(err))
		return err
	}

	// 权威记录已删除，附件清理尽力而为
	if topic.AttachmentPath != nil {
		if err := s.store.Remove(*topic.AttachmentPath); err != nil {
			s.logger.Warn("删除题目附件失败", zap.String("path", *topic.AttachmentPath), zap.Error(err))
		}
	}

	return nil
}

func (s *topicService) AttachmentPath(ctx context.Context, id string) (string, error) {
	topic, err := s.repo.Topic.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrTopicNotFound
		}
		return "", err
	}
	if topic.AttachmentPath == nil {
		return "", ErrTopicNotFound
	}
	return s.store.Abs(*topic.AttachmentPath)
}

// toTopicResponse 模型 → 响应 DTO
func toTopicResponse(topic *model.Topic) *dto.TopicResponse {
	resp := &dto.TopicResponse{
		ID:            topic.TopicID,
		Title:         topic.Title,
		Description:   topic.Description,
		HasAttachment: topic.AttachmentPath != nil,
		ProfessorID:   topic.ProfessorID,
		CreatedAt:     topic.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if topic.Professor != nil {
		resp.ProfessorName = topic.Professor.Name
	}
	return resp
}
