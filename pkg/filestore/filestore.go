package filestore

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stamelosxp/upThesis-sub000/config"
)

var (
	ErrFileTooLarge    = errors.New("文件超出大小限制")
	ErrInvalidPath     = errors.New("非法的文件路径")
	ErrEmptyAttachment = errors.New("附件内容为空")
)

// Store 论文附件本地磁盘存储
// 保存时以 uuid 前缀避免文件名冲突，删除为尽力而为（调用方记录失败日志）
type Store struct {
	dir      string
	maxBytes int64
	logger   *zap.Logger
}

// NewStore 创建附件存储并确保目录存在
func NewStore(cfg *config.StorageConfig, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("创建上传目录失败: %w", err)
	}
	return &Store{
		dir:      cfg.UploadDir,
		maxBytes: cfg.MaxUploadBytes,
		logger:   logger,
	}, nil
}

// Save 保存上传文件，返回相对存储路径
func (s *Store) Save(fh *multipart.FileHeader) (string, error) {
	if fh == nil || fh.Size == 0 {
		return "", ErrEmptyAttachment
	}
	if s.maxBytes > 0 && fh.Size > s.maxBytes {
		return "", ErrFileTooLarge
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("打开上传文件失败: %w", err)
	}
	defer src.Close()

	name := uuid.New().String() + "_" + filepath.Base(fh.Filename)
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("创建目标文件失败: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("写入文件失败: %w", err)
	}

	return name, nil
}

// Remove 删除附件（相对路径）
// 文件不存在视为成功，权威状态已提交后的清理由调用方容错
func (s *Store) Remove(relPath string) error {
	abs, err := s.Abs(relPath)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Abs 将相对存储路径转换为绝对路径，拒绝目录穿越
func (s *Store) Abs(relPath string) (string, error) {
	cleaned := filepath.Clean(relPath)
	if cleaned == "." || strings.Contains(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", ErrInvalidPath
	}
	return filepath.Join(s.dir, cleaned), nil
}
