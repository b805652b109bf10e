package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vitalab/vitashop-backend/internal/logger"
)

type FileCategory string

const (
	FileCategoryAvatar  FileCategory = "avatars"
	FileCategoryProduct FileCategory = "products"
)

// FileService stores uploaded binaries on local disk under a shared uploads
// root and serves them back through the static file route.
type FileService interface {
	SaveFile(ctx context.Context, category FileCategory, key string, file io.Reader) error
	DeleteFile(ctx context.Context, category FileCategory, key string) error
	GetPublicURL(category FileCategory, key string) string
}

type fileService struct {
	log        *logger.Logger
	uploadsDir string
	publicBase string
}

func NewFileService(baseLog *logger.Logger, uploadsDir, publicBase string) (FileService, error) {
	serviceLog := baseLog.With("service", "FileService")

	if strings.TrimSpace(uploadsDir) == "" {
		return nil, fmt.Errorf("Uploads directory is empty")
	}
	if err := os.MkdirAll(uploadsDir, 0o755); err != nil {
		return nil, fmt.Errorf("Failed to create uploads directory: %w", err)
	}

	return &fileService{
		log:        serviceLog,
		uploadsDir: uploadsDir,
		publicBase: strings.TrimRight(publicBase, "/"),
	}, nil
}

func (fs *fileService) SaveFile(ctx context.Context, category FileCategory, key string, file io.Reader) error {
	path, err := fs.resolve(category, key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("Failed to create file directory: %w", err)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("Failed to create file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		return fmt.Errorf("Failed to write file: %w", err)
	}

	fs.log.Debug("Saved file", "category", category, "key", key)
	return nil
}

func (fs *fileService) DeleteFile(ctx context.Context, category FileCategory, key string) error {
	path, err := fs.resolve(category, key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("Failed to delete file: %w", err)
	}
	return nil
}

func (fs *fileService) GetPublicURL(category FileCategory, key string) string {
	return fmt.Sprintf("%s/uploads/%s/%s", fs.publicBase, category, key)
}

// resolve rejects keys that would escape the uploads root.
func (fs *fileService) resolve(category FileCategory, key string) (string, error) {
	cleaned := filepath.Clean(key)
	if cleaned == "." || strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("Invalid file key: %s", key)
	}
	return filepath.Join(fs.uploadsDir, string(category), cleaned), nil
}
