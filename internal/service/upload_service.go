package service

import (
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bakehouse-next/internal/config"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// UploadService stores product images under the configured upload
// directory, partitioned by year and month.
type UploadService struct {
	cfg *config.Config
}

func NewUploadService(cfg *config.Config) *UploadService {
	return &UploadService{cfg: cfg}
}

// SaveImage validates and persists an uploaded product image, returning
// the public relative path. The MIME type is sniffed from the content,
// not taken from the request.
func (s *UploadService) SaveImage(file *multipart.FileHeader) (string, error) {
	if file.Size > s.cfg.Upload.MaxSize {
		return "", fmt.Errorf("%w: file exceeds %d MB", ErrUploadInvalid, s.cfg.Upload.MaxSize/1024/1024)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if len(s.cfg.Upload.AllowedExtensions) > 0 {
		if ext == "" || !isAllowedExtension(ext, s.cfg.Upload.AllowedExtensions) {
			return "", fmt.Errorf("%w: extension %q not allowed", ErrUploadInvalid, ext)
		}
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	buffer := make([]byte, 512)
	if _, err := src.Read(buffer); err != nil && err != io.EOF {
		return "", err
	}
	if _, err := src.Seek(0, 0); err != nil {
		return "", err
	}

	contentType := http.DetectContentType(buffer)
	if len(s.cfg.Upload.AllowedTypes) > 0 && !isAllowedContentType(contentType, s.cfg.Upload.AllowedTypes) {
		return "", fmt.Errorf("%w: content type %q not allowed", ErrUploadInvalid, contentType)
	}

	imgCfg, _, err := image.DecodeConfig(src)
	if err != nil {
		return "", fmt.Errorf("%w: not a decodable image", ErrUploadInvalid)
	}
	if s.cfg.Upload.MaxWidth > 0 && imgCfg.Width > s.cfg.Upload.MaxWidth {
		return "", fmt.Errorf("%w: width exceeds %d", ErrUploadInvalid, s.cfg.Upload.MaxWidth)
	}
	if s.cfg.Upload.MaxHeight > 0 && imgCfg.Height > s.cfg.Upload.MaxHeight {
		return "", fmt.Errorf("%w: height exceeds %d", ErrUploadInvalid, s.cfg.Upload.MaxHeight)
	}
	if _, err := src.Seek(0, 0); err != nil {
		return "", err
	}

	baseDir := s.cfg.Upload.Dir
	if baseDir == "" {
		baseDir = "uploads"
	}
	now := time.Now()
	year := now.Format("2006")
	month := now.Format("01")
	filename := uuid.New().String() + ext
	savePath := filepath.Join(baseDir, "products", year, month, filename)

	if err := os.MkdirAll(filepath.Dir(savePath), 0755); err != nil {
		return "", err
	}
	dst, err := os.Create(savePath)
	if err != nil {
		return "", err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}

	// The frontend prefixes the host, so only the relative path goes out.
	return fmt.Sprintf("/uploads/products/%s/%s/%s", year, month, filename), nil
}

func isAllowedExtension(ext string, allowed []string) bool {
	for _, allowedExt := range allowed {
		normalized := strings.ToLower(strings.TrimSpace(allowedExt))
		if normalized == "" {
			continue
		}
		if !strings.HasPrefix(normalized, ".") {
			normalized = "." + normalized
		}
		if ext == normalized {
			return true
		}
	}
	return false
}

func isAllowedContentType(contentType string, allowed []string) bool {
	for _, t := range allowed {
		if strings.EqualFold(contentType, t) {
			return true
		}
	}
	return false
}
