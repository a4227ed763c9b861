package upload

import (
	"fmt"
	"io"
	"math/rand"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/karavan-market/karavan/internal/config"
	"github.com/karavan-market/karavan/internal/dto"
	"github.com/karavan-market/karavan/pkg/errorbank"
)

// allowedTypes maps acceptable image extensions to their MIME types.
var allowedTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// Service stores payment-proof images on local disk under a public static
// path.
type Service struct {
	dir        string
	publicPath string
	maxSize    int64
	logger     *zap.Logger
}

// NewService wires the file intake service and ensures the upload
// directory exists.
func NewService(cfg config.Config, logger *zap.Logger) (*Service, error) {
	if err := os.MkdirAll(cfg.Upload.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Service{
		dir:        cfg.Upload.Dir,
		publicPath: cfg.Upload.PublicPath,
		maxSize:    cfg.Upload.MaxSizeBytes,
		logger:     logger,
	}, nil
}

// Module provides the upload service to Fx.
var Module = fx.Provide(NewService)

// Dir returns the on-disk upload directory.
func (s *Service) Dir() string { return s.dir }

// PublicPath returns the URL prefix uploads are served under.
func (s *Service) PublicPath() string { return s.publicPath }

// Store validates and persists a single uploaded image, returning its
// public URL. Allowed types: jpeg, png, gif, webp; size capped by config.
func (s *Service) Store(file *multipart.FileHeader) (*dto.UploadResponse, error) {
	if file == nil {
		return nil, errorbank.Validation(map[string]any{"screenshot": "file is required"})
	}
	if file.Size > s.maxSize {
		return nil, errorbank.Validation(map[string]any{"screenshot": fmt.Sprintf("file exceeds %d bytes", s.maxSize)})
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if _, ok := allowedTypes[ext]; !ok {
		return nil, errorbank.Validation(map[string]any{"screenshot": "only jpeg, png, gif, and webp images are allowed"})
	}
	if ct := file.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		return nil, errorbank.Validation(map[string]any{"screenshot": "only images are allowed"})
	}

	src, err := file.Open()
	if err != nil {
		return nil, errorbank.Internal("failed to read upload", errorbank.WithCause(err))
	}
	defer src.Close()

	name := fmt.Sprintf("screenshot-%d-%d%s", time.Now().UnixNano(), rand.Int63n(1e9), ext)
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return nil, errorbank.Internal("failed to store upload", errorbank.WithCause(err))
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(src, s.maxSize)); err != nil {
		return nil, errorbank.Internal("failed to store upload", errorbank.WithCause(err))
	}

	s.logger.Debug("stored payment screenshot", zap.String("file", name))
	return &dto.UploadResponse{
		URL:      path.Join(s.publicPath, name),
		Filename: name,
	}, nil
}
