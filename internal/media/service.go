package media

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gracechapel-dev/churchhub-backend/pkg/config"
	pkgerrors "github.com/gracechapel-dev/churchhub-backend/pkg/errors"
)

// Kind partitions the bucket by what the object is for.
type Kind string

const (
	KindProfilePhoto Kind = "profiles"
	KindSermonMedia  Kind = "sermons"
)

var photoContentTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
}

var sermonContentTypes = map[string]struct{}{
	"audio/mpeg":      {},
	"audio/mp4":       {},
	"video/mp4":       {},
	"application/pdf": {},
}

// PresignRequest asks for a one-shot upload slot.
type PresignRequest struct {
	Filename    string `json:"filename" validate:"required"`
	ContentType string `json:"content_type" validate:"required"`
	SizeBytes   int64  `json:"size_bytes" validate:"required"`
}

// PresignResponse hands the client everything it needs to PUT the
// object and then adopt it.
type PresignResponse struct {
	UploadURL   string    `json:"upload_url"`
	ObjectPath  string    `json:"object_path"`
	PublicURL   string    `json:"public_url"`
	ContentType string    `json:"content_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type urlSigner interface {
	DefaultBucket() string
	SignedURL(bucket, object, contentType string, expires time.Duration) (string, error)
	SignedReadURL(bucket, object string, expires time.Duration) (string, error)
	DeleteObject(ctx context.Context, bucket, object string) error
}

// Service issues signed upload and download URLs. Bytes never proxy
// through the API.
type Service interface {
	PresignUpload(ctx context.Context, kind Kind, ownerID uuid.UUID, req PresignRequest) (*PresignResponse, error)
	SignedDownloadURL(ctx context.Context, objectPath string) (string, error)
	DeleteObject(ctx context.Context, objectPath string) error
}

type service struct {
	signer urlSigner
	gcsCfg config.GCSConfig
	cfg    config.MediaConfig
}

// ServiceParams bundles the media service dependencies.
type ServiceParams struct {
	Signer      urlSigner
	GCSConfig   config.GCSConfig
	MediaConfig config.MediaConfig
}

// NewService constructs the media service.
func NewService(params ServiceParams) (Service, error) {
	if params.Signer == nil {
		return nil, fmt.Errorf("url signer is required")
	}
	return &service{
		signer: params.Signer,
		gcsCfg: params.GCSConfig,
		cfg:    params.MediaConfig,
	}, nil
}

func (s *service) PresignUpload(ctx context.Context, kind Kind, ownerID uuid.UUID, req PresignRequest) (*PresignResponse, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing member identity")
	}
	filename := sanitizeFilename(req.Filename)
	if filename == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "filename is required")
	}
	contentType := strings.TrimSpace(req.ContentType)
	if err := s.checkKind(kind, contentType, req.SizeBytes); err != nil {
		return nil, err
	}

	object := fmt.Sprintf("media/%s/%s/%s", kind, ownerID, filename)
	bucket := s.signer.DefaultBucket()
	expiry := s.gcsCfg.UploadURLExpiry

	uploadURL, err := s.signer.SignedURL(bucket, object, contentType, expiry)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sign upload url")
	}

	return &PresignResponse{
		UploadURL:   uploadURL,
		ObjectPath:  object,
		PublicURL:   fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, object),
		ContentType: contentType,
		ExpiresAt:   time.Now().UTC().Add(expiry),
	}, nil
}

func (s *service) SignedDownloadURL(ctx context.Context, objectPath string) (string, error) {
	objectPath = strings.TrimSpace(strings.TrimPrefix(objectPath, "/"))
	if objectPath == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "object path is required")
	}
	url, err := s.signer.SignedReadURL(s.signer.DefaultBucket(), objectPath, s.gcsCfg.DownloadURLExpiry)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sign download url")
	}
	return url, nil
}

func (s *service) DeleteObject(ctx context.Context, objectPath string) error {
	objectPath = strings.TrimSpace(strings.TrimPrefix(objectPath, "/"))
	if objectPath == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "object path is required")
	}
	if err := s.signer.DeleteObject(ctx, s.signer.DefaultBucket(), objectPath); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete object")
	}
	return nil
}

func (s *service) checkKind(kind Kind, contentType string, sizeBytes int64) error {
	if sizeBytes <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "size_bytes must be greater than zero")
	}
	switch kind {
	case KindProfilePhoto:
		if _, ok := photoContentTypes[contentType]; !ok {
			return pkgerrors.New(pkgerrors.CodeValidation, "unsupported photo content type")
		}
		if sizeBytes > int64(s.cfg.MaxPhotoUploadMB)<<20 {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("photo exceeds %dMB limit", s.cfg.MaxPhotoUploadMB))
		}
	case KindSermonMedia:
		if _, ok := sermonContentTypes[contentType]; !ok {
			return pkgerrors.New(pkgerrors.CodeValidation, "unsupported media content type")
		}
		if sizeBytes > int64(s.cfg.MaxMediaUploadMB)<<20 {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("media exceeds %dMB limit", s.cfg.MaxMediaUploadMB))
		}
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown media kind")
	}
	return nil
}

// sanitizeFilename strips any path components and characters that do
// not belong in an object name.
func sanitizeFilename(name string) string {
	name = path.Base(strings.TrimSpace(name))
	if name == "." || name == "/" {
		return ""
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), "._")
}
