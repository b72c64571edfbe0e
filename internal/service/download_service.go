package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"connect-support/internal/domain"
	"connect-support/internal/storage"
)

const (
	DefaultContentType = "application/octet-stream"
	DefaultPresignTTL  = time.Hour
)

var (
	ErrDownloadServiceNotConfigured = errors.New("download service not configured")
	ErrInvalidDocumentURL           = errors.New("invalid document url")
	ErrObjectTooLarge               = errors.New("object exceeds download size limit")
)

// DownloadService resuelve URLs de documentos y los lee completos desde el almacenamiento.
type DownloadService struct {
	store      storage.ObjectStore
	hostMarker string
	maxBytes   int64
	presignTTL time.Duration
	logger     *zap.Logger
}

// NewDownloadService crea el servicio. maxBytes <= 0 desactiva el limite de tamaño.
func NewDownloadService(store storage.ObjectStore, hostMarker string, maxBytes int64, logger *zap.Logger) *DownloadService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DownloadService{
		store:      store,
		hostMarker: hostMarker,
		maxBytes:   maxBytes,
		presignTTL: DefaultPresignTTL,
		logger:     logger,
	}
}

func (s *DownloadService) resolve(rawURL string) (storage.ObjectRef, error) {
	if s == nil || s.store == nil {
		return storage.ObjectRef{}, ErrDownloadServiceNotConfigured
	}
	ref, err := storage.ParseObjectURL(rawURL, s.hostMarker)
	if err != nil {
		return storage.ObjectRef{}, fmt.Errorf("%w: %v", ErrInvalidDocumentURL, err)
	}
	return ref, nil
}

// Fetch lee el objeto entero en memoria antes de devolverlo.
func (s *DownloadService) Fetch(ctx context.Context, rawURL string) (domain.DownloadedFile, error) {
	ref, err := s.resolve(rawURL)
	if err != nil {
		return domain.DownloadedFile{}, err
	}

	obj, err := s.store.GetObject(ctx, ref.Bucket, ref.Key)
	if err != nil {
		return domain.DownloadedFile{}, err
	}
	if obj == nil || obj.Body == nil {
		return domain.DownloadedFile{}, storage.ErrEmptyObjectBody
	}
	defer obj.Body.Close()

	var buf bytes.Buffer
	if obj.ContentLength != nil && *obj.ContentLength > 0 && (s.maxBytes <= 0 || *obj.ContentLength <= s.maxBytes) {
		buf.Grow(int(*obj.ContentLength))
	}

	var body io.Reader = obj.Body
	if s.maxBytes > 0 {
		body = io.LimitReader(obj.Body, s.maxBytes+1)
	}
	n, err := io.Copy(&buf, body)
	if err != nil {
		return domain.DownloadedFile{}, fmt.Errorf("read object %s/%s: %w", ref.Bucket, ref.Key, err)
	}
	if s.maxBytes > 0 && n > s.maxBytes {
		return domain.DownloadedFile{}, fmt.Errorf("%w: %s/%s", ErrObjectTooLarge, ref.Bucket, ref.Key)
	}
	if obj.ContentLength != nil && *obj.ContentLength >= 0 && *obj.ContentLength != n {
		return domain.DownloadedFile{}, fmt.Errorf("read object %s/%s: got %d of %d bytes", ref.Bucket, ref.Key, n, *obj.ContentLength)
	}

	contentType := obj.ContentType
	if contentType == "" {
		contentType = DefaultContentType
	}

	s.logger.Info("document downloaded",
		zap.String("bucket", ref.Bucket),
		zap.String("key", ref.Key),
		zap.Int64("bytes", n),
	)

	return domain.DownloadedFile{
		Name:          ref.Filename(),
		ContentType:   contentType,
		ContentLength: n,
		Data:          buf.Bytes(),
	}, nil
}

// Presign devuelve una URL firmada de corta duracion en lugar de los bytes.
func (s *DownloadService) Presign(ctx context.Context, rawURL string) (string, error) {
	ref, err := s.resolve(rawURL)
	if err != nil {
		return "", err
	}
	return s.store.PresignGetObject(ctx, ref.Bucket, ref.Key, s.presignTTL)
}
