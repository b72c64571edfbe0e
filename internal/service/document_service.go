package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"connect-support/internal/domain"
	"connect-support/internal/storage"
)

var (
	ErrDocumentServiceNotConfigured = errors.New("document service not configured")
	ErrDocumentsFetch               = errors.New("failed to fetch documents")
)

// DocumentService lista los documentos descargables del bucket.
type DocumentService struct {
	store    storage.ObjectStore
	cache    ListingCache
	bucket   string
	prefix   string
	cacheTTL time.Duration
	logger   *zap.Logger
}

func NewDocumentService(
	store storage.ObjectStore,
	cache ListingCache,
	bucket, prefix string,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *DocumentService {
	if cache == nil {
		cache = NewMemoryListingCache()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentService{
		store:    store,
		cache:    cache,
		bucket:   bucket,
		prefix:   prefix,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// List devuelve el listado completo, filtrado por nombre cuando query no esta vacio.
func (s *DocumentService) List(ctx context.Context, query string) ([]domain.Document, error) {
	if s == nil || s.store == nil {
		return nil, ErrDocumentServiceNotConfigured
	}

	docs, err := s.listAll(ctx)
	if err != nil {
		return nil, err
	}
	return filterDocuments(docs, query), nil
}

func (s *DocumentService) listAll(ctx context.Context) ([]domain.Document, error) {
	cacheKey := s.bucket + ":" + s.prefix
	if s.cacheTTL > 0 {
		docs, ok, err := s.cache.Get(ctx, cacheKey)
		if err != nil {
			s.logger.Warn("document cache get failed", zap.Error(err))
		} else if ok {
			return docs, nil
		}
	}

	objects, err := s.store.ListObjects(ctx, s.bucket, s.prefix)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentsFetch, err)
	}

	docs := make([]domain.Document, 0, len(objects))
	for _, obj := range objects {
		if obj.Key == "" || strings.HasSuffix(obj.Key, "/") {
			continue
		}
		docs = append(docs, s.toDocument(obj))
	}
	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].UploadDate.After(docs[j].UploadDate)
	})

	if s.cacheTTL > 0 {
		if err := s.cache.Set(ctx, cacheKey, docs, s.cacheTTL); err != nil {
			s.logger.Warn("document cache set failed", zap.Error(err))
		}
	}
	return docs, nil
}

func (s *DocumentService) toDocument(obj storage.ObjectInfo) domain.Document {
	objectURL := s.store.ObjectURL(s.bucket, obj.Key)
	size := obj.Size
	if size < 0 {
		size = 0
	}
	return domain.Document{
		ID:         documentID(s.bucket, obj.Key),
		Name:       path.Base(obj.Key),
		URL:        objectURL,
		UploadDate: obj.LastModified.UTC(),
		Size:       humanize.Bytes(uint64(size)),
	}
}

// documentID depende solo de bucket y key; la region o el host no la cambian.
func documentID(bucket, key string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("s3://"+bucket+"/"+key)).String()
}

func filterDocuments(docs []domain.Document, query string) []domain.Document {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return docs
	}
	out := make([]domain.Document, 0, len(docs))
	for _, d := range docs {
		if strings.Contains(strings.ToLower(d.Name), query) {
			out = append(out, d)
		}
	}
	return out
}
