package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"connect-support/internal/storage"
)

func performRequest(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var payload []byte
	switch b := body.(type) {
	case nil:
	case string:
		payload = []byte(b)
	default:
		payload, _ = json.Marshal(b)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

type stubObjectStore struct {
	data        []byte
	contentType string
	getErr      error
	getCalls    int
	listing     []storage.ObjectInfo
	listErr     error
}

func (s *stubObjectStore) GetObject(_ context.Context, _, _ string) (*storage.Object, error) {
	s.getCalls++
	if s.getErr != nil {
		return nil, s.getErr
	}
	size := int64(len(s.data))
	return &storage.Object{
		Body:          io.NopCloser(bytes.NewReader(s.data)),
		ContentType:   s.contentType,
		ContentLength: &size,
	}, nil
}

func (s *stubObjectStore) ListObjects(_ context.Context, _, _ string) ([]storage.ObjectInfo, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.listing, nil
}

func (s *stubObjectStore) PresignGetObject(_ context.Context, bucket, key string, _ time.Duration) (string, error) {
	return "https://" + bucket + ".s3.amazonaws.com/" + key + "?X-Amz-Signature=sig", nil
}

func (s *stubObjectStore) ObjectURL(bucket, key string) string {
	return storage.VirtualHostedURL(bucket, "us-east-1", key)
}

func stringsReader(s string) io.Reader {
	return bytes.NewReader([]byte(s))
}
