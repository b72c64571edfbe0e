package storage

import (
	"context"
	"errors"
	"io"
	"net/url"
	"strings"
	"time"
)

var (
	ErrInvalidObjectURL = errors.New("invalid object url")
	ErrEmptyObjectBody  = errors.New("no file content received")
)

// Object es la respuesta de almacenamiento para un GET; el llamador cierra Body.
type Object struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength *int64
}

// ObjectInfo describe un objeto en un listado.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// ObjectStore abstrae el almacenamiento de objetos usado por los gateways.
type ObjectStore interface {
	GetObject(ctx context.Context, bucket, key string) (*Object, error)
	ListObjects(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error)
	PresignGetObject(ctx context.Context, bucket, key string, ttl time.Duration) (string, error)
	ObjectURL(bucket, key string) string
}

// ObjectRef identifica un objeto dentro de un bucket.
type ObjectRef struct {
	Bucket string
	Key    string
}

// Filename devuelve el ultimo segmento de la clave.
func (r ObjectRef) Filename() string {
	if i := strings.LastIndex(r.Key, "/"); i >= 0 {
		return r.Key[i+1:]
	}
	return r.Key
}

// ParseObjectURL resuelve bucket y clave de una URL virtual-hosted de S3.
// El host solo se compara por subcadena contra hostMarker: no es un control de seguridad.
func ParseObjectURL(raw, hostMarker string) (ObjectRef, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || hostMarker == "" {
		return ObjectRef{}, ErrInvalidObjectURL
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ObjectRef{}, ErrInvalidObjectURL
	}
	host := u.Hostname()
	if !strings.Contains(host, hostMarker) {
		return ObjectRef{}, ErrInvalidObjectURL
	}
	bucket, _, _ := strings.Cut(host, ".")
	return ObjectRef{
		Bucket: bucket,
		Key:    strings.TrimPrefix(u.Path, "/"),
	}, nil
}
