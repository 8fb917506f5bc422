package storage

import (
	"context"
	"errors"
	"path"
	"strings"
	"time"
)

// Prefix namespaces community uploads inside the bucket.
const Prefix = "public/"

var ErrObjectExists = errors.New("object already exists")

type Object struct {
	Key          string
	LastModified time.Time
}

//go:generate go run go.uber.org/mock/mockgen -source=storage.go -destination=mocks/mock.go
type Client interface {
	// Upload stores data at key and fails with ErrObjectExists instead of overwriting
	Upload(ctx context.Context, key string, data []byte, contentType string) error

	// PublicURL resolves the public address of key
	PublicURL(key string) string

	// List returns objects whose key starts with prefix
	List(ctx context.Context, prefix string) ([]Object, error)

	Remove(ctx context.Context, key string) error
}

// ObjectKey builds the namespaced key for an uploaded file name.
func ObjectKey(fileName string) string {
	name := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if name == "." || name == "/" || name == ".." {
		name = "image"
	}
	return Prefix + name
}
