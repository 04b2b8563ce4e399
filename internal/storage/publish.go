package storage

import (
	"context"
	"fmt"
	"mime"
	"path"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
)

var contentTypes = map[string]string{
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".pdf":  "application/pdf",
	".md":   "text/markdown; charset=utf-8",
}

func (p *implPublisher) Publish(ctx context.Context, prefix string, paths []string) ([]Object, error) {
	objects := make([]Object, 0, len(paths))
	for _, local := range paths {
		if err := ctx.Err(); err != nil {
			return objects, err
		}

		key := ObjectKey(prefix, local)
		info, err := p.client.FPutObject(ctx, p.bucket, key, local, putOptions(local))
		if err != nil {
			return objects, fmt.Errorf("failed to upload %s: %w", filepath.Base(local), err)
		}

		obj := Object{Key: key, Size: info.Size}
		if u, err := p.client.PresignedGetObject(ctx, p.bucket, key, linkExpiry, nil); err == nil {
			obj.URL = u.String()
		}
		objects = append(objects, obj)
	}
	return objects, nil
}

// ObjectKey places the file's base name under prefix using forward slashes
func ObjectKey(prefix, local string) string {
	prefix = strings.Trim(filepath.ToSlash(prefix), "/")
	if prefix == "" {
		return filepath.Base(local)
	}
	return path.Join(prefix, filepath.Base(local))
}

func contentType(local string) string {
	ext := strings.ToLower(filepath.Ext(local))
	if ct, ok := contentTypes[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func putOptions(local string) minio.PutObjectOptions {
	return minio.PutObjectOptions{ContentType: contentType(local)}
}
