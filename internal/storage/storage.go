// Package storage provides blob storage for uploaded résumé documents.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Object is a downloaded blob with its declared MIME type.
type Object struct {
	Data     []byte
	MIMEType string
	Size     int64
}

// BlobStore stores and retrieves documents by an opaque reference produced
// at upload time.
type BlobStore interface {
	Upload(ctx context.Context, ref string, data []byte) error
	Download(ctx context.Context, ref string) (*Object, error)
}

// LocalStore is a filesystem-backed BlobStore rooted at a directory.
type LocalStore struct {
	root string
}

// NewLocalStore creates the root directory if needed and returns a store.
func NewLocalStore(root string) (*LocalStore, error) {
	if root == "" {
		return nil, fmt.Errorf("storage root is empty")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root %s: %w", root, err)
	}
	return &LocalStore{root: root}, nil
}

// Upload writes a blob under the given reference.
func (s *LocalStore) Upload(_ context.Context, ref string, data []byte) error {
	path, err := s.resolve(ref)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create blob directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write blob %s: %w", ref, err)
	}
	return nil
}

// Download reads a blob and derives its MIME type from the reference
// extension, matching how the type was declared at upload time.
func (s *LocalStore) Download(_ context.Context, ref string) (*Object, error) {
	path, err := s.resolve(ref)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Ref: ref}
		}
		return nil, fmt.Errorf("failed to read blob %s: %w", ref, err)
	}
	return &Object{
		Data:     data,
		MIMEType: MIMEForRef(ref),
		Size:     int64(len(data)),
	}, nil
}

// resolve maps a reference onto the root, refusing path escapes.
func (s *LocalStore) resolve(ref string) (string, error) {
	if ref == "" {
		return "", fmt.Errorf("blob reference is empty")
	}
	cleaned := filepath.Clean(ref)
	if strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("invalid blob reference: %s", ref)
	}
	return filepath.Join(s.root, cleaned), nil
}

// MIMEForRef derives the declared MIME type from a reference extension.
func MIMEForRef(ref string) string {
	switch strings.ToLower(filepath.Ext(ref)) {
	case ".txt", ".md":
		return "text/plain"
	case ".pdf":
		return "application/pdf"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
