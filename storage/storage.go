// Package storage abstracts blob storage for uploaded menu-item images so
// the domain logic stays storage-agnostic.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Placeholder is the well-known path served when an item has no image.
// It is never stored or deleted by this package.
const Placeholder = "menu-items/placeholder.png"

type Blob interface {
	// Store writes data and returns the path it can later be addressed by.
	Store(data []byte, ext string) (string, error)
	Delete(path string) error
	Exists(path string) bool
}

// Disk stores blobs under a root directory with uuid filenames, e.g.
// menu-items/5f3a....png.
type Disk struct {
	Root string
}

func NewDisk(root string) (*Disk, error) {
	if err := os.MkdirAll(filepath.Join(root, "menu-items"), 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &Disk{Root: root}, nil
}

func (d *Disk) Store(data []byte, ext string) (string, error) {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	name := uuid.NewString()
	if ext != "" {
		name += "." + ext
	}
	path := filepath.ToSlash(filepath.Join("menu-items", name))
	if err := os.WriteFile(filepath.Join(d.Root, filepath.FromSlash(path)), data, 0o644); err != nil {
		return "", fmt.Errorf("store blob: %w", err)
	}
	return path, nil
}

func (d *Disk) Delete(path string) error {
	if path == "" || path == Placeholder {
		return nil
	}
	err := os.Remove(filepath.Join(d.Root, filepath.FromSlash(path)))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (d *Disk) Exists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(filepath.Join(d.Root, filepath.FromSlash(path)))
	return err == nil
}
