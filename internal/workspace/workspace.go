// Package workspace stores screenshots and generated source files on the server's disk,
// so that image paths can later be handed to the image evaluation route.
package workspace

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// MaxBodyBytes caps request bodies for the upload routes
	MaxBodyBytes = 100 << 20

	DirPerm  os.FileMode = 0755
	FilePerm os.FileMode = 0644

	pngDataURIPrefix = "data:image/png;base64,"
)

var (
	ErrNoImageData   = errors.New("no image data received")
	ErrInvalidImage  = errors.New("invalid image data format")
	ErrMissingFields = errors.New("file path and content are required")
	ErrOutsideRoot   = errors.New("path escapes the workspace root")
)

var timestampReplacer = strings.NewReplacer(":", "-", ".", "-")

// Screenshot describes a saved PNG
type Screenshot struct {
	Filename string
	Path     string
}

type Workspace struct {
	root      string
	imagesDir string
	now       func() time.Time
}

// New resolves root and imagesDir to absolute paths and creates imagesDir if needed.
func New(root, imagesDir string) (*Workspace, error) {
	if root == "" {
		root = "."
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace root: %w", err)
	}
	if imagesDir == "" {
		return nil, fmt.Errorf("images directory is required")
	}
	absImages, err := filepath.Abs(imagesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve images directory: %w", err)
	}
	if err := os.MkdirAll(absImages, DirPerm); err != nil {
		return nil, fmt.Errorf("failed to create images directory: %w", err)
	}
	return &Workspace{
		root:      absRoot,
		imagesDir: absImages,
		now:       time.Now,
	}, nil
}

func (w *Workspace) Root() string      { return w.root }
func (w *Workspace) ImagesDir() string { return w.imagesDir }

// SaveScreenshot decodes a PNG data URI (or bare base64 payload) and writes it under the
// images directory with a timestamped name.
func (w *Workspace) SaveScreenshot(imageData string) (Screenshot, error) {
	if imageData == "" {
		return Screenshot{}, ErrNoImageData
	}
	payload := strings.TrimPrefix(imageData, pngDataURIPrefix)
	if payload == "" {
		return Screenshot{}, ErrInvalidImage
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Screenshot{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	stamp := timestampReplacer.Replace(w.now().UTC().Format("2006-01-02T15:04:05.000Z07:00"))
	name := "screenshot-" + stamp + ".png"
	path := filepath.Join(w.imagesDir, name)
	if err := os.WriteFile(path, data, FilePerm); err != nil {
		return Screenshot{}, fmt.Errorf("failed to write screenshot: %w", err)
	}
	return Screenshot{Filename: name, Path: path}, nil
}

// WriteFile writes content to rel, resolved under the workspace root. The parent
// directory must already exist.
func (w *Workspace) WriteFile(rel, content string) (string, error) {
	if rel == "" || content == "" {
		return "", ErrMissingFields
	}
	target, err := w.resolve(rel)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(target, []byte(content), FilePerm); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return target, nil
}

// resolve joins rel onto the root and rejects targets that land outside it, either
// lexically or through a symlink in the parent directory or at the target itself.
func (w *Workspace) resolve(rel string) (string, error) {
	target := filepath.Join(w.root, rel)
	if !within(w.root, target) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, rel)
	}

	root, err := filepath.EvalSymlinks(w.root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve workspace root: %w", err)
	}
	dir, err := filepath.EvalSymlinks(filepath.Dir(target))
	if err != nil {
		return "", fmt.Errorf("failed to resolve parent of %s: %w", rel, err)
	}
	real := filepath.Join(dir, filepath.Base(target))
	if info, err := os.Lstat(real); err == nil && info.Mode()&os.ModeSymlink != 0 {
		if real, err = filepath.EvalSymlinks(real); err != nil {
			return "", fmt.Errorf("failed to resolve %s: %w", rel, err)
		}
	}
	if !within(root, real) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, rel)
	}
	return target, nil
}

// within reports whether path is strictly below root.
func within(root, path string) bool {
	r, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return r != "." && r != ".." && !strings.HasPrefix(r, ".."+string(filepath.Separator))
}
