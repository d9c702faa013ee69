package upload

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/crudapp/crudapp/pkg/logger"
	"github.com/crudapp/crudapp/pkg/metrics"
)

// Mirror receives a copy of every stored upload, keyed by file name.
// *storage.MinIOStorage implements it.
type Mirror interface {
	UploadFile(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
	RemoveFile(ctx context.Context, name string) error
}

// DiskStore writes uploads into <publicDir><urlPrefix> and hands back
// server-relative paths (<urlPrefix>/<name>) that the static file server resolves.
type DiskStore struct {
	publicDir string
	prefix    string
	clock     Clock
	mirror    Mirror
}

type Option func(*DiskStore)

// WithClock overrides the clock used for file naming.
func WithClock(c Clock) Option { return func(s *DiskStore) { s.clock = c } }

// WithMirror copies every saved file to m and removes it there on Remove.
func WithMirror(m Mirror) Option { return func(s *DiskStore) { s.mirror = m } }

// NewDiskStore creates the uploads directory if it does not exist yet.
func NewDiskStore(publicDir, urlPrefix string, opts ...Option) (*DiskStore, error) {
	s := &DiskStore{
		publicDir: publicDir,
		prefix:    path.Clean("/" + urlPrefix),
		clock:     time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	if err := os.MkdirAll(s.Dir(), 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return s, nil
}

// Dir is the directory uploads are written to.
func (s *DiskStore) Dir() string {
	return filepath.Join(s.publicDir, filepath.FromSlash(strings.TrimPrefix(s.prefix, "/")))
}

// URLPrefix is the URL path uploads are served under.
func (s *DiskStore) URLPrefix() string { return s.prefix }

// Resolve maps a server-relative path to a file under the public directory.
// The path is cleaned as if rooted, so it cannot escape the public directory.
func (s *DiskStore) Resolve(rel string) string {
	return filepath.Join(s.publicDir, filepath.FromSlash(path.Clean("/"+rel)))
}

// Save writes the uploaded file and returns its server-relative path.
// No size or type checks are made.
func (s *DiskStore) Save(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	name := GenerateName(filepath.Ext(fh.Filename), s.clock)
	dst := filepath.Join(s.Dir(), name)
	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", dst, err)
	}
	n, err := io.Copy(out, src)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", fmt.Errorf("write %s: %w", dst, err)
	}
	metrics.UploadBytes.Add(float64(n))

	if s.mirror != nil {
		s.mirrorPut(ctx, dst, name, n, fh.Header.Get("Content-Type"))
	}
	return path.Join(s.prefix, name), nil
}

// Remove deletes the file behind a server-relative path. A missing file is an error.
func (s *DiskStore) Remove(ctx context.Context, rel string) error {
	if err := os.Remove(s.Resolve(rel)); err != nil {
		return fmt.Errorf("remove upload: %w", err)
	}
	if s.mirror != nil {
		name := path.Base(rel)
		if err := s.mirror.RemoveFile(ctx, name); err != nil {
			logger.Warnf("mirror remove %s failed: %v", name, err)
		}
	}
	return nil
}

func (s *DiskStore) mirrorPut(ctx context.Context, file, name string, size int64, contentType string) {
	f, err := os.Open(file)
	if err != nil {
		logger.Warnf("mirror upload %s: reopen failed: %v", name, err)
		return
	}
	defer f.Close()
	if err := s.mirror.UploadFile(ctx, name, f, size, contentType); err != nil {
		logger.Warnf("mirror upload %s failed: %v", name, err)
	}
}
