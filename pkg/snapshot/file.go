package snapshot

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/vango-dev/lazydom/internal/errors"
)

const (
	htmlExt = ".html"
	metaExt = ".meta"
)

// FileStore stores snapshots on the local filesystem. Each snapshot is an
// HTML file plus a JSON metadata file next to it.
type FileStore struct {
	dir string
}

// NewFileStore creates a FileStore rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.New("L060").Wrap(err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the store root.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) path(key, ext string) string {
	return filepath.Join(s.dir, filepath.FromSlash(key)+ext)
}

// Put implements Store.
func (s *FileStore) Put(_ context.Context, snap *Snapshot) error {
	if err := ValidKey(snap.Key); err != nil {
		return err
	}
	p := s.path(snap.Key, htmlExt)
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return errors.New("L060").Wrap(err)
	}
	if err := os.WriteFile(p, []byte(snap.HTML), 0644); err != nil {
		return errors.New("L060").Wrap(err)
	}

	data, err := json.Marshal(snap.Meta)
	if err != nil {
		return errors.New("L060").Wrap(err)
	}
	if err := os.WriteFile(s.path(snap.Key, metaExt), data, 0644); err != nil {
		return errors.New("L060").Wrap(err)
	}
	return nil
}

// Get implements Store.
func (s *FileStore) Get(_ context.Context, key string) (*Snapshot, error) {
	if err := ValidKey(key); err != nil {
		return nil, err
	}
	html, err := os.ReadFile(s.path(key, htmlExt))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("L061").WithDetailf("key %q", key)
		}
		return nil, errors.New("L060").Wrap(err)
	}

	snap := &Snapshot{Key: key, HTML: string(html)}
	// A missing metadata file leaves Meta zero.
	if data, err := os.ReadFile(s.path(key, metaExt)); err == nil {
		if err := json.Unmarshal(data, &snap.Meta); err != nil {
			return nil, errors.New("L060").WithDetailf("metadata for %q", key).Wrap(err)
		}
	}
	return snap, nil
}

// List implements Store.
func (s *FileStore) List(_ context.Context) ([]string, error) {
	var keys []string
	err := filepath.WalkDir(s.dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, htmlExt) {
			return nil
		}
		rel, err := filepath.Rel(s.dir, p)
		if err != nil {
			return err
		}
		keys = append(keys, filepath.ToSlash(strings.TrimSuffix(rel, htmlExt)))
		return nil
	})
	if err != nil {
		return nil, errors.New("L060").Wrap(err)
	}
	slices.Sort(keys)
	return keys, nil
}
