package snapshot

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/vango-dev/lazydom/internal/errors"
	"github.com/vango-dev/lazydom/pkg/scenario"
)

// ErrNotFound is returned when no snapshot exists under a key.
var ErrNotFound = errors.New("L061")

// Store is the interface for snapshot storage backends.
type Store interface {
	// Put writes s, replacing any snapshot with the same key.
	Put(ctx context.Context, s *Snapshot) error

	// Get reads the snapshot stored under key.
	Get(ctx context.Context, key string) (*Snapshot, error)

	// List returns every stored key in lexical order.
	List(ctx context.Context) ([]string, error)
}

// Snapshot is one rendered frame.
type Snapshot struct {
	Key  string
	HTML string
	Meta Meta
}

// Meta describes where a snapshot came from.
type Meta struct {
	Scenario   string    `json:"scenario,omitempty"`
	Frame      int       `json:"frame"`
	Created    int       `json:"created"`
	Operations int       `json:"operations"`
	CreatedAt  time.Time `json:"created_at"`
}

// Key returns the key of frame i of a scenario run.
func Key(name string, i int) string {
	return fmt.Sprintf("%s/%04d", name, i)
}

// FromFrame builds the snapshot of frame i of a scenario run.
func FromFrame(name string, i int, f scenario.Frame) *Snapshot {
	return &Snapshot{
		Key:  Key(name, i),
		HTML: f.HTML,
		Meta: Meta{
			Scenario:   name,
			Frame:      i,
			Created:    f.Stats.Created,
			Operations: f.Stats.Operations(),
			CreatedAt:  time.Now().UTC(),
		},
	}
}

// ValidKey rejects keys that are empty, absolute or escape the store root.
func ValidKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || path.Clean(key) != key ||
		key == ".." || strings.HasPrefix(key, "../") {
		return errors.New("L060").WithDetailf("invalid snapshot key %q", key)
	}
	return nil
}
