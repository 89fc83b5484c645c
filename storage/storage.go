// Package storage is the persistence collaborator: a directory-backed
// diagram library with atomic writes, plus the JSON import boundary. A
// failed save never corrupts the in-memory diagram; unavailable storage is
// reported as a recoverable error, not a panic.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"cdr.dev/slog"
	"oss.terrastruct.com/util-go/xdefer"

	"github.com/loopcanvas/loopcanvas/diagram"
	"github.com/loopcanvas/loopcanvas/lib/log"
)

var (
	// ErrUnavailable wraps filesystem failures (permissions, quota, a
	// missing volume). Callers treat it as recoverable: the in-memory
	// diagram is intact and the operation can be retried.
	ErrUnavailable = errors.New("storage unavailable")

	ErrNotFound = errors.New("diagram not found")
)

// Store keeps one diagram per file, named by diagram id.
type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// Meta is the library listing entry.
type Meta struct {
	ID        string
	Name      string
	Type      diagram.Type
	UpdatedAt time.Time
}

// List returns the library ordered most-recently-updated first.
func (s *Store) List(ctx context.Context) (_ []Meta, err error) {
	defer xdefer.Errorf(&err, "failed to list diagrams")

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var metas []Meta
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		var d diagram.Diagram
		if err := json.Unmarshal(data, &d); err != nil {
			// a corrupt entry shouldn't hide the rest of the library
			log.Warn(ctx, "skipping unreadable diagram file",
				slog.F("file", entry.Name()), slog.Error(err))
			continue
		}
		metas = append(metas, Meta{ID: d.ID, Name: d.Name, Type: d.Type, UpdatedAt: d.UpdatedAt})
	}

	sort.SliceStable(metas, func(i, j int) bool {
		return metas[i].UpdatedAt.After(metas[j].UpdatedAt)
	})
	return metas, nil
}

// Save writes the diagram atomically: full write to a temp file in the
// same directory, then rename. A failure leaves any previous version
// untouched.
func (s *Store) Save(ctx context.Context, d *diagram.Diagram) (err error) {
	defer xdefer.Errorf(&err, "failed to save diagram %q", d.ID)

	if d.ID == "" {
		return errors.New("diagram has no id")
	}

	saved := d.Clone()
	saved.UpdatedAt = time.Now().UTC()
	if saved.CreatedAt.IsZero() {
		saved.CreatedAt = saved.UpdatedAt
	}
	data, err := saved.Bytes()
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, d.ID+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := os.Rename(tmp.Name(), s.path(d.ID)); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	log.Debug(ctx, "diagram saved", slog.F("id", d.ID), slog.F("name", d.Name))
	return nil
}

func (s *Store) Load(ctx context.Context, id string) (_ *diagram.Diagram, err error) {
	defer xdefer.Errorf(&err, "failed to load diagram %q", id)

	data, err := os.ReadFile(s.path(id))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var d diagram.Diagram
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *Store) Delete(ctx context.Context, id string) (err error) {
	defer xdefer.Errorf(&err, "failed to delete diagram %q", id)

	err = os.Remove(s.path(id))
	if errors.Is(err, os.ErrNotExist) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
