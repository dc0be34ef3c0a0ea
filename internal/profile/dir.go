package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/samdwyer/bitacora/internal/gamedata"
)

// DirStore keeps one <id>.json file per profile in a directory.
type DirStore struct {
	dir    string
	logger *slog.Logger
}

// NewDirStore creates the directory if needed and returns a store over it.
func NewDirStore(dir string, logger *slog.Logger) (*DirStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("profile directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create profile directory: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DirStore{dir: dir, logger: logger}, nil
}

// List reads every profile file. Unreadable files are logged and skipped.
func (s *DirStore) List(ctx context.Context) ([]gamedata.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	matches, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	profiles := make([]gamedata.Profile, 0, len(matches))
	for _, path := range matches {
		p, err := s.read(path)
		if err != nil {
			s.logger.Warn("skipping unreadable profile", "path", path, "error", err)
			continue
		}
		profiles = append(profiles, p)
	}
	sort.Slice(profiles, func(i, j int) bool {
		return strings.ToLower(profiles[i].Name) < strings.ToLower(profiles[j].Name)
	})
	return profiles, nil
}

// Get reads one profile.
func (s *DirStore) Get(ctx context.Context, id string) (gamedata.Profile, error) {
	if err := ctx.Err(); err != nil {
		return gamedata.Profile{}, err
	}
	p, err := s.read(s.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return gamedata.Profile{}, fmt.Errorf("get %q: %w", id, ErrNotFound)
	}
	return p, err
}

// Save writes a profile atomically via a temporary file.
func (s *DirStore) Save(ctx context.Context, p gamedata.Profile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("profile id is required")
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode profile %q: %w", p.ID, err)
	}
	tmp := s.path(p.ID) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write profile %q: %w", p.ID, err)
	}
	if err := os.Rename(tmp, s.path(p.ID)); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write profile %q: %w", p.ID, err)
	}
	s.logger.Info("profile saved", "id", p.ID, "skills", len(p.Skills))
	return nil
}

// Delete removes a profile file.
func (s *DirStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := os.Remove(s.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("delete profile %q: %w", id, err)
	}
	return nil
}

func (s *DirStore) path(id string) string {
	return filepath.Join(s.dir, filepath.Base(id)+".json")
}

func (s *DirStore) read(path string) (gamedata.Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return gamedata.Profile{}, err
	}
	defer f.Close()
	p, err := gamedata.Decode[gamedata.Profile](f, filepath.Base(path))
	if err != nil {
		return gamedata.Profile{}, err
	}
	Normalize(&p)
	return p, nil
}

var _ Store = (*DirStore)(nil)
