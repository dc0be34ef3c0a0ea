// Package importer builds a profile from skill documents and saves it to a
// profile store.
package importer

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/samdwyer/bitacora/internal/gamedata"
	"github.com/samdwyer/bitacora/internal/profile"
)

const maxConcurrentReads = 4

// Config holds importer settings.
type Config struct {
	Name   string
	Stats  gamedata.Stats
	Files  []string
	DryRun bool
}

// statsFlag collects repeated -stat KEY=VALUE flags.
type statsFlag gamedata.Stats

func (s statsFlag) String() string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, s[k])
	}
	return strings.Join(parts, ",")
}

func (s statsFlag) Set(value string) error {
	for _, pair := range strings.Split(value, ",") {
		key, raw, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || strings.TrimSpace(key) == "" {
			return fmt.Errorf("stat must look like FUE=7, got %q", pair)
		}
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("stat %s: %w", key, err)
		}
		s[strings.TrimSpace(key)] = n
	}
	return nil
}

// ParseConfig parses command-line flags into a Config. Remaining arguments
// are the skill documents.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := Config{Stats: gamedata.Stats{}}

	fs.StringVar(&cfg.Name, "name", "", "profile display name")
	fs.Var(statsFlag(cfg.Stats), "stat", "stat value as KEY=VALUE; repeatable or comma-separated")
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "parse and report without saving")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	cfg.Files = fs.Args()

	if strings.TrimSpace(cfg.Name) == "" {
		return Config{}, errors.New("name is required")
	}
	if len(cfg.Files) == 0 {
		return Config{}, errors.New("at least one skill document is required")
	}
	return cfg, nil
}

// Run parses the configured documents into a profile, reports each
// document's skill count to out, and saves the profile unless DryRun is set.
func Run(ctx context.Context, cfg Config, store profile.Store, out io.Writer) (gamedata.Profile, error) {
	if out == nil {
		out = io.Discard
	}

	sources, err := readSources(ctx, cfg.Files)
	if err != nil {
		return gamedata.Profile{}, err
	}

	p := profile.Build(strings.TrimSpace(cfg.Name), cfg.Stats, sources)
	for _, doc := range p.Documents {
		fmt.Fprintf(out, "%s: %d skills\n", doc.Name, doc.SkillCount)
	}
	fmt.Fprintf(out, "%s (%s): %d skills, VIT %d\n", p.Name, p.ID, len(p.Skills), p.Stats.VitMax())

	if cfg.DryRun {
		return p, nil
	}
	if store == nil {
		return gamedata.Profile{}, errors.New("profile store is required")
	}
	if err := store.Save(ctx, p); err != nil {
		return gamedata.Profile{}, fmt.Errorf("save profile: %w", err)
	}
	fmt.Fprintf(out, "saved %s\n", p.ID)
	return p, nil
}

// readSources reads the documents concurrently. The result keeps the order
// of paths.
func readSources(ctx context.Context, paths []string) ([]profile.Source, error) {
	sources := make([]profile.Source, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentReads)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			sources[i] = profile.Source{
				Name:    filepath.Base(path),
				Path:    filepath.ToSlash(path),
				Content: string(data),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sources, nil
}
