package profile

import (
	"context"
	"fmt"

	"github.com/samdwyer/bitacora/internal/gamedata"
	"github.com/samdwyer/bitacora/internal/skilldoc"
)

// Source is one skill document to import into a profile.
type Source struct {
	Name    string // File name shown in the profile
	Path    string // Path recorded on each skill
	Content string
}

// ID derives a profile ID from its display name.
func ID(name string) string {
	if slug := skilldoc.Slug(name); slug != "" {
		return slug
	}
	return "perfil"
}

// Build parses every source and assembles a profile. Missing stats take
// their defaults. Skills keep document order; a skill ID seen twice keeps
// its first occurrence.
func Build(name string, stats gamedata.Stats, sources []Source) gamedata.Profile {
	merged := gamedata.DefaultStats()
	for k, v := range stats {
		merged[k] = v
	}

	p := gamedata.Profile{
		ID:     ID(name),
		Name:   name,
		Stats:  merged,
		Skills: []gamedata.Skill{},
	}

	seen := make(map[string]bool)
	for _, src := range sources {
		skills := skilldoc.Parse(src.Content, src.Name, src.Path)
		p.Documents = append(p.Documents, gamedata.Document{
			Path:       src.Path,
			Name:       src.Name,
			SkillCount: len(skills),
		})
		for _, sk := range skills {
			if seen[sk.ID] {
				continue
			}
			seen[sk.ID] = true
			p.Skills = append(p.Skills, sk)
		}
	}
	return p
}

// Normalize fills the damage formula of skills stored without one, as in
// profiles written before formulas were recorded.
func Normalize(p *gamedata.Profile) {
	for i := range p.Skills {
		if p.Skills[i].Formula == nil {
			p.Skills[i].Formula = skilldoc.ExtractFormula(p.Skills[i].Effect)
		}
	}
}

// Seed saves the embedded demo profiles when the store holds none. It
// returns how many profiles were written.
func Seed(ctx context.Context, store Store) (int, error) {
	existing, err := store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("seed: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	defaults, err := gamedata.LoadDefaultProfiles()
	if err != nil {
		return 0, fmt.Errorf("seed: %w", err)
	}
	for _, p := range defaults {
		if err := store.Save(ctx, p); err != nil {
			return 0, fmt.Errorf("seed %q: %w", p.ID, err)
		}
	}
	return len(defaults), nil
}
