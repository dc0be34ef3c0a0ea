package gamedata

import "strings"

// Catalog holds a profile's skills and provides lookup utilities.
type Catalog struct {
	skills map[string]*Skill
	all    []Skill
}

// NewCatalog creates a catalog from skill records, preserving their order.
func NewCatalog(skills []Skill) *Catalog {
	catalog := &Catalog{
		skills: make(map[string]*Skill, len(skills)),
		all:    skills,
	}
	for i := range skills {
		catalog.skills[skills[i].ID] = &skills[i]
	}
	return catalog
}

// GetByID returns the skill with the given ID, or nil if not found.
func (c *Catalog) GetByID(id string) *Skill {
	return c.skills[id]
}

// Active returns the skills usable as combat actions, in catalog order.
func (c *Catalog) Active() []*Skill {
	result := make([]*Skill, 0, len(c.all))
	for i := range c.all {
		if !c.all[i].IsPassive() {
			result = append(result, &c.all[i])
		}
	}
	return result
}

// Search returns active skills whose name contains query (case-insensitive).
func (c *Catalog) Search(query string) []*Skill {
	query = strings.ToLower(strings.TrimSpace(query))
	active := c.Active()
	if query == "" {
		return active
	}
	result := make([]*Skill, 0, len(active))
	for _, s := range active {
		if strings.Contains(strings.ToLower(s.Name), query) {
			result = append(result, s)
		}
	}
	return result
}
