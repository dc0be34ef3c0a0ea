package gamedata

// Stat keys used by profile stat blocks.
const (
	StatVitMax = "VIT_max"
	StatFUE    = "FUE"
	StatVEL    = "VEL"
	StatPM     = "PM"
	StatVOL    = "VOL"
	StatREF    = "REF"
)

// Default stat values used when a profile omits a key.
const (
	DefaultVitMax = 100
	DefaultStat   = 5
)

// Stats is a profile's stat block keyed by stat name (e.g. "FUE").
type Stats map[string]int

// Get returns the value for key and whether it was present.
func (s Stats) Get(key string) (int, bool) {
	v, ok := s[key]
	return v, ok
}

// VitMax returns the maximum vitality, defaulting to DefaultVitMax.
func (s Stats) VitMax() int {
	if v, ok := s[StatVitMax]; ok && v > 0 {
		return v
	}
	return DefaultVitMax
}

// DefaultStats returns a stat block with every known key at its default.
func DefaultStats() Stats {
	return Stats{
		StatVitMax: DefaultVitMax,
		StatFUE:    DefaultStat,
		StatVEL:    DefaultStat,
		StatPM:     DefaultStat,
		StatVOL:    DefaultStat,
		StatREF:    DefaultStat,
	}
}

// Document records a skill document that contributed to a profile.
type Document struct {
	Path       string `json:"ruta"`
	Name       string `json:"nombre"`
	SkillCount int    `json:"habilidades_count"`
}

// Profile is a named character: stat block plus skill catalog.
type Profile struct {
	ID        string     `json:"id"`
	Name      string     `json:"nombre"`
	Stats     Stats      `json:"stats"`
	Documents []Document `json:"documentos"`
	Skills    []Skill    `json:"habilidades"`
}

// Catalog returns a lookup catalog over the profile's skills.
func (p *Profile) Catalog() *Catalog {
	return NewCatalog(p.Skills)
}

// ProfilesFile represents the structure of profiles.json.
type ProfilesFile struct {
	Profiles []Profile `json:"profiles"`
}

// LoadDefaultProfiles loads the demo profiles from the embedded profiles.json.
func LoadDefaultProfiles() ([]Profile, error) {
	file, err := Load[ProfilesFile]("profiles.json")
	if err != nil {
		return nil, err
	}
	return file.Profiles, nil
}
