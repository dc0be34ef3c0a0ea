// Package skilldoc parses plain-text skill documents into catalog skills.
//
// A document is read line by line. Blank lines and separator rules are
// skipped, section headers switch between active and passive skills, and a
// skill header line opens a block that collects the lines below it until the
// next header. Each block is then read field by field:
//
//	[FÍSICO] - PATADA RÁPIDA        header with category
//	Física — Ofensiva               type and classification
//	20 EXP                          experience cost
//	Alcance: 1                      range (also "Cónico 4", "Área 2", "3x3")
//	TIER 1                          tier ("No clasificada" is tier 0)
//	PA: 2                           action point cost ("PA Variable" is 0)
//	Efecto visual: ...              visual effect
//	Efecto: Daña FUE x2 ...         mechanical effect, may continue below
//	ACLARACIONES:                   clarifications until the next header
//	- No acumulable
//
// A block becomes a skill when it has a name plus an effect, a visual effect
// or a tier.
package skilldoc

import (
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/samdwyer/bitacora/internal/gamedata"
)

// defaultPACost is the cost of a skill whose block declares none.
const defaultPACost = 1

var (
	separatorRe = regexp.MustCompile(`^[=\-█]{10,}$`)

	passiveSectionRe = regexp.MustCompile(`(?i)^HABILIDADES?\s*PASIVAS?$`)
	activeSectionRe  = regexp.MustCompile(`(?i)^HABILIDADES?\s*(ACTIVAS?|BÁSICAS?)$`)
	rankSectionRe    = regexp.MustCompile(`(?i)^RANGO\s+(ÚNICO|I{1,3}V?|IV|V|VI?)$`)

	bracketHeaderRe = regexp.MustCompile(`^\[.+\]`)
	upperHeaderRe   = regexp.MustCompile(`^[A-ZÁÉÍÓÚÑ][A-ZÁÉÍÓÚÑ\s\-–—:¡!¿?"'“”()]+$`)
	upperTitleRe    = regexp.MustCompile(`^[A-ZÁÉÍÓÚÑ\s]+$`)
	categoryDashRe  = regexp.MustCompile(`^\[([^\]]+)\]\s*[-–—]\s*(.+)$`)
	categorySpaceRe = regexp.MustCompile(`^\[([^\]]+)\]\s+(.+)$`)

	clarificationsRe = regexp.MustCompile(`(?i)^ACLARACION(ES)?:?\s*$`)
	bulletRe         = regexp.MustCompile(`^[-•]\s*`)
	notApplicableRe  = regexp.MustCompile(`(?i)^N/A\.?$`)
	typeClassRe      = regexp.MustCompile(`(?i)^([\w\s/áéíóúñÁÉÍÓÚÑ]+?)\s*[-–—]\s*([\w\s/áéíóúñÁÉÍÓÚÑ]+)$`)
	passiveTypeRe    = regexp.MustCompile(`(?i)^(Habilidad\s+)?Pasiva$`)
	expRe            = regexp.MustCompile(`(?i)^(\d+)\s*EXP`)
	rangeRe          = regexp.MustCompile(`(?i)^Alcance[:\s]*([\w\s,áéíóúñ"]+)$`)
	areaRe           = regexp.MustCompile(`(?i)^(Cónico|Área|Conico|Area|\d+x\d+)`)
	tierRe           = regexp.MustCompile(`(?i)^TIER[:\s]*(\d+)`)
	unclassifiedRe   = regexp.MustCompile(`(?i)^No\s+clasificad[ao]$`)
	variablePARe     = regexp.MustCompile(`(?i)^PA\s+Variable$`)
	costRe           = regexp.MustCompile(`(?i)^(?:PA|Coste|Costo)[:\s]*(Variable|\d+)`)
	visualRe         = regexp.MustCompile(`(?i)^Efecto\s+visual[:\s]*(.*)$`)
	effectRe         = regexp.MustCompile(`(?i)^Efecto[:\s]*(.*)$`)
	fieldStartRe     = regexp.MustCompile(`(?i)^(?:Alcance|TIER|PA|Costo|Coste)\b`)
)

// documentTitles are heading lines that are neither sections nor skills.
var documentTitles = []string{
	"PERFIL BÁSICO", "PERFIL BASICO",
	"TOMO MÁGICO", "TOMO MAGICO",
	"COMANDOS BÁSICOS", "COMANDOS BASICOS",
}

// archetypeTitles are upper-case archetype headings found above skill lists.
var archetypeTitles = []string{
	"ARMAS DE FUEGO", "ARMAS DE FILO", "ARMAS CONTUNDENTES",
	"ARMAS ARROJADIZAS", "CIENTÍFICO", "COMBATIENTE BRUTO",
	"COMBATIENTE ÁGIL", "COMBATIENTE AGIL", "LÍDER", "LIDER",
	"MÍSTICO", "MISTICO", "PARAMÉDICO", "PARAMEDICO",
	"MAGIA VISHANTI", "MAGIA OSCURA", "MAGIA NÓRDICA",
	"MAGIA DE LA TIERRA", "MAGIA INFERNAL", "MAGIA VOODOO",
	"MAGIA ARCANA",
}

// block is the raw lines of one skill.
type block struct {
	header  string
	passive bool // Opened inside a passive section
	lines   []string
}

// Parse extracts the skills of one document. fileName and filePath are
// recorded on each skill and feed its ID.
func Parse(content, fileName, filePath string) []gamedata.Skill {
	var (
		skills  []gamedata.Skill
		current *block
		passive bool
	)

	flush := func() {
		if current == nil {
			return
		}
		if skill, ok := parseBlock(current, fileName, filePath); ok {
			skills = append(skills, skill)
		}
		current = nil
	}

	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		switch {
		case line == "" || separatorRe.MatchString(line):
			continue
		case passiveSectionRe.MatchString(line):
			passive = true
			continue
		case activeSectionRe.MatchString(line) || rankSectionRe.MatchString(line):
			passive = false
			continue
		case isDocumentTitle(line):
			continue
		case isSkillHeader(line):
			flush()
			current = &block{header: line, passive: passive}
			continue
		}
		if current != nil {
			current.lines = append(current.lines, line)
		}
	}
	flush()

	return skills
}

func isDocumentTitle(line string) bool {
	upper := strings.ToUpper(line)
	if slices.Contains(documentTitles, upper) {
		return true
	}
	return upperTitleRe.MatchString(line) && line == upper && slices.Contains(archetypeTitles, upper)
}

func isSkillHeader(line string) bool {
	if bracketHeaderRe.MatchString(line) {
		return true
	}
	if len([]rune(line)) < 3 || !upperHeaderRe.MatchString(line) {
		return false
	}
	return !clarificationsRe.MatchString(line) &&
		!passiveSectionRe.MatchString(line) &&
		!activeSectionRe.MatchString(line) &&
		!rankSectionRe.MatchString(line) &&
		!isDocumentTitle(line)
}

// splitHeader returns the category and name of a skill header line.
func splitHeader(line string) (category, name string) {
	if m := categoryDashRe.FindStringSubmatch(line); m != nil {
		return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	}
	if m := categorySpaceRe.FindStringSubmatch(line); m != nil {
		return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	}
	return "", strings.TrimSpace(line)
}

func parseBlock(b *block, fileName, filePath string) (gamedata.Skill, bool) {
	if len(b.lines) == 0 {
		return gamedata.Skill{}, false
	}

	skill := gamedata.Skill{
		PACost:        defaultPACost,
		Source:        fileName,
		SourcePath:    filePath,
		Passive:       b.passive,
		Clarification: []string{},
	}
	skill.Category, skill.Name = splitHeader(b.header)
	if isPassiveLabel(skill.Category) {
		skill.Passive = true
	}

	var (
		effect, visual     []string
		inEffect, inVisual bool
		inClarifications   bool
	)

	for _, line := range b.lines {
		if clarificationsRe.MatchString(line) {
			inClarifications, inEffect, inVisual = true, false, false
			continue
		}
		if inClarifications {
			cleaned := strings.TrimSpace(bulletRe.ReplaceAllString(line, ""))
			if cleaned != "" && cleaned != "-" && !notApplicableRe.MatchString(cleaned) {
				skill.Clarification = append(skill.Clarification, cleaned)
			}
			continue
		}

		if m := typeClassRe.FindStringSubmatch(line); m != nil && skill.Type == "" {
			skill.Type = strings.TrimSpace(m[1])
			skill.Class = strings.TrimSpace(m[2])
			if isPassiveLabel(skill.Type) || isPassiveLabel(skill.Class) {
				skill.Passive = true
			}
			continue
		}
		if passiveTypeRe.MatchString(line) && skill.Type == "" {
			skill.Type = "Pasiva"
			skill.Passive = true
			continue
		}
		if m := expRe.FindStringSubmatch(line); m != nil {
			skill.EXPCost = atoiPtr(m[1])
			continue
		}
		if m := rangeRe.FindStringSubmatch(line); m != nil && skill.Range == "" {
			skill.Range = strings.TrimSpace(m[1])
			continue
		}
		if areaRe.MatchString(line) && skill.Range == "" {
			skill.Range = line
			continue
		}
		if m := tierRe.FindStringSubmatch(line); m != nil {
			skill.Tier = atoiPtr(m[1])
			continue
		}
		if unclassifiedRe.MatchString(line) {
			zero := 0
			skill.Tier = &zero
			continue
		}
		if variablePARe.MatchString(line) {
			skill.PACost = 0
			continue
		}
		if m := costRe.FindStringSubmatch(line); m != nil {
			if strings.EqualFold(m[1], "variable") {
				skill.PACost = 0
			} else if n, err := strconv.Atoi(m[1]); err == nil {
				skill.PACost = n
			}
			continue
		}
		if m := visualRe.FindStringSubmatch(line); m != nil {
			visual = startBody(m[1])
			inVisual, inEffect = true, false
			continue
		}
		if m := effectRe.FindStringSubmatch(line); m != nil {
			effect = startBody(m[1])
			inEffect, inVisual = true, false
			continue
		}

		if fieldStartRe.MatchString(line) {
			continue
		}
		switch {
		case inEffect:
			effect = append(effect, line)
		case inVisual:
			visual = append(visual, line)
		}
	}

	skill.Effect = strings.TrimSpace(strings.Join(effect, " "))
	skill.VisualEffect = strings.TrimSpace(strings.Join(visual, " "))

	if skill.Name == "" || (skill.Effect == "" && skill.VisualEffect == "" && skill.Tier == nil) {
		return gamedata.Skill{}, false
	}
	skill.ID = SkillID(skill.Name, filePath)
	skill.Formula = ExtractFormula(skill.Effect)

	return skill, true
}

func startBody(first string) []string {
	if first = strings.TrimSpace(first); first != "" {
		return []string{first}
	}
	return nil
}

func isPassiveLabel(s string) bool {
	s = strings.ToLower(s)
	return strings.Contains(s, "pasiv") || strings.Contains(s, "parafernalia")
}

func atoiPtr(s string) *int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}
