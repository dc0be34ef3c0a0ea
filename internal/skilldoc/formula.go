package skilldoc

import (
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/samdwyer/bitacora/internal/gamedata"
)

// formulaStats is the stat vocabulary a damage formula may name.
var formulaStats = []string{"FUE", "VEL", "PM", "VOL", "REF", "VIT", "ARMA", "WEB", "RANGO", "ATRIBUTO"}

// formulaPatterns are tried in order; the first match naming a known stat wins.
var formulaPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:Daña|Causa[^"]*daño[^"]*)\s*["“”]?(\w+)\s*[*x×]\s*(\d+(?:\.\d+)?)`),
	regexp.MustCompile(`(?i)["“”](\w+)\s*[*x×]\s*(\d+(?:\.\d+)?)["“”]`),
	regexp.MustCompile(`(?i)(\w+)\s*[*x×]\s*(\d+(?:\.\d+)?)`),
}

// ExtractFormula finds a "STAT x N" damage hint in an effect text. It
// returns nil when the text names no known stat.
func ExtractFormula(effect string) *gamedata.DamageFormula {
	if effect == "" {
		return nil
	}

	for _, re := range formulaPatterns {
		m := re.FindStringSubmatch(effect)
		if m == nil {
			continue
		}
		stat := strings.ToUpper(m[1])
		if !slices.Contains(formulaStats, stat) {
			continue
		}
		multiplier, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			continue
		}
		return &gamedata.DamageFormula{Stat: stat, Multiplier: multiplier}
	}

	return nil
}
