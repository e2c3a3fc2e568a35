package ingredient

import (
	"regexp"
	"strconv"
	"strings"
)

// Entry is one parsed line of ingredient text. Quantity fields are nil when
// the line carries no amount; group headers keep the line verbatim in
// Description so callers can reconstruct document structure.
type Entry struct {
	Quantity        *float64 `json:"quantity"`
	Quantity2       *float64 `json:"quantity2"`
	UnitOfMeasure   *string  `json:"unitOfMeasure"`
	UnitOfMeasureID *string  `json:"unitOfMeasureID"`
	Description     string   `json:"description"`
	IsGroupHeader   bool     `json:"isGroupHeader"`
}

// Options control parsing behavior.
type Options struct {
	// NormalizeUOM replaces the unit as written with its canonical short
	// form ("tablespoon", "Tbsp." -> "tbsp").
	NormalizeUOM bool
}

// Parser turns free-form ingredient text into structured entries.
type Parser struct {
	opts Options
}

// NewParser creates a parser with the given options.
func NewParser(opts Options) *Parser {
	return &Parser{opts: opts}
}

var (
	vulgarFractions = map[rune]float64{
		'½': 1.0 / 2, '⅓': 1.0 / 3, '⅔': 2.0 / 3,
		'¼': 1.0 / 4, '¾': 3.0 / 4,
		'⅕': 1.0 / 5, '⅖': 2.0 / 5, '⅗': 3.0 / 5, '⅘': 4.0 / 5,
		'⅙': 1.0 / 6, '⅚': 5.0 / 6,
		'⅛': 1.0 / 8, '⅜': 3.0 / 8, '⅝': 5.0 / 8, '⅞': 7.0 / 8,
	}

	reMixed   = regexp.MustCompile(`^(\d+)[ \t]+(\d+)[ \t]*/[ \t]*(\d+)`)
	reFrac    = regexp.MustCompile(`^(\d+)[ \t]*/[ \t]*(\d+)`)
	reDecimal = regexp.MustCompile(`^(\d+(?:\.\d+)?|\.\d+)`)
	reRange   = regexp.MustCompile(`^[ \t]*(?:-|–|—|to\b|or\b)[ \t]*`)
	reWord    = regexp.MustCompile(`^[^\s]+`)
)

// Parse splits text on newlines and parses each non-empty line into an
// Entry. Segmenting is the parser's job; callers hand over the full text.
func (p *Parser) Parse(text string) []Entry {
	entries := make([]Entry, 0)
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		// Leading list markers are noise from pasted recipe text.
		line = strings.TrimSpace(strings.TrimLeft(line, "-*•"))
		if line == "" {
			continue
		}
		entries = append(entries, p.parseLine(line))
	}
	return entries
}

func (p *Parser) parseLine(line string) Entry {
	qty, rest := readQuantity(line)

	if qty == nil && isGroupHeader(line) {
		return Entry{Description: line, IsGroupHeader: true}
	}

	var entry Entry
	entry.Quantity = qty

	if qty != nil {
		// Range: "2-3 cups", "2 to 3 cups".
		if loc := reRange.FindStringIndex(rest); loc != nil {
			if qty2, rest2 := readQuantity(rest[loc[1]:]); qty2 != nil {
				entry.Quantity2 = qty2
				rest = rest2
			}
		}
	}

	rest = strings.TrimSpace(rest)
	if word := reWord.FindString(rest); word != "" {
		if unit := lookupUnit(word); unit != nil {
			entry.UnitOfMeasureID = strPtr(unit.ID)
			if p.opts.NormalizeUOM {
				entry.UnitOfMeasure = strPtr(unit.Short)
			} else {
				entry.UnitOfMeasure = strPtr(word)
			}
			rest = strings.TrimSpace(rest[len(word):])
		}
	}

	// "2 cups of flour" -> "flour".
	if len(rest) >= 3 && strings.EqualFold(rest[:3], "of ") {
		rest = strings.TrimSpace(rest[3:])
	}

	entry.Description = rest
	return entry
}

// isGroupHeader reports whether a quantity-less line labels a sub-section
// rather than naming an ingredient ("For the sauce:").
func isGroupHeader(line string) bool {
	if strings.HasSuffix(line, ":") {
		return true
	}
	lower := strings.ToLower(line)
	return strings.HasPrefix(lower, "for ")
}

// readQuantity consumes a leading amount (integer, decimal, fraction, mixed
// number or unicode fraction) and returns it with the unconsumed remainder.
// Returns nil when the line does not start with an amount.
func readQuantity(s string) (*float64, string) {
	s = strings.TrimLeft(s, " \t")

	if m := reMixed.FindStringSubmatch(s); m != nil {
		whole, _ := strconv.ParseFloat(m[1], 64)
		num, _ := strconv.ParseFloat(m[2], 64)
		den, _ := strconv.ParseFloat(m[3], 64)
		if den != 0 {
			v := whole + num/den
			return &v, s[len(m[0]):]
		}
	}

	if m := reFrac.FindStringSubmatch(s); m != nil {
		num, _ := strconv.ParseFloat(m[1], 64)
		den, _ := strconv.ParseFloat(m[2], 64)
		if den != 0 {
			v := num / den
			return &v, s[len(m[0]):]
		}
	}

	if m := reDecimal.FindString(s); m != "" {
		v, _ := strconv.ParseFloat(m, 64)
		rest := s[len(m):]
		// "1½" — a vulgar fraction glued to the integer part.
		if r, size := firstRune(rest); size > 0 {
			if frac, ok := vulgarFractions[r]; ok {
				v += frac
				rest = rest[size:]
			}
		}
		return &v, rest
	}

	if r, size := firstRune(s); size > 0 {
		if frac, ok := vulgarFractions[r]; ok {
			return &frac, s[size:]
		}
	}

	return nil, s
}

func firstRune(s string) (rune, int) {
	for _, r := range s {
		return r, len(string(r))
	}
	return 0, 0
}

func strPtr(s string) *string {
	return &s
}
