package voicing

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Conceptual-Machines/magda-harmony/internal/theory"
)

// OpenStringPreference steers how open strings are treated
type OpenStringPreference string

const (
	OpenStringsAny    OpenStringPreference = ""
	OpenStringsPrefer OpenStringPreference = "prefer"
	OpenStringsAvoid  OpenStringPreference = "avoid"
)

// ChordType selects which chord tones a piano voicing keeps
type ChordType string

const (
	ChordTypeTriad   ChordType = "triad"
	ChordTypeSeventh ChordType = "seventh"
	ChordTypeShell   ChordType = "shell"
	ChordTypePower   ChordType = "power"
)

// Register places a piano voicing
type Register string

const (
	RegisterLow  Register = "low"
	RegisterMid  Register = "mid"
	RegisterHigh Register = "high"
)

// Clamp bounds for parsed numbers
const (
	minFretSpan    = 2
	maxFretSpan    = 6
	minStringCount = 3
	maxStringCount = 4
	maxFret        = 24
)

// Constraints narrows voicing generation. Every field is optional; string
// indices run 0 (low E) to 5 (high e).
type Constraints struct {
	FretMin             *int                 `json:"fretMin,omitempty"`
	FretMax             *int                 `json:"fretMax,omitempty"`
	StringMin           *int                 `json:"stringMin,omitempty"`
	StringMax           *int                 `json:"stringMax,omitempty"`
	MaxFretSpan         *int                 `json:"maxFretSpan,omitempty"`
	RequiredOpenStrings []int                `json:"requiredOpenStrings,omitempty"`
	OpenStrings         OpenStringPreference `json:"openStrings,omitempty"`
	ChordType           ChordType            `json:"chordType,omitempty"`
	Register            Register             `json:"register,omitempty"`
	Key                 *theory.Note         `json:"key,omitempty"`
	AvoidBarre          bool                 `json:"avoidBarre,omitempty"`
	MaxDifficulty       Difficulty           `json:"maxDifficulty,omitempty"`
}

type constraintRule struct {
	pattern *regexp.Regexp
	apply   func(c *Constraints, m []string)
}

var constraintRules = []constraintRule{
	{
		pattern: regexp.MustCompile(`\btop (\d+) strings?\b`),
		apply: func(c *Constraints, m []string) {
			n := clamp(atoi(m[1]), minStringCount, maxStringCount)
			c.StringMin, c.StringMax = intPtr(StringCount-n), intPtr(StringCount-1)
		},
	},
	{
		pattern: regexp.MustCompile(`\bbottom (\d+) strings?\b`),
		apply: func(c *Constraints, m []string) {
			n := clamp(atoi(m[1]), minStringCount, maxStringCount)
			c.StringMin, c.StringMax = intPtr(0), intPtr(n-1)
		},
	},
	{
		// Guitarists number strings from the high e: string 1 is index 5
		pattern: regexp.MustCompile(`\bstrings? ([1-6])\s*(?:-|to|through)\s*([1-6])\b`),
		apply: func(c *Constraints, m []string) {
			a, b := StringCount-atoi(m[1]), StringCount-atoi(m[2])
			if a > b {
				a, b = b, a
			}
			c.StringMin, c.StringMax = intPtr(a), intPtr(b)
		},
	},
	{
		pattern: regexp.MustCompile(`\b(?:max(?:imum)?|within|no more than|at most) (\d+)[- ]frets?\b`),
		apply: func(c *Constraints, m []string) {
			c.MaxFretSpan = intPtr(clamp(atoi(m[1]), minFretSpan, maxFretSpan))
		},
	},
	{
		pattern: regexp.MustCompile(`\b(\d+)[- ]fret (?:span|stretch)\b`),
		apply: func(c *Constraints, m []string) {
			c.MaxFretSpan = intPtr(clamp(atoi(m[1]), minFretSpan, maxFretSpan))
		},
	},
	{
		pattern: regexp.MustCompile(`\b(?:between )?frets? (\d+)\s*(?:-|to|through|and)\s*(\d+)\b`),
		apply: func(c *Constraints, m []string) {
			a, b := clamp(atoi(m[1]), 0, maxFret), clamp(atoi(m[2]), 0, maxFret)
			if a > b {
				a, b = b, a
			}
			c.FretMin, c.FretMax = intPtr(a), intPtr(b)
		},
	},
	{
		pattern: regexp.MustCompile(`\b(?:up to|no higher than) fret (\d+)\b`),
		apply: func(c *Constraints, m []string) {
			c.FretMax = intPtr(clamp(atoi(m[1]), 0, maxFret))
		},
	},
	{
		pattern: regexp.MustCompile(`\b(?:below|under) fret (\d+)\b`),
		apply: func(c *Constraints, m []string) {
			c.FretMax = intPtr(clamp(atoi(m[1])-1, 0, maxFret))
		},
	},
	{
		pattern: regexp.MustCompile(`\babove fret (\d+)\b`),
		apply: func(c *Constraints, m []string) {
			c.FretMin = intPtr(clamp(atoi(m[1])+1, 0, maxFret))
		},
	},
	{
		pattern: regexp.MustCompile(`\b(?:from|starting at|at) fret (\d+)\b`),
		apply: func(c *Constraints, m []string) {
			c.FretMin = intPtr(clamp(atoi(m[1]), 0, maxFret))
		},
	},
	{
		pattern: regexp.MustCompile(`\b(?:open|first) position\b`),
		apply: func(c *Constraints, m []string) {
			if c.FretMax == nil {
				c.FretMax = intPtr(3)
			}
		},
	},
	{
		pattern: regexp.MustCompile(`\b(?:avoid|no|without) open strings?\b`),
		apply: func(c *Constraints, m []string) {
			c.OpenStrings = OpenStringsAvoid
		},
	},
	{
		pattern: regexp.MustCompile(`\b(?:prefer|use|with|more|lots of) open strings?\b`),
		apply: func(c *Constraints, m []string) {
			c.OpenStrings = OpenStringsPrefer
		},
	},
	{
		pattern: regexp.MustCompile(`\bopen ((?:(?:low |high )?[eadgb](?:,\s*|\s+and\s+|\s+))+)strings?\b`),
		apply: func(c *Constraints, m []string) {
			c.RequiredOpenStrings = appendUnique(c.RequiredOpenStrings, parseStringNames(m[1])...)
		},
	},
	{
		pattern: regexp.MustCompile(`\bkey of ([a-g][#b]?)(?:[^a-z0-9#]|$)`),
		apply: func(c *Constraints, m []string) {
			if n, ok := theory.ParseNote(m[1]); ok {
				c.Key = &n
			}
		},
	},
	{
		pattern: regexp.MustCompile(`\b(low|mid|middle|high) register\b`),
		apply: func(c *Constraints, m []string) {
			c.Register = RegisterMid
			switch m[1] {
			case "low":
				c.Register = RegisterLow
			case "high":
				c.Register = RegisterHigh
			}
		},
	},
	{
		pattern: regexp.MustCompile(`\b(triads?|seventh chords?|7th chords?|sevenths|shell voicings?|shells?|power chords?)\b`),
		apply: func(c *Constraints, m []string) {
			switch {
			case strings.HasPrefix(m[1], "triad"):
				c.ChordType = ChordTypeTriad
			case strings.HasPrefix(m[1], "shell"):
				c.ChordType = ChordTypeShell
			case strings.HasPrefix(m[1], "power"):
				c.ChordType = ChordTypePower
			default:
				c.ChordType = ChordTypeSeventh
			}
		},
	},
	{
		pattern: regexp.MustCompile(`\b(?:no|avoid|without|skip) barres?(?: chords?)?\b`),
		apply: func(c *Constraints, m []string) {
			c.AvoidBarre = true
		},
	},
	{
		pattern: regexp.MustCompile(`\b(easy|easier|simple|beginner|beginners)\b`),
		apply: func(c *Constraints, m []string) {
			c.MaxDifficulty = DifficultyBeginner
		},
	},
	{
		pattern: regexp.MustCompile(`\bintermediate\b`),
		apply: func(c *Constraints, m []string) {
			c.MaxDifficulty = DifficultyIntermediate
		},
	},
}

// ParseConstraints reads voicing constraints out of free text. Each
// recognized phrase sets one field; anything unrecognized is ignored.
func ParseConstraints(text string) Constraints {
	var c Constraints
	lower := strings.ToLower(theory.NormalizeAccidentals(text))
	if strings.TrimSpace(lower) == "" {
		return c
	}
	for _, rule := range constraintRules {
		if m := rule.pattern.FindStringSubmatch(lower); m != nil {
			rule.apply(&c, m)
		}
	}
	return c
}

// IsZero reports whether no field is set
func (c Constraints) IsZero() bool {
	return c.FretMin == nil && c.FretMax == nil && c.StringMin == nil && c.StringMax == nil &&
		c.MaxFretSpan == nil && len(c.RequiredOpenStrings) == 0 && c.OpenStrings == OpenStringsAny &&
		c.ChordType == "" && c.Register == "" && c.Key == nil && !c.AvoidBarre && c.MaxDifficulty == ""
}

// Merge fills every field unset in c from other. Fields set in c win.
func (c Constraints) Merge(other Constraints) Constraints {
	out := c
	if out.FretMin == nil {
		out.FretMin = other.FretMin
	}
	if out.FretMax == nil {
		out.FretMax = other.FretMax
	}
	if out.StringMin == nil {
		out.StringMin = other.StringMin
	}
	if out.StringMax == nil {
		out.StringMax = other.StringMax
	}
	if out.MaxFretSpan == nil {
		out.MaxFretSpan = other.MaxFretSpan
	}
	if len(out.RequiredOpenStrings) == 0 {
		out.RequiredOpenStrings = other.RequiredOpenStrings
	}
	if out.OpenStrings == OpenStringsAny {
		out.OpenStrings = other.OpenStrings
	}
	if out.ChordType == "" {
		out.ChordType = other.ChordType
	}
	if out.Register == "" {
		out.Register = other.Register
	}
	if out.Key == nil {
		out.Key = other.Key
	}
	out.AvoidBarre = out.AvoidBarre || other.AvoidBarre
	if out.MaxDifficulty == "" {
		out.MaxDifficulty = other.MaxDifficulty
	}
	return out
}

// Validate reports contradictory or out-of-range constraints as a
// CONSTRAINT_CONFLICT error.
func (c Constraints) Validate() error {
	var problems []string

	if c.FretMin != nil && (*c.FretMin < 0 || *c.FretMin > maxFret) {
		problems = append(problems, fmt.Sprintf("fretMin %d is outside 0-%d", *c.FretMin, maxFret))
	}
	if c.FretMax != nil && (*c.FretMax < 0 || *c.FretMax > maxFret) {
		problems = append(problems, fmt.Sprintf("fretMax %d is outside 0-%d", *c.FretMax, maxFret))
	}
	if c.FretMin != nil && c.FretMax != nil && *c.FretMin > *c.FretMax {
		problems = append(problems, fmt.Sprintf("fretMin %d is above fretMax %d", *c.FretMin, *c.FretMax))
	}
	if c.StringMin != nil && !validString(*c.StringMin) {
		problems = append(problems, fmt.Sprintf("stringMin %d is not a string index (0-5)", *c.StringMin))
	}
	if c.StringMax != nil && !validString(*c.StringMax) {
		problems = append(problems, fmt.Sprintf("stringMax %d is not a string index (0-5)", *c.StringMax))
	}
	if c.StringMin != nil && c.StringMax != nil && *c.StringMin > *c.StringMax {
		problems = append(problems, fmt.Sprintf("stringMin %d is above stringMax %d", *c.StringMin, *c.StringMax))
	}
	if c.MaxFretSpan != nil && *c.MaxFretSpan < 0 {
		problems = append(problems, "maxFretSpan cannot be negative")
	}
	for _, s := range c.RequiredOpenStrings {
		if !validString(s) {
			problems = append(problems, fmt.Sprintf("required open string %d is not a string index (0-5)", s))
			continue
		}
		if (c.StringMin != nil && s < *c.StringMin) || (c.StringMax != nil && s > *c.StringMax) {
			problems = append(problems, fmt.Sprintf("required open string %d is outside the string range", s))
		}
	}
	if len(c.RequiredOpenStrings) > 0 && c.OpenStrings == OpenStringsAvoid {
		problems = append(problems, "open strings are both required and avoided")
	}
	if c.MaxDifficulty != "" {
		if _, ok := difficultyRank[c.MaxDifficulty]; !ok {
			problems = append(problems, fmt.Sprintf("unknown difficulty %q", c.MaxDifficulty))
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return newError(CodeConstraintConflict, strings.Join(problems, "; "),
		"Relax or remove one of the conflicting constraints")
}

var stringNames = map[string]int{
	"low e":  0,
	"e":      0,
	"a":      1,
	"d":      2,
	"g":      3,
	"b":      4,
	"high e": 5,
}

var stringNamePattern = regexp.MustCompile(`(?:low |high )?[eadgb]\b`)

func parseStringNames(s string) []int {
	var out []int
	for _, name := range stringNamePattern.FindAllString(s, -1) {
		if idx, ok := stringNames[name]; ok {
			out = append(out, idx)
		}
	}
	return out
}

func appendUnique(dst []int, values ...int) []int {
	for _, v := range values {
		found := false
		for _, d := range dst {
			if d == v {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, v)
		}
	}
	return dst
}

func validString(s int) bool {
	return s >= 0 && s < StringCount
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func intPtr(v int) *int {
	return &v
}
