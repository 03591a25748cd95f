// Package tab detects, parses and identifies chords in ASCII guitar tablature
package tab

import "regexp"

var (
	// "e|--3--2--", "A:-0-", "D--2--"
	stringLinePattern = regexp.MustCompile(`(?m)^\s*[A-Ga-g][#b]?\s*[|:\-][\d\-|hpb~/\\x]{3,}`)
	// "--3--5--7--" without any string label
	denseRunPattern = regexp.MustCompile(`(?:-{2,}\d{1,2}){2,}-{2,}`)
	// "-5h7-", "-7b-", "-3/5-"
	techniquePattern = regexp.MustCompile(`-\d{1,2}[hpb/\\~]\d{0,2}-`)
)

var detectors = []*regexp.Regexp{stringLinePattern, denseRunPattern, techniquePattern}

// DetectTab reports whether text looks like it contains guitar tablature
func DetectTab(text string) bool {
	for _, re := range detectors {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
