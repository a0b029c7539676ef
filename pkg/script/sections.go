// Package script splits free-form completion output into the five fixed
// explainer-script sections.
package script

import (
	"strings"
	"unicode"
)

// Section names, in script order.
const (
	SectionHook     = "hook"
	SectionProblem  = "problem"
	SectionSolution = "solution"
	SectionTrust    = "trust"
	SectionClose    = "close"
)

// Order lists the section names in presentation order.
var Order = []string{SectionHook, SectionProblem, SectionSolution, SectionTrust, SectionClose}

// Sections maps each of the five fixed section names to its body text.
// Values may be empty, but all five keys are always present.
type Sections map[string]string

// Get returns the body for a section name, or "" for unknown names.
func (s Sections) Get(name string) string {
	return s[strings.ToLower(name)]
}

// Empty reports whether no section carries any text.
func (s Sections) Empty() bool {
	for _, name := range Order {
		if s[name] != "" {
			return false
		}
	}
	return true
}

// Parse scans raw completion text line by line, accumulating body text under
// the most recently seen section label. A label line starts with one of the
// five section names (case-insensitive, optionally decorated with markdown
// markers) and may carry auxiliary text such as a time range after it; the
// auxiliary text is discarded.
//
// If no label is found anywhere, the entire input lands under Solution so no
// content is ever lost.
func Parse(raw string) Sections {
	sections := Sections{}
	for _, name := range Order {
		sections[name] = ""
	}

	current := ""
	var body []string

	flush := func() {
		if current == "" {
			return
		}
		// Auxiliary lines such as a bare time range directly under the label
		// belong to the heading, not the body.
		for len(body) > 0 && isAuxiliary(body[0]) {
			body = body[1:]
		}
		text := strings.TrimSpace(strings.Join(body, "\n"))
		if text != "" {
			if sections[current] != "" {
				sections[current] += "\n" + text
			} else {
				sections[current] = text
			}
		}
		body = body[:0]
	}

	for _, line := range strings.Split(raw, "\n") {
		if name, ok := matchLabel(line); ok {
			flush()
			current = name
			continue
		}
		if current != "" {
			body = append(body, line)
		}
	}
	flush()

	if sections.Empty() {
		if text := strings.TrimSpace(raw); text != "" {
			sections[SectionSolution] = text
		}
	}

	return sections
}

// isAuxiliary reports whether a line carries no script text, only heading
// decoration like "(0:00-0:08)".
func isAuxiliary(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	for _, r := range trimmed {
		if unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// matchLabel reports whether the line is a section heading and which section
// it opens. Decoration such as "## ", "**", "[" and trailing time ranges are
// tolerated. A body sentence that merely starts with a section word ("Close
// the loop with one call.") is not a heading: after the label, only
// decoration or a time range may follow, unless the label itself is written
// in caps.
func matchLabel(line string) (string, bool) {
	trimmed := strings.TrimLeftFunc(line, func(r rune) bool {
		return unicode.IsSpace(r) || strings.ContainsRune("#*->[", r)
	})

	lower := strings.ToLower(trimmed)
	for _, name := range Order {
		if !strings.HasPrefix(lower, name) {
			continue
		}
		label := trimmed[:len(name)]
		rest := trimmed[len(name):]
		if rest != "" {
			r := []rune(rest)[0]
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				continue
			}
		}
		if isHeadingTail(label, rest) {
			return name, true
		}
	}
	return "", false
}

// isHeadingTail decides whether what follows a matched label still looks like
// a heading rather than the rest of a sentence.
func isHeadingTail(label, rest string) bool {
	if label == strings.ToUpper(label) {
		return true
	}
	tail := strings.TrimLeftFunc(rest, func(r rune) bool {
		return unicode.IsSpace(r) || strings.ContainsRune(":;,.*]#-–—", r)
	})
	if tail == "" {
		return true
	}
	r := []rune(tail)[0]
	return r == '(' || unicode.IsDigit(r)
}
