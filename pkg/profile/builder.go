// Package profile assembles the user-submitted lead fields and scraped
// website excerpts into a single labeled prompt block.
package profile

import (
	"strings"

	"github.com/reelforge/pitchmail/pkg/scrape"
)

// Per-field rune caps keep one oversized field from starving the prompt
// budget or blowing the completion provider's input limit.
const (
	maxFieldLen   = 200
	maxNotesLen   = 1000
	maxExcerptLen = 4000
)

const placeholder = "N/A"

// Submission carries the fields of one inbound lead request. All fields are
// optional; missing values render as explicit placeholders so the prompt
// shape stays stable.
type Submission struct {
	BusinessName string
	Website      string
	LinkedinURL  string
	Email        string
	Notes        string
}

// Build produces the prompt payload for one lead: identity fields, notes, the
// website excerpt, the LinkedIn excerpt, and the keyword list, in a fixed
// order. Deterministic, and total: it never fails on missing input.
func Build(sub Submission, site, linkedin scrape.Result) string {
	var b strings.Builder

	b.WriteString("BUSINESS PROFILE\n")
	writeField(&b, "Business name", clamp(sub.BusinessName, maxFieldLen))
	writeField(&b, "Website", clamp(sub.Website, maxFieldLen))
	writeField(&b, "LinkedIn", clamp(sub.LinkedinURL, maxFieldLen))

	b.WriteString("\nNOTES FROM THE LEAD\n")
	writeField(&b, "Notes", clamp(sub.Notes, maxNotesLen))

	b.WriteString("\nWEBSITE EXCERPT\n")
	writeBlock(&b, clamp(site.Summary, maxExcerptLen))

	b.WriteString("\nLINKEDIN EXCERPT\n")
	writeBlock(&b, clamp(linkedin.Summary, maxExcerptLen))

	b.WriteString("\nKEYWORDS\n")
	keywords := append(append([]string{}, site.Keywords...), linkedin.Keywords...)
	if len(keywords) == 0 {
		b.WriteString(placeholder + "\n")
	} else {
		for _, k := range keywords {
			b.WriteString("- " + clamp(k, maxFieldLen) + "\n")
		}
	}

	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	if value == "" {
		value = placeholder
	}
	b.WriteString(label + ": " + value + "\n")
}

func writeBlock(b *strings.Builder, value string) {
	if value == "" {
		value = placeholder
	}
	b.WriteString(value + "\n")
}

// clamp collapses whitespace runs and truncates to max runes.
func clamp(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) > max {
		return string(runes[:max])
	}
	return s
}
