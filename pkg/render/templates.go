package render

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
)

//go:embed templates/*.mjml
var embeddedTemplates embed.FS

// PitchTemplate is the name of the default pitch email template.
const PitchTemplate = "pitch"

// missingSection is rendered in place of a section the model did not produce,
// so the script block is never empty.
const missingSection = "—"

// defaultGreetingName addresses the reader when the business name is unknown.
const defaultGreetingName = "there"

// ReferenceVideo is one example video shown in the pitch email.
type ReferenceVideo struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

// ScriptSection is one labeled part of the script as shown in the email.
type ScriptSection struct {
	Label string `json:"label"`
	Body  string `json:"body"`
}

// PitchEmailData is the data contract of the pitch template.
type PitchEmailData struct {
	GreetingName    string           `json:"greeting_name"`
	BusinessName    string           `json:"business_name"`
	Sections        []ScriptSection  `json:"sections"`
	ReferenceVideos []ReferenceVideo `json:"reference_videos"`
	ProcessVideoURL string           `json:"process_video_url,omitempty"`
	CompanyName     string           `json:"company_name"`
	CompanyLogo     string           `json:"company_logo,omitempty"`
	CompanyURL      string           `json:"company_url,omitempty"`
}

// SectionProvider is the section lookup the pitch data is built from.
// pkg/script.Sections satisfies it.
type SectionProvider interface {
	Get(name string) string
}

// sectionLabels maps section names to their display labels, in order.
var sectionLabels = []struct {
	name  string
	label string
}{
	{"hook", "Hook"},
	{"problem", "Problem"},
	{"solution", "Solution"},
	{"trust", "Trust"},
	{"close", "Close"},
}

// BuildPitchData assembles template data from parsed sections and static
// reference material. Missing sections render as a placeholder and an unknown
// business name falls back to a neutral greeting; derived thumbnails are
// attached to every reference video whose ID can be recognized.
func BuildPitchData(businessName string, sections SectionProvider, refs []ReferenceVideo, processVideoURL string) PitchEmailData {
	greeting := strings.TrimSpace(businessName)
	if greeting == "" {
		greeting = defaultGreetingName
	}

	out := make([]ScriptSection, 0, len(sectionLabels))
	for _, s := range sectionLabels {
		body := strings.TrimSpace(sections.Get(s.name))
		if body == "" {
			body = missingSection
		}
		out = append(out, ScriptSection{Label: s.label, Body: body})
	}

	videos := make([]ReferenceVideo, 0, len(refs))
	for _, ref := range refs {
		if strings.TrimSpace(ref.URL) == "" && strings.TrimSpace(ref.Title) == "" {
			continue
		}
		ref.Thumbnail = ThumbnailURL(ref.URL)
		videos = append(videos, ref)
	}

	return PitchEmailData{
		GreetingName:    greeting,
		BusinessName:    strings.TrimSpace(businessName),
		Sections:        out,
		ReferenceVideos: videos,
		ProcessVideoURL: strings.TrimSpace(processVideoURL),
	}
}

func (r *Renderer) loadEmbedded() error {
	entries, err := fs.ReadDir(embeddedTemplates, "templates")
	if err != nil {
		return fmt.Errorf("read embedded templates: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".mjml") {
			continue
		}
		content, err := fs.ReadFile(embeddedTemplates, "templates/"+entry.Name())
		if err != nil {
			return fmt.Errorf("read embedded template %s: %w", entry.Name(), err)
		}
		name := strings.TrimSuffix(entry.Name(), ".mjml")
		if err := r.LoadTemplate(name, string(content)); err != nil {
			return err
		}
	}
	return nil
}

// TestData returns sample data for previewing templates from the CLI and UI.
func TestData() map[string]any {
	return map[string]any{
		PitchTemplate: PitchEmailData{
			GreetingName: "Acme Widgets",
			BusinessName: "Acme Widgets",
			Sections: []ScriptSection{
				{Label: "Hook", Body: "Tired of explaining what you do twice?"},
				{Label: "Problem", Body: "Most visitors leave before they get it."},
				{Label: "Solution", Body: "A sixty second explainer does the talking."},
				{Label: "Trust", Body: "Two hundred videos shipped and counting."},
				{Label: "Close", Body: "Reply to this email and we'll take it from there."},
			},
			ReferenceVideos: []ReferenceVideo{
				{Title: "Manufacturing explainer", URL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ", Thumbnail: "https://img.youtube.com/vi/dQw4w9WgXcQ/hqdefault.jpg"},
			},
			ProcessVideoURL: "https://youtu.be/dQw4w9WgXcQ",
			CompanyName:     "Reelforge Studio",
		},
	}
}
