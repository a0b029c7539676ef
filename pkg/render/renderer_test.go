package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelforge/pitchmail/pkg/script"
)

func TestNewRendererLoadsEmbeddedPitchTemplate(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)
	assert.True(t, r.HasTemplate(PitchTemplate))
}

func TestRenderPitchContainsEachSectionOnce(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	sections := script.Parse(`HOOK (0:00-0:08)
Stop losing leads to bad first impressions.

PROBLEM (0:08-0:20)
Nobody reads a wall of text.

SOLUTION (0:20-0:40)
One short video explains everything.

TRUST (0:40-0:50)
Hundreds of happy clients.

CLOSE (0:50-0:60)
Hit reply and we will get started.`)

	data := BuildPitchData("Acme Widgets", sections, nil, "")
	html, err := r.RenderTemplate(PitchTemplate, data)
	require.NoError(t, err)

	for _, body := range []string{
		"Stop losing leads to bad first impressions.",
		"Nobody reads a wall of text.",
		"One short video explains everything.",
		"Hundreds of happy clients.",
		"Hit reply and we will get started.",
	} {
		assert.Equal(t, 1, strings.Count(html, body), "section body %q should appear exactly once", body)
	}
	assert.Contains(t, html, "Acme Widgets")
}

func TestRenderPitchDeterministic(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	data := TestData()[PitchTemplate]

	first, err := r.RenderTemplate(PitchTemplate, data)
	require.NoError(t, err)
	second, err := r.RenderTemplate(PitchTemplate, data)
	require.NoError(t, err)

	assert.Equal(t, first, second, "identical input must produce byte-identical HTML")
}

func TestBuildPitchDataFallbacks(t *testing.T) {
	data := BuildPitchData("", script.Parse(""), nil, "")

	assert.Equal(t, "there", data.GreetingName)
	require.Len(t, data.Sections, 5)
	for _, s := range data.Sections {
		assert.Equal(t, "—", s.Body, "missing section %s must render a placeholder", s.Label)
	}
}

func TestBuildPitchDataDerivesThumbnails(t *testing.T) {
	refs := []ReferenceVideo{
		{Title: "Case study", URL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ"},
		{Title: "On our site", URL: "https://example.com/video"},
	}

	data := BuildPitchData("Acme", script.Parse("no labels"), refs, "")

	require.Len(t, data.ReferenceVideos, 2)
	assert.Equal(t, "https://img.youtube.com/vi/dQw4w9WgXcQ/hqdefault.jpg", data.ReferenceVideos[0].Thumbnail)
	assert.Empty(t, data.ReferenceVideos[1].Thumbnail, "unknown URL shapes get no thumbnail")
}

func TestRenderPitchKeepsTitleLinkWithoutThumbnail(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	refs := []ReferenceVideo{{Title: "Self hosted demo", URL: "https://example.com/demo"}}
	data := BuildPitchData("Acme", script.Parse("plain text"), refs, "")

	html, err := r.RenderTemplate(PitchTemplate, data)
	require.NoError(t, err)

	assert.Contains(t, html, "Self hosted demo")
	assert.Contains(t, html, "https://example.com/demo")
	assert.NotContains(t, html, "img.youtube.com")
}

func TestRendererUnknownTemplate(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	_, err = r.RenderTemplate("nope", nil)
	assert.Error(t, err)
}
