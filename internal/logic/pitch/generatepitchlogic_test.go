package pitch

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelforge/pitchmail/internal/config"
	"github.com/reelforge/pitchmail/internal/errorx"
	"github.com/reelforge/pitchmail/internal/svc"
	"github.com/reelforge/pitchmail/internal/types"
	"github.com/reelforge/pitchmail/pkg/db"
	"github.com/reelforge/pitchmail/pkg/queue"
	"github.com/reelforge/pitchmail/pkg/render"
	"github.com/reelforge/pitchmail/pkg/scrape"
)

type fakeExtractor struct {
	results map[string]scrape.Result
}

func (f *fakeExtractor) Extract(_ context.Context, url string) scrape.Result {
	if url == "" {
		return scrape.Result{}
	}
	return f.results[url]
}

type fakeCompleter struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeCompleter) Complete(_ context.Context, _, user string) (string, error) {
	f.prompts = append(f.prompts, user)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func newTestContext(t *testing.T, extractor svc.Extractor, completer svc.Completer) *svc.ServiceContext {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	q, err := queue.NewQueue(database.DB, "emails")
	require.NoError(t, err)

	renderer, err := render.NewRenderer(render.WithCache(true))
	require.NoError(t, err)

	var c config.Config
	c.Pitch.Subject = "A 60-second video script for your business"
	c.Delivery.MaxRetries = 3

	return svc.NewServiceContext(c, extractor, completer, renderer, q)
}

const scriptedResponse = `HOOK
Tired of explaining what you do twice?

PROBLEM
Most visitors leave before they get it.

SOLUTION
A sixty second explainer does the talking.

TRUST
Two hundred videos shipped and counting.

CLOSE
Reply to this email and we'll take it from there.`

func TestGeneratePitchRequiresNameOrWebsite(t *testing.T) {
	svcCtx := newTestContext(t, &fakeExtractor{}, &fakeCompleter{response: scriptedResponse})
	l := NewGeneratePitchLogic(context.Background(), svcCtx)

	_, err := l.GeneratePitch(&types.GeneratePitchRequest{Email: "lead@example.com"})
	require.Error(t, err)

	var codeErr *errorx.CodeError
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, 400, codeErr.Code)
}

func TestGeneratePitchWithoutEmailSkipsQueue(t *testing.T) {
	extractor := &fakeExtractor{results: map[string]scrape.Result{
		"acme.example": {Summary: "We build widgets for builders.", Keywords: []string{"widgets"}},
	}}
	completer := &fakeCompleter{response: scriptedResponse}
	svcCtx := newTestContext(t, extractor, completer)

	l := NewGeneratePitchLogic(context.Background(), svcCtx)
	resp, err := l.GeneratePitch(&types.GeneratePitchRequest{
		BusinessName: "Acme Widgets",
		Website:      "acme.example",
	})
	require.NoError(t, err)

	assert.Equal(t, scriptedResponse, resp.Script)
	assert.Equal(t, "We build widgets for builders.", resp.ScrapedData)
	assert.Equal(t, "Tired of explaining what you do twice?", resp.Sections["hook"])
	assert.Empty(t, resp.EmailId)

	stats, err := svcCtx.Queue.Stats(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stats)
}

func TestGeneratePitchWithEmailQueuesExactlyOne(t *testing.T) {
	extractor := &fakeExtractor{results: map[string]scrape.Result{
		"acme.example": {Summary: "We build widgets for builders."},
	}}
	completer := &fakeCompleter{response: scriptedResponse}
	svcCtx := newTestContext(t, extractor, completer)

	l := NewGeneratePitchLogic(context.Background(), svcCtx)
	resp, err := l.GeneratePitch(&types.GeneratePitchRequest{
		BusinessName: "Acme Widgets",
		Website:      "acme.example",
		Email:        "lead@example.com",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.EmailId)

	job, msg, err := svcCtx.Queue.Receive(context.Background())
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.Equal(t, "lead@example.com", job.Recipient)
	assert.Contains(t, job.HTML, "Acme Widgets")
	assert.Contains(t, job.HTML, "Tired of explaining what you do twice?")
	require.NoError(t, svcCtx.Queue.Delete(context.Background(), msg))

	// Exactly one job was queued.
	job, _, err = svcCtx.Queue.Receive(context.Background())
	require.NoError(t, err)
	assert.Nil(t, job)
}

func TestGeneratePitchCompletionFailure(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("completion endpoint returned status 500")}
	svcCtx := newTestContext(t, &fakeExtractor{}, completer)

	l := NewGeneratePitchLogic(context.Background(), svcCtx)
	_, err := l.GeneratePitch(&types.GeneratePitchRequest{
		BusinessName: "Acme Widgets",
		Email:        "lead@example.com",
	})
	require.Error(t, err)

	var codeErr *errorx.CodeError
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, 500, codeErr.Code)

	// Nothing is queued on failure.
	stats, err := svcCtx.Queue.Stats(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stats)
}

func TestGeneratePitchUnlabeledScript(t *testing.T) {
	raw := "Just a plain script with no headings at all."
	completer := &fakeCompleter{response: raw}
	svcCtx := newTestContext(t, &fakeExtractor{}, completer)

	l := NewGeneratePitchLogic(context.Background(), svcCtx)
	resp, err := l.GeneratePitch(&types.GeneratePitchRequest{BusinessName: "Acme Widgets"})
	require.NoError(t, err)

	assert.Equal(t, raw, resp.Script)
	assert.Empty(t, resp.ScrapedData)
	assert.Equal(t, raw, resp.Sections["solution"])
	assert.Empty(t, resp.Sections["hook"])
}

func TestGeneratePitchScrapeFailureDegrades(t *testing.T) {
	extractor := &fakeExtractor{results: map[string]scrape.Result{
		"down.example": {Err: "fetch https://down.example: connection refused"},
	}}
	completer := &fakeCompleter{response: scriptedResponse}
	svcCtx := newTestContext(t, extractor, completer)

	l := NewGeneratePitchLogic(context.Background(), svcCtx)
	resp, err := l.GeneratePitch(&types.GeneratePitchRequest{
		BusinessName: "Acme Widgets",
		Website:      "down.example",
	})
	require.NoError(t, err)
	assert.Empty(t, resp.ScrapedData)

	// The prompt still carries the business name and an N/A excerpt.
	require.Len(t, completer.prompts, 1)
	assert.True(t, strings.Contains(completer.prompts[0], "Acme Widgets"))
	assert.True(t, strings.Contains(completer.prompts[0], "N/A"))
}
