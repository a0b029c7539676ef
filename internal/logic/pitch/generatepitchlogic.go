// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package pitch

import (
	"context"
	"strings"

	"github.com/reelforge/pitchmail/internal/config"
	"github.com/reelforge/pitchmail/internal/errorx"
	"github.com/reelforge/pitchmail/internal/svc"
	"github.com/reelforge/pitchmail/internal/types"
	"github.com/reelforge/pitchmail/pkg/profile"
	"github.com/reelforge/pitchmail/pkg/queue"
	"github.com/reelforge/pitchmail/pkg/render"
	"github.com/reelforge/pitchmail/pkg/scrape"
	"github.com/reelforge/pitchmail/pkg/script"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/mr"
)

type GeneratePitchLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewGeneratePitchLogic(ctx context.Context, svcCtx *svc.ServiceContext) *GeneratePitchLogic {
	return &GeneratePitchLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// GeneratePitch runs the full pipeline for one lead: scrape, prompt, parse,
// render, and queue the email when a recipient is present. Scraping is
// best-effort; a completion failure aborts with 500 before anything is
// queued.
func (l *GeneratePitchLogic) GeneratePitch(req *types.GeneratePitchRequest) (resp *types.GeneratePitchResponse, err error) {
	name := strings.TrimSpace(req.BusinessName)
	website := strings.TrimSpace(req.Website)
	if name == "" && website == "" {
		return nil, errorx.ErrBadRequest("business_name or website is required")
	}

	// Both extraction passes are independent; run them concurrently. They
	// report failures through Result.Err, so the group itself cannot fail.
	var site, linkedin scrape.Result
	_ = mr.Finish(
		func() error {
			site = l.svcCtx.Extractor.Extract(l.ctx, website)
			return nil
		},
		func() error {
			linkedin = l.svcCtx.Extractor.Extract(l.ctx, req.LinkedinUrl)
			return nil
		},
	)
	if site.Err != "" {
		l.Infow("website extraction degraded", logx.Field("reason", site.Err))
	}

	prompt := profile.Build(profile.Submission{
		BusinessName: name,
		Website:      website,
		LinkedinURL:  req.LinkedinUrl,
		Email:        req.Email,
		Notes:        req.Notes,
	}, site, linkedin)

	raw, err := l.svcCtx.Completion.Complete(l.ctx, l.svcCtx.Config.Pitch.ScriptInstructions(), prompt)
	if err != nil {
		return nil, errorx.ErrInternal("script generation failed: " + err.Error())
	}

	sections := script.Parse(raw)

	resp = &types.GeneratePitchResponse{
		Script:      raw,
		ScrapedData: site.Summary,
		Sections:    sections,
	}

	if email := strings.TrimSpace(req.Email); email != "" {
		data := render.BuildPitchData(name, sections, l.referenceVideos(req), l.processVideoURL(req))
		data.CompanyName = l.svcCtx.Config.Pitch.CompanyName
		data.CompanyLogo = l.svcCtx.Config.Pitch.CompanyLogo
		data.CompanyURL = l.svcCtx.Config.Pitch.CompanyURL
		html, err := l.svcCtx.Renderer.RenderTemplate(render.PitchTemplate, data)
		if err != nil {
			return nil, errorx.ErrInternal("failed to render email: " + err.Error())
		}

		id, err := l.svcCtx.Queue.Enqueue(l.ctx, queue.EmailJob{
			Recipient:   email,
			Subject:     l.svcCtx.Config.Pitch.Subject,
			HTML:        html,
			Business:    name,
			MaxAttempts: l.svcCtx.Config.Delivery.MaxRetries,
		})
		if err != nil {
			// Dispatch is best-effort: a queue problem must not void a
			// successfully generated script.
			l.Errorf("failed to queue pitch email: %v", err)
			resp.Message = "script generated, email could not be queued"
		} else {
			resp.EmailId = id
			resp.Message = "email queued"
		}
	}

	return resp, nil
}

// referenceVideos merges request-supplied videos with the configured
// defaults; the request wins when it supplies any.
func (l *GeneratePitchLogic) referenceVideos(req *types.GeneratePitchRequest) []render.ReferenceVideo {
	if len(req.ReferenceVideos) > 0 {
		refs := make([]render.ReferenceVideo, 0, len(req.ReferenceVideos))
		for _, v := range req.ReferenceVideos {
			refs = append(refs, render.ReferenceVideo{Title: v.Title, URL: v.Url})
		}
		return refs
	}
	return configuredVideos(l.svcCtx.Config.Pitch)
}

func (l *GeneratePitchLogic) processVideoURL(req *types.GeneratePitchRequest) string {
	if req.ProcessVideoUrl != "" {
		return req.ProcessVideoUrl
	}
	return l.svcCtx.Config.Pitch.ProcessVideoURL
}

func configuredVideos(p config.PitchConfig) []render.ReferenceVideo {
	refs := make([]render.ReferenceVideo, 0, len(p.ReferenceVideos))
	for _, v := range p.ReferenceVideos {
		refs = append(refs, render.ReferenceVideo{Title: v.Title, URL: v.URL})
	}
	return refs
}
