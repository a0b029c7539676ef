// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package svc

import (
	"context"

	"github.com/reelforge/pitchmail/internal/config"
	"github.com/reelforge/pitchmail/pkg/queue"
	"github.com/reelforge/pitchmail/pkg/render"
	"github.com/reelforge/pitchmail/pkg/scrape"
)

// Extractor pulls a text excerpt out of a website. scrape.Extractor
// satisfies it; tests substitute fakes.
type Extractor interface {
	Extract(ctx context.Context, url string) scrape.Result
}

// Completer produces script text from a prompt. completion.Client satisfies
// it; tests substitute fakes.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

type ServiceContext struct {
	Config     config.Config
	Extractor  Extractor
	Completion Completer
	Renderer   *render.Renderer
	Queue      *queue.Queue
}

func NewServiceContext(c config.Config, extractor Extractor, completer Completer, renderer *render.Renderer, q *queue.Queue) *ServiceContext {
	return &ServiceContext{
		Config:     c,
		Extractor:  extractor,
		Completion: completer,
		Renderer:   renderer,
		Queue:      q,
	}
}
