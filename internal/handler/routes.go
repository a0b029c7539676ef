// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package handler

import (
	"net/http"

	"github.com/reelforge/pitchmail/internal/handler/email"
	"github.com/reelforge/pitchmail/internal/handler/pitch"
	"github.com/reelforge/pitchmail/internal/handler/stats"
	"github.com/reelforge/pitchmail/internal/svc"

	"github.com/zeromicro/go-zero/rest"
)

func RegisterHandlers(server *rest.Server, serverCtx *svc.ServiceContext) {
	server.AddRoutes(
		[]rest.Route{
			{
				Method:  http.MethodPost,
				Path:    "/pitch",
				Handler: pitch.GeneratePitchHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/emails",
				Handler: email.ListEmailsHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/emails/:id",
				Handler: email.GetEmailStatusHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/stats",
				Handler: stats.GetStatsHandler(serverCtx),
			},
		},
		rest.WithPrefix("/api/v1"),
	)
}
