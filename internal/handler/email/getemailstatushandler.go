// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package email

import (
	"net/http"

	"github.com/reelforge/pitchmail/internal/logic/email"
	"github.com/reelforge/pitchmail/internal/svc"
	"github.com/reelforge/pitchmail/internal/types"

	"github.com/zeromicro/go-zero/rest/httpx"
)

func GetEmailStatusHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.GetEmailStatusRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}

		l := email.NewGetEmailStatusLogic(r.Context(), svcCtx)
		resp, err := l.GetEmailStatus(&req)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
		} else {
			httpx.OkJsonCtx(r.Context(), w, resp)
		}
	}
}
