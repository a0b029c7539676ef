// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package email

import (
	"context"

	"github.com/reelforge/pitchmail/internal/errorx"
	"github.com/reelforge/pitchmail/internal/svc"
	"github.com/reelforge/pitchmail/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type GetEmailStatusLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewGetEmailStatusLogic(ctx context.Context, svcCtx *svc.ServiceContext) *GetEmailStatusLogic {
	return &GetEmailStatusLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *GetEmailStatusLogic) GetEmailStatus(req *types.GetEmailStatusRequest) (*types.EmailStatus, error) {
	job, err := l.svcCtx.Queue.GetStatus(l.ctx, req.Id)
	if err != nil {
		l.Errorf("failed to load email %s: %v", req.Id, err)
		return nil, errorx.ErrInternal("failed to load email")
	}
	if job == nil {
		return nil, errorx.ErrNotFound("email not found")
	}

	status := toEmailStatus(job)
	return &status, nil
}
