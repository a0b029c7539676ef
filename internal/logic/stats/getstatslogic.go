// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package stats

import (
	"context"

	"github.com/reelforge/pitchmail/internal/errorx"
	"github.com/reelforge/pitchmail/internal/svc"
	"github.com/reelforge/pitchmail/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type GetStatsLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewGetStatsLogic(ctx context.Context, svcCtx *svc.ServiceContext) *GetStatsLogic {
	return &GetStatsLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *GetStatsLogic) GetStats() (*types.StatsResponse, error) {
	stats, err := l.svcCtx.Queue.Stats(l.ctx)
	if err != nil {
		l.Errorf("failed to load stats: %v", err)
		return nil, errorx.ErrInternal("failed to load stats")
	}

	total := 0
	for _, n := range stats {
		total += n
	}

	return &types.StatsResponse{Stats: stats, Total: total}, nil
}
