// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package email

import (
	"context"
	"time"

	"github.com/reelforge/pitchmail/internal/errorx"
	"github.com/reelforge/pitchmail/internal/svc"
	"github.com/reelforge/pitchmail/internal/types"
	"github.com/reelforge/pitchmail/pkg/queue"

	"github.com/zeromicro/go-zero/core/logx"
)

type ListEmailsLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewListEmailsLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ListEmailsLogic {
	return &ListEmailsLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *ListEmailsLogic) ListEmails(req *types.ListEmailsRequest) (*types.ListEmailsResponse, error) {
	limit := req.Limit
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	jobs, err := l.svcCtx.Queue.List(l.ctx, req.Status, limit)
	if err != nil {
		l.Errorf("failed to list emails: %v", err)
		return nil, errorx.ErrInternal("failed to list emails")
	}

	emails := make([]types.EmailStatus, 0, len(jobs))
	for _, job := range jobs {
		emails = append(emails, toEmailStatus(job))
	}

	return &types.ListEmailsResponse{Emails: emails, Count: len(emails)}, nil
}

func toEmailStatus(job *queue.EmailJob) types.EmailStatus {
	return types.EmailStatus{
		Id:        job.ID,
		Recipient: job.Recipient,
		Subject:   job.Subject,
		Business:  job.Business,
		Status:    job.Status,
		Attempts:  job.Attempts,
		Error:     job.Error,
		CreatedAt: job.CreatedAt.Format(time.RFC3339),
	}
}
