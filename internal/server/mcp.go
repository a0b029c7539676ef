package server

import (
	"context"
	"fmt"
	"time"

	"github.com/reelforge/pitchmail/internal/logic/pitch"
	"github.com/reelforge/pitchmail/internal/svc"
	"github.com/reelforge/pitchmail/internal/types"

	"github.com/zeromicro/go-zero/mcp"
)

// RegisterMCPTools registers all MCP tools for the pitch pipeline.
func RegisterMCPTools(s mcp.McpServer, svcCtx *svc.ServiceContext) {
	registerGenerateScriptTool(s, svcCtx)
	registerGetEmailStatusTool(s, svcCtx)
	registerQueueStatsTool(s, svcCtx)
}

type generateScriptArgs struct {
	BusinessName string `json:"business_name,omitempty" jsonschema:"description=Name of the business"`
	Website      string `json:"website,omitempty" jsonschema:"description=Business website URL"`
	LinkedinUrl  string `json:"linkedin_url,omitempty" jsonschema:"description=LinkedIn page URL"`
	Email        string `json:"email,omitempty" jsonschema:"description=Recipient address; when set the rendered pitch email is queued for delivery"`
	Notes        string `json:"notes,omitempty" jsonschema:"description=Free-form notes about the lead"`
}

type generateScriptResult struct {
	Script   string            `json:"script"`
	Sections map[string]string `json:"sections"`
	EmailId  string            `json:"email_id,omitempty"`
	Message  string            `json:"message,omitempty"`
}

func registerGenerateScriptTool(s mcp.McpServer, svcCtx *svc.ServiceContext) {
	tool := &mcp.Tool{
		Name:        "generate_script",
		Description: "Generate a 60-second video pitch script for a business. Scrapes the website and LinkedIn page when given, and queues a pitch email when an address is supplied.",
	}

	mcp.AddTool(s, tool, func(ctx context.Context, _ *mcp.CallToolRequest, args generateScriptArgs) (*mcp.CallToolResult, generateScriptResult, error) {
		l := pitch.NewGeneratePitchLogic(ctx, svcCtx)
		resp, err := l.GeneratePitch(&types.GeneratePitchRequest{
			BusinessName: args.BusinessName,
			Website:      args.Website,
			LinkedinUrl:  args.LinkedinUrl,
			Email:        args.Email,
			Notes:        args.Notes,
		})
		if err != nil {
			return nil, generateScriptResult{}, err
		}

		return nil, generateScriptResult{
			Script:   resp.Script,
			Sections: resp.Sections,
			EmailId:  resp.EmailId,
			Message:  resp.Message,
		}, nil
	})
}

type emailStatusArgs struct {
	Id string `json:"id" jsonschema:"description=Email ID returned from generate_script"`
}

type emailStatusResult struct {
	Id        string `json:"id"`
	Recipient string `json:"recipient"`
	Business  string `json:"business,omitempty"`
	Subject   string `json:"subject"`
	Status    string `json:"status"`
	Attempts  int    `json:"attempts"`
	Error     string `json:"error,omitempty"`
	CreatedAt string `json:"created_at"`
}

func registerGetEmailStatusTool(s mcp.McpServer, svcCtx *svc.ServiceContext) {
	tool := &mcp.Tool{
		Name:        "get_email_status",
		Description: "Get the delivery status of a queued pitch email by its ID.",
	}

	mcp.AddTool(s, tool, func(ctx context.Context, _ *mcp.CallToolRequest, args emailStatusArgs) (*mcp.CallToolResult, emailStatusResult, error) {
		job, err := svcCtx.Queue.GetStatus(ctx, args.Id)
		if err != nil {
			return nil, emailStatusResult{}, fmt.Errorf("failed to get status: %w", err)
		}
		if job == nil {
			return nil, emailStatusResult{}, fmt.Errorf("email not found: %s", args.Id)
		}

		return nil, emailStatusResult{
			Id:        job.ID,
			Recipient: job.Recipient,
			Business:  job.Business,
			Subject:   job.Subject,
			Status:    job.Status,
			Attempts:  job.Attempts,
			Error:     job.Error,
			CreatedAt: job.CreatedAt.Format(time.RFC3339),
		}, nil
	})
}

type queueStatsArgs struct{}

type queueStatsResult struct {
	Stats map[string]int `json:"stats"`
	Total int            `json:"total"`
}

func registerQueueStatsTool(s mcp.McpServer, svcCtx *svc.ServiceContext) {
	tool := &mcp.Tool{
		Name:        "queue_stats",
		Description: "Report pitch email counts grouped by delivery status.",
	}

	mcp.AddTool(s, tool, func(ctx context.Context, _ *mcp.CallToolRequest, _ queueStatsArgs) (*mcp.CallToolResult, queueStatsResult, error) {
		stats, err := svcCtx.Queue.Stats(ctx)
		if err != nil {
			return nil, queueStatsResult{}, fmt.Errorf("failed to get stats: %w", err)
		}

		total := 0
		for _, n := range stats {
			total += n
		}

		return nil, queueStatsResult{Stats: stats, Total: total}, nil
	})
}
