package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/reelforge/pitchmail/internal/config"
	"github.com/reelforge/pitchmail/internal/errorx"
	"github.com/reelforge/pitchmail/internal/handler"
	"github.com/reelforge/pitchmail/internal/svc"
	"github.com/reelforge/pitchmail/internal/ui"
	"github.com/reelforge/pitchmail/pkg/completion"
	"github.com/reelforge/pitchmail/pkg/db"
	"github.com/reelforge/pitchmail/pkg/delivery"
	"github.com/reelforge/pitchmail/pkg/mail"
	"github.com/reelforge/pitchmail/pkg/queue"
	"github.com/reelforge/pitchmail/pkg/render"
	"github.com/reelforge/pitchmail/pkg/scrape"

	gomjml "github.com/preslavrachev/gomjml/mjml"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/mr"
	"github.com/zeromicro/go-zero/core/proc"
	"github.com/zeromicro/go-zero/core/prometheus"
	"github.com/zeromicro/go-zero/core/service"
	"github.com/zeromicro/go-zero/mcp"
	"github.com/zeromicro/go-zero/rest"
)

// Server wraps the pitch API, dashboard, delivery workers, and the optional
// MCP server.
type Server struct {
	config config.Config
	group  *service.ServiceGroup
}

// New creates a new server instance.
func New(c config.Config) (*Server, error) {
	// Register global error handler for proper HTTP status codes
	errorx.RegisterErrorHandler()

	// Enable go-zero prometheus metrics (required for metric.CounterVec/HistogramVec/GaugeVec to record)
	prometheus.Enable()

	// Parallel initialization: template loading and database opening are independent
	var renderer *render.Renderer
	var database *db.DB

	err := mr.Finish(
		func() error {
			var e error
			opts := []render.Option{render.WithCache(true)}
			if c.Pitch.TemplateDir != "" {
				opts = append(opts, render.WithTemplateDir(c.Pitch.TemplateDir))
			}
			renderer, e = render.NewRenderer(opts...)
			return e
		},
		func() error {
			var e error
			database, e = db.Open(c.Database.Path)
			return e
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize: %w", err)
	}

	emailQueue, err := queue.NewQueue(database.DB, "emails")
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create queue: %w", err)
	}
	events, err := queue.NewEventRecorder(database.SqlConn())
	if err != nil {
		logx.Errorf("event recorder disabled: %v", err)
	} else {
		emailQueue.Events = events
	}

	extractor := scrape.NewExtractor(
		scrape.WithTimeout(time.Duration(c.Scraper.TimeoutSeconds) * time.Second),
	)

	completer := completion.NewClient(completion.Config{
		BaseURL:     c.Completion.BaseURL,
		APIKey:      c.Completion.APIKey,
		Model:       c.Completion.Model,
		Temperature: c.Completion.Temperature,
		MaxTokens:   c.Completion.MaxTokens,
		Timeout:     time.Duration(c.Completion.TimeoutSeconds) * time.Second,
	})

	// Parse delivery config
	retryBackoff, _ := time.ParseDuration(c.Delivery.RetryBackoff)
	if retryBackoff == 0 {
		retryBackoff = 5 * time.Minute
	}
	maxBackoff, _ := time.ParseDuration(c.Delivery.MaxBackoff)
	if maxBackoff == 0 {
		maxBackoff = 4 * time.Hour
	}

	deliveryConfig := delivery.Config{
		MaxRetries:   c.Delivery.MaxRetries,
		RetryBackoff: retryBackoff,
		MaxBackoff:   maxBackoff,
		RateLimit:    c.Delivery.RateLimit,
	}

	smtpConfig := mail.Config{
		SMTPHost:  c.SMTP.Host,
		SMTPPort:  c.SMTP.Port,
		Username:  c.SMTP.Username,
		Password:  c.SMTP.Password,
		FromEmail: c.SMTP.FromEmail,
		FromName:  c.SMTP.FromName,
	}
	deliveryEngine := delivery.NewEngine(emailQueue, smtpConfig, deliveryConfig)

	// Single rest server carries the JSON API, the dashboard, and /metrics
	restServer, err := rest.NewServer(c.RestConf, rest.WithCors(c.CORS.AllowOrigin))
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create rest server: %w", err)
	}

	svcCtx := svc.NewServiceContext(c, extractor, completer, renderer, emailQueue)
	handler.RegisterHandlers(restServer, svcCtx)

	uiHandlers := ui.NewHandlers(renderer, emailQueue)
	restServer.AddRoutes(uiHandlers.Routes())

	// Expose Prometheus metrics endpoint
	restServer.AddRoute(rest.Route{
		Method:  http.MethodGet,
		Path:    "/metrics",
		Handler: promhttp.Handler().ServeHTTP,
	})

	// Register cleanup via proc shutdown listeners
	proc.AddShutdownListener(func() {
		logx.Info("Closing database")
		database.Close()
	})
	proc.AddShutdownListener(func() {
		gomjml.StopASTCacheCleanup()
	})
	if emailQueue.Events != nil {
		proc.AddShutdownListener(func() {
			logx.Info("Flushing email events")
			emailQueue.Events.Flush()
		})
	}

	// Build service group: delivery + rest + MCP (stopped in reverse order)
	group := service.NewServiceGroup()
	group.Add(newDeliveryService(deliveryEngine, c.Delivery.Workers))
	group.Add(restServer)

	if c.Mcp.Port > 0 {
		mcpServer := mcp.NewMcpServer(c.Mcp)
		RegisterMCPTools(mcpServer, svcCtx)
		group.Add(mcpServer)
		logx.Infow("mcp enabled", logx.Field("addr", fmt.Sprintf("http://%s:%d/sse", c.Mcp.Host, c.Mcp.Port)))
	}

	logx.Infow("pitchmail server configured",
		logx.Field("api", fmt.Sprintf("http://%s:%d/api/v1", c.Host, c.Port)),
		logx.Field("database", c.Database.Path),
		logx.Field("workers", c.Delivery.Workers),
	)

	return &Server{config: c, group: group}, nil
}

// Start starts all services. Blocks until shutdown signal.
func (s *Server) Start() {
	s.group.Start()
}

// Stop stops all services.
func (s *Server) Stop() {
	s.group.Stop()
}
