// Package delivery drains the outbound email queue in the background.
//
// Dispatch is fire-and-forget with respect to the API response: the request
// pipeline enqueues a rendered email and returns; workers here own rate
// limiting, retries with exponential backoff, and failure tracking. A
// delivery failure is recorded, never surfaced to the original requester.
package delivery

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/syncx"
	"github.com/zeromicro/go-zero/core/threading"
	"golang.org/x/time/rate"

	"github.com/reelforge/pitchmail/pkg/mail"
	"github.com/reelforge/pitchmail/pkg/queue"
)

// Config holds delivery engine configuration.
type Config struct {
	MaxRetries   int
	RetryBackoff time.Duration
	MaxBackoff   time.Duration
	RateLimit    int // emails per minute
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxRetries:   3,
		RetryBackoff: 5 * time.Minute,
		MaxBackoff:   4 * time.Hour,
		RateLimit:    60,
	}
}

// Sender submits one email. mail.Send satisfies it; tests swap in a fake.
type Sender func(cfg mail.Config, to, subject, html string) error

// Engine handles email delivery with retry logic.
type Engine struct {
	config      Config
	queue       *queue.Queue
	smtpConfig  mail.Config
	send        Sender
	rateLimiter *rate.Limiter
	running     *syncx.AtomicBool

	ctx    context.Context
	cancel context.CancelFunc
	group  *threading.RoutineGroup
}

// NewEngine creates a delivery engine.
func NewEngine(q *queue.Queue, smtp mail.Config, cfg Config) *Engine {
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = DefaultConfig().RateLimit
	}
	limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RateLimit)), 1)

	ctx, cancel := context.WithCancel(context.Background())

	return &Engine{
		config:      cfg,
		queue:       q,
		smtpConfig:  smtp,
		send:        mail.Send,
		rateLimiter: limiter,
		running:     syncx.NewAtomicBool(),
		ctx:         ctx,
		cancel:      cancel,
		group:       threading.NewRoutineGroup(),
	}
}

// SetSender replaces the SMTP submission function.
func (e *Engine) SetSender(s Sender) {
	e.send = s
}

// Start starts the delivery engine with the specified number of workers.
func (e *Engine) Start(workers int) {
	if !e.running.CompareAndSwap(false, true) {
		return // already running
	}

	logx.Infow("Delivery engine started", logx.Field("workers", workers))
	for i := 0; i < workers; i++ {
		e.group.RunSafe(func() { e.worker() })
	}
}

// Stop gracefully stops the delivery engine.
func (e *Engine) Stop() {
	if !e.running.CompareAndSwap(true, false) {
		return // already stopped
	}

	logx.Info("Delivery engine stopping, waiting for workers")
	e.cancel()
	e.group.Wait()
	logx.Info("Delivery engine stopped")
}

func (e *Engine) worker() {
	backoff := 100 * time.Millisecond
	const maxBackoff = 5 * time.Second

	for {
		select {
		case <-e.ctx.Done():
			return
		default:
			job, msg, err := e.queue.Receive(e.ctx)
			if err != nil {
				time.Sleep(backoff)
				if backoff < maxBackoff {
					backoff = min(backoff*2, maxBackoff)
				}
				continue
			}
			if job == nil {
				// No work available — adaptive backoff
				time.Sleep(backoff)
				if backoff < maxBackoff {
					backoff = min(backoff*2, maxBackoff)
				}

				e.updateQueueDepth()
				continue
			}

			backoff = 100 * time.Millisecond // reset on work found
			e.processJob(job, msg)
		}
	}
}

// ProcessOne receives and processes a single job. Returns false when the
// queue was empty. Used by tests and the CLI drain path.
func (e *Engine) ProcessOne(ctx context.Context) (bool, error) {
	job, msg, err := e.queue.Receive(ctx)
	if err != nil {
		return false, err
	}
	if job == nil {
		return false, nil
	}
	e.processJob(job, msg)
	return true, nil
}

func (e *Engine) processJob(job *queue.EmailJob, msg *queue.Message) {
	ctx := logx.ContextWithFields(e.ctx,
		logx.Field("job_id", job.ID),
		logx.Field("recipient", job.Recipient),
		logx.Field("business", job.Business),
	)

	// Panic recovery: mark the job failed only when something below actually
	// blows up. The success and retry paths must leave the tracked status
	// alone.
	defer func() {
		if p := recover(); p != nil {
			logx.WithContext(ctx).Errorf("panic during delivery: %v", p)
			emailsFailed.Inc("panic")
			e.queue.MarkFailed(ctx, job.ID, fmt.Errorf("panic during delivery: %v", p))
			e.queue.Delete(ctx, msg)
		}
	}()

	logx.WithContext(ctx).Info("Processing email")

	start := time.Now()

	if err := e.rateLimiter.Wait(ctx); err != nil {
		e.handleError(ctx, job, msg, err)
		return
	}

	if err := e.send(e.smtpConfig, job.Recipient, job.Subject, job.HTML); err != nil {
		e.handleError(ctx, job, msg, fmt.Errorf("send to %s: %w", job.Recipient, err))
		return
	}

	// Success
	e.queue.MarkSent(ctx, job.ID)
	e.queue.Delete(ctx, msg)
	emailsSent.Inc()
	deliveryDuration.Observe(time.Since(start).Milliseconds())
	e.recordEvent(job.ID, queue.EventSent, "")

	logx.WithContext(ctx).Info("Email sent")
}

func (e *Engine) handleError(ctx context.Context, job *queue.EmailJob, msg *queue.Message, err error) {
	job.Attempts++
	job.Error = err.Error()

	reason := "transient"
	if isPermanentFailure(err) {
		reason = "permanent"
	}

	if isPermanentFailure(err) || job.Attempts >= job.MaxAttempts {
		e.queue.MarkFailed(ctx, job.ID, err)
		e.queue.Delete(ctx, msg)
		emailsFailed.Inc(reason)
		e.recordEvent(job.ID, queue.EventFailed, err.Error())
		logx.WithContext(ctx).Errorf("Email delivery failed permanently: %v", err)
		return
	}

	backoff := e.calculateBackoff(job.Attempts)
	e.queue.MarkRetry(ctx, job.ID, err)
	if rqErr := e.queue.Requeue(ctx, msg, job, backoff); rqErr != nil {
		logx.WithContext(ctx).Errorf("Failed to requeue: %v", rqErr)
	}
	emailsRetried.Inc()
	e.recordEvent(job.ID, queue.EventRetry, fmt.Sprintf("attempt %d, backoff %s: %v", job.Attempts, backoff, err))

	logx.WithContext(ctx).Infof("Email delivery retrying in %s: %v", backoff, err)
}

func (e *Engine) calculateBackoff(attempts int) time.Duration {
	backoff := e.config.RetryBackoff * time.Duration(math.Pow(2, float64(attempts-1)))
	if backoff > e.config.MaxBackoff {
		return e.config.MaxBackoff
	}
	return backoff
}

// isPermanentFailure checks if the error indicates a permanent failure.
// SMTP 5xx codes will not succeed on retry.
func isPermanentFailure(err error) bool {
	msg := err.Error()
	permanentCodes := []string{"550", "551", "552", "553", "554"}
	for _, code := range permanentCodes {
		if strings.Contains(msg, code) {
			return true
		}
	}
	return false
}

func (e *Engine) recordEvent(emailID, eventType, details string) {
	if e.queue.Events != nil {
		e.queue.Events.RecordEvent(emailID, eventType, details)
	}
}

func (e *Engine) updateQueueDepth() {
	stats, err := e.queue.Stats(e.ctx)
	if err != nil {
		return
	}
	for status, count := range stats {
		queueDepth.Set(float64(count), status)
	}
}
