package delivery

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelforge/pitchmail/pkg/db"
	"github.com/reelforge/pitchmail/pkg/mail"
	"github.com/reelforge/pitchmail/pkg/queue"
)

func newTestEngine(t *testing.T) (*Engine, *queue.Queue) {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "delivery.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	q, err := queue.NewQueue(database.DB, "delivery-test")
	require.NoError(t, err)

	cfg := Config{
		MaxRetries:   3,
		RetryBackoff: time.Minute,
		MaxBackoff:   time.Hour,
		RateLimit:    6000,
	}
	return NewEngine(q, mail.Config{FromEmail: "studio@test"}, cfg), q
}

func TestProcessOneSendsAndMarksSent(t *testing.T) {
	e, q := newTestEngine(t)
	ctx := context.Background()

	var calls int32
	var gotTo, gotHTML string
	e.SetSender(func(_ mail.Config, to, subject, html string) error {
		atomic.AddInt32(&calls, 1)
		gotTo, gotHTML = to, html
		return nil
	})

	id, err := q.Enqueue(ctx, queue.EmailJob{
		Recipient: "lead@acme.test",
		Subject:   "Your script",
		HTML:      "<p>Acme</p>",
	})
	require.NoError(t, err)

	processed, err := e.ProcessOne(ctx)
	require.NoError(t, err)
	require.True(t, processed)

	assert.EqualValues(t, 1, calls, "exactly one SMTP submission per job")
	assert.Equal(t, "lead@acme.test", gotTo)
	assert.Equal(t, "<p>Acme</p>", gotHTML)

	status, err := q.GetStatus(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "sent", status.Status)
	assert.Empty(t, status.Error, "a successful send must not record a failure")
	assert.Equal(t, 1, status.Attempts)

	// Queue is drained.
	processed, err = e.ProcessOne(ctx)
	require.NoError(t, err)
	assert.False(t, processed)
}

func TestProcessOnePanickingSenderMarksFailed(t *testing.T) {
	e, q := newTestEngine(t)
	ctx := context.Background()

	e.SetSender(func(_ mail.Config, _, _, _ string) error {
		panic("smtp client blew up")
	})

	id, err := q.Enqueue(ctx, queue.EmailJob{Recipient: "a@b.test", Subject: "s", HTML: "x"})
	require.NoError(t, err)

	require.NotPanics(t, func() {
		processed, err := e.ProcessOne(ctx)
		require.NoError(t, err)
		require.True(t, processed)
	})

	status, err := q.GetStatus(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "failed", status.Status)
	assert.Contains(t, status.Error, "panic during delivery")

	// The message is gone, not redelivered.
	processed, err := e.ProcessOne(ctx)
	require.NoError(t, err)
	assert.False(t, processed)
}

func TestProcessOneTransientFailureRequeues(t *testing.T) {
	e, q := newTestEngine(t)
	ctx := context.Background()

	e.SetSender(func(_ mail.Config, _, _, _ string) error {
		return errors.New("connection refused")
	})

	id, err := q.Enqueue(ctx, queue.EmailJob{Recipient: "a@b.test", Subject: "s", HTML: "x"})
	require.NoError(t, err)

	processed, err := e.ProcessOne(ctx)
	require.NoError(t, err)
	require.True(t, processed)

	status, err := q.GetStatus(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "retrying", status.Status)
	assert.Contains(t, status.Error, "connection refused")
}

func TestProcessOnePermanentFailureMarksFailed(t *testing.T) {
	e, q := newTestEngine(t)
	ctx := context.Background()

	e.SetSender(func(_ mail.Config, _, _, _ string) error {
		return errors.New("550 mailbox unavailable")
	})

	id, err := q.Enqueue(ctx, queue.EmailJob{Recipient: "a@b.test", Subject: "s", HTML: "x"})
	require.NoError(t, err)

	processed, err := e.ProcessOne(ctx)
	require.NoError(t, err)
	require.True(t, processed)

	status, err := q.GetStatus(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "failed", status.Status)

	// Permanent failures are not requeued.
	processed, err = e.ProcessOne(ctx)
	require.NoError(t, err)
	assert.False(t, processed)
}

func TestIsPermanentFailure(t *testing.T) {
	assert.True(t, isPermanentFailure(errors.New("550 no such user")))
	assert.True(t, isPermanentFailure(errors.New("smtp: 554 transaction failed")))
	assert.False(t, isPermanentFailure(errors.New("dial tcp: timeout")))
}

func TestCalculateBackoffCapped(t *testing.T) {
	e := &Engine{config: Config{RetryBackoff: time.Minute, MaxBackoff: 4 * time.Minute}}

	assert.Equal(t, time.Minute, e.calculateBackoff(1))
	assert.Equal(t, 2*time.Minute, e.calculateBackoff(2))
	assert.Equal(t, 4*time.Minute, e.calculateBackoff(3))
	assert.Equal(t, 4*time.Minute, e.calculateBackoff(10))
}
