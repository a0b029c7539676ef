package queue

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelforge/pitchmail/pkg/db"
)

func newTestQueue(t *testing.T) *Queue {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	q, err := NewQueue(database.DB, "pitchmail-test")
	require.NoError(t, err)
	return q
}

func TestNewQueueReopensExistingDatabase(t *testing.T) {
	database, err := db.Open(filepath.Join(t.TempDir(), "reopen.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	first, err := NewQueue(database.DB, "pitchmail-test")
	require.NoError(t, err)

	ctx := context.Background()
	id, err := first.Enqueue(ctx, EmailJob{Recipient: "a@b.test", Subject: "s", HTML: "x"})
	require.NoError(t, err)

	// The schema is applied idempotently; a second queue on the same database
	// sees the pending message.
	second, err := NewQueue(database.DB, "pitchmail-test")
	require.NoError(t, err)

	job, msg, err := second.Receive(ctx)
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.Equal(t, id, job.ID)
	require.NoError(t, second.Delete(ctx, msg))
}

func TestEnqueueReceiveRoundTrip(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()

	id, err := q.Enqueue(ctx, EmailJob{
		Recipient: "lead@acme.test",
		Subject:   "Your video script",
		HTML:      "<p>Hi Acme</p>",
		Business:  "Acme",
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	job, msg, err := q.Receive(ctx)
	require.NoError(t, err)
	require.NotNil(t, job)
	require.NotNil(t, msg)

	assert.Equal(t, id, job.ID)
	assert.Equal(t, "lead@acme.test", job.Recipient)
	assert.Equal(t, "<p>Hi Acme</p>", job.HTML)
	assert.Equal(t, 3, job.MaxAttempts)

	require.NoError(t, q.Delete(ctx, msg))
}

func TestReceiveEmptyQueue(t *testing.T) {
	q := newTestQueue(t)

	job, msg, err := q.Receive(context.Background())
	require.NoError(t, err)
	assert.Nil(t, job)
	assert.Nil(t, msg)
}

func TestStatusTracking(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()

	id, err := q.Enqueue(ctx, EmailJob{Recipient: "a@b.test", Subject: "s", HTML: "<p></p>"})
	require.NoError(t, err)

	status, err := q.GetStatus(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, status)
	assert.Equal(t, "pending", status.Status)

	require.NoError(t, q.MarkSent(ctx, id))

	status, err = q.GetStatus(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "sent", status.Status)
	assert.Equal(t, 1, status.Attempts)
	assert.False(t, status.SentAt.IsZero())

	unknown, err := q.GetStatus(ctx, "no-such-id")
	require.NoError(t, err)
	assert.Nil(t, unknown)
}

func TestListAndStats(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()

	first, err := q.Enqueue(ctx, EmailJob{Recipient: "a@b.test", Subject: "one", HTML: "x"})
	require.NoError(t, err)
	_, err = q.Enqueue(ctx, EmailJob{Recipient: "c@d.test", Subject: "two", HTML: "y"})
	require.NoError(t, err)

	require.NoError(t, q.MarkFailed(ctx, first, assert.AnError))

	all, err := q.List(ctx, "all", 10)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	failed, err := q.List(ctx, "failed", 10)
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, first, failed[0].ID)
	assert.NotEmpty(t, failed[0].Error)

	stats, err := q.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats["pending"])
	assert.Equal(t, 1, stats["failed"])
}
