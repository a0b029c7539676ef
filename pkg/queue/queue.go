// Package queue provides the outbound email queue backed by goqite.
//
// The request pipeline renders the pitch email fully, enqueues it here, and
// returns without waiting for SMTP. Delivery workers drain the queue in the
// background; the emails table mirrors every job for status tracking.
package queue

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"maragu.dev/goqite"
)

// EmailJob is one rendered pitch email awaiting dispatch.
type EmailJob struct {
	ID          string    `json:"id"`
	Recipient   string    `json:"recipient"`
	Subject     string    `json:"subject"`
	HTML        string    `json:"html"`
	Business    string    `json:"business,omitempty"`
	Status      string    `json:"status,omitempty"`
	Attempts    int       `json:"attempts"`
	MaxAttempts int       `json:"max_attempts"`
	Error       string    `json:"error,omitempty"`
	SentAt      time.Time `json:"sent_at,omitzero"`
	CreatedAt   time.Time `json:"created_at"`
}

// Message is a received queue message handle, passed back for ack/requeue.
type Message = goqite.Message

// Queue manages email jobs using goqite.
type Queue struct {
	db    *sql.DB
	queue *goqite.Queue
	name  string

	// Events, when set, batches event rows for delivery tracking.
	Events *EventRecorder
}

// goqiteSchema is the SQLite schema goqite v0.4.0 expects; the library leaves
// applying it to the application.
const goqiteSchema = `
create table if not exists goqite (
  id text primary key default ('m_' || lower(hex(randomblob(16)))),
  created text not null default (strftime('%Y-%m-%dT%H:%M:%fZ')),
  updated text not null default (strftime('%Y-%m-%dT%H:%M:%fZ')),
  queue text not null,
  body blob not null,
  timeout text not null default (strftime('%Y-%m-%dT%H:%M:%fZ')),
  received integer not null default 0,
  priority integer not null default 0
) strict;

create trigger if not exists goqite_updated_timestamp after update on goqite begin
  update goqite set updated = strftime('%Y-%m-%dT%H:%M:%fZ') where id = old.id;
end;

create index if not exists goqite_queue_priority_created_idx on goqite (queue, priority desc, created);
`

// NewQueue creates an email queue on top of an opened SQLite database,
// applying the goqite schema when it is not present yet.
func NewQueue(db *sql.DB, name string) (*Queue, error) {
	if _, err := db.Exec(goqiteSchema); err != nil {
		return nil, fmt.Errorf("apply goqite schema: %w", err)
	}

	q := goqite.New(goqite.NewOpts{
		DB:   db,
		Name: name,
	})

	return &Queue{db: db, queue: q, name: name}, nil
}

// Enqueue adds an email job to the queue and mirrors it into the emails
// table. Returns the job ID.
func (q *Queue) Enqueue(ctx context.Context, job EmailJob) (string, error) {
	if job.ID == "" {
		job.ID = uuid.New().String()
	}
	if job.MaxAttempts == 0 {
		job.MaxAttempts = 3
	}
	job.CreatedAt = time.Now()

	body, err := json.Marshal(job)
	if err != nil {
		return "", fmt.Errorf("marshal job: %w", err)
	}

	if err := q.queue.Send(ctx, goqite.Message{Body: body}); err != nil {
		return "", fmt.Errorf("send to queue: %w", err)
	}

	if err := q.storeEmail(ctx, job); err != nil {
		return "", fmt.Errorf("store email: %w", err)
	}

	return job.ID, nil
}

// Receive gets the next job from the queue, or (nil, nil, nil) when none is
// available.
func (q *Queue) Receive(ctx context.Context) (*EmailJob, *goqite.Message, error) {
	msg, err := q.queue.Receive(ctx)
	if err != nil {
		return nil, nil, err
	}
	if msg == nil {
		return nil, nil, nil
	}

	var job EmailJob
	if err := json.Unmarshal(msg.Body, &job); err != nil {
		return nil, msg, fmt.Errorf("unmarshal job: %w", err)
	}

	return &job, msg, nil
}

// Delete removes a message from the queue (job reached a terminal state).
func (q *Queue) Delete(ctx context.Context, msg *goqite.Message) error {
	return q.queue.Delete(ctx, msg.ID)
}

// Requeue schedules a job for another attempt after the given delay.
func (q *Queue) Requeue(ctx context.Context, msg *goqite.Message, job *EmailJob, delay time.Duration) error {
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	if err := q.queue.Send(ctx, goqite.Message{Body: body, Delay: delay}); err != nil {
		return fmt.Errorf("requeue: %w", err)
	}
	return q.queue.Delete(ctx, msg.ID)
}

// GetStatus returns the tracked state of an email by ID, or nil when unknown.
func (q *Queue) GetStatus(ctx context.Context, id string) (*EmailJob, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT id, recipient, subject, business, status, attempts, max_attempts, sent_at, error, created_at
		FROM emails WHERE id = ?
	`, id)

	job, err := scanEmail(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return job, err
}

// List returns tracked emails, newest first, with an optional status filter.
func (q *Queue) List(ctx context.Context, status string, limit int) ([]*EmailJob, error) {
	query := `
		SELECT id, recipient, subject, business, status, attempts, max_attempts, sent_at, error, created_at
		FROM emails
	`
	args := []any{}

	if status != "" && status != "all" {
		query += " WHERE status = ?"
		args = append(args, status)
	}

	query += " ORDER BY created_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []*EmailJob
	for rows.Next() {
		job, err := scanEmail(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	return jobs, rows.Err()
}

// Stats returns email counts grouped by status.
func (q *Queue) Stats(ctx context.Context) (map[string]int, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT status, COUNT(*) as count FROM emails GROUP BY status
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}

	return stats, rows.Err()
}

// MarkSent marks an email as successfully delivered.
func (q *Queue) MarkSent(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE emails
		SET status = 'sent', sent_at = CURRENT_TIMESTAMP, error = NULL,
		    attempts = attempts + 1, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, id)
	return err
}

// MarkRetry records a failed attempt that will be retried.
func (q *Queue) MarkRetry(ctx context.Context, id string, err error) error {
	_, dbErr := q.db.ExecContext(ctx, `
		UPDATE emails
		SET status = 'retrying', error = ?, attempts = attempts + 1,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, err.Error(), id)
	return dbErr
}

// MarkFailed records a permanent delivery failure.
func (q *Queue) MarkFailed(ctx context.Context, id string, err error) error {
	_, dbErr := q.db.ExecContext(ctx, `
		UPDATE emails
		SET status = 'failed', error = ?, attempts = attempts + 1,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, err.Error(), id)
	return dbErr
}

func (q *Queue) storeEmail(ctx context.Context, job EmailJob) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO emails (id, recipient, subject, html, business, status, attempts, max_attempts, created_at)
		VALUES (?, ?, ?, ?, ?, 'pending', 0, ?, CURRENT_TIMESTAMP)
	`, job.ID, job.Recipient, job.Subject, job.HTML, job.Business, job.MaxAttempts)

	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEmail(row scanner) (*EmailJob, error) {
	var job EmailJob
	var business, errStr sql.NullString
	var sentAt sql.NullTime

	err := row.Scan(
		&job.ID, &job.Recipient, &job.Subject, &business, &job.Status,
		&job.Attempts, &job.MaxAttempts, &sentAt, &errStr, &job.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	job.Business = business.String
	job.Error = errStr.String
	if sentAt.Valid {
		job.SentAt = sentAt.Time
	}
	return &job, nil
}
