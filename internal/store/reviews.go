package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/refracthq/refract/internal/logging"
	"github.com/refracthq/refract/internal/review"
)

// ErrNotFound is returned when a session or thread does not exist.
var ErrNotFound = fmt.Errorf("not found")

// ReviewSession ties a local review to a plugin-side submission.
type ReviewSession struct {
	ID        string    `json:"id"`
	PluginID  string    `json:"plugin_id"`
	RemoteID  string    `json:"remote_id,omitempty"`
	ThreadID  string    `json:"thread_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store persists review sessions, threads, and comments.
type Store struct {
	db     *sql.DB
	logger logging.Logger
}

// NewStore creates a review store backed by the given database.
func NewStore(database *sql.DB, logger logging.Logger) (*Store, error) {
	if database == nil {
		return nil, fmt.Errorf("database cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	return &Store{db: database, logger: logger.With("component", "review_store")}, nil
}

// CreateSession records a new review session for a plugin submission.
func (s *Store) CreateSession(pluginID, remoteID, threadID string) (*ReviewSession, error) {
	if pluginID == "" {
		return nil, fmt.Errorf("plugin id cannot be empty")
	}

	now := time.Now().UTC().Truncate(time.Second)
	session := &ReviewSession{
		ID:        uuid.NewString(),
		PluginID:  pluginID,
		RemoteID:  remoteID,
		ThreadID:  threadID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := s.db.Exec(`
		INSERT INTO review_sessions (id, plugin_id, remote_id, thread_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, session.ID, session.PluginID, session.RemoteID, nullString(session.ThreadID),
		session.CreatedAt.Unix(), session.UpdatedAt.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Debug("created review session", "session_id", session.ID, "plugin_id", pluginID)
	return session, nil
}

// GetSession retrieves a session by ID. Returns ErrNotFound when no
// such session exists.
func (s *Store) GetSession(id string) (*ReviewSession, error) {
	row := s.db.QueryRow(`
		SELECT id, plugin_id, remote_id, thread_id, created_at, updated_at
		FROM review_sessions WHERE id = ?
	`, id)

	var session ReviewSession
	var threadID sql.NullString
	var createdAt, updatedAt int64
	err := row.Scan(&session.ID, &session.PluginID, &session.RemoteID, &threadID, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	session.ThreadID = threadID.String
	session.CreatedAt = time.Unix(createdAt, 0).UTC()
	session.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return &session, nil
}

// SaveThread inserts or updates a thread and its comments in a single
// transaction. A thread without an ID is assigned one; so is any
// comment without an ID.
func (s *Store) SaveThread(thread *review.ReviewThread) error {
	if thread == nil {
		return fmt.Errorf("thread cannot be nil")
	}

	now := time.Now().UTC().Truncate(time.Second)
	if thread.ID == "" {
		thread.ID = uuid.NewString()
		thread.CreatedAt = now
	}
	thread.UpdatedAt = now

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO review_threads (id, path, side, start_line, start_column, end_line, end_column, resolved, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			path = excluded.path,
			side = excluded.side,
			start_line = excluded.start_line,
			start_column = excluded.start_column,
			end_line = excluded.end_line,
			end_column = excluded.end_column,
			resolved = excluded.resolved,
			updated_at = excluded.updated_at
	`, thread.ID, thread.Location.Path, string(thread.Location.Side),
		thread.Location.Range.Start.Line, columnOrDefault(thread.Location.Range.Start.Column),
		thread.Location.Range.End.Line, columnOrDefault(thread.Location.Range.End.Column),
		thread.Resolved, thread.CreatedAt.Unix(), thread.UpdatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to save thread: %w", err)
	}

	for i := range thread.Comments {
		comment := &thread.Comments[i]
		if comment.ID == "" {
			comment.ID = uuid.NewString()
			comment.CreatedAt = now
		}
		_, err = tx.Exec(`
			INSERT INTO review_comments (id, thread_id, author, severity, body, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				author = excluded.author,
				severity = excluded.severity,
				body = excluded.body
		`, comment.ID, thread.ID, comment.Author, severityOrDefault(comment.Severity),
			comment.Body, comment.CreatedAt.Unix())
		if err != nil {
			return fmt.Errorf("failed to save comment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit thread: %w", err)
	}

	s.logger.Debug("saved review thread", "thread_id", thread.ID, "path", thread.Location.Path)
	return nil
}

// GetThread retrieves a thread and its comments by ID. Returns
// ErrNotFound when no such thread exists.
func (s *Store) GetThread(id string) (*review.ReviewThread, error) {
	row := s.db.QueryRow(`
		SELECT id, path, side, start_line, start_column, end_line, end_column, resolved, created_at, updated_at
		FROM review_threads WHERE id = ?
	`, id)

	thread, err := scanThread(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("thread %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get thread: %w", err)
	}

	if err := s.loadComments(thread); err != nil {
		return nil, err
	}
	return thread, nil
}

// ListThreads returns threads ordered by creation time, optionally
// filtered to a single path.
func (s *Store) ListThreads(path string) ([]*review.ReviewThread, error) {
	query := `
		SELECT id, path, side, start_line, start_column, end_line, end_column, resolved, created_at, updated_at
		FROM review_threads
	`
	args := []any{}
	if path != "" {
		query += " WHERE path = ?"
		args = append(args, path)
	}
	query += " ORDER BY created_at, id"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list threads: %w", err)
	}
	defer rows.Close()

	threads := []*review.ReviewThread{}
	for rows.Next() {
		thread, err := scanThread(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan thread: %w", err)
		}
		threads = append(threads, thread)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate threads: %w", err)
	}

	for _, thread := range threads {
		if err := s.loadComments(thread); err != nil {
			return nil, err
		}
	}
	return threads, nil
}

// ResolveThread marks a thread resolved. Returns ErrNotFound when no
// such thread exists.
func (s *Store) ResolveThread(id string) error {
	result, err := s.db.Exec(`
		UPDATE review_threads SET resolved = 1, updated_at = ? WHERE id = ?
	`, time.Now().UTC().Unix(), id)
	if err != nil {
		return fmt.Errorf("failed to resolve thread: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check resolve result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("thread %s: %w", id, ErrNotFound)
	}

	s.logger.Debug("resolved review thread", "thread_id", id)
	return nil
}

// AddComment appends a comment to an existing thread and returns the
// stored comment.
func (s *Store) AddComment(threadID string, draft review.CommentDraft) (*review.ReviewComment, error) {
	if draft.Body == "" {
		return nil, fmt.Errorf("comment body cannot be empty")
	}

	now := time.Now().UTC().Truncate(time.Second)
	comment := &review.ReviewComment{
		ID:        uuid.NewString(),
		Body:      draft.Body,
		Severity:  severityOrDefault(draft.Severity),
		CreatedAt: now,
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRow("SELECT COUNT(*) FROM review_threads WHERE id = ?", threadID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check thread: %w", err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("thread %s: %w", threadID, ErrNotFound)
	}

	_, err = tx.Exec(`
		INSERT INTO review_comments (id, thread_id, author, severity, body, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, comment.ID, threadID, comment.Author, string(comment.Severity), comment.Body, comment.CreatedAt.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}

	_, err = tx.Exec("UPDATE review_threads SET updated_at = ? WHERE id = ?", now.Unix(), threadID)
	if err != nil {
		return nil, fmt.Errorf("failed to touch thread: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit comment: %w", err)
	}

	return comment, nil
}

func (s *Store) loadComments(thread *review.ReviewThread) error {
	rows, err := s.db.Query(`
		SELECT id, author, severity, body, created_at
		FROM review_comments WHERE thread_id = ?
		ORDER BY created_at, id
	`, thread.ID)
	if err != nil {
		return fmt.Errorf("failed to load comments: %w", err)
	}
	defer rows.Close()

	thread.Comments = []review.ReviewComment{}
	for rows.Next() {
		var comment review.ReviewComment
		var severity string
		var createdAt int64
		if err := rows.Scan(&comment.ID, &comment.Author, &severity, &comment.Body, &createdAt); err != nil {
			return fmt.Errorf("failed to scan comment: %w", err)
		}
		comment.Severity = review.Severity(severity)
		comment.CreatedAt = time.Unix(createdAt, 0).UTC()
		thread.Comments = append(thread.Comments, comment)
	}
	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanThread(row rowScanner) (*review.ReviewThread, error) {
	var thread review.ReviewThread
	var side string
	var createdAt, updatedAt int64
	err := row.Scan(&thread.ID, &thread.Location.Path, &side,
		&thread.Location.Range.Start.Line, &thread.Location.Range.Start.Column,
		&thread.Location.Range.End.Line, &thread.Location.Range.End.Column,
		&thread.Resolved, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	thread.Location.Side = review.Side(side)
	thread.CreatedAt = time.Unix(createdAt, 0).UTC()
	thread.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return &thread, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func columnOrDefault(column int) int {
	if column < 1 {
		return 1
	}
	return column
}

func severityOrDefault(severity review.Severity) review.Severity {
	if severity == "" {
		return review.SeverityInfo
	}
	return severity
}
