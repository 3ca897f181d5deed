package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

type sqlCommentRepo struct{ db *sql.DB }

func NewSQLCommentRepository(db *sql.DB) CommentRepository { return &sqlCommentRepo{db} }

func (r *sqlCommentRepo) Create(ctx context.Context, c *Comment) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO comments(text, created_at, user_id, event_id)
		 VALUES ($1,$2,$3,$4) RETURNING id`,
		c.Text, c.CreatedAt, c.UserID, c.EventID,
	).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

func (r *sqlCommentRepo) GetByID(ctx context.Context, id int64) (Comment, error) {
	var c Comment
	err := r.db.QueryRowContext(ctx,
		`SELECT id, text, created_at, user_id, event_id FROM comments WHERE id=$1`,
		id,
	).Scan(&c.ID, &c.Text, &c.CreatedAt, &c.UserID, &c.EventID)
	if errors.Is(err, sql.ErrNoRows) {
		return Comment{}, ErrNotFound
	}
	if err != nil {
		return Comment{}, fmt.Errorf("get comment: %w", err)
	}
	return c, nil
}

// ListByEvent returns comments newest-first.
func (r *sqlCommentRepo) ListByEvent(ctx context.Context, eventID string) ([]Comment, error) {
	return r.query(ctx,
		`SELECT id, text, created_at, user_id, event_id
		 FROM comments WHERE event_id=$1 ORDER BY created_at DESC`,
		eventID)
}

func (r *sqlCommentRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Search matches comment text and the creation timestamp cast to text.
func (r *sqlCommentRepo) Search(ctx context.Context, query string) ([]Comment, error) {
	return r.query(ctx,
		`SELECT id, text, created_at, user_id, event_id
		 FROM comments
		 WHERE text ILIKE '%' || $1 || '%'
		    OR created_at::text ILIKE '%' || $1 || '%'
		 ORDER BY created_at DESC`,
		query)
}

func (r *sqlCommentRepo) ListByUsers(ctx context.Context, userIDs []int64) ([]Comment, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	return r.query(ctx,
		`SELECT id, text, created_at, user_id, event_id
		 FROM comments WHERE user_id = ANY($1) ORDER BY created_at DESC`,
		pq.Array(userIDs))
}

func (r *sqlCommentRepo) query(ctx context.Context, q string, args ...any) ([]Comment, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query comments: %w", err)
	}
	defer rows.Close()

	var out []Comment
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.Text, &c.CreatedAt, &c.UserID, &c.EventID); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
