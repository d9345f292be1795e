package postgres

import (
	"context"
	"fmt"

	"github.com/vietddude/chainlens/internal/core/domain"
	"github.com/vietddude/chainlens/internal/infra/storage"
)

var _ storage.CommentRepository = (*CommentRepo)(nil)

const (
	insertIPQuery = `
		INSERT INTO comment_ips (network, address, ip_hash)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING`

	insertCommentQuery = `
		INSERT INTO comments (id, network, address, created_at, text)
		VALUES ($1, $2, $3, $4, $5)`

	trimQuery = `
		DELETE FROM comments
		WHERE network = $1 AND address = $2 AND seq NOT IN (
			SELECT seq FROM comments
			WHERE network = $1 AND address = $2
			ORDER BY seq DESC
			LIMIT $3
		)`

	listQuery = `
		SELECT id, created_at, text FROM comments
		WHERE network = $1 AND address = $2
		ORDER BY seq ASC`

	postedQuery = `
		SELECT EXISTS (
			SELECT 1 FROM comment_ips
			WHERE network = $1 AND address = $2 AND ip_hash = $3
		)`
)

type commentRow struct {
	ID        string `db:"id"`
	CreatedAt int64  `db:"created_at"`
	Text      string `db:"text"`
}

// CommentRepo implements storage.CommentRepository using PostgreSQL.
type CommentRepo struct {
	db *DB
}

// NewCommentRepo creates a new PostgreSQL comment repository.
func NewCommentRepo(db *DB) *CommentRepo {
	return &CommentRepo{db: db}
}

// Name returns "postgres".
func (r *CommentRepo) Name() string {
	return "postgres"
}

// Ping checks the connection.
func (r *CommentRepo) Ping(ctx context.Context) error {
	return r.db.Health(ctx)
}

// List returns the thread oldest first and whether ipHash may post.
func (r *CommentRepo) List(ctx context.Context, key domain.CommentKey, ipHash string) ([]domain.Comment, bool, error) {
	var rows []commentRow
	if err := r.db.SelectContext(ctx, &rows, listQuery, key.Network, key.Address); err != nil {
		return nil, false, fmt.Errorf("failed to list comments: %w", err)
	}

	var posted bool
	if err := r.db.GetContext(ctx, &posted, postedQuery, key.Network, key.Address, ipHash); err != nil {
		return nil, false, fmt.Errorf("failed to check ip hash: %w", err)
	}

	return toComments(rows), !posted, nil
}

// Post inserts the IP hash and the comment in one transaction. The primary key of
// comment_ips makes a concurrent second post from the same client wait for the first and
// then insert nothing.
func (r *CommentRepo) Post(
	ctx context.Context,
	key domain.CommentKey,
	ipHash string,
	c domain.Comment,
	maxPerKey int,
) ([]domain.Comment, error) {
	if maxPerKey <= 0 {
		maxPerKey = domain.DefaultCommentsPerKey
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, insertIPQuery, key.Network, key.Address, ipHash)
	if err != nil {
		return nil, fmt.Errorf("failed to insert ip hash: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, fmt.Errorf("failed to read rows affected: %w", err)
	} else if n == 0 {
		return nil, domain.ErrDuplicate
	}

	if _, err := tx.ExecContext(ctx, insertCommentQuery, c.ID, key.Network, key.Address, c.CreatedAt, c.Text); err != nil {
		return nil, fmt.Errorf("failed to insert comment: %w", err)
	}

	if _, err := tx.ExecContext(ctx, trimQuery, key.Network, key.Address, maxPerKey); err != nil {
		return nil, fmt.Errorf("failed to trim comments: %w", err)
	}

	var rows []commentRow
	if err := tx.SelectContext(ctx, &rows, listQuery, key.Network, key.Address); err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}
	return toComments(rows), nil
}

func toComments(rows []commentRow) []domain.Comment {
	out := make([]domain.Comment, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.Comment{ID: row.ID, CreatedAt: row.CreatedAt, Text: row.Text})
	}
	return out
}
