package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/vietddude/chainlens/internal/core/domain"
	"github.com/vietddude/chainlens/internal/infra/storage"
)

var _ storage.CommentRepository = (*CommentRepo)(nil)

// postScript adds the IP hash and appends the comment in one step. It returns false
// (redis.Nil to the caller) when the hash was already in the set.
//
// KEYS[1] list, KEYS[2] ip set; ARGV[1] ip hash, ARGV[2] comment json, ARGV[3] cap.
var postScript = redis.NewScript(`
if redis.call('SADD', KEYS[2], ARGV[1]) == 0 then
	return false
end
redis.call('RPUSH', KEYS[1], ARGV[2])
redis.call('LTRIM', KEYS[1], -tonumber(ARGV[3]), -1)
return redis.call('LRANGE', KEYS[1], 0, -1)
`)

// CommentRepo implements storage.CommentRepository using Redis.
type CommentRepo struct {
	rdb *redis.Client
}

// NewCommentRepo creates a new Redis-backed comment repository.
func NewCommentRepo(client *Client) *CommentRepo {
	return &CommentRepo{rdb: client.rdb}
}

// Name returns "kv", the name API clients know this backend by.
func (r *CommentRepo) Name() string {
	return "kv"
}

// Ping checks the connection.
func (r *CommentRepo) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

// List returns the thread and whether ipHash may post.
func (r *CommentRepo) List(ctx context.Context, key domain.CommentKey, ipHash string) ([]domain.Comment, bool, error) {
	var (
		items  *redis.StringSliceCmd
		posted *redis.BoolCmd
	)
	_, err := r.rdb.Pipelined(ctx, func(p redis.Pipeliner) error {
		items = p.LRange(ctx, key.ListKey(), 0, -1)
		posted = p.SIsMember(ctx, key.IPSetKey(), ipHash)
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("pipeline failed: %w", err)
	}

	comments, err := decodeComments(items.Val())
	if err != nil {
		return nil, false, err
	}
	return comments, !posted.Val(), nil
}

// Post appends c atomically unless ipHash already posted.
func (r *CommentRepo) Post(
	ctx context.Context,
	key domain.CommentKey,
	ipHash string,
	c domain.Comment,
	maxPerKey int,
) ([]domain.Comment, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal comment: %w", err)
	}
	if maxPerKey <= 0 {
		maxPerKey = domain.DefaultCommentsPerKey
	}

	items, err := postScript.Run(ctx, r.rdb,
		[]string{key.ListKey(), key.IPSetKey()},
		ipHash, data, maxPerKey,
	).StringSlice()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrDuplicate
	}
	if err != nil {
		return nil, fmt.Errorf("post script failed: %w", err)
	}

	return decodeComments(items)
}

func decodeComments(items []string) ([]domain.Comment, error) {
	comments := make([]domain.Comment, 0, len(items))
	for _, it := range items {
		var c domain.Comment
		if err := json.Unmarshal([]byte(it), &c); err != nil {
			return nil, fmt.Errorf("failed to unmarshal comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, nil
}
