package storage

import (
	"context"

	"github.com/vietddude/chainlens/internal/core/domain"
)

// CommentRepository handles comment thread storage.
//
// Implementations must make Post atomic per key: the duplicate check, the IP hash insert,
// the append and the trim either all happen or none do.
type CommentRepository interface {
	// Name identifies the backend in API responses ("memory", "kv", "postgres")
	Name() string

	// List returns the thread oldest first and whether ipHash may still post
	List(ctx context.Context, key domain.CommentKey, ipHash string) ([]domain.Comment, bool, error)

	// Post appends c unless ipHash already posted (domain.ErrDuplicate) and returns the
	// thread after the append, trimmed to the newest maxPerKey comments
	Post(ctx context.Context, key domain.CommentKey, ipHash string, c domain.Comment, maxPerKey int) ([]domain.Comment, error)

	// Ping checks backend connectivity
	Ping(ctx context.Context) error
}
