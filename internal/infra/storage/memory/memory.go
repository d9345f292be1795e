package memory

import (
	"context"
	"sync"

	"github.com/vietddude/chainlens/internal/core/domain"
	"github.com/vietddude/chainlens/internal/infra/storage"
)

var _ storage.CommentRepository = (*CommentRepo)(nil)

// thread is the state of one key, guarded by its own lock so posts on different
// addresses never contend.
type thread struct {
	mu       sync.Mutex
	comments []domain.Comment
	ips      map[string]struct{}
}

// CommentRepo is an in-process comment store. Data is lost on restart.
type CommentRepo struct {
	threads map[string]*thread
	mu      sync.RWMutex
}

func NewCommentRepo() *CommentRepo {
	return &CommentRepo{
		threads: make(map[string]*thread),
	}
}

func (r *CommentRepo) Name() string {
	return "memory"
}

func (r *CommentRepo) Ping(ctx context.Context) error {
	return nil
}

func (r *CommentRepo) List(ctx context.Context, key domain.CommentKey, ipHash string) ([]domain.Comment, bool, error) {
	t := r.lookup(key, false)
	if t == nil {
		return []domain.Comment{}, true, nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	_, posted := t.ips[ipHash]
	return copyComments(t.comments), !posted, nil
}

func (r *CommentRepo) Post(
	ctx context.Context,
	key domain.CommentKey,
	ipHash string,
	c domain.Comment,
	maxPerKey int,
) ([]domain.Comment, error) {
	t := r.lookup(key, true)

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, posted := t.ips[ipHash]; posted {
		return nil, domain.ErrDuplicate
	}
	t.ips[ipHash] = struct{}{}
	t.comments = append(t.comments, c)
	if maxPerKey > 0 && len(t.comments) > maxPerKey {
		t.comments = append([]domain.Comment(nil), t.comments[len(t.comments)-maxPerKey:]...)
	}
	return copyComments(t.comments), nil
}

// lookup returns the thread of key, creating it when create is set.
func (r *CommentRepo) lookup(key domain.CommentKey, create bool) *thread {
	k := key.String()

	r.mu.RLock()
	t := r.threads[k]
	r.mu.RUnlock()
	if t != nil || !create {
		return t
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if t = r.threads[k]; t == nil {
		t = &thread{ips: make(map[string]struct{})}
		r.threads[k] = t
	}
	return t
}

func copyComments(src []domain.Comment) []domain.Comment {
	out := make([]domain.Comment, len(src))
	copy(out, src)
	return out
}
