// Package comments implements the per-address comment threads with a one post per client
// rule. Client IPs are only ever stored as salted hashes.
package comments

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/vietddude/chainlens/internal/core/domain"
	"github.com/vietddude/chainlens/internal/infra/storage"
	"github.com/vietddude/chainlens/internal/metrics"
)

const maxAddressLength = 200

var networkRe = regexp.MustCompile(`^[A-Za-z0-9:_\-.]{2,80}$`)

// Messages returned to API callers.
const (
	MsgMissingKey = "Missing network or address"
	MsgMissing    = "Missing network/address/text"
	MsgInvalidKey = "Invalid network/address"
	MsgTooLong    = "Comment too long (max 500 chars)"
	MsgDuplicate  = "You have already posted a comment."
)

// ValidationError is a rejected request field. It wraps domain.ErrValidation.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Unwrap() error { return domain.ErrValidation }

// Thread is the state of one comment key as seen by one client.
type Thread struct {
	Key      domain.CommentKey
	Comments []domain.Comment
	CanPost  bool
}

// Service validates and stores comments. Every thread keeps the newest
// domain.DefaultCommentsPerKey comments.
type Service struct {
	repo storage.CommentRepository
	salt string
	now  func() time.Time
}

// NewService creates a comment service.
func NewService(repo storage.CommentRepository, salt string) *Service {
	return &Service{
		repo: repo,
		salt: salt,
		now:  time.Now,
	}
}

// Storage returns the backend name.
func (s *Service) Storage() string {
	return s.repo.Name()
}

// Ping checks the backend.
func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// IPHash returns the salted hash stored in place of a client IP.
func (s *Service) IPHash(ip string) string {
	sum := sha256.Sum256([]byte(ip + "|" + s.salt))
	return hex.EncodeToString(sum[:])
}

// List returns the thread of (network, address) and whether clientIP may post to it.
func (s *Service) List(ctx context.Context, network, address, clientIP string) (*Thread, error) {
	key := NormalizeKey(network, address)
	if key.Network == "" || key.Address == "" {
		return nil, &ValidationError{Msg: MsgMissingKey}
	}
	if err := validateKey(key); err != nil {
		return nil, err
	}

	list, canPost, err := s.repo.List(ctx, key, s.IPHash(clientIP))
	if err != nil {
		return nil, fmt.Errorf("list comments %s: %w", key, err)
	}
	return &Thread{Key: key, Comments: nonNil(list), CanPost: canPost}, nil
}

// Post sanitizes text and appends it to the thread. It returns the new comment and the
// thread after the append.
func (s *Service) Post(ctx context.Context, network, address, clientIP, text string) (*domain.Comment, *Thread, error) {
	key := NormalizeKey(network, address)
	clean := Sanitize(text)

	if key.Network == "" || key.Address == "" || clean == "" {
		return nil, nil, s.reject("missing", &ValidationError{Msg: MsgMissing})
	}
	if err := validateKey(key); err != nil {
		return nil, nil, s.reject("invalid_key", err)
	}
	if utf8.RuneCountInString(clean) > domain.MaxCommentLength {
		return nil, nil, s.reject("too_long", &ValidationError{Msg: MsgTooLong})
	}

	c := domain.Comment{
		ID:        uuid.NewString(),
		CreatedAt: s.now().UnixMilli(),
		Text:      clean,
	}

	list, err := s.repo.Post(ctx, key, s.IPHash(clientIP), c, domain.DefaultCommentsPerKey)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, nil, s.reject("duplicate", err)
		}
		return nil, nil, fmt.Errorf("post comment %s: %w", key, err)
	}

	metrics.CommentsPosted.WithLabelValues(s.repo.Name()).Inc()
	return &c, &Thread{Key: key, Comments: nonNil(list), CanPost: false}, nil
}

func (s *Service) reject(reason string, err error) error {
	metrics.CommentsRejected.WithLabelValues(reason).Inc()
	return err
}

// NormalizeKey upper-cases the network and trims the address.
func NormalizeKey(network, address string) domain.CommentKey {
	return domain.CommentKey{
		Network: strings.ToUpper(strings.TrimSpace(network)),
		Address: strings.TrimSpace(address),
	}
}

func validateKey(key domain.CommentKey) error {
	if !networkRe.MatchString(key.Network) {
		return &ValidationError{Msg: MsgInvalidKey}
	}
	if key.Address == "" || utf8.RuneCountInString(key.Address) > maxAddressLength {
		return &ValidationError{Msg: MsgInvalidKey}
	}
	for _, r := range key.Address {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return &ValidationError{Msg: MsgInvalidKey}
		}
	}
	return nil
}

func nonNil(list []domain.Comment) []domain.Comment {
	if list == nil {
		return []domain.Comment{}
	}
	return list
}
