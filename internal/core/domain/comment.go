package domain

import "fmt"

// MaxCommentLength is the maximum number of characters of a sanitized comment.
const MaxCommentLength = 500

// DefaultCommentsPerKey bounds the comment list of one key, oldest evicted first.
const DefaultCommentsPerKey = 200

// Comment is an immutable plain-text note attached to an address.
type Comment struct {
	ID        string `json:"id"`
	CreatedAt int64  `json:"createdAt"`
	Text      string `json:"text"`
}

// CommentKey identifies the comment thread of one address on one network.
type CommentKey struct {
	Network string
	Address string
}

// ListKey is the storage key of the ordered comment list.
func (k CommentKey) ListKey() string {
	return fmt.Sprintf("comments:%s:%s", k.Network, k.Address)
}

// IPSetKey is the storage key of the set of client-IP hashes that already posted.
func (k CommentKey) IPSetKey() string {
	return fmt.Sprintf("commentips:%s:%s", k.Network, k.Address)
}

// String is used as the in-process map key.
func (k CommentKey) String() string {
	return k.Network + ":" + k.Address
}
