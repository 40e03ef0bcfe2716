package redis

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Lock is a best-effort distributed lock backed by SETNX with a TTL.
// The TTL bounds how long a crashed holder can block others.
type Lock struct {
	client *Client
	key    string
	owner  string
	ttl    time.Duration
}

func NewLock(client *Client, name string, ttl time.Duration) *Lock {
	return &Lock{
		client: client,
		key:    "lock:" + name,
		owner:  uuid.NewString(),
		ttl:    ttl,
	}
}

// Acquire attempts to take the lock. It does not block.
func (l *Lock) Acquire(ctx context.Context) (bool, error) {
	return l.client.SetNX(ctx, l.key, l.owner, l.ttl)
}

// Release frees the lock only if this instance still owns it. A lock
// that expired and was re-acquired by another owner is left alone.
func (l *Lock) Release(ctx context.Context) error {
	val, err := l.client.Get(ctx, l.key)
	if err == ErrNotFound {
		return nil
	}
	if err != nil {
		return err
	}
	if val != l.owner {
		return nil
	}
	return l.client.Del(ctx, l.key)
}
