package companion

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/pazhealth/paz/pkg/kv"
	"github.com/vmihailenco/msgpack/v5"
)

// Conversation is a chat history stored under {prefix}:chat:{id}:{seq}.
type Conversation struct {
	store  kv.Store
	id     string
	prefix kv.Key

	mu  sync.Mutex
	seq uint64
}

// NewConversationID returns a fresh conversation id.
func NewConversationID() string {
	return uuid.NewString()
}

// OpenConversation opens the conversation id under prefix, creating it on
// first Append.
func OpenConversation(ctx context.Context, store kv.Store, prefix kv.Key, id string) (*Conversation, error) {
	if id == "" {
		return nil, errors.New("companion: empty conversation id")
	}
	c := &Conversation{store: store, id: id, prefix: prefix.Append("chat", id)}
	for e, err := range store.List(ctx, c.prefix, kv.Reverse(), kv.Limit(1)) {
		if err != nil {
			return nil, fmt.Errorf("companion: open conversation: %w", err)
		}
		if _, err := fmt.Sscanf(e.Key[len(e.Key)-1], "%d", &c.seq); err != nil {
			return nil, fmt.Errorf("companion: malformed key %s", e.Key)
		}
	}
	return c, nil
}

// ID returns the conversation id.
func (c *Conversation) ID() string {
	return c.id
}

// Append stores m after the existing messages.
func (c *Conversation) Append(ctx context.Context, m Message) error {
	data, err := msgpack.Marshal(m)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	key := c.prefix.Append(fmt.Sprintf("%020d", c.seq+1))
	if err := c.store.Set(ctx, key, data); err != nil {
		return fmt.Errorf("companion: append: %w", err)
	}
	c.seq++
	return nil
}

// Recent returns the last n messages in chronological order. n <= 0 returns
// every message.
func (c *Conversation) Recent(ctx context.Context, n int) ([]Message, error) {
	var opts []kv.ListOption
	if n > 0 {
		opts = append(opts, kv.Reverse(), kv.Limit(n))
	}
	var out []Message
	for e, err := range c.store.List(ctx, c.prefix, opts...) {
		if err != nil {
			return nil, fmt.Errorf("companion: history: %w", err)
		}
		var m Message
		if err := msgpack.Unmarshal(e.Value, &m); err != nil {
			return nil, fmt.Errorf("companion: decode %s: %w", e.Key, err)
		}
		out = append(out, m)
	}
	if n > 0 {
		slices.Reverse(out)
	}
	return out, nil
}

// Clear deletes every message.
func (c *Conversation) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var keys []kv.Key
	for e, err := range c.store.List(ctx, c.prefix) {
		if err != nil {
			return fmt.Errorf("companion: clear: %w", err)
		}
		keys = append(keys, e.Key)
	}
	if err := c.store.BatchDelete(ctx, keys); err != nil {
		return fmt.Errorf("companion: clear: %w", err)
	}
	c.seq = 0
	return nil
}
