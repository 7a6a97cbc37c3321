package web

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// confirmStore issues single-use tokens that authorize a delete clearing a
// whole table. A token is bound to the table it was issued for.
type confirmStore struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	tokens map[string]confirmToken
}

type confirmToken struct {
	tableKey string
	expires  time.Time
}

func newConfirmStore(ttl time.Duration) *confirmStore {
	return &confirmStore{
		ttl:    ttl,
		now:    time.Now,
		tokens: make(map[string]confirmToken),
	}
}

// Issue returns a new token for tableKey and drops expired ones.
func (c *confirmStore) Issue(tableKey string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for tok, t := range c.tokens {
		if now.After(t.expires) {
			delete(c.tokens, tok)
		}
	}

	tok := uuid.NewString()
	c.tokens[tok] = confirmToken{tableKey: tableKey, expires: now.Add(c.ttl)}
	return tok
}

// Redeem consumes token and reports whether it was valid for tableKey.
// A token is removed on first use even if it names another table.
func (c *confirmStore) Redeem(token, tableKey string) bool {
	if token == "" {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	t, ok := c.tokens[token]
	if !ok {
		return false
	}
	delete(c.tokens, token)
	return t.tableKey == tableKey && !c.now().After(t.expires)
}

// Len returns the number of outstanding tokens.
func (c *confirmStore) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tokens)
}
