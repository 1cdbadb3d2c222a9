// Package stmtcache keeps prepared statements keyed by their SQL text.
package stmtcache

import (
	"context"
	"database/sql"
	"sync"

	"github.com/satishbabariya/go-dbal/internal/debug"
)

// Preparer creates prepared statements. *sql.DB and *sql.Conn satisfy it.
type Preparer interface {
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

// Stats represents cache statistics.
type Stats struct {
	Hits      int64
	Misses    int64
	Size      int
	MaxSize   int
	Evictions int64
	HitRate   float64
}

// Cache is an LRU of prepared statements. A statement handed out by Prepare
// is closed only after it is evicted and every holder has released it.
type Cache struct {
	mu      sync.Mutex
	data    map[string]*node
	maxSize int
	head    *node
	tail    *node
	stats   Stats
}

type node struct {
	key     string
	stmt    *sql.Stmt
	refs    int
	evicted bool
	prev    *node
	next    *node
}

// New creates a cache holding at most maxSize statements.
func New(maxSize int) *Cache {
	if maxSize < 1 {
		maxSize = 1
	}
	return &Cache{
		data:    make(map[string]*node),
		maxSize: maxSize,
		stats:   Stats{MaxSize: maxSize},
	}
}

// Prepare returns the cached statement for query, preparing it with p on a
// miss. The caller must call release once it has started its last call on
// the statement; rows already opened keep the statement alive on their own.
func (c *Cache) Prepare(ctx context.Context, p Preparer, query string) (*sql.Stmt, func(), error) {
	if n := c.acquire(query); n != nil {
		return n.stmt, c.releaser(n), nil
	}

	stmt, err := p.PrepareContext(ctx, query)
	if err != nil {
		return nil, nil, err
	}
	n := c.add(query, stmt)
	return n.stmt, c.releaser(n), nil
}

// Contains reports whether a statement is cached for query. It does not
// touch the statistics or the recency order.
func (c *Cache) Contains(query string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.data[query]
	return ok
}

func (c *Cache) acquire(query string) *node {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.data[query]
	if !ok {
		c.stats.Misses++
		c.updateHitRate()
		return nil
	}

	c.moveToFront(n)
	n.refs++
	c.stats.Hits++
	c.updateHitRate()
	return n
}

// add stores stmt unless another goroutine cached the same query first, in
// which case stmt is closed and the cached node returned. The returned node
// is acquired.
func (c *Cache) add(query string, stmt *sql.Stmt) *node {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n, ok := c.data[query]; ok {
		_ = stmt.Close()
		c.moveToFront(n)
		n.refs++
		return n
	}

	if len(c.data) >= c.maxSize {
		c.evictLRU()
	}

	n := &node{key: query, stmt: stmt, refs: 1}
	c.addToFront(n)
	c.data[query] = n
	c.stats.Size = len(c.data)
	return n
}

func (c *Cache) releaser(n *node) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()

			n.refs--
			if n.evicted && n.refs == 0 {
				closeStmt(n)
			}
		})
	}
}

// Invalidate removes the statement cached for query and closes it once released.
func (c *Cache) Invalidate(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n, ok := c.data[query]; ok {
		c.removeNode(n)
		retire(n)
		c.stats.Size = len(c.data)
	}
}

// Clear removes every cached statement, closing each once released.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, n := range c.data {
		retire(n)
	}
	c.data = make(map[string]*node)
	c.head = nil
	c.tail = nil
	c.stats = Stats{MaxSize: c.maxSize}
}

// GetStats returns cache statistics.
func (c *Cache) GetStats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := c.stats
	stats.Size = len(c.data)
	return stats
}

func (c *Cache) addToFront(n *node) {
	if c.head == nil {
		c.head = n
		c.tail = n
		return
	}

	n.next = c.head
	c.head.prev = n
	c.head = n
}

func (c *Cache) moveToFront(n *node) {
	if n == c.head {
		return
	}

	c.removeNode(n)
	c.addToFront(n)
	c.data[n.key] = n
}

func (c *Cache) removeNode(n *node) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		c.head = n.next
	}

	if n.next != nil {
		n.next.prev = n.prev
	} else {
		c.tail = n.prev
	}

	n.prev = nil
	n.next = nil
	delete(c.data, n.key)
}

func (c *Cache) evictLRU() {
	if c.tail == nil {
		return
	}

	victim := c.tail
	c.removeNode(victim)
	retire(victim)
	c.stats.Evictions++
}

func (c *Cache) updateHitRate() {
	total := c.stats.Hits + c.stats.Misses
	if total > 0 {
		c.stats.HitRate = float64(c.stats.Hits) / float64(total) * 100
	}
}

// retire marks n as no longer cached and closes it unless it is held.
func retire(n *node) {
	n.evicted = true
	if n.refs == 0 {
		closeStmt(n)
	}
}

func closeStmt(n *node) {
	if err := n.stmt.Close(); err != nil {
		debug.Warn("closing prepared statement", "sql", n.key, "error", err)
	}
}
