// Package cache keeps rendered stat tables in a size-bounded LRU with ETags.
package cache

import (
	"crypto/md5"
	"fmt"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru"
)

// Observer receives hit and miss notifications. metrics.Recorder satisfies it.
type Observer interface {
	CacheHit()
	CacheMiss()
}

type Entry struct {
	Body        []byte
	ETag        string
	ContentType string
	expiresAt   time.Time
}

// Cache is safe for concurrent use. A nil *Cache never hits.
type Cache struct {
	lru      *lru.Cache
	ttl      time.Duration
	now      func() time.Time
	observer Observer
}

// New creates a cache holding up to size entries. A zero ttl never expires.
func New(size int, ttl time.Duration, observer Observer) (*Cache, error) {
	l, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("create lru: %w", err)
	}
	return &Cache{lru: l, ttl: ttl, now: time.Now, observer: observer}, nil
}

// Get returns a live entry.
func (c *Cache) Get(key string) (Entry, bool) {
	if c == nil {
		return Entry{}, false
	}
	v, ok := c.lru.Get(key)
	if ok {
		e := v.(Entry)
		if e.expiresAt.IsZero() || c.now().Before(e.expiresAt) {
			c.hit()
			return e, true
		}
		c.lru.Remove(key)
	}
	c.miss()
	return Entry{}, false
}

// Set stores body under key and returns the stored entry with its ETag.
func (c *Cache) Set(key string, body []byte, contentType string) Entry {
	e := Entry{Body: body, ETag: ComputeETag(body), ContentType: contentType}
	if c == nil {
		return e
	}
	if c.ttl > 0 {
		e.expiresAt = c.now().Add(c.ttl)
	}
	c.lru.Add(key, e)
	return e
}

// InvalidatePrefix removes every key starting with prefix and returns the count.
func (c *Cache) InvalidatePrefix(prefix string) int {
	if c == nil {
		return 0
	}
	removed := 0
	for _, k := range c.lru.Keys() {
		key, ok := k.(string)
		if ok && strings.HasPrefix(key, prefix) {
			c.lru.Remove(key)
			removed++
		}
	}
	return removed
}

// Purge drops every entry.
func (c *Cache) Purge() {
	if c == nil {
		return
	}
	c.lru.Purge()
}

func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return c.lru.Len()
}

func (c *Cache) hit() {
	if c.observer != nil {
		c.observer.CacheHit()
	}
}

func (c *Cache) miss() {
	if c.observer != nil {
		c.observer.CacheMiss()
	}
}

// LeaguePrefix is the key prefix shared by every entry for one league.
func LeaguePrefix(leagueID int64) string {
	return fmt.Sprintf("league:%d:", leagueID)
}

// Key builds a cache key scoped to a league.
func Key(leagueID int64, parts ...any) string {
	var b strings.Builder
	b.WriteString(LeaguePrefix(leagueID))
	for i, p := range parts {
		if i > 0 {
			b.WriteByte(':')
		}
		fmt.Fprint(&b, p)
	}
	return b.String()
}

// ComputeETag generates a weak ETag from response data using MD5.
func ComputeETag(data []byte) string {
	hash := md5.Sum(data)
	return fmt.Sprintf(`W/"%x"`, hash[:8])
}

// CheckETagMatch reports whether an If-None-Match header matches etag. Lists
// of tags are accepted.
func CheckETagMatch(ifNoneMatch, etag string) bool {
	if ifNoneMatch == "" {
		return false
	}
	for _, candidate := range strings.Split(ifNoneMatch, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || candidate == etag {
			return true
		}
	}
	return false
}
