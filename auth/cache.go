package auth

import (
	"encoding/json"
	"time"

	"github.com/allegro/bigcache/v3"
)

type (
	identityCache struct {
		cache *bigcache.BigCache
	}

	cachedIdentity struct {
		UserID    int64  `json:"uid"`
		Username  string `json:"name"`
		ExpiresAt int64  `json:"exp"`
	}
)

func newIdentityCache() *identityCache {
	cache, _ := bigcache.NewBigCache(bigcache.DefaultConfig(10 * time.Minute))
	return &identityCache{
		cache: cache,
	}
}

func (c *identityCache) save(tokenHash string, id Identity, expiresAt time.Time) {
	buf, err := json.Marshal(cachedIdentity{
		UserID:    id.UserID,
		Username:  id.Username,
		ExpiresAt: expiresAt.Unix(),
	})
	if err != nil {
		return
	}
	c.cache.Set(tokenHash, buf)
}

// lookup answers from memory only while the cached session is still
// valid. The expiry travels with the entry and is re-checked on every
// hit, so a token does not outlive its session just because it was
// cached; the comparison is the same strict one the database uses.
func (c *identityCache) lookup(tokenHash string, now time.Time) (*Identity, bool) {
	buf, err := c.cache.Get(tokenHash)
	if err != nil {
		return nil, false
	}
	var entry cachedIdentity
	if json.Unmarshal(buf, &entry) != nil {
		return nil, false
	}
	if entry.ExpiresAt <= now.Unix() {
		c.cache.Delete(tokenHash)
		return nil, false
	}
	return &Identity{UserID: entry.UserID, Username: entry.Username}, true
}

func (c *identityCache) drop(tokenHash string) {
	c.cache.Delete(tokenHash)
}
