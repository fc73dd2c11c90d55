package throttle

import (
	"encoding/binary"
	"sync"
	"time"

	"github.com/coocood/freecache"
	"github.com/rs/zerolog"

	"github.com/leadsite-api/internal/config"
)

// Limiter decides whether a client may submit another form
type Limiter interface {
	// Allow counts one attempt for key. When the attempt is refused it also
	// returns how long until the window resets.
	Allow(key string) (bool, time.Duration)
}

// WindowLimiter is a fixed-window counter backed by freecache. Counters
// expire with their window so memory stays bounded by the cache size.
type WindowLimiter struct {
	mu     sync.Mutex
	cache  *freecache.Cache
	limit  uint32
	window int
}

// New returns a limiter for cfg, or a no-op when throttling is disabled
func New(cfg *config.ThrottleConfig, log zerolog.Logger) Limiter {
	if !cfg.Enabled || cfg.Limit <= 0 || cfg.Window <= 0 {
		log.Info().Msg("Submission throttle disabled")
		return Noop{}
	}

	sizeMB := cfg.CacheMB
	if sizeMB <= 0 {
		sizeMB = 1
	}

	log.Info().
		Int("limit", cfg.Limit).
		Dur("window", cfg.Window).
		Int("cache_mb", sizeMB).
		Msg("Submission throttle initialized")

	return newWindowLimiter(freecache.NewCache(sizeMB*1024*1024), cfg.Limit, cfg.Window)
}

func newWindowLimiter(cache *freecache.Cache, limit int, window time.Duration) *WindowLimiter {
	seconds := int(window / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	return &WindowLimiter{cache: cache, limit: uint32(limit), window: seconds}
}

// Allow implements Limiter
func (l *WindowLimiter) Allow(key string) (bool, time.Duration) {
	k := []byte(key)

	l.mu.Lock()
	defer l.mu.Unlock()

	val, err := l.cache.Get(k)
	if err != nil || len(val) != 4 {
		_ = l.cache.Set(k, encode(1), l.window)
		return true, 0
	}

	ttl, err := l.cache.TTL(k)
	if err != nil || ttl == 0 {
		// entry vanished between the two reads
		_ = l.cache.Set(k, encode(1), l.window)
		return true, 0
	}

	count := binary.BigEndian.Uint32(val)
	if count >= l.limit {
		return false, time.Duration(ttl) * time.Second
	}

	_ = l.cache.Set(k, encode(count+1), int(ttl))
	return true, 0
}

func encode(n uint32) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, n)
	return buf
}

// Noop never refuses
type Noop struct{}

// Allow implements Limiter
func (Noop) Allow(string) (bool, time.Duration) { return true, 0 }
