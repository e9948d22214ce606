package activity

import (
	"sync"

	"storefront-service/internal/entity"
)

// FeedSize is how many notices the feed keeps.
const FeedSize = 20

// Feed keeps the most recent notices in memory.
type Feed struct {
	mu      sync.RWMutex
	notices []entity.ActivityNotice
	size    int
}

func NewFeed(size int) *Feed {
	if size <= 0 {
		size = FeedSize
	}
	return &Feed{size: size}
}

func (f *Feed) Add(n entity.ActivityNotice) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.notices = append(f.notices, n)
	if len(f.notices) > f.size {
		f.notices = f.notices[len(f.notices)-f.size:]
	}
}

// Recent returns the notices newest first.
func (f *Feed) Recent() []entity.ActivityNotice {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]entity.ActivityNotice, 0, len(f.notices))
	for i := len(f.notices) - 1; i >= 0; i-- {
		out = append(out, f.notices[i])
	}
	return out
}
