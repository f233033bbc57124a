package websocket

import (
	"sync"

	"github.com/kyiku/textpin-back/internal/layout"
)

// ResizeFeed forwards container sizes reported by a client to its subscribers.
type ResizeFeed struct {
	mu          sync.Mutex
	subscribers map[int]func(layout.DisplayExtent)
	next        int
}

// NewResizeFeed creates an empty ResizeFeed.
func NewResizeFeed() *ResizeFeed {
	return &ResizeFeed{subscribers: make(map[int]func(layout.DisplayExtent))}
}

// Subscribe registers fn and returns the function that removes it.
func (f *ResizeFeed) Subscribe(fn func(layout.DisplayExtent)) (unsubscribe func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.next
	f.next++
	f.subscribers[id] = fn

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.subscribers, id)
	}
}

// Publish calls every subscriber with the new size.
// Subscribers run on the caller's goroutine, outside the feed's lock.
func (f *ResizeFeed) Publish(d layout.DisplayExtent) {
	f.mu.Lock()
	fns := make([]func(layout.DisplayExtent), 0, len(f.subscribers))
	for _, fn := range f.subscribers {
		fns = append(fns, fn)
	}
	f.mu.Unlock()

	for _, fn := range fns {
		fn(d)
	}
}

// Len returns the number of subscribers.
func (f *ResizeFeed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subscribers)
}
