package app

import "sync"

// Event is a typed write-side signal. The original client relied on same-tab
// DOM events to refresh the bell; server-side the contract is an explicit
// in-process observer bus. No cross-process broadcast is required since all
// core operations are per-viewer request/response.
type Event interface {
	eventName() string
}

// NotificationsChanged fires whenever a user's unread set may have changed:
// comment/reply fan-out, mark-read, and bulk clear.
type NotificationsChanged struct {
	UserId string
}

func (NotificationsChanged) eventName() string { return "notifications-changed" }

type Bus struct {
	mu          sync.RWMutex
	subscribers []func(Event)
}

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) Subscribe(fn func(Event)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, fn)
}

// Publish delivers synchronously so that a subscriber's view is refreshed
// before the write call returns (read-your-writes).
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	subscribers := b.subscribers
	b.mu.RUnlock()
	for _, fn := range subscribers {
		fn(event)
	}
}
