// Package notify keeps the transient notifications shown at the top of the page.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// DefaultTTL is how long a notification stays visible when nobody dismisses it.
const DefaultTTL = 5 * time.Second

type Notification struct {
	ID        string
	Severity  Severity
	Message   string
	CreatedAt time.Time
}

type timer interface {
	Stop() bool
}

// mockable
var afterFunc = func(d time.Duration, f func()) timer {
	return time.AfterFunc(d, f)
}

// Notifier holds the active notifications. It is safe for concurrent use.
type Notifier struct {
	ttl time.Duration

	mu     sync.Mutex
	items  []Notification
	timers map[string]timer
}

func New(ttl time.Duration) *Notifier {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Notifier{
		ttl:    ttl,
		timers: make(map[string]timer),
	}
}

// Push adds a notification and schedules its auto-dismissal. It returns the notification id.
func (n *Notifier) Push(sev Severity, msg string) string {
	note := Notification{
		ID:        uuid.New().String(),
		Severity:  sev,
		Message:   msg,
		CreatedAt: time.Now(),
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	n.items = append(n.items, note)
	id := note.ID
	n.timers[id] = afterFunc(n.ttl, func() { n.remove(id) })
	return id
}

func (n *Notifier) Success(msg string) string { return n.Push(SeveritySuccess, msg) }
func (n *Notifier) Warning(msg string) string { return n.Push(SeverityWarning, msg) }
func (n *Notifier) Error(msg string) string   { return n.Push(SeverityError, msg) }

// Dismiss closes a notification and cancels its pending auto-dismissal.
// It reports whether the notification was still active.
func (n *Notifier) Dismiss(id string) bool {
	n.mu.Lock()
	if t, ok := n.timers[id]; ok {
		t.Stop()
	}
	n.mu.Unlock()
	return n.remove(id)
}

// Active returns the current notifications, oldest first.
func (n *Notifier) Active() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Notification, len(n.items))
	copy(out, n.items)
	return out
}

// Clear dismisses everything.
func (n *Notifier) Clear() {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, t := range n.timers {
		t.Stop()
	}
	n.items = nil
	n.timers = make(map[string]timer)
}

func (n *Notifier) remove(id string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.timers, id)
	for i, note := range n.items {
		if note.ID == id {
			n.items = append(n.items[:i], n.items[i+1:]...)
			return true
		}
	}
	return false
}
