package cart

import "sync"

const subscriberBuffer = 8

type subscriber struct {
	sessionID string
	ch        chan Change
}

// Notifier fans cart changes out to in-process subscribers such as the item-count stream.
// Slow subscribers miss updates instead of blocking the mutation.
type Notifier struct {
	mu   sync.RWMutex
	next int
	subs map[int]*subscriber
}

func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[int]*subscriber)}
}

// Subscribe registers for changes of one session, or of all sessions when sessionID is "".
// The returned func unsubscribes and closes the channel.
func (n *Notifier) Subscribe(sessionID string) (<-chan Change, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.next
	n.next++
	sub := &subscriber{sessionID: sessionID, ch: make(chan Change, subscriberBuffer)}
	n.subs[id] = sub

	var once sync.Once
	return sub.ch, func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.subs, id)
			close(sub.ch)
			n.mu.Unlock()
		})
	}
}

func (n *Notifier) Publish(c Change) {
	if n == nil {
		return
	}
	n.mu.RLock()
	defer n.mu.RUnlock()

	for _, sub := range n.subs {
		if sub.sessionID != "" && sub.sessionID != c.SessionID {
			continue
		}
		select {
		case sub.ch <- c:
		default:
		}
	}
}
