package service

import "sync"

// ChangeNotifier is a minimal observer list for "something changed" events.
// Every successful mutating operation notifies all subscribers at least once;
// there is no payload. The presentation layer subscribes and reloads.
type ChangeNotifier struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func()
}

func NewChangeNotifier() *ChangeNotifier {
	return &ChangeNotifier{subs: make(map[int]func())}
}

// Subscribe registers a callback and returns a cancel function.
func (n *ChangeNotifier) Subscribe(fn func()) (cancel func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	id := n.nextID
	n.nextID++
	n.subs[id] = fn
	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.subs, id)
	}
}

// Notify invokes every subscriber synchronously.
func (n *ChangeNotifier) Notify() {
	n.mu.Lock()
	fns := make([]func(), 0, len(n.subs))
	for _, fn := range n.subs {
		fns = append(fns, fn)
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
