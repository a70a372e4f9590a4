package stream

import "sync"

// Notifier signals that some underlying state changed, without carrying
// the state itself. Cache tables bump it after every mutation so live
// queries know to re-run.
type Notifier struct {
	rev *Var[uint64]
}

func NewNotifier() *Notifier {
	return &Notifier{rev: NewVar[uint64](0)}
}

// Notify wakes every watcher.
func (n *Notifier) Notify() {
	n.rev.Set(n.rev.Get() + 1)
}

// Watch runs query once immediately and again after every Notify,
// sending each result to the returned channel. The cancel func stops
// the watcher and closes the channel.
func Watch[T any](n *Notifier, query func() T) (<-chan T, func()) {
	revs, cancelRevs := n.rev.Subscribe()
	out := make(chan T, 1)
	done := make(chan struct{})

	go func() {
		defer close(out)
		for {
			select {
			case <-done:
				return
			case _, ok := <-revs:
				if !ok {
					return
				}
				select {
				case out <- query():
				case <-done:
					return
				}
			}
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			cancelRevs()
			close(done)
		})
	}
	return out, cancel
}
