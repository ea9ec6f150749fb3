package fintrack

import "sync"

type subscribers struct {
	mu   sync.Mutex
	next uint64
	fns  map[uint64]func(Snapshot)
}

// Subscribe registers fn to be called after every committed mutation.
// fn runs on the mutating goroutine after the client lock is released,
// so it may call back into the client. Use Snapshot.Version to order
// deliveries from concurrent writers. The returned func unsubscribes.
func (c *Client) Subscribe(fn func(Snapshot)) (cancel func()) {
	c.subs.mu.Lock()
	defer c.subs.mu.Unlock()

	if c.subs.fns == nil {
		c.subs.fns = make(map[uint64]func(Snapshot))
	}
	id := c.subs.next
	c.subs.next++
	c.subs.fns[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			c.subs.mu.Lock()
			delete(c.subs.fns, id)
			c.subs.mu.Unlock()
		})
	}
}

func (c *Client) notify(intent string, version uint64, state FinanceState) {
	c.subs.mu.Lock()
	fns := make([]func(Snapshot), 0, len(c.subs.fns))
	for _, fn := range c.subs.fns {
		fns = append(fns, fn)
	}
	c.subs.mu.Unlock()

	if len(fns) == 0 {
		return
	}

	summary := c.calc.compute(state)
	for _, fn := range fns {
		fn(Snapshot{
			Version: version,
			Intent:  intent,
			State:   state.Clone(),
			Summary: summary.Clone(),
		})
	}
}
