package resilience

import "sync"

// SingleFlight deduplicates concurrent calls for the same key. Callers that join an
// in-flight call observe exactly the value and error of the leader.
type SingleFlight struct {
	mu    sync.Mutex
	calls map[string]*call
}

type call struct {
	wg     sync.WaitGroup
	val    any
	err    error
	shared int
}

func (g *SingleFlight) Do(key string, fn func() (any, error)) (any, error, bool) {
	g.mu.Lock()
	if g.calls == nil {
		g.calls = make(map[string]*call)
	}

	if c, ok := g.calls[key]; ok {
		c.shared++
		g.mu.Unlock()
		c.wg.Wait()
		return c.val, c.err, true
	}

	c := &call{}
	c.wg.Add(1)
	g.calls[key] = c
	g.mu.Unlock()

	func() {
		defer func() {
			if rec := recover(); rec != nil {
				c.err = &PanicError{Value: rec}
			}
		}()
		c.val, c.err = fn()
	}()
	c.wg.Done()

	g.mu.Lock()
	if g.calls[key] == c {
		delete(g.calls, key)
	}
	shared := c.shared > 0
	g.mu.Unlock()

	return c.val, c.err, shared
}

// Result is what DoChan delivers once the shared call returns.
type Result struct {
	Val    any
	Err    error
	Shared bool
}

// DoChan is like Do but returns a channel, so a caller can stop waiting without
// affecting the call or the other waiters. The channel is buffered and never closed.
func (g *SingleFlight) DoChan(key string, fn func() (any, error)) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		val, err, shared := g.Do(key, fn)
		ch <- Result{Val: val, Err: err, Shared: shared}
	}()
	return ch
}
