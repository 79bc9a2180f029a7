package crawler

import "sync"

// frontier is the FIFO request queue of a crawl.
// A key is accepted at most once for the lifetime of the frontier.
type frontier struct {
	mu       sync.Mutex
	cond     *sync.Cond
	queue    []*Request
	seen     map[string]struct{}
	inFlight int
	started  int
	limit    int // 0 = unlimited
	closed   bool
}

func newFrontier(limit int) *frontier {
	f := &frontier{
		seen:  make(map[string]struct{}),
		limit: limit,
	}
	f.cond = sync.NewCond(&f.mu)
	return f
}

// add enqueues requests whose unique key was never seen and returns how many were accepted
func (f *frontier) add(reqs ...*Request) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	added := 0
	for _, r := range reqs {
		if _, dup := f.seen[r.UniqueKey]; dup {
			continue
		}
		f.seen[r.UniqueKey] = struct{}{}
		f.queue = append(f.queue, r)
		added++
	}
	if added > 0 {
		f.cond.Broadcast()
	}
	return added
}

// next blocks until a request is available. It returns false once the queue is
// drained with nothing in flight, the request limit is reached, or the frontier is closed.
func (f *frontier) next() (*Request, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for {
		if f.closed || (f.limit > 0 && f.started >= f.limit) {
			return nil, false
		}
		if len(f.queue) > 0 {
			r := f.queue[0]
			f.queue[0] = nil
			f.queue = f.queue[1:]
			f.inFlight++
			f.started++
			return r, true
		}
		if f.inFlight == 0 {
			return nil, false
		}
		f.cond.Wait()
	}
}

// done marks one in-flight request as finished
func (f *frontier) done() {
	f.mu.Lock()
	f.inFlight--
	f.mu.Unlock()
	f.cond.Broadcast()
}

// close wakes every waiter; next returns false from now on
func (f *frontier) close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	f.cond.Broadcast()
}

// pending returns the number of queued requests
func (f *frontier) pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}
