// Package parallel converts large pixel rectangles on several goroutines at
// once by splitting them into horizontal bands.
package parallel

import (
	"image"
	"runtime"
	"sync"
)

// Pool is a fixed set of goroutines that run row-band work.
//
// Each worker has its own queue and steals from the others when idle, so a
// slow band does not hold up the rest.
//
// Pool is safe for concurrent use.
type Pool struct {
	workers int
	queues  []chan func()
	done    chan struct{}
	wg      sync.WaitGroup

	// mu is held for reading while Run submits and waits, and for writing
	// while Close stops the workers.
	mu     sync.RWMutex
	closed bool
}

// NewPool starts a pool. If workers is 0 or negative, GOMAXPROCS is used.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	queueSize := max(workers*4, 8)

	p := &Pool{
		workers: workers,
		queues:  make([]chan func(), workers),
		done:    make(chan struct{}),
	}
	for i := range workers {
		p.queues[i] = make(chan func(), queueSize)
	}

	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}
	return p
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()
	own := p.queues[id]

	for {
		select {
		case <-p.done:
			drain(own)
			return
		case work := <-own:
			work()
		default:
			if stolen := p.steal(id); stolen != nil {
				stolen()
				continue
			}
			select {
			case <-p.done:
				drain(own)
				return
			case work := <-own:
				work()
			}
		}
	}
}

func drain(queue chan func()) {
	for {
		select {
		case work := <-queue:
			work()
		default:
			return
		}
	}
}

func (p *Pool) steal(id int) func() {
	for i := range p.workers {
		if i == id {
			continue
		}
		select {
		case work := <-p.queues[i]:
			return work
		default:
		}
	}
	return nil
}

// Run executes every item and returns when all have finished. Work is
// never dropped: after Close the items run on the calling goroutine.
func (p *Pool) Run(work []func()) {
	if len(work) == 0 {
		return
	}
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed || len(work) == 1 {
		for _, fn := range work {
			fn()
		}
		return
	}

	var wg sync.WaitGroup
	wg.Add(len(work))
	for i, fn := range work {
		p.queues[i%p.workers] <- func() {
			defer wg.Done()
			fn()
		}
	}
	wg.Wait()
}

// Close stops the workers. It waits for running Run calls to finish.
// Close is idempotent.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.done)
	p.mu.Unlock()

	p.wg.Wait()
}

// Workers returns the number of worker goroutines.
func (p *Pool) Workers() int {
	return p.workers
}

// IsRunning reports whether Close has not been called yet.
func (p *Pool) IsRunning() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return !p.closed
}

// Bands splits r into at most n horizontal bands of at least minRows rows
// each, top to bottom. An empty r yields no bands.
func Bands(r image.Rectangle, n, minRows int) []image.Rectangle {
	h := r.Dy()
	if r.Empty() {
		return nil
	}
	minRows = max(minRows, 1)
	n = max(min(n, h/minRows), 1)

	bands := make([]image.Rectangle, 0, n)
	y := r.Min.Y
	for i := range n {
		// Spread the remainder over the first bands.
		rows := h / n
		if i < h%n {
			rows++
		}
		bands = append(bands, image.Rect(r.Min.X, y, r.Max.X, y+rows))
		y += rows
	}
	return bands
}
