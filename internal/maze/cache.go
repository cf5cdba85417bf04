package maze

import (
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-maze/internal/config"
	"github.com/vovakirdan/tui-maze/internal/core"
)

// DefaultLookahead is how many levels past the current one are prefetched.
const DefaultLookahead = 2

type phaseKey struct {
	level int
	diff  string
}

type phaseRequest struct {
	key  phaseKey
	diff config.DifficultyConfig
}

// Cache wraps a Generator and prepares upcoming levels on a background
// goroutine. Only fully generated phases are ever handed out; a miss is
// generated synchronously on the caller's goroutine.
type Cache struct {
	gen   *Generator
	ahead int
	log   *log.Logger

	mu     sync.Mutex
	phases map[phaseKey]core.Grid
	queued map[phaseKey]bool

	requests chan phaseRequest
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewCache creates a cache over gen. Call Start to enable prefetching.
func NewCache(gen *Generator, ahead int, logger *log.Logger) *Cache {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Cache{
		gen:      gen,
		ahead:    max(0, ahead),
		log:      logger,
		phases:   make(map[phaseKey]core.Grid),
		queued:   make(map[phaseKey]bool),
		requests: make(chan phaseRequest, 16),
		done:     make(chan struct{}),
	}
}

// Start launches the prefetch worker.
func (c *Cache) Start() {
	c.wg.Add(1)
	go c.work()
}

// Stop shuts the worker down and waits for it. Safe to call more than once.
func (c *Cache) Stop() {
	c.stopOnce.Do(func() { close(c.done) })
	c.wg.Wait()
}

func (c *Cache) work() {
	defer c.wg.Done()
	for {
		select {
		case req := <-c.requests:
			grid := c.gen.Grid(req.key.level, &req.diff)
			c.mu.Lock()
			c.phases[req.key] = grid
			delete(c.queued, req.key)
			c.mu.Unlock()
			c.log.Debug("phase ready", "level", req.key.level, "difficulty", req.key.diff)
		case <-c.done:
			return
		}
	}
}

// Grid implements world.LevelSource. It returns an independent copy and
// schedules the following levels for prefetching.
func (c *Cache) Grid(level int, diff *config.DifficultyConfig) core.Grid {
	if diff == nil {
		return nil
	}
	key := phaseKey{level: level, diff: diff.ID}

	c.mu.Lock()
	grid, ok := c.phases[key]
	for k := range c.phases {
		if k.level < level {
			delete(c.phases, k)
		}
	}
	c.mu.Unlock()

	if !ok {
		grid = c.gen.Grid(level, diff)
		c.mu.Lock()
		c.phases[key] = grid
		c.mu.Unlock()
	}

	for next := level + 1; next <= level+c.ahead; next++ {
		c.Prefetch(next, diff)
	}
	return grid.Clone()
}

// Prefetch queues a level for background generation. Requests are dropped
// when the queue is full or the cache is stopped.
func (c *Cache) Prefetch(level int, diff *config.DifficultyConfig) {
	key := phaseKey{level: level, diff: diff.ID}

	c.mu.Lock()
	if _, ok := c.phases[key]; ok || c.queued[key] {
		c.mu.Unlock()
		return
	}
	c.queued[key] = true
	c.mu.Unlock()

	select {
	case c.requests <- phaseRequest{key: key, diff: *diff}:
	case <-c.done:
		c.unqueue(key)
	default:
		c.log.Debug("prefetch queue full", "level", level)
		c.unqueue(key)
	}
}

func (c *Cache) unqueue(key phaseKey) {
	c.mu.Lock()
	delete(c.queued, key)
	c.mu.Unlock()
}

// Ready reports whether a level has been fully generated.
func (c *Cache) Ready(level int, diffID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.phases[phaseKey{level: level, diff: diffID}]
	return ok
}
