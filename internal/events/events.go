// Package events carries combat and progression events from the simulation
// to decoupled listeners such as score keepers and achievement trackers.
package events

import (
	"sync"

	"github.com/vovakirdan/tui-maze/internal/core"
)

// Event is a simulation event published on a Bus.
type Event interface {
	event()
}

// EnemyKilled is published when an enemy dies.
type EnemyKilled struct {
	Tier   int
	ByDash bool // finishing blow came from a dash
	Player core.PlayerIndex
}

func (EnemyKilled) event() {}

// PlayerDamaged is published after a player loses health.
type PlayerDamaged struct {
	Player    core.PlayerIndex
	Amount    int // lives lost
	CurrentHP int
	Source    string
}

func (PlayerDamaged) event() {}

// ItemCollected is published when a player picks up an item.
type ItemCollected struct {
	Player core.PlayerIndex
	Kind   string
}

func (ItemCollected) event() {}

// LevelFinished is published once per completed level.
type LevelFinished struct {
	Level int
}

func (LevelFinished) event() {}

// Handler receives published events.
type Handler func(Event)

// Bus is a publish/subscribe channel. Handlers run synchronously on the
// publishing goroutine, in subscription order.
type Bus struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[int]Handler
	order    []int
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[int]Handler)}
}

// Subscribe registers a handler and returns a function that removes it.
func (b *Bus) Subscribe(h Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.handlers[id] = h
	b.order = append(b.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.handlers, id)
			for i, v := range b.order {
				if v == id {
					b.order = append(b.order[:i], b.order[i+1:]...)
					break
				}
			}
		})
	}
}

// Publish delivers e to every subscribed handler. A nil bus drops events.
func (b *Bus) Publish(e Event) {
	if b == nil {
		return
	}

	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.order))
	for _, id := range b.order {
		handlers = append(handlers, b.handlers[id])
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(e)
	}
}

// Len returns the number of subscribed handlers.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.order)
}
