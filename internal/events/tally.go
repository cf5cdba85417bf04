package events

import "sync"

// Totals is a point-in-time copy of a Tally.
type Totals struct {
	Kills          int
	DashKills      int
	KillsByTier    map[int]int
	DamageTaken    int
	ItemsCollected map[string]int
	LevelsFinished int
	HighestLevel   int
}

// Tally counts events. It applies no scoring rules; it only records what
// happened so listeners outside the core can derive scores from it.
type Tally struct {
	mu     sync.Mutex
	totals Totals
}

// NewTally creates an empty tally.
func NewTally() *Tally {
	return &Tally{
		totals: Totals{
			KillsByTier:    make(map[int]int),
			ItemsCollected: make(map[string]int),
		},
	}
}

// Attach subscribes the tally to a bus.
func (t *Tally) Attach(b *Bus) (unsubscribe func()) {
	return b.Subscribe(t.Handle)
}

// Handle records a single event.
func (t *Tally) Handle(e Event) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch ev := e.(type) {
	case EnemyKilled:
		t.totals.Kills++
		t.totals.KillsByTier[ev.Tier]++
		if ev.ByDash {
			t.totals.DashKills++
		}
	case PlayerDamaged:
		t.totals.DamageTaken += ev.Amount
	case ItemCollected:
		t.totals.ItemsCollected[ev.Kind]++
	case LevelFinished:
		t.totals.LevelsFinished++
		if ev.Level > t.totals.HighestLevel {
			t.totals.HighestLevel = ev.Level
		}
	}
}

// Totals returns a copy of the current counts.
func (t *Tally) Totals() Totals {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := t.totals
	out.KillsByTier = make(map[int]int, len(t.totals.KillsByTier))
	for k, v := range t.totals.KillsByTier {
		out.KillsByTier[k] = v
	}
	out.ItemsCollected = make(map[string]int, len(t.totals.ItemsCollected))
	for k, v := range t.totals.ItemsCollected {
		out.ItemsCollected[k] = v
	}
	return out
}

// TotalItems sums the collected item counts.
func (t Totals) TotalItems() int {
	n := 0
	for _, v := range t.ItemsCollected {
		n += v
	}
	return n
}
