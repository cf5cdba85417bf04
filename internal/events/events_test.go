package events

import (
	"testing"

	"github.com/vovakirdan/tui-maze/internal/core"
)

func TestBusDeliversInOrder(t *testing.T) {
	bus := NewBus()
	var got []string

	bus.Subscribe(func(e Event) { got = append(got, "first") })
	bus.Subscribe(func(e Event) { got = append(got, "second") })

	bus.Publish(LevelFinished{Level: 1})

	if len(got) != 2 || got[0] != "first" || got[1] != "second" {
		t.Errorf("handlers ran as %v, expected [first second]", got)
	}
}

func TestBusUnsubscribe(t *testing.T) {
	bus := NewBus()
	calls := 0
	unsubscribe := bus.Subscribe(func(e Event) { calls++ })

	bus.Publish(LevelFinished{Level: 1})
	unsubscribe()
	unsubscribe() // second call is a no-op
	bus.Publish(LevelFinished{Level: 2})

	if calls != 1 {
		t.Errorf("handler called %d times, expected 1", calls)
	}
	if bus.Len() != 0 {
		t.Errorf("Len() = %d, expected 0", bus.Len())
	}
}

func TestNilBusPublish(t *testing.T) {
	var bus *Bus
	bus.Publish(LevelFinished{Level: 1}) // must not panic
}

func TestTallyCounts(t *testing.T) {
	bus := NewBus()
	tally := NewTally()
	tally.Attach(bus)

	bus.Publish(EnemyKilled{Tier: 1, Player: core.Player1})
	bus.Publish(EnemyKilled{Tier: 2, ByDash: true, Player: core.Player2})
	bus.Publish(PlayerDamaged{Player: core.Player1, Amount: 1, CurrentHP: 2, Source: "slime"})
	bus.Publish(PlayerDamaged{Player: core.Player2, Amount: 2, CurrentHP: 1, Source: "golem"})
	bus.Publish(ItemCollected{Player: core.Player1, Kind: "key"})
	bus.Publish(ItemCollected{Player: core.Player1, Kind: "heart"})
	bus.Publish(ItemCollected{Player: core.Player2, Kind: "heart"})
	bus.Publish(LevelFinished{Level: 3})
	bus.Publish(LevelFinished{Level: 2})

	got := tally.Totals()
	if got.Kills != 2 || got.DashKills != 1 {
		t.Errorf("kills = %d (dash %d), expected 2 (dash 1)", got.Kills, got.DashKills)
	}
	if got.KillsByTier[2] != 1 {
		t.Errorf("tier 2 kills = %d, expected 1", got.KillsByTier[2])
	}
	if got.DamageTaken != 3 {
		t.Errorf("DamageTaken = %d, expected 3 lives", got.DamageTaken)
	}
	if got.ItemsCollected["heart"] != 2 || got.TotalItems() != 3 {
		t.Errorf("items = %v, expected 2 hearts and 3 total", got.ItemsCollected)
	}
	if got.LevelsFinished != 2 || got.HighestLevel != 3 {
		t.Errorf("levels = %d (highest %d), expected 2 (highest 3)", got.LevelsFinished, got.HighestLevel)
	}

	// Returned maps are copies
	got.ItemsCollected["heart"] = 99
	if tally.Totals().ItemsCollected["heart"] != 2 {
		t.Error("Totals() must return an independent copy")
	}
}
