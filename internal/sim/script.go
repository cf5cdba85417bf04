package sim

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-maze/internal/core"
	"github.com/vovakirdan/tui-maze/internal/world"
)

// Press is one scripted input: player presses action from tick At for Hold
// ticks (at least one).
type Press struct {
	At     uint64 `yaml:"at"`
	Player int    `yaml:"player"` // 1 or 2
	Action string `yaml:"action"`
	Hold   uint64 `yaml:"hold"`

	// Pointer aims skills at a tile, as [x, y].
	Pointer []int `yaml:"pointer,omitempty"`

	action core.Action
}

// Script replays a fixed list of presses.
type Script struct {
	presses []Press
}

// ParseScript decodes a YAML list of presses.
func ParseScript(data []byte) (*Script, error) {
	var presses []Press
	if err := yaml.Unmarshal(data, &presses); err != nil {
		return nil, fmt.Errorf("sim: cannot parse script: %w", err)
	}
	for i := range presses {
		p := &presses[i]
		a, ok := parseAction(p.Action)
		if !ok {
			return nil, fmt.Errorf("sim: press %d: unknown action %q", i, p.Action)
		}
		if p.Player < 1 || p.Player > 2 {
			return nil, fmt.Errorf("sim: press %d: player must be 1 or 2, got %d", i, p.Player)
		}
		if p.Pointer != nil && len(p.Pointer) != 2 {
			return nil, fmt.Errorf("sim: press %d: pointer needs two coordinates", i)
		}
		if p.Hold == 0 {
			p.Hold = 1
		}
		p.action = a
	}
	sort.SliceStable(presses, func(i, j int) bool { return presses[i].At < presses[j].At })
	return &Script{presses: presses}, nil
}

// LoadScript reads a script file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sim: cannot read script %s: %w", path, err)
	}
	return ParseScript(data)
}

// Len returns the number of presses.
func (s *Script) Len() int { return len(s.presses) }

func (s *Script) Next(tick uint64, _ *world.World) core.MultiInputFrame {
	frame := core.NewMultiInputFrame()
	for _, p := range s.presses {
		if p.At > tick {
			break
		}
		if tick >= p.At+p.Hold {
			continue
		}
		idx := core.PlayerIndex(p.Player - 1)
		f := frame.Player(idx)
		f.Set(p.action)
		if p.Pointer != nil {
			f.SetPointer(core.P(p.Pointer[0], p.Pointer[1]))
		}
		frame.SetPlayer(idx, f)
	}
	return frame
}

func parseAction(name string) (core.Action, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for a := core.ActionUp; a <= core.ActionPause; a++ {
		if strings.ToLower(a.String()) == name {
			return a, true
		}
	}
	return core.ActionNone, false
}
