package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-maze/internal/ability"
	"github.com/vovakirdan/tui-maze/internal/core"
	"github.com/vovakirdan/tui-maze/internal/world"
)

// cellWidth is the number of terminal columns used per grid cell.
const cellWidth = 2

type tone int

const (
	toneFloor tone = iota
	toneWall
	tonePlayer1
	tonePlayer2
	toneEnemy
	toneProjectile
	toneItem
	toneKey
	toneDoor
	toneTrap
	toneObstacle
)

// toneStyles maps cell tones to lipgloss styles.
var toneStyles = map[tone]lipgloss.Style{
	toneFloor:      lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	toneWall:       lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	tonePlayer1:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
	tonePlayer2:    lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true),
	toneEnemy:      lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	toneProjectile: lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	toneItem:       lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	toneKey:        lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
	toneDoor:       lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	toneTrap:       lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	toneObstacle:   lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
}

var (
	hudStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("229"))
	bannerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")).Padding(0, 1)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type cell struct {
	glyph string
	tone  tone
}

// layer collects the entity glyphs of one frame, keyed by cell.
type layer map[core.Point]cell

func (l layer) put(p core.Point, c cell) {
	if _, taken := l[p]; !taken {
		l[p] = c
	}
}

// buildLayer places entities from the highest to the lowest draw priority.
func buildLayer(w *world.World) layer {
	l := make(layer)
	for _, p := range w.Players() {
		if !p.Alive() {
			continue
		}
		t := tonePlayer1
		if p.Index == core.Player2 {
			t = tonePlayer2
		}
		l.put(p.Pos().Cell(), cell{glyph: fmt.Sprintf("@%d", int(p.Index)+1), tone: t})
	}
	for _, e := range w.Enemies() {
		switch e.Kind {
		case world.EnemyGolem:
			origin := e.Tile()
			for dy := 0; dy < 2; dy++ {
				for dx := 0; dx < 2; dx++ {
					l.put(core.P(origin.X+dx, origin.Y+dy), cell{glyph: "GG", tone: toneEnemy})
				}
			}
		case world.EnemyBat:
			l.put(e.Tile(), cell{glyph: "vv", tone: toneEnemy})
		default:
			l.put(e.Tile(), cell{glyph: "ss", tone: toneEnemy})
		}
	}
	for _, pr := range w.Projectiles() {
		l.put(pr.Pos().Cell(), cell{glyph: "**", tone: toneProjectile})
	}
	for _, it := range w.Items() {
		switch it.Kind {
		case world.ItemKey:
			l.put(it.Tile, cell{glyph: "k-", tone: toneKey})
		case world.ItemHeart:
			l.put(it.Tile, cell{glyph: "<3", tone: toneItem})
		case world.ItemChest:
			l.put(it.Tile, cell{glyph: "[=", tone: toneItem})
		default:
			l.put(it.Tile, cell{glyph: "$$", tone: toneItem})
		}
	}
	for _, d := range w.Doors() {
		if d.Locked {
			l.put(d.Tile, cell{glyph: "[]", tone: toneDoor})
		} else {
			l.put(d.Tile, cell{glyph: "()", tone: toneDoor})
		}
	}
	for _, t := range w.Traps() {
		switch {
		case t.Kind == world.TrapSnare:
			l.put(t.Tile, cell{glyph: "~~", tone: toneTrap})
		case t.Armed:
			l.put(t.Tile, cell{glyph: "^^", tone: toneTrap})
		default:
			l.put(t.Tile, cell{glyph: "__", tone: toneTrap})
		}
	}
	for _, o := range w.Obstacles() {
		if o.Raised {
			l.put(o.Tile, cell{glyph: "%%", tone: toneObstacle})
		} else {
			l.put(o.Tile, cell{glyph: "..", tone: toneObstacle})
		}
	}
	return l
}

// RenderGrid draws the maze and its entities. Adjacent cells with the same
// tone are grouped to minimize ANSI escape sequences.
func RenderGrid(w *world.World) string {
	g := w.Grid()
	l := buildLayer(w)

	var sb strings.Builder
	sb.Grow(g.Width()*g.Height()*cellWidth*2 + g.Height())

	for y := 0; y < g.Height(); y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}
		x := 0
		for x < g.Width() {
			start := cellAt(g, l, x, y)
			var run strings.Builder
			for x < g.Width() {
				c := cellAt(g, l, x, y)
				if c.tone != start.tone {
					break
				}
				run.WriteString(c.glyph)
				x++
			}
			sb.WriteString(toneStyles[start.tone].Render(run.String()))
		}
	}
	return sb.String()
}

func cellAt(g core.Grid, l layer, x, y int) cell {
	if c, ok := l[core.P(x, y)]; ok {
		return c
	}
	if g.Walkable(x, y) {
		return cell{glyph: "  ", tone: toneFloor}
	}
	return cell{glyph: "##", tone: toneWall}
}

// renderHUD draws the level line and one status line per player.
func renderHUD(w *world.World) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Level %d  [%s]", w.Level(), w.Difficulty().ID)
	if st := w.Stats(); st.Kills > 0 {
		fmt.Fprintf(&b, "  kills %d", st.Kills)
	}
	lines := []string{hudStyle.Render(b.String())}

	for _, p := range w.Players() {
		lines = append(lines, renderPlayerHUD(p))
	}
	return strings.Join(lines, "\n")
}

func renderPlayerHUD(p *world.Player) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s hp %d/%d  mp %d/%d", p.Index, p.Lives(), p.MaxLives(), p.Mana(), p.MaxMana())
	if p.HasKey() {
		b.WriteString("  key")
	}
	if p.Buffs().Has(world.BuffSwift) {
		b.WriteString("  swift")
	}
	if p.Buffs().Has(world.BuffWard) {
		b.WriteString("  ward")
	}
	if !p.Alive() {
		b.WriteString("  DOWN")
	}
	for i := 0; i < ability.SlotCount; i++ {
		if a := p.Abilities().Slot(i); a != nil {
			fmt.Fprintf(&b, "  %d:%s", i+1, abilityStatus(a))
		}
	}
	return hudStyle.Render(b.String())
}

// abilityStatus summarizes an ability for the HUD.
func abilityStatus(a *ability.Ability) string {
	switch {
	case a.Kind() == ability.KindDash:
		return fmt.Sprintf("%s x%d", a.Name(), a.Charges())
	case a.Kind() == ability.KindMagic && a.Phase() == ability.PhaseAiming:
		return a.Name() + " aim"
	case a.Active():
		return a.Name() + " *"
	case !a.Ready():
		remaining := a.CooldownDuration() - a.CooldownTimer()
		return fmt.Sprintf("%s %.1fs", a.Name(), max(0, remaining))
	default:
		return a.Name()
	}
}

// banner returns the overlay line for the current world state, if any.
func banner(w *world.World) string {
	switch {
	case w.GameOver():
		return "GAME OVER  press r to restart"
	case w.PendingRestore():
		return "loading"
	case w.Transitioning():
		return fmt.Sprintf("entering level %d  %3.0f%%", w.Level()+1, w.TransitionProgress()*100)
	case w.MenuPaused():
		return "PAUSED"
	}
	if idx, timer, ok := w.RevivalCountdown(); ok {
		return fmt.Sprintf("reviving %s  %.1fs", idx, w.RevivalDelay()-timer)
	}
	return ""
}

// RenderWorld draws the HUD, the grid, and any overlay banner.
func RenderWorld(w *world.World, status string) string {
	grid := RenderGrid(w)
	if w.Shake() > 0 && w.Ticks()%2 == 1 {
		grid = " " + strings.ReplaceAll(grid, "\n", "\n ")
	}

	parts := []string{renderHUD(w), grid}
	if b := banner(w); b != "" {
		parts = append(parts, bannerStyle.Render(b))
	}
	if status != "" {
		parts = append(parts, statusStyle.Render(status))
	}
	return strings.Join(parts, "\n")
}
