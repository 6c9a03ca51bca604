// Package viz renders a live terminal view of a running world: one
// status line per joint plus an ascii trace of the selected joint's
// position.
package viz

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/jointsim/internal/control"
	"github.com/san-kum/jointsim/internal/sim"
)

const historyCapacity = 600

// TickMsg drives the simulation clock from the bubbletea event loop.
type TickMsg time.Time

// Model holds the world, its controllers, and the plotted history.
type Model struct {
	world       *sim.World
	controllers []*control.Controller
	tau         float64
	rng         *rand.Rand

	history  map[int][]float64
	selected int
	running  bool
	fps      int
}

// NewModel wraps an already-built world for live viewing.
func NewModel(world *sim.World, controllers []*control.Controller, tau float64, fps int, rng *rand.Rand) Model {
	if fps <= 0 {
		fps = 30
	}
	return Model{
		world:       world,
		controllers: controllers,
		tau:         tau,
		rng:         rng,
		history:     make(map[int][]float64),
		running:     true,
		fps:         fps,
	}
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles key input and advances the world one tick per frame.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "tab":
			if m.world.NumJoints() > 0 {
				m.selected = (m.selected + 1) % m.world.NumJoints()
			}
		case "g":
			// Send the selected joint toward a random goal.
			if m.selected < len(m.controllers) {
				m.controllers[m.selected].MoveTo(m.rng.Float64() * 180)
			}
		case "f":
			// Kick the selected joint with the probe stimulus.
			if m.selected < len(m.controllers) {
				m.controllers[m.selected].ApplyForce(1, 10)
			}
		}
	case TickMsg:
		if m.running {
			m.world.Step(m.tau)
			for i := 0; i < m.world.NumJoints(); i++ {
				h := append(m.history[i], m.world.Joint(i).TrueQ())
				if len(h) > historyCapacity {
					h = h[len(h)-historyCapacity:]
				}
				m.history[i] = h
			}
		}
		return m, m.tick()
	}
	return m, nil
}

// View renders the joint table and the selected joint's position trace.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("jointsim live  t=%.1fs", m.world.Time())))
	b.WriteString("\n")

	for i := 0; i < m.world.NumJoints(); i++ {
		j := m.world.Joint(i)

		name := fmt.Sprintf("joint %d", i)
		if i == m.selected {
			name = selected.Render("> " + name)
		} else {
			name = labelStyle.Render("  " + name)
		}

		status := freeStyle.Render("free")
		if j.IsLocked() {
			status = lockedStyle.Render("LOCKED")
		}

		b.WriteString(fmt.Sprintf("%s %s  %s\n",
			name,
			valueStyle.Render(fmt.Sprintf("q=%8.2f v=%7.2f", j.TrueQ(), j.TrueVel())),
			status,
		))
	}

	if h := m.history[m.selected]; len(h) >= 2 {
		graph := asciigraph.Plot(h,
			asciigraph.Height(10),
			asciigraph.Width(70),
			asciigraph.Caption(fmt.Sprintf("joint %d position", m.selected)),
		)
		b.WriteString(graphStyle.Render(graph))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("tab: select  g: random goal  f: kick  space: pause  q: quit"))
	b.WriteString("\n")
	return b.String()
}

// Run starts the live view and blocks until the user quits.
func Run(world *sim.World, controllers []*control.Controller, tau float64, fps int, rng *rand.Rand) error {
	p := tea.NewProgram(NewModel(world, controllers, tau, fps, rng))
	_, err := p.Run()
	return err
}
