package tui

import (
	"fmt"
	"mcts2048/engine"
	"mcts2048/game"
	"mcts2048/searcher/agent"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"
)

// Model drives an engine one decision cycle at a time. A cycle runs as a
// tea.Cmd off the event loop; the model only reads the engine's game once
// the cycle has reported back.
type Model struct {
	newGame  func() *game.Game
	newAgent func() agent.Agent

	engine    *engine.Engine
	gen       int // bumped on new game so stale cycles are dropped
	running   bool
	searching bool

	board    game.Board
	score    float64
	highTile uint32
	alive    bool
	steps    int
	lastMove string
	err      error
}

type stepMsg struct {
	gen  int
	step engine.Step
	err  error
}

func NewModel(newGame func() *game.Game, newAgent func() agent.Agent) Model {
	m := Model{newGame: newGame, newAgent: newAgent}
	m.reset()
	return m
}

func (m *Model) reset() {
	m.engine = engine.LocalEngine(m.newGame(), m.newAgent())
	m.gen++
	m.running = false
	m.searching = false
	m.steps = 0
	m.lastMove = "-"
	m.err = nil
	m.sync()
}

func (m *Model) sync() {
	g := m.engine.Game
	m.board = g.Board()
	m.score = g.Score()
	m.highTile = g.HighTile()
	m.alive = g.IsAlive()
}

func (m Model) Init() tea.Cmd {
	return nil
}

// cycle hands one engine.Step to the runtime.
func (m Model) cycle() tea.Cmd {
	e, gen := m.engine, m.gen
	return func() tea.Msg {
		step, err := e.Step()
		return stepMsg{gen: gen, step: step, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case stepMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.searching = false
		if msg.err != nil {
			m.err = msg.err
			m.running = false
			return m, nil
		}
		m.steps++
		m.lastMove = msg.step.Move.String()
		m.sync()
		if !m.alive {
			m.running = false
			log.Info().Msgf("game over after %d moves with score %.1f", m.steps, m.score)
		}
		if m.running {
			m.searching = true
			return m, m.cycle()
		}
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "s":
		if m.running || !m.alive {
			return m, nil
		}
		m.running = true
		if m.searching {
			return m, nil
		}
		m.searching = true
		return m, m.cycle()

	case "p":
		// The cycle in flight still completes.
		m.running = false

	case "n":
		m.reset()

	case "left", "right", "up", "down":
		if m.searching {
			return m, nil
		}
		d, err := game.ParseDirection(msg.String())
		if err != nil {
			m.err = err
			return m, nil
		}
		res := m.engine.Game.Move(d)
		m.steps++
		m.lastMove = d.String()
		if !res.IsValidMove {
			m.lastMove += " (invalid)"
		}
		m.sync()
	}
	return m, nil
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("2048 MCTS"))
	sb.WriteString("\n\n")
	sb.WriteString(renderBoard(m.board))
	sb.WriteString("\n")

	status := "stopped"
	switch {
	case !m.alive:
		status = "game over"
	case m.running:
		status = "running"
	}
	sb.WriteString(lipgloss.JoinVertical(lipgloss.Left,
		fmt.Sprintf("Score: %.1f", m.score),
		fmt.Sprintf("High tile: %d", m.highTile),
		fmt.Sprintf("Moves: %d  Last move: %s", m.steps, m.lastMove),
		fmt.Sprintf("Status: %s", status),
	))
	sb.WriteString("\n")
	if m.err != nil {
		sb.WriteString(errStyle.Render(m.err.Error()))
		sb.WriteString("\n")
	}
	sb.WriteString(infoStyle.Render("s start • p stop • n new game • ←↑↓→ move • q quit"))
	sb.WriteString("\n")
	return sb.String()
}

// Run blocks until the user quits.
func Run(newGame func() *game.Game, newAgent func() agent.Agent) error {
	_, err := tea.NewProgram(NewModel(newGame, newAgent), tea.WithAltScreen()).Run()
	return err
}
