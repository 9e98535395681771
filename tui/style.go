package tui

import (
	"fmt"
	"mcts2048/game"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const cellWidth = 6

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f9f6f2")).Background(lipgloss.Color("#8f7a66")).Padding(0, 1)
	infoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#bbada0"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#f65e3b"))
	boardStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#bbada0"))
	baseTile   = lipgloss.NewStyle().Width(cellWidth).Align(lipgloss.Center).Bold(true)
)

var tileColors = map[uint32]string{
	0:    "#cdc1b4",
	2:    "#eee4da",
	4:    "#ede0c8",
	8:    "#f2b179",
	16:   "#f59563",
	32:   "#f67c5f",
	64:   "#f65e3b",
	128:  "#edcf72",
	256:  "#edcc61",
	512:  "#edc850",
	1024: "#edc53f",
	2048: "#edc22e",
}

func tileStyle(v uint32) lipgloss.Style {
	bg, ok := tileColors[v]
	if !ok {
		bg = "#3c3a32"
	}
	fg := "#f9f6f2"
	if v <= 4 {
		fg = "#776e65"
	}
	return baseTile.Background(lipgloss.Color(bg)).Foreground(lipgloss.Color(fg))
}

func renderBoard(b game.Board) string {
	rows := make([]string, 0, game.Size)
	for _, row := range b {
		cells := make([]string, 0, game.Size)
		for _, v := range row {
			label := ""
			if v != 0 {
				label = fmt.Sprint(v)
			}
			cells = append(cells, tileStyle(v).Render(label))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return boardStyle.Render(strings.Join(rows, "\n"))
}
