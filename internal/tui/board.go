package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lox/klondike/internal/game"
	"github.com/lox/klondike/klondike"
)

const cellWidth = 5

// cell renders a card view padded to the column width
func cell(v game.CardView) string {
	if !v.FaceUp {
		return FaceDownStyle.Width(cellWidth).Render("##")
	}
	label := v.Card.Rank().Label() + v.Card.Suit().Symbol()
	if v.Card.Color() == klondike.Red {
		return RedCardStyle.Width(cellWidth).Render(label)
	}
	return BlackCardStyle.Width(cellWidth).Render(label)
}

func emptyCell(label string) string {
	return EmptyPileStyle.Width(cellWidth).Render(label)
}

func header(label string) string {
	return LabelStyle.Width(cellWidth).Render(label)
}

// RenderBoard draws the stock, waste, foundations and tableau
func RenderBoard(snap game.Snapshot) string {
	var b strings.Builder

	// Top row: stock, the last three waste cards, then foundations
	b.WriteString(header("st"))
	b.WriteString(header("w"))
	b.WriteString(strings.Repeat(" ", cellWidth*2))
	for i := range game.NumFoundations {
		b.WriteString(header(fmt.Sprintf("f%d", i+1)))
	}
	b.WriteString("\n")

	if n := len(snap.Stock); n > 0 {
		b.WriteString(FaceDownStyle.Width(cellWidth).Render(fmt.Sprintf("[%d]", n)))
	} else {
		b.WriteString(emptyCell("[ ]"))
	}

	waste := snap.Waste[max(len(snap.Waste)-3, 0):]
	for i := range 3 {
		if i < len(waste) {
			b.WriteString(cell(waste[i]))
		} else {
			b.WriteString(strings.Repeat(" ", cellWidth))
		}
	}

	for i, f := range snap.Foundations {
		if len(f) == 0 {
			b.WriteString(emptyCell("-" + klondike.Suits[i].Symbol()))
			continue
		}
		b.WriteString(cell(f[len(f)-1]))
	}
	b.WriteString("\n\n")

	// Tableau columns, rendered row by row
	rows := 0
	for i := range game.NumTableaus {
		b.WriteString(header(fmt.Sprintf("t%d", i+1)))
		rows = max(rows, len(snap.Tableau[i]))
	}
	b.WriteString("\n")

	for row := range max(rows, 1) {
		line := make([]string, game.NumTableaus)
		for col, pile := range snap.Tableau {
			switch {
			case row < len(pile):
				line[col] = cell(pile[row])
			case row == 0:
				line[col] = emptyCell("--")
			default:
				line[col] = strings.Repeat(" ", cellWidth)
			}
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, line...))
		if row < rows-1 {
			b.WriteString("\n")
		}
	}

	return b.String()
}
