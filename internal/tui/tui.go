// Package tui is the terminal front end for playing a local game.
package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/lox/klondike/internal/bot"
	"github.com/lox/klondike/internal/game"
	"github.com/lox/klondike/internal/randutil"
	"github.com/lox/klondike/internal/savefile"
)

const (
	paneLog   = 0
	paneInput = 1

	// autoLimit bounds a single "auto" command
	autoLimit = 500
)

// Config controls a TUI session
type Config struct {
	SaveFile string
	Options  []game.Option
}

// Model is the Bubble Tea model for a solitaire game
type Model struct {
	game   *game.Game
	config Config
	logger *log.Logger

	// UI components
	logViewport viewport.Model
	input       textinput.Model
	help        help.Model
	keys        keyMap

	gameLog     []string
	focusedPane int
	quitting    bool

	// Dimensions
	width  int
	height int
}

// New creates a TUI model playing g
func New(g *game.Game, config Config, logger *log.Logger) *Model {
	vp := viewport.New(10, 5)

	ti := textinput.New()
	ti.Placeholder = "draw, t3 f, w t1, t2 t5 3, undo, hint, new, save, quit"
	ti.Focus()
	ti.CharLimit = 64
	ti.Width = 60
	ti.PromptStyle = lipgloss.NewStyle().Foreground(focusedBorder).Bold(true)
	ti.Prompt = "> "

	m := &Model{
		game:        g,
		config:      config,
		logger:      logger.WithPrefix("tui"),
		logViewport: vp,
		input:       ti,
		help:        help.New(),
		keys:        defaultKeyMap(),
		focusedPane: paneInput,
	}
	m.addLog(InfoStyle.Render(fmt.Sprintf("Dealt game %d. Type 'help' for commands.", g.Seed())))
	return m
}

// Game returns the game being played
func (m *Model) Game() *game.Game {
	return m.game
}

// Init initializes the TUI model
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages in the TUI
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Focus):
			if m.focusedPane == paneLog {
				m.focusedPane = paneInput
				m.input.Focus()
			} else {
				m.focusedPane = paneLog
				m.input.Blur()
			}
			return m, nil

		case key.Matches(msg, m.keys.Submit) && m.focusedPane == paneInput:
			line := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			if cmd := m.Execute(line); cmd != nil {
				return m, cmd
			}
			return m, nil

		case m.focusedPane == paneLog:
			switch {
			case key.Matches(msg, m.keys.Up):
				m.logViewport.ScrollUp(1)
			case key.Matches(msg, m.keys.Down):
				m.logViewport.ScrollDown(1)
			case key.Matches(msg, m.keys.PageUp):
				m.logViewport.HalfPageUp()
			case key.Matches(msg, m.keys.PageDown):
				m.logViewport.HalfPageDown()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.focusedPane == paneInput {
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// Execute runs one command line and returns tea.Quit when the player leaves
func (m *Model) Execute(line string) tea.Cmd {
	if line == "" {
		return nil
	}
	m.logger.Debug("Command", "input", line)
	m.addLog(InfoStyle.Render("> " + line))

	fields := strings.Fields(line)
	switch strings.ToLower(fields[0]) {
	case "q", "quit", "exit":
		m.quitting = true
		return tea.Quit

	case "u", "undo":
		if _, err := m.game.Undo(); err != nil {
			m.addLog(ErrorStyle.Render("Nothing to undo"))
			return nil
		}
		m.addLog("Undone")

	case "h", "hint":
		m.hint()

	case "a", "auto":
		m.auto()

	case "n", "new":
		seed := randutil.NewSeed()
		if len(fields) > 1 {
			n, err := strconv.ParseInt(fields[1], 10, 64)
			if err != nil {
				m.addLog(ErrorStyle.Render("Invalid seed: " + fields[1]))
				return nil
			}
			seed = n
		}
		m.game.NewGame(seed)
		m.addLog(fmt.Sprintf("Dealt game %d", seed))

	case "save":
		m.save(argOr(fields, m.config.SaveFile))

	case "load":
		m.load(argOr(fields, m.config.SaveFile))

	case "help", "?":
		m.addLog(InfoStyle.Render(helpText))

	default:
		mv, err := game.ParseMove(line)
		if err != nil {
			m.addLog(ErrorStyle.Render(err.Error()))
			return nil
		}
		if _, err := m.game.Move(mv); err != nil {
			m.addLog(ErrorStyle.Render(describeError(err)))
			return nil
		}
		m.addLog(SuccessStyle.Render(mv.String()))
	}

	m.announceOutcome()
	return nil
}

const helpText = `Commands:
  d, draw            turn a stock card (recycles the waste when empty)
  <from> <to> [n]    move cards: w t3, t2 f, t1 t4 3
                     zones: w waste, f any foundation, f1-f4, t1-t7
  u, undo            take back the last move
  h, hint            list legal moves
  a, auto            let the bot play until it is stuck
  n, new [seed]      deal a new game
  save/load [path]   write or read the game file
  q, quit            leave`

func argOr(fields []string, fallback string) string {
	if len(fields) > 1 {
		return fields[1]
	}
	return fallback
}

func describeError(err error) string {
	if reason, ok := game.ReasonOf(err); ok {
		return "Illegal move: " + strings.ReplaceAll(reason.String(), "_", " ")
	}
	return err.Error()
}

func (m *Model) hint() {
	legal := m.game.LegalMoves()
	if len(legal) == 0 {
		m.addLog(WarningStyle.Render("No legal moves"))
		return
	}
	names := make([]string, len(legal))
	for i, mv := range legal {
		names[i] = mv.String()
	}
	m.addLog("Legal: " + strings.Join(names, ", "))
	if best, ok := bot.NewGreedy().Choose(m.game); ok {
		m.addLog(SuccessStyle.Render("Try: " + best.String()))
	}
}

func (m *Model) auto() {
	player := bot.NewGreedy()
	played := 0
	for played < autoLimit && !m.game.Outcome().Terminal() {
		mv, ok := player.Choose(m.game)
		if !ok {
			break
		}
		if _, err := m.game.Move(mv); err != nil {
			m.logger.Error("Bot move rejected", "move", mv, "error", err)
			break
		}
		played++
	}
	m.addLog(fmt.Sprintf("Bot played %d moves", played))
}

func (m *Model) save(path string) {
	if err := savefile.Save(path, m.game); err != nil {
		m.addLog(ErrorStyle.Render("Save failed: " + err.Error()))
		return
	}
	m.addLog("Saved to " + path)
}

func (m *Model) load(path string) {
	g, err := savefile.Load(path, m.config.Options...)
	if err != nil {
		m.addLog(ErrorStyle.Render("Load failed: " + err.Error()))
		return
	}
	m.game = g
	m.addLog(fmt.Sprintf("Loaded game %d from %s", g.Seed(), path))
}

func (m *Model) announceOutcome() {
	switch m.game.Outcome() {
	case game.Won:
		m.addLog(SuccessStyle.Render(fmt.Sprintf("You won in %d moves!", len(m.game.Moves()))))
	case game.Stuck:
		m.addLog(WarningStyle.Render("No moves left. 'undo' or 'new' to continue."))
	}
}

// addLog appends an entry to the log and scrolls to it
func (m *Model) addLog(entry string) {
	m.gameLog = append(m.gameLog, entry)
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	snap := m.game.Snapshot()

	board := RenderBoard(snap)
	sidebar := m.renderSidebar(snap)
	sidebarWidth := max(lipgloss.Width(sidebar), 24)
	boardWidth := max(m.width-sidebarWidth-4, 1)
	boardHeight := lipgloss.Height(board)

	boardPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(unfocusedBorder).
		Width(boardWidth).
		Render(board)
	sidebarPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(unfocusedBorder).
		Width(sidebarWidth).
		Height(boardHeight).
		Render(sidebar)
	topRow := lipgloss.JoinHorizontal(lipgloss.Top, boardPane, sidebarPane)

	actionContent := m.input.View() + "\n" + m.help.View(m.keys)
	actionBorder := unfocusedBorder
	if m.focusedPane == paneInput {
		actionBorder = focusedBorder
	}
	actionPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(actionBorder).
		Width(max(m.width-2, 1)).
		Render(actionContent)

	logHeight := max(m.height-lipgloss.Height(topRow)-lipgloss.Height(actionPane)-2, 1)
	m.logViewport.Width = max(m.width-2, 1)
	m.logViewport.Height = logHeight
	logBorder := unfocusedBorder
	if m.focusedPane == paneLog {
		logBorder = focusedBorder
	}
	logPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(logBorder).
		Width(max(m.width-2, 1)).
		Height(logHeight).
		Render(m.logViewport.View())

	return lipgloss.JoinVertical(lipgloss.Left, topRow, logPane, actionPane)
}

func (m *Model) renderSidebar(snap game.Snapshot) string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render(" Klondike "))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Game:     %d\n", snap.Seed)
	fmt.Fprintf(&b, "Moves:    %d\n", snap.Moves)
	if snap.MaxRecycles != nil {
		fmt.Fprintf(&b, "Recycles: %d/%d\n", snap.Recycles, *snap.MaxRecycles)
	} else {
		fmt.Fprintf(&b, "Recycles: %d\n", snap.Recycles)
	}
	b.WriteString("\n")

	switch snap.Outcome {
	case game.Won:
		b.WriteString(SuccessStyle.Render("WON"))
	case game.Stuck:
		b.WriteString(WarningStyle.Render("STUCK"))
	default:
		b.WriteString(InfoStyle.Render("in progress"))
	}
	return b.String()
}
