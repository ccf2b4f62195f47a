package browse

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/ct/log"
	"github.com/ardnew/ct/tangle"
)

const (
	pathPrompt = "➜ "
	ctrlPrompt = " :"
)

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help           Print this cruft
  ls             List the children of the current chunk
  roots          List generated files and their aliases
  lookup F:N     Show the document line that produced line N of file F
  where          Print the path of the current chunk
  clear          Clear screen
  quit           Exit

Usage:
  Type a chunk path to show it, e.g. //main.go/imports, ../body or *name
  Relative paths start from the chunk shown last
  Press Tab / Shift-Tab to cycle through candidates
  Candidates marked ? are never declared, . were written in a ghost chunk,
  @ are root aliases
  Press Esc to toggle between path and command modes
  Use Up/Down arrows for history navigation
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// inputMode represents the current input mode.
type inputMode int

const (
	modePath inputMode = iota
	modeCtrl
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	pathStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	markStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchStyle      = lipgloss.NewStyle().
			Foreground(lipgloss.Color("4")).
			Bold(true)
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
	selectedMatchStyle = selectedStyle.Bold(true)
)

// model is the Bubble Tea model of a browse session.
type model struct {
	ctxFunc      func() context.Context
	input        textinput.Model
	doc          *tangle.Document
	result       *tangle.Result
	cur          tangle.NodeID
	logger       log.Logger
	history      *History
	historyIdx   int
	matches      fuzzy.Matches
	candidates   candidates
	wordStart    int
	wordEnd      int
	suggIdx      int
	tabActive    bool
	preTabText   string
	preTabCursor int
	width        int
	quitting     bool
	mode         inputMode
	pathText     string
	ctrlText     string
}

// Run starts an interactive session exploring doc. Generated line lookups
// use res. History is persisted at historyPath unless it is empty.
func Run(
	ctx context.Context,
	doc *tangle.Document,
	res *tangle.Result,
	historyPath string,
	logger log.Logger,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if doc == nil {
		return ErrNoDocument
	}

	history := NewHistory(historyPath)
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history",
			slog.String("path", historyPath),
			slog.Any("error", err),
		)
	}

	logger.TraceContext(ctx, "browse start",
		slog.Int("nodes", doc.Len()),
		slog.Int("history", history.Len()),
	)

	p := tea.NewProgram(newModel(ctx, doc, res, history, logger), tea.WithContext(ctx))
	_, err = p.Run()

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	doc *tangle.Document,
	res *tangle.Result,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(pathPrompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	cur := tangle.NoNode
	if roots := doc.Roots(); len(roots) > 0 {
		cur = roots[0]
	}

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		doc:        doc,
		result:     res,
		cur:        cur,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
		mode:       modePath,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(pathPrompt) - 2

		return m, nil
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	input := m.input.Value()

	switch {
	case m.historyIdx < m.history.Len():
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len())
		b.WriteString(hintStyle.Render(hint))

	case strings.TrimSpace(input) == "" && m.mode == modePath:
		b.WriteString(hintStyle.Render(m.where() + "  (type a path or press Esc for commands)"))

	case strings.TrimSpace(input) == "":
		b.WriteString(hintStyle.Render("Type: " + strings.Join(ctrlCommands, ", ") + " (press Esc to return)"))

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(m.matches, m.candidates, m.suggIdx, m.tabActive, m.width))
	}

	b.WriteString("\n")

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctxFunc(), "browse keypress",
		slog.String("key", msg.String()),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		refreshMatches(&m, false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}

		m.tabActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.historyStep(-1), nil

	case tea.KeyDown:
		return m.historyStep(1), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)

			return m, nil
		}

		if m.mode == modePath {
			return m.switchToMode(modeCtrl), nil
		}

		return m.switchToMode(modePath), nil

	case tea.KeyRunes:
		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// cycle moves the selected candidate by step, starting a tab cycle if none
// is active. A single candidate is accepted immediately.
func (m model) cycle(step int) model {
	if len(m.matches) == 0 {
		return m
	}

	if len(m.matches) == 1 {
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m
	}

	if m.tabActive {
		m.suggIdx = (m.suggIdx + step + len(m.matches)) % len(m.matches)
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if step < 0 {
			m.suggIdx = len(m.matches) - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m
}

// replaceCurrentWord replaces the current word in the input with
// replacement and moves the cursor after it.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	cursor := m.wordStart + len(replacement)

	m.input.SetValue(input[:m.wordStart] + replacement + input[m.wordEnd:])
	m.input.SetCursor(cursor)

	m.wordEnd = cursor
}

// refreshMatches recomputes fuzzy matches for the current input. With
// autoConfirm, a word that already equals the sole candidate is accepted.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.candidates, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	if m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

func (m model) historyStep(step int) model {
	i := m.historyIdx + step

	if i >= m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		refreshMatches(&m, false)

		return m
	}

	entry, err := m.history.Entry(i)
	if err != nil {
		return m
	}

	m.historyIdx = i

	if m.mode != entry.Mode {
		m = m.switchToMode(entry.Mode)
	}

	m.input.SetValue(entry.Line)
	m.input.SetCursor(len(entry.Line))
	refreshMatches(&m, false)

	return m
}

// switchToMode switches to mode, keeping the text typed in each mode.
func (m model) switchToMode(mode inputMode) model {
	if m.mode == modePath {
		m.pathText = m.input.Value()
	} else {
		m.ctrlText = m.input.Value()
	}

	m.mode = mode

	if mode == modePath {
		m.input.Prompt = promptStyle.Render(pathPrompt)
		m.input.SetValue(m.pathText)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
		m.input.SetValue(m.ctrlText)
	}

	m.input.CursorEnd()
	refreshMatches(&m, false)

	return m
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.pathText, m.ctrlText = "", ""
	m.input.SetValue("")
	m.matches = nil

	if err := m.history.Add(input, m.mode); err != nil {
		m.logger.DebugContext(m.ctxFunc(), "history not saved", slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	if m.mode == modeCtrl {
		return m.executeCommand(input)
	}

	echo := tea.Println(promptStyle.Render(pathPrompt) + inputStyle.Render(input))

	out, err := m.visit(input)
	if err != nil {
		return m, tea.Sequence(echo, tea.Println(errorStyle.Render("error: "+err.Error())))
	}

	m.cur = out

	return m, tea.Sequence(echo, tea.Println(m.show(out)))
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	parts := strings.Fields(input)
	echo := tea.Println(ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input))

	m.logger.TraceContext(m.ctxFunc(), "browse command",
		slog.String("command", parts[0]),
		slog.Any("args", parts[1:]),
	)

	switch parts[0] {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echo, tea.Println(helpMessage()))

	case "l", "ls":
		return m, tea.Sequence(echo, tea.Println(m.list()))

	case "r", "roots":
		return m, tea.Sequence(echo, tea.Println(m.roots()))

	case "w", "where":
		return m, tea.Sequence(echo, tea.Println(pathStyle.Render(m.where())))

	case "c", "clear":
		return m, tea.ClearScreen

	case "lookup":
		if len(parts) != 2 {
			return m, tea.Sequence(echo, tea.Println(errorStyle.Render("usage: lookup FILE:LINE")))
		}

		out, owner, err := m.lookup(parts[1])
		if err != nil {
			return m, tea.Sequence(echo, tea.Println(errorStyle.Render("error: "+err.Error())))
		}

		if owner.Valid() {
			m.cur = owner
		}

		return m, tea.Sequence(echo, tea.Println(out))

	default:
		return m, tea.Println(errorStyle.Render("Unknown command: " + parts[0] + " (try 'help')"))
	}
}

// visit resolves path from the current chunk without modifying the tree.
func (m model) visit(path string) (tangle.NodeID, error) {
	return m.doc.Find(m.cur, path)
}

func (m model) where() string {
	if !m.cur.Valid() {
		return "(no chunk)"
	}

	return m.doc.Path(m.cur)
}

// show renders the path and text of id, each line prefixed with its
// document line number.
func (m model) show(id tangle.NodeID) string {
	var b strings.Builder

	b.WriteString(pathStyle.Render(m.doc.Path(id)))

	if !m.doc.Declared(id) && !m.doc.IsGhost(id) {
		b.WriteString(hintStyle.Render("  (undeclared)"))
	}

	for _, line := range m.doc.Text(id) {
		b.WriteString("\n" + hintStyle.Render(fmt.Sprintf("%5d ", line.Src)) + line.Text)
	}

	return b.String()
}

// list renders the children of the current chunk with their line counts.
func (m model) list() string {
	if !m.cur.Valid() {
		return hintStyle.Render("(no chunk)")
	}

	var b strings.Builder

	for _, c := range m.doc.Children(m.cur) {
		fmt.Fprintf(&b, "  %s %s\n",
			m.doc.Name(c),
			hintStyle.Render(fmt.Sprintf("%d lines", len(m.doc.Text(c)))),
		)
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// roots renders every root, its aliases, and whether it is generated.
func (m model) roots() string {
	aliases := map[string][]string{}
	for alias, root := range m.doc.Aliases() {
		aliases[root] = append(aliases[root], alias)
	}

	var b strings.Builder

	for _, r := range m.doc.Roots() {
		name := m.doc.Name(r)
		b.WriteString("  //" + name)

		if a := aliases[name]; len(a) > 0 {
			b.WriteString(hintStyle.Render(" (" + strings.Join(a, ", ") + ")"))
		}

		if !m.doc.Declared(r) {
			b.WriteString(hintStyle.Render("  not generated"))
		}

		b.WriteString("\n")
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// lookup renders the document line behind loc, a "file:line" location, and
// returns the chunk containing it.
func (m model) lookup(loc string) (string, tangle.NodeID, error) {
	if m.result == nil {
		return "", tangle.NoNode, ErrNoDocument
	}

	i := strings.LastIndexByte(loc, ':')
	if i <= 0 {
		return "", tangle.NoNode, fmt.Errorf("invalid location %q", loc)
	}

	line, err := strconv.Atoi(loc[i+1:])
	if err != nil {
		return "", tangle.NoNode, fmt.Errorf("invalid location %q: %w", loc, err)
	}

	n, err := m.result.Lookup(loc[:i], line)
	if err != nil {
		return "", tangle.NoNode, err
	}

	owner := tangle.NoNode
	if info, ok := m.doc.LineInfo(n); ok {
		owner = info.Owner
	}

	out := hintStyle.Render(fmt.Sprintf("%5d ", n)) + m.doc.Source(n)
	if owner.Valid() {
		out = pathStyle.Render(m.doc.Path(owner)) + "\n" + out
	}

	return out, owner, nil
}
