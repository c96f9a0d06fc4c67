package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Aman-CERP/anagrams/internal/anagram"
)

// BuildFunc produces the index the interactive screen queries.
type BuildFunc func(ctx context.Context) (*anagram.Index, error)

// RunInteractive shows a live lookup screen: every keystroke re-queries the
// index built by build. It refuses to start when cfg.Output is not a terminal.
func RunInteractive(ctx context.Context, cfg Config, build BuildFunc) error {
	if !IsTTY(cfg.Output) {
		return ErrNotTTY
	}

	model := newInteractiveModel(ctx, build, cfg.NoColor)
	opts := []tea.ProgramOption{tea.WithOutput(cfg.Output), tea.WithContext(ctx)}
	if cfg.Input != nil {
		opts = append(opts, tea.WithInput(cfg.Input))
	}

	final, err := tea.NewProgram(model, opts...).Run()
	if err != nil {
		return err
	}
	if m, ok := final.(*interactiveModel); ok && m.err != nil {
		return m.err
	}
	return nil
}

type indexReadyMsg struct {
	idx *anagram.Index
	err error
}

type interactiveModel struct {
	ctx     context.Context
	build   BuildFunc
	idx     *anagram.Index
	err     error
	input   textinput.Model
	spinner spinner.Model
	styles  Styles
	width   int

	query    string
	key      string
	results  []string
	latency  time.Duration
	history  *Sparkline
	quitting bool
}

func newInteractiveModel(ctx context.Context, build BuildFunc, noColor bool) *interactiveModel {
	styles := GetStyles(noColor)

	ti := textinput.New()
	ti.Placeholder = "type a word"
	ti.Prompt = "› "
	ti.CharLimit = 64
	ti.PromptStyle = styles.Query

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorLime))

	return &interactiveModel{
		ctx:     ctx,
		build:   build,
		input:   ti,
		spinner: s,
		styles:  styles,
		width:   80,
		history: NewSparkline(30),
	}
}

// Init implements tea.Model.
func (m *interactiveModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.buildCmd())
}

func (m *interactiveModel) buildCmd() tea.Cmd {
	return func() tea.Msg {
		idx, err := m.build(m.ctx)
		return indexReadyMsg{idx: idx, err: err}
	}
}

// Update implements tea.Model.
func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-10, 20)
		return m, nil

	case indexReadyMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.idx = msg.idx
		return m, m.input.Focus()

	case spinner.TickMsg:
		if m.idx != nil {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.idx == nil {
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if v := m.input.Value(); v != m.query {
		m.lookup(v)
	}
	return m, cmd
}

func (m *interactiveModel) lookup(query string) {
	m.query = query
	if strings.TrimSpace(query) == "" {
		m.key = ""
		m.results = nil
		return
	}

	start := time.Now()
	m.key = anagram.Key(query)
	m.results = m.idx.LookupKey(m.key)
	m.latency = time.Since(start)
	m.history.Add(float64(m.latency.Nanoseconds()))
}

// View implements tea.Model.
func (m *interactiveModel) View() string {
	if m.quitting {
		return ""
	}
	if m.err != nil {
		return m.styles.Error.Render("Error: "+m.err.Error()) + "\n"
	}
	if m.idx == nil {
		return fmt.Sprintf("%s Building anagram index…\n", m.spinner.View())
	}

	stats := m.idx.Stats()
	var b strings.Builder
	b.WriteString(m.styles.Header.Render("anagrams"))
	b.WriteString(m.styles.Label.Render(fmt.Sprintf("  %d words, %d anagram groups", stats.Words, stats.AnagramGroups)))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(m.renderResults())
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())

	return b.String()
}

func (m *interactiveModel) renderResults() string {
	if strings.TrimSpace(m.query) == "" {
		return m.styles.Dim.Render("Start typing to see anagrams.")
	}
	if len(m.results) == 0 {
		return m.styles.Warning.Render("No anagrams for " + strings.TrimSpace(m.query))
	}

	lines := make([]string, 0, len(m.results))
	for _, w := range m.results {
		style := m.styles.Match
		if strings.EqualFold(w, strings.TrimSpace(m.query)) {
			style = m.styles.Query
		}
		lines = append(lines, style.Render(w))
	}
	panelWidth := max(m.width-4, 20)
	return m.styles.Panel.Width(panelWidth).Render(strings.Join(lines, "\n"))
}

func (m *interactiveModel) renderStatusBar() string {
	parts := []string{"esc to quit"}
	if m.key != "" {
		parts = append(parts,
			"key "+m.key,
			fmt.Sprintf("%d found", len(m.results)),
			m.latency.String(),
			m.history.Render())
	}
	return m.styles.Dim.Render(strings.Join(parts, " · "))
}
