package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bmckenna/saylist/internal/models"
	"github.com/bmckenna/saylist/internal/tasks"
)

// ViewState tracks which screen is active.
type ViewState int

const (
	InputView ViewState = iota
	ResolvingView
	ConfirmView
	AssemblingView
	ResultView
)

// resolveCompleteMsg is delivered when the dry-run resolution pass finishes.
type resolveCompleteMsg struct {
	result *tasks.GenerateResult
	err    error
}

// assembleCompleteMsg is delivered when the playlist has been created.
type assembleCompleteMsg struct {
	handle *models.PlaylistHandle
	err    error
}

// progressUpdateMsg wraps engine progress events for the Update loop.
type progressUpdateMsg tasks.ProgressUpdate

// Model is the bubbletea model for the interactive generation workflow.
type Model struct {
	ctx    context.Context
	engine tasks.GeneratorEngine
	public bool

	view   ViewState
	input  textinput.Model
	help   help.Model
	keys   keyMap
	width  int
	height int

	sentence     string
	progress     tasks.ProgressUpdate
	progressChan chan tasks.ProgressUpdate
	resultChan   chan resolveCompleteMsg
	result       *tasks.GenerateResult
	handle       *models.PlaylistHandle
	err          error
}

// NewModel creates the TUI model. The engine must be authenticated; public
// sets the visibility of the playlist that will be created.
func NewModel(ctx context.Context, engine tasks.GeneratorEngine, public bool) *Model {
	input := textinput.New()
	input.Placeholder = "type a sentence, one song per word"
	input.CharLimit = 200
	input.Width = 60
	input.Focus()

	return &Model{
		ctx:    ctx,
		engine: engine,
		public: public,
		view:   InputView,
		input:  input,
		help:   help.New(),
		keys:   newKeyMap(),
	}
}

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) && m.view != InputView {
			return m, tea.Quit
		}
		switch m.view {
		case InputView:
			return m.handleInputKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}
		return m, nil

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case resolveCompleteMsg:
		m.result = msg.result
		m.err = msg.err
		if msg.err != nil && msg.result == nil {
			m.view = ResultView
			return m, nil
		}
		m.view = ConfirmView
		return m, nil

	case assembleCompleteMsg:
		m.handle = msg.handle
		m.err = msg.err
		m.view = ResultView
		return m, nil
	}

	return m, nil
}

func (m *Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Enter):
		sentence := strings.TrimSpace(m.input.Value())
		if sentence == "" {
			return m, nil
		}
		m.sentence = sentence
		m.view = ResolvingView
		m.err = nil
		return m, m.startResolve(sentence)
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Yes), key.Matches(msg, m.keys.Enter):
		if m.result == nil || m.result.MatchedCount == 0 {
			return m, nil
		}
		m.view = AssemblingView
		return m, m.startAssemble()
	case key.Matches(msg, m.keys.No), key.Matches(msg, m.keys.Back):
		m.reset()
		return m, textinput.Blink
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Restart) {
		m.reset()
		return m, textinput.Blink
	}
	return m, nil
}

func (m *Model) reset() {
	m.view = InputView
	m.sentence = ""
	m.result = nil
	m.handle = nil
	m.err = nil
	m.progress = tasks.ProgressUpdate{}
	m.input.SetValue("")
	m.input.Focus()
}

// startResolve kicks off a dry-run generation in a goroutine so the Update
// loop can keep rendering progress as it arrives.
func (m *Model) startResolve(sentence string) tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	m.resultChan = make(chan resolveCompleteMsg, 1)

	go func() {
		opts := tasks.GenerateOptions{DryRun: true, Public: m.public}
		result, err := m.engine.Run(m.ctx, sentence, opts, m.progressChan)
		m.resultChan <- resolveCompleteMsg{result: result, err: err}
		close(m.progressChan)
	}()

	return m.waitForProgress()
}

// waitForProgress reads the next progress event. A closed channel means the
// run finished and the result is waiting.
func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		update, ok := <-m.progressChan
		if !ok {
			return <-m.resultChan
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) startAssemble() tea.Cmd {
	draft := models.PlaylistDraft{
		Name:        m.sentence,
		Description: "Playlist created with saylist: one song per word",
		Public:      m.public,
	}
	for _, outcome := range m.result.Outcomes {
		if outcome.Kind == models.Matched && outcome.Track != nil {
			draft.TrackURIs = append(draft.TrackURIs, outcome.Track.URI)
		}
	}

	return func() tea.Msg {
		handle, err := m.engine.Assemble(m.ctx, draft, nil)
		return assembleCompleteMsg{handle: handle, err: err}
	}
}

func (m *Model) View() string {
	var b strings.Builder

	switch m.view {
	case InputView:
		b.WriteString(m.renderInput())
	case ResolvingView:
		b.WriteString(m.renderResolving())
	case ConfirmView:
		b.WriteString(m.renderConfirm())
	case AssemblingView:
		b.WriteString(m.renderAssembling())
	case ResultView:
		b.WriteString(m.renderResult())
	}

	b.WriteString("\n")
	b.WriteString(styles.help.Render(m.help.View(m.keys)))
	return b.String()
}

func (m *Model) renderInput() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("saylist"))
	b.WriteString("\n\n")
	b.WriteString("Enter a sentence and each word becomes a track:\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	return b.String()
}

func (m *Model) renderResolving() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("Resolving words"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Sentence: %s\n\n", m.sentence))

	switch m.progress.Phase {
	case tasks.Tokenizing:
		b.WriteString(m.progress.Message)
	case tasks.Resolving:
		if m.progress.Total > 0 {
			b.WriteString(fmt.Sprintf("Word %d of %d\n", m.progress.Step, m.progress.Total))
		}
		b.WriteString(m.progress.Message)
	default:
		b.WriteString("Working...")
	}
	b.WriteString("\n")
	return b.String()
}

func (m *Model) renderConfirm() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("Review matches"))
	b.WriteString("\n\n")

	if m.result == nil {
		b.WriteString(styles.err.Render("No resolution result available."))
		return b.String()
	}

	b.WriteString(fmt.Sprintf("Matched %d of %d words (%.0f%%)\n\n",
		m.result.MatchedCount, len(m.result.Outcomes), m.result.MatchPercentage))

	for _, outcome := range m.result.Outcomes {
		switch outcome.Kind {
		case models.Matched:
			line := fmt.Sprintf("  ✓ %s → %s (%s)", outcome.Term.Raw, outcome.Track.Title, strings.Join(outcome.Track.Artists, ", "))
			b.WriteString(styles.success.Render(line))
		case models.NoMatch:
			b.WriteString(styles.warning.Render(fmt.Sprintf("  ✗ %s → no match", outcome.Term.Raw)))
		case models.LookupFailed:
			b.WriteString(styles.err.Render(fmt.Sprintf("  ! %s → lookup failed", outcome.Term.Raw)))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.result.MatchedCount == 0 {
		b.WriteString(styles.err.Render("Nothing matched; press esc to try another sentence."))
	} else {
		visibility := "private"
		if m.public {
			visibility = "public"
		}
		b.WriteString(fmt.Sprintf("Create %s playlist %q with %d tracks? (y/n)", visibility, m.sentence, m.result.MatchedCount))
	}
	b.WriteString("\n")
	return b.String()
}

func (m *Model) renderAssembling() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("Creating playlist"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Adding %d tracks to %q...\n", m.result.MatchedCount, m.sentence))
	return b.String()
}

func (m *Model) renderResult() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("Done"))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(styles.err.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	}
	if m.handle != nil {
		b.WriteString(styles.success.Render("Playlist created!"))
		b.WriteString("\n")
		if m.handle.ExternalURL != "" {
			b.WriteString(fmt.Sprintf("Open it here: %s\n", m.handle.ExternalURL))
		}
	}
	if m.result != nil {
		var missed []string
		for _, outcome := range m.result.Outcomes {
			if outcome.Kind != models.Matched {
				missed = append(missed, outcome.Term.Raw)
			}
		}
		if len(missed) > 0 {
			b.WriteString(styles.warning.Render(fmt.Sprintf("Words without a track: %s", strings.Join(missed, ", "))))
			b.WriteString("\n")
		}
	}

	b.WriteString("\nPress r for a new sentence, q to quit.\n")
	return b.String()
}
