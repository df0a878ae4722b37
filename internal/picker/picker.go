package picker

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"llmpick/internal/ai"
)

type focusArea int

const (
	focusProvider focusArea = iota
	focusModel
)

const (
	defaultWidth      = 80
	defaultMaxVisible = 10
	compactWidth      = 60
)

// ProviderSelectedMsg asks the host to make Provider the current provider.
type ProviderSelectedMsg struct {
	Provider ai.ProviderInfo
}

// ModelSelectedMsg asks the host to make the named model current.
type ModelSelectedMsg struct {
	Name string
}

// Model is the Bubble Tea rendition of the widget. Selection changes leave
// it as ProviderSelectedMsg and ModelSelectedMsg; the host applies them and
// hands the new selection back with SetSelection.
type Model struct {
	props      Props
	state      State
	focus      focusArea
	cursor     int
	offset     int
	maxVisible int
	width      int
	keys       KeyMap
	search     textinput.Model
	spinner    spinner.Model
	help       help.Model
}

// New builds a widget with no providers and nothing selected.
func New() Model {
	ti := textinput.New()
	ti.Placeholder = placeholderSearch
	ti.Prompt = "⌕ "
	ti.CharLimit = 100
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	ti.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))

	return Model{
		focus:      focusModel,
		maxVisible: defaultMaxVisible,
		width:      defaultWidth,
		keys:       DefaultKeyMap(),
		search:     ti,
		spinner:    sp,
		help:       help.New(),
	}
}

// emitter turns Props callbacks into host messages, keeping call order.
type emitter struct {
	msgs []tea.Msg
}

func (e *emitter) bind(p Props) Props {
	p.SetProvider = func(provider ai.ProviderInfo) {
		e.msgs = append(e.msgs, ProviderSelectedMsg{Provider: provider})
	}
	p.SetModel = func(name string) {
		e.msgs = append(e.msgs, ModelSelectedMsg{Name: name})
	}
	return p
}

func (e *emitter) cmd() tea.Cmd {
	switch len(e.msgs) {
	case 0:
		return nil
	case 1:
		msg := e.msgs[0]
		return func() tea.Msg { return msg }
	}
	cmds := make([]tea.Cmd, 0, len(e.msgs))
	for _, msg := range e.msgs {
		msg := msg
		cmds = append(cmds, func() tea.Msg { return msg })
	}
	return tea.Sequence(cmds...)
}

// reconcile runs the stale-selection correction against the current props.
func (m Model) reconcile() tea.Cmd {
	var e emitter
	Reconcile(e.bind(m.props))
	return e.cmd()
}

// Init corrects a selection that is already stale on first render.
func (m Model) Init() tea.Cmd {
	return m.reconcile()
}

// SetProviders replaces the provider list.
func (m *Model) SetProviders(providers []ai.ProviderInfo) tea.Cmd {
	m.props.Providers = providers
	m.clampCursor()
	return m.reconcile()
}

// SetModels replaces the model list.
func (m *Model) SetModels(models []ai.ModelInfo) tea.Cmd {
	m.props.Models = models
	m.clampCursor()
	return m.reconcile()
}

// SetCatalog replaces both lists and runs the correction once against them.
func (m *Model) SetCatalog(providers []ai.ProviderInfo, models []ai.ModelInfo) tea.Cmd {
	m.props.Providers = providers
	m.props.Models = models
	m.clampCursor()
	return m.reconcile()
}

// SetSelection records the host's current provider and model.
func (m *Model) SetSelection(provider *ai.ProviderInfo, model string) tea.Cmd {
	m.props.Provider = provider
	m.props.Model = model
	m.clampCursor()
	return m.reconcile()
}

// SetLoading sets the loading indicator: LoadingAll, a provider name, or "".
// The spinner is restarted when loading begins.
func (m *Model) SetLoading(loading string) tea.Cmd {
	was := m.props.Loading
	m.props.Loading = loading
	if was == "" && loading != "" {
		return m.spinner.Tick
	}
	return nil
}

// SetWidth sets the render width.
func (m *Model) SetWidth(width int) {
	if width > 0 {
		m.width = width
	}
}

// Props returns the widget inputs without callbacks.
func (m Model) Props() Props {
	p := m.props
	p.SetProvider = nil
	p.SetModel = nil
	return p
}

// Open reports whether the model dropdown is open.
func (m Model) Open() bool { return m.state.Open }

// Query returns the current search text.
func (m Model) Query() string { return m.state.Query }

// Filtered returns the options currently shown in the dropdown.
func (m Model) Filtered() []ai.ModelInfo {
	return FilterModels(m.props.Models, m.props.Provider, m.state.Query)
}

// Update handles key input for the focused control and spinner ticks.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetWidth(msg.Width)
		return m, nil
	case spinner.TickMsg:
		if m.props.Loading == "" {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if m.props.Empty() {
			return m, nil
		}
		return m.handleKey(msg)
	}

	if m.state.Open && m.focus == focusModel {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.NextFocus), key.Matches(msg, m.keys.PrevFocus):
		return m.switchFocus()
	}

	if m.focus == focusProvider {
		switch {
		case key.Matches(msg, m.keys.PrevProvider):
			return m.cycleProvider(-1)
		case key.Matches(msg, m.keys.NextProvider):
			return m.cycleProvider(1)
		}
		return m, nil
	}

	if !m.state.Open {
		if key.Matches(msg, m.keys.Toggle) {
			return m.toggle()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Close):
		return m.toggle()
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
		return m, nil
	case key.Matches(msg, m.keys.Select):
		return m.selectCurrent()
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if q := m.search.Value(); q != m.state.Query {
		m.state.Query = q
		m.cursor = 0
		m.offset = 0
	}
	return m, cmd
}

func (m Model) switchFocus() (Model, tea.Cmd) {
	if m.focus == focusProvider {
		m.focus = focusModel
		if m.state.Open {
			return m, m.search.Focus()
		}
		return m, nil
	}
	m.focus = focusProvider
	m.search.Blur()
	return m, nil
}

func (m Model) cycleProvider(delta int) (Model, tea.Cmd) {
	providers := m.props.Providers
	idx := -1
	for i, p := range providers {
		if p.Name == m.props.ProviderName() {
			idx = i
			break
		}
	}
	next := idx + delta
	if idx < 0 {
		next = 0
	}
	next = (next + len(providers)) % len(providers)
	if next == idx {
		return m, nil
	}
	var e emitter
	SelectProvider(e.bind(m.props), providers[next].Name)
	m.cursor = 0
	m.offset = 0
	return m, e.cmd()
}

// toggle flips the dropdown. Opening moves input focus to the search field.
func (m Model) toggle() (Model, tea.Cmd) {
	if m.state.Toggle() {
		m.cursor = 0
		for i, opt := range m.Filtered() {
			if opt.Name == m.props.Model {
				m.cursor = i
				break
			}
		}
		m.scrollToCursor()
		return m, m.search.Focus()
	}
	m.search.Blur()
	return m, nil
}

// selectCurrent picks the option under the cursor. The key is consumed here
// so it never reaches the toggle handling.
func (m Model) selectCurrent() (Model, tea.Cmd) {
	if m.props.IsLoading() {
		return m, nil
	}
	options := m.Filtered()
	if len(options) == 0 {
		return m, nil
	}
	m.clampCursor()
	var e emitter
	SelectOption(e.bind(m.props), &m.state, options[m.cursor].Name)
	m.search.SetValue("")
	m.search.Blur()
	m.cursor = 0
	m.offset = 0
	return m, e.cmd()
}

func (m *Model) moveCursor(delta int) {
	n := len(m.Filtered())
	if n == 0 {
		m.cursor = 0
		return
	}
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor > n-1 {
		m.cursor = n - 1
	}
	m.scrollToCursor()
}

func (m *Model) clampCursor() {
	n := len(m.Filtered())
	if m.cursor > n-1 {
		m.cursor = max(0, n-1)
	}
	m.scrollToCursor()
}

func (m *Model) scrollToCursor() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.maxVisible {
		m.offset = m.cursor - m.maxVisible + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// View renders the widget.
func (m Model) View() string {
	if m.props.Empty() {
		return emptyStyle.Width(m.width - 2).Render(emptyProvidersMessage)
	}

	compact := m.width < compactWidth
	providerWidth := (m.width - 4) / 3
	modelWidth := m.width - 4 - providerWidth
	if compact {
		providerWidth = m.width - 2
		modelWidth = m.width - 2
	}

	providerName := m.props.ProviderName()
	if providerName == "" {
		providerName = "-"
	}
	providerBox := boxStyle(m.focus == focusProvider, false).
		Width(providerWidth).
		Render(truncate("‹ "+providerName+" ›", providerWidth-2))

	caret := "▾"
	if m.state.Open {
		caret = "▴"
	}
	label := ModelLabel(m.props.Models, m.props.Model)
	inner := modelWidth - 2
	labelText := truncate(label, max(1, inner-2))
	gap := max(1, inner-lipgloss.Width(labelText)-lipgloss.Width(caret))
	modelBox := boxStyle(m.focus == focusModel, m.state.Open).
		Width(modelWidth).
		Render(labelText + strings.Repeat(" ", gap) + caret)

	var parts []string
	if compact {
		parts = append(parts, providerBox, modelBox)
	} else {
		parts = append(parts, lipgloss.JoinHorizontal(lipgloss.Top, providerBox, " ", modelBox))
	}
	if m.state.Open {
		dropdownWidth := modelWidth
		if compact {
			dropdownWidth = m.width - 2
		}
		parts = append(parts, m.renderDropdown(dropdownWidth))
	}
	parts = append(parts, m.help.View(m.helpBindings()))
	return strings.Join(parts, "\n")
}

func (m Model) renderDropdown(width int) string {
	m.search.Width = max(10, width-6)
	lines := []string{m.search.View(), ""}

	options := m.Filtered()
	switch {
	case m.props.IsLoading():
		lines = append(lines, dimStyle.Render(m.spinner.View()+" "+placeholderLoading))
	case len(options) == 0:
		lines = append(lines, dimStyle.Render(placeholderNoModels))
	default:
		end := min(len(options), m.offset+m.maxVisible)
		for i := m.offset; i < end; i++ {
			opt := options[i]
			text := opt.Label
			if text == "" {
				text = opt.Name
			}
			text = truncate(text, max(1, width-6))
			prefix := "  "
			if i == m.cursor {
				prefix = "▸ "
			}
			style := optionStyle
			switch {
			case i == m.cursor:
				style = cursorStyle
			case opt.Name == m.props.Model:
				style = currentStyle
			}
			lines = append(lines, prefix+style.Render(text))
		}
		if len(options) > m.maxVisible {
			lines = append(lines, dimStyle.Render(fmt.Sprintf("  %d/%d", m.cursor+1, len(options))))
		}
	}
	return dropdownStyle.Width(width).Render(strings.Join(lines, "\n"))
}

func (m Model) helpBindings() help.KeyMap {
	switch {
	case m.focus == focusProvider:
		return helpKeys{short: []key.Binding{m.keys.PrevProvider, m.keys.NextProvider, m.keys.NextFocus}}
	case m.state.Open:
		return helpKeys{short: []key.Binding{m.keys.Up, m.keys.Down, m.keys.Select, m.keys.Close}}
	default:
		return helpKeys{short: []key.Binding{m.keys.Toggle, m.keys.NextFocus}}
	}
}

func truncate(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
