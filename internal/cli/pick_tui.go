package cli

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"llmpick/internal/ai"
	"llmpick/internal/ai/providers"
	"llmpick/internal/config"
	"llmpick/internal/picker"
)

type pickOptions struct {
	ctx       context.Context
	client    providers.CatalogClient
	configDir string
	cacheDir  string
	cfg       config.Config
	extra     []ai.ModelInfo
	environ   []string
	changes   <-chan config.Change
	logger    *slog.Logger
}

type pickKeys struct {
	Refresh key.Binding
	Done    key.Binding
	Cancel  key.Binding
}

func (k pickKeys) ShortHelp() []key.Binding  { return []key.Binding{k.Refresh, k.Done, k.Cancel} }
func (k pickKeys) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

func defaultPickKeys() pickKeys {
	return pickKeys{
		Refresh: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "refresh models")),
		Done:    key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "done")),
		Cancel:  key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "cancel")),
	}
}

// pickModel hosts the picker widget: it owns the selection, loads the
// catalog, and persists every change to the config file.
type pickModel struct {
	ctx       context.Context
	client    providers.CatalogClient
	configDir string
	cacheDir  string
	cfg       config.Config
	extra     []ai.ModelInfo
	environ   []string
	changes   <-chan config.Change
	logger    *slog.Logger

	catalog  ai.ProviderCatalog
	loaded   bool
	provider *ai.ProviderInfo
	model    string

	picker   picker.Model
	startCmd tea.Cmd
	keys     pickKeys
	help     help.Model
	width    int
	height   int
	toast    string
	errMsg   string
	done     bool
	canceled bool
}

type catalogLoadedMsg struct {
	catalog ai.ProviderCatalog
	err     error
}

type providerRefreshedMsg struct {
	entry ai.ProviderEntry
	err   error
}

type configChangedMsg struct {
	cfg   config.Config
	extra []ai.ModelInfo
	err   error
}

type configWatchClosedMsg struct{}

func newPickModel(opts pickOptions) pickModel {
	m := pickModel{
		ctx:       opts.ctx,
		client:    opts.client,
		configDir: opts.configDir,
		cacheDir:  opts.cacheDir,
		cfg:       opts.cfg,
		extra:     opts.extra,
		environ:   opts.environ,
		changes:   opts.changes,
		logger:    opts.logger,
		model:     opts.cfg.SelectedModel,
		picker:    picker.New(),
		keys:      defaultPickKeys(),
		help:      help.New(),
	}
	if m.ctx == nil {
		m.ctx = context.Background()
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	if name := opts.cfg.SelectedProvider; name != "" {
		m.provider = &ai.ProviderInfo{Name: name}
		if p, ok := providers.Lookup(name); ok {
			m.provider = &p
		}
	}

	// Built-in models are shown until the catalog arrives.
	list := enabledProviders(m.cfg)
	if m.provider == nil && len(list) > 0 {
		m.selectFirst(list, staticModels(list, m.extra))
	}
	m.startCmd = tea.Batch(
		m.picker.SetCatalog(list, staticModels(list, m.extra)),
		m.picker.SetSelection(m.provider, m.model),
		m.picker.SetLoading(picker.LoadingAll),
	)
	return m
}

// selectFirst applies the picker's provider-change rule to the first provider
// when nothing is stored yet.
func (m *pickModel) selectFirst(list []ai.ProviderInfo, models []ai.ModelInfo) {
	picker.SelectProvider(picker.Props{
		Providers:   list,
		Models:      models,
		SetProvider: func(p ai.ProviderInfo) { m.provider = &p },
		SetModel:    func(name string) { m.model = name },
	}, list[0].Name)
}

func (m pickModel) Init() tea.Cmd {
	return tea.Batch(
		m.startCmd,
		m.loadCatalogCmd(),
		m.waitForChange(),
	)
}

func (m pickModel) catalogOptions() providers.CatalogOptions {
	return catalogOptionsFor(m.cfg, m.extra, m.cfg.Environment(m.environ), m.cacheDir, m.logger)
}

func (m pickModel) loadCatalogCmd() tea.Cmd {
	client := m.client
	ctx := m.ctx
	opts := m.catalogOptions()

	return func() tea.Msg {
		catalog, err := client.LoadCatalog(ctx, opts)
		return catalogLoadedMsg{catalog: catalog, err: err}
	}
}

func (m pickModel) refreshCmd(name string) tea.Cmd {
	client := m.client
	ctx := m.ctx
	opts := m.catalogOptions()

	return func() tea.Msg {
		entry, err := client.RefreshProvider(ctx, name, opts)
		return providerRefreshedMsg{entry: entry, err: err}
	}
}

func (m pickModel) waitForChange() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	changes := m.changes
	configDir := m.configDir

	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return configWatchClosedMsg{}
		}
		cfg, err := config.LoadOrCreate(configDir)
		if err != nil {
			return configChangedMsg{err: err}
		}
		extra, err := config.LoadCustomModels(configDir)
		return configChangedMsg{cfg: cfg, extra: extra, err: err}
	}
}

func (m pickModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.picker.SetWidth(min(msg.Width-2, 100))
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Cancel):
			m.canceled = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Refresh):
			return m.refresh()
		case key.Matches(msg, m.keys.Done) && !m.picker.Open():
			m.done = true
			return m, tea.Quit
		}

	case catalogLoadedMsg:
		return m.applyCatalog(msg)

	case providerRefreshedMsg:
		loadingCmd := m.picker.SetLoading("")
		if msg.err != nil {
			m.errMsg = fmt.Sprintf("Refresh failed: %v", msg.err)
			return m, loadingCmd
		}
		m.catalog.Replace(msg.entry)
		m.errMsg = ""
		m.toast = fmt.Sprintf("Refreshed %s (%d models)", msg.entry.Provider.Name, len(msg.entry.Models))
		return m, tea.Batch(loadingCmd, m.picker.SetModels(m.catalog.Models()))

	case configChangedMsg:
		return m.applyConfig(msg)

	case configWatchClosedMsg:
		return m, nil

	case picker.ProviderSelectedMsg:
		p := msg.Provider
		m.provider = &p
		// A model from the previous provider never carries over. When the
		// new provider has no models yet the catalog load fills one in.
		if !offersModel(m.picker.Props().Models, p.Name, m.model) {
			m.model = ""
			if first, ok := ai.FirstModelFor(m.picker.Props().Models, p.Name); ok {
				m.model = first.Name
			}
		}
		m.logger.Debug("provider selected", "provider", p.Name)
		return m, tea.Batch(m.picker.SetSelection(m.provider, m.model), m.persist())

	case picker.ModelSelectedMsg:
		m.model = msg.Name
		m.logger.Debug("model selected", "model", msg.Name)
		return m, tea.Batch(m.picker.SetSelection(m.provider, m.model), m.persist())
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

func (m pickModel) refresh() (tea.Model, tea.Cmd) {
	if m.provider == nil || !m.loaded || m.picker.Props().Loading != "" {
		return m, nil
	}
	name := m.provider.Name
	if !m.cfg.Enabled(name) {
		return m, nil
	}
	m.toast = ""
	return m, tea.Batch(m.picker.SetLoading(name), m.refreshCmd(name))
}

func (m pickModel) applyCatalog(msg catalogLoadedMsg) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{m.picker.SetLoading("")}
	if msg.err != nil {
		m.errMsg = fmt.Sprintf("Loading models failed: %v", msg.err)
		m.logger.Error("load catalog", "err", msg.err)
		return m, tea.Batch(cmds...)
	}
	m.catalog = msg.catalog
	m.loaded = true
	m.errMsg = ""

	failed := 0
	for _, entry := range m.catalog.Entries {
		if entry.Error != "" {
			failed++
		}
	}
	m.toast = fmt.Sprintf("Loaded %d models from %d providers", len(m.catalog.Models()), len(m.catalog.Entries))
	if failed > 0 {
		m.toast += fmt.Sprintf(" (%d using built-in lists)", failed)
	}

	cmds = append(cmds, m.picker.SetCatalog(m.catalog.Providers(), m.catalog.Models()))
	if m.provider != nil && m.modelStale() {
		next := ""
		if first, ok := ai.FirstModelFor(m.catalog.Models(), m.provider.Name); ok {
			next = first.Name
		}
		if next != m.model {
			m.model = next
			cmds = append(cmds, m.picker.SetSelection(m.provider, m.model), m.persist())
		}
	}
	return m, tea.Batch(cmds...)
}

// modelStale reports whether the current model has to be replaced after a
// catalog load: it is unset, or the provider listed its models successfully
// and the model is not among them. A provider showing its built-in list
// after a failed fetch keeps the stored model.
func (m pickModel) modelStale() bool {
	if m.model == "" {
		return true
	}
	if offersModel(m.catalog.Models(), m.provider.Name, m.model) {
		return false
	}
	entry, ok := m.catalog.Entry(m.provider.Name)
	return ok && entry.Error == ""
}

func offersModel(models []ai.ModelInfo, provider, name string) bool {
	if name == "" {
		return false
	}
	for _, model := range models {
		if model.Provider == provider && model.Name == name {
			return true
		}
	}
	return false
}

// applyConfig adopts an edited config file. Echoes of our own saves change
// nothing.
func (m pickModel) applyConfig(msg configChangedMsg) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{m.waitForChange()}
	if msg.err != nil {
		m.errMsg = fmt.Sprintf("Config reload failed: %v", msg.err)
		return m, tea.Batch(cmds...)
	}

	prev := m.cfg
	m.cfg = msg.cfg

	if msg.cfg.SelectedProvider != m.providerName() || msg.cfg.SelectedModel != m.model {
		m.model = msg.cfg.SelectedModel
		m.provider = nil
		if name := msg.cfg.SelectedProvider; name != "" {
			m.provider = &ai.ProviderInfo{Name: name}
			if p, ok := providers.Lookup(name); ok {
				m.provider = &p
			}
		}
		cmds = append(cmds, m.picker.SetSelection(m.provider, m.model))
	}

	reload := !slices.Equal(prev.EnabledProviders, msg.cfg.EnabledProviders) ||
		!maps.Equal(prev.BaseURLs, msg.cfg.BaseURLs) ||
		!maps.Equal(prev.Env, msg.cfg.Env) ||
		!slices.Equal(m.extra, msg.extra)
	m.extra = msg.extra
	if !reload {
		return m, tea.Batch(cmds...)
	}

	m.logger.Info("config changed, reloading catalog", "enabled", msg.cfg.EnabledProviders)
	m.toast = "Config changed, reloading models"
	list := enabledProviders(m.cfg)
	cmds = append(cmds,
		m.picker.SetProviders(list),
		m.picker.SetLoading(picker.LoadingAll),
		m.loadCatalogCmd(),
	)
	return m, tea.Batch(cmds...)
}

// persist writes the selection synchronously so consecutive provider and model
// changes land on disk in order.
func (m *pickModel) persist() tea.Cmd {
	m.cfg.SelectedProvider = m.providerName()
	m.cfg.SelectedModel = m.model
	if m.configDir == "" {
		return nil
	}
	if err := config.Save(m.configDir, m.cfg); err != nil {
		m.errMsg = fmt.Sprintf("Saving selection failed: %v", err)
		m.logger.Error("save selection", "err", err)
	}
	return nil
}

func (m pickModel) providerName() string {
	if m.provider == nil {
		return ""
	}
	return m.provider.Name
}

// Selection returns the chosen provider and model names.
func (m pickModel) Selection() (string, string) {
	return m.providerName(), m.model
}

func (m pickModel) View() string {
	if m.done || m.canceled {
		return ""
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	toastStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warnStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	lines := []string{
		titleStyle.Render("llmpick") + dimStyle.Render("  choose a provider and model"),
		"",
		m.picker.View(),
		"",
	}
	if note := m.providerNote(); note != "" {
		lines = append(lines, warnStyle.Render(note))
	}
	switch {
	case m.errMsg != "":
		lines = append(lines, errStyle.Render(m.errMsg))
	case m.toast != "":
		lines = append(lines, toastStyle.Render(m.toast))
	}
	lines = append(lines, m.help.View(m.keys))

	return lipgloss.NewStyle().Padding(1, 1).Render(strings.Join(lines, "\n"))
}

// providerNote explains why the current provider only lists built-in models.
func (m pickModel) providerNote() string {
	if m.provider == nil {
		return ""
	}
	entry, ok := m.catalog.Entry(m.provider.Name)
	if !ok || entry.Error == "" {
		return ""
	}
	if !entry.HasCredentials && len(entry.Provider.EnvKeys) > 0 {
		note := fmt.Sprintf("%s: set %s to list live models", entry.Provider.Title, entry.Provider.EnvKeys[0])
		if entry.Provider.APIKeyURL != "" {
			note += " (" + entry.Provider.APIKeyURL + ")"
		}
		return note
	}
	return fmt.Sprintf("%s: %s", entry.Provider.Title, entry.Error)
}
