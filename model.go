package main

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type ViewMode int

const (
	ListView ViewMode = iota
	DetailView
)

type InputMode int

const (
	NoInput InputMode = iota
	SearchInput
	DateFromInput
	DateToInput
)

// Tab couples one dataset with its display state: how much of the view
// has been handed to the list so far, the cursor, and the column the
// sort shortcut targets.
type Tab struct {
	spec    TabSpec
	dataset *Dataset
	loading bool
	loadErr error

	rendered     int
	selectedIdx  int
	scrollOffset int
	selectedCol  int
}

// resetPage rewinds incremental rendering after a filter or sort
// change, loading the first page of the new view.
func (t *Tab) resetPage(window PageWindow) {
	t.rendered = len(window.Slice(t.dataset.Visible(), 0))
	t.selectedIdx = 0
	t.scrollOffset = 0
}

// loadMore appends the next page to the rendered range.
func (t *Tab) loadMore(window PageWindow) int {
	n := len(window.Slice(t.dataset.Visible(), t.rendered))
	t.rendered += n
	return n
}

func (t *Tab) rows() []*Record {
	visible := t.dataset.Visible()
	if t.rendered > len(visible) {
		t.rendered = len(visible)
	}
	return visible[:t.rendered]
}

type tabLoadedMsg struct {
	index   int
	dataset *Dataset
	err     error
}

type Model struct {
	config  *Config
	window  PageWindow
	initial FilterState
	follow  bool

	tabs      []*Tab
	activeTab int

	searchInput textinput.Model
	fromInput   textinput.Model
	toInput     textinput.Model
	inputMode   InputMode
	viewMode    ViewMode

	width     int
	height    int
	statusMsg string

	headerStyle    lipgloss.Style
	tabStyle       lipgloss.Style
	activeTabStyle lipgloss.Style
	colHeaderStyle lipgloss.Style
	selectedStyle  lipgloss.Style
	statusStyle    lipgloss.Style
	helpStyle      lipgloss.Style
	levelStyles    map[string]lipgloss.Style
}

func NewModel(config *Config, specs []TabSpec, initial FilterState, follow bool) *Model {
	searchInput := textinput.New()
	searchInput.Placeholder = "search term"
	searchInput.CharLimit = 256

	fromInput := textinput.New()
	fromInput.Placeholder = "from (empty = open)"
	fromInput.CharLimit = 64

	toInput := textinput.New()
	toInput.Placeholder = "to (empty = open)"
	toInput.CharLimit = 64

	levelStyles := make(map[string]lipgloss.Style, len(config.LevelColors))
	for level, color := range config.LevelColors {
		levelStyles[level] = lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	}

	m := &Model{
		config:      config,
		window:      PageWindow{PageSize: config.PageSize},
		initial:     initial,
		follow:      follow,
		searchInput: searchInput,
		fromInput:   fromInput,
		toInput:     toInput,

		headerStyle: lipgloss.NewStyle().
			Background(lipgloss.Color("238")).
			Foreground(lipgloss.Color("252")).
			Padding(0, 1),
		tabStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Padding(0, 1),
		activeTabStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("117")).
			Bold(true).
			Padding(0, 1),
		colHeaderStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("14")).
			Bold(true).
			Underline(true),
		selectedStyle: lipgloss.NewStyle().
			Background(lipgloss.Color("237")).
			Foreground(lipgloss.Color("117")),
		statusStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236")).
			Padding(0, 1),
		helpStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			Italic(true),
		levelStyles: levelStyles,
	}

	for _, spec := range specs {
		m.tabs = append(m.tabs, &Tab{spec: spec, loading: true})
	}
	return m
}

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	for i, tab := range m.tabs {
		cmds = append(cmds, loadTabCmd(i, tab.spec))
	}
	return tea.Batch(cmds...)
}

// loadTabCmd parses a tab's input off the UI goroutine and hands the
// finished dataset over as one message; a batch is never visible
// half-parsed.
func loadTabCmd(index int, spec TabSpec) tea.Cmd {
	if spec.Stdin {
		return loadStdinCmd(index)
	}
	return func() tea.Msg {
		var (
			ds  *Dataset
			err error
		)
		if len(spec.Files) > 1 {
			ds, err = LoadFiles(spec.Files)
		} else {
			ds, err = LoadFile(spec.Files[0])
		}
		return tabLoadedMsg{index: index, dataset: ds, err: err}
	}
}

func (m *Model) currentTab() *Tab {
	if len(m.tabs) == 0 || m.activeTab >= len(m.tabs) {
		return nil
	}
	return m.tabs[m.activeTab]
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tabLoadedMsg:
		if msg.index >= len(m.tabs) {
			return m, nil
		}
		tab := m.tabs[msg.index]
		tab.loading = false
		if msg.err != nil {
			tab.loadErr = msg.err
			return m, nil
		}
		tab.dataset = msg.dataset
		m.applyInitialFilter(tab)
		tab.resetPage(m.window)
		if m.follow && !tab.spec.Stdin && len(tab.spec.Files) == 1 {
			path := tab.spec.Files[0]
			offset := int64(0)
			if info, err := os.Stat(path); err == nil {
				offset = info.Size()
			}
			return m, followCmd(msg.index, path, offset)
		}
		return m, nil

	case recordsAppendedMsg:
		if msg.index >= len(m.tabs) {
			return m, nil
		}
		tab := m.tabs[msg.index]
		if tab.dataset != nil && len(msg.records) > 0 {
			tab.dataset.Merge(msg.records, msg.skipped)
		}
		return m, followCmd(msg.index, tab.spec.Files[0], msg.offset)

	case followTickMsg:
		return m, followCmd(msg.index, msg.path, msg.offset)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateInputs(msg)
}

// applyInitialFilter pushes the CLI-provided filter configuration into
// a freshly loaded dataset.
func (m *Model) applyInitialFilter(tab *Tab) {
	if m.initial.Level != "" && m.initial.Level != LevelAll {
		tab.dataset.SetLevelThreshold(m.initial.Level)
	}
	if len(m.initial.Terms) > 0 {
		tab.dataset.SetSearch(m.initial.Terms, m.initial.Logic)
	}
	if m.initial.From != nil || m.initial.To != nil {
		if err := tab.dataset.ApplyDateRange(m.initial.From, m.initial.To); err != nil {
			m.statusMsg = err.Error()
		}
	}
}

func (m *Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.inputMode {
	case SearchInput:
		m.searchInput, cmd = m.searchInput.Update(msg)
	case DateFromInput:
		m.fromInput, cmd = m.fromInput.Update(msg)
	case DateToInput:
		m.toInput, cmd = m.toInput.Update(msg)
	}
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.viewMode == DetailView {
		switch msg.String() {
		case "esc", "q", "enter":
			m.viewMode = ListView
		}
		return m, nil
	}

	if m.inputMode != NoInput {
		return m.handleInputKey(msg)
	}

	tab := m.currentTab()

	switch msg.String() {
	case "q", "ctrl+c":
		m.saveSession()
		return m, tea.Quit

	case "tab", "]":
		if len(m.tabs) > 0 {
			m.activeTab = (m.activeTab + 1) % len(m.tabs)
		}
		return m, nil

	case "shift+tab", "[":
		if len(m.tabs) > 0 {
			m.activeTab = (m.activeTab - 1 + len(m.tabs)) % len(m.tabs)
		}
		return m, nil

	case "/":
		m.inputMode = SearchInput
		m.searchInput.Focus()
		return m, textinput.Blink

	case "d":
		m.inputMode = DateFromInput
		m.fromInput.Focus()
		return m, textinput.Blink
	}

	if tab == nil || tab.dataset == nil {
		return m, nil
	}

	switch msg.String() {
	case "c":
		m.clearSearch(tab)

	case "o":
		f := tab.dataset.Filter()
		logic := SearchAnd
		if f.Logic == SearchAnd {
			logic = SearchOr
		}
		tab.dataset.SetSearch(f.Terms, logic)
		tab.resetPage(m.window)

	case "l":
		m.cycleLevel(tab)

	case "x":
		tab.dataset.ClearDateRange()
		tab.resetPage(m.window)
		m.statusMsg = "date filter cleared"

	case "left", "h":
		if tab.selectedCol > 0 {
			tab.selectedCol--
		}

	case "right":
		if tab.selectedCol < len(m.displayColumns(tab))-1 {
			tab.selectedCol++
		}

	case "s":
		cols := m.displayColumns(tab)
		if tab.selectedCol < len(cols) {
			tab.dataset.SortBy(cols[tab.selectedCol])
			tab.resetPage(m.window)
		}

	case "up", "k":
		if tab.selectedIdx > 0 {
			tab.selectedIdx--
			m.adjustScroll(tab)
		}

	case "down", "j":
		m.moveDown(tab)

	case "pgdown":
		for i := 0; i < m.listHeight(); i++ {
			m.moveDown(tab)
		}

	case "pgup":
		tab.selectedIdx -= m.listHeight()
		if tab.selectedIdx < 0 {
			tab.selectedIdx = 0
		}
		m.adjustScroll(tab)

	case "g", "home":
		tab.selectedIdx = 0
		tab.scrollOffset = 0

	case "G", "end":
		tab.selectedIdx = len(tab.rows()) - 1
		if tab.selectedIdx < 0 {
			tab.selectedIdx = 0
		}
		m.adjustScroll(tab)

	case "m":
		if n := tab.loadMore(m.window); n > 0 {
			m.statusMsg = fmt.Sprintf("loaded %d more", n)
		}

	case "e":
		m.export(tab, "jsonl")

	case "E":
		m.export(tab, "csv")

	case "enter":
		if len(tab.rows()) > 0 {
			m.viewMode = DetailView
		}
	}

	return m, nil
}

func (m *Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.blurInputs()
		return m, nil

	case "enter":
		switch m.inputMode {
		case SearchInput:
			m.commitSearch()
		case DateFromInput:
			m.fromInput.Blur()
			m.inputMode = DateToInput
			m.toInput.Focus()
			return m, textinput.Blink
		case DateToInput:
			m.commitDateRange()
		}
		return m, nil
	}
	return m.updateInputs(msg)
}

func (m *Model) blurInputs() {
	m.searchInput.Blur()
	m.fromInput.Blur()
	m.toInput.Blur()
	m.inputMode = NoInput
}

// commitSearch stacks the entered term onto the tab's term list.
func (m *Model) commitSearch() {
	term := m.searchInput.Value()
	m.searchInput.SetValue("")
	m.blurInputs()

	tab := m.currentTab()
	if tab == nil || tab.dataset == nil {
		return
	}
	f := tab.dataset.Filter()
	tab.dataset.SetSearch(append(f.Terms, term), f.Logic)
	tab.resetPage(m.window)
}

// clearSearch drops all search terms but keeps the previously-selected
// record visible and selected when it survives into the wider view.
func (m *Model) clearSearch(tab *Tab) {
	rows := tab.rows()
	var selected *Record
	if tab.selectedIdx < len(rows) {
		selected = rows[tab.selectedIdx]
	}

	f := tab.dataset.Filter()
	tab.dataset.SetSearch(nil, f.Logic)
	tab.resetPage(m.window)

	if idx := FindAndReveal(tab.dataset.Visible(), selected); idx >= 0 {
		for tab.rendered <= idx {
			if tab.loadMore(m.window) == 0 {
				break
			}
		}
		tab.selectedIdx = idx
		m.adjustScroll(tab)
	}
}

func (m *Model) cycleLevel(tab *Tab) {
	current := tab.dataset.Filter().Level
	next := levelThresholds[0]
	for i, lvl := range levelThresholds {
		if lvl == current {
			next = levelThresholds[(i+1)%len(levelThresholds)]
			break
		}
	}
	tab.dataset.SetLevelThreshold(next)
	tab.resetPage(m.window)
}

func (m *Model) commitDateRange() {
	m.blurInputs()
	tab := m.currentTab()
	if tab == nil || tab.dataset == nil {
		return
	}

	from, ok := parseBound(m.fromInput.Value())
	if !ok {
		m.statusMsg = "invalid 'from' timestamp"
		return
	}
	to, ok := parseBound(m.toInput.Value())
	if !ok {
		m.statusMsg = "invalid 'to' timestamp"
		return
	}

	if err := tab.dataset.ApplyDateRange(from, to); err != nil {
		m.statusMsg = err.Error()
		return
	}
	tab.resetPage(m.window)
	m.statusMsg = "date filter applied"
}

// parseBound turns an optional input value into a range bound. Empty
// means "open end"; a non-empty value must parse.
func parseBound(value string) (*time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, true
	}
	t, ok := parseTimestamp(value)
	if !ok {
		return nil, false
	}
	return &t, true
}

func (m *Model) moveDown(tab *Tab) {
	rows := tab.rows()
	if tab.selectedIdx < len(rows)-1 {
		tab.selectedIdx++
		m.adjustScroll(tab)
		return
	}
	// At the bottom of the rendered range: pull in the next page.
	if tab.loadMore(m.window) > 0 {
		tab.selectedIdx++
		m.adjustScroll(tab)
	}
}

func (m *Model) adjustScroll(tab *Tab) {
	height := m.listHeight()
	if tab.selectedIdx < tab.scrollOffset {
		tab.scrollOffset = tab.selectedIdx
	} else if tab.selectedIdx >= tab.scrollOffset+height {
		tab.scrollOffset = tab.selectedIdx - height + 1
	}
}

func (m *Model) listHeight() int {
	// Header, filter line, column header, load-more line, status, help.
	h := m.height - 6
	if h < 1 {
		h = 1
	}
	return h
}

func (m *Model) export(tab *Tab, format string) {
	records := tab.dataset.Visible()
	path := fmt.Sprintf("loupe-export-%s.%s", time.Now().Format("20060102-150405"), format)
	if err := ExportToFile(path, records, tab.dataset.Catalog().Columns()); err != nil {
		m.statusMsg = "export failed: " + err.Error()
		return
	}
	m.statusMsg = fmt.Sprintf("exported %d records to %s", len(records), path)
}

func (m *Model) saveSession() {
	session := &Session{}
	for _, tab := range m.tabs {
		if tab.spec.Stdin {
			continue
		}
		kind := "single"
		if len(tab.spec.Files) > 1 {
			kind = "merged"
		}
		session.Tabs = append(session.Tabs, SessionTab{Type: kind, Files: tab.spec.Files})
	}
	if err := session.Save(); err != nil {
		m.statusMsg = "session save failed: " + err.Error()
	}
}

// displayColumns narrows the catalog to the preferred visible columns,
// falling back to the full catalog when none of them are present.
func (m *Model) displayColumns(tab *Tab) []string {
	catalog := tab.dataset.Catalog().Columns()
	var cols []string
	for _, col := range m.config.VisibleColumns {
		if slices.Contains(catalog, col) {
			cols = append(cols, col)
		}
	}
	if len(cols) == 0 {
		cols = catalog
	}
	return cols
}

func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.renderTabBar() + "\n")
	b.WriteString(m.renderFilterLine() + "\n")

	tab := m.currentTab()
	switch {
	case tab == nil:
		b.WriteString("No files loaded. Run: loupe <file.jsonl> [more files...]\n")
	case tab.loading:
		source := strings.Join(tab.spec.Files, ", ")
		if tab.spec.Stdin {
			source = "stdin"
		}
		b.WriteString(fmt.Sprintf("Loading %s...\n", source))
	case tab.loadErr != nil:
		b.WriteString("Load failed: " + tab.loadErr.Error() + "\n")
	case m.viewMode == DetailView:
		b.WriteString(m.renderDetail(tab))
	default:
		b.WriteString(m.renderList(tab))
	}

	b.WriteString(m.renderStatus(tab) + "\n")
	b.WriteString(m.helpStyle.Render(
		"j/k=move  /=search  c=clear  o=AND/OR  l=level  d=date  x=clear date  " +
			"h/→=column  s=sort  m=more  e/E=export  tab=next tab  q=quit"))
	return b.String()
}

func (m *Model) renderTabBar() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("117")).Render("loupe")
	parts := []string{title}
	for i, tab := range m.tabs {
		name := mergedTitle(tab.spec.Files)
		if tab.spec.Stdin {
			name = "stdin"
		}
		if tab.dataset != nil {
			name = tab.dataset.Title
		}
		if tab.loading {
			name += " (loading)"
		}
		style := m.tabStyle
		if i == m.activeTab {
			style = m.activeTabStyle
		}
		parts = append(parts, style.Render(name))
	}
	return m.headerStyle.Width(m.width).Render(strings.Join(parts, " "))
}

func (m *Model) renderFilterLine() string {
	switch m.inputMode {
	case SearchInput:
		return "Search: " + m.searchInput.View()
	case DateFromInput, DateToInput:
		return "From: " + m.fromInput.View() + "  To: " + m.toInput.View()
	}

	tab := m.currentTab()
	if tab == nil || tab.dataset == nil {
		return ""
	}
	f := tab.dataset.Filter()
	parts := []string{"Level: " + displayLevel(f.Level)}
	if len(f.Terms) > 0 {
		parts = append(parts, fmt.Sprintf("Search (%s): %s", f.Logic, strings.Join(f.Terms, ", ")))
	}
	if f.From != nil || f.To != nil {
		parts = append(parts, describeDateRange(f.From, f.To))
	}
	return m.helpStyle.Render(strings.Join(parts, "  |  "))
}

func displayLevel(level string) string {
	if level == "" {
		return LevelAll
	}
	return level
}

func (m *Model) renderList(tab *Tab) string {
	cols := m.displayColumns(tab)
	var b strings.Builder
	b.WriteString(m.renderColumnHeader(tab, cols) + "\n")

	rows := tab.rows()
	height := m.listHeight()
	for i := tab.scrollOffset; i < tab.scrollOffset+height && i < len(rows); i++ {
		var line string
		if i == tab.selectedIdx {
			line = m.selectedStyle.Render("> " + m.formatRowPlain(rows[i], cols))
		} else {
			line = "  " + m.formatRow(rows[i], cols)
		}
		b.WriteString(line + "\n")
	}

	if len(rows) == 0 {
		b.WriteString(m.helpStyle.Render("  No log entries match current filters...") + "\n")
	}
	if remaining := m.window.Remaining(tab.dataset.Visible(), tab.rendered); remaining > 0 {
		b.WriteString(m.helpStyle.Render(fmt.Sprintf("  ⬇ %d more (press m or scroll)", remaining)) + "\n")
	}
	return b.String()
}

func (m *Model) renderColumnHeader(tab *Tab, cols []string) string {
	sortState := tab.dataset.Sort()
	parts := make([]string, len(cols))
	for i, col := range cols {
		label := col
		if col == sortState.Key {
			if sortState.Descending {
				label += " ▼"
			} else {
				label += " ▲"
			}
		}
		if i == tab.selectedCol {
			label = "[" + label + "]"
		}
		parts[i] = m.colHeaderStyle.Render(pad(label, m.columnWidth(col, len(cols))))
	}
	return "  " + strings.Join(parts, " ")
}

// formatRow renders one record across the display columns, coloring
// the level cell by severity.
func (m *Model) formatRow(rec *Record, cols []string) string {
	parts := make([]string, len(cols))
	for i, col := range cols {
		value := pad(rec.FieldString(col), m.columnWidth(col, len(cols)))
		if col == "level" {
			if style, ok := m.levelStyles[strings.ToLower(rec.FieldString("level"))]; ok {
				value = style.Render(value)
			}
		}
		parts[i] = value
	}
	return strings.Join(parts, " ")
}

// formatRowPlain is the uncolored variant used under the selection
// highlight, which supplies its own styling.
func (m *Model) formatRowPlain(rec *Record, cols []string) string {
	parts := make([]string, len(cols))
	for i, col := range cols {
		parts[i] = pad(rec.FieldString(col), m.columnWidth(col, len(cols)))
	}
	return strings.Join(parts, " ")
}

func (m *Model) columnWidth(col string, count int) int {
	switch col {
	case "time":
		return 24
	case "level":
		return 7
	case "message":
		w := m.width - 34 - (count-2)*19
		if w < 20 {
			w = 20
		}
		return w
	default:
		return 18
	}
}

func pad(s string, width int) string {
	runes := []rune(s)
	if len(runes) > width {
		if width > 3 {
			return string(runes[:width-3]) + "..."
		}
		return string(runes[:width])
	}
	return s + strings.Repeat(" ", width-len(runes))
}

func (m *Model) renderDetail(tab *Tab) string {
	rows := tab.rows()
	if tab.selectedIdx >= len(rows) {
		return "No log entry selected\n"
	}
	rec := rows[tab.selectedIdx]

	var b strings.Builder
	b.WriteString(m.colHeaderStyle.Render("LOG ENTRY DETAILS") + "\n\n")
	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("243")).Bold(true)
	for _, key := range rec.Keys() {
		value := rec.FieldString(key)
		if key == "level" {
			if style, ok := m.levelStyles[strings.ToLower(value)]; ok {
				value = style.Render(value)
			}
		}
		b.WriteString(fmt.Sprintf("%s %s\n", keyStyle.Render(pad(key+":", 16)), value))
	}
	b.WriteString("\n" + m.helpStyle.Render("Press ESC to go back") + "\n")
	return b.String()
}

func (m *Model) renderStatus(tab *Tab) string {
	if tab == nil || tab.dataset == nil {
		return m.statusStyle.Width(m.width).Render(m.statusMsg)
	}

	st := tab.dataset.Status()
	var parts []string
	if st.Filtered {
		parts = append(parts, fmt.Sprintf("Found %d of %d log entries (showing first %d)",
			st.Shown, st.Total, min(tab.rendered, st.Shown)))
	} else {
		parts = append(parts, fmt.Sprintf("Showing %d of %d log entries",
			min(tab.rendered, st.Shown), st.Total))
	}
	parts = append(parts, st.Descriptions...)
	if tab.dataset.Skipped > 0 {
		parts = append(parts, fmt.Sprintf("%d malformed lines skipped", tab.dataset.Skipped))
	}
	if m.statusMsg != "" {
		parts = append(parts, m.statusMsg)
	}
	return m.statusStyle.Width(m.width).Render(strings.Join(parts, " | "))
}
