package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/rooterworks/rmetrack/internal/format"
	"github.com/rooterworks/rmetrack/internal/history"
	"github.com/rooterworks/rmetrack/internal/identity"
	"github.com/rooterworks/rmetrack/internal/rme"
	"github.com/rooterworks/rmetrack/internal/workorder"
)

type historyState int

const (
	historyBrowse historyState = iota
	historyConfirmRestore
	historyConfirmPurge
)

type HistoryModel struct {
	CommonModel
	svc   *history.Service
	cache *workorder.Cache
	user  identity.User

	state    historyState
	table    table.Model
	rows     []rme.Row
	selected map[string]struct{}

	form    *huh.Form
	confirm bool

	loading bool
	err     error
	status  string
}

func NewHistoryModel(svc *history.Service, cache *workorder.Cache, user identity.User) HistoryModel {
	columns := []table.Column{
		{Title: "Sel", Width: 4},
		{Title: "WO #", Width: 10},
		{Title: "Tech", Width: 14},
		{Title: "Address", Width: 34},
		{Title: "Deleted By", Width: 20},
		{Title: "Deleted", Width: 20},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return HistoryModel{
		svc:      svc,
		cache:    cache,
		user:     user,
		table:    t,
		selected: make(map[string]struct{}),
		loading:  true,
	}
}

func (m HistoryModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.rows = msg.rows
		m.refreshTable()

		return m, nil

	case historyBatchMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("%s failed: %v", msg.verb, msg.err)
			return m, nil
		}

		m.status = msg.batch.Summary(msg.verb)
		m.selected = make(map[string]struct{})
		m.cache.Invalidate()

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	if m.state == historyBrowse {
		return m.updateBrowse(msg)
	}

	return m.updateConfirm(msg)
}

func (m HistoryModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok && !m.loading {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			m.cache.Invalidate()

			return m, m.loadCmd()
		case " ":
			if row, ok := m.cursorRow(); ok {
				if _, sel := m.selected[row.ID]; sel {
					delete(m.selected, row.ID)
				} else {
					m.selected[row.ID] = struct{}{}
				}
				m.refreshTable()
			}

			return m, nil
		case "R":
			if len(m.selectedIDs()) == 0 {
				m.status = "Select rows with space first"
				return m, nil
			}

			return m.enterConfirm(historyConfirmRestore)
		case "P":
			if len(m.selectedIDs()) == 0 {
				m.status = "Select rows with space first"
				return m, nil
			}

			return m.enterConfirm(historyConfirmPurge)
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m HistoryModel) cursorRow() (rme.Row, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.rows) {
		return rme.Row{}, false
	}

	return m.rows[idx], true
}

func (m HistoryModel) selectedIDs() []string {
	ids := make([]string, 0, len(m.selected))

	for _, row := range m.rows {
		if _, ok := m.selected[row.ID]; ok {
			ids = append(ids, row.ID)
		}
	}

	return ids
}

func (m HistoryModel) enterConfirm(state historyState) (tea.Model, tea.Cmd) {
	count := len(m.selectedIDs())
	m.confirm = false

	title := fmt.Sprintf("Restore %d record(s)?", count)
	desc := "They return to the active stages."

	if state == historyConfirmPurge {
		// Permanent deletion gets distinctly louder copy than a restore or
		// a move to History.
		title = fmt.Sprintf("PERMANENTLY delete %d record(s)?", count)
		desc = "This cannot be undone. The records are erased, not hidden."
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("confirm").
				Title(title).
				Description(desc).
				Value(&m.confirm),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = state
	m.table.Blur()

	return m, m.form.Init()
}

func (m HistoryModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = historyBrowse
			m.form = nil
			m.table.Focus()

			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	state := m.state
	m.state = historyBrowse
	m.form = nil
	m.table.Focus()

	if !m.confirm {
		return m, nil
	}

	m.loading = true

	if state == historyConfirmPurge {
		return m, m.purgeCmd(m.selectedIDs())
	}

	return m, m.restoreCmd(m.selectedIDs())
}

func (m HistoryModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading history...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	help := lipgloss.NewStyle().Faint(true).
		Render("space: select | R: restore | P: permanently delete | r: refresh | esc: back")

	content := lipgloss.JoinVertical(lipgloss.Left, tableView, help)

	if m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(54).
			Render(m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *HistoryModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.rows))

	for _, row := range m.rows {
		sel := ""
		if _, ok := m.selected[row.ID]; ok {
			sel = "*"
		}

		rows = append(rows, table.Row{
			sel,
			row.WONumber,
			row.Technician,
			row.FullAddress,
			row.DeletedBy,
			format.FormatDateTime(row.DeletedDate),
		})
	}

	m.table.SetRows(rows)

	if cursor := m.table.Cursor(); cursor >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

// Messages

type historyLoadedMsg struct {
	rows []rme.Row
	err  error
}

func (m HistoryModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := ReqCtx()
		defer cancel()

		records, err := m.cache.Deleted(ctx)
		if err != nil {
			return historyLoadedMsg{err: err}
		}

		return historyLoadedMsg{rows: rme.DecorateHistory(records, time.Now())}
	}
}

type historyBatchMsg struct {
	batch *history.BatchResult
	verb  string
	err   error
}

func (m HistoryModel) restoreCmd(ids []string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := ReqCtx()
		defer cancel()

		batch, err := m.svc.Restore(ctx, m.user, ids)

		return historyBatchMsg{batch: batch, verb: "restored", err: err}
	}
}

func (m HistoryModel) purgeCmd(ids []string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := ReqCtx()
		defer cancel()

		batch, err := m.svc.PermanentDelete(ctx, m.user, ids)

		return historyBatchMsg{batch: batch, verb: "permanently deleted", err: err}
	}
}
