package view

import (
	"fmt"
	"strings"
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

type stagesState int

const (
	stagesBrowse stagesState = iota
	stagesReason
	stagesConfirmDelete
)

var stageTabs = []workorder.Stage{
	workorder.StageReportNeeded,
	workorder.StageReportSubmitted,
	workorder.StageHolding,
	workorder.StageFinalized,
}

var stageTitles = []string{"Report Needed", "Report Submitted", "Holding", "Finalized"}

type StagesModel struct {
	CommonModel
	rmeSvc  *rme.Service
	histSvc *history.Service
	cache   *workorder.Cache
	user    identity.User

	pending *rme.PendingActions
	buckets rme.Buckets

	state    stagesState
	stageIdx int
	table    table.Model

	form       *huh.Form
	formReason string
	formNotes  string
	formRowID  string
	confirmDel bool

	loading bool
	err     error
	status  string
}

func NewStagesModel(rmeSvc *rme.Service, histSvc *history.Service, cache *workorder.Cache, user identity.User) StagesModel {
	columns := []table.Column{
		{Title: "Sel", Width: 4},
		{Title: "WO #", Width: 10},
		{Title: "Tech", Width: 14},
		{Title: "Street", Width: 26},
		{Title: "Scheduled", Width: 20},
		{Title: "Age", Width: 6},
		{Title: "Info", Width: 20},
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

	return StagesModel{
		rmeSvc:  rmeSvc,
		histSvc: histSvc,
		cache:   cache,
		user:    user,
		pending: rme.NewPendingActions(),
		table:   t,
		loading: true,
	}
}

func (m StagesModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m StagesModel) stage() workorder.Stage {
	return stageTabs[m.stageIdx]
}

func (m StagesModel) rows() []rme.Row {
	switch m.stage() {
	case workorder.StageReportNeeded:
		return m.buckets.ReportNeeded
	case workorder.StageReportSubmitted:
		return m.buckets.ReportSubmitted
	case workorder.StageHolding:
		return m.buckets.Holding
	default:
		return m.buckets.Finalized
	}
}

func (m StagesModel) cursorRow() (rme.Row, bool) {
	rows := m.rows()

	idx := m.table.Cursor()
	if idx < 0 || idx >= len(rows) {
		return rme.Row{}, false
	}

	return rows[idx], true
}

func (m StagesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stagesLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.buckets = msg.buckets
		m.refreshTable()

		return m, nil

	case stagesSavedMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Save failed: %v", msg.err)
			return m, nil
		}

		m.status = msg.report.Summary()
		m.pending.Reset()
		m.cache.Invalidate()

		return m, m.loadCmd()

	case stagesDeletedMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Move to history failed: %v", msg.err)
			return m, nil
		}

		m.status = msg.batch.Summary("moved to history")
		m.pending.Reset()
		m.cache.Invalidate()

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case stagesBrowse:
		return m.updateBrowse(msg)
	case stagesReason:
		return m.updateReason(msg)
	case stagesConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	return m, nil
}

func (m StagesModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok && !m.loading {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			m.cache.Invalidate()

			return m, m.loadCmd()
		case "1", "2", "3", "4":
			m.stageIdx = int(keyMsg.String()[0] - '1')
			m.refreshTable()

			return m, nil
		case " ":
			if row, ok := m.cursorRow(); ok {
				m.pending.ToggleSelect(m.stage(), row.ID)
				m.refreshTable()
			}

			return m, nil
		case "t":
			if row, ok := m.cursorRow(); ok && m.actionable() {
				on, staged := m.pending.TechReport(row.ID)
				if staged {
					m.pending.SetTechReport(row.ID, !on)
				} else {
					m.pending.SetTechReport(row.ID, !row.TechReportSubmitted)
				}
				m.refreshTable()
			}

			return m, nil
		case "l":
			if row, ok := m.cursorRow(); ok && m.actionable() {
				m.pending.SetLocked(row.ID, !m.pending.Locked(row.ID))
				m.refreshTable()
			}

			return m, nil
		case "w":
			if row, ok := m.cursorRow(); ok && m.actionable() {
				if m.pending.WaitToLock(row.ID) {
					m.pending.SetWaitToLock(row.ID, false)
					m.refreshTable()

					return m, nil
				}

				m.pending.SetWaitToLock(row.ID, true)
				m.refreshTable()

				return m.enterReasonForm(row.ID)
			}

			return m, nil
		case "x":
			if row, ok := m.cursorRow(); ok && m.actionable() {
				m.pending.SetDelete(row.ID, !m.pending.Delete(row.ID))
				m.refreshTable()
			}

			return m, nil
		case "S":
			if !m.pending.HasPending() {
				m.status = "Nothing staged to save"
				return m, nil
			}

			m.loading = true

			return m, m.saveCmd()
		case "d":
			ids := m.pending.Selection(m.stage(), m.rows())
			if len(ids) == 0 {
				m.status = "Select rows with space first"
				return m, nil
			}

			return m.enterConfirmDelete(len(ids))
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

// actionable reports whether row-level workflow toggles apply to the current
// stage. Lock, hold and delete are staged from the first two stages only.
func (m StagesModel) actionable() bool {
	return m.stage() == workorder.StageReportNeeded || m.stage() == workorder.StageReportSubmitted
}

func (m StagesModel) enterReasonForm(rowID string) (tea.Model, tea.Cmd) {
	d := m.pending.Details(rowID)
	m.formReason = d.Reason
	m.formNotes = d.Notes
	m.formRowID = rowID

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("reason").
				Title("Reason (required)").
				Value(&m.formReason).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("a reason is required to hold a report")
					}
					return nil
				}),

			huh.NewInput().
				Key("notes").
				Title("Notes").
				Value(&m.formNotes),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = stagesReason
	m.table.Blur()

	return m, m.form.Init()
}

func (m StagesModel) updateReason(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			// Abandoning the form un-stages the hold.
			m.pending.SetWaitToLock(m.formRowID, false)
			m.state = stagesBrowse
			m.form = nil
			m.table.Focus()
			m.refreshTable()

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

	m.pending.SetDetails(m.formRowID, rme.Details{Reason: m.formReason, Notes: m.formNotes})
	m.state = stagesBrowse
	m.form = nil
	m.table.Focus()
	m.refreshTable()

	return m, nil
}

func (m StagesModel) enterConfirmDelete(count int) (tea.Model, tea.Cmd) {
	m.confirmDel = false

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("confirm").
				Title(fmt.Sprintf("Move %d record(s) to History?", count)).
				Description("They disappear from the active stages but can be restored.").
				Value(&m.confirmDel),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = stagesConfirmDelete
	m.table.Blur()

	return m, m.form.Init()
}

func (m StagesModel) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = stagesBrowse
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

	m.state = stagesBrowse
	m.form = nil
	m.table.Focus()

	if !m.confirmDel {
		return m, nil
	}

	m.loading = true

	return m, m.softDeleteCmd(m.pending.Selection(m.stage(), m.rows()))
}

func (m StagesModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading work orders...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	tabs := make([]string, len(stageTitles))

	for i, title := range stageTitles {
		label := fmt.Sprintf("[%d] %s", i+1, title)
		if i == m.stageIdx {
			label = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(label)
		}

		tabs[i] = label
	}

	header := strings.Join(tabs, "  ")

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	help := "space: select | t: tech report | l: lock | w: wait-to-lock | x: delete | S: save | d: to history | r: refresh | esc: back"
	if !m.actionable() {
		help = "space: select | d: to history | r: refresh | esc: back"
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
		lipgloss.NewStyle().Faint(true).Render(help),
	)

	if m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func ageStyle(c format.Color) lipgloss.Style {
	switch c {
	case format.ColorRed:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	case format.ColorOrange:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("40"))
	}
}

func (m *StagesModel) refreshTable() {
	stageRows := m.rows()
	rows := make([]table.Row, 0, len(stageRows))

	for _, row := range stageRows {
		sel := ""
		if m.pending.Selected(m.stage(), row.ID) {
			sel = "*"
		}

		rows = append(rows, table.Row{
			sel,
			row.WONumber,
			fmt.Sprintf("%s %s", row.TechInitial, row.Technician),
			row.Street,
			row.ScheduledDisplay,
			ageStyle(row.ElapsedColor).Render(row.Elapsed),
			m.info(row),
		})
	}

	m.table.SetRows(rows)

	if cursor := m.table.Cursor(); cursor >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

// info renders the stage-dependent detail column: staged action flags for the
// first two stages, the hold reason for Holding, the outcome for Finalized.
func (m *StagesModel) info(row rme.Row) string {
	if m.actionable() {
		var flags []string

		submitted := row.TechReportSubmitted
		if v, ok := m.pending.TechReport(row.ID); ok {
			submitted = v
		}

		if submitted {
			flags = append(flags, "T")
		}

		if m.pending.Locked(row.ID) {
			flags = append(flags, "L")
		}

		if m.pending.WaitToLock(row.ID) {
			flags = append(flags, "W")
		}

		if m.pending.Delete(row.ID) {
			flags = append(flags, "X")
		}

		return strings.Join(flags, " ")
	}

	if m.stage() == workorder.StageHolding {
		return row.Reason
	}

	if row.FinalizedAsDeleted {
		return "deleted"
	}

	return row.ReportID
}

// Messages

type stagesLoadedMsg struct {
	buckets rme.Buckets
	err     error
}

// loadCmd fetches the active collection and classifies it.
func (m StagesModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := ReqCtx()
		defer cancel()

		records, err := m.cache.Active(ctx)
		if err != nil {
			return stagesLoadedMsg{err: err}
		}

		return stagesLoadedMsg{buckets: rme.Classify(records, time.Now())}
	}
}

type stagesSavedMsg struct {
	report *rme.SaveReport
	err    error
}

func (m StagesModel) saveCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := ReqCtx()
		defer cancel()

		records, err := m.cache.Active(ctx)
		if err != nil {
			return stagesSavedMsg{err: err}
		}

		report, err := m.rmeSvc.Save(ctx, m.user, m.pending.Rows(records))

		return stagesSavedMsg{report: report, err: err}
	}
}

type stagesDeletedMsg struct {
	batch *history.BatchResult
	err   error
}

func (m StagesModel) softDeleteCmd(ids []string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := ReqCtx()
		defer cancel()

		batch, err := m.histSvc.SoftDelete(ctx, m.user, ids)

		return stagesDeletedMsg{batch: batch, err: err}
	}
}
