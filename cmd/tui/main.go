package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/rooterworks/rmetrack/cmd/tui/internal/view"
	"github.com/rooterworks/rmetrack/internal/audit"
	"github.com/rooterworks/rmetrack/internal/backend"
	"github.com/rooterworks/rmetrack/internal/config"
	"github.com/rooterworks/rmetrack/internal/history"
	"github.com/rooterworks/rmetrack/internal/identity"
	"github.com/rooterworks/rmetrack/internal/rme"
	"github.com/rooterworks/rmetrack/internal/workorder"
)

type model struct {
	rmeService     *rme.Service
	historyService *history.Service
	cache          *workorder.Cache
	user           identity.User

	currentView View

	stagesView  view.StagesModel
	historyView view.HistoryModel
}

type View int

const (
	ViewMenu    View = 0
	ViewStages  View = 1
	ViewHistory View = 2
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if cfg.User.Email == "" {
		slog.Error("RME_USER_NAME and RME_USER_EMAIL must be set for the TUI")
		os.Exit(1)
	}

	user := identity.User{Name: cfg.User.Name, Email: cfg.User.Email}

	client := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Token, cfg.Backend.Timeout)
	cache := workorder.NewCache(client, cfg.Poll.Interval)

	rmeSvc := rme.NewService(client, audit.NopRecorder{})
	histSvc := history.NewService(client, audit.NopRecorder{})

	return model{
		rmeService:     rmeSvc,
		historyService: histSvc,
		cache:          cache,
		user:           user,
		currentView:    ViewMenu,
		stagesView:     view.NewStagesModel(rmeSvc, histSvc, cache, user),
		historyView:    view.NewHistoryModel(histSvc, cache, user),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewStages
				m.stagesView = view.NewStagesModel(m.rmeService, m.historyService, m.cache, m.user)

				return m, m.stagesView.Init()
			case "2":
				m.currentView = ViewHistory
				m.historyView = view.NewHistoryModel(m.historyService, m.cache, m.user)

				return m, m.historyView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewStages:
		var newModel tea.Model
		newModel, cmd = m.stagesView.Update(msg)
		m.stagesView = newModel.(view.StagesModel)
	case ViewHistory:
		var newModel tea.Model
		newModel, cmd = m.historyView.Update(msg)
		m.historyView = newModel.(view.HistoryModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"RME Tracker\n\n" +
				"1. Workflow Stages\n" +
				"2. History\n\n" +
				"q. Quit",
		)
	case ViewStages:
		return m.stagesView.View()
	case ViewHistory:
		return m.historyView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
