// Package tui renders the sentiment bars in a terminal with bubbletea.
//
// Mouse motion is hit tested against the cells each segment occupies. Hovering a
// segment opens its tooltip in the row below the bar, and leaving it closes the
// tooltip again.
package tui

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/roshda/galaxy-o-meter/internal/app"
	"github.com/roshda/galaxy-o-meter/internal/domain"
)

// Source is the loaded catalog as seen by the terminal renderer.
type Source interface {
	Catalog() (*domain.Catalog, bool)
	State() domain.LoadState
	Done() <-chan struct{}
}

type loadFinishedMsg struct{}

// Model is the bubbletea model. The controller is only touched from Update.
type Model struct {
	source     Source
	presenter  *app.Presenter
	controller *app.Controller
	width      int
}

func New(source Source, presenter *app.Presenter) Model {
	return Model{
		source:     source,
		presenter:  presenter,
		controller: app.NewController(),
	}
}

func (m Model) Init() tea.Cmd {
	return m.waitForLoad()
}

func (m Model) waitForLoad() tea.Cmd {
	done := m.source.Done()
	return func() tea.Msg {
		<-done
		return loadFinishedMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "n", " ":
			visible := m.controller.ToggleNeutral()
			slog.Debug("Neutral toggled", "visible", visible)
		}

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionMotion {
			m.hover(msg.X, msg.Y)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case loadFinishedMsg:
		slog.Debug("Sentiment load finished", "state", m.source.State())
	}
	return m, nil
}

// hover applies pointer motion at cell (x, y). Motion inside the active segment
// leaves the tooltip where it was opened.
func (m Model) hover(x, y int) {
	ref, hit := m.screen().hitTest(x, y)
	active, hasActive := m.controller.Tooltip()
	if hasActive && hit && active.Segment == ref {
		return
	}
	if hasActive {
		m.controller.Leave(active.Segment)
	}
	if !hit {
		return
	}

	cat, _ := m.source.Catalog()
	text, err := m.presenter.TooltipFor(cat, ref, m.controller.NeutralVisible())
	if err != nil {
		slog.Debug("Hover ignored", "entity", ref.Entity, "category", ref.Category, "error", err)
		return
	}
	m.controller.Enter(ref, text, float64(x), float64(y))
}

func (m Model) pageView() app.PageView {
	cat, _ := m.source.Catalog()
	return m.presenter.Build(cat, m.source.State(), m.controller.State())
}

func (m Model) screen() screen {
	return render(m.pageView(), m.width)
}

func (m Model) View() string {
	return m.screen().String()
}
