package ui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/gigx/internal/formatter"
	"github.com/desertthunder/gigx/internal/models"
	"github.com/desertthunder/gigx/internal/shared"
	"github.com/desertthunder/gigx/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	SearchView ViewState = iota
	ResultListView
	DetailView
)

// SearchFunc runs a sweep, reporting progress on the given channel.
// It must not close the channel.
type SearchFunc func(ctx context.Context, progress chan<- tasks.ProgressUpdate) ([]models.Concert, error)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	search       SearchFunc
	width        int
	height       int
	bar          progress.Model
	progressChan chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate
	resultChan   chan searchResult
	concerts     []models.Concert
	resultList   list.Model
	selected     *models.Concert
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a TUI model that runs search on Init.
func NewModel(ctx context.Context, search SearchFunc) *Model {
	return &Model{
		ctx:    ctx,
		view:   SearchView,
		search: search,
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(defaultBarWidth)),
		help:   help.New(),
		keys:   newKeyMap(),
	}
}

// Init starts the sweep in the background.
func (m *Model) Init() tea.Cmd {
	return m.startSearch()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.view != SearchView {
			m.resultList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case SearchView:
			if key.Matches(msg, m.keys.quit) {
				return m, tea.Quit
			}
			return m, nil
		case ResultListView:
			return m.handleResultListKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		}

	case Msg:
		switch msg.kind {
		case MsgProgressUpdate:
			m.progress = msg.data.(tasks.ProgressUpdate)
			return m, m.waitForProgress()
		case MsgSearchComplete:
			result := msg.data.(searchResult)
			m.setResults(result.concerts, result.err)
			return m, nil
		}
	}

	if m.view == ResultListView {
		var cmd tea.Cmd
		m.resultList, cmd = m.resultList.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case SearchView:
		return m.renderSearch()
	case ResultListView:
		return m.renderResultList()
	case DetailView:
		return m.renderDetail()
	default:
		return ""
	}
}

// Finished reports whether the sweep has returned.
func (m *Model) Finished() bool { return m.view != SearchView }

// Concerts returns the results of the finished sweep.
func (m *Model) Concerts() []models.Concert { return m.concerts }

// Err returns the error the sweep finished with, if any.
func (m *Model) Err() error { return m.err }

func (m *Model) setResults(concerts []models.Concert, err error) {
	m.concerts = concerts
	m.err = err
	m.progressChan = nil

	m.resultList = list.New(concertItems(concerts), list.NewDefaultDelegate(), 0, 0)
	m.resultList.Title = fmt.Sprintf("Concerts during your travels (%d)", len(concerts))
	m.resultList.SetSize(m.width-4, m.height-8)
	m.view = ResultListView
}

func (m *Model) handleResultListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.resultList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.resultList, cmd = m.resultList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.resultList.SelectedItem().(concertItem); ok {
			m.selected = &item.concert
			m.view = DetailView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.resultList, cmd = m.resultList.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.selected = nil
		m.view = ResultListView
	}
	return m, nil
}

func (m *Model) startSearch() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	m.resultChan = make(chan searchResult, 1)
	progressChan, resultChan := m.progressChan, m.resultChan

	go func() {
		concerts, err := m.search(m.ctx, progressChan)
		resultChan <- searchResult{concerts, err}
		close(progressChan)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	progressChan, resultChan := m.progressChan, m.resultChan
	return func() tea.Msg {
		update, ok := <-progressChan
		if !ok {
			result := <-resultChan
			return searchCompleteMsg(result.concerts, result.err)
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderSearch() string {
	title := styles.Title("Searching for concerts")

	var phase string
	switch m.progress.Phase {
	case tasks.Search:
		phase = fmt.Sprintf("Searching providers (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.Deduplicate:
		phase = "Removing duplicates..."
	case tasks.Complete:
		phase = "Done"
	default:
		phase = "Processing..."
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.quit})
	return fmt.Sprintf("%s\n%s\n%s\n%s\n\n%s", title, phase, m.bar.ViewAs(m.progress.Percent()), m.progress.Message, helpView)
}

func (m *Model) renderResultList() string {
	var banner string
	switch {
	case errors.Is(m.err, shared.ErrCancelled):
		banner = styles.Warn("Search cancelled, showing partial results") + "\n\n"
	case m.err != nil:
		banner = styles.Err(fmt.Sprintf("Search failed: %v", m.err)) + "\n\n"
	case len(m.concerts) == 0:
		banner = styles.Warn("No matching concerts found during your travel periods.") + "\n\n"
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.quit})
	return fmt.Sprintf("%s%s\n\n%s", banner, m.resultList.View(), helpView)
}

func (m *Model) renderDetail() string {
	if m.selected == nil {
		return ""
	}
	detail := formatter.FormatConcert(*m.selected, formatter.DefaultStyles())
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.quit})
	return fmt.Sprintf("%s\n%s\n\n%s", styles.Title("Concert"), detail, helpView)
}
