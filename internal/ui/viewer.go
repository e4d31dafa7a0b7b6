package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/assetd/internal/models"
)

// Fetcher loads the records to display.
type Fetcher func(ctx context.Context) ([]models.AccessRecord, error)

type recordsMsg struct {
	records []models.AccessRecord
	err     error
}

type tickMsg time.Time

// Model is the access log viewer state.
type Model struct {
	ctx      context.Context
	fetch    Fetcher
	interval time.Duration
	list     list.Model
	count    int
	updated  time.Time
	err      error
	help     help.Model
	keys     keyMap
}

var _ tea.Model = Model{}

// NewModel creates a viewer refreshing every interval (one second when <= 0).
func NewModel(ctx context.Context, fetch Fetcher, interval time.Duration) Model {
	if interval <= 0 {
		interval = time.Second
	}

	l := list.New(nil, list.NewDefaultDelegate(), 80, 20)
	l.Title = "assetd access log"
	l.Styles.Title = Styles.title
	l.SetShowHelp(false)

	return Model{
		ctx:      ctx,
		fetch:    fetch,
		interval: interval,
		list:     l,
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

func (m Model) fetchCmd() tea.Cmd {
	return func() tea.Msg {
		records, err := m.fetch(m.ctx)
		return recordsMsg{records: records, err: err}
	}
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Init loads the first page and schedules the refresh.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetchCmd(), m.tickCmd())
}

// Update handles resize, keys, refresh ticks and fetched records.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height-2)
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() != list.Filtering {
			switch {
			case key.Matches(msg, m.keys.quit):
				return m, tea.Quit
			case key.Matches(msg, m.keys.refresh):
				return m, m.fetchCmd()
			}
		}

	case tickMsg:
		return m, tea.Batch(m.fetchCmd(), m.tickCmd())

	case recordsMsg:
		m.err = msg.err
		if msg.err != nil {
			return m, nil
		}
		items := make([]list.Item, 0, len(msg.records))
		for _, r := range msg.records {
			items = append(items, recordItem{record: r})
		}
		m.count = len(items)
		m.updated = time.Now()
		return m, m.list.SetItems(items)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the list, a status line and key help.
func (m Model) View() string {
	status := Styles.Help(fmt.Sprintf("%d records • updated %s", m.count, m.updated.Format("15:04:05")))
	if m.err != nil {
		status = Styles.Err(fmt.Sprintf("error: %v", m.err))
	}
	return m.list.View() + "\n" + status + "\n" + m.help.View(m.keys)
}
