// Package tui is the interactive browser: a space list, the feed
// behind a chosen space, and a category picker for recategorizing the
// feed item under the cursor.
package tui

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/emacsmirror/starling/pkg/browser"
	"github.com/emacsmirror/starling/pkg/category"
	"github.com/emacsmirror/starling/pkg/config"
	"github.com/emacsmirror/starling/pkg/spaces"
	"github.com/emacsmirror/starling/pkg/starling"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	modalStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

type viewMode int

const (
	spacesView viewMode = iota
	feedView
	pickerView
)

type keyMap struct {
	Enter   key.Binding
	Back    key.Binding
	Refresh key.Binding
	Edit    key.Binding
	Quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Edit:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "recategorize")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

type categoryItem string

func (c categoryItem) FilterValue() string { return string(c) }

type categoryDelegate struct{}

func (d categoryDelegate) Height() int                         { return 1 }
func (d categoryDelegate) Spacing() int                        { return 0 }
func (d categoryDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }
func (d categoryDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	code, ok := item.(categoryItem)
	if !ok {
		return
	}
	prefix := "  "
	if index == m.Index() {
		prefix = "> "
	}
	fmt.Fprintf(w, "%s%s", prefix, category.Format(string(code)))
}

// Model is the bubbletea model for the browser.
type Model struct {
	client  *starling.Client
	session *browser.Session
	cfg     *config.Config
	keys    keyMap

	mode        viewMode
	spacesTable table.Model
	spaceIDs    []spaces.RowID
	feedTable   table.Model
	feedIDs     []string
	picker      list.Model

	status string
	errMsg string
}

// New builds the browser model; the initial command loads the space
// list.
func New(client *starling.Client, cfg *config.Config) Model {
	items := make([]list.Item, 0, len(category.Known()))
	for _, code := range category.Known() {
		items = append(items, categoryItem(code))
	}
	picker := list.New(items, categoryDelegate{}, 40, 16)
	picker.Title = "New spending category"
	picker.SetShowStatusBar(false)
	picker.SetShowHelp(false)

	return Model{
		client:      client,
		session:     browser.NewSession(client),
		cfg:         cfg,
		keys:        newKeyMap(),
		mode:        spacesView,
		spacesTable: newTable(browser.SpaceColumns()),
		feedTable:   newTable(browser.FeedColumns()),
		picker:      picker,
		status:      "loading spaces",
	}
}

type spacesLoadedMsg struct{ rows []spaces.Row }
type feedLoadedMsg struct{ selected string }
type errMsg struct{ err error }

func (m Model) loadSpaces() tea.Msg {
	ctx := context.Background()
	accounts, err := m.client.Accounts(ctx)
	if err != nil {
		return errMsg{err}
	}
	if len(accounts) == 0 {
		return errMsg{fmt.Errorf("token has no accounts")}
	}

	sp, err := m.client.Spaces(ctx, accounts[0].AccountUID)
	if err != nil {
		return errMsg{err}
	}

	var balances []spaces.AccountBalance
	if m.cfg.AccountBalances {
		balances, err = spaces.ResolveAccountBalances(ctx, m.client, accounts)
		if err != nil {
			return errMsg{err}
		}
	}
	return spacesLoadedMsg{rows: spaces.Aggregate(sp.SavingsGoals, sp.SpendingSpaces, balances)}
}

func (m Model) openRow(id spaces.RowID) tea.Cmd {
	return func() tea.Msg {
		if err := m.session.SelectRow(context.Background(), id); err != nil {
			return errMsg{err}
		}
		return feedLoadedMsg{}
	}
}

func (m Model) refreshFeed(preserve string) tea.Cmd {
	return func() tea.Msg {
		selected, err := m.session.Refresh(context.Background(), preserve)
		if err != nil {
			return errMsg{err}
		}
		return feedLoadedMsg{selected: selected}
	}
}

func (m Model) recategorize(feedItemUID, code string) tea.Cmd {
	return func() tea.Msg {
		selected, err := m.session.Recategorize(context.Background(), feedItemUID, code)
		if err != nil {
			return errMsg{err}
		}
		return feedLoadedMsg{selected: selected}
	}
}

func (m Model) Init() tea.Cmd {
	return m.loadSpaces
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spacesLoadedMsg:
		rows, ids := spaceRows(msg.rows)
		m.spacesTable.SetRows(rows)
		m.spaceIDs = ids
		m.status = fmt.Sprintf("%d spaces", len(rows))
		m.errMsg = ""
		return m, nil

	case feedLoadedMsg:
		rows, ids := feedRows(m.session.Table())
		m.feedTable.SetRows(rows)
		m.feedIDs = ids
		if msg.selected != "" {
			m.feedTable.SetCursor(indexOf(ids, msg.selected))
		}
		m.mode = feedView
		m.status = fmt.Sprintf("%d transactions in the last 30 days", len(rows))
		m.errMsg = ""
		return m, nil

	case errMsg:
		// stale data stays on screen; only the message changes
		m.errMsg = msg.err.Error()
		if m.mode == pickerView {
			m.mode = feedView
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) && m.mode != pickerView {
		return m, tea.Quit
	}

	switch m.mode {
	case spacesView:
		switch {
		case key.Matches(msg, m.keys.Enter):
			if cursor := m.spacesTable.Cursor(); cursor >= 0 && cursor < len(m.spaceIDs) {
				m.status = "loading feed"
				return m, m.openRow(m.spaceIDs[cursor])
			}
		case key.Matches(msg, m.keys.Refresh):
			m.status = "loading spaces"
			return m, m.loadSpaces
		}
		var cmd tea.Cmd
		m.spacesTable, cmd = m.spacesTable.Update(msg)
		return m, cmd

	case feedView:
		switch {
		case key.Matches(msg, m.keys.Back):
			m.mode = spacesView
			m.errMsg = ""
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			return m, m.refreshFeed(m.selectedFeedItem())
		case key.Matches(msg, m.keys.Edit):
			if m.selectedFeedItem() != "" {
				m.mode = pickerView
				m.picker.ResetFilter()
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.feedTable, cmd = m.feedTable.Update(msg)
		return m, cmd

	case pickerView:
		switch {
		case key.Matches(msg, m.keys.Back):
			m.mode = feedView
			return m, nil
		case key.Matches(msg, m.keys.Enter):
			code, ok := m.picker.SelectedItem().(categoryItem)
			if !ok {
				m.mode = feedView
				return m, nil
			}
			m.mode = feedView
			m.status = "recategorizing"
			return m, m.recategorize(m.selectedFeedItem(), string(code))
		}
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) selectedFeedItem() string {
	cursor := m.feedTable.Cursor()
	if cursor < 0 || cursor >= len(m.feedIDs) {
		return ""
	}
	return m.feedIDs[cursor]
}

func (m Model) View() string {
	var title, body string
	switch m.mode {
	case spacesView:
		title = "Spaces"
		body = m.spacesTable.View()
	case feedView:
		_, categoryUID, _ := m.session.Selected()
		title = "Feed · " + categoryUID
		body = m.feedTable.View()
	case pickerView:
		title = "Feed"
		body = modalStyle.Render(m.picker.View())
	}

	footer := statusStyle.Render(m.status)
	if m.errMsg != "" {
		footer = errorStyle.Render("error: " + m.errMsg)
	}
	return titleStyle.Render(title) + "\n" + body + "\n" + footer + "\n"
}
