package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/libertil/eea-cdrtools/internal/domain"
)

type screen int

const (
	screenLoading screen = iota
	screenList
	screenDetail
	screenHistory
)

type envelopeItem struct {
	env domain.Envelope
}

func (i envelopeItem) Title() string {
	return fmt.Sprintf("%s  %s", strings.ToUpper(i.env.CountryCode), i.env.ID())
}

func (i envelopeItem) Description() string {
	var parts []string
	if i.env.PeriodStartYear != 0 {
		parts = append(parts, fmt.Sprintf("%d", i.env.PeriodStartYear))
	}
	if i.env.IsReleased {
		parts = append(parts, "released")
	} else {
		parts = append(parts, "draft")
	}
	if i.env.Status != "" {
		parts = append(parts, i.env.Status)
	}
	parts = append(parts, fmt.Sprintf("%d file(s)", len(i.env.Files)))
	return strings.Join(parts, " • ")
}

func (i envelopeItem) FilterValue() string {
	return i.env.CountryCode + " " + i.env.Title
}

type model struct {
	theme Theme
	deps  Deps

	scr      screen
	spinner  spinner.Model
	list     list.Model
	history  table.Model
	selected domain.Envelope
	toast    string

	width  int
	height int
}

// Run opens the read-only envelope browser and blocks until it exits.
func Run(deps Deps) error {
	m := newModel(deps)
	p := tea.NewProgram(wrapSafe(m, deps.Logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func newModel(deps Deps) model {
	t := DefaultTheme()

	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = fmt.Sprintf("%s envelopes", deps.Repository)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	ht := table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 4},
			{Title: "ACTIVITY", Width: 28},
			{Title: "STATUS", Width: 10},
			{Title: "MODIFIED", Width: 17},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	st := table.DefaultStyles()
	st.Header = st.Header.Bold(true).BorderStyle(lipgloss.NormalBorder()).BorderBottom(true)
	st.Selected = st.Selected.Bold(true)
	ht.SetStyles(st)

	return model{
		theme:   t,
		deps:    deps,
		scr:     screenLoading,
		spinner: sp,
		list:    l,
		history: ht,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, cmdSearchEnvelopes(m.deps))
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-10)
		m.history.SetHeight(max(msg.Height-14, 5))
		return m, nil

	case spinner.TickMsg:
		if m.scr != screenLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case envelopesLoadedMsg:
		m.scr = screenList
		if msg.err != nil {
			m.toast = userMessage(msg.err)
			return m, nil
		}
		m.toast = ""
		items := make([]list.Item, 0, len(msg.envs))
		for _, e := range msg.envs {
			items = append(items, envelopeItem{env: e})
		}
		return m, m.list.SetItems(items)

	case historyLoadedMsg:
		if msg.err != nil {
			m.scr = screenDetail
			m.toast = userMessage(msg.err)
			return m, nil
		}
		m.toast = ""
		m.history.SetRows(historyRows(msg.events))
		m.scr = screenHistory
		return m, nil

	case tea.KeyMsg:
		// While the list filter is open, keys belong to the filter input.
		filtering := m.scr == screenList && m.list.FilterState() == list.Filtering

		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if filtering {
				break
			}
			switch m.scr {
			case screenHistory:
				m.scr = screenDetail
				return m, nil
			case screenDetail:
				m.scr = screenList
				return m, nil
			default:
				return m, tea.Quit
			}

		case "esc", "b":
			if filtering {
				break
			}
			switch m.scr {
			case screenHistory:
				m.scr = screenDetail
				return m, nil
			case screenDetail:
				m.scr = screenList
				return m, nil
			}

		case "enter":
			if m.scr == screenList && !filtering {
				it, ok := m.list.SelectedItem().(envelopeItem)
				if !ok {
					return m, nil
				}
				m.selected = it.env
				m.toast = ""
				m.scr = screenDetail
				return m, nil
			}

		case "h":
			if m.scr == screenDetail && m.selected.URL != "" {
				m.scr = screenLoading
				return m, tea.Batch(m.spinner.Tick, cmdLoadHistory(m.deps, m.selected.URL))
			}
		}
	}

	switch m.scr {
	case screenList:
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	case screenHistory:
		var cmd tea.Cmd
		m.history, cmd = m.history.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) View() string {
	wrap := lipgloss.NewStyle().Padding(1, 2)
	header := m.theme.Title.Render("cdrtools") + "\n" +
		m.theme.Subtitle.Render(m.subtitle()) + "\n"

	var toast string
	if m.toast != "" {
		toast = "\n" + m.theme.Err.Render(m.toast)
	}

	switch m.scr {
	case screenLoading:
		card := m.theme.Card.Render(m.spinner.View() + " querying envelopes, this can take a moment")
		return wrap.Render(header + "\n" + card)

	case screenList:
		help := m.theme.Help.Render("↑/↓ navigate • enter open • / filter • q quit")
		return wrap.Render(header + toast + "\n" + m.theme.Card.Render(m.list.View()) + "\n" + help)

	case screenDetail:
		help := m.theme.Help.Render("h history • esc back • q quit")
		card := m.theme.Card.Render(renderEnvelopeCard(m.theme, m.selected, m.width-10))
		return wrap.Render(header + toast + "\n" + card + "\n" + help)

	case screenHistory:
		help := m.theme.Help.Render("↑/↓ scroll • esc back • q quit")
		title := m.theme.Title.Render("History") + "  " + m.theme.Subtitle.Render(m.selected.ID())
		return wrap.Render(header + "\n" + title + "\n" + m.theme.Card.Render(m.history.View()) + "\n" + help)

	default:
		return wrap.Render(header + "\nunknown state")
	}
}

func (m model) subtitle() string {
	ob := m.deps.Query.Obligation
	s := fmt.Sprintf("%s • obligation %d", m.deps.Repository, ob.Number)
	if ob.Code != "" {
		s = fmt.Sprintf("%s • %s (%d)", m.deps.Repository, ob.Code, ob.Number)
	}
	if m.deps.Query.Year != 0 {
		s += fmt.Sprintf(" • %d", m.deps.Query.Year)
	}
	return s
}
