package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/feedhub/internal/app"
	"github.com/dori/feedhub/internal/ui/theme"
	"github.com/dori/feedhub/internal/ui/views"
)

// headerHeight is the number of terminal rows above the active view.
const headerHeight = 1

// RootModel is the main application model that manages views
type RootModel struct {
	app    *app.App
	keys   KeyMap
	help   help.Model
	width  int
	height int

	currentView   View
	roadmapView   views.RoadmapView
	feedbackView  views.FeedbackView
	changelogView views.ChangelogView
	helpVisible   bool

	statusMsg string
}

// NewRootModel creates a new root model
func NewRootModel(application *app.App) RootModel {
	h := help.New()
	h.ShowAll = true

	projectID := application.Project.ID
	viewer := application.Config.Viewer

	return RootModel{
		app:         application,
		keys:        DefaultKeyMap(),
		help:        h,
		currentView: ViewRoadmap,
		roadmapView: views.NewRoadmapView(application.DB, application.Notifier, application.Log,
			projectID, viewer),
		feedbackView:  views.NewFeedbackView(application.DB, projectID, viewer),
		changelogView: views.NewChangelogView(application.DB, projectID, viewer),
	}
}

// SetInitialView selects the view shown at startup
func (m RootModel) SetInitialView(v View) RootModel {
	m.currentView = v
	return m
}

// Init initializes the model
func (m RootModel) Init() tea.Cmd {
	return m.initView(m.currentView)
}

func (m RootModel) initView(v View) tea.Cmd {
	switch v {
	case ViewFeedback:
		return m.feedbackView.Init()
	case ViewChangelog:
		return m.changelogView.Init()
	default:
		return m.roadmapView.Init()
	}
}

// capturesKeys reports whether the active view wants every keypress,
// either for text input or for an in-flight drag.
func (m RootModel) capturesKeys() bool {
	switch m.currentView {
	case ViewRoadmap:
		return m.roadmapView.IsInputMode() || m.roadmapView.IsDragging()
	case ViewFeedback:
		return m.feedbackView.IsInputMode()
	case ViewChangelog:
		return m.changelogView.IsInputMode()
	}
	return false
}

// Update handles messages
func (m RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		// header (1 line) and footer (up to 3 lines)
		contentHeight := m.height - 4
		m.roadmapView = m.roadmapView.SetSize(m.width, contentHeight)
		m.feedbackView = m.feedbackView.SetSize(m.width, contentHeight)
		m.changelogView = m.changelogView.SetSize(m.width, contentHeight)
		return m, nil

	case tea.MouseMsg:
		if m.helpVisible || m.currentView != ViewRoadmap {
			return m, nil
		}
		msg.Y -= headerHeight
		newView, cmd := m.roadmapView.Update(msg)
		m.roadmapView = newView.(views.RoadmapView)
		return m, cmd

	case tea.KeyMsg:
		m.statusMsg = ""

		captured := m.capturesKeys()

		switch {
		case key.Matches(msg, m.keys.Quit):
			// ctrl+c always quits, 'q' only outside input
			if msg.String() == "ctrl+c" || !captured {
				return m, tea.Quit
			}

		case key.Matches(msg, m.keys.ThemeCycle):
			m.cycleTheme()
			return m, nil
		}

		if captured {
			break
		}

		if m.helpVisible {
			if key.Matches(msg, m.keys.Help, m.keys.Cancel) {
				m.helpVisible = false
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.Help):
			m.helpVisible = true
			return m, nil
		case key.Matches(msg, m.keys.RoadmapView):
			return m.switchTo(ViewRoadmap)
		case key.Matches(msg, m.keys.FeedbackView):
			return m.switchTo(ViewFeedback)
		case key.Matches(msg, m.keys.ChangelogView):
			return m.switchTo(ViewChangelog)
		}

	}

	var cmd tea.Cmd
	switch m.currentView {
	case ViewRoadmap:
		var newView tea.Model
		newView, cmd = m.roadmapView.Update(msg)
		m.roadmapView = newView.(views.RoadmapView)
	case ViewFeedback:
		var newView tea.Model
		newView, cmd = m.feedbackView.Update(msg)
		m.feedbackView = newView.(views.FeedbackView)
	case ViewChangelog:
		var newView tea.Model
		newView, cmd = m.changelogView.Update(msg)
		m.changelogView = newView.(views.ChangelogView)
	}

	return m, cmd
}

// switchTo changes the active view and reloads its data
func (m RootModel) switchTo(v View) (tea.Model, tea.Cmd) {
	m.currentView = v
	return m, m.initView(v)
}

// View renders the UI
func (m RootModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var sections []string
	sections = append(sections, m.renderHeader())

	contentHeight := m.height - 4
	if m.statusMsg != "" {
		contentHeight--
	}

	var content string
	if m.helpVisible {
		content = m.renderHelp()
	} else {
		switch m.currentView {
		case ViewRoadmap:
			content = m.roadmapView.View()
		case ViewFeedback:
			content = m.feedbackView.View()
		case ViewChangelog:
			content = m.changelogView.View()
		default:
			content = theme.Current.Styles.Panel.Render("View not implemented")
		}
	}

	contentLines := strings.Count(content, "\n") + 1
	if contentLines < contentHeight {
		content += strings.Repeat("\n", contentHeight-contentLines)
	}
	sections = append(sections, content)
	sections = append(sections, m.renderFooter())

	return strings.Join(sections, "\n")
}

// renderHeader renders the header bar
func (m RootModel) renderHeader() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	title := styles.Header.Render("feedhub")

	viewStyle := lipgloss.NewStyle().
		Foreground(t.Subtle).
		Padding(0, 1)
	viewIndicator := viewStyle.Render(fmt.Sprintf("[%s]", m.currentView.String()))

	project := ""
	if m.app != nil && m.app.Project != nil {
		project = m.app.Project.Name
	}
	rightSide := viewStyle.Render(fmt.Sprintf("%s · theme: %s", project, t.Name))

	leftSide := lipgloss.JoinHorizontal(lipgloss.Center, title, viewIndicator)

	gap := m.width - lipgloss.Width(leftSide) - lipgloss.Width(rightSide)
	if gap < 0 {
		gap = 0
	}

	return leftSide + strings.Repeat(" ", gap) + rightSide
}

// renderFooter renders the footer/status bar
func (m RootModel) renderFooter() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	key := func(k, desc string) string {
		return styles.HelpKey.Render(k) + styles.HelpDesc.Render(" "+desc)
	}
	sep := styles.HelpSeparator.Render(" │ ")

	var lines []string
	if m.statusMsg != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(t.Info).Render(m.statusMsg))
	}

	if m.capturesKeys() {
		if m.currentView == ViewRoadmap && m.roadmapView.IsDragging() {
			lines = append(lines, key("h/l", "target")+sep+key("enter/space", "drop")+sep+key("esc", "cancel"))
		} else {
			lines = append(lines, key("enter", "confirm")+sep+key("esc", "cancel"))
		}
		return strings.Join(lines, "\n")
	}

	switch m.currentView {
	case ViewRoadmap:
		lines = append(lines,
			key("h/l", "columns")+sep+
				key("j/k", "navigate")+sep+
				key("space", "grab")+sep+
				key("H/L", "move")+sep+
				key("s", "status")+sep+
				key("u", "upvote"),
			key("a", "add")+sep+
				key("d", "delete")+sep+
				key("/", "search")+sep+
				key("1-3", "views")+sep+
				key("?", "help"))

	case ViewFeedback:
		lines = append(lines,
			key("a", "add")+sep+
				key("u", "upvote")+sep+
				key("s", "status")+sep+
				key("t", "tag")+sep+
				key("enter", "detail")+sep+
				key("d", "delete"),
			key("/", "search")+sep+
				key("#", "tag filter")+sep+
				key("S", "status filter")+sep+
				key("1-3", "views")+sep+
				key("?", "help"))

	case ViewChangelog:
		lines = append(lines,
			key("a", "add")+sep+
				key("p", "publish")+sep+
				key("d", "delete"),
			key("1-3", "views")+sep+
				key("ctrl+t", "theme")+sep+
				key("?", "help"))
	}

	return strings.Join(lines, "\n")
}

// renderHelp renders the help overlay
func (m RootModel) renderHelp() string {
	t := theme.Current.Theme

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Primary).
		MarginBottom(1)
	descStyle := lipgloss.NewStyle().Foreground(t.Subtle)

	var b strings.Builder
	b.WriteString(titleStyle.Render("feedhub Help"))
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n\n")
	b.WriteString(descStyle.Render("Drag cards between roadmap columns with the mouse, or grab with space and drop with enter."))
	b.WriteString("\n")
	b.WriteString(descStyle.Render("Quick add accepts #tags and status:planned, e.g. \"Dark mode #ui status:planned\"."))
	b.WriteString("\n\n")
	b.WriteString(descStyle.Render("Press ? or esc to close"))

	return b.String()
}

// cycleTheme cycles through available themes
func (m *RootModel) cycleTheme() {
	themes := theme.Available()
	current := theme.Current.Theme.Name

	for i, t := range themes {
		if t.Name == current {
			next := themes[(i+1)%len(themes)]
			theme.SetTheme(next)
			m.statusMsg = fmt.Sprintf("Theme: %s", next.Name)
			return
		}
	}
}
