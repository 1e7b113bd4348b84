package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/feedhub/internal/db"
	"github.com/dori/feedhub/internal/model"
	"github.com/dori/feedhub/internal/ui/theme"
)

type changelogLoadedMsg struct {
	entries []model.Changelog
	err     error
}

type changelogErrorMsg struct{ err error }

// ChangelogMode represents the current input mode
type ChangelogMode int

const (
	ChangelogModeNormal ChangelogMode = iota
	ChangelogModeAdd
	ChangelogModeConfirmDelete
)

// ChangelogView lists release notes, drafts included
type ChangelogView struct {
	db        *db.DB
	projectID string
	viewer    string

	width  int
	height int

	entries []model.Changelog
	cursor  int

	mode      ChangelogMode
	textInput textinput.Model
	deleteID  string

	errMsg string
}

// NewChangelogView creates a new changelog view
func NewChangelogView(database *db.DB, projectID, viewer string) ChangelogView {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 512

	return ChangelogView{
		db:        database,
		projectID: projectID,
		viewer:    viewer,
		textInput: ti,
	}
}

// Init loads the changelogs
func (v ChangelogView) Init() tea.Cmd {
	return v.loadChangelogs()
}

// SetSize sets the view dimensions
func (v ChangelogView) SetSize(width, height int) ChangelogView {
	v.width = width
	v.height = height
	return v
}

func (v ChangelogView) loadChangelogs() tea.Cmd {
	return func() tea.Msg {
		entries, err := v.db.GetChangelogs(context.Background(), v.projectID, false)
		return changelogLoadedMsg{entries: entries, err: err}
	}
}

// Update handles messages
func (v ChangelogView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case changelogLoadedMsg:
		if msg.err != nil {
			v.errMsg = fmt.Sprintf("Failed to load changelogs: %v", msg.err)
			return v, nil
		}
		v.entries = msg.entries
		if v.cursor >= len(v.entries) {
			v.cursor = len(v.entries) - 1
		}
		if v.cursor < 0 {
			v.cursor = 0
		}
		return v, nil

	case changelogErrorMsg:
		v.errMsg = msg.err.Error()
		return v, nil

	case feedbackChangedMsg:
		return v, v.loadChangelogs()

	case tea.KeyMsg:
		v.errMsg = ""
		switch v.mode {
		case ChangelogModeAdd:
			return v.handleAddMode(msg)
		case ChangelogModeConfirmDelete:
			return v.handleConfirmDeleteMode(msg)
		}
		return v.handleNormalMode(msg)
	}

	if v.mode == ChangelogModeAdd {
		var cmd tea.Cmd
		v.textInput, cmd = v.textInput.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v ChangelogView) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if v.cursor < len(v.entries)-1 {
			v.cursor++
		}
	case "k", "up":
		if v.cursor > 0 {
			v.cursor--
		}
	case "a":
		v.mode = ChangelogModeAdd
		v.textInput.SetValue("")
		v.textInput.Placeholder = "Title | summary"
		v.textInput.Focus()
	case "p":
		if v.cursor < len(v.entries) {
			e := v.entries[v.cursor]
			return v, v.setPublished(e.ID, !e.Published)
		}
	case "d":
		if v.cursor < len(v.entries) {
			v.deleteID = v.entries[v.cursor].ID
			v.mode = ChangelogModeConfirmDelete
		}
	case "r":
		return v, v.loadChangelogs()
	}
	return v, nil
}

func (v ChangelogView) handleAddMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		title, summary := splitTitleSummary(v.textInput.Value())
		if title == "" {
			v.errMsg = "Title is required"
			return v, nil
		}
		v.mode = ChangelogModeNormal
		v.textInput.Blur()
		return v, v.createChangelog(title, summary)
	case "esc":
		v.mode = ChangelogModeNormal
		v.textInput.Blur()
		return v, nil
	}

	var cmd tea.Cmd
	v.textInput, cmd = v.textInput.Update(msg)
	return v, cmd
}

func (v ChangelogView) handleConfirmDeleteMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.mode = ChangelogModeNormal
		id := v.deleteID
		v.deleteID = ""
		return v, v.deleteChangelog(id)
	case "n", "N", "esc":
		v.mode = ChangelogModeNormal
		v.deleteID = ""
	}
	return v, nil
}

// splitTitleSummary splits "title | summary" input
func splitTitleSummary(input string) (string, string) {
	title, summary, _ := strings.Cut(input, "|")
	return strings.TrimSpace(title), strings.TrimSpace(summary)
}

func (v ChangelogView) createChangelog(title, summary string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := writeContext()
		defer cancel()
		if _, err := v.db.CreateChangelog(ctx, v.projectID, v.viewer, title, summary); err != nil {
			return changelogErrorMsg{err: err}
		}
		return feedbackChangedMsg{}
	}
}

func (v ChangelogView) setPublished(id string, published bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := writeContext()
		defer cancel()
		if err := v.db.SetChangelogPublished(ctx, id, published); err != nil {
			return changelogErrorMsg{err: err}
		}
		return feedbackChangedMsg{}
	}
}

func (v ChangelogView) deleteChangelog(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := writeContext()
		defer cancel()
		if err := v.db.DeleteChangelog(ctx, id); err != nil {
			return changelogErrorMsg{err: err}
		}
		return feedbackChangedMsg{}
	}
}

// View renders the changelog list
func (v ChangelogView) View() string {
	if v.width == 0 || v.height == 0 {
		return "Loading..."
	}

	t := theme.Current.Theme
	styles := theme.Current.Styles

	var b strings.Builder
	b.WriteString(styles.PanelTitle.Render(fmt.Sprintf("Changelog (%d)", len(v.entries))))
	b.WriteString("\n")

	if len(v.entries) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(t.Subtle).Italic(true).Padding(0, 1).
			Render("Nothing shipped yet. Press a to write a changelog."))
		b.WriteString("\n")
	}

	for i, e := range v.entries {
		state := lipgloss.NewStyle().Foreground(t.Warning).Render("draft    ")
		date := e.CreatedAt.Format("Jan 2, 2006")
		if e.Published {
			state = lipgloss.NewStyle().Foreground(t.Success).Render("published")
			if e.PublishDate != nil {
				date = e.PublishDate.Local().Format("Jan 2, 2006")
			}
		}

		line := fmt.Sprintf("%s  %-12s %s", state, date, e.Title)
		if e.Summary != "" {
			line += lipgloss.NewStyle().Foreground(t.Subtle).Render(" · " + e.Summary)
		}

		if i == v.cursor {
			b.WriteString(styles.ItemSelected.Width(v.width).Render(line))
		} else {
			b.WriteString(styles.ItemNormal.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString(v.renderFooter())
	return b.String()
}

func (v ChangelogView) renderFooter() string {
	t := theme.Current.Theme

	switch v.mode {
	case ChangelogModeAdd:
		return lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Primary).
			Padding(0, 1).
			Width(v.width - 4).
			Render("New changelog: " + v.textInput.View())
	case ChangelogModeConfirmDelete:
		return lipgloss.NewStyle().Foreground(t.Error).Bold(true).Render("Delete changelog? (y/n)")
	}

	if v.errMsg != "" {
		return lipgloss.NewStyle().Foreground(t.Error).Render(v.errMsg)
	}
	return lipgloss.NewStyle().Foreground(t.Subtle).Render("a: add • p: publish/unpublish • d: delete • r: refresh")
}

// IsInputMode returns whether the view is in input mode
func (v ChangelogView) IsInputMode() bool {
	return v.mode != ChangelogModeNormal
}
