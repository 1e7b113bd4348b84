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

type feedbackLoadedMsg struct {
	items []model.Feedback
	tags  []model.Tag
	err   error
}

type feedbackErrorMsg struct {
	err error
	// reload discards optimistic changes by fetching the list again
	reload bool
}

// FeedbackMode represents the current input mode
type FeedbackMode int

const (
	FeedbackModeNormal FeedbackMode = iota
	FeedbackModeAdd
	FeedbackModeSearch
	FeedbackModeTagFilter
	FeedbackModeConfirmDelete
)

// FeedbackView lists a project's feedback, most upvoted first
type FeedbackView struct {
	db        *db.DB
	projectID string
	viewer    string

	width  int
	height int

	items  []model.Feedback
	tags   []model.Tag
	cursor int
	scroll int

	filter model.FeedbackFilter

	mode      FeedbackMode
	textInput textinput.Model
	deleteID  string

	selectingTag   bool
	selectorCursor int

	showDetail bool

	statusMsg string
	errMsg    string
}

// NewFeedbackView creates a new feedback view
func NewFeedbackView(database *db.DB, projectID, viewer string) FeedbackView {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 256

	return FeedbackView{
		db:        database,
		projectID: projectID,
		viewer:    viewer,
		textInput: ti,
	}
}

// Init loads the feedback list
func (v FeedbackView) Init() tea.Cmd {
	return v.loadFeedback()
}

// SetSize sets the view dimensions
func (v FeedbackView) SetSize(width, height int) FeedbackView {
	v.width = width
	v.height = height
	return v
}

func (v FeedbackView) loadFeedback() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		items, err := v.db.ListFeedback(ctx, v.projectID, v.viewer)
		if err != nil {
			return feedbackLoadedMsg{err: err}
		}
		tags, err := v.db.GetTags(ctx, v.projectID)
		return feedbackLoadedMsg{items: items, tags: tags, err: err}
	}
}

// Update handles messages
func (v FeedbackView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case feedbackLoadedMsg:
		if msg.err != nil {
			v.errMsg = fmt.Sprintf("Failed to load feedback: %v", msg.err)
			return v, nil
		}
		v.items = msg.items
		v.tags = msg.tags
		v.clampCursor()
		return v, nil

	case feedbackErrorMsg:
		v.errMsg = msg.err.Error()
		if msg.reload {
			return v, v.loadFeedback()
		}
		return v, nil

	case feedbackChangedMsg:
		return v, v.loadFeedback()

	case tea.KeyMsg:
		v.statusMsg = ""
		v.errMsg = ""
		switch v.mode {
		case FeedbackModeAdd:
			return v.handleAddMode(msg)
		case FeedbackModeSearch, FeedbackModeTagFilter:
			return v.handleFilterMode(msg)
		case FeedbackModeConfirmDelete:
			return v.handleConfirmDeleteMode(msg)
		default:
			if v.selectingTag {
				return v.handleTagSelector(msg)
			}
			return v.handleNormalMode(msg)
		}
	}

	if v.mode == FeedbackModeAdd || v.mode == FeedbackModeSearch || v.mode == FeedbackModeTagFilter {
		var cmd tea.Cmd
		v.textInput, cmd = v.textInput.Update(msg)
		return v, cmd
	}
	return v, nil
}

// visible returns the items passing the current filter
func (v FeedbackView) visible() []model.Feedback {
	return v.filter.Apply(v.items)
}

func (v FeedbackView) currentItem() (model.Feedback, bool) {
	items := v.visible()
	if v.cursor < 0 || v.cursor >= len(items) {
		return model.Feedback{}, false
	}
	return items[v.cursor], true
}

func (v FeedbackView) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if v.cursor < len(v.visible())-1 {
			v.cursor++
			v.ensureCursorVisible()
		}
	case "k", "up":
		if v.cursor > 0 {
			v.cursor--
			v.ensureCursorVisible()
		}
	case "g":
		v.cursor = 0
		v.scroll = 0
	case "G":
		if n := len(v.visible()); n > 0 {
			v.cursor = n - 1
			v.ensureCursorVisible()
		}

	case "u":
		cmd := v.toggleUpvote()
		return v, cmd

	case "s":
		return v, v.cycleStatus()

	case "S":
		// filter by status, cycling through all then none
		v.filter.Status = nextStatusFilter(v.filter.Status)
		v.cursor, v.scroll = 0, 0
		if v.filter.Status == "" {
			v.statusMsg = "Status filter cleared"
		}

	case "t":
		if _, ok := v.currentItem(); ok && len(v.tags) > 0 {
			v.selectingTag = true
			v.selectorCursor = 0
		}

	case "enter":
		v.showDetail = !v.showDetail

	case "a":
		v.mode = FeedbackModeAdd
		v.textInput.SetValue("")
		v.textInput.Placeholder = "Title #tag status:planned"
		v.textInput.Focus()

	case "d":
		if item, ok := v.currentItem(); ok {
			v.deleteID = item.ID
			v.mode = FeedbackModeConfirmDelete
		}

	case "/":
		v.mode = FeedbackModeSearch
		v.textInput.SetValue(v.filter.Search)
		v.textInput.Placeholder = "Search titles..."
		v.textInput.Focus()

	case "#":
		v.mode = FeedbackModeTagFilter
		v.textInput.SetValue(v.filter.Tags)
		v.textInput.Placeholder = "tag1,tag2"
		v.textInput.Focus()

	case "esc":
		if !v.filter.IsZero() {
			v.filter = model.FeedbackFilter{}
			v.statusMsg = "Filters cleared"
			v.clampCursor()
		}

	case "r":
		return v, v.loadFeedback()
	}
	return v, nil
}

func nextStatusFilter(current string) string {
	if current == "" {
		return string(model.Statuses()[0].Status)
	}
	info, ok := model.LookupStatus(current)
	if !ok {
		return ""
	}
	next := info.Status.Next()
	if next == model.Statuses()[0].Status {
		return ""
	}
	return string(next)
}

func (v FeedbackView) handleAddMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		q := model.ParseQuickAdd(v.textInput.Value())
		if q.Title == "" {
			v.errMsg = "Title is required"
			return v, nil
		}
		v.mode = FeedbackModeNormal
		v.textInput.Blur()
		return v, v.createFeedback(q)
	case "esc":
		v.mode = FeedbackModeNormal
		v.textInput.Blur()
		return v, nil
	}

	var cmd tea.Cmd
	v.textInput, cmd = v.textInput.Update(msg)
	return v, cmd
}

func (v FeedbackView) handleFilterMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		value := strings.TrimSpace(v.textInput.Value())
		if v.mode == FeedbackModeSearch {
			v.filter.Search = value
		} else {
			v.filter.Tags = value
		}
		v.mode = FeedbackModeNormal
		v.textInput.Blur()
		v.cursor, v.scroll = 0, 0
		return v, nil
	}

	var cmd tea.Cmd
	v.textInput, cmd = v.textInput.Update(msg)
	return v, cmd
}

func (v FeedbackView) handleConfirmDeleteMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.mode = FeedbackModeNormal
		id := v.deleteID
		v.deleteID = ""
		return v, v.deleteFeedback(id)
	case "n", "N", "esc":
		v.mode = FeedbackModeNormal
		v.deleteID = ""
	}
	return v, nil
}

func (v FeedbackView) handleTagSelector(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if v.selectorCursor < len(v.tags)-1 {
			v.selectorCursor++
		}
	case "k", "up":
		if v.selectorCursor > 0 {
			v.selectorCursor--
		}
	case "enter":
		v.selectingTag = false
		item, ok := v.currentItem()
		if ok && v.selectorCursor < len(v.tags) {
			return v, v.toggleTag(item.ID, v.tags[v.selectorCursor].ID)
		}
	case "esc":
		v.selectingTag = false
	}
	return v, nil
}

// toggleUpvote updates the list straight away and stores the vote. A failed
// write reloads the list.
func (v *FeedbackView) toggleUpvote() tea.Cmd {
	item, ok := v.currentItem()
	if !ok {
		return nil
	}
	for i := range v.items {
		if v.items[i].ID == item.ID {
			v.items[i].ToggleUpvote()
			break
		}
	}

	database, viewer := v.db, v.viewer
	return func() tea.Msg {
		ctx, cancel := writeContext()
		defer cancel()
		if _, _, err := database.ToggleUpvote(ctx, item.ID, viewer); err != nil {
			return feedbackErrorMsg{err: fmt.Errorf("failed to upvote: %w", err), reload: true}
		}
		return nil
	}
}

func (v FeedbackView) cycleStatus() tea.Cmd {
	item, ok := v.currentItem()
	if !ok {
		return nil
	}
	next := item.Status.Next()
	return func() tea.Msg {
		ctx, cancel := writeContext()
		defer cancel()
		if err := v.db.UpdateFeedbackStatus(ctx, item.ID, next); err != nil {
			return feedbackErrorMsg{err: err}
		}
		return feedbackChangedMsg{}
	}
}

func (v FeedbackView) createFeedback(q model.QuickAdd) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := writeContext()
		defer cancel()
		_, err := v.db.CreateFeedback(ctx, v.projectID, db.NewFeedback{
			Title:    q.Title,
			Status:   string(q.Status),
			UserID:   v.viewer,
			TagNames: q.Tags,
		})
		if err != nil {
			return feedbackErrorMsg{err: err}
		}
		return feedbackChangedMsg{}
	}
}

func (v FeedbackView) deleteFeedback(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := writeContext()
		defer cancel()
		if err := v.db.DeleteFeedback(ctx, id); err != nil {
			return feedbackErrorMsg{err: err}
		}
		return feedbackChangedMsg{}
	}
}

func (v FeedbackView) toggleTag(feedbackID, tagID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := writeContext()
		defer cancel()
		if _, err := v.db.ToggleFeedbackTag(ctx, feedbackID, tagID); err != nil {
			return feedbackErrorMsg{err: err}
		}
		return feedbackChangedMsg{}
	}
}

func (v *FeedbackView) clampCursor() {
	n := len(v.visible())
	if v.cursor >= n {
		v.cursor = n - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
	v.ensureCursorVisible()
}

func (v *FeedbackView) ensureCursorVisible() {
	rows := v.visibleRows()
	if v.cursor >= v.scroll+rows {
		v.scroll = v.cursor - rows + 1
	}
	if v.cursor < v.scroll {
		v.scroll = v.cursor
	}
}

func (v FeedbackView) visibleRows() int {
	rows := v.height - 4
	if v.showDetail {
		rows -= 6
	}
	if rows < 1 {
		return 1
	}
	return rows
}

// View renders the feedback list
func (v FeedbackView) View() string {
	if v.width == 0 || v.height == 0 {
		return "Loading..."
	}

	t := theme.Current.Theme
	styles := theme.Current.Styles
	items := v.visible()

	var b strings.Builder

	title := fmt.Sprintf("Feedback (%d)", len(items))
	if !v.filter.IsZero() {
		title = fmt.Sprintf("Feedback (%d/%d)", len(items), len(v.items))
	}
	b.WriteString(styles.PanelTitle.Render(title))
	b.WriteString("\n")

	if len(items) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(t.Subtle).Italic(true).Padding(0, 1).
			Render("No feedback yet. Press a to add some."))
		b.WriteString("\n")
	}

	end := v.scroll + v.visibleRows()
	if end > len(items) {
		end = len(items)
	}
	for i := v.scroll; i < end; i++ {
		b.WriteString(v.renderRow(items[i], i == v.cursor))
		b.WriteString("\n")
	}

	if v.showDetail {
		if item, ok := v.currentItem(); ok {
			b.WriteString(v.renderDetail(item))
			b.WriteString("\n")
		}
	}

	b.WriteString(v.renderFooter())
	return b.String()
}

func (v FeedbackView) renderRow(item model.Feedback, selected bool) string {
	t := theme.Current.Theme
	styles := theme.Current.Styles

	votes := fmt.Sprintf("▲ %3d", item.Upvotes)
	if item.HasUpvoted {
		votes = styles.UpvotesActive.Render(votes)
	} else {
		votes = styles.Upvotes.Render(votes)
	}

	info := item.Status.InfoOrDefault()
	status := lipgloss.NewStyle().
		Foreground(t.StatusColor(item.Status)).
		Width(16).
		Render(info.Icon + " " + info.Label)

	var tags []string
	for _, tag := range item.Tags {
		st := styles.Tag
		if tag.Color != "" {
			st = st.Foreground(lipgloss.Color(tag.Color))
		}
		tags = append(tags, st.Render(tag.DisplayName()))
	}

	titleWidth := v.width - 30
	if titleWidth < 10 {
		titleWidth = 10
	}
	title := truncateTitle(item.Title, titleWidth)

	row := fmt.Sprintf("%s  %s %s %s", votes, status, title, strings.Join(tags, ""))
	if selected {
		return styles.ItemSelected.Width(v.width).Render(row)
	}
	if item.Status == model.StatusDone || item.Status == model.StatusClosed {
		return styles.ItemDone.Render(row)
	}
	return styles.ItemNormal.Render(row)
}

func (v FeedbackView) renderDetail(item model.Feedback) string {
	t := theme.Current.Theme

	desc := item.Description
	if desc == "" {
		desc = "(no description)"
	}
	lines := []string{
		lipgloss.NewStyle().Bold(true).Render(item.Title),
		lipgloss.NewStyle().Foreground(t.Subtle).Render(
			fmt.Sprintf("by %s • %s • %d comments", item.UserID, item.CreatedAt.Format("Jan 2, 2006"), item.CommentCount)),
		desc,
	}
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1).
		Width(v.width - 4).
		Render(strings.Join(lines, "\n"))
}

func (v FeedbackView) renderFooter() string {
	t := theme.Current.Theme

	inputStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(0, 1).
		Width(v.width - 4)

	switch v.mode {
	case FeedbackModeAdd:
		return inputStyle.Render("Add: " + v.textInput.View())
	case FeedbackModeSearch:
		return inputStyle.Render("Search: " + v.textInput.View())
	case FeedbackModeTagFilter:
		return inputStyle.Render("Tags: " + v.textInput.View())
	case FeedbackModeConfirmDelete:
		title := ""
		for _, f := range v.items {
			if f.ID == v.deleteID {
				title = f.Title
			}
		}
		return lipgloss.NewStyle().Foreground(t.Error).Bold(true).
			Render(fmt.Sprintf("Delete '%s'? (y/n)", title))
	}

	if v.selectingTag {
		return v.renderTagSelector()
	}
	if v.errMsg != "" {
		return lipgloss.NewStyle().Foreground(t.Error).Render(v.errMsg)
	}
	if v.statusMsg != "" {
		return lipgloss.NewStyle().Foreground(t.Info).Render(v.statusMsg)
	}

	if !v.filter.IsZero() {
		var parts []string
		if v.filter.Search != "" {
			parts = append(parts, "search: "+v.filter.Search)
		}
		if v.filter.Tags != "" {
			parts = append(parts, "tags: "+v.filter.Tags)
		}
		if v.filter.Status != "" {
			parts = append(parts, "status: "+v.filter.Status)
		}
		return lipgloss.NewStyle().Foreground(t.Info).Render("["+strings.Join(parts, " | ")+"] ") +
			lipgloss.NewStyle().Foreground(t.Subtle).Render("esc: clear")
	}

	return lipgloss.NewStyle().Foreground(t.Subtle).
		Render("u: upvote • s: status • S: filter status • t: tag • a: add • d: del • /: search • #: tags")
}

func (v FeedbackView) renderTagSelector() string {
	t := theme.Current.Theme

	var lines []string
	lines = append(lines, lipgloss.NewStyle().Bold(true).Render("Toggle Tag:"))
	for i, tag := range v.tags {
		style := lipgloss.NewStyle()
		if i == v.selectorCursor {
			style = style.Background(t.Highlight).Foreground(t.Foreground)
		}
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(tag.Color)).Render("●")
		lines = append(lines, style.Render(fmt.Sprintf(" %s %s", dot, tag.Name)))
	}
	lines = append(lines, lipgloss.NewStyle().Foreground(t.Subtle).Render("j/k: navigate • enter: toggle • esc: cancel"))

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

// IsInputMode returns whether the view is in input mode
func (v FeedbackView) IsInputMode() bool {
	return v.mode != FeedbackModeNormal || v.selectingTag
}
