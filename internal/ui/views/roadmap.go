package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/feedhub/internal/board"
	"github.com/dori/feedhub/internal/db"
	"github.com/dori/feedhub/internal/model"
	"github.com/dori/feedhub/internal/notify"
	"github.com/dori/feedhub/internal/ui/theme"
	log "github.com/sirupsen/logrus"
)

type roadmapLoadedMsg struct {
	board *board.Board
	err   error
}

// roadmapSavedMsg reports the outcome of persisting a move. The board is not
// rolled back when err is set.
type roadmapSavedMsg struct {
	move board.Move
	item model.Feedback
	err  error
}

type roadmapErrorMsg struct{ err error }

// roadmapUpvoteMsg carries the stored upvote state back to the board. On
// failure prev is the item as it was before the optimistic toggle.
type roadmapUpvoteMsg struct {
	prev       model.Feedback
	upvotes    int
	hasUpvoted bool
	err        error
}

// RoadmapMode represents the current input mode
type RoadmapMode int

const (
	RoadmapModeNormal RoadmapMode = iota
	RoadmapModeAdd
	RoadmapModeSearch
	RoadmapModeConfirmDelete
)

const (
	roadmapMinColWidth = 24
	// header row plus the column top border
	roadmapContentTop = 2
)

// RoadmapView is the status board. Items are moved between columns by
// dragging with the mouse or grabbing them with the keyboard.
type RoadmapView struct {
	db       *db.DB
	recorder MoveRecorder
	votes    VoteToggler
	notifier *notify.Notifier
	log      *log.Logger

	projectID string
	viewer    string

	width  int
	height int

	board *board.Board

	currentColumn int
	cursorRow     int
	columnScroll  []int

	// column under the pointer, or picked with h/l, while an item is held
	dropTarget int

	mode         RoadmapMode
	textInput    textinput.Model
	searchFilter string
	deleteID     string

	statusMsg string
	errMsg    string
}

// NewRoadmapView creates a new roadmap view
func NewRoadmapView(database *db.DB, notifier *notify.Notifier, logger *log.Logger, projectID, viewer string) RoadmapView {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 256

	statuses := model.Statuses()
	v := RoadmapView{
		db:           database,
		notifier:     notifier,
		log:          logger,
		projectID:    projectID,
		viewer:       viewer,
		board:        board.New(statuses, nil),
		columnScroll: make([]int, len(statuses)),
		textInput:    ti,
	}
	if database != nil {
		v.recorder = db.NewStatusRecorder(database)
		v.votes = database
	}
	if v.log == nil {
		v.log = log.StandardLogger()
	}
	return v
}

// Init loads the board
func (v RoadmapView) Init() tea.Cmd {
	return v.loadBoard()
}

// SetSize sets the view dimensions
func (v RoadmapView) SetSize(width, height int) RoadmapView {
	v.width = width
	v.height = height
	return v
}

func (v RoadmapView) loadBoard() tea.Cmd {
	return func() tea.Msg {
		b, err := v.db.LoadBoard(context.Background(), v.projectID, v.viewer)
		return roadmapLoadedMsg{board: b, err: err}
	}
}

// Update handles messages
func (v RoadmapView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case roadmapLoadedMsg:
		if msg.err != nil {
			v.errMsg = fmt.Sprintf("Failed to load roadmap: %v", msg.err)
			return v, nil
		}
		v.board = msg.board
		if len(v.columnScroll) != len(v.board.Keys()) {
			v.columnScroll = make([]int, len(v.board.Keys()))
		}
		v.clampCursor()
		return v, nil

	case roadmapSavedMsg:
		if msg.err != nil {
			v.errMsg = fmt.Sprintf("Could not save %q: %v", msg.item.Title, msg.err)
			return v, v.notifySaveFailed(msg.item, msg.err)
		}
		v.statusMsg = fmt.Sprintf("%s → %s", msg.item.Title, msg.move.Status.Label())
		if msg.move.Status == model.StatusDone {
			return v, v.notifyShipped(msg.item)
		}
		return v, nil

	case roadmapErrorMsg:
		v.errMsg = msg.err.Error()
		return v, nil

	case roadmapUpvoteMsg:
		v.settleUpvote(msg)
		return v, nil

	case feedbackChangedMsg:
		return v, v.loadBoard()

	case tea.MouseMsg:
		return v.handleMouse(msg)

	case tea.KeyMsg:
		v.statusMsg = ""
		v.errMsg = ""
		switch v.mode {
		case RoadmapModeAdd:
			return v.handleAddMode(msg)
		case RoadmapModeSearch:
			return v.handleSearchMode(msg)
		case RoadmapModeConfirmDelete:
			return v.handleConfirmDeleteMode(msg)
		default:
			return v.handleNormalMode(msg)
		}
	}

	if v.mode == RoadmapModeAdd || v.mode == RoadmapModeSearch {
		var cmd tea.Cmd
		v.textInput, cmd = v.textInput.Update(msg)
		return v, cmd
	}

	return v, nil
}

// dragging reports whether an item is currently held
func (v RoadmapView) dragging() bool {
	return v.board.ActiveID() != ""
}

// handleNormalMode handles keys in normal mode
func (v RoadmapView) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	last := len(v.board.Keys()) - 1

	switch msg.String() {
	case "h", "left":
		if v.dragging() {
			if v.dropTarget > 0 {
				v.dropTarget--
			}
		} else if v.currentColumn > 0 {
			v.currentColumn--
			v.clampCursor()
		}
		return v, nil

	case "l", "right":
		if v.dragging() {
			if v.dropTarget < last {
				v.dropTarget++
			}
		} else if v.currentColumn < last {
			v.currentColumn++
			v.clampCursor()
		}
		return v, nil

	case "j", "down":
		if v.cursorRow < len(v.visibleItems(v.currentColumn))-1 {
			v.cursorRow++
			v.ensureCursorVisible()
		}
		return v, nil

	case "k", "up":
		if v.cursorRow > 0 {
			v.cursorRow--
			v.ensureCursorVisible()
		}
		return v, nil

	case "g":
		v.cursorRow = 0
		v.columnScroll[v.currentColumn] = 0
		return v, nil

	case "G":
		if n := len(v.visibleItems(v.currentColumn)); n > 0 {
			v.cursorRow = n - 1
			v.ensureCursorVisible()
		}
		return v, nil

	// Grab or drop
	case " ":
		if v.dragging() {
			cmd := v.drop(v.dropTarget)
			return v, cmd
		}
		if item, ok := v.currentItem(); ok {
			v.board.BeginDrag(item.ID)
			v.dropTarget = v.currentColumn
		}
		return v, nil

	case "enter":
		if v.dragging() {
			cmd := v.drop(v.dropTarget)
			return v, cmd
		}
		return v, nil

	case "esc":
		if v.dragging() {
			v.board.CancelDrag()
			v.statusMsg = "Move cancelled"
			return v, nil
		}
		if v.searchFilter != "" {
			v.searchFilter = ""
			v.statusMsg = "Filter cleared"
			v.clampCursor()
		}
		return v, nil

	// Quick move to an adjacent column
	case "H":
		cmd := v.quickMove(-1)
		return v, cmd
	case "L":
		cmd := v.quickMove(1)
		return v, cmd

	// Cycle status in place
	case "s":
		cmd := v.cycleStatus()
		return v, cmd

	case "u":
		cmd := v.toggleUpvote()
		return v, cmd

	case "a":
		if v.dragging() {
			return v, nil
		}
		v.mode = RoadmapModeAdd
		v.textInput.SetValue("")
		v.textInput.Placeholder = "New feedback..."
		v.textInput.Focus()
		return v, nil

	case "d":
		if item, ok := v.currentItem(); ok && !v.dragging() {
			v.deleteID = item.ID
			v.mode = RoadmapModeConfirmDelete
		}
		return v, nil

	case "/":
		v.mode = RoadmapModeSearch
		v.textInput.SetValue(v.searchFilter)
		v.textInput.Placeholder = "Search..."
		v.textInput.Focus()
		return v, nil

	case "r":
		return v, v.loadBoard()
	}

	return v, nil
}

// handleAddMode handles keys in add mode
func (v RoadmapView) handleAddMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		title := strings.TrimSpace(v.textInput.Value())
		if title != "" {
			v.mode = RoadmapModeNormal
			v.textInput.Blur()
			return v, v.createFeedback(title)
		}
		return v, nil
	case "esc":
		v.mode = RoadmapModeNormal
		v.textInput.Blur()
		return v, nil
	}

	var cmd tea.Cmd
	v.textInput, cmd = v.textInput.Update(msg)
	return v, cmd
}

// handleSearchMode handles keys in search mode
func (v RoadmapView) handleSearchMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		v.searchFilter = strings.TrimSpace(v.textInput.Value())
		v.mode = RoadmapModeNormal
		v.textInput.Blur()
		v.cursorRow = 0
		for i := range v.columnScroll {
			v.columnScroll[i] = 0
		}
		return v, nil
	}

	var cmd tea.Cmd
	v.textInput, cmd = v.textInput.Update(msg)
	return v, cmd
}

// handleConfirmDeleteMode handles keys in delete confirmation mode
func (v RoadmapView) handleConfirmDeleteMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.mode = RoadmapModeNormal
		id := v.deleteID
		v.deleteID = ""
		return v, v.deleteFeedback(id)
	case "n", "N", "esc":
		v.mode = RoadmapModeNormal
		v.deleteID = ""
	}
	return v, nil
}

// handleMouse turns press/motion/release into a drag gesture on the board.
// Coordinates are relative to the top-left of the view.
func (v RoadmapView) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if v.IsInputMode() {
		return v, nil
	}

	col, row, inColumn := v.hitTest(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !inColumn {
			return v, nil
		}
		v.currentColumn = col
		if row < 0 {
			v.clampCursor()
			return v, nil
		}
		v.cursorRow = row
		item := v.visibleItems(col)[row]
		v.board.BeginDrag(item.ID)
		v.dropTarget = col

	case tea.MouseActionMotion:
		if v.dragging() && inColumn {
			v.dropTarget = col
		}

	case tea.MouseActionRelease:
		if !v.dragging() {
			return v, nil
		}
		if !inColumn {
			col = -1
		}
		cmd := v.drop(col)
		return v, cmd
	}

	return v, nil
}

// drop ends the current gesture over column index target. A target outside
// the board, or the column the item came from, leaves the board unchanged.
func (v *RoadmapView) drop(target int) tea.Cmd {
	var key board.ColumnKey
	keys := v.board.Keys()
	if target >= 0 && target < len(keys) {
		key = keys[target]
	}

	move, ok := v.board.EndDrag(v.board.ActiveID(), key)
	if !ok {
		return nil
	}
	return v.afterMove(move)
}

// quickMove relocates the item under the cursor to an adjacent column
func (v *RoadmapView) quickMove(direction int) tea.Cmd {
	item, ok := v.currentItem()
	if !ok || v.dragging() {
		return nil
	}
	target := v.currentColumn + direction
	if target < 0 || target >= len(v.board.Keys()) {
		return nil
	}
	v.board.BeginDrag(item.ID)
	return v.drop(target)
}

// cycleStatus advances the status of the item under the cursor
func (v *RoadmapView) cycleStatus() tea.Cmd {
	item, ok := v.currentItem()
	if !ok || v.dragging() {
		return nil
	}
	item.Status = item.Status.Next()
	move, ok := v.board.Apply(item)
	if !ok || move.ItemID == "" {
		return nil
	}
	return v.afterMove(move)
}

// afterMove puts the cursor on the moved item and persists the new status
func (v *RoadmapView) afterMove(move board.Move) tea.Cmd {
	for i, key := range v.board.Keys() {
		if key == move.To {
			v.currentColumn = i
			break
		}
	}
	v.cursorRow = 0
	for i, f := range v.visibleItems(v.currentColumn) {
		if f.ID == move.ItemID {
			v.cursorRow = i
			break
		}
	}
	v.ensureCursorVisible()

	_, item, _ := v.board.Locate(move.ItemID)
	v.log.WithFields(log.Fields{
		"id":   move.ItemID,
		"from": move.From,
		"to":   move.To,
	}).Debug("roadmap move")

	return v.recordMove(move, item)
}

func (v RoadmapView) recordMove(move board.Move, item model.Feedback) tea.Cmd {
	recorder := v.recorder
	if recorder == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := writeContext()
		defer cancel()
		return roadmapSavedMsg{move: move, item: item, err: recorder.Record(ctx, move)}
	}
}

// toggleUpvote flips the viewer's upvote on the board right away and then
// stores it
func (v *RoadmapView) toggleUpvote() tea.Cmd {
	item, ok := v.currentItem()
	if !ok || v.votes == nil {
		return nil
	}
	prev := item.Clone()
	item.ToggleUpvote()
	v.board.Apply(item)

	votes, viewer := v.votes, v.viewer
	return func() tea.Msg {
		ctx, cancel := writeContext()
		defer cancel()
		count, has, err := votes.ToggleUpvote(ctx, prev.ID, viewer)
		if err != nil {
			err = fmt.Errorf("failed to upvote: %w", err)
		}
		return roadmapUpvoteMsg{prev: prev, upvotes: count, hasUpvoted: has, err: err}
	}
}

// settleUpvote replaces the optimistic upvote with the stored one, or puts
// the previous count back when the write failed
func (v *RoadmapView) settleUpvote(msg roadmapUpvoteMsg) {
	_, current, ok := v.board.Locate(msg.prev.ID)
	if !ok {
		return
	}
	if msg.err != nil {
		v.errMsg = msg.err.Error()
		current.Upvotes = msg.prev.Upvotes
		current.HasUpvoted = msg.prev.HasUpvoted
	} else {
		current.Upvotes = msg.upvotes
		current.HasUpvoted = msg.hasUpvoted
	}
	v.board.Apply(current)
}

// createFeedback adds a new item to the current column
func (v RoadmapView) createFeedback(title string) tea.Cmd {
	keys := v.board.Keys()
	if v.currentColumn >= len(keys) {
		return nil
	}
	col, _ := v.board.Column(keys[v.currentColumn])
	status := col.Status.Status

	return func() tea.Msg {
		ctx, cancel := writeContext()
		defer cancel()
		_, err := v.db.CreateFeedback(ctx, v.projectID, db.NewFeedback{
			Title:  title,
			Status: string(status),
			UserID: v.viewer,
		})
		if err != nil {
			return roadmapErrorMsg{err: err}
		}
		return feedbackChangedMsg{}
	}
}

// deleteFeedback deletes an item
func (v RoadmapView) deleteFeedback(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := writeContext()
		defer cancel()
		if err := v.db.DeleteFeedback(ctx, id); err != nil {
			return roadmapErrorMsg{err: err}
		}
		return feedbackChangedMsg{}
	}
}

func (v RoadmapView) notifyShipped(item model.Feedback) tea.Cmd {
	if v.notifier == nil {
		return nil
	}
	n := v.notifier
	return func() tea.Msg {
		if err := n.SendStatusChanged(item, model.StatusDone); err != nil {
			v.log.WithError(err).Debug("notification failed")
		}
		return nil
	}
}

func (v RoadmapView) notifySaveFailed(item model.Feedback, err error) tea.Cmd {
	if v.notifier == nil {
		return nil
	}
	n := v.notifier
	return func() tea.Msg {
		if nerr := n.SendSaveFailed(item.Title, err); nerr != nil {
			v.log.WithError(nerr).Debug("notification failed")
		}
		return nil
	}
}

// visibleItems returns a column's items after the search filter
func (v RoadmapView) visibleItems(col int) []model.Feedback {
	keys := v.board.Keys()
	if col < 0 || col >= len(keys) {
		return nil
	}
	return model.FeedbackFilter{Search: v.searchFilter}.Apply(v.board.Items(keys[col]))
}

// currentItem returns the item under the cursor
func (v RoadmapView) currentItem() (model.Feedback, bool) {
	items := v.visibleItems(v.currentColumn)
	if v.cursorRow < 0 || v.cursorRow >= len(items) {
		return model.Feedback{}, false
	}
	return items[v.cursorRow], true
}

// clampCursor ensures cursor is valid for current column
func (v *RoadmapView) clampCursor() {
	if last := len(v.board.Keys()) - 1; v.currentColumn > last {
		v.currentColumn = last
	}
	if v.currentColumn < 0 {
		v.currentColumn = 0
	}
	n := len(v.visibleItems(v.currentColumn))
	if v.cursorRow >= n {
		v.cursorRow = n - 1
	}
	if v.cursorRow < 0 {
		v.cursorRow = 0
	}
	v.ensureCursorVisible()
}

// ensureCursorVisible adjusts scroll to keep cursor in view
func (v *RoadmapView) ensureCursorVisible() {
	if v.currentColumn >= len(v.columnScroll) {
		return
	}
	visible := v.visibleItemCount()
	col := v.currentColumn

	if v.cursorRow >= v.columnScroll[col]+visible {
		v.columnScroll[col] = v.cursorRow - visible + 1
	}
	if v.cursorRow < v.columnScroll[col] {
		v.columnScroll[col] = v.cursorRow
	}
}

// visibleItemCount returns how many cards fit in a column. Two lines are
// kept for the scroll indicators.
func (v RoadmapView) visibleItemCount() int {
	n := v.height - 7
	if n < 1 {
		return 1
	}
	return n
}

// layout returns the first visible column, how many columns fit and the
// inner width of each. The window follows the drop target while dragging.
func (v RoadmapView) layout() (start, count, colWidth int) {
	total := len(v.board.Keys())
	if total == 0 {
		return 0, 0, roadmapMinColWidth
	}

	count = v.width / (roadmapMinColWidth + 2)
	if count < 1 {
		count = 1
	}
	if count > total {
		count = total
	}

	colWidth = v.width/count - 2
	if colWidth < roadmapMinColWidth {
		colWidth = roadmapMinColWidth
	}

	focus := v.currentColumn
	if v.dragging() {
		focus = v.dropTarget
	}
	start = (focus / count) * count
	if start+count > total {
		start = total - count
	}
	return start, count, colWidth
}

// hitTest maps a point in the view to a column index and the row of the
// card under it. row is -1 when the point is on the column but not on a card.
func (v RoadmapView) hitTest(x, y int) (col, row int, ok bool) {
	start, count, colWidth := v.layout()
	if count == 0 || x < 0 || y < 0 {
		return -1, -1, false
	}

	// header row, bordered column body
	bottom := 1 + (v.height - 3) + 2
	if y >= bottom {
		return -1, -1, false
	}

	idx := x / (colWidth + 2)
	if idx >= count {
		return -1, -1, false
	}
	col = start + idx

	row = -1
	line := y - roadmapContentTop
	scroll := v.columnScroll[col]
	if scroll > 0 {
		line--
	}
	if line >= 0 && line < v.visibleItemCount() {
		if i := scroll + line; i < len(v.visibleItems(col)) {
			row = i
		}
	}
	return col, row, true
}

// View renders the roadmap
func (v RoadmapView) View() string {
	if v.width == 0 || v.height == 0 {
		return "Loading..."
	}

	t := theme.Current.Theme
	styles := theme.Current.Styles
	start, count, colWidth := v.layout()
	columns := v.board.Columns()
	activeID := v.board.ActiveID()
	visible := v.visibleItemCount()

	var headers, cols []string
	for i := start; i < start+count; i++ {
		column := columns[i]
		items := v.visibleItems(i)
		isActiveCol := i == v.currentColumn
		isTarget := v.dragging() && i == v.dropTarget

		label := fmt.Sprintf("%s %s (%d)", column.Status.Icon, column.Status.Label, len(items))
		if total := v.board.Len(column.Key); v.searchFilter != "" && len(items) != total {
			label = fmt.Sprintf("%s %s (%d/%d)", column.Status.Icon, column.Status.Label, len(items), total)
		}
		hs := lipgloss.NewStyle().
			Bold(true).
			Foreground(t.StatusColor(column.Status.Status)).
			Width(colWidth + 2).
			Align(lipgloss.Center)
		if isActiveCol {
			hs = hs.Background(t.Highlight)
		}
		headers = append(headers, hs.Render(label))

		scroll := v.columnScroll[i]
		from, to := scroll, scroll+visible
		if from > len(items) {
			from = len(items)
		}
		if to > len(items) {
			to = len(items)
		}

		var lines []string
		if scroll > 0 {
			lines = append(lines, lipgloss.NewStyle().
				Foreground(t.Subtle).
				Width(colWidth).
				Align(lipgloss.Center).
				Render(fmt.Sprintf("↑ %d more", scroll)))
		}
		for j := from; j < to; j++ {
			item := items[j]
			style := styles.ItemNormal
			switch {
			case item.ID == activeID:
				style = styles.ItemDragging
			case isActiveCol && j == v.cursorRow:
				style = styles.ItemSelected
			case item.Status == model.StatusDone || item.Status == model.StatusClosed:
				style = styles.ItemDone
			}
			lines = append(lines, style.Width(colWidth).Render(v.renderCard(item, colWidth)))
		}
		if to < len(items) {
			lines = append(lines, lipgloss.NewStyle().
				Foreground(t.Subtle).
				Width(colWidth).
				Align(lipgloss.Center).
				Render(fmt.Sprintf("↓ %d more", len(items)-to)))
		}

		content := strings.Join(lines, "\n")
		if len(items) == 0 {
			content = lipgloss.NewStyle().Foreground(t.Subtle).Italic(true).Render("(empty)")
		}

		cs := lipgloss.NewStyle().
			Width(colWidth).
			Height(v.height - 3).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Border)
		switch {
		case isTarget:
			cs = cs.BorderForeground(t.DropTarget)
		case isActiveCol:
			cs = cs.BorderForeground(t.Primary)
		}
		cols = append(cols, cs.Render(content))
	}

	headerRow := lipgloss.JoinHorizontal(lipgloss.Top, headers...)
	columnsRow := lipgloss.JoinHorizontal(lipgloss.Top, cols...)
	return lipgloss.JoinVertical(lipgloss.Left, headerRow, columnsRow, v.renderFooter(start, count))
}

// renderCard renders a single line card: upvotes, title, tags
func (v RoadmapView) renderCard(item model.Feedback, width int) string {
	styles := theme.Current.Styles

	votes := fmt.Sprintf("▲%d", item.Upvotes)
	if item.HasUpvoted {
		votes = styles.UpvotesActive.Render(votes)
	} else {
		votes = styles.Upvotes.Render(votes)
	}

	var tags []string
	for _, tag := range item.Tags {
		tags = append(tags, tag.DisplayName())
	}
	tagStr := strings.Join(tags, " ")

	maxTitle := width - 8 - lipgloss.Width(tagStr)
	if maxTitle < 10 {
		maxTitle = 10
		tagStr = ""
	}
	title := truncateTitle(item.Title, maxTitle)

	card := votes + " " + title
	if tagStr != "" {
		card += " " + lipgloss.NewStyle().Foreground(theme.Current.Theme.Info).Render(tagStr)
	}
	return card
}

func (v RoadmapView) renderFooter(start, count int) string {
	t := theme.Current.Theme

	inputStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(0, 1).
		Width(v.width - 4)

	switch v.mode {
	case RoadmapModeAdd:
		return inputStyle.Render("Add feedback: " + v.textInput.View())
	case RoadmapModeSearch:
		return inputStyle.Render("Search: " + v.textInput.View())
	case RoadmapModeConfirmDelete:
		title := ""
		if _, item, ok := v.board.Locate(v.deleteID); ok {
			title = item.Title
		}
		return lipgloss.NewStyle().Foreground(t.Error).Bold(true).
			Render(fmt.Sprintf("Delete '%s'? (y/n)", title))
	}

	if v.errMsg != "" {
		return lipgloss.NewStyle().Foreground(t.Error).Render(v.errMsg)
	}
	if active, ok := v.board.ActiveItem(); ok {
		target := ""
		if cols := v.board.Columns(); v.dropTarget >= 0 && v.dropTarget < len(cols) {
			target = cols[v.dropTarget].Status.Label
		}
		return lipgloss.NewStyle().Foreground(t.Dragging).
			Render(fmt.Sprintf("Moving '%s' → %s  (h/l: target • enter: drop • esc: cancel)", active.Title, target))
	}
	if v.statusMsg != "" {
		return lipgloss.NewStyle().Foreground(t.Info).Render(v.statusMsg)
	}

	var hint string
	if total := len(v.board.Keys()); count < total {
		hint = lipgloss.NewStyle().Foreground(t.Info).
			Render(fmt.Sprintf("[%d-%d/%d] ", start+1, start+count, total))
	}
	if v.searchFilter != "" {
		hint += lipgloss.NewStyle().Foreground(t.Info).Render("[Search: "+v.searchFilter+"] ") +
			lipgloss.NewStyle().Foreground(t.Subtle).Render("esc: clear")
		return hint
	}
	hint += lipgloss.NewStyle().Foreground(t.Subtle).Render(fmt.Sprintf("%d items • ", v.board.Total()))
	return hint + lipgloss.NewStyle().Foreground(t.Subtle).
		Render("space: grab • H/L: move • s: status • u: upvote • a: add • d: del • /: search")
}

// IsDragging returns whether an item is held
func (v RoadmapView) IsDragging() bool {
	return v.dragging()
}

// IsInputMode returns whether the view is in input mode
func (v RoadmapView) IsInputMode() bool {
	return v.mode == RoadmapModeAdd ||
		v.mode == RoadmapModeSearch ||
		v.mode == RoadmapModeConfirmDelete
}
