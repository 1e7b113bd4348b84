// Package board keeps a roadmap's feedback items grouped into status columns
// and applies drag gestures to that grouping.
//
// A Board is owned by a single view and is not safe for concurrent use. Every
// item id lives in exactly one column; the operations below are the only
// mutators and none of them can duplicate or drop an item.
package board

import (
	"strings"

	"github.com/dori/feedhub/internal/model"
)

// ColumnKey identifies a column: the lower-cased status label
type ColumnKey string

// KeyFor derives the column key for a status label
func KeyFor(label string) ColumnKey {
	return ColumnKey(strings.ToLower(strings.TrimSpace(label)))
}

// Column is a read-only snapshot of one board column
type Column struct {
	Key    ColumnKey
	Status model.StatusInfo
	Items  []model.Feedback
}

// Move describes a relocation performed by EndDrag or Apply. It is what a
// persistence adapter needs to record the new status.
type Move struct {
	ItemID string
	From   ColumnKey
	To     ColumnKey
	Status model.Status
}

// Board is the column grouping of a roadmap
type Board struct {
	keys     []ColumnKey
	statuses map[ColumnKey]model.StatusInfo
	columns  map[ColumnKey][]model.Feedback
	owner    map[string]ColumnKey

	active   *model.Feedback
	activeID string
}

// New builds a board whose columns are derived from statuses, in order, and
// fills them from an initial grouping keyed by column key. Items filed under
// a key that is not a column, and repeated ids after their first occurrence,
// are left out.
func New(statuses []model.StatusInfo, grouping map[ColumnKey][]model.Feedback) *Board {
	b := &Board{
		statuses: make(map[ColumnKey]model.StatusInfo, len(statuses)),
		columns:  make(map[ColumnKey][]model.Feedback, len(statuses)),
		owner:    make(map[string]ColumnKey),
	}

	for _, s := range statuses {
		key := KeyFor(s.Label)
		if _, dup := b.statuses[key]; dup {
			continue
		}
		b.keys = append(b.keys, key)
		b.statuses[key] = s
		b.columns[key] = nil
	}

	for _, key := range b.keys {
		for _, item := range grouping[key] {
			b.insert(key, item)
		}
	}

	return b
}

// FromItems partitions a flat list by status. Items whose status has no
// column land in the first column.
func FromItems(statuses []model.StatusInfo, items []model.Feedback) *Board {
	b := New(statuses, nil)
	if len(b.keys) == 0 {
		return b
	}
	for _, item := range items {
		key, ok := b.keyForStatus(item.Status)
		if !ok {
			key = b.keys[0]
		}
		b.insert(key, item)
	}
	return b
}

// insert appends item to column key unless its id is already on the board
func (b *Board) insert(key ColumnKey, item model.Feedback) {
	if item.ID == "" {
		return
	}
	if _, exists := b.owner[item.ID]; exists {
		return
	}
	item = item.Clone()
	item.Status = b.statuses[key].Status
	b.columns[key] = append(b.columns[key], item)
	b.owner[item.ID] = key
}

// keyForStatus maps a status value to the column that holds it
func (b *Board) keyForStatus(s model.Status) (ColumnKey, bool) {
	for _, key := range b.keys {
		if b.statuses[key].Status == s {
			return key, true
		}
	}
	// Fall back to matching by label, for status sets whose values differ
	// from their lower-cased labels.
	key := KeyFor(string(s))
	_, ok := b.statuses[key]
	return key, ok
}

// Keys returns the column keys in display order
func (b *Board) Keys() []ColumnKey {
	out := make([]ColumnKey, len(b.keys))
	copy(out, b.keys)
	return out
}

// Column returns a snapshot of one column
func (b *Board) Column(key ColumnKey) (Column, bool) {
	info, ok := b.statuses[key]
	if !ok {
		return Column{}, false
	}
	return Column{Key: key, Status: info, Items: cloneItems(b.columns[key])}, true
}

// Columns returns snapshots of every column in display order
func (b *Board) Columns() []Column {
	out := make([]Column, 0, len(b.keys))
	for _, key := range b.keys {
		col, _ := b.Column(key)
		out = append(out, col)
	}
	return out
}

// Items returns the items of column key; the slice is a copy
func (b *Board) Items(key ColumnKey) []model.Feedback {
	return cloneItems(b.columns[key])
}

// Len returns the number of items in column key
func (b *Board) Len(key ColumnKey) int {
	return len(b.columns[key])
}

// Total returns the number of items on the board
func (b *Board) Total() int {
	return len(b.owner)
}

// Locate finds the column holding itemID and the item itself
func (b *Board) Locate(itemID string) (ColumnKey, model.Feedback, bool) {
	key, ok := b.owner[itemID]
	if !ok {
		return "", model.Feedback{}, false
	}
	idx := indexOf(b.columns[key], itemID)
	if idx < 0 {
		return "", model.Feedback{}, false
	}
	return key, b.columns[key][idx].Clone(), true
}

// BeginDrag marks itemID as the item being dragged. Unknown ids are ignored.
func (b *Board) BeginDrag(itemID string) {
	_, item, ok := b.Locate(itemID)
	if !ok {
		return
	}
	b.active = &item
	b.activeID = itemID
}

// CancelDrag ends a gesture without moving anything
func (b *Board) CancelDrag() {
	b.active = nil
	b.activeID = ""
}

// EndDrag drops itemID onto column target. The item leaves its column, the
// order of the remaining items is kept, and it is appended to the end of
// target. Nothing happens when the item is unknown, the target is not a
// column, or the target is the column the item already sits in; ok is false
// in those cases. The active item is cleared either way.
func (b *Board) EndDrag(itemID string, target ColumnKey) (Move, bool) {
	defer b.CancelDrag()
	return b.relocate(itemID, target)
}

// ActiveItem returns the item mid-drag, if any
func (b *Board) ActiveItem() (model.Feedback, bool) {
	if b.active == nil {
		return model.Feedback{}, false
	}
	return b.active.Clone(), true
}

// ActiveID returns the id of the item mid-drag, or ""
func (b *Board) ActiveID() string {
	return b.activeID
}

// Apply replaces the stored copy of item with the given fields, matching by
// id. A changed status moves the item to the end of its new column. Unknown
// items and statuses without a column are rejected.
func (b *Board) Apply(item model.Feedback) (Move, bool) {
	from, ok := b.owner[item.ID]
	if !ok {
		return Move{}, false
	}
	to, ok := b.keyForStatus(item.Status)
	if !ok {
		return Move{}, false
	}

	idx := indexOf(b.columns[from], item.ID)
	if idx < 0 {
		return Move{}, false
	}
	item = item.Clone()
	item.Status = b.statuses[from].Status
	b.columns[from][idx] = item

	move, ok := Move{}, true
	if to != from {
		move, ok = b.relocate(item.ID, to)
	}
	if b.activeID == item.ID {
		if _, current, found := b.Locate(item.ID); found {
			b.active = &current
		}
	}
	return move, ok
}

// relocate moves itemID to the end of target, returning the move on success
func (b *Board) relocate(itemID string, target ColumnKey) (Move, bool) {
	from, ok := b.owner[itemID]
	if !ok {
		return Move{}, false
	}
	info, ok := b.statuses[target]
	if !ok || target == from {
		return Move{}, false
	}

	src := b.columns[from]
	idx := indexOf(src, itemID)
	if idx < 0 {
		return Move{}, false
	}
	item := src[idx]

	rest := make([]model.Feedback, 0, len(src)-1)
	rest = append(rest, src[:idx]...)
	rest = append(rest, src[idx+1:]...)
	b.columns[from] = rest

	item.Status = info.Status
	b.columns[target] = append(b.columns[target], item)
	b.owner[itemID] = target

	return Move{ItemID: itemID, From: from, To: target, Status: info.Status}, true
}

// Grouping returns a copy of the board as a key -> items map
func (b *Board) Grouping() map[ColumnKey][]model.Feedback {
	out := make(map[ColumnKey][]model.Feedback, len(b.keys))
	for _, key := range b.keys {
		out[key] = cloneItems(b.columns[key])
	}
	return out
}

func indexOf(items []model.Feedback, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneItems(items []model.Feedback) []model.Feedback {
	out := make([]model.Feedback, len(items))
	for i := range items {
		out[i] = items[i].Clone()
	}
	return out
}
