package panel

import "slices"

// List is an ordered sequence of items. Indices are only valid until the
// next Insert, RemoveAt or Sort; resolve rows by Key afterwards.
type List struct {
	items []Item
}

// NewList returns a list holding items.
func NewList(items ...Item) *List {
	return &List{items: slices.Clone(items)}
}

// Len returns the number of items.
func (l *List) Len() int { return len(l.items) }

// Get returns the item at i, or nil when i is out of range.
func (l *List) Get(i int) Item {
	if i < 0 || i >= len(l.items) {
		return nil
	}
	return l.items[i]
}

// Items returns the backing slice. Callers must not retain it across
// mutations.
func (l *List) Items() []Item { return l.items }

// Add appends it.
func (l *List) Add(it Item) { l.items = append(l.items, it) }

// Insert places it at i, clamped to [0, Len].
func (l *List) Insert(i int, it Item) {
	i = min(max(i, 0), len(l.items))
	l.items = slices.Insert(l.items, i, it)
}

// RemoveAt deletes and returns the item at i, or nil when out of range.
func (l *List) RemoveAt(i int) Item {
	if i < 0 || i >= len(l.items) {
		return nil
	}
	it := l.items[i]
	l.items = slices.Delete(l.items, i, i+1)
	return it
}

// Set replaces the item at i.
func (l *List) Set(i int, it Item) {
	if i >= 0 && i < len(l.items) {
		l.items[i] = it
	}
}

// Replace swaps the contents for items.
func (l *List) Replace(items []Item) {
	l.items = append(l.items[:0], items...)
}

// Clear removes every item.
func (l *List) Clear() { l.items = l.items[:0] }

// Sort orders items stably by cmp.
func (l *List) Sort(cmp func(a, b Item) int) {
	slices.SortStableFunc(l.items, cmp)
}

// IndexOf returns the position of the item with key, or -1.
func (l *List) IndexOf(key int) int {
	return slices.IndexFunc(l.items, func(it Item) bool { return it.Key() == key })
}

// MoveUp swaps the item at i with its predecessor and returns its new index.
func (l *List) MoveUp(i int) int {
	if i <= 0 || i >= len(l.items) {
		return i
	}
	l.items[i-1], l.items[i] = l.items[i], l.items[i-1]
	return i - 1
}

// MoveDown swaps the item at i with its successor and returns its new index.
func (l *List) MoveDown(i int) int {
	if i < 0 || i >= len(l.items)-1 {
		return i
	}
	l.items[i+1], l.items[i] = l.items[i], l.items[i+1]
	return i + 1
}
