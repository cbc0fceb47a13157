package panel

import (
	"strconv"

	"github.com/ftahirops/ptop/ui/theme"
)

// Item is one selectable row. Key identifies the row across structural
// changes to its List.
type Item interface {
	Key() int
	Label() string
}

// Displayer is implemented by items that draw themselves with styles.
// Items without it are drawn as their Label.
type Displayer interface {
	Display(rs *theme.RichString)
}

// ListItem is a plain text row.
type ListItem struct {
	Text   string
	ID     int
	Moving bool
}

// NewListItem returns a row showing text with identity key.
func NewListItem(text string, key int) *ListItem {
	return &ListItem{Text: text, ID: key}
}

func (i *ListItem) Key() int      { return i.ID }
func (i *ListItem) Label() string { return i.Text }

func (i *ListItem) Display(rs *theme.RichString) {
	if i.Moving {
		rs.Append(theme.PanelSelectionFollow, "↕ ")
	}
	rs.Append(theme.DefaultColor, i.Text)
}

// CheckItem toggles a bool it points at. Radio items belong to a group in
// which exactly one is set.
type CheckItem struct {
	Text  string
	ID    int
	Value *bool
	Radio bool
}

// NewCheckItem returns a check box bound to value.
func NewCheckItem(text string, value *bool) *CheckItem {
	return &CheckItem{Text: text, Value: value}
}

func (i *CheckItem) Key() int      { return i.ID }
func (i *CheckItem) Label() string { return i.Text }

// Checked reports the bound value.
func (i *CheckItem) Checked() bool { return i.Value != nil && *i.Value }

// Toggle flips the bound value.
func (i *CheckItem) Toggle() {
	if i.Value != nil {
		*i.Value = !*i.Value
	}
}

func (i *CheckItem) Display(rs *theme.RichString) {
	left, right := "[", "] "
	if i.Radio {
		left, right = "(", ") "
	}
	mark := " "
	if i.Checked() {
		mark = "x"
		if i.Radio {
			mark = "*"
		}
	}
	rs.Append(theme.CheckBox, left)
	rs.Append(theme.CheckMark, mark)
	rs.Append(theme.CheckBox, right)
	rs.Append(theme.CheckText, i.Text)
}

// NumberItem edits an int it points at within [Min, Max].
type NumberItem struct {
	Text     string
	ID       int
	Value    *int
	Min, Max int
	Step     int
	// Scale divides the value for display; 10 shows tenths.
	Scale int
}

// NewNumberItem returns a number field bound to value.
func NewNumberItem(text string, value *int, lo, hi int) *NumberItem {
	return &NumberItem{Text: text, Value: value, Min: lo, Max: hi, Step: 1}
}

func (i *NumberItem) Key() int      { return i.ID }
func (i *NumberItem) Label() string { return i.Text }

// Add moves the value by n steps, clamped to the bounds. It reports whether
// the value changed.
func (i *NumberItem) Add(n int) bool {
	if i.Value == nil {
		return false
	}
	step := max(i.Step, 1)
	v := min(max(*i.Value+n*step, i.Min), i.Max)
	if v == *i.Value {
		return false
	}
	*i.Value = v
	return true
}

// Set stores v if it lies within bounds.
func (i *NumberItem) Set(v int) bool {
	if i.Value == nil || v < i.Min || v > i.Max {
		return false
	}
	*i.Value = v
	return true
}

func (i *NumberItem) Display(rs *theme.RichString) {
	v := 0
	if i.Value != nil {
		v = *i.Value
	}
	text := strconv.Itoa(v)
	if i.Scale > 1 {
		text = strconv.FormatFloat(float64(v)/float64(i.Scale), 'f', 1, 64)
	}
	rs.Append(theme.CheckBox, "[")
	rs.Append(theme.CheckMark, text)
	rs.Append(theme.CheckBox, "] ")
	rs.Append(theme.CheckText, i.Text)
}
