package session

// AddNewSentinel is the picker entry that switches to the inline
// add-category field. It is never a legal category value.
const AddNewSentinel = "__add_new__"

type pickerState int

const (
	picking pickerState = iota
	addingNew
)

// CategoryPicker drives the two-state category picker: normally picking
// from the vocabulary, temporarily collecting a new name after the user
// chooses the "add new" sentinel.
type CategoryPicker struct {
	set      *CategorySet
	state    pickerState
	selected string
	input    string
}

func NewCategoryPicker(set *CategorySet) *CategoryPicker {
	return &CategoryPicker{set: set, selected: set.First()}
}

// Select changes the picked category. Selecting the sentinel enters adding
// mode and keeps the previous selection in place instead of the sentinel.
func (p *CategoryPicker) Select(value string) {
	if value == AddNewSentinel {
		p.state = addingNew
		return
	}
	p.selected = value
}

// Adding reports whether the inline add field is showing.
func (p *CategoryPicker) Adding() bool {
	return p.state == addingNew
}

// SetInput updates the pending new-category text.
func (p *CategoryPicker) SetInput(text string) {
	p.input = text
}

func (p *CategoryPicker) Input() string {
	return p.input
}

// Cancel leaves adding mode and discards the pending input.
func (p *CategoryPicker) Cancel() {
	p.state = picking
	p.input = ""
}

// Confirm runs the add-category logic on the pending input. A blank or
// duplicate name adds nothing but still leaves adding mode; otherwise the
// new category is appended to the vocabulary and selected.
func (p *CategoryPicker) Confirm() {
	if added, ok := p.set.Add(p.input); ok {
		p.selected = added
	}
	p.state = picking
	p.input = ""
}

func (p *CategoryPicker) Selected() string {
	return p.selected
}

// Categories returns the vocabulary backing the picker.
func (p *CategoryPicker) Categories() []string {
	return p.set.Items()
}
