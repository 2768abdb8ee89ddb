package report

// Selection tracks which categories are toggled on in a comparison chart.
//
// Until the user toggles anything, the selection simply mirrors the top
// categories of the latest breakdown. The first manual toggle marks it
// touched; from then on it belongs to the user and recomputes never
// overwrite it, even if the user has deselected everything.
type Selection struct {
	chosen  map[string]struct{}
	touched bool
}

// seedSize is how many top-breakdown categories an untouched selection picks.
const seedSize = 3

func NewSelection() *Selection {
	return &Selection{chosen: make(map[string]struct{})}
}

// Seed replaces an untouched selection with the top categories of the
// breakdown (already sorted descending). Every recompute calls it, so the
// defaults keep tracking the data as records arrive; a touched selection is
// left alone.
func (s *Selection) Seed(breakdown []CategoryTotal) {
	if s.touched {
		return
	}
	s.chosen = make(map[string]struct{})
	for i, ct := range breakdown {
		if i == seedSize {
			break
		}
		s.chosen[ct.Category] = struct{}{}
	}
}

// Toggle flips a category's membership and marks the selection touched.
func (s *Selection) Toggle(category string) {
	s.touched = true
	if _, ok := s.chosen[category]; ok {
		delete(s.chosen, category)
		return
	}
	s.chosen[category] = struct{}{}
}

func (s *Selection) Contains(category string) bool {
	_, ok := s.chosen[category]
	return ok
}

func (s *Selection) Len() int {
	return len(s.chosen)
}

// Ordered returns the selected subset of the given categories, preserving
// their order. Chart legends stay stable this way.
func (s *Selection) Ordered(categories []string) []string {
	var out []string
	for _, cat := range categories {
		if s.Contains(cat) {
			out = append(out, cat)
		}
	}
	return out
}
