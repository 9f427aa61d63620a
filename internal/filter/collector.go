// Package filter turns the state of the genre filter form into query criteria.
package filter

import "strings"

// GenreField is the checkbox name used for genre selection
const GenreField = "genero"

// Checkbox is one checkbox input of the filter form
type Checkbox struct {
	Name    string
	Value   string
	Checked bool
}

// Form exposes the checkboxes of a filter form in document order
type Form interface {
	Checkboxes() []Checkbox
}

// Checkboxes is a static Form
type Checkboxes []Checkbox

// Checkboxes implements Form
func (c Checkboxes) Checkboxes() []Checkbox { return c }

// CollectGenres returns the values of the checked genre checkboxes joined by
// commas, in document order. Returns "" when nothing is checked or form is nil.
// Values are passed through unvalidated.
func CollectGenres(form Form) string {
	if form == nil {
		return ""
	}

	var values []string
	for _, cb := range form.Checkboxes() {
		if cb.Name == GenreField && cb.Checked {
			values = append(values, cb.Value)
		}
	}
	return strings.Join(values, ",")
}

// SplitGenres parses a comma-joined genre list, dropping blanks
func SplitGenres(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			ids = append(ids, p)
		}
	}
	return ids
}
