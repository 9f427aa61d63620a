// Package poster converts catalog items into posters and provides renderers for them.
package poster

import (
	"strings"

	"github.com/mmcdole/marquee/internal/domain"
)

// DefaultHref is the link target used when an item has no detail page
const DefaultHref = "#"

// FromItem builds the poster for an item. Items without a poster URL
// produce no poster and ok is false; this is not an error.
func FromItem(item domain.CatalogItem) (p domain.Poster, ok bool) {
	if !item.HasPoster() {
		return domain.Poster{}, false
	}
	return domain.Poster{
		Title:    item.Title,
		ImageURL: strings.TrimSpace(item.PosterURL),
		Href:     DefaultHref,
		Lazy:     true,
		Item:     item,
	}, true
}

// Mapper converts an item to a poster; FromItem is the default
type Mapper func(domain.CatalogItem) (domain.Poster, bool)

// Recorder is an in-memory renderer that keeps posters in order
type Recorder struct {
	Posters      []domain.Poster
	EmptyMessage string
	Clears       int
}

// Append implements domain.Renderer
func (r *Recorder) Append(p domain.Poster) {
	r.EmptyMessage = ""
	r.Posters = append(r.Posters, p)
}

// Clear implements domain.Renderer
func (r *Recorder) Clear() {
	r.Posters = nil
	r.EmptyMessage = ""
	r.Clears++
}

// ShowEmptyMessage implements domain.Renderer
func (r *Recorder) ShowEmptyMessage(msg string) {
	r.Posters = nil
	r.EmptyMessage = msg
}

// Titles returns the titles of the recorded posters
func (r *Recorder) Titles() []string {
	titles := make([]string, len(r.Posters))
	for i, p := range r.Posters {
		titles[i] = p.Title
	}
	return titles
}
