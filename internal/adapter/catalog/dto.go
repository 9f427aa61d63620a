package catalog

import (
	"html"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/mmcdole/marquee/internal/domain"
)

// ItemDTO is the wire shape of one catalog item.
// Pointer fields distinguish null from empty.
type ItemDTO struct {
	ID        int      `json:"id"`
	Titulo    string   `json:"titulo"`
	PosterURL *string  `json:"poster_url"`
	Sinopse   *string  `json:"sinopse"`
	Data      *string  `json:"data_lancamento"`
	Nota      *float64 `json:"nota"`
	Tipo      string   `json:"tipo"`
	Generos   []any    `json:"generos"`
}

var textPolicy = bluemonday.StrictPolicy()

// MapItems converts DTOs into domain items, preserving order
func MapItems(dtos []ItemDTO) []domain.CatalogItem {
	items := make([]domain.CatalogItem, 0, len(dtos))
	for _, d := range dtos {
		items = append(items, MapItem(d))
	}
	return items
}

// MapItem converts one DTO into a domain item
func MapItem(d ItemDTO) domain.CatalogItem {
	item := domain.CatalogItem{
		ID:    d.ID,
		Title: d.Titulo,
		Kind:  d.Tipo,
	}
	if d.PosterURL != nil {
		item.PosterURL = strings.TrimSpace(*d.PosterURL)
	}
	if d.Sinopse != nil {
		item.Synopsis = sanitizeText(*d.Sinopse)
	}
	if d.Data != nil {
		item.ReleaseDate = *d.Data
	}
	if d.Nota != nil {
		item.Rating = *d.Nota
	}
	for _, g := range d.Generos {
		if id := genreID(g); id != "" {
			item.GenreIDs = append(item.GenreIDs, id)
		}
	}
	return item
}

// sanitizeText strips markup some upstream catalogs embed in descriptions.
// The policy escapes entities, so they are decoded back to plain text.
func sanitizeText(s string) string {
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(s)))
}

// genreID accepts genres as ids (number or string) or {id, name} objects
func genreID(v any) string {
	switch g := v.(type) {
	case string:
		return g
	case float64:
		return strconv.FormatFloat(g, 'f', -1, 64)
	case map[string]any:
		if id, ok := g["id"]; ok {
			return genreID(id)
		}
	}
	return ""
}
