package domain

import "context"

// PageQuery selects one page of a catalog list
type PageQuery struct {
	List   List
	Page   int
	Genres string // Comma-joined genre ids, empty when no filter is active
}

// Path returns the endpoint path for the query. Filterable lists always use
// their filtered endpoint, with the genre parameter omitted when empty.
func (q PageQuery) Path() string {
	if q.List.Filterable() {
		return q.List.FilterPath
	}
	return q.List.Path
}

// PageFetcher retrieves pages of catalog items (implemented by the catalog client)
type PageFetcher interface {
	FetchPage(ctx context.Context, q PageQuery) ([]CatalogItem, error)
}

// Renderer receives posters produced by pagination.
// The terminal grid and the HTML export both implement it.
type Renderer interface {
	// Append adds a poster after the existing ones
	Append(p Poster)

	// Clear removes every poster and any empty message
	Clear()

	// ShowEmptyMessage replaces the grid contents with a message
	ShowEmptyMessage(msg string)
}
