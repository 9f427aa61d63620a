package poster

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"github.com/mmcdole/marquee/internal/domain"
)

var (
	posterTmpl = template.Must(template.New("poster").Parse(
		`<div class="item-poster"><a href="{{.Href}}"><img src="{{.ImageURL}}" alt="{{.Title}}"{{if .Lazy}} loading="lazy"{{end}}></a></div>`))

	emptyTmpl = template.Must(template.New("empty").Parse(
		`<p class="sem-resultados">{{.}}</p>`))
)

// GridClass is the CSS class of the grid container
const GridClass = "grade-posters"

// HTMLGrid renders posters as HTML fragments inside a grid container
type HTMLGrid struct {
	nodes [][]byte
	err   error
}

// NewHTMLGrid creates an empty HTML grid
func NewHTMLGrid() *HTMLGrid {
	return &HTMLGrid{}
}

// Append implements domain.Renderer
func (g *HTMLGrid) Append(p domain.Poster) {
	if g.isEmptyMessage() {
		g.nodes = nil
	}
	var buf bytes.Buffer
	if err := posterTmpl.Execute(&buf, p); err != nil {
		g.err = err
		return
	}
	g.nodes = append(g.nodes, buf.Bytes())
}

// Clear implements domain.Renderer
func (g *HTMLGrid) Clear() {
	g.nodes = nil
}

// ShowEmptyMessage implements domain.Renderer
func (g *HTMLGrid) ShowEmptyMessage(msg string) {
	var buf bytes.Buffer
	if err := emptyTmpl.Execute(&buf, msg); err != nil {
		g.err = err
		return
	}
	g.nodes = [][]byte{buf.Bytes()}
}

func (g *HTMLGrid) isEmptyMessage() bool {
	return len(g.nodes) == 1 && bytes.HasPrefix(g.nodes[0], []byte(`<p class="sem-resultados">`))
}

// Len returns the number of child nodes in the grid
func (g *HTMLGrid) Len() int {
	return len(g.nodes)
}

// WriteTo writes the grid container and its children to w
func (g *HTMLGrid) WriteTo(w io.Writer) (int64, error) {
	if g.err != nil {
		return 0, fmt.Errorf("rendering poster: %w", g.err)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "<div class=%q>\n", GridClass)
	for _, n := range g.nodes {
		buf.WriteString("  ")
		buf.Write(n)
		buf.WriteByte('\n')
	}
	buf.WriteString("</div>\n")
	return buf.WriteTo(w)
}
