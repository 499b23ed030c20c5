// Package render turns posts into HTML: the list page with its cards,
// tag bar and pagination, and the detail page whose body goes through
// markdown and syntax highlighting.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/njwon19/velolog/internal/velolog"
	"github.com/njwon19/velolog/internal/view"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

type (
	// Renderer holds the parsed templates and the markdown pipeline.
	Renderer struct {
		tmpl *template.Template
		md   goldmark.Markdown
	}

	// ListPageData is everything the list page shows.
	ListPageData struct {
		Result view.Result
		Tags   []string
		Query  view.Query
	}

	// DetailPageData is everything the detail page shows. Body is the
	// post body already rendered to HTML.
	DetailPageData struct {
		Post velolog.Post
		Body template.HTML
	}
)

func New() (*Renderer, error) {
	tmpl := template.New("").Funcs(template.FuncMap{
		"formatDate": FormatDate,
		"pages":      pageSeq,
		"inc":        func(n int) int { return n + 1 },
		"dec":        func(n int) int { return n - 1 },
	})
	tmpl, err := tmpl.ParseFS(templatesFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("error parsing templates: %w", err)
	}

	return &Renderer{
		tmpl: tmpl,
		// Line-break-preserving, github-flavored parsing, plus
		// highlighting over fenced code blocks
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				highlighting.NewHighlighting(
					highlighting.WithStyle("github"),
				),
			),
			goldmark.WithRendererOptions(
				html.WithHardWraps(),
			),
		),
	}, nil
}

// ListPage writes the full list page.
func (r *Renderer) ListPage(w io.Writer, data ListPageData) error {
	if err := r.tmpl.ExecuteTemplate(w, "list.tmpl", data); err != nil {
		return fmt.Errorf("error rendering list page: %w", err)
	}
	return nil
}

// DetailPage writes the full detail page.
func (r *Renderer) DetailPage(w io.Writer, data DetailPageData) error {
	if err := r.tmpl.ExecuteTemplate(w, "detail.tmpl", data); err != nil {
		return fmt.Errorf("error rendering detail page: %w", err)
	}
	return nil
}

// Body renders a post's raw markdown body to HTML.
//
// This is the one spot where stored text is trusted as markup: bodies
// only ever arrive through the authenticated sync path, so escaping is
// left to the markdown renderer itself.
func (r *Renderer) Body(markdown string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("error rendering markdown: %w", err)
	}

	return template.HTML(buf.String()), nil
}

// FormatDate renders a display date the way the blog always has:
// "2024. 03. 01." A zero time gets an explicit placeholder instead of a
// nonsense date.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "unknown date"
	}
	return t.Format("2006. 01. 02.")
}

// pageSeq is 1..n for the pagination buttons. One button per page; fine
// at this blog's size, unwieldy past a few dozen pages.
func pageSeq(n int) []int {
	seq := make([]int, n)
	for i := range seq {
		seq[i] = i + 1
	}
	return seq
}
