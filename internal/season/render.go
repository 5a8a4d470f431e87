package season

import (
	"embed"
	"errors"
	"html/template"
	"io"
)

//go:embed templates/page.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.html"))

// Page is the view model of the HTML search page.
type Page struct {
	City    string
	Date    string
	Cities  []string
	Result  *Result
	Message string
	Details string
}

// NewPage builds the page for a finished query. With err set, the page shows
// the matching user message; an empty result shows the empty message.
func NewPage(q Query, result Result, err error, cities []string) Page {
	p := Page{City: q.City, Cities: cities}
	if !q.Date.IsZero() {
		p.Date = q.Date.Format(DateLayout)
	}

	switch {
	case err != nil:
		_, p.Message, _ = Describe(err)
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			p.Details = loadErr.Cause.Error()
		}
	case result.Empty:
		p.Message = MessageEmpty
	default:
		p.Result = &result
	}
	return p
}

// Render writes the HTML page.
func Render(w io.Writer, p Page) error {
	return pageTemplate.Execute(w, p)
}
