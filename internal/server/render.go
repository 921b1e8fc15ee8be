package server

import (
	// embed is required for go:embed directives
	_ "embed"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
)

//go:embed templates/index.html
var indexTemplateSrc string

var indexTemplate = template.Must(template.New("index").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(indexTemplateSrc))

// pageData feeds the form page.
type pageData struct {
	Table         string
	MaxGroupCodes int
	GroupCount    int
	Date          string
	GroupCodes    []string

	Error string
	Hint  string

	Count         int
	Queries       string
	DownloadURL   string
	DownloadError string
}

// templateRenderer adapts html/template to echo.Renderer.
type templateRenderer struct {
	tmpl *template.Template
}

func (r *templateRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return r.tmpl.ExecuteTemplate(w, name, data)
}
