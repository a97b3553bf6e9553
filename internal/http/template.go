package http

import (
	"embed"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templateFS embed.FS

// templates implements echo.Renderer over the embedded pages.
type templates struct {
	t *template.Template
}

func newTemplates() *templates {
	return &templates{t: template.Must(template.ParseFS(templateFS, "templates/*.html"))}
}

func (t *templates) Render(w io.Writer, name string, data any, _ echo.Context) error {
	return t.t.ExecuteTemplate(w, name, data)
}
